package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"dropwire/drop-agent/internal/models"

	"go.uber.org/zap"
)

// APIClient handles communication with the drop backend.
type APIClient struct {
	baseURL    string
	deviceID   string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewAPIClient creates a new API client.
func NewAPIClient(baseURL, deviceID string, timeout time.Duration, logger *zap.Logger) *APIClient {
	return &APIClient{
		baseURL:  baseURL,
		deviceID: deviceID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// GetDevices fetches the raw drop interaction history. Records are returned
// exactly as the backend sent them; filtering is the caller's concern.
func (c *APIClient) GetDevices(ctx context.Context) ([]models.InteractionRecord, error) {
	url := fmt.Sprintf("%s/devices", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Failed to fetch devices",
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Backend error fetching devices",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(body)),
		)
		return nil, &APIError{
			Message:    fmt.Sprintf("backend returned status %d: %s", resp.StatusCode, string(body)),
			StatusCode: resp.StatusCode,
		}
	}

	var records []models.InteractionRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to parse devices response: %w", err)
	}

	c.logger.Info("Fetched devices",
		zap.Int("record_count", len(records)),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	)
	return records, nil
}

// UploadProfilePhoto submits a multipart body to the profile-photo endpoint.
// The Authorization header is set only when token is non-empty; the server is
// the authority on rejecting missing or stale credentials.
func (c *APIClient) UploadProfilePhoto(ctx context.Context, token string, body io.Reader, contentType string) error {
	url := fmt.Sprintf("%s/user/profile/photo", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-ID", c.deviceID)
	}

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	if err != nil {
		c.logger.Error("Failed to upload profile photo",
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		c.logger.Info("Profile photo uploaded",
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	c.logger.Error("Profile photo upload rejected",
		zap.Int("status_code", resp.StatusCode),
		zap.String("response", string(respBody)),
	)
	return &UploadError{StatusCode: resp.StatusCode}
}

// APIError is a non-2xx response from the discovery endpoint.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return e.Message
}

// UploadError is a non-2xx response from the profile-photo endpoint. The
// status code is surfaced to the user as the failure reason.
type UploadError struct {
	StatusCode int
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload failed with status %d", e.StatusCode)
}
