package platform

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dropwire/drop-agent/internal/picker"

	"go.uber.org/zap"
)

// webEnvironment mirrors a browser runtime: credentials sit in a
// localStorage-style key-value file, and the image reference is fetched into
// memory before being attached as a fixed-name blob.
type webEnvironment struct {
	store      *kvStore
	httpClient *http.Client
	logger     *zap.Logger
}

func newWebEnvironment(dataDir string, logger *zap.Logger) *webEnvironment {
	return &webEnvironment{
		store:      newKVStore(filepath.Join(dataDir, "local-storage.json")),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

func (e *webEnvironment) Name() string {
	return "web"
}

func (e *webEnvironment) Credentials() CredentialStore {
	return e.store
}

func (e *webEnvironment) EncodeUploadBody(ref *picker.ImageRef) (io.Reader, string, error) {
	data, err := e.fetchImage(ref.Path)
	if err != nil {
		return nil, "", err
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(uploadFieldName, "profile.jpg")
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	e.logger.Debug("Encoded upload body",
		zap.String("runtime", e.Name()),
		zap.Int("bytes", len(data)),
	)
	return buf, writer.FormDataContentType(), nil
}

// fetchImage resolves the local reference into bytes. Browser references may
// be URLs; anything else is read from disk.
func (e *webEnvironment) fetchImage(ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		resp, err := e.httpClient.Get(ref)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image reference: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("image reference returned status %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read image reference: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to read image reference: %w", err)
	}
	return data, nil
}
