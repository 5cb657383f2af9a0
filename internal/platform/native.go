package platform

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"

	"dropwire/drop-agent/internal/picker"

	"go.uber.org/zap"
)

// nativeEnvironment mirrors a native runtime: credentials come from secure
// storage and the original image reference is attached directly, with the
// filename and content type inferred from its extension.
type nativeEnvironment struct {
	store  *secureStore
	logger *zap.Logger
}

func newNativeEnvironment(dataDir string, logger *zap.Logger) *nativeEnvironment {
	return &nativeEnvironment{
		store:  newSecureStore(filepath.Join(dataDir, "secure")),
		logger: logger,
	}
}

func (e *nativeEnvironment) Name() string {
	return "native"
}

func (e *nativeEnvironment) Credentials() CredentialStore {
	return e.store
}

func (e *nativeEnvironment) EncodeUploadBody(ref *picker.ImageRef) (io.Reader, string, error) {
	f, err := os.Open(ref.Path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image reference: %w", err)
	}
	defer f.Close()

	filename := filepath.Base(ref.Path)
	contentType := ref.MimeType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(ref.Path))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFieldName, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	written, err := io.Copy(part, f)
	if err != nil {
		return nil, "", fmt.Errorf("failed to copy image data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	e.logger.Debug("Encoded upload body",
		zap.String("runtime", e.Name()),
		zap.String("filename", filename),
		zap.String("content_type", contentType),
		zap.Int64("bytes", written),
	)
	return buf, writer.FormDataContentType(), nil
}
