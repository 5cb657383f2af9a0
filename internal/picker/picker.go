package picker

import (
	"context"
	"errors"
)

var (
	// ErrPermissionDenied means the media library refused read access.
	ErrPermissionDenied = errors.New("media library permission denied")

	// ErrPickCanceled means the user backed out of the selection.
	ErrPickCanceled = errors.New("image selection canceled")
)

// ImageRef is a local reference to a picked image. Nothing has been uploaded
// or persisted remotely at this point.
type ImageRef struct {
	Path     string
	Width    int
	Height   int
	Size     int64
	MimeType string
}

// PickOptions controls how the selected image is prepared.
type PickOptions struct {
	SquareCrop bool
	// Quality is the JPEG re-encode quality, 1-100.
	Quality int
}

// DefaultPickOptions matches the profile-photo selection: single image,
// square crop, reduced quality.
func DefaultPickOptions() PickOptions {
	return PickOptions{SquareCrop: true, Quality: 80}
}

// MediaLibrary is the external collaborator that grants media access and
// produces a local image reference.
type MediaLibrary interface {
	RequestPermission(ctx context.Context) error
	PickImage(ctx context.Context, source string, opts PickOptions) (*ImageRef, error)
}
