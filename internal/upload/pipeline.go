package upload

import (
	"context"
	"errors"
	"fmt"
	"io"

	"dropwire/drop-agent/internal/client"
	"dropwire/drop-agent/internal/picker"
	"dropwire/drop-agent/internal/platform"

	"go.uber.org/zap"
)

// State is the pipeline's current position in the upload workflow.
type State int

const (
	StateIdle State = iota
	StateImageSelected
	StateUploading
	StateFailed
	StateSucceeded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateImageSelected:
		return "image-selected"
	case StateUploading:
		return "uploading"
	case StateFailed:
		return "failed"
	case StateSucceeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

var (
	// ErrNoImageSelected means Upload was called before an image was picked.
	ErrNoImageSelected = errors.New("no image selected")

	// ErrUploadInProgress rejects a second concurrent upload attempt.
	ErrUploadInProgress = errors.New("upload already in progress")

	// ErrCompleted rejects further work after the photo step finished.
	ErrCompleted = errors.New("photo step already completed")
)

// Uploader is the slice of the API client the pipeline needs.
type Uploader interface {
	UploadProfilePhoto(ctx context.Context, token string, body io.Reader, contentType string) error
}

// Pipeline drives the one-shot profile-photo workflow: pick an image, build
// the runtime-specific payload, submit it, and report the outcome. Owned by
// a single screen instance; not safe for concurrent use. Failures keep the
// picked image so the user can retry without re-picking; retry is always
// user-initiated.
type Pipeline struct {
	library    picker.MediaLibrary
	env        platform.Environment
	api        Uploader
	logger     *zap.Logger
	onComplete func()

	state         State
	image         *picker.ImageRef
	failureReason string
	completed     bool
}

// NewPipeline creates a pipeline in the idle state. onComplete fires exactly
// once, on success or skip; it may be nil.
func NewPipeline(library picker.MediaLibrary, env platform.Environment, api Uploader, logger *zap.Logger, onComplete func()) *Pipeline {
	return &Pipeline{
		library:    library,
		env:        env,
		api:        api,
		logger:     logger,
		onComplete: onComplete,
		state:      StateIdle,
	}
}

// State returns the current pipeline state.
func (p *Pipeline) State() State {
	return p.state
}

// Image returns the currently held local image reference, or nil.
func (p *Pipeline) Image() *picker.ImageRef {
	return p.image
}

// FailureReason returns the user-facing reason of the last failure.
func (p *Pipeline) FailureReason() string {
	return p.failureReason
}

// PickImage requests media permission and selects an image. Denied
// permission and picker failures surface as errors without a state change; a
// cancel is a silent no-op. A successful pick replaces any previously held
// reference.
func (p *Pipeline) PickImage(ctx context.Context, source string) error {
	switch p.state {
	case StateUploading:
		return ErrUploadInProgress
	case StateSucceeded:
		return ErrCompleted
	}

	if err := p.library.RequestPermission(ctx); err != nil {
		if errors.Is(err, picker.ErrPermissionDenied) {
			p.logger.Warn("Media permission denied")
			return err
		}
		return fmt.Errorf("permission request failed: %w", err)
	}

	ref, err := p.library.PickImage(ctx, source, picker.DefaultPickOptions())
	if errors.Is(err, picker.ErrPickCanceled) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("image selection failed: %w", err)
	}

	p.image = ref
	p.state = StateImageSelected
	p.failureReason = ""
	p.logger.Info("Image selected", zap.String("path", ref.Path))
	return nil
}

// Upload submits the held image to the profile-photo endpoint. The payload
// and credentials come from the runtime environment. A non-2xx status or a
// transport error moves the pipeline to failed with the image preserved; the
// user retries by calling Upload again.
func (p *Pipeline) Upload(ctx context.Context) error {
	switch p.state {
	case StateUploading:
		return ErrUploadInProgress
	case StateSucceeded:
		return ErrCompleted
	}
	if p.image == nil {
		return ErrNoImageSelected
	}

	token, err := p.env.Credentials().Get(platform.CredentialKeyAuthToken)
	if err != nil {
		// Missing or unreadable credential is permissible: the server
		// rejects the request if auth was actually required.
		p.logger.Warn("Could not read auth token", zap.Error(err))
		token = ""
	}

	p.state = StateUploading

	body, contentType, err := p.env.EncodeUploadBody(p.image)
	if err != nil {
		p.fail("could not read the selected image")
		return fmt.Errorf("failed to encode upload body: %w", err)
	}

	err = p.api.UploadProfilePhoto(ctx, token, body, contentType)
	if err != nil {
		var uploadErr *client.UploadError
		if errors.As(err, &uploadErr) {
			p.fail(fmt.Sprintf("upload failed with status %d", uploadErr.StatusCode))
		} else {
			p.fail("network error during upload")
		}
		return err
	}

	p.state = StateSucceeded
	p.logger.Info("Profile photo upload succeeded")
	p.complete()
	return nil
}

// Skip completes the photo step without uploading. A deliberate escape
// hatch, not an error path; only an in-flight upload blocks it.
func (p *Pipeline) Skip() error {
	if p.state == StateUploading {
		return ErrUploadInProgress
	}
	if p.state == StateSucceeded {
		return nil
	}

	p.state = StateSucceeded
	p.logger.Info("Profile photo step skipped")
	p.complete()
	return nil
}

func (p *Pipeline) fail(reason string) {
	p.state = StateFailed
	p.failureReason = reason
	p.logger.Warn("Profile photo upload failed", zap.String("reason", reason))
}

func (p *Pipeline) complete() {
	if p.completed {
		return
	}
	p.completed = true
	if p.onComplete != nil {
		p.onComplete()
	}
}
