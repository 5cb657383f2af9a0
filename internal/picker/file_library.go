package picker

import (
	"context"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// FileLibrary is a MediaLibrary backed by a directory on disk. Picked images
// are cropped and re-encoded into cacheDir; the original file is untouched.
type FileLibrary struct {
	root     string
	cacheDir string
	logger   *zap.Logger
}

func NewFileLibrary(root, cacheDir string, logger *zap.Logger) *FileLibrary {
	return &FileLibrary{
		root:     root,
		cacheDir: cacheDir,
		logger:   logger,
	}
}

// RequestPermission verifies the media directory is readable.
func (l *FileLibrary) RequestPermission(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.ReadDir(l.root); err != nil {
		l.logger.Warn("Media directory not readable",
			zap.String("dir", l.root),
			zap.Error(err),
		)
		return fmt.Errorf("media directory %s: %w", l.root, ErrPermissionDenied)
	}
	return nil
}

// PickImage loads the source image, applies the crop and quality options and
// writes the result into the cache dir. An empty source is a cancel.
func (l *FileLibrary) PickImage(ctx context.Context, source string, opts PickOptions) (*ImageRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if source == "" {
		return nil, ErrPickCanceled
	}

	path := source
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.root, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	if opts.SquareCrop {
		img = centerSquare(img)
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = jpeg.DefaultQuality
	}

	if err := os.MkdirAll(l.cacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir: %w", err)
	}
	outPath := filepath.Join(l.cacheDir, "picked-"+uuid.New().String()+".jpg")
	out, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create picked image: %w", err)
	}
	defer out.Close()

	if err := jpeg.Encode(out, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode picked image: %w", err)
	}

	info, err := out.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat picked image: %w", err)
	}

	bounds := img.Bounds()
	ref := &ImageRef{
		Path:     outPath,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Size:     info.Size(),
		MimeType: "image/jpeg",
	}

	l.logger.Info("Image picked",
		zap.String("source", path),
		zap.String("path", ref.Path),
		zap.Int("width", ref.Width),
		zap.Int("height", ref.Height),
		zap.Int64("size", ref.Size),
	)
	return ref, nil
}

// centerSquare crops the image to its largest centered square.
func centerSquare(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == h {
		return img
	}

	side := w
	if h < side {
		side = h
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2

	cropped := image.NewRGBA(image.Rect(0, 0, side, side))
	draw.Draw(cropped, cropped.Bounds(), img, image.Pt(x0, y0), draw.Src)
	return cropped
}
