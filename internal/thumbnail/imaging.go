package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	// Image format decoders
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // WebP format support
)

// ImagingConverter renders thumbnails in pure Go.
type ImagingConverter struct{}

// Name implements Converter.
func (ImagingConverter) Name() string { return BackendImaging }

// IsAvailable implements Converter. The pure Go backend is always present.
func (ImagingConverter) IsAvailable() bool { return true }

// Convert implements Converter.
func (ImagingConverter) Convert(src, dst string, width, height int) error {
	img, err := imaging.Open(src, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", src, err)
	}

	thumb := flatten(imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos))

	return writeAtomic(dst, func(f *os.File) error {
		return imaging.Encode(f, thumb, imaging.JPEG, imaging.JPEGQuality(jpegQuality))
	})
}

// flatten composites img over opaque white. JPEG has no alpha channel and
// transparent pixels would otherwise encode as black.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}

// writeAtomic writes through a temp file in dst's directory and renames it
// into place, so a crashed or concurrent write never leaves a partial
// thumbnail at dst.
func writeAtomic(dst string, write func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(dst), ".thumb-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move thumbnail into place: %w", err)
	}
	return nil
}
