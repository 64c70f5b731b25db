package thumbnail

import (
	"fmt"
	"path/filepath"
	"strings"

	"wallpaper-catalog/internal/logging"
)

const (
	// Width and Height are the thumbnail box. Sources are scaled to cover it
	// and centre-cropped.
	Width  = 400
	Height = 200

	// Extension is appended to the signature to form the thumbnail name.
	Extension = ".jpeg"

	jpegQuality = 85
)

// Backend names accepted by NewConverter.
const (
	BackendAuto    = "auto"
	BackendVips    = "vips"
	BackendImaging = "imaging"
)

// Converter renders src into a width×height JPEG at dst.
type Converter interface {
	Name() string
	Convert(src, dst string, width, height int) error
	IsAvailable() bool
}

// PathFor returns the cache path of the thumbnail for signature.
func PathFor(dir, signature string) string {
	return filepath.Join(dir, signature+Extension)
}

// Open starts libvips unless the imaging backend is requested and returns
// the converter for backend. Callers should defer ShutdownVips.
func Open(backend string) (Converter, error) {
	if strings.ToLower(strings.TrimSpace(backend)) != BackendImaging {
		InitVips()
	}
	return NewConverter(backend)
}

// NewConverter returns the converter for backend. "auto" prefers libvips
// when it has been initialized and falls back to imaging otherwise.
func NewConverter(backend string) (Converter, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendAuto:
		if IsVipsAvailable() {
			return VipsConverter{}, nil
		}
		logging.Debug("libvips not initialized, using imaging thumbnail backend")
		return ImagingConverter{}, nil
	case BackendVips:
		if !IsVipsAvailable() {
			return nil, fmt.Errorf("thumbnail backend %q requested but libvips is not initialized", backend)
		}
		return VipsConverter{}, nil
	case BackendImaging:
		return ImagingConverter{}, nil
	default:
		return nil, fmt.Errorf("unknown thumbnail backend %q", backend)
	}
}
