package thumbnail

import (
	"fmt"
	"os"
	"sync"

	"wallpaper-catalog/internal/logging"

	"github.com/davidbyttow/govips/v2/vips"
)

var (
	vipsInitialized bool
	vipsInitMutex   sync.Mutex
)

// vipsSeverity ranks libvips levels from chatty to fatal. The underlying
// GLib flags grow numerically as severity drops, so they cannot be compared
// directly.
func vipsSeverity(l vips.LogLevel) int {
	switch l {
	case vips.LogLevelError, vips.LogLevelCritical:
		return 3
	case vips.LogLevelWarning:
		return 2
	default:
		return 1
	}
}

// vipsLogSettings maps the application log level onto libvips' own, so
// libvips chatter follows LOG_LEVEL.
func vipsLogSettings(level logging.LogLevel) (func(string, vips.LogLevel, string), vips.LogLevel) {
	minSeverity := 2
	verbosity := vips.LogLevelWarning

	switch level {
	case logging.LevelDebug:
		minSeverity, verbosity = 1, vips.LogLevelInfo
	case logging.LevelWarn, logging.LevelError:
		minSeverity, verbosity = 3, vips.LogLevelError
	}

	handler := func(domain string, l vips.LogLevel, msg string) {
		switch severity := vipsSeverity(l); {
		case severity < minSeverity:
		case severity == 3:
			logging.Error("[%s] %s", domain, msg)
		case severity == 2:
			logging.Warn("[%s] %s", domain, msg)
		default:
			logging.Debug("[%s] %s", domain, msg)
		}
	}
	return handler, verbosity
}

// InitVips starts libvips. Call once at startup before selecting the vips
// backend; later calls are no-ops.
func InitVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		return
	}

	vips.LoggingSettings(vipsLogSettings(logging.GetLevel()))

	// Thumbnail workers already parallelize across files.
	vips.Startup(&vips.Config{
		ConcurrencyLevel: 1,
		MaxCacheMem:      50 * 1024 * 1024,
		MaxCacheSize:     100,
	})

	vipsInitialized = true
	logging.Info("libvips initialized successfully (version: %s)", vips.Version)
}

// ShutdownVips releases libvips resources.
func ShutdownVips() {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()

	if vipsInitialized {
		vips.Shutdown()
		vipsInitialized = false
		logging.Info("libvips shutdown complete")
	}
}

// IsVipsAvailable reports whether InitVips has run.
func IsVipsAvailable() bool {
	vipsInitMutex.Lock()
	defer vipsInitMutex.Unlock()
	return vipsInitialized
}

// VipsConverter renders thumbnails with libvips.
type VipsConverter struct{}

// Name implements Converter.
func (VipsConverter) Name() string { return BackendVips }

// IsAvailable implements Converter.
func (VipsConverter) IsAvailable() bool { return IsVipsAvailable() }

// Convert implements Converter.
func (VipsConverter) Convert(src, dst string, width, height int) error {
	if !IsVipsAvailable() {
		return fmt.Errorf("libvips not available")
	}

	ref, err := vips.LoadImageFromFile(src, vips.NewImportParams())
	if err != nil {
		return fmt.Errorf("vips failed to load %s: %w", src, err)
	}
	defer ref.Close()

	if err := ref.Thumbnail(width, height, vips.InterestingCentre); err != nil {
		return fmt.Errorf("vips resize failed: %w", err)
	}

	if ref.HasAlpha() {
		if err := ref.Flatten(&vips.Color{R: 255, G: 255, B: 255}); err != nil {
			return fmt.Errorf("vips flatten failed: %w", err)
		}
	}

	buf, _, err := ref.ExportJpeg(&vips.JpegExportParams{
		Quality:        jpegQuality,
		StripMetadata:  true,
		OptimizeCoding: true,
	})
	if err != nil {
		return fmt.Errorf("vips export failed: %w", err)
	}

	return writeAtomic(dst, func(f *os.File) error {
		_, err := f.Write(buf)
		return err
	})
}
