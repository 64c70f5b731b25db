package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"wallpaper-catalog/internal/filesystem"
	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/metrics"
)

// SidecarName is the reserved metadata file name inside a source tree.
const SidecarName = "image_metadata.json"

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// IsImageFile reports whether name carries a recognised image extension.
// Matching is case-insensitive.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// discovery lists what a walk found, in walk order.
type discovery struct {
	images   []string
	sidecars []string
	ignored  int
}

// walkSource walks root in lexical order. Symlinks are not followed and
// entries that cannot be read are logged and skipped; only an unreadable
// root is an error.
func walkSource(ctx context.Context, root string) (discovery, error) {
	var found discovery

	info, err := filesystem.StatWithRetry(root, filesystem.DefaultRetryConfig())
	if err != nil {
		return found, fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, root, err)
	}
	if !info.IsDir() {
		return found, fmt.Errorf("%w: %s is not a directory", ErrSourceUnreadable, root)
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			if path == root {
				return fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, root, err)
			}
			logging.Warn("Error accessing path %s: %v", path, err)
			metrics.ScanFilesTotal.WithLabelValues("unreadable").Inc()
			return nil
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		switch {
		case d.Name() == SidecarName:
			found.sidecars = append(found.sidecars, path)
			metrics.ScanFilesTotal.WithLabelValues("sidecar").Inc()
		case IsImageFile(d.Name()):
			found.images = append(found.images, path)
			metrics.ScanFilesTotal.WithLabelValues("image").Inc()
		default:
			found.ignored++
			metrics.ScanFilesTotal.WithLabelValues("ignored").Inc()
		}
		return nil
	})

	if err != nil && !errors.Is(err, fs.SkipAll) {
		return found, err
	}
	return found, nil
}
