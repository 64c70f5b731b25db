package scanner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/metrics"
	"wallpaper-catalog/internal/thumbnail"
)

var (
	// ErrSourceUnreadable means the source root could not be opened.
	ErrSourceUnreadable = errors.New("source directory unreadable")
	// ErrCatalogWrite means the catalog rejected a write for a reason
	// other than an already-cataloged signature.
	ErrCatalogWrite = errors.New("catalog write failed")
)

// Store is the catalog the scanner writes to.
type Store interface {
	InsertWallpaper(ctx context.Context, w *database.Wallpaper) (database.WriteResult, error)
	GetWallpaperBySignature(ctx context.Context, signature string) (*database.Wallpaper, error)
	ListSources(ctx context.Context) ([]database.WallpaperSource, error)
	DeleteAllWallpapers(ctx context.Context) (int64, error)
}

// Thumbnailer renders a batch of thumbnails and blocks until done.
type Thumbnailer interface {
	Run(ctx context.Context, tasks []thumbnail.Task) thumbnail.Summary
}

// Scanner runs scans against one catalog. Callers must not run two scans
// on the same Scanner concurrently.
type Scanner struct {
	store        Store
	thumbnails   Thumbnailer
	thumbnailDir string
}

// New returns a Scanner writing entries to store and thumbnails to
// thumbnailDir.
func New(store Store, thumbnails Thumbnailer, thumbnailDir string) *Scanner {
	return &Scanner{
		store:        store,
		thumbnails:   thumbnails,
		thumbnailDir: thumbnailDir,
	}
}

// Scan ingests the tree at sourcePath into the catalog under sourceID and
// returns every entry this pass encountered, whether newly inserted or
// already cataloged. Thumbnails are generated before Scan returns, though
// individual thumbnails may be missing if they failed.
func (s *Scanner) Scan(ctx context.Context, sourceID, sourcePath string) ([]database.Wallpaper, error) {
	metrics.ScanIsRunning.Set(1)
	defer metrics.ScanIsRunning.Set(0)

	start := time.Now()
	entries, err := s.scan(ctx, sourceID, sourcePath)
	recordScan("source", start, err)
	return entries, err
}

// ScanAll empties the catalog and rebuilds it from every registered source,
// active or not, in registration order. Favorite flags do not survive. The
// first failing source aborts the rebuild; entries written by earlier
// sources remain.
func (s *Scanner) ScanAll(ctx context.Context) ([]database.Wallpaper, error) {
	metrics.ScanIsRunning.Set(1)
	defer metrics.ScanIsRunning.Set(0)

	start := time.Now()
	entries, err := s.scanAll(ctx)
	recordScan("all", start, err)
	return entries, err
}

func (s *Scanner) scanAll(ctx context.Context) ([]database.Wallpaper, error) {
	sources, err := s.store.ListSources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sources: %w", err)
	}

	deleted, err := s.store.DeleteAllWallpapers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to clear catalog: %w", err)
	}
	logging.Info("Rebuilding catalog: cleared %d entries, scanning %d sources", deleted, len(sources))

	var all []database.Wallpaper
	seen := make(map[string]bool)

	for _, src := range sources {
		entries, err := s.scan(ctx, src.ID, src.Path)
		if err != nil {
			return nil, fmt.Errorf("scan of %s failed: %w", src.Path, err)
		}
		// An image shared by two sources is reported once, under the
		// source that cataloged it first.
		for _, e := range entries {
			if seen[e.Signature] {
				continue
			}
			seen[e.Signature] = true
			all = append(all, e)
		}
	}

	if all == nil {
		all = []database.Wallpaper{}
	}
	return all, nil
}

func (s *Scanner) scan(ctx context.Context, sourceID, sourcePath string) ([]database.Wallpaper, error) {
	start := time.Now()
	logging.Info("Scanning source %s (%s)", sourcePath, sourceID)

	found, err := walkSource(ctx, sourcePath)
	if err != nil {
		return nil, err
	}

	index := make(MetadataIndex)
	for _, path := range found.sidecars {
		n, err := index.Load(path)
		if err != nil {
			logging.Warn("Ignoring metadata file %s: %v", path, err)
			metrics.ScanSidecarErrorsTotal.Inc()
			continue
		}
		logging.Debug("Loaded %d metadata records from %s", n, path)
	}

	candidates, unreadable, err := s.sign(ctx, found.images)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		c := &candidates[i]
		if record, ok := index[c.signature]; ok {
			c.keywords = DeriveKeywords(c.path, &record)
		} else {
			c.keywords = DeriveKeywords(c.path, nil)
		}
	}

	entries, counts, err := writeCatalog(ctx, s.store, sourceID, s.thumbnailDir, candidates)
	if err != nil {
		return nil, err
	}

	tasks := make([]thumbnail.Task, 0, len(candidates))
	for _, c := range candidates {
		tasks = append(tasks, thumbnail.Task{
			Source:      c.path,
			Destination: thumbnail.PathFor(s.thumbnailDir, c.signature),
		})
	}
	if s.thumbnails != nil {
		s.thumbnails.Run(ctx, tasks)
	}

	logging.Info("Scan of %s complete: %d images, %d new, %d already cataloged, %d duplicates, %d unreadable, %d ignored in %v",
		sourcePath, len(found.images), counts.inserted, counts.existing,
		len(found.images)-len(candidates)-unreadable, unreadable, found.ignored,
		time.Since(start).Round(time.Millisecond))

	return entries, nil
}

// sign computes signatures in walk order and drops later copies of a
// signature already seen in this pass.
func (s *Scanner) sign(ctx context.Context, images []string) ([]candidate, int, error) {
	candidates := make([]candidate, 0, len(images))
	seen := make(map[string]string, len(images))
	unreadable := 0

	for _, path := range images {
		if err := ctx.Err(); err != nil {
			return nil, unreadable, err
		}

		signature, err := Sign(path)
		if err != nil {
			logging.Warn("Skipping unreadable image %s: %v", path, err)
			metrics.ScanFilesTotal.WithLabelValues("unreadable").Inc()
			unreadable++
			continue
		}

		if first, ok := seen[signature]; ok {
			logging.Debug("Duplicate image %s matches %s", path, first)
			metrics.ScanDuplicatesTotal.Inc()
			continue
		}
		seen[signature] = path
		candidates = append(candidates, candidate{signature: signature, path: path})
	}

	return candidates, unreadable, nil
}

func recordScan(kind string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
		logging.Error("Scan failed: %v", err)
	}
	metrics.ScanRunsTotal.WithLabelValues(kind, status).Inc()
	metrics.ScanDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	metrics.ScanLastRunTimestamp.SetToCurrentTime()
}
