package scanner

import (
	"context"
	"fmt"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/metrics"
	"wallpaper-catalog/internal/thumbnail"
)

// candidate is an image accepted by local dedup, ready to be cataloged.
type candidate struct {
	signature string
	path      string
	keywords  string
}

type writeCounts struct {
	inserted int
	existing int
}

// writeCatalog inserts candidates in order. A signature already in the
// catalog is not an error: the stored entry is returned in its place. Any
// other failure stops the batch; rows written before it stay committed.
func writeCatalog(ctx context.Context, store Store, sourceID, thumbnailDir string, candidates []candidate) ([]database.Wallpaper, writeCounts, error) {
	var counts writeCounts
	entries := make([]database.Wallpaper, 0, len(candidates))

	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return entries, counts, err
		}

		keywords := c.keywords
		w := &database.Wallpaper{
			Signature:     c.signature,
			Path:          c.path,
			ThumbnailPath: thumbnail.PathFor(thumbnailDir, c.signature),
			SourceID:      sourceID,
			Keywords:      &keywords,
		}

		result, err := store.InsertWallpaper(ctx, w)
		metrics.CatalogWritesTotal.WithLabelValues(result.String()).Inc()

		switch result {
		case database.WriteInserted:
			counts.inserted++
			entries = append(entries, *w)
		case database.WriteAlreadyExists:
			logging.Debug("Already cataloged: %s (%s)", c.path, c.signature)
			existing, err := store.GetWallpaperBySignature(ctx, c.signature)
			if err != nil {
				return entries, counts, fmt.Errorf("%w: failed to load existing entry for %s: %v", ErrCatalogWrite, c.path, err)
			}
			counts.existing++
			entries = append(entries, *existing)
		default:
			if err == nil {
				err = fmt.Errorf("store reported failure without an error")
			}
			return entries, counts, fmt.Errorf("%w: %s: %v", ErrCatalogWrite, c.path, err)
		}
	}

	return entries, counts, nil
}
