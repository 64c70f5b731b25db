package database

import "time"

// WallpaperSource is a registered root directory.
type WallpaperSource struct {
	ID        string    `json:"id"`
	Path      string    `json:"path"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Wallpaper is a catalog entry. Content fields are fixed at insert time;
// IsFavorite and Keywords may change later.
type Wallpaper struct {
	ID            string  `json:"id"`
	Signature     string  `json:"signature"`
	Path          string  `json:"path"`
	ThumbnailPath string  `json:"thumbnailPath"`
	Resolution    *string `json:"resolution"`
	SourceID      string  `json:"wallpaperSourceId"`
	Keywords      *string `json:"keywords"`
	IsFavorite    bool    `json:"isFavorite"`
}

// WriteResult is the outcome of an insert-if-absent.
type WriteResult int

const (
	// WriteFailed means the row was not written; the accompanying error says why.
	WriteFailed WriteResult = iota
	// WriteInserted means a new row was committed.
	WriteInserted
	// WriteAlreadyExists means a row with the same signature was already cataloged.
	WriteAlreadyExists
)

func (r WriteResult) String() string {
	switch r {
	case WriteInserted:
		return "inserted"
	case WriteAlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// ListOptions filters ListWallpapers.
type ListOptions struct {
	// ActiveOnly restricts results to wallpapers whose source is active.
	ActiveOnly bool
	// Query matches case-insensitively against keywords and path.
	Query string
	// FavoritesOnly restricts results to favorites.
	FavoritesOnly bool
}
