package handlers

import (
	"time"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/scanner"
	"wallpaper-catalog/internal/startup"
)

// Handlers holds the dependencies shared by all HTTP handlers.
type Handlers struct {
	db           *database.Database
	scanner      *scanner.Scanner
	thumbnailDir string
	guard        scanGuard
	startTime    time.Time
}

// New creates the handler set.
func New(db *database.Database, sc *scanner.Scanner, config *startup.Config) *Handlers {
	return &Handlers{
		db:           db,
		scanner:      sc,
		thumbnailDir: config.ThumbnailDir,
		startTime:    time.Now(),
	}
}
