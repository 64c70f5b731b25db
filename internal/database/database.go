package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3" // SQLite3 driver

	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when a source or wallpaper does not exist.
var ErrNotFound = errors.New("not found")

// Database is the SQLite-backed catalog store.
type Database struct {
	db     *sql.DB
	dbPath string
}

// New opens (creating if needed) the catalog at dbPath and applies the schema.
// The parent directory must already exist.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	// foreign_keys is per-connection in SQLite; the DSN applies it to every
	// pooled connection so source deletes cascade.
	connStr := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { recordQuery("initialize_schema", start, err) }()

	schema := `
	CREATE TABLE IF NOT EXISTS wallpaper_sources (
		id TEXT PRIMARY KEY NOT NULL,
		path TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE TABLE IF NOT EXISTS wallpapers (
		id TEXT PRIMARY KEY NOT NULL,
		signature TEXT NOT NULL UNIQUE,
		path TEXT NOT NULL,
		thumbnail_path TEXT NOT NULL,
		resolution TEXT,
		wallpaper_source_id TEXT NOT NULL
			REFERENCES wallpaper_sources(id) ON DELETE CASCADE,
		keywords TEXT,
		is_favorite INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_wallpapers_source ON wallpapers(wallpaper_source_id);
	CREATE INDEX IF NOT EXISTS idx_wallpapers_favorite ON wallpapers(is_favorite);
	`

	_, err = d.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.dbPath
}

// Ping checks that the catalog connection is usable.
func (d *Database) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return d.db.PingContext(ctx)
}

// isSignatureConflict reports whether err is a UNIQUE violation on
// wallpapers.signature. Other constraint failures are real errors.
func isSignatureConflict(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return strings.Contains(sqliteErr.Error(), "wallpapers.signature")
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}

// UpdateDBMetrics updates database connection metrics
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// CatalogStats returns catalog totals for the metrics collector.
func (d *Database) CatalogStats(ctx context.Context) (stats metrics.Stats, err error) {
	start := time.Now()
	defer func() { recordQuery("catalog_stats", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	err = d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM wallpapers),
			(SELECT COUNT(*) FROM wallpapers WHERE is_favorite = 1),
			(SELECT COUNT(*) FROM wallpaper_sources WHERE active = 1),
			(SELECT COUNT(*) FROM wallpaper_sources WHERE active = 0)
	`).Scan(&stats.Wallpapers, &stats.Favorites, &stats.ActiveSources, &stats.InactiveSources)
	if err == nil {
		d.UpdateDBMetrics()
	}
	return stats, err
}
