package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddSource registers a new active source for path.
func (d *Database) AddSource(ctx context.Context, path string) (src *WallpaperSource, err error) {
	start := time.Now()
	defer func() { recordQuery("add_source", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	src = &WallpaperSource{
		ID:        uuid.NewString(),
		Path:      path,
		Active:    true,
		CreatedAt: time.Unix(time.Now().Unix(), 0),
	}

	_, err = d.db.ExecContext(ctx,
		"INSERT INTO wallpaper_sources (id, path, active, created_at) VALUES (?, ?, 1, ?)",
		src.ID, src.Path, src.CreatedAt.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add source %s: %w", path, err)
	}
	return src, nil
}

// ListSources returns every registered source, oldest first.
func (d *Database) ListSources(ctx context.Context) (sources []WallpaperSource, err error) {
	start := time.Now()
	defer func() { recordQuery("list_sources", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx,
		"SELECT id, path, active, created_at FROM wallpaper_sources ORDER BY created_at, rowid")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources = []WallpaperSource{}
	for rows.Next() {
		var src WallpaperSource
		var createdAt int64
		if err = rows.Scan(&src.ID, &src.Path, &src.Active, &createdAt); err != nil {
			return nil, err
		}
		src.CreatedAt = time.Unix(createdAt, 0)
		sources = append(sources, src)
	}
	err = rows.Err()
	return sources, err
}

// GetSource returns the source with the given id or ErrNotFound.
func (d *Database) GetSource(ctx context.Context, id string) (src *WallpaperSource, err error) {
	start := time.Now()
	defer func() { recordQuery("get_source", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s WallpaperSource
	var createdAt int64
	err = d.db.QueryRowContext(ctx,
		"SELECT id, path, active, created_at FROM wallpaper_sources WHERE id = ?", id,
	).Scan(&s.ID, &s.Path, &s.Active, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	s.CreatedAt = time.Unix(createdAt, 0)
	return &s, nil
}

// SetSourceActive toggles whether a source's wallpapers are listed.
func (d *Database) SetSourceActive(ctx context.Context, id string, active bool) (src *WallpaperSource, err error) {
	start := time.Now()
	defer func() { recordQuery("set_source_active", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "UPDATE wallpaper_sources SET active = ? WHERE id = ?", active, id)
	if err != nil {
		return nil, err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		err = fmt.Errorf("source %s: %w", id, ErrNotFound)
		return nil, err
	}
	return d.GetSource(ctx, id)
}

// RemoveSource deletes a source and, by cascade, every wallpaper it owns.
func (d *Database) RemoveSource(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { recordQuery("remove_source", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM wallpaper_sources WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		err = fmt.Errorf("source %s: %w", id, ErrNotFound)
	}
	return err
}
