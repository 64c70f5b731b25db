package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const wallpaperColumns = `w.id, w.signature, w.path, w.thumbnail_path, w.resolution,
	w.wallpaper_source_id, w.keywords, w.is_favorite`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWallpaper(row rowScanner) (Wallpaper, error) {
	var w Wallpaper
	var resolution, keywords sql.NullString
	err := row.Scan(&w.ID, &w.Signature, &w.Path, &w.ThumbnailPath, &resolution,
		&w.SourceID, &keywords, &w.IsFavorite)
	if err != nil {
		return w, err
	}
	if resolution.Valid {
		w.Resolution = &resolution.String
	}
	if keywords.Valid {
		w.Keywords = &keywords.String
	}
	return w, nil
}

// InsertWallpaper inserts w unless its signature is already cataloged.
// A signature conflict yields WriteAlreadyExists with a nil error; any other
// failure yields WriteFailed and the error. An empty ID is filled in.
func (d *Database) InsertWallpaper(ctx context.Context, w *Wallpaper) (result WriteResult, err error) {
	start := time.Now()
	defer func() { recordQuery("insert_wallpaper", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if w.ID == "" {
		w.ID = uuid.NewString()
	}

	_, err = d.db.ExecContext(ctx, `
		INSERT INTO wallpapers (id, signature, path, thumbnail_path, resolution, wallpaper_source_id, keywords, is_favorite)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.Signature, w.Path, w.ThumbnailPath, w.Resolution, w.SourceID, w.Keywords, w.IsFavorite,
	)
	if err == nil {
		return WriteInserted, nil
	}
	if isSignatureConflict(err) {
		err = nil
		return WriteAlreadyExists, nil
	}
	return WriteFailed, fmt.Errorf("failed to insert wallpaper %s: %w", w.Path, err)
}

// GetWallpaperBySignature returns the entry for signature or ErrNotFound.
func (d *Database) GetWallpaperBySignature(ctx context.Context, signature string) (w *Wallpaper, err error) {
	start := time.Now()
	defer func() { recordQuery("get_wallpaper_by_signature", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := d.db.QueryRowContext(ctx,
		"SELECT "+wallpaperColumns+" FROM wallpapers w WHERE w.signature = ?", signature)
	found, err := scanWallpaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("wallpaper %s: %w", signature, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// ListWallpapers returns catalog entries in insertion order.
func (d *Database) ListWallpapers(ctx context.Context, opts ListOptions) (wallpapers []Wallpaper, err error) {
	start := time.Now()
	defer func() { recordQuery("list_wallpapers", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var where []string
	var args []any

	if opts.ActiveOnly {
		where = append(where, "s.active = 1")
	}
	if opts.FavoritesOnly {
		where = append(where, "w.is_favorite = 1")
	}
	if q := strings.TrimSpace(opts.Query); q != "" {
		for _, term := range strings.Fields(strings.ToLower(q)) {
			like := "%" + escapeLike(term) + "%"
			where = append(where, `(LOWER(COALESCE(w.keywords, '')) LIKE ? ESCAPE '\' OR LOWER(w.path) LIKE ? ESCAPE '\')`)
			args = append(args, like, like)
		}
	}

	query := "SELECT " + wallpaperColumns + `
		FROM wallpapers w
		JOIN wallpaper_sources s ON s.id = w.wallpaper_source_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY w.rowid"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	wallpapers = []Wallpaper{}
	for rows.Next() {
		var w Wallpaper
		if w, err = scanWallpaper(rows); err != nil {
			return nil, err
		}
		wallpapers = append(wallpapers, w)
	}
	err = rows.Err()
	return wallpapers, err
}

// SetFavorite flags or unflags a wallpaper.
func (d *Database) SetFavorite(ctx context.Context, id string, favorite bool) (err error) {
	start := time.Now()
	defer func() { recordQuery("set_favorite", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "UPDATE wallpapers SET is_favorite = ? WHERE id = ?", favorite, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		err = fmt.Errorf("wallpaper %s: %w", id, ErrNotFound)
	}
	return err
}

// DeleteAllWallpapers empties the wallpapers table and returns the number
// of rows removed. Sources are kept.
func (d *Database) DeleteAllWallpapers(ctx context.Context) (deleted int64, err error) {
	start := time.Now()
	defer func() { recordQuery("delete_all_wallpapers", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM wallpapers")
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
