package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
)

// setupTestDB creates a fresh catalog in a temporary directory.
func setupTestDB(t testing.TB) *Database {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func addTestSource(t *testing.T, db *Database, path string) *WallpaperSource {
	t.Helper()

	src, err := db.AddSource(context.Background(), path)
	if err != nil {
		t.Fatalf("AddSource(%q) failed: %v", path, err)
	}
	return src
}

func strPtr(s string) *string { return &s }

func TestNewDatabase(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbPath := filepath.Join(t.TempDir(), "catalog.db")

	db, err := New(context.Background(), dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer db.Close()

	if db.Path() != dbPath {
		t.Errorf("Path() = %q, want %q", db.Path(), dbPath)
	}
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestNewDatabaseReopen(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbPath := filepath.Join(t.TempDir(), "catalog.db")
	ctx := context.Background()

	db, err := New(ctx, dbPath)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := db.AddSource(ctx, "/wallpapers"); err != nil {
		t.Fatalf("AddSource failed: %v", err)
	}
	db.Close()

	db, err = New(ctx, dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db.Close()

	sources, err := db.ListSources(ctx)
	if err != nil {
		t.Fatalf("ListSources failed: %v", err)
	}
	if len(sources) != 1 {
		t.Errorf("expected 1 source after reopen, got %d", len(sources))
	}
}

func TestNewDatabaseMissingDirectory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing", "nested", "catalog.db")

	if _, err := New(context.Background(), dbPath); err == nil {
		t.Error("expected error when parent directory does not exist")
	}
}

func TestCatalogStatsIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := setupTestDB(t)
	ctx := context.Background()

	active := addTestSource(t, db, "/a")
	inactive := addTestSource(t, db, "/b")
	if _, err := db.SetSourceActive(ctx, inactive.ID, false); err != nil {
		t.Fatalf("SetSourceActive failed: %v", err)
	}

	w := &Wallpaper{Signature: "sig1", Path: "/a/1.png", ThumbnailPath: "/t/sig1.jpeg", SourceID: active.ID}
	if _, err := db.InsertWallpaper(ctx, w); err != nil {
		t.Fatalf("InsertWallpaper failed: %v", err)
	}
	if err := db.SetFavorite(ctx, w.ID, true); err != nil {
		t.Fatalf("SetFavorite failed: %v", err)
	}

	stats, err := db.CatalogStats(ctx)
	if err != nil {
		t.Fatalf("CatalogStats failed: %v", err)
	}
	if stats.Wallpapers != 1 || stats.Favorites != 1 {
		t.Errorf("wallpapers/favorites = %d/%d, want 1/1", stats.Wallpapers, stats.Favorites)
	}
	if stats.ActiveSources != 1 || stats.InactiveSources != 1 {
		t.Errorf("active/inactive = %d/%d, want 1/1", stats.ActiveSources, stats.InactiveSources)
	}
}

func TestErrNotFoundWrapping(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := setupTestDB(t)

	_, err := db.GetSource(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSource error = %v, want ErrNotFound", err)
	}
}
