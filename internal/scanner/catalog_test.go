package scanner

import (
	"context"
	"errors"
	"testing"

	"wallpaper-catalog/internal/database"
)

// fakeStore is an in-memory Store that can be told to fail.
type fakeStore struct {
	rows      map[string]database.Wallpaper
	order     []string
	sources   []database.WallpaperSource
	failOn    string
	failErr   error
	listErr   error
	deleteErr error
	deleted   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: map[string]database.Wallpaper{}}
}

func (f *fakeStore) InsertWallpaper(_ context.Context, w *database.Wallpaper) (database.WriteResult, error) {
	if w.Signature == f.failOn {
		return database.WriteFailed, f.failErr
	}
	if _, ok := f.rows[w.Signature]; ok {
		return database.WriteAlreadyExists, nil
	}
	if w.ID == "" {
		w.ID = "id-" + w.Signature
	}
	f.rows[w.Signature] = *w
	f.order = append(f.order, w.Signature)
	return database.WriteInserted, nil
}

func (f *fakeStore) GetWallpaperBySignature(_ context.Context, signature string) (*database.Wallpaper, error) {
	w, ok := f.rows[signature]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &w, nil
}

func (f *fakeStore) ListSources(context.Context) ([]database.WallpaperSource, error) {
	return f.sources, f.listErr
}

func (f *fakeStore) DeleteAllWallpapers(context.Context) (int64, error) {
	if f.deleteErr != nil {
		return 0, f.deleteErr
	}
	n := len(f.rows)
	f.rows = map[string]database.Wallpaper{}
	f.order = nil
	f.deleted += n
	return int64(n), nil
}

func TestWriteCatalogResults(t *testing.T) {
	store := newFakeStore()
	store.rows["old"] = database.Wallpaper{ID: "existing", Signature: "old", Path: "/elsewhere/old.png", SourceID: "other"}

	entries, counts, err := writeCatalog(context.Background(), store, "src", "/thumbs", []candidate{
		{signature: "new", path: "/src/new.png", keywords: "new"},
		{signature: "old", path: "/src/old.png", keywords: "old"},
	})
	if err != nil {
		t.Fatalf("writeCatalog failed: %v", err)
	}
	if counts.inserted != 1 || counts.existing != 1 {
		t.Errorf("counts = %+v, want 1 inserted 1 existing", counts)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ThumbnailPath != "/thumbs/new.jpeg" || *entries[0].Keywords != "new" {
		t.Errorf("new entry = %+v", entries[0])
	}
	if entries[1].ID != "existing" || entries[1].SourceID != "other" {
		t.Errorf("existing entry should be returned unchanged, got %+v", entries[1])
	}
}

func TestWriteCatalogAbortsOnStoreError(t *testing.T) {
	store := newFakeStore()
	store.failOn = "b"
	store.failErr = errors.New("disk I/O error")

	_, _, err := writeCatalog(context.Background(), store, "src", "/thumbs", []candidate{
		{signature: "a", path: "/a.png"},
		{signature: "b", path: "/b.png"},
		{signature: "c", path: "/c.png"},
	})
	if !errors.Is(err, ErrCatalogWrite) {
		t.Fatalf("error = %v, want ErrCatalogWrite", err)
	}
	// Writes before the failure stand; nothing after it is attempted.
	if len(store.order) != 1 || store.order[0] != "a" {
		t.Errorf("committed rows = %v, want [a]", store.order)
	}
}

func TestWriteCatalogFailureWithoutError(t *testing.T) {
	store := newFakeStore()
	store.failOn = "a"

	_, _, err := writeCatalog(context.Background(), store, "src", "/thumbs", []candidate{{signature: "a", path: "/a.png"}})
	if !errors.Is(err, ErrCatalogWrite) {
		t.Errorf("error = %v, want ErrCatalogWrite", err)
	}
}

func TestScanAllListError(t *testing.T) {
	store := newFakeStore()
	store.rows["keep"] = database.Wallpaper{Signature: "keep"}
	store.listErr = errors.New("no connection")

	_, err := New(store, nil, t.TempDir()).ScanAll(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := store.rows["keep"]; !ok {
		t.Error("catalog should not be cleared when sources cannot be listed")
	}
}

func TestScanAllNoSources(t *testing.T) {
	store := newFakeStore()
	store.rows["stale"] = database.Wallpaper{Signature: "stale"}

	entries, err := New(store, nil, t.TempDir()).ScanAll(context.Background())
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %#v, want empty", entries)
	}
	if store.deleted != 1 {
		t.Errorf("deleted = %d, want 1", store.deleted)
	}
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeImage(t, root+"/a.png", red)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := newFakeStore()
	_, err := New(store, nil, t.TempDir()).Scan(ctx, "src", root)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
	if len(store.rows) != 0 {
		t.Error("cancelled scan should not write")
	}
}
