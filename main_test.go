package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/handlers"
	"wallpaper-catalog/internal/scanner"
	"wallpaper-catalog/internal/startup"
	"wallpaper-catalog/internal/thumbnail"

	"github.com/gorilla/mux"
)

func setupTestHandlers(t *testing.T) *handlers.Handlers {
	t.Helper()

	dir := t.TempDir()
	config := &startup.Config{
		CacheDir:     dir,
		DatabaseDir:  dir,
		DatabasePath: filepath.Join(dir, "catalog.db"),
		ThumbnailDir: filepath.Join(dir, "thumbnails"),
	}

	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	sc := scanner.New(db, thumbnail.NewScheduler(thumbnail.ImagingConverter{}, 1), config.ThumbnailDir)
	return handlers.New(db, sc, config)
}

func TestSetupRouterRoutes(t *testing.T) {
	router := setupRouter(setupTestHandlers(t), true)

	tests := []struct {
		method string
		path   string
		route  string
	}{
		{"GET", "/health", "/health"},
		{"GET", "/livez", "/livez"},
		{"HEAD", "/livez", "/livez"},
		{"GET", "/version", "/version"},
		{"GET", "/metrics", "/metrics"},
		{"GET", "/thumbnails/abc.jpeg", "/thumbnails/{name}"},
		{"GET", "/api/sources", "/api/sources"},
		{"POST", "/api/sources", "/api/sources"},
		{"PUT", "/api/sources/x/active", "/api/sources/{id}/active"},
		{"DELETE", "/api/sources/x", "/api/sources/{id}"},
		{"POST", "/api/sources/x/scan", "/api/sources/{id}/scan"},
		{"POST", "/api/scan", "/api/scan"},
		{"GET", "/api/wallpapers", "/api/wallpapers"},
		{"PUT", "/api/wallpapers/x/favorite", "/api/wallpapers/{id}/favorite"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			var match mux.RouteMatch
			if !router.Match(req, &match) {
				t.Fatalf("no route matched %s %s", tt.method, tt.path)
			}
			tmpl, err := match.Route.GetPathTemplate()
			if err != nil {
				t.Fatalf("GetPathTemplate: %v", err)
			}
			if tmpl != tt.route {
				t.Errorf("matched %q, want %q", tmpl, tt.route)
			}
		})
	}
}

func TestSetupRouterWithoutMetrics(t *testing.T) {
	router := setupRouter(setupTestHandlers(t), false)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected 404 for /metrics when disabled, got %d", rr.Code)
	}
}

func TestSetupRouterMethodMismatch(t *testing.T) {
	router := setupRouter(setupTestHandlers(t), false)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("DELETE", "/api/scan", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

func TestSetupRouterServesHealth(t *testing.T) {
	router := setupRouter(setupTestHandlers(t), false)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("expected 200 from /health, got %d: %s", rr.Code, rr.Body.String())
	}
}
