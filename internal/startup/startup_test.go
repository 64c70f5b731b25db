package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.OS == "" || info.Arch == "" {
		t.Error("Expected OS and Arch to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		setEnv   bool
		want     string
	}{
		{name: "Returns default when env var not set", want: "default"},
		{name: "Returns env value when set", envValue: "custom", setEnv: true, want: "custom"},
		{name: "Returns default when env var is empty", envValue: "", setEnv: true, want: "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const key = "WALLPAPER_TEST_GETENV"
			if tt.setEnv {
				t.Setenv(key, tt.envValue)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnv(key, "default"); got != tt.want {
				t.Errorf("getEnv = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		value        string
		defaultValue bool
		want         bool
	}{
		{"", true, true},
		{"", false, false},
		{"true", false, true},
		{"1", false, true},
		{"false", true, false},
		{"0", true, false},
		{"maybe", true, true},
		{"maybe", false, false},
	}

	for _, tt := range tests {
		t.Setenv("WALLPAPER_TEST_BOOL", tt.value)
		if got := getEnvBool("WALLPAPER_TEST_BOOL", tt.defaultValue); got != tt.want {
			t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
		}
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		value string
		want  int
	}{
		{"", 3},
		{"8", 8},
		{"0", 0},
		{"-2", 3},
		{"lots", 3},
	}

	for _, tt := range tests {
		t.Setenv("WALLPAPER_TEST_INT", tt.value)
		if got := getEnvInt("WALLPAPER_TEST_INT", 3); got != tt.want {
			t.Errorf("getEnvInt(%q) = %d, want %d", tt.value, got, tt.want)
		}
	}
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CACHE_DIR", "DATABASE_DIR", "PORT", "METRICS_ENABLED", "SCAN_ON_START",
		"LOG_HEALTH_CHECKS", "THUMBNAIL_BACKEND", "THUMBNAIL_WORKERS"} {
		t.Setenv(key, "")
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	clearConfigEnv(t)
	cacheHome := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}

	wantCache := filepath.Join(cacheHome, AppName)
	if cfg.CacheDir != wantCache {
		t.Errorf("CacheDir = %s, want %s", cfg.CacheDir, wantCache)
	}
	if cfg.DatabaseDir != wantCache {
		t.Errorf("DatabaseDir = %s, want cache dir", cfg.DatabaseDir)
	}
	if cfg.DatabasePath != filepath.Join(wantCache, "catalog.db") {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
	if cfg.ThumbnailDir != filepath.Join(wantCache, "thumbnails") {
		t.Errorf("ThumbnailDir = %s", cfg.ThumbnailDir)
	}
	if cfg.Port != "8080" || !cfg.MetricsEnabled || cfg.ScanOnStart {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.ThumbnailBackend != "auto" || cfg.ThumbnailWorkers != 0 {
		t.Errorf("unexpected thumbnail defaults: %+v", cfg)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	cache := t.TempDir()
	db := t.TempDir()
	t.Setenv("CACHE_DIR", cache)
	t.Setenv("DATABASE_DIR", db)
	t.Setenv("PORT", "9999")
	t.Setenv("SCAN_ON_START", "true")
	t.Setenv("THUMBNAIL_BACKEND", "Imaging")
	t.Setenv("THUMBNAIL_WORKERS", "6")

	cfg, err := ConfigFromEnv()
	if err != nil {
		t.Fatalf("ConfigFromEnv failed: %v", err)
	}
	if cfg.DatabasePath != filepath.Join(db, "catalog.db") {
		t.Errorf("DatabasePath = %s", cfg.DatabasePath)
	}
	if cfg.ThumbnailDir != filepath.Join(cache, "thumbnails") {
		t.Errorf("ThumbnailDir = %s", cfg.ThumbnailDir)
	}
	if cfg.Port != "9999" || !cfg.ScanOnStart || cfg.ThumbnailBackend != "imaging" || cfg.ThumbnailWorkers != 6 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
}

func TestConfigFromEnvInvalidBackend(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CACHE_DIR", t.TempDir())
	t.Setenv("THUMBNAIL_BACKEND", "magick")

	if _, err := ConfigFromEnv(); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestPrepareDirectories(t *testing.T) {
	root := t.TempDir()
	cfg := &Config{
		DatabaseDir:  filepath.Join(root, "db"),
		ThumbnailDir: filepath.Join(root, "cache", "thumbnails"),
	}

	if err := PrepareDirectories(cfg); err != nil {
		t.Fatalf("PrepareDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.DatabaseDir, cfg.ThumbnailDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s was not created", dir)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.DatabaseDir, ".write-test")); !os.IsNotExist(err) {
		t.Error("write test file should be removed")
	}
}

func TestPrepareDirectoriesNotADirectory(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	err := PrepareDirectories(&Config{DatabaseDir: file, ThumbnailDir: filepath.Join(root, "t")})
	if err == nil {
		t.Error("expected error when database dir is a file")
	}
}

func TestGetRoutes(t *testing.T) {
	router := mux.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	router.HandleFunc("/api/sources", noop).Methods("GET", "POST")
	router.HandleFunc("/health", noop)

	routes, err := GetRoutes(router)
	if err != nil {
		t.Fatalf("GetRoutes failed: %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("got %d routes, want 3: %+v", len(routes), routes)
	}

	var wildcard bool
	for _, r := range routes {
		if r.Path == "/health" && r.Method == "*" {
			wildcard = true
		}
	}
	if !wildcard {
		t.Error("route without methods should be reported as *")
	}
}
