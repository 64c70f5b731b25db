package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"wallpaper-catalog/internal/logging"
	"wallpaper-catalog/internal/workers"

	"github.com/gorilla/mux"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// AppName names the cache subdirectory and the metrics namespace.
const AppName = "wallpaper-catalog"

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// RouteInfo contains information about a registered route
type RouteInfo struct {
	Method string
	Path   string
	Name   string
}

// Config holds all application configuration
type Config struct {
	CacheDir         string
	DatabaseDir      string
	Port             string
	MetricsEnabled   bool
	ScanOnStart      bool
	LogHealthChecks  bool
	ThumbnailBackend string
	// ThumbnailWorkers is 0 when the pool is sized from available CPUs.
	ThumbnailWorkers int

	// Derived paths
	DatabasePath string
	ThumbnailDir string
}

// LoadConfig loads and validates configuration from environment variables
// and prepares the cache and database directories.
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	config, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}

	logSection("DIRECTORY SETUP")
	logging.Info("  Cache directory:    %s", config.CacheDir)
	logging.Info("  Database directory: %s", config.DatabaseDir)

	if err := PrepareDirectories(config); err != nil {
		return nil, err
	}
	logging.Info("  [OK] Database directory is writable")
	logging.Info("  [OK] Thumbnail directory ready")

	return config, nil
}

// ConfigFromEnv reads every setting without touching the filesystem. The
// CLI uses it directly and calls PrepareDirectories itself.
func ConfigFromEnv() (*Config, error) {
	logHeading("CONFIGURATION")

	cacheDir := getEnv("CACHE_DIR", defaultCacheDir())
	databaseDir := getEnv("DATABASE_DIR", cacheDir)
	port := getEnv("PORT", "8080")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	scanOnStart := getEnvBool("SCAN_ON_START", false)
	logHealthChecks := getEnvBool("LOG_HEALTH_CHECKS", false)
	backend := strings.ToLower(getEnv("THUMBNAIL_BACKEND", "auto"))
	thumbnailWorkers := getEnvInt(workers.EnvOverride, 0)

	logging.Info("  CACHE_DIR:           %s", cacheDir)
	logging.Info("  DATABASE_DIR:        %s", databaseDir)
	logging.Info("  PORT:                %s", port)
	logging.Info("  METRICS_ENABLED:     %v", metricsEnabled)
	logging.Info("  SCAN_ON_START:       %v", scanOnStart)
	logging.Info("  LOG_HEALTH_CHECKS:   %v", logHealthChecks)
	logging.Info("  THUMBNAIL_BACKEND:   %s", backend)
	if thumbnailWorkers > 0 {
		logging.Info("  THUMBNAIL_WORKERS:   %d", thumbnailWorkers)
	} else {
		logging.Info("  THUMBNAIL_WORKERS:   auto (%d)", workers.ForCPU(0))
	}
	logging.Info("  LOG_LEVEL:           %s", logging.GetLevel())

	switch backend {
	case "auto", "vips", "imaging":
	default:
		return nil, fmt.Errorf("invalid THUMBNAIL_BACKEND %q (want auto, vips or imaging)", backend)
	}

	var err error
	cacheDir, err = filepath.Abs(cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve cache directory path: %w", err)
	}
	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}

	return &Config{
		CacheDir:         cacheDir,
		DatabaseDir:      databaseDir,
		Port:             port,
		MetricsEnabled:   metricsEnabled,
		ScanOnStart:      scanOnStart,
		LogHealthChecks:  logHealthChecks,
		ThumbnailBackend: backend,
		ThumbnailWorkers: thumbnailWorkers,
		DatabasePath:     filepath.Join(databaseDir, "catalog.db"),
		ThumbnailDir:     filepath.Join(cacheDir, "thumbnails"),
	}, nil
}

// PrepareDirectories creates the database and thumbnail directories and
// checks that the database directory is writable.
func PrepareDirectories(config *Config) error {
	if err := ensureDirectory(config.DatabaseDir, "database"); err != nil {
		return fmt.Errorf("database directory error: %w", err)
	}

	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(config.DatabaseDir); err != nil {
		return fmt.Errorf("database directory is not writable: %w", err)
	}

	if err := ensureDirectory(config.ThumbnailDir, "thumbnail"); err != nil {
		return fmt.Errorf("thumbnail directory error: %w", err)
	}
	return nil
}

// defaultCacheDir is $XDG_CACHE_HOME/wallpaper-catalog, or ~/.cache on
// systems where XDG_CACHE_HOME is unset.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(base, AppName)
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logSection("DATABASE INITIALIZATION")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogThumbnailInit logs the selected thumbnail backend and pool size
func LogThumbnailInit(backend string, workerCount int) {
	logSection("THUMBNAIL INITIALIZATION")
	logging.Info("  Backend: %s", backend)
	logging.Info("  Workers: %d", workerCount)
}

// GetRoutes extracts all registered routes from a mux.Router
func GetRoutes(router *mux.Router) ([]RouteInfo, error) {
	var routes []RouteInfo

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		pathTemplate, err := route.GetPathTemplate()
		if err != nil {
			return err
		}

		methods, err := route.GetMethods()
		if err != nil {
			methods = []string{"*"}
		}

		for _, method := range methods {
			routes = append(routes, RouteInfo{
				Method: method,
				Path:   pathTemplate,
				Name:   route.GetName(),
			})
		}
		return nil
	})

	return routes, err
}

// LogHTTPRoutes logs all registered HTTP routes at debug level
func LogHTTPRoutes(router *mux.Router, logHealthChecks bool) {
	logSection("HTTP SERVER SETUP")

	if logging.IsDebugEnabled() {
		routes, err := GetRoutes(router)
		if err != nil {
			logging.Warn("error walking routes: %v", err)
		}

		sort.Slice(routes, func(i, j int) bool {
			if routes[i].Path == routes[j].Path {
				return routes[i].Method < routes[j].Method
			}
			return routes[i].Path < routes[j].Path
		})

		logging.Debug("  Registered routes (%d total):", len(routes))
		for _, route := range routes {
			logging.Debug("    %-6s %s", route.Method, route.Path)
		}
	}

	logging.Info("  HTTP logging enabled")
	if logHealthChecks {
		logging.Info("    Health check logging: ON")
	} else {
		logging.Info("    Health check logging: OFF (set LOG_HEALTH_CHECKS=true to enable)")
	}
}

// ServerConfig holds configuration for the server startup log
type ServerConfig struct {
	Port            string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs the listening address and the main endpoints.
func LogServerStarted(config ServerConfig) {
	base := "http://localhost:" + config.Port
	logSection("SERVER STARTED")
	logging.Info("  Startup time:    %v", config.StartupDuration.Round(time.Millisecond))
	logging.Info("  Sources:         %s/api/sources", base)
	logging.Info("  Wallpapers:      %s/api/wallpapers", base)
	logging.Info("  Rebuild:         POST %s/api/scan", base)
	if config.MetricsEnabled {
		logging.Info("  Metrics:         %s/metrics", base)
	} else {
		logging.Info("  Metrics:         DISABLED")
	}
	logging.Info("  Press Ctrl+C to stop the server")
	logging.Info(rule)
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logSection("SHUTDOWN INITIATED (received %s)", signal)
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

const rule = "------------------------------------------------------------"

func logHeading(format string, args ...interface{}) {
	logging.Info(rule)
	logging.Info(format, args...)
	logging.Info(rule)
}

// logSection is logHeading preceded by a blank line.
func logSection(format string, args ...interface{}) {
	logging.Info("")
	logHeading(format, args...)
}

func printBanner() {
	banner := `
------------------------------------------------------------
 _      __     ____                           
| | /| / /__ _/ / /__  ___ ____  ___ ____    
| |/ |/ / _ '/ / / _ \/ _ '/ _ \/ -_) __/    
|__/|__/\_,_/_/_/ .__/\_,_/ .__/\__/_/  catalog
               /_/       /_/                  
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logHeading("SYSTEM INFORMATION")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

// ensureDirectory creates path if needed and fails if something other than
// a directory is already there.
func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s exists but is not a directory", path)
	}
	return nil
}

func testWriteAccess(dir string) error {
	f, err := os.CreateTemp(dir, ".write-test-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	if err := os.Remove(name); err != nil {
		logging.Warn("failed to remove write test file %s: %v", name, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		logging.Warn("Invalid integer value for %s: %q, using default: %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
