// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig]:
//
//   - CACHE_DIR: cache root; thumbnails live in CACHE_DIR/thumbnails
//     (default: $XDG_CACHE_HOME/wallpaper-catalog)
//   - DATABASE_DIR: directory holding catalog.db (default: CACHE_DIR)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_ENABLED: expose /metrics (default: true)
//   - SCAN_ON_START: rebuild the catalog from all sources at startup (default: false)
//   - LOG_HEALTH_CHECKS: include /health in the request log (default: false)
//   - THUMBNAIL_BACKEND: auto, vips or imaging (default: auto)
//   - THUMBNAIL_WORKERS: fixed thumbnail pool size (default: one per CPU)
//   - LOG_LEVEL: debug, info, warn or error (default: info)
//
// The database directory must be writable; startup fails otherwise.
package startup
