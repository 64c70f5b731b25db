// Package main provides the entry point for the wallpaper catalog server.
//
// The server keeps a content-addressed catalog of wallpapers found under
// user-registered source directories. Images are identified by a BLAKE2b-256
// signature of their bytes, so the same picture found twice (or under two
// sources) is cataloged once. Optional image_metadata.json sidecars supply
// captions, categories and tags that become searchable keywords, and every
// entry gets a 400x200 JPEG thumbnail in the cache directory.
//
// # Application Lifecycle
//
//  1. Configuration Loading: Reads environment variables and prepares directories
//  2. Database Initialization: Opens the SQLite catalog and applies the schema
//  3. Component Initialization:
//     - Thumbnail backend: libvips when available, pure Go imaging otherwise
//     - Thumbnail scheduler: bounded worker pool sized from available CPUs
//     - Scanner: walks sources and writes catalog entries
//     - Metrics Collector: refreshes catalog gauges every minute
//  4. HTTP Server Setup: Configures routes and middleware and starts serving
//  5. Optional startup rebuild when SCAN_ON_START is set
//  6. Graceful Shutdown: Handles SIGINT/SIGTERM
//
// # HTTP API
//
//	GET    /api/sources                 list sources
//	POST   /api/sources                 register a source {"path": "..."}
//	PUT    /api/sources/{id}/active     toggle a source {"active": bool}
//	DELETE /api/sources/{id}            remove a source and its wallpapers
//	POST   /api/sources/{id}/scan       scan one source
//	POST   /api/scan                    rebuild the catalog from all sources
//	GET    /api/wallpapers              list wallpapers (?q=, ?all=, ?favorites=)
//	PUT    /api/wallpapers/{id}/favorite  mark or clear a favorite
//	GET    /thumbnails/{signature}.jpeg cached thumbnail
//	GET    /health, /livez, /version, /metrics
//
// Only one scan runs at a time; a second request gets 409 Conflict.
//
// # Environment Variables
//
//   - CACHE_DIR: Thumbnail cache root (default: $XDG_CACHE_HOME/wallpaper-catalog)
//   - DATABASE_DIR: Directory for catalog.db (default: CACHE_DIR)
//   - PORT: HTTP server port (default: 8080)
//   - METRICS_ENABLED: Serve /metrics (default: true)
//   - SCAN_ON_START: Rebuild the catalog at startup (default: false)
//   - LOG_HEALTH_CHECKS: Log health probe requests (default: false)
//   - THUMBNAIL_BACKEND: auto, vips or imaging (default: auto)
//   - THUMBNAIL_WORKERS: Thumbnail pool size (default: available CPUs)
//   - LOG_LEVEL: Logging level (debug/info/warn/error)
//
// # Build Requirements
//
// CGO is required for SQLite and libvips.
//
// For a one-shot command line front end to the same pipeline, see
// cmd/wallscan.
package main
