// Command wallscan is a one-shot front end for the wallpaper catalog. It
// registers source directories, runs scans and prints the catalog without
// starting the HTTP server.
//
// Usage:
//
//	wallscan <command> [arguments]
//
// Commands:
//
//	add <path>       Register a directory as a wallpaper source.
//	sources          List registered sources.
//	scan [id]        Scan one source, or every active source when no id
//	                 is given. Existing entries are kept.
//	scan-all         Rebuild the catalog from every registered source.
//	                 Favorites are lost.
//	list [query]     List wallpapers of active sources, optionally
//	                 filtered by keyword or path terms.
//
// Output is a table when stdout is a terminal and JSON otherwise; --json
// forces JSON. Logs go to stderr.
//
// Environment:
//
//	CACHE_DIR          - Thumbnail cache root (default: $XDG_CACHE_HOME/wallpaper-catalog)
//	DATABASE_DIR       - Directory holding catalog.db (default: CACHE_DIR)
//	THUMBNAIL_BACKEND  - auto, vips or imaging (default: auto)
//	THUMBNAIL_WORKERS  - Thumbnail pool size (default: available CPUs)
//	LOG_LEVEL          - debug, info, warn or error (default: warn)
package main
