// Package handlers implements the HTTP API of the wallpaper catalog.
//
// Sources are registered, toggled and removed under /api/sources. Scans
// run synchronously inside the request and return the entries they
// produced; only one scan may run at a time and a second request gets
// 409 Conflict. Cached thumbnails are served from /thumbnails/.
package handlers
