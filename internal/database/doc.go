// Package database implements the wallpaper catalog on SQLite.
//
// Two tables back the catalog:
//   - wallpaper_sources: user-registered root directories
//   - wallpapers: one row per distinct image content, keyed by a unique
//     signature and owned by the source it was first found in
//
// Deleting a source cascades to the wallpapers it owns. Inserts report a
// WriteResult so callers can branch on a signature conflict directly
// instead of inspecting driver errors.
package database
