// Package logging provides the leveled logger used across the wallpaper
// catalog.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information (per-file decisions, skipped thumbnails)
//   - INFO: General operational messages (scan start/finish, counts)
//   - WARN: Recoverable per-file problems (unreadable files, bad sidecars)
//   - ERROR: Failures that abort a scan or a request
//   - FATAL: Fatal errors that terminate the application
//
// The level is read once from DEBUG or LOG_LEVEL and may be overridden with
// SetLevel. Output goes to stderr unless redirected with SetOutput.
package logging
