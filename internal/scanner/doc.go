// Package scanner ingests wallpaper source directories into the catalog.
//
// A scan walks one source tree, signs every image by content, merges any
// image_metadata.json sidecars into searchable keywords, writes new entries
// through a Store and finally hands the thumbnails it needs to a
// thumbnail scheduler.
//
// Entries are keyed by content signature, not path. Two byte-identical
// files yield one entry no matter which source or directory they live in,
// and re-scanning an unchanged tree writes nothing. Within one pass the
// first file seen in lexical walk order wins; a file that later moves keeps
// its original catalog path until the next ScanAll rebuild.
//
// Per-file problems (unreadable files, broken sidecars, failed thumbnails)
// are logged and skipped. Only an unreadable source root or a catalog write
// failure aborts a scan.
package scanner
