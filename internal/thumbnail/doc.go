// Package thumbnail renders cached preview images for catalog entries.
//
// A Scheduler runs a bounded pool of workers over a list of Tasks. Each task
// converts one source image into a fixed-size JPEG named after the image's
// content signature, so a thumbnail that already exists on disk is never
// rendered twice.
//
// Rendering is delegated to a Converter. Two backends are provided:
//
//   - ImagingConverter decodes and resizes in pure Go using
//     github.com/disintegration/imaging.
//   - VipsConverter uses libvips through govips, which shrinks on decode and
//     is considerably lighter on memory for large originals.
//
// Failures are logged and counted but never returned to the caller; a
// missing thumbnail only degrades the preview grid.
package thumbnail
