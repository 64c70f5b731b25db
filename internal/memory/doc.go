// Package memory keeps thumbnail generation inside the process memory
// budget.
//
// Decoding a large wallpaper (an 8K PNG is over 100 MiB of pixels) costs far
// more than the file on disk, and several workers decoding at once can push
// a container past its limit. Two pieces address this:
//
//   - [Configure] sets GOMEMLIMIT from a container limit so the Go runtime
//     collects harder before the kernel OOM killer steps in.
//   - [Monitor] samples heap usage and, above a critical watermark, makes
//     [Monitor.Wait] block until usage drops back below the high watermark.
//     The thumbnail scheduler calls Wait before each conversion.
//
// # Environment Variables
//
//   - GOMEMLIMIT: Standard Go variable; when set it wins and nothing is changed.
//   - MEMORY_LIMIT: Container memory limit in bytes, for example from the
//     Kubernetes Downward API.
//   - MEMORY_RATIO: Fraction of MEMORY_LIMIT given to the Go heap
//     (default 0.85). libvips allocates outside the Go heap, so lower this
//     when using the vips backend under tight limits.
//
// Without any limit the monitor is inert and Wait never blocks.
package memory
