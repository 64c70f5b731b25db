// Package workers sizes worker pools from the parallelism available to the
// process.
package workers

import (
	"os"
	"runtime"
	"strconv"
)

// FallbackCount is used when the available parallelism cannot be determined.
const FallbackCount = 4

// EnvOverride names the environment variable that pins the pool size.
const EnvOverride = "THUMBNAIL_WORKERS"

// parallelism reports the CPUs usable by this process. GOMAXPROCS follows
// container CPU limits since Go 1.19, unlike runtime.NumCPU.
var parallelism = func() int {
	return runtime.GOMAXPROCS(0)
}

// Count returns the number of workers for a task type. The multiplier
// scales the available parallelism (1.0 CPU-bound, 2.0 I/O-bound) and limit
// caps the result; 0 means no cap.
//
// THUMBNAIL_WORKERS overrides the calculation when set to a positive integer.
func Count(multiplier float64, limit int) int {
	if override := os.Getenv(EnvOverride); override != "" {
		if count, err := strconv.Atoi(override); err == nil && count > 0 {
			if limit > 0 && count > limit {
				return limit
			}
			return count
		}
	}

	available := parallelism()
	if available < 1 {
		available = FallbackCount
	}

	workers := int(float64(available) * multiplier)

	if workers < 1 {
		workers = 1
	}
	if limit > 0 && workers > limit {
		workers = limit
	}

	return workers
}

// ForCPU returns worker count for CPU-bound tasks such as image decoding
// and encoding (1 per CPU).
func ForCPU(limit int) int {
	return Count(1.0, limit)
}

// ForIO returns worker count for I/O-bound tasks (2 per CPU).
func ForIO(limit int) int {
	return Count(2.0, limit)
}
