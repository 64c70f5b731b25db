package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallpaper_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallpaper_catalog_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_db_connections_open",
			Help: "Number of open database connections",
		},
	)
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_scan_runs_total",
			Help: "Total number of scan runs by kind and outcome",
		},
		[]string{"kind", "status"}, // kind: "source", "all"
	)

	ScanDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallpaper_catalog_scan_duration_seconds",
			Help:    "Duration of scan runs in seconds",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900},
		},
		[]string{"kind"},
	)

	ScanIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_scan_running",
			Help: "Whether a scan is currently running (1 = running, 0 = idle)",
		},
	)

	ScanLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_scan_last_run_timestamp",
			Help: "Unix timestamp of the last completed scan",
		},
	)

	ScanFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_scan_files_total",
			Help: "Files seen by the walker by classification",
		},
		[]string{"class"}, // "image", "sidecar", "ignored", "unreadable"
	)

	ScanDuplicatesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_scan_duplicates_total",
			Help: "Candidates dropped because an earlier file in the same pass had the same signature",
		},
	)

	ScanSidecarErrorsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_scan_sidecar_errors_total",
			Help: "Sidecar metadata files that could not be read or parsed",
		},
	)

	CatalogWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_catalog_writes_total",
			Help: "Catalog insert attempts by result",
		},
		[]string{"result"}, // "inserted", "already_exists", "failed"
	)
)

// Thumbnail metrics
var (
	ThumbnailGenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_thumbnail_generations_total",
			Help: "Total number of thumbnail tasks by backend and status",
		},
		[]string{"backend", "status"}, // status: "generated", "skipped", "failed"
	)

	ThumbnailGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallpaper_catalog_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	ThumbnailWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_thumbnail_workers",
			Help: "Number of workers used by the last thumbnail batch",
		},
	)

	ThumbnailQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_thumbnail_queue_depth",
			Help: "Thumbnail tasks waiting for a worker",
		},
	)
)

// Catalog gauges, refreshed by the Collector
var (
	CatalogWallpapers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_wallpapers",
			Help: "Number of wallpapers in the catalog",
		},
	)

	CatalogSources = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_sources",
			Help: "Number of registered sources by state",
		},
		[]string{"state"}, // "active", "inactive"
	)

	CatalogFavorites = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_favorites",
			Help: "Number of wallpapers flagged as favorite",
		},
	)
)

// Filesystem retry metrics
var (
	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_filesystem_retry_attempts_total",
			Help: "Retries caused by stale file handles",
		},
		[]string{"operation"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_filesystem_retry_failures_total",
			Help: "Operations that still failed after all retries",
		},
		[]string{"operation"},
	)
)

// Memory backpressure metrics
var (
	MemoryUsageRatio = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_memory_usage_ratio",
			Help: "Heap allocation as a fraction of the memory limit",
		},
	)

	MemoryPaused = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_memory_paused",
			Help: "1 while thumbnail generation is paused for memory pressure",
		},
	)

	MemoryPausesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallpaper_catalog_memory_pauses_total",
			Help: "Times thumbnail generation was paused for memory pressure",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "wallpaper_catalog_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
