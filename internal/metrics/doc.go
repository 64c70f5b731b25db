// Package metrics provides Prometheus instrumentation for the wallpaper
// catalog. All metrics are prefixed with "wallpaper_catalog_".
//
// # Metric Categories
//
// Scan metrics track the ingestion pipeline: runs by kind ("source" for a
// single source, "all" for a full rebuild), duration, walker classification
// counts, in-pass duplicates, sidecar failures and catalog write results
// ("inserted", "already_exists", "failed").
//
// Thumbnail metrics track the worker pool: generations by backend and status
// ("generated", "skipped", "failed"), per-task duration, worker count and
// queue depth.
//
// Catalog gauges (wallpapers, favorites, sources by state) are refreshed
// periodically by a Collector backed by the database.
//
// Database and HTTP metrics follow the usual operation/status labelling.
//
// # Usage
//
//	metrics.InitializeMetrics()
//	collector := metrics.NewCollector(db, time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// The /metrics endpoint is served by the handlers package via promhttp.
package metrics
