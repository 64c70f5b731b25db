package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
func InitializeMetrics() {
	for _, kind := range []string{"source", "all"} {
		ScanRunsTotal.WithLabelValues(kind, "success")
		ScanRunsTotal.WithLabelValues(kind, "error")
		ScanDuration.WithLabelValues(kind)
	}

	for _, class := range []string{"image", "sidecar", "ignored", "unreadable"} {
		ScanFilesTotal.WithLabelValues(class)
	}

	for _, result := range []string{"inserted", "already_exists", "failed"} {
		CatalogWritesTotal.WithLabelValues(result)
	}

	for _, backend := range []string{"imaging", "vips"} {
		for _, status := range []string{"generated", "skipped", "failed"} {
			ThumbnailGenerationsTotal.WithLabelValues(backend, status)
		}
		ThumbnailGenerationDuration.WithLabelValues(backend)
	}

	for _, state := range []string{"active", "inactive"} {
		CatalogSources.WithLabelValues(state)
	}

	for _, op := range []string{"read", "stat"} {
		FilesystemRetryAttempts.WithLabelValues(op)
		FilesystemRetryFailures.WithLabelValues(op)
	}

	for _, op := range []string{"initialize_schema", "insert_wallpaper", "get_wallpaper_by_signature",
		"list_wallpapers", "delete_all_wallpapers", "add_source", "list_sources", "get_source",
		"set_source_active", "remove_source", "set_favorite", "catalog_stats"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}
}
