package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	// --- Database storage health ---
	for _, file := range []string{"main", "wal", "shm"} {
		DBStorageErrors.WithLabelValues(file)
		DBSizeBytes.WithLabelValues(file)
	}

	// --- Database query operations ---
	for _, op := range []string{"initialize_schema", "save_items", "retrieve_item",
		"delete_item", "query_items", "update_people", "update_inherited",
		"refresh_stats", "vacuum"} {
		DBQueryTotal.WithLabelValues(op, "success")
		DBQueryTotal.WithLabelValues(op, "error")
		DBQueryDuration.WithLabelValues(op)
	}

	for _, result := range []string{"commit", "rollback"} {
		DBTransactionDuration.WithLabelValues(result)
	}

	// --- Filesystem operation metrics (per volume × operation) ---
	volumes := []string{"media", "database", "unknown"}
	fsOps := []string{"stat", "open", "readdir", "readlink", "remove"}

	for _, vol := range volumes {
		for _, op := range fsOps {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
		}
	}

	// --- Filesystem retry metrics (per retry-operation × volume) ---
	retryOps := []string{"stat", "open", "readdir", "remove"}

	for _, op := range retryOps {
		for _, vol := range volumes {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
			FilesystemStaleErrors.WithLabelValues(op, vol)
			FilesystemRetryDuration.WithLabelValues(op, vol)
		}
	}

	// --- Resolver chain ---
	resolvers := []string{"movie", "series", "season", "episode", "audio", "video", "folder"}
	for _, r := range resolvers {
		ResolverFailuresTotal.WithLabelValues(r)
	}
	for _, op := range []string{"single", "multi"} {
		ResolveDuration.WithLabelValues(op)
	}

	kinds := []string{
		"folder", "collection", "series", "season",
		"movie", "episode", "video", "audio", "person", "channel",
	}
	for _, k := range kinds {
		ResolvedItemsTotal.WithLabelValues(k)
		CatalogItemsTotal.WithLabelValues(k)
	}

	// --- Ignore rules ---
	for _, rule := range []string{"hidden", "system", "sample", "artwork", "custom"} {
		IgnoredEntriesTotal.WithLabelValues(rule)
	}

	// --- Watcher events ---
	for _, ev := range []string{"create", "write", "remove", "rename", "chmod"} {
		WatcherEventsTotal.WithLabelValues(ev)
	}

	// --- Change notifications ---
	for _, change := range []string{"added", "updated", "removed"} {
		NotifyChangesTotal.WithLabelValues(change)
	}

	// --- Refresh jobs ---
	for _, status := range []string{"queued", "merged", "flushed", "failed"} {
		RefreshJobsTotal.WithLabelValues(status)
	}

	// --- Artwork probes ---
	for _, status := range []string{"success", "error"} {
		ArtworkProbesTotal.WithLabelValues(status)
	}
}
