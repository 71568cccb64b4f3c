package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	DBTransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_db_transaction_duration_seconds",
			Help:    "Database transaction duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"result"},
	)

	DBRowsAffected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_db_rows_affected",
			Help:    "Rows affected by database write operations",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000},
		},
		[]string{"operation"},
	)

	DBConnectionsOpen = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_db_connections_open",
			Help: "Number of open database connections",
		},
	)

	DBSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_db_size_bytes",
			Help: "Size of SQLite database files in bytes",
		},
		[]string{"file"}, // "main", "wal", "shm"
	)

	DBStorageErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_db_storage_errors_total",
			Help: "Total number of errors statting database files",
		},
		[]string{"file"},
	)
)

// Scan metrics
var (
	ScanRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_runs_total",
			Help: "Total number of library validation runs",
		},
	)

	ScanLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_scan_last_run_timestamp",
			Help: "Timestamp of the last library validation run",
		},
	)

	ScanLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_scan_last_run_duration_seconds",
			Help: "Duration of the last library validation run in seconds",
		},
	)

	ScanFoldersValidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_folders_validated_total",
			Help: "Total number of folders validated during scans",
		},
	)

	ScanItemsValidated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_items_validated_total",
			Help: "Total number of items validated during scans",
		},
	)

	ScanErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_scan_errors_total",
			Help: "Total number of scan errors",
		},
	)

	ScanRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_scan_running",
			Help: "Whether a library validation is currently running (1 = running, 0 = idle)",
		},
	)

	ScanProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_scan_progress_percent",
			Help: "Progress of the current library validation (0-100)",
		},
	)
)

// Resolver metrics
var (
	ResolvedItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_resolved_items_total",
			Help: "Total number of items produced by the resolver chain",
		},
		[]string{"kind"},
	)

	ResolverFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_resolver_failures_total",
			Help: "Total number of resolver errors and panics, by resolver",
		},
		[]string{"resolver"},
	)

	ResolveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_resolve_duration_seconds",
			Help:    "Path resolution duration in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"operation"}, // "single", "multi"
	)

	IgnoredEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_ignored_entries_total",
			Help: "Total number of filesystem entries skipped by ignore rules",
		},
		[]string{"rule"},
	)
)

// Item cache metrics
var (
	ItemCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_item_cache_hits_total",
			Help: "Total number of item cache hits",
		},
	)

	ItemCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_item_cache_misses_total",
			Help: "Total number of item cache misses",
		},
	)

	ItemCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_item_cache_size",
			Help: "Number of items in the cache",
		},
	)
)

// Notifier metrics
var (
	NotifyBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_notify_batches_total",
			Help: "Total number of change batches emitted",
		},
	)

	NotifyChangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_notify_changes_total",
			Help: "Total number of item changes reported, by change type",
		},
		[]string{"change"}, // "added", "updated", "removed"
	)

	NotifySendFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_notify_send_failures_total",
			Help: "Total number of per-user notification delivery failures",
		},
	)

	NotifyPendingChanges = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_notify_pending_changes",
			Help: "Number of item changes waiting in the debounce window",
		},
	)
)

// Watcher metrics
var (
	WatcherEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_watcher_events_total",
			Help: "Total number of filesystem watcher events",
		},
		[]string{"event_type"},
	)

	WatcherErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_catalog_watcher_errors_total",
			Help: "Total number of filesystem watcher errors",
		},
	)

	WatchedDirectories = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_watched_directories",
			Help: "Number of directories currently being watched",
		},
	)

	WatcherSuspended = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_watcher_suspended",
			Help: "Whether change monitoring is suspended for a scan (1 = suspended)",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_fs_operation_duration_seconds",
			Help:    "Filesystem operation duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_fs_operation_errors_total",
			Help: "Total number of filesystem operation errors",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_fs_retry_attempts_total",
			Help: "Total number of filesystem retry attempts",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_fs_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retry",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_fs_retry_failures_total",
			Help: "Total number of filesystem operations that failed after all retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemStaleErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_fs_stale_errors_total",
			Help: "Total number of stale NFS file handle errors",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_fs_retry_duration_seconds",
			Help:    "Total duration of retried filesystem operations in seconds",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "volume"},
	)
)

// Refresh queue metrics
var (
	RefreshQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_refresh_queue_depth",
			Help: "Number of items waiting in the provider refresh queue",
		},
	)

	RefreshJobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_refresh_jobs_total",
			Help: "Total number of refresh jobs, by status",
		},
		[]string{"status"}, // "queued", "merged", "flushed", "failed"
	)
)

// Artwork metrics
var (
	ArtworkProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_artwork_probes_total",
			Help: "Total number of artwork dimension probes",
		},
		[]string{"status"},
	)

	ArtworkProbeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_catalog_artwork_probe_duration_seconds",
			Help:    "Artwork dimension probe duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)
)

// Catalog content metrics
var (
	CatalogItemsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_items_total",
			Help: "Total number of catalog items by kind",
		},
		[]string{"kind"},
	)

	CatalogFoldersTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_catalog_folders_total",
			Help: "Total number of folder items in the catalog",
		},
	)
)

// Application info metric
var (
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "media_catalog_app_info",
			Help: "Application information",
		},
		[]string{"version", "commit", "go_version"},
	)
)

// SetAppInfo sets the application info metric
func SetAppInfo(version, commit, goVersion string) {
	AppInfo.WithLabelValues(version, commit, goVersion).Set(1)
}
