// Package metrics provides Prometheus instrumentation for the catalog daemon.
//
// This package defines and exposes various metrics that can be scraped by
// Prometheus to monitor the health, performance, and behavior of the catalog
// engine. All metrics are prefixed with "media_catalog_" to avoid naming
// collisions with other applications.
//
// # Metric Categories
//
// The metrics are organized into the following categories:
//
// ## Database Metrics
//
// Monitor database query performance and storage:
//   - DBQueryTotal: Counter of queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//   - DBConnectionsOpen: Gauge of open database connections
//   - DBSizeBytes: Gauge of database file sizes (main, WAL, SHM)
//   - DBStorageErrors: Counter of errors statting database files
//
// ## Scan Metrics
//
// Track library validation runs:
//   - ScanRunsTotal: Counter of validation runs
//   - ScanLastRunTimestamp: Gauge of last run time
//   - ScanLastRunDuration: Gauge of last run duration
//   - ScanFoldersValidated: Counter of folders validated
//   - ScanItemsValidated: Counter of items validated
//   - ScanErrors: Counter of scan errors
//   - ScanRunning: Gauge indicating if a validation is active
//   - ScanProgress: Gauge of current validation progress (0-100)
//
// ## Resolver Metrics
//
// Track the path resolution pipeline:
//   - ResolvedItemsTotal: Counter of items produced, by kind
//   - ResolverFailuresTotal: Counter of resolver errors/panics, by resolver
//   - ResolveDuration: Histogram of resolution time (single vs multi)
//   - IgnoredEntriesTotal: Counter of entries skipped, by ignore rule
//
// ## Item Cache Metrics
//
// Monitor the read-through item cache:
//   - ItemCacheHits / ItemCacheMisses: Counters of cache outcomes
//   - ItemCacheSize: Gauge of cached item count
//
// ## Notifier Metrics
//
// Track debounced change notification:
//   - NotifyBatchesTotal: Counter of emitted batches
//   - NotifyChangesTotal: Counter of changes by type (added/updated/removed)
//   - NotifySendFailuresTotal: Counter of per-user delivery failures
//   - NotifyPendingChanges: Gauge of changes waiting in the debounce window
//
// ## Watcher Metrics
//
// Monitor filesystem change monitoring:
//   - WatcherEventsTotal: Counter of events by type
//   - WatcherErrors: Counter of watcher errors
//   - WatchedDirectories: Gauge of watched directory count
//   - WatcherSuspended: Gauge indicating monitoring is paused for a scan
//
// ## Filesystem Metrics
//
// Track raw filesystem operations and NFS retry behavior, recorded through
// the fsops.Observer implementation returned by NewFilesystemObserver.
//
// ## Refresh Queue Metrics
//
// Track the provider refresh queue:
//   - RefreshQueueDepth: Gauge of queued item count
//   - RefreshJobsTotal: Counter of jobs by status (queued/merged/flushed)
//
// ## Artwork Metrics
//
// Monitor artwork discovery:
//   - ArtworkProbesTotal: Counter of dimension probes by status
//   - ArtworkProbeDuration: Histogram of probe duration
//
// ## Catalog Content Metrics
//
// Gauge the catalog itself, updated by the periodic [Collector]:
//   - CatalogItemsTotal: Gauge of items by kind
//   - CatalogFoldersTotal: Gauge of folder items
//
// ## Application Info
//
// Expose build information:
//   - AppInfo: Gauge with version, commit, and Go version labels
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus registry
// using promauto. To expose them, mount the promhttp.Handler() on your
// metrics endpoint:
//
//	import "github.com/prometheus/client_golang/prometheus/promhttp"
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// # Recording Metrics
//
// To record metrics from other packages, import this package and use the
// exported metric variables:
//
//	import "media-catalog/internal/metrics"
//
//	// Increment a counter
//	metrics.ResolvedItemsTotal.WithLabelValues("movie").Inc()
//
//	// Observe a histogram value
//	metrics.DBQueryDuration.WithLabelValues("save_items").Observe(0.123)
//
//	// Set a gauge value
//	metrics.ScanProgress.Set(42.5)
//
// # Collector
//
// The package provides a [Collector] type that periodically gathers
// statistics from a [StatsProvider] and updates the corresponding gauges:
//
//	collector := metrics.NewCollector(statsProvider, dbPath, 1*time.Minute)
//	collector.Start()
//	defer collector.Stop()
//
// The collector automatically updates catalog content gauges and database
// file sizes.
//
// # Prometheus Queries
//
// Example PromQL queries for common use cases:
//
// Item cache hit rate:
//
//	rate(media_catalog_item_cache_hits_total[5m]) /
//	(rate(media_catalog_item_cache_hits_total[5m]) + rate(media_catalog_item_cache_misses_total[5m]))
//
// Database query latency by operation:
//
//	histogram_quantile(0.95, sum(rate(media_catalog_db_query_duration_seconds_bucket[5m])) by (le, operation))
//
// Resolver failure rate by resolver:
//
//	sum(rate(media_catalog_resolver_failures_total[1h])) by (resolver)
//
// Scan throughput:
//
//	rate(media_catalog_scan_items_validated_total[5m])
package metrics
