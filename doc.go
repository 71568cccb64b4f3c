// Package main provides the entry point for the media catalog daemon.
//
// The daemon keeps a catalog of a media library in sync with the
// filesystem. It walks the library from a single physical root, resolves
// directory entries into typed items (movies, series, seasons, episodes,
// audio, photos), persists them to SQLite, and announces changes to
// interested users in debounced batches.
//
// # Application Lifecycle
//
// The daemon follows a structured initialization sequence:
//
//  1. Memory Configuration: Sets GOMEMLIMIT from environment or
//     container limits
//  2. Configuration Loading: Reads CATALOG_* environment variables and
//     validates directories
//  3. Metrics Initialization: Registers Prometheus collectors and the
//     build info gauge
//  4. Database Initialization: Opens the SQLite catalog, runs migrations
//  5. Library Options: Loads options.toml (library definitions, ignore
//     globs, episode numbering flags)
//  6. Component Initialization:
//     - Change Notifier: Debounces per-user change batches
//     - Refresh Queue: Coalesces metadata refresh requests
//     - Filesystem Monitor: Watches the library for changes (if enabled)
//     - Scanner: Validates the catalog against the filesystem
//     - Metrics Collector: Gathers catalog statistics every minute
//  7. Metrics Server Setup: Serves /metrics (if enabled)
//  8. Graceful Shutdown: Handles SIGINT/SIGTERM, stops all components
//     cleanly
//
// # Background Services
//
// Several goroutines run throughout the daemon lifecycle:
//
//   - Validation Loop: Runs one library validation per trigger; triggers
//     come from startup, the scan interval ticker, and the watcher
//   - Refresh Worker: Drains the refresh queue in priority order
//   - Notifier: Flushes accumulated changes after the debounce window
//   - Metrics Collector: Updates catalog gauges and database size
//   - Filesystem Monitor: Batches change events and requests validation
//
// Validation triggers coalesce: however many arrive while a scan runs,
// at most one more scan follows it.
//
// # Environment Variables
//
// Configuration is through environment variables:
//
//   - CATALOG_LIBRARY_ROOT: Root directory containing the library (default: /media)
//   - CATALOG_CONFIG_DIR: Directory holding options.toml (default: /config)
//   - CATALOG_DATABASE_DIR: Directory for the SQLite database (default: /database)
//   - CATALOG_METRICS_PORT: Metrics server port (default: 9090)
//   - CATALOG_METRICS_ENABLED: Enable metrics server (default: true)
//   - CATALOG_SCAN_INTERVAL: Full validation interval (default: 12h)
//   - CATALOG_WATCH_ENABLED: Watch the library for changes (default: true)
//   - CATALOG_SCAN_WORKERS: Parallel scan worker override
//   - CATALOG_MEMORY_LIMIT: Container memory limit in bytes, drives GOMEMLIMIT
//   - CATALOG_MEMORY_RATIO: Share of the memory limit for the Go heap (default: 0.85)
//
// Per-library settings (content types, season naming, disabling the
// realtime monitor for specific paths) live in options.toml, not the
// environment.
//
// # Graceful Shutdown
//
// The daemon handles SIGINT and SIGTERM signals gracefully:
//
//  1. Stop the filesystem watcher so nothing new queues
//  2. Cancel the validation loop and refresh worker, wait for the
//     in-flight scan to finish
//  3. Flush pending change notifications
//  4. Stop the metrics collector
//  5. Shutdown the metrics server
//
// The whole sequence runs under a 30 second timeout so a stuck scan
// cannot hang shutdown.
//
// # Build Requirements
//
// The daemon requires CGO for SQLite:
//
//	CGO_ENABLED=1 go build -o media-catalog .
//
// # Related Packages
//
//   - [media-catalog/internal/scanner]: Library traversal and validation
//   - [media-catalog/internal/resolvers]: Filename and directory resolution
//   - [media-catalog/internal/catalog]: Item model, IDs, and caching
//   - [media-catalog/internal/database]: SQLite persistence
//   - [media-catalog/internal/notify]: Debounced change notifications
//   - [media-catalog/internal/fswatch]: Filesystem change monitoring
//   - [media-catalog/internal/startup]: Configuration and startup logging
package main
