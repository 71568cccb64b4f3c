// Package startup handles application initialization, configuration loading,
// and startup/shutdown logging.
//
// This package centralizes all application configuration and provides consistent
// logging throughout the application lifecycle.
//
// # Configuration
//
// All configuration is loaded from environment variables via [LoadConfig].
// The following environment variables are supported:
//
//   - CATALOG_LIBRARY_ROOT: Path to the physical library root (default: /media)
//   - CATALOG_CONFIG_DIR: Directory holding options.toml (default: /config)
//   - CATALOG_DATABASE_DIR: Path to database directory (default: /database)
//   - CATALOG_METRICS_PORT: Prometheus metrics server port (default: 9090)
//   - CATALOG_METRICS_ENABLED: Enable or disable metrics server (default: true)
//   - CATALOG_SCAN_INTERVAL: Full validation interval as Go duration (default: 12h)
//   - CATALOG_WATCH_ENABLED: Watch the library for changes (default: true)
//   - CATALOG_SCAN_WORKERS: Parallel walker override (see internal/workers)
//   - LOG_LEVEL: Logging level - debug, info, warn, error (default: info)
//
// # Directory Setup
//
// The package validates and creates required directories:
//   - Database directory: Required, must be writable
//   - Library root: Checked but failures only warn (network mounts may
//     appear after startup)
//   - Config directory: Optional; a missing options file means defaults
//
// # Build Information
//
// Build-time variables are injected via ldflags and exposed via [GetBuildInfo]:
//   - Version: Application version
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//   - GoVersion: Go compiler version
//
// # Lifecycle Logging
//
// The package provides structured logging functions for consistent output:
//   - [LogDatabaseInit]: Database initialization timing
//   - [LogScannerInit]: Scanner configuration and validation interval
//   - [LogWatcherInit]: Filesystem watcher status
//   - [LogServerStarted]: Endpoints and startup duration
//   - [LogShutdownInitiated]: Graceful shutdown start
//   - [LogShutdownComplete]: Shutdown completion
//
// # Example Usage
//
//	config, err := startup.LoadConfig()
//	if err != nil {
//	    startup.LogFatal("Configuration error: %v", err)
//	}
//
//	// Initialize components...
//	startup.LogDatabaseInit(dbInitDuration)
//	startup.LogScannerInit(config.ScanInterval, workers.ForIO(16))
//
//	// Start serving...
//	startup.LogServerStarted(startup.ServerConfig{
//	    MetricsPort:     config.MetricsPort,
//	    MetricsEnabled:  config.MetricsEnabled,
//	    StartupDuration: time.Since(startTime),
//	})
//
//	// On shutdown...
//	startup.LogShutdownInitiated("SIGTERM")
//	// ... cleanup ...
//	startup.LogShutdownComplete()
package startup
