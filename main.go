package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/database"
	"media-catalog/internal/fsops"
	"media-catalog/internal/fswatch"
	"media-catalog/internal/logging"
	"media-catalog/internal/memory"
	"media-catalog/internal/metrics"
	"media-catalog/internal/notify"
	"media-catalog/internal/options"
	"media-catalog/internal/refresh"
	"media-catalog/internal/resolvers"
	"media-catalog/internal/scanner"
	"media-catalog/internal/startup"
	"media-catalog/internal/workers"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Honor container memory limits before anything allocates
	memory.ConfigureFromEnv()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()
	build := startup.GetBuildInfo()
	metrics.SetAppInfo(build.Version, build.Commit, build.GoVersion)

	// Initialize database
	dbStart := time.Now()
	db, err := database.New(context.Background(), config.DatabasePath)
	if err != nil {
		startup.LogFatal("Failed to initialize database: %v", err)
	}
	defer db.Close()
	startup.LogDatabaseInit(time.Since(dbStart))

	// Library options
	opts, err := options.Load(config.OptionsPath)
	if err != nil {
		startup.LogFatal("Failed to load library options: %v", err)
	}

	// ctx stops every background worker on shutdown.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The daemon carries no session layer, so change batches go to the
	// log through a single all-seeing user. The notifier keeps its own
	// context so the shutdown flush still delivers.
	notifier := notify.NewNotifier(context.Background(), logGateway{}, adminViews{})

	queue := refresh.NewQueue()
	go queue.Serve(ctx, logRefresher{})

	// Validation triggers from startup, the interval ticker, and the
	// watcher all coalesce here; one pending run is enough.
	scanRequests := make(chan string, 1)
	requestScan := func(reason string) {
		select {
		case scanRequests <- reason:
		default:
		}
	}

	var monitor *fswatch.Monitor
	if config.WatchEnabled {
		var unwatched []string
		for _, lib := range opts.Libraries {
			if lib.DisableRealtimeMonitor {
				unwatched = append(unwatched, lib.Paths...)
			}
		}
		monitor = fswatch.NewMonitor(
			scanner.DedupPaths([]string{config.LibraryRoot}),
			func([]string) { requestScan("filesystem change") },
			fswatch.WithExcludes(unwatched),
		)
	}

	// Initialize scanner
	scanWorkers := workers.ForIO(16)
	startup.LogScannerInit(config.ScanInterval, scanWorkers)
	scanCfg := scanner.Config{
		Root:     config.LibraryRoot,
		FS:       fsops.NewLocal(),
		Repo:     db,
		Cache:    catalog.NewCache(db),
		Options:  opts,
		Chain:    resolvers.Default(nil),
		Notifier: notifier,
		Refresh:  queue,
		Workers:  scanWorkers,
	}
	if monitor != nil {
		// Assigning a nil *Monitor would make the interface non-nil.
		scanCfg.Monitor = monitor
	}
	mgr := scanner.NewManager(scanCfg)

	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		validationLoop(ctx, mgr, db, config.ScanInterval, scanRequests)
	}()
	requestScan("startup")
	startup.LogScannerStarted()

	// Start filesystem watcher
	watchedDirs := 0
	if monitor != nil {
		if err := monitor.Start(); err != nil {
			logging.Error("Failed to start filesystem watcher: %v", err)
			monitor = nil
		} else {
			watchedDirs = monitor.Watched()
		}
	}
	startup.LogWatcherInit(monitor != nil, watchedDirs)

	// Periodic stats and database size collection
	collector := metrics.NewCollector(db, config.DatabasePath, 1*time.Minute)
	collector.Start()

	var metricsSrv *http.Server
	if config.MetricsEnabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:         ":" + config.MetricsPort,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				startup.LogFatal("Metrics server error: %v", err)
			}
		}()
	}

	startup.LogServerStarted(startup.ServerConfig{
		MetricsPort:     config.MetricsPort,
		MetricsEnabled:  config.MetricsEnabled,
		StartupDuration: time.Since(startTime),
	})

	handleShutdown(cancel, scanDone, monitor, notifier, collector, metricsSrv)
}

// validationLoop runs one library validation per trigger and re-runs on
// the configured interval. Failures are logged and the loop keeps going;
// the next trigger retries.
func validationLoop(ctx context.Context, mgr *scanner.Manager, db *database.Database, interval time.Duration, requests <-chan string) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	run := func(reason string) {
		logging.Info("Library validation triggered (%s)", reason)
		if err := mgr.ValidateLibrary(ctx); err != nil {
			logging.Warn("Library validation failed: %v", err)
			return
		}
		if _, err := db.RefreshStats(ctx); err != nil {
			logging.Warn("Refreshing catalog stats: %v", err)
		}
		db.UpdateDBMetrics()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case reason := <-requests:
			run(reason)
		case <-ticker.C:
			run("interval")
		}
	}
}

// handleShutdown blocks until SIGINT or SIGTERM, then stops components
// in dependency order: the watcher first so nothing new queues, then the
// background workers, then a final flush of pending notifications.
func handleShutdown(cancel context.CancelFunc, scanDone <-chan struct{}, monitor *fswatch.Monitor, notifier *notify.Notifier, collector *metrics.Collector, metricsSrv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	startup.LogShutdownInitiated(sig.String())

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelTimeout()

	if monitor != nil {
		startup.LogShutdownStep("Stopping filesystem watcher")
		monitor.Stop()
		startup.LogShutdownStepComplete("Filesystem watcher stopped")
	}

	startup.LogShutdownStep("Stopping scanner and refresh worker")
	cancel()
	select {
	case <-scanDone:
		startup.LogShutdownStepComplete("Background workers stopped")
	case <-ctx.Done():
		logging.Warn("Timed out waiting for the scanner to stop")
	}

	startup.LogShutdownStep("Flushing pending notifications")
	notifier.Flush()
	notifier.Stop()
	startup.LogShutdownStepComplete("Notifications flushed")

	startup.LogShutdownStep("Stopping metrics collector")
	collector.Stop()
	startup.LogShutdownStepComplete("Metrics collector stopped")

	if metricsSrv != nil {
		startup.LogShutdownStep("Shutting down metrics server")
		if err := metricsSrv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics server shutdown error: %v", err)
		} else {
			startup.LogShutdownStepComplete("Metrics server stopped")
		}
	}

	startup.LogShutdownComplete()
}

// logGateway writes outgoing change batches to the log. Hosts with a
// session layer plug in a real transport instead.
type logGateway struct{}

func (logGateway) SendLibraryChanged(_ context.Context, userID string, changes *notify.UserChanges) error {
	logging.Info("Library changed for %s: %d added, %d updated, %d removed",
		userID, len(changes.ItemsAdded), len(changes.ItemsUpdated), len(changes.ItemsRemoved))
	return nil
}

// adminViews is the daemon's single all-seeing user. Top-level folders
// stand in for themselves as view folders.
type adminViews struct{}

func (adminViews) UserIDs() []string { return []string{"admin"} }

func (adminViews) CanSee(string, *catalog.Item) bool { return true }

func (adminViews) ViewFolder(_, topParentID string) (string, bool) {
	return topParentID, topParentID != ""
}

// logRefresher drains the refresh queue. Metadata providers are plugged
// in by hosts; the daemon records what one would fetch.
type logRefresher struct{}

func (logRefresher) Refresh(_ context.Context, job *refresh.Job) error {
	logging.Debug("Refresh %s for item %s (priority %d)", job.ID, job.ItemID, job.Priority)
	return nil
}
