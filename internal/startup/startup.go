package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"media-catalog/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the build information for this binary
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all application configuration
type Config struct {
	LibraryRoot    string
	ConfigDir      string
	DatabaseDir    string
	MetricsPort    string
	ScanInterval   time.Duration
	WatchEnabled   bool
	MetricsEnabled bool

	// Derived paths
	DatabasePath string
	OptionsPath  string
}

// LoadConfig loads and validates configuration from environment variables
func LoadConfig() (*Config, error) {
	printBanner()
	logSystemInfo()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	libraryRoot := getEnv("CATALOG_LIBRARY_ROOT", "/media")
	configDir := getEnv("CATALOG_CONFIG_DIR", "/config")
	databaseDir := getEnv("CATALOG_DATABASE_DIR", "/database")
	metricsPort := getEnv("CATALOG_METRICS_PORT", "9090")
	scanIntervalStr := getEnv("CATALOG_SCAN_INTERVAL", "12h")
	watchEnabled := getEnvBool("CATALOG_WATCH_ENABLED", true)
	metricsEnabled := getEnvBool("CATALOG_METRICS_ENABLED", true)

	logging.Info("  CATALOG_LIBRARY_ROOT:    %s", libraryRoot)
	logging.Info("  CATALOG_CONFIG_DIR:      %s", configDir)
	logging.Info("  CATALOG_DATABASE_DIR:    %s", databaseDir)
	logging.Info("  CATALOG_METRICS_PORT:    %s", metricsPort)
	logging.Info("  CATALOG_METRICS_ENABLED: %v", metricsEnabled)
	logging.Info("  CATALOG_SCAN_INTERVAL:   %s", scanIntervalStr)
	logging.Info("  CATALOG_WATCH_ENABLED:   %v", watchEnabled)
	logging.Info("  LOG_LEVEL:               %s", logging.GetLevel())

	scanInterval, err := time.ParseDuration(scanIntervalStr)
	if err != nil {
		logging.Warn("  Invalid CATALOG_SCAN_INTERVAL, using default: 12h")
		scanInterval = 12 * time.Hour
	}

	// Resolve paths
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DIRECTORY SETUP")
	logging.Info("------------------------------------------------------------")

	libraryRoot, err = filepath.Abs(libraryRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve library root path: %w", err)
	}
	logging.Info("  Library root (absolute): %s", libraryRoot)

	configDir, err = filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config directory path: %w", err)
	}
	logging.Info("  Config directory (absolute): %s", configDir)

	databaseDir, err = filepath.Abs(databaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database directory path: %w", err)
	}
	logging.Info("  Database directory (absolute): %s", databaseDir)

	// Check the library root (warning only: network mounts may appear
	// after startup, and validation runs degrade while they are gone).
	if err := ensureDirectory(libraryRoot, "library"); err != nil {
		logging.Warn("  Library root issue: %v", err)
	}

	config := &Config{
		LibraryRoot:    libraryRoot,
		ConfigDir:      configDir,
		DatabaseDir:    databaseDir,
		MetricsPort:    metricsPort,
		ScanInterval:   scanInterval,
		WatchEnabled:   watchEnabled,
		MetricsEnabled: metricsEnabled,
		DatabasePath:   filepath.Join(databaseDir, "catalog.db"),
		OptionsPath:    filepath.Join(configDir, "options.toml"),
	}

	// Ensure base database directory exists (required for the repository)
	if err := ensureDirectory(databaseDir, "database"); err != nil {
		return nil, fmt.Errorf("database directory error: %w", err)
	}

	// Test write access for the database (required)
	logging.Debug("  Testing database directory write access...")
	if err := testWriteAccess(databaseDir); err != nil {
		return nil, fmt.Errorf("database directory is not writable (required for the repository): %w", err)
	}
	logging.Info("  [OK] Database directory is writable")

	// Library options are optional; missing file means defaults.
	if _, err := os.Stat(config.OptionsPath); err != nil {
		logging.Info("  Options file %s not found, using defaults", config.OptionsPath)
	} else {
		logging.Info("  Options file: %s", config.OptionsPath)
	}

	// Summary
	logging.Info("")
	logging.Info("  Feature availability:")
	logging.Info("    Database:    ENABLED (required)")
	logging.Info("    Watcher:     %s", enabledString(config.WatchEnabled))
	logging.Info("    Metrics:     %s", enabledString(config.MetricsEnabled))

	return config, nil
}

func enabledString(enabled bool) string {
	if enabled {
		return "ENABLED"
	}
	return "DISABLED"
}

// LogDatabaseInit logs database initialization
func LogDatabaseInit(duration time.Duration) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("DATABASE INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  [OK] Database initialized in %v", duration)
}

// LogScannerInit logs scanner initialization
func LogScannerInit(interval time.Duration, workers int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SCANNER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Validation interval: %v", interval)
	logging.Info("  Parallel walkers:    %d", workers)
}

// LogScannerStarted logs successful scanner start
func LogScannerStarted() {
	logging.Info("  [OK] Scanner started")
}

// LogWatcherInit logs filesystem watcher initialization
func LogWatcherInit(enabled bool, dirs int) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("WATCHER INITIALIZATION")
	logging.Info("------------------------------------------------------------")
	if !enabled {
		logging.Info("  Filesystem watching disabled")
		logging.Info("  Changes will be picked up by interval validation only")
		return
	}
	logging.Info("  [OK] Watching %d directories", dirs)
}

// ServerConfig holds configuration for the startup summary log
type ServerConfig struct {
	MetricsPort     string
	MetricsEnabled  bool
	StartupDuration time.Duration
}

// LogServerStarted logs successful startup with all endpoint information
func LogServerStarted(config ServerConfig) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("CATALOG ENGINE STARTED")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Startup time:    %v", config.StartupDuration)
	logging.Info("")
	if config.MetricsEnabled {
		logging.Info("  Endpoints:")
		logging.Info("    Metrics:       http://0.0.0.0:%s/metrics", config.MetricsPort)
		logging.Info("")
	}
	logging.Info("  Press Ctrl+C to stop")
	logging.Info("------------------------------------------------------------")
	logging.Info("")
}

// LogShutdownInitiated logs shutdown start
func LogShutdownInitiated(signal string) {
	logging.Info("")
	logging.Info("------------------------------------------------------------")
	logging.Info("SHUTDOWN INITIATED (received %s)", signal)
	logging.Info("------------------------------------------------------------")
}

// LogShutdownStep logs a shutdown step
func LogShutdownStep(step string) {
	logging.Debug("  %s...", step)
}

// LogShutdownStepComplete logs a completed shutdown step
func LogShutdownStepComplete(step string) {
	logging.Info("  [OK] %s", step)
}

// LogShutdownComplete logs shutdown completion
func LogShutdownComplete() {
	logging.Info("  [OK] Shutdown complete")
}

// LogFatal logs a fatal error and exits
func LogFatal(format string, args ...interface{}) {
	logging.Fatal(format, args...)
}

// Helper functions

func printBanner() {
	banner := `
------------------------------------------------------------
    __  ___         ___      ______      __        __
   /  |/  /__  ____/ (_)___ _/ ____/___ _/ /_____ _/ /___  ____ _
  / /|_/ / _ \/ __  / / __ '/ /   / __ '/ __/ __ '/ / __ \/ __ '/
 / /  / /  __/ /_/ / / /_/ / /___/ /_/ / /_/ /_/ / / /_/ / /_/ /
/_/  /_/\___/\__,_/_/\__,_/\____/\__,_/\__/\__,_/_/\____/\__, /
                                                        /____/
------------------------------------------------------------`
	fmt.Println(banner)
	logging.Info("  Version:    %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("")
}

func logSystemInfo() {
	logging.Info("------------------------------------------------------------")
	logging.Info("SYSTEM INFORMATION")
	logging.Info("------------------------------------------------------------")
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		logging.Debug("  Goroutines:      %d", runtime.NumGoroutine())

		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}

		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}

	logging.Info("")
}

func ensureDirectory(path, name string) error {
	logging.Debug("  Checking %s directory: %s", name, path)

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		logging.Debug("    Directory does not exist, creating...")
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		logging.Debug("    [OK] Created directory: %s", path)
		return nil
	}

	if err != nil {
		return fmt.Errorf("failed to stat directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("path exists but is not a directory")
	}

	logging.Debug("    [OK] Directory exists")

	if name == "library" && logging.IsDebugEnabled() {
		entries, err := os.ReadDir(path)
		if err == nil {
			fileCount := 0
			dirCount := 0
			for _, e := range entries {
				if e.IsDir() {
					dirCount++
				} else {
					fileCount++
				}
			}
			logging.Debug("    Contents: %d files, %d directories (top level)", fileCount, dirCount)
		}
	}

	return nil
}

func testWriteAccess(dir string) error {
	testFile := filepath.Join(dir, ".write-test")
	if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
		return err
	}
	if err := os.Remove(testFile); err != nil {
		logging.Warn("failed to remove write test file %s: %v", testFile, err)
		// Don't return error since write access was confirmed
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("Invalid boolean value for %s: %q, using default: %v", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
