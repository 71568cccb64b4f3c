package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/database"
	"media-catalog/internal/fsops"
	"media-catalog/internal/images"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
	"media-catalog/internal/options"
	"media-catalog/internal/resolvers"
	"media-catalog/internal/scanner"
)

const (
	// Default timeout for database operations
	defaultTimeout = 30 * time.Second
	// Default directories matching the daemon's environment
	defaultLibraryRoot = "/media"
	defaultConfigDir   = "/config"
	defaultDatabaseDir = "/database"
)

func main() {
	var args []string
	for _, a := range os.Args[1:] {
		if a == "-v" || a == "--verbose" {
			logging.SetLevel(logging.LevelDebug)
			continue
		}
		args = append(args, a)
	}

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	// Create a context that cancels on interrupt signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	switch command {
	case "scan":
		if !runScan(ctx) {
			os.Exit(1)
		}
	case "status":
		if !showStatus(ctx) {
			os.Exit(1)
		}
	case "vacuum":
		if !runVacuum(ctx) {
			os.Exit(1)
		}
	case "artwork":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Usage: catalogctl artwork <directory>")
			os.Exit(1)
		}
		if !showArtwork(args[1]) {
			os.Exit(1)
		}
	default:
		// Sanitize command input using allowlist to break taint chain
		sanitized := sanitizeCommand(command)
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitized) //nolint:gosec // G705 - input is sanitized via allowlist in sanitizeCommand; only [a-zA-Z0-9_-] characters pass through
		printUsage()
		os.Exit(1)
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// It uses an allowlist approach, replacing any character that is not alphanumeric,
// a hyphen, or an underscore with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("Media Catalog Maintenance")
	fmt.Println("")
	fmt.Println("Usage: catalogctl [-v] <command> [args]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  scan           - Validate the library against the filesystem once")
	fmt.Println("  status         - Show catalog item counts and database size")
	fmt.Println("  vacuum         - Rebuild the database file to reclaim free space")
	fmt.Println("  artwork <dir>  - List the artwork a directory would contribute")
	fmt.Println("")
	fmt.Println("Flags:")
	fmt.Println("  -v, --verbose  - Enable debug logging")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Printf("  CATALOG_LIBRARY_ROOT - Library root to scan (default: %s)\n", defaultLibraryRoot)
	fmt.Printf("  CATALOG_CONFIG_DIR   - Options file directory (default: %s)\n", defaultConfigDir)
	fmt.Printf("  CATALOG_DATABASE_DIR - Database directory (default: %s)\n", defaultDatabaseDir)
}

func openDatabase(ctx context.Context) (*database.Database, bool) {
	databaseDir := getEnv("CATALOG_DATABASE_DIR", defaultDatabaseDir)
	dbPath := filepath.Join(databaseDir, "catalog.db")

	db, err := database.New(ctx, dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to open database: %v\n", err)
		fmt.Fprintf(os.Stderr, "Make sure CATALOG_DATABASE_DIR is set correctly (current: %s)\n", databaseDir)
		return nil, false
	}
	return db, true
}

func closeDatabase(db *database.Database) {
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
	}
}

// runScan validates the whole library once and reports what the catalog
// holds afterwards. The same pipeline the daemon runs, minus the watcher
// and notifications.
func runScan(ctx context.Context) bool {
	libraryRoot := getEnv("CATALOG_LIBRARY_ROOT", defaultLibraryRoot)
	configDir := getEnv("CATALOG_CONFIG_DIR", defaultConfigDir)

	opts, err := options.Load(filepath.Join(configDir, "options.toml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to load library options: %v\n", err)
		return false
	}

	db, ok := openDatabase(ctx)
	if !ok {
		return false
	}
	defer closeDatabase(db)

	mgr := scanner.NewManager(scanner.Config{
		Root:    libraryRoot,
		FS:      fsops.NewLocal(),
		Repo:    db,
		Cache:   catalog.NewCache(db),
		Options: opts,
		Chain:   resolvers.Default(nil),
		Progress: func(percent float64) {
			fmt.Printf("\rValidating: %5.1f%%", percent)
		},
	})

	start := time.Now()
	err = mgr.ValidateLibrary(ctx)
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Validation failed: %v\n", err)
		return false
	}

	stats, err := db.RefreshStats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read catalog stats: %v\n", err)
		return false
	}

	fmt.Printf("Validation completed in %s\n", time.Since(start).Round(time.Millisecond))
	printStats(stats)
	return true
}

func showStatus(ctx context.Context) bool {
	// Add timeout to context for database operations
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	db, ok := openDatabase(ctx)
	if !ok {
		return false
	}
	defer closeDatabase(db)

	stats, err := db.RefreshStats(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read catalog stats: %v\n", err)
		return false
	}

	fmt.Printf("Database: %s\n", db.Path())
	if info, err := os.Stat(db.Path()); err == nil {
		fmt.Printf("Size:     %.1f MB\n", float64(info.Size())/(1<<20))
	}
	printStats(stats)
	return true
}

func runVacuum(ctx context.Context) bool {
	db, ok := openDatabase(ctx)
	if !ok {
		return false
	}
	defer closeDatabase(db)

	before := fileSize(db.Path())
	fmt.Println("Running VACUUM, this can take a while on large catalogs...")
	if err := db.Vacuum(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: VACUUM failed: %v\n", err)
		return false
	}
	after := fileSize(db.Path())

	if before > 0 && after > 0 && before >= after {
		fmt.Printf("Done. Reclaimed %.1f MB (%.1f MB -> %.1f MB)\n",
			float64(before-after)/(1<<20), float64(before)/(1<<20), float64(after)/(1<<20))
	} else {
		fmt.Println("Done.")
	}
	return true
}

// showArtwork lists the artwork the scanner would attach for one
// directory, using the same single-video naming rule, and verifies each
// file decodes within the size limits.
func showArtwork(dir string) bool {
	fs := fsops.NewLocal()
	entries, err := fs.GetFilteredEntries(dir, fsops.FilterOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to read %s: %v\n", dir, err)
		return false
	}

	var videoBases []string
	for _, e := range entries {
		if !e.IsDir && resolvers.IsVideoFile(e.Name) {
			videoBases = append(videoBases, strings.TrimSuffix(e.Name, filepath.Ext(e.Name)))
		}
	}
	videoBase := ""
	if len(videoBases) == 1 {
		videoBase = videoBases[0]
	}

	infos := images.Probe(images.FindArtwork(entries, videoBase))
	if len(infos) == 0 {
		fmt.Println("No artwork found.")
		return true
	}

	ok := true
	for _, info := range infos {
		line := fmt.Sprintf("%-10s %4dx%-4d %s", info.Type, info.Width, info.Height, info.Path)
		if _, err := images.LoadConstrained(info.Path, images.MaxDimension, images.MaxPixels); err != nil {
			line += "  DECODE FAILED: " + err.Error()
			ok = false
		}
		fmt.Println(line)
	}
	return ok
}

func printStats(stats metrics.Stats) {
	kinds := make([]string, 0, len(stats.ItemsByKind))
	total := 0
	for kind, n := range stats.ItemsByKind {
		kinds = append(kinds, kind)
		total += n
	}
	sort.Strings(kinds)

	fmt.Printf("Items:    %d\n", total)
	for _, kind := range kinds {
		fmt.Printf("  %-12s %d\n", kind, stats.ItemsByKind[kind])
	}
	fmt.Printf("Folders:  %d\n", stats.TotalFolders)
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
