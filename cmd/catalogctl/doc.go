// Command catalogctl provides a CLI utility for maintaining a media
// catalog database without running the daemon.
//
// It supports the following operations:
//   - scan: Run one full library validation
//   - status: Show catalog item counts and database size
//   - vacuum: Rebuild the database file to reclaim free space
//   - artwork: Inspect the artwork a directory would contribute
//
// Usage:
//
//	catalogctl [-v] <command> [args]
//
// Commands:
//
//	scan           Validate the whole library against the filesystem
//	               once, exactly as the daemon does on its interval,
//	               then print the resulting item counts. Safe to run
//	               while the daemon is stopped; do not run both against
//	               the same database at the same time.
//
//	status         Print the database path and size plus per-kind item
//	               counts.
//
//	vacuum         Run SQLite VACUUM. Space freed by removed items is
//	               only returned to the filesystem by a rebuild.
//
//	artwork <dir>  List the artwork files the scanner would attach for
//	               one directory, with their classified types and probed
//	               dimensions, and verify each decodes within the size
//	               limits.
//
// Environment:
//
//	CATALOG_LIBRARY_ROOT - Library root to scan (default: /media)
//	CATALOG_CONFIG_DIR   - Options file directory (default: /config)
//	CATALOG_DATABASE_DIR - Database directory (default: /database)
//
// Notes:
//
// The utility opens the same database file as the daemon. SQLite's
// busy timeout covers short overlaps, but a scan and a daemon
// validation run concurrently will contend for the write lock.
package main
