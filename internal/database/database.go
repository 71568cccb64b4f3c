package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Default timeout for single-row database operations
const defaultTimeout = 5 * time.Second

// Database is the SQLite implementation of catalog.Repository.
type Database struct {
	db      *sql.DB
	dbPath  string
	mu      sync.RWMutex
	stats   metrics.Stats
	statsMu sync.RWMutex
	txStart time.Time // Track transaction start time for metrics
}

// New creates a new Database instance.
// dbPath is the full path to the database FILE (e.g. "/database/catalog.db"),
// and the parent directory must already exist and be writable.
// Use startup.LoadConfig() to ensure proper directory validation before calling this.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	// Use WAL mode and other optimizations
	// busy_timeout helps prevent "database is locked" errors
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_cache_size=10000&_temp_store=MEMORY&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Allow multiple readers - scans query children while walkers run
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("initialize_schema", start, err) }()

	schema := `
	-- Catalog items table
	CREATE TABLE IF NOT EXISTS items (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		path TEXT NOT NULL,
		parent_id TEXT NOT NULL DEFAULT '',
		top_parent_id TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT 'library',
		collection_type TEXT NOT NULL DEFAULT '',
		year INTEGER NOT NULL DEFAULT 0,
		index_number INTEGER NOT NULL DEFAULT 0,
		end_index_number INTEGER NOT NULL DEFAULT 0,
		parent_index_number INTEGER NOT NULL DEFAULT 0,
		absolute_index INTEGER NOT NULL DEFAULT 0,
		premiere_date INTEGER NOT NULL DEFAULT 0,
		extra_kind TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL DEFAULT '',
		part_paths TEXT NOT NULL DEFAULT '',
		alternate_paths TEXT NOT NULL DEFAULT '',
		extra_ids TEXT NOT NULL DEFAULT '',
		child_ids TEXT NOT NULL DEFAULT '',
		images TEXT NOT NULL DEFAULT '',
		is_virtual INTEGER NOT NULL DEFAULT 0,
		size INTEGER NOT NULL DEFAULT 0,
		date_created INTEGER NOT NULL DEFAULT 0,
		date_modified INTEGER NOT NULL DEFAULT 0,
		date_last_saved INTEGER NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_id);
	CREATE INDEX IF NOT EXISTS idx_items_top_parent ON items(top_parent_id);
	CREATE INDEX IF NOT EXISTS idx_items_path ON items(path);
	CREATE INDEX IF NOT EXISTS idx_items_name ON items(name COLLATE NOCASE);
	CREATE INDEX IF NOT EXISTS idx_items_owner ON items(owner_id);

	-- Composite index for children-by-kind scans
	CREATE INDEX IF NOT EXISTS idx_items_parent_kind ON items(parent_id, kind);

	-- People linked to items
	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		person_type TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_people_item ON people(item_id);
	CREATE INDEX IF NOT EXISTS idx_people_name ON people(name COLLATE NOCASE);
	`

	_, err = d.db.ExecContext(ctx, schema)
	if err != nil {
		return err
	}

	// Run migrations
	err = d.runMigrations(ctx)
	return err
}

// runMigrations applies database schema migrations
func (d *Database) runMigrations(ctx context.Context) error {
	// Migration 1: Add absolute_index column if it doesn't exist.
	// Databases created before absolute episode numbering lack it.
	var columnExists bool
	err := d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('items')
		WHERE name='absolute_index'
	`).Scan(&columnExists)

	if err != nil {
		return fmt.Errorf("failed to check for absolute_index column: %w", err)
	}

	if !columnExists {
		logging.Info("Migrating database: adding absolute_index column to items table")

		_, err = d.db.ExecContext(ctx, `
			ALTER TABLE items ADD COLUMN absolute_index INTEGER NOT NULL DEFAULT 0
		`)
		if err != nil {
			return fmt.Errorf("failed to add absolute_index column: %w", err)
		}

		logging.Info("Migration complete: absolute_index column added")
	}

	// Migration 2: Add sort_order column to people table if it doesn't exist
	var sortOrderExists bool
	err = d.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0
		FROM pragma_table_info('people')
		WHERE name='sort_order'
	`).Scan(&sortOrderExists)

	if err != nil {
		return fmt.Errorf("failed to check for sort_order column: %w", err)
	}

	if !sortOrderExists {
		logging.Info("Migrating database: adding sort_order column to people table")

		_, err = d.db.ExecContext(ctx, `
			ALTER TABLE people ADD COLUMN sort_order INTEGER NOT NULL DEFAULT 0
		`)
		if err != nil {
			return fmt.Errorf("failed to add sort_order column: %w", err)
		}

		logging.Info("Migration complete: sort_order column added")
	}

	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the path of the main database file.
func (d *Database) Path() string {
	return d.dbPath
}

// BeginBatch starts a transaction for batch operations.
// The caller is responsible for calling EndBatch when done.
func (d *Database) BeginBatch() (*sql.Tx, error) {
	// Short-lived lock - only protect transaction creation
	d.mu.Lock()
	txStart := time.Now()

	// Use background context - transaction lifetime is managed by EndBatch,
	// not a timeout. A timeout context's defer cancel() would cancel the
	// transaction as soon as this function returns.
	tx, err := d.db.BeginTx(context.Background(), nil)
	d.mu.Unlock()

	if err != nil {
		return nil, err
	}

	d.txStart = txStart
	return tx, nil
}

// EndBatch commits or rolls back a transaction.
func (d *Database) EndBatch(tx *sql.Tx, err error) error {
	// Record transaction duration (txStart set by BeginBatch)
	duration := time.Since(d.txStart).Seconds()

	if err != nil {
		metrics.DBTransactionDuration.WithLabelValues("rollback").Observe(duration)
		rbErr := tx.Rollback()
		if rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback also failed: %w", rbErr))
		}
		return err
	}

	metrics.DBTransactionDuration.WithLabelValues("commit").Observe(duration)
	return tx.Commit()
}

// Vacuum optimizes the database.
func (d *Database) Vacuum() error {
	start := time.Now()
	var err error
	defer func() { recordQuery("vacuum", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	_, err = d.db.ExecContext(ctx, "VACUUM")
	return err
}

// RefreshStats recomputes the item counts and caches them for the
// metrics collector. Call after a validation run completes.
func (d *Database) RefreshStats(ctx context.Context) (metrics.Stats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("refresh_stats", start, err) }()

	d.mu.RLock()
	rows, err := d.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM items GROUP BY kind`)
	d.mu.RUnlock()

	if err != nil {
		return metrics.Stats{}, fmt.Errorf("counting items: %w", err)
	}
	defer rows.Close()

	stats := metrics.Stats{ItemsByKind: make(map[string]int)}
	for rows.Next() {
		var kind string
		var count int
		if err = rows.Scan(&kind, &count); err != nil {
			return metrics.Stats{}, fmt.Errorf("scanning item counts: %w", err)
		}
		stats.ItemsByKind[kind] = count
		if catalog.Kind(kind).IsFolder() {
			stats.TotalFolders += count
		}
	}
	if err = rows.Err(); err != nil {
		return metrics.Stats{}, err
	}

	d.statsMu.Lock()
	d.stats = stats
	d.statsMu.Unlock()
	return stats, nil
}

// GetStats returns the cached catalog statistics.
func (d *Database) GetStats() metrics.Stats {
	d.statsMu.RLock()
	defer d.statsMu.RUnlock()
	return d.stats
}

// UpdateDBMetrics updates database connection metrics
func (d *Database) UpdateDBMetrics() {
	stats := d.db.Stats()
	metrics.DBConnectionsOpen.Set(float64(stats.OpenConnections))
}

// recordQuery records database query metrics
func recordQuery(operation string, start time.Time, err error) {
	duration := time.Since(start).Seconds()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(duration)
}
