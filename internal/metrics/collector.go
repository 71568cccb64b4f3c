package metrics

import (
	"os"
	"time"

	"media-catalog/internal/logging"
)

// StatsProvider interface for collecting catalog stats
type StatsProvider interface {
	GetStats() Stats
}

// Stats holds the current catalog statistics
type Stats struct {
	// ItemsByKind counts items per kind tag ("movie", "episode", ...)
	ItemsByKind map[string]int
	// TotalFolders counts folder-kind items
	TotalFolders int
}

// Collector periodically collects and updates metrics
type Collector struct {
	statsProvider StatsProvider
	dbPath        string
	interval      time.Duration
	stopChan      chan struct{}
}

// NewCollector creates a new metrics collector. dbPath points at the main
// SQLite file; the WAL and SHM side files are derived from it.
func NewCollector(provider StatsProvider, dbPath string, interval time.Duration) *Collector {
	return &Collector{
		statsProvider: provider,
		dbPath:        dbPath,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the metrics collection loop
func (c *Collector) Start() {
	go c.collectLoop()
}

// Stop stops the metrics collection
func (c *Collector) Stop() {
	close(c.stopChan)
}

func (c *Collector) collectLoop() {
	// Collect immediately on start
	c.collect()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.collect()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Collector) collect() {
	if c.statsProvider != nil {
		stats := c.statsProvider.GetStats()
		for kind, count := range stats.ItemsByKind {
			CatalogItemsTotal.WithLabelValues(kind).Set(float64(count))
		}
		CatalogFoldersTotal.Set(float64(stats.TotalFolders))
	}

	if c.dbPath != "" {
		c.collectDBSizes()
	}
}

func (c *Collector) collectDBSizes() {
	files := map[string]string{
		"main": c.dbPath,
		"wal":  c.dbPath + "-wal",
		"shm":  c.dbPath + "-shm",
	}

	for label, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			if !os.IsNotExist(err) {
				logging.Debug("Failed to stat database file %s: %v", path, err)
				DBStorageErrors.WithLabelValues(label).Inc()
			}
			DBSizeBytes.WithLabelValues(label).Set(0)
			continue
		}
		DBSizeBytes.WithLabelValues(label).Set(float64(info.Size()))
	}
}
