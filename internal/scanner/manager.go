package scanner

import (
	"context"
	"fmt"
	"sync"

	"media-catalog/internal/catalog"
	"media-catalog/internal/fsops"
	"media-catalog/internal/logging"
	"media-catalog/internal/options"
	"media-catalog/internal/resolvers"
	"media-catalog/internal/workers"
)

// ChangeNotifier receives catalog change events as the scanner applies
// them. notify.Notifier satisfies it.
type ChangeNotifier interface {
	ItemAdded(item *catalog.Item)
	ItemUpdated(item *catalog.Item)
	ItemRemoved(item *catalog.Item)
}

// ScanMonitor is suspended for the duration of a validation so events
// raised mid-scan do not queue a second validation on top of the
// running one. fswatch.Monitor satisfies it.
type ScanMonitor interface {
	Suspend()
	Resume()
}

// ProgressFunc receives validation progress in percent, 0 to 100.
type ProgressFunc func(percent float64)

// Config wires a Manager's collaborators. Root, FS, Repo, Cache,
// Options, and Chain are required; the rest are optional.
type Config struct {
	// Root is the physical library root. Its immediate children are
	// the collection folders.
	Root string

	FS      catalog.FileSystem
	Repo    catalog.Repository
	Cache   *catalog.Cache
	Options *options.Options
	Chain   *resolvers.Chain

	Notifier ChangeNotifier
	Refresh  catalog.RefreshQueuer
	Monitor  ScanMonitor
	Progress ProgressFunc

	// Workers bounds parallel folder validation. Zero means an
	// IO-sized pool.
	Workers int
}

// Manager owns library scanning: path resolution, full validation runs,
// and item deletion.
type Manager struct {
	root     string
	fs       catalog.FileSystem
	repo     catalog.Repository
	cache    *catalog.Cache
	opts     *options.Options
	chain    *resolvers.Chain
	notifier ChangeNotifier
	refresh  catalog.RefreshQueuer
	monitor  ScanMonitor
	progress ProgressFunc
	rules    []Rule
	sem      chan struct{}

	mu       sync.Mutex
	scanning bool
}

// NewManager builds a Manager from the given configuration.
func NewManager(cfg Config) *Manager {
	n := cfg.Workers
	if n <= 0 {
		n = workers.ForIO(16)
	}
	opts := cfg.Options
	if opts == nil {
		opts = options.Default()
	}
	return &Manager{
		root:     fsops.NormalizePath(cfg.Root),
		fs:       cfg.FS,
		repo:     cfg.Repo,
		cache:    cfg.Cache,
		opts:     opts,
		chain:    cfg.Chain,
		notifier: cfg.Notifier,
		refresh:  cfg.Refresh,
		monitor:  cfg.Monitor,
		progress: cfg.Progress,
		rules:    DefaultRules(opts),
		sem:      make(chan struct{}, n),
	}
}

// Root returns the physical library root path.
func (m *Manager) Root() string {
	return m.root
}

// IsScanning reports whether a validation run is in flight.
func (m *Manager) IsScanning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scanning
}

// DeleteItem removes an item's files from disk and the item from the
// catalog. The primary path must delete cleanly or the whole operation
// fails and the catalog row is kept; stack parts, alternate versions,
// and extras are removed best-effort after it.
func (m *Manager) DeleteItem(ctx context.Context, item *catalog.Item) error {
	paths := item.AllPaths()
	for _, id := range item.ExtraIDs {
		extra, err := m.cache.Get(ctx, id)
		if err != nil || extra == nil {
			continue
		}
		paths = append(paths, extra.AllPaths()...)
	}

	for i, p := range paths {
		err := m.fs.Remove(p)
		if err == nil {
			continue
		}
		if i == 0 {
			return &catalog.DeleteError{Path: p, Err: err}
		}
		logging.Warn("Best-effort removal of %s failed: %v", p, err)
	}

	logging.Info("Deleted %s (%d paths)", item.Path, len(paths))
	return m.RemoveItem(ctx, item)
}

// RemoveItem drops an item, its descendants, and its extras from the
// repository and cache and raises removal notifications. Files stay on
// disk.
func (m *Manager) RemoveItem(ctx context.Context, item *catalog.Item) error {
	children, err := m.repo.Query(ctx, catalog.Filter{ParentID: item.ID, IncludeVirtual: true})
	if err != nil {
		logging.Warn("Querying children of %s for removal: %v", item.Path, err)
	}
	for _, child := range children {
		if err := m.RemoveItem(ctx, child); err != nil {
			logging.Warn("Removing %s: %v", child.Path, err)
		}
	}
	for _, id := range item.ExtraIDs {
		extra, err := m.cache.Get(ctx, id)
		if err != nil || extra == nil {
			continue
		}
		if err := m.RemoveItem(ctx, extra); err != nil {
			logging.Warn("Removing extra %s: %v", extra.Path, err)
		}
	}

	if err := m.repo.DeleteItem(ctx, item.ID); err != nil {
		return fmt.Errorf("deleting %s from repository: %w", item.Path, err)
	}
	m.cache.Evict(item.ID)
	m.notifyRemoved(item)
	return nil
}

func (m *Manager) notifyAdded(item *catalog.Item) {
	if m.notifier != nil {
		m.notifier.ItemAdded(item)
	}
}

func (m *Manager) notifyUpdated(item *catalog.Item) {
	if m.notifier != nil {
		m.notifier.ItemUpdated(item)
	}
}

func (m *Manager) notifyRemoved(item *catalog.Item) {
	if m.notifier != nil {
		m.notifier.ItemRemoved(item)
	}
}
