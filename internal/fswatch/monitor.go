package fswatch

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// DefaultQuietPeriod is how long the monitor waits after the last
// filesystem event before reporting the accumulated paths. Copies and
// unpacks touch a file many times; reporting mid-write would validate
// half-written media.
const DefaultQuietPeriod = 5 * time.Second

// ChangeHandler receives the batch of changed paths once the
// filesystem has gone quiet.
type ChangeHandler func(paths []string)

// TimerFactory schedules the flush. Tests inject a manual trigger.
type TimerFactory func(d time.Duration, fire func()) (stop func())

func afterFuncTimer(d time.Duration, fire func()) func() {
	t := time.AfterFunc(d, fire)
	return func() { t.Stop() }
}

// Monitor watches library roots with fsnotify and reports changed
// paths in quiet-period batches. A running scan suspends the monitor so
// the scan's own writes do not re-trigger it.
type Monitor struct {
	roots    []string
	excludes []string
	handler  ChangeHandler
	quiet    time.Duration
	timers   TimerFactory

	mu        sync.Mutex
	suspended int
	pending   map[string]struct{}
	stopFlush func()

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithQuietPeriod overrides the flush delay.
func WithQuietPeriod(d time.Duration) Option {
	return func(m *Monitor) { m.quiet = d }
}

// WithExcludes keeps the monitor away from the given subtrees. Their
// directories are never registered and events under them are dropped.
// Used for libraries with realtime monitoring disabled.
func WithExcludes(paths []string) Option {
	return func(m *Monitor) {
		for _, p := range paths {
			m.excludes = append(m.excludes, filepath.Clean(p))
		}
	}
}

// WithTimerFactory injects the flush timer.
func WithTimerFactory(f TimerFactory) Option {
	return func(m *Monitor) { m.timers = f }
}

// NewMonitor creates a monitor over the given roots. Start begins
// watching.
func NewMonitor(roots []string, handler ChangeHandler, opts ...Option) *Monitor {
	m := &Monitor{
		roots:   roots,
		handler: handler,
		quiet:   DefaultQuietPeriod,
		timers:  afterFuncTimer,
		pending: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start creates the watcher, registers every directory under the roots,
// and begins processing events.
func (m *Monitor) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		metrics.WatcherErrors.Inc()
		return err
	}
	m.watcher = watcher
	m.done = make(chan struct{})

	watchCount := 0
	for _, root := range m.roots {
		watchCount += m.addDirectoriesToWatcher(root)
	}
	logging.Info("Filesystem monitor started, watching %d directories", watchCount)
	metrics.WatchedDirectories.Set(float64(watchCount))

	go m.processEvents()
	return nil
}

// Stop shuts the monitor down and drops any unflushed paths.
func (m *Monitor) Stop() {
	if m.watcher == nil {
		return
	}
	if err := m.watcher.Close(); err != nil {
		logging.Error("failed to close file watcher: %v", err)
	}
	<-m.done

	m.mu.Lock()
	if m.stopFlush != nil {
		m.stopFlush()
		m.stopFlush = nil
	}
	m.pending = make(map[string]struct{})
	m.mu.Unlock()

	metrics.WatchedDirectories.Set(0)
	logging.Info("Filesystem monitor stopped")
}

// Suspend pauses event handling. Calls nest; Resume must be called once
// per Suspend.
func (m *Monitor) Suspend() {
	m.mu.Lock()
	m.suspended++
	m.mu.Unlock()
	metrics.WatcherSuspended.Set(1)
	logging.Debug("Filesystem monitor suspended")
}

// Resume re-enables event handling.
func (m *Monitor) Resume() {
	m.mu.Lock()
	if m.suspended > 0 {
		m.suspended--
	}
	active := m.suspended == 0
	m.mu.Unlock()

	if active {
		metrics.WatcherSuspended.Set(0)
		logging.Debug("Filesystem monitor resumed")
	}
}

// IsSuspended reports whether events are currently ignored.
func (m *Monitor) IsSuspended() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.suspended > 0
}

// Watched returns how many directories are currently registered.
func (m *Monitor) Watched() int {
	if m.watcher == nil {
		return 0
	}
	return len(m.watcher.WatchList())
}

// addDirectoriesToWatcher registers every non-hidden directory under
// root and returns how many were added. Excluded subtrees are skipped
// whole.
func (m *Monitor) addDirectoriesToWatcher(root string) int {
	watchCount := 0
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && m.excluded(path) {
			return filepath.SkipDir
		}
		if info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
			if addErr := m.watcher.Add(path); addErr != nil {
				logging.Warn("failed to add path to watcher %s: %v", path, addErr)
				metrics.WatcherErrors.Inc()
			} else {
				watchCount++
			}
		}
		return nil
	})
	if err != nil {
		logging.Error("failed to walk %s for watcher: %v", root, err)
		metrics.WatcherErrors.Inc()
	}
	return watchCount
}

func (m *Monitor) processEvents() {
	defer close(m.done)
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return
			}
			m.handleEvent(event)

		case err, ok := <-m.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error: %v", err)
			metrics.WatcherErrors.Inc()
		}
	}
}

// handleEvent records one filesystem event into the pending batch and
// re-arms the flush timer.
func (m *Monitor) handleEvent(event fsnotify.Event) {
	// Skip hidden files
	if strings.Contains(event.Name, string(os.PathSeparator)+".") {
		return
	}
	if m.excluded(event.Name) {
		return
	}

	eventType := eventTypeName(event.Op)
	metrics.WatcherEventsTotal.WithLabelValues(eventType).Inc()

	if event.Op&fsnotify.Create != 0 {
		m.watchNewDirectory(event.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.suspended > 0 {
		return
	}

	m.pending[event.Name] = struct{}{}

	// Every event extends the quiet period
	if m.stopFlush != nil {
		m.stopFlush()
	}
	m.stopFlush = m.timers(m.quiet, m.flush)
}

// watchNewDirectory adds newly created directories to the watcher so
// events below them are not missed.
func (m *Monitor) watchNewDirectory(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if addErr := m.watcher.Add(path); addErr != nil {
		logging.Warn("failed to add new directory to watcher %s: %v", path, addErr)
		metrics.WatcherErrors.Inc()
	} else {
		logging.Debug("Added new directory to watcher: %s", path)
		metrics.WatchedDirectories.Inc()
	}
}

func (m *Monitor) flush() {
	m.mu.Lock()
	if m.stopFlush != nil {
		m.stopFlush()
		m.stopFlush = nil
	}
	if len(m.pending) == 0 || m.suspended > 0 {
		m.pending = make(map[string]struct{})
		m.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(m.pending))
	for p := range m.pending {
		paths = append(paths, p)
	}
	m.pending = make(map[string]struct{})
	m.mu.Unlock()

	sort.Strings(paths)
	logging.Info("Filesystem quiet, reporting %d changed paths", len(paths))
	m.handler(paths)
}

// excluded reports whether path lies in a subtree realtime monitoring
// is disabled for.
func (m *Monitor) excluded(path string) bool {
	for _, ex := range m.excludes {
		if path == ex || strings.HasPrefix(path, ex+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func eventTypeName(op fsnotify.Op) string {
	switch {
	case op&fsnotify.Create != 0:
		return "create"
	case op&fsnotify.Write != 0:
		return "write"
	case op&fsnotify.Remove != 0:
		return "remove"
	case op&fsnotify.Rename != 0:
		return "rename"
	case op&fsnotify.Chmod != 0:
		return "chmod"
	default:
		return "unknown"
	}
}
