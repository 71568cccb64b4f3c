package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// DefaultQuietPeriod is how long the notifier waits after the last
// reported change before emitting a batch.
const DefaultQuietPeriod = 30 * time.Second

// UserChanges is the per-user library diff sent to one connected user.
type UserChanges struct {
	ItemsAdded         []string `json:"itemsAdded,omitempty"`
	ItemsUpdated       []string `json:"itemsUpdated,omitempty"`
	ItemsRemoved       []string `json:"itemsRemoved,omitempty"`
	FoldersAddedTo     []string `json:"foldersAddedTo,omitempty"`
	FoldersRemovedFrom []string `json:"foldersRemovedFrom,omitempty"`
}

// IsEmpty reports whether the diff carries no changes at all.
func (c *UserChanges) IsEmpty() bool {
	return len(c.ItemsAdded) == 0 &&
		len(c.ItemsUpdated) == 0 &&
		len(c.ItemsRemoved) == 0 &&
		len(c.FoldersAddedTo) == 0 &&
		len(c.FoldersRemovedFrom) == 0
}

// SessionGateway delivers a change batch to one user's sessions.
type SessionGateway interface {
	SendLibraryChanged(ctx context.Context, userID string, changes *UserChanges) error
}

// UserViews answers who is connected and what each user is allowed to
// see. View folders stand in for physical library roots in outgoing
// batches, so clients never learn physical layout.
type UserViews interface {
	UserIDs() []string
	CanSee(userID string, item *catalog.Item) bool
	// ViewFolder maps a physical top-level folder ID to the user's
	// view folder ID. ok=false hides that subtree from the user.
	ViewFolder(userID, topParentID string) (string, bool)
}

// TimerFactory schedules fire after d and returns a cancel function.
// Production uses time.AfterFunc; tests inject a manual trigger.
type TimerFactory func(d time.Duration, fire func()) (stop func())

func afterFuncTimer(d time.Duration, fire func()) func() {
	t := time.AfterFunc(d, fire)
	return func() { t.Stop() }
}

// Notifier batches library changes and emits one debounced, per-user
// diff after a quiet period. Every reported change extends the period.
type Notifier struct {
	gateway SessionGateway
	views   UserViews
	quiet   time.Duration
	timers  TimerFactory

	ctx context.Context

	mu        sync.Mutex
	added     map[string]*catalog.Item
	updated   map[string]*catalog.Item
	removed   map[string]*catalog.Item
	stopTimer func()
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithQuietPeriod overrides the debounce window.
func WithQuietPeriod(d time.Duration) Option {
	return func(n *Notifier) { n.quiet = d }
}

// WithTimerFactory injects the timer used to close a batch.
func WithTimerFactory(f TimerFactory) Option {
	return func(n *Notifier) { n.timers = f }
}

// NewNotifier creates a notifier. The context bounds outgoing sends;
// cancel it to stop the notifier delivering.
func NewNotifier(ctx context.Context, gateway SessionGateway, views UserViews, opts ...Option) *Notifier {
	n := &Notifier{
		gateway: gateway,
		views:   views,
		quiet:   DefaultQuietPeriod,
		timers:  afterFuncTimer,
		ctx:     ctx,
		added:   make(map[string]*catalog.Item),
		updated: make(map[string]*catalog.Item),
		removed: make(map[string]*catalog.Item),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// ItemAdded reports a newly cataloged item.
func (n *Notifier) ItemAdded(item *catalog.Item) {
	n.record(item, n.added)
}

// ItemUpdated reports a re-saved item.
func (n *Notifier) ItemUpdated(item *catalog.Item) {
	n.record(item, n.updated)
}

// ItemRemoved reports a deleted item.
func (n *Notifier) ItemRemoved(item *catalog.Item) {
	n.record(item, n.removed)
}

func (n *Notifier) record(item *catalog.Item, bucket map[string]*catalog.Item) {
	if item == nil || item.ID == "" {
		return
	}

	n.mu.Lock()
	bucket[item.ID] = item
	pending := len(n.added) + len(n.updated) + len(n.removed)

	// Each change re-arms the timer, extending the quiet period
	if n.stopTimer != nil {
		n.stopTimer()
	}
	n.stopTimer = n.timers(n.quiet, n.fire)
	n.mu.Unlock()

	metrics.NotifyPendingChanges.Set(float64(pending))
}

// Flush emits any pending batch immediately.
func (n *Notifier) Flush() {
	n.fire()
}

// Stop cancels a pending batch without sending it.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.stopTimer != nil {
		n.stopTimer()
		n.stopTimer = nil
	}
	n.added = make(map[string]*catalog.Item)
	n.updated = make(map[string]*catalog.Item)
	n.removed = make(map[string]*catalog.Item)
	metrics.NotifyPendingChanges.Set(0)
}

func (n *Notifier) fire() {
	n.mu.Lock()
	added, updated, removed := n.added, n.updated, n.removed
	n.added = make(map[string]*catalog.Item)
	n.updated = make(map[string]*catalog.Item)
	n.removed = make(map[string]*catalog.Item)
	if n.stopTimer != nil {
		n.stopTimer()
		n.stopTimer = nil
	}
	n.mu.Unlock()

	metrics.NotifyPendingChanges.Set(0)

	// Added wins: an item both added and updated in one window is new
	for id := range added {
		delete(updated, id)
	}

	if len(added) == 0 && len(updated) == 0 && len(removed) == 0 {
		return
	}

	metrics.NotifyBatchesTotal.Inc()
	metrics.NotifyChangesTotal.WithLabelValues("added").Add(float64(len(added)))
	metrics.NotifyChangesTotal.WithLabelValues("updated").Add(float64(len(updated)))
	metrics.NotifyChangesTotal.WithLabelValues("removed").Add(float64(len(removed)))

	logging.Info("Emitting library change batch: %d added, %d updated, %d removed",
		len(added), len(updated), len(removed))

	for _, userID := range n.views.UserIDs() {
		changes := n.changesFor(userID, added, updated, removed)
		if changes.IsEmpty() {
			continue
		}
		if err := n.gateway.SendLibraryChanged(n.ctx, userID, changes); err != nil {
			metrics.NotifySendFailuresTotal.Inc()
			logging.Warn("Failed to notify user %s of library changes: %v", userID, err)
		}
	}
}

// changesFor filters one batch down to what a single user may see and
// substitutes view folders for physical roots.
func (n *Notifier) changesFor(userID string, added, updated, removed map[string]*catalog.Item) *UserChanges {
	changes := &UserChanges{}
	foldersAdded := make(map[string]struct{})
	foldersRemoved := make(map[string]struct{})

	for id, item := range added {
		if !n.views.CanSee(userID, item) {
			continue
		}
		changes.ItemsAdded = append(changes.ItemsAdded, id)
		if view, ok := n.views.ViewFolder(userID, item.TopParentID); ok {
			foldersAdded[view] = struct{}{}
		}
	}
	for id, item := range updated {
		if !n.views.CanSee(userID, item) {
			continue
		}
		changes.ItemsUpdated = append(changes.ItemsUpdated, id)
	}
	for id, item := range removed {
		if !n.views.CanSee(userID, item) {
			continue
		}
		changes.ItemsRemoved = append(changes.ItemsRemoved, id)
		if view, ok := n.views.ViewFolder(userID, item.TopParentID); ok {
			foldersRemoved[view] = struct{}{}
		}
	}

	changes.FoldersAddedTo = sortedKeys(foldersAdded)
	changes.FoldersRemovedFrom = sortedKeys(foldersRemoved)
	sort.Strings(changes.ItemsAdded)
	sort.Strings(changes.ItemsUpdated)
	sort.Strings(changes.ItemsRemoved)
	return changes
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
