package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"media-catalog/internal/catalog"
)

type manualTimer struct {
	mu    sync.Mutex
	fire  func()
	arms  int
	stops int
}

func (m *manualTimer) factory(d time.Duration, fire func()) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.arms++
	m.fire = fire
	return func() {
		m.mu.Lock()
		m.stops++
		m.mu.Unlock()
	}
}

func (m *manualTimer) trigger() {
	m.mu.Lock()
	f := m.fire
	m.mu.Unlock()
	if f != nil {
		f()
	}
}

func (m *manualTimer) counts() (arms, stops int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.arms, m.stops
}

type fakeGateway struct {
	mu      sync.Mutex
	sends   map[string][]*UserChanges
	failFor map[string]bool
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{sends: make(map[string][]*UserChanges), failFor: make(map[string]bool)}
}

func (g *fakeGateway) SendLibraryChanged(ctx context.Context, userID string, changes *UserChanges) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sends[userID] = append(g.sends[userID], changes)
	if g.failFor[userID] {
		return errors.New("session closed")
	}
	return nil
}

func (g *fakeGateway) sentTo(userID string) []*UserChanges {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sends[userID]
}

type fakeViews struct {
	users     []string
	blind     map[string]bool
	viewByTop map[string]string
}

func (v *fakeViews) UserIDs() []string { return v.users }

func (v *fakeViews) CanSee(userID string, item *catalog.Item) bool {
	return !v.blind[userID]
}

func (v *fakeViews) ViewFolder(userID, topParentID string) (string, bool) {
	view, ok := v.viewByTop[topParentID]
	return view, ok
}

func newTestNotifier(gateway *fakeGateway, views *fakeViews) (*Notifier, *manualTimer) {
	timer := &manualTimer{}
	n := NewNotifier(context.Background(), gateway, views,
		WithTimerFactory(timer.factory))
	return n, timer
}

func TestNotifierEmitsBatchPerUser(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{
		users:     []string{"u1", "u2"},
		blind:     map[string]bool{},
		viewByTop: map[string]string{"root1": "view-root1"},
	}
	n, timer := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1", TopParentID: "root1"})
	timer.trigger()

	for _, user := range []string{"u1", "u2"} {
		sends := gateway.sentTo(user)
		if len(sends) != 1 {
			t.Fatalf("Expected 1 send to %s, got %d", user, len(sends))
		}
		batch := sends[0]
		if len(batch.ItemsAdded) != 1 || batch.ItemsAdded[0] != "a1" {
			t.Errorf("Expected ItemsAdded=[a1] for %s, got %v", user, batch.ItemsAdded)
		}
		if len(batch.FoldersAddedTo) != 1 || batch.FoldersAddedTo[0] != "view-root1" {
			t.Errorf("Expected view folder substitution for %s, got %v", user, batch.FoldersAddedTo)
		}
	}
}

func TestAddedWinsOverUpdated(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{users: []string{"u1"}, blind: map[string]bool{}, viewByTop: map[string]string{}}
	n, timer := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1"})
	n.ItemUpdated(&catalog.Item{ID: "a1"})
	n.ItemUpdated(&catalog.Item{ID: "b2"})
	timer.trigger()

	sends := gateway.sentTo("u1")
	if len(sends) != 1 {
		t.Fatalf("Expected 1 send, got %d", len(sends))
	}
	batch := sends[0]
	if len(batch.ItemsAdded) != 1 || batch.ItemsAdded[0] != "a1" {
		t.Errorf("Expected ItemsAdded=[a1], got %v", batch.ItemsAdded)
	}
	if len(batch.ItemsUpdated) != 1 || batch.ItemsUpdated[0] != "b2" {
		t.Errorf("Expected ItemsUpdated=[b2], got %v", batch.ItemsUpdated)
	}
}

func TestRemovedItemsCarryFolderDiff(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{
		users:     []string{"u1"},
		blind:     map[string]bool{},
		viewByTop: map[string]string{"root1": "view-root1"},
	}
	n, timer := newTestNotifier(gateway, views)

	n.ItemRemoved(&catalog.Item{ID: "gone", TopParentID: "root1"})
	timer.trigger()

	sends := gateway.sentTo("u1")
	if len(sends) != 1 {
		t.Fatalf("Expected 1 send, got %d", len(sends))
	}
	batch := sends[0]
	if len(batch.ItemsRemoved) != 1 || batch.ItemsRemoved[0] != "gone" {
		t.Errorf("Expected ItemsRemoved=[gone], got %v", batch.ItemsRemoved)
	}
	if len(batch.FoldersRemovedFrom) != 1 || batch.FoldersRemovedFrom[0] != "view-root1" {
		t.Errorf("Expected FoldersRemovedFrom=[view-root1], got %v", batch.FoldersRemovedFrom)
	}
}

func TestBlindUserGetsNothing(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{
		users:     []string{"u1", "blind"},
		blind:     map[string]bool{"blind": true},
		viewByTop: map[string]string{},
	}
	n, timer := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1"})
	timer.trigger()

	if len(gateway.sentTo("u1")) != 1 {
		t.Error("Expected sighted user to receive batch")
	}
	if len(gateway.sentTo("blind")) != 0 {
		t.Error("Expected no send to user with empty diff")
	}
}

func TestSendFailureIsIsolated(t *testing.T) {
	gateway := newFakeGateway()
	gateway.failFor["u1"] = true
	views := &fakeViews{users: []string{"u1", "u2"}, blind: map[string]bool{}, viewByTop: map[string]string{}}
	n, timer := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1"})
	timer.trigger()

	if len(gateway.sentTo("u2")) != 1 {
		t.Error("Expected u2 to receive batch despite u1 failure")
	}
}

func TestEveryChangeExtendsQuietPeriod(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{users: []string{"u1"}, blind: map[string]bool{}, viewByTop: map[string]string{}}
	n, timer := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1"})
	n.ItemAdded(&catalog.Item{ID: "a2"})
	n.ItemAdded(&catalog.Item{ID: "a3"})

	arms, stops := timer.counts()
	if arms != 3 {
		t.Errorf("Expected 3 timer arms, got %d", arms)
	}
	if stops != 2 {
		t.Errorf("Expected 2 timer stops before firing, got %d", stops)
	}
}

func TestBatchClearedAfterFire(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{users: []string{"u1"}, blind: map[string]bool{}, viewByTop: map[string]string{}}
	n, timer := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1"})
	timer.trigger()
	timer.trigger()

	if sends := gateway.sentTo("u1"); len(sends) != 1 {
		t.Errorf("Expected a second fire to send nothing, got %d sends", len(sends))
	}
}

func TestStopDropsPendingChanges(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{users: []string{"u1"}, blind: map[string]bool{}, viewByTop: map[string]string{}}
	n, timer := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1"})
	n.Stop()
	timer.trigger()

	if sends := gateway.sentTo("u1"); len(sends) != 0 {
		t.Errorf("Expected no sends after Stop, got %d", len(sends))
	}
}

func TestFlushSendsImmediately(t *testing.T) {
	gateway := newFakeGateway()
	views := &fakeViews{users: []string{"u1"}, blind: map[string]bool{}, viewByTop: map[string]string{}}
	n, _ := newTestNotifier(gateway, views)

	n.ItemAdded(&catalog.Item{ID: "a1"})
	n.Flush()

	if sends := gateway.sentTo("u1"); len(sends) != 1 {
		t.Errorf("Expected Flush to deliver pending batch, got %d sends", len(sends))
	}
}
