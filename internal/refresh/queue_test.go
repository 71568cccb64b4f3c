package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"media-catalog/internal/catalog"
)

func TestQueueRefreshAndDequeue(t *testing.T) {
	q := NewQueue()

	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshNormal)

	if q.Len() != 1 {
		t.Fatalf("Expected queue length 1, got %d", q.Len())
	}

	job, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if job.ItemID != "item1" {
		t.Errorf("Expected item1, got %s", job.ItemID)
	}
	if job.ID == "" {
		t.Error("Expected non-empty job ID")
	}
	if q.Len() != 0 {
		t.Errorf("Expected empty queue, got %d", q.Len())
	}
}

func TestQueueRefreshMergesDuplicates(t *testing.T) {
	q := NewQueue()

	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshLow)
	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshHigh)

	if q.Len() != 1 {
		t.Fatalf("Expected 1 job after merge, got %d", q.Len())
	}

	job, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if job.Priority != catalog.RefreshHigh {
		t.Errorf("Expected merged priority high, got %d", job.Priority)
	}
}

func TestQueueRefreshMergeKeepsHigherPriority(t *testing.T) {
	q := NewQueue()

	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshHigh)
	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshLow)

	job, err := q.Dequeue(context.Background())
	if err != nil {
		t.Fatalf("Dequeue failed: %v", err)
	}
	if job.Priority != catalog.RefreshHigh {
		t.Errorf("Expected priority to stay high, got %d", job.Priority)
	}
}

func TestDequeueOrdersByPriorityThenAge(t *testing.T) {
	q := NewQueue()

	q.QueueRefresh("low1", catalog.RefreshOptions{}, catalog.RefreshLow)
	q.QueueRefresh("high", catalog.RefreshOptions{}, catalog.RefreshHigh)
	q.QueueRefresh("low2", catalog.RefreshOptions{}, catalog.RefreshLow)

	want := []string{"high", "low1", "low2"}
	for _, expected := range want {
		job, err := q.Dequeue(context.Background())
		if err != nil {
			t.Fatalf("Dequeue failed: %v", err)
		}
		if job.ItemID != expected {
			t.Errorf("Expected %s, got %s", expected, job.ItemID)
		}
	}
}

func TestDequeueBlocksUntilWork(t *testing.T) {
	q := NewQueue()

	done := make(chan *Job, 1)
	go func() {
		job, err := q.Dequeue(context.Background())
		if err != nil {
			t.Errorf("Dequeue failed: %v", err)
		}
		done <- job
	}()

	select {
	case <-done:
		t.Fatal("Dequeue returned before any job was queued")
	case <-time.After(50 * time.Millisecond):
	}

	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshNormal)

	select {
	case job := <-done:
		if job.ItemID != "item1" {
			t.Errorf("Expected item1, got %s", job.ItemID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Dequeue did not wake up after enqueue")
	}
}

func TestDequeueHonorsContext(t *testing.T) {
	q := NewQueue()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := q.Dequeue(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestRefreshQueueSnapshot(t *testing.T) {
	q := NewQueue()

	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshNormal)
	q.QueueRefresh("item2", catalog.RefreshOptions{}, catalog.RefreshNormal)

	snapshot := q.RefreshQueue()
	if len(snapshot) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(snapshot))
	}
	if snapshot["item1"] == "" || snapshot["item2"] == "" {
		t.Error("Expected job IDs in snapshot")
	}
	if snapshot["item1"] == snapshot["item2"] {
		t.Error("Expected distinct job IDs")
	}
}

type recordingHandler struct {
	mu    sync.Mutex
	seen  []string
	fail  bool
	woken chan struct{}
}

func (h *recordingHandler) Refresh(ctx context.Context, job *Job) error {
	h.mu.Lock()
	h.seen = append(h.seen, job.ItemID)
	h.mu.Unlock()
	select {
	case h.woken <- struct{}{}:
	default:
	}
	if h.fail {
		return errors.New("provider unavailable")
	}
	return nil
}

func TestServe(t *testing.T) {
	q := NewQueue()
	h := &recordingHandler{woken: make(chan struct{}, 1)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go q.Serve(ctx, h)

	q.QueueRefresh("item1", catalog.RefreshOptions{}, catalog.RefreshNormal)

	select {
	case <-h.woken:
	case <-time.After(2 * time.Second):
		t.Fatal("Handler was not invoked")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.seen) != 1 || h.seen[0] != "item1" {
		t.Errorf("Expected handler to see item1, got %v", h.seen)
	}
}
