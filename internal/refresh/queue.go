package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"media-catalog/internal/catalog"
	"media-catalog/internal/logging"
	"media-catalog/internal/metrics"
)

// Job is one queued provider refresh.
type Job struct {
	ID         string
	ItemID     string
	Options    catalog.RefreshOptions
	Priority   catalog.RefreshPriority
	EnqueuedAt time.Time

	seq uint64
}

// Queue is an in-memory provider refresh queue. One job per item:
// re-queueing an item already present merges into the existing job,
// keeping the higher priority. Dequeue hands out the highest-priority
// job, oldest first within a priority.
type Queue struct {
	mu      sync.Mutex
	jobs    map[string]*Job // keyed by item ID
	nextSeq uint64
	signal  chan struct{}
}

// NewQueue creates an empty refresh queue.
func NewQueue() *Queue {
	return &Queue{
		jobs:   make(map[string]*Job),
		signal: make(chan struct{}, 1),
	}
}

// QueueRefresh enqueues a refresh for an item.
func (q *Queue) QueueRefresh(id string, opts catalog.RefreshOptions, priority catalog.RefreshPriority) {
	q.mu.Lock()

	if existing, ok := q.jobs[id]; ok {
		if priority > existing.Priority {
			existing.Priority = priority
		}
		q.mu.Unlock()
		metrics.RefreshJobsTotal.WithLabelValues("merged").Inc()
		logging.Debug("Refresh for %s already queued, merged (priority %d)", id, priority)
		return
	}

	job := &Job{
		ID:         uuid.NewString(),
		ItemID:     id,
		Options:    opts,
		Priority:   priority,
		EnqueuedAt: time.Now(),
		seq:        q.nextSeq,
	}
	q.nextSeq++
	q.jobs[id] = job
	depth := len(q.jobs)
	q.mu.Unlock()

	metrics.RefreshJobsTotal.WithLabelValues("queued").Inc()
	metrics.RefreshQueueDepth.Set(float64(depth))

	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// RefreshQueue snapshots the queue as item ID to job ID.
func (q *Queue) RefreshQueue() map[string]string {
	q.mu.Lock()
	defer q.mu.Unlock()

	snapshot := make(map[string]string, len(q.jobs))
	for itemID, job := range q.jobs {
		snapshot[itemID] = job.ID
	}
	return snapshot
}

// Len returns the number of queued jobs.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

// Dequeue blocks until a job is available or the context ends.
func (q *Queue) Dequeue(ctx context.Context) (*Job, error) {
	for {
		if job := q.pop(); job != nil {
			metrics.RefreshJobsTotal.WithLabelValues("flushed").Inc()
			return job, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.signal:
		}
	}
}

func (q *Queue) pop() *Job {
	q.mu.Lock()
	defer q.mu.Unlock()

	var best *Job
	for _, job := range q.jobs {
		if best == nil {
			best = job
			continue
		}
		if job.Priority > best.Priority ||
			(job.Priority == best.Priority && job.seq < best.seq) {
			best = job
		}
	}
	if best == nil {
		return nil
	}

	delete(q.jobs, best.ItemID)
	metrics.RefreshQueueDepth.Set(float64(len(q.jobs)))
	return best
}

// Handler performs one refresh job.
type Handler interface {
	Refresh(ctx context.Context, job *Job) error
}

// Serve consumes the queue until the context ends. Handler failures are
// logged and counted; the job is not retried.
func (q *Queue) Serve(ctx context.Context, h Handler) {
	logging.Info("Refresh worker started")
	for {
		job, err := q.Dequeue(ctx)
		if err != nil {
			logging.Info("Refresh worker stopped: %v", err)
			return
		}

		if err := h.Refresh(ctx, job); err != nil {
			metrics.RefreshJobsTotal.WithLabelValues("failed").Inc()
			logging.Warn("Refresh of %s failed: %v", job.ItemID, err)
		}
	}
}
