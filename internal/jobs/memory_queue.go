package jobs

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryQueue is the single-instance queue backend, used when Redis is
// disabled and in tests. Jobs do not survive a restart.
type MemoryQueue struct {
	mu      sync.Mutex
	pending []*Job
}

// NewMemoryQueue creates an in-process job queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{}
}

// Enqueue adds a job
func (q *MemoryQueue) Enqueue(_ context.Context, job *Job) error {
	if job == nil || job.Type == "" {
		return ErrInvalidJob
	}
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.RunAt.IsZero() {
		job.RunAt = job.CreatedAt
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, job)
	return nil
}

// Dequeue claims the oldest runnable job
func (q *MemoryQueue) Dequeue(_ context.Context) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	for i, job := range q.pending {
		if job.RunAt.After(now) {
			continue
		}
		q.pending = append(q.pending[:i], q.pending[i+1:]...)
		job.Attempts++
		return job, nil
	}
	return nil, ErrNoJobAvailable
}

// Complete is a no-op for the in-process queue
func (q *MemoryQueue) Complete(_ context.Context, _ *Job) error {
	return nil
}

// Failed drops the job
func (q *MemoryQueue) Failed(_ context.Context, _ *Job, _ error) error {
	return nil
}

// Retry requeues the job with backoff
func (q *MemoryQueue) Retry(ctx context.Context, job *Job, _ error) error {
	job.RunAt = time.Now().Add(retryBackoff(job.Attempts))

	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, job)
	return nil
}

// Size returns the number of pending jobs
func (q *MemoryQueue) Size(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending), nil
}
