package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"benefitsportal/internal/observability"

	"go.uber.org/zap"
)

// Handler processes one job
type Handler func(context.Context, *Job) error

// WorkerConfig configures the worker pool
type WorkerConfig struct {
	ConcurrentWorkers int
	PollInterval      time.Duration
}

// DefaultWorkerConfig returns the default worker configuration
func DefaultWorkerConfig() *WorkerConfig {
	return &WorkerConfig{
		ConcurrentWorkers: 3,
		PollInterval:      5 * time.Second,
	}
}

// Worker polls the queue and dispatches jobs to registered handlers
type Worker struct {
	config   *WorkerConfig
	queue    Queue
	logger   *observability.Logger
	metrics  *observability.Metrics
	handlers map[JobType]Handler
	mu       sync.RWMutex
	shutdown chan struct{}
	running  bool
	wg       sync.WaitGroup
}

// NewWorker creates a worker pool over the queue
func NewWorker(queue Queue, config *WorkerConfig, logger *observability.Logger, metrics *observability.Metrics) *Worker {
	if config == nil {
		config = DefaultWorkerConfig()
	}
	return &Worker{
		config:   config,
		queue:    queue,
		logger:   logger,
		metrics:  metrics,
		handlers: make(map[JobType]Handler),
		shutdown: make(chan struct{}),
	}
}

// Register binds a handler to a job type
func (w *Worker) Register(jobType JobType, handler Handler) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, exists := w.handlers[jobType]; exists {
		return fmt.Errorf("handler already registered for job type %s", jobType)
	}
	w.handlers[jobType] = handler
	return nil
}

// Start launches the worker goroutines
func (w *Worker) Start(ctx context.Context) error {
	if w.running {
		return errors.New("worker already running")
	}
	w.running = true

	w.logger.Info("starting job workers",
		zap.Int("workers", w.config.ConcurrentWorkers))

	for i := 0; i < w.config.ConcurrentWorkers; i++ {
		w.wg.Add(1)
		go w.loop(ctx, i)
	}
	return nil
}

// Stop drains the worker pool and blocks until all goroutines exit
func (w *Worker) Stop() {
	if !w.running {
		return
	}
	close(w.shutdown)
	w.wg.Wait()
	w.running = false
	w.logger.Info("job workers stopped")
}

func (w *Worker) loop(ctx context.Context, workerID int) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.processNext(ctx); err != nil && !errors.Is(err, ErrNoJobAvailable) {
				w.logger.Error("job processing error", err,
					zap.Int("worker_id", workerID))
			}
		}
	}
}

func (w *Worker) processNext(ctx context.Context) error {
	job, err := w.queue.Dequeue(ctx)
	if err != nil {
		return err
	}

	w.mu.RLock()
	handler, exists := w.handlers[job.Type]
	w.mu.RUnlock()

	if !exists {
		w.metrics.RecordJobProcessed(string(job.Type), "unhandled")
		return w.queue.Failed(ctx, job, fmt.Errorf("no handler for job type %s", job.Type))
	}

	if err := handler(ctx, job); err != nil {
		w.logger.Warn("job failed",
			zap.String("job_id", job.ID),
			zap.String("job_type", string(job.Type)),
			zap.Int("attempts", job.Attempts),
			zap.Error(err))

		if job.Attempts < job.MaxRetry {
			w.metrics.RecordJobProcessed(string(job.Type), "retry")
			return w.queue.Retry(ctx, job, err)
		}
		w.metrics.RecordJobProcessed(string(job.Type), "failed")
		return w.queue.Failed(ctx, job, err)
	}

	w.metrics.RecordJobProcessed(string(job.Type), "completed")
	return w.queue.Complete(ctx, job)
}
