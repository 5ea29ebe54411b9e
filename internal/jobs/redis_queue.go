package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// RedisQueue implements Queue on a Redis sorted set keyed by run time, so
// retries with backoff are just jobs scored in the future.
type RedisQueue struct {
	client        *redis.Client
	pendingQueue  string
	processingKey string
	failedKey     string
	processingTTL time.Duration
	failedTTL     time.Duration
}

// RedisQueueConfig configures the Redis queue
type RedisQueueConfig struct {
	QueueName     string
	ProcessingTTL time.Duration
	FailedTTL     time.Duration
}

// DefaultRedisQueueConfig returns the default queue configuration
func DefaultRedisQueueConfig() *RedisQueueConfig {
	return &RedisQueueConfig{
		QueueName:     "portal",
		ProcessingTTL: 30 * time.Minute,
		FailedTTL:     30 * 24 * time.Hour,
	}
}

// NewRedisQueue creates a Redis-backed job queue
func NewRedisQueue(client *redis.Client, config *RedisQueueConfig) *RedisQueue {
	if config == nil {
		config = DefaultRedisQueueConfig()
	}
	return &RedisQueue{
		client:        client,
		pendingQueue:  fmt.Sprintf("jobs:%s:pending", config.QueueName),
		processingKey: fmt.Sprintf("jobs:%s:processing", config.QueueName),
		failedKey:     fmt.Sprintf("jobs:%s:failed", config.QueueName),
		processingTTL: config.ProcessingTTL,
		failedTTL:     config.FailedTTL,
	}
}

// Enqueue adds a job scored by its run time
func (q *RedisQueue) Enqueue(ctx context.Context, job *Job) error {
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

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	return q.client.ZAdd(ctx, q.pendingQueue, &redis.Z{
		Score:  float64(job.RunAt.Unix()),
		Member: data,
	}).Err()
}

// Dequeue claims the next job whose run time has arrived
func (q *RedisQueue) Dequeue(ctx context.Context) (*Job, error) {
	now := time.Now().Unix()

	results, err := q.client.ZRangeByScore(ctx, q.pendingQueue, &redis.ZRangeBy{
		Min:   "0",
		Max:   fmt.Sprintf("%d", now),
		Count: 1,
	}).Result()
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoJobAvailable
	}

	jobData := results[0]
	var job Job
	if err := json.Unmarshal([]byte(jobData), &job); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}

	job.Attempts++
	claimed, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal job: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.ZRem(ctx, q.pendingQueue, jobData)
	pipe.Set(ctx, fmt.Sprintf("%s:%s", q.processingKey, job.ID), claimed, q.processingTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}
	return &job, nil
}

// Complete drops a finished job from the processing set
func (q *RedisQueue) Complete(ctx context.Context, job *Job) error {
	return q.client.Del(ctx, fmt.Sprintf("%s:%s", q.processingKey, job.ID)).Err()
}

// Failed records a permanently failed job for inspection
func (q *RedisQueue) Failed(ctx context.Context, job *Job, cause error) error {
	record := struct {
		Job   *Job   `json:"job"`
		Error string `json:"error"`
		At    string `json:"at"`
	}{job, cause.Error(), time.Now().Format(time.RFC3339)}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal failed job: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Del(ctx, fmt.Sprintf("%s:%s", q.processingKey, job.ID))
	pipe.Set(ctx, fmt.Sprintf("%s:%s", q.failedKey, job.ID), data, q.failedTTL)
	_, err = pipe.Exec(ctx)
	return err
}

// Retry requeues a job with exponential backoff
func (q *RedisQueue) Retry(ctx context.Context, job *Job, cause error) error {
	job.RunAt = time.Now().Add(retryBackoff(job.Attempts))

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}

	pipe := q.client.Pipeline()
	pipe.Del(ctx, fmt.Sprintf("%s:%s", q.processingKey, job.ID))
	pipe.ZAdd(ctx, q.pendingQueue, &redis.Z{
		Score:  float64(job.RunAt.Unix()),
		Member: data,
	})
	_, err = pipe.Exec(ctx)
	return err
}

// Size returns the number of pending jobs
func (q *RedisQueue) Size(ctx context.Context) (int, error) {
	count, err := q.client.ZCard(ctx, q.pendingQueue).Result()
	return int(count), err
}

// retryBackoff grows 5s, 25s, 125s and caps at an hour
func retryBackoff(attempts int) time.Duration {
	seconds := 5
	for i := 1; i < attempts; i++ {
		seconds *= 5
		if seconds > 3600 {
			return time.Hour
		}
	}
	return time.Duration(seconds) * time.Second
}
