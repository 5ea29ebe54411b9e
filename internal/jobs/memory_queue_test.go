package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestMemoryQueueRoundTrip(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	job, err := NewDocumentExtractJob(DocumentExtractPayload{
		DocumentID: uuid.New(),
		StoredName: "abc.pdf",
	})
	assert.NoError(t, err)
	assert.NoError(t, q.Enqueue(ctx, job))

	size, err := q.Size(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, size)

	got, err := q.Dequeue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, 1, got.Attempts)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrNoJobAvailable)
}

func TestMemoryQueueRejectsInvalidJob(t *testing.T) {
	q := NewMemoryQueue()
	assert.ErrorIs(t, q.Enqueue(context.Background(), nil), ErrInvalidJob)
	assert.ErrorIs(t, q.Enqueue(context.Background(), &Job{}), ErrInvalidJob)
}

func TestMemoryQueueRetryBackoffDefersJob(t *testing.T) {
	q := NewMemoryQueue()
	ctx := context.Background()

	job, _ := NewDocumentExtractJob(DocumentExtractPayload{DocumentID: uuid.New()})
	assert.NoError(t, q.Enqueue(ctx, job))

	got, err := q.Dequeue(ctx)
	assert.NoError(t, err)
	assert.NoError(t, q.Retry(ctx, got, errors.New("transient")))

	// the retried job runs in the future, so it is not yet available
	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrNoJobAvailable)

	size, err := q.Size(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestRetryBackoffGrowth(t *testing.T) {
	assert.Equal(t, "5s", retryBackoff(1).String())
	assert.Equal(t, "25s", retryBackoff(2).String())
	assert.Equal(t, "2m5s", retryBackoff(3).String())
	assert.Equal(t, "1h0m0s", retryBackoff(10).String())
}

func TestDecodePayload(t *testing.T) {
	job, err := NewDocumentExtractJob(DocumentExtractPayload{StoredName: "x.pdf", MimeType: "application/pdf"})
	assert.NoError(t, err)
	assert.Equal(t, 3, job.MaxRetry)

	var payload DocumentExtractPayload
	assert.NoError(t, DecodePayload(job, &payload))
	assert.Equal(t, "x.pdf", payload.StoredName)

	assert.ErrorIs(t, DecodePayload(nil, &payload), ErrInvalidJob)
	assert.ErrorIs(t, DecodePayload(&Job{}, &payload), ErrInvalidJob)
}
