// Package jobs runs background work the request path defers, most notably
// content extraction for uploaded documents that cannot be read inline.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Queue errors
var (
	ErrNoJobAvailable = errors.New("no job available")
	ErrInvalidJob     = errors.New("invalid job")
)

// JobType identifies what a job does
type JobType string

const (
	// JobTypeDocumentExtract extracts text from an uploaded document whose
	// content could not be read at upload time
	JobTypeDocumentExtract JobType = "document_extract"

	// JobTypeNotify fans a notification out to portal users
	JobTypeNotify JobType = "notify"
)

// Job is one unit of deferred work
type Job struct {
	ID        string          `json:"id"`
	Type      JobType         `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	RunAt     time.Time       `json:"run_at"`
	Attempts  int             `json:"attempts"`
	MaxRetry  int             `json:"max_retry"`
}

// DocumentExtractPayload is the payload for document extraction jobs
type DocumentExtractPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	CompanyID  uuid.UUID `json:"company_id"`
	StoredName string    `json:"stored_name"`
	MimeType   string    `json:"mime_type"`
}

// NewDocumentExtractJob builds an extraction job for one stored document
func NewDocumentExtractJob(payload DocumentExtractPayload) (*Job, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, ErrInvalidJob
	}
	return &Job{
		Type:     JobTypeDocumentExtract,
		Payload:  data,
		MaxRetry: 3,
	}, nil
}

// DecodePayload unmarshals a job's payload into v
func DecodePayload(job *Job, v interface{}) error {
	if job == nil || len(job.Payload) == 0 {
		return ErrInvalidJob
	}
	return json.Unmarshal(job.Payload, v)
}

// Queue is the job queue contract
type Queue interface {
	// Enqueue adds a job to the queue
	Enqueue(ctx context.Context, job *Job) error

	// Dequeue gets the next runnable job
	Dequeue(ctx context.Context) (*Job, error)

	// Complete marks a job as done
	Complete(ctx context.Context, job *Job) error

	// Failed records a permanently failed job
	Failed(ctx context.Context, job *Job, err error) error

	// Retry schedules a job to run again with backoff
	Retry(ctx context.Context, job *Job, err error) error

	// Size returns the number of pending jobs
	Size(ctx context.Context) (int, error)
}
