// Package jobs defines the async work the API offloads: receipt imports and
// snapshot archiving. Queue implementations live in subpackages.
package jobs

import (
	"context"
	"time"
)

// Kind identifies what a job does.
type Kind string

const (
	// KindImportReceipt runs OCR on an uploaded receipt and inserts the
	// resulting draft transactions.
	KindImportReceipt Kind = "import_receipt"

	// KindArchiveSnapshot exports the owner's snapshot and uploads it to the
	// archive bucket.
	KindArchiveSnapshot Kind = "archive_snapshot"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusRetrying  Status = "retrying"
)

// Job is one unit of queued work. Payload fields are kind-specific; unused
// ones stay zero.
type Job struct {
	JobID   string `json:"job_id"`
	Kind    Kind   `json:"kind"`
	OwnerID string `json:"-"`
	Email   string `json:"-"`

	// import_receipt payload. The receipt bytes ride along in memory; the
	// queue is in-process, so nothing is persisted between restarts.
	Receipt  []byte `json:"-"`
	MIMEType string `json:"-"`

	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`

	// Result is a short human-readable outcome, e.g. "3 transações importadas".
	Result string `json:"result,omitempty"`

	RetryCount int `json:"retry_count"`
	MaxRetries int `json:"max_retries"`
}

// Publisher enqueues jobs.
type Publisher interface {
	Publish(ctx context.Context, job *Job) error
	Close() error
}

// Consumer runs queued jobs through a handler.
type Consumer interface {
	Start(ctx context.Context, handler Handler) error
	Stop(ctx context.Context) error
}

// Handler processes one job. Returning an error requests a retry; the
// returned result string is stored on success.
type Handler func(ctx context.Context, job *Job) (result string, err error)

// Store tracks job state so the API can answer status queries.
type Store interface {
	SaveJob(ctx context.Context, job *Job) error
	GetJob(ctx context.Context, jobID string) (*Job, error)
}
