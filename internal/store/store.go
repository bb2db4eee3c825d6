package store

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/halcyon-research/equity-cli/internal/model"
)

// ErrCacheMiss is returned by GetCachedReport when no fresh entry exists.
// Expired entries and entries that fail to decode are both misses.
var ErrCacheMiss = eris.New("store: cache miss")

// ErrNotFound is returned when a job lookup matches nothing.
var ErrNotFound = eris.New("store: not found")

// JobFilter specifies criteria for listing jobs.
type JobFilter struct {
	Status model.JobStatus `json:"status,omitempty"`
	Symbol string          `json:"symbol,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines persistence for the research pipeline: the report cache
// that lets completed stages be reused across runs, and the job ledger
// that tracks run progress.
type Store interface {
	// Report cache
	GetCachedReport(ctx context.Context, reportType, symbol string) ([]byte, error)
	CacheReport(ctx context.Context, reportType, symbol string, payload []byte, ttl time.Duration) error
	DeleteExpiredReports(ctx context.Context) (int, error)

	// Jobs
	CreateJob(ctx context.Context, symbol string) (*model.Job, error)
	UpdateJobStatus(ctx context.Context, jobID string, status model.JobStatus, errMsg string) error
	AppendJobStep(ctx context.Context, jobID string, step model.JobStep) error
	GetJob(ctx context.Context, jobID string) (*model.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]model.Job, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
