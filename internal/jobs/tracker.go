// Package jobs records run progress in the store. Tracking is best effort:
// a broken job ledger must never take down a research run.
package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/halcyon-research/equity-cli/internal/model"
	"github.com/halcyon-research/equity-cli/internal/store"
)

// Tracker writes job lifecycle updates to the store.
type Tracker struct {
	store store.Store
}

// NewTracker creates a Tracker backed by the given store.
func NewTracker(st store.Store) *Tracker {
	return &Tracker{store: st}
}

// Start registers a new job and moves it to running. Returns an empty ID
// when registration fails, which turns the remaining calls into no-ops.
func (t *Tracker) Start(ctx context.Context, symbol string) string {
	job, err := t.store.CreateJob(ctx, symbol)
	if err != nil {
		zap.L().Warn("jobs: create failed", zap.String("symbol", symbol), zap.Error(err))
		return ""
	}
	if err := t.store.UpdateJobStatus(ctx, job.ID, model.JobStatusRunning, ""); err != nil {
		zap.L().Warn("jobs: start failed", zap.String("job_id", job.ID), zap.Error(err))
	}
	return job.ID
}

// Step appends a completed stage to the job.
func (t *Tracker) Step(ctx context.Context, jobID, name string, fromCache bool) {
	if jobID == "" {
		return
	}
	step := model.JobStep{Name: name, CompletedAt: time.Now().UTC(), FromCache: fromCache}
	if err := t.store.AppendJobStep(ctx, jobID, step); err != nil {
		zap.L().Warn("jobs: append step failed",
			zap.String("job_id", jobID), zap.String("step", name), zap.Error(err))
	}
}

// Complete marks the job completed.
func (t *Tracker) Complete(ctx context.Context, jobID string) {
	t.finish(ctx, jobID, model.JobStatusCompleted, "")
}

// Fail marks the job failed with the error message.
func (t *Tracker) Fail(ctx context.Context, jobID string, cause error) {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	t.finish(ctx, jobID, model.JobStatusFailed, msg)
}

// Cancel marks the job cancelled.
func (t *Tracker) Cancel(ctx context.Context, jobID string) {
	t.finish(ctx, jobID, model.JobStatusCancelled, "")
}

func (t *Tracker) finish(ctx context.Context, jobID string, status model.JobStatus, msg string) {
	if jobID == "" {
		return
	}
	// Status writes survive a cancelled run context.
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
	}
	if err := t.store.UpdateJobStatus(ctx, jobID, status, msg); err != nil {
		zap.L().Warn("jobs: status update failed",
			zap.String("job_id", jobID), zap.String("status", string(status)), zap.Error(err))
	}
}
