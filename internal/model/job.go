package model

import "time"

// JobStatus tracks the lifecycle of a research run.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// jobStatusRank orders statuses so a job never moves backwards. Terminal
// statuses share the top rank and cannot be overwritten by each other.
var jobStatusRank = map[JobStatus]int{
	JobStatusPending:   0,
	JobStatusRunning:   1,
	JobStatusCompleted: 2,
	JobStatusFailed:    2,
	JobStatusCancelled: 2,
}

// CanTransition reports whether a job may move from its current status to
// the requested one.
func (s JobStatus) CanTransition(to JobStatus) bool {
	from, ok := jobStatusRank[s]
	if !ok {
		return false
	}
	target, ok := jobStatusRank[to]
	if !ok {
		return false
	}
	if from == target {
		return s == to
	}
	return target > from
}

// Terminal reports whether the status is a terminal one.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// JobStep records a completed stage within a run, in completion order.
type JobStep struct {
	Name        string    `json:"name"`
	CompletedAt time.Time `json:"completed_at"`
	FromCache   bool      `json:"from_cache"`
}

// Job is one tracked research run for a single symbol.
type Job struct {
	ID          string     `json:"id"`
	Symbol      string     `json:"symbol"`
	Status      JobStatus  `json:"status"`
	Steps       []JobStep  `json:"steps"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
