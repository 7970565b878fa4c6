package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/lenos/services/shop/domain"
)

// JobStatus is the lifecycle state of a Job.
type JobStatus string

const (
	JobStatusQuoted     JobStatus = "quoted"
	JobStatusInProgress JobStatus = "in_progress"
	JobStatusCompleted  JobStatus = "completed"
)

// jobTransitions maps each state to its single permitted successor.
// States absent from the map are terminal.
var jobTransitions = map[JobStatus]JobStatus{
	JobStatusQuoted:     JobStatusInProgress,
	JobStatusInProgress: JobStatusCompleted,
}

// ParseJobStatus returns the JobStatus named by s.
func ParseJobStatus(s string) (JobStatus, error) {
	switch st := JobStatus(s); st {
	case JobStatusQuoted, JobStatusInProgress, JobStatusCompleted:
		return st, nil
	default:
		return "", domain.NewValidationError("status", "must be one of quoted, in_progress, completed")
	}
}

// CanTransitionTo reports whether s -> to is an edge of the state machine.
func (s JobStatus) CanTransitionTo(to JobStatus) bool {
	next, ok := jobTransitions[s]
	return ok && next == to
}

// AllowedTransitions lists the states reachable from s in one step.
func (s JobStatus) AllowedTransitions() []JobStatus {
	if next, ok := jobTransitions[s]; ok {
		return []JobStatus{next}
	}
	return []JobStatus{}
}

// IsTerminal reports whether no transition leaves s.
func (s JobStatus) IsTerminal() bool {
	_, ok := jobTransitions[s]
	return !ok
}

func (s JobStatus) String() string { return string(s) }

// StatusChange is a validated lifecycle step ready to be applied atomically.
// The store applies it only while the job is still in From.
type StatusChange struct {
	JobID          int64
	From           JobStatus
	To             JobStatus
	CompletionDate *time.Time
	ActualPrice    decimal.NullDecimal
}
