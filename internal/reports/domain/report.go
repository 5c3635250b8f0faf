package reports

import (
	"context"
	"errors"
	"time"
)

// Status is the lifecycle state of a report.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusRunning, StatusComplete, StatusFailed:
		return true
	default:
		return false
	}
}

// Report is the root of the report domain.
// Invariants:
// 1) A report starts running and finishes exactly once, as complete or
//    failed. Terminal states never transition back.
// 2) A complete report always carries an artifact location.
type Report struct {
	id         string
	status     Status
	location   string
	cause      string
	createdAt  time.Time
	finishedAt time.Time
}

// NewReport creates a report in the running state.
func NewReport(id string, createdAt time.Time) (*Report, error) {
	if id == "" {
		return nil, ErrEmptyReportID
	}
	if createdAt.IsZero() {
		return nil, errors.New("reports: zero created at")
	}
	return &Report{id: id, status: StatusRunning, createdAt: createdAt}, nil
}

// Restore rebuilds a report from persisted state.
func Restore(id string, status Status, location, cause string, createdAt, finishedAt time.Time) (*Report, error) {
	if id == "" {
		return nil, ErrEmptyReportID
	}
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Report{
		id:         id,
		status:     status,
		location:   location,
		cause:      cause,
		createdAt:  createdAt,
		finishedAt: finishedAt,
	}, nil
}

// Complete marks the report complete with its artifact location.
func (r *Report) Complete(location string, at time.Time) error {
	if r.status != StatusRunning {
		return ErrAlreadyFinished
	}
	if location == "" {
		return ErrEmptyLocation
	}
	if at.IsZero() {
		return errors.New("reports: zero completed at")
	}
	r.status = StatusComplete
	r.location = location
	r.finishedAt = at
	return nil
}

// Fail marks the report failed with a recorded cause.
func (r *Report) Fail(cause string, at time.Time) error {
	if r.status != StatusRunning {
		return ErrAlreadyFinished
	}
	if at.IsZero() {
		return errors.New("reports: zero failed at")
	}
	r.status = StatusFailed
	r.cause = cause
	r.finishedAt = at
	return nil
}

// ID returns the opaque report identifier.
func (r *Report) ID() string { return r.id }

// Status returns the lifecycle state.
func (r *Report) Status() Status { return r.status }

// Location returns the artifact location and whether it is available.
func (r *Report) Location() (string, bool) {
	if r.status != StatusComplete {
		return "", false
	}
	return r.location, true
}

// Cause returns the failure cause and whether it is available.
func (r *Report) Cause() (string, bool) {
	if r.status != StatusFailed {
		return "", false
	}
	return r.cause, true
}

// CreatedAt returns the creation timestamp.
func (r *Report) CreatedAt() time.Time { return r.createdAt }

// FinishedAt returns the terminal timestamp and whether it is available.
func (r *Report) FinishedAt() (time.Time, bool) {
	if r.status == StatusRunning {
		return time.Time{}, false
	}
	return r.finishedAt, true
}

// Repository persists report records.
type Repository interface {
	Create(ctx context.Context, report *Report) error
	Get(ctx context.Context, id string) (*Report, error)
	// MarkComplete flips a running report to complete. Callers must have
	// durably written the artifact first.
	MarkComplete(ctx context.Context, id, location string, at time.Time) error
	MarkFailed(ctx context.Context, id, cause string, at time.Time) error
}

// ArtifactStore persists and serves report artifacts by report id.
type ArtifactStore interface {
	// Put durably writes the artifact and returns its location.
	Put(id string, data []byte) (string, error)
	// Get returns the artifact bytes, or ErrArtifactNotFound.
	Get(id string) ([]byte, error)
}
