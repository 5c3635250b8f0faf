package monitoring

import (
	"context"
	"time"
)

// Status is the polled state of a store at one instant.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// IsValid checks if the status is one of the supported values.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	default:
		return false
	}
}

// ParseStatus validates a raw status string.
func ParseStatus(value string) (Status, error) {
	status := Status(value)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Observation is one point-in-time status sample for a store.
// Observations are immutable once recorded and ordered by Timestamp
// within a store.
type Observation struct {
	StoreID   string
	Timestamp time.Time
	Status    Status
}

// ObservationReader is the read boundary over the observation store.
type ObservationReader interface {
	// LatestTimestamp returns the newest observation instant across all
	// stores. It returns ErrNoObservations when the dataset is empty.
	LatestTimestamp(ctx context.Context) (time.Time, error)
	// Since returns all observations for a store with Timestamp >= since,
	// ascending by Timestamp.
	Since(ctx context.Context, storeID string, since time.Time) ([]Observation, error)
}
