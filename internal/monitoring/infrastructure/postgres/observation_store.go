package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	monitoring "storewatch/internal/monitoring/domain"
)

// ObservationStore reads status observations from Postgres.
type ObservationStore struct {
	db *sql.DB
}

// NewObservationStore constructs an observation store.
func NewObservationStore(db *sql.DB) *ObservationStore {
	return &ObservationStore{db: db}
}

// LatestTimestamp returns the newest observation instant across all stores.
func (s *ObservationStore) LatestTimestamp(ctx context.Context) (time.Time, error) {
	if s == nil || s.db == nil {
		return time.Time{}, errors.New("observation store: nil db")
	}

	var latest sql.NullTime
	err := s.db.QueryRowContext(ctx, `
SELECT MAX(timestamp_utc)
FROM store_status`).Scan(&latest)
	if err != nil {
		return time.Time{}, err
	}
	if !latest.Valid {
		return time.Time{}, monitoring.ErrNoObservations
	}
	return latest.Time.UTC(), nil
}

// Since returns all observations for a store at or after since, ascending
// by timestamp.
func (s *ObservationStore) Since(ctx context.Context, storeID string, since time.Time) ([]monitoring.Observation, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("observation store: nil db")
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT store_id, timestamp_utc, status
FROM store_status
WHERE store_id = $1
	AND timestamp_utc >= $2
ORDER BY timestamp_utc ASC`, storeID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []monitoring.Observation
	for rows.Next() {
		var (
			observation monitoring.Observation
			rawStatus   string
		)
		if err := rows.Scan(&observation.StoreID, &observation.Timestamp, &rawStatus); err != nil {
			return nil, err
		}
		status, err := monitoring.ParseStatus(rawStatus)
		if err != nil {
			return nil, err
		}
		observation.Status = status
		observation.Timestamp = observation.Timestamp.UTC()
		result = append(result, observation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
