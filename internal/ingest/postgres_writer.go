package ingest

import (
	"context"
	"database/sql"
	"errors"

	monitoring "storewatch/internal/monitoring/domain"
)

// PostgresWriter persists ingested rows, one transaction per batch.
// All inserts are conflict-tolerant so a re-run of the same files is a
// no-op.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter constructs a writer.
func NewPostgresWriter(db *sql.DB) *PostgresWriter {
	return &PostgresWriter{db: db}
}

// WriteObservations inserts one batch of status observations.
func (w *PostgresWriter) WriteObservations(ctx context.Context, batch []monitoring.Observation) error {
	return w.inTx(ctx, func(tx *sql.Tx) error {
		for _, observation := range batch {
			_, err := tx.ExecContext(ctx, `
INSERT INTO store_status (store_id, timestamp_utc, status)
VALUES ($1, $2, $3)
ON CONFLICT (store_id, timestamp_utc) DO NOTHING`,
				observation.StoreID, observation.Timestamp, string(observation.Status))
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteBusinessHours inserts one batch of business-hours rows.
func (w *PostgresWriter) WriteBusinessHours(ctx context.Context, batch []monitoring.BusinessHours) error {
	return w.inTx(ctx, func(tx *sql.Tx) error {
		for _, row := range batch {
			_, err := tx.ExecContext(ctx, `
INSERT INTO business_hours (store_id, day_of_week, start_time_local, end_time_local)
VALUES ($1, $2, $3, $4)
ON CONFLICT (store_id, day_of_week, start_time_local, end_time_local) DO NOTHING`,
				row.StoreID, row.Weekday, row.Start.String(), row.End.String())
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteTimezones inserts one batch of store timezone rows.
func (w *PostgresWriter) WriteTimezones(ctx context.Context, batch []monitoring.StoreTimezone) error {
	return w.inTx(ctx, func(tx *sql.Tx) error {
		for _, row := range batch {
			_, err := tx.ExecContext(ctx, `
INSERT INTO store_timezones (store_id, timezone_str)
VALUES ($1, $2)
ON CONFLICT (store_id) DO UPDATE SET timezone_str = EXCLUDED.timezone_str`,
				row.StoreID, row.Timezone)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (w *PostgresWriter) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if w == nil || w.db == nil {
		return errors.New("ingest writer: nil db")
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
