package postgres

import (
	"context"
	"database/sql"
	"errors"

	monitoring "storewatch/internal/monitoring/domain"
)

// BusinessHoursRepository loads the business-hours catalog from Postgres.
type BusinessHoursRepository struct {
	db *sql.DB
}

// NewBusinessHoursRepository constructs a business-hours repository.
func NewBusinessHoursRepository(db *sql.DB) *BusinessHoursRepository {
	return &BusinessHoursRepository{db: db}
}

// LoadIndex reads every business-hours row and builds the in-memory index.
// The index is read-only afterwards, so the report builder loads it once per
// generation.
func (r *BusinessHoursRepository) LoadIndex(ctx context.Context) (*monitoring.HoursIndex, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("business hours repo: nil db")
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT store_id, day_of_week, start_time_local, end_time_local
FROM business_hours`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []monitoring.BusinessHours
	for rows.Next() {
		var (
			record     monitoring.BusinessHours
			start, end string
		)
		if err := rows.Scan(&record.StoreID, &record.Weekday, &start, &end); err != nil {
			return nil, err
		}
		if record.Start, err = monitoring.ParseClockTime(start); err != nil {
			return nil, err
		}
		if record.End, err = monitoring.ParseClockTime(end); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return monitoring.NewHoursIndex(records)
}
