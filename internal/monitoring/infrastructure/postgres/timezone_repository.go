package postgres

import (
	"context"
	"database/sql"
	"errors"

	monitoring "storewatch/internal/monitoring/domain"
)

// StoreTimezoneRepository lists the store population with timezones.
type StoreTimezoneRepository struct {
	db *sql.DB
}

// NewStoreTimezoneRepository constructs a store timezone repository.
func NewStoreTimezoneRepository(db *sql.DB) *StoreTimezoneRepository {
	return &StoreTimezoneRepository{db: db}
}

// List returns up to limit store/timezone records ordered by store id;
// limit <= 0 returns all.
func (r *StoreTimezoneRepository) List(ctx context.Context, limit int) ([]monitoring.StoreTimezone, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("timezone repo: nil db")
	}

	query := `
SELECT store_id, timezone_str
FROM store_timezones
ORDER BY store_id ASC`
	args := []any{}
	if limit > 0 {
		query += `
LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []monitoring.StoreTimezone
	for rows.Next() {
		var (
			record monitoring.StoreTimezone
			zone   sql.NullString
		)
		if err := rows.Scan(&record.StoreID, &zone); err != nil {
			return nil, err
		}
		record.Timezone = zone.String
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
