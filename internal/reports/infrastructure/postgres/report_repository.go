package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	reports "storewatch/internal/reports/domain"
)

// ReportRepository persists report records in Postgres.
type ReportRepository struct {
	db *sql.DB
}

// NewReportRepository constructs a report repository.
func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Create inserts a new report record.
func (r *ReportRepository) Create(ctx context.Context, report *reports.Report) error {
	if r == nil || r.db == nil {
		return errors.New("report repo: nil db")
	}
	if report == nil {
		return errors.New("report repo: nil report")
	}

	_, err := r.db.ExecContext(ctx, `
INSERT INTO reports (
	report_id, status, artifact_location, error, created_at
) VALUES (
	$1, $2, '', '', $3
)`, report.ID(), string(report.Status()), report.CreatedAt())
	return err
}

// Get loads a report record by id.
func (r *ReportRepository) Get(ctx context.Context, id string) (*reports.Report, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("report repo: nil db")
	}
	if id == "" {
		return nil, reports.ErrEmptyReportID
	}

	row := r.db.QueryRowContext(ctx, `
SELECT report_id, status, artifact_location, error, created_at, completed_at
FROM reports
WHERE report_id = $1`, id)

	var (
		reportID    string
		status      string
		location    string
		cause       string
		createdAt   time.Time
		completedAt sql.NullTime
	)
	err := row.Scan(&reportID, &status, &location, &cause, &createdAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, reports.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return reports.Restore(reportID, reports.Status(status), location, cause, createdAt, completedAt.Time)
}

// MarkComplete flips a running report to complete.
func (r *ReportRepository) MarkComplete(ctx context.Context, id, location string, at time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("report repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE reports
SET status = $1, artifact_location = $2, completed_at = $3
WHERE report_id = $4 AND status = $5`,
		string(reports.StatusComplete), location, at, id, string(reports.StatusRunning))
	if err != nil {
		return err
	}
	return ensureUpdated(result)
}

// MarkFailed flips a running report to failed with its cause.
func (r *ReportRepository) MarkFailed(ctx context.Context, id, cause string, at time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("report repo: nil db")
	}
	result, err := r.db.ExecContext(ctx, `
UPDATE reports
SET status = $1, error = $2, completed_at = $3
WHERE report_id = $4 AND status = $5`,
		string(reports.StatusFailed), cause, at, id, string(reports.StatusRunning))
	if err != nil {
		return err
	}
	return ensureUpdated(result)
}

func ensureUpdated(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return reports.ErrAlreadyFinished
	}
	return nil
}
