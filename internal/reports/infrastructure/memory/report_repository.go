package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	reports "storewatch/internal/reports/domain"
)

// ReportRepository is an in-memory report record store for demo/testing.
type ReportRepository struct {
	mu   sync.RWMutex
	data map[string]*reports.Report
}

// NewReportRepository constructs a repository.
func NewReportRepository() *ReportRepository {
	return &ReportRepository{data: make(map[string]*reports.Report)}
}

// Create stores a new report record.
func (r *ReportRepository) Create(ctx context.Context, report *reports.Report) error {
	_ = ctx
	if report == nil {
		return errors.New("memory report repo: nil report")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[report.ID()]; exists {
		return errors.New("memory report repo: duplicate id")
	}
	stored := *report
	r.data[report.ID()] = &stored
	return nil
}

// Get loads a snapshot of a report record by id. The returned value is a
// copy, so state transitions applied through the repository never show up
// half-done to a caller already holding a result.
func (r *ReportRepository) Get(ctx context.Context, id string) (*reports.Report, error) {
	_ = ctx
	if id == "" {
		return nil, reports.ErrEmptyReportID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	report := r.data[id]
	if report == nil {
		return nil, reports.ErrReportNotFound
	}
	snapshot := *report
	return &snapshot, nil
}

// MarkComplete flips a running report to complete.
func (r *ReportRepository) MarkComplete(ctx context.Context, id, location string, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	report, err := r.locked(id)
	if err != nil {
		return err
	}
	return report.Complete(location, at)
}

// MarkFailed flips a running report to failed.
func (r *ReportRepository) MarkFailed(ctx context.Context, id, cause string, at time.Time) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	report, err := r.locked(id)
	if err != nil {
		return err
	}
	return report.Fail(cause, at)
}

// locked returns the stored record; callers must hold the write lock.
func (r *ReportRepository) locked(id string) (*reports.Report, error) {
	if id == "" {
		return nil, reports.ErrEmptyReportID
	}
	report := r.data[id]
	if report == nil {
		return nil, reports.ErrReportNotFound
	}
	return report, nil
}
