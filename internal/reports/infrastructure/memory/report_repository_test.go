package memory

import (
	"context"
	"testing"
	"time"

	reports "storewatch/internal/reports/domain"
)

func newRunning(t *testing.T, repo *ReportRepository, id string) {
	t.Helper()
	report, err := reports.NewReport(id, time.Date(2023, 1, 25, 12, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	if err := repo.Create(context.Background(), report); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestGet_ReturnsDetachedSnapshot(t *testing.T) {
	repo := NewReportRepository()
	newRunning(t, repo, "r1")

	before, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := repo.MarkComplete(context.Background(), "r1", "/tmp/r1.csv", time.Now()); err != nil {
		t.Fatalf("mark complete: %v", err)
	}

	// The earlier result stays what it was when read.
	if before.Status() != reports.StatusRunning {
		t.Fatalf("snapshot status = %s, want running", before.Status())
	}
	after, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.Status() != reports.StatusComplete {
		t.Fatalf("stored status = %s, want complete", after.Status())
	}
}

func TestMutatingAGetResultDoesNotTouchTheStore(t *testing.T) {
	repo := NewReportRepository()
	newRunning(t, repo, "r1")

	leaked, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if err := leaked.Fail("caller-side transition", time.Now()); err != nil {
		t.Fatalf("fail: %v", err)
	}

	stored, err := repo.Get(context.Background(), "r1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Status() != reports.StatusRunning {
		t.Fatalf("stored status = %s, want running", stored.Status())
	}
}

func TestMark_TerminalTransitionsAreFinal(t *testing.T) {
	repo := NewReportRepository()
	newRunning(t, repo, "r1")

	if err := repo.MarkFailed(context.Background(), "r1", "boom", time.Now()); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := repo.MarkComplete(context.Background(), "r1", "/tmp/r1.csv", time.Now()); err != reports.ErrAlreadyFinished {
		t.Fatalf("expected ErrAlreadyFinished, got %v", err)
	}
	if err := repo.MarkComplete(context.Background(), "missing", "/tmp/x.csv", time.Now()); err != reports.ErrReportNotFound {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}
