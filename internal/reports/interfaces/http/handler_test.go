package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	monitoring "storewatch/internal/monitoring/domain"
	monitoringmem "storewatch/internal/monitoring/infrastructure/memory"
	"storewatch/internal/reports/application"
	reports "storewatch/internal/reports/domain"
	"storewatch/internal/reports/infrastructure/fs"
	reportsmem "storewatch/internal/reports/infrastructure/memory"
)

type stubClock struct{}

func (stubClock) Now() time.Time { return time.Date(2023, 1, 25, 13, 0, 0, 0, time.UTC) }

type stubHoursLoader struct {
	index *monitoring.HoursIndex
}

func (l stubHoursLoader) LoadIndex(ctx context.Context) (*monitoring.HoursIndex, error) {
	return l.index, nil
}

type handlerFixture struct {
	handler *Handler
	repo    *reportsmem.ReportRepository
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	end, err := monitoring.ParseClockTime("23:59:59")
	if err != nil {
		t.Fatalf("parse clock: %v", err)
	}
	var hours []monitoring.BusinessHours
	for weekday := 0; weekday < 7; weekday++ {
		hours = append(hours, monitoring.BusinessHours{StoreID: "s1", Weekday: weekday, Start: 0, End: end})
	}
	index, err := monitoring.NewHoursIndex(hours)
	if err != nil {
		t.Fatalf("build index: %v", err)
	}

	observations := monitoringmem.NewObservationStore()
	observations.Append(monitoring.Observation{
		StoreID:   "s1",
		Timestamp: time.Date(2023, 1, 25, 12, 0, 0, 0, time.UTC),
		Status:    monitoring.StatusActive,
	})
	timezones := monitoringmem.NewTimezoneStore()
	timezones.Put(monitoring.StoreTimezone{StoreID: "s1", Timezone: "UTC"})

	repo := reportsmem.NewReportRepository()
	artifacts, err := fs.NewArtifactStore(t.TempDir())
	if err != nil {
		t.Fatalf("artifact store: %v", err)
	}
	builder, err := application.NewBuilder(
		repo, artifacts, observations, timezones,
		stubHoursLoader{index: index}, stubClock{}, nil,
		application.WithDefaultTimezone("UTC"),
	)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	handler, err := NewHandler(builder, repo, artifacts, nil, nil)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return &handlerFixture{handler: handler, repo: repo}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestTrigger_ReturnsReportIDAndCompletes(t *testing.T) {
	fix := newHandlerFixture(t)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/trigger", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("trigger status = %d: %s", rec.Code, rec.Body.String())
	}
	reportID, _ := decodeBody(t, rec)["report_id"].(string)
	if reportID == "" {
		t.Fatal("trigger response missing report_id")
	}

	rec = httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+reportID, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if rec.Header().Get("X-Report-Status") != "complete" {
		t.Fatal("missing complete status header")
	}
	lines := strings.Split(strings.TrimRight(rec.Body.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header plus 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "store_id,") {
		t.Fatalf("unexpected header %q", lines[0])
	}
}

func TestGet_UnknownReportID(t *testing.T) {
	fix := newHandlerFixture(t)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["error"] != "unknown report id" {
		t.Fatalf("body = %v", body)
	}
}

func TestGet_RunningReport(t *testing.T) {
	fix := newHandlerFixture(t)
	report, err := reports.NewReport("r-running", time.Now())
	if err != nil {
		t.Fatalf("new report: %v", err)
	}
	if err := fix.repo.Create(context.Background(), report); err != nil {
		t.Fatalf("create: %v", err)
	}

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/r-running", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["status"] != "running" {
		t.Fatalf("body = %v", body)
	}
}

func TestGet_FailedReportCarriesCause(t *testing.T) {
	fix := newHandlerFixture(t)
	report, _ := reports.NewReport("r-failed", time.Now())
	if err := fix.repo.Create(context.Background(), report); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := fix.repo.MarkFailed(context.Background(), "r-failed", "no observations recorded", time.Now()); err != nil {
		t.Fatalf("mark failed: %v", err)
	}

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/r-failed", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["status"] != "failed" || body["error"] != "no observations recorded" {
		t.Fatalf("body = %v", body)
	}
}

func TestGet_ExportFormats(t *testing.T) {
	fix := newHandlerFixture(t)
	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/reports/trigger", nil))
	reportID, _ := decodeBody(t, rec)["report_id"].(string)
	if reportID == "" {
		t.Fatal("trigger response missing report_id")
	}

	rec = httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+reportID+"?format=xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("xlsx status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("xlsx content type = %q", ct)
	}

	rec = httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+reportID+"?format=pdf", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("pdf status = %d", rec.Code)
	}
	if !strings.HasPrefix(rec.Body.String(), "%PDF") {
		t.Fatal("pdf body missing marker")
	}

	rec = httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/"+reportID+"?format=doc", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unsupported format status = %d", rec.Code)
	}
}

func TestRouting_UnknownPathsAndMethods(t *testing.T) {
	fix := newHandlerFixture(t)

	rec := httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/trigger/extra", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("nested path status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	fix.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/reports/r1", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestNewReportID_Format(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 32; i++ {
		id := NewReportID()
		if len(id) != 36 || strings.Count(id, "-") != 4 {
			t.Fatalf("unexpected id %q", id)
		}
		for _, pos := range []int{8, 13, 18, 23} {
			if id[pos] != '-' {
				t.Fatalf("id %q missing dash at %d", id, pos)
			}
		}
		if id[14] != '4' {
			t.Fatalf("id %q is not version 4", id)
		}
		if v := id[19]; v != '8' && v != '9' && v != 'a' && v != 'b' {
			t.Fatalf("id %q has bad variant nibble %q", id, v)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
