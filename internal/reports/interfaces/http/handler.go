package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"storewatch/internal/audit"
	"storewatch/internal/auth"
	"storewatch/internal/observability/metrics"
	"storewatch/internal/reports/application"
	reports "storewatch/internal/reports/domain"
	"storewatch/internal/reports/interfaces"
)

// Handler provides the report APIs: trigger and status/fetch.
type Handler struct {
	builder   *application.Builder
	repo      reports.Repository
	artifacts reports.ArtifactStore
	auditor   audit.Logger
	logger    *log.Logger
}

// NewHandler constructs a handler.
func NewHandler(builder *application.Builder, repo reports.Repository, artifacts reports.ArtifactStore, auditor audit.Logger, logger *log.Logger) (*Handler, error) {
	if builder == nil || repo == nil || artifacts == nil {
		return nil, errors.New("report handler: nil dependency")
	}
	return &Handler{builder: builder, repo: repo, artifacts: artifacts, auditor: auditor, logger: logger}, nil
}

// ServeHTTP routes report endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/v1/reports/trigger" && r.Method == http.MethodPost:
		h.handleTrigger(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v1/reports/") && r.Method == http.MethodGet:
		h.handleGet(w, r)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// handleTrigger mints a report id and runs generation. Generation is
// synchronous: the response is sent only after the report finished, a
// documented scale limitation. Callers must not depend on a quick return.
func (h *Handler) handleTrigger(w http.ResponseWriter, r *http.Request) {
	reportID := NewReportID()
	h.logAudit(r, "report.trigger", reportID)

	if err := h.builder.Generate(r.Context(), reportID); err != nil {
		if h.logger != nil {
			h.logger.Printf("report %s: generation failed: %v", reportID, err)
		}
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error_message": "report generation failed",
			"error":         err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"report_id": reportID})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	reportID := strings.TrimPrefix(r.URL.Path, "/api/v1/reports/")
	if reportID == "" || strings.Contains(reportID, "/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	report, err := h.repo.Get(r.Context(), reportID)
	if errors.Is(err, reports.ErrReportNotFound) {
		metrics.IncReportFetch("not_found")
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "unknown report id"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "report lookup failed"})
		return
	}

	switch report.Status() {
	case reports.StatusRunning:
		metrics.IncReportFetch("running")
		writeJSON(w, http.StatusOK, map[string]any{"status": string(reports.StatusRunning)})
	case reports.StatusFailed:
		metrics.IncReportFetch("failed")
		cause, _ := report.Cause()
		writeJSON(w, http.StatusOK, map[string]any{"status": string(reports.StatusFailed), "error": cause})
	case reports.StatusComplete:
		metrics.IncReportFetch("complete")
		h.logAudit(r, "report.download", reportID)
		h.serveArtifact(w, r, reportID)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid report status"})
	}
}

func (h *Handler) serveArtifact(w http.ResponseWriter, r *http.Request, reportID string) {
	artifact, err := h.artifacts.Get(reportID)
	if errors.Is(err, reports.ErrArtifactNotFound) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "report artifact missing"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "report artifact read failed"})
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="`+reportID+`.csv"`)
		w.Header().Set("X-Report-Status", "complete")
		_, _ = w.Write(artifact)
	case "xlsx", "pdf":
		h.serveExport(w, reportID, format, artifact)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "unsupported format"})
	}
}

func (h *Handler) serveExport(w http.ResponseWriter, reportID, format string, artifact []byte) {
	rows, err := interfaces.DecodeCSV(artifact)
	if err != nil {
		metrics.IncReportExport(format, err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "report artifact decode failed"})
		return
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "xlsx":
		data, err = interfaces.BuildReportXLSX(reportID, rows)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, err = interfaces.BuildReportPDF(reportID, rows)
		contentType = "application/pdf"
	}
	metrics.IncReportExport(format, err)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "report export failed"})
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+reportID+`.`+format+`"`)
	w.Header().Set("X-Report-Status", "complete")
	_, _ = w.Write(data)
}

func (h *Handler) logAudit(r *http.Request, action, reportID string) {
	if h.auditor == nil {
		return
	}
	entry := audit.Entry{
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "report",
		ResourceID:   reportID,
		IP:           r.RemoteAddr,
		UserAgent:    r.UserAgent(),
	}
	if err := h.auditor.Log(r.Context(), entry); err != nil && h.logger != nil {
		h.logger.Printf("audit log error: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
