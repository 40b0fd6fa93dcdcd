package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"github.com/lcalzada-xor/apcaps/internal/core/services/analysis"
)

// DefaultListLimit caps GET /api/v1/reports when no limit is given.
const DefaultListLimit = 50

// ReportHandler serves stored reports.
type ReportHandler struct {
	Service   ports.AnalysisService
	// Exporters maps the format query parameter to a renderer.
	Exporters map[string]ports.Exporter
}

// NewReportHandler creates a new handler.
func NewReportHandler(service ports.AnalysisService, exporters map[string]ports.Exporter) *ReportHandler {
	return &ReportHandler{Service: service, Exporters: exporters}
}

// HandleList returns the most recent reports, newest first.
func (h *ReportHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := DefaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	reports, err := h.Service.ListReports(r.Context(), limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// HandleGet renders one report in the requested format (json by default).
func (h *ReportHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	exporter, ok := h.Exporters[format]
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", format))
		return
	}

	report, err := h.Service.GetReport(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := exporter.Export(&buf, *report); err != nil {
		slog.Error("Failed to export report", "report_id", id, "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", exporter.ContentType())
	if format != "json" {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=apcaps-%s.%s", id, format))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Failed to write report", "report_id", id, "error", err)
	}
}

func (h *ReportHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrReportNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, analysis.ErrStorageDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("Report lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
