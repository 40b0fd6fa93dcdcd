package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/lcalzada-xor/apcaps/internal/adapters/dissector"
	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
)

// APISource is the report source recorded for frames posted over HTTP.
const APISource = "api"

// AnalysisHandler decodes dissector JSON posted by clients.
type AnalysisHandler struct {
	Service      ports.AnalysisService
	MaxBodyBytes int64
}

// NewAnalysisHandler creates a new handler.
func NewAnalysisHandler(service ports.AnalysisService, maxBodyBytes int64) *AnalysisHandler {
	return &AnalysisHandler{Service: service, MaxBodyBytes: maxBodyBytes}
}

// HandleAnalyze accepts a tshark -T json export (an array of packets or a
// single packet) and returns the capability report of the first beacon or
// probe response matching the ssid and bssid query parameters.
func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	sel := domain.FrameSelector{SSID: q.Get("ssid"), BSSID: q.Get("bssid")}
	if err := sel.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	frames, err := dissector.ParseFrames(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	frame, err := dissector.SelectFrame(frames, sel)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	report, err := h.Service.AnalyzeFrame(r.Context(), APISource, frame)
	if err != nil {
		if report == nil {
			slog.Error("Analysis failed", "error", err)
			writeError(w, http.StatusInternalServerError, "analysis failed")
			return
		}
		// decoded but not persisted
		slog.Error("Failed to store report", "report_id", report.ID, "error", err)
		w.Header().Set("X-Report-Stored", "false")
	}

	writeJSON(w, http.StatusOK, report)
}
