package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const beaconExport = `[
  {"_source": {"layers": {
    "wlan": {"wlan.fc.type_subtype": "0x0008", "wlan.bssid": "aa:bb:cc:00:11:22"},
    "wlan.mgt": {"wlan.tagged.all": {"wlan.tag": [
      {"wlan.tag.number": "0", "wlan.ssid": "lab-ap"},
      {"wlan.tag.number": "45", "wlan.ht.mcsset": {"wlan.ht.mcsset.rxbitmask": {
        "wlan.ht.mcsset.rxbitmask.0to7": "0x000000ff"}}}
    ]}}
  }}}
]`

func postAnalyze(h *AnalysisHandler, query, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze"+query, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleAnalyze(rec, req)
	return rec
}

func TestHandleAnalyze_Success(t *testing.T) {
	svc := new(MockAnalysisService)
	report := &domain.Report{
		ID:     "report-1",
		Source: APISource,
		SSID:   "lab-ap",
		Rows:   []domain.CapabilityRow{{Mode: "HT", Bandwidth: "20/40 MHz", NSS: 1, MaxMCS: domain.IntPtr(7)}},
	}
	svc.On("AnalyzeFrame", mock.Anything, APISource, mock.MatchedBy(func(f domain.Frame) bool {
		_, ok := f["wlan.mgt"]
		return ok
	})).Return(report, nil)

	rec := postAnalyze(NewAnalysisHandler(svc, 1<<20), "?ssid=lab-ap", beaconExport)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got domain.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "report-1", got.ID)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, 7, *got.Rows[0].MaxMCS)
	svc.AssertExpectations(t)
}

func TestHandleAnalyze_NoMatchingFrame(t *testing.T) {
	svc := new(MockAnalysisService)
	rec := postAnalyze(NewAnalysisHandler(svc, 1<<20), "?ssid=other", beaconExport)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	svc.AssertNotCalled(t, "AnalyzeFrame", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleAnalyze_BadInput(t *testing.T) {
	tests := []struct {
		name  string
		query string
		body  string
		max   int64
		want  int
	}{
		{"invalid json", "", `[{"_source":`, 1 << 20, http.StatusBadRequest},
		{"scalar document", "", `42`, 1 << 20, http.StatusBadRequest},
		{"invalid bssid", "?bssid=nope", beaconExport, 1 << 20, http.StatusBadRequest},
		{"body too large", "", beaconExport, 16, http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockAnalysisService)
			rec := postAnalyze(NewAnalysisHandler(svc, tt.max), tt.query, tt.body)

			assert.Equal(t, tt.want, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			svc.AssertNotCalled(t, "AnalyzeFrame", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestHandleAnalyze_StoreFailureStillReturnsReport(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("AnalyzeFrame", mock.Anything, APISource, mock.Anything).
		Return(&domain.Report{ID: "report-2", Rows: []domain.CapabilityRow{}}, errors.New("disk full"))

	rec := postAnalyze(NewAnalysisHandler(svc, 1<<20), "", beaconExport)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "false", rec.Header().Get("X-Report-Stored"))
	assert.Contains(t, rec.Body.String(), "report-2")
}

func TestHandleAnalyze_ServiceFailure(t *testing.T) {
	svc := new(MockAnalysisService)
	svc.On("AnalyzeFrame", mock.Anything, APISource, mock.Anything).Return(nil, errors.New("boom"))

	rec := postAnalyze(NewAnalysisHandler(svc, 1<<20), "", beaconExport)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
