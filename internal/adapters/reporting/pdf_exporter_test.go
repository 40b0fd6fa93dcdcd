package reporting

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFExporterExport(t *testing.T) {
	exporter := NewPDFExporter("apcaps test")

	report := domain.Report{
		ID:        "test-report-123",
		CreatedAt: time.Now(),
		Source:    "capture.pcapng",
		SSID:      "lab-ap",
		BSSID:     "aa:bb:cc:00:11:22",
		Channel:   36,
		Rows: []domain.CapabilityRow{
			{Mode: "HT", Bandwidth: "20/40 MHz", NSS: 2, MaxMCS: domain.IntPtr(15), GuardInterval: domain.StringPtr("20 MHz, 40 MHz")},
			{Mode: "VHT", Bandwidth: "RX", NSS: 2, MaxMCS: domain.IntPtr(9), GuardInterval: domain.StringPtr("80 MHz")},
			{Mode: "HE", Bandwidth: "<=80 MHz", NSS: 2, MaxMCS: domain.IntPtr(11)},
			{Mode: "EHT", Bandwidth: "320 MHz"},
		},
		Errors: []string{`VHT: wlan.vht.mcsset.txmcsmap "0xzz": not a hex number`},
	}

	var buf bytes.Buffer
	err := exporter.Export(&buf, report)
	require.NoError(t, err)

	data := buf.Bytes()
	assert.NotEmpty(t, data)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")), "PDF should start with %PDF header")
	assert.Greater(t, len(data), 1000, "PDF should have reasonable size")
	assert.Equal(t, "application/pdf", exporter.ContentType())
}

func TestPDFExporterExportEmptyReport(t *testing.T) {
	exporter := NewPDFExporter("apcaps test")

	var buf bytes.Buffer
	err := exporter.Export(&buf, domain.Report{ID: "x"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestPDFExporterManyErrorsPaginates(t *testing.T) {
	exporter := NewPDFExporter("apcaps test")

	report := domain.Report{ID: "paginate"}
	for i := 0; i < 120; i++ {
		report.Errors = append(report.Errors, fmt.Sprintf("EHT: field-%d: malformed", i))
	}

	var single, many bytes.Buffer
	require.NoError(t, exporter.Export(&single, domain.Report{ID: "paginate"}))
	require.NoError(t, exporter.Export(&many, report))
	assert.Greater(t, many.Len(), single.Len())
}

func TestGetModeColor(t *testing.T) {
	exporter := NewPDFExporter("")

	tests := []struct {
		mode  string
		wantR int
		wantG int
		wantB int
	}{
		{"EHT", 111, 66, 193},
		{"HE", 0, 102, 204},
		{"VHT", 52, 150, 89},
		{"HT", 100, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			r, g, b := exporter.getModeColor(tt.mode)
			assert.Equal(t, tt.wantR, r)
			assert.Equal(t, tt.wantG, g)
			assert.Equal(t, tt.wantB, b)
		})
	}
}
