package app

import (
	"fmt"

	"github.com/lcalzada-xor/apcaps/internal/adapters/reporting"
	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"github.com/lcalzada-xor/apcaps/internal/core/services/export"
)

// Exporters returns one renderer per output format, keyed by the format name
// accepted by --format and the API's format parameter.
func Exporters(generatedBy string) map[string]ports.Exporter {
	return map[string]ports.Exporter{
		config.FormatTable: export.TableExporter{},
		config.FormatCSV:   export.CSVExporter{},
		config.FormatJSON:  export.JSONExporter{},
		config.FormatPDF:   reporting.NewPDFExporter(generatedBy),
	}
}

// ForFormat looks up the renderer for format.
func ForFormat(format, generatedBy string) (ports.Exporter, error) {
	e, ok := Exporters(generatedBy)[format]
	if !ok {
		return nil, fmt.Errorf("%w: unknown format %q", config.ErrInvalidConfig, format)
	}
	return e, nil
}
