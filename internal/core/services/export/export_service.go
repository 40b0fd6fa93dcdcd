package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Columns is the header of every tabular rendering of capability rows.
var Columns = []string{"Mode", "Bandwidth", "Total NSS", "Max MCS", "Short GI"}

// Placeholders for absent values.
const (
	AbsentCSV   = ""
	AbsentTable = "-"
)

// Records renders rows as string records in Columns order, substituting
// absent for a missing max MCS or guard interval.
func Records(rows []domain.CapabilityRow, absent string) [][]string {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Mode,
			r.Bandwidth,
			strconv.Itoa(r.NSS),
			r.MaxMCSString(absent),
			r.GuardIntervalString(absent),
		})
	}
	return records
}

// ExportJSON writes the report as indented JSON
func ExportJSON(w io.Writer, report domain.Report) error {
	return encodeIndented(w, report)
}

// ExportHistoryJSON writes reports as an indented JSON array, empty rather
// than null when there are none.
func ExportHistoryJSON(w io.Writer, reports []domain.Report) error {
	if reports == nil {
		reports = []domain.Report{}
	}
	return encodeIndented(w, reports)
}

func encodeIndented(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// ExportCSV writes the capability rows as CSV with headers
func ExportCSV(w io.Writer, report domain.Report) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(Columns); err != nil {
		return err
	}
	if err := writer.WriteAll(Records(report.Rows, AbsentCSV)); err != nil {
		return err
	}
	return writer.Error()
}

// ExportTable writes an aligned plain-text table for terminals, preceded by
// the access point identity when known.
func ExportTable(w io.Writer, report domain.Report) error {
	if title := describeAP(report); title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}

	table := newPlainTable(w)
	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	table.Header(header...)
	for _, rec := range Records(report.Rows, AbsentTable) {
		if err := table.Append(rec); err != nil {
			return err
		}
	}
	return table.Render()
}

// HistoryColumns is the header of ExportHistoryTable.
var HistoryColumns = []string{"ID", "Created", "Source", "SSID", "BSSID", "Rows", "Malformed"}

// ExportHistoryTable writes one line per stored report, in the given order.
func ExportHistoryTable(w io.Writer, reports []domain.Report) error {
	table := newPlainTable(w)
	header := make([]any, len(HistoryColumns))
	for i, c := range HistoryColumns {
		header[i] = c
	}
	table.Header(header...)
	for _, r := range reports {
		if err := table.Append([]string{
			r.ID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.Source,
			orAbsent(r.SSID),
			orAbsent(r.BSSID),
			strconv.Itoa(len(r.Rows)),
			strconv.Itoa(len(r.Errors)),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func orAbsent(s string) string {
	if s == "" {
		return AbsentTable
	}
	return s
}

func newPlainTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.SeparatorsNone,
				Lines:      tw.LinesNone,
			},
		})),
		tablewriter.WithRowAlignment(tw.AlignLeft),
	)
}

func describeAP(report domain.Report) string {
	var s string
	if report.SSID != "" {
		s = fmt.Sprintf("SSID %q", report.SSID)
	}
	if report.BSSID != "" {
		if s != "" {
			s += " "
		}
		s += "BSSID " + report.BSSID
	}
	if report.Channel != 0 {
		if s != "" {
			s += " "
		}
		s += "channel " + strconv.Itoa(report.Channel)
	}
	return s
}

// JSONExporter implements ports.Exporter for JSON output.
type JSONExporter struct{}

func (JSONExporter) Export(w io.Writer, report domain.Report) error { return ExportJSON(w, report) }
func (JSONExporter) ContentType() string                           { return "application/json" }

// CSVExporter implements ports.Exporter for CSV output.
type CSVExporter struct{}

func (CSVExporter) Export(w io.Writer, report domain.Report) error { return ExportCSV(w, report) }
func (CSVExporter) ContentType() string                           { return "text/csv" }

// TableExporter implements ports.Exporter for terminal tables.
type TableExporter struct{}

func (TableExporter) Export(w io.Writer, report domain.Report) error { return ExportTable(w, report) }
func (TableExporter) ContentType() string                           { return "text/plain; charset=utf-8" }
