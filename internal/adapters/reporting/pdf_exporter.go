package reporting

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/services/export"
)

// PDFExporter exports capability reports to PDF format
type PDFExporter struct {
	// GeneratedBy is printed in the footer
	GeneratedBy string
}

// NewPDFExporter creates a new PDF exporter instance
func NewPDFExporter(generatedBy string) *PDFExporter {
	return &PDFExporter{GeneratedBy: generatedBy}
}

// ContentType implements ports.Exporter
func (e *PDFExporter) ContentType() string { return "application/pdf" }

// Export renders the report as a single A4 page
func (e *PDFExporter) Export(w io.Writer, report domain.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("AP Capability Report", true)
	pdf.AddPage()

	e.addHeader(pdf, report)
	e.addCapabilities(pdf, report)
	e.addErrors(pdf, report)
	e.addFooter(pdf, report)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to generate PDF: %w", err)
	}
	return nil
}

// addHeader adds the title and access point identity
func (e *PDFExporter) addHeader(pdf *gofpdf.Fpdf, report domain.Report) {
	pdf.SetFont("Arial", "B", 22)
	pdf.SetTextColor(0, 51, 102) // Dark blue
	pdf.CellFormat(0, 14, "AP Capability Report", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(60, 60, 60)
	identity := []struct{ label, value string }{
		{"SSID", report.SSID},
		{"BSSID", report.BSSID},
		{"Channel", channelString(report.Channel)},
		{"Source", report.Source},
	}
	for _, id := range identity {
		if id.value == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(25, 6, id.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, id.value, "", 1, "L", false, 0, "")
	}

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(120, 120, 120)
	if !report.CreatedAt.IsZero() {
		pdf.CellFormat(0, 6, fmt.Sprintf("Generated: %s", report.CreatedAt.Format("2006-01-02 15:04 MST")), "", 1, "L", false, 0, "")
	}
	pdf.Ln(6)
}

var columnWidths = []float64{25, 35, 30, 30, 50}

// addCapabilities adds the capability rows table
func (e *PDFExporter) addCapabilities(pdf *gofpdf.Fpdf, report domain.Report) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 10, "PHY Capabilities", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	if len(report.Rows) == 0 {
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 7, "No HT, VHT, HE or EHT capability elements found", "", 1, "L", false, 0, "")
		pdf.Ln(5)
		return
	}

	// Table header
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 10)
	pdf.SetTextColor(60, 60, 60)
	for i, col := range export.Columns {
		ln := 0
		if i == len(export.Columns)-1 {
			ln = 1
		}
		pdf.CellFormat(columnWidths[i], 8, col, "1", ln, "C", true, 0, "")
	}

	// Table rows
	pdf.SetFont("Arial", "", 9)
	records := export.Records(report.Rows, export.AbsentTable)
	for i, rec := range records {
		r, g, b := e.getModeColor(report.Rows[i].Mode)
		for j, cell := range rec {
			if j == 0 {
				pdf.SetTextColor(r, g, b)
			} else {
				pdf.SetTextColor(60, 60, 60)
			}
			ln := 0
			if j == len(rec)-1 {
				ln = 1
			}
			pdf.CellFormat(columnWidths[j], 7, cell, "1", ln, "C", false, 0, "")
		}
	}
	pdf.Ln(8)
}

// getModeColor returns RGB color per PHY generation
func (e *PDFExporter) getModeColor(mode string) (r, g, b int) {
	switch mode {
	case domain.ModeEHT:
		return 111, 66, 193 // Purple
	case domain.ModeHE:
		return 0, 102, 204 // Blue
	case domain.ModeVHT:
		return 52, 150, 89 // Green
	default:
		return 100, 100, 100 // Gray
	}
}

// addErrors lists malformed fields that were left out of the table
func (e *PDFExporter) addErrors(pdf *gofpdf.Fpdf, report domain.Report) {
	if len(report.Errors) == 0 {
		return
	}
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(220, 53, 69) // Red
	pdf.CellFormat(0, 8, "Malformed Fields", "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 8)
	pdf.SetTextColor(80, 80, 80)
	for _, msg := range report.Errors {
		if pdf.GetY() > 260 {
			pdf.AddPage()
		}
		pdf.MultiCell(0, 5, "- "+msg, "", "L", false)
	}
}

// addFooter adds the report footer
func (e *PDFExporter) addFooter(pdf *gofpdf.Fpdf, report domain.Report) {
	pdf.SetY(-20)

	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.Ln(3)

	id := report.ID
	if len(id) > 8 {
		id = id[:8]
	}
	pdf.SetFont("Arial", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	footerText := fmt.Sprintf("Generated by %s | Report ID: %s", e.GeneratedBy, id)
	pdf.CellFormat(0, 5, footerText, "", 1, "C", false, 0, "")
}

func channelString(ch int) string {
	if ch == 0 {
		return ""
	}
	return fmt.Sprintf("%d", ch)
}
