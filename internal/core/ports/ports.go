package ports

import (
	"context"
	"io"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// FrameSource produces the dissected management frame to analyze.
type FrameSource interface {
	// Frame returns the first beacon or probe response matching sel, or
	// domain.ErrNoFrame when none does.
	Frame(ctx context.Context, sel domain.FrameSelector) (domain.Frame, error)
	// Name identifies the source in reports (usually a file path).
	Name() string
}

// Exporter renders a report in one output format.
type Exporter interface {
	Export(w io.Writer, report domain.Report) error
	// ContentType is the MIME type of the rendered output.
	ContentType() string
}

// AnalysisService defines the core use cases exposed to the CLI and HTTP adapters.
type AnalysisService interface {
	// Analyze decodes one frame taken from src. A report is returned even when
	// some fields were malformed; their messages are listed in Report.Errors.
	Analyze(ctx context.Context, src FrameSource, sel domain.FrameSelector) (*domain.Report, error)
	// AnalyzeFrame decodes an already dissected frame.
	AnalyzeFrame(ctx context.Context, source string, frame domain.Frame) (*domain.Report, error)
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	ListReports(ctx context.Context, limit int) ([]domain.Report, error)
}
