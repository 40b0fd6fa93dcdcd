package handlers

import (
	"context"
	"io"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"github.com/stretchr/testify/mock"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) Analyze(ctx context.Context, src ports.FrameSource, sel domain.FrameSelector) (*domain.Report, error) {
	args := m.Called(ctx, src, sel)
	if r := args.Get(0); r != nil {
		return r.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) AnalyzeFrame(ctx context.Context, source string, frame domain.Frame) (*domain.Report, error) {
	args := m.Called(ctx, source, frame)
	if r := args.Get(0); r != nil {
		return r.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAnalysisService) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	args := m.Called(ctx, limit)
	if r := args.Get(0); r != nil {
		return r.([]domain.Report), args.Error(1)
	}
	return nil, args.Error(1)
}

// stubExporter writes a fixed body.
type stubExporter struct {
	body string
	err  error
}

func (s stubExporter) Export(w io.Writer, _ domain.Report) error {
	if s.err != nil {
		return s.err
	}
	_, err := io.WriteString(w, s.body)
	return err
}

func (s stubExporter) ContentType() string { return "text/csv" }
