package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"github.com/lcalzada-xor/apcaps/internal/core/services/capability"
	"github.com/lcalzada-xor/apcaps/internal/telemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrStorageDisabled is returned by history queries when no store is configured.
var ErrStorageDisabled = errors.New("report storage is disabled")

// Service implements ports.AnalysisService.
type Service struct {
	storage ports.Storage
	tracer  trace.Tracer
	now     func() time.Time
	newID   func() string
}

// NewService creates the analysis service. storage may be nil, in which case
// reports are not persisted and history queries fail with ErrStorageDisabled.
func NewService(storage ports.Storage) *Service {
	telemetry.InitMetrics()
	return &Service{
		storage: storage,
		tracer:  otel.Tracer("github.com/lcalzada-xor/apcaps/analysis"),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Analyze obtains one frame from src and decodes it.
func (s *Service) Analyze(ctx context.Context, src ports.FrameSource, sel domain.FrameSelector) (*domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "Analyze", trace.WithAttributes(
		attribute.String("apcaps.source", src.Name()),
		attribute.String("apcaps.ssid", sel.SSID),
		attribute.String("apcaps.bssid", sel.BSSID),
	))
	defer span.End()

	start := s.now()
	frame, err := src.Frame(ctx, sel)
	if err != nil {
		result := telemetry.ResultError
		if errors.Is(err, domain.ErrNoFrame) {
			result = telemetry.ResultNoFrame
		}
		telemetry.FramesAnalyzed.WithLabelValues(result).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("read frame from %s: %w", src.Name(), err)
	}

	report, err := s.analyze(ctx, src.Name(), frame)
	telemetry.AnalysisDuration.Observe(s.now().Sub(start).Seconds())
	return report, err
}

// AnalyzeFrame decodes an already dissected frame.
func (s *Service) AnalyzeFrame(ctx context.Context, source string, frame domain.Frame) (*domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "AnalyzeFrame", trace.WithAttributes(
		attribute.String("apcaps.source", source),
	))
	defer span.End()

	start := s.now()
	report, err := s.analyze(ctx, source, frame)
	telemetry.AnalysisDuration.Observe(s.now().Sub(start).Seconds())
	return report, err
}

func (s *Service) analyze(ctx context.Context, source string, frame domain.Frame) (*domain.Report, error) {
	span := trace.SpanFromContext(ctx)

	rows, decodeErr := capability.Aggregate(frame)
	info := capability.DescribeFrame(frame)

	report := &domain.Report{
		ID:        s.newID(),
		CreatedAt: s.now().UTC(),
		Source:    source,
		SSID:      info.SSID,
		BSSID:     info.BSSID,
		Channel:   info.Channel,
		Rows:      rows,
	}
	if report.Rows == nil {
		report.Rows = []domain.CapabilityRow{}
	}

	for _, row := range rows {
		telemetry.CapabilityRows.WithLabelValues(row.Mode).Inc()
	}

	result := telemetry.ResultOK
	for _, err := range splitErrors(decodeErr) {
		result = telemetry.ResultPartial
		mode := "unknown"
		var fe *capability.FieldError
		if errors.As(err, &fe) && fe.Mode != "" {
			mode = fe.Mode
		}
		telemetry.MalformedFields.WithLabelValues(mode).Inc()
		report.Errors = append(report.Errors, err.Error())
		slog.Warn("Malformed capability field", "source", source, "mode", mode, "error", err)
		span.RecordError(err)
	}
	telemetry.FramesAnalyzed.WithLabelValues(result).Inc()

	span.SetAttributes(
		attribute.String("apcaps.report_id", report.ID),
		attribute.Int("apcaps.rows", len(report.Rows)),
		attribute.Int("apcaps.malformed_fields", len(report.Errors)),
	)

	if s.storage != nil {
		if err := s.storage.SaveReport(ctx, *report); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return report, fmt.Errorf("save report %s: %w", report.ID, err)
		}
		slog.Debug("Report saved", "id", report.ID, "rows", len(report.Rows))
	}
	return report, nil
}

// GetReport returns a stored report.
func (s *Service) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	return s.storage.GetReport(ctx, id)
}

// ListReports returns stored reports, newest first.
func (s *Service) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	if s.storage == nil {
		return nil, ErrStorageDisabled
	}
	return s.storage.ListReports(ctx, limit)
}

// splitErrors flattens an errors.Join result.
func splitErrors(err error) []error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*capability.FieldError); ok {
		return []error{err}
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
