package ports

import (
	"context"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// Storage defines the behavior for report persistence.
type Storage interface {
	// SaveReport stores a report and its rows.
	SaveReport(ctx context.Context, report domain.Report) error
	// GetReport returns domain.ErrReportNotFound for unknown IDs.
	GetReport(ctx context.Context, id string) (*domain.Report, error)
	// ListReports returns the newest reports first. limit <= 0 means no limit.
	ListReports(ctx context.Context, limit int) ([]domain.Report, error)

	// Close closes the storage connection.
	Close() error
}
