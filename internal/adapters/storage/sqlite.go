package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

var _ ports.Storage = (*SQLiteAdapter)(nil)

// SQLiteAdapter implements ports.Storage using GORM and SQLite.
type SQLiteAdapter struct {
	db *gorm.DB
}

// NewSQLiteAdapter initializes the database and migrates schema.
func NewSQLiteAdapter(path string) (*SQLiteAdapter, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	return newAdapter(db)
}

func newAdapter(db *gorm.DB) (*SQLiteAdapter, error) {
	if err := db.Use(tracing.NewPlugin()); err != nil {
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}

	// Auto Migrate
	if err := db.AutoMigrate(&ReportModel{}, &RowModel{}); err != nil {
		return nil, err
	}

	// Create Indices for Performance
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_created_at ON report_models(created_at)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_reports_bssid ON report_models(bss_id)")

	return &SQLiteAdapter{db: db}, nil
}

// SaveReport stores a report and its rows in one transaction.
func (a *SQLiteAdapter) SaveReport(ctx context.Context, report domain.Report) error {
	model, err := toModel(report)
	if err != nil {
		return err
	}
	return a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace rows on re-save
		if err := tx.Where("report_id = ?", model.ID).Delete(&RowModel{}).Error; err != nil {
			return err
		}
		return tx.Save(&model).Error
	})
}

// GetReport retrieves a report by ID.
func (a *SQLiteAdapter) GetReport(ctx context.Context, id string) (*domain.Report, error) {
	var model ReportModel
	err := a.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return toDomain(model)
}

// ListReports returns the newest reports first. limit <= 0 means no limit.
func (a *SQLiteAdapter) ListReports(ctx context.Context, limit int) ([]domain.Report, error) {
	query := a.db.WithContext(ctx).
		Preload("Rows", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var models []ReportModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	reports := make([]domain.Report, 0, len(models))
	for _, m := range models {
		r, err := toDomain(m)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, nil
}

// Close closes the database connection.
func (a *SQLiteAdapter) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
