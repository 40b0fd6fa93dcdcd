package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// ReportModel is the GORM model for reports.
type ReportModel struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	Source    string
	SSID      string
	BSSID     string `gorm:"column:bss_id"`
	Channel   int
	Errors    string // JSON encoded []string

	Rows []RowModel `gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

// RowModel stores one capability row of a report.
type RowModel struct {
	ID            uint   `gorm:"primaryKey"`
	ReportID      string `gorm:"index"`
	Position      int
	Mode          string
	Bandwidth     string
	NSS           int
	MaxMCS        *int
	GuardInterval *string
}

// toModel converts a domain report to its database model.
func toModel(r domain.Report) (ReportModel, error) {
	m := ReportModel{
		ID:        r.ID,
		CreatedAt: r.CreatedAt,
		Source:    r.Source,
		SSID:      r.SSID,
		BSSID:     r.BSSID,
		Channel:   r.Channel,
	}
	if len(r.Errors) > 0 {
		b, err := json.Marshal(r.Errors)
		if err != nil {
			return ReportModel{}, fmt.Errorf("encode report errors: %w", err)
		}
		m.Errors = string(b)
	}
	for i, row := range r.Rows {
		m.Rows = append(m.Rows, RowModel{
			ReportID:      r.ID,
			Position:      i,
			Mode:          row.Mode,
			Bandwidth:     row.Bandwidth,
			NSS:           row.NSS,
			MaxMCS:        row.MaxMCS,
			GuardInterval: row.GuardInterval,
		})
	}
	return m, nil
}

// toDomain converts a database model to a domain report.
func toDomain(m ReportModel) (*domain.Report, error) {
	r := &domain.Report{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		Source:    m.Source,
		SSID:      m.SSID,
		BSSID:     m.BSSID,
		Channel:   m.Channel,
		Rows:      make([]domain.CapabilityRow, 0, len(m.Rows)),
	}
	if m.Errors != "" {
		if err := json.Unmarshal([]byte(m.Errors), &r.Errors); err != nil {
			return nil, fmt.Errorf("decode errors of report %s: %w", m.ID, err)
		}
	}
	for _, row := range m.Rows {
		r.Rows = append(r.Rows, domain.CapabilityRow{
			Mode:          row.Mode,
			Bandwidth:     row.Bandwidth,
			NSS:           row.NSS,
			MaxMCS:        row.MaxMCS,
			GuardInterval: row.GuardInterval,
		})
	}
	return r, nil
}
