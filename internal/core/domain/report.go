package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrReportNotFound is returned by report stores for unknown IDs.
	ErrReportNotFound = errors.New("report not found")
	// ErrNoFrame is returned by frame sources when no frame matched the selector.
	ErrNoFrame = errors.New("no matching beacon or probe response")
)

// Report is the capability summary of one access point, as analyzed from one frame.
type Report struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Source    string          `json:"source"`
	SSID      string          `json:"ssid,omitempty"`
	BSSID     string          `json:"bssid,omitempty"`
	Channel   int             `json:"channel,omitempty"`
	Rows      []CapabilityRow `json:"rows"`
	Errors    []string        `json:"errors,omitempty"` // malformed fields, one message each
}

// FrameSelector narrows a capture down to the frame to analyze.
// Empty fields match everything.
type FrameSelector struct {
	SSID  string
	BSSID string
}

// Matches reports whether a frame with the given SSID/BSSID is selected.
func (s FrameSelector) Matches(ssid, bssid string) bool {
	if s.SSID != "" && s.SSID != ssid {
		return false
	}
	if s.BSSID != "" && !equalMAC(s.BSSID, bssid) {
		return false
	}
	return true
}

func equalMAC(a, b string) bool {
	norm := func(s string) string { return strings.ReplaceAll(s, "-", ":") }
	return strings.EqualFold(norm(a), norm(b))
}
