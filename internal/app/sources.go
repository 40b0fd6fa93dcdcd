package app

import (
	"errors"

	"github.com/lcalzada-xor/apcaps/internal/adapters/dissector"
	"github.com/lcalzada-xor/apcaps/internal/config"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
)

var (
	// ErrNoInput is returned when neither a dissector export nor a capture is given.
	ErrNoInput = errors.New("one of --json or --pcap is required")
	// ErrConflictingInput is returned when both are given.
	ErrConflictingInput = errors.New("--json and --pcap are mutually exclusive")
)

// Input names the file to analyze.
type Input struct {
	JSONPath string // tshark -T json export, "-" for stdin
	PcapPath string // pcap or pcapng capture
}

// Path returns whichever input file is set.
func (in Input) Path() string {
	if in.JSONPath != "" {
		return in.JSONPath
	}
	return in.PcapPath
}

// NewFrameSource picks the frame source for in. Captures go through tshark
// unless cfg.Native selects the built-in dissector.
func NewFrameSource(cfg *config.Config, in Input) (ports.FrameSource, error) {
	switch {
	case in.JSONPath != "" && in.PcapPath != "":
		return nil, ErrConflictingInput
	case in.JSONPath != "":
		return dissector.NewJSONSource(in.JSONPath), nil
	case in.PcapPath == "":
		return nil, ErrNoInput
	case cfg.Native:
		return dissector.NewNativeSource(in.PcapPath), nil
	default:
		return dissector.NewTsharkSource(in.PcapPath, cfg.TsharkPath), nil
	}
}
