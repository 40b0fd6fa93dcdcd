package dissector

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// ErrToolNotFound is returned when the external dissector binary is not installed.
var ErrToolNotFound = errors.New("dissector tool not found")

// DefaultTsharkPath is the binary looked up in PATH when none is configured.
const DefaultTsharkPath = "tshark"

// execCmd allows mocking exec.CommandContext in tests
var execCmd = exec.CommandContext

// lookPath allows mocking exec.LookPath in tests
var lookPath = exec.LookPath

// TsharkSource runs tshark against a saved capture file and parses its JSON output.
type TsharkSource struct {
	capture string
	binary  string
}

// NewTsharkSource creates a source for capture. An empty binary selects
// DefaultTsharkPath.
func NewTsharkSource(capture, binary string) *TsharkSource {
	if binary == "" {
		binary = DefaultTsharkPath
	}
	return &TsharkSource{capture: capture, binary: binary}
}

func (s *TsharkSource) Name() string { return s.capture }

// Frame runs tshark in two-pass mode, stopping after the first frame that
// passes the display filter.
func (s *TsharkSource) Frame(ctx context.Context, sel domain.FrameSelector) (domain.Frame, error) {
	if _, err := lookPath(s.binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrToolNotFound, s.binary)
	}

	args := tsharkArgs(s.capture, sel)
	slog.Debug("Running dissector", "binary", s.binary, "args", strings.Join(args, " "))

	var stdout, stderr bytes.Buffer
	cmd := execCmd(ctx, s.binary, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return nil, fmt.Errorf("tshark: %w", err)
		}
		return nil, fmt.Errorf("tshark: %w: %s", err, msg)
	}

	frames, err := ParseFrames(stdout.Bytes())
	if err != nil {
		return nil, fmt.Errorf("parse tshark output: %w", err)
	}
	return SelectFrame(frames, sel)
}

// tsharkArgs builds the command line for one capture file.
func tsharkArgs(capture string, sel domain.FrameSelector) []string {
	return []string{
		"-r", capture,
		"-T", "json",
		"--no-duplicate-keys",
		"-2",
		"-R", DisplayFilter(sel),
		"-c", "1",
	}
}

// DisplayFilter selects beacons and probe responses, optionally narrowed by
// SSID and BSSID.
func DisplayFilter(sel domain.FrameSelector) string {
	clauses := []string{"(wlan.fc.type_subtype == 0x0008 || wlan.fc.type_subtype == 0x0005)"}
	if sel.SSID != "" {
		clauses = append(clauses, fmt.Sprintf("wlan.ssid == %q", sel.SSID))
	}
	if sel.BSSID != "" {
		clauses = append(clauses, "wlan.bssid == "+strings.ToLower(strings.ReplaceAll(sel.BSSID, "-", ":")))
	}
	return strings.Join(clauses, " && ")
}
