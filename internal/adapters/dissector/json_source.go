package dissector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/services/capability"
	"github.com/tidwall/gjson"
)

// 802.11 management frame type/subtype values accepted for analysis.
const (
	SubtypeProbeResponse = 0x05
	SubtypeBeacon        = 0x08
)

// ErrInvalidDocument is returned for input that is not a dissector JSON export.
var ErrInvalidDocument = errors.New("invalid dissector document")

// ParseFrames extracts the per-packet layers objects from a dissector JSON
// export. It accepts the packet array written by `tshark -T json`, a single
// packet object, or a bare layers object.
func ParseFrames(data []byte) ([]domain.Frame, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed JSON", ErrInvalidDocument)
	}

	doc := gjson.ParseBytes(data)
	var packets []gjson.Result
	switch {
	case doc.IsArray():
		packets = doc.Array()
	case doc.IsObject():
		packets = []gjson.Result{doc}
	default:
		return nil, fmt.Errorf("%w: expected an array or object, got %s", ErrInvalidDocument, doc.Type)
	}

	frames := make([]domain.Frame, 0, len(packets))
	for i, p := range packets {
		layers := p.Get("_source.layers")
		if !layers.Exists() {
			layers = p
		}
		m, ok := layers.Value().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: packet %d has no layers object", ErrInvalidDocument, i)
		}
		frames = append(frames, domain.Frame(m))
	}
	return frames, nil
}

// SelectFrame returns the first beacon or probe response matching sel.
// Frames without a type/subtype field are assumed to be management frames.
func SelectFrame(frames []domain.Frame, sel domain.FrameSelector) (domain.Frame, error) {
	for _, f := range frames {
		if !isBeaconOrProbeResponse(f) {
			continue
		}
		info := capability.DescribeFrame(f)
		if sel.Matches(info.SSID, info.BSSID) {
			return f, nil
		}
	}
	return nil, domain.ErrNoFrame
}

func isBeaconOrProbeResponse(f domain.Frame) bool {
	s, present, ok := capability.GetString(f, domain.FieldWLAN, domain.FieldTypeSubtype)
	if !present {
		return true
	}
	if !ok {
		return false
	}
	v, err := strconv.ParseInt(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return false
	}
	return v == SubtypeBeacon || v == SubtypeProbeResponse
}

// JSONSource reads frames from a dissector JSON file on disk.
type JSONSource struct {
	path string
}

// NewJSONSource creates a source for the dissector export at path ("-" is stdin).
func NewJSONSource(path string) *JSONSource {
	return &JSONSource{path: path}
}

func (s *JSONSource) Name() string { return s.path }

// Frame loads the file and selects the first matching frame.
func (s *JSONSource) Frame(ctx context.Context, sel domain.FrameSelector) (domain.Frame, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		data []byte
		err  error
	)
	if s.path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	frames, err := ParseFrames(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return SelectFrame(frames, sel)
}
