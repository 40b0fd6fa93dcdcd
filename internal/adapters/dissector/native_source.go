package dissector

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/lcalzada-xor/apcaps/internal/adapters/dissector/ie"
	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/lcalzada-xor/apcaps/internal/core/services/capability"
)

var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

// packetReader is implemented by both pcapgo.Reader and pcapgo.NgReader.
type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

// NativeSource dissects a saved capture in-process, producing frames in the
// same field layout as the external dissector.
type NativeSource struct {
	path     string
	registry *HandlerRegistry
}

// NewNativeSource creates a source for the pcap or pcapng file at path.
func NewNativeSource(path string) *NativeSource {
	return &NativeSource{path: path, registry: NewHandlerRegistry()}
}

func (s *NativeSource) Name() string { return s.path }

// Frame returns the first beacon or probe response in the capture matching sel.
func (s *NativeSource) Frame(ctx context.Context, sel domain.FrameSelector) (domain.Frame, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer f.Close()

	return s.scan(ctx, f, sel)
}

func (s *NativeSource) scan(ctx context.Context, r io.Reader, sel domain.FrameSelector) (domain.Frame, error) {
	reader, err := newPacketReader(r)
	if err != nil {
		return nil, err
	}

	for n := 0; ; n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, _, err := reader.ReadPacketData()
		if errors.Is(err, io.EOF) {
			return nil, domain.ErrNoFrame
		}
		if err != nil {
			return nil, fmt.Errorf("read packet %d: %w", n, err)
		}

		packet := gopacket.NewPacket(data, reader.LinkType(), gopacket.Default)
		frame, ok := s.Dissect(packet)
		if !ok {
			continue
		}
		info := capability.DescribeFrame(frame)
		if sel.Matches(info.SSID, info.BSSID) {
			return frame, nil
		}
	}
}

func newPacketReader(r io.Reader) (packetReader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("read capture header: %w", err)
	}
	if bytes.Equal(magic, pcapngMagic) {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, fmt.Errorf("open pcapng: %w", err)
		}
		return ng, nil
	}
	pr, err := pcapgo.NewReader(br)
	if err != nil {
		return nil, fmt.Errorf("open pcap: %w", err)
	}
	return pr, nil
}

// Dissect converts a beacon or probe response into a layers object. Other
// packets yield false.
func (s *NativeSource) Dissect(packet gopacket.Packet) (domain.Frame, bool) {
	dot11Layer := packet.Layer(layers.LayerTypeDot11)
	if dot11Layer == nil {
		return nil, false
	}
	dot11, ok := dot11Layer.(*layers.Dot11)
	if !ok {
		return nil, false
	}

	var (
		ieData  []byte
		subtype int
	)
	switch dot11.Type {
	case layers.Dot11TypeMgmtBeacon:
		subtype = SubtypeBeacon
		if beacon := packet.Layer(layers.LayerTypeDot11MgmtBeacon); beacon != nil {
			ieData = beacon.LayerPayload()
		}
	case layers.Dot11TypeMgmtProbeResp:
		subtype = SubtypeProbeResponse
		if resp := packet.Layer(layers.LayerTypeDot11MgmtProbeResp); resp != nil {
			ieData = resp.LayerPayload()
		}
	default:
		return nil, false
	}

	tags, extTags := s.dissectElements(ieData)
	tagged := map[string]any{}
	if len(tags) > 0 {
		tagged[domain.FieldTag] = tags
	}
	if len(extTags) > 0 {
		tagged[domain.FieldExtTag] = extTags
	}

	return domain.Frame{
		domain.FieldWLAN: map[string]any{
			domain.FieldTypeSubtype: fmt.Sprintf("0x%04x", subtype),
			domain.FieldBSSID:       dot11.Address3.String(),
		},
		domain.FieldWLANMgt: map[string]any{
			domain.FieldTaggedAll: tagged,
		},
	}, true
}

// dissectElements walks the tagged parameters. Extension elements are
// rendered after the standard ones because the EHT layout depends on the HE
// capabilities.
func (s *NativeSource) dissectElements(data []byte) (tags, extTags []any) {
	std, ext := ie.Split(ie.Collect(data), domain.TagExtension)
	// HE before EHT regardless of wire order
	sortExt(ext)

	ctx := &elementContext{}
	for _, e := range std {
		el := domain.Element{domain.FieldTagNumber: strconv.Itoa(e.ID)}
		if h, ok := s.registry.Get(e.ID); ok {
			if err := h.Handle(e.Data, ctx, el); err != nil {
				slog.Debug("Skipping malformed element", "id", e.ID, "len", len(e.Data), "error", err)
				continue
			}
		}
		tags = append(tags, map[string]any(el))
	}
	for _, e := range ext {
		el := domain.Element{domain.FieldExtTagNumber: strconv.Itoa(e.ID)}
		if h, ok := s.registry.GetExt(e.ID); ok {
			if err := h.Handle(e.Data, ctx, el); err != nil {
				slog.Debug("Skipping malformed extension element", "id", e.ID, "len", len(e.Data), "error", err)
				continue
			}
		}
		extTags = append(extTags, map[string]any(el))
	}
	return tags, extTags
}

// sortExt moves the HE capabilities element ahead of everything else,
// keeping the relative order of the rest.
func sortExt(ext []ie.IE) {
	for i, e := range ext {
		if e.ID == domain.ExtTagHECapabilities {
			copy(ext[1:i+1], ext[0:i])
			ext[0] = e
			return
		}
	}
}
