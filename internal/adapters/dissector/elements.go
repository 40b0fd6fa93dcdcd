package dissector

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// ErrShortElement is returned by element handlers for truncated bodies.
var ErrShortElement = errors.New("element body too short")

// elementContext carries the cross-element state some layouts depend on.
// The EHT-MCS set size depends on the HE and EHT PHY capability bits.
type elementContext struct {
	he160  bool // HE PHY channel width set B2: 160 MHz in 5 GHz
	eht320 bool // EHT PHY B1: 320 MHz in 6 GHz
}

// ElementHandler renders one information element in the dissector's field
// layout.
type ElementHandler interface {
	// ID returns the element ID this handler is responsible for. Extension
	// handlers return the extension element ID.
	ID() int
	// Handle parses the element body into el.
	Handle(val []byte, ctx *elementContext, el domain.Element) error
}

// HandlerRegistry manages the collection of element handlers
type HandlerRegistry struct {
	handlers    map[int]ElementHandler
	extHandlers map[int]ElementHandler
}

// NewHandlerRegistry creates a new registry with default handlers
func NewHandlerRegistry() *HandlerRegistry {
	r := &HandlerRegistry{
		handlers:    make(map[int]ElementHandler),
		extHandlers: make(map[int]ElementHandler),
	}
	r.Register(&ssidHandler{})
	r.Register(&channelHandler{})
	r.Register(&htCapabilitiesHandler{})
	r.Register(&vhtCapabilitiesHandler{})
	r.RegisterExt(&heCapabilitiesHandler{})
	r.RegisterExt(&ehtCapabilitiesHandler{})
	return r
}

// Register adds a handler to the registry
func (r *HandlerRegistry) Register(h ElementHandler) {
	r.handlers[h.ID()] = h
}

// RegisterExt adds an extension element handler
func (r *HandlerRegistry) RegisterExt(h ElementHandler) {
	r.extHandlers[h.ID()] = h
}

// Get returns the handler for a specific element ID
func (r *HandlerRegistry) Get(id int) (ElementHandler, bool) {
	h, ok := r.handlers[id]
	return h, ok
}

// GetExt returns the handler for a specific extension element ID
func (r *HandlerRegistry) GetExt(id int) (ElementHandler, bool) {
	h, ok := r.extHandlers[id]
	return h, ok
}

// --- Specific Handlers ---

type ssidHandler struct{}

func (h *ssidHandler) ID() int { return domain.TagSSID }
func (h *ssidHandler) Handle(val []byte, _ *elementContext, el domain.Element) error {
	el[domain.FieldSSID] = string(val)
	return nil
}

type channelHandler struct{}

func (h *channelHandler) ID() int { return domain.TagDSParameterSet }
func (h *channelHandler) Handle(val []byte, _ *elementContext, el domain.Element) error {
	if len(val) < 1 {
		return ErrShortElement
	}
	el[domain.FieldCurrentChannel] = strconv.Itoa(int(val[0]))
	return nil
}

// HT Capabilities: info(2) A-MPDU(1) MCS set(16) ext(2) TxBF(4) ASEL(1)
type htCapabilitiesHandler struct{}

// htRxBitmaskRanges mirrors the subfields the dissector splits the 77-bit
// Rx MCS bitmask into.
var htRxBitmaskRanges = []struct{ start, end int }{
	{0, 7}, {8, 15}, {16, 23}, {24, 31}, {32, 32}, {33, 38}, {39, 52}, {53, 76},
}

func (h *htCapabilitiesHandler) ID() int { return domain.TagHTCapabilities }
func (h *htCapabilitiesHandler) Handle(val []byte, _ *elementContext, el domain.Element) error {
	if len(val) < 13 {
		return ErrShortElement
	}
	info := binary.LittleEndian.Uint16(val[0:2])
	el[domain.FieldHTCapTree] = map[string]any{
		domain.FieldHTShort20: flag(info&(1<<5) != 0),
		domain.FieldHTShort40: flag(info&(1<<6) != 0),
	}

	bitmask := val[3:13]
	ranges := make(map[string]any, len(htRxBitmaskRanges))
	for _, r := range htRxBitmaskRanges {
		suffix := strconv.Itoa(r.start)
		if r.end != r.start {
			suffix = fmt.Sprintf("%dto%d", r.start, r.end)
		}
		ranges[domain.FieldHTRxBitmaskPfx+suffix] = fmt.Sprintf("0x%08x", bitRange(bitmask, r.start, r.end))
	}
	el[domain.FieldHTMCSSet] = map[string]any{domain.FieldHTRxBitmask: ranges}
	return nil
}

// VHT Capabilities: info(4) rx map(2) rx highest(2) tx map(2) tx highest(2)
type vhtCapabilitiesHandler struct{}

func (h *vhtCapabilitiesHandler) ID() int { return domain.TagVHTCapabilities }
func (h *vhtCapabilitiesHandler) Handle(val []byte, _ *elementContext, el domain.Element) error {
	if len(val) < 12 {
		return ErrShortElement
	}
	info := binary.LittleEndian.Uint32(val[0:4])
	el[domain.FieldVHTCapTree] = map[string]any{
		domain.FieldVHTShort80:  flag(info&(1<<5) != 0),
		domain.FieldVHTShort160: flag(info&(1<<6) != 0),
	}
	el[domain.FieldVHTMCSSet] = map[string]any{
		domain.FieldVHTRxMCSMap: fmt.Sprintf("0x%04x", binary.LittleEndian.Uint16(val[4:6])),
		domain.FieldVHTTxMCSMap: fmt.Sprintf("0x%04x", binary.LittleEndian.Uint16(val[8:10])),
	}
	return nil
}

// HE Capabilities: ext id(1) MAC(6) PHY(11) MCS maps(4, 8 or 12)
type heCapabilitiesHandler struct{}

// Channel width set bits in the first HE PHY octet. B0 sits at bit 1.
const (
	heMCSOffset    = 18
	heMCSMapsSize  = 4
	heWidth160Bit  = 0x08 // B2: 160 MHz in 5 GHz
	heWidth8080Bit = 0x10 // B3: 160/80+80 MHz in 5 GHz
)

func (h *heCapabilitiesHandler) ID() int { return domain.ExtTagHECapabilities }
func (h *heCapabilitiesHandler) Handle(val []byte, ctx *elementContext, el domain.Element) error {
	if len(val) < heMCSOffset+heMCSMapsSize {
		return ErrShortElement
	}
	widths := val[7]
	ctx.he160 = widths&heWidth160Bit != 0

	maps := val[heMCSOffset:]
	want := heMCSMapsSize
	if ctx.he160 {
		want += heMCSMapsSize
	}
	// 80+80 maps are not rendered but must be present
	if widths&heWidth8080Bit != 0 {
		want += heMCSMapsSize
	}
	if len(maps) < want {
		return ErrShortElement
	}

	set := map[string]any{
		domain.FieldHEMaps80: map[string]any{
			domain.FieldHERxMap80: fmt.Sprintf("0x%04x", binary.LittleEndian.Uint16(maps[0:2])),
			domain.FieldHETxMap80: fmt.Sprintf("0x%04x", binary.LittleEndian.Uint16(maps[2:4])),
		},
	}
	if ctx.he160 {
		set[domain.FieldHEMaps160] = map[string]any{
			domain.FieldHERxMap160: fmt.Sprintf("0x%04x", binary.LittleEndian.Uint16(maps[4:6])),
			domain.FieldHETxMap160: fmt.Sprintf("0x%04x", binary.LittleEndian.Uint16(maps[6:8])),
		}
	}
	el[domain.FieldHEMCSSet] = set
	return nil
}

// EHT Capabilities: ext id(1) MAC(2) PHY(9) MCS maps(3 each)
type ehtCapabilitiesHandler struct{}

const (
	ehtMCSOffset = 12
	ehtWidth320  = 0x02
)

func (h *ehtCapabilitiesHandler) ID() int { return domain.ExtTagEHTCapabilities }
func (h *ehtCapabilitiesHandler) Handle(val []byte, ctx *elementContext, el domain.Element) error {
	if len(val) < ehtMCSOffset+3 {
		return ErrShortElement
	}
	ctx.eht320 = val[3]&ehtWidth320 != 0

	fields := []string{domain.FieldEHTMap80}
	if ctx.he160 {
		fields = append(fields, domain.FieldEHTMap160)
	}
	if ctx.eht320 {
		fields = append(fields, domain.FieldEHTMap320)
	}

	maps := val[ehtMCSOffset:]
	if len(maps) < 3*len(fields) {
		return ErrShortElement
	}
	set := make(map[string]any, len(fields))
	for i, f := range fields {
		b := maps[3*i : 3*i+3]
		set[f] = fmt.Sprintf("0x%06x", uint32(b[0])|uint32(b[1])<<8|uint32(b[2])<<16)
	}
	el[domain.FieldEHTMCSSet] = set
	return nil
}

// bitRange returns bits [start, end] of a little-endian bit string.
func bitRange(b []byte, start, end int) uint64 {
	var v uint64
	for i := start; i <= end; i++ {
		if i/8 >= len(b) {
			break
		}
		if b[i/8]>>(i%8)&1 == 1 {
			v |= 1 << (i - start)
		}
	}
	return v
}

func flag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}
