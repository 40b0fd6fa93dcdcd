package domain

import (
	"fmt"
	"strconv"
)

// PHY amendment identifiers used as the Mode column of a capability row.
const (
	ModeHT  = "HT"  // 802.11n
	ModeVHT = "VHT" // 802.11ac
	ModeHE  = "HE"  // 802.11ax
	ModeEHT = "EHT" // 802.11be
)

// Bandwidth labels attached to capability rows.
const (
	BandwidthHT     = "20/40 MHz"
	BandwidthRX     = "RX"
	BandwidthTX     = "TX"
	BandwidthLTE80  = "<=80 MHz"
	Bandwidth160    = "160 MHz"
	Bandwidth320    = "320 MHz"
	GuardIntervalNo = "none"
)

// EHT MCS range labels, in ascending order.
const (
	EHTRange0To9   = "0-9"
	EHTRange10To11 = "10-11"
	EHTRange12To13 = "12-13"
)

// EHTRanges lists the EHT MCS buckets together with their ceiling index.
var EHTRanges = []struct {
	Label   string
	Ceiling int
}{
	{EHTRange0To9, 9},
	{EHTRange10To11, 11},
	{EHTRange12To13, 13},
}

// MCSRange is an inclusive range of MCS indices.
type MCSRange struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

func (r MCSRange) String() string {
	if r.Low == r.High {
		return strconv.Itoa(r.Low)
	}
	return fmt.Sprintf("%d-%d", r.Low, r.High)
}

// MarshalText renders the range as "low-high".
func (r MCSRange) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// StreamCapability is the MCS support advertised for one spatial stream.
type StreamCapability struct {
	NSS int      `json:"nss"`
	MCS MCSRange `json:"mcs_range"`
}

// CapabilityResult is the decoded form of an HT, VHT or HE MCS field.
// MaxMCS is nil exactly when TotalNSS is zero.
type CapabilityResult struct {
	TotalNSS     int                `json:"total_nss"`
	MaxMCS       *int               `json:"max_mcs"`
	Streams      []StreamCapability `json:"streams"`
	SupportedMCS []int              `json:"supported_mcs,omitempty"` // HT only
}

// EHTResult is the decoded form of an EHT-MCS map. RX and TX are keyed by
// the EHT range labels and hold the raw NSS nibble.
type EHTResult struct {
	RX     map[string]int `json:"rx"`
	TX     map[string]int `json:"tx"`
	MaxNSS int            `json:"max_nss"`
	MaxMCS *int           `json:"max_mcs"`
}

// CapabilityRow is one reportable line of a capability summary.
type CapabilityRow struct {
	Mode          string  `json:"mode"`
	Bandwidth     string  `json:"bandwidth"`
	NSS           int     `json:"total_nss_or_max_nss"`
	MaxMCS        *int    `json:"max_mcs"`
	GuardInterval *string `json:"guard_interval"`
}

// MaxMCSString renders MaxMCS, falling back to absent when nil.
func (r CapabilityRow) MaxMCSString(absent string) string {
	if r.MaxMCS == nil {
		return absent
	}
	return strconv.Itoa(*r.MaxMCS)
}

// GuardIntervalString renders GuardInterval, falling back to absent when nil.
func (r CapabilityRow) GuardIntervalString(absent string) string {
	if r.GuardInterval == nil {
		return absent
	}
	return *r.GuardInterval
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string {
	return &v
}
