package capability

import (
	"strconv"
	"strings"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// FrameInfo identifies the access point that sent frame. Missing fields are
// returned as zero values.
type FrameInfo struct {
	SSID    string
	BSSID   string
	Channel int
}

// DescribeFrame extracts the SSID, BSSID and DS channel of a management frame.
func DescribeFrame(frame domain.Frame) FrameInfo {
	var info FrameInfo
	if bssid, _, ok := GetString(frame, domain.FieldWLAN, domain.FieldBSSID); ok {
		info.BSSID = strings.ToLower(bssid)
	}
	if tag, ok := FrameTag(frame, domain.TagSSID); ok {
		if ssid, _, ok := GetString(tag, domain.FieldSSID); ok {
			info.SSID = ssid
		}
	}
	if tag, ok := FrameTag(frame, domain.TagDSParameterSet); ok {
		if ch, _, ok := GetString(tag, domain.FieldCurrentChannel); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(ch)); err == nil {
				info.Channel = n
			}
		}
	}
	return info
}
