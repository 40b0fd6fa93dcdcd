package domain

import (
	"errors"
	"fmt"
	"regexp"
)

// MaxSSIDLength is the longest SSID an SSID element can carry, in octets.
const MaxSSIDLength = 32

// ErrInvalidSelector is returned by FrameSelector.Validate.
var ErrInvalidSelector = errors.New("invalid frame selector")

var macRegex = regexp.MustCompile(`^([0-9A-Fa-f]{2}[:-]){5}([0-9A-Fa-f]{2})$`)

// IsValidMAC checks if the string is a valid MAC address
func IsValidMAC(mac string) bool {
	return macRegex.MatchString(mac)
}

// Validate rejects selectors that can never match a frame.
func (s FrameSelector) Validate() error {
	if len(s.SSID) > MaxSSIDLength {
		return fmt.Errorf("%w: SSID longer than %d bytes", ErrInvalidSelector, MaxSSIDLength)
	}
	if s.BSSID != "" && !IsValidMAC(s.BSSID) {
		return fmt.Errorf("%w: %q is not a MAC address", ErrInvalidSelector, s.BSSID)
	}
	return nil
}
