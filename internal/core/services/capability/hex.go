package capability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errEmptyHex = errors.New("empty hex value")

// parseHex parses a dissector hex string ("0xfffa", "FFFA") no wider than bits.
func parseHex(s string, bits int) (uint64, error) {
	t := strings.TrimSpace(s)
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	if t == "" {
		return 0, errEmptyHex
	}
	v, err := strconv.ParseUint(t, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("not a hex number: %w", err)
	}
	if bits < 64 && v>>uint(bits) != 0 {
		return 0, fmt.Errorf("value exceeds %d bits", bits)
	}
	return v, nil
}

// isBlank reports whether a bitfield string carries no value at all.
func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
