package capability

import "github.com/lcalzada-xor/apcaps/internal/core/domain"

const ehtMapBits = 24

// DecodeEHTMCSMap decodes a 3-octet EHT-MCS map. Nibbles alternate RX/TX
// for the 0-9, 10-11 and 12-13 ranges, starting from the low nibble.
func DecodeEHTMCSMap(hexMap string) (domain.EHTResult, error) {
	result := domain.EHTResult{RX: map[string]int{}, TX: map[string]int{}}
	if isBlank(hexMap) {
		return result, nil
	}

	val, err := parseHex(hexMap, ehtMapBits)
	if err != nil {
		return result, malformed("eht mcs map", hexMap, err)
	}

	for i, r := range domain.EHTRanges {
		rx := int((val >> uint(8*i)) & 0xF)
		tx := int((val >> uint(8*i+4)) & 0xF)
		result.RX[r.Label] = rx
		result.TX[r.Label] = tx
		if rx == 0 && tx == 0 {
			continue
		}
		result.MaxNSS = max(result.MaxNSS, rx, tx)
		if result.MaxMCS == nil || r.Ceiling > *result.MaxMCS {
			result.MaxMCS = domain.IntPtr(r.Ceiling)
		}
	}
	return result, nil
}
