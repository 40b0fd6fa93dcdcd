package capability

import "github.com/lcalzada-xor/apcaps/internal/core/domain"

const (
	mcsMapStreams     = 8
	mcsMapBits        = 2 * mcsMapStreams
	mcsCodeNotSupport = 0b11
)

// vhtCeilings maps the 2-bit VHT-MCS code to the highest supported MCS.
var vhtCeilings = [3]int{7, 8, 9}

// heCeilings maps the 2-bit HE-MCS code to the highest supported MCS
// (IEEE 802.11ax-2021, Max HE-MCS For n SS).
var heCeilings = [3]int{7, 9, 11}

// decodeTwoBitMap scans a 16-bit MCS map with stream 1 in bits B0-B1.
func decodeTwoBitMap(hexMap string, ceilings [3]int) (domain.CapabilityResult, error) {
	result := domain.CapabilityResult{Streams: []domain.StreamCapability{}}
	if isBlank(hexMap) {
		return result, nil
	}

	val, err := parseHex(hexMap, mcsMapBits)
	if err != nil {
		return result, malformed("mcs map", hexMap, err)
	}

	for i := 0; i < mcsMapStreams; i++ {
		code := (val >> uint(2*i)) & 0b11
		if code == mcsCodeNotSupport {
			continue
		}
		ceiling := ceilings[code]
		result.Streams = append(result.Streams, domain.StreamCapability{
			NSS: i + 1,
			MCS: domain.MCSRange{Low: 0, High: ceiling},
		})
		result.TotalNSS++
		if result.MaxMCS == nil || ceiling > *result.MaxMCS {
			result.MaxMCS = domain.IntPtr(ceiling)
		}
	}
	return result, nil
}

// DecodeVHTMCSMap decodes a VHT Rx or Tx MCS map: 00 = MCS 0-7, 01 = 0-8,
// 10 = 0-9, 11 = stream not supported.
func DecodeVHTMCSMap(hexMap string) (domain.CapabilityResult, error) {
	return decodeTwoBitMap(hexMap, vhtCeilings)
}

// DecodeHEMCSMapVerbose decodes an HE-MCS map with per-stream detail:
// 00 = MCS 0-7, 01 = 0-9, 10 = 0-11, 11 = stream not supported.
func DecodeHEMCSMapVerbose(hexMap string) (domain.CapabilityResult, error) {
	return decodeTwoBitMap(hexMap, heCeilings)
}

// DecodeHEMCSMap is the compact form of DecodeHEMCSMapVerbose.
func DecodeHEMCSMap(hexMap string) (nss int, maxMCS *int, err error) {
	r, err := DecodeHEMCSMapVerbose(hexMap)
	return r.TotalNSS, r.MaxMCS, err
}
