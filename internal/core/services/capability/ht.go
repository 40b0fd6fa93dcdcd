package capability

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// htMCSPerStream is the number of equal-modulation MCS indices per spatial stream.
const htMCSPerStream = 8

// DecodeHTRxMCSBitmask decodes the HT Rx MCS bitmask subfields. Keys end in a
// single index ("...32") or a range ("...0to7", "...0-7"); values are hex
// strings whose bit 0 stands for the range start.
func DecodeHTRxMCSBitmask(ranges map[string]any) (domain.CapabilityResult, error) {
	result := domain.CapabilityResult{Streams: []domain.StreamCapability{}}

	keys := make([]string, 0, len(ranges))
	for k := range ranges {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	seen := make(map[int]bool)
	for _, key := range keys {
		start, end, ok, err := parseBitRange(key)
		if err != nil {
			return result, malformed(key, key, err)
		}
		if !ok {
			continue
		}

		raw, isString := ranges[key].(string)
		if !isString {
			return result, malformed(key, ranges[key], fmt.Errorf("expected hex string, got %T", ranges[key]))
		}
		if isBlank(raw) {
			continue
		}
		width := end - start + 1
		bits, err := parseHex(raw, width)
		if err != nil {
			return result, malformed(key, raw, err)
		}
		for offset := 0; offset < width; offset++ {
			if bits&(1<<uint(offset)) != 0 {
				seen[start+offset] = true
			}
		}
	}

	if len(seen) == 0 {
		return result, nil
	}

	indices := make([]int, 0, len(seen))
	for idx := range seen {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	maxMCS := indices[len(indices)-1]
	result.SupportedMCS = indices
	result.MaxMCS = domain.IntPtr(maxMCS)
	result.TotalNSS = maxMCS/htMCSPerStream + 1
	result.Streams = htStreams(indices)
	return result, nil
}

// htStreams groups the equal-modulation indices 0-31 by spatial stream. A
// stream with gaps in its indices yields one entry per contiguous run.
func htStreams(indices []int) []domain.StreamCapability {
	var streams []domain.StreamCapability
	for _, idx := range indices {
		if idx >= 4*htMCSPerStream {
			break
		}
		nss := idx/htMCSPerStream + 1
		n := len(streams)
		if n > 0 && streams[n-1].NSS == nss && streams[n-1].MCS.High == idx-1 {
			streams[n-1].MCS.High = idx
			continue
		}
		streams = append(streams, domain.StreamCapability{NSS: nss, MCS: domain.MCSRange{Low: idx, High: idx}})
	}
	if streams == nil {
		streams = []domain.StreamCapability{}
	}
	return streams
}

var bitRangeRe = regexp.MustCompile(`^(\d+)(?:(?:to|-)(\d+))?$`)

// parseBitRange extracts the index range encoded in the last dotted segment
// of a bitmask key. ok is false for keys that carry no range.
func parseBitRange(key string) (start, end int, ok bool, err error) {
	label := key
	if i := strings.LastIndex(key, "."); i >= 0 {
		label = key[i+1:]
	}

	m := bitRangeRe.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, false, nil
	}
	start, errLo := strconv.Atoi(m[1])
	end = start
	var errHi error
	if m[2] != "" {
		end, errHi = strconv.Atoi(m[2])
	}
	if errLo != nil || errHi != nil || end < start || end-start >= 64 {
		return 0, 0, false, fmt.Errorf("invalid bit range %q", label)
	}
	return start, end, true, nil
}
