package ie

// IE represents a generic Information Element
type IE struct {
	ID   int
	Data []byte
}

// IterateIEs calls the provided callback for each valid IE found in the data.
// It stops if it encounters a malformed IE (length exceeds remaining data).
func IterateIEs(data []byte, callback func(id int, data []byte)) {
	offset := 0
	limit := len(data)

	for offset < limit {
		// Needs at least 2 bytes (ID and Length)
		if offset+2 > limit {
			break
		}

		id := int(data[offset])
		length := int(data[offset+1])
		offset += 2

		if offset+length > limit {
			break
		}

		callback(id, data[offset:offset+length])
		offset += length
	}
}

// Collect returns every well-formed IE in data, in wire order.
func Collect(data []byte) []IE {
	var out []IE
	IterateIEs(data, func(id int, val []byte) {
		out = append(out, IE{ID: id, Data: val})
	})
	return out
}

// Split separates extension elements (ID extID) from the rest. Extension
// elements are re-keyed by their extension ID; their Data still starts with
// that ID byte. Empty extension elements are dropped.
func Split(ies []IE, extID int) (std, ext []IE) {
	for _, e := range ies {
		if e.ID != extID {
			std = append(std, e)
			continue
		}
		if len(e.Data) > 0 {
			ext = append(ext, IE{ID: int(e.Data[0]), Data: e.Data})
		}
	}
	return std, ext
}
