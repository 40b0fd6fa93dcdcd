package capability

import (
	"strconv"
	"strings"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
)

// FindTag returns the first element of tags whose wlan.tag.number equals number.
// tags may be a single element or a sequence of elements.
func FindTag(tags any, number int) (domain.Element, bool) {
	return findByNumber(tags, domain.FieldTagNumber, number)
}

// FindExtTag returns the first element of extTags whose wlan.ext_tag.number
// equals number. extTags may be a single element or a sequence of elements.
func FindExtTag(extTags any, number int) (domain.Element, bool) {
	return findByNumber(extTags, domain.FieldExtTagNumber, number)
}

// FrameTag locates a standard tagged element in a frame.
func FrameTag(frame domain.Frame, number int) (domain.Element, bool) {
	tags, _ := GetNested(frame, domain.FieldWLANMgt, domain.FieldTaggedAll, domain.FieldTag)
	return FindTag(tags, number)
}

// FrameExtTag locates an extension element in a frame. Dissector output lists
// extension elements either beside the standard tags or nested inside tag 255.
func FrameExtTag(frame domain.Frame, number int) (domain.Element, bool) {
	extTags, _ := GetNested(frame, domain.FieldWLANMgt, domain.FieldTaggedAll, domain.FieldExtTag)
	if el, ok := FindExtTag(extTags, number); ok {
		return el, true
	}

	tags, _ := GetNested(frame, domain.FieldWLANMgt, domain.FieldTaggedAll, domain.FieldTag)
	for _, t := range asSlice(tags) {
		if n, ok := tagNumber(t, domain.FieldTagNumber); !ok || n != domain.TagExtension {
			continue
		}
		nested, _ := GetNested(t, domain.FieldExtTag)
		if el, ok := FindExtTag(nested, number); ok {
			return el, true
		}
		// Some dissector versions flatten the extension fields into tag 255 itself.
		if n, ok := tagNumber(t, domain.FieldExtTagNumber); ok && n == number {
			m, _ := asMap(t)
			return domain.Element(m), true
		}
	}
	return nil, false
}

func findByNumber(collection any, field string, number int) (domain.Element, bool) {
	for _, item := range asSlice(collection) {
		if n, ok := tagNumber(item, field); ok && n == number {
			m, _ := asMap(item)
			return domain.Element(m), true
		}
	}
	return nil, false
}

// asSlice normalizes the "single element or list" shape of dissector output.
func asSlice(v any) []any {
	switch s := v.(type) {
	case nil:
		return nil
	case []any:
		return s
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	case []domain.Element:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out
	default:
		if _, ok := asMap(v); ok {
			return []any{v}
		}
		return nil
	}
}

// tagNumber reads a tag number as an integer. Unparsable numbers never match.
func tagNumber(item any, field string) (int, bool) {
	v, ok := GetNested(item, field)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	case float64:
		return int(n), n == float64(int(n))
	case int:
		return n, true
	default:
		return 0, false
	}
}
