package capability

import "github.com/lcalzada-xor/apcaps/internal/core/domain"

// GetNested walks root through the given keys. It returns false as soon as a
// level is not a mapping or a key is missing; it never panics on partial trees.
func GetNested(root any, keys ...string) (any, bool) {
	cur := root
	for _, k := range keys {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, cur != nil
}

// GetString is GetNested for string leaves. present is true when the path
// resolved to any value; ok is true only when that value is a string.
func GetString(root any, keys ...string) (s string, present, ok bool) {
	v, found := GetNested(root, keys...)
	if !found {
		return "", false, false
	}
	s, ok = v.(string)
	return s, true, ok
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case domain.Frame:
		return m, true
	case domain.Element:
		return m, true
	default:
		return nil, false
	}
}
