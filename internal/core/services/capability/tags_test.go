package capability

import (
	"testing"

	"github.com/lcalzada-xor/apcaps/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetNested(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{
			"b": map[string]any{"c": "0x1"},
			"s": "leaf",
		},
		"null": nil,
	}

	v, ok := GetNested(root, "a", "b", "c")
	require.True(t, ok)
	assert.Equal(t, "0x1", v)

	tests := []struct {
		name string
		root any
		keys []string
	}{
		{"missing intermediate", root, []string{"a", "x", "c"}},
		{"missing leaf", root, []string{"a", "b", "x"}},
		{"descend into string", root, []string{"a", "s", "c"}},
		{"nil root", nil, []string{"a"}},
		{"slice root", []any{root}, []string{"a"}},
		{"explicit null", root, []string{"null"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				v, ok := GetNested(tt.root, tt.keys...)
				assert.False(t, ok)
				assert.Nil(t, v)
			})
		})
	}
}

func TestGetString(t *testing.T) {
	root := domain.Element{"m": map[string]any{"n": 1.0, "s": "x"}}

	s, present, ok := GetString(root, "m", "s")
	assert.Equal(t, "x", s)
	assert.True(t, present)
	assert.True(t, ok)

	_, present, ok = GetString(root, "m", "n")
	assert.True(t, present)
	assert.False(t, ok)

	_, present, ok = GetString(root, "m", "missing")
	assert.False(t, present)
	assert.False(t, ok)
}

func TestFindTag(t *testing.T) {
	ht := map[string]any{"wlan.tag.number": "45", "id": "ht"}
	vht := map[string]any{"wlan.tag.number": "191", "id": "vht"}
	dup := map[string]any{"wlan.tag.number": "45", "id": "second"}

	t.Run("sequence returns first match", func(t *testing.T) {
		el, ok := FindTag([]any{vht, ht, dup}, 45)
		require.True(t, ok)
		assert.Equal(t, "ht", el["id"])
	})

	t.Run("single element", func(t *testing.T) {
		el, ok := FindTag(vht, 191)
		require.True(t, ok)
		assert.Equal(t, "vht", el["id"])

		_, ok = FindTag(vht, 45)
		assert.False(t, ok)
	})

	t.Run("numeric comparison", func(t *testing.T) {
		_, ok := FindTag(map[string]any{"wlan.tag.number": "045"}, 45)
		assert.True(t, ok)
		_, ok = FindTag(map[string]any{"wlan.tag.number": 45.0}, 45)
		assert.True(t, ok)
		_, ok = FindTag(map[string]any{"wlan.tag.number": "forty-five"}, 45)
		assert.False(t, ok)
	})

	t.Run("absent collection", func(t *testing.T) {
		_, ok := FindTag(nil, 45)
		assert.False(t, ok)
		_, ok = FindTag("not a tag", 45)
		assert.False(t, ok)
		_, ok = FindTag([]any{"junk", 3.0}, 45)
		assert.False(t, ok)
	})
}

func TestFindExtTag(t *testing.T) {
	he := map[string]any{"wlan.ext_tag.number": "35"}
	_, ok := FindExtTag([]any{he}, 35)
	assert.True(t, ok)

	// tag space and extension space are disjoint
	_, ok = FindExtTag(map[string]any{"wlan.tag.number": "35"}, 35)
	assert.False(t, ok)
}

func TestFrameExtTag_NestedInTag255(t *testing.T) {
	frame := domain.Frame{
		"wlan.mgt": map[string]any{
			"wlan.tagged.all": map[string]any{
				"wlan.tag": []any{
					map[string]any{"wlan.tag.number": "45"},
					map[string]any{
						"wlan.tag.number": "255",
						"wlan.ext_tag":    map[string]any{"wlan.ext_tag.number": "108", "id": "eht"},
					},
					map[string]any{"wlan.tag.number": "255", "wlan.ext_tag.number": "35", "id": "he"},
				},
			},
		},
	}

	el, ok := FrameExtTag(frame, 108)
	require.True(t, ok)
	assert.Equal(t, "eht", el["id"])

	el, ok = FrameExtTag(frame, 35)
	require.True(t, ok)
	assert.Equal(t, "he", el["id"])

	_, ok = FrameExtTag(frame, 36)
	assert.False(t, ok)
}
