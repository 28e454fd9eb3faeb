package canonical

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		expected string
	}{
		{"string", "hello", `"hello"`},
		{"empty string", "", `""`},
		{"int", 42, "42"},
		{"negative int64", int64(-100), "-100"},
		{"zero", 0, "0"},
		{"max int64", int64(9223372036854775807), "9223372036854775807"},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"integral json.Number", json.Number("90"), "90"},
		{"empty array", []any{}, "[]"},
		{"empty object", map[string]any{}, "{}"},
		{"array", []any{"a", int64(1), true}, `["a",1,true]`},
		{"simple object", map[string]any{"a": int64(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Marshal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestMarshalSortedKeys(t *testing.T) {
	obj := map[string]any{
		"zebra": int64(1),
		"alpha": int64(2),
		"beta":  int64(3),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestMarshalNestedSortedKeys(t *testing.T) {
	obj := map[string]any{
		"z": map[string]any{"b": int64(1), "a": int64(2)},
		"a": int64(3),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestMarshalUTF16Ordering(t *testing.T) {
	// U+E000 vs U+10000: UTF-16 puts the surrogate pair (0xD800 0xDC00)
	// before 0xE000, the opposite of UTF-8 byte order.
	obj := map[string]any{
		"": int64(1),
		"𐀀":      int64(2),
	}

	result, err := Marshal(obj)
	require.NoError(t, err)

	expected := `{"𐀀":2,"` + "" + `":1}`
	assert.Equal(t, expected, string(result))
}

func TestMarshalNoHTMLEscape(t *testing.T) {
	result, err := Marshal("<a> & </a>")
	require.NoError(t, err)
	assert.Equal(t, `"<a> & </a>"`, string(result))
}

func TestMarshalNFCNormalization(t *testing.T) {
	// e + combining acute accent normalizes to U+00E9.
	result, err := Marshal("é")
	require.NoError(t, err)
	assert.Equal(t, "\"é\"", string(result))
}

func TestMarshalLineSeparatorsLiteral(t *testing.T) {
	result, err := Marshal("a\u2028b\u2029c")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(result))
}

func TestMarshalPreservesEscapedBackslashText(t *testing.T) {
	// A literal backslash followed by the text "u2028" is not a separator
	// escape and must stay as backslash + text.
	result, err := Marshal(`\u2028`)
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(result))
}

func TestMarshalRejectsFloats(t *testing.T) {
	for _, v := range []any{1.5, float32(2), json.Number("1.5"), json.Number("1e3")} {
		_, err := Marshal(v)
		assert.Errorf(t, err, "value %v should be rejected", v)
	}
}

func TestMarshalRejectsNull(t *testing.T) {
	_, err := Marshal(nil)
	assert.Error(t, err)

	_, err = Marshal(map[string]any{"a": nil})
	assert.Error(t, err)
}

func TestMarshalRejectsUnsupportedTypes(t *testing.T) {
	_, err := Marshal(struct{ A int }{1})
	assert.Error(t, err)
}

func TestFromJSONKeepsLargeIntegers(t *testing.T) {
	v, err := FromJSON([]byte(`{"big": 9223372036854775807}`))
	require.NoError(t, err)

	result, err := Marshal(v)
	require.NoError(t, err)
	assert.Equal(t, `{"big":9223372036854775807}`, string(result))
}
