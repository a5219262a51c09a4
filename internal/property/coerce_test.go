package property

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func color(r, g, b, a float64) map[string]any {
	return map[string]any{"r": r, "g": g, "b": b, "a": a}
}

func renderHex(c map[string]any) string {
	return fmt.Sprintf("#%02X%02X%02X%02X", int(c["r"].(float64)), int(c["g"].(float64)), int(c["b"].(float64)), int(c["a"].(float64)))
}

func TestCoerceColorHex(t *testing.T) {
	got, err := Coerce(TypeColor, "#FF0000", nil)
	require.NoError(t, err)
	assert.Equal(t, color(255, 0, 0, 255), got)

	got, err = Coerce(TypeColor, "#10203040", nil)
	require.NoError(t, err)
	assert.Equal(t, color(16, 32, 48, 64), got)
}

func TestCoerceColorHexRoundTrip(t *testing.T) {
	for _, s := range []string{"#000000FF", "#FFFFFFFF", "#0A1B2C3D", "#7F80817E", "#12345678"} {
		got, err := Coerce(TypeColor, s, nil)
		require.NoError(t, err)
		assert.Equal(t, s, renderHex(got.(map[string]any)))
	}
	for r := 0; r < 256; r += 17 {
		s := fmt.Sprintf("#%02X%02X%02X", r, 255-r, r/2)
		got, err := Coerce(TypeColor, s, nil)
		require.NoError(t, err)
		assert.Equal(t, s+"FF", renderHex(got.(map[string]any)))
	}
}

func TestCoerceColorClampsChannels(t *testing.T) {
	inputs := []float64{-1000, -1, 256, 300, 1e9, math.Inf(1), math.Inf(-1)}
	for _, in := range inputs {
		got, err := Coerce(TypeColor, map[string]any{"r": in, "g": in, "b": in, "a": in}, nil)
		require.NoError(t, err)
		for _, ch := range []string{"r", "g", "b", "a"} {
			v := got.(map[string]any)[ch].(float64)
			assert.GreaterOrEqual(t, v, 0.0, "input %v channel %s", in, ch)
			assert.LessOrEqual(t, v, 255.0, "input %v channel %s", in, ch)
		}
	}

	got, err := Coerce(TypeColor, map[string]any{"r": 300.0, "g": -5.0, "b": "12"}, nil)
	require.NoError(t, err)
	assert.Equal(t, color(255, 0, 12, 255), got)
}

func TestCoerceColorRejects(t *testing.T) {
	for _, in := range []any{42.0, "red", "rgb(1,2,3)", "#FFF", "#GG0000", true, []any{1.0}, map[string]any{"r": 1.0}} {
		_, err := Coerce(TypeColor, in, nil)
		require.Error(t, err, "input %v", in)
		assert.Equal(t, CodeTypeCoercion, CodeOf(err))
	}
}

func TestCoerceScalars(t *testing.T) {
	tests := []struct {
		name string
		t    SemanticType
		in   any
		want any
	}{
		{name: "string from number", t: TypeString, in: 42.0, want: "42"},
		{name: "string from float", t: TypeString, in: 1.5, want: "1.5"},
		{name: "string from bool", t: TypeString, in: true, want: "true"},
		{name: "string from null", t: TypeString, in: nil, want: ""},
		{name: "number from string", t: TypeNumber, in: "12.5", want: 12.5},
		{name: "number from bool", t: TypeNumber, in: true, want: 1.0},
		{name: "boolean from string", t: TypeBoolean, in: "false", want: false},
		{name: "boolean from word", t: TypeBoolean, in: "yes", want: true},
		{name: "boolean from zero", t: TypeBoolean, in: 0.0, want: false},
		{name: "vec2", t: TypeVec2, in: map[string]any{"x": "1", "y": 2.0, "z": 3.0}, want: map[string]any{"x": 1.0, "y": 2.0}},
		{name: "vec3 defaults z", t: TypeVec3, in: map[string]any{"x": 1.0, "y": 2.0}, want: map[string]any{"x": 1.0, "y": 2.0, "z": 0.0}},
		{name: "vec3 from array", t: TypeVec3, in: []any{1.0, 2.0, 3.0}, want: map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}},
		{name: "node ref", t: TypeNodeRef, in: "node-9", want: map[string]any{"uuid": "node-9"}},
		{name: "node ref clear", t: TypeNodeRef, in: "", want: nil},
		{name: "asset ref object", t: TypeAssetRef, in: map[string]any{"uuid": "a-1"}, want: map[string]any{"uuid": "a-1"}},
		{name: "component ref passthrough", t: TypeComponentRef, in: " node-3 ", want: "node-3"},
		{name: "object passthrough", t: TypeObject, in: map[string]any{"k": "v"}, want: map[string]any{"k": "v"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coerce(tt.t, tt.in, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCoerceNumberNaN(t *testing.T) {
	got, err := Coerce(TypeNumber, "x", nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.(float64)))

	_, err = Coerce(TypeNumber, map[string]any{}, nil)
	assert.Equal(t, CodeTypeCoercion, CodeOf(err))
}

func TestCoerceSizeFallsBackToOriginal(t *testing.T) {
	original := map[string]any{"width": 100.0, "height": 40.0}

	got, err := Coerce(TypeSize, map[string]any{"width": 150.0}, original)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"width": 150.0, "height": 40.0}, got)

	got, err = Coerce(TypeSize, map[string]any{"width": 150.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"width": 150.0, "height": 0.0}, got)

	_, err = Coerce(TypeSize, 150.0, original)
	assert.Equal(t, CodeTypeCoercion, CodeOf(err))
}

func TestCoerceReferenceRejectsNonStrings(t *testing.T) {
	for _, tt := range []SemanticType{TypeNodeRef, TypeAssetRef, TypeComponentRef} {
		_, err := Coerce(tt, 12.0, nil)
		assert.Equal(t, CodeTypeCoercion, CodeOf(err), "type %s", tt)
	}
}

func TestCoerceArrays(t *testing.T) {
	got, err := Coerce(TypeNumberArray, []any{"1", "2", "x"}, nil)
	require.NoError(t, err)
	nums := got.([]any)
	require.Len(t, nums, 3)
	assert.Equal(t, 1.0, nums[0])
	assert.Equal(t, 2.0, nums[1])
	assert.True(t, math.IsNaN(nums[2].(float64)))

	got, err = Coerce(TypeStringArray, []any{1.0, "a", false}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{"1", "a", "false"}, got)

	got, err = Coerce(TypeNodeRefArray, []any{"n1", "n2"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"uuid": "n1"}, map[string]any{"uuid": "n2"}}, got)

	_, err = Coerce(TypeNodeRefArray, []any{"n1", 3.0}, nil)
	assert.Equal(t, CodeTypeCoercion, CodeOf(err))

	_, err = Coerce(TypeStringArray, "not an array", nil)
	assert.Equal(t, CodeTypeCoercion, CodeOf(err))
}

func TestCoerceColorArrayFallsBackToWhite(t *testing.T) {
	got, err := Coerce(TypeColorArray, []any{"#00FF00", "nope", 7.0}, nil)
	require.NoError(t, err)
	assert.Equal(t, []any{color(0, 255, 0, 255), color(255, 255, 255, 255), color(255, 255, 255, 255)}, got)
}

func TestParseSemanticType(t *testing.T) {
	tests := map[string]SemanticType{
		"color":       TypeColor,
		"Integer":     TypeNumber,
		"spriteFrame": TypeAssetRef,
		"prefab":      TypeAssetRef,
		"node":        TypeNodeRef,
		"component":   TypeComponentRef,
		"nodeArray":   TypeNodeRefArray,
		"colorArray":  TypeColorArray,
		"numberArray": TypeNumberArray,
		"stringArray": TypeStringArray,
		"node-ref[]":  TypeNodeRefArray,
	}
	for in, want := range tests {
		got, ok := ParseSemanticType(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseSemanticType("quaternion")
	assert.False(t, ok)
}
