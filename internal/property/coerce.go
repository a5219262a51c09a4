package property

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"scenebridge/internal/scene"
)

// OpaqueWhite replaces malformed entries of a color array.
var OpaqueWhite = map[string]any{"r": 255.0, "g": 255.0, "b": 255.0, "a": 255.0}

// Coerce converts raw into the shape the host expects for t. original is the
// property's current value and only fills sub-fields the input leaves out.
func Coerce(t SemanticType, raw any, original any) (any, error) {
	switch t {
	case TypeString:
		return stringify(raw), nil
	case TypeNumber:
		return coerceNumber(raw)
	case TypeBoolean:
		return truthy(raw), nil
	case TypeColor:
		return coerceColor(raw)
	case TypeVec2:
		return coerceVector(raw, false)
	case TypeVec3:
		return coerceVector(raw, true)
	case TypeSize:
		return coerceSize(raw, original)
	case TypeNodeRef, TypeAssetRef:
		return coerceIdentity(t, raw)
	case TypeComponentRef:
		return coerceComponentTarget(raw)
	case TypeNodeRefArray, TypeColorArray, TypeNumberArray, TypeStringArray:
		return coerceArray(t, raw)
	case TypeObject, TypeUnknown, "":
		return scene.CloneValue(raw), nil
	}
	return nil, coercionError(t, raw, "unsupported semantic type")
}

func coercionError(t SemanticType, raw any, reason string) *Error {
	return newError(CodeTypeCoercion, map[string]any{
		"semanticType": string(t),
		"inputKind":    kindOf(raw),
	}, "cannot convert %s to %s: %s", kindOf(raw), t, reason)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int32, int64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return formatNumber(val)
	case float32:
		return formatNumber(float64(val))
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case json.Number:
		return val.String()
	}
	data, err := scene.MarshalValue(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// toNumber casts scalars to a float; unparseable strings become NaN.
func toNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case nil:
		return 0, true
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), true
		}
		return f, true
	}
	return math.NaN(), false
}

func coerceNumber(raw any) (any, error) {
	f, ok := toNumber(raw)
	if !ok {
		return nil, coercionError(TypeNumber, raw, "expected a number or numeric string")
	}
	return f, nil
}

func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(val)); err == nil {
			return b
		}
		return val != ""
	case float64:
		return val != 0 && !math.IsNaN(val)
	case int:
		return val != 0
	case int64:
		return val != 0
	}
	return true
}

// numberOrZero casts v, mapping anything non-numeric to 0.
func numberOrZero(v any) float64 {
	f, ok := toNumber(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func clampChannel(v any) float64 {
	f, ok := toNumber(v)
	if !ok || math.IsNaN(f) {
		return 0
	}
	return math.Round(math.Max(0, math.Min(255, f)))
}

func coerceColor(raw any) (any, error) {
	switch val := raw.(type) {
	case string:
		return parseHexColor(val)
	case map[string]any:
		if !hasKeys(val, "r", "g", "b") {
			return nil, coercionError(TypeColor, raw, "object needs r, g and b channels")
		}
		alpha := 255.0
		if a, ok := val["a"]; ok {
			alpha = clampChannel(a)
		}
		return map[string]any{
			"r": clampChannel(val["r"]),
			"g": clampChannel(val["g"]),
			"b": clampChannel(val["b"]),
			"a": alpha,
		}, nil
	}
	return nil, coercionError(TypeColor, raw, "expected #RRGGBB, #RRGGBBAA or {r,g,b[,a]}")
}

func parseHexColor(s string) (map[string]any, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 9) {
		return nil, coercionError(TypeColor, s, "only #RRGGBB and #RRGGBBAA strings are accepted")
	}
	channels := []float64{0, 0, 0, 255}
	for i := 0; i < (len(s)-1)/2; i++ {
		n, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return nil, coercionError(TypeColor, s, "invalid hex digits")
		}
		channels[i] = float64(n)
	}
	return map[string]any{"r": channels[0], "g": channels[1], "b": channels[2], "a": channels[3]}, nil
}

func coerceVector(raw any, withZ bool) (any, error) {
	t := TypeVec2
	if withZ {
		t = TypeVec3
	}
	var x, y, z any
	switch val := raw.(type) {
	case map[string]any:
		x, y, z = val["x"], val["y"], val["z"]
	case []any:
		if len(val) < 2 {
			return nil, coercionError(t, raw, "array needs at least two components")
		}
		x, y = val[0], val[1]
		if len(val) > 2 {
			z = val[2]
		}
	default:
		return nil, coercionError(t, raw, "expected {x,y[,z]} or [x,y[,z]]")
	}
	out := map[string]any{"x": numberOrZero(x), "y": numberOrZero(y)}
	if withZ {
		out["z"] = numberOrZero(z)
	}
	return out, nil
}

func coerceSize(raw any, original any) (any, error) {
	val, ok := raw.(map[string]any)
	if !ok {
		return nil, coercionError(TypeSize, raw, "expected {width,height}")
	}
	prev, _ := original.(map[string]any)
	out := make(map[string]any, 2)
	for _, key := range []string{"width", "height"} {
		if v, ok := val[key]; ok {
			out[key] = numberOrZero(v)
			continue
		}
		out[key] = numberOrZero(prev[key])
	}
	return out, nil
}

// identityOf extracts an identity from a string or an {uuid} object.
func identityOf(raw any) (string, bool) {
	switch val := raw.(type) {
	case string:
		return strings.TrimSpace(val), true
	case map[string]any:
		if id, ok := val[scene.IdentityKey].(string); ok {
			return strings.TrimSpace(id), true
		}
	}
	return "", false
}

func coerceIdentity(t SemanticType, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	id, ok := identityOf(raw)
	if !ok {
		return nil, coercionError(t, raw, "expected an identity string")
	}
	if id == "" {
		return nil, nil
	}
	return map[string]any{scene.IdentityKey: id}, nil
}

// coerceComponentTarget passes the target node identity through; the
// reference is resolved to a component later.
func coerceComponentTarget(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	id, ok := raw.(string)
	if !ok {
		return nil, coercionError(TypeComponentRef, raw, "expected the target node identity string")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	return id, nil
}

func coerceArray(t SemanticType, raw any) (any, error) {
	items, ok := raw.([]any)
	if !ok {
		return nil, coercionError(t, raw, "expected an array")
	}
	out := make([]any, len(items))
	for i, item := range items {
		switch t {
		case TypeNodeRefArray:
			v, err := coerceIdentity(TypeNodeRef, item)
			if err != nil {
				return nil, coercionError(t, raw, fmt.Sprintf("element %d is not an identity string", i))
			}
			out[i] = v
		case TypeColorArray:
			v, err := coerceColor(item)
			if err != nil {
				v = scene.CloneValue(OpaqueWhite)
			}
			out[i] = v
		case TypeNumberArray:
			f, _ := toNumber(item)
			out[i] = f
		case TypeStringArray:
			out[i] = stringify(item)
		}
	}
	return out, nil
}
