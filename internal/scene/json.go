package scene

import (
	"encoding/json"
	"math"
)

// JSONSafe returns a copy of v in which NaN and infinities are replaced by nil,
// the way the host serializes them.
func JSONSafe(v any) any {
	switch val := v.(type) {
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return nil
		}
		return val
	case float32:
		return JSONSafe(float64(val))
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = JSONSafe(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = JSONSafe(elem)
		}
		return out
	}
	return v
}

// MarshalValue serializes v after JSONSafe. Map keys are emitted sorted.
func MarshalValue(v any) ([]byte, error) {
	return json.Marshal(JSONSafe(v))
}

// CloneValue deep-copies JSON-shaped values.
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = CloneValue(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = CloneValue(elem)
		}
		return out
	}
	return v
}
