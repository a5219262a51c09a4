package property

import (
	"strings"

	"scenebridge/internal/scene"
)

// Analysis is the result of inspecting one property on a component snapshot.
type Analysis struct {
	Exists         bool
	Type           SemanticType
	AvailableNames []string
	OriginalValue  any
	Descriptor     Descriptor
}

// Analyze looks up name on snap and infers its semantic type. When the
// property is missing, Type is a best guess from the name alone.
func Analyze(snap scene.ComponentSnapshot, name string) Analysis {
	a := Analysis{AvailableNames: collectNames(snap)}
	d, ok := lookupDescriptor(snap, name)
	if !ok {
		a.Type = guessFromName(name)
		return a
	}
	a.Exists = true
	a.Descriptor = d
	a.OriginalValue = d.Value
	a.Type = InferType(name, d.Value)
	return a
}

// InferType types a value by its shape, falling back to the property name.
func InferType(name string, value any) SemanticType {
	lower := strings.ToLower(name)
	switch v := value.(type) {
	case nil:
		return guessFromName(name)
	case []any:
		return inferArrayType(lower, v)
	case string:
		if isAssetName(name) {
			return TypeAssetRef
		}
		return TypeString
	case float64, float32, int, int32, int64:
		return TypeNumber
	case bool:
		return TypeBoolean
	case map[string]any:
		return inferObjectType(name, v)
	}
	return TypeUnknown
}

func inferArrayType(lowerName string, items []any) SemanticType {
	switch {
	case strings.Contains(lowerName, "node"):
		return TypeNodeRefArray
	case strings.Contains(lowerName, "color"):
		return TypeColorArray
	}
	if len(items) == 0 {
		return TypeUnknown
	}
	switch first := items[0].(type) {
	case float64, float32, int, int64:
		return TypeNumberArray
	case string:
		return TypeStringArray
	case map[string]any:
		if hasKeys(first, "r", "g", "b") {
			return TypeColorArray
		}
		if _, ok := first[scene.IdentityKey]; ok {
			return TypeNodeRefArray
		}
	}
	return TypeObject
}

func inferObjectType(name string, m map[string]any) SemanticType {
	switch {
	case hasKeys(m, "r", "g", "b"):
		return TypeColor
	case hasKeys(m, "x", "y"):
		if _, ok := m["z"]; ok {
			return TypeVec3
		}
		return TypeVec2
	case hasKeys(m, "width", "height"):
		return TypeSize
	}
	if _, ok := m[scene.IdentityKey]; ok {
		if isAssetName(name) {
			return TypeAssetRef
		}
		return TypeNodeRef
	}
	return TypeObject
}

func guessFromName(name string) SemanticType {
	lower := strings.ToLower(name)
	switch {
	case isAssetName(name):
		return TypeAssetRef
	case strings.Contains(lower, "node"):
		return TypeNodeRef
	case strings.Contains(lower, "component"):
		return TypeComponentRef
	}
	return TypeUnknown
}

func hasKeys(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}
