package property

import (
	"sort"

	"scenebridge/internal/scene"
)

// Descriptor is the decoded form of one property envelope. Wrapped is false
// when the host handed back a bare value.
type Descriptor struct {
	Value       any
	TypeName    string
	DisplayName string
	Readonly    bool
	Ctor        string
	Extends     []string
	Wrapped     bool
}

// structuralKeys are snapshot fields that describe the component itself.
var structuralKeys = map[string]struct{}{
	"type":             {},
	"cid":              {},
	"__type__":         {},
	"uuid":             {},
	"enabled":          {},
	"_enabled":         {},
	"node":             {},
	"name":             {},
	"_name":            {},
	"_objFlags":        {},
	"__scriptAsset":    {},
	"__prefab":         {},
	"__editorExtras__": {},
	"_id":              {},
	"value":            {},
	"properties":       {},
}

func isStructural(name string) bool {
	_, ok := structuralKeys[name]
	return ok
}

// isDescriptor decides whether v is a property envelope rather than a plain
// value. Envelopes carry name or value plus one of type, displayName or
// readonly; an object holding nothing but "value" also counts. The
// all-primitive-fields rejection only applies to envelopes without a value
// key, so {value: 3, type: "Number"} is a descriptor.
func isDescriptor(v any) bool {
	m, ok := v.(map[string]any)
	if !ok {
		return false
	}
	_, hasValue := m["value"]
	_, hasName := m["name"]
	if !hasValue && !hasName {
		return false
	}
	if hasValue && len(m) == 1 {
		return true
	}
	_, hasType := m["type"]
	_, hasDisplayName := m["displayName"]
	_, hasReadonly := m["readonly"]
	if !hasType && !hasDisplayName && !hasReadonly {
		return false
	}
	if !hasValue && isPlainValueObject(m) {
		return false
	}
	return true
}

// isPlainValueObject reports objects like {width, height} whose fields are all primitives.
func isPlainValueObject(m map[string]any) bool {
	for _, v := range m {
		switch v.(type) {
		case string, float64, float32, int, int64, bool:
		default:
			return false
		}
	}
	return true
}

func toDescriptor(v any) Descriptor {
	if !isDescriptor(v) {
		return Descriptor{Value: v}
	}
	m := v.(map[string]any)
	d := Descriptor{Value: m["value"], Wrapped: true}
	d.TypeName, _ = m["type"].(string)
	d.DisplayName, _ = m["displayName"].(string)
	d.Readonly, _ = m["readonly"].(bool)
	d.Ctor, _ = m["ctor"].(string)
	d.Extends = stringList(m["extends"])
	return d
}

func stringList(v any) []string {
	switch val := v.(type) {
	case []string:
		return append([]string(nil), val...)
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// propertyMaps returns the nested properties.value wrapper and the flat
// properties map of a snapshot; either may be nil.
func propertyMaps(snap scene.ComponentSnapshot) (nested, flat map[string]any) {
	props, ok := snap.Raw["properties"].(map[string]any)
	if !ok {
		return nil, nil
	}
	if inner, ok := props["value"].(map[string]any); ok {
		nested = inner
	}
	return nested, props
}

func lookupDescriptor(snap scene.ComponentSnapshot, name string) (Descriptor, bool) {
	if !isStructural(name) {
		if v, ok := snap.Raw[name]; ok {
			return toDescriptor(v), true
		}
	}
	nested, flat := propertyMaps(snap)
	if nested != nil {
		if v, ok := nested[name]; ok && isDescriptor(v) {
			return toDescriptor(v), true
		}
	}
	if flat != nil && (nested == nil || name != "value") {
		if v, ok := flat[name]; ok && isDescriptor(v) {
			return toDescriptor(v), true
		}
	}
	return Descriptor{}, false
}

// collectNames lists every property name discoverable on the snapshot, sorted.
func collectNames(snap scene.ComponentSnapshot) []string {
	seen := make(map[string]struct{})
	nested, flat := propertyMaps(snap)
	for _, source := range []map[string]any{nested, flat} {
		for name, v := range source {
			if nested != nil && name == "value" {
				continue
			}
			if isDescriptor(v) {
				seen[name] = struct{}{}
			}
		}
	}
	if len(seen) == 0 {
		for name := range snap.Raw {
			if !isStructural(name) {
				seen[name] = struct{}{}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
