package scene

import (
	"context"
	"strings"
)

// IdentityKey is the field name the host uses for node, asset and component identities.
const IdentityKey = "uuid"

// Host is the external scene-graph store. Implementations must not cache
// component lists across calls.
type Host interface {
	QueryComponents(ctx context.Context, node string) ([]ComponentSnapshot, error)
	QueryComponentMetadata(ctx context.Context, node, componentType string) (map[string]any, error)
	WriteProperty(ctx context.Context, node string, path Path, value any, explicitType string) error
}

// ComponentSnapshot is a read-only projection of one component on one node.
// Raw keeps the host envelope untouched so the analyzer can search it.
type ComponentSnapshot struct {
	Type     string
	Identity string
	Enabled  bool
	Raw      map[string]any
}

func DecodeComponent(raw map[string]any) ComponentSnapshot {
	snap := ComponentSnapshot{Enabled: true, Raw: raw}
	if raw == nil {
		snap.Raw = map[string]any{}
		return snap
	}
	if t, ok := raw["type"].(string); ok {
		snap.Type = t
	} else if t, ok := raw["__type__"].(string); ok {
		snap.Type = t
	} else if t, ok := raw["cid"].(string); ok {
		snap.Type = t
	}
	if enabled, ok := unwrapValue(raw["enabled"]).(bool); ok {
		snap.Enabled = enabled
	}
	snap.Identity = componentIdentity(raw)
	return snap
}

// ComponentIdentity returns the scene-local id of a component, which lives
// inside the component's value envelope and is distinct from its node's id.
func ComponentIdentity(snap ComponentSnapshot) string {
	if snap.Identity != "" {
		return snap.Identity
	}
	return componentIdentity(snap.Raw)
}

func componentIdentity(raw map[string]any) string {
	if raw == nil {
		return ""
	}
	if envelope, ok := raw["value"].(map[string]any); ok {
		if id := identityString(envelope[IdentityKey]); id != "" {
			return id
		}
	}
	if props, ok := raw["properties"].(map[string]any); ok {
		if inner, ok := props["value"].(map[string]any); ok {
			if id := identityString(inner[IdentityKey]); id != "" {
				return id
			}
		}
		if id := identityString(props[IdentityKey]); id != "" {
			return id
		}
	}
	return identityString(raw[IdentityKey])
}

func identityString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		if inner, ok := val["value"]; ok {
			return identityString(inner)
		}
		return identityString(val[IdentityKey])
	}
	return ""
}

func unwrapValue(v any) any {
	if m, ok := v.(map[string]any); ok {
		if inner, ok := m["value"]; ok {
			return inner
		}
	}
	return v
}

// SameType reports whether two component type names refer to the same class.
func SameType(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// FindComponent returns the index of the first component of the given type.
func FindComponent(components []ComponentSnapshot, componentType string) (int, bool) {
	for i, comp := range components {
		if SameType(comp.Type, componentType) {
			return i, true
		}
	}
	return -1, false
}

func ComponentTypes(components []ComponentSnapshot) []string {
	types := make([]string, 0, len(components))
	for _, comp := range components {
		types = append(types, comp.Type)
	}
	return types
}
