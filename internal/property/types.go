// Package property translates loosely-typed property mutations into writes
// against the scene host and verifies them afterwards.
package property

import "strings"

// SemanticType is the closed set of property kinds the engine understands.
type SemanticType string

const (
	TypeString       SemanticType = "string"
	TypeNumber       SemanticType = "number"
	TypeBoolean      SemanticType = "boolean"
	TypeColor        SemanticType = "color"
	TypeVec2         SemanticType = "vec2"
	TypeVec3         SemanticType = "vec3"
	TypeSize         SemanticType = "size"
	TypeNodeRef      SemanticType = "node-ref"
	TypeComponentRef SemanticType = "component-ref"
	TypeAssetRef     SemanticType = "asset-ref"
	TypeNodeRefArray SemanticType = "node-ref[]"
	TypeColorArray   SemanticType = "color[]"
	TypeNumberArray  SemanticType = "number[]"
	TypeStringArray  SemanticType = "string[]"
	TypeObject       SemanticType = "object"
	TypeUnknown      SemanticType = "unknown"
)

var callerTypes = map[string]SemanticType{
	"string":        TypeString,
	"text":          TypeString,
	"number":        TypeNumber,
	"integer":       TypeNumber,
	"int":           TypeNumber,
	"float":         TypeNumber,
	"double":        TypeNumber,
	"boolean":       TypeBoolean,
	"bool":          TypeBoolean,
	"color":         TypeColor,
	"vec2":          TypeVec2,
	"vec3":          TypeVec3,
	"size":          TypeSize,
	"node":          TypeNodeRef,
	"node-ref":      TypeNodeRef,
	"component":     TypeComponentRef,
	"component-ref": TypeComponentRef,
	"asset":         TypeAssetRef,
	"asset-ref":     TypeAssetRef,
	"spriteframe":   TypeAssetRef,
	"prefab":        TypeAssetRef,
	"prefab-ref":    TypeAssetRef,
	"texture":       TypeAssetRef,
	"material":      TypeAssetRef,
	"font":          TypeAssetRef,
	"audioclip":     TypeAssetRef,
	"nodearray":     TypeNodeRefArray,
	"node-ref[]":    TypeNodeRefArray,
	"colorarray":    TypeColorArray,
	"color[]":       TypeColorArray,
	"numberarray":   TypeNumberArray,
	"number[]":      TypeNumberArray,
	"stringarray":   TypeStringArray,
	"string[]":      TypeStringArray,
	"object":        TypeObject,
}

// ParseSemanticType maps a caller-supplied property type onto a SemanticType.
func ParseSemanticType(s string) (SemanticType, bool) {
	t, ok := callerTypes[strings.ToLower(strings.TrimSpace(s))]
	return t, ok
}

func (t SemanticType) IsArray() bool {
	return strings.HasSuffix(string(t), "[]")
}

// IsReference reports whether values of t carry an identity rather than data.
func (t SemanticType) IsReference() bool {
	switch t {
	case TypeNodeRef, TypeComponentRef, TypeAssetRef, TypeNodeRefArray:
		return true
	}
	return false
}

var assetVocabulary = []string{"spriteframe", "texture", "material", "font", "clip", "prefab"}

func isAssetName(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range assetVocabulary {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// AssetClass infers the concrete asset class for an asset-typed property from its name.
func AssetClass(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "texture"):
		return "cc.Texture2D"
	case strings.Contains(lower, "material"):
		return "cc.Material"
	case strings.Contains(lower, "font"):
		return "cc.Font"
	case strings.Contains(lower, "clip"), strings.Contains(lower, "audio"):
		return "cc.AudioClip"
	case strings.Contains(lower, "prefab"):
		return "cc.Prefab"
	default:
		return "cc.SpriteFrame"
	}
}
