package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Hints holds the name tables the mutation engine uses for routing checks,
// suggestions and reference resolution.
type Hints struct {
	NodeTypes          []string            `yaml:"node_types"`
	NodeProperties     []NodeProperty      `yaml:"node_properties"`
	PropertyComponents []PropertyComponent `yaml:"property_components"`
	GenericBases       []string            `yaml:"generic_bases"`

	nodeIndex map[string]*NodeProperty
	propIndex map[string]*PropertyComponent
}

// NodeProperty is a property that belongs to the node itself, with the tool
// callers should use instead.
type NodeProperty struct {
	Name string `yaml:"name"`
	Tool string `yaml:"tool"`
}

type PropertyComponent struct {
	Property   string   `yaml:"property"`
	Components []string `yaml:"components"`
}

const (
	ToolSetNodeTransform = "set_node_transform"
	ToolSetNodeProperty  = "set_node_property"
)

func DefaultHints() *Hints {
	h := &Hints{
		NodeTypes: []string{"cc.Node", "Node"},
		NodeProperties: []NodeProperty{
			{Name: "position", Tool: ToolSetNodeTransform},
			{Name: "rotation", Tool: ToolSetNodeTransform},
			{Name: "scale", Tool: ToolSetNodeTransform},
			{Name: "eulerAngles", Tool: ToolSetNodeTransform},
			{Name: "worldPosition", Tool: ToolSetNodeTransform},
			{Name: "worldRotation", Tool: ToolSetNodeTransform},
			{Name: "worldScale", Tool: ToolSetNodeTransform},
			{Name: "name", Tool: ToolSetNodeProperty},
			{Name: "active", Tool: ToolSetNodeProperty},
			{Name: "layer", Tool: ToolSetNodeProperty},
			{Name: "parent", Tool: ToolSetNodeProperty},
			{Name: "mobility", Tool: ToolSetNodeProperty},
			{Name: "siblingIndex", Tool: ToolSetNodeProperty},
		},
		PropertyComponents: []PropertyComponent{
			{Property: "string", Components: []string{"cc.Label", "cc.RichText", "cc.EditBox"}},
			{Property: "fontSize", Components: []string{"cc.Label", "cc.RichText"}},
			{Property: "lineHeight", Components: []string{"cc.Label", "cc.RichText"}},
			{Property: "font", Components: []string{"cc.Label", "cc.RichText"}},
			{Property: "horizontalAlign", Components: []string{"cc.Label", "cc.RichText"}},
			{Property: "spriteFrame", Components: []string{"cc.Sprite"}},
			{Property: "sizeMode", Components: []string{"cc.Sprite"}},
			{Property: "color", Components: []string{"cc.Sprite", "cc.Label", "cc.Graphics"}},
			{Property: "contentSize", Components: []string{"cc.UITransform"}},
			{Property: "anchorPoint", Components: []string{"cc.UITransform"}},
			{Property: "priority", Components: []string{"cc.UITransform"}},
			{Property: "interactable", Components: []string{"cc.Button", "cc.Toggle"}},
			{Property: "transition", Components: []string{"cc.Button"}},
			{Property: "normalColor", Components: []string{"cc.Button"}},
			{Property: "progress", Components: []string{"cc.ProgressBar"}},
			{Property: "clip", Components: []string{"cc.AudioSource", "cc.Animation"}},
			{Property: "volume", Components: []string{"cc.AudioSource"}},
			{Property: "layoutType", Components: []string{"cc.Layout"}},
			{Property: "spacingX", Components: []string{"cc.Layout"}},
			{Property: "spacingY", Components: []string{"cc.Layout"}},
			{Property: "opacity", Components: []string{"cc.UIOpacity"}},
			{Property: "content", Components: []string{"cc.ScrollView"}},
		},
		GenericBases: []string{"cc.Component", "cc.Object", "Component", "Object"},
	}
	h.buildIndex()
	return h
}

// LoadHints reads a hints file and merges it over DefaultHints. Entries with
// the same name replace the defaults.
func LoadHints(path string) (*Hints, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading hints: %w", err)
	}

	var file Hints
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("loading hints: %w", err)
	}

	if err := validateHints(&file); err != nil {
		return nil, fmt.Errorf("loading hints: %w", err)
	}

	h := DefaultHints()
	h.merge(&file)
	return h, nil
}

func validateHints(h *Hints) error {
	names := make(map[string]struct{})
	for i, prop := range h.NodeProperties {
		if strings.TrimSpace(prop.Name) == "" {
			return fmt.Errorf("node property %d name is required", i)
		}
		if strings.TrimSpace(prop.Tool) == "" {
			return fmt.Errorf("node property %s tool is required", prop.Name)
		}
		key := strings.ToLower(prop.Name)
		if _, exists := names[key]; exists {
			return fmt.Errorf("duplicate node property: %s", prop.Name)
		}
		names[key] = struct{}{}
	}

	props := make(map[string]struct{})
	for i, pc := range h.PropertyComponents {
		if strings.TrimSpace(pc.Property) == "" {
			return fmt.Errorf("property component %d property is required", i)
		}
		if len(pc.Components) == 0 {
			return fmt.Errorf("property %s lists no components", pc.Property)
		}
		key := strings.ToLower(pc.Property)
		if _, exists := props[key]; exists {
			return fmt.Errorf("duplicate property component entry: %s", pc.Property)
		}
		props[key] = struct{}{}
	}

	for i, base := range h.GenericBases {
		if strings.TrimSpace(base) == "" {
			return fmt.Errorf("generic base %d is empty", i)
		}
	}
	for i, typ := range h.NodeTypes {
		if strings.TrimSpace(typ) == "" {
			return fmt.Errorf("node type %d is empty", i)
		}
	}
	return nil
}

func (h *Hints) merge(other *Hints) {
	nodePos := make(map[string]int, len(h.NodeProperties))
	for i, prop := range h.NodeProperties {
		nodePos[strings.ToLower(prop.Name)] = i
	}
	for _, prop := range other.NodeProperties {
		if i, ok := nodePos[strings.ToLower(prop.Name)]; ok {
			h.NodeProperties[i] = prop
			continue
		}
		h.NodeProperties = append(h.NodeProperties, prop)
	}

	propPos := make(map[string]int, len(h.PropertyComponents))
	for i, pc := range h.PropertyComponents {
		propPos[strings.ToLower(pc.Property)] = i
	}
	for _, pc := range other.PropertyComponents {
		if i, ok := propPos[strings.ToLower(pc.Property)]; ok {
			h.PropertyComponents[i] = pc
			continue
		}
		h.PropertyComponents = append(h.PropertyComponents, pc)
	}

	if len(other.GenericBases) > 0 {
		h.GenericBases = append([]string(nil), other.GenericBases...)
	}
	if len(other.NodeTypes) > 0 {
		h.NodeTypes = append([]string(nil), other.NodeTypes...)
	}
	h.buildIndex()
}

func (h *Hints) buildIndex() {
	h.nodeIndex = make(map[string]*NodeProperty, len(h.NodeProperties))
	for i := range h.NodeProperties {
		prop := &h.NodeProperties[i]
		h.nodeIndex[strings.ToLower(prop.Name)] = prop
	}
	h.propIndex = make(map[string]*PropertyComponent, len(h.PropertyComponents))
	for i := range h.PropertyComponents {
		pc := &h.PropertyComponents[i]
		h.propIndex[strings.ToLower(pc.Property)] = pc
	}
}

func (h *Hints) NodeProperty(name string) (NodeProperty, bool) {
	if h == nil {
		return NodeProperty{}, false
	}
	prop, ok := h.nodeIndex[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return NodeProperty{}, false
	}
	return *prop, true
}

func (h *Hints) IsNodeType(componentType string) bool {
	if h == nil {
		return false
	}
	for _, typ := range h.NodeTypes {
		if strings.EqualFold(typ, strings.TrimSpace(componentType)) {
			return true
		}
	}
	return false
}

// ComponentsFor returns the component types known to carry property.
func (h *Hints) ComponentsFor(property string) []string {
	if h == nil {
		return nil
	}
	pc, ok := h.propIndex[strings.ToLower(strings.TrimSpace(property))]
	if !ok {
		return nil
	}
	return append([]string(nil), pc.Components...)
}
