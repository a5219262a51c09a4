// Package memory is an in-process scene host used by tests and by the
// emulate command.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"

	"scenebridge/internal/scene"
)

var _ scene.Host = (*Scene)(nil)

type Fixture struct {
	Nodes    []NodeFixture             `json:"nodes"`
	Metadata map[string]map[string]any `json:"metadata,omitempty"`
}

type NodeFixture struct {
	ID         string             `json:"id"`
	Name       string             `json:"name,omitempty"`
	Components []ComponentFixture `json:"components"`
}

type ComponentFixture struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Enabled    *bool          `json:"enabled,omitempty"`
	Properties map[string]any `json:"properties"`
}

// Write is one recorded call to WriteProperty.
type Write struct {
	Node         string
	Path         scene.Path
	Value        any
	ExplicitType string
}

type Scene struct {
	mu       sync.Mutex
	nodes    map[string]*node
	order    []string
	metadata map[string]map[string]any
	writes   []Write

	// WriteHook runs before a write is applied; a non-nil error rejects it.
	WriteHook func(w Write) error
}

type node struct {
	id         string
	name       string
	components []*component
}

type component struct {
	typ        string
	id         string
	enabled    bool
	properties map[string]any
}

func New() *Scene {
	return &Scene{
		nodes:    make(map[string]*node),
		metadata: make(map[string]map[string]any),
	}
}

func FromFixture(f Fixture) (*Scene, error) {
	s := New()
	for _, n := range f.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("fixture node %q has no id", n.Name)
		}
		if err := s.AddNode(n.ID, n.Name); err != nil {
			return nil, err
		}
		for _, c := range n.Components {
			enabled := true
			if c.Enabled != nil {
				enabled = *c.Enabled
			}
			if _, err := s.addComponent(n.ID, c.Type, c.ID, enabled, c.Properties); err != nil {
				return nil, err
			}
		}
	}
	for componentType, meta := range f.Metadata {
		s.SetMetadata(componentType, meta)
	}
	return s, nil
}

func LoadFixture(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading scene fixture: %w", err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("loading scene fixture: %w", err)
	}
	s, err := FromFixture(f)
	if err != nil {
		return nil, fmt.Errorf("loading scene fixture: %w", err)
	}
	return s, nil
}

func (s *Scene) AddNode(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nodes[id]; exists {
		return fmt.Errorf("duplicate node: %s", id)
	}
	s.nodes[id] = &node{id: id, name: name}
	s.order = append(s.order, id)
	return nil
}

// AddComponent attaches a component and returns its scene-local id.
func (s *Scene) AddComponent(nodeID, componentType string, properties map[string]any) (string, error) {
	return s.addComponent(nodeID, componentType, "", true, properties)
}

func (s *Scene) addComponent(nodeID, componentType, id string, enabled bool, properties map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[nodeID]
	if !ok {
		return "", fmt.Errorf("node not found: %s", nodeID)
	}
	if id == "" {
		id = uuid.NewString()
	}
	props := make(map[string]any, len(properties))
	for name, v := range properties {
		props[name] = envelopeOf(scene.CloneValue(v))
	}
	n.components = append(n.components, &component{typ: componentType, id: id, enabled: enabled, properties: props})
	return id, nil
}

func (s *Scene) SetMetadata(componentType string, meta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone, _ := scene.CloneValue(meta).(map[string]any)
	s.metadata[componentType] = clone
}

// SetProperty replaces a property envelope directly, bypassing WriteHook.
func (s *Scene) SetProperty(nodeID string, index int, name string, envelope any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	comp, err := s.componentLocked(nodeID, index)
	if err != nil {
		return err
	}
	comp.properties[name] = scene.CloneValue(envelope)
	return nil
}

func (s *Scene) Writes() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.writes...)
}

func (s *Scene) NodeIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

func (s *Scene) QueryComponents(ctx context.Context, nodeID string) ([]scene.ComponentSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", nodeID)
	}
	out := make([]scene.ComponentSnapshot, 0, len(n.components))
	for _, comp := range n.components {
		out = append(out, scene.DecodeComponent(comp.envelope()))
	}
	return out, nil
}

func (s *Scene) QueryComponentMetadata(ctx context.Context, nodeID, componentType string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[nodeID]; !ok {
		return nil, fmt.Errorf("node not found: %s", nodeID)
	}
	for typ, meta := range s.metadata {
		if scene.SameType(typ, componentType) {
			clone, _ := scene.CloneValue(meta).(map[string]any)
			return clone, nil
		}
	}
	return map[string]any{}, nil
}

func (s *Scene) WriteProperty(ctx context.Context, nodeID string, path scene.Path, value any, explicitType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := path.Validate(); err != nil {
		return err
	}
	w := Write{Node: nodeID, Path: path, Value: scene.CloneValue(value), ExplicitType: explicitType}
	if s.WriteHook != nil {
		if err := s.WriteHook(w); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	comp, err := s.componentLocked(nodeID, path.Component)
	if err != nil {
		return err
	}
	s.writes = append(s.writes, w)
	comp.apply(path.Field, scene.CloneValue(value), explicitType)
	return nil
}

func (s *Scene) componentLocked(nodeID string, index int) (*component, error) {
	n, ok := s.nodes[nodeID]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", nodeID)
	}
	if index < 0 || index >= len(n.components) {
		return nil, fmt.Errorf("component index %d out of range on node %s", index, nodeID)
	}
	return n.components[index], nil
}

// envelope renders the component the way the editor host dumps it: identity
// nested in the value envelope and properties under properties.value.
func (c *component) envelope() map[string]any {
	props, _ := scene.CloneValue(c.properties).(map[string]any)
	return map[string]any{
		"type":    c.typ,
		"enabled": c.enabled,
		"value": map[string]any{
			scene.IdentityKey: map[string]any{"value": c.id, "type": "String"},
		},
		"properties": map[string]any{"value": props},
	}
}

func (c *component) apply(field []string, value any, explicitType string) {
	name := field[0]
	if len(field) == 1 {
		if env, ok := c.properties[name].(map[string]any); ok {
			if _, wrapped := env["value"]; wrapped {
				env["value"] = value
				return
			}
		}
		env := map[string]any{"value": value}
		if explicitType != "" {
			env["type"] = explicitType
		}
		c.properties[name] = env
		return
	}

	var target map[string]any
	if env, ok := c.properties[name].(map[string]any); ok {
		if _, wrapped := env["value"]; wrapped {
			inner, ok := env["value"].(map[string]any)
			if !ok {
				inner = map[string]any{}
				env["value"] = inner
			}
			target = inner
		} else {
			target = env
		}
	} else {
		target = map[string]any{}
		c.properties[name] = map[string]any{"value": target}
	}
	for _, part := range field[1 : len(field)-1] {
		next, ok := target[part].(map[string]any)
		if !ok {
			next = map[string]any{}
			target[part] = next
		}
		target = next
	}
	target[field[len(field)-1]] = value
}

// envelopeOf wraps bare fixture values so every property carries a value envelope.
func envelopeOf(v any) any {
	if m, ok := v.(map[string]any); ok {
		if _, wrapped := m["value"]; wrapped {
			return m
		}
	}
	return map[string]any{"value": v}
}
