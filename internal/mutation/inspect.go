package mutation

import (
	"context"
	"fmt"
	"strings"

	"scenebridge/internal/property"
	"scenebridge/internal/scene"
	"scenebridge/internal/store"
)

type InspectRequest struct {
	Node          string `json:"nodeUuid"`
	ComponentType string `json:"componentType"`
	Property      string `json:"property"`
}

// Inspection is the analyzer's view of one property, for diagnostics.
type Inspection struct {
	Node           string                `json:"nodeUuid"`
	ComponentType  string                `json:"componentType"`
	ComponentIndex int                   `json:"componentIndex"`
	SceneLocalID   string                `json:"sceneLocalId,omitempty"`
	Property       string                `json:"property"`
	Exists         bool                  `json:"exists"`
	PropertyType   property.SemanticType `json:"propertyType"`
	CurrentValue   any                   `json:"currentValue"`
	DisplayName    string                `json:"displayName,omitempty"`
	Readonly       bool                  `json:"readonly,omitempty"`
	DeclaredType   string                `json:"declaredType,omitempty"`
	AvailableNames []string              `json:"availableProperties"`
	Path           string                `json:"path"`
}

// Inspect runs the analyzer against a live component without writing.
func (o *Orchestrator) Inspect(ctx context.Context, req InspectRequest) (Inspection, error) {
	comps, err := o.host.QueryComponents(ctx, req.Node)
	if err != nil {
		return Inspection{}, &property.Error{
			Code:    property.CodeHostError,
			Message: fmt.Sprintf("reading components of node %s", req.Node),
			Err:     err,
		}
	}
	idx, ok := scene.FindComponent(comps, req.ComponentType)
	if !ok {
		available := scene.ComponentTypes(comps)
		return Inspection{}, &property.Error{
			Code: property.CodeComponentNotFound,
			Message: fmt.Sprintf("component %s not found on node %s (available: %s)",
				req.ComponentType, req.Node, strings.Join(available, ", ")),
			Details: map[string]any{"availableComponents": available},
		}
	}

	comp := comps[idx]
	a := property.Analyze(comp, req.Property)
	names := a.AvailableNames
	if names == nil {
		names = []string{}
	}
	return Inspection{
		Node:           req.Node,
		ComponentType:  comp.Type,
		ComponentIndex: idx,
		SceneLocalID:   comp.Identity,
		Property:       req.Property,
		Exists:         a.Exists,
		PropertyType:   a.Type,
		CurrentValue:   scene.JSONSafe(a.OriginalValue),
		DisplayName:    a.Descriptor.DisplayName,
		Readonly:       a.Descriptor.Readonly,
		DeclaredType:   a.Descriptor.TypeName,
		AvailableNames: names,
		Path:           scene.ComponentPath(idx, req.Property).String(),
	}, nil
}

// History lists journaled mutations, newest first.
func (o *Orchestrator) History(ctx context.Context, filter store.MutationFilter) ([]store.MutationRecord, error) {
	recs, err := o.journal.ListMutations(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing mutation history: %w", err)
	}
	return recs, nil
}
