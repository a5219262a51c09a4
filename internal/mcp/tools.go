package mcp

import (
	"context"
	"fmt"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"scenebridge/internal/mutation"
	"scenebridge/internal/store"
)

type SetComponentPropertyInput struct {
	NodeUUID      string `json:"nodeUuid" jsonschema:"id of the node that owns the component"`
	ComponentType string `json:"componentType" jsonschema:"component class, e.g. cc.Label"`
	Property      string `json:"property" jsonschema:"property name on the component"`
	PropertyType  string `json:"propertyType,omitempty" jsonschema:"optional type: string, number, boolean, color, vec2, vec3, size, node, component, spriteFrame, prefab, asset, nodeArray, colorArray, numberArray, stringArray"`
	Value         any    `json:"value" jsonschema:"new value; node and component references take the target node id"`
}

type InspectComponentPropertyInput struct {
	NodeUUID      string `json:"nodeUuid" jsonschema:"id of the node that owns the component"`
	ComponentType string `json:"componentType" jsonschema:"component class"`
	Property      string `json:"property" jsonschema:"property name on the component"`
}

type GetMutationHistoryInput struct {
	NodeUUID string `json:"nodeUuid,omitempty" jsonschema:"only mutations on this node"`
	Property string `json:"property,omitempty" jsonschema:"only mutations of this property"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum entries, newest first"`
}

type MutationHistoryEntry struct {
	RequestID     string `json:"requestId"`
	NodeUUID      string `json:"nodeUuid"`
	ComponentType string `json:"componentType"`
	Property      string `json:"property"`
	PropertyType  string `json:"propertyType,omitempty"`
	Requested     any    `json:"requested"`
	Coerced       any    `json:"coerced,omitempty"`
	Actual        any    `json:"actual,omitempty"`
	Success       bool   `json:"success"`
	Verified      bool   `json:"verified"`
	ErrorCode     string `json:"errorCode,omitempty"`
	Message       string `json:"message,omitempty"`
	DurationMS    int64  `json:"durationMs"`
	CreatedAt     string `json:"createdAt"`
}

type GetMutationHistoryOutput struct {
	Entries []MutationHistoryEntry `json:"entries"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "set_component_property",
		Description: "Set a property on a component of a scene node, coercing the value to the property's type and verifying the write",
	}, s.handleSetComponentProperty)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "inspect_component_property",
		Description: "Report whether a component property exists, its inferred type, current value and the other available properties",
	}, s.handleInspectComponentProperty)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_mutation_history",
		Description: "List recent property mutations, newest first",
	}, s.handleGetMutationHistory)
}

func (s *Server) handleSetComponentProperty(ctx context.Context, req *sdk.CallToolRequest, input SetComponentPropertyInput) (*sdk.CallToolResult, mutation.Result, error) {
	res := s.engine.SetComponentProperty(ctx, mutation.Request{
		Node:          input.NodeUUID,
		ComponentType: input.ComponentType,
		Property:      input.Property,
		PropertyType:  input.PropertyType,
		Value:         input.Value,
	})
	return &sdk.CallToolResult{IsError: !res.Success}, res, nil
}

func (s *Server) handleInspectComponentProperty(ctx context.Context, req *sdk.CallToolRequest, input InspectComponentPropertyInput) (*sdk.CallToolResult, mutation.Inspection, error) {
	if input.NodeUUID == "" || input.ComponentType == "" || input.Property == "" {
		return nil, mutation.Inspection{}, fmt.Errorf("nodeUuid, componentType and property are required")
	}
	out, err := s.engine.Inspect(ctx, mutation.InspectRequest{
		Node:          input.NodeUUID,
		ComponentType: input.ComponentType,
		Property:      input.Property,
	})
	if err != nil {
		return nil, mutation.Inspection{}, err
	}
	return nil, out, nil
}

func (s *Server) handleGetMutationHistory(ctx context.Context, req *sdk.CallToolRequest, input GetMutationHistoryInput) (*sdk.CallToolResult, GetMutationHistoryOutput, error) {
	recs, err := s.engine.History(ctx, store.MutationFilter{
		Node:     input.NodeUUID,
		Property: input.Property,
		Limit:    input.Limit,
	})
	if err != nil {
		s.logger.Error("listing mutation history", "error", err)
		return nil, GetMutationHistoryOutput{}, err
	}

	output := make([]MutationHistoryEntry, 0, len(recs))
	for _, rec := range recs {
		output = append(output, historyEntryFromRecord(rec))
	}
	return nil, GetMutationHistoryOutput{Entries: output}, nil
}

func historyEntryFromRecord(rec store.MutationRecord) MutationHistoryEntry {
	return MutationHistoryEntry{
		RequestID:     rec.RequestID,
		NodeUUID:      rec.Node,
		ComponentType: rec.ComponentType,
		Property:      rec.Property,
		PropertyType:  rec.PropertyType,
		Requested:     rec.Requested,
		Coerced:       rec.Coerced,
		Actual:        rec.Actual,
		Success:       rec.Success,
		Verified:      rec.Verified,
		ErrorCode:     rec.ErrorCode,
		Message:       rec.Message,
		DurationMS:    rec.Duration.Milliseconds(),
		CreatedAt:     rec.CreatedAt.UTC().Format(time.RFC3339),
	}
}
