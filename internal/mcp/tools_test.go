package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"scenebridge/internal/mutation"
	"scenebridge/internal/property"
	"scenebridge/internal/store"
)

type mockMutator struct {
	setResult     mutation.Result
	inspectResult mutation.Inspection
	inspectErr    error
	historyResult []store.MutationRecord
	historyErr    error

	lastSetRequest     mutation.Request
	lastInspectRequest mutation.InspectRequest
	lastHistoryFilter  store.MutationFilter
}

func (m *mockMutator) SetComponentProperty(ctx context.Context, req mutation.Request) mutation.Result {
	m.lastSetRequest = req
	return m.setResult
}

func (m *mockMutator) Inspect(ctx context.Context, req mutation.InspectRequest) (mutation.Inspection, error) {
	m.lastInspectRequest = req
	return m.inspectResult, m.inspectErr
}

func (m *mockMutator) History(ctx context.Context, filter store.MutationFilter) ([]store.MutationRecord, error) {
	m.lastHistoryFilter = filter
	return m.historyResult, m.historyErr
}

func TestSetComponentProperty(t *testing.T) {
	engine := &mockMutator{setResult: mutation.Result{
		Success: true,
		Message: "set cc.Label.string on node n1",
		Data:    &mutation.Data{ChangeVerified: true, ActualValue: "hi"},
	}}
	server := NewServer(engine, nil, "test")

	result, output, err := server.handleSetComponentProperty(context.Background(), nil, SetComponentPropertyInput{
		NodeUUID:      "n1",
		ComponentType: "cc.Label",
		Property:      "string",
		PropertyType:  "string",
		Value:         "hi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || result.IsError {
		t.Fatalf("expected a non-error tool result, got %+v", result)
	}
	if !output.Success || !output.Data.ChangeVerified {
		t.Fatalf("unexpected output: %+v", output)
	}
	got := engine.lastSetRequest
	if got.Node != "n1" || got.ComponentType != "cc.Label" || got.Property != "string" || got.PropertyType != "string" || got.Value != "hi" {
		t.Fatalf("unexpected request: %+v", got)
	}
}

func TestSetComponentProperty_FailureIsStructured(t *testing.T) {
	engine := &mockMutator{setResult: mutation.Result{
		Code:        property.CodeMisroutedProperty,
		Error:       `"position" is a node property, not a component property`,
		Instruction: "use the set_node_transform tool",
	}}
	server := NewServer(engine, nil, "test")

	result, output, err := server.handleSetComponentProperty(context.Background(), nil, SetComponentPropertyInput{
		NodeUUID: "n1", ComponentType: "cc.Node", Property: "position", Value: map[string]any{"x": 1},
	})
	if err != nil {
		t.Fatalf("failures must not be returned as Go errors: %v", err)
	}
	if !result.IsError {
		t.Fatalf("expected IsError to be set")
	}
	if output.Code != property.CodeMisroutedProperty || output.Instruction == "" {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestInspectComponentProperty(t *testing.T) {
	engine := &mockMutator{inspectResult: mutation.Inspection{
		Property: "fontSize", Exists: true, PropertyType: property.TypeNumber, CurrentValue: 20.0,
	}}
	server := NewServer(engine, nil, "test")

	_, output, err := server.handleInspectComponentProperty(context.Background(), nil, InspectComponentPropertyInput{
		NodeUUID: "n1", ComponentType: "cc.Label", Property: "fontSize",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !output.Exists || output.PropertyType != property.TypeNumber {
		t.Fatalf("unexpected output: %+v", output)
	}
	if engine.lastInspectRequest.Node != "n1" || engine.lastInspectRequest.Property != "fontSize" {
		t.Fatalf("unexpected inspect params: %+v", engine.lastInspectRequest)
	}
}

func TestInspectComponentProperty_Validation(t *testing.T) {
	server := NewServer(&mockMutator{}, nil, "test")

	_, _, err := server.handleInspectComponentProperty(context.Background(), nil, InspectComponentPropertyInput{NodeUUID: "n1"})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestInspectComponentProperty_Error(t *testing.T) {
	engine := &mockMutator{inspectErr: errors.New("component cc.Label not found")}
	server := NewServer(engine, nil, "test")

	_, _, err := server.handleInspectComponentProperty(context.Background(), nil, InspectComponentPropertyInput{
		NodeUUID: "n1", ComponentType: "cc.Label", Property: "string",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetMutationHistory(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	engine := &mockMutator{historyResult: []store.MutationRecord{{
		RequestID:     "req-1",
		Node:          "n1",
		ComponentType: "cc.Sprite",
		Property:      "color",
		Requested:     "#FF0000",
		Success:       true,
		Verified:      true,
		Duration:      1500 * time.Millisecond,
		CreatedAt:     created,
	}}}
	server := NewServer(engine, nil, "test")

	_, output, err := server.handleGetMutationHistory(context.Background(), nil, GetMutationHistoryInput{NodeUUID: "n1", Property: "color", Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Entries) != 1 {
		t.Fatalf("expected one entry, got %+v", output)
	}
	entry := output.Entries[0]
	if entry.RequestID != "req-1" || entry.DurationMS != 1500 || entry.CreatedAt != "2026-03-04T05:06:07Z" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	f := engine.lastHistoryFilter
	if f.Node != "n1" || f.Property != "color" || f.Limit != 10 {
		t.Fatalf("unexpected filter: %+v", f)
	}
}

func TestGetMutationHistory_Error(t *testing.T) {
	server := NewServer(&mockMutator{historyErr: errors.New("db down")}, nil, "test")

	if _, _, err := server.handleGetMutationHistory(context.Background(), nil, GetMutationHistoryInput{}); err == nil {
		t.Fatalf("expected error")
	}
}
