package property

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenebridge/internal/scene"
)

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestVerifyMatchesColor(t *testing.T) {
	host := &mockHost{components: map[string][]scene.ComponentSnapshot{
		"node-1": {component("cc.Label", "label-1", map[string]any{
			"color": map[string]any{"value": color(255, 0, 0, 255), "type": "cc.Color"},
		})},
	}}
	v := &Verifier{Host: host, After: immediate}

	out := v.Verify(context.Background(), VerifyRequest{
		Node: "node-1", ComponentIndex: 0, ComponentType: "cc.Label", Property: "color",
		Expected: color(255, 0, 0, 255),
	})
	assert.True(t, out.Verified)
	assert.NoError(t, out.Err)
	assert.Equal(t, color(255, 0, 0, 255), out.Actual)
}

func TestVerifyWaitsForDelay(t *testing.T) {
	host := &mockHost{components: map[string][]scene.ComponentSnapshot{"node-1": {component("cc.Label", "l", nil)}}}
	var waited time.Duration
	v := &Verifier{Host: host, Delay: 150 * time.Millisecond, After: func(d time.Duration) <-chan time.Time {
		waited = d
		return immediate(d)
	}}
	v.Verify(context.Background(), VerifyRequest{Node: "node-1", ComponentType: "cc.Label", Property: "string"})
	assert.Equal(t, 150*time.Millisecond, waited)
	assert.Equal(t, []string{"node-1"}, host.queriedNodes, "snapshot is re-fetched")
}

func TestVerifyCancelled(t *testing.T) {
	host := &mockHost{}
	v := &Verifier{Host: host, Delay: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := v.Verify(ctx, VerifyRequest{Node: "node-1", Property: "color"})
	assert.False(t, out.Verified)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Empty(t, host.queriedNodes)
}

func TestVerifyReadFailure(t *testing.T) {
	host := &mockHost{queryErr: errors.New("disconnected")}
	v := &Verifier{Host: host, After: immediate}
	out := v.Verify(context.Background(), VerifyRequest{Node: "node-1", Property: "color"})
	assert.False(t, out.Verified)
	assert.Error(t, out.Err)
}

func TestVerifyFindsComponentByTypeWhenIndexMoved(t *testing.T) {
	host := &mockHost{components: map[string][]scene.ComponentSnapshot{
		"node-1": {
			component("cc.UITransform", "ui", nil),
			component("cc.Label", "l", map[string]any{"string": map[string]any{"value": "hi", "type": "String"}}),
		},
	}}
	v := &Verifier{Host: host, After: immediate}
	out := v.Verify(context.Background(), VerifyRequest{
		Node: "node-1", ComponentIndex: 0, ComponentType: "cc.Label", Property: "string", Expected: "hi",
	})
	assert.True(t, out.Verified)
}

func TestVerifyComponentReferenceUsesSceneLocalID(t *testing.T) {
	host := &mockHost{components: map[string][]scene.ComponentSnapshot{
		"node-1": {component("cc.Button", "b", map[string]any{
			"label": map[string]any{"value": map[string]any{"uuid": "label-1"}, "type": "cc.Label"},
		})},
	}}
	v := &Verifier{Host: host, After: immediate}

	out := v.Verify(context.Background(), VerifyRequest{
		Node: "node-1", ComponentType: "cc.Button", Property: "label",
		Expected: map[string]any{"uuid": "label-1"},
	})
	assert.True(t, out.Verified)

	out = v.Verify(context.Background(), VerifyRequest{
		Node: "node-1", ComponentType: "cc.Button", Property: "label",
		Expected: map[string]any{"uuid": "target-node"},
	})
	assert.False(t, out.Verified, "the target node id is not the component id")
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{name: "same string", expected: "a", actual: "a", want: true},
		{name: "numeric string", expected: "42", actual: 42.0, want: true},
		{name: "number vs numeric string", expected: 42.0, actual: "42", want: true},
		{name: "int vs float", expected: 3, actual: 3.0, want: true},
		{name: "different numbers", expected: 1.0, actual: 2.0, want: false},
		{name: "bool", expected: true, actual: true, want: true},
		{name: "bool mismatch", expected: true, actual: false, want: false},
		{name: "nil both", expected: nil, actual: nil, want: true},
		{name: "nil vs value", expected: nil, actual: "x", want: false},
		{name: "object equal", expected: color(1, 2, 3, 4), actual: color(1, 2, 3, 4), want: true},
		{name: "object differs", expected: color(1, 2, 3, 4), actual: color(1, 2, 3, 5), want: false},
		{name: "array order matters", expected: []any{1.0, 2.0}, actual: []any{2.0, 1.0}, want: false},
		{name: "array NaN serializes as null", expected: []any{1.0, math.NaN()}, actual: []any{1.0, nil}, want: true},
		{name: "reference match", expected: map[string]any{"uuid": "c1"}, actual: map[string]any{"uuid": "c1", "extra": 1.0}, want: true},
		{name: "reference by string", expected: map[string]any{"uuid": "c1"}, actual: "c1", want: true},
		{name: "reference empty", expected: map[string]any{"uuid": ""}, actual: map[string]any{"uuid": ""}, want: false},
		{name: "object vs scalar", expected: color(1, 2, 3, 4), actual: "x", want: false},
		{name: "NaN scalar", expected: math.NaN(), actual: "x", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Equal(tt.expected, tt.actual))
		})
	}
}

func TestVerifyMissingComponent(t *testing.T) {
	host := &mockHost{components: map[string][]scene.ComponentSnapshot{"node-1": {}}}
	v := &Verifier{Host: host, After: immediate}
	out := v.Verify(context.Background(), VerifyRequest{Node: "node-1", ComponentType: "cc.Label", Property: "string", Expected: "x"})
	require.NoError(t, out.Err)
	assert.False(t, out.Verified)
}
