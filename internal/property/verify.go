package property

import (
	"bytes"
	"context"
	"math"
	"reflect"
	"time"

	"scenebridge/internal/scene"
)

// DefaultVerifyDelay is how long the host is given to propagate a write
// before it is read back.
const DefaultVerifyDelay = 200 * time.Millisecond

type Verifier struct {
	Host  scene.Host
	Delay time.Duration

	// After defaults to time.After; tests replace it to skip the wait.
	After func(time.Duration) <-chan time.Time
}

type VerifyRequest struct {
	Node           string
	ComponentIndex int
	ComponentType  string
	Property       string
	Expected       any
}

// Outcome reports whether the re-read value matches what was written.
// Err is set when the value could not be read back at all.
type Outcome struct {
	Verified bool
	Actual   any
	Expected any
	Err      error
}

// Verify waits for the propagation delay, re-fetches the component and
// compares the property against the expected value.
func (v *Verifier) Verify(ctx context.Context, req VerifyRequest) Outcome {
	out := Outcome{Expected: req.Expected}

	after := v.After
	if after == nil {
		after = time.After
	}
	select {
	case <-ctx.Done():
		out.Err = ctx.Err()
		return out
	case <-after(v.Delay):
	}

	comps, err := v.Host.QueryComponents(ctx, req.Node)
	if err != nil {
		out.Err = err
		return out
	}

	idx := req.ComponentIndex
	if idx < 0 || idx >= len(comps) || !scene.SameType(comps[idx].Type, req.ComponentType) {
		var ok bool
		if idx, ok = scene.FindComponent(comps, req.ComponentType); !ok {
			return out
		}
	}

	a := Analyze(comps[idx], req.Property)
	out.Actual = a.OriginalValue
	out.Verified = a.Exists && Equal(req.Expected, a.OriginalValue)
	return out
}

// Equal applies the verification equality rules: identity equality for
// references, structural equality for objects and arrays, and scalar
// equality that tolerates string/number mismatches.
func Equal(expected, actual any) bool {
	if id, ok := referenceID(expected); ok {
		got, _ := identityOf(actual)
		return id != "" && id == got
	}
	if isComposite(expected) && isComposite(actual) {
		want, err1 := scene.MarshalValue(expected)
		got, err2 := scene.MarshalValue(actual)
		return err1 == nil && err2 == nil && bytes.Equal(want, got)
	}
	if reflect.DeepEqual(normalizeScalar(expected), normalizeScalar(actual)) {
		return true
	}
	if expected == nil || actual == nil || isComposite(expected) || isComposite(actual) {
		return false
	}
	if stringify(expected) == stringify(actual) {
		return true
	}
	e, ok1 := toNumber(expected)
	a, ok2 := toNumber(actual)
	return ok1 && ok2 && !math.IsNaN(e) && e == a
}

func referenceID(v any) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m[scene.IdentityKey].(string)
	return id, ok
}

func isComposite(v any) bool {
	switch v.(type) {
	case map[string]any, []any:
		return true
	}
	return false
}

func normalizeScalar(v any) any {
	switch val := v.(type) {
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int32:
		return float64(val)
	case int64:
		return float64(val)
	}
	return v
}
