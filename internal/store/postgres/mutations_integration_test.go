//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenebridge/internal/store"
)

func TestRecordAndListMutations(t *testing.T) {
	dsn := os.Getenv("SCENEBRIDGE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SCENEBRIDGE_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	c, err := New(ctx, dsn)
	require.NoError(t, err)
	defer c.Close(ctx)
	require.NoError(t, c.EnsureSchema(ctx))

	node := "integration-" + t.Name()
	require.NoError(t, c.RecordMutation(ctx, store.MutationRecord{
		RequestID:     "req-1",
		Node:          node,
		ComponentType: "cc.Sprite",
		Property:      "color",
		Requested:     "#00FF00",
		Coerced:       map[string]any{"r": 0.0, "g": 255.0, "b": 0.0, "a": 255.0},
		Success:       true,
	}))

	recs, err := c.ListMutations(ctx, store.MutationFilter{Node: node, Limit: 1})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "#00FF00", recs[0].Requested)
	assert.True(t, recs[0].Success)
}
