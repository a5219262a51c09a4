package store

import (
	"context"
)

// Store is the mutation journal. Every mutation outcome, successful or not,
// is appended to it.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	RecordMutation(ctx context.Context, rec MutationRecord) error
	ListMutations(ctx context.Context, filter MutationFilter) ([]MutationRecord, error)
}

var _ Store = Nop{}

// Nop discards records. It is used when no journal DSN is configured.
type Nop struct{}

func (Nop) Close(ctx context.Context) error        { return nil }
func (Nop) EnsureSchema(ctx context.Context) error { return nil }

func (Nop) RecordMutation(ctx context.Context, rec MutationRecord) error { return nil }

func (Nop) ListMutations(ctx context.Context, filter MutationFilter) ([]MutationRecord, error) {
	return nil, nil
}
