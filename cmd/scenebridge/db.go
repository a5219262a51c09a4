package main

import (
	"context"
	"fmt"
	"strings"

	"scenebridge/internal/store"
	"scenebridge/internal/store/postgres"
	"scenebridge/internal/store/sqlite"
)

// openJournal picks the journal backend from the DSN scheme. An empty DSN
// disables journaling.
func openJournal(ctx context.Context, dsn string) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch {
	case strings.TrimSpace(dsn) == "":
		return store.Nop{}, nil
	case strings.HasPrefix(dsn, "sqlite://"):
		s, err = sqlite.New(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err = postgres.New(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported journal DSN scheme: %s", dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := s.EnsureSchema(ctx); err != nil {
		s.Close(ctx)
		return nil, err
	}
	return s, nil
}
