package mcp

import (
	"context"
	"log/slog"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"scenebridge/internal/mutation"
	"scenebridge/internal/store"
)

// Mutator is the engine behind the tools; *mutation.Orchestrator implements it.
type Mutator interface {
	SetComponentProperty(ctx context.Context, req mutation.Request) mutation.Result
	Inspect(ctx context.Context, req mutation.InspectRequest) (mutation.Inspection, error)
	History(ctx context.Context, filter store.MutationFilter) ([]store.MutationRecord, error)
}

type Server struct {
	engine Mutator
	logger *slog.Logger
	mcp    *sdk.Server
}

func NewServer(engine Mutator, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine: engine,
		logger: logger,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "scenebridge",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
