package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"scenebridge/internal/mutation"
)

func inspectCmd() *cobra.Command {
	var req mutation.InspectRequest
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show what the analyzer sees for one component property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(req)
		},
	}
	cmd.Flags().StringVar(&req.Node, "node", "", "Node id")
	cmd.Flags().StringVar(&req.ComponentType, "component", "", "Component type")
	cmd.Flags().StringVar(&req.Property, "property", "", "Property name")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("component")
	_ = cmd.MarkFlagRequired("property")
	return cmd
}

func runInspect(req mutation.InspectRequest) error {
	ctx := context.Background()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	out, err := a.engine.Inspect(ctx, req)
	if err != nil {
		return err
	}
	return printJSON(os.Stdout, out)
}
