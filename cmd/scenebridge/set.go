package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenebridge/internal/mutation"
)

func setCmd() *cobra.Command {
	var req mutation.Request
	var value string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set one component property and print the structured result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Value = parseValue(value)
			return runSet(req)
		},
	}
	cmd.Flags().StringVar(&req.Node, "node", "", "Node id")
	cmd.Flags().StringVar(&req.ComponentType, "component", "", "Component type, e.g. cc.Label")
	cmd.Flags().StringVar(&req.Property, "property", "", "Property name")
	cmd.Flags().StringVar(&req.PropertyType, "type", "", "Property type; inferred from the live value when omitted")
	cmd.Flags().StringVar(&value, "value", "", "New value as JSON; bare words are taken as strings")
	_ = cmd.MarkFlagRequired("node")
	_ = cmd.MarkFlagRequired("component")
	_ = cmd.MarkFlagRequired("property")
	return cmd
}

func runSet(req mutation.Request) error {
	ctx := context.Background()

	a, err := setupApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close(ctx)

	res := a.engine.SetComponentProperty(ctx, req)
	if err := printJSON(os.Stdout, res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("mutation failed: %s", res.Code)
	}
	return nil
}
