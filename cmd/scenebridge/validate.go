package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"scenebridge/internal/config"
	"scenebridge/internal/scene/bridge"
)

func validateCmd() *cobra.Command {
	var ping bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the project config and hints file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(ping)
		},
	}
	cmd.Flags().BoolVar(&ping, "ping", false, "Also connect to the scene host")
	return cmd
}

func runValidate(ping bool) error {
	cfg, hints, err := loadConfig()
	if err != nil {
		return err
	}

	out := os.Stdout
	fmt.Fprintf(out, "Config: %s\n", configPath)
	fmt.Fprintf(out, "  host:    %s (dial timeout %s)\n", cfg.Host.URL, cfg.Host.DialTimeout)
	fmt.Fprintf(out, "  verify:  %s delay\n", cfg.Verify.Delay)
	journal := cfg.Journal.DSN
	if journal == "" {
		journal = "disabled"
	}
	fmt.Fprintf(out, "  journal: %s\n", journal)
	fmt.Fprintf(out, "  log:     %s/%s\n", cfg.Log.Level, cfg.Log.Format)
	fmt.Fprintf(out, "Hints: %d node properties, %d property mappings, %d generic bases\n",
		len(hints.NodeProperties), len(hints.PropertyComponents), len(hints.GenericBases))

	if !ping {
		return nil
	}
	return pingHost(out, cfg)
}

func pingHost(out io.Writer, cfg *config.ProjectConfig) error {
	ctx := context.Background()
	logger, err := newLogger(os.Stderr, cfg.Log, logLevelArg)
	if err != nil {
		return err
	}
	c, err := bridge.Dial(ctx, cfg.Host.URL, cfg.Host.DialTimeout, logger)
	if err != nil {
		return err
	}
	defer c.Close()
	fmt.Fprintf(out, "Host reachable: %s\n", cfg.Host.URL)
	return nil
}
