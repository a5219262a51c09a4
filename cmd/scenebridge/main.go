package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath  string
	logLevelArg string
)

func main() {
	root := &cobra.Command{
		Use:          "scenebridge",
		Short:        "Typed property mutations for a live editor scene, served over MCP",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "scenebridge.yaml", "Path to the project config")
	root.PersistentFlags().StringVar(&logLevelArg, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	root.AddCommand(serveCmd())
	root.AddCommand(setCmd())
	root.AddCommand(inspectCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(emulateCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(initCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
