package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"scenebridge/internal/config"
)

const sampleFixture = `{
  "nodes": [
    {
      "id": "node-title",
      "name": "Title",
      "components": [
        {"type": "cc.UITransform", "properties": {"contentSize": {"width": 200, "height": 40}, "anchorPoint": {"x": 0.5, "y": 0.5}}},
        {"type": "cc.Label", "properties": {"string": "Hello", "fontSize": 20, "color": {"r": 255, "g": 255, "b": 255, "a": 255}}}
      ]
    },
    {
      "id": "node-panel",
      "name": "Panel",
      "components": [
        {"type": "cc.UITransform", "properties": {"contentSize": {"width": 400, "height": 300}}},
        {"type": "game.Panel", "properties": {"title": null, "background": null}}
      ]
    }
  ],
  "metadata": {
    "game.Panel": {
      "title": {"type": "cc.Label"},
      "background": {"type": "cc.SpriteFrame"}
    }
  }
}
`

func initCmd() *cobra.Command {
	var hostURL string
	var withFixture bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold scenebridge.yaml and hints.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(hostURL, withFixture)
		},
	}
	cmd.Flags().StringVar(&hostURL, "host", "ws://127.0.0.1:7456/scene", "Scene host websocket URL")
	cmd.Flags().BoolVar(&withFixture, "fixture", false, "Also write scene.json for the emulator")
	return cmd
}

func runInit(hostURL string, withFixture bool) error {
	hintsPath := "hints.yaml"
	files := []string{configPath, hintsPath}
	if withFixture {
		files = append(files, "scene.json")
	}
	for _, path := range files {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	configContents := fmt.Sprintf("version: 1\n\nhost:\n  url: %s\n  dial_timeout: %s\n\nverify:\n  delay: %s\n\njournal:\n  dsn: sqlite://./.scenebridge/journal.db\n\nlog:\n  level: info\n  format: text\n\nhints: ./%s\n",
		hostURL, config.DefaultDialTimeout, config.DefaultVerifyDelay, hintsPath)
	if err := os.WriteFile(configPath, []byte(configContents), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", configPath, err)
	}

	hints, err := yaml.Marshal(config.DefaultHints())
	if err != nil {
		return fmt.Errorf("encoding default hints: %w", err)
	}
	if err := os.WriteFile(hintsPath, hints, 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", hintsPath, err)
	}

	if err := os.MkdirAll(".scenebridge", 0o755); err != nil {
		return fmt.Errorf("creating journal directory: %w", err)
	}

	if withFixture {
		if err := os.WriteFile("scene.json", []byte(sampleFixture), 0o600); err != nil {
			return fmt.Errorf("writing scene.json: %w", err)
		}
	}
	return nil
}
