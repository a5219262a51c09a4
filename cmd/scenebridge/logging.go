package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"scenebridge/internal/config"
)

// newLogger builds the process logger. Output always goes to w (stderr in
// practice) so stdout stays free for the MCP stdio transport.
func newLogger(w io.Writer, cfg config.LogConfig, override string) (*slog.Logger, error) {
	levelName := cfg.Level
	if override != "" {
		levelName = override
	}

	var level slog.Level
	switch strings.ToLower(levelName) {
	case "debug":
		level = slog.LevelDebug
	case "", "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level: %s", levelName)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return nil, fmt.Errorf("unknown log format: %s", cfg.Format)
	}
	return slog.New(handler), nil
}
