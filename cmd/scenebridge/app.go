package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"scenebridge/internal/config"
	"scenebridge/internal/mutation"
	"scenebridge/internal/scene/bridge"
	"scenebridge/internal/store"
)

// app holds everything a command needs to run mutations against the host.
type app struct {
	cfg     *config.ProjectConfig
	hints   *config.Hints
	logger  *slog.Logger
	host    *bridge.Client
	journal store.Store
	engine  *mutation.Orchestrator
}

func loadConfig() (*config.ProjectConfig, *config.Hints, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Hints == "" {
		return cfg, config.DefaultHints(), nil
	}
	hintsPath := cfg.Hints
	if !filepath.IsAbs(hintsPath) {
		hintsPath = filepath.Join(filepath.Dir(configPath), hintsPath)
	}
	hints, err := config.LoadHints(hintsPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, hints, nil
}

func setupApp(ctx context.Context) (*app, error) {
	cfg, hints, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(os.Stderr, cfg.Log, logLevelArg)
	if err != nil {
		return nil, err
	}

	journal, err := openJournal(ctx, cfg.Journal.DSN)
	if err != nil {
		return nil, err
	}

	host, err := bridge.Dial(ctx, cfg.Host.URL, cfg.Host.DialTimeout, logger)
	if err != nil {
		journal.Close(ctx)
		return nil, err
	}
	logger.Info("connected to scene host", "url", cfg.Host.URL)

	engine := mutation.New(host,
		mutation.WithHints(hints),
		mutation.WithJournal(journal),
		mutation.WithLogger(logger),
		mutation.WithVerifyDelay(cfg.Verify.Delay),
	)
	return &app{
		cfg:     cfg,
		hints:   hints,
		logger:  logger,
		host:    host,
		journal: journal,
		engine:  engine,
	}, nil
}

func (a *app) Close(ctx context.Context) {
	if err := a.host.Close(); err != nil {
		a.logger.Debug("closing scene host connection", "error", err)
	}
	if err := a.journal.Close(ctx); err != nil {
		a.logger.Error("closing journal", "error", err)
	}
}
