package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"scenebridge/internal/config"
	"scenebridge/internal/scene/bridge"
	"scenebridge/internal/scene/memory"
)

func emulateCmd() *cobra.Command {
	var fixture, listen, path string
	cmd := &cobra.Command{
		Use:   "emulate",
		Short: "Serve an in-memory scene over the bridge protocol",
		Long:  "Loads a JSON scene fixture and serves it on a websocket endpoint, standing in for the editor host during development.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEmulate(fixture, listen, path)
		},
	}
	cmd.Flags().StringVar(&fixture, "fixture", "", "Scene fixture (JSON)")
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:7456", "Listen address")
	cmd.Flags().StringVar(&path, "path", "/scene", "Websocket endpoint path")
	_ = cmd.MarkFlagRequired("fixture")
	return cmd
}

func runEmulate(fixture, listen, path string) error {
	logger, err := newLogger(os.Stderr, config.LogConfig{Level: "info", Format: "text"}, logLevelArg)
	if err != nil {
		return err
	}

	s, err := memory.LoadFixture(fixture)
	if err != nil {
		return err
	}
	logger.Info("scene loaded", "fixture", fixture, "nodes", len(s.NodeIDs()))

	mux := http.NewServeMux()
	mux.Handle(path, bridge.Handler(s, logger))
	srv := &http.Server{Addr: listen, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("emulator listening", "url", fmt.Sprintf("ws://%s%s", listen, path))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		logger.Info("shutting down emulator")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
