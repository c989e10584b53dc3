package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/witness-rec/witness/internal/api"
	"github.com/witness-rec/witness/internal/config"
	"github.com/witness-rec/witness/internal/domain/livestream"
	"github.com/witness-rec/witness/internal/domain/project"
	"github.com/witness-rec/witness/internal/domain/recorder"
	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/handlers"
	"github.com/witness-rec/witness/internal/logger"
	"github.com/witness-rec/witness/internal/protocol"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	dir := config.Dir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	if err := logger.Init(cfg.DataDir, cfg.Debug); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Close()

	store, err := project.NewStore(filepath.Join(cfg.DataDir, "projects.yaml"))
	if err != nil {
		return fmt.Errorf("failed to open project store: %w", err)
	}

	bus := event.NewBus(protocol.NewSequencer())
	rec := recorder.NewEngine(bus, cfg.Capture.Command, cfg.Capture.Args)
	live := livestream.NewEngine(bus, cfg.Bridge.Command, cfg.Bridge.Args)

	table := handlers.Table(handlers.Deps{
		Recorder: rec,
		Live:     live,
		Projects: store,
	})
	gateway := api.NewGateway(table, bus)

	addr := fmt.Sprintf(":%d", cfg.GatewayPort)
	server := &http.Server{
		Addr:    addr,
		Handler: gateway,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Gateway listening on %s", addr)
		fmt.Printf("Witness gateway listening on http://localhost%s\n", addr)
		errCh <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("gateway failed: %w", err)
		}
	case sig := <-sigCh:
		logger.Infof("Received %v, shutting down", sig)
	}

	rec.Stop()
	live.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
