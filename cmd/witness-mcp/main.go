package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/witness-rec/witness/internal/config"
	"github.com/witness-rec/witness/internal/domain/livestream"
	"github.com/witness-rec/witness/internal/domain/plugin"
	"github.com/witness-rec/witness/internal/domain/project"
	"github.com/witness-rec/witness/internal/domain/recorder"
	"github.com/witness-rec/witness/internal/event"
	"github.com/witness-rec/witness/internal/handlers"
	"github.com/witness-rec/witness/internal/logger"
	"github.com/witness-rec/witness/internal/mcp"
	"github.com/witness-rec/witness/internal/protocol"
)

const version = "0.3.0"

// witness-mcp speaks MCP over stdio. Every catalog method is exposed as
// a tool, plus script.run and any WASM plugins found in the plugins dir.
// Stdout carries only protocol frames; diagnostics go to the log file.
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
	table := handlers.Table(handlers.Deps{
		Recorder: recorder.NewEngine(bus, cfg.Capture.Command, cfg.Capture.Args),
		Live:     livestream.NewEngine(bus, cfg.Bridge.Command, cfg.Bridge.Args),
		Projects: store,
	})

	server := mcp.NewServer(mcp.ServerInfo{
		Name:    "witness",
		Version: version,
	})
	if err := handlers.RegisterCatalogTools(server, table); err != nil {
		return fmt.Errorf("failed to register tools: %w", err)
	}
	if err := handlers.RegisterScriptTool(server, table); err != nil {
		return fmt.Errorf("failed to register script tool: %w", err)
	}

	ctx := context.Background()
	for _, tool := range plugin.LoadDir(ctx, cfg.PluginsDir) {
		if err := server.Register(tool); err != nil {
			logger.Warnf("Skipping plugin tool %s: %v", tool.Name, err)
		}
	}

	logger.Infof("MCP server ready with %d tools", len(server.Tools()))
	return server.Serve(os.Stdin, os.Stdout)
}
