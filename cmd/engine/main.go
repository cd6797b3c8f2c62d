package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jkaufman-LogRhythm/Uncoder-IO/config"
	"github.com/jkaufman-LogRhythm/Uncoder-IO/engine"
)

// connector is implemented by storages that hold a connection.
type connector interface {
	Connect(ctx context.Context) error
	Close() error
}

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "./.config.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		panic(err)
	}

	engineCfg, logger, err := cfg.Parse()
	if err != nil {
		if logger != nil {
			logger.Error("cannot parse config file", "error", err)
			os.Exit(1)
		}
		panic(fmt.Errorf("cannot parse config file: %w", err))
	}

	// Setup signal handling to catch Ctrl+C (SIGINT) or Terminate (SIGTERM)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info("received signal. shutting down.", "signal", sig)
		cancel()
	}()

	if c, ok := engineCfg.Storage.(connector); ok {
		if err := c.Connect(ctx); err != nil {
			logger.Error("storage error.", "error", err)
			os.Exit(1)
		}
		defer c.Close()
	}

	e, err := engine.New(*engineCfg, logger)
	if err != nil {
		logger.Error("engine error.", "error", err)
		os.Exit(1)
	}

	if err := e.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("engine error.", "error", err)
	}

	logger.Info("engine stopped.")
}
