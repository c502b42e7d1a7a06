// Package main - Entry point for the tariffcheck HTTP server
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"tariffcheck/api"
	"tariffcheck/core/engine"
	"tariffcheck/internal/config"
	"tariffcheck/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", config.DefaultPath(), "Config file")
	addr := flag.String("addr", "", "Server address (default from config)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	defer logging.Sync()

	if *addr == "" {
		*addr = cfg.Server.Addr
	}

	e, err := engine.FromConfig(cfg.Tariff)
	if err != nil {
		logging.Error("engine init failed", zap.Error(err))
		os.Exit(1)
	}

	logging.Info("tariffcheck server starting", zap.String("version", version), zap.String("addr", *addr))
	if err := api.NewServer(e, version).ListenAndServe(*addr); err != nil {
		logging.Error("server stopped", zap.Error(err))
		os.Exit(1)
	}
}
