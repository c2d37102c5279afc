package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	moltbook "github.com/paulgrammer/moltbook-mcp"
)

func main() {
	var (
		configFile = flag.String("config", os.Getenv("MOLTBOOK_CONFIG"), "Path to an optional YAML config file")
		transport  = flag.String("transport", "", "MCP transport: stdio or sse (overrides config)")
		logLevel   = flag.String("log-level", getEnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")
	)
	flag.Parse()

	// stdout carries the stdio MCP stream, so logs go to stderr
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(*logLevel),
	}))
	slog.SetDefault(logger)

	logger.Info("Starting Moltbook MCP Server...")

	cfg, err := moltbook.LoadConfig(*configFile)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Starting without a key keeps moltbook_register_agent usable
	if cfg.APIKey == "" {
		logger.Warn("No API key found, limited functionality (registration only)", "env", moltbook.EnvAPIKey)
	}

	gateway, err := moltbook.NewGateway(cfg, moltbook.WithLogger(logger))
	if err != nil {
		logger.Error("Failed to create gateway", "error", err)
		os.Exit(1)
	}

	opts := []moltbook.ServerOption{moltbook.WithServerLogger(logger)}
	if *transport != "" {
		opts = append(opts, moltbook.WithTransport(strings.ToLower(*transport)))
	}

	srv, err := moltbook.NewServer(cfg, gateway, opts...)
	if err != nil {
		logger.Error("Failed to create server", "error", err)
		os.Exit(1)
	}
	defer srv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Serve(ctx); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}

	logger.Info("Moltbook MCP Server stopped")
}

func parseLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// getEnvOrDefault returns the value of the environment variable or a default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
