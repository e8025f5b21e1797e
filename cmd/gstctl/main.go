package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"gstreport/internal/config"
	"gstreport/internal/logger"
)

var version = "dev"

func main() {
	// A .env file is optional for the CLI.
	_ = godotenv.Load()

	log := logger.NewWithWriter(config.LogConfig{
		Level:  envOr("GSTREPORT_LOG_LEVEL", "warn"),
		Format: "console",
	}, os.Stderr)
	defer func() { _ = log.Sync() }()

	root := newRootCmd(os.Stdout, log)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
