// retronet drives RetroNet visitor state from the command line.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ashureev/retronet/internal/cli"
	"github.com/ashureev/retronet/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	// Output goes to stdout, so logs go to stderr.
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	cfg, err := config.LoadClient()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: config.ParseLogLevel(cfg.LogLevel),
	})))

	if err := cli.Execute(context.Background(), cfg); err != nil {
		os.Exit(1)
	}
}
