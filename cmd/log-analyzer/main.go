package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"log-analyzer/internal/app"
	"log-analyzer/internal/shared/configs"
	"log-analyzer/internal/shared/loggers"

	"github.com/spf13/pflag"
)

// defaultConfigPath is used when --config is given without a value.
const defaultConfigPath = "./config"

func main() {
	os.Exit(run())
}

func run() int {
	configPath := pflag.String("config", "", "path to JSON config file")
	pflag.Lookup("config").NoOptDefVal = defaultConfigPath
	pflag.Parse()

	// Load configuration
	cfg, err := configs.LoadConfig(*configPath)
	if err != nil {
		bootLogger, _, _ := loggers.New("info", "")
		loggers.Critical(&bootLogger).Err(err).Msg("failed to load config")
		return 1
	}

	// Initialize application
	application, err := app.New(cfg)
	if err != nil {
		bootLogger, _, _ := loggers.New("info", "")
		loggers.Critical(&bootLogger).Err(err).Msg("failed to initialize app")
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := application.RunOnce(ctx); err != nil {
		return 1
	}
	return 0
}
