package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Adda-Baaj/sepush/internal/app"
	"github.com/Adda-Baaj/sepush/internal/config"
	"github.com/Adda-Baaj/sepush/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "notifier start failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.InfoObj("notifier starting", "config", cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifier, err := app.NewNotifier(ctx, cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize notifier", "error", err.Error())
		return err
	}

	if err := notifier.Run(ctx); err != nil {
		return fmt.Errorf("notifier run: %w", err)
	}

	return nil
}
