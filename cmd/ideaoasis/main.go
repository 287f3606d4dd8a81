package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"IdeaOasis/internal/app"
	"IdeaOasis/internal/config"
	"IdeaOasis/internal/logging"
)

func main() {
	once := flag.Bool("once", false, "run a single discovery pass and exit")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application startup failed", "error", err)
		os.Exit(1)
	}

	if *once {
		err = application.RunOnce(ctx)
		if shutdownErr := application.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("shutdown", "error", shutdownErr)
		}
	} else {
		err = application.Start(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
