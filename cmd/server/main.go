package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatalf("repohub: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := InitializeApp()
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}
	logger := app.Logger()
	defer func() {
		_ = logger.Sync()
	}()

	served := make(chan error, 1)
	go func() {
		served <- app.Run(ctx)
	}()

	var runErr error
	select {
	case runErr = <-served:
		if runErr != nil {
			logger.Error("http server stopped", zap.Error(runErr))
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}
	// Background workers watch ctx; release them before draining.
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}
