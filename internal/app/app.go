package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"repohub/internal/config"
	"repohub/internal/queue"
	"repohub/internal/sse"
	"repohub/internal/telemetry"
)

type App struct {
	cfg           *config.Config
	hub           *sse.Hub
	consumer      queue.Consumer
	dispatcher    *queue.Dispatcher
	server        *http.Server
	logger        *zap.Logger
	stopTelemetry telemetry.ShutdownFunc
	wg            sync.WaitGroup
}

func NewApp(
	cfg *config.Config,
	hub *sse.Hub,
	consumer queue.Consumer,
	dispatcher *queue.Dispatcher,
	router *gin.Engine,
	logger *zap.Logger,
) *App {
	// Request contexts hang off baseCtx so open event streams end when shutdown begins.
	baseCtx, cancelRequests := context.WithCancel(context.Background())
	server := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     router,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelRequests)

	return &App{
		cfg:        cfg,
		hub:        hub,
		consumer:   consumer,
		dispatcher: dispatcher,
		server:     server,
		logger:     logger,
	}
}

// Run blocks serving HTTP until the server is shut down.
func (a *App) Run(ctx context.Context) error {
	stop, err := telemetry.Init(ctx, a.cfg)
	if err != nil {
		return err
	}
	a.stopTelemetry = stop

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.hub.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.dispatcher.Run(ctx)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.consumer.Start(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error("consumer stopped", zap.Error(err))
		}
	}()

	a.logger.Info("http server listening", zap.String("addr", a.cfg.HTTPAddr))
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("graceful shutdown started")
	shutdownErr := a.server.Shutdown(ctx)

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if shutdownErr != nil {
			return shutdownErr
		}
		return ctx.Err()
	}

	if a.stopTelemetry != nil {
		if err := a.stopTelemetry(ctx); err != nil {
			a.logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}
	a.logger.Info("graceful shutdown completed")
	return shutdownErr
}

func (a *App) Logger() *zap.Logger {
	return a.logger
}
