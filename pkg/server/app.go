package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ForecastAI/pkg/config"
	xhttp "ForecastAI/pkg/http"
	applogger "ForecastAI/pkg/logger"
)

// EventHub is closed on shutdown so websocket subscribers disconnect.
type EventHub interface {
	Close()
}

// Drainer waits for background work started by requests.
type Drainer interface {
	Drain(ctx context.Context) error
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	httpServer *xhttp.Server
	hub        EventHub
	work       Drainer
	logger     *applogger.Logger
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, srv *xhttp.Server, hub EventHub, work Drainer, l *applogger.Logger) *App {
	if l == nil {
		l = applogger.Nop()
	}
	return &App{cfg: cfg, httpServer: srv, hub: hub, work: work, logger: l}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("forecast service started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("advisory_provider", a.cfg.Advisory.Provider),
		applogger.Bool("redis", a.cfg.Redis.Enabled))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.Shutdown(context.Background())
}

// Shutdown stops accepting requests, disconnects subscribers and waits for
// outstanding advisory calls, all within the configured shutdown timeout.
func (a *App) Shutdown(ctx context.Context) error {
	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	if a.hub != nil {
		a.hub.Close()
	}

	if a.work != nil {
		if err := a.work.Drain(ctx); err != nil {
			a.logger.Warn("advisory calls still running at shutdown", applogger.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	a.logger.Info("shutdown complete")
	return firstErr
}
