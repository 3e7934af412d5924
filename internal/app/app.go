package app

import (
	"context"
	"errors"
	stdhttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/tutorcall-signal/internal/config"
	"github.com/vovakirdan/tutorcall-signal/internal/core"
	transporthttp "github.com/vovakirdan/tutorcall-signal/internal/transport/http"
)

// App wires together core and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	registry        *core.Registry
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(cfg *config.Config, logger *zerolog.Logger) *App {
	gin.SetMode(gin.ReleaseMode)

	registry := core.NewRegistry()
	relay := core.NewRelay(registry, logger, cfg.JoinTimeout)
	server := transporthttp.NewServer(relay, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		registry:        registry,
		log:             logger,
	}
}

// Handler exposes the root HTTP handler.
func (a *App) Handler() stdhttp.Handler {
	return a.server.Handler
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go func() {
		a.log.Info().Str("addr", a.server.Addr).Msg("signaling server listening")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		stats := a.registry.Stats()
		a.log.Info().Int("rooms", stats.Rooms).Int("peers", stats.Peers).Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
