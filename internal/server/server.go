// Package server runs the HTTP API together with the websocket hub.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/bootstrap"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/config"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/helpers"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/pkg/websocket"
	"github.com/rs/zerolog"
)

// Server owns the HTTP listener, the database pool and the background workers
type Server struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration from configPath, prepares the database and wires the API.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(context.Background(), cfg, pool, lgr)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("build dependencies: %w", err)
	}

	router, err := bootstrap.SetupRouter(cfg, deps, lgr)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("setup router: %w", err)
	}

	return &Server{
		cfg:    cfg,
		pool:   pool,
		deps:   deps,
		logger: lgr,
		http: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       helpers.ParseDuration(cfg.Server.ReadTimeout, 30*time.Second),
			WriteTimeout:      helpers.ParseDuration(cfg.Server.WriteTimeout, 60*time.Second),
			IdleTimeout:       2 * time.Minute,
		},
	}, nil
}

// Run serves until SIGINT or SIGTERM, then shuts everything down.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.deps.Hub.Run(ctx)
	websocket.NewMessageHandler(s.deps.NotificationService, s.deps.Hub, s.logger).Start(ctx)

	listenErr := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		listenErr <- s.http.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-listenErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}
	stop()

	return errors.Join(runErr, s.shutdown())
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(),
		helpers.ParseDuration(s.cfg.Server.ShutdownTimeout, 10*time.Second))
	defer cancel()

	var err error
	if shutdownErr := s.http.Shutdown(ctx); shutdownErr != nil {
		s.logger.Error().Err(shutdownErr).Msg("HTTP server shutdown error")
		err = shutdownErr
	}
	s.pool.Close()

	s.logger.Info().Msg("Server stopped")
	return err
}
