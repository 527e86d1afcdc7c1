// Package mockapi serves an in-memory stand-in for the cluster API. It
// speaks the same wire format as the real service, checks request bodies
// against the SDK models and finishes asynchronous tasks immediately,
// which makes it suitable for local development and end-to-end tests of
// the SDK and the CLI.
package mockapi

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/birbparty/clusterapi/internal/telemetry"
)

// Server bundles the fiber app with its state
type Server struct {
	App       *fiber.App
	Store     *Store
	Callbacks *CallbackDispatcher

	cfg    *Config
	logger *logrus.Logger
}

// NewServer builds a ready to serve mock API
func NewServer(cfg *Config, logger *logrus.Logger, metrics *telemetry.Metrics) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	seed, err := LoadSeed(cfg.SeedFile)
	if err != nil {
		return nil, err
	}
	store := NewStore()
	if err := store.Load(seed); err != nil {
		return nil, fmt.Errorf("failed to load seed: %w", err)
	}

	callbacks := NewCallbackDispatcher(CallbackConfig{
		QueueSize:  cfg.CallbackQueueSize,
		Workers:    cfg.CallbackWorkers,
		MaxRetries: cfg.CallbackMaxRetries,
	}, logger, metrics)

	app := fiber.New(fiber.Config{
		AppName:               "Cluster API mock",
		ErrorHandler:          ErrorHandler(logger),
		ReadTimeout:           time.Duration(cfg.RequestTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.RequestTimeout) * time.Second,
		IdleTimeout:           120 * time.Second,
		DisableStartupMessage: true,
	})

	SetupMiddleware(app, logger, metrics)
	SetupRoutes(app, NewHandler(store, callbacks, cfg, logger), cfg, metrics)

	return &Server{
		App:       app,
		Store:     store,
		Callbacks: callbacks,
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Listen serves on the configured address until Shutdown
func (s *Server) Listen() error {
	s.logger.WithFields(logrus.Fields{
		"addr":      s.cfg.Addr(),
		"base_path": s.cfg.BasePath,
		"auth":      s.cfg.APIToken != "",
	}).Info("Mock cluster API listening")
	return s.App.Listen(s.cfg.Addr())
}

// Serve serves on an existing listener until Shutdown
func (s *Server) Serve(ln net.Listener) error {
	return s.App.Listener(ln)
}

// Shutdown stops the server, then drains the callback queue
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.App.ShutdownWithContext(ctx)
	s.Callbacks.Shutdown()
	return err
}
