package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// GracefulServer wraps the Echo server with signal-driven shutdown
type GracefulServer struct {
	echo *echo.Echo
	cfg  models.ServerConfig
}

// NewGracefulServer creates a new server with graceful shutdown
func NewGracefulServer(e *echo.Echo, cfg models.ServerConfig) *GracefulServer {
	return &GracefulServer{
		echo: e,
		cfg:  cfg,
	}
}

// Start runs the server and blocks until SIGINT or SIGTERM, then shuts down
func (s *GracefulServer) Start() error {
	go func() {
		addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
		logger.Info("Starting HTTP server", logger.String("address", addr))

		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.Err(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	sig := <-quit
	logger.Info("Received shutdown signal", logger.String("signal", sig.String()))

	return s.Shutdown()
}

// Shutdown stops the server, waiting out in-flight requests up to the
// configured timeout
func (s *GracefulServer) Shutdown() error {
	timeout := time.Duration(s.cfg.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.Err(err))
		return err
	}

	logger.Info("Server shutdown completed")
	return nil
}

// ShutdownManager collects cleanup functions to run after the HTTP server
// stops accepting traffic
type ShutdownManager struct {
	functions []func(context.Context) error
}

// NewShutdownManager creates a new shutdown manager
func NewShutdownManager() *ShutdownManager {
	return &ShutdownManager{
		functions: make([]func(context.Context) error, 0),
	}
}

// Register adds a cleanup function to be called during shutdown
func (sm *ShutdownManager) Register(fn func(context.Context) error) {
	sm.functions = append(sm.functions, fn)
}

// Shutdown executes all registered cleanup functions. A failing component
// does not stop the rest from closing.
func (sm *ShutdownManager) Shutdown(ctx context.Context) error {
	logger.Info("Starting graceful shutdown of components",
		logger.Int("components", len(sm.functions)))

	for i, fn := range sm.functions {
		if err := fn(ctx); err != nil {
			logger.Error("Error during component shutdown",
				logger.Int("component", i),
				logger.Err(err))
		}
	}

	logger.Info("All components shutdown completed")
	return nil
}
