package health

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/roadhelper/roadhelper/internal/pkg/database"
	natspkg "github.com/roadhelper/roadhelper/internal/pkg/nats"
)

// Checker verifies a single dependency is reachable
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// NewPostgresChecker returns a checker pinging the database
func NewPostgresChecker(client *database.PostgresClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx)
	})
}

// NewRedisChecker returns a checker pinging Redis
func NewRedisChecker(client *database.RedisClient) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return client.Ping(ctx)
	})
}

// NewNATSChecker returns a checker verifying the NATS connection
func NewNATSChecker(client *natspkg.Client) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		if !client.IsConnected() {
			return context.DeadlineExceeded
		}
		return nil
	})
}

// Service aggregates dependency checkers
type Service struct {
	checkers map[string]Checker
}

// NewService creates a new health service
func NewService() *Service {
	return &Service{checkers: make(map[string]Checker)}
}

// AddChecker registers a named dependency checker
func (s *Service) AddChecker(name string, checker Checker) {
	s.checkers[name] = checker
}

type status struct {
	Service    string            `json:"service"`
	Version    string            `json:"version"`
	Status     string            `json:"status"`
	ServerTime time.Time         `json:"server_time"`
	Checks     map[string]string `json:"checks,omitempty"`
}

// RegisterEndpoints registers liveness and readiness endpoints
func RegisterEndpoints(e *echo.Echo, serviceName, version string, s *Service) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, status{
			Service:    serviceName,
			Version:    version,
			Status:     "ok",
			ServerTime: time.Now(),
		})
	})

	e.GET("/ready", func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		checks := make(map[string]string, len(s.checkers))
		healthy := true
		for name, checker := range s.checkers {
			if err := checker.Check(ctx); err != nil {
				checks[name] = err.Error()
				healthy = false
			} else {
				checks[name] = "ok"
			}
		}

		code := http.StatusOK
		overall := "ok"
		if !healthy {
			code = http.StatusServiceUnavailable
			overall = "degraded"
		}

		return c.JSON(code, status{
			Service:    serviceName,
			Version:    version,
			Status:     overall,
			ServerTime: time.Now(),
			Checks:     checks,
		})
	})
}
