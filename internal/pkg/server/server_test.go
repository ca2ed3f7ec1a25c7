package server

import (
	"context"
	"errors"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

func TestGracefulServer_Shutdown(t *testing.T) {
	e := echo.New()
	srv := NewGracefulServer(e, models.ServerConfig{Port: 0, ShutdownTimeout: 1})

	// Shutting down a server that never started is a no-op
	err := srv.Shutdown()
	assert.NoError(t, err)
}

func TestShutdownManager_RunsAllFunctions(t *testing.T) {
	sm := NewShutdownManager()

	var order []int
	sm.Register(func(_ context.Context) error {
		order = append(order, 1)
		return nil
	})
	sm.Register(func(_ context.Context) error {
		order = append(order, 2)
		return errors.New("close failed")
	})
	sm.Register(func(_ context.Context) error {
		order = append(order, 3)
		return nil
	})

	err := sm.Shutdown(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, order)
}
