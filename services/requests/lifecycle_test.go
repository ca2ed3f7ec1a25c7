package requests

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from models.RequestStatus
		to   models.RequestStatus
		want bool
	}{
		{"pending to accepted", models.StatusPending, models.StatusAccepted, true},
		{"pending to cancelled", models.StatusPending, models.StatusCancelled, true},
		{"accepted to en-route", models.StatusAccepted, models.StatusEnRoute, true},
		{"accepted to cancelled", models.StatusAccepted, models.StatusCancelled, true},
		{"en-route to arrived", models.StatusEnRoute, models.StatusArrived, true},
		{"arrived to completed", models.StatusArrived, models.StatusCompleted, true},
		{"pending skips to en-route", models.StatusPending, models.StatusEnRoute, false},
		{"accepted skips to arrived", models.StatusAccepted, models.StatusArrived, false},
		{"en-route cannot cancel", models.StatusEnRoute, models.StatusCancelled, false},
		{"arrived cannot cancel", models.StatusArrived, models.StatusCancelled, false},
		{"arrived cannot regress", models.StatusArrived, models.StatusEnRoute, false},
		{"completed is terminal", models.StatusCompleted, models.StatusCancelled, false},
		{"cancelled is terminal", models.StatusCancelled, models.StatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminal(models.StatusCompleted))
	assert.True(t, IsTerminal(models.StatusCancelled))
	assert.False(t, IsTerminal(models.StatusPending))
	assert.False(t, IsTerminal(models.StatusAccepted))
	assert.False(t, IsTerminal(models.StatusEnRoute))
	assert.False(t, IsTerminal(models.StatusArrived))
}

func TestPredecessorOf(t *testing.T) {
	from, ok := PredecessorOf(models.StatusEnRoute)
	assert.True(t, ok)
	assert.Equal(t, models.StatusAccepted, from)

	from, ok = PredecessorOf(models.StatusArrived)
	assert.True(t, ok)
	assert.Equal(t, models.StatusEnRoute, from)

	from, ok = PredecessorOf(models.StatusCompleted)
	assert.True(t, ok)
	assert.Equal(t, models.StatusArrived, from)

	_, ok = PredecessorOf(models.StatusPending)
	assert.False(t, ok)
	_, ok = PredecessorOf(models.StatusAccepted)
	assert.False(t, ok)
	_, ok = PredecessorOf(models.StatusCancelled)
	assert.False(t, ok)
}

func TestCancellable(t *testing.T) {
	assert.True(t, Cancellable(models.StatusPending))
	assert.True(t, Cancellable(models.StatusAccepted))
	assert.False(t, Cancellable(models.StatusEnRoute))
	assert.False(t, Cancellable(models.StatusArrived))
	assert.False(t, Cancellable(models.StatusCompleted))
	assert.False(t, Cancellable(models.StatusCancelled))
}
