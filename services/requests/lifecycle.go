package requests

import "github.com/roadhelper/roadhelper/internal/pkg/models"

// transitions is the forward transition graph for a help request.
// A request never leaves a terminal status.
var transitions = map[models.RequestStatus][]models.RequestStatus{
	models.StatusPending:   {models.StatusAccepted, models.StatusCancelled},
	models.StatusAccepted:  {models.StatusEnRoute, models.StatusCancelled},
	models.StatusEnRoute:   {models.StatusArrived},
	models.StatusArrived:   {models.StatusCompleted},
	models.StatusCompleted: {},
	models.StatusCancelled: {},
}

// CanTransition reports whether a request may move from one status to another
func CanTransition(from, to models.RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status permits no further transitions
func IsTerminal(status models.RequestStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// PredecessorOf returns the status a request must currently hold for the
// assigned helper to advance it to target. The second return is false for
// statuses a helper cannot advance to directly.
func PredecessorOf(target models.RequestStatus) (models.RequestStatus, bool) {
	switch target {
	case models.StatusEnRoute:
		return models.StatusAccepted, true
	case models.StatusArrived:
		return models.StatusEnRoute, true
	case models.StatusCompleted:
		return models.StatusArrived, true
	}
	return "", false
}

// Cancellable reports whether the owning customer may still cancel
func Cancellable(status models.RequestStatus) bool {
	return status == models.StatusPending || status == models.StatusAccepted
}
