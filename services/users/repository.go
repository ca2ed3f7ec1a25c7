package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// UserRepo defines the data access contract for user accounts
type UserRepo interface {
	// CreateUser inserts a new account; it returns ErrEmailTaken when the
	// email is already registered.
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)

	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	UpdateProfile(ctx context.Context, userID uuid.UUID, input models.UpdateProfileRequest) error

	// SetAvailability flips the helper's availability flag on the profile
	SetAvailability(ctx context.Context, userID uuid.UUID, available bool) error
}

// LocationRepo tracks helper availability and positions for geo lookups
type LocationRepo interface {
	// MarkAvailable adds the helper to the available pool at a position
	MarkAvailable(ctx context.Context, helperID uuid.UUID, location models.Location) error

	// MarkUnavailable removes the helper from the available pool
	MarkUnavailable(ctx context.Context, helperID uuid.UUID) error

	// UpdateLocation refreshes the helper's position without changing
	// availability
	UpdateLocation(ctx context.Context, helperID uuid.UUID, location models.Location) error

	// NearbyHelpers returns available helpers within radiusKm of the
	// location, closest first
	NearbyHelpers(ctx context.Context, location models.Location, radiusKm float64, limit int) ([]models.NearbyHelper, error)
}
