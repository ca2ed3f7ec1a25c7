package users

import (
	"context"

	"github.com/google/uuid"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// UserUC defines the business logic contract for accounts and helper presence
type UserUC interface {
	Register(ctx context.Context, input models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, input models.LoginRequest) (*models.AuthResponse, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input models.UpdateProfileRequest) (*models.User, error)

	// SetAvailability toggles whether the helper appears in nearby lookups.
	// Going available requires a position.
	SetAvailability(ctx context.Context, helperID uuid.UUID, available bool, location *models.Location) error

	// UpdateHelperLocation refreshes an available helper's position
	UpdateHelperLocation(ctx context.Context, helperID uuid.UUID, location models.Location) error

	// NearbyHelpers returns available helpers around a location for the
	// customer's map view
	NearbyHelpers(ctx context.Context, location models.Location) ([]models.NearbyHelper, error)
}
