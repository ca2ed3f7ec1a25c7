package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roadhelper/roadhelper/internal/pkg/logger"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/roadhelper/roadhelper/services/users"
)

// UserUC implements the users.UserUC interface
type UserUC struct {
	cfg       *models.Config
	repo      users.UserRepo
	locations users.LocationRepo
}

// NewUserUC creates a new user usecase
func NewUserUC(cfg *models.Config, repo users.UserRepo, locations users.LocationRepo) *UserUC {
	return &UserUC{
		cfg:       cfg,
		repo:      repo,
		locations: locations,
	}
}

// GetProfile returns the user's profile
func (uc *UserUC) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return uc.repo.GetUser(ctx, userID)
}

// UpdateProfile updates the mutable profile fields and returns the fresh record
func (uc *UserUC) UpdateProfile(ctx context.Context, userID uuid.UUID, input models.UpdateProfileRequest) (*models.User, error) {
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	for _, svc := range input.Services {
		if !models.ServiceType(svc).Valid() {
			return nil, fmt.Errorf("unknown service type: %s", svc)
		}
	}

	if err := uc.repo.UpdateProfile(ctx, userID, input); err != nil {
		return nil, err
	}

	return uc.repo.GetUser(ctx, userID)
}

// SetAvailability toggles the helper's presence in nearby lookups. Going
// available requires a position so the helper lands in the geo index.
func (uc *UserUC) SetAvailability(ctx context.Context, helperID uuid.UUID, available bool, location *models.Location) error {
	helper, err := uc.repo.GetUser(ctx, helperID)
	if err != nil {
		return err
	}
	if !helper.IsHelper() {
		return users.ErrNotAHelper
	}

	if available {
		if location == nil {
			return fmt.Errorf("a location is required to go available")
		}
		if err := uc.locations.MarkAvailable(ctx, helperID, *location); err != nil {
			return err
		}
	} else {
		if err := uc.locations.MarkUnavailable(ctx, helperID); err != nil {
			return err
		}
	}

	if err := uc.repo.SetAvailability(ctx, helperID, available); err != nil {
		return err
	}

	logger.Info("Helper availability changed",
		logger.String("helper_id", helperID.String()),
		logger.Bool("available", available))

	return nil
}

// UpdateHelperLocation refreshes the helper's position in the geo index
func (uc *UserUC) UpdateHelperLocation(ctx context.Context, helperID uuid.UUID, location models.Location) error {
	helper, err := uc.repo.GetUser(ctx, helperID)
	if err != nil {
		return err
	}
	if !helper.IsHelper() {
		return users.ErrNotAHelper
	}

	return uc.locations.UpdateLocation(ctx, helperID, location)
}

// NearbyHelpers returns available helpers around a location using the
// configured radius and limit
func (uc *UserUC) NearbyHelpers(ctx context.Context, location models.Location) ([]models.NearbyHelper, error) {
	radius := uc.cfg.Helpers.NearbyRadiusKm
	if radius <= 0 {
		radius = 10
	}
	limit := uc.cfg.Helpers.NearbyLimit
	if limit <= 0 {
		limit = 20
	}

	return uc.locations.NearbyHelpers(ctx, location, radius, limit)
}
