package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/roadhelper/roadhelper/internal/pkg/constants"
	"github.com/roadhelper/roadhelper/internal/pkg/database"
	"github.com/roadhelper/roadhelper/internal/pkg/models"
)

// LocationRepo implements the users.LocationRepo interface on Redis. The
// available pool is a set, positions live in one geo index keyed by helper ID.
type LocationRepo struct {
	cfg   *models.Config
	redis *database.RedisClient
}

// NewLocationRepository creates a new location repository
func NewLocationRepository(cfg *models.Config, redis *database.RedisClient) *LocationRepo {
	return &LocationRepo{
		cfg:   cfg,
		redis: redis,
	}
}

// MarkAvailable adds the helper to the available pool at a position
func (r *LocationRepo) MarkAvailable(ctx context.Context, helperID uuid.UUID, location models.Location) error {
	id := helperID.String()

	if err := r.redis.GeoAdd(ctx, constants.KeyHelperGeo, location.Longitude, location.Latitude, id); err != nil {
		return fmt.Errorf("failed to index helper position: %w", err)
	}
	if err := r.redis.SAdd(ctx, constants.KeyAvailableHelpers, id); err != nil {
		return fmt.Errorf("failed to add helper to available pool: %w", err)
	}
	return nil
}

// MarkUnavailable removes the helper from the available pool. The geo entry
// stays behind; lookups filter on pool membership.
func (r *LocationRepo) MarkUnavailable(ctx context.Context, helperID uuid.UUID) error {
	if err := r.redis.SRem(ctx, constants.KeyAvailableHelpers, helperID.String()); err != nil {
		return fmt.Errorf("failed to remove helper from available pool: %w", err)
	}
	return nil
}

// UpdateLocation refreshes the helper's position
func (r *LocationRepo) UpdateLocation(ctx context.Context, helperID uuid.UUID, location models.Location) error {
	if err := r.redis.GeoAdd(ctx, constants.KeyHelperGeo, location.Longitude, location.Latitude, helperID.String()); err != nil {
		return fmt.Errorf("failed to update helper position: %w", err)
	}
	return nil
}

// NearbyHelpers returns available helpers within radiusKm, closest first
func (r *LocationRepo) NearbyHelpers(ctx context.Context, location models.Location, radiusKm float64, limit int) ([]models.NearbyHelper, error) {
	// Overfetch so filtering out unavailable helpers still fills the limit
	candidates, err := r.redis.GeoRadius(ctx, constants.KeyHelperGeo, location.Longitude, location.Latitude, radiusKm, "km", limit*2)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby helpers: %w", err)
	}

	helpers := make([]models.NearbyHelper, 0, limit)
	for _, candidate := range candidates {
		available, err := r.redis.SIsMember(ctx, constants.KeyAvailableHelpers, candidate.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check helper availability: %w", err)
		}
		if !available {
			continue
		}

		helpers = append(helpers, models.NearbyHelper{
			ID:         candidate.Name,
			Latitude:   candidate.Latitude,
			Longitude:  candidate.Longitude,
			DistanceKm: candidate.Dist,
		})
		if len(helpers) == limit {
			break
		}
	}

	return helpers, nil
}
