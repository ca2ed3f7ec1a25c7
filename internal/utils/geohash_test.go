package utils

import (
	"testing"

	"github.com/roadhelper/roadhelper/internal/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestEncodeLocation(t *testing.T) {
	loc := models.Location{Latitude: 24.8607, Longitude: 67.0011} // Karachi

	hash := EncodeLocation(loc, 5)
	assert.Len(t, hash, 5)

	// Same area encodes to the same bucket
	nearby := models.Location{Latitude: 24.8610, Longitude: 67.0015}
	assert.Equal(t, hash, EncodeLocation(nearby, 5))
}

func TestGetNeighbors(t *testing.T) {
	hash := EncodeLocation(models.Location{Latitude: 24.8607, Longitude: 67.0011}, 5)

	neighbors := GetNeighbors(hash)

	assert.Len(t, neighbors, 8)
	assert.NotContains(t, neighbors, hash)
}
