package domain

import (
	"context"
	"errors"
)

var (
	// ErrInvalidInput reports a physical input that is negative, NaN, or infinite.
	ErrInvalidInput = errors.New("invalid input")

	// ErrZeroVelocity reports a deflection request for a body that is not moving.
	ErrZeroVelocity = errors.New("velocity must be greater than zero")

	// ErrNonPositiveEnergy reports a seismic magnitude request for zero or negative energy.
	ErrNonPositiveEnergy = errors.New("kinetic energy must be positive")
)

// AsteroidRecord is the simplified view of one upstream near-Earth object.
type AsteroidRecord struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	DiameterM         float64 `json:"diameter_m"`
	VelocityKmS       float64 `json:"velocity_km_s"`
	MissDistanceKm    float64 `json:"miss_distance_km"`
	CloseApproachDate string  `json:"close_approach_date,omitempty"`
	Hazardous         bool    `json:"hazardous"`
}

// AverageDiameter returns the midpoint of a min/max diameter estimate.
func AverageDiameter(minM, maxM float64) float64 {
	return (minM + maxM) / 2
}

// AsteroidFeed lists the near-Earth objects approaching in the current feed window.
type AsteroidFeed interface {
	FetchAsteroids(ctx context.Context) ([]AsteroidRecord, error)
}
