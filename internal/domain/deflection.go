package domain

import "fmt"

// EarthRadiusKm is Earth's mean radius. A miss distance beyond it clears the planet.
const EarthRadiusKm = 6371.0

// DeflectionInput describes a kinetic-impactor push on an approaching body.
type DeflectionInput struct {
	MissDistanceKm float64 `json:"miss_distance_km"`
	VelocityKmS    float64 `json:"velocity_km_s"`
	DeltaVMS       float64 `json:"delta_v_m_s"`
}

// DeflectionResult holds the revised miss distance after a push.
type DeflectionResult struct {
	NewMissDistanceKm float64 `json:"new_miss_distance_km"`
	ClearsEarth       bool    `json:"clears_earth"`
}

// TimeToImpact returns the seconds a body at the given distance and speed
// needs to cover that distance.
func TimeToImpact(missDistanceKm, velocityKmS float64) float64 {
	return (missDistanceKm * 1000) / (velocityKmS * 1000)
}

// PositionChange returns the lateral displacement in meters produced by a
// delta-v applied for the whole time to impact.
func PositionChange(missDistanceKm, velocityKmS, deltaVMS float64) float64 {
	return deltaVMS * TimeToImpact(missDistanceKm, velocityKmS)
}

// CalculateDeflection estimates the new miss distance after applying deltaVMS
// to a body approaching at velocityKmS. A negative delta-v pushes the body
// toward Earth.
func CalculateDeflection(missDistanceKm, velocityKmS, deltaVMS float64) (DeflectionResult, error) {
	if !isNonNegative(missDistanceKm) || !isNonNegative(velocityKmS) || !isFinite(deltaVMS) {
		return DeflectionResult{}, fmt.Errorf("%w: miss distance and velocity must be finite and non-negative, delta-v finite", ErrInvalidInput)
	}
	if velocityKmS == 0 {
		return DeflectionResult{}, ErrZeroVelocity
	}

	shiftM := PositionChange(missDistanceKm, velocityKmS, deltaVMS)
	newMiss := round(missDistanceKm+shiftM/1000, 2)
	if !isFinite(newMiss) {
		return DeflectionResult{}, fmt.Errorf("%w: miss distance overflows", ErrInvalidInput)
	}

	return DeflectionResult{
		NewMissDistanceKm: newMiss,
		ClearsEarth:       newMiss > EarthRadiusKm,
	}, nil
}
