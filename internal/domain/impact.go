package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	rockyAsteroidDensity = 3000.0 // kg/m³
	joulesPerMegatonTNT  = 4.184e15

	craterScaleKm  = 0.02
	craterExponent = 0.294
)

// ImpactInput is the body whose impact is being estimated.
type ImpactInput struct {
	DiameterM   float64 `json:"diameter_m"`
	VelocityKmS float64 `json:"velocity_km_s"`
}

// ImpactResult holds the rounded impact estimates. SeismicMagnitude is nil
// when the body carries no kinetic energy.
type ImpactResult struct {
	EnergyMegatons   float64  `json:"energy_megatons"`
	CraterDiameterKm float64  `json:"crater_diameter_km"`
	SeismicMagnitude *float64 `json:"seismic_magnitude"`
}

// Mass returns the mass in kg of a rocky sphere with the given diameter.
func Mass(diameterM float64) float64 {
	radius := diameterM / 2
	return rockyAsteroidDensity * (4.0 / 3.0) * math.Pi * math.Pow(radius, 3)
}

// KineticEnergy returns the kinetic energy in joules of a rocky sphere.
func KineticEnergy(diameterM, velocityKmS float64) float64 {
	velocityMS := velocityKmS * 1000
	return 0.5 * Mass(diameterM) * velocityMS * velocityMS
}

// SeismicMagnitude converts kinetic energy in joules to a Richter-scale
// magnitude. The logarithm is undefined for non-positive energy.
func SeismicMagnitude(energyJ float64) (float64, error) {
	if !(energyJ > 0) {
		return 0, ErrNonPositiveEnergy
	}
	return (2.0/3.0)*math.Log10(energyJ) - 2.9, nil
}

// CraterDiameter returns the estimated crater diameter in km for the given
// kinetic energy in joules.
func CraterDiameter(energyJ float64) float64 {
	return craterScaleKm * math.Pow(energyJ, craterExponent)
}

// CalculateImpact estimates the energy release, crater size, and seismic
// magnitude of an impact.
func CalculateImpact(diameterM, velocityKmS float64) (ImpactResult, error) {
	if !isNonNegative(diameterM) || !isNonNegative(velocityKmS) {
		return ImpactResult{}, fmt.Errorf("%w: diameter and velocity must be finite and non-negative", ErrInvalidInput)
	}

	energy := KineticEnergy(diameterM, velocityKmS)
	if math.IsInf(energy, 0) {
		return ImpactResult{}, fmt.Errorf("%w: kinetic energy overflows", ErrInvalidInput)
	}

	result := ImpactResult{
		EnergyMegatons:   round(energy/joulesPerMegatonTNT, 2),
		CraterDiameterKm: round(CraterDiameter(energy), 2),
	}

	magnitude, err := SeismicMagnitude(energy)
	if err != nil {
		return result, nil
	}
	magnitude = round(magnitude, 1)
	result.SeismicMagnitude = &magnitude
	return result, nil
}

// round rounds half away from zero to the given number of decimal places.
func round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func isNonNegative(v float64) bool {
	return isFinite(v) && v >= 0
}
