// Package domain models near-Earth objects (NEOs) and the closed-form impact
// and deflection estimates the service computes for them.
//
// # Data Source
//
// Asteroid records come from NASA's Near Earth Object Web Service (NeoWs)
// feed endpoint, which groups close approaches by date:
//
//	{"near_earth_objects": {"2024-04-26": [ {...}, ... ], ...}}
//
// Each upstream object is reduced to an [AsteroidRecord]. The diameter is the
// mean of the feed's minimum and maximum estimates in meters. Velocity and
// miss distance come from the first close-approach entry, which the feed
// reports as decimal strings in km/s and km.
//
// # Impact Model
//
// The body is treated as a rocky sphere of density 3000 kg/m³:
//
//	mass            = 3000 × (4/3)π × (d/2)³                  kg
//	kinetic energy  = ½ × mass × (v × 1000)²                   J
//	energy          = KE / 4.184e15                            Mt TNT
//	crater diameter = 0.02 × KE^0.294                          km
//	seismic         = (2/3) × log10(KE) − 2.9                  Richter
//
// Energy and crater diameter are rounded to two decimals, seismic magnitude
// to one. A body with zero kinetic energy has no seismic magnitude.
//
// # Deflection Model
//
// A kinetic-impactor push is modelled linearly with constant velocity:
//
//	time to impact  = miss distance / velocity                 s
//	position change = Δv × time to impact                      m
//	new miss        = miss distance + position change / 1000   km
//
// The result also reports whether the new miss distance exceeds Earth's mean
// radius ([EarthRadiusKm]).
//
// # Rounding
//
// Rounding is half away from zero on the decimal representation of the
// value, so 0.125 rounds to 0.13 rather than drifting with binary error.
package domain
