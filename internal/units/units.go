// Package units holds the physical constants of the sandbox and converts
// between simulation units and the text shown to (and typed by) the user.
//
// Simulation units: one length unit is 10^6 km, one time unit is a day and
// masses are expressed in Earth masses.
package units

const (
	// G is the gravitational constant in km^3 kg^-1 s^-2.
	G = 6.7408e-20

	// EarthMassKG is one simulation mass unit in kilograms.
	EarthMassKG = 5.9722e24

	// MoonMass is the mass of the Moon in Earth masses; the smallest mass a
	// user may assign to a body.
	MoonMass = 1.230312630186531e-2

	// SunMass is the mass of the Sun in Earth masses.
	SunMass = 3.32954355178996e5

	KmPerUnit     = 1e6
	SecondsPerDay = 86400.0
)

// GSim is G in simulation units: units^3 per Earth mass per day^2.
const GSim = G * EarthMassKG * SecondsPerDay * SecondsPerDay / (KmPerUnit * KmPerUnit * KmPerUnit)

// EarthOrbitalSpeed is Earth's mean orbital speed in units/day.
const EarthOrbitalSpeed = 29.78 * 1e-6 * SecondsPerDay

func KgToEarth(kg float64) float64 { return kg / EarthMassKG }
func EarthToKg(m float64) float64  { return m * EarthMassKG }

// KmsToUnitsPerDay converts a speed in km/s to simulation units per day.
func KmsToUnitsPerDay(kms float64) float64 { return kms * SecondsPerDay / KmPerUnit }

// UnitsPerDayToKms converts a speed in simulation units per day to km/s.
func UnitsPerDayToKms(v float64) float64 { return v * KmPerUnit / SecondsPerDay }
