package einstein

import (
	"fmt"
	"math"
)

const (
	// AU is one astronomical unit in meters, as used for the S2 orbit.
	AU = 1.496e11
	// SolarMass is the mass of the Sun in kilograms.
	SolarMass = 1.98847e30
	// Hour in seconds.
	Hour = 3600.0
	// Day in seconds.
	Day = 24 * Hour
	// Year in seconds (365 days, as the S2 period is usually quoted).
	Year = 365 * Day
)

// PhysicalConstants are the constants every computation receives explicitly.
type PhysicalConstants struct {
	G float64 // Gravitational constant (m^3 kg^-1 s^-2)
	C float64 // Speed of light (m/s)
}

// DefaultConstants uses CODATA 2018 G and the exact speed of light.
var DefaultConstants = PhysicalConstants{G: 6.67430e-11, C: 299792458}

// RoundedConstants keeps the c = 3e8 m/s approximation some published figures rely on.
var RoundedConstants = PhysicalConstants{G: 6.67430e-11, C: 3.0e8}

// Validate returns an error if either constant is not strictly positive.
func (c PhysicalConstants) Validate() error {
	if !(c.G > 0) || math.IsInf(c.G, 0) {
		return &DomainError{Quantity: "G", Value: c.G, Reason: "must be a positive finite number"}
	}
	if !(c.C > 0) || math.IsInf(c.C, 0) {
		return &DomainError{Quantity: "c", Value: c.C, Reason: "must be a positive finite number"}
	}
	return nil
}

// C2 returns c².
func (c PhysicalConstants) C2() float64 {
	return c.C * c.C
}

// String implements the Stringer interface.
func (c PhysicalConstants) String() string {
	return fmt.Sprintf("G=%.5e c=%.1f", c.G, c.C)
}
