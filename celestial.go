package einstein

import (
	"fmt"
	"math"
	"strings"
)

// CentralBody defines the attracting mass of a two-body problem.
// Radius is optional (zero when unknown) and only matters for surface observers.
type CentralBody struct {
	Name   string
	Mass   float64 // kg
	Radius float64 // m
}

// GM returns the gravitational parameter μ for the provided constants.
func (b CentralBody) GM(c PhysicalConstants) float64 {
	return c.G * b.Mass
}

// SchwarzschildRadius returns 2GM/c² for this body.
func (b CentralBody) SchwarzschildRadius(c PhysicalConstants) float64 {
	return c.SchwarzschildRadius(b.Mass)
}

// HasSurface returns whether a reference radius is known.
func (b CentralBody) HasSurface() bool {
	return b.Radius > 0
}

// Validate returns a domain error for a non positive or non finite mass, or a negative radius.
func (b CentralBody) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return &DomainError{Quantity: "mass", Value: b.Mass, Reason: "must be a positive finite number"}
	}
	if b.Radius < 0 {
		return &DomainError{Quantity: "radius", Value: b.Radius, Reason: "must not be negative"}
	}
	return nil
}

// String implements the Stringer interface.
func (b CentralBody) String() string {
	return fmt.Sprintf("%s (M=%.4e kg)", b.Name, b.Mass)
}

// Equals returns whether the provided body is the same.
func (b CentralBody) Equals(o CentralBody) bool {
	return b.Name == o.Name && b.Mass == o.Mass && b.Radius == o.Radius
}

// NewSupermassiveBlackHole returns a point mass of the given number of solar masses.
func NewSupermassiveBlackHole(name string, solarMasses float64) CentralBody {
	return CentralBody{Name: name, Mass: solarMasses * SolarMass}
}

// CentralBodyFromString returns the predefined body from its name.
func CentralBodyFromString(name string) (CentralBody, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "earth":
		return Earth, nil
	case "sun":
		return Sun, nil
	case "sgra", "sgra*", "sagittariusa", "sagittarius a*":
		return SagittariusA, nil
	default:
		return CentralBody{}, fmt.Errorf("%w: undefined central body '%s'", ErrConfig, name)
	}
}

/* Definitions */

// Earth is home, with its mean radius.
var Earth = CentralBody{"Earth", 5.972e24, 6.371e6}

// Sun is our closest star.
var Sun = CentralBody{"Sun", SolarMass, 6.957e8}

// SagittariusA is the black hole at the Galactic center (about 4.3 million solar masses).
var SagittariusA = NewSupermassiveBlackHole("Sgr A*", 4.3e6)
