package einstein

import (
	"fmt"
	"math"
	"time"
)

// OrbitalElements defines a bound planar orbit.
// The true anomaly is not stored: it is derived per sample by the propagator.
type OrbitalElements struct {
	A      float64 // semi-major axis (m)
	E      float64 // eccentricity, 0 <= E < 1
	Period float64 // orbital period (s)
}

// NewOrbitalElements returns validated orbital elements.
func NewOrbitalElements(a, e, period float64) (OrbitalElements, error) {
	oe := OrbitalElements{A: a, E: e, Period: period}
	return oe, oe.Validate()
}

// NewOrbitalElementsAround returns the elements with the Keplerian period around the body,
// i.e. T = 2π √(a³/μ).
func NewOrbitalElementsAround(c PhysicalConstants, body CentralBody, a, e float64) (OrbitalElements, error) {
	if err := body.Validate(); err != nil {
		return OrbitalElements{}, err
	}
	if !(a > 0) {
		return OrbitalElements{}, &DomainError{Quantity: "a", Value: a, Reason: "semi-major axis must be positive"}
	}
	return NewOrbitalElements(a, e, KeplerPeriod(c, body, a))
}

// NewOrbitalElementsFromAltitudes builds the ellipse whose perigee and apogee are at the provided
// altitudes above the surface of the body. The period is Keplerian.
func NewOrbitalElementsFromAltitudes(c PhysicalConstants, body CentralBody, perigeeAlt, apogeeAlt float64) (OrbitalElements, error) {
	if !body.HasSurface() {
		return OrbitalElements{}, &DomainError{Quantity: "radius", Value: body.Radius, Reason: fmt.Sprintf("%s has no reference radius for altitudes", body.Name)}
	}
	a, e, err := Radii2ae(body.Radius+apogeeAlt, body.Radius+perigeeAlt)
	if err != nil {
		return OrbitalElements{}, err
	}
	return NewOrbitalElementsAround(c, body, a, e)
}

// Validate enforces a bound, non degenerate orbit.
func (oe OrbitalElements) Validate() error {
	if !(oe.A > 0) || math.IsInf(oe.A, 0) {
		return &DomainError{Quantity: "a", Value: oe.A, Reason: "semi-major axis must be positive"}
	}
	if !(oe.E >= 0) {
		return &DomainError{Quantity: "e", Value: oe.E, Reason: "eccentricity must not be negative"}
	}
	if oe.E >= 1 {
		return &DomainError{Quantity: "e", Value: oe.E, Reason: "only bound orbits (e < 1) are supported"}
	}
	if !(oe.Period > 0) || math.IsInf(oe.Period, 0) {
		return &DomainError{Quantity: "period", Value: oe.Period, Reason: "must be positive"}
	}
	return nil
}

// MeanMotion returns n = 2π/T.
func (oe OrbitalElements) MeanMotion() float64 {
	return 2 * math.Pi / oe.Period
}

// SemiParameter returns p = a(1-e²).
func (oe OrbitalElements) SemiParameter() float64 {
	return oe.A * (1 - oe.E*oe.E)
}

// Apoapsis returns the apoapsis radius.
func (oe OrbitalElements) Apoapsis() float64 {
	return oe.A * (1 + oe.E)
}

// Periapsis returns the periapsis radius.
func (oe OrbitalElements) Periapsis() float64 {
	return oe.A * (1 - oe.E)
}

// RadiusAt returns the conic radius at true anomaly ν (radians).
func (oe OrbitalElements) RadiusAt(ν float64) float64 {
	return oe.SemiParameter() / (1 + oe.E*math.Cos(ν))
}

// EccentricAnomaly returns the eccentric anomaly at true anomaly ν.
func (oe OrbitalElements) EccentricAnomaly(ν float64) float64 {
	sinν2, cosν2 := math.Sincos(ν / 2)
	return 2 * math.Atan2(math.Sqrt(1-oe.E)*sinν2, math.Sqrt(1+oe.E)*cosν2)
}

// TimeFromTrueAnomaly returns the time since periapsis passage at true anomaly ν, in (-T/2, T/2].
func (oe OrbitalElements) TimeFromTrueAnomaly(ν float64) float64 {
	E := oe.EccentricAnomaly(ν)
	return (E - oe.E*math.Sin(E)) / oe.MeanMotion()
}

// PeriodDuration returns the period as a time.Duration.
func (oe OrbitalElements) PeriodDuration() time.Duration {
	return time.Duration(oe.Period * float64(time.Second))
}

// Energyξ returns the specific mechanical energy for the gravitational parameter μ.
func (oe OrbitalElements) Energyξ(μ float64) float64 {
	return -μ / (2 * oe.A)
}

// String implements the stringer interface.
func (oe OrbitalElements) String() string {
	return fmt.Sprintf("a=%.1f m e=%.4f T=%.1f s", oe.A, oe.E, oe.Period)
}

// KeplerPeriod returns the period of an orbit of semi-major axis a around the body.
func KeplerPeriod(c PhysicalConstants, body CentralBody, a float64) float64 {
	return 2 * math.Pi * math.Sqrt(math.Pow(a, 3)/body.GM(c))
}

// Radii2ae returns the semi major axis and the eccentricty from the radii.
func Radii2ae(rA, rP float64) (a, e float64, err error) {
	if !(rP > 0) {
		return 0, 0, &DomainError{Quantity: "periapsis", Value: rP, Reason: "must be positive"}
	}
	if rA < rP {
		return 0, 0, &DomainError{Quantity: "apoapsis", Value: rA, Reason: "periapsis cannot be greater than apoapsis"}
	}
	a = (rP + rA) / 2
	e = (rA - rP) / (rA + rP)
	return
}
