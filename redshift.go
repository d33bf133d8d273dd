package einstein

import (
	"fmt"
	"math"
)

// RedshiftModel selects how a radius is turned into a fractional frequency shift.
type RedshiftModel uint8

const (
	// Exact is the weak-field time dilation factor z = 1/√(1 - 2GM/(rc²)) - 1, relative to
	// an observer far from the mass.
	Exact RedshiftModel = iota + 1
	// NewtonianToInfinity is GM/(rc²), i.e. the Newtonian shift seen from infinity.
	NewtonianToInfinity
	// NewtonianToObserver is the Newtonian shift between the emitter and an observer at a finite radius.
	NewtonianToObserver
)

func (m RedshiftModel) String() string {
	switch m {
	case Exact:
		return "exact"
	case NewtonianToInfinity:
		return "newtonian"
	case NewtonianToObserver:
		return "newtonian-observer"
	}
	panic("cannot stringify unknown redshift model")
}

// RedshiftModelFromString returns the model from its name.
func RedshiftModelFromString(name string) (RedshiftModel, error) {
	for _, m := range []RedshiftModel{Exact, NewtonianToInfinity, NewtonianToObserver} {
		if m.String() == name {
			return m, nil
		}
	}
	return 0, configErr("unknown redshift model '%s'", name)
}

// checkMass returns a domain error for a non positive or non finite mass.
func checkMass(mass float64) error {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return &DomainError{Quantity: "mass", Value: mass, Reason: "must be a positive finite number"}
	}
	return nil
}

// Potential returns the Newtonian potential Φ(r) = -GM/r.
func (c PhysicalConstants) Potential(mass, r float64) (float64, error) {
	if err := checkMass(mass); err != nil {
		return 0, err
	}
	if !(r > 0) {
		return 0, &DomainError{Quantity: "r", Value: r, Reason: "radius must be positive"}
	}
	return -c.G * mass / r, nil
}

// FrequencyShiftNewtonian returns the Newtonian fractional frequency shift Δf/f between an
// emitter at rEm and an observer at rObs: (Φ(rObs) - Φ(rEm))/c².
// The result is positive when the emitter sits deeper in the potential well than the observer,
// that is when the observer sees the signal redshifted. rObs may be +Inf.
func (c PhysicalConstants) FrequencyShiftNewtonian(mass, rEm, rObs float64) (float64, error) {
	φEm, err := c.Potential(mass, rEm)
	if err != nil {
		return 0, err
	}
	if math.IsInf(rObs, 1) {
		return -φEm / c.C2(), nil
	}
	φObs, err := c.Potential(mass, rObs)
	if err != nil {
		return 0, err
	}
	return (φObs - φEm) / c.C2(), nil
}

// FrequencyShiftToInfinity is FrequencyShiftNewtonian for an observer infinitely far away,
// where the observer potential is zero: -Φ(rEm)/c² = GM/(rEm c²).
func (c PhysicalConstants) FrequencyShiftToInfinity(mass, rEm float64) (float64, error) {
	return c.FrequencyShiftNewtonian(mass, rEm, math.Inf(1))
}

// SchwarzschildRadius returns 2GM/c².
func (c PhysicalConstants) SchwarzschildRadius(mass float64) float64 {
	return 2 * c.G * mass / c.C2()
}

// RedshiftExact returns z(r) = 1/√(1 - 2GM/(rc²)) - 1.
// A radius at or inside the Schwarzschild radius is a domain error.
func (c PhysicalConstants) RedshiftExact(mass, r float64) (float64, error) {
	if err := checkMass(mass); err != nil {
		return 0, err
	}
	if !(r > 0) {
		return 0, &DomainError{Quantity: "r", Value: r, Reason: "radius must be positive"}
	}
	rs := c.SchwarzschildRadius(mass)
	x := rs / r
	if !(x < 1) {
		return 0, &DomainError{Quantity: "r", Value: r, Reason: fmt.Sprintf("is within the Schwarzschild radius %g m", rs)}
	}
	// 1/√(1-x) - 1 written to avoid cancellation when x is tiny.
	s := math.Sqrt(1 - x)
	return x / (s * (1 + s)), nil
}

// Redshift evaluates the model at radius r. rObs is only read by NewtonianToObserver.
func (c PhysicalConstants) Redshift(model RedshiftModel, mass, r, rObs float64) (float64, error) {
	switch model {
	case Exact:
		return c.RedshiftExact(mass, r)
	case NewtonianToInfinity:
		return c.FrequencyShiftToInfinity(mass, r)
	case NewtonianToObserver:
		return c.FrequencyShiftNewtonian(mass, r, rObs)
	default:
		return 0, configErr("unknown redshift model %d", model)
	}
}

// RedshiftSeries evaluates the model for each (time, radius) pair.
// Any sample outside the domain of the model fails the whole series.
func (c PhysicalConstants) RedshiftSeries(model RedshiftModel, mass, rObs float64, times, radii []float64) ([]RedshiftSample, error) {
	if len(times) != len(radii) {
		return nil, fmt.Errorf("%w: %d times for %d radii", ErrDomain, len(times), len(radii))
	}
	samples := make([]RedshiftSample, len(times))
	for i := range times {
		z, err := c.Redshift(model, mass, radii[i], rObs)
		if err != nil {
			return nil, fmt.Errorf("sample %d (t=%g): %w", i, times[i], err)
		}
		samples[i] = RedshiftSample{T: times[i], R: radii[i], Ratio: z}
	}
	return samples, nil
}
