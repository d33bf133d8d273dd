package einstein

import (
	"fmt"
	"math"
)

// KinematicState is the closed form state of a body at time T.
type KinematicState struct {
	T  float64 // time since periapsis (s)
	M  float64 // mean anomaly (rad)
	E  float64 // eccentric anomaly (rad)
	Nu float64 // true anomaly (rad), in [-π, π]
	R  float64 // radius (m)
}

// Perifocal returns the position in the perifocal frame (x towards periapsis).
func (s KinematicState) Perifocal() (x, y float64) {
	sinν, cosν := math.Sincos(s.Nu)
	return s.R * cosν, s.R * sinν
}

// PerifocalRotated returns the position rotated by the argument of periapsis ω (rad).
func (s KinematicState) PerifocalRotated(ω float64) (x, y float64) {
	x, y = s.Perifocal()
	return RotatePlanar(ω, x, y)
}

// String implements the Stringer interface.
func (s KinematicState) String() string {
	return fmt.Sprintf("t=%.1f M=%.4f E=%.4f ν=%.4f r=%.1f", s.T, s.M, s.E, s.Nu, s.R)
}

// PropagationDiagnostics summarizes the Kepler solves of a propagation.
type PropagationDiagnostics struct {
	MaxResidual   float64
	MaxIterations int
	Unconverged   int // number of samples whose Kepler solve did not converge
	Iterations    []int
}

// PropagateClosedForm returns one KinematicState per provided time, where times are in seconds
// since periapsis passage. Times need not be ordered and may be negative.
func PropagateClosedForm(oe OrbitalElements, times []float64) ([]KinematicState, error) {
	states, _, err := PropagateClosedFormDiagnostics(oe, times)
	return states, err
}

// PropagateClosedFormDiagnostics is PropagateClosedForm which also returns the Kepler diagnostics.
func PropagateClosedFormDiagnostics(oe OrbitalElements, times []float64) ([]KinematicState, PropagationDiagnostics, error) {
	var diag PropagationDiagnostics
	if err := oe.Validate(); err != nil {
		return nil, diag, err
	}
	n := oe.MeanMotion()
	p := oe.SemiParameter()
	states := make([]KinematicState, len(times))
	diag.Iterations = make([]int, len(times))
	for i, t := range times {
		M := n * t
		sol := SolveKepler(M, oe.E)
		ν := TrueAnomaly(sol.E, oe.E)
		states[i] = KinematicState{T: t, M: M, E: sol.E, Nu: ν, R: p / (1 + oe.E*math.Cos(ν))}

		diag.Iterations[i] = sol.Iterations
		if res := math.Abs(sol.Residual); res > diag.MaxResidual {
			diag.MaxResidual = res
		}
		if sol.Iterations > diag.MaxIterations {
			diag.MaxIterations = sol.Iterations
		}
		if !sol.Converged {
			diag.Unconverged++
		}
	}
	return states, diag, nil
}

// TrueAnomaly converts the eccentric anomaly into the true anomaly, in [-π, π].
// The half angle atan2 form is free of the branch ambiguity of tan(ν/2) near ν = π.
func TrueAnomaly(E, e float64) float64 {
	sinE2, cosE2 := math.Sincos(E / 2)
	ν, _ := wrapAnomaly(2 * math.Atan2(math.Sqrt(1+e)*sinE2, math.Sqrt(1-e)*cosE2))
	return ν
}

// Radii returns the radius of each state.
func Radii(states []KinematicState) []float64 {
	r := make([]float64, len(states))
	for i, s := range states {
		r[i] = s.R
	}
	return r
}
