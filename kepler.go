package einstein

import (
	"math"
)

const (
	// MaxKeplerIterations bounds the Newton iterations of SolveKepler.
	MaxKeplerIterations = 50
	// KeplerTolerance is the residual |E - e sin E - M| below which SolveKepler stops.
	KeplerTolerance = 1e-13
	// FixedPointIterations is the depth of the reference fixed-point scheme.
	FixedPointIterations = 10
	// HighEccentricityThreshold above which Kepler solutions deserve a warning.
	HighEccentricityThreshold = 0.95
)

// KeplerSolution is an eccentric anomaly with its convergence diagnostics.
type KeplerSolution struct {
	E          float64 // eccentric anomaly (rad), on the same revolution as M
	Residual   float64 // E - e sin E - M
	Iterations int
	Converged  bool
}

// SolveKepler solves M = E - e sin E for E with Newton's method, stopping as soon as the
// residual is below KeplerTolerance or after MaxKeplerIterations.
// It never fails: a non converged result is reported through the diagnostic fields.
// The eccentricity is expected in [0, 1).
func SolveKepler(M, e float64) KeplerSolution {
	Mw, k := wrapAnomaly(M)
	E := Mw
	if e >= 0.8 && Mw != 0 {
		// Seeding at ±π keeps Newton monotone for highly eccentric orbits.
		E = math.Pi * sign(Mw)
	}
	f := E - e*math.Sin(E) - Mw
	iter := 0
	for iter < MaxKeplerIterations && math.Abs(f) > KeplerTolerance {
		E -= f / (1 - e*math.Cos(E))
		f = E - e*math.Sin(E) - Mw
		iter++
	}
	return KeplerSolution{E: E + k*2*math.Pi, Residual: f, Iterations: iter, Converged: math.Abs(f) <= KeplerTolerance}
}

// SolveKeplerFixedPoint is the reference scheme E <- M + e sin E seeded with E = M and run for
// exactly FixedPointIterations iterations, without any convergence check.
// Its accuracy degrades as e approaches 1; the residual tells by how much.
func SolveKeplerFixedPoint(M, e float64) KeplerSolution {
	E := M
	for i := 0; i < FixedPointIterations; i++ {
		E = M + e*math.Sin(E)
	}
	Mw, k := wrapAnomaly(M)
	res := (E - k*2*math.Pi) - e*math.Sin(E) - Mw
	return KeplerSolution{E: E, Residual: res, Iterations: FixedPointIterations, Converged: math.Abs(res) <= KeplerTolerance}
}

// HighEccentricity returns whether Kepler solutions for e should be flagged.
func HighEccentricity(e float64) bool {
	return e > HighEccentricityThreshold
}

// wrapAnomaly returns M brought into [-π, π] and the number of revolutions removed.
func wrapAnomaly(M float64) (Mw, k float64) {
	k = math.Round(M / (2 * math.Pi))
	return M - k*2*math.Pi, k
}
