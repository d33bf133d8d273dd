package einstein

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestSolveKeplerRoundTrip(t *testing.T) {
	for _, e := range []float64{0, 0.01, 0.1616, 0.5, 0.8, 0.9, 0.99} {
		for M := -4 * math.Pi; M <= 4*math.Pi; M += 0.05 {
			sol := SolveKepler(M, e)
			if !sol.Converged {
				t.Fatalf("M=%f e=%f did not converge after %d iterations", M, e, sol.Iterations)
			}
			if math.Abs(sol.Residual) > KeplerTolerance {
				t.Fatalf("M=%f e=%f: solver residual %e above tolerance %e", M, e, sol.Residual, KeplerTolerance)
			}
			if res := sol.E - e*math.Sin(sol.E) - M; math.Abs(res) > 1e-11 {
				t.Fatalf("M=%f e=%f: residual %e", M, e, res)
			}
			if sol.Iterations > MaxKeplerIterations {
				t.Fatalf("too many iterations: %d", sol.Iterations)
			}
		}
	}
}

func TestSolveKeplerCircular(t *testing.T) {
	for _, M := range []float64{-7, -1, 0, 0.5, 3, 100} {
		sol := SolveKepler(M, 0)
		if !floats.EqualWithinAbs(sol.E, M, 1e-12) {
			t.Fatalf("E=%f != M=%f for a circular orbit", sol.E, M)
		}
	}
}

func TestSolveKeplerSameRevolution(t *testing.T) {
	// E must stay on the revolution of M so that the time series remains continuous.
	M := 10*math.Pi + 0.3
	sol := SolveKepler(M, 0.3)
	if math.Abs(sol.E-M) > 0.3+eps {
		t.Fatalf("E=%f is not on the revolution of M=%f", sol.E, M)
	}
}

func TestSolveKeplerFixedPoint(t *testing.T) {
	e := 0.1616
	for M := 0.0; M < 2*math.Pi; M += 0.1 {
		fp := SolveKeplerFixedPoint(M, e)
		nt := SolveKepler(M, e)
		if fp.Iterations != FixedPointIterations {
			t.Fatalf("fixed point ran %d iterations", fp.Iterations)
		}
		if !floats.EqualWithinAbs(fp.E, nt.E, 1e-6) {
			t.Fatalf("M=%f: fixed point E=%f newton E=%f", M, fp.E, nt.E)
		}
	}
	// Near parabolic orbits expose the bounded iteration count.
	if fp := SolveKeplerFixedPoint(0.1, 0.99); fp.Converged || math.Abs(fp.Residual) < 1e-6 {
		t.Fatalf("fixed point should not converge at e=0.99 (residual %e)", fp.Residual)
	}
}

func TestHighEccentricity(t *testing.T) {
	if HighEccentricity(HighEccentricityThreshold) {
		t.Fatal("threshold itself should not be flagged")
	}
	if !HighEccentricity(0.96) || HighEccentricity(0.1616) {
		t.Fatal("incorrect high eccentricity flag")
	}
}
