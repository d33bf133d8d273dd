package einstein

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// norm returns the norm of a planar vector.
func norm(v []float64) float64 {
	return math.Hypot(v[0], v[1])
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// cross2 returns the z component of the cross product of two planar vectors.
func cross2(a, b []float64) float64 {
	return a[0]*b[1] - a[1]*b[0]
}

// TimeGrid returns n evenly spaced times from start to end, both included.
func TimeGrid(start, end float64, n int) []float64 {
	if n <= 0 {
		return []float64{}
	}
	if n == 1 {
		return []float64{start}
	}
	return floats.Span(make([]float64, n), start, end)
}
