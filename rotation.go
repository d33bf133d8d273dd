package einstein

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

// R3 rotation about the 3rd axis (frame rotation).
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// RotatePlanar rotates the in-plane vector (x, y) counterclockwise by θ (rad).
// This is the frame rotation R3(-θ) applied to the vector.
func RotatePlanar(θ, x, y float64) (float64, float64) {
	o := MxV33(R3(-θ), []float64{x, y, 0})
	return o[0], o[1]
}
