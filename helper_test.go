package einstein

import (
	"errors"
	"fmt"
	"math"
	"testing"
)

const eps = 1e-12

func assertPanic(t *testing.T, f func()) {
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("code did not panic")
		}
	}()
	f()
}

// anglesEqual returns whether two angles are equal modulo 2π.
func anglesEqual(a, b, tol float64) (bool, error) {
	diff := math.Mod(math.Abs(a-b), 2*math.Pi)
	if diff < tol || math.Abs(diff-2*math.Pi) < tol {
		return true, nil
	}
	return false, fmt.Errorf("difference of %3.10fπ", diff/math.Pi)
}

func assertDomainError(t *testing.T, err error, what string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected a domain error, got nil", what)
	}
	if !errors.Is(err, ErrDomain) {
		t.Fatalf("%s: expected a domain error, got %s", what, err)
	}
}
