package einstein

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestPotential(t *testing.T) {
	c := DefaultConstants
	φ, err := c.Potential(Earth.Mass, Earth.Radius)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.EqualWithinRel(φ, -Earth.GM(c)/Earth.Radius, 1e-15) || φ >= 0 {
		t.Fatalf("Φ=%f", φ)
	}
	for _, r := range []float64{0, -1, math.NaN()} {
		_, err := c.Potential(Earth.Mass, r)
		assertDomainError(t, err, "potential")
	}
	for _, mass := range []float64{0, -Earth.Mass, math.NaN(), math.Inf(1)} {
		_, err := c.Potential(mass, Earth.Radius)
		assertDomainError(t, err, "potential mass")
		_, err = c.RedshiftExact(mass, Earth.Radius)
		assertDomainError(t, err, "exact redshift mass")
		_, err = c.FrequencyShiftToInfinity(mass, Earth.Radius)
		assertDomainError(t, err, "frequency shift mass")
	}
}

func TestFrequencyShiftNewtonian(t *testing.T) {
	c := DefaultConstants
	rSat := Earth.Radius + 23222e3
	toInf, err := c.FrequencyShiftToInfinity(Earth.Mass, rSat)
	if err != nil {
		t.Fatal(err)
	}
	exp := Earth.GM(c) / (rSat * c.C2())
	if !floats.EqualWithinRel(toInf, exp, 1e-14) {
		t.Fatalf("Δf/f=%e expected %e", toInf, exp)
	}
	// A satellite clock seen from the ground is blueshifted: the ground sits deeper in the well.
	ground, err := c.FrequencyShiftNewtonian(Earth.Mass, rSat, Earth.Radius)
	if err != nil {
		t.Fatal(err)
	}
	if ground >= 0 {
		t.Fatalf("Δf/f=%e should be negative for a ground observer", ground)
	}
	// The reverse link flips the sign.
	reverse, _ := c.FrequencyShiftNewtonian(Earth.Mass, Earth.Radius, rSat)
	if !floats.EqualWithinAbs(reverse, -ground, 1e-24) {
		t.Fatalf("reverse %e != %e", reverse, -ground)
	}
	// Same radius, no shift.
	if same, _ := c.FrequencyShiftNewtonian(Earth.Mass, rSat, rSat); same != 0 {
		t.Fatalf("Δf/f=%e for identical radii", same)
	}
	_, err = c.FrequencyShiftNewtonian(Earth.Mass, rSat, 0)
	assertDomainError(t, err, "observer at the center")
}

func TestRedshiftExactGalileo(t *testing.T) {
	c := DefaultConstants
	perigee := Earth.Radius + 23222e3
	apogee := Earth.Radius + 25000e3
	zP, err := c.RedshiftExact(Earth.Mass, perigee)
	if err != nil {
		t.Fatal(err)
	}
	zA, err := c.RedshiftExact(Earth.Mass, apogee)
	if err != nil {
		t.Fatal(err)
	}
	if zP < 1.4e-10 || zP > 1.7e-10 {
		t.Fatalf("perigee z=%e out of the expected range", zP)
	}
	if !(zA > 0 && zA < zP) {
		t.Fatalf("apogee z=%e should be positive and below perigee z=%e", zA, zP)
	}
}

func TestRedshiftExactMonotone(t *testing.T) {
	c := DefaultConstants
	prev := math.Inf(1)
	for r := 1e4; r < 1e12; r *= 1.5 {
		z, err := c.RedshiftExact(Earth.Mass, r)
		if err != nil {
			t.Fatalf("r=%e: %s", r, err)
		}
		if !(z > 0) || z >= prev {
			t.Fatalf("z(r=%e)=%e not strictly decreasing (previous %e)", r, z, prev)
		}
		prev = z
	}
	if z, _ := c.RedshiftExact(Earth.Mass, 1e300); z > 1e-280 {
		t.Fatalf("z=%e does not tend to zero", z)
	}
}

func TestRedshiftExactNewtonianLimit(t *testing.T) {
	c := DefaultConstants
	for _, r := range []float64{Earth.Radius, 3e7, AU} {
		z, _ := c.RedshiftExact(Earth.Mass, r)
		n, _ := c.FrequencyShiftToInfinity(Earth.Mass, r)
		if !floats.EqualWithinRel(z, n, 1e-8) {
			t.Fatalf("r=%e: exact %e vs. newtonian %e", r, z, n)
		}
	}
	// The exact shift always exceeds the first order one.
	rs := SagittariusA.SchwarzschildRadius(c)
	z, _ := c.RedshiftExact(SagittariusA.Mass, 3*rs)
	n, _ := c.FrequencyShiftToInfinity(SagittariusA.Mass, 3*rs)
	if !(z > n) {
		t.Fatalf("exact %e should exceed newtonian %e in strong field", z, n)
	}
	// At 2rₛ, x = 1/2 and z = √2 - 1.
	z, _ = c.RedshiftExact(SagittariusA.Mass, 2*rs)
	if !floats.EqualWithinAbs(z, math.Sqrt2-1, 1e-12) {
		t.Fatalf("z(2rₛ)=%f", z)
	}
}

func TestRedshiftExactSchwarzschild(t *testing.T) {
	c := DefaultConstants
	rs := c.SchwarzschildRadius(SagittariusA.Mass)
	for _, r := range []float64{rs, rs / 2, 0, -rs} {
		z, err := c.RedshiftExact(SagittariusA.Mass, r)
		assertDomainError(t, err, "inside the Schwarzschild radius")
		if math.IsNaN(z) {
			t.Fatal("NaN leaked out of RedshiftExact")
		}
	}
	if _, err := c.RedshiftExact(SagittariusA.Mass, rs*(1+1e-9)); err != nil {
		t.Fatalf("just outside rₛ: %s", err)
	}
}

func TestRedshiftModel(t *testing.T) {
	for _, m := range []RedshiftModel{Exact, NewtonianToInfinity, NewtonianToObserver} {
		got, err := RedshiftModelFromString(m.String())
		if err != nil || got != m {
			t.Fatalf("%s did not round trip: %v", m, err)
		}
	}
	if _, err := RedshiftModelFromString("gr"); err == nil {
		t.Fatal("unknown model accepted")
	}
	assertPanic(t, func() {
		_ = RedshiftModel(0).String()
	})
	c := DefaultConstants
	if _, err := c.Redshift(RedshiftModel(42), Earth.Mass, 3e7, 0); err == nil {
		t.Fatal("unknown model evaluated")
	}
}

func TestRedshiftSeries(t *testing.T) {
	c := DefaultConstants
	times := []float64{0, 1, 2}
	radii := []float64{3e7, 3.1e7, 3.2e7}
	samples, err := c.RedshiftSeries(NewtonianToInfinity, Earth.Mass, math.Inf(1), times, radii)
	if err != nil {
		t.Fatal(err)
	}
	for i, s := range samples {
		if s.T != times[i] || s.R != radii[i] {
			t.Fatalf("sample %d misplaced: %+v", i, s)
		}
		if i > 0 && s.Ratio >= samples[i-1].Ratio {
			t.Fatal("ratio should decrease with the radius")
		}
	}
	_, err = c.RedshiftSeries(Exact, Earth.Mass, 0, times, []float64{3e7, 0, 3e7})
	assertDomainError(t, err, "zero radius sample")
	_, err = c.RedshiftSeries(Exact, Earth.Mass, 0, times, radii[:2])
	assertDomainError(t, err, "mismatched lengths")
}
