package einstein

import (
	"errors"
	"testing"

	"github.com/gonum/floats"
)

func TestCentralBodyFromString(t *testing.T) {
	for name, exp := range map[string]CentralBody{"earth": Earth, " Sun ": Sun, "SgrA*": SagittariusA} {
		body, err := CentralBodyFromString(name)
		if err != nil {
			t.Fatal(err)
		}
		if !body.Equals(exp) {
			t.Fatalf("'%s' gave %s", name, body)
		}
	}
	if _, err := CentralBodyFromString("Vulcan"); !errors.Is(err, ErrConfig) {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestCentralBody(t *testing.T) {
	c := DefaultConstants
	if !floats.EqualWithinRel(Earth.GM(c), 3.986e14, 1e-3) {
		t.Fatalf("μ=%e", Earth.GM(c))
	}
	if !floats.EqualWithinAbs(Earth.SchwarzschildRadius(c), 8.87e-3, 1e-4) {
		t.Fatalf("Earth rₛ=%f m", Earth.SchwarzschildRadius(c))
	}
	// Sgr A* rₛ is about 12.7 million km.
	if !floats.EqualWithinRel(SagittariusA.SchwarzschildRadius(c), 1.27e10, 0.01) {
		t.Fatalf("Sgr A* rₛ=%e m", SagittariusA.SchwarzschildRadius(c))
	}
	if SagittariusA.HasSurface() || !Earth.HasSurface() {
		t.Fatal("surfaces")
	}
	assertDomainError(t, CentralBody{Mass: -1}.Validate(), "negative mass")
	assertDomainError(t, CentralBody{Mass: 1, Radius: -1}.Validate(), "negative radius")
}

func TestPhysicalConstants(t *testing.T) {
	if err := DefaultConstants.Validate(); err != nil {
		t.Fatal(err)
	}
	assertDomainError(t, PhysicalConstants{G: 1}.Validate(), "zero c")
	assertDomainError(t, PhysicalConstants{C: 1}.Validate(), "zero G")
	if RoundedConstants.C2() != 9e16 {
		t.Fatalf("c²=%f", RoundedConstants.C2())
	}
	var de *DomainError
	if !errors.As(PhysicalConstants{}.Validate(), &de) || de.Quantity != "G" {
		t.Fatalf("expected a DomainError on G, got %v", de)
	}
}
