package einstein

import (
	"errors"
	"testing"
	"time"
)

// GSAT0201 on its eccentric orbit.
const (
	gsat0201Line1 = "1 40128U 14050A   24100.50000000 -.00000076  00000-0  00000-0 0  9990"
	gsat0201Line2 = "2 40128  49.3541 296.1624 1612183  93.6823 284.2587  1.85519419    01"
)

var gsat0201Epoch = time.Date(2024, 4, 9, 12, 0, 0, 0, time.UTC)

func TestTLESourceRadii(t *testing.T) {
	src, err := NewTLESource(gsat0201Line1, gsat0201Line2, gsat0201Epoch)
	if err != nil {
		t.Fatal(err)
	}
	radii, err := src.Radii(TimeGrid(0, Day, 97))
	if err != nil {
		t.Fatal(err)
	}
	minR, maxR := radii[0], radii[0]
	for _, r := range radii {
		if r < 22e6 || r > 34e6 {
			t.Fatalf("r=%f m outside the GSAT0201 orbit", r)
		}
		if r < minR {
			minR = r
		}
		if r > maxR {
			maxR = r
		}
	}
	// Over a day the clock sees both apsides, about 9000 km apart.
	if maxR-minR < 7e6 {
		t.Fatalf("radius only varied by %f m", maxR-minR)
	}
}

func TestTLESourceMalformed(t *testing.T) {
	for _, lines := range [][2]string{
		{gsat0201Line1[:60], gsat0201Line2},
		{gsat0201Line2, gsat0201Line1},
		{"", ""},
	} {
		if _, err := NewTLESource(lines[0], lines[1], gsat0201Epoch); !errors.Is(err, ErrConfig) {
			t.Fatalf("malformed TLE gave %v", err)
		}
	}
}
