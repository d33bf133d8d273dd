package einstein

import (
	"math"
	"strings"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"
)

// TLESource propagates a two-line element set with SGP4 and yields geocentric radii.
// It is the radius source for real Earth satellites (e.g. the Galileo GSAT0201 orbit).
type TLESource struct {
	sat   satellite.Satellite
	Epoch time.Time // t = 0 of the sampled series
}

// NewTLESource parses the two lines with the WGS72 gravity model.
func NewTLESource(line1, line2 string, epoch time.Time) (*TLESource, error) {
	line1 = strings.TrimSpace(line1)
	line2 = strings.TrimSpace(line2)
	// go-satellite exits the process on malformed lines.
	if len(line1) != 69 || len(line2) != 69 || line1[0] != '1' || line2[0] != '2' {
		return nil, configErr("malformed two-line element set")
	}
	sat := satellite.TLEToSat(line1, line2, satellite.GravityWGS72)
	if sat.Error != 0 {
		return nil, configErr("SGP4 initialization failed: code=%d %s", sat.Error, sat.ErrorStr)
	}
	return &TLESource{sat: sat, Epoch: epoch.UTC()}, nil
}

// Radii returns the geocentric radius in meters at each time, in seconds after Epoch.
// go-satellite resolves whole seconds only.
func (s *TLESource) Radii(times []float64) ([]float64, error) {
	const kmToM = 1000.0
	radii := make([]float64, len(times))
	for i, t := range times {
		dt := s.Epoch.Add(time.Duration(t * float64(time.Second)))
		year, month, day := dt.Date()
		hour, min, sec := dt.Clock()
		pos, _ := satellite.Propagate(s.sat, year, int(month), day, hour, min, sec)
		r := math.Sqrt(pos.X*pos.X+pos.Y*pos.Y+pos.Z*pos.Z) * kmToM
		if math.IsNaN(r) || !(r > 0) {
			return nil, &DomainError{Quantity: "r", Value: r, Reason: "SGP4 propagation failed at " + dt.Format(time.RFC3339)}
		}
		radii[i] = r
	}
	return radii, nil
}
