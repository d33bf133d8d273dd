package einstein

import (
	"fmt"
)

// RedshiftSample is the fractional frequency shift of a clock at radius R and time T.
type RedshiftSample struct {
	T     float64 // s
	R     float64 // m
	Ratio float64 // Δf/f, signed
}

// ClockDriftSeries is the time offset accumulated by a clock, and its rate.
type ClockDriftSeries struct {
	Time  []float64 // s
	Drift []float64 // cumulative drift (s)
	Rate  []float64 // d(drift)/dt (s/s)
}

// Len returns the number of samples.
func (c ClockDriftSeries) Len() int {
	return len(c.Time)
}

// Final returns the last cumulative drift, or zero for an empty series.
func (c ClockDriftSeries) Final() float64 {
	if len(c.Drift) == 0 {
		return 0
	}
	return c.Drift[len(c.Drift)-1]
}

// DriftNanoseconds returns the cumulative drift in nanoseconds.
func (c ClockDriftSeries) DriftNanoseconds() []float64 {
	ns := make([]float64, len(c.Drift))
	for i, d := range c.Drift {
		ns[i] = d * 1e9
	}
	return ns
}

// IntegrationRule selects how the redshift curve is integrated over time.
type IntegrationRule uint8

const (
	// LeftRule sums ratio_i × (t_i - t_{i-1}).
	LeftRule IntegrationRule = iota + 1
	// Trapezoidal sums (ratio_i + ratio_{i-1})/2 × (t_i - t_{i-1}).
	Trapezoidal
)

func (r IntegrationRule) String() string {
	switch r {
	case LeftRule:
		return "left"
	case Trapezoidal:
		return "trapezoidal"
	}
	panic("cannot stringify unknown integration rule")
}

// AccumulateDrift integrates the redshift series into a clock drift series with LeftRule.
func AccumulateDrift(samples []RedshiftSample) (ClockDriftSeries, error) {
	return AccumulateDriftWith(samples, LeftRule)
}

// AccumulateDriftWith integrates the redshift series with the provided rule.
// Samples must be strictly increasing in time. The first sample has zero drift.
func AccumulateDriftWith(samples []RedshiftSample, rule IntegrationRule) (ClockDriftSeries, error) {
	n := len(samples)
	series := ClockDriftSeries{Time: make([]float64, n), Drift: make([]float64, n), Rate: make([]float64, n)}
	if n == 0 {
		return series, nil
	}
	if rule != LeftRule && rule != Trapezoidal {
		return ClockDriftSeries{}, fmt.Errorf("%w: unknown integration rule %d", ErrDomain, rule)
	}
	series.Time[0] = samples[0].T
	for i := 1; i < n; i++ {
		dt := samples[i].T - samples[i-1].T
		if !(dt > 0) {
			return ClockDriftSeries{}, &DomainError{Quantity: "t", Value: samples[i].T, Reason: fmt.Sprintf("sample %d is not after the previous sample", i)}
		}
		ratio := samples[i].Ratio
		if rule == Trapezoidal {
			ratio = 0.5 * (samples[i].Ratio + samples[i-1].Ratio)
		}
		series.Time[i] = samples[i].T
		series.Drift[i] = series.Drift[i-1] + ratio*dt
	}
	if n == 1 {
		series.Rate[0] = samples[0].Ratio
		return series, nil
	}
	series.Rate = gradient(series.Drift, series.Time)
	return series, nil
}

// IdealDrift returns the drift of a clock with a constant ratio: ratio × (t - t₀).
func IdealDrift(ratio float64, times []float64) ClockDriftSeries {
	n := len(times)
	series := ClockDriftSeries{Time: make([]float64, n), Drift: make([]float64, n), Rate: make([]float64, n)}
	for i, t := range times {
		series.Time[i] = t
		series.Drift[i] = ratio * (t - times[0])
		series.Rate[i] = ratio
	}
	return series
}

// gradient returns dy/dx using second order central differences on possibly uneven spacing,
// and first order one-sided differences at both ends. x must be strictly increasing and
// contain at least two points.
func gradient(y, x []float64) []float64 {
	n := len(y)
	g := make([]float64, n)
	g[0] = (y[1] - y[0]) / (x[1] - x[0])
	g[n-1] = (y[n-1] - y[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		hs := x[i] - x[i-1]
		hd := x[i+1] - x[i]
		g[i] = (hs*hs*y[i+1] + (hd*hd-hs*hs)*y[i] - hd*hd*y[i-1]) / (hs * hd * (hd + hs))
	}
	return g
}
