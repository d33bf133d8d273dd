package einstein

import (
	"errors"
	"fmt"
	"sync"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/floats"
)

// RadiusSource selects how the radius series of a scenario is produced.
type RadiusSource uint8

const (
	// ClosedForm solves Kepler's equation at each sample.
	ClosedForm RadiusSource = iota + 1
	// Integrated integrates the two-body equations of motion.
	Integrated
	// TwoLineElements propagates a TLE with SGP4.
	TwoLineElements
	// Circular keeps the radius constant.
	Circular
)

func (s RadiusSource) String() string {
	switch s {
	case ClosedForm:
		return "closed-form"
	case Integrated:
		return "integrated"
	case TwoLineElements:
		return "tle"
	case Circular:
		return "circular"
	}
	panic("cannot stringify unknown radius source")
}

// RadiusSourceFromString returns the radius source from its name.
func RadiusSourceFromString(name string) (RadiusSource, error) {
	for _, s := range []RadiusSource{ClosedForm, Integrated, TwoLineElements, Circular} {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, configErr("unknown radius source '%s'", name)
}

// Scenario is a clock orbiting a central body, sampled over a duration.
type Scenario struct {
	Name      string
	Constants PhysicalConstants
	Body      CentralBody
	Source    RadiusSource
	Elements  OrbitalElements // ClosedForm
	R0, V0    float64         // Integrated
	TLE       *TLESource      // TwoLineElements
	Radius    float64         // Circular
	Model     RedshiftModel
	// ObserverRadius is only used by NewtonianToObserver. Zero means the surface of the body.
	ObserverRadius float64
	// IdealRadius is the radius of the circular comparator orbit. Zero means the nominal radius
	// of the source.
	IdealRadius float64
	Duration    float64 // s; zero means one period for ClosedForm
	Samples     int
	Integrator  IntegratorConfig
	Rule        IntegrationRule
}

// Summary condenses the outcome of a scenario.
type Summary struct {
	MinRatio, MaxRatio float64
	PeakToPeakPPT      float64 // (max - min) ratio, in parts per trillion
	FinalDrift         float64 // s
	FinalIdealDrift    float64 // s
	IdealRatio         float64
}

// DriftExcess returns the final drift in excess of the circular comparator.
func (s Summary) DriftExcess() float64 {
	return s.FinalDrift - s.FinalIdealDrift
}

// String implements the Stringer interface.
func (s Summary) String() string {
	return fmt.Sprintf("Δf/f∈[%.4e, %.4e] p2p=%.3f ppt drift=%.3f ns (ideal %.3f ns)", s.MinRatio, s.MaxRatio, s.PeakToPeakPPT, s.FinalDrift*1e9, s.FinalIdealDrift*1e9)
}

// Result holds every series computed by a scenario run.
type Result struct {
	Scenario string
	Times    []float64
	Radii    []float64
	Redshift []RedshiftSample
	Drift    ClockDriftSeries
	Ideal    ClockDriftSeries
	Summary  Summary
}

// duration returns the sampled duration.
func (s Scenario) duration() float64 {
	if s.Duration == 0 && s.Source == ClosedForm {
		return s.Elements.Period
	}
	return s.Duration
}

// observer returns the observer radius of the Newtonian observer model.
func (s Scenario) observer() (float64, error) {
	if s.ObserverRadius > 0 {
		return s.ObserverRadius, nil
	}
	if s.Model == NewtonianToObserver && !s.Body.HasSurface() {
		return 0, &DomainError{Quantity: "observer", Value: s.ObserverRadius, Reason: fmt.Sprintf("%s has no surface to observe from", s.Body.Name)}
	}
	return s.Body.Radius, nil
}

// Validate checks the scenario before any computation.
func (s Scenario) Validate() error {
	if err := s.Constants.Validate(); err != nil {
		return err
	}
	if err := s.Body.Validate(); err != nil {
		return err
	}
	if s.Model < Exact || s.Model > NewtonianToObserver {
		return configErr("scenario %s has no redshift model", s.Name)
	}
	if s.Samples < 2 {
		return &DomainError{Quantity: "samples", Value: float64(s.Samples), Reason: "at least two samples are needed"}
	}
	if !(s.duration() > 0) {
		return &DomainError{Quantity: "duration", Value: s.duration(), Reason: "must be positive"}
	}
	switch s.Source {
	case ClosedForm:
		return s.Elements.Validate()
	case Integrated:
		if !(s.R0 > 0) {
			return &DomainError{Quantity: "r0", Value: s.R0, Reason: "initial radius must be positive"}
		}
	case TwoLineElements:
		if s.TLE == nil {
			return configErr("scenario %s has no two-line element set", s.Name)
		}
	case Circular:
		if !(s.Radius > 0) {
			return &DomainError{Quantity: "radius", Value: s.Radius, Reason: "circular radius must be positive"}
		}
	default:
		return configErr("scenario %s has no radius source", s.Name)
	}
	return nil
}

// Run computes the radius, redshift and drift series of the scenario. Logger and metrics may be nil.
func (s Scenario) Run(logger kitlog.Logger, metrics *Collector) (Result, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	logger = kitlog.With(logger, "scenario", s.Name)
	start := time.Now()
	res, err := s.run(logger, metrics)
	if err != nil {
		logger.Log("level", "error", "subsys", "einstein", "err", err)
		return Result{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	if metrics != nil {
		metrics.ScenarioDuration.WithLabelValues(s.Source.String()).Observe(time.Since(start).Seconds())
	}
	logger.Log("level", "notice", "subsys", "einstein", "status", "finished", "source", s.Source, "model", s.Model, "summary", res.Summary)
	return res, nil
}

func (s Scenario) run(logger kitlog.Logger, metrics *Collector) (Result, error) {
	if err := s.Validate(); err != nil {
		metrics.observeError("scenario", err)
		return Result{}, err
	}
	times := TimeGrid(0, s.duration(), s.Samples)
	var radii []float64
	var nominal float64
	switch s.Source {
	case ClosedForm:
		if HighEccentricity(s.Elements.E) {
			logger.Log("level", "warning", "subsys", "kepler", "e", s.Elements.E, "message", "high eccentricity, Newton solve may be slow")
		}
		states, diag, err := PropagateClosedFormDiagnostics(s.Elements, times)
		metrics.observePropagation(diag)
		if err != nil {
			metrics.observeError("propagation", err)
			return Result{}, err
		}
		if diag.Unconverged > 0 {
			logger.Log("level", "warning", "subsys", "kepler", "unconverged", diag.Unconverged, "residual", diag.MaxResidual)
		}
		radii = Radii(states)
		nominal = s.Elements.A
	case Integrated:
		states, err := IntegrateTwoBody(s.Constants, s.R0, s.V0, s.Body, TimeSpan{0, s.duration()}, s.Samples, s.Integrator)
		metrics.observeIntegration(s.integrationMethod(), err)
		if err != nil {
			metrics.observeError("integration", err)
			return Result{}, err
		}
		_, radii = RadiusSeries(states)
		nominal = s.R0
	case TwoLineElements:
		var err error
		if radii, err = s.TLE.Radii(times); err != nil {
			metrics.observeError("tle", err)
			return Result{}, err
		}
		nominal = floats.Sum(radii) / float64(len(radii))
	case Circular:
		radii = make([]float64, len(times))
		for i := range radii {
			radii[i] = s.Radius
		}
		nominal = s.Radius
	}
	rObs, err := s.observer()
	if err != nil {
		return Result{}, err
	}
	mass := s.Body.Mass
	samples, err := s.Constants.RedshiftSeries(s.Model, mass, rObs, times, radii)
	if err != nil {
		metrics.observeError("redshift", err)
		return Result{}, err
	}
	rule := s.Rule
	if rule == 0 {
		rule = LeftRule
	}
	drift, err := AccumulateDriftWith(samples, rule)
	if err != nil {
		metrics.observeError("drift", err)
		return Result{}, err
	}
	idealR := s.IdealRadius
	if idealR == 0 {
		idealR = nominal
	}
	idealRatio, err := s.Constants.Redshift(s.Model, mass, idealR, rObs)
	if err != nil {
		metrics.observeError("redshift", err)
		return Result{}, err
	}
	ideal := IdealDrift(idealRatio, times)

	ratios := make([]float64, len(samples))
	for i, smp := range samples {
		ratios[i] = smp.Ratio
	}
	lo, hi := floats.Min(ratios), floats.Max(ratios)
	return Result{
		Scenario: s.Name,
		Times:    times,
		Radii:    radii,
		Redshift: samples,
		Drift:    drift,
		Ideal:    ideal,
		Summary: Summary{
			MinRatio:        lo,
			MaxRatio:        hi,
			PeakToPeakPPT:   (hi - lo) * 1e12,
			FinalDrift:      drift.Final(),
			FinalIdealDrift: ideal.Final(),
			IdealRatio:      idealRatio,
		},
	}, nil
}

func (s Scenario) integrationMethod() IntegrationMethod {
	if s.Integrator.Method == 0 {
		return DormandPrince
	}
	return s.Integrator.Method
}

// RunScenarios runs every scenario concurrently. Results are in the order of the scenarios, and
// the error joins the failures of all scenarios. A failed scenario leaves a zero Result.
func RunScenarios(scenarios []Scenario, logger kitlog.Logger, metrics *Collector) ([]Result, error) {
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	results := make([]Result, len(scenarios))
	errs := make([]error, len(scenarios))
	var wg sync.WaitGroup
	for i := range scenarios {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = scenarios[i].Run(logger, metrics)
		}(i)
	}
	wg.Wait()
	return results, errors.Join(errs...)
}

// CircularScenario returns the circular comparator of a scenario at the provided radius.
func (s Scenario) CircularScenario(radius float64) Scenario {
	c := s
	c.Name = s.Name + "-circular"
	c.Source = Circular
	c.Radius = radius
	c.IdealRadius = radius
	if c.Duration == 0 {
		c.Duration = s.duration()
	}
	return c
}
