package einstein

import (
	"fmt"
	"math"

	"github.com/ChristopherRabotin/ode"
	"github.com/gonum/floats"
	"github.com/ready-steady/ode/dopri"
)

// IntegrationMethod selects the two-body integrator.
type IntegrationMethod uint8

const (
	// DormandPrince is the adaptive 5(4) Runge-Kutta method.
	DormandPrince IntegrationMethod = iota + 1
	// RK4 is the classical fixed-step Runge-Kutta method.
	RK4
)

func (m IntegrationMethod) String() string {
	switch m {
	case DormandPrince:
		return "dopri"
	case RK4:
		return "rk4"
	}
	panic("cannot stringify unknown integration method")
}

// IntegrationMethodFromString returns the method from its name.
func IntegrationMethodFromString(name string) (IntegrationMethod, error) {
	switch name {
	case "", "dopri":
		return DormandPrince, nil
	case "rk4":
		return RK4, nil
	}
	return 0, configErr("unknown integration method '%s'", name)
}

// IntegratorConfig tunes the two-body integration.
type IntegratorConfig struct {
	Method            IntegrationMethod
	RelativeTolerance float64 // DormandPrince only
	AbsoluteTolerance float64 // DormandPrince only
	MaxStep           float64 // DormandPrince only, seconds; zero means one output interval
	SubSteps          int     // RK4 only: steps per output interval
	// ConservationTolerance bounds the drift of the specific energy and angular momentum over
	// the trajectory, relative to their circular orbit scale at r0. Zero means 1e-6.
	ConservationTolerance float64
}

const (
	defaultConservationTolerance = 1e-6
	// collapseFraction of r0 under which the trajectory is considered collapsed onto the centre.
	collapseFraction = 1e-6
)

// DefaultIntegratorConfig returns the adaptive integrator with tight tolerances.
func DefaultIntegratorConfig() IntegratorConfig {
	return IntegratorConfig{Method: DormandPrince, RelativeTolerance: 1e-9, AbsoluteTolerance: 1e-12, SubSteps: 200, ConservationTolerance: defaultConservationTolerance}
}

// collapseRadius returns the radius under which an integration is considered collapsed: the
// Schwarzschild radius of the body, or a millionth of r0 if larger.
func collapseRadius(c PhysicalConstants, body CentralBody, r0 float64) float64 {
	return math.Max(c.SchwarzschildRadius(body.Mass), collapseFraction*r0)
}

// periapsisFromTangential returns the periapsis of the conic through (r0, 0) with velocity (0, v0).
func periapsisFromTangential(μ, r0, v0 float64) float64 {
	h := r0 * v0
	ξ := v0*v0/2 - μ/r0
	e := math.Sqrt(math.Max(0, 1+2*ξ*h*h/(μ*μ)))
	return h * h / μ / (1 + e)
}

// TimeSpan is a closed time interval in seconds.
type TimeSpan struct {
	Start, End float64
}

// Duration returns End - Start.
func (s TimeSpan) Duration() float64 {
	return s.End - s.Start
}

// IntegratedState is a planar position and velocity at time T.
type IntegratedState struct {
	T      float64
	X, Y   float64 // m
	VX, VY float64 // m/s
}

// Radius returns √(x²+y²).
func (s IntegratedState) Radius() float64 {
	return norm([]float64{s.X, s.Y})
}

// Speed returns the norm of the velocity.
func (s IntegratedState) Speed() float64 {
	return norm([]float64{s.VX, s.VY})
}

// SpecificEnergy returns ½v² - μ/r.
func (s IntegratedState) SpecificEnergy(μ float64) float64 {
	V := []float64{s.VX, s.VY}
	return 0.5*dot(V, V) - μ/s.Radius()
}

// SpecificAngularMomentum returns x·vy - y·vx.
func (s IntegratedState) SpecificAngularMomentum() float64 {
	return cross2([]float64{s.X, s.Y}, []float64{s.VX, s.VY})
}

// CircularVelocity returns √(GM/r).
func CircularVelocity(c PhysicalConstants, body CentralBody, r float64) (float64, error) {
	if !(r > 0) {
		return 0, &DomainError{Quantity: "r", Value: r, Reason: "radius must be positive"}
	}
	return math.Sqrt(body.GM(c) / r), nil
}

// IntegrateTwoBody integrates the planar two-body problem starting at (r0, 0) with the purely
// tangential velocity (0, v0), and returns exactly samples states evenly spaced over the span.
// Any integrator failure fails the call: no partial trajectory is returned. A trajectory whose
// periapsis is under the collapse radius, or along which the specific energy or angular
// momentum drift beyond the conservation tolerance, is an integration failure.
func IntegrateTwoBody(c PhysicalConstants, r0, v0 float64, body CentralBody, span TimeSpan, samples int, conf IntegratorConfig) ([]IntegratedState, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if err := body.Validate(); err != nil {
		return nil, err
	}
	if !(r0 > 0) || math.IsInf(r0, 0) {
		return nil, &DomainError{Quantity: "r0", Value: r0, Reason: "initial radius must be positive"}
	}
	if !(v0 >= 0) || math.IsInf(v0, 0) {
		return nil, &DomainError{Quantity: "v0", Value: v0, Reason: "initial speed must not be negative"}
	}
	if samples < 2 {
		return nil, &DomainError{Quantity: "samples", Value: float64(samples), Reason: "at least two samples are needed"}
	}
	if !(span.End > span.Start) {
		return nil, &DomainError{Quantity: "span", Value: span.Duration(), Reason: "end must be after start"}
	}
	if conf.Method != DormandPrince && conf.Method != RK4 && conf.Method != 0 {
		return nil, configErr("unknown integration method %d", conf.Method)
	}
	μ := body.GM(c)
	floor := collapseRadius(c, body, r0)
	if rp := periapsisFromTangential(μ, r0, v0); !(rp > floor) {
		return nil, integrationErr("radius collapses: periapsis %g m is under %g m", rp, floor)
	}
	grid := TimeGrid(span.Start, span.End, samples)
	y0 := []float64{r0, 0, 0, v0}

	var states []IntegratedState
	var err error
	if conf.Method == RK4 {
		states, err = integrateRK4(μ, floor, y0, grid, conf)
	} else {
		states, err = integrateDopri(μ, y0, grid, conf)
	}
	if err != nil {
		return nil, err
	}
	tol := conf.ConservationTolerance
	if tol <= 0 {
		tol = defaultConservationTolerance
	}
	if err := checkTrajectory(μ, r0, floor, tol, states); err != nil {
		return nil, err
	}
	return states, nil
}

// checkTrajectory fails on a non finite or collapsed state, and on any drift of the specific
// energy or angular momentum beyond tol times their scale: μ/r0 and √(μr0) respectively, or the
// initial value if larger.
func checkTrajectory(μ, r0, floor, tol float64, states []IntegratedState) error {
	ξ0, h0 := states[0].SpecificEnergy(μ), states[0].SpecificAngularMomentum()
	ξScale := math.Max(math.Abs(ξ0), μ/r0)
	hScale := math.Max(math.Abs(h0), math.Sqrt(μ*r0))
	for i, s := range states {
		if !finite(s.X, s.Y, s.VX, s.VY) {
			return integrationErr("non finite state at sample %d (t=%g)", i, s.T)
		}
		if r := s.Radius(); !(r > floor) {
			return integrationErr("radius collapsed to %g m at sample %d (t=%g)", r, i, s.T)
		}
		if ξ := s.SpecificEnergy(μ); !floats.EqualWithinAbs(ξ, ξ0, tol*ξScale) {
			return integrationErr("specific energy drifted from %g to %g at sample %d (t=%g)", ξ0, ξ, i, s.T)
		}
		if h := s.SpecificAngularMomentum(); !floats.EqualWithinAbs(h, h0, tol*hScale) {
			return integrationErr("angular momentum drifted from %g to %g at sample %d (t=%g)", h0, h, i, s.T)
		}
	}
	return nil
}

// twoBodyDerivative fills f with the derivative of y = [x, y, vx, vy].
func twoBodyDerivative(μ float64, y, f []float64) {
	r := norm(y[:2])
	acc := -μ / (r * r * r)
	f[0] = y[2]
	f[1] = y[3]
	f[2] = acc * y[0]
	f[3] = acc * y[1]
}

func integrateDopri(μ float64, y0, grid []float64, conf IntegratorConfig) ([]IntegratedState, error) {
	dconf := dopri.DefaultConfig()
	if conf.RelativeTolerance > 0 {
		dconf.RelError = conf.RelativeTolerance
	}
	if conf.AbsoluteTolerance > 0 {
		dconf.AbsError = conf.AbsoluteTolerance
	}
	dconf.MaxStep = conf.MaxStep
	if dconf.MaxStep <= 0 {
		dconf.MaxStep = grid[1] - grid[0]
	}
	integrator, err := dopri.New(dconf)
	if err != nil {
		return nil, integrationErr("%s", err)
	}
	values, _, err := integrator.Compute(func(_ float64, y, f []float64) {
		twoBodyDerivative(μ, y, f)
	}, y0, grid)
	if err != nil {
		return nil, integrationErr("%s", err)
	}
	ny := len(y0)
	if len(grid) == 2 && len(values) >= 2*ny && len(values)%ny == 0 {
		// Two points are not a fixed grid: every internal step is returned.
		values = append(values[:ny:ny], values[len(values)-ny:]...)
	}
	if len(values) != ny*len(grid) {
		return nil, integrationErr("expected %d states, got %d values", len(grid), len(values))
	}
	states := make([]IntegratedState, len(grid))
	for k, t := range grid {
		y := values[k*ny : (k+1)*ny]
		states[k] = IntegratedState{T: t, X: y[0], Y: y[1], VX: y[2], VY: y[3]}
	}
	return states, nil
}

// twoBodyRK4 is an ode.Integrable recording the state on the output grid.
type twoBodyRK4 struct {
	μ        float64
	floor    float64 // collapse radius
	state    []float64
	grid     []float64
	subSteps int
	step     int // index of the state being computed
	total    int
	states   []IntegratedState
	err      error
}

// GetState implements the ode.Integrable interface.
func (p *twoBodyRK4) GetState() []float64 {
	return p.state
}

// SetState implements the ode.Integrable interface.
func (p *twoBodyRK4) SetState(t float64, s []float64) {
	p.state = append(p.state[:0], s...)
	if !finite(s...) {
		p.err = integrationErr("non finite state at step %d", p.step)
		return
	}
	if r := norm(s[:2]); !(r > p.floor) {
		p.err = integrationErr("radius collapsed to %g m at step %d (t=%g)", r, p.step, t)
		return
	}
	if p.step%p.subSteps == 0 {
		p.record(p.step / p.subSteps)
	}
}

// Stop implements the ode.Integrable interface.
func (p *twoBodyRK4) Stop(t float64) bool {
	if p.err != nil || p.step >= p.total {
		return true
	}
	p.step++
	return false
}

// Func implements the ode.Integrable interface.
func (p *twoBodyRK4) Func(t float64, s []float64) []float64 {
	f := make([]float64, len(s))
	twoBodyDerivative(p.μ, s, f)
	return f
}

func (p *twoBodyRK4) record(k int) {
	p.states = append(p.states, IntegratedState{T: p.grid[k], X: p.state[0], Y: p.state[1], VX: p.state[2], VY: p.state[3]})
}

func integrateRK4(μ, floor float64, y0, grid []float64, conf IntegratorConfig) ([]IntegratedState, error) {
	subSteps := conf.SubSteps
	if subSteps <= 0 {
		subSteps = DefaultIntegratorConfig().SubSteps
	}
	h := (grid[1] - grid[0]) / float64(subSteps)
	p := &twoBodyRK4{μ: μ, floor: floor, state: append([]float64{}, y0...), grid: grid, subSteps: subSteps, total: (len(grid) - 1) * subSteps}
	p.record(0)
	ode.NewRK4(grid[0], h, p).Solve() // Blocking.
	if p.err != nil {
		return nil, p.err
	}
	if len(p.states) != len(grid) {
		return nil, integrationErr("RK4 stopped after %d of %d samples", len(p.states), len(grid))
	}
	return p.states, nil
}

// RadiusSeries returns the times and radii of an integrated trajectory.
func RadiusSeries(states []IntegratedState) (times, radii []float64) {
	times = make([]float64, len(states))
	radii = make([]float64, len(states))
	for i, s := range states {
		times[i] = s.T
		radii[i] = s.Radius()
	}
	return
}

// NewOrbitalElementsFromRV returns the elements of the planar orbit through the position R and
// velocity V, the argument of periapsis ω measured from the x axis, and the true anomaly ν of R.
func NewOrbitalElementsFromRV(c PhysicalConstants, body CentralBody, R, V []float64) (oe OrbitalElements, ω, ν float64, err error) {
	if err = body.Validate(); err != nil {
		return
	}
	μ := body.GM(c)
	r := norm(R)
	v := norm(V)
	if !(r > 0) {
		err = &DomainError{Quantity: "r", Value: r, Reason: "radius must be positive"}
		return
	}
	ξ := (v*v)/2 - μ/r
	if ξ >= 0 {
		err = &DomainError{Quantity: "energy", Value: ξ, Reason: "orbit is not bound"}
		return
	}
	a := -μ / (2 * ξ)
	eVec := make([]float64, 2)
	for i := 0; i < 2; i++ {
		eVec[i] = ((v*v-μ/r)*R[i] - dot(R, V)*V[i]) / μ
	}
	e := norm(eVec)
	if !floats.EqualWithinAbs(e, 0, 1e-12) {
		ω = math.Atan2(eVec[1], eVec[0])
	}
	ν = math.Atan2(R[1], R[0]) - ω
	if cross2(R, V) < 0 {
		// Retrograde: anomalies grow clockwise.
		ν = -ν
	}
	ν, _ = wrapAnomaly(ν)
	oe, err = NewOrbitalElements(a, e, KeplerPeriod(c, body, a))
	return
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// String implements the Stringer interface.
func (s IntegratedState) String() string {
	return fmt.Sprintf("t=%.1f R=[%.1f %.1f] V=[%.3f %.3f]", s.T, s.X, s.Y, s.VX, s.VY)
}
