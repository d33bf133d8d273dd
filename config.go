package einstein

import (
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
	"github.com/spf13/viper"
)

const (
	// ConfigEnv is the environment variable holding the directory of conf.toml.
	ConfigEnv = "EINSTEIN_CONFIG"
	// DateFormat is the accepted format of epochs which are not a JDE.
	DateFormat = "2006-01-02 15:04:05"
)

// ScenarioDirFromEnv returns the configuration directory from the environment.
func ScenarioDirFromEnv() (string, error) {
	confPath := os.Getenv(ConfigEnv)
	if confPath == "" {
		return "", configErr("environment variable `%s` is missing or empty", ConfigEnv)
	}
	return confPath, nil
}

// LoadScenarioDir reads conf.toml from the provided directory.
func LoadScenarioDir(dir string) (PhysicalConstants, []Scenario, error) {
	v := viper.New()
	v.SetConfigName("conf")
	v.AddConfigPath(dir)
	if err := v.ReadInConfig(); err != nil {
		return PhysicalConstants{}, nil, configErr("%s/conf.toml: %s", dir, err)
	}
	return LoadScenarios(v)
}

// LoadScenarioFile reads the scenarios of a single configuration file.
func LoadScenarioFile(path string) (PhysicalConstants, []Scenario, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return PhysicalConstants{}, nil, configErr("%s: %s", path, err)
	}
	return LoadScenarios(v)
}

// LoadScenarios reads the constants and every `scenario.N` table, N counting from zero.
func LoadScenarios(v *viper.Viper) (PhysicalConstants, []Scenario, error) {
	v.SetDefault("constants.G", DefaultConstants.G)
	v.SetDefault("constants.c", DefaultConstants.C)
	consts := PhysicalConstants{G: v.GetFloat64("constants.G"), C: v.GetFloat64("constants.c")}
	if err := consts.Validate(); err != nil {
		return PhysicalConstants{}, nil, err
	}
	var scenarios []Scenario
	for no := 0; v.IsSet(fmt.Sprintf("scenario.%d", no)); no++ {
		s, err := readScenario(v, fmt.Sprintf("scenario.%d", no), consts)
		if err != nil {
			return PhysicalConstants{}, nil, err
		}
		scenarios = append(scenarios, s)
	}
	if len(scenarios) == 0 {
		return PhysicalConstants{}, nil, configErr("no scenario defined")
	}
	return consts, scenarios, nil
}

func readScenario(v *viper.Viper, key string, consts PhysicalConstants) (s Scenario, err error) {
	get := func(name string) string { return key + "." + name }
	v.SetDefault(get("name"), key)
	v.SetDefault(get("model"), NewtonianToInfinity.String())
	v.SetDefault(get("samples"), 1000)
	s = Scenario{
		Name:           v.GetString(get("name")),
		Constants:      consts,
		ObserverRadius: v.GetFloat64(get("observer")),
		IdealRadius:    v.GetFloat64(get("circularRadius")),
		Duration:       v.GetDuration(get("duration")).Seconds(),
		Samples:        v.GetInt(get("samples")),
	}
	wrap := func(err error) error {
		return fmt.Errorf("%s (%s): %w", key, s.Name, err)
	}
	if solarMasses := v.GetFloat64(get("solarMasses")); solarMasses > 0 {
		// Point mass, e.g. Sgr A* with another mass estimate.
		s.Body = NewSupermassiveBlackHole(v.GetString(get("body")), solarMasses)
	} else if s.Body, err = CentralBodyFromString(v.GetString(get("body"))); err != nil {
		return s, wrap(err)
	}
	if s.Source, err = RadiusSourceFromString(v.GetString(get("source"))); err != nil {
		return s, wrap(err)
	}
	if s.Model, err = RedshiftModelFromString(v.GetString(get("model"))); err != nil {
		return s, wrap(err)
	}
	if s.Rule, err = integrationRuleFromString(v.GetString(get("rule"))); err != nil {
		return s, wrap(err)
	}

	switch s.Source {
	case ClosedForm:
		s.Elements, err = readElements(v, key, consts, s.Body)
	case Integrated:
		err = readInitialState(v, key, &s)
	case TwoLineElements:
		var epoch time.Time
		if epoch, err = readJDEorTime(v, get("epoch")); err != nil {
			break
		}
		if epoch.IsZero() {
			err = configErr("an epoch is required to propagate a two-line element set")
			break
		}
		s.TLE, err = NewTLESource(v.GetString(get("tle1")), v.GetString(get("tle2")), epoch)
	case Circular:
		s.Radius = s.IdealRadius
	}
	if err != nil {
		return s, wrap(err)
	}
	return s, nil
}

// readElements reads either (a, e, period) or the perigee and apogee altitudes.
// A missing period is computed with Kepler's third law.
func readElements(v *viper.Viper, key string, c PhysicalConstants, body CentralBody) (OrbitalElements, error) {
	a := v.GetFloat64(key + ".a")
	if a == 0 {
		if !v.IsSet(key+".perigeeAlt") || !v.IsSet(key+".apogeeAlt") {
			return OrbitalElements{}, configErr("orbit needs `a` or both `perigeeAlt` and `apogeeAlt`")
		}
		return NewOrbitalElementsFromAltitudes(c, body, v.GetFloat64(key+".perigeeAlt"), v.GetFloat64(key+".apogeeAlt"))
	}
	e := v.GetFloat64(key + ".e")
	if period := v.GetDuration(key + ".period"); period > 0 {
		return NewOrbitalElements(a, e, period.Seconds())
	}
	return NewOrbitalElementsAround(c, body, a, e)
}

// readInitialState reads r0 and v0. The speed may be given as a factor of the circular velocity,
// and without r0 the integration starts at the periapsis of the configured orbit.
func readInitialState(v *viper.Viper, key string, s *Scenario) error {
	method, err := IntegrationMethodFromString(v.GetString(key + ".integrator"))
	if err != nil {
		return err
	}
	s.Integrator = DefaultIntegratorConfig()
	s.Integrator.Method = method
	if v.IsSet(key + ".substeps") {
		s.Integrator.SubSteps = v.GetInt(key + ".substeps")
	}
	s.R0 = v.GetFloat64(key + ".r0")
	s.V0 = v.GetFloat64(key + ".v0")
	if s.R0 == 0 {
		oe, err := readElements(v, key, s.Constants, s.Body)
		if err != nil {
			return err
		}
		// Vis-viva at periapsis.
		s.R0 = oe.Periapsis()
		s.V0 = math.Sqrt(s.Body.GM(s.Constants) * (2/s.R0 - 1/oe.A))
		return nil
	}
	if factor := v.GetFloat64(key + ".vFactor"); s.V0 == 0 && factor > 0 {
		vc, err := CircularVelocity(s.Constants, s.Body, s.R0)
		if err != nil {
			return err
		}
		s.V0 = factor * vc
	}
	return nil
}

// readJDEorTime reads an epoch given either as a JDE or as a DateFormat date.
// An unset key returns the zero time.
func readJDEorTime(v *viper.Viper, key string) (dt time.Time, err error) {
	if !v.IsSet(key) {
		return
	}
	if t, ok := v.Get(key).(time.Time); ok {
		// TOML datetime literal.
		return t.UTC(), nil
	}
	if jde := v.GetFloat64(key); jde != 0 {
		return julian.JDToTime(jde), nil
	}
	dt, err = time.Parse(DateFormat, strings.TrimSpace(v.GetString(key)))
	if err != nil {
		err = configErr("could not understand `%s`: %s", key, err)
	}
	return
}

func integrationRuleFromString(name string) (IntegrationRule, error) {
	switch name {
	case "", LeftRule.String():
		return LeftRule, nil
	case Trapezoidal.String():
		return Trapezoidal, nil
	}
	return 0, configErr("unknown drift integration rule '%s'", name)
}
