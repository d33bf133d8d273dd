package einstein

import (
	"errors"
	"strings"

	kitlog "github.com/go-kit/kit/log"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Collector bundles the Prometheus metrics of scenario runs.
type Collector struct {
	KeplerSolves        prometheus.Counter
	KeplerIterations    prometheus.Histogram
	KeplerUnconverged   prometheus.Counter
	Integrations        *prometheus.CounterVec
	IntegrationFailures *prometheus.CounterVec
	DomainErrors        *prometheus.CounterVec
	ScenarioDuration    *prometheus.HistogramVec
}

// NewCollector registers the metrics against the provided registerer, defaulting to the global
// Prometheus registry when nil.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		KeplerSolves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "einstein_kepler_solves_total",
			Help: "Number of Kepler equations solved.",
		}),
		KeplerIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "einstein_kepler_iterations",
			Help:    "Newton iterations per Kepler solve.",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 20, MaxKeplerIterations},
		}),
		KeplerUnconverged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "einstein_kepler_unconverged_total",
			Help: "Kepler solves which stopped on the iteration bound.",
		}),
		Integrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "einstein_integrations_total",
			Help: "Two-body integrations, labeled by method.",
		}, []string{"method"}),
		IntegrationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "einstein_integration_failures_total",
			Help: "Failed two-body integrations, labeled by method.",
		}, []string{"method"}),
		DomainErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "einstein_domain_errors_total",
			Help: "Domain errors, labeled by pipeline stage.",
		}, []string{"stage"}),
		ScenarioDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "einstein_scenario_duration_seconds",
			Help:    "Wall time of a scenario run, labeled by radius source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
	}
	for _, col := range []prometheus.Collector{c.KeplerSolves, c.KeplerIterations, c.KeplerUnconverged, c.Integrations, c.IntegrationFailures, c.DomainErrors, c.ScenarioDuration} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// observePropagation records the Kepler diagnostics of a closed form propagation.
func (c *Collector) observePropagation(diag PropagationDiagnostics) {
	if c == nil {
		return
	}
	for _, it := range diag.Iterations {
		c.KeplerSolves.Inc()
		c.KeplerIterations.Observe(float64(it))
	}
	c.KeplerUnconverged.Add(float64(diag.Unconverged))
}

// observeIntegration records an integration outcome.
func (c *Collector) observeIntegration(method IntegrationMethod, err error) {
	if c == nil {
		return
	}
	c.Integrations.WithLabelValues(method.String()).Inc()
	if err != nil {
		c.IntegrationFailures.WithLabelValues(method.String()).Inc()
	}
}

// observeError counts domain errors of a pipeline stage.
func (c *Collector) observeError(stage string, err error) {
	if c == nil || !errors.Is(err, ErrDomain) {
		return
	}
	c.DomainErrors.WithLabelValues(stage).Inc()
}

// LogMetrics writes one log line per gathered sample, for runs without a scrape endpoint.
func LogMetrics(logger kitlog.Logger, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			kv := []interface{}{"level", "info", "subsys", "metrics", "name", mf.GetName()}
			if labels := labelString(m.GetLabel()); labels != "" {
				kv = append(kv, "labels", labels)
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				kv = append(kv, "value", m.GetCounter().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				kv = append(kv, "count", h.GetSampleCount(), "sum", h.GetSampleSum())
			default:
				continue
			}
			logger.Log(kv...)
		}
	}
	return nil
}

func labelString(pairs []*dto.LabelPair) string {
	labels := make([]string, len(pairs))
	for i, p := range pairs {
		labels[i] = p.GetName() + "=" + p.GetValue()
	}
	return strings.Join(labels, ",")
}
