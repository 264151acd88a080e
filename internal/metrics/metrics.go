// Package metrics holds the Prometheus collectors for the event pipeline.
//
// Collectors are registered on a registry owned by the Metrics value, never
// on the global default registry, so several pipelines can live in one
// process (tests do this constantly). A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const namespace = "kineticdb"

// Metrics is the set of pipeline collectors.
type Metrics struct {
	registry *prometheus.Registry

	eventsAppended   prometheus.Counter
	appendDuration   prometheus.Histogram
	logLength        prometheus.Gauge
	observerFailures *prometheus.CounterVec
	eventsReplayed   *prometheus.CounterVec
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		eventsAppended: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_appended_total",
			Help:      "Total number of kinetic model events appended to the log",
		}),
		appendDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "append_duration_seconds",
			Help:      "Duration of event appends, including observer fan-out",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		logLength: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "event_log_length",
			Help:      "Number of events in the log",
		}),
		observerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "observer_failures_total",
			Help:      "Observer accept or catch-up failures",
		}, []string{"observer"}),
		eventsReplayed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_replayed_total",
			Help:      "Events handed to observers during catch-up",
		}, []string{"observer"}),
	}
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Appended records one append at the given log length.
func (m *Metrics) Appended(d time.Duration, length int64) {
	if m == nil {
		return
	}
	m.eventsAppended.Inc()
	m.appendDuration.Observe(d.Seconds())
	m.logLength.Set(float64(length))
}

// LogLength sets the current log length.
func (m *Metrics) LogLength(length int64) {
	if m == nil {
		return
	}
	m.logLength.Set(float64(length))
}

// ObserverFailed counts a failure of the named observer.
func (m *Metrics) ObserverFailed(observer string) {
	if m == nil {
		return
	}
	m.observerFailures.WithLabelValues(observer).Inc()
}

// Replayed counts n events handed to the named observer by catch-up.
func (m *Metrics) Replayed(observer string, n int) {
	if m == nil {
		return
	}
	m.eventsReplayed.WithLabelValues(observer).Add(float64(n))
}

// WriteText writes every collector in the Prometheus text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Sample is one flattened metric value.
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Samples flattens counters and gauges into name/labels/value triples, and
// histograms into their sample count. The result is sorted by name.
func (m *Metrics) Samples() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var out []Sample
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			out = append(out, Sample{
				Name:   mf.GetName(),
				Labels: labels(metric),
				Value:  value(mf.GetType(), metric),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labels(metric *dto.Metric) map[string]string {
	if len(metric.GetLabel()) == 0 {
		return nil
	}
	out := make(map[string]string, len(metric.GetLabel()))
	for _, lp := range metric.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func value(t dto.MetricType, metric *dto.Metric) float64 {
	switch t {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(metric.GetHistogram().GetSampleCount())
	}
	return 0
}
