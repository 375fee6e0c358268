// Package observability exposes zone counters for the Prometheus textfile collector.
package observability

import (
	"time"

	"github.com/huangsam/hrzones/schema"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hrzones"

// Metrics holds the counters of one process. Each instance has its own
// registry so commands and tests do not share state.
type Metrics struct {
	registry     *prometheus.Registry
	samples      *prometheus.CounterVec
	unclassified prometheus.Counter
	activities   prometheus.Counter
	lastRun      prometheus.Gauge
}

// NewMetrics creates and registers the hrzones collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Number of aligned samples classified into each zone.",
		}, []string{"zone"}),
		unclassified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_unclassified_total",
			Help:      "Number of aligned samples that fell into no zone.",
		}),
		activities: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activities_total",
			Help:      "Number of activities aggregated.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix timestamp of the most recent completed run.",
		}),
	}
	m.registry.MustRegister(m.samples, m.unclassified, m.activities, m.lastRun)

	// Expose every zone even before the first sample arrives.
	for _, z := range schema.AllZones {
		m.samples.WithLabelValues(z.String())
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveActivity adds the counts of one aggregated activity.
func (m *Metrics) ObserveActivity(az schema.ActivityZones) {
	for i, b := range az.Buckets {
		m.samples.WithLabelValues(schema.Zone(i).String()).Add(float64(b.Count))
	}
	m.unclassified.Add(float64(az.Unclassified))
	m.activities.Inc()
}

// ObserveRun records the completion time of a run.
func (m *Metrics) ObserveRun(ts time.Time) {
	if ts.IsZero() {
		return
	}
	m.lastRun.Set(float64(ts.Unix()))
}

// WriteTextfile writes the registry in text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
