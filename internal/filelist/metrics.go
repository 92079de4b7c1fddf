package filelist

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts activations and enrichment fetches. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	activations       *prometheus.CounterVec
	enrichments       *prometheus.CounterVec
	enrichmentLatency *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		activations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filelist_activations_total",
				Help: "File list activations by primary fetch outcome.",
			},
			[]string{"outcome"},
		),
		enrichments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filelist_enrichment_total",
				Help: "Enrichment fetches by sub-resource and outcome.",
			},
			[]string{"resource", "outcome"},
		),
		enrichmentLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filelist_enrichment_duration_seconds",
				Help:    "Latency of enrichment fetches.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"resource"},
		),
	}

	for _, c := range []prometheus.Collector{m.activations, m.enrichments, m.enrichmentLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) activation(outcome string) {
	if m == nil {
		return
	}
	m.activations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) enrichment(resource, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.enrichments.WithLabelValues(resource, outcome).Inc()
	m.enrichmentLatency.WithLabelValues(resource).Observe(took.Seconds())
}
