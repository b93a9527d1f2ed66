package astar

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels used by Metrics.
const (
	OutcomeFound       = "found"
	OutcomeUnreachable = "unreachable"
	OutcomeCancelled   = "cancelled"
	OutcomeRejected    = "rejected"
)

// Metrics holds the Prometheus collectors updated by a Controller.
type Metrics struct {
	Searches *prometheus.CounterVec
	Duration prometheus.Histogram
	Expanded prometheus.Histogram
	Running  prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mazeastar_searches_total",
				Help: "Searches by outcome",
			},
			[]string{"outcome"},
		),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mazeastar_search_duration_seconds",
			Help:    "Wall time of completed searches",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		Expanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mazeastar_expanded_nodes",
			Help:    "Cells expanded per completed search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mazeastar_search_running",
			Help: "1 while a controller search is active",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Searches, m.Duration, m.Expanded, m.Running)
	}
	return m
}

func (m *Metrics) observe(result Result, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeUnreachable
	if result.Found {
		outcome = OutcomeFound
	}
	m.Searches.WithLabelValues(outcome).Inc()
	m.Duration.Observe(elapsed.Seconds())
	m.Expanded.Observe(float64(result.ExpandedNodes))
}

func (m *Metrics) count(outcome string) {
	if m == nil {
		return
	}
	m.Searches.WithLabelValues(outcome).Inc()
}

func (m *Metrics) setRunning(running bool) {
	if m == nil {
		return
	}
	if running {
		m.Running.Set(1)
	} else {
		m.Running.Set(0)
	}
}
