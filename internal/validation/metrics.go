// metrics.go - Prometheus instrumentation for bundle validation.

package validation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ycash"

// Metrics collects validation counters. A nil *Metrics records nothing.
type Metrics struct {
	bundles      *prometheus.CounterVec
	rejections   *prometheus.CounterVec
	descriptions *prometheus.CounterVec
	duration     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		bundles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sapling",
			Name:      "bundles_total",
			Help:      "Shielded bundles validated, by result.",
		}, []string{"result"}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sapling",
			Name:      "rejections_total",
			Help:      "Rejected bundles, by reason.",
		}, []string{"reason"}),
		descriptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "sapling",
			Name:      "descriptions_checked_total",
			Help:      "Spend and output descriptions passed to the verifier.",
		}, []string{"kind"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "sapling",
			Name:      "bundle_verification_seconds",
			Help:      "Time spent validating one bundle.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
	}

	for _, c := range []prometheus.Collector{m.bundles, m.rejections, m.descriptions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) recordDescription(kind string) {
	if m == nil {
		return
	}
	m.descriptions.WithLabelValues(kind).Inc()
}

func (m *Metrics) recordResult(err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(elapsed.Seconds())
	if err == nil {
		m.bundles.WithLabelValues("valid").Inc()
		return
	}
	m.bundles.WithLabelValues("invalid").Inc()
	m.rejections.WithLabelValues(Reason(err)).Inc()
}
