package verify

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the attempt counters and timing histograms.
type Metrics struct {
	attempts    *prometheus.CounterVec
	pinDuration *prometheus.HistogramVec
	receiptWait prometheus.Histogram
}

// NewMetrics registers the verification metrics on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		attempts: f.NewCounterVec(prometheus.CounterOpts{
			Name: "verify_attempts_total",
			Help: "Verification attempts by mode and result.",
		}, []string{"mode", "result"}),
		pinDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pin_upload_duration_seconds",
			Help:    "Pinning upload latency by provider.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}, []string{"provider", "status"}),
		receiptWait: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "chain_receipt_wait_seconds",
			Help:    "Time from submission to mined receipt.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *Metrics) attempt(mode Mode, result string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(string(mode), result).Inc()
}

func (m *Metrics) pinned(provider string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.pinDuration.WithLabelValues(provider, status).Observe(time.Since(start).Seconds())
}

func (m *Metrics) receipt(start time.Time) {
	if m == nil {
		return
	}
	m.receiptWait.Observe(time.Since(start).Seconds())
}
