package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeApplied    = "applied"
	OutcomeMissing    = "missing"
	OutcomeRejected   = "rejected"
	OutcomeUnexpected = "unexpected"
	OutcomeDetached   = "detached"
	OutcomeFailed     = "failed"
)

// Recorder counts toggles by outcome. A nil Recorder records nothing.
type Recorder struct {
	toggles  *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewRecorder(registerer prometheus.Registerer) *Recorder {
	r := &Recorder{
		toggles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "foodgram",
				Subsystem: "collection",
				Name:      "toggles_total",
				Help:      "Favorite and shopping cart toggles by outcome.",
			},
			[]string{"operation", "desired", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "foodgram",
				Subsystem: "collection",
				Name:      "toggle_duration_seconds",
				Help:      "Round trip time of a toggle in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
	if registerer != nil {
		registerer.MustRegister(r.toggles, r.duration)
	}
	return r
}

func (r *Recorder) RecordToggle(operation string, desired bool, outcome string, duration time.Duration) {
	if r == nil {
		return
	}
	r.toggles.WithLabelValues(operation, strconv.FormatBool(desired), outcome).Inc()
	r.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (r *Recorder) Toggles() *prometheus.CounterVec {
	return r.toggles
}
