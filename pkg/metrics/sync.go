package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records metadata for catalog sync loads.
type SyncMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	fallback prometheus.Counter
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sync_load_duration_seconds",
		Help:    "Duration of catalog sync loads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"direction"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_load_success",
		Help: "Successful catalog sync loads.",
	}, []string{"direction"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_load_failure",
		Help: "Failed catalog sync loads.",
	}, []string{"direction"})
	fallback := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sync_summary_fallback_total",
		Help: "Catalog rows stored without detail after a failed detail fetch.",
	})
	reg.MustRegister(duration, success, failure, fallback)
	return &SyncMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		fallback: fallback,
	}
}

// ObserveLoadDuration records the duration for the given load direction.
func (s *SyncMetrics) ObserveLoadDuration(direction string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(direction)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the given load direction.
func (s *SyncMetrics) IncSuccess(direction string) {
	if s == nil || s.success == nil {
		return
	}
	s.success.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncFailure increments the failure counter for the given load direction.
func (s *SyncMetrics) IncFailure(direction string) {
	if s == nil || s.failure == nil {
		return
	}
	s.failure.WithLabelValues(normalizeLabel(direction)).Inc()
}

// IncSummaryFallback counts a row persisted with summary data only.
func (s *SyncMetrics) IncSummaryFallback() {
	if s == nil || s.fallback == nil {
		return
	}
	s.fallback.Inc()
}

func normalizeLabel(direction string) string {
	if direction == "" {
		return "unknown"
	}
	return direction
}
