package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the custody engine.
// A nil *Metrics is safe everywhere so tests and offline tools can skip
// instrumentation.
type Metrics struct {
	recordsCaptured  *prometheus.CounterVec
	syncsStarted     prometheus.Counter
	syncsSucceeded   prometheus.Counter
	syncsFailed      prometheus.Counter
	syncStepDuration *prometheus.HistogramVec
	verifications    *prometheus.CounterVec
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a caller-supplied registerer. Tests use
// a fresh registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		recordsCaptured: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_records_captured_total",
			Help: "Total custody records captured locally, by kind.",
		}, []string{"kind"}),
		syncsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "veritas_syncs_started_total",
			Help: "Total per-record sync pipelines started.",
		}),
		syncsSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "veritas_syncs_succeeded_total",
			Help: "Total per-record sync pipelines that reached COMPLETE.",
		}),
		syncsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "veritas_syncs_failed_total",
			Help: "Total per-record sync pipelines that ended in ERROR.",
		}),
		syncStepDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "veritas_sync_step_duration_seconds",
			Help:    "Duration of individual sync pipeline steps.",
			Buckets: prometheus.DefBuckets,
		}, []string{"step"}),
		verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "veritas_verifications_total",
			Help: "Total integrity verifications, by outcome reason.",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncRecordsCaptured(kind string) {
	if m == nil {
		return
	}
	m.recordsCaptured.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncSyncsStarted() {
	if m == nil {
		return
	}
	m.syncsStarted.Inc()
}

func (m *Metrics) IncSyncsSucceeded() {
	if m == nil {
		return
	}
	m.syncsSucceeded.Inc()
}

func (m *Metrics) IncSyncsFailed() {
	if m == nil {
		return
	}
	m.syncsFailed.Inc()
}

func (m *Metrics) ObserveSyncStep(step string, seconds float64) {
	if m == nil {
		return
	}
	m.syncStepDuration.WithLabelValues(step).Observe(seconds)
}

func (m *Metrics) IncVerifications(reason string) {
	if m == nil {
		return
	}
	m.verifications.WithLabelValues(reason).Inc()
}
