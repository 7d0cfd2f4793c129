package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the redemption pipeline.
type Metrics struct {
	ScansValidated    *prometheus.CounterVec // outcome: allowed|denied|unresolved
	RecordsWritten    *prometheus.CounterVec // forced: true|false
	DuplicatesFound   prometheus.Counter
	DocumentsPlanned  *prometheus.CounterVec // plan: direct|abstract_dependent
	DocumentsRendered *prometheus.CounterVec // outcome: ok|error
	DedupeCacheHits   prometheus.Counter
	IssuanceBlocked   prometheus.Counter
	RecordDurationMs  prometheus.Histogram
	ResolveDurationMs prometheus.Histogram
}

// New creates all metrics and registers them with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics against the given registerer. Tests use
// it with a fresh registry so parallel constructions never collide.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ScansValidated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventops_scans_validated_total",
			Help: "Total scan validations by outcome",
		}, []string{"outcome"}),
		RecordsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventops_usage_records_written_total",
			Help: "Total usage records written, partitioned by forced flag",
		}, []string{"forced"}),
		DuplicatesFound: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventops_duplicate_redemptions_total",
			Help: "Total non-forced record attempts that hit an existing record",
		}),
		DocumentsPlanned: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventops_certificate_plans_total",
			Help: "Total certificate generation plans by kind",
		}, []string{"plan"}),
		DocumentsRendered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eventops_documents_rendered_total",
			Help: "Total PDF render calls by outcome",
		}, []string{"outcome"}),
		DedupeCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventops_dedupe_cache_hits_total",
			Help: "Total scans suppressed by the station dedupe cache",
		}),
		IssuanceBlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "eventops_issuance_blocked_total",
			Help: "Total certificate issuances blocked for lack of an approved abstract",
		}),
		RecordDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventops_record_duration_ms",
			Help:    "Latency of the authoritative record operation in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
		ResolveDurationMs: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "eventops_resolve_duration_ms",
			Help:    "Latency of certificate plan resolution in milliseconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		}),
	}
}

// ObserveRecordDuration records the latency of a Record call.
func (m *Metrics) ObserveRecordDuration(start time.Time) {
	m.RecordDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// ObserveResolveDuration records the latency of a Resolve call.
func (m *Metrics) ObserveResolveDuration(start time.Time) {
	m.ResolveDurationMs.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}
