package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for module access control.
// Tracks access decisions, permission mutations, audit failures and cache
// effectiveness.
type Metrics struct {
	Decisions       *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
	Mutations       *prometheus.CounterVec
	NoOpMutations   *prometheus.CounterVec
	MutateDuration  prometheus.Histogram
	AuditFailures   prometheus.Counter
	CacheLookups    *prometheus.CounterVec
}

// New creates a Metrics instance registered with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers with reg so tests can use isolated registries.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_access_decisions_total",
			Help: "Module access decisions by module and outcome",
		}, []string{"module", "outcome"}),
		ResolveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hospital_access_resolve_duration_seconds",
			Help:    "Duration of a full module resolution for one actor",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_access_mutations_total",
			Help: "Permission mutations by audit action",
		}, []string{"action"}),
		NoOpMutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_access_noop_mutations_total",
			Help: "Permission calls that changed nothing, by reported state",
		}, []string{"state"}),
		MutateDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hospital_access_mutation_duration_seconds",
			Help:    "Duration of permission mutations including the transaction",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		AuditFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "hospital_access_audit_failures_total",
			Help: "Audit entries that could not be appended after a committed mutation",
		}),
		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "hospital_access_override_cache_lookups_total",
			Help: "Override cache lookups by backend and result",
		}, []string{"backend", "result"}),
	}
}

// IncrementDecision records one access decision.
func (m *Metrics) IncrementDecision(moduleID string, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.Decisions.WithLabelValues(moduleID, outcome).Inc()
}

// ObserveResolve records the duration of a resolution.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}

// IncrementMutation records a state-changing permission call.
func (m *Metrics) IncrementMutation(action string) {
	m.Mutations.WithLabelValues(action).Inc()
}

// IncrementNoOp records a permission call that left state untouched.
func (m *Metrics) IncrementNoOp(state string) {
	m.NoOpMutations.WithLabelValues(state).Inc()
}

// ObserveMutate records the duration of a mutation.
func (m *Metrics) ObserveMutate(start time.Time) {
	m.MutateDuration.Observe(time.Since(start).Seconds())
}

// IncrementAuditFailure records an audit append that failed.
func (m *Metrics) IncrementAuditFailure() {
	m.AuditFailures.Inc()
}

// IncrementCacheHit records a cache hit for backend.
func (m *Metrics) IncrementCacheHit(backend string) {
	m.CacheLookups.WithLabelValues(backend, "hit").Inc()
}

// IncrementCacheMiss records a cache miss for backend.
func (m *Metrics) IncrementCacheMiss(backend string) {
	m.CacheLookups.WithLabelValues(backend, "miss").Inc()
}
