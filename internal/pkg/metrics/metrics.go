package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "vidnotes"

// Metrics holds the share engine counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	sharesIssued   *prometheus.CounterVec
	forks          *prometheus.CounterVec
	notesForked    prometheus.Counter
	callbackRoutes *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: registry,
		sharesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "share",
			Name:      "tokens_issued_total",
			Help:      "Share token issue requests by kind and outcome (created, reused).",
		}, []string{"kind", "outcome"}),
		forks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "share",
			Name:      "forks_total",
			Help:      "Fork attempts by kind and outcome (copied, already_forked, failed).",
		}, []string{"kind", "outcome"}),
		notesForked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "share",
			Name:      "notes_forked_total",
			Help:      "Notes copied by forks.",
		}),
		callbackRoutes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "callback_routes_total",
			Help:      "Auth callback terminal states.",
		}, []string{"state"}),
	}

	registry.MustRegister(m.sharesIssued, m.forks, m.notesForked, m.callbackRoutes)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ShareIssued(kind string, created bool) {
	if m == nil {
		return
	}
	outcome := "reused"
	if created {
		outcome = "created"
	}
	m.sharesIssued.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Forked(kind string, notesCopied int, alreadyForked bool) {
	if m == nil {
		return
	}
	outcome := "copied"
	if alreadyForked {
		outcome = "already_forked"
	}
	m.forks.WithLabelValues(kind, outcome).Inc()
	m.notesForked.Add(float64(notesCopied))
}

func (m *Metrics) ForkFailed(kind string) {
	if m == nil {
		return
	}
	m.forks.WithLabelValues(kind, "failed").Inc()
}

func (m *Metrics) CallbackRouted(state string) {
	if m == nil {
		return
	}
	m.callbackRoutes.WithLabelValues(state).Inc()
}
