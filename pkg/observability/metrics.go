package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "quizflow"

// Metrics holds the collectors and the registry they are registered on.
type Metrics struct {
	registry *prometheus.Registry

	Transitions    *prometheus.CounterVec
	QuestionVisits *prometheus.CounterVec
	Completions    *prometheus.CounterVec
	Submissions    *prometheus.CounterVec
	StoreErrors    *prometheus.CounterVec
	Refreshes      *prometheus.CounterVec
}

// NewMetrics creates the collectors on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "flow_transitions_total",
				Help:      "Flow engine transitions by kind.",
			},
			[]string{"kind"},
		),
		QuestionVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "question_visits_total",
				Help:      "Times each question was presented.",
			},
			[]string{"question_id"},
		),
		Completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completions_total",
				Help:      "Completed runs by result category.",
			},
			[]string{"result"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Submission writes by outcome.",
			},
			[]string{"outcome"},
		),
		StoreErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_errors_total",
				Help:      "Result store failures by operation.",
			},
			[]string{"op"},
		),
		Refreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dashboard_refreshes_total",
				Help:      "Dashboard refreshes by outcome.",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.Transitions,
		m.QuestionVisits,
		m.Completions,
		m.Submissions,
		m.StoreErrors,
		m.Refreshes,
	)
	return m
}

// Registry returns the registry backing these metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns flow hooks that record transitions.
func (m *Metrics) Hooks() domain.FlowHooks {
	return domain.FlowHooks{
		OnBegin: func(_ context.Context, e *domain.FlowEvent) {
			m.Transitions.WithLabelValues("begin").Inc()
			m.QuestionVisits.WithLabelValues(e.QuestionID).Inc()
		},
		OnAdvance: func(_ context.Context, e *domain.FlowEvent) {
			m.Transitions.WithLabelValues("advance").Inc()
			m.QuestionVisits.WithLabelValues(e.QuestionID).Inc()
		},
		OnComplete: func(_ context.Context, e *domain.SubmissionRequested) {
			m.Transitions.WithLabelValues("complete").Inc()
			m.Completions.WithLabelValues(e.ResultTitle).Inc()
		},
		OnRestart: func(_ context.Context, _ *domain.FlowEvent) {
			m.Transitions.WithLabelValues("restart").Inc()
		},
	}
}

// ObserveSubmission records the outcome of persisting a completed run.
func (m *Metrics) ObserveSubmission(err error) {
	if err == nil {
		m.Submissions.WithLabelValues("persisted").Inc()
		return
	}
	m.Submissions.WithLabelValues("failed").Inc()
	m.ObserveStoreError(err)
}

// ObserveRefresh records a dashboard refresh; failures also count as store errors.
func (m *Metrics) ObserveRefresh(err error) {
	if err == nil {
		m.Refreshes.WithLabelValues("ok").Inc()
		return
	}
	m.Refreshes.WithLabelValues("error").Inc()
	m.ObserveStoreError(err)
}

// ObserveStoreError counts err under its store operation, or "unknown".
func (m *Metrics) ObserveStoreError(err error) {
	if err == nil {
		return
	}
	op := "unknown"
	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		op = storeErr.Op
	}
	m.StoreErrors.WithLabelValues(op).Inc()
}
