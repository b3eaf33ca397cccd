package quizflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/quizflow/internal/logging"
	"github.com/aretw0/quizflow/internal/runtime"
	"github.com/aretw0/quizflow/pkg/adapters/memory"
	"github.com/aretw0/quizflow/pkg/catalog"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/aretw0/quizflow/pkg/observability"
	"github.com/aretw0/quizflow/pkg/ports"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// persistTimeout bounds the completion write once it is detached from the
// caller's cancellation.
const persistTimeout = 10 * time.Second

// Engine is the high-level entry point: the flow runtime plus persistence of
// completed runs.
type Engine struct {
	runtime *runtime.Engine
	graph   *domain.Graph
	store   ports.SubmissionStore
	metrics *observability.Metrics
	hooks   domain.FlowHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithGraph sets the decision graph (default: the built-in catalog).
func WithGraph(g *domain.Graph) Option {
	return func(e *Engine) {
		e.graph = g
	}
}

// WithStore sets the result store (default: a fresh in-memory store).
func WithStore(s ports.SubmissionStore) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.FlowHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithMetrics records transitions and submission outcomes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock overrides the time source for flow events.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New initializes an Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.graph == nil {
		g, err := catalog.Default()
		if err != nil {
			return nil, fmt.Errorf("load built-in catalog: %w", err)
		}
		eng.graph = g
	}
	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	hooks := eng.hooks
	if eng.metrics != nil {
		hooks = eng.metrics.Hooks().Merge(hooks)
	}

	eng.runtime = runtime.NewEngine(eng.graph,
		runtime.WithLifecycleHooks(hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithClock(eng.now),
	)
	return eng, nil
}

// Graph returns the decision graph.
func (e *Engine) Graph() *domain.Graph { return e.graph }

// Store returns the result store completed runs are written to.
func (e *Engine) Store() ports.SubmissionStore { return e.store }

// View is what a host needs to render a state.
type View struct {
	State    *domain.State    `json:"state"`
	Question *domain.Question `json:"question,omitempty"`
	Result   *domain.Result   `json:"result,omitempty"`
	Progress int              `json:"progress"`
}

// Outcome is the result of Select. Persisted and PersistErr are only
// meaningful when the run completed.
type Outcome struct {
	View
	Persisted  bool               `json:"persisted"`
	PersistErr error              `json:"-"`
	Submission *domain.Submission `json:"submission,omitempty"`
}

// View resolves the current question or result of state.
func (e *Engine) View(state *domain.State) View {
	v := View{State: state, Progress: e.runtime.Progress(state)}
	switch state.Stage {
	case domain.StageInProgress:
		if q, ok := e.graph.Question(state.QuestionID); ok {
			v.Question = &q
		}
	case domain.StageCompleted:
		if r, ok := e.graph.Result(state.ResultTitle); ok {
			v.Result = &r
		}
	}
	return v
}

// Begin records the nickname and moves to the first question.
func (e *Engine) Begin(ctx context.Context, state *domain.State, nickname string) (*domain.State, error) {
	return e.runtime.Begin(ctx, state, nickname)
}

// Select applies an option. When it completes the run, the submission is
// written to the store; a write failure is logged and reported in the Outcome
// rather than returned. The write outlives the caller: cancelling ctx (a
// participant leaving the page) does not abort it.
func (e *Engine) Select(ctx context.Context, state *domain.State, optionID string) (*Outcome, error) {
	next, err := e.runtime.Select(ctx, state, optionID)
	if err != nil {
		return &Outcome{View: e.View(state)}, err
	}

	out := &Outcome{View: e.View(next)}
	if next.Stage != domain.StageCompleted {
		return out, nil
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	sub, err := e.store.Insert(wctx, next.Nickname, next.ResultTitle)
	if e.metrics != nil {
		e.metrics.ObserveSubmission(err)
	}
	if err != nil {
		e.logger.Warn("submission not saved", "nickname", next.Nickname, "result", next.ResultTitle, "error", err)
		out.PersistErr = err
		return out, nil
	}

	out.Persisted = true
	out.Submission = sub
	return out, nil
}

// Restart returns a fresh state awaiting a nickname.
func (e *Engine) Restart(ctx context.Context, state *domain.State) *domain.State {
	return e.runtime.Restart(ctx, state)
}

// Progress returns the completion percentage of an in-progress run.
func (e *Engine) Progress(state *domain.State) int {
	return e.runtime.Progress(state)
}
