package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/aretw0/quizflow/internal/logging"
	"github.com/aretw0/quizflow/pkg/domain"
)

// Engine advances participants through a decision graph.
// It holds no per-participant data: every call takes a State and returns a new one,
// so a single Engine can serve any number of concurrent sessions.
type Engine struct {
	graph  *domain.Graph
	hooks  domain.FlowHooks
	logger *slog.Logger
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers flow callbacks.
func WithLifecycleHooks(hooks domain.FlowHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock overrides the time source used for emitted events.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine creates a new engine over a validated graph.
func NewEngine(graph *domain.Graph, opts ...EngineOption) *Engine {
	e := &Engine{
		graph:  graph,
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Graph returns the graph the engine navigates.
func (e *Engine) Graph() *domain.Graph { return e.graph }

// Begin records the nickname and moves to the start question.
// A nickname that is blank after trimming leaves the state untouched.
func (e *Engine) Begin(ctx context.Context, state *domain.State, nickname string) (*domain.State, error) {
	if state.Stage != domain.StageAwaitingNickname {
		return state, fmt.Errorf("%w: begin from %s", domain.ErrInvalidStage, state.Stage)
	}

	clean := SanitizeNickname(nickname)
	if clean == "" {
		return state, domain.ErrEmptyNickname
	}

	next := state.Clone()
	next.Stage = domain.StageInProgress
	next.Nickname = clean
	next.QuestionID = e.graph.Start()
	next.ResultTitle = ""
	next.History = []string{e.graph.Start()}

	e.logger.Debug("flow started", "nickname", clean, "question", next.QuestionID)
	if e.hooks.OnBegin != nil {
		e.hooks.OnBegin(ctx, &domain.FlowEvent{
			Timestamp:  e.now(),
			Nickname:   clean,
			QuestionID: next.QuestionID,
		})
	}
	return next, nil
}

// Select applies the chosen option of the current question.
// Unknown options are rejected with domain.ErrUnknownOption and the state is returned unchanged.
func (e *Engine) Select(ctx context.Context, state *domain.State, optionID string) (*domain.State, error) {
	if state.Stage != domain.StageInProgress {
		return state, fmt.Errorf("%w: select from %s", domain.ErrInvalidStage, state.Stage)
	}
	// States round-trip through clients; a run never reaches in_progress without a nickname.
	if strings.TrimSpace(state.Nickname) == "" {
		return state, fmt.Errorf("%w: in_progress without nickname", domain.ErrInvalidStage)
	}

	question, ok := e.graph.Question(state.QuestionID)
	if !ok {
		// Client-supplied state pointing outside the graph.
		return state, fmt.Errorf("%w: question %q", domain.ErrUnknownOption, state.QuestionID)
	}

	option, ok := question.Option(optionID)
	if !ok {
		e.logger.Warn("unknown option ignored", "question", question.ID, "option", optionID)
		return state, fmt.Errorf("%w: %q on question %q", domain.ErrUnknownOption, optionID, question.ID)
	}

	kind, target, err := option.Destination()
	if err != nil {
		return state, err
	}

	next := state.Clone()
	switch kind {
	case domain.DestinationResult:
		next.Stage = domain.StageCompleted
		next.QuestionID = ""
		next.ResultTitle = target

		e.logger.Info("flow completed", "nickname", next.Nickname, "result", target)
		if e.hooks.OnComplete != nil {
			e.hooks.OnComplete(ctx, &domain.SubmissionRequested{
				Nickname:    next.Nickname,
				ResultTitle: target,
				RequestedAt: e.now(),
			})
		}

	case domain.DestinationQuestion:
		next.QuestionID = target
		next.History = append(next.History, target)

		e.logger.Debug("flow advanced", "from", question.ID, "option", optionID, "to", target)
		if e.hooks.OnAdvance != nil {
			e.hooks.OnAdvance(ctx, &domain.FlowEvent{
				Timestamp:  e.now(),
				Nickname:   next.Nickname,
				FromID:     question.ID,
				OptionID:   optionID,
				QuestionID: target,
			})
		}
	}
	return next, nil
}

// Restart discards all progress and returns to the nickname prompt. Valid from any stage.
func (e *Engine) Restart(ctx context.Context, state *domain.State) *domain.State {
	if e.hooks.OnRestart != nil {
		e.hooks.OnRestart(ctx, &domain.FlowEvent{
			Timestamp: e.now(),
			Nickname:  state.Nickname,
			FromID:    state.QuestionID,
		})
	}
	return domain.NewState()
}

// Progress returns the completion percentage of an in-progress run, rounded to
// the nearest integer. Other stages report 0.
func (e *Engine) Progress(state *domain.State) int {
	if state.Stage != domain.StageInProgress {
		return 0
	}
	maxDepth := e.graph.MaxDepth()
	if maxDepth == 0 {
		return 0
	}
	depth, _ := e.graph.Depth(state.QuestionID)
	return int(math.Round(float64(depth) / float64(maxDepth) * 100))
}
