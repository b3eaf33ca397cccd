package domain

import (
	"context"
	"time"
)

// SubmissionRequested is emitted when a run reaches a result and must be persisted.
type SubmissionRequested struct {
	Nickname    string    `json:"nickname"`
	ResultTitle string    `json:"result_title"`
	RequestedAt time.Time `json:"requested_at"`
}

// FlowEvent describes a non-terminal transition of the flow engine.
type FlowEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Nickname   string    `json:"nickname,omitempty"`
	FromID     string    `json:"from_id,omitempty"`
	OptionID   string    `json:"option_id,omitempty"`
	QuestionID string    `json:"question_id,omitempty"`
}

// FlowHooks defines callbacks for flow observability and persistence.
// Nil hooks are skipped.
type FlowHooks struct {
	OnBegin    func(context.Context, *FlowEvent)
	OnAdvance  func(context.Context, *FlowEvent)
	OnComplete func(context.Context, *SubmissionRequested)
	OnRestart  func(context.Context, *FlowEvent)
}

// Merge returns hooks that call h first and then other.
func (h FlowHooks) Merge(other FlowHooks) FlowHooks {
	return FlowHooks{
		OnBegin:    chain(h.OnBegin, other.OnBegin),
		OnAdvance:  chain(h.OnAdvance, other.OnAdvance),
		OnComplete: chain(h.OnComplete, other.OnComplete),
		OnRestart:  chain(h.OnRestart, other.OnRestart),
	}
}

func chain[T any](a, b func(context.Context, T)) func(context.Context, T) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, v T) {
		a(ctx, v)
		b(ctx, v)
	}
}
