package runtime_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/quizflow/internal/runtime"
	"github.com/aretw0/quizflow/pkg/catalog"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(opts ...runtime.EngineOption) *runtime.Engine {
	return runtime.NewEngine(catalog.MustDefault(), opts...)
}

func TestEngine_Begin(t *testing.T) {
	engine := newEngine()
	ctx := context.Background()

	for _, blank := range []string{"", "   ", "\t\n"} {
		initial := domain.NewState()
		state, err := engine.Begin(ctx, initial, blank)
		assert.ErrorIs(t, err, domain.ErrEmptyNickname, "nickname %q", blank)
		assert.Equal(t, domain.StageAwaitingNickname, state.Stage)
		assert.Same(t, initial, state)
	}

	state, err := engine.Begin(ctx, domain.NewState(), "  Alice ")
	require.NoError(t, err)
	assert.Equal(t, domain.StageInProgress, state.Stage)
	assert.Equal(t, "q0", state.QuestionID)
	assert.Equal(t, "Alice", state.Nickname)
	assert.Equal(t, []string{"q0"}, state.History)

	_, err = engine.Begin(ctx, state, "Bob")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestEngine_SelectAdvances(t *testing.T) {
	engine := newEngine()
	ctx := context.Background()

	state, err := engine.Begin(ctx, domain.NewState(), "Alice")
	require.NoError(t, err)

	next, err := engine.Select(ctx, state, "q0_option1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageInProgress, next.Stage)
	assert.Equal(t, "q1", next.QuestionID)

	// Input state untouched.
	assert.Equal(t, "q0", state.QuestionID)
	assert.Equal(t, []string{"q0"}, state.History)
}

func TestEngine_FullPathEmitsSubmission(t *testing.T) {
	fixed := time.Date(2025, 7, 5, 12, 0, 0, 0, time.UTC)
	var requested []*domain.SubmissionRequested

	engine := newEngine(
		runtime.WithClock(func() time.Time { return fixed }),
		runtime.WithLifecycleHooks(domain.FlowHooks{
			OnComplete: func(_ context.Context, e *domain.SubmissionRequested) {
				requested = append(requested, e)
			},
		}),
	)
	ctx := context.Background()

	state, err := engine.Begin(ctx, domain.NewState(), "Alice")
	require.NoError(t, err)
	for _, opt := range []string{"q0_option1", "q1_option1", "q1a_option1"} {
		state, err = engine.Select(ctx, state, opt)
		require.NoError(t, err, opt)
	}

	assert.Equal(t, domain.StageCompleted, state.Stage)
	assert.Equal(t, "多文化共生社会", state.ResultTitle)
	assert.Empty(t, state.QuestionID)
	assert.Equal(t, []string{"q0", "q1", "q1a"}, state.History)

	require.Len(t, requested, 1)
	assert.Equal(t, domain.SubmissionRequested{
		Nickname:    "Alice",
		ResultTitle: "多文化共生社会",
		RequestedAt: fixed,
	}, *requested[0])

	_, err = engine.Select(ctx, state, "q0_option1")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestEngine_UnknownOptionKeepsState(t *testing.T) {
	engine := newEngine()
	ctx := context.Background()

	state, err := engine.Begin(ctx, domain.NewState(), "Alice")
	require.NoError(t, err)

	// q1_option1 exists in the graph but not on q0.
	same, err := engine.Select(ctx, state, "q1_option1")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)
	assert.Same(t, state, same)

	_, err = engine.Select(ctx, &domain.State{Stage: domain.StageInProgress, Nickname: "Alice", QuestionID: "ghost"}, "x")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)

	_, err = engine.Select(ctx, domain.NewState(), "q0_option1")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestEngine_Restart(t *testing.T) {
	var restarted []string
	engine := newEngine(runtime.WithLifecycleHooks(domain.FlowHooks{
		OnRestart: func(_ context.Context, e *domain.FlowEvent) {
			restarted = append(restarted, e.Nickname)
		},
	}))
	ctx := context.Background()

	state, err := engine.Begin(ctx, domain.NewState(), "Alice")
	require.NoError(t, err)
	for _, opt := range []string{"q0_option3", "q3_option2", "q3b_option1"} {
		state, err = engine.Select(ctx, state, opt)
		require.NoError(t, err)
	}
	require.Equal(t, domain.StageCompleted, state.Stage)
	assert.Equal(t, "経済発展社会", state.ResultTitle)

	fresh := engine.Restart(ctx, state)
	assert.Equal(t, domain.NewState(), fresh)
	assert.Empty(t, fresh.Nickname)

	mid, err := engine.Begin(ctx, fresh, "Bob")
	require.NoError(t, err)
	assert.Equal(t, domain.NewState(), engine.Restart(ctx, mid))
	assert.Equal(t, domain.NewState(), engine.Restart(ctx, domain.NewState()))

	assert.Equal(t, []string{"Alice", "Bob", ""}, restarted)
}

func TestEngine_Progress(t *testing.T) {
	engine := newEngine()
	ctx := context.Background()

	assert.Equal(t, 0, engine.Progress(domain.NewState()))

	state, err := engine.Begin(ctx, domain.NewState(), "Alice")
	require.NoError(t, err)
	assert.Equal(t, 0, engine.Progress(state))

	state, err = engine.Select(ctx, state, "q0_option2")
	require.NoError(t, err)
	assert.Equal(t, 50, engine.Progress(state))

	state, err = engine.Select(ctx, state, "q2_option2")
	require.NoError(t, err)
	assert.Equal(t, 100, engine.Progress(state))

	state, err = engine.Select(ctx, state, "q2b_option1")
	require.NoError(t, err)
	assert.Equal(t, 0, engine.Progress(state))
}

func TestEngine_BeginAcceptsAnyNonBlankNickname(t *testing.T) {
	engine := newEngine()
	ctx := context.Background()

	long := strings.Repeat("あ", runtime.MaxNicknameLength+1)
	state, err := engine.Begin(ctx, domain.NewState(), long)
	require.NoError(t, err)
	assert.Equal(t, domain.StageInProgress, state.Stage)
	assert.Equal(t, strings.Repeat("あ", runtime.MaxNicknameLength), state.Nickname)

	state, err = engine.Begin(ctx, domain.NewState(), "Bob\xff")
	require.NoError(t, err)
	assert.Equal(t, domain.StageInProgress, state.Stage)
	assert.Equal(t, "Bob\uFFFD", state.Nickname)
}

func TestEngine_SelectRejectsStateWithoutNickname(t *testing.T) {
	engine := newEngine()
	ctx := context.Background()

	forged := &domain.State{Stage: domain.StageInProgress, QuestionID: "q1a", History: []string{"q0", "q1", "q1a"}}
	state, err := engine.Select(ctx, forged, "q1a_option1")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
	assert.Same(t, forged, state)

	forged.Nickname = "   "
	_, err = engine.Select(ctx, forged, "q1a_option1")
	assert.ErrorIs(t, err, domain.ErrInvalidStage)
}

func TestSanitizeNickname(t *testing.T) {
	assert.Equal(t, "Ali[31mce", runtime.SanitizeNickname("  Ali\x1b[31mce\x00 "))
	assert.Equal(t, "たろう", runtime.SanitizeNickname("たろう"))
	assert.Equal(t, "\uFFFD", runtime.SanitizeNickname("\xff"))
	assert.Empty(t, runtime.SanitizeNickname("\x1b\x00 "))

	long := runtime.SanitizeNickname(strings.Repeat("a", runtime.MaxNicknameLength+10))
	assert.Len(t, long, runtime.MaxNicknameLength)
}
