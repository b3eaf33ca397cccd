package quizflow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/quizflow"
	"github.com/aretw0/quizflow/pkg/adapters/memory"
	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/aretw0/quizflow/pkg/dsl"
	"github.com/aretw0/quizflow/pkg/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*memory.Store
}

func (failingStore) Insert(ctx context.Context, nickname, resultTitle string) (*domain.Submission, error) {
	return nil, domain.WriteFailure("insert", errors.New("disk full"))
}

func walk(t *testing.T, eng *quizflow.Engine, options ...string) *quizflow.Outcome {
	t.Helper()
	ctx := context.Background()
	state, err := eng.Begin(ctx, domain.NewState(), "Alice")
	require.NoError(t, err)

	var out *quizflow.Outcome
	for _, opt := range options {
		out, err = eng.Select(ctx, state, opt)
		require.NoError(t, err)
		state = out.State
	}
	return out
}

func TestEngine_CompletedRunIsPersisted(t *testing.T) {
	store := memory.NewStore()
	eng, err := quizflow.New(quizflow.WithStore(store))
	require.NoError(t, err)

	out := walk(t, eng, "q0_option1", "q1_option1", "q1a_option1")

	assert.Equal(t, domain.StageCompleted, out.State.Stage)
	require.NotNil(t, out.Result)
	assert.Equal(t, "多文化共生社会", out.Result.Title)
	assert.Nil(t, out.Question)
	assert.Equal(t, 0, out.Progress)
	assert.True(t, out.Persisted)
	require.NotNil(t, out.Submission)
	assert.Equal(t, "Alice", out.Submission.Nickname)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "多文化共生社会", list[0].ResultTitle)
}

func TestEngine_CompletionWriteSurvivesCancelledCaller(t *testing.T) {
	store := memory.NewStore()
	eng, err := quizflow.New(quizflow.WithStore(store))
	require.NoError(t, err)

	out := walk(t, eng, "q0_option1", "q1_option1")
	require.Equal(t, domain.StageInProgress, out.State.Stage)

	// The participant navigates away while the last answer is in flight.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err = eng.Select(ctx, out.State, "q1a_option1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageCompleted, out.State.Stage)
	assert.True(t, out.Persisted)
	assert.NoError(t, out.PersistErr)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice", list[0].Nickname)
}

func TestEngine_IntermediateStepsDoNotPersist(t *testing.T) {
	store := memory.NewStore()
	eng, err := quizflow.New(quizflow.WithStore(store))
	require.NoError(t, err)

	out := walk(t, eng, "q0_option1")
	assert.Equal(t, domain.StageInProgress, out.State.Stage)
	require.NotNil(t, out.Question)
	assert.Equal(t, "q1", out.Question.ID)
	assert.Equal(t, 50, out.Progress)
	assert.False(t, out.Persisted)

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestEngine_WriteFailureStillShowsResult(t *testing.T) {
	metrics := observability.NewMetrics()
	eng, err := quizflow.New(
		quizflow.WithStore(failingStore{memory.NewStore()}),
		quizflow.WithMetrics(metrics),
	)
	require.NoError(t, err)

	out := walk(t, eng, "q0_option1", "q1_option1", "q1a_option1")

	assert.Equal(t, domain.StageCompleted, out.State.Stage)
	require.NotNil(t, out.Result)
	assert.False(t, out.Persisted)
	assert.ErrorIs(t, out.PersistErr, domain.ErrStoreWrite)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Submissions.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Completions.WithLabelValues("多文化共生社会")))
}

func TestEngine_UnknownOptionKeepsState(t *testing.T) {
	eng, err := quizflow.New()
	require.NoError(t, err)
	ctx := context.Background()

	state, err := eng.Begin(ctx, domain.NewState(), "Bob")
	require.NoError(t, err)

	out, err := eng.Select(ctx, state, "nope")
	assert.ErrorIs(t, err, domain.ErrUnknownOption)
	assert.Equal(t, state, out.State)
	require.NotNil(t, out.Question)
	assert.Equal(t, "q0", out.Question.ID)
}

func TestEngine_CustomGraphAndHooks(t *testing.T) {
	b := dsl.New("a").Category("X", "x wins").Category("Y", "y wins")
	b.Question("a", "A?").Next("a1", "go b", "b").Result("a2", "stop", "X")
	b.Question("b", "B?").Result("b1", "done", "Y")
	g, err := b.Build()
	require.NoError(t, err)

	var completed []string
	eng, err := quizflow.New(
		quizflow.WithGraph(g),
		quizflow.WithLifecycleHooks(domain.FlowHooks{
			OnComplete: func(_ context.Context, e *domain.SubmissionRequested) {
				completed = append(completed, e.ResultTitle)
			},
		}),
	)
	require.NoError(t, err)
	assert.Same(t, g, eng.Graph())

	out := walk(t, eng, "a1", "b1")
	assert.Equal(t, "Y", out.Result.Title)
	assert.Equal(t, []string{"Y"}, completed)

	fresh := eng.Restart(context.Background(), out.State)
	assert.Equal(t, domain.NewState(), fresh)
	assert.Equal(t, 0, eng.View(fresh).Progress)
}
