package domain_test

import (
	"errors"
	"testing"

	"github.com/aretw0/quizflow/pkg/domain"
	"github.com/aretw0/quizflow/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configProblems(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)
	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	return cfgErr.Problems
}

func TestNewGraph_Valid(t *testing.T) {
	b := dsl.New("start")
	b.Question("start", "Pick").
		Next("left", "Left", "l").
		Next("right", "Right", "r")
	b.Question("l", "Left?").Result("l1", "Yes", "A")
	b.Question("r", "Right?").Result("r1", "Yes", "B")
	b.Category("A", "a").Category("B", "b")

	g, err := b.Build()
	require.NoError(t, err)

	q, ok := g.Question("l")
	require.True(t, ok)
	assert.Equal(t, "Left?", q.Text)

	_, ok = g.Question("ghost")
	assert.False(t, ok)

	r, ok := g.Result("B")
	require.True(t, ok)
	assert.Equal(t, "b", r.Description)

	_, ok = g.Result("C")
	assert.False(t, ok)
}

func TestNewGraph_CopiesAreDefensive(t *testing.T) {
	b := dsl.New("q")
	b.Question("q", "Q").Result("o", "O", "A")
	b.Category("A", "a")
	g := b.MustBuild()

	qs := g.Questions()
	qs[0].Options[0].Result = "tampered"

	q, _ := g.Question("q")
	assert.Equal(t, "A", q.Options[0].Result)
}

func TestNewGraph_OptionDestinations(t *testing.T) {
	t.Run("both", func(t *testing.T) {
		b := dsl.New("q")
		b.Question("q", "Q").Option(domain.Option{ID: "o", Next: "q", Result: "A"})
		b.Category("A", "")
		_, err := b.Build()
		problems := configProblems(t, err)
		assert.Contains(t, problems[0], "both a next question and a result")
	})

	t.Run("neither", func(t *testing.T) {
		b := dsl.New("q")
		b.Question("q", "Q").Option(domain.Option{ID: "o"})
		_, err := b.Build()
		problems := configProblems(t, err)
		assert.Contains(t, problems[0], "has no destination")
	})
}

func TestNewGraph_StructuralProblems(t *testing.T) {
	t.Run("missing start", func(t *testing.T) {
		b := dsl.New("nope")
		b.Question("q", "Q").Result("o", "O", "A")
		b.Category("A", "")
		_, err := b.Build()
		problems := configProblems(t, err)
		assert.Contains(t, problems[0], `start question "nope" not found`)
	})

	t.Run("cycle", func(t *testing.T) {
		b := dsl.New("a")
		b.Question("a", "A").Next("to_b", "B", "b").Result("end", "End", "R")
		b.Question("b", "B").Next("to_a", "A", "a")
		b.Category("R", "")
		_, err := b.Build()
		problems := configProblems(t, err)
		assert.Contains(t, problems[0], "cycle detected: a -> b -> a")
	})

	t.Run("unreachable", func(t *testing.T) {
		b := dsl.New("a")
		b.Question("a", "A").Result("end", "End", "R")
		b.Question("orphan", "O").Result("end", "End", "R")
		b.Category("R", "")
		_, err := b.Build()
		problems := configProblems(t, err)
		assert.Equal(t, []string{`question "orphan" is unreachable from "a"`}, problems)
	})

	t.Run("duplicates", func(t *testing.T) {
		_, err := domain.NewGraph("a",
			[]domain.Question{
				{ID: "a", Options: []domain.Option{{ID: "x", Result: "R"}, {ID: "x", Result: "R"}}},
				{ID: "a", Options: []domain.Option{{ID: "y", Result: "R"}}},
			},
			[]domain.Result{{Title: "R"}, {Title: "R"}},
		)
		problems := configProblems(t, err)
		assert.Contains(t, problems, `duplicate question id "a"`)
		assert.Contains(t, problems, `duplicate result title "R"`)
		assert.Contains(t, problems, `question "a": duplicate option id "x"`)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := domain.NewGraph("a", nil, nil)
		problems := configProblems(t, err)
		assert.Equal(t, []string{"graph has no questions"}, problems)
	})
}

func TestOption_Destination(t *testing.T) {
	kind, target, err := domain.Option{ID: "o", Next: "q1"}.Destination()
	require.NoError(t, err)
	assert.Equal(t, domain.DestinationQuestion, kind)
	assert.Equal(t, "q1", target)

	kind, target, err = domain.Option{ID: "o", Result: "R"}.Destination()
	require.NoError(t, err)
	assert.Equal(t, domain.DestinationResult, kind)
	assert.Equal(t, "R", target)
	assert.Equal(t, "result", kind.String())

	_, _, err = domain.Option{ID: "o"}.Destination()
	assert.ErrorIs(t, err, domain.ErrInvalidGraph)
}
