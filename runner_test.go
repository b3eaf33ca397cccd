package quizflow_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/quizflow"
	"github.com/aretw0/quizflow/pkg/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_PlaysToResult(t *testing.T) {
	store := memory.NewStore()
	eng, err := quizflow.New(quizflow.WithStore(store))
	require.NoError(t, err)

	var out bytes.Buffer
	r := &quizflow.Runner{
		// Blank nickname is re-prompted; "9" is out of range and rejected.
		Input:  strings.NewReader("\nAlice\n1\n9\nq1_option1\n1\n"),
		Output: &out,
		Renderer: func(md string) (string, error) {
			return strings.ToUpper(md), nil
		},
	}

	outcome, err := r.Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Equal(t, "多文化共生社会", outcome.Result.Title)
	assert.True(t, outcome.Persisted)

	text := out.String()
	assert.Contains(t, text, "! nickname is required")
	assert.Contains(t, text, "[0%]")
	assert.Contains(t, text, "[50%]")
	assert.Contains(t, text, "[100%]")
	assert.Contains(t, text, "unknown option")
	assert.Contains(t, text, "# 多文化共生社会")

	list, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestRunner_QuitAndEOF(t *testing.T) {
	eng, err := quizflow.New()
	require.NoError(t, err)

	r := &quizflow.Runner{Input: strings.NewReader("Bob\nquit\n"), Output: io.Discard}
	_, err = r.Run(context.Background(), eng)
	assert.ErrorIs(t, err, quizflow.ErrQuit)

	r = &quizflow.Runner{Input: strings.NewReader("Bob\n"), Output: io.Discard}
	_, err = r.Run(context.Background(), eng)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestRunner_RequiresIO(t *testing.T) {
	eng, err := quizflow.New()
	require.NoError(t, err)

	_, err = (&quizflow.Runner{Output: io.Discard}).Run(context.Background(), eng)
	assert.Error(t, err)
}
