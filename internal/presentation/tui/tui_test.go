package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "HackHope")

	out := buf.String()
	assert.Contains(t, out, "HackHope")
	assert.Equal(t, len(bannerLines)+3, strings.Count(out, "\n"))
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(60)
	require.NoError(t, err)

	out, err := render("# 多文化共生社会\n\nみんなが共に暮らす社会。")
	require.NoError(t, err)
	assert.Contains(t, out, "多文化共生社会")
}
