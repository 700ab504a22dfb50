package cache_test

import (
	"testing"

	"texsense/internal/cache"
	"texsense/internal/edit"
	"texsense/internal/lint"
	"texsense/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLinter struct {
	calls map[string]int
}

func (c *countingLinter) Lint(text string, _ *syntax.Tree) []lint.Diagnostic {
	c.calls[text]++
	return []lint.Diagnostic{{
		Range:   edit.Range{From: 0, To: len(text)},
		Message: text,
	}}
}

func TestMemoizesByContent(t *testing.T) {
	counter := &countingLinter{calls: map[string]int{}}
	d, err := cache.New(counter, 16)
	require.NoError(t, err)
	defer d.Close()

	first := d.Lint("a", nil)
	d.Wait()
	second := d.Lint("a", nil)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, counter.calls["a"])

	other := d.Lint("b", nil)
	assert.Equal(t, "b", other[0].Message)
	assert.Equal(t, 1, counter.calls["b"])
}

func TestWrapsLinter(t *testing.T) {
	d, err := cache.New(lint.New(lint.DefaultOptions()), 8)
	require.NoError(t, err)
	defer d.Close()

	diags := d.Lint(`\ref{x}`, nil)
	require.Len(t, diags, 1)
	assert.Equal(t, "Reference to undefined label: x", diags[0].Message)
}
