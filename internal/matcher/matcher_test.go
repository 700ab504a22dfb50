package matcher_test

import (
	"context"
	"strings"
	"testing"

	"texsense/internal/matcher"
	"texsense/internal/parser"
	"texsense/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *syntax.Tree {
	t.Helper()
	tree, err := parser.Parse(context.Background(), src)
	require.NoError(t, err)
	return tree
}

func TestUnmatchedCounts(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		opens  map[string]int
		closes map[string]int
	}{
		{"Balanced", `\begin{a}\begin{b}\end{b}\end{a}`, nil, nil},
		{"Interleaved", `\begin{a}\begin{b}\end{a}\end{b}`, nil, nil},
		{"Missing closes", `\begin{a}\begin{a}\begin{a}\end{a}`, map[string]int{"a": 2}, nil},
		{"Missing opens", `\end{x}\begin{y}\end{y}\end{x}`, nil, map[string]int{"x": 2}},
		{"Mixed", `\begin{a}\end{b}\begin{c}\end{c}`, map[string]int{"a": 1}, map[string]int{"b": 1}},
		{"Reversed order", `\end{a}\begin{a}`, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for tier, m := range map[string]*matcher.Matcher{
				"tree": matcher.FromTree(parse(t, tt.src)),
				"text": matcher.FromText(tt.src),
			} {
				opens, closes := map[string]int{}, map[string]int{}
				for _, u := range m.Unmatched() {
					if u.Opening {
						opens[u.Name]++
					} else {
						closes[u.Name]++
					}
				}
				if tt.opens == nil {
					tt.opens = map[string]int{}
				}
				if tt.closes == nil {
					tt.closes = map[string]int{}
				}
				assert.Equal(t, tt.opens, opens, tier)
				assert.Equal(t, tt.closes, closes, tier)

				// max(0, opens-closes) and max(0, closes-opens) per name.
				for _, name := range m.Names() {
					o, c := len(m.Opens(name)), len(m.Closes(name))
					assert.Equal(t, max(0, o-c), opens[name], "%s %s", tier, name)
					assert.Equal(t, max(0, c-o), closes[name], "%s %s", tier, name)
				}
			}
		})
	}
}

func TestUnmatchedPositions(t *testing.T) {
	src := "\\begin{a}\n\\begin{a}\n\\end{a}\n\\end{b}"
	got := matcher.FromTree(parse(t, src)).Unmatched()
	require.Len(t, got, 2)

	// The excess opening is the second one in document order.
	second := strings.LastIndex(src, `\begin{a}`)
	assert.Equal(t, "a", got[0].Name)
	assert.True(t, got[0].Opening)
	assert.Equal(t, second, got[0].Range.From)
	assert.Equal(t, second+len(`\begin{a}`), got[0].Range.To)

	assert.Equal(t, "b", got[1].Name)
	assert.False(t, got[1].Opening)
	assert.Equal(t, src[got[1].Range.From:got[1].Range.To], `\end{b}`)
}

func TestTiersAgree(t *testing.T) {
	docs := []string{
		"\\begin{document}\n\\begin{figure}\\end{figure}\n\\end{document}",
		`\begin{a}\end{b}\begin{c}`,
		`\begin{x}{\end{x}}\end{y}`,
	}
	for _, doc := range docs {
		fromTree := matcher.FromTree(parse(t, doc))
		fromText := matcher.FromText(doc)
		assert.Equal(t, fromText.Unmatched(), fromTree.Unmatched(), doc)
	}
}

func TestBuildFallsBackOnStaleTree(t *testing.T) {
	old := parse(t, `\begin{a}\end{a}`)
	text := `\begin{a}\end{a}\begin{b}`

	m := matcher.Build(text, old)
	require.Len(t, m.Unmatched(), 1)
	assert.Equal(t, "b", m.Unmatched()[0].Name)

	assert.Len(t, matcher.Build(text, nil).Unmatched(), 1)
}

func TestTiersDifferInVerbatim(t *testing.T) {
	src := `\begin{verbatim}\begin{x}\end{verbatim}`
	assert.Empty(t, matcher.FromTree(parse(t, src)).Unmatched())
	assert.Len(t, matcher.FromText(src).Unmatched(), 1)
}
