package query_test

import (
	"context"
	"strings"
	"testing"

	"texsense/internal/edit"
	"texsense/internal/parser"
	"texsense/internal/query"
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

const nested = `\begin{document}
\begin{itemize}
  \item one
  \begin{itemize}
    \item two
  \end{itemize}
\end{itemize}
\end{document}`

func TestBlockNameOf(t *testing.T) {
	tree := parse(t, `\begin{figure*}x\end{figure*}\begin{}`)
	env := tree.Root().FirstChild()

	name, ok := query.BlockNameOf(env.FirstChild())
	require.True(t, ok)
	assert.Equal(t, "figure*", name)

	name, ok = query.BlockNameOf(env.LastChild())
	require.True(t, ok)
	assert.Equal(t, "figure*", name)

	_, ok = query.BlockNameOf(tree.Root().LastChild())
	assert.False(t, ok, "empty slot")
	_, ok = query.BlockNameOf(env)
	assert.False(t, ok, "not a delimiter")
	_, ok = query.BlockNameOf(nil)
	assert.False(t, ok)
}

func TestMatchingPartner(t *testing.T) {
	tree := parse(t, nested)

	outerOpen := strings.Index(nested, `\begin{itemize}`)
	innerOpen := strings.LastIndex(nested, `\begin{itemize}`)
	innerClose := strings.Index(nested, `\end{itemize}`)
	outerClose := strings.LastIndex(nested, `\end{itemize}`)
	end := len(`\end{itemize}`)

	tests := []struct {
		name string
		pos  int
		want edit.Range
		ok   bool
	}{
		{"outer open keyword", outerOpen + 2, edit.Range{From: outerOpen, To: outerClose + end}, true},
		{"outer open name", outerOpen + 9, edit.Range{From: outerOpen, To: outerClose + end}, true},
		{"inner open", innerOpen, edit.Range{From: innerOpen, To: innerClose + end}, true},
		{"inner close", innerClose + 3, edit.Range{From: innerOpen, To: innerClose + end}, true},
		{"outer close end", outerClose + end, edit.Range{From: outerOpen, To: outerClose + end}, true},
		{"inside content", strings.Index(nested, "one"), edit.Range{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := query.MatchingPartner(tree, tt.pos)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("Missing partner", func(t *testing.T) {
		tree := parse(t, `\begin{a}\begin{b}\end{a}\end{b}`)
		_, ok := query.MatchingPartner(tree, 10)
		assert.False(t, ok, "b is closed by nothing in the tree")
		_, ok = query.MatchingPartner(tree, len(`\begin{a}\begin{b}\end{a}\e`))
		assert.False(t, ok, "orphan closing")
		r, ok := query.MatchingPartner(tree, 1)
		require.True(t, ok)
		assert.Equal(t, edit.Range{From: 0, To: len(`\begin{a}\begin{b}\end{a}`)}, r)
	})

	t.Run("Nil tree", func(t *testing.T) {
		_, ok := query.MatchingPartner(nil, 0)
		assert.False(t, ok)
	})
}

func TestTiersAgree(t *testing.T) {
	docs := []string{
		nested,
		`\begin{a}\begin{a}x\end{a}\end{a}`,
		"\\begin{figure}[h]\n\\begin{center}\\end{center}\n\\end{figure}\n\\begin{table}\\end{table}",
	}
	for _, doc := range docs {
		tree := parse(t, doc)
		for pos := 0; pos <= len(doc); pos++ {
			fromTree, okTree := query.MatchingPartner(tree, pos)
			fromText, okText := query.MatchingPartnerText(doc, pos)
			require.Equal(t, okTree, okText, "pos %d in %q", pos, doc)
			require.Equal(t, fromTree, fromText, "pos %d in %q", pos, doc)
		}
	}
}

func TestNestingDepth(t *testing.T) {
	tree := parse(t, nested)
	item := tree.Resolve(strings.Index(nested, `\item two`), 1)
	require.Equal(t, syntax.CtrlSeq, item.Tag)
	// document, itemize, itemize
	assert.Equal(t, 3, query.NestingDepth(item))

	grouped := parse(t, `{a {b}}`)
	inner := grouped.Resolve(5, 1)
	assert.Equal(t, syntax.Group, inner.Parent().Tag)
	assert.Equal(t, 2, query.NestingDepth(inner))
	assert.Equal(t, 0, query.NestingDepth(grouped.Root()))
}

func TestEnclosingBlock(t *testing.T) {
	tree := parse(t, nested)
	b, ok := query.EnclosingBlock(tree, strings.Index(nested, "two"))
	require.True(t, ok)
	assert.Equal(t, "itemize", b.Name)
	assert.True(t, b.Balanced())
	assert.Equal(t, strings.LastIndex(nested, `\begin{itemize}`), b.Open.From)

	unclosed := parse(t, "\\begin{proof}\nabc")
	b, ok = query.EnclosingBlock(unclosed, 15)
	require.True(t, ok)
	assert.Equal(t, "proof", b.Name)
	assert.False(t, b.Balanced())
	assert.Nil(t, b.Close)
}

func TestEnvironmentSlot(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pos     int
		opening bool
		slot    string
		ok      bool
	}{
		{"Opening partial", `\begin{fig`, 10, true, "fig", true},
		{"Opening empty", `\begin{`, 7, true, "", true},
		{"Closing partial", `x \end{ite`, 10, false, "ite", true},
		{"Starred", `\begin{align*`, 13, true, "align*", true},
		{"Closed slot", `\begin{figure} `, 15, false, "", false},
		{"Inside closed slot", `\begin{figure}`, 10, true, "fig", true},
		{"Plain text", `hello`, 5, false, "", false},
		{"Digits", `\begin{a1`, 9, false, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fromText, okText := query.EnvironmentSlotBefore(tt.text, tt.pos)
			fromTree, okTree := query.EnvironmentSlotAt(parse(t, tt.text), tt.pos)
			require.Equal(t, tt.ok, okText, "text tier")
			require.Equal(t, tt.ok, okTree, "tree tier")
			if !tt.ok {
				return
			}
			for _, slot := range []query.Slot{fromText, fromTree} {
				assert.Equal(t, tt.opening, slot.Opening)
				assert.Equal(t, tt.slot, tt.text[slot.Range.From:slot.Range.To])
				assert.Equal(t, tt.pos, slot.Range.To)
			}
		})
	}
}

func TestTextHelpers(t *testing.T) {
	text := "  \\begin{itemize}  \nbody\n\\end{itemize}"

	name, ok := query.OpenNameBefore(text, strings.Index(text, "\n"))
	require.True(t, ok)
	assert.Equal(t, "itemize", name)

	_, ok = query.OpenNameBefore(text, strings.Index(text, "body")+2)
	assert.False(t, ok)

	assert.True(t, query.HasClosingAfter(text, 5, "itemize"))
	assert.False(t, query.HasClosingAfter(text, len(text)-3, "itemize"))
	assert.False(t, query.HasClosingAfter(text, 0, "enumerate"))
}

func TestFoldRanges(t *testing.T) {
	src := "\\section{Intro}\ntext\n\\begin{itemize}\n  \\item a\n\\end{itemize}\n{one line}"
	tree := parse(t, src)

	folds := query.FoldRanges(tree)
	require.Len(t, folds, 2)

	assert.Equal(t, syntax.Section, folds[0].Tag)
	assert.Equal(t, len(`\section{Intro}`), folds[0].Range.From)
	assert.Equal(t, len(src), folds[0].Range.To)

	assert.Equal(t, syntax.ListEnvironment, folds[1].Tag)
	assert.Equal(t, "\n  \\item a\n", src[folds[1].Range.From:folds[1].Range.To])
}

func TestOutline(t *testing.T) {
	src := "\\section{Intro}\n\\begin{figure}\\end{figure}\n\\subsection{ Detail }\nx\n\\section{End}"
	symbols := query.Outline(parse(t, src))

	require.Len(t, symbols, 2)
	assert.Equal(t, "Intro", symbols[0].Name)
	assert.Equal(t, "End", symbols[1].Name)
	require.Len(t, symbols[0].Children, 2)
	assert.Equal(t, "figure", symbols[0].Children[0].Name)
	assert.Equal(t, syntax.FigureEnvironment, symbols[0].Children[0].Tag)
	assert.Equal(t, "Detail", symbols[0].Children[1].Name)
	assert.Equal(t, `\subsection{ Detail }`, src[symbols[0].Children[1].Selection.From:symbols[0].Children[1].Selection.To])
}
