package completion_test

import (
	"context"
	"strings"
	"testing"

	"texsense/internal/autoclose"
	"texsense/internal/catalog"
	"texsense/internal/completion"
	"texsense/internal/edit"
	"texsense/internal/parser"
	"texsense/internal/syntax"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// at builds a document from text with the cursor at the "|" marker.
func at(t *testing.T, marked string) (edit.Document, int) {
	t.Helper()
	i := strings.IndexByte(marked, '|')
	require.GreaterOrEqual(t, i, 0, "no cursor marker in %q", marked)
	return edit.NewDocumentAt(marked[:i]+marked[i+1:], i), i
}

func tree(t *testing.T, text string) *syntax.Tree {
	t.Helper()
	tr, err := parser.Parse(context.Background(), text)
	require.NoError(t, err)
	return tr
}

func find(t *testing.T, ctx completion.Context, label string) completion.Candidate {
	t.Helper()
	for _, c := range ctx.Candidates {
		if c.Label == label {
			return c
		}
	}
	t.Fatalf("no candidate %q in %s context", label, ctx.Kind)
	return completion.Candidate{}
}

func labels(ctx completion.Context) []string {
	out := make([]string, len(ctx.Candidates))
	for i, c := range ctx.Candidates {
		out[i] = c.Label
	}
	return out
}

func TestClassify(t *testing.T) {
	c := completion.New(catalog.Default(), autoclose.New("  "))

	tests := []struct {
		name     string
		doc      string
		explicit bool
		kind     completion.Kind
		from     int
	}{
		{"opening slot", `\begin{fig|`, false, completion.EnvironmentName, 7},
		{"closing slot", `\end{ite|`, false, completion.EnvironmentName, 5},
		{"empty slot", `\begin{|`, false, completion.EnvironmentName, 7},
		{"starred slot", `\begin{align*|`, true, completion.EnvironmentName, 7},
		{"command", `text \sec|`, false, completion.CommandName, 5},
		{"bare backslash", `\|`, false, completion.CommandName, 0},
		{"package explicit", `\usepackage{ams|`, true, completion.PackageName, 12},
		{"package list tail", `\usepackage[utf8]{amsmath,gra|`, true, completion.PackageName, 26},
		{"package empty tail", `\usepackage{amsmath,|`, true, completion.PackageName, 20},
		{"package implicit", `\usepackage{ams|`, false, completion.Default, 15},
		{"plain text", `hello wor|`, false, completion.Default, 9},
		{"plain text explicit", `hello wor|`, true, completion.Default, 9},
		{"after a closed slot", `\begin{x} y|`, false, completion.Default, 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, pos := at(t, tt.doc)
			ctx := c.Classify(doc, pos, tt.explicit, nil)
			assert.Equal(t, tt.kind, ctx.Kind)
			assert.Equal(t, edit.Range{From: tt.from, To: pos}, ctx.Range)
			if tt.kind == completion.Default {
				assert.Empty(t, ctx.Candidates)
			} else {
				assert.NotEmpty(t, ctx.Candidates)
			}

			// The tree tier gives the same answer on a fresh tree.
			withTree := c.Classify(doc, pos, tt.explicit, tree(t, doc.Text()))
			assert.Equal(t, ctx.Kind, withTree.Kind)
			assert.Equal(t, ctx.Range, withTree.Range)
		})
	}

	t.Run("out of range", func(t *testing.T) {
		ctx := c.Classify(edit.NewDocument("ab"), 5, true, nil)
		assert.Equal(t, completion.Default, ctx.Kind)
	})
}

func TestCandidateSets(t *testing.T) {
	c := completion.New(catalog.Default(), nil)
	cat := catalog.Default()

	doc, pos := at(t, `\begin{|`)
	ctx := c.Classify(doc, pos, false, nil)
	assert.Equal(t, cat.Environments(), labels(ctx))

	doc, pos = at(t, `\us|`)
	ctx = c.Classify(doc, pos, false, nil)
	got := labels(ctx)
	assert.Len(t, got, len(cat.Commands())+len(cat.Snippets()))
	assert.NotContains(t, got, `\sin`)
	assert.Contains(t, got, `\section{...}`)

	doc, pos = at(t, `$x = \si|`)
	ctx = c.Classify(doc, pos, false, nil)
	got = labels(ctx)
	assert.Len(t, got, len(cat.Commands())+len(cat.MathCommands())+len(cat.Snippets()))
	assert.Contains(t, got, `\sin`)

	doc, pos = at(t, `\usepackage{|`)
	ctx = c.Classify(doc, pos, true, nil)
	assert.Equal(t, cat.Packages(), labels(ctx))
}

func TestEnvironmentRoundTrip(t *testing.T) {
	c := completion.New(catalog.Default(), autoclose.New("  "))

	doc, pos := at(t, `\begin{fig|`)
	ctx := c.Classify(doc, pos, false, tree(t, doc.Text()))
	require.Equal(t, completion.EnvironmentName, ctx.Kind)

	tx := find(t, ctx, "figure").Apply(doc, ctx.Range)
	next, err := doc.Apply(tx)
	require.NoError(t, err)
	assert.Equal(t, "\\begin{figure}\n  \n\\end{figure}", next.Text())
	assert.Equal(t, len("\\begin{figure}\n  "), next.Selection().Head)
}

func TestEnvironmentApply(t *testing.T) {
	tests := []struct {
		name   string
		closer *autoclose.Engine
		doc    string
		label  string
		want   string
		cursor int
	}{
		{
			name:   "without auto-close",
			doc:    `\begin{ite|`,
			label:  "itemize",
			want:   `\begin{itemize}`,
			cursor: len(`\begin{itemize}`),
		},
		{
			name:   "closing slot",
			closer: autoclose.New("  "),
			doc:    "\\begin{itemize}\n\\end{ite|",
			label:  "itemize",
			want:   "\\begin{itemize}\n\\end{itemize}",
			cursor: len("\\begin{itemize}\n\\end{itemize}"),
		},
		{
			name:   "consumes closing brace",
			closer: autoclose.New("  "),
			doc:    `  \begin{cen|}`,
			label:  "center",
			want:   "  \\begin{center}\n    \n  \\end{center}",
			cursor: len("  \\begin{center}\n    "),
		},
		{
			name:   "already closed",
			closer: autoclose.New("  "),
			doc:    "\\begin{tab|\n\\end{table}",
			label:  "table",
			want:   "\\begin{table}\n\\end{table}",
			cursor: len(`\begin{table}`),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := completion.New(catalog.Default(), tt.closer)
			doc, pos := at(t, tt.doc)
			ctx := c.Classify(doc, pos, true, nil)
			require.Equal(t, completion.EnvironmentName, ctx.Kind)

			next, err := doc.Apply(find(t, ctx, tt.label).Apply(doc, ctx.Range))
			require.NoError(t, err)
			assert.Equal(t, tt.want, next.Text())
			assert.Equal(t, tt.cursor, next.Selection().Head)
		})
	}
}

func TestCommandApply(t *testing.T) {
	c := completion.New(catalog.Default(), autoclose.New("  "))

	t.Run("plain command", func(t *testing.T) {
		doc, pos := at(t, `\sec|`)
		ctx := c.Classify(doc, pos, false, nil)
		next, err := doc.Apply(find(t, ctx, `\section`).Apply(doc, ctx.Range))
		require.NoError(t, err)
		assert.Equal(t, `\section`, next.Text())
		assert.Equal(t, len(`\section`), next.Selection().Head)
	})

	t.Run("math block opener", func(t *testing.T) {
		doc, pos := at(t, `$ \beg|`)
		ctx := c.Classify(doc, pos, false, nil)
		next, err := doc.Apply(find(t, ctx, `\begin{pmatrix}`).Apply(doc, ctx.Range))
		require.NoError(t, err)
		assert.Equal(t, "$ \\begin{pmatrix}\n  \n\\end{pmatrix}", next.Text())
		assert.Equal(t, len("$ \\begin{pmatrix}\n  "), next.Selection().Head)
	})

	t.Run("package", func(t *testing.T) {
		doc, pos := at(t, `\usepackage{amsmath,gra|}`)
		ctx := c.Classify(doc, pos, true, nil)
		next, err := doc.Apply(find(t, ctx, "graphicx").Apply(doc, ctx.Range))
		require.NoError(t, err)
		assert.Equal(t, `\usepackage{amsmath,graphicx}`, next.Text())
	})
}

func TestSnippets(t *testing.T) {
	c := completion.New(catalog.Default(), autoclose.New("  "))

	t.Run("section", func(t *testing.T) {
		doc, pos := at(t, `\sub|`)
		ctx := c.Classify(doc, pos, false, nil)
		tx := find(t, ctx, `\subsection{...}`).Apply(doc, ctx.Range)
		next, err := doc.Apply(tx)
		require.NoError(t, err)
		assert.Equal(t, `\subsection{}`, next.Text())
		assert.Equal(t, len(`\subsection{`), next.Selection().Head)
		assert.Equal(t, []int{len(`\subsection{`)}, tx.Tabstops)
	})

	t.Run("begin", func(t *testing.T) {
		doc, pos := at(t, `\b|`)
		ctx := c.Classify(doc, pos, false, nil)
		next, err := doc.Apply(find(t, ctx, `\begin{...}`).Apply(doc, ctx.Range))
		require.NoError(t, err)
		assert.Equal(t, `\begin{}`, next.Text())
		assert.Equal(t, 7, next.Selection().Head)
	})

	t.Run("indented figure", func(t *testing.T) {
		doc, pos := at(t, "  \\beg|")
		ctx := c.Classify(doc, pos, false, nil)
		tx := find(t, ctx, `\begin{figure}`).Apply(doc, ctx.Range)
		next, err := doc.Apply(tx)
		require.NoError(t, err)

		want := "  \\begin{figure}[htbp]\n" +
			"    \\centering\n" +
			"    \\includegraphics[width=0.8\\textwidth]{}\n" +
			"    \\caption{}\n" +
			"    \\label{fig:}\n" +
			"  \\end{figure}"
		assert.Equal(t, want, next.Text())
		require.Len(t, tx.Tabstops, 2)
		assert.Equal(t, strings.Index(want, "{}")+1, tx.Tabstops[0])
		assert.Equal(t, tx.Tabstops[0], next.Selection().Head)
		assert.Equal(t, "{}", next.Text()[tx.Tabstops[1]-1:tx.Tabstops[1]+1])
	})
}

func TestExpand(t *testing.T) {
	text, slots := completion.Expand("a{}\n\tb\n\t\tc{}{}\nd", "  ", "\t")
	assert.Equal(t, "a{}\n  \tb\n  \t\tc{}{}\n  d", text)
	assert.Equal(t, []int{2, 15, 17}, slots)
}

func TestInMath(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"no dollars", `x|`, false},
		{"inside inline", `$x|`, true},
		{"after inline", `$x$ y|`, false},
		{"display counts twice", `$$x|`, false},
		{"escaped dollar", `\$ x|`, false},
		{"escaped inside math", `$ \$ x|`, true},
		// Dollars inside verbatim are counted: a known approximation.
		{"verbatim dollar", "\\begin{verbatim}$\\end{verbatim} x|", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, pos := at(t, tt.doc)
			assert.Equal(t, tt.want, completion.InMath(doc.Text(), pos))
		})
	}
}
