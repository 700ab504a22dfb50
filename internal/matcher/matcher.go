// Package matcher pairs opening and closing delimiters by name.
//
// Pairing is by count per name: the first min(opens, closes) delimiters of
// each side are considered matched and the rest are reported. Nesting order
// is not verified, so interleaved blocks such as
// \begin{a}\begin{b}\end{a}\end{b} count as balanced.
package matcher

import (
	"regexp"
	"sort"

	"texsense/internal/edit"
	"texsense/internal/query"
	"texsense/internal/syntax"
)

var delimiterRe = regexp.MustCompile(`\\(begin|end)\{([^}]+)\}`)

// Unmatched is a delimiter without a counterpart.
type Unmatched struct {
	Name    string
	Opening bool
	Range   edit.Range
}

// Matcher holds, per name, the ordered opening and closing delimiters of a
// document.
type Matcher struct {
	opens  map[string][]edit.Range
	closes map[string][]edit.Range
	names  []string
}

func newMatcher() *Matcher {
	return &Matcher{
		opens:  make(map[string][]edit.Range),
		closes: make(map[string][]edit.Range),
	}
}

func (m *Matcher) add(name string, opening bool, r edit.Range) {
	if _, seen := m.opens[name]; !seen {
		if _, seen := m.closes[name]; !seen {
			m.names = append(m.names, name)
		}
	}
	if opening {
		m.opens[name] = append(m.opens[name], r)
	} else {
		m.closes[name] = append(m.closes[name], r)
	}
}

// Build uses the tree when it was built from text, and the text otherwise.
func Build(text string, tree *syntax.Tree) *Matcher {
	if tree.StaleFor(text) {
		return FromText(text)
	}
	return FromTree(tree)
}

// FromTree collects the well-formed delimiters of the tree.
func FromTree(tree *syntax.Tree) *Matcher {
	m := newMatcher()
	if tree == nil {
		return m
	}
	tree.Walk(func(n *syntax.Node) bool {
		if n.Tag != syntax.BeginEnv && n.Tag != syntax.EndEnv {
			return true
		}
		name, ok := query.BlockNameOf(n)
		if !ok || n.Child(syntax.EnvNameGroup).Child(syntax.CloseBrace) == nil {
			return false
		}
		m.add(name, n.Tag == syntax.BeginEnv, edit.Range{From: n.From, To: n.To})
		return false
	})
	return m
}

// FromText collects delimiters with a regular expression. Delimiters inside
// comments or verbatim blocks are counted too.
func FromText(text string) *Matcher {
	m := newMatcher()
	for _, loc := range delimiterRe.FindAllStringSubmatchIndex(text, -1) {
		opening := text[loc[2]:loc[3]] == "begin"
		m.add(text[loc[4]:loc[5]], opening, edit.Range{From: loc[0], To: loc[1]})
	}
	return m
}

// Names returns the delimiter names in order of first appearance.
func (m *Matcher) Names() []string { return m.names }

func (m *Matcher) Opens(name string) []edit.Range { return m.opens[name] }

func (m *Matcher) Closes(name string) []edit.Range { return m.closes[name] }

// Unmatched returns the excess delimiters of every name in document order.
func (m *Matcher) Unmatched() []Unmatched {
	var out []Unmatched
	for _, name := range m.names {
		opens, closes := m.opens[name], m.closes[name]
		matched := min(len(opens), len(closes))
		for _, r := range opens[matched:] {
			out = append(out, Unmatched{Name: name, Opening: true, Range: r})
		}
		for _, r := range closes[matched:] {
			out = append(out, Unmatched{Name: name, Opening: false, Range: r})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Range.From < out[j].Range.From })
	return out
}
