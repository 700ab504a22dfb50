// Package query answers structural questions about named blocks, first from
// the syntax tree and, where the tree cannot answer, from the raw text.
package query

import (
	"regexp"

	"texsense/internal/edit"
	"texsense/internal/syntax"
)

// Block is a named block computed on demand. Close is nil while the block
// has no closing delimiter.
type Block struct {
	Name  string
	Open  edit.Range
	Close *edit.Range
}

// Balanced reports whether both delimiters are present and in order.
func (b Block) Balanced() bool {
	return b.Close != nil && b.Open.To <= b.Close.From
}

// Outer returns the range from the start of the opening delimiter to the end
// of the closing one, or of the opening one when there is none.
func (b Block) Outer() edit.Range {
	if b.Close == nil {
		return b.Open
	}
	return edit.Range{From: min(b.Open.From, b.Close.From), To: max(b.Open.To, b.Close.To)}
}

// Slot is an unterminated name slot of a delimiter.
type Slot struct {
	Opening bool
	Range   edit.Range
}

var slotName = regexp.MustCompile(`^[a-zA-Z*]*$`)

// BlockNameOf returns the identifier inside a BeginEnv or EndEnv node.
func BlockNameOf(n *syntax.Node) (string, bool) {
	if n == nil || (n.Tag != syntax.BeginEnv && n.Tag != syntax.EndEnv) {
		return "", false
	}
	group := n.Child(syntax.EnvNameGroup)
	if group == nil {
		return "", false
	}
	for _, tag := range syntax.EnvNamePriority {
		if name := group.Child(tag); name != nil {
			return name.Text(), true
		}
	}
	return "", false
}

// NestingDepth counts the block and group ancestors of n.
func NestingDepth(n *syntax.Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Tag.IsEnvironment() || p.Tag.IsGroup() {
			depth++
		}
	}
	return depth
}

// delimiterOf returns n or its nearest BeginEnv/EndEnv ancestor.
func delimiterOf(n *syntax.Node) *syntax.Node {
	for ; n != nil; n = n.Parent() {
		switch {
		case n.Tag == syntax.BeginEnv || n.Tag == syntax.EndEnv:
			return n
		case n.Tag.IsEnvironment():
			return nil
		}
	}
	return nil
}

// BlockOf returns the block of an environment node.
func BlockOf(env *syntax.Node) (Block, bool) {
	if env == nil || !env.Tag.IsEnvironment() {
		return Block{}, false
	}
	begin := env.FirstChild()
	name, ok := BlockNameOf(begin)
	if !ok || begin.Tag != syntax.BeginEnv {
		return Block{}, false
	}
	b := Block{Name: name, Open: rangeOf(begin)}
	for _, c := range env.Children() {
		if c.Tag != syntax.EndEnv {
			continue
		}
		if other, _ := BlockNameOf(c); other == name {
			r := rangeOf(c)
			b.Close = &r
			break
		}
	}
	return b, true
}

// DelimiterBlock returns the block one of whose delimiters is at pos.
func DelimiterBlock(tree *syntax.Tree, pos int) (Block, bool) {
	if tree == nil {
		return Block{}, false
	}
	for _, side := range [...]int{1, -1} {
		delim := delimiterOf(tree.Resolve(pos, side))
		if delim == nil {
			continue
		}
		env := delim.Parent()
		for env != nil && !env.Tag.IsEnvironment() {
			env = env.Parent()
		}
		b, ok := BlockOf(env)
		if !ok {
			continue
		}
		// An orphan closing delimiter sits among the children of an
		// unrelated block.
		if name, _ := BlockNameOf(delim); name != b.Name {
			continue
		}
		return b, true
	}
	return Block{}, false
}

// MatchingPartner returns the combined range of the delimiter at pos and its
// partner. ok is false when pos is not on a delimiter or the partner is
// missing.
func MatchingPartner(tree *syntax.Tree, pos int) (edit.Range, bool) {
	b, ok := DelimiterBlock(tree, pos)
	if !ok || !b.Balanced() {
		return edit.Range{}, false
	}
	return b.Outer(), true
}

// EnclosingBlock returns the innermost block containing pos.
func EnclosingBlock(tree *syntax.Tree, pos int) (Block, bool) {
	if tree == nil {
		return Block{}, false
	}
	for n := tree.Resolve(pos, 0); n != nil; n = n.Parent() {
		if b, ok := BlockOf(n); ok {
			return b, true
		}
	}
	return Block{}, false
}

// EnvironmentSlotAt locates the name slot ending at pos using the tree.
func EnvironmentSlotAt(tree *syntax.Tree, pos int) (Slot, bool) {
	if tree == nil {
		return Slot{}, false
	}
	n := tree.Resolve(pos, -1)
	if n.Tag != syntax.OpenBrace && !n.Tag.IsEnvName() {
		return Slot{}, false
	}
	group := n.Parent()
	if group == nil || group.Tag != syntax.EnvNameGroup {
		return Slot{}, false
	}
	delim := group.Parent()
	from := n.From
	if n.Tag == syntax.OpenBrace {
		from = n.To
	}
	if from > pos || !slotName.MatchString(tree.Source()[from:pos]) {
		return Slot{}, false
	}
	return Slot{
		Opening: delim.Tag == syntax.BeginEnv,
		Range:   edit.Range{From: from, To: pos},
	}, true
}

func rangeOf(n *syntax.Node) edit.Range {
	return edit.Range{From: n.From, To: n.To}
}
