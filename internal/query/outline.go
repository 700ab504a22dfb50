package query

import (
	"strings"

	"texsense/internal/edit"
	"texsense/internal/syntax"
)

// Fold is a foldable region. The heading or opening delimiter stays visible.
type Fold struct {
	Range edit.Range
	Tag   syntax.Tag
}

// FoldRanges returns the foldable regions of the tree in document order.
// Regions that would not hide at least one line break are skipped.
func FoldRanges(tree *syntax.Tree) []Fold {
	if tree == nil {
		return nil
	}
	src := tree.Source()
	var folds []Fold
	tree.Walk(func(n *syntax.Node) bool {
		if !n.Tag.Foldable() {
			return true
		}
		r, ok := foldRange(n, src)
		if ok && strings.Contains(src[r.From:r.To], "\n") {
			folds = append(folds, Fold{Range: r, Tag: n.Tag})
		}
		return true
	})
	return folds
}

func foldRange(n *syntax.Node, src string) (edit.Range, bool) {
	switch {
	case n.Tag.IsEnvironment():
		first, last := n.FirstChild(), n.LastChild()
		if first == nil {
			return edit.Range{}, false
		}
		to := n.To
		if last != first && last.Tag == syntax.EndEnv {
			to = last.From
		}
		return edit.Range{From: first.To, To: to}, first.To <= to
	case n.Tag == syntax.Group:
		to := n.To
		if last := n.LastChild(); last != nil && last.Tag == syntax.CloseBrace {
			to = last.From
		}
		return edit.Range{From: n.From + 1, To: to}, n.From+1 <= to
	case n.Tag.IsSectioning():
		line := edit.LineAt(src, n.From)
		to := strings.TrimRight(src[:n.To], " \t\n")
		return edit.Range{From: line.To, To: len(to)}, line.To <= len(to)
	}
	return edit.Range{}, false
}

// Symbol is an entry of the document outline.
type Symbol struct {
	Name      string
	Tag       syntax.Tag
	Range     edit.Range
	Selection edit.Range
	Children  []Symbol
}

// Outline returns the sectioning units and blocks of the tree as a
// hierarchy.
func Outline(tree *syntax.Tree) []Symbol {
	if tree == nil {
		return nil
	}
	return outline(tree.Root())
}

func outline(n *syntax.Node) []Symbol {
	var symbols []Symbol
	for _, c := range n.Children() {
		sym, ok := symbolOf(c)
		if !ok {
			symbols = append(symbols, outline(c)...)
			continue
		}
		sym.Children = outline(c)
		symbols = append(symbols, sym)
	}
	return symbols
}

func symbolOf(n *syntax.Node) (Symbol, bool) {
	switch {
	case n.Tag.IsEnvironment():
		b, ok := BlockOf(n)
		if !ok {
			return Symbol{}, false
		}
		return Symbol{Name: b.Name, Tag: n.Tag, Range: rangeOf(n), Selection: b.Open}, true
	case n.Tag.IsSectioning():
		heading := n.FirstChild()
		name := strings.TrimPrefix(heading.Text(), `\`)
		sel := rangeOf(heading)
		if title := heading.NextSibling(); title != nil && title.Tag == syntax.Group && title.From == heading.To {
			name = strings.TrimSpace(strings.Trim(title.Text(), "{}"))
			sel.To = title.To
		}
		return Symbol{Name: name, Tag: n.Tag, Range: rangeOf(n), Selection: sel}, true
	}
	return Symbol{}, false
}
