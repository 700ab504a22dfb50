package syntax

import (
	"fmt"
	"strings"
)

// Node is a positioned node of a syntax tree. Nodes are read-only once the
// tree owning them has been built.
type Node struct {
	Tag  Tag
	From int
	To   int

	parent   *Node
	children []*Node
	index    int
	tree     *Tree
}

// NewNode creates a detached node. It becomes part of a tree through Append
// and NewTree.
func NewNode(tag Tag, from, to int) *Node {
	return &Node{Tag: tag, From: from, To: to}
}

// Append adds children in document order.
func (n *Node) Append(children ...*Node) {
	n.children = append(n.children, children...)
}

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) Children() []*Node { return n.children }

func (n *Node) FirstChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *Node) LastChild() *Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[len(n.children)-1]
}

func (n *Node) NextSibling() *Node {
	if n.parent == nil || n.index+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[n.index+1]
}

func (n *Node) PrevSibling() *Node {
	if n.parent == nil || n.index == 0 {
		return nil
	}
	return n.parent.children[n.index-1]
}

// Child returns the first direct child with the given tag.
func (n *Node) Child(tag Tag) *Node {
	for _, c := range n.children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Text returns the source covered by the node.
func (n *Node) Text() string {
	if n.tree == nil {
		return ""
	}
	return n.tree.source[n.From:n.To]
}

func (n *Node) String() string {
	return fmt.Sprintf("%s[%d,%d)", n.Tag, n.From, n.To)
}

// Tree is an immutable syntax tree over a snapshot of the source text.
type Tree struct {
	source string
	root   *Node
}

// NewTree links root and its descendants to the source snapshot.
func NewTree(source string, root *Node) *Tree {
	t := &Tree{source: source, root: root}
	var link func(n *Node)
	link = func(n *Node) {
		n.tree = t
		for i, c := range n.children {
			c.parent = n
			c.index = i
			link(c)
		}
	}
	link(root)
	return t
}

func (t *Tree) Root() *Node { return t.root }

func (t *Tree) Source() string { return t.source }

func (t *Tree) Len() int { return len(t.source) }

// StaleFor reports whether the tree was built from a text other than text.
func (t *Tree) StaleFor(text string) bool {
	return t == nil || t.source != text
}

// Resolve returns the innermost node around pos. With side < 0 nodes ending
// at pos are entered, with side > 0 nodes starting at pos are entered, with
// side == 0 only nodes strictly containing pos are.
func (t *Tree) Resolve(pos int, side int) *Node {
	n := t.root
	for {
		next := (*Node)(nil)
		for _, c := range n.children {
			if c.From > pos {
				break
			}
			if enters(c, pos, side) {
				next = c
				break
			}
		}
		if next == nil {
			return n
		}
		n = next
	}
}

func enters(n *Node, pos, side int) bool {
	switch {
	case side < 0:
		return n.From < pos && pos <= n.To
	case side > 0:
		return n.From <= pos && pos < n.To
	default:
		return n.From < pos && pos < n.To
	}
}

// Walk visits the tree in pre-order. Returning false from fn skips the
// children of the visited node.
func (t *Tree) Walk(fn func(n *Node) bool) {
	var walk func(n *Node)
	walk = func(n *Node) {
		if !fn(n) {
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(t.root)
}

// Dump renders the tree as an indented outline, one node per line.
func (t *Tree) Dump() string {
	var b strings.Builder
	var dump func(n *Node, depth int)
	dump = func(n *Node, depth int) {
		b.WriteString(strings.Repeat("  ", depth))
		b.WriteString(n.String())
		b.WriteByte('\n')
		for _, c := range n.children {
			dump(c, depth+1)
		}
	}
	dump(t.root, 0)
	return b.String()
}
