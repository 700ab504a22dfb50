// Package hover looks up descriptive records for the command or block name
// under the cursor.
package hover

import (
	"strings"

	"texsense/internal/catalog"
	"texsense/internal/edit"
	"texsense/internal/syntax"
)

// Info is a catalog record together with the source range it describes.
type Info struct {
	catalog.Info
	Range edit.Range
}

// Markdown renders the record for display.
func (i *Info) Markdown() string {
	var b strings.Builder
	b.WriteString(i.Description)
	if i.Syntax != "" {
		b.WriteString("\n\n**Syntax:** `")
		b.WriteString(i.Syntax)
		b.WriteString("`")
	}
	if i.Example != "" {
		b.WriteString("\n\n**Example:**\n```latex\n")
		b.WriteString(i.Example)
		b.WriteString("\n```")
	}
	if i.Package != "" {
		b.WriteString("\n\n**Package:** ")
		b.WriteString(i.Package)
	}
	return b.String()
}

type Resolver struct {
	catalog *catalog.Catalog
}

func New(cat *catalog.Catalog) *Resolver {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Resolver{catalog: cat}
}

// Resolve returns the record for the node covering the character at pos, or
// nil.
func (r *Resolver) Resolve(tree *syntax.Tree, pos int) *Info {
	if tree == nil || pos < 0 || pos > tree.Len() {
		return nil
	}
	n := tree.Resolve(pos, 1)

	if n.Tag.IsCommand() {
		if info, ok := r.catalog.CommandInfo(n.Text()); ok {
			return &Info{Info: info, Range: edit.Range{From: n.From, To: n.To}}
		}
	}

	if n.Tag.IsEnvName() {
		if info, ok := r.catalog.EnvironmentInfo(n.Text()); ok {
			return &Info{Info: info, Range: edit.Range{From: n.From, To: n.To}}
		}
	}

	if parent := n.Parent(); parent != nil && parent.Tag == syntax.EnvNameGroup {
		for _, c := range parent.Children() {
			if !c.Tag.IsEnvName() {
				continue
			}
			if info, ok := r.catalog.EnvironmentInfo(c.Text()); ok {
				return &Info{Info: info, Range: edit.Range{From: c.From, To: c.To}}
			}
		}
	}
	return nil
}
