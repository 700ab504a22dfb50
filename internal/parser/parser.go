package parser

import (
	"context"
	"fmt"
	"sync"

	"texsense/internal/syntax"
)

// Parser wraps the latest syntax tree of one document.
type Parser struct {
	mu   sync.Mutex
	tree *syntax.Tree
}

// NewParser creates a Parser and parses initialText when it is non-empty.
func NewParser(initialText string) (*Parser, error) {
	p := &Parser{}
	if initialText != "" {
		if err := p.Parse(context.Background(), initialText); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Parse replaces the held tree with a fresh parse of content. On failure the
// previous tree is kept, so readers see a stale tree rather than none.
func (p *Parser) Parse(ctx context.Context, content string) error {
	tree, err := Parse(ctx, content)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tree = tree
	return nil
}

// Tree returns the last successfully parsed tree, or nil.
func (p *Parser) Tree() *syntax.Tree {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tree
}

// Parse builds a syntax tree for src. It never fails on malformed input; the
// only error is cancellation of ctx.
func Parse(ctx context.Context, src string) (*syntax.Tree, error) {
	s := &scanner{ctx: ctx, src: src}
	root := syntax.NewNode(syntax.Root, 0, len(src))
	children, _ := s.content(frame{kind: frameRoot})
	if s.err != nil {
		return nil, fmt.Errorf("parse canceled at offset %d: %w", s.pos, s.err)
	}
	// Nothing stops the root frame before EOF.
	root.Append(s.nestSections(children, len(src))...)
	return syntax.NewTree(src, root), nil
}

type envKind struct {
	env  syntax.Tag
	name syntax.Tag
}

var envKinds = map[string]envKind{
	"document": {syntax.DocumentEnvironment, syntax.DocumentEnvName},

	"tabular":   {syntax.TabularEnvironment, syntax.TabularEnvName},
	"tabular*":  {syntax.TabularEnvironment, syntax.TabularEnvName},
	"tabularx":  {syntax.TabularEnvironment, syntax.TabularEnvName},
	"longtable": {syntax.TabularEnvironment, syntax.TabularEnvName},
	"xltabular": {syntax.TabularEnvironment, syntax.TabularEnvName},
	"array":     {syntax.TabularEnvironment, syntax.TabularEnvName},

	"equation":    {syntax.EquationEnvironment, syntax.EquationEnvName},
	"equation*":   {syntax.EquationEnvironment, syntax.EquationEnvName},
	"math":        {syntax.EquationEnvironment, syntax.EquationEnvName},
	"displaymath": {syntax.EquationEnvironment, syntax.EquationEnvName},

	"align":     {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"align*":    {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"gather":    {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"gather*":   {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"multline":  {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"multline*": {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"flalign":   {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"flalign*":  {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"alignat":   {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"alignat*":  {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"eqnarray":  {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},
	"eqnarray*": {syntax.EquationArrayEnvironment, syntax.EquationArrayEnvName},

	"verbatim":   {syntax.VerbatimEnvironment, syntax.VerbatimEnvName},
	"verbatim*":  {syntax.VerbatimEnvironment, syntax.VerbatimEnvName},
	"Verbatim":   {syntax.VerbatimEnvironment, syntax.VerbatimEnvName},
	"lstlisting": {syntax.VerbatimEnvironment, syntax.VerbatimEnvName},
	"minted":     {syntax.VerbatimEnvironment, syntax.VerbatimEnvName},
	"comment":    {syntax.VerbatimEnvironment, syntax.VerbatimEnvName},

	"tikzpicture": {syntax.TikzPictureEnvironment, syntax.TikzPictureEnvName},

	"figure":     {syntax.FigureEnvironment, syntax.FigureEnvName},
	"figure*":    {syntax.FigureEnvironment, syntax.FigureEnvName},
	"wrapfigure": {syntax.FigureEnvironment, syntax.FigureEnvName},
	"subfigure":  {syntax.FigureEnvironment, syntax.FigureEnvName},

	"itemize":     {syntax.ListEnvironment, syntax.ListEnvName},
	"enumerate":   {syntax.ListEnvironment, syntax.ListEnvName},
	"description": {syntax.ListEnvironment, syntax.ListEnvName},
	"list":        {syntax.ListEnvironment, syntax.ListEnvName},

	"table":  {syntax.TableEnvironment, syntax.TableEnvName},
	"table*": {syntax.TableEnvironment, syntax.TableEnvName},
}

// EnvironmentKind returns the block kind and name slot kind used for an
// environment name.
func EnvironmentKind(name string) (env syntax.Tag, nameTag syntax.Tag) {
	if k, ok := envKinds[name]; ok {
		return k.env, k.name
	}
	return syntax.Environment, syntax.EnvName
}

func commandTag(name string) syntax.Tag {
	switch name {
	case "label":
		return syntax.LabelCtrlSeq
	case "ref", "eqref", "pageref", "vref":
		return syntax.RefCtrlSeq
	case "cref", "Cref", "cpageref", "Cpageref", "autoref", "nameref":
		return syntax.RefStarrableCtrlSeq
	case "usepackage", "RequirePackage":
		return syntax.UsePackageCtrlSeq
	}
	if _, _, ok := syntax.SectionLevel(name); ok {
		return syntax.SectioningCtrlSeq
	}
	return syntax.CtrlSeq
}

// argumentTag is the tag of the braced argument read after a command of
// the given tag, or Invalid when the command takes a free-form argument.
func argumentTag(cmd syntax.Tag) syntax.Tag {
	switch cmd {
	case syntax.LabelCtrlSeq:
		return syntax.LabelArgument
	case syntax.RefCtrlSeq, syntax.RefStarrableCtrlSeq:
		return syntax.RefArgument
	case syntax.UsePackageCtrlSeq:
		return syntax.PackageArgument
	}
	return syntax.Invalid
}
