// Package completion classifies the cursor context and supplies the
// matching candidates from the catalog.
package completion

import (
	"regexp"
	"strings"

	"texsense/internal/autoclose"
	"texsense/internal/catalog"
	"texsense/internal/edit"
	"texsense/internal/query"
	"texsense/internal/syntax"
)

// Kind is the lexical context of the cursor.
type Kind int

const (
	Default Kind = iota
	EnvironmentName
	CommandName
	PackageName
)

func (k Kind) String() string {
	switch k {
	case EnvironmentName:
		return "environment-name"
	case CommandName:
		return "command-name"
	case PackageName:
		return "package-name"
	default:
		return "default"
	}
}

const commandWindow = 30

var (
	implicitRe = regexp.MustCompile(`\\[a-zA-Z]*$|\\(begin|end)\{[a-zA-Z]*$`)
	commandRe  = regexp.MustCompile(`\\[a-zA-Z]*$`)
	packageRe  = regexp.MustCompile(`\\usepackage(\[\S*\])?\{([a-zA-Z,]*)$`)
)

// Context is the result of Classify. Range is the text the chosen
// candidate replaces.
type Context struct {
	Kind       Kind
	Range      edit.Range
	Candidates []Candidate
}

// Classifier is safe for concurrent use.
type Classifier struct {
	catalog *catalog.Catalog
	closer  *autoclose.Engine
	unit    string

	openers  []Candidate
	closers  []Candidate
	commands []Candidate
	math     []Candidate
	snippets []Candidate
	packages []Candidate
}

// New builds a classifier over cat. closer may be nil, in which case
// accepted candidates never synthesize closing delimiters.
func New(cat *catalog.Catalog, closer *autoclose.Engine) *Classifier {
	if cat == nil {
		cat = catalog.Default()
	}
	c := &Classifier{catalog: cat, closer: closer, unit: autoclose.DefaultIndentUnit}
	if closer != nil {
		c.unit = closer.IndentUnit()
	}

	for _, name := range cat.Environments() {
		c.openers = append(c.openers, c.environment(name, true))
		c.closers = append(c.closers, c.environment(name, false))
	}
	for _, cmd := range cat.Commands() {
		c.commands = append(c.commands, c.command(cmd, CommandCandidate))
	}
	for _, cmd := range cat.MathCommands() {
		c.math = append(c.math, c.command(cmd, MathCandidate))
	}
	for _, s := range cat.Snippets() {
		c.snippets = append(c.snippets, c.snippet(s))
	}
	for _, pkg := range cat.Packages() {
		c.packages = append(c.packages, packageCandidate(pkg))
	}
	return c
}

// Classify determines the context at pos. When explicit is false the
// result is Default unless the text before pos looks like the start of a
// command or block name. tree may be nil or stale.
func (c *Classifier) Classify(doc edit.Document, pos int, explicit bool, tree *syntax.Tree) Context {
	text := doc.Text()
	if pos < 0 || pos > len(text) {
		return Context{}
	}
	none := Context{Kind: Default, Range: edit.Range{From: pos, To: pos}}

	line := edit.LineAt(text, pos)
	before := text[line.From:pos]
	if !explicit && !implicitRe.MatchString(before) {
		return none
	}

	if slot, ok := environmentSlot(text, pos, tree); ok {
		candidates := c.closers
		if slot.Opening {
			candidates = c.openers
		}
		return Context{Kind: EnvironmentName, Range: slot.Range, Candidates: candidates}
	}

	window := text[max(0, pos-commandWindow):pos]
	if m := commandRe.FindStringIndex(window); m != nil {
		candidates := append([]Candidate(nil), c.commands...)
		if InMath(text, pos) {
			candidates = append(candidates, c.math...)
		}
		candidates = append(candidates, c.snippets...)
		from := pos - len(window) + m[0]
		return Context{Kind: CommandName, Range: edit.Range{From: from, To: pos}, Candidates: candidates}
	}

	if m := packageRe.FindStringIndex(before); m != nil {
		match := before[m[0]:m[1]]
		from := line.From + m[0] + strings.LastIndexAny(match, "{,") + 1
		return Context{Kind: PackageName, Range: edit.Range{From: from, To: pos}, Candidates: c.packages}
	}

	return none
}

func environmentSlot(text string, pos int, tree *syntax.Tree) (query.Slot, bool) {
	if tree != nil && !tree.StaleFor(text) {
		if !query.InSlotWindow(text, pos) {
			return query.Slot{}, false
		}
		if slot, ok := query.EnvironmentSlotAt(tree, pos); ok {
			return slot, true
		}
	}
	return query.EnvironmentSlotBefore(text, pos)
}

// InMath reports whether pos is inside inline math by the parity of the
// unescaped dollar signs before it. Dollars inside verbatim blocks and
// comments are counted too.
func InMath(text string, pos int) bool {
	pos = min(pos, len(text))
	n := 0
	for i := 0; i < pos; i++ {
		if text[i] == '$' && (i == 0 || text[i-1] != '\\') {
			n++
		}
	}
	return n%2 == 1
}
