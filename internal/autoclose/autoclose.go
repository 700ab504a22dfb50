// Package autoclose synthesizes the closing delimiter of a block while the
// user types. Every stage takes the document before an edit plus the
// incoming transaction and returns the transaction that should actually be
// applied.
package autoclose

import (
	"regexp"
	"strings"
	"sync"

	"texsense/internal/edit"
	"texsense/internal/query"
)

// DefaultIndentUnit is the inner indentation step of synthesized blocks.
const DefaultIndentUnit = "  "

var (
	newlineRe    = regexp.MustCompile(`^(\r?\n)[ \t]*$`)
	openNameRe   = regexp.MustCompile(`\\begin\{([^{}\\]+)$`)
	openedLineRe = regexp.MustCompile(`\\begin\{([^{}\\]+)\}$`)
)

// Stage rewrites an incoming transaction. A stage that does not recognize
// the transaction returns it unchanged.
type Stage interface {
	Propose(prior edit.Document, tx edit.Transaction) edit.Transaction
}

// Pipeline runs its stages in order, feeding each the output of the
// previous one.
type Pipeline []Stage

func (p Pipeline) Propose(prior edit.Document, tx edit.Transaction) edit.Transaction {
	for _, stage := range p {
		if stage == nil {
			continue
		}
		tx = stage.Propose(prior, tx)
	}
	return tx
}

// State records the last synthesized closing. It is informational only.
type State struct {
	Active          bool
	LastEnvironment string
	// Position is the offset in the prior document where the block was
	// opened.
	Position int
}

// Engine recognizes the three "block just opened" events: Enter after an
// opening delimiter, the brace that terminates one, and an accepted name
// completion.
type Engine struct {
	unit string

	mu    sync.Mutex
	state State
}

func New(unit string) *Engine {
	if unit == "" {
		unit = DefaultIndentUnit
	}
	return &Engine{unit: unit}
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) IndentUnit() string { return e.unit }

func (e *Engine) Propose(prior edit.Document, tx edit.Transaction) edit.Transaction {
	switch tx.Origin {
	case edit.OriginInput:
		if out, ok := e.enterAfterOpen(prior, tx); ok {
			return out
		}
		if out, ok := e.braceCompletesOpen(prior, tx); ok {
			return out
		}
	case edit.OriginComplete:
		if out, ok := e.completionAccepted(prior, tx); ok {
			return out
		}
	}
	return tx
}

// Block returns the text appended after an opening delimiter whose line is
// indented by indent. Lines are separated by lineBreak.
func (e *Engine) Block(name, indent, lineBreak string) string {
	return lineBreak + indent + e.unit + lineBreak + indent + `\end{` + name + `}`
}

// blankLineEnd is the length of the first line of Block, line break included.
func (e *Engine) blankLineEnd(indent, lineBreak string) int {
	return len(lineBreak) + len(indent) + len(e.unit)
}

// typedAt returns the single insertion of tx when it sits at the empty
// cursor of prior.
func typedAt(prior edit.Document, tx edit.Transaction) (edit.Change, bool) {
	c, ok := tx.Single()
	if !ok || c.From != c.To {
		return edit.Change{}, false
	}
	sel := prior.Selection()
	if !sel.Empty() || sel.Head != c.From {
		return edit.Change{}, false
	}
	return c, true
}

func (e *Engine) enterAfterOpen(prior edit.Document, tx edit.Transaction) (edit.Transaction, bool) {
	c, ok := typedAt(prior, tx)
	if !ok {
		return tx, false
	}
	m := newlineRe.FindStringSubmatch(c.Insert)
	if m == nil {
		return tx, false
	}
	lineBreak := m[1]
	text := prior.Text()
	pos := c.From
	name, ok := query.OpenNameBefore(text, pos)
	if !ok {
		return tx, false
	}
	line := prior.LineAt(pos)
	if strings.TrimSpace(text[pos:line.To]) != "" {
		return tx, false
	}
	if query.HasClosingAfter(text, pos, name) {
		return tx, false
	}

	indent := edit.Indentation(line.Text)
	out := edit.NewTransaction(edit.OriginAutoClose, edit.Insert(pos, e.Block(name, indent, lineBreak))).
		WithCursor(pos + e.blankLineEnd(indent, lineBreak))
	e.record(name, pos)
	return out, true
}

func (e *Engine) braceCompletesOpen(prior edit.Document, tx edit.Transaction) (edit.Transaction, bool) {
	c, ok := typedAt(prior, tx)
	if !ok || c.Insert != "}" {
		return tx, false
	}
	text := prior.Text()
	pos := c.From
	line := prior.LineAt(pos)
	m := openNameRe.FindStringSubmatch(text[line.From:pos])
	if m == nil {
		return tx, false
	}
	name := m[1]
	if query.HasClosingAfter(text, pos, name) {
		return tx, false
	}

	to := pos
	if pos < len(text) && text[pos] == '}' {
		// Left behind by bracket closing.
		to++
	}
	indent := edit.Indentation(line.Text)
	lineBreak := edit.LineBreak(text)
	change := edit.Change{From: pos, To: to, Insert: "}" + e.Block(name, indent, lineBreak)}
	out := edit.NewTransaction(edit.OriginAutoClose, change).
		WithCursor(pos + 1 + e.blankLineEnd(indent, lineBreak))
	e.record(name, pos)
	return out, true
}

func (e *Engine) completionAccepted(prior edit.Document, tx edit.Transaction) (edit.Transaction, bool) {
	if len(tx.Changes) == 0 {
		return tx, false
	}
	next, err := prior.Apply(tx)
	if err != nil {
		return tx, false
	}

	last := len(tx.Changes) - 1
	end := tx.EndOf(last)
	line := next.LineAt(end)
	m := openedLineRe.FindStringSubmatch(next.Text()[line.From:end])
	if m == nil {
		return tx, false
	}
	name := m[1]
	if query.HasClosingAfter(prior.Text(), tx.Changes[last].To, name) {
		return tx, false
	}

	indent := edit.Indentation(line.Text)
	lineBreak := edit.LineBreak(prior.Text())
	block := e.Block(name, indent, lineBreak)

	out := edit.Transaction{
		Changes: append([]edit.Change(nil), tx.Changes...),
		Origin:  edit.OriginAutoClose,
	}
	out.Changes[last].Insert += block
	for _, t := range tx.Tabstops {
		if t > end {
			t += len(block)
		}
		out.Tabstops = append(out.Tabstops, t)
	}
	out = out.WithCursor(end + e.blankLineEnd(indent, lineBreak))
	e.record(name, tx.Changes[last].From)
	return out, true
}

func (e *Engine) record(name string, pos int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = State{Active: true, LastEnvironment: name, Position: pos}
}
