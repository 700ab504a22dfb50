package edit

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidRange is returned when a change does not fit the document it is
// applied to, or when changes overlap or are out of order.
var ErrInvalidRange = errors.New("edit: invalid change range")

// Range is a half-open byte range [From, To).
type Range struct {
	From int
	To   int
}

func (r Range) Len() int { return r.To - r.From }

func (r Range) Empty() bool { return r.From == r.To }

// Contains reports whether pos lies inside r, both ends included.
func (r Range) Contains(pos int) bool { return r.From <= pos && pos <= r.To }

// Selection is the primary selection range of a document. Head is the end
// that moves; a cursor is a selection with Anchor == Head.
type Selection struct {
	Anchor int
	Head   int
}

// Cursor returns an empty selection at pos.
func Cursor(pos int) Selection { return Selection{Anchor: pos, Head: pos} }

func (s Selection) Empty() bool { return s.Anchor == s.Head }

func (s Selection) From() int { return min(s.Anchor, s.Head) }

func (s Selection) To() int { return max(s.Anchor, s.Head) }

// Line is a single line of a document, without its line break.
type Line struct {
	Number int // 1-based
	From   int
	To     int
	Text   string
}

// Document is an immutable, versioned text buffer with a primary selection.
type Document struct {
	text      string
	version   int
	selection Selection
}

// NewDocument creates version 0 of a document with the cursor at the start.
func NewDocument(text string) Document {
	return Document{text: text}
}

// NewDocumentAt creates version 0 of a document with the cursor at pos.
func NewDocumentAt(text string, pos int) Document {
	pos = clamp(pos, 0, len(text))
	return Document{text: text, selection: Cursor(pos)}
}

func (d Document) Text() string { return d.text }

func (d Document) Version() int { return d.version }

func (d Document) Selection() Selection { return d.selection }

func (d Document) Len() int { return len(d.text) }

// Slice returns the text between from and to, clamped to the document.
func (d Document) Slice(from, to int) string {
	from = clamp(from, 0, len(d.text))
	to = clamp(to, from, len(d.text))
	return d.text[from:to]
}

// LineAt returns the line containing pos.
func (d Document) LineAt(pos int) Line {
	return LineAt(d.text, pos)
}

// WithSelection returns a copy of the document with a new selection and the
// same version.
func (d Document) WithSelection(sel Selection) Document {
	sel.Anchor = clamp(sel.Anchor, 0, len(d.text))
	sel.Head = clamp(sel.Head, 0, len(d.text))
	d.selection = sel
	return d
}

// Apply produces the next version of the document. Changes are interpreted
// in the coordinates of d. When the transaction carries no selection the
// current one is mapped through the changes.
func (d Document) Apply(tx Transaction) (Document, error) {
	if err := tx.validate(len(d.text)); err != nil {
		return d, err
	}

	var b strings.Builder
	b.Grow(len(d.text) + tx.insertedLen())
	last := 0
	for _, c := range tx.Changes {
		b.WriteString(d.text[last:c.From])
		b.WriteString(c.Insert)
		last = c.To
	}
	b.WriteString(d.text[last:])

	next := Document{text: b.String(), version: d.version + 1}
	if tx.Selection != nil {
		next.selection = Selection{
			Anchor: clamp(tx.Selection.Anchor, 0, len(next.text)),
			Head:   clamp(tx.Selection.Head, 0, len(next.text)),
		}
	} else {
		next.selection = Selection{
			Anchor: tx.MapPos(d.selection.Anchor, 1),
			Head:   tx.MapPos(d.selection.Head, 1),
		}
	}
	return next, nil
}

// LineAt returns the line of text containing pos.
func LineAt(text string, pos int) Line {
	pos = clamp(pos, 0, len(text))
	from := strings.LastIndexByte(text[:pos], '\n') + 1
	to := strings.IndexByte(text[pos:], '\n')
	if to < 0 {
		to = len(text)
	} else {
		to += pos
	}
	return Line{
		Number: strings.Count(text[:from], "\n") + 1,
		From:   from,
		To:     to,
		Text:   text[from:to],
	}
}

// Indentation returns the leading spaces and tabs of a line.
func Indentation(line string) string {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return line[:i]
}

// LineBreak returns the line break text uses, judged by its first line.
// Text without a line break uses "\n".
func LineBreak(text string) string {
	if i := strings.IndexByte(text, '\n'); i > 0 && text[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func (l Line) String() string {
	return fmt.Sprintf("%d:[%d,%d)", l.Number, l.From, l.To)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
