package edit

import (
	"fmt"
	"sort"
	"unicode/utf8"
)

// Origin tags where a transaction came from.
type Origin int

const (
	OriginNone Origin = iota
	// OriginInput marks text typed by the user.
	OriginInput
	// OriginComplete marks an accepted completion candidate.
	OriginComplete
	// OriginAutoClose marks a transaction rewritten by an auto-close stage.
	OriginAutoClose
)

func (o Origin) String() string {
	switch o {
	case OriginInput:
		return "input"
	case OriginComplete:
		return "complete"
	case OriginAutoClose:
		return "autoclose"
	default:
		return "none"
	}
}

// Change replaces [From, To) of the start document with Insert.
type Change struct {
	From   int
	To     int
	Insert string
}

// Insert returns a change inserting text at pos.
func Insert(pos int, text string) Change {
	return Change{From: pos, To: pos, Insert: text}
}

// Transaction is an atomic proposal: ordered, non-overlapping changes in
// start-document coordinates plus an optional selection in result
// coordinates.
type Transaction struct {
	Changes   []Change
	Selection *Selection
	Origin    Origin
	// Tabstops are result-document offsets of snippet placeholder slots.
	Tabstops []int
}

// NewTransaction builds a transaction from changes given in any order.
func NewTransaction(origin Origin, changes ...Change) Transaction {
	sorted := append([]Change(nil), changes...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].From < sorted[j].From })
	return Transaction{Changes: sorted, Origin: origin}
}

// WithCursor returns a copy of the transaction that places the cursor at pos.
func (t Transaction) WithCursor(pos int) Transaction {
	sel := Cursor(pos)
	t.Selection = &sel
	return t
}

func (t Transaction) IsEmpty() bool {
	for _, c := range t.Changes {
		if c.From != c.To || c.Insert != "" {
			return false
		}
	}
	return true
}

// Single returns the only change of the transaction.
func (t Transaction) Single() (Change, bool) {
	if len(t.Changes) != 1 {
		return Change{}, false
	}
	return t.Changes[0], true
}

// MapPos maps a start-document position to the result document. assoc < 0
// keeps a position at an insertion point before the inserted text, otherwise
// it moves after it.
func (t Transaction) MapPos(pos int, assoc int) int {
	delta := 0
	for _, c := range t.Changes {
		if c.From > pos || (c.From == pos && c.To == pos && assoc < 0) {
			break
		}
		if pos < c.To {
			// Inside a replaced range.
			if assoc < 0 {
				return c.From + delta
			}
			return c.From + delta + len(c.Insert)
		}
		delta += len(c.Insert) - (c.To - c.From)
	}
	return pos + delta
}

// EndOf returns the result-document offset just after the inserted text of
// the change at index i.
func (t Transaction) EndOf(i int) int {
	delta := 0
	for j := 0; j < i; j++ {
		c := t.Changes[j]
		delta += len(c.Insert) - (c.To - c.From)
	}
	c := t.Changes[i]
	return c.From + delta + len(c.Insert)
}

func (t Transaction) validate(length int) error {
	last := 0
	for i, c := range t.Changes {
		if c.From < 0 || c.To < c.From || c.To > length {
			return fmt.Errorf("%w: change %d [%d,%d) outside [0,%d)", ErrInvalidRange, i, c.From, c.To, length)
		}
		if c.From < last {
			return fmt.Errorf("%w: change %d overlaps its predecessor", ErrInvalidRange, i)
		}
		last = c.To
	}
	return nil
}

func (t Transaction) insertedLen() int {
	n := 0
	for _, c := range t.Changes {
		n += len(c.Insert)
	}
	return n
}

// Diff returns the single change turning a into b, trimming the common
// prefix and suffix. ok is false when the texts are equal.
func Diff(a, b string) (Change, bool) {
	if a == b {
		return Change{}, false
	}
	prefix := 0
	for prefix < len(a) && prefix < len(b) && a[prefix] == b[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(a)-prefix && suffix < len(b)-prefix &&
		a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	// Keep both ends on rune boundaries.
	for prefix > 0 && (prefix < len(a) && !utf8.RuneStart(a[prefix]) ||
		prefix < len(b) && !utf8.RuneStart(b[prefix])) {
		prefix--
	}
	for suffix > 0 && !utf8.RuneStart(a[len(a)-suffix]) {
		suffix--
	}
	return Change{
		From:   prefix,
		To:     len(a) - suffix,
		Insert: b[prefix : len(b)-suffix],
	}, true
}
