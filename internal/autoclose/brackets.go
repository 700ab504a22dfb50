package autoclose

import (
	"strings"

	"texsense/internal/edit"
)

var bracketPairs = map[string]string{
	"{": "}",
	"[": "]",
	"(": ")",
}

// closeBefore lists the characters a bracket may be closed in front of.
const closeBefore = ")]}:;> \t\n"

// BracketCloser appends the partner of a typed opening bracket and leaves
// the cursor between the two.
type BracketCloser struct{}

func (BracketCloser) Propose(prior edit.Document, tx edit.Transaction) edit.Transaction {
	if tx.Origin != edit.OriginInput {
		return tx
	}
	c, ok := typedAt(prior, tx)
	if !ok {
		return tx
	}
	closing, ok := bracketPairs[c.Insert]
	if !ok {
		return tx
	}

	text := prior.Text()
	if c.From < len(text) && !strings.ContainsRune(closeBefore, rune(text[c.From])) {
		return tx
	}
	if c.From > 0 && text[c.From-1] == '\\' {
		return tx
	}
	return edit.NewTransaction(edit.OriginAutoClose, edit.Insert(c.From, c.Insert+closing)).
		WithCursor(c.From + 1)
}
