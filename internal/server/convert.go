package server

import (
	"strconv"
	"strings"

	"texsense/internal/completion"
	"texsense/internal/edit"
	"texsense/internal/manager"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

var completionKinds = map[completion.CandidateKind]protocol.CompletionItemKind{
	completion.EnvironmentCandidate: protocol.CompletionItemKindStruct,
	completion.CommandCandidate:     protocol.CompletionItemKindFunction,
	completion.MathCandidate:        protocol.CompletionItemKindOperator,
	completion.SnippetCandidate:     protocol.CompletionItemKindSnippet,
	completion.PackageCandidate:     protocol.CompletionItemKindModule,
}

func textEdit(text string, c edit.Change) protocol.TextEdit {
	return protocol.TextEdit{
		Range:   manager.RangeOf(text, edit.Range{From: c.From, To: c.To}),
		NewText: c.Insert,
	}
}

// completionItem turns the transaction a candidate applies over r into a
// main edit covering r plus additional edits. With snippet support the main
// edit carries tabstops and the final cursor.
func completionItem(doc edit.Document, r edit.Range, c completion.Candidate, snippets bool) protocol.CompletionItem {
	text := doc.Text()
	tx := c.Apply(doc, r)

	kind := completionKinds[c.Kind]
	item := protocol.CompletionItem{
		Label: c.Label,
		Kind:  &kind,
	}
	if c.Detail != "" {
		detail := c.Detail
		item.Detail = &detail
	}
	if c.Info != "" {
		item.Documentation = protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: c.Info}
	}

	main := -1
	for i, ch := range tx.Changes {
		if ch.From <= r.From && r.From <= ch.To {
			main = i
			break
		}
	}
	if main < 0 {
		// Nothing replaces the matched range; insert the label.
		item.TextEdit = textEdit(text, edit.Change{From: r.From, To: r.To, Insert: c.Label})
		return item
	}

	for i, ch := range tx.Changes {
		if i != main {
			item.AdditionalTextEdits = append(item.AdditionalTextEdits, textEdit(text, ch))
		}
	}

	ch := tx.Changes[main]
	start := tx.EndOf(main) - len(ch.Insert)
	cursor := -1
	if tx.Selection != nil {
		cursor = tx.Selection.Head
	}
	if snippets && (len(tx.Tabstops) > 0 || (cursor >= start && cursor < start+len(ch.Insert))) {
		format := protocol.InsertTextFormatSnippet
		item.InsertTextFormat = &format
		ch.Insert = snippetText(ch.Insert, start, tx.Tabstops, cursor)
	}
	item.TextEdit = textEdit(text, ch)
	return item
}

// snippetText escapes insert for the LSP snippet syntax and places numbered
// tabstops and the final cursor ${0}. Offsets are in result coordinates;
// start is where insert begins.
func snippetText(insert string, start int, tabstops []int, cursor int) string {
	markers := make(map[int][]string)
	for i, ts := range tabstops {
		if off := ts - start; off >= 0 && off <= len(insert) {
			markers[off] = append(markers[off], "${"+strconv.Itoa(i+1)+"}")
		}
	}
	if off := cursor - start; off >= 0 && off <= len(insert) && len(markers[off]) == 0 {
		markers[off] = append(markers[off], "${0}")
	}

	var b strings.Builder
	for i := 0; i <= len(insert); i++ {
		for _, m := range markers[i] {
			b.WriteString(m)
		}
		if i == len(insert) {
			break
		}
		switch c := insert[i]; c {
		case '\\', '$', '}':
			b.WriteByte('\\')
			b.WriteByte(c)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
