package server

import (
	"regexp"
	"strings"

	"texsense/internal/completion"
	"texsense/internal/edit"
	"texsense/internal/manager"
	"texsense/internal/query"
	"texsense/internal/syntax"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

var openDelimiterRe = regexp.MustCompile(`^\\begin\{([^}]+)\}`)

func (s *Server) textDocumentCompletion(
	context *glsp.Context,
	params *protocol.CompletionParams,
) (result any, err error) {
	defer recovered("completion")

	s.mu.RLock()
	enabled, classifier, snippets := s.config.EnableAutocomplete, s.classifier, s.snippets
	s.mu.RUnlock()
	if !enabled {
		return nil, nil
	}

	doc, tree, err := s.documents().Snapshot(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	text := doc.Text()
	pos := manager.OffsetOf(text, params.Position)
	explicit := params.Context == nil || params.Context.TriggerKind == protocol.CompletionTriggerKindInvoked

	ctx := classifier.Classify(doc.WithSelection(edit.Cursor(pos)), pos, explicit, tree)
	if ctx.Kind == completion.Default {
		return nil, nil
	}

	items := make([]protocol.CompletionItem, 0, len(ctx.Candidates))
	for _, c := range ctx.Candidates {
		items = append(items, completionItem(doc, ctx.Range, c, snippets))
	}
	return protocol.CompletionList{IsIncomplete: false, Items: items}, nil
}

func (s *Server) textDocumentHover(
	context *glsp.Context,
	params *protocol.HoverParams,
) (result *protocol.Hover, err error) {
	defer recovered("hover")

	s.mu.RLock()
	enabled, resolver := s.config.EnableTooltips, s.hover
	s.mu.RUnlock()
	if !enabled {
		return nil, nil
	}

	doc, tree, err := s.documents().Snapshot(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	text := doc.Text()
	if tree.StaleFor(text) {
		return nil, nil
	}

	info := resolver.Resolve(tree, manager.OffsetOf(text, params.Position))
	if info == nil {
		return nil, nil
	}
	r := manager.RangeOf(text, info.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.MarkupKindMarkdown, Value: info.Markdown()},
		Range:    &r,
	}, nil
}

// textDocumentOnTypeFormatting hands out the follow-up edit computed while
// the triggering change was applied.
func (s *Server) textDocumentOnTypeFormatting(
	context *glsp.Context,
	params *protocol.DocumentOnTypeFormattingParams,
) (result []protocol.TextEdit, err error) {
	defer recovered("onTypeFormatting")

	uri := params.TextDocument.URI
	dm := s.documents()
	pending, ok := dm.TakePending(uri)
	if !ok {
		return nil, nil
	}
	doc, err := dm.GetDocument(uri)
	if err != nil {
		return nil, err
	}
	return []protocol.TextEdit{textEdit(doc.Text(), pending.Change)}, nil
}

func (s *Server) textDocumentFoldingRange(
	context *glsp.Context,
	params *protocol.FoldingRangeParams,
) (result []protocol.FoldingRange, err error) {
	defer recovered("foldingRange")

	doc, tree, err := s.documents().Snapshot(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	text := doc.Text()
	if tree.StaleFor(text) {
		return nil, nil
	}

	result = []protocol.FoldingRange{}
	for _, f := range query.FoldRanges(tree) {
		r := manager.RangeOf(text, f.Range)
		result = append(result, protocol.FoldingRange{
			StartLine:      r.Start.Line,
			StartCharacter: &r.Start.Character,
			EndLine:        r.End.Line,
			EndCharacter:   &r.End.Character,
		})
	}
	return result, nil
}

func (s *Server) textDocumentDocumentSymbol(
	context *glsp.Context,
	params *protocol.DocumentSymbolParams,
) (result any, err error) {
	defer recovered("documentSymbol")

	doc, tree, err := s.documents().Snapshot(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	text := doc.Text()
	if tree.StaleFor(text) {
		return nil, nil
	}
	return documentSymbols(text, query.Outline(tree)), nil
}

// textDocumentDocumentHighlight highlights a block delimiter and its
// partner.
func (s *Server) textDocumentDocumentHighlight(
	context *glsp.Context,
	params *protocol.DocumentHighlightParams,
) (result []protocol.DocumentHighlight, err error) {
	defer recovered("documentHighlight")

	doc, tree, err := s.documents().Snapshot(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	text := doc.Text()
	pos := manager.OffsetOf(text, params.Position)

	opening, closing, ok := delimiterPair(text, tree, pos)
	if !ok {
		return nil, nil
	}
	kind := protocol.DocumentHighlightKindText
	return []protocol.DocumentHighlight{
		{Range: manager.RangeOf(text, opening), Kind: &kind},
		{Range: manager.RangeOf(text, closing), Kind: &kind},
	}, nil
}

// delimiterPair finds the delimiter at pos and its partner, from the tree
// when it is fresh and from the text otherwise.
func delimiterPair(text string, tree *syntax.Tree, pos int) (opening, closing edit.Range, ok bool) {
	if !tree.StaleFor(text) {
		b, ok := query.DelimiterBlock(tree, pos)
		if !ok || !b.Balanced() {
			return edit.Range{}, edit.Range{}, false
		}
		return b.Open, *b.Close, true
	}

	outer, ok := query.MatchingPartnerText(text, pos)
	if !ok {
		return edit.Range{}, edit.Range{}, false
	}
	m := openDelimiterRe.FindStringSubmatch(text[outer.From:outer.To])
	if m == nil {
		return edit.Range{}, edit.Range{}, false
	}
	end := `\end{` + m[1] + `}`
	return edit.Range{From: outer.From, To: outer.From + len(m[0])},
		edit.Range{From: outer.To - len(end), To: outer.To}, true
}

func documentSymbols(text string, symbols []query.Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(symbols))
	for _, sym := range symbols {
		kind := protocol.SymbolKindStruct
		if sym.Tag.IsSectioning() {
			kind = protocol.SymbolKindNamespace
		}
		var detail *string
		if d := strings.TrimSuffix(sym.Tag.String(), "Environment"); d != "" {
			detail = &d
		}
		out = append(out, protocol.DocumentSymbol{
			Name:           sym.Name,
			Detail:         detail,
			Kind:           kind,
			Range:          manager.RangeOf(text, sym.Range),
			SelectionRange: manager.RangeOf(text, sym.Selection),
			Children:       documentSymbols(text, sym.Children),
		})
	}
	return out
}
