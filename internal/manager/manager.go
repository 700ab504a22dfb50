package manager

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"texsense/internal/autoclose"
	"texsense/internal/edit"
	"texsense/internal/parser"
	"texsense/internal/syntax"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// ErrUnknownDocument is returned for a URI that was never opened or was
// already released.
var ErrUnknownDocument = errors.New("document not loaded")

// Pending is a follow-up edit proposed by the auto-close pipeline for the
// last change of a document. Change is in the coordinates of the current
// text; Cursor is where the selection lands once it is applied.
type Pending struct {
	Change edit.Change
	Cursor int
}

type document struct {
	doc     edit.Document
	parser  *parser.Parser
	pending *Pending
}

// DocumentManager encapsulates parser and document state for each open URI.
type DocumentManager struct {
	mu       sync.Mutex
	docs     map[string]*document
	pipeline autoclose.Pipeline
}

// NewDocumentManager creates an initialized DocumentManager. pipeline may be
// empty, in which case no follow-up edits are ever proposed.
func NewDocumentManager(pipeline autoclose.Pipeline) *DocumentManager {
	return &DocumentManager{
		docs:     make(map[string]*document),
		pipeline: pipeline,
	}
}

// Open registers text as the content of uri, replacing any previous state,
// and parses it.
func (dm *DocumentManager) Open(ctx context.Context, uri, text string) error {
	p, err := parser.NewParser("")
	if err != nil {
		return fmt.Errorf("failed to create parser for %s: %w", uri, err)
	}
	if err := p.Parse(ctx, text); err != nil {
		return fmt.Errorf("failed to parse %s: %w", uri, err)
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.docs[uri] = &document{doc: edit.NewDocument(text), parser: p}
	return nil
}

// EnsureParser returns the parser for a URI.
func (dm *DocumentManager) EnsureParser(uri string) (*parser.Parser, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	d, ok := dm.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	return d.parser, nil
}

// GetDocument returns the current document for a URI.
func (dm *DocumentManager) GetDocument(uri string) (edit.Document, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	d, ok := dm.docs[uri]
	if !ok {
		return edit.Document{}, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	return d.doc, nil
}

// Snapshot returns the current document with its latest tree. The tree may
// be stale when the last parse was canceled.
func (dm *DocumentManager) Snapshot(uri string) (edit.Document, *syntax.Tree, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	d, ok := dm.docs[uri]
	if !ok {
		return edit.Document{}, nil, fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	return d.doc, d.parser.Tree(), nil
}

// UpdateDocument replaces the whole text of a URI.
func (dm *DocumentManager) UpdateDocument(ctx context.Context, uri, text string) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	d, ok := dm.docs[uri]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	next, err := d.doc.Apply(edit.NewTransaction(edit.OriginNone,
		edit.Change{From: 0, To: d.doc.Len(), Insert: text}))
	if err != nil {
		return err
	}
	d.doc = next
	d.pending = nil
	return d.reparse(ctx)
}

// ApplyIncrementalEdit applies one ranged LSP change as typed input, offers
// it to the auto-close pipeline and reparses. A proposal is kept as the
// pending follow-up edit of the document.
func (dm *DocumentManager) ApplyIncrementalEdit(
	ctx context.Context,
	uri string,
	change protocol.TextDocumentContentChangeEvent,
) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	d, ok := dm.docs[uri]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownDocument, uri)
	}
	d.pending = nil

	text := d.doc.Text()
	var r edit.Range
	if change.Range != nil {
		r = ByteRange(text, *change.Range)
	} else {
		r = edit.Range{From: 0, To: len(text)}
	}

	prior := d.doc.WithSelection(edit.Selection{Anchor: r.From, Head: r.To})
	tx := edit.NewTransaction(edit.OriginInput, edit.Change{From: r.From, To: r.To, Insert: change.Text}).
		WithCursor(r.From + len(change.Text))
	next, err := prior.Apply(tx)
	if err != nil {
		return fmt.Errorf("failed to apply change to %s: %w", uri, err)
	}

	if proposed := dm.pipeline.Propose(prior, tx); proposed.Origin == edit.OriginAutoClose {
		final, err := prior.Apply(proposed)
		if err != nil {
			return fmt.Errorf("invalid auto-close proposal for %s: %w", uri, err)
		}
		if extra, ok := edit.Diff(next.Text(), final.Text()); ok {
			d.pending = &Pending{Change: extra, Cursor: final.Selection().Head}
		}
	}

	d.doc = next
	return d.reparse(ctx)
}

// ApplyChanges applies the content changes of one didChange notification
// in order.
func (dm *DocumentManager) ApplyChanges(ctx context.Context, uri string, changes []any) error {
	for _, raw := range changes {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if err := dm.ApplyIncrementalEdit(ctx, uri, change); err != nil {
				return err
			}
		case protocol.TextDocumentContentChangeEventWhole:
			if err := dm.UpdateDocument(ctx, uri, change.Text); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	return nil
}

// TakePending returns and clears the follow-up edit of a URI.
func (dm *DocumentManager) TakePending(uri string) (Pending, bool) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	d, ok := dm.docs[uri]
	if !ok || d.pending == nil {
		return Pending{}, false
	}
	p := *d.pending
	d.pending = nil
	return p, true
}

// URIs returns the URIs of all open documents.
func (dm *DocumentManager) URIs() []string {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	uris := make([]string, 0, len(dm.docs))
	for uri := range dm.docs {
		uris = append(uris, uri)
	}
	return uris
}

// Release frees parser and document for a URI.
func (dm *DocumentManager) Release(uri string) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	delete(dm.docs, uri)
}

// CloseAll drops every document.
func (dm *DocumentManager) CloseAll() {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.docs = make(map[string]*document)
}

// reparse keeps the previous tree when parsing is canceled; readers then
// see a stale tree and fall back to text heuristics.
func (d *document) reparse(ctx context.Context) error {
	if err := d.parser.Parse(ctx, d.doc.Text()); err != nil && !errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
