package server

import (
	"errors"
	"fmt"

	"texsense/internal/lint"
	"texsense/internal/manager"
	"texsense/internal/scheduler"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	if err := s.documents().Open(contextOf(context), uri, params.TextDocument.Text); err != nil {
		return err
	}
	s.publishDiagnostics(context.Notify, uri)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	if err := s.documents().ApplyChanges(contextOf(context), uri, params.ContentChanges); err != nil {
		return fmt.Errorf("unexpected error during edit: %w", err)
	}
	s.scheduleDiagnostics(context.Notify, uri)
	return nil
}

func (s *Server) textDocumentDidSave(
	context *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	if params.Text != nil {
		if err := s.documents().UpdateDocument(contextOf(context), uri, *params.Text); err != nil {
			return err
		}
	}
	s.scheduler.Cancel(uri)
	s.publishDiagnostics(context.Notify, uri)
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	uri := params.TextDocument.URI
	s.scheduler.Cancel(uri)
	s.documents().Release(uri)
	// Clear what the client still shows for the closed document.
	context.Notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *Server) documents() *manager.DocumentManager {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manager
}

// scheduleDiagnostics publishes after the configured delay, collapsing
// bursts of changes to one publication per document.
func (s *Server) scheduleDiagnostics(notify glsp.NotifyFunc, uri string) {
	delay := s.lintDelay()
	if delay <= 0 {
		s.publishDiagnostics(notify, uri)
		return
	}
	s.scheduler.Debounce(delay, scheduler.Task{
		Name: uri,
		Execute: func() error {
			s.publishDiagnostics(notify, uri)
			return nil
		},
	})
}

// publishDiagnostics lints the current text of uri. An empty list is sent
// too, since it clears earlier diagnostics.
func (s *Server) publishDiagnostics(notify glsp.NotifyFunc, uri string) {
	defer recovered("publishDiagnostics")

	s.mu.RLock()
	enabled, dm, diagnostics := s.config.EnableLinting, s.manager, s.diagnostics
	s.mu.RUnlock()
	if !enabled {
		return
	}

	doc, tree, err := dm.Snapshot(uri)
	if err != nil {
		if !errors.Is(err, manager.ErrUnknownDocument) {
			log.Errorf("diagnostics for %s: %s", uri, err)
		}
		return
	}
	text := doc.Text()

	out := []protocol.Diagnostic{}
	for _, d := range diagnostics.Lint(text, tree) {
		out = append(out, protocolDiagnostic(text, d))
	}
	notify("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: out,
	})
}

func protocolDiagnostic(text string, d lint.Diagnostic) protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	if d.Severity == lint.SeverityWarning {
		severity = protocol.DiagnosticSeverityWarning
	}
	source := d.Source
	return protocol.Diagnostic{
		Range:    manager.RangeOf(text, d.Range),
		Severity: &severity,
		Source:   &source,
		Message:  d.Message,
	}
}
