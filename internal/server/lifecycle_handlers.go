package server

import (
	"context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// onTypeTriggers are the characters after which a pending auto-close edit
// is handed out.
var onTypeTriggers = []string{"\n", "}", "{", "[", "("}

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := s.base.Overlay(params.InitializationOptions)
	if err != nil {
		return nil, fmt.Errorf("invalid initialization options: %w", err)
	}
	if err := s.configure(contextOf(context), cfg); err != nil {
		return nil, err
	}
	log.Infof("config: %+v", cfg)

	snippets := false
	if c := params.Capabilities.TextDocument; c != nil && c.Completion != nil &&
		c.Completion.CompletionItem != nil && c.Completion.CompletionItem.SnippetSupport != nil {
		snippets = *c.Completion.CompletionItem.SnippetSupport
	}
	s.mu.Lock()
	s.snippets = snippets
	s.mu.Unlock()

	return protocol.InitializeResult{
		Capabilities: s.capabilities(),
		ServerInfo:   &protocol.InitializeResultServerInfo{Name: Name},
	}, nil
}

// capabilities advertises only the features enabled in the configuration.
func (s *Server) capabilities() protocol.ServerCapabilities {
	s.mu.RLock()
	cfg := s.config
	s.mu.RUnlock()

	syncKind := protocol.TextDocumentSyncKindIncremental

	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.True},
	}

	capabilities.CompletionProvider = nil
	if cfg.EnableAutocomplete {
		// Package lists complete on explicit invocation only, so "," is
		// not a trigger.
		capabilities.CompletionProvider = &protocol.CompletionOptions{
			TriggerCharacters: []string{`\`, "{"},
		}
	}

	capabilities.HoverProvider = nil
	if cfg.EnableTooltips {
		capabilities.HoverProvider = true
	}

	capabilities.DocumentOnTypeFormattingProvider = nil
	if cfg.AutoCloseTags || cfg.AutoCloseBrackets {
		capabilities.DocumentOnTypeFormattingProvider = &protocol.DocumentOnTypeFormattingOptions{
			FirstTriggerCharacter: onTypeTriggers[0],
			MoreTriggerCharacter:  onTypeTriggers[1:],
		}
	}
	return capabilities
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	log.Info("client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	s.scheduler.StopScheduler()
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// contextOf gives handlers a context for cancelable work. glsp does not
// carry the request context, so requests are never canceled.
func contextOf(*glsp.Context) context.Context {
	return context.Background()
}
