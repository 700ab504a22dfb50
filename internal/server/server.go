package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"texsense/internal/autoclose"
	"texsense/internal/cache"
	"texsense/internal/catalog"
	"texsense/internal/catalog/sqlite"
	"texsense/internal/completion"
	"texsense/internal/config"
	"texsense/internal/hover"
	"texsense/internal/lint"
	"texsense/internal/manager"
	"texsense/internal/scheduler"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"
)

// Name is reported to clients and used for the state directory.
const Name = "texsense"

var log = commonlog.GetLogger("texsense.server")

type Server struct {
	handler *protocol.Handler
	server  *glspserver.Server

	base      config.Config
	scheduler *scheduler.Scheduler

	mu          sync.RWMutex
	config      config.Config
	catalog     *catalog.Catalog
	manager     *manager.DocumentManager
	classifier  *completion.Classifier
	hover       *hover.Resolver
	diagnostics *cache.Diagnostics
	snippets    bool
}

type Option func(*Server)

// WithConfig sets the configuration the client's initialization options
// are overlaid on.
func WithConfig(cfg config.Config) Option {
	return func(s *Server) { s.base = cfg }
}

func New(opts ...Option) (*Server, error) {
	s := &Server{base: config.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.base.Validate(); err != nil {
		return nil, err
	}

	s.handler = &protocol.Handler{
		Initialize:                    s.initialize,
		Initialized:                   s.initialized,
		Shutdown:                      s.shutdown,
		SetTrace:                      s.setTrace,
		TextDocumentDidOpen:           s.textDocumentDidOpen,
		TextDocumentDidChange:         s.textDocumentDidChange,
		TextDocumentDidSave:           s.textDocumentDidSave,
		TextDocumentDidClose:          s.textDocumentDidClose,
		TextDocumentCompletion:        s.textDocumentCompletion,
		TextDocumentHover:             s.textDocumentHover,
		TextDocumentOnTypeFormatting:  s.textDocumentOnTypeFormatting,
		TextDocumentFoldingRange:      s.textDocumentFoldingRange,
		TextDocumentDocumentSymbol:    s.textDocumentDocumentSymbol,
		TextDocumentDocumentHighlight: s.textDocumentDocumentHighlight,
	}

	if err := s.configure(context.Background(), s.base); err != nil {
		return nil, err
	}
	s.scheduler = scheduler.NewScheduler(64)
	s.scheduler.RunScheduler()
	s.server = glspserver.NewServer(s.handler, Name, false)
	return s, nil
}

func (s *Server) RunStdio() error {
	return s.server.RunStdio()
}

func (s *Server) RunTCP(address string) error {
	return s.server.RunTCP(address)
}

func (s *Server) RunWebSocket(address string) error {
	return s.server.RunWebSocket(address)
}

// Close stops background work. Queued diagnostics are still published.
func (s *Server) Close() {
	s.scheduler.StopScheduler()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manager.CloseAll()
	s.diagnostics.Close()
}

// configure rebuilds every component from cfg. Open documents are dropped,
// so it only runs before the first didOpen.
func (s *Server) configure(ctx context.Context, cfg config.Config) error {
	cat := loadCatalog(ctx, cfg.CatalogPath)

	var pipeline autoclose.Pipeline
	var closer *autoclose.Engine
	if cfg.AutoCloseTags {
		pipeline = append(pipeline, autoclose.New(cfg.IndentUnit))
		// Completion items are applied speculatively; their closings must
		// not show up in the typing engine's state.
		closer = autoclose.New(cfg.IndentUnit)
	}
	if cfg.AutoCloseBrackets {
		pipeline = append(pipeline, autoclose.BracketCloser{})
	}

	diagnostics, err := cache.New(lint.New(cfg.Lint), cache.DefaultMaxEntries)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.diagnostics != nil {
		s.diagnostics.Close()
	}
	s.config = cfg
	s.catalog = cat
	s.manager = manager.NewDocumentManager(pipeline)
	s.classifier = completion.New(cat, closer)
	s.hover = hover.New(cat)
	s.diagnostics = diagnostics
	return nil
}

// loadCatalog extends the built-in catalog with the database at path, or
// with the one in the state directory when path is empty. Any failure
// falls back to the built-in catalog.
func loadCatalog(ctx context.Context, path string) *catalog.Catalog {
	base := catalog.Default()
	if path == "" {
		dir, err := getXDGStateHome(Name)
		if err != nil {
			log.Debugf("no state directory: %s", err)
			return base
		}
		path = filepath.Join(dir, "catalog.db")
		if _, err := os.Stat(path); err != nil {
			return base
		}
	} else if _, err := os.Stat(path); err != nil {
		log.Warningf("catalog %s not readable, using the built-in catalog: %s", path, err)
		return base
	}

	cat, err := sqlite.Load(ctx, path, base)
	if err != nil {
		log.Warningf("catalog %s unusable, using the built-in catalog: %s", path, err)
		return base
	}
	log.Infof("loaded catalog %s", path)
	return cat
}

func (s *Server) lintDelay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return time.Duration(s.config.LintDelayMS) * time.Millisecond
}

// getXDGStateHome returns the state directory of appName without creating
// it.
func getXDGStateHome(appName string) (string, error) {
	xdgStateHome := os.Getenv("XDG_STATE_HOME")
	if xdgStateHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		xdgStateHome = filepath.Join(homeDir, ".local", "state")
	}
	return filepath.Join(xdgStateHome, appName), nil
}

// StateDir is the directory holding the default catalog database.
func StateDir() (string, error) {
	return getXDGStateHome(Name)
}

// recovered logs a panic inside a feature handler. Deferred in handlers with
// named results, it leaves them zero so the request answers empty.
func recovered(method string) {
	if r := recover(); r != nil {
		log.Errorf("%s panicked: %v", method, r)
	}
}
