package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/jsonrpc2"

	"didls/internal/version"
)

const serverName = "didls"

// Server hosts the language protocol endpoint for Candid documents. State
// is kept per document URI behind the individual stores, so no handler
// touches shared mutable state directly.
type Server struct {
	conn       *jsonrpc2.Conn
	documents  *documentStore
	analyses   *analysisStore
	tasks      *taskTracker
	positions  *positionCache
	config     *configStore
	quiet      bool
	shutdown   atomic.Bool
	analysisWG sync.WaitGroup
}

func NewServer(quiet bool) *Server {
	return &Server{
		documents: newDocumentStore(),
		analyses:  newAnalysisStore(),
		tasks:     newTaskTracker(),
		positions: newPositionCache(positionCacheCapacity),
		config:    newConfigStore(),
		quiet:     quiet,
	}
}

// logf writes one log line to stderr. Stdout belongs to the protocol.
func (s *Server) logf(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(os.Stderr, "lsp: "+format+"\n", args...)
}

// asyncQueries splits dispatch between the connection's read loop and
// per-request goroutines. Lifecycle and sync messages stay on the read
// loop, so edits to one document apply in arrival order; query requests
// run concurrently, so a newer one can supersede an in-flight one through
// the task generations.
type asyncQueries struct {
	inner jsonrpc2.Handler
}

func (h asyncQueries) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	switch req.Method {
	case "textDocument/completion", "textDocument/hover",
		"textDocument/definition", "textDocument/semanticTokens/full":
		go h.inner.Handle(ctx, conn, req)
	default:
		h.inner.Handle(ctx, conn, req)
	}
}

// Run serves the connection until the client disconnects or the context is
// cancelled.
func (s *Server) Run(ctx context.Context, rwc io.ReadWriteCloser) error {
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	handler := asyncQueries{inner: jsonrpc2.HandlerWithError(s.handle)}
	s.conn = jsonrpc2.NewConn(ctx, stream, handler)
	s.logf("listening")
	select {
	case <-ctx.Done():
		s.conn.Close()
		<-s.conn.DisconnectNotify()
		return ctx.Err()
	case <-s.conn.DisconnectNotify():
		s.logf("connection closed")
		return nil
	}
}

// ShutdownRequested reports whether the client sent a shutdown request
// before the connection ended.
func (s *Server) ShutdownRequested() bool {
	return s.shutdown.Load()
}

func (s *Server) handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
	switch req.Method {
	case "initialize":
		var params initializeParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, invalidParams(req.Method, err)
		}
		return s.handleInitialize(params), nil

	case "initialized":
		s.logf("initialized")
		return nil, nil

	case "shutdown":
		s.shutdown.Store(true)
		return nil, nil

	case "exit":
		if s.conn != nil {
			s.conn.Close()
		}
		return nil, nil

	case "textDocument/didOpen":
		var params didOpenTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			s.logf("didOpen: %v", err)
			return nil, nil
		}
		item := params.TextDocument
		s.onChange(ctx, item.URI, item.Text, item.Version)
		return nil, nil

	case "textDocument/didChange":
		var params didChangeTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			s.logf("didChange: %v", err)
			return nil, nil
		}
		if len(params.ContentChanges) == 0 {
			return nil, nil
		}
		uri := params.TextDocument.URI
		newVersion := params.TextDocument.Version
		if doc, ok := s.documents.get(uri); ok && newVersion <= doc.Version {
			s.logf("didChange: ignoring stale version %d for %s", newVersion, uri)
			return nil, nil
		}
		// Full sync: the last change event carries the whole document.
		text := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.onChange(ctx, uri, text, newVersion)
		return nil, nil

	case "textDocument/didClose":
		var params didCloseTextDocumentParams
		if err := unmarshalParams(req, &params); err != nil {
			s.logf("didClose: %v", err)
			return nil, nil
		}
		s.handleDidClose(ctx, params.TextDocument.URI)
		return nil, nil

	case "textDocument/completion":
		var params completionParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, invalidParams(req.Method, err)
		}
		return s.completionItemsFor(params), nil

	case "textDocument/hover":
		var params hoverParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, invalidParams(req.Method, err)
		}
		return s.hoverFor(params), nil

	case "textDocument/definition":
		var params definitionParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, invalidParams(req.Method, err)
		}
		return s.definitionFor(params), nil

	case "textDocument/semanticTokens/full":
		var params semanticTokensParams
		if err := unmarshalParams(req, &params); err != nil {
			return nil, invalidParams(req.Method, err)
		}
		return s.semanticTokensFor(params), nil

	case "workspace/didChangeConfiguration":
		var params didChangeConfigurationParams
		if err := unmarshalParams(req, &params); err != nil {
			s.logf("didChangeConfiguration: %v", err)
			return nil, nil
		}
		s.config.update(func(cfg *ServerConfig) {
			cfg.ApplySettings(params.Settings)
		})
		return nil, nil

	default:
		if req.Notif {
			return nil, nil
		}
		return nil, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: fmt.Sprintf("method not supported: %s", req.Method),
		}
	}
}

func (s *Server) handleInitialize(params initializeParams) initializeResult {
	rootPath := params.RootPath
	if p, ok := uriToPath(params.RootURI); ok {
		rootPath = p
	}
	if rootPath == "" && len(params.WorkspaceFolders) > 0 {
		if p, ok := uriToPath(params.WorkspaceFolders[0].URI); ok {
			rootPath = p
		}
	}
	s.config.update(func(cfg *ServerConfig) {
		if rootPath != "" {
			if err := cfg.loadWorkspaceConfig(rootPath); err != nil {
				s.logf("workspace config: %v", err)
			}
		}
		cfg.ApplySettings(params.InitializationOptions)
	})

	return initializeResult{
		Capabilities: serverCapabilities{
			TextDocumentSync:   textDocumentSyncFull,
			CompletionProvider: &completionOptions{},
			HoverProvider:      true,
			DefinitionProvider: true,
			SemanticTokensProvider: &semanticTokensOptions{
				Legend: semanticTokensLegend{
					TokenTypes:     semanticTokenTypes,
					TokenModifiers: []string{},
				},
				Full: true,
			},
		},
		ServerInfo: &serverInfo{Name: serverName, Version: version.Number},
	}
}

// onChange replaces the document snapshot for one revision and schedules
// its analysis in the background. The position cache maps positions against
// document text, so any text change invalidates it wholesale. The analysis
// generation is bumped here, on the read loop, so bumps follow edit arrival
// order and the previous revision's in-flight analysis sees itself
// superseded.
func (s *Server) onChange(ctx context.Context, uri, text string, version int32) {
	snapshot := newDocumentSnapshot(uri, text, version)
	s.documents.set(snapshot)
	s.positions.clear()
	token := s.tasks.Start(uri, taskAnalysis)
	s.analysisWG.Add(1)
	go func() {
		defer s.analysisWG.Done()
		s.runAnalysis(ctx, snapshot, token)
	}()
}

func (s *Server) handleDidClose(ctx context.Context, uri string) {
	// The bump cancels any in-flight analysis before the stores empty, so
	// a slow analysis cannot repopulate them for a closed document.
	s.tasks.Start(uri, taskAnalysis)
	s.documents.delete(uri)
	s.analyses.delete(uri)
	s.tasks.Drop(uri)
	s.positions.clear()
	s.publishDiagnostics(ctx, uri, nil, nil)
}

func (s *Server) publishDiagnostics(ctx context.Context, uri string, diagnostics []lspDiagnostic, version *int32) {
	if s.conn == nil {
		return
	}
	if diagnostics == nil {
		diagnostics = []lspDiagnostic{}
	}
	params := publishDiagnosticsParams{URI: uri, Version: version, Diagnostics: diagnostics}
	if err := s.conn.Notify(ctx, "textDocument/publishDiagnostics", params); err != nil {
		s.logf("publish diagnostics: %v", err)
	}
}

func unmarshalParams(req *jsonrpc2.Request, target any) error {
	if req.Params == nil {
		return errors.New("missing params")
	}
	return json.Unmarshal(*req.Params, target)
}

func invalidParams(method string, err error) error {
	return &jsonrpc2.Error{
		Code:    jsonrpc2.CodeInvalidParams,
		Message: fmt.Sprintf("invalid %s params: %v", method, err),
	}
}
