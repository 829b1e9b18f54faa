// Package lsp implements the editor-facing language server described by
// spec.md §6: diagnostics, hover, completion, code actions, document links
// and on-type formatting over a standard jsonrpc2 transport, plus a set of
// custom asset hot-reload notifications. The transport is
// github.com/sourcegraph/jsonrpc2 exactly as the spec's dependency table
// names it; message shapes are the trimmed protocol.go types grounded on
// the dshills-keystorm retrieval.
package lsp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/sourcegraph/jsonrpc2"

	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/validator"
	"github.com/eligian-lang/eligianc/internal/watch"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// Server is the jsonrpc2.Handler for the Eligian language server. It owns
// one Workspace for the lifetime of the connection and a Watcher that keeps
// the asset registries warm, mirroring the rest of this compiler's "one
// long-lived Workspace, many short validation passes" shape.
type Server struct {
	ws      *workspace.Workspace
	watcher *watch.Watcher
	log     *slog.Logger
	conn    *jsonrpc2.Conn
}

// NewServer wires a Workspace over provider and a Watcher whose OnChange
// callback republishes diagnostics and fires the eligian/*Updated
// notifications, the same delegation shape internal/watch documents: the
// server decides what a file change means, the watcher only detects it.
func NewServer(provider fs.Provider, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	ws := workspace.NewWorkspace(provider)
	w, err := watch.New(ws)
	if err != nil {
		log.Warn("file watcher unavailable, hot reload disabled", "error", err)
	}
	s := &Server{ws: ws, watcher: w, log: log}
	if w != nil {
		w.OnChange = s.handleAssetChange
	}
	return s
}

// Serve runs the server over rwc until the connection closes or ctx is
// canceled. stream uses jsonrpc2's VSCodeObjectCodec, the framing every LSP
// client in the ecosystem speaks (Content-Length headers, not newline
// delimited).
func (s *Server) Serve(ctx context.Context, rwc io.ReadWriteCloser) error {
	if s.watcher != nil {
		s.watcher.Start(ctx)
		defer s.watcher.Stop()
	}
	stream := jsonrpc2.NewBufferedStream(rwc, jsonrpc2.VSCodeObjectCodec{})
	conn := jsonrpc2.NewConn(ctx, stream, s)
	s.conn = conn
	<-conn.DisconnectNotify()
	return nil
}

// Handle implements jsonrpc2.Handler, dispatching each LSP method to its
// provider function and replying with either a result or a JSON-RPC error.
func (s *Server) Handle(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	s.conn = conn
	switch req.Method {
	case "initialize":
		s.handleInitialize(ctx, conn, req)
	case "initialized":
		// no-op: nothing to defer until the client confirms initialization.
	case "shutdown":
		conn.Reply(ctx, req.ID, nil)
	case "exit":
		conn.Close()
	case "textDocument/didOpen":
		s.handleDidOpen(ctx, conn, req)
	case "textDocument/didChange":
		s.handleDidChange(ctx, conn, req)
	case "textDocument/didClose":
		s.handleDidClose(ctx, conn, req)
	case "textDocument/hover":
		s.handleHover(ctx, conn, req)
	case "textDocument/completion":
		s.handleCompletion(ctx, conn, req)
	case "textDocument/codeAction":
		s.handleCodeAction(ctx, conn, req)
	case "textDocument/documentLink":
		s.handleDocumentLink(ctx, conn, req)
	case "textDocument/onTypeFormatting":
		s.handleOnTypeFormatting(ctx, conn, req)
	default:
		if req.Notif {
			return
		}
		conn.ReplyWithError(ctx, req.ID, &jsonrpc2.Error{
			Code:    jsonrpc2.CodeMethodNotFound,
			Message: "method not found: " + req.Method,
		})
	}
}

func (s *Server) handleInitialize(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params InitializeParams
	if req.Params != nil {
		_ = json.Unmarshal(*req.Params, &params)
	}
	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:     TextDocumentSyncKindFull,
			HoverProvider:        true,
			CompletionProvider:   &CompletionOptions{TriggerCharacters: []string{".", "#", "@", "\""}},
			CodeActionProvider:   true,
			DocumentLinkProvider: &DocumentLinkOptions{},
			DocumentOnTypeFormattingProvider: &DocumentOnTypeFormattingOptions{
				FirstTriggerCharacter: OnTypeFormattingTriggerCharacters[0],
			},
		},
		ServerInfo: &InitializeServerInfo{Name: "eligianc", Version: "0.1.0"},
	}
	conn.Reply(ctx, req.ID, result)
}

func (s *Server) handleDidOpen(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return
	}
	uri := string(params.TextDocument.URI)
	s.ws.Update(uri, params.TextDocument.Text)
	s.publishDiagnostics(ctx, uri)
	s.publishAssetImports(ctx, uri)
	s.watchImportedAssets(uri)
}

func (s *Server) handleDidChange(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}
	uri := string(params.TextDocument.URI)
	s.ws.Update(uri, params.ContentChanges[len(params.ContentChanges)-1].Text)
	s.publishDiagnostics(ctx, uri)
	s.publishAssetImports(ctx, uri)
	s.watchImportedAssets(uri)
}

func (s *Server) handleDidClose(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		return
	}
	s.ws.Invalidate(string(params.TextDocument.URI))
}

func (s *Server) handleHover(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params HoverParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		conn.ReplyWithError(ctx, req.ID, invalidParamsErr(err))
		return
	}
	doc, ok := s.ws.Get(string(params.TextDocument.URI))
	if !ok {
		conn.Reply(ctx, req.ID, nil)
		return
	}
	conn.Reply(ctx, req.ID, hover(doc, params.Position))
}

func (s *Server) handleCompletion(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params CompletionParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		conn.ReplyWithError(ctx, req.ID, invalidParamsErr(err))
		return
	}
	doc, ok := s.ws.Get(string(params.TextDocument.URI))
	if !ok {
		conn.Reply(ctx, req.ID, CompletionList{})
		return
	}
	conn.Reply(ctx, req.ID, completion(s.ws, doc, params.Position))
}

func (s *Server) handleCodeAction(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params CodeActionParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		conn.ReplyWithError(ctx, req.ID, invalidParamsErr(err))
		return
	}
	doc, ok := s.ws.Get(string(params.TextDocument.URI))
	if !ok {
		conn.Reply(ctx, req.ID, []CodeAction{})
		return
	}
	conn.Reply(ctx, req.ID, codeActions(s.ws, doc, params))
}

func (s *Server) handleDocumentLink(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params DocumentLinkParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		conn.ReplyWithError(ctx, req.ID, invalidParamsErr(err))
		return
	}
	doc, ok := s.ws.Get(string(params.TextDocument.URI))
	if !ok {
		conn.Reply(ctx, req.ID, []DocumentLink{})
		return
	}
	conn.Reply(ctx, req.ID, documentLinks(s.ws, doc))
}

// onTypeFormattingParams mirrors textDocument/onTypeFormatting's wire shape,
// which protocol.go doesn't carry since it's the only request that needs
// the triggering character alongside a text-document position.
type onTypeFormattingParams struct {
	TextDocumentPositionParams
	Ch string `json:"ch"`
}

func (s *Server) handleOnTypeFormatting(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) {
	var params onTypeFormattingParams
	if err := json.Unmarshal(*req.Params, &params); err != nil {
		conn.ReplyWithError(ctx, req.ID, invalidParamsErr(err))
		return
	}
	doc, ok := s.ws.Get(string(params.TextDocument.URI))
	if !ok {
		conn.Reply(ctx, req.ID, []TextEdit{})
		return
	}
	edits := onTypeFormat(doc, params.Position, params.Ch)
	conn.Reply(ctx, req.ID, edits)
}

func invalidParamsErr(err error) *jsonrpc2.Error {
	return &jsonrpc2.Error{Code: jsonrpc2.CodeInvalidParams, Message: err.Error()}
}

// publishDiagnostics runs the same validator.BuildAll pass internal/build
// drives for a CLI build, then sends textDocument/publishDiagnostics for
// every document it touched. The LSP server never calls the transformer or
// emitter: it only needs parse+validate, the "pure query over the core"
// framing spec.md §2 gives this component.
func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	conn := s.conn
	if conn == nil {
		return
	}
	bags := validator.BuildAll(s.ws, uri)
	for docURI, bag := range bags {
		diags := make([]Diagnostic, 0, len(bag.All()))
		for _, d := range bag.All() {
			diags = append(diags, toLSPDiagnostic(d))
		}
		conn.Notify(ctx, "textDocument/publishDiagnostics", PublishDiagnosticsParams{
			URI:         DocumentURI(docURI),
			Diagnostics: diags,
		})
	}
}

// toLSPDiagnostic converts a validator/parser diagnostics.Diagnostic into
// its wire shape, carrying the Data payload through untouched so
// textDocument/codeAction can read it back on the next request.
func toLSPDiagnostic(d diagnostics.Diagnostic) Diagnostic {
	sev := DiagnosticSeverityWarning
	if d.Severity == diagnostics.SeverityError {
		sev = DiagnosticSeverityError
	} else if d.Severity == diagnostics.SeverityInfo {
		sev = DiagnosticSeverityInformation
	}
	line := d.Location.Line - 1
	if line < 0 {
		line = 0
	}
	return Diagnostic{
		Range: Range{
			Start: Position{Line: line, Character: d.Location.Column},
			End:   Position{Line: line, Character: d.Location.Column + maxZero(d.Location.Length)},
		},
		Severity: sev,
		Code:     string(d.Code),
		Source:   "eligianc",
		Message:  d.Message,
		Data:     d.Data,
	}
}

// publishAssetImports sends the server->client eligian/cssImportsDiscovered
// notification (and its html/locales siblings) for every asset kind uri
// imports, letting the client editor open those files in its own watchers.
func (s *Server) publishAssetImports(ctx context.Context, uri string) {
	conn := s.conn
	if conn == nil {
		return
	}
	reg := s.ws.Assets()
	if css := reg.ImportedCSSURIs(uri); len(css) > 0 {
		conn.Notify(ctx, "eligian/cssImportsDiscovered", AssetImportsDiscoveredParams{DocumentURI: DocumentURI(uri), AssetFileURIs: css})
	}
	if html := reg.ImportedHTMLURIs(uri); len(html) > 0 {
		conn.Notify(ctx, "eligian/htmlImportsDiscovered", AssetImportsDiscoveredParams{DocumentURI: DocumentURI(uri), AssetFileURIs: html})
	}
	if locales := reg.ImportedLocalesURIs(uri); len(locales) > 0 {
		conn.Notify(ctx, "eligian/localesImportsDiscovered", AssetImportsDiscoveredParams{DocumentURI: DocumentURI(uri), AssetFileURIs: locales})
	}
}

// watchImportedAssets registers every asset uri imports with the hot-reload
// watcher so a later on-disk edit to any of them triggers handleAssetChange.
func (s *Server) watchImportedAssets(uri string) {
	if s.watcher == nil {
		return
	}
	reg := s.ws.Assets()
	for _, a := range reg.ImportedCSSURIs(uri) {
		_ = s.watcher.WatchAsset(a, watch.KindCSS)
	}
	for _, a := range reg.ImportedHTMLURIs(uri) {
		_ = s.watcher.WatchAsset(a, watch.KindHTML)
	}
	for _, a := range reg.ImportedLocalesURIs(uri) {
		_ = s.watcher.WatchAsset(a, watch.KindLocales)
	}
}

// handleAssetChange is the Watcher.OnChange callback: it republishes
// diagnostics for every document importing the changed asset and fires the
// matching eligian/*Updated notification.
func (s *Server) handleAssetChange(ev watch.Event) {
	conn := s.conn
	if conn == nil {
		return
	}
	ctx := context.Background()
	for _, docURI := range ev.DocumentURIs {
		s.publishDiagnostics(ctx, docURI)
	}
	switch ev.Kind {
	case watch.KindCSS:
		conn.Notify(ctx, "eligian/cssUpdated", AssetUpdatedParams{FileURI: DocumentURI(ev.AssetURI), DocumentURIs: ev.DocumentURIs})
	case watch.KindHTML:
		conn.Notify(ctx, "eligian/htmlUpdated", AssetUpdatedParams{FileURI: DocumentURI(ev.AssetURI), DocumentURIs: ev.DocumentURIs})
	case watch.KindLocales:
		conn.Notify(ctx, "eligian/localesUpdated", AssetUpdatedParams{FileURI: DocumentURI(ev.AssetURI), DocumentURIs: ev.DocumentURIs})
	}
}
