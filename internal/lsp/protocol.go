// Package lsp implements the subset of the Language Server Protocol
// spec.md §6 names: diagnostics, hover, completion, code actions, document
// links and on-type formatting, plus a handful of custom notifications for
// asset hot-reload. Wire types here are grounded on the dshills-keystorm
// protocol.go retrieved for this spec -- trimmed to exactly what this
// server uses, the way the teacher repo (evanw-esbuild) only ever carries
// the subset of each standard its own callers reach for rather than a
// complete spec implementation up front.
package lsp

import (
	"go.lsp.dev/uri"
)

// DocumentURI is the wire representation of a document location. Using
// go.lsp.dev/uri's URI type instead of a bare string gets file:// handling
// and path normalization for free instead of hand-rolling it, the same
// dependency the retrieved konveyor-analyzer-lsp client example builds its
// protocol layer on.
type DocumentURI = uri.URI

// Position is zero-based line/character. This server counts Character in
// bytes of the line's UTF-8 text (see offsetToPosition), not UTF-16 code
// units.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Location struct {
	URI   DocumentURI `json:"uri"`
	Range Range       `json:"range"`
}

type TextDocumentIdentifier struct {
	URI DocumentURI `json:"uri"`
}

type VersionedTextDocumentIdentifier struct {
	TextDocumentIdentifier
	Version int `json:"version"`
}

type TextDocumentItem struct {
	URI        DocumentURI `json:"uri"`
	LanguageID string      `json:"languageId"`
	Version    int         `json:"version"`
	Text       string      `json:"text"`
}

type TextDocumentPositionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Position     Position               `json:"position"`
}

type TextEdit struct {
	Range   Range  `json:"range"`
	NewText string `json:"newText"`
}

type TextDocumentContentChangeEvent struct {
	Range       *Range `json:"range,omitempty"`
	RangeLength int    `json:"rangeLength,omitempty"`
	Text        string `json:"text"`
}

type MarkupKind string

const (
	MarkupKindPlainText MarkupKind = "plaintext"
	MarkupKindMarkdown  MarkupKind = "markdown"
)

type MarkupContent struct {
	Kind  MarkupKind `json:"kind"`
	Value string     `json:"value"`
}

type Command struct {
	Title     string `json:"title"`
	Command   string `json:"command"`
	Arguments []any  `json:"arguments,omitempty"`
}

type WorkspaceEdit struct {
	Changes map[DocumentURI][]TextEdit `json:"changes,omitempty"`
}

// --- Lifecycle ---

type InitializeParams struct {
	ProcessID int         `json:"processId"`
	RootURI   DocumentURI `json:"rootUri,omitempty"`
}

type InitializeResult struct {
	Capabilities ServerCapabilities    `json:"capabilities"`
	ServerInfo   *InitializeServerInfo `json:"serverInfo,omitempty"`
}

type InitializeServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type TextDocumentSyncKind int

const (
	TextDocumentSyncKindNone TextDocumentSyncKind = 0
	TextDocumentSyncKindFull TextDocumentSyncKind = 1
)

type ServerCapabilities struct {
	TextDocumentSync                TextDocumentSyncKind              `json:"textDocumentSync"`
	HoverProvider                   bool                              `json:"hoverProvider,omitempty"`
	CompletionProvider              *CompletionOptions                `json:"completionProvider,omitempty"`
	CodeActionProvider              bool                              `json:"codeActionProvider,omitempty"`
	DocumentLinkProvider            *DocumentLinkOptions              `json:"documentLinkProvider,omitempty"`
	DocumentOnTypeFormattingProvider *DocumentOnTypeFormattingOptions `json:"documentOnTypeFormattingProvider,omitempty"`
}

type DocumentOnTypeFormattingOptions struct {
	FirstTriggerCharacter string   `json:"firstTriggerCharacter"`
	MoreTriggerCharacter  []string `json:"moreTriggerCharacter,omitempty"`
}

type CompletionOptions struct {
	TriggerCharacters []string `json:"triggerCharacters,omitempty"`
}

type DocumentLinkOptions struct {
	ResolveProvider bool `json:"resolveProvider,omitempty"`
}

// --- Document sync ---

type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type DidCloseTextDocumentParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

// --- Diagnostics ---

type DiagnosticSeverity int

const (
	DiagnosticSeverityError       DiagnosticSeverity = 1
	DiagnosticSeverityWarning     DiagnosticSeverity = 2
	DiagnosticSeverityInformation DiagnosticSeverity = 3
	DiagnosticSeverityHint        DiagnosticSeverity = 4
)

type Diagnostic struct {
	Range    Range              `json:"range"`
	Severity DiagnosticSeverity `json:"severity,omitempty"`
	Code     string             `json:"code,omitempty"`
	Source   string             `json:"source,omitempty"`
	Message  string             `json:"message"`
	Data     any                `json:"data,omitempty"`
}

type PublishDiagnosticsParams struct {
	URI         DocumentURI  `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// --- Hover ---

type HoverParams struct {
	TextDocumentPositionParams
}

type Hover struct {
	Contents MarkupContent `json:"contents"`
	Range    *Range        `json:"range,omitempty"`
}

// --- Completion ---

type CompletionParams struct {
	TextDocumentPositionParams
}

type CompletionItemKind int

const (
	CompletionItemKindMethod    CompletionItemKind = 2
	CompletionItemKindFunction  CompletionItemKind = 3
	CompletionItemKindField     CompletionItemKind = 5
	CompletionItemKindClass     CompletionItemKind = 7
	CompletionItemKindProperty  CompletionItemKind = 10
	CompletionItemKindValue     CompletionItemKind = 12
	CompletionItemKindKeyword   CompletionItemKind = 14
	CompletionItemKindSnippet   CompletionItemKind = 15
	CompletionItemKindEvent     CompletionItemKind = 23
	CompletionItemKindVariable  CompletionItemKind = 6
)

type InsertTextFormat int

const (
	InsertTextFormatPlainText InsertTextFormat = 1
	InsertTextFormatSnippet   InsertTextFormat = 2
)

type CompletionItem struct {
	Label            string             `json:"label"`
	Kind             CompletionItemKind `json:"kind,omitempty"`
	Detail           string             `json:"detail,omitempty"`
	Documentation    string             `json:"documentation,omitempty"`
	InsertText       string             `json:"insertText,omitempty"`
	InsertTextFormat InsertTextFormat   `json:"insertTextFormat,omitempty"`
}

type CompletionList struct {
	IsIncomplete bool             `json:"isIncomplete"`
	Items        []CompletionItem `json:"items"`
}

// --- Code actions ---

type CodeActionKind string

const (
	CodeActionKindQuickFix CodeActionKind = "quickfix"
	CodeActionKindSource   CodeActionKind = "source"
)

type CodeActionContext struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
}

type CodeActionParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
	Range        Range                  `json:"range"`
	Context      CodeActionContext      `json:"context"`
}

type CodeAction struct {
	Title string         `json:"title"`
	Kind  CodeActionKind `json:"kind,omitempty"`
	Edit  *WorkspaceEdit `json:"edit,omitempty"`
}

// --- Document links ---

type DocumentLinkParams struct {
	TextDocument TextDocumentIdentifier `json:"textDocument"`
}

type DocumentLink struct {
	Range   Range   `json:"range"`
	Target  string  `json:"target,omitempty"`
	Tooltip string  `json:"tooltip,omitempty"`
}

// --- Custom notifications (spec.md §6) ---

// AssetUpdatedParams is the shared payload shape of eligian/cssUpdated,
// eligian/htmlUpdated and eligian/localesUpdated: which asset file changed,
// and which open documents import it and therefore need revalidation.
type AssetUpdatedParams struct {
	FileURI      DocumentURI `json:"fileUri"`
	DocumentURIs []string    `json:"documentUris"`
}

// AssetImportsDiscoveredParams is the shared payload shape of the
// server-to-client eligian/cssImportsDiscovered, htmlImportsDiscovered and
// localesImportsDiscovered notifications fired after validating a document
// that imports at least one asset of that kind.
type AssetImportsDiscoveredParams struct {
	DocumentURI  DocumentURI `json:"documentUri"`
	AssetFileURIs []string   `json:"assetFileUris"`
}
