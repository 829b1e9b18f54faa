// Package workspace implements the multi-document model described by the
// specification: a URI -> Document map, an IndexManager that tracks what
// every document exports, and a ScopeProvider that answers cross-document
// reference lookups. The shape mirrors esbuild's bundler/resolver split --
// a dumb map of parsed units plus a separate index that composes across
// files -- but resolves Eligian's library-import graph instead of ES module
// specifiers.
package workspace

import (
	"github.com/eligian-lang/eligianc/internal/ast"
	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/parser"
)

// Document is a unit of source text identified by an absolute URI. It is
// immutable once built; Workspace.Update/Invalidate always replace it with a
// new value rather than mutating fields in place, so a Document pointer
// handed out by an LSP query can never be invalidated underneath the
// caller.
type Document struct {
	URI         string
	Version     int
	Source      string
	Root        ast.Document // *ast.Program or *ast.Library, nil on parse failure
	ParseError  *parser.ParseError
	Diagnostics []diagnostics.Diagnostic
}

func (d *Document) IsLibrary() bool {
	_, ok := d.Root.(*ast.Library)
	return ok
}

func (d *Document) Program() (*ast.Program, bool) {
	p, ok := d.Root.(*ast.Program)
	return p, ok
}

func (d *Document) Library() (*ast.Library, bool) {
	l, ok := d.Root.(*ast.Library)
	return l, ok
}

// newParsedDocument tokenizes and parses source text into a Document. A
// parse failure still produces a Document (so URI lookups keep working);
// Root is left nil and the document's build stops there.
func newParsedDocument(uri, source string, version int) *Document {
	doc := &Document{URI: uri, Source: source, Version: version}
	root, err := parser.ParseDocument(uri, source)
	if err != nil {
		doc.ParseError = err
		doc.Diagnostics = append(doc.Diagnostics, err.Diagnostic)
		return doc
	}
	doc.Root = root
	return doc
}
