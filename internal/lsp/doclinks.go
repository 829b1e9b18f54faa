package lsp

import (
	"github.com/eligian-lang/eligianc/internal/ast"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// documentLinks implements textDocument/documentLink for import paths.
// spec.md §6 asks locales imports to link out to an external locale editor
// rather than to the raw JSON file, since that's the surface a translator
// actually wants -- every other import kind links to the resolved asset
// path itself, the same behavior VS Code's own built-in JSON/CSS
// languages give for relative file references.
func documentLinks(ws *workspace.Workspace, doc *workspace.Document) []DocumentLink {
	if doc.Root == nil {
		return nil
	}
	var imports []*ast.ImportDecl
	switch r := doc.Root.(type) {
	case *ast.Program:
		imports = r.Imports
	case *ast.Library:
		imports = r.Imports
	}

	var links []DocumentLink
	for _, imp := range imports {
		if imp.Kind == ast.ImportNamed {
			continue
		}
		assetURI := ws.ResolveImportPath(doc.URI, imp.Path)
		target := assetURI
		tooltip := ""
		if imp.Kind == ast.ImportLocales {
			target = localeEditorURI(assetURI)
			tooltip = "Open in locale editor"
		}
		links = append(links, DocumentLink{
			Range:   rangeFromAST(imp.PathRange),
			Target:  target,
			Tooltip: tooltip,
		})
	}
	return links
}

// localeEditorURI builds the custom eligian-locale-editor: URI scheme the
// client-side extension registers a handler for. The wire shape is an
// implementation detail of this server and the extension alone, which is
// why it lives here rather than in protocol.go alongside the real LSP wire
// types.
func localeEditorURI(assetURI string) string {
	return "eligian-locale-editor:" + assetURI
}

func rangeFromAST(r ast.Range) Range {
	return Range{
		Start: Position{Line: maxZero(r.Start.Line - 1), Character: r.Start.Column},
		End:   Position{Line: maxZero(r.End.Line - 1), Character: r.End.Column},
	}
}
