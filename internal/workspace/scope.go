package workspace

import "github.com/eligian-lang/eligianc/internal/ast"

// ScopeProvider answers "what does name resolve to inside docURI" for
// action calls. It does not walk local scope chains (parameters, loop
// variables) -- that is purely syntactic and handled by the validator and
// transformer directly against the action body they are already visiting
// -- it only answers the cross-document half of resolution: is `name` one
// of docURI's own actions, or does a named import (possibly aliased) bring
// it in from another document. Only the imported document's own actions
// are found; a name that document itself imports from elsewhere is not
// resolved through it.
type ScopeProvider struct {
	index *IndexManager
	ws    *Workspace
}

func NewScopeProvider(ws *Workspace) *ScopeProvider {
	return &ScopeProvider{index: ws.Index(), ws: ws}
}

// Resolve looks up `name` as called from docURI. ok is false if nothing
// visible in docURI defines or imports that name.
func (sp *ScopeProvider) Resolve(docURI, name string) (ExportedSymbol, bool) {
	if doc, ok := sp.ws.Get(docURI); ok {
		for _, action := range ownActions(doc.Root) {
			if action.Name == name {
				return ExportedSymbol{DocURI: docURI, Name: name, Action: action, Visibility: action.Visibility}, true
			}
		}
	}

	for _, imp := range sp.namedImports(docURI) {
		for _, imported := range imp.Names {
			visibleAs := imported.Name
			if imported.Alias != "" {
				visibleAs = imported.Alias
			}
			if visibleAs != name {
				continue
			}
			targetURI := sp.ws.ResolveImportPath(docURI, imp.Path)
			sym, ok := sp.index.Lookup(targetURI, imported.Name)
			if !ok || sym.Visibility == ast.VisibilityPrivate {
				return ExportedSymbol{}, false
			}
			return sym, true
		}
	}

	return ExportedSymbol{}, false
}

func (sp *ScopeProvider) namedImports(docURI string) []*ast.ImportDecl {
	doc, ok := sp.ws.Get(docURI)
	if !ok {
		return nil
	}
	var decls []*ast.ImportDecl
	switch root := doc.Root.(type) {
	case *ast.Program:
		decls = root.Imports
	case *ast.Library:
		decls = root.Imports
	}
	var named []*ast.ImportDecl
	for _, d := range decls {
		if d.Kind == ast.ImportNamed {
			named = append(named, d)
		}
	}
	return named
}

func ownActions(root ast.Document) []*ast.ActionDecl {
	switch v := root.(type) {
	case *ast.Program:
		return v.Actions
	case *ast.Library:
		return v.Actions
	default:
		return nil
	}
}
