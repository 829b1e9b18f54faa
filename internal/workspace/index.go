package workspace

import (
	"sync"

	"github.com/eligian-lang/eligianc/internal/ast"
)

type SymbolKind uint8

const (
	SymbolRootAction SymbolKind = iota // an action defined directly in this document
)

// ExportedSymbol is what IndexManager tracks per document: everything that
// document makes visible to the rest of the workspace. A Program exports
// its top-level actions; a Library exports every one of its actions,
// public or private -- visibility is
// enforced at lookup time by ScopeProvider, not by omission from the index,
// because a private action still needs to be found and flagged when a
// document outside its own library tries to reference it.
type ExportedSymbol struct {
	DocURI     string
	Name       string
	Action     *ast.ActionDecl
	Visibility ast.Visibility
}

// IndexManager is the global symbol table the specification calls the
// ScopeIndex: a map from document URI to what that document exports.
// Cross-document references carry {targetDocumentUri, symbolName} and are
// resolved here -- never by holding a raw pointer into another document's
// AST, since that AST can be replaced wholesale on the next edit.
type IndexManager struct {
	mu      sync.RWMutex
	exports map[string][]ExportedSymbol
}

func NewIndexManager() *IndexManager {
	return &IndexManager{exports: map[string][]ExportedSymbol{}}
}

// SetExports computes and stores what a document exports, replacing
// whatever was recorded for it before. Called once per document build,
// after parsing and before reference linking so the index is complete when
// other documents try to resolve imports from it.
func (im *IndexManager) SetExports(doc *Document) {
	var symbols []ExportedSymbol
	switch root := doc.Root.(type) {
	case *ast.Program:
		for _, action := range root.Actions {
			symbols = append(symbols, ExportedSymbol{DocURI: doc.URI, Name: action.Name, Action: action, Visibility: action.Visibility})
		}
	case *ast.Library:
		for _, action := range root.Actions {
			symbols = append(symbols, ExportedSymbol{DocURI: doc.URI, Name: action.Name, Action: action, Visibility: action.Visibility})
		}
	}

	im.mu.Lock()
	defer im.mu.Unlock()
	im.exports[doc.URI] = symbols
}

func (im *IndexManager) Exports(docURI string) []ExportedSymbol {
	im.mu.RLock()
	defer im.mu.RUnlock()
	return im.exports[docURI]
}

// Lookup finds an action named `name` exported by docURI, public or
// private; callers check Visibility.
func (im *IndexManager) Lookup(docURI, name string) (ExportedSymbol, bool) {
	for _, sym := range im.Exports(docURI) {
		if sym.Name == name {
			return sym, true
		}
	}
	return ExportedSymbol{}, false
}

func (im *IndexManager) Forget(docURI string) {
	im.mu.Lock()
	defer im.mu.Unlock()
	delete(im.exports, docURI)
}
