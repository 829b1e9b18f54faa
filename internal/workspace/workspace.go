package workspace

import (
	"sync"

	"github.com/eligian-lang/eligianc/internal/assets"
	"github.com/eligian-lang/eligianc/internal/cache"
	"github.com/eligian-lang/eligianc/internal/fs"
)

// Workspace exclusively owns every Document and the shared asset
// registries; callers only ever hold a URI. Update and Invalidate take the
// workspace lock while they replace or remove the document in the map, and
// release it before updating the index and asset registries (which carry
// their own locks), matching the
// cooperative single-threaded scheduling model the specification
// describes -- there is never a reason for two goroutines to be mutating
// the same workspace at once in this compiler.
type Workspace struct {
	mu     sync.Mutex
	fs     fs.Provider
	docs   map[string]*Document
	index  *IndexManager
	assets *assets.Registry
	cache  *cache.Cache
}

// importCacheCapacity bounds the library-import parse cache. A long-lived
// LSP session never starts a new "generation" to evict into the way a CLI
// rebuild loop might, so this package bounds it instead, same tradeoff
// internal/cache's own doc comment describes.
const importCacheCapacity = 256

func NewWorkspace(provider fs.Provider) *Workspace {
	return &Workspace{
		fs:     provider,
		docs:   map[string]*Document{},
		index:  NewIndexManager(),
		assets: assets.NewRegistry(),
		cache:  cache.New(importCacheCapacity),
	}
}

func (w *Workspace) FS() fs.Provider          { return w.fs }
func (w *Workspace) Index() *IndexManager     { return w.index }
func (w *Workspace) Assets() *assets.Registry { return w.assets }

// Get returns the last built Document for uri, if any. It never triggers a
// parse; use Update to create or refresh a document.
func (w *Workspace) Get(uri string) (*Document, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	doc, ok := w.docs[uri]
	return doc, ok
}

// Update parses new source text for uri and registers its exports, the
// first two stages of the build pipeline described in the data model
// section ("parse -> compute exported symbols -> link references ->
// validate"). The remaining two stages belong to the build package, which
// needs the validator and transformer this package must not import.
func (w *Workspace) Update(uri, text string) *Document {
	w.mu.Lock()
	prevVersion := 0
	if prev, ok := w.docs[uri]; ok {
		prevVersion = prev.Version
	}
	doc := newParsedDocument(uri, text, prevVersion+1)
	w.docs[uri] = doc
	w.mu.Unlock()

	w.index.SetExports(doc)
	w.assets.ClearDocumentMappings(uri)
	return doc
}

// Invalidate removes a document and its exports entirely, used when a file
// is deleted rather than edited.
func (w *Workspace) Invalidate(uri string) {
	w.mu.Lock()
	delete(w.docs, uri)
	w.mu.Unlock()
	w.index.Forget(uri)
	w.assets.ClearDocumentMappings(uri)
}

// ResolveImportPath joins an import path relative to the importing
// document's directory. Parent-directory traversal ("../") is permitted by
// design, matching the specification's import resolution rule.
func (w *Workspace) ResolveImportPath(fromURI, importPath string) string {
	if w.fs.IsAbs(importPath) {
		return w.fs.Join(importPath)
	}
	dir := w.fs.Dir(fromURI)
	return w.fs.Join(dir, importPath)
}

// EnsureLoaded returns the document at uri, reading it through the
// workspace's fs.Provider and parsing it through the library-import parse
// cache on first request. Used by the validator when it follows an import
// path to a document nobody has opened yet -- exactly the "transitively
// imported file re-parsed on each dependent document's rebuild" case
// internal/cache exists for, as opposed to Update's always-fresh-parse path
// for the document an editor is actively editing.
func (w *Workspace) EnsureLoaded(uri string) (*Document, error) {
	if doc, ok := w.Get(uri); ok {
		return doc, nil
	}
	text, err := w.fs.ReadFile(uri)
	if err != nil {
		return nil, err
	}

	entry := w.cache.Get(uri, text)
	doc := &Document{
		URI:         uri,
		Version:     1,
		Source:      text,
		Root:        entry.Root,
		ParseError:  entry.ParseError,
		Diagnostics: entry.Diagnostics,
	}

	w.mu.Lock()
	w.docs[uri] = doc
	w.mu.Unlock()

	w.index.SetExports(doc)
	w.assets.ClearDocumentMappings(uri)
	return doc, nil
}

// AllDocuments returns a snapshot of every document currently tracked, used
// by hot-reload revalidation to find which documents import a changed
// asset without the caller needing to reach into the map directly.
func (w *Workspace) AllDocuments() []*Document {
	w.mu.Lock()
	defer w.mu.Unlock()
	docs := make([]*Document, 0, len(w.docs))
	for _, d := range w.docs {
		docs = append(docs, d)
	}
	return docs
}
