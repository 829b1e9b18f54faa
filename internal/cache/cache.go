// Package cache memoizes parsed library documents across rebuilds. A
// large library-import graph re-parses every transitively imported file
// on each dependent document's rebuild unless something remembers what it
// already tokenized; this package is that memory, keyed by the document's
// URI and a hash of its exact source text so an edited file is never
// served stale.
package cache

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/eligian-lang/eligianc/internal/ast"
	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/parser"
)

// Entry is the cached product of parsing one document: its AST root (or
// parse error) plus the diagnostics the parse itself produced. It does not
// cache anything downstream of parsing (validation, transform) since those
// depend on the rest of the workspace, not on the document in isolation.
type Entry struct {
	URI         string
	Hash        string
	Root        ast.Document
	ParseError  *parser.ParseError
	Diagnostics []diagnostics.Diagnostic
}

// Cache is a content-hash-keyed LRU of parsed documents. Safe for
// concurrent use: golang-lru/v2 guards its own internal map with a mutex,
// the same guarantee esbuild's internal/cache.CacheSet documents for its
// generation-keyed memoization table.
type Cache struct {
	lru *lru.Cache[string, *Entry]
}

// New builds a Cache holding up to capacity parsed documents. esbuild's own
// cache sets are unbounded (keyed by build generation, evicted wholesale
// between builds); this package bounds itself instead since a long-lived
// LSP session never starts a new "generation" to evict into.
func New(capacity int) *Cache {
	c, err := lru.New[string, *Entry](capacity)
	if err != nil {
		// Only returned for a non-positive capacity, which is a caller bug.
		panic(err)
	}
	return &Cache{lru: c}
}

// Hash returns the cache key for a document's exact source text.
func Hash(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached entry for uri if its content hash still matches
// source, parsing and storing a fresh entry otherwise.
func (c *Cache) Get(uri, source string) *Entry {
	hash := Hash(source)
	if e, ok := c.lru.Get(uri); ok && e.Hash == hash {
		return e
	}
	return c.parseAndStore(uri, source, hash)
}

// Invalidate drops any cached entry for uri, forcing the next Get to
// re-parse regardless of hash. Used when a document is closed or deleted
// rather than edited, so a stale entry never resurfaces under a reused URI.
func (c *Cache) Invalidate(uri string) {
	c.lru.Remove(uri)
}

// Len reports how many documents are currently cached, for diagnostics and
// tests.
func (c *Cache) Len() int {
	return c.lru.Len()
}

func (c *Cache) parseAndStore(uri, source, hash string) *Entry {
	root, err := parser.ParseDocument(uri, source)
	e := &Entry{URI: uri, Hash: hash}
	if err != nil {
		e.ParseError = err
		e.Diagnostics = append(e.Diagnostics, err.Diagnostic)
	} else {
		e.Root = root
	}
	c.lru.Add(uri, e)
	return e
}
