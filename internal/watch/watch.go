// Package watch implements the hot-reload daemon that keeps the asset
// registries in internal/assets synchronized with on-disk CSS, HTML and
// locales files. It is grounded on the teacher pack's own file watcher,
// theRebelliousNerd-codenerd's internal/core.MangleWatcher: an fsnotify
// watcher with a debounce map drained by a ticker, delegating the actual
// "what does this change mean" decision to a caller-supplied callback
// rather than hard-coding it, the same way MangleWatcher defers to a
// RepairInterceptor instead of validating rules itself.
package watch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/eligian-lang/eligianc/internal/assets"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// AssetKind identifies which side-registry a watched file feeds, mirroring
// the three import kinds spec.md §6's hot-reload notifications name
// (cssUpdated, htmlUpdated, localesUpdated).
type AssetKind uint8

const (
	KindCSS AssetKind = iota
	KindHTML
	KindLocales
	// KindDocument marks a watched path as the compiler's own entry
	// document rather than an asset file: Reload skips the registry
	// update/reparse steps for it and just emits the settled-change event,
	// letting the CLI's --watch mode drive a full build.Run rebuild off of
	// it without polluting the CSS/HTML/locales registries with a
	// mis-parsed entry.
	KindDocument
)

func (k AssetKind) String() string {
	switch k {
	case KindCSS:
		return "css"
	case KindHTML:
		return "html"
	case KindLocales:
		return "locales"
	case KindDocument:
		return "document"
	default:
		return "unknown"
	}
}

// Event describes one settled, reloaded asset change: which file changed,
// which registry it feeds, and which open documents import it and
// therefore need revalidation. It carries exactly the fields spec.md §6
// puts on eligian/cssUpdated, htmlUpdated and localesUpdated.
type Event struct {
	Kind         AssetKind
	AssetURI     string
	DocumentURIs []string
	Err          error
}

// Watcher wraps fsnotify to keep a Workspace's asset registries current and
// to report, for every settled change, which documents need revalidation.
// It never revalidates a document itself -- that requires the validator
// and transform packages, which would make this package the most
// upstream-depended-on one in the module; instead OnChange is the single
// extension point, called once per settled file with the affected document
// set already computed, exactly the division of labor MangleWatcher keeps
// between itself and its RepairInterceptor.
type Watcher struct {
	mu      sync.Mutex
	fsw     *fsnotify.Watcher
	ws      *workspace.Workspace
	kinds   map[string]AssetKind // assetURI -> kind, for files explicitly added
	pending map[string]time.Time
	debounceDur time.Duration

	OnChange func(Event)

	stopCh chan struct{}
	doneCh chan struct{}
	running bool
}

// New creates a Watcher over ws. OnChange is left nil; callers must set it
// before calling Start, the same way a caller of MangleWatcher must first
// install a RepairInterceptor for repair to do anything beyond basic
// validation.
func New(ws *workspace.Workspace) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("eligianc/watch: %w", err)
	}
	return &Watcher{
		fsw:         fsw,
		ws:          ws,
		kinds:       map[string]AssetKind{},
		pending:     map[string]time.Time{},
		debounceDur: 200 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// WatchAsset starts watching assetURI for changes, classified as kind so a
// later fsnotify event on it knows which registry and ParseX function to
// use. Safe to call repeatedly for the same URI (fsnotify.Add is
// idempotent for an already-watched path).
func (w *Watcher) WatchAsset(assetURI string, kind AssetKind) error {
	w.mu.Lock()
	w.kinds[assetURI] = kind
	w.mu.Unlock()

	if err := w.fsw.Add(assetURI); err != nil {
		return fmt.Errorf("eligianc/watch: watching %s: %w", assetURI, err)
	}
	return nil
}

// Unwatch stops watching assetURI, used when the last document importing
// it is closed or invalidated.
func (w *Watcher) Unwatch(assetURI string) {
	w.mu.Lock()
	delete(w.kinds, assetURI)
	delete(w.pending, assetURI)
	w.mu.Unlock()
	_ = w.fsw.Remove(assetURI)
}

// Start begins the watch loop in a goroutine. Non-blocking.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Stop halts the watch loop and closes the underlying fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.fsw.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.recordEvent(ev)
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		case <-ticker.C:
			w.drainSettled()
		}
	}
}

// recordEvent records a raw fsnotify event against the debounce map; it
// ignores events for paths this Watcher was never told to watch via
// WatchAsset (fsnotify reports every file in a watched directory, not just
// the one path added, on some platforms).
func (w *Watcher) recordEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, known := w.kinds[ev.Name]; !known {
		return
	}
	w.pending[ev.Name] = time.Now()
}

func (w *Watcher) drainSettled() {
	now := time.Now()
	w.mu.Lock()
	var settled []string
	for uri, t := range w.pending {
		if now.Sub(t) >= w.debounceDur {
			settled = append(settled, uri)
			delete(w.pending, uri)
		}
	}
	w.mu.Unlock()

	for _, uri := range settled {
		w.Reload(uri)
	}
}

// Reload re-reads assetURI from disk, re-parses it with the loader that
// matches its registered kind, updates the workspace's asset registry and
// invokes OnChange with the set of documents that import it. The fsnotify
// loop calls it for each settled change; it is exported so it can also be
// called directly, without a real filesystem event.
func (w *Watcher) Reload(assetURI string) {
	w.mu.Lock()
	kind, known := w.kinds[assetURI]
	w.mu.Unlock()
	if !known {
		return
	}

	if kind == KindDocument {
		w.emit(Event{Kind: kind, AssetURI: assetURI, DocumentURIs: []string{assetURI}})
		return
	}

	text, err := w.ws.FS().ReadFile(assetURI)
	if err != nil {
		w.emit(Event{Kind: kind, AssetURI: assetURI, Err: err})
		return
	}

	reg := w.ws.Assets()
	var docs []string
	switch kind {
	case KindCSS:
		reg.UpdateCSS(assetURI, assets.ParseCSS(text))
		docs = reg.DocumentsImportingCSS(assetURI)
	case KindHTML:
		reg.UpdateHTML(assetURI, assets.ParseHTML(text))
		docs = reg.DocumentsImportingHTML(assetURI)
	case KindLocales:
		meta, parseErr := assets.ParseLocalesJSON(text)
		if parseErr != nil {
			w.emit(Event{Kind: kind, AssetURI: assetURI, Err: parseErr})
			return
		}
		reg.UpdateLocales(assetURI, meta)
		docs = reg.DocumentsImportingLocales(assetURI)
	}

	w.emit(Event{Kind: kind, AssetURI: assetURI, DocumentURIs: docs})
}

func (w *Watcher) emit(e Event) {
	if w.OnChange != nil {
		w.OnChange(e)
	}
}
