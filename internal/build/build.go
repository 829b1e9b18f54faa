// Package build orchestrates the full pipeline from an entry document URI
// to an emitted engine-configuration document: load, validate every
// transitively imported library, desugar to IR, optimize, emit. Grounded
// on esbuild's own top-level `bundler.Bundle` → `linker.Link` →
// `js_printer.Print` orchestration: a thin sequence of already-built
// stages, with no logic of its own beyond wiring them together in order
// and deciding what a failure at each stage means for the next one.
package build

import (
	"github.com/eligian-lang/eligianc/internal/config"
	"github.com/eligian-lang/eligianc/internal/constants"
	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/emitter"
	"github.com/eligian-lang/eligianc/internal/ir"
	"github.com/eligian-lang/eligianc/internal/optimizer"
	"github.com/eligian-lang/eligianc/internal/transform"
	"github.com/eligian-lang/eligianc/internal/validator"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// Result is everything one build of one entry document produces. IR and
// JSON are populated even when Diagnostics has errors (see DESIGN.md Open
// Question decision 1), except that both stay nil when the entry document
// did not parse and JSON stays nil when emission failed; the CLI decides
// whether a result is good enough to write to disk.
type Result struct {
	EntryURI    string
	Diagnostics map[string]*diagnostics.Bag
	IR          *ir.EligiusIR
	JSON        []byte
}

// HasErrors reports whether the entry document or any library it
// transitively imports produced an error-severity diagnostic.
func (r *Result) HasErrors() bool {
	for _, bag := range r.Diagnostics {
		if bag.HasErrors() {
			return true
		}
	}
	return false
}

// Run executes the full pipeline for entryURI. compiledAt is passed
// through to the emitter untouched (see internal/emitter's own note on why
// it never computes a timestamp itself).
func Run(ws *workspace.Workspace, entryURI string, opts config.Options, compiledAt string) (*Result, error) {
	result := &Result{EntryURI: entryURI}

	bags := validator.BuildAll(ws, entryURI)
	result.Diagnostics = bags

	doc, err := ws.EnsureLoaded(entryURI)
	if err != nil {
		return result, err
	}

	bag, ok := bags[entryURI]
	if !ok {
		bag = &diagnostics.Bag{}
		result.Diagnostics[entryURI] = bag
	}

	if doc.Root == nil {
		// Parse failure: BuildAll already recorded it on bag. Nothing to
		// transform.
		return result, nil
	}

	irDoc, transformErr := transform.Transform(ws, doc, bag)
	if transformErr != nil {
		return result, transformErr
	}
	result.IR = irDoc

	if opts.Optimize {
		optimizer.Optimize(irDoc)
	}

	jsonOut, emitErr := emitter.Emit(irDoc, compiledAt, opts.Minify)
	if emitErr != nil {
		bag.Errorf(diagnostics.Location{URI: entryURI}, diagnostics.CodeEmitError, "%v", emitErr)
		return result, nil
	}
	result.JSON = jsonOut

	// Defense-in-depth per spec.md's "EmitError ... unrepresentable IR"
	// guarantee: a schema mismatch here means the transformer produced a
	// shape the emitter's own struct tags disagree with, which should
	// never happen after a successful Transform but is cheap to catch.
	if schema, err := emitter.CompiledSchema(); err == nil {
		if verr := emitter.Validate(schema, jsonOut); verr != nil {
			bag.Errorf(diagnostics.Location{URI: entryURI}, diagnostics.CodeEmitError, "%v", verr)
		}
	}

	return result, nil
}

// Folder exposes the constant folder used during transform, for callers
// (notably internal/lsp) that want to evaluate a single expression for
// hover text without running the whole pipeline.
func Folder(uri, source string) *constants.Folder {
	return constants.NewFolder(uri, source)
}
