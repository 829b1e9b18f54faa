// Package optimizer runs the IR-level passes described in the
// specification: dead-code elimination of unreachable timeline actions,
// plus a reserved no-op pass for future adjacent-operation merging.
// Grounded on esbuild's own "optimizer cannot fail" discipline for its
// tree-shaking pass — a pure function over already-validated IR, never
// producing a new diagnostic.
package optimizer

import "github.com/eligian-lang/eligianc/internal/ir"

// Optimize runs every pass over doc in place and returns it for chaining.
// It never fails: any IR shape it cannot usefully act on is left untouched.
func Optimize(doc *ir.EligiusIR) *ir.EligiusIR {
	eliminateDeadTimelineActions(doc)
	mergeAdjacentOperations(doc)
	return doc
}

// eliminateDeadTimelineActions drops any timed action whose range is empty
// or negative (end <= start, or start < 0), per the dead-code-elimination
// pass in the component design. Sequence/stagger-derived actions always
// have DurationStart == 0 and a positive DurationEnd by construction, so
// this rule only ever prunes timed events in practice.
func eliminateDeadTimelineActions(doc *ir.EligiusIR) {
	for i := range doc.Timelines {
		tl := &doc.Timelines[i]
		kept := tl.TimelineActions[:0]
		for _, action := range tl.TimelineActions {
			if action.DurationStart < 0 || action.DurationEnd <= action.DurationStart {
				continue
			}
			kept = append(kept, action)
		}
		tl.TimelineActions = kept
	}
}

// mergeAdjacentOperations is pass 2 from the component design, reserved for
// merging adjacent identical operations. The current implementation is a
// deliberate no-op, matching the specification's "current implementation is
// a no-op" note verbatim.
func mergeAdjacentOperations(doc *ir.EligiusIR) {}
