// Package ir defines the intermediate representation the transformer
// produces and the optimizer/emitter consume: a flat, already-desugared
// shape close to the engine configuration JSON, so the emitter has no
// semantic work left to do beyond marshaling.
package ir

// Operation is a single primitive step: a built-in system call or, after
// action-call lowering, one half of a requestAction/startAction pair.
type Operation struct {
	ID         string
	SystemName string
	Data       map[string]any
}

// TimelineAction is the per-time-range lowering of an action invocation
// inside a timeline event.
type TimelineAction struct {
	ID              string
	Name            string
	DurationStart   float64
	DurationEnd     float64
	StartOperations []Operation
	EndOperations   []Operation // nil unless the source action was endable
}

// ActionDefinition is a registered, callable user action: the lowered form
// of an ast.ActionDecl. Timeline actions and event actions invoke it by
// name via a requestAction/startAction operation pair rather than
// inlining its body at every call site.
type ActionDefinition struct {
	ID              string
	Name            string
	StartOperations []Operation
	EndOperations   []Operation // nil unless the source action was endable
}

type Timeline struct {
	ID              string
	Type            string // provider: "raf" | "video" | "audio" | "custom"
	URI             string // container/media selector or source, provider-dependent
	Duration        float64
	Loop            bool
	Selector        string
	TimelineActions []TimelineAction
}

// EventAction is an event handler collected with its start operations
// only, per the specification's "Event actions" transformation.
type EventAction struct {
	ID              string
	EventName       string
	Topic           string
	StartOperations []Operation
}

// Label records one translation key actually referenced by a getLabel
// call, together with the locale codes the importing document's locales
// registry has a translation for. The runtime resolves the literal text at
// playback time from its own locales bundle; the IR only needs to declare
// which keys are used and which locales cover them.
type Label struct {
	ID      string
	Key     string
	Locales []string
}

type AvailableLanguage struct {
	Code  string
	Label string
}

type Metadata struct {
	DSLVersion      string
	CompilerVersion string
	CompiledAt      string
	SourceFile      string
}

// EligiusIR is the desugared intermediate representation the optimizer and
// emitter operate on, matching the shape in the component-design section.
type EligiusIR struct {
	ID                      string
	EngineSystemName        string
	ContainerSelector       string
	Language                string
	LayoutTemplate          string
	AvailableLanguages      []AvailableLanguage
	Labels                  []Label
	InitActions             []Operation
	Actions                 []ActionDefinition
	EventActions            []EventAction
	Timelines               []Timeline
	TimelineFlow            map[string]any
	TimelineProviderSettings map[string]any
	Metadata                Metadata
	SourceLocation          string
}
