// Package emitter marshals the intermediate representation into the
// engine-configuration JSON shape described in the specification's
// external-interfaces section. Field order is stable (Go's encoding/json
// preserves struct field order) but, per the specification, not part of
// the contract -- only the shape is.
package emitter

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/eligian-lang/eligianc/internal/ir"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema/engine-configuration.schema.json
var schemaFS embed.FS

var (
	schemaOnce    sync.Once
	boundSchema   *jsonschema.Schema
	schemaLoadErr error
)

// CompiledSchema compiles the bundled engine-configuration JSON Schema
// exactly once, the same lazily-initialized-immutable-table discipline
// internal/registry uses for its operation table. internal/build calls
// this once per process and reuses the result for every Validate call.
func CompiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		data, err := schemaFS.ReadFile("schema/engine-configuration.schema.json")
		if err != nil {
			schemaLoadErr = fmt.Errorf("reading bundled engine-configuration schema: %w", err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			schemaLoadErr = fmt.Errorf("parsing bundled engine-configuration schema: %w", err)
			return
		}
		const resourceURL = "engine-configuration.schema.json"
		c := jsonschema.NewCompiler()
		if err := c.AddResource(resourceURL, doc); err != nil {
			schemaLoadErr = fmt.Errorf("loading bundled engine-configuration schema: %w", err)
			return
		}
		sch, err := c.Compile(resourceURL)
		if err != nil {
			schemaLoadErr = fmt.Errorf("compiling bundled engine-configuration schema: %w", err)
			return
		}
		boundSchema = sch
	})
	return boundSchema, schemaLoadErr
}

// EmitError is raised only for IR that cannot be represented as JSON,
// which should not occur after a successful transformation; it exists so
// the CLI has a named error type to switch on per the specification.
type EmitError struct {
	Reason string
}

func (e *EmitError) Error() string { return "emit error: " + e.Reason }

type engineBlock struct {
	SystemName string `json:"systemName"`
}

type operationJSON struct {
	ID         string         `json:"id"`
	SystemName string         `json:"systemName"`
	Data       map[string]any `json:"operationData,omitempty"`
}

type actionDefinitionJSON struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	StartOperations []operationJSON `json:"startOperations"`
	EndOperations   []operationJSON `json:"endOperations,omitempty"`
}

type durationJSON struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

type timelineActionJSON struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Duration        durationJSON    `json:"duration"`
	StartOperations []operationJSON `json:"startOperations"`
	EndOperations   []operationJSON `json:"endOperations,omitempty"`
}

type timelineJSON struct {
	ID              string               `json:"id"`
	Type            string               `json:"type"`
	URI             string               `json:"uri,omitempty"`
	Duration        float64              `json:"duration"`
	Loop            bool                 `json:"loop"`
	Selector        string               `json:"selector"`
	TimelineActions []timelineActionJSON `json:"timelineActions"`
}

type eventActionJSON struct {
	ID              string          `json:"id"`
	EventName       string          `json:"eventName"`
	Topic           string          `json:"topic,omitempty"`
	StartOperations []operationJSON `json:"startOperations"`
}

type labelJSON struct {
	ID      string   `json:"id"`
	Key     string   `json:"key"`
	Locales []string `json:"locales"`
}

type availableLanguageJSON struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type metadataJSON struct {
	Version       string `json:"version"`
	GeneratedBy   string `json:"generatedBy"`
	DSLVersion    string `json:"dslVersion"`
	CompilerVersion string `json:"compilerVersion"`
	CompiledAt    string `json:"compiledAt"`
	SourceFile    string `json:"sourceFile,omitempty"`
}

type configurationJSON struct {
	ID                 string                   `json:"id"`
	Engine             engineBlock              `json:"engine"`
	ContainerSelector  string                   `json:"containerSelector,omitempty"`
	Language           string                   `json:"language,omitempty"`
	LayoutTemplate     string                   `json:"layoutTemplate,omitempty"`
	AvailableLanguages []availableLanguageJSON  `json:"availableLanguages,omitempty"`
	Labels             []labelJSON              `json:"labels"`
	InitActions        []operationJSON          `json:"initActions"`
	Actions            []actionDefinitionJSON   `json:"actions"`
	EventActions       []eventActionJSON        `json:"eventActions"`
	Timelines          []timelineJSON           `json:"timelines"`
	TimelineFlow       map[string]any           `json:"timelineFlow,omitempty"`
	TimelineProviderSettings map[string]any     `json:"timelineProviderSettings,omitempty"`
	Metadata           metadataJSON             `json:"metadata"`
	SourceLocation     string                   `json:"sourceLocation,omitempty"`
}

// Emit converts doc into its JSON form. compiledAt is injected by the
// caller (see DESIGN.md: Date.now()-equivalents are never computed inside
// this package) since it is the one field the specification calls out as
// legitimately non-deterministic between otherwise-identical builds.
// minify selects the encoding, not the shape: false (the CLI's default)
// pretty-prints with two-space indentation for a human reading the output
// file; true packs it onto one line with no indentation, for a build that
// only ever feeds the JSON to the runtime.
func Emit(doc *ir.EligiusIR, compiledAt string, minify bool) ([]byte, error) {
	cfg := toJSON(doc, compiledAt)
	var out []byte
	var err error
	if minify {
		out, err = json.Marshal(cfg)
	} else {
		out, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return nil, &EmitError{Reason: err.Error()}
	}
	return out, nil
}

// Validate checks an already-emitted document against a bundled JSON
// Schema, defense-in-depth for the specification's "fails only for
// unrepresentable IR" guarantee -- a schema mismatch here means the
// transformer produced a shape the emitter's own struct tags disagree
// with, which should never happen but is cheap to catch.
func Validate(schema *jsonschema.Schema, document []byte) error {
	var v any
	if err := json.Unmarshal(document, &v); err != nil {
		return &EmitError{Reason: err.Error()}
	}
	if err := schema.Validate(v); err != nil {
		return &EmitError{Reason: fmt.Sprintf("emitted configuration failed schema validation: %v", err)}
	}
	return nil
}

func toJSON(doc *ir.EligiusIR, compiledAt string) configurationJSON {
	cfg := configurationJSON{
		ID:                 doc.ID,
		Engine:              engineBlock{SystemName: doc.EngineSystemName},
		ContainerSelector:   doc.ContainerSelector,
		Language:            doc.Language,
		LayoutTemplate:      doc.LayoutTemplate,
		TimelineFlow:        doc.TimelineFlow,
		TimelineProviderSettings: doc.TimelineProviderSettings,
		SourceLocation:      doc.SourceLocation,
		Metadata: metadataJSON{
			Version:         "1.0.0",
			GeneratedBy:     "eligianc",
			DSLVersion:      doc.Metadata.DSLVersion,
			CompilerVersion: doc.Metadata.CompilerVersion,
			CompiledAt:      compiledAt,
			SourceFile:      doc.Metadata.SourceFile,
		},
	}

	for _, l := range doc.AvailableLanguages {
		cfg.AvailableLanguages = append(cfg.AvailableLanguages, availableLanguageJSON{Code: l.Code, Label: l.Label})
	}
	for _, l := range doc.Labels {
		cfg.Labels = append(cfg.Labels, labelJSON{ID: l.ID, Key: l.Key, Locales: l.Locales})
	}
	for _, op := range doc.InitActions {
		cfg.InitActions = append(cfg.InitActions, operationToJSON(op))
	}
	for _, a := range doc.Actions {
		cfg.Actions = append(cfg.Actions, actionDefinitionJSON{
			ID:              a.ID,
			Name:            a.Name,
			StartOperations: operationsToJSON(a.StartOperations),
			EndOperations:   operationsToJSONOrNil(a.EndOperations),
		})
	}
	for _, ea := range doc.EventActions {
		cfg.EventActions = append(cfg.EventActions, eventActionJSON{
			ID:              ea.ID,
			EventName:       ea.EventName,
			Topic:           ea.Topic,
			StartOperations: operationsToJSON(ea.StartOperations),
		})
	}
	for _, tl := range doc.Timelines {
		cfg.Timelines = append(cfg.Timelines, timelineToJSON(tl))
	}
	if cfg.Labels == nil {
		cfg.Labels = []labelJSON{}
	}
	if cfg.InitActions == nil {
		cfg.InitActions = []operationJSON{}
	}
	if cfg.Actions == nil {
		cfg.Actions = []actionDefinitionJSON{}
	}
	if cfg.EventActions == nil {
		cfg.EventActions = []eventActionJSON{}
	}
	if cfg.Timelines == nil {
		cfg.Timelines = []timelineJSON{}
	}
	return cfg
}

func timelineToJSON(tl ir.Timeline) timelineJSON {
	out := timelineJSON{
		ID:       tl.ID,
		Type:     tl.Type,
		URI:      tl.URI,
		Duration: tl.Duration,
		Loop:     tl.Loop,
		Selector: tl.Selector,
	}
	for _, ta := range tl.TimelineActions {
		out.TimelineActions = append(out.TimelineActions, timelineActionJSON{
			ID:              ta.ID,
			Name:            ta.Name,
			Duration:        durationJSON{Start: ta.DurationStart, End: ta.DurationEnd},
			StartOperations: operationsToJSON(ta.StartOperations),
			EndOperations:   operationsToJSONOrNil(ta.EndOperations),
		})
	}
	if out.TimelineActions == nil {
		out.TimelineActions = []timelineActionJSON{}
	}
	return out
}

func operationToJSON(op ir.Operation) operationJSON {
	return operationJSON{ID: op.ID, SystemName: op.SystemName, Data: op.Data}
}

func operationsToJSON(ops []ir.Operation) []operationJSON {
	out := make([]operationJSON, len(ops))
	for i, op := range ops {
		out[i] = operationToJSON(op)
	}
	return out
}

func operationsToJSONOrNil(ops []ir.Operation) []operationJSON {
	if ops == nil {
		return nil
	}
	return operationsToJSON(ops)
}
