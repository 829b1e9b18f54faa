package emitter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eligian-lang/eligianc/internal/ir"
)

func minimalIR() *ir.EligiusIR {
	return &ir.EligiusIR{
		ID:                "doc-1",
		EngineSystemName:  "Eligius",
		ContainerSelector: ".stage",
		Labels:            []ir.Label{},
		InitActions:       []ir.Operation{},
		Actions:           []ir.ActionDefinition{},
		EventActions:      []ir.EventAction{},
		Timelines: []ir.Timeline{
			{
				ID:       "tl-1",
				Type:     "raf",
				Selector: ".stage",
				TimelineActions: []ir.TimelineAction{
					{
						ID:            "ta-1",
						Name:          "greet",
						DurationStart: 0,
						DurationEnd:   1,
						StartOperations: []ir.Operation{
							{ID: "op-1", SystemName: "log", Data: map[string]any{"message": "hi"}},
						},
					},
				},
			},
		},
	}
}

func TestEmit_PrettyPrintsByDefault(t *testing.T) {
	out, err := Emit(minimalIR(), "2026-01-01T00:00:00Z", false)
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"id\"")
}

func TestEmit_MinifyProducesSingleLineCompactJSON(t *testing.T) {
	out, err := Emit(minimalIR(), "2026-01-01T00:00:00Z", true)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(out), "\n"))
	assert.False(t, strings.Contains(string(out), "  "))

	var v map[string]any
	require.NoError(t, json.Unmarshal(out, &v))
	assert.Equal(t, "doc-1", v["id"])
}

func TestEmit_PrettyAndMinifyMarshalTheSameData(t *testing.T) {
	doc := minimalIR()
	pretty, err := Emit(doc, "2026-01-01T00:00:00Z", false)
	require.NoError(t, err)
	minified, err := Emit(doc, "2026-01-01T00:00:00Z", true)
	require.NoError(t, err)

	var a, b map[string]any
	require.NoError(t, json.Unmarshal(pretty, &a))
	require.NoError(t, json.Unmarshal(minified, &b))
	assert.Equal(t, a, b)
}

func TestCompiledSchema_CompilesOnce(t *testing.T) {
	sch, err := CompiledSchema()
	require.NoError(t, err)
	require.NotNil(t, sch)

	sch2, err := CompiledSchema()
	require.NoError(t, err)
	assert.Same(t, sch, sch2)
}

func TestValidate_AcceptsEmittedDocument(t *testing.T) {
	sch, err := CompiledSchema()
	require.NoError(t, err)

	out, err := Emit(minimalIR(), "2026-01-01T00:00:00Z", false)
	require.NoError(t, err)

	assert.NoError(t, Validate(sch, out))
}

func TestValidate_RejectsDocumentMissingRequiredField(t *testing.T) {
	sch, err := CompiledSchema()
	require.NoError(t, err)

	assert.Error(t, Validate(sch, []byte(`{"id": "only-an-id"}`)))
}
