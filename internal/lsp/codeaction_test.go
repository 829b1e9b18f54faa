package lsp

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eligian-lang/eligianc/internal/assets"
	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// roundTripData simulates what a real textDocument/codeAction request
// actually carries: the server marshals Diagnostic.Data to JSON for the
// client, the client echoes the diagnostic back, and jsonrpc2 unmarshals it
// into map[string]any again -- which always yields nested map[string]any
// and float64 numbers, never the concrete map[string]int a test can build
// by hand in-process.
func roundTripData(t *testing.T, data map[string]any) map[string]any {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func assetLocalesWithKey(key string) assets.LocalesMetadata {
	return assets.LocalesMetadata{Keys: map[string]map[string]bool{key: {"en-US": true}}}
}

func TestAddMissingCSSClassAction(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{
		"/proj/style.css": ".existing { color: red; }\n",
	}))
	doc := ws.Update("/proj/main.eligian", `import styles "./style.css";`)

	d := Diagnostic{Data: map[string]any{"name": "missing", "cssFileUri": "/proj/style.css"}}
	action, ok := addMissingCSSClassAction(ws, doc, d)
	require.True(t, ok)
	assert.Equal(t, CodeActionKindQuickFix, action.Kind)
	edits := action.Edit.Changes[DocumentURI("/proj/style.css")]
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].NewText, ".missing {")
}

func TestAddMissingCSSClassAction_IDSelector(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{
		"/proj/style.css": "",
	}))
	doc := ws.Update("/proj/main.eligian", `import styles "./style.css";`)

	d := Diagnostic{Data: map[string]any{"name": "#panel", "cssFileUri": "/proj/style.css"}}
	action, ok := addMissingCSSClassAction(ws, doc, d)
	require.True(t, ok)
	edits := action.Edit.Changes[DocumentURI("/proj/style.css")]
	assert.Contains(t, edits[0].NewText, "#panel {")
}

func TestAddMissingCSSClassAction_MissingData(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", `action a() {\n}`)

	_, ok := addMissingCSSClassAction(ws, doc, Diagnostic{})
	assert.False(t, ok)
}

func TestAddMissingCSSClassAction_FileUnreadable(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", `action a() {}`)

	d := Diagnostic{Data: map[string]any{"name": "missing", "cssFileUri": "/proj/nope.css"}}
	_, ok := addMissingCSSClassAction(ws, doc, d)
	assert.False(t, ok)
}

func TestCreateLabelsFileAction(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", `action a() {}`)

	d := Diagnostic{Data: map[string]any{"translationKey": "welcome.title"}}
	action, ok := createLabelsFileAction(ws, doc, d)
	require.True(t, ok)
	assert.Equal(t, "/proj/labels.json", ws.ResolveImportPath(doc.URI, "./labels.json"))
	edits := action.Edit.Changes[DocumentURI("/proj/labels.json")]
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].NewText, "welcome.title")
}

func TestCreateLabelsFileAction_SkippedWhenLocalesAlreadyImported(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	ws.Assets().RegisterLocalesImport("/proj/main.eligian", "/proj/labels.json")
	ws.Assets().UpdateLocales("/proj/labels.json", assetLocalesWithKey("other.key"))
	doc := ws.Update("/proj/main.eligian", `action a() {}`)

	d := Diagnostic{Data: map[string]any{"translationKey": "welcome.title"}}
	_, ok := createLabelsFileAction(ws, doc, d)
	assert.False(t, ok)
}

func TestFixAssetTypeActions_ReplaceAsType(t *testing.T) {
	doc := &workspace.Document{URI: "/proj/main.eligian"}
	d := Diagnostic{Data: map[string]any{
		"replaceAsType": "layout",
		"asRange":       map[string]int{"startLine": 1, "startColumn": 10, "endLine": 1, "endColumn": 16},
	}}
	actions := fixAssetTypeActions(doc, d)
	require.Len(t, actions, 1)
	assert.Equal(t, `Change import type to "layout"`, actions[0].Title)
	edits := actions[0].Edit.Changes[DocumentURI(doc.URI)]
	require.Len(t, edits, 1)
	assert.Equal(t, "layout", edits[0].NewText)
	assert.Equal(t, 0, edits[0].Range.Start.Line)
}

func TestFixAssetTypeActions_AmbiguousInsertAfter(t *testing.T) {
	doc := &workspace.Document{URI: "/proj/main.eligian"}
	d := Diagnostic{Data: map[string]any{
		"insertAfter": map[string]int{"line": 2, "column": 20},
		"options":     []string{"styles", "layout"},
	}}
	actions := fixAssetTypeActions(doc, d)
	require.Len(t, actions, 2)
	assert.Equal(t, `Annotate import as "styles"`, actions[0].Title)
	assert.Equal(t, `Annotate import as "layout"`, actions[1].Title)
}

func TestFixAssetTypeActions_ReplaceAsType_OverJSONRoundTrip(t *testing.T) {
	doc := &workspace.Document{URI: "/proj/main.eligian"}
	d := Diagnostic{Data: roundTripData(t, map[string]any{
		"replaceAsType": "layout",
		"asRange":       map[string]int{"startLine": 1, "startColumn": 10, "endLine": 1, "endColumn": 16},
	})}
	actions := fixAssetTypeActions(doc, d)
	require.Len(t, actions, 1)
	edits := actions[0].Edit.Changes[DocumentURI(doc.URI)]
	require.Len(t, edits, 1)
	assert.Equal(t, "layout", edits[0].NewText)
	assert.Equal(t, 0, edits[0].Range.Start.Line)
	assert.Equal(t, 10, edits[0].Range.Start.Character)
	assert.Equal(t, 16, edits[0].Range.End.Character)
}

func TestFixAssetTypeActions_AmbiguousInsertAfter_OverJSONRoundTrip(t *testing.T) {
	doc := &workspace.Document{URI: "/proj/main.eligian"}
	d := Diagnostic{Data: roundTripData(t, map[string]any{
		"insertAfter": map[string]int{"line": 2, "column": 20},
		"options":     []string{"styles", "layout"},
	})}
	actions := fixAssetTypeActions(doc, d)
	require.Len(t, actions, 2)
	assert.Equal(t, `Annotate import as "styles"`, actions[0].Title)
	assert.Equal(t, `Annotate import as "layout"`, actions[1].Title)
	edits := actions[0].Edit.Changes[DocumentURI(doc.URI)]
	require.Len(t, edits, 1)
	assert.Equal(t, 1, edits[0].Range.Start.Line)
	assert.Equal(t, 20, edits[0].Range.Start.Character)
}

func TestFixAssetTypeActions_NoRecognizedData(t *testing.T) {
	doc := &workspace.Document{URI: "/proj/main.eligian"}
	actions := fixAssetTypeActions(doc, Diagnostic{})
	assert.Nil(t, actions)
}

func TestGenerateLanguagesBlockAction(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	ws.Assets().RegisterLocalesImport("/proj/main.eligian", "/proj/labels.json")
	ws.Assets().UpdateLocales("/proj/labels.json", assetLocalesWithKey("welcome.title"))
	doc := ws.Update("/proj/main.eligian", `import { foo } from "./other.eligian";
action a() {}
`)
	require.NotNil(t, doc.Root)

	action, ok := generateLanguagesBlockAction(ws, doc)
	require.True(t, ok)
	assert.Equal(t, CodeActionKindSource, action.Kind)
	edits := action.Edit.Changes[DocumentURI(doc.URI)]
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].NewText, "languages {")
	assert.Contains(t, edits[0].NewText, "* en-US")
}

func TestGenerateLanguagesBlockAction_SkippedWhenLanguagesBlockPresent(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	ws.Assets().RegisterLocalesImport("/proj/main.eligian", "/proj/labels.json")
	ws.Assets().UpdateLocales("/proj/labels.json", assetLocalesWithKey("welcome.title"))
	doc := ws.Update("/proj/main.eligian", `languages { * en-US }
action a() {}
`)
	require.NotNil(t, doc.Root)

	_, ok := generateLanguagesBlockAction(ws, doc)
	assert.False(t, ok)
}

func TestGenerateLanguagesBlockAction_SkippedWithoutLocales(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", `action a() {}`)
	require.NotNil(t, doc.Root)

	_, ok := generateLanguagesBlockAction(ws, doc)
	assert.False(t, ok)
}

func TestCodeActions_DispatchesByDiagnosticCode(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{
		"/proj/style.css": "",
	}))
	ws.Assets().RegisterCSSImport("/proj/main.eligian", "/proj/style.css")
	doc := ws.Update("/proj/main.eligian", `import styles "./style.css";`)

	params := CodeActionParams{
		Context: CodeActionContext{Diagnostics: []Diagnostic{
			{Code: "undefined_reference", Data: map[string]any{"name": "missing", "cssFileUri": "/proj/style.css"}},
		}},
	}
	actions := codeActions(ws, doc, params)
	require.NotEmpty(t, actions)
}
