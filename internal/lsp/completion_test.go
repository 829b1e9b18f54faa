package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eligian-lang/eligianc/internal/assets"
	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

func completionLabels(list CompletionList) []string {
	labels := make([]string, len(list.Items))
	for i, it := range list.Items {
		labels[i] = it.Label
	}
	return labels
}

func TestCompletion_CSSClass(t *testing.T) {
	src := `import styles "./style.css";
action a() {
	selectElement(".bu");
}
`
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{
		"/proj/style.css": ".button { color: red; } #panel { display: none; }",
	}))
	ws.Assets().RegisterCSSImport("/proj/main.eligian", "/proj/style.css")
	ws.Assets().UpdateCSS("/proj/style.css", assets.CSSMetadata{
		Classes: map[string]bool{"button": true},
		IDs:     map[string]bool{"panel": true},
	})
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	offset := offsetOf(src, `.bu"`) + 3
	pos := offsetToPosition(src, offset)
	list := completion(ws, doc, pos)

	assert.Contains(t, completionLabels(list), ".button")
	assert.NotContains(t, completionLabels(list), "#panel")
}

func TestCompletion_SystemScope_LoopOnlyVarGatedToLoopBody(t *testing.T) {
	src := `action a() {
	for (i in items) {
		endAction(@@lo);
	}
	endAction(@@lo);
}
`
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	insideLoopOffset := offsetOf(src, "@@lo") + 4
	insideLoop := completion(ws, doc, offsetToPosition(src, insideLoopOffset))
	assert.Contains(t, completionLabels(insideLoop), "@@loopIndex")

	outsideLoopOffset := lastOffsetOf(src, "@@lo") + 4
	outsideLoop := completion(ws, doc, offsetToPosition(src, outsideLoopOffset))
	assert.NotContains(t, completionLabels(outsideLoop), "@@loopIndex")
	assert.Contains(t, completionLabels(outsideLoop), "@@elapsedTime")
}

func TestCompletion_EventNameSnippet(t *testing.T) {
	src := "on event \"\n"
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", "action a() {\n}\n")
	doc.Source = src // completion's context sniffing only reads doc.Source

	list := completion(ws, doc, offsetToPosition(src, len(src)-1))
	require.NotEmpty(t, list.Items)
	assert.Equal(t, CompletionItemKindSnippet, list.Items[0].Kind)
}

func TestCompletion_Label(t *testing.T) {
	src := `action a() {
	getLabel("wel");
}
`
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	ws.Assets().RegisterLocalesImport("/proj/main.eligian", "/proj/labels.json")
	ws.Assets().UpdateLocales("/proj/labels.json", assets.LocalesMetadata{
		Keys: map[string]map[string]bool{"welcome.title": {"en-US": true}},
	})
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	offset := offsetOf(src, `"wel`) + 2
	list := completion(ws, doc, offsetToPosition(src, offset))
	assert.Contains(t, completionLabels(list), "welcome.title")
}

func TestCompletion_OperationsAndActions(t *testing.T) {
	src := `action helper() {
}
action a() {
	req();
}
`
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	offset := offsetOf(src, "req") + 3
	list := completion(ws, doc, offsetToPosition(src, offset))
	labels := completionLabels(list)
	assert.Contains(t, labels, "requestAction")
	assert.Contains(t, labels, "helper")
}

func TestCompletion_HTMLDocument(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/layout.html", "<div></div>")

	list := completion(ws, doc, Position{})
	labels := completionLabels(list)
	assert.Contains(t, labels, "div")
	assert.Contains(t, labels, "class")
}
