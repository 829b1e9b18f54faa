package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

func TestDocumentLinks_StylesImportLinksResolvedAsset(t *testing.T) {
	src := `import styles "./style.css";
action a() {}
`
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{"/proj/style.css": ""}))
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	links := documentLinks(ws, doc)
	require.Len(t, links, 1)
	assert.Equal(t, "/proj/style.css", links[0].Target)
	assert.Empty(t, links[0].Tooltip)
}

func TestDocumentLinks_LocalesImportLinksLocaleEditorURI(t *testing.T) {
	src := `import locales "./labels.json";
action a() {}
`
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{"/proj/labels.json": "{}"}))
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	links := documentLinks(ws, doc)
	require.Len(t, links, 1)
	assert.Equal(t, "eligian-locale-editor:/proj/labels.json", links[0].Target)
	assert.Equal(t, "Open in locale editor", links[0].Tooltip)
}

func TestDocumentLinks_NamedImportSkipped(t *testing.T) {
	src := `import { helper } from "./lib.eligian";
action a() {}
`
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{"/proj/lib.eligian": "library Lib\n"}))
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	links := documentLinks(ws, doc)
	assert.Empty(t, links)
}

func TestDocumentLinks_NilRoot(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/broken.eligian", "!!! not valid")
	require.Nil(t, doc.Root)

	assert.Nil(t, documentLinks(ws, doc))
}

func TestDocumentLinks_LibraryImports(t *testing.T) {
	src := `library Shared
import styles "./style.css";
action helper() {}
`
	ws := workspace.NewWorkspace(fs.MockFS(map[string]string{"/proj/style.css": ""}))
	doc := ws.Update("/proj/shared.eligian", src)
	require.NotNil(t, doc.Root)
	require.True(t, doc.IsLibrary())

	links := documentLinks(ws, doc)
	require.Len(t, links, 1)
	assert.Equal(t, "/proj/style.css", links[0].Target)
}
