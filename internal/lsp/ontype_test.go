package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

func TestOnTypeFormat_InsertsJSDocTemplateAboveAction(t *testing.T) {
	src := "/**\naction greet(name, times: number) {\n}\n"
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", src)
	require.NotNil(t, doc.Root)

	pos := Position{Line: 0, Character: 3}
	edits := onTypeFormat(doc, pos, "*")
	require.Len(t, edits, 1)
	assert.Contains(t, edits[0].NewText, "@param {any} name")
	assert.Contains(t, edits[0].NewText, "@param {number} times")
	assert.Equal(t, pos, edits[0].Range.Start)
	assert.Equal(t, pos, edits[0].Range.End)
}

func TestOnTypeFormat_WrongTriggerCharacter(t *testing.T) {
	src := "/**\naction greet() {\n}\n"
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", src)

	edits := onTypeFormat(doc, Position{Line: 0, Character: 3}, "/")
	assert.Nil(t, edits)
}

func TestOnTypeFormat_LineNotJustSlashStarStar(t *testing.T) {
	src := "/** some text\naction greet() {\n}\n"
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", src)

	edits := onTypeFormat(doc, Position{Line: 0, Character: 13}, "*")
	assert.Nil(t, edits)
}

func TestOnTypeFormat_NoActionImmediatelyBelow(t *testing.T) {
	src := "/**\n\naction greet() {\n}\n"
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/main.eligian", src)

	edits := onTypeFormat(doc, Position{Line: 0, Character: 3}, "*")
	assert.Nil(t, edits)
}

func TestOnTypeFormat_NilRoot(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	doc := ws.Update("/proj/broken.eligian", "!!! invalid")

	edits := onTypeFormat(doc, Position{Line: 0, Character: 0}, "*")
	assert.Nil(t, edits)
}
