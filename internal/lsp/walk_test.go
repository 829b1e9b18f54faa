package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eligian-lang/eligianc/internal/parser"
)

const walkFixture = `action greet(name, times: number) {
	requestAction("greeter");
	if (name) {
		startAction({});
	}
	for (i in items) {
		endAction();
	}
}
`

func offsetOf(source, needle string) int {
	i := strings.Index(source, needle)
	if i < 0 {
		panic("needle not found: " + needle)
	}
	return i
}

func lastOffsetOf(source, needle string) int {
	i := strings.LastIndex(source, needle)
	if i < 0 {
		panic("needle not found: " + needle)
	}
	return i
}

func TestCallAtOffset_FindsCallInActionStart(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	offset := offsetOf(walkFixture, `requestAction`) + 2
	call, ok := callAtOffset(root, offset)
	require.True(t, ok)
	assert.Equal(t, "requestAction", call.Callee)
}

func TestCallAtOffset_FindsCallInsideIf(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	offset := offsetOf(walkFixture, `startAction`) + 2
	call, ok := callAtOffset(root, offset)
	require.True(t, ok)
	assert.Equal(t, "startAction", call.Callee)
}

func TestCallAtOffset_FindsCallInsideFor(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	offset := offsetOf(walkFixture, `endAction`) + 2
	call, ok := callAtOffset(root, offset)
	require.True(t, ok)
	assert.Equal(t, "endAction", call.Callee)
}

func TestCallAtOffset_NoneAtOffset(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	_, ok := callAtOffset(root, 0)
	assert.False(t, ok)
}

func TestActionAt_FindsEnclosingAction(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	offset := offsetOf(walkFixture, `startAction`)
	action, ok := actionAt(root, offset)
	require.True(t, ok)
	assert.Equal(t, "greet", action.Name)
}

func TestActionAt_OutsideAnyAction(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	_, ok := actionAt(root, len(walkFixture)-1)
	assert.False(t, ok)
}

func TestEnclosingFor_InsideLoopBody(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	offset := offsetOf(walkFixture, `endAction`)
	f, ok := enclosingFor(root, offset)
	require.True(t, ok)
	assert.Equal(t, "i", f.Var)
}

func TestEnclosingFor_OutsideLoopBody(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	offset := offsetOf(walkFixture, `requestAction`)
	_, ok := enclosingFor(root, offset)
	assert.False(t, ok)
}

func TestActionNames(t *testing.T) {
	root, err := parser.ParseDocument("/proj/main.eligian", walkFixture)
	require.Nil(t, err)

	assert.Equal(t, []string{"greet"}, actionNames(root))
}

func TestActionNames_Library(t *testing.T) {
	src := `library Shared
action helper() {
}
`
	root, err := parser.ParseDocument("/proj/shared.eligian", src)
	require.Nil(t, err)

	assert.Equal(t, []string{"helper"}, actionNames(root))
}
