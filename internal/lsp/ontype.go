package lsp

import (
	"fmt"
	"strings"

	"github.com/eligian-lang/eligianc/internal/ast"
	"github.com/eligian-lang/eligianc/internal/parser"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// OnTypeFormattingTriggerCharacters is the set this server registers during
// initialize for textDocument/onTypeFormatting -- just "*", matching the
// single trigger spec.md §6 describes (typing the second "*" of "/**").
var OnTypeFormattingTriggerCharacters = []string{"*"}

// onTypeFormat implements textDocument/onTypeFormatting for the one case
// spec.md §6 names: completing "/**" on its own line immediately above an
// action declaration inserts a JSDoc template with one @param line per
// declared parameter. Returns nil for every other position, the same
// "silently do nothing outside the one recognized shape" contract hover and
// completion follow.
func onTypeFormat(doc *workspace.Document, pos Position, ch string) []TextEdit {
	if ch != "*" || doc.Root == nil {
		return nil
	}
	offset := positionToOffset(doc.Source, pos)
	lineStart := strings.LastIndexByte(doc.Source[:offset], '\n') + 1
	lineEnd := offset
	for lineEnd < len(doc.Source) && doc.Source[lineEnd] != '\n' {
		lineEnd++
	}
	line := strings.TrimSpace(doc.Source[lineStart:lineEnd])
	if line != "/**" {
		return nil
	}

	action, ok := nextActionAfterLine(doc.Root, pos.Line)
	if !ok {
		// An unterminated "/**" comments out the rest of the file, so look
		// the action up again in a copy of the source with that line blanked.
		blanked := doc.Source[:lineStart] + strings.Repeat(" ", lineEnd-lineStart) + doc.Source[lineEnd:]
		root, err := parser.ParseDocument(doc.URI, blanked)
		if err != nil {
			return nil
		}
		if action, ok = nextActionAfterLine(root, pos.Line); !ok {
			return nil
		}
	}

	indent := leadingWhitespace(doc.Source[lineStart:offset])
	var sb strings.Builder
	for _, p := range action.Params {
		typ := p.Type
		if typ == "" {
			typ = "any"
		}
		fmt.Fprintf(&sb, "\n%s * @param {%s} %s", indent, typ, p.Name)
	}
	fmt.Fprintf(&sb, "\n%s ", indent)

	return []TextEdit{{
		Range:   Range{Start: pos, End: pos},
		NewText: sb.String(),
	}}
}

// nextActionAfterLine finds the ActionDecl whose declaration starts on the
// line immediately following lineNum (0-based), the "comment directly above
// the action it documents" convention the JSDoc trigger assumes.
func nextActionAfterLine(root ast.Document, lineNum int) (*ast.ActionDecl, bool) {
	var actions []*ast.ActionDecl
	switch r := root.(type) {
	case *ast.Program:
		actions = r.Actions
	case *ast.Library:
		actions = r.Actions
	}
	for _, a := range actions {
		if a.Range.Start.Line-1 == lineNum+1 {
			return a, true
		}
	}
	return nil, false
}

func leadingWhitespace(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[:i]
}
