package lsp

import (
	"fmt"
	"strings"

	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// codeActions implements textDocument/codeAction for the four fixes
// spec.md §6 names: add a missing CSS class/id to its imported file,
// generate a languages block from imported locale files, fix an asset's
// type annotation, and create a missing labels file. Each quick fix reads
// the structured Data a validator diagnostic carries (see
// internal/validator's importInsertPoint/rangeToData and the Data maps
// added to the undefined-reference and invalid-import diagnostics) instead
// of re-deriving it from the source text a second time.
func codeActions(ws *workspace.Workspace, doc *workspace.Document, params CodeActionParams) []CodeAction {
	var actions []CodeAction
	for _, d := range params.Context.Diagnostics {
		switch diagnostics.Code(d.Code) {
		case diagnostics.CodeUndefinedReference:
			if a, ok := addMissingCSSClassAction(ws, doc, d); ok {
				actions = append(actions, a)
			}
			if a, ok := createLabelsFileAction(ws, doc, d); ok {
				actions = append(actions, a)
			}
		case diagnostics.CodeInvalidImport:
			actions = append(actions, fixAssetTypeActions(doc, d)...)
		}
	}
	if a, ok := generateLanguagesBlockAction(ws, doc); ok {
		actions = append(actions, a)
	}
	return actions
}

func addMissingCSSClassAction(ws *workspace.Workspace, doc *workspace.Document, d Diagnostic) (CodeAction, bool) {
	data, ok := d.Data.(map[string]any)
	if !ok {
		return CodeAction{}, false
	}
	name, _ := data["name"].(string)
	cssURI, _ := data["cssFileUri"].(string)
	if name == "" || cssURI == "" {
		return CodeAction{}, false
	}
	text, err := ws.FS().ReadFile(cssURI)
	if err != nil {
		return CodeAction{}, false
	}
	selector := "." + name
	if strings.HasPrefix(name, "#") {
		selector = name
	}
	insertLine := strings.Count(text, "\n")
	rule := fmt.Sprintf("\n%s {\n}\n", selector)
	return CodeAction{
		Title: fmt.Sprintf("Add %q to %s", name, cssURI),
		Kind:  CodeActionKindQuickFix,
		Edit: &WorkspaceEdit{Changes: map[DocumentURI][]TextEdit{
			DocumentURI(cssURI): {{
				Range:   Range{Start: Position{Line: insertLine, Character: 0}, End: Position{Line: insertLine, Character: 0}},
				NewText: rule,
			}},
		}},
	}, true
}

func createLabelsFileAction(ws *workspace.Workspace, doc *workspace.Document, d Diagnostic) (CodeAction, bool) {
	data, ok := d.Data.(map[string]any)
	if !ok {
		return CodeAction{}, false
	}
	key, _ := data["translationKey"].(string)
	if key == "" {
		return CodeAction{}, false
	}
	if len(ws.Assets().TranslationKeys(doc.URI)) > 0 {
		// A locales file is already imported; the fix there is "add the
		// key", not "create a file". No action is offered in that case:
		// this package has no append-key action.
		return CodeAction{}, false
	}
	labelsURI := ws.ResolveImportPath(doc.URI, "./labels.json")
	template := fmt.Sprintf("{\n  %q: {\n    \"en-US\": \"\"\n  }\n}\n", key)
	return CodeAction{
		Title: "Create labels file with a template for this key",
		Kind:  CodeActionKindQuickFix,
		Edit: &WorkspaceEdit{Changes: map[DocumentURI][]TextEdit{
			DocumentURI(labelsURI): {{
				Range:   Range{},
				NewText: template,
			}},
		}},
	}, true
}

func fixAssetTypeActions(doc *workspace.Document, d Diagnostic) []CodeAction {
	data, ok := d.Data.(map[string]any)
	if !ok {
		return nil
	}
	if replace, ok := data["replaceAsType"].(string); ok {
		r := rangeFromData(asIntMap(data["asRange"]))
		return []CodeAction{{
			Title: fmt.Sprintf("Change import type to %q", replace),
			Kind:  CodeActionKindQuickFix,
			Edit: &WorkspaceEdit{Changes: map[DocumentURI][]TextEdit{
				DocumentURI(doc.URI): {{Range: r, NewText: replace}},
			}},
		}}
	}
	if raw, present := data["insertAfter"]; present {
		pos := positionFromData(asIntMap(raw))
		options := asStringSlice(data["options"])
		var actions []CodeAction
		for _, opt := range options {
			actions = append(actions, CodeAction{
				Title: fmt.Sprintf("Annotate import as %q", opt),
				Kind:  CodeActionKindQuickFix,
				Edit: &WorkspaceEdit{Changes: map[DocumentURI][]TextEdit{
					DocumentURI(doc.URI): {{Range: Range{Start: pos, End: pos}, NewText: " as " + opt}},
				}},
			})
		}
		return actions
	}
	return nil
}

// asIntMap coerces a Data sub-value that internal/validator populated as
// map[string]int (importInsertPoint/rangeToData) back into the same shape
// regardless of how it reached this package. A diagnostic built directly
// in-process (as the test fixtures do) keeps its concrete map[string]int;
// one that crossed the real textDocument/codeAction wire was JSON-marshaled
// by the server and JSON-unmarshaled by the jsonrpc2 transport on the way
// back, which always decodes a nested object as map[string]interface{} and
// every number as float64 -- so both shapes have to be accepted here.
func asIntMap(v any) map[string]int {
	out := map[string]int{}
	switch m := v.(type) {
	case map[string]int:
		for k, n := range m {
			out[k] = n
		}
	case map[string]interface{}:
		for k, n := range m {
			if f, ok := n.(float64); ok {
				out[k] = int(f)
			}
		}
	}
	return out
}

// asStringSlice is asIntMap's counterpart for the "options" payload: a
// []string built in-process, or the []interface{} of strings that the same
// JSON round trip produces.
func asStringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return s
	case []interface{}:
		out := make([]string, 0, len(s))
		for _, el := range s {
			if str, ok := el.(string); ok {
				out = append(out, str)
			}
		}
		return out
	default:
		return nil
	}
}

func generateLanguagesBlockAction(ws *workspace.Workspace, doc *workspace.Document) (CodeAction, bool) {
	if doc.Root == nil {
		return CodeAction{}, false
	}
	prog, ok := doc.Program()
	if !ok || prog.Languages != nil {
		return CodeAction{}, false
	}
	codes := ws.Assets().LocaleCodes(doc.URI)
	if len(codes) == 0 {
		return CodeAction{}, false
	}
	var sb strings.Builder
	sb.WriteString("languages {\n")
	for i, code := range codes {
		marker, sep := "", ","
		if i == 0 {
			marker = "* "
		}
		if i == len(codes)-1 {
			sep = ""
		}
		fmt.Fprintf(&sb, "  %s%s%s\n", marker, code, sep)
	}
	sb.WriteString("}\n\n")
	return CodeAction{
		Title: "Generate languages block from imported locale files",
		Kind:  CodeActionKindSource,
		Edit: &WorkspaceEdit{Changes: map[DocumentURI][]TextEdit{
			DocumentURI(doc.URI): {{
				Range:   Range{Start: Position{Line: 0, Character: 0}, End: Position{Line: 0, Character: 0}},
				NewText: sb.String(),
			}},
		}},
	}, true
}

func positionFromData(m map[string]int) Position {
	return Position{Line: maxZero(m["line"] - 1), Character: m["column"]}
}

func rangeFromData(m map[string]int) Range {
	return Range{
		Start: Position{Line: maxZero(m["startLine"] - 1), Character: m["startColumn"]},
		End:   Position{Line: maxZero(m["endLine"] - 1), Character: m["endColumn"]},
	}
}

func maxZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
