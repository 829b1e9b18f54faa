package lsp

import (
	"fmt"
	"strings"

	"github.com/eligian-lang/eligianc/internal/registry"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// hover implements textDocument/hover for an operation call: markdown built
// from the signature's description, parameters (required/optional and
// kind), and requires/provides lists, exactly the content spec.md §6 lists
// for hover. Returns nil if the position isn't inside a known call.
func hover(doc *workspace.Document, pos Position) *Hover {
	if doc.Root == nil {
		return nil
	}
	offset := positionToOffset(doc.Source, pos)
	call, ok := callAtOffset(doc.Root, offset)
	if !ok {
		return nil
	}
	sig, ok := registry.Default().Lookup(call.Callee)
	if !ok {
		return nil
	}
	return &Hover{Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: renderSignature(sig)}}
}

func renderSignature(sig registry.Signature) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**\n\n%s\n", sig.Name, sig.Description)

	if len(sig.Params) > 0 {
		sb.WriteString("\n**Parameters**\n")
		for _, p := range sig.Params {
			req := "optional"
			if p.Required {
				req = "required"
			}
			fmt.Fprintf(&sb, "- `%s` (%s, %s)", p.Name, paramKindName(p.Kind), req)
			if p.Description != "" {
				fmt.Fprintf(&sb, " -- %s", p.Description)
			}
			sb.WriteString("\n")
		}
	}
	if len(sig.Dependencies) > 0 {
		fmt.Fprintf(&sb, "\n**Requires:** %s\n", strings.Join(sig.Dependencies, ", "))
	}
	if len(sig.Outputs) > 0 {
		fmt.Fprintf(&sb, "\n**Provides:** %s\n", strings.Join(sig.Outputs, ", "))
	}
	return sb.String()
}

func paramKindName(k registry.ParamKind) string {
	switch k {
	case registry.KindString:
		return "string"
	case registry.KindNumber:
		return "number"
	case registry.KindBoolean:
		return "boolean"
	case registry.KindObject:
		return "object"
	case registry.KindArray:
		return "array"
	case registry.KindEnum:
		return "enum"
	case registry.KindTranslationKeyList:
		return "translation keys"
	case registry.KindCSSSelector:
		return "CSS selector"
	case registry.KindCSSClassOrId:
		return "CSS class or id"
	default:
		return "unknown"
	}
}
