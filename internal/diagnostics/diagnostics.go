// Package diagnostics defines the compiler's error taxonomy and the
// caret-anchored renderer used by both the CLI and the editor-facing
// services. Every stage of the pipeline reports failures as a Diagnostic
// instead of a Go error so that one document's parse failure never aborts
// the rest of the workspace build.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/eligian-lang/eligianc/internal/ast"
)

type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Code is the fixed, stable taxonomy from the specification's error design.
// CLI output and editor quick-fixes both switch on Code rather than on the
// message text.
type Code string

const (
	// Parser
	CodeSyntaxError Code = "syntax_error"

	// Validator ("kind" values of ValidationError)
	CodeUndefinedReference      Code = "undefined_reference"
	CodeDuplicateDefinition     Code = "duplicate_definition"
	CodeInvalidScope            Code = "invalid_scope"
	CodeMissingRequiredField    Code = "missing_required_field"
	CodeTimelineRequired        Code = "timeline_required"
	CodeUniqueEventIds          Code = "unique_event_ids"
	CodeValidTimeRange          Code = "valid_time_range"
	CodeNonNegativeTimes        Code = "non_negative_times"
	CodeValidActionType         Code = "valid_action_type"
	CodeTargetRequired          Code = "target_required"
	CodeValidSelector           Code = "valid_selector"
	CodeActionNotDefined        Code = "action_not_defined"
	CodeParameterArityMismatch  Code = "parameter_arity_mismatch"
	CodeActionNameBuiltinConflict Code = "action_name_builtin_conflict"

	// Type system
	CodeTypeMismatch Code = "type_mismatch"

	// Transformer
	CodeUnknownNode        Code = "unknown_node"
	CodeInvalidTimeline    Code = "invalid_timeline"
	CodeInvalidEvent       Code = "invalid_event"
	CodeInvalidAction      Code = "invalid_action"
	CodeInvalidExpression  Code = "invalid_expression"
	CodeInvalidImport      Code = "invalid_import"
	CodeCircularImport     Code = "circular_import"

	// Constant folding
	CodeCircularDependency Code = "circular_dependency"
	CodeDivisionByZero     Code = "division_by_zero"

	// Assets / I/O
	CodeHtmlImportError  Code = "html_import_error"
	CodeCssImportError   Code = "css_import_error"
	CodeCssParseError    Code = "css_parse_error"
	CodeMediaImportError Code = "media_import_error"
	CodeFileNotFound     Code = "file_not_found"
	CodePermissionError  Code = "permission_error"
	CodeReadError        Code = "read_error"
	CodeSecurityError    Code = "security_error"

	CodeEmitError Code = "emit_error"
)

// Location pinpoints a diagnostic within a single document. Column is
// 0-based in bytes, matching the lexer's token positions.
type Location struct {
	URI      string
	Line     int // 1-based
	Column   int // 0-based
	Length   int
	LineText string
}

// Diagnostic is the sum-typed error every pipeline stage reports through.
// Data carries the structured quick-fix payload described by the
// specification (e.g. the resolved path of a labels file to scaffold).
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Location Location
	Hint     string
	Data     map[string]any
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.Location.URI, d.Location.Line, d.Location.Column, d.Severity, d.Message)
}

// Bag collects diagnostics for a single document build. It is not safe for
// concurrent use; the single-threaded build pipeline owns one per document.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Errorf(loc Location, code Code, format string, args ...any) {
	b.Add(Diagnostic{Severity: SeverityError, Code: code, Message: fmt.Sprintf(format, args...), Location: loc})
}

func (b *Bag) Warnf(loc Location, code Code, format string, args ...any) {
	b.Add(Diagnostic{Severity: SeverityWarning, Code: code, Message: fmt.Sprintf(format, args...), Location: loc})
}

func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

func (b *Bag) All() []Diagnostic { return b.items }

// LocationFromRange converts an ast.Range into a Location, pulling the
// offending line out of source for the caret-anchored snippet. Every later
// pipeline stage (constant folder, validator, transformer) shares this
// instead of each re-deriving line text from byte offsets.
func LocationFromRange(uri, source string, r ast.Range) Location {
	return Location{
		URI:      uri,
		Line:     r.Start.Line,
		Column:   r.Start.Column,
		Length:   maxInt(1, r.End.Offset-r.Start.Offset),
		LineText: lineTextAt(source, r.Start.Offset),
	}
}

func lineTextAt(source string, offset int) string {
	if offset > len(source) {
		offset = len(source)
	}
	start := offset
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(source) && source[end] != '\n' {
		end++
	}
	return source[start:end]
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Format renders a single diagnostic the way the CLI prints it to stderr:
// file:line:col: severity: message, followed by a caret-anchored snippet of
// the offending source line and an optional hint.
func Format(d Diagnostic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: %s: %s\n", d.Location.URI, d.Location.Line, d.Location.Column+1, d.Severity, d.Message)

	if d.Location.LineText != "" {
		sb.WriteString("  " + d.Location.LineText + "\n")
		col := d.Location.Column
		if col < 0 {
			col = 0
		}
		if col > len(d.Location.LineText) {
			col = len(d.Location.LineText)
		}
		length := d.Location.Length
		if length < 1 {
			length = 1
		}
		sb.WriteString("  " + strings.Repeat(" ", col) + strings.Repeat("^", length) + "\n")
	}

	if d.Hint != "" {
		fmt.Fprintf(&sb, "  hint: %s\n", d.Hint)
	}
	return sb.String()
}

// FormatAll renders a whole bag in source order, suitable for writing
// directly to stderr.
func FormatAll(items []Diagnostic) string {
	var sb strings.Builder
	for _, d := range items {
		sb.WriteString(Format(d))
	}
	return sb.String()
}
