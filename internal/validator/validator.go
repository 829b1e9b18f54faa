// Package validator runs semantic validation over a parsed document,
// producing the fixed diagnostic taxonomy the specification defines. It is
// the one package allowed to depend on workspace, assets, types and
// registry together, since orchestrating all four is exactly what semantic
// validation requires; workspace itself stays ignorant of validation rules
// by design (see DESIGN.md).
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/eligian-lang/eligianc/internal/assets"
	"github.com/eligian-lang/eligianc/internal/ast"
	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/registry"
	"github.com/eligian-lang/eligianc/internal/types"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

// knownExtensions maps a recognized file extension to the asset kind it
// unambiguously implies; extensions absent from this map (or present with
// more than one plausible kind, like ".ogg" covering both audio and video)
// require an explicit "as <type>" override on the import statement.
var knownExtensions = map[string]string{
	".css":  "styles",
	".html": "layout",
	".htm":  "layout",
	".json": "locales",
}

var ambiguousExtensions = map[string]bool{
	".ogg": true,
}

var languageCodePattern = regexp.MustCompile(`^[a-z]{2}-[A-Z]{2}$`)

// BuildAll validates entryURI and, transitively and depth-first, every
// document it imports (named library imports and nested library imports),
// the way spec.md §4.2 describes: "each imported library is loaded ...
// and its parse+validate+export steps are triggered so the index is
// complete before reference linking." A library cycle is reported at the
// import site instead of recursing forever, matching §5's "cycles in
// library imports are a parse/link error, not a hang." visit reports
// whether uri was already on the current import chain (a cycle) so
// validateNamedImport can attach CodeCircularImport to the offending
// import statement instead of resolving silently.
func BuildAll(ws *workspace.Workspace, entryURI string) map[string]*diagnostics.Bag {
	results := map[string]*diagnostics.Bag{}
	visiting := map[string]bool{}

	var visit func(uri string) bool
	visit = func(uri string) bool {
		if visiting[uri] {
			return true
		}
		if _, done := results[uri]; done {
			return false
		}
		visiting[uri] = true
		defer delete(visiting, uri)

		bag := &diagnostics.Bag{}
		results[uri] = bag

		doc, err := ws.EnsureLoaded(uri)
		if err != nil {
			bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeFileNotFound,
				Message:  fmt.Sprintf("cannot read %q: %v", uri, err),
			})
			return false
		}
		if doc.Root == nil {
			if doc.ParseError != nil {
				bag.Add(doc.ParseError.Diagnostic)
			}
			return false
		}

		v := &docValidator{ws: ws, doc: doc, bag: bag, visitImport: visit}
		v.run()
		return false
	}

	visit(entryURI)
	return results
}

type docValidator struct {
	ws          *workspace.Workspace
	doc         *workspace.Document
	bag         *diagnostics.Bag
	visitImport func(uri string) bool

	// importOrder records CSS asset URIs in the order their import
	// statements appear in source, so FirstImportedCSS can resolve the
	// "first in source" quick-fix target (DESIGN.md Open Question
	// decision 2) without the asset registry itself needing to track
	// per-document ordering.
	importOrder []string
}

func (v *docValidator) loc(r ast.Range) diagnostics.Location {
	return diagnostics.LocationFromRange(v.doc.URI, v.doc.Source, r)
}

func (v *docValidator) run() {
	switch root := v.doc.Root.(type) {
	case *ast.Program:
		v.validateProgram(root)
	case *ast.Library:
		v.validateLibrary(root)
	}
}

func (v *docValidator) validateProgram(p *ast.Program) {
	if p.Languages != nil {
		v.validateLanguages(p.Languages)
	}
	v.validateImports(p.Imports)
	v.validateActionNames(p.Actions)
	for _, a := range p.Actions {
		v.validateAction(a)
	}
	for _, ea := range p.EventActions {
		v.validateEventAction(ea)
	}
	if len(p.Timelines) == 0 {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeTimelineRequired,
			Message:  "a program must declare at least one timeline",
			Location: v.loc(p.Range),
		})
	}
	for _, tl := range p.Timelines {
		v.validateTimeline(tl)
	}
}

func (v *docValidator) validateLibrary(l *ast.Library) {
	v.validateImports(l.Imports)
	v.validateActionNames(l.Actions)
	for _, a := range l.Actions {
		v.validateAction(a)
	}
}

func (v *docValidator) validateActionNames(actions []*ast.ActionDecl) {
	seen := map[string]ast.Range{}
	ops := registry.Default()
	for _, a := range actions {
		if _, ok := seen[a.Name]; ok {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeDuplicateDefinition,
				Message:  fmt.Sprintf("action %q is already defined in this file", a.Name),
				Location: v.loc(a.Range),
			})
			continue
		}
		seen[a.Name] = a.Range
		if _, isBuiltin := ops.Lookup(a.Name); isBuiltin {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeActionNameBuiltinConflict,
				Message:  fmt.Sprintf("action %q collides with a built-in operation name", a.Name),
				Location: v.loc(a.Range),
			})
		}
	}
}

func (v *docValidator) validateLanguages(lb *ast.LanguagesBlock) {
	defaults := 0
	seen := map[string]bool{}
	for _, lang := range lb.Languages {
		if !languageCodePattern.MatchString(lang.Code) {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeMissingRequiredField,
				Message:  fmt.Sprintf("language code %q must match the xx-XX pattern", lang.Code),
				Location: v.loc(lang.Range),
			})
		}
		if seen[lang.Code] {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeDuplicateDefinition,
				Message:  fmt.Sprintf("language %q is declared more than once", lang.Code),
				Location: v.loc(lang.Range),
			})
		}
		seen[lang.Code] = true
		if lang.Default {
			defaults++
		}
	}
	switch {
	case len(lb.Languages) == 1 && !lb.Languages[0].Default:
		// A single language is implicitly the default; nothing to report.
	case len(lb.Languages) > 1 && defaults != 1:
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeMissingRequiredField,
			Message:  "exactly one language must be marked default when more than one is declared",
			Location: v.loc(lb.Range),
		})
	}
}

func (v *docValidator) validateTimeline(tl *ast.TimelineDecl) {
	if !assets.ValidSelectorSyntax(tl.Selector) {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeValidSelector,
			Message:  "invalid CSS selector syntax",
			Location: v.loc(tl.Range),
		})
	}
	seenIDs := map[string]bool{}
	for _, ev := range tl.Events {
		v.validateTimelineEvent(ev, seenIDs)
	}
}

func (v *docValidator) validateTimelineEvent(ev ast.TimelineEvent, seenIDs map[string]bool) {
	switch e := ev.(type) {
	case *ast.TimedEvent:
		start, startOK := constNumber(e.Start)
		end, endOK := constNumber(e.End)
		if startOK && start < 0 {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeNonNegativeTimes,
				Message:  "timed event start must not be negative",
				Location: v.loc(e.Range),
			})
		}
		if startOK && endOK && start > end {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeValidTimeRange,
				Message:  "timed event start must not be after its end",
				Location: v.loc(e.Range),
			})
		}
		v.validateStmts(e.StartOps, types.NewScope(nil))
		v.validateStmts(e.EndOps, types.NewScope(nil))
	case *ast.SequenceEvent:
		if d, ok := constNumber(e.Duration); ok && d <= 0 {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeValidTimeRange,
				Message:  "sequence duration must be positive",
				Location: v.loc(e.Range),
			})
		}
		v.validateStmts(e.Body, types.NewScope(nil))
	case *ast.StaggerEvent:
		if d, ok := constNumber(e.DelayMs); ok && d <= 0 {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeValidTimeRange,
				Message:  "stagger delay must be positive",
				Location: v.loc(e.Range),
			})
		}
		v.validateCall(e.Action, types.NewScope(nil))
	}
}

func constNumber(e ast.Expr) (float64, bool) {
	switch v := e.(type) {
	case *ast.NumberLit:
		return v.Value, true
	case *ast.TimeLit:
		return v.ValueSeconds, true
	default:
		return 0, false
	}
}

func (v *docValidator) validateEventAction(ea *ast.EventActionDecl) {
	events := registry.DefaultEvents()
	sig, ok := events.Lookup(ea.EventName)
	if !ok {
		hint := ""
		if s, found := assets.Suggest(ea.EventName, events.Names()); found {
			hint = fmt.Sprintf("did you mean %q?", s)
		}
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeUndefinedReference,
			Message:  fmt.Sprintf("unknown event %q", ea.EventName),
			Location: v.loc(ea.EventRange),
			Hint:     hint,
		})
	} else if sig.ProvidesArgs != len(ea.Params) {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityWarning,
			Code:     diagnostics.CodeParameterArityMismatch,
			Message:  fmt.Sprintf("event %q provides %d argument(s) but handler %q declares %d", ea.EventName, sig.ProvidesArgs, ea.HandlerName, len(ea.Params)),
			Location: v.loc(ea.Range),
		})
	}

	scope := types.NewScope(nil)
	for _, p := range ea.Params {
		scope.Declare(p.Name, types.FromParamType(p.Type))
	}
	v.validateStmts(ea.Body, scope)
}

func (v *docValidator) validateAction(a *ast.ActionDecl) {
	scope := types.NewScope(nil)
	for _, p := range a.Params {
		scope.Declare(p.Name, types.FromParamType(p.Type))
	}
	v.validateStmts(a.Start, scope)
	if a.Endable {
		v.validateStmts(a.End, scope)
	}
}

func (v *docValidator) validateStmts(stmts []ast.Stmt, scope *types.Scope) {
	for _, s := range stmts {
		v.validateStmt(s, scope)
	}
}

func (v *docValidator) validateStmt(s ast.Stmt, scope *types.Scope) {
	switch st := s.(type) {
	case *ast.OperationStmt:
		v.validateCall(st.Call, scope)
	case *ast.IfStmt:
		if t := types.Infer(st.Cond, scope); t != types.Boolean && t != types.Unknown {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarning,
				Code:     diagnostics.CodeTypeMismatch,
				Message:  "if condition should be boolean",
				Location: v.loc(st.Range),
			})
		}
		if len(st.Then) == 0 {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarning,
				Code:     diagnostics.CodeMissingRequiredField,
				Message:  "empty if body",
				Location: v.loc(st.Range),
			})
		}
		v.validateStmts(st.Then, types.NewScope(scope))
		v.validateStmts(st.Else, types.NewScope(scope))
	case *ast.ForStmt:
		if t := types.Infer(st.Collection, scope); t != types.Array && t != types.Unknown {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeTypeMismatch,
				Message:  "for loop collection must be an array",
				Location: v.loc(st.Range),
			})
		}
		if len(st.Body) == 0 {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarning,
				Code:     diagnostics.CodeMissingRequiredField,
				Message:  "empty for body",
				Location: v.loc(st.Range),
			})
		}
		inner := types.NewScope(scope)
		inner.Declare(st.Var, types.Unknown)
		v.validateStmts(st.Body, inner)
	}
}

func (v *docValidator) validateCall(call ast.CallExpr, scope *types.Scope) {
	for _, arg := range call.Args {
		if nested, ok := arg.(*ast.CallExpr); ok {
			v.validateCall(*nested, scope)
		}
	}

	ops := registry.Default()
	if sig, ok := ops.Lookup(call.Callee); ok {
		v.validateArity(call, len(sig.Params), requiredCount(sig.Params))
		v.validateStringArgs(call, sig)
		return
	}

	sp := workspace.NewScopeProvider(v.ws)
	sym, ok := sp.Resolve(v.doc.URI, call.Callee)
	if !ok {
		hint := ""
		candidates := append([]string{}, ops.Names(false)...)
		for _, a := range ownActionNames(v.doc.Root) {
			candidates = append(candidates, a)
		}
		if s, found := assets.Suggest(call.Callee, candidates); found {
			hint = "did you mean " + s + "?"
		}
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeActionNotDefined,
			Message:  fmt.Sprintf("action %q is not defined or not visible here", call.Callee),
			Location: v.loc(call.Range),
			Hint:     hint,
		})
		return
	}
	if sym.Action != nil && len(sym.Action.Params) != len(call.Args) {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeParameterArityMismatch,
			Message:  fmt.Sprintf("%q expects %d argument(s), got %d", call.Callee, len(sym.Action.Params), len(call.Args)),
			Location: v.loc(call.Range),
		})
	}
}

func requiredCount(params []registry.Param) int {
	n := 0
	for _, p := range params {
		if p.Required {
			n++
		}
	}
	return n
}

func (v *docValidator) validateArity(call ast.CallExpr, max, min int) {
	if len(call.Args) < min || len(call.Args) > max {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeParameterArityMismatch,
			Message:  fmt.Sprintf("%q expects between %d and %d argument(s), got %d", call.Callee, min, max, len(call.Args)),
			Location: v.loc(call.Range),
		})
	}
}

// validateStringArgs checks CSS selector / class-or-id / translation-key
// arguments against the asset registries, implementing spec.md §4.3's
// "does this string argument match a known class/id/key" rule plus the
// did-you-mean suggestion contract.
func (v *docValidator) validateStringArgs(call ast.CallExpr, sig registry.Signature) {
	reg := v.ws.Assets()
	for i, p := range sig.Params {
		if i >= len(call.Args) {
			continue
		}
		lit, ok := call.Args[i].(*ast.StringLit)
		if !ok {
			continue
		}
		switch p.Kind {
		case registry.KindCSSSelector:
			if !assets.ValidSelectorSyntax(lit.Value) {
				v.bag.Add(diagnostics.Diagnostic{
					Severity: diagnostics.SeverityError,
					Code:     diagnostics.CodeValidSelector,
					Message:  "invalid CSS selector syntax",
					Location: v.loc(lit.Range),
				})
			}
		case registry.KindCSSClassOrId:
			name := lit.Value
			exists := reg.HasClass(v.doc.URI, name) || reg.HasID(v.doc.URI, name)
			if !exists {
				hint := ""
				if s, found := reg.SuggestClass(v.doc.URI, name); found {
					hint = fmt.Sprintf("did you mean %q?", s)
				}
				data := map[string]any{"name": name}
				if cssURI, found := reg.FirstImportedCSS(v.doc.URI, v.importOrder); found {
					data["cssFileUri"] = cssURI
				}
				v.bag.Add(diagnostics.Diagnostic{
					Severity: diagnostics.SeverityWarning,
					Code:     diagnostics.CodeUndefinedReference,
					Message:  fmt.Sprintf("unknown CSS class or id %q", name),
					Location: v.loc(lit.Range),
					Hint:     hint,
					Data:     data,
				})
			}
		}
	}

	for i, p := range sig.Params {
		if p.Kind != registry.KindTranslationKeyList || i >= len(call.Args) {
			continue
		}
		arr, ok := call.Args[i].(*ast.ArrayLit)
		if !ok {
			continue
		}
		for _, el := range arr.Elements {
			lit, ok := el.(*ast.StringLit)
			if !ok {
				continue
			}
			if !reg.HasTranslationKey(v.doc.URI, lit.Value) {
				hint := ""
				if s, found := reg.SuggestTranslationKey(v.doc.URI, lit.Value); found {
					hint = fmt.Sprintf("did you mean %q?", s)
				}
				v.bag.Add(diagnostics.Diagnostic{
					Severity: diagnostics.SeverityWarning,
					Code:     diagnostics.CodeUndefinedReference,
					Message:  fmt.Sprintf("unknown translation key %q", lit.Value),
					Location: v.loc(lit.Range),
					Hint:     hint,
					Data:     map[string]any{"translationKey": lit.Value},
				})
			}
		}
	}
}

// validateImports handles both kinds of ImportDecl: default asset imports
// (styles/layout/provider/locales), which register metadata with the
// shared asset registry, and named library imports, which trigger loading
// and transitive validation of the target document through visitImport.
func (v *docValidator) validateImports(imports []*ast.ImportDecl) {
	reg := v.ws.Assets()
	seenDefault := map[ast.ImportKind]bool{}

	for _, imp := range imports {
		if imp.Kind == ast.ImportNamed {
			v.validateNamedImport(imp)
			continue
		}

		if seenDefault[imp.Kind] {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeDuplicateDefinition,
				Message:  "duplicate default import for this asset kind",
				Location: v.loc(imp.Range),
			})
			continue
		}
		seenDefault[imp.Kind] = true

		assetURI := v.ws.ResolveImportPath(v.doc.URI, imp.Path)
		ext := strings.ToLower(v.ws.FS().Ext(assetURI))
		impliedKind, known := knownExtensions[ext]
		switch {
		case imp.As == "" && !known && !ambiguousExtensions[ext]:
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeInvalidImport,
				Message:  fmt.Sprintf("unrecognized import extension %q requires an explicit \"as\" type", ext),
				Location: v.loc(imp.Range),
			})
		case imp.As == "" && ambiguousExtensions[ext]:
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeInvalidImport,
				Message:  fmt.Sprintf("ambiguous import extension %q requires an explicit \"as\" type", ext),
				Location: v.loc(imp.Range),
				Data:     map[string]any{"insertAfter": importInsertPoint(imp), "options": []string{"audio", "video"}},
			})
		case imp.As != "" && known && imp.As != impliedKind:
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityWarning,
				Code:     diagnostics.CodeInvalidImport,
				Message:  fmt.Sprintf("import extension %q does not match explicit type %q", ext, imp.As),
				Location: v.loc(imp.AsRange),
				Data:     map[string]any{"replaceAsType": impliedKind, "asRange": rangeToData(imp.AsRange)},
			})
		}

		text, err := v.ws.FS().ReadFile(assetURI)
		if err != nil {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     importErrorCode(imp.Kind),
				Message:  fmt.Sprintf("cannot read imported asset %q: %v", imp.Path, err),
				Location: v.loc(imp.PathRange),
			})
			continue
		}

		switch imp.Kind {
		case ast.ImportStyles, ast.ImportProvider:
			reg.UpdateCSS(assetURI, assets.ParseCSS(text))
			reg.RegisterCSSImport(v.doc.URI, assetURI)
			v.importOrder = append(v.importOrder, assetURI)
		case ast.ImportLayout:
			reg.UpdateHTML(assetURI, assets.ParseHTML(text))
			reg.RegisterHTMLImport(v.doc.URI, assetURI)
		case ast.ImportLocales:
			meta, err := assets.ParseLocalesJSON(text)
			if err != nil {
				v.bag.Add(diagnostics.Diagnostic{
					Severity: diagnostics.SeverityError,
					Code:     diagnostics.CodeReadError,
					Message:  err.Error(),
					Location: v.loc(imp.PathRange),
				})
				continue
			}
			reg.UpdateLocales(assetURI, meta)
			reg.RegisterLocalesImport(v.doc.URI, assetURI)
		}
	}
}

// importInsertPoint and rangeToData expose raw line/column offsets through
// a Diagnostic's Data map so internal/lsp can build a WorkspaceEdit for the
// "fix asset type via as <type>" quick fix without importing internal/ast
// itself (validator is the only package that needs to know ast.Range's
// shape for this purpose).
func importInsertPoint(imp *ast.ImportDecl) map[string]int {
	return map[string]int{"line": imp.PathRange.End.Line, "column": imp.PathRange.End.Column}
}

func rangeToData(r ast.Range) map[string]int {
	return map[string]int{
		"startLine": r.Start.Line, "startColumn": r.Start.Column,
		"endLine": r.End.Line, "endColumn": r.End.Column,
	}
}

func importErrorCode(kind ast.ImportKind) diagnostics.Code {
	switch kind {
	case ast.ImportStyles, ast.ImportProvider:
		return diagnostics.CodeCssImportError
	case ast.ImportLayout:
		return diagnostics.CodeHtmlImportError
	default:
		return diagnostics.CodeMediaImportError
	}
}

func (v *docValidator) validateNamedImport(imp *ast.ImportDecl) {
	targetURI := v.ws.ResolveImportPath(v.doc.URI, imp.Path)
	if v.visitImport(targetURI) {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeCircularImport,
			Message:  fmt.Sprintf("circular library import: %q is already being resolved earlier in this import chain", imp.Path),
			Location: v.loc(imp.PathRange),
		})
		return
	}

	target, ok := v.ws.Get(targetURI)
	if !ok || target.Root == nil {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeInvalidImport,
			Message:  fmt.Sprintf("cannot resolve library import %q", imp.Path),
			Location: v.loc(imp.PathRange),
		})
		return
	}
	if _, isLibrary := target.Root.(*ast.Library); !isLibrary {
		v.bag.Add(diagnostics.Diagnostic{
			Severity: diagnostics.SeverityError,
			Code:     diagnostics.CodeInvalidImport,
			Message:  fmt.Sprintf("%q is a program, not a library, and cannot be imported", imp.Path),
			Location: v.loc(imp.PathRange),
		})
		return
	}

	index := v.ws.Index()
	for _, name := range imp.Names {
		sym, ok := index.Lookup(targetURI, name.Name)
		if !ok {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeUndefinedReference,
				Message:  fmt.Sprintf("library %q does not export %q", imp.Path, name.Name),
				Location: v.loc(name.Range),
			})
			continue
		}
		if sym.Visibility == ast.VisibilityPrivate {
			v.bag.Add(diagnostics.Diagnostic{
				Severity: diagnostics.SeverityError,
				Code:     diagnostics.CodeInvalidScope,
				Message:  fmt.Sprintf("%q is private to %q and cannot be imported", name.Name, imp.Path),
				Location: v.loc(name.Range),
			})
		}
	}
}

func ownActionNames(root ast.Document) []string {
	var actions []*ast.ActionDecl
	switch r := root.(type) {
	case *ast.Program:
		actions = r.Actions
	case *ast.Library:
		actions = r.Actions
	}
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, a.Name)
	}
	return names
}
