package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/fs"
	"github.com/eligian-lang/eligianc/internal/workspace"
)

func validate(t *testing.T, files map[string]string, entry string) *diagnostics.Bag {
	t.Helper()
	ws := workspace.NewWorkspace(fs.MockFS(files))
	for uri, src := range files {
		if uri == entry {
			ws.Update(uri, src)
		}
	}
	results := BuildAll(ws, entry)
	bag, ok := results[entry]
	require.True(t, ok)
	return bag
}

func codes(bag *diagnostics.Bag) []diagnostics.Code {
	out := make([]diagnostics.Code, len(bag.All()))
	for i, d := range bag.All() {
		out[i] = d.Code
	}
	return out
}

const minimalProgram = `timeline "intro" in ".stage" using raf {
	at 0s..1s {
		requestAction("greeter");
	}
}
`

func TestBuildAll_ValidProgramHasNoErrors(t *testing.T) {
	bag := validate(t, map[string]string{"/proj/main.eligian": minimalProgram}, "/proj/main.eligian")
	assert.False(t, bag.HasErrors(), "%v", bag.All())
}

func TestBuildAll_MissingTimelineIsError(t *testing.T) {
	bag := validate(t, map[string]string{"/proj/main.eligian": "action a() {}\n"}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeTimelineRequired)
}

func TestBuildAll_ParseErrorSurfacesAsSyntaxError(t *testing.T) {
	bag := validate(t, map[string]string{"/proj/main.eligian": "action a(\n"}, "/proj/main.eligian")
	require.Len(t, bag.All(), 1)
	assert.Equal(t, diagnostics.CodeSyntaxError, bag.All()[0].Code)
}

func TestBuildAll_UnreadableEntryReportsFileNotFound(t *testing.T) {
	ws := workspace.NewWorkspace(fs.MockFS(nil))
	results := BuildAll(ws, "/proj/missing.eligian")
	bag := results["/proj/missing.eligian"]
	require.Len(t, bag.All(), 1)
	assert.Equal(t, diagnostics.CodeFileNotFound, bag.All()[0].Code)
}

func TestValidateActionNames_DuplicateDefinition(t *testing.T) {
	src := `action helper() {}
action helper() {}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeDuplicateDefinition)
}

func TestValidateActionNames_BuiltinConflict(t *testing.T) {
	src := `action requestAction() {}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeActionNameBuiltinConflict)
}

func TestValidateLanguages_InvalidCodePattern(t *testing.T) {
	src := `languages { en_US }
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeMissingRequiredField)
}

func TestValidateLanguages_DuplicateLanguage(t *testing.T) {
	src := `languages { * en-US, en-US }
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeDuplicateDefinition)
}

func TestValidateLanguages_MultipleWithoutDefaultIsError(t *testing.T) {
	src := `languages { en-US, fr-FR }
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeMissingRequiredField)
}

func TestValidateLanguages_SingleLanguageDefaultImplicit(t *testing.T) {
	src := `languages { en-US }
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.False(t, bag.HasErrors(), "%v", bag.All())
}

func TestValidateTimeline_InvalidSelector(t *testing.T) {
	src := `timeline "intro" in "[foo" using raf {
	at 0s..1s {
		requestAction("greeter");
	}
}
`
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeValidSelector)
}

func TestValidateTimeline_StartAfterEnd(t *testing.T) {
	src := `timeline "intro" in ".stage" using raf {
	at 5s..1s {
		requestAction("greeter");
	}
}
`
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeValidTimeRange)
}

func TestValidateTimeline_SequenceNonPositiveDuration(t *testing.T) {
	src := `timeline "intro" in ".stage" using raf {
	sequence {
		requestAction("greeter");
	} for 0s;
}
`
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeValidTimeRange)
}

func TestValidateTimeline_StaggerNonPositiveDelay(t *testing.T) {
	src := `action helper() {}
timeline "intro" in ".stage" using raf {
	stagger 0ms items with helper();
}
`
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeValidTimeRange)
}

func TestValidateEventAction_UnknownEvent(t *testing.T) {
	src := `on event "totallyMadeUpEvent" action h() {}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeUndefinedReference)
}

func TestValidateCall_UnknownAction(t *testing.T) {
	src := `action a() {
	totallyUndefinedAction();
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeActionNotDefined)
}

func TestValidateCall_BuiltinArityTooFew(t *testing.T) {
	src := `action a() {
	requestAction();
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeParameterArityMismatch)
}

func TestValidateCall_UserActionArityMismatch(t *testing.T) {
	src := `action helper(x) {}
action a() {
	helper();
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeParameterArityMismatch)
}

func TestValidateCall_ValidUserActionCallHasNoArityError(t *testing.T) {
	src := `action helper(x) {}
action a() {
	helper(1);
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.NotContains(t, codes(bag), diagnostics.CodeParameterArityMismatch)
}

func TestValidateStringArgs_UnknownCSSClass(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import styles "./style.css";
action a() {
	addClass("missing");
}
` + minimalProgram,
		"/proj/style.css": ".existing { color: red; }",
	}
	bag := validate(t, files, "/proj/main.eligian")
	require.Contains(t, codes(bag), diagnostics.CodeUndefinedReference)
	for _, d := range bag.All() {
		if d.Code == diagnostics.CodeUndefinedReference {
			data, ok := d.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "missing", data["name"])
			assert.Equal(t, "/proj/style.css", data["cssFileUri"])
		}
	}
}

func TestValidateStringArgs_KnownCSSClassHasNoDiagnostic(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import styles "./style.css";
action a() {
	addClass("existing");
}
` + minimalProgram,
		"/proj/style.css": ".existing { color: red; }",
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.NotContains(t, codes(bag), diagnostics.CodeUndefinedReference)
}

func TestValidateStringArgs_InvalidCSSSelectorArg(t *testing.T) {
	src := `action a() {
	selectElement("[foo");
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeValidSelector)
}

func TestValidateStringArgs_UnknownTranslationKey(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import locales "./labels.json";
action a() {
	getLabel(["missing.key"]);
}
` + minimalProgram,
		"/proj/labels.json": `{"welcome.title": {"en-US": "Hi"}}`,
	}
	bag := validate(t, files, "/proj/main.eligian")
	require.Contains(t, codes(bag), diagnostics.CodeUndefinedReference)
}

func TestValidateImports_DuplicateDefaultKind(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import styles "./a.css";
import styles "./b.css";
` + minimalProgram,
		"/proj/a.css": "",
		"/proj/b.css": "",
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeDuplicateDefinition)
}

func TestValidateImports_UnrecognizedExtensionRequiresAsType(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import provider "./player.xyz";
` + minimalProgram,
		"/proj/player.xyz": "",
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeInvalidImport)
}

func TestValidateImports_AmbiguousExtensionCarriesOptionsData(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import provider "./player.ogg";
` + minimalProgram,
		"/proj/player.ogg": "",
	}
	bag := validate(t, files, "/proj/main.eligian")
	require.Contains(t, codes(bag), diagnostics.CodeInvalidImport)
	for _, d := range bag.All() {
		if d.Code == diagnostics.CodeInvalidImport {
			data := d.Data.(map[string]any)
			assert.Equal(t, []string{"audio", "video"}, data["options"])
			insertAfter, ok := data["insertAfter"].(map[string]int)
			require.True(t, ok)
			assert.NotZero(t, insertAfter["line"])
		}
	}
}

func TestValidateImports_MismatchedAsTypeCarriesReplaceData(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import provider "./style.css" as layout;
` + minimalProgram,
		"/proj/style.css": "",
	}
	bag := validate(t, files, "/proj/main.eligian")
	require.Contains(t, codes(bag), diagnostics.CodeInvalidImport)
	for _, d := range bag.All() {
		if d.Code == diagnostics.CodeInvalidImport {
			data := d.Data.(map[string]any)
			assert.Equal(t, "styles", data["replaceAsType"])
			_, ok := data["asRange"].(map[string]int)
			assert.True(t, ok)
		}
	}
}

func TestValidateImports_UnreadableAssetReportsReadError(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import styles "./missing.css";
` + minimalProgram,
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeCssImportError)
}

func TestValidateNamedImport_LibraryExportsResolve(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import { helper } from "./lib.eligian";
action a() {
	helper();
}
` + minimalProgram,
		"/proj/lib.eligian": "library Shared\naction helper() {}\n",
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.False(t, bag.HasErrors(), "%v", bag.All())
}

func TestValidateNamedImport_UndefinedExport(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import { missing } from "./lib.eligian";
` + minimalProgram,
		"/proj/lib.eligian": "library Shared\naction helper() {}\n",
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeUndefinedReference)
}

func TestValidateNamedImport_PrivateExportIsScopeError(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian": `import { helper } from "./lib.eligian";
` + minimalProgram,
		"/proj/lib.eligian": "library Shared\nprivate action helper() {}\n",
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeInvalidScope)
}

func TestValidateNamedImport_ImportingAProgramIsError(t *testing.T) {
	files := map[string]string{
		"/proj/main.eligian":  `import { helper } from "./other.eligian";` + "\n" + minimalProgram,
		"/proj/other.eligian": "action helper() {}\n",
	}
	bag := validate(t, files, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeInvalidImport)
}

func TestValidateNamedImport_CyclicLibraryImportsDoNotHang(t *testing.T) {
	files := map[string]string{
		"/proj/a.eligian": `library A
import { b } from "./b.eligian";
action a() {}
`,
		"/proj/b.eligian": `library B
import { a } from "./a.eligian";
action b() {}
`,
	}
	ws := workspace.NewWorkspace(fs.MockFS(files))
	ws.Update("/proj/a.eligian", files["/proj/a.eligian"])
	results := BuildAll(ws, "/proj/a.eligian")
	assert.Contains(t, results, "/proj/a.eligian")
	assert.Contains(t, results, "/proj/b.eligian")
	assert.Contains(t, codes(results["/proj/b.eligian"]), diagnostics.CodeCircularImport)
}

func TestValidateStmt_IfConditionShouldBeBoolean(t *testing.T) {
	src := `action a() {
	if (5) {
		requestAction("x");
	}
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeTypeMismatch)
}

func TestValidateStmt_EmptyIfBodyWarns(t *testing.T) {
	src := `action a() {
	if (true) {
	}
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeMissingRequiredField)
}

func TestValidateStmt_ForLoopOverNonArrayIsError(t *testing.T) {
	src := `action a() {
	for (i in "not an array") {
		requestAction("x");
	}
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeTypeMismatch)
}

func TestValidateStmt_ForLoopOverArrayLiteralIsFine(t *testing.T) {
	src := `action a() {
	for (i in [1, 2, 3]) {
		requestAction("x");
	}
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.NotContains(t, codes(bag), diagnostics.CodeTypeMismatch)
}

func TestValidateCall_NestedCallArgumentIsValidatedToo(t *testing.T) {
	src := `action a() {
	endAction(totallyUndefinedNested());
}
` + minimalProgram
	bag := validate(t, map[string]string{"/proj/main.eligian": src}, "/proj/main.eligian")
	assert.Contains(t, codes(bag), diagnostics.CodeActionNotDefined)
}
