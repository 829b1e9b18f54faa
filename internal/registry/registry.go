// Package registry holds the catalog of built-in operations the engine
// understands. In the original tooling this table is generated once from
// metadata shipped alongside the runtime; here it is a lazily-initialized
// immutable Go table, following the same "load once, treat as read-only"
// discipline esbuild uses for its internal/compat feature tables.
package registry

import "sync"

type ParamKind uint8

const (
	KindString ParamKind = iota
	KindNumber
	KindBoolean
	KindObject
	KindArray
	KindUnknown
	KindEnum
	// KindTranslationKeyList marks an array parameter each of whose elements
	// must additionally resolve against the locales registry.
	KindTranslationKeyList
	KindCSSSelector
	KindCSSClassOrId
)

type Param struct {
	Name         string
	Kind         ParamKind
	Required     bool
	DefaultValue any
	Description  string
	EnumValues   []string // only meaningful when Kind == KindEnum
}

// Signature describes one built-in operation the way the original metadata
// file would: a name, ordered parameters, dependency/output lists used by
// hover text, and a category used to group completion items.
type Signature struct {
	Name         string
	Description  string
	Params       []Param
	Dependencies []string
	Outputs      []string
	Category     string

	// IsSyntax marks pseudo-operations that exist only to express control
	// flow in source (forEach, ifCondition) and therefore must never be
	// offered as a direct operation-name completion.
	IsSyntax bool
}

type Table struct {
	byName map[string]Signature
	all    []Signature
}

func (t *Table) Lookup(name string) (Signature, bool) {
	sig, ok := t.byName[name]
	return sig, ok
}

func (t *Table) All() []Signature { return t.all }

// Names returns every signature name, optionally excluding syntax
// pseudo-operations -- used by completion, which must filter them out.
func (t *Table) Names(includeSyntax bool) []string {
	names := make([]string, 0, len(t.all))
	for _, sig := range t.all {
		if sig.IsSyntax && !includeSyntax {
			continue
		}
		names = append(names, sig.Name)
	}
	return names
}

var (
	once     sync.Once
	instance *Table
)

// Default returns the process-wide operation table, built exactly once.
func Default() *Table {
	once.Do(func() {
		instance = build()
	})
	return instance
}

func build() *Table {
	sigs := []Signature{
		{
			Name:        "requestAction",
			Description: "Requests an action instance by its registered system name so it can be started and ended by the timeline.",
			Params: []Param{
				{Name: "systemName", Kind: KindString, Required: true, Description: "The name of the action or operation to request."},
			},
			Outputs:  []string{"actionInstance"},
			Category: "action",
		},
		{
			Name:        "startAction",
			Description: "Starts a previously requested action instance, passing it positional operation data.",
			Params: []Param{
				{Name: "actionOperationData", Kind: KindObject, Required: true, Description: "Named arguments forwarded to the action's parameters."},
			},
			Dependencies: []string{"actionInstance"},
			Category:     "action",
		},
		{
			Name:        "endAction",
			Description: "Ends a previously started action instance.",
			Params:      []Param{},
			Dependencies: []string{"actionInstance"},
			Category:    "action",
		},
		{
			Name:        "selectElement",
			Description: "Selects a DOM element by CSS selector for subsequent operations in the same chain.",
			Params: []Param{
				{Name: "selector", Kind: KindCSSSelector, Required: true, Description: "CSS selector of the target element."},
			},
			Outputs:  []string{"selectedElement"},
			Category: "dom",
		},
		{
			Name:        "getControllerInstance",
			Description: "Looks up a registered controller class by system name for attachment to the current selection.",
			Params: []Param{
				{Name: "systemName", Kind: KindString, Required: true, Description: "The controller's registered name."},
			},
			Dependencies: []string{"selectedElement"},
			Outputs:      []string{"controllerInstance"},
			Category:     "controller",
		},
		{
			Name:        "addControllerToElement",
			Description: "Attaches a controller instance to the currently selected element with the given configuration.",
			Params: []Param{
				{Name: "json", Kind: KindObject, Required: true, Description: "Configuration object forwarded to the controller."},
			},
			Dependencies: []string{"selectedElement", "controllerInstance"},
			Category:    "controller",
		},
		{
			Name:        "addController",
			Description: "Sugar for attaching a named controller to the element selected by the immediately preceding selectElement call; expands at desugaring time into getControllerInstance + addControllerToElement.",
			Params: []Param{
				{Name: "systemName", Kind: KindString, Required: true, Description: "The controller's registered name."},
				{Name: "args", Kind: KindObject, Required: false, Description: "Configuration object forwarded to the controller."},
			},
			Category: "controller",
		},
		{
			Name:        "addClass",
			Description: "Adds one or more CSS classes to the currently selected element.",
			Params: []Param{
				{Name: "className", Kind: KindCSSClassOrId, Required: true, Description: "Class name to add."},
			},
			Dependencies: []string{"selectedElement"},
			Category:     "dom",
		},
		{
			Name:        "removeClass",
			Description: "Removes a CSS class from the currently selected element.",
			Params: []Param{
				{Name: "className", Kind: KindCSSClassOrId, Required: true, Description: "Class name to remove."},
			},
			Dependencies: []string{"selectedElement"},
			Category:     "dom",
		},
		{
			Name:        "setElementContent",
			Description: "Sets the inner content of the currently selected element.",
			Params: []Param{
				{Name: "content", Kind: KindString, Required: true, Description: "HTML or text content."},
			},
			Dependencies: []string{"selectedElement"},
			Category:     "dom",
		},
		{
			Name:        "setData",
			Description: "Writes a value into the shared operation data object under the given key.",
			Params: []Param{
				{Name: "key", Kind: KindString, Required: true},
				{Name: "value", Kind: KindUnknown, Required: true},
			},
			Category: "data",
		},
		{
			Name:        "wait",
			Description: "Pauses the current operation chain for the given number of milliseconds.",
			Params: []Param{
				{Name: "milliseconds", Kind: KindNumber, Required: true},
			},
			Category: "timing",
		},
		{
			Name:        "log",
			Description: "Writes a message to the runtime's diagnostic console.",
			Params: []Param{
				{Name: "message", Kind: KindString, Required: true},
				{Name: "level", Kind: KindEnum, Required: false, DefaultValue: "info", EnumValues: []string{"info", "warn", "error"}},
			},
			Category: "debug",
		},
		{
			Name:        "getLabel",
			Description: "Resolves one or more translation keys against the locales registry for the active language.",
			Params: []Param{
				{Name: "labelIds", Kind: KindTranslationKeyList, Required: true},
			},
			Outputs:  []string{"labels"},
			Category: "localization",
		},
		{
			Name:        "forEach",
			Description: "DSL syntax for the \"for\" control-flow statement; never produced directly by source.",
			Params:      []Param{{Name: "collection", Kind: KindArray, Required: true}},
			Category:    "control-flow",
			IsSyntax:    true,
		},
		{
			Name:        "ifCondition",
			Description: "DSL syntax for the \"if\" control-flow statement; never produced directly by source.",
			Params:      []Param{{Name: "condition", Kind: KindBoolean, Required: true}},
			Category:    "control-flow",
			IsSyntax:    true,
		},
	}

	t := &Table{byName: make(map[string]Signature, len(sigs)), all: sigs}
	for _, s := range sigs {
		t.byName[s.Name] = s
	}
	return t
}
