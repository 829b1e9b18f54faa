// Package types implements Eligian's primitive type lattice and operation
// signature checking. Types are plain values rather than classes, the same
// design esbuild uses for its PrimitiveType lattice in js_ast_helpers.go:
// a small enum plus pure functions that fold or compare it, with no type
// hierarchy to maintain.
package types

import "github.com/eligian-lang/eligianc/internal/ast"

type Primitive uint8

const (
	String Primitive = iota
	Number
	Boolean
	Object
	Array
	Unknown
)

func (p Primitive) String() string {
	switch p {
	case String:
		return "string"
	case Number:
		return "number"
	case Boolean:
		return "boolean"
	case Object:
		return "object"
	case Array:
		return "array"
	default:
		return "unknown"
	}
}

// Scope resolves a variable reference to a Primitive: an action parameter
// type, a loop variable's element type, or Unknown if nothing declares it.
// A nil parent means the lookup has reached the action/program boundary.
type Scope struct {
	parent *Scope
	vars   map[string]Primitive
}

func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent, vars: map[string]Primitive{}}
}

func (s *Scope) Declare(name string, t Primitive) { s.vars[name] = t }

func (s *Scope) Lookup(name string) (Primitive, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if t, ok := cur.vars[name]; ok {
			return t, true
		}
	}
	return Unknown, false
}

func FromParamType(annotated string) Primitive {
	switch annotated {
	case "string":
		return String
	case "number":
		return Number
	case "boolean":
		return Boolean
	case "object":
		return Object
	case "array":
		return Array
	default:
		return Unknown
	}
}

// Infer implements the inference table from the specification's type
// system section: literals map to their primitive, @refs resolve through
// scope, binary "+" with any string operand is string, other arithmetic is
// number, logical/comparison operators are boolean.
func Infer(e ast.Expr, scope *Scope) Primitive {
	switch v := e.(type) {
	case *ast.StringLit:
		return String
	case *ast.NumberLit, *ast.TimeLit:
		return Number
	case *ast.BoolLit:
		return Boolean
	case *ast.ArrayLit:
		return Array
	case *ast.ObjectLit:
		return Object
	case *ast.VarRef:
		if t, ok := scope.Lookup(v.Name); ok {
			return t
		}
		return Unknown
	case *ast.SystemRef, *ast.GlobalDataRef:
		return Unknown
	case *ast.BinaryExpr:
		return inferBinary(v, scope)
	case *ast.UnaryExpr:
		if v.Op == ast.OpNot {
			return Boolean
		}
		return Number
	case *ast.CallExpr:
		return Unknown
	default:
		return Unknown
	}
}

func inferBinary(v *ast.BinaryExpr, scope *Scope) Primitive {
	switch v.Op {
	case ast.OpAdd:
		if Infer(v.Left, scope) == String || Infer(v.Right, scope) == String {
			return String
		}
		return Number
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		return Number
	default:
		return Boolean // OpAnd, OpOr, OpEq, OpNeq, OpLt, OpGt, OpLte, OpGte
	}
}

// Assignable implements the gradual-typing rule: Unknown is assignable in
// both directions, otherwise the primitives must match exactly.
func Assignable(paramType, argType Primitive) bool {
	return paramType == Unknown || argType == Unknown || paramType == argType
}

// ---- custom kinds (hover/completion only, not nominal subtyping) ----------

type ImportAssetKind uint8

const (
	AssetCSS ImportAssetKind = iota
	AssetHTML
	AssetMedia
)

type ImportType struct {
	AssetKind ImportAssetKind
	Path      string
	IsDefault bool
}

type TimelineEventVariant uint8

const (
	EventTimed TimelineEventVariant = iota
	EventSequence
	EventStagger
)

type TimelineEventType struct {
	Variant  TimelineEventVariant
	Start    float64
	End      float64
	Duration float64
	DelayMs  float64
}

type TimelineType struct {
	Provider  ast.Provider
	Container string
	Source    string
	Events    []TimelineEventType
}

type LanguagesType struct {
	Count       int
	DefaultCode string
}

type TranslationKey struct {
	Key     string
	Locales []string
}

type LabelGroup struct {
	Keys []TranslationKey
}
