// Package ast defines every node of the Eligian grammar as a tagged union,
// the way esbuild represents JavaScript: a narrow interface with an
// unexported marker method, implemented by a concrete struct per node shape.
// Every node carries a Range so diagnostics and LSP hover/completion can map
// straight back to source text.
package ast

// Pos is a single point in a document, 1-based line and 0-based column to
// match diagnostics.Location.
type Pos struct {
	Line   int
	Column int
	Offset int // byte offset from the start of the file
}

type Range struct {
	Start Pos
	End   Pos
}

func (r Range) Length() int { return r.End.Offset - r.Start.Offset }

// Node is implemented by every AST type. The marker method keeps the set of
// implementers closed to this package.
type Node interface {
	isNode()
}

type node struct{}

func (node) isNode() {}

// ---- Expressions -----------------------------------------------------

type Expr interface {
	Node
	exprNode()
}

type expr struct{ node }

func (expr) exprNode() {}

type StringLit struct {
	expr
	Range Range
	Value string
}

type NumberLit struct {
	expr
	Range Range
	Value float64
}

// TimeLit is a literal written as "1.5s" or "200ms"; ValueSeconds is always
// normalized to seconds so downstream stages never special-case the unit.
type TimeLit struct {
	expr
	Range        Range
	ValueSeconds float64
	Unit         string // "s" or "ms", preserved for hover text
}

type BoolLit struct {
	expr
	Range Range
	Value bool
}

type ArrayLit struct {
	expr
	Range    Range
	Elements []Expr
}

type ObjectProperty struct {
	Key   string
	Value Expr
}

type ObjectLit struct {
	expr
	Range      Range
	Properties []ObjectProperty
}

// VarRef is a "@name" reference to a parameter, loop variable or constant.
type VarRef struct {
	expr
	Range Range
	Name  string
}

// SystemRef is a "@@name" reference to a runtime-provided system scope
// variable such as @@loopIndex.
type SystemRef struct {
	expr
	Range Range
	Name  string
}

// GlobalDataRef is a "$globalData.a.b" path expression.
type GlobalDataRef struct {
	expr
	Range Range
	Path  []string
}

type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpAnd
	OpOr
	OpEq
	OpNeq
	OpLt
	OpGt
	OpLte
	OpGte
)

type BinaryExpr struct {
	expr
	Range Range
	Op    BinaryOp
	Left  Expr
	Right Expr
}

type UnaryOp uint8

const (
	OpNot UnaryOp = iota
	OpNeg
)

type UnaryExpr struct {
	expr
	Range   Range
	Op      UnaryOp
	Operand Expr
}

// CallExpr is either a reference to a built-in operation or to a
// user-defined action; the distinction is resolved later by the type
// system and is not known to the parser.
type CallExpr struct {
	expr
	Range  Range
	Callee string
	Args   []Expr
}

// ---- Statements --------------------------------------------------------

type Stmt interface {
	Node
	stmtNode()
}

type stmt struct{ node }

func (stmt) stmtNode() {}

// OperationStmt is a bare operation/action call used as a statement.
type OperationStmt struct {
	stmt
	Range Range
	Call  CallExpr
}

type IfStmt struct {
	stmt
	Range Range
	Cond  Expr
	Then  []Stmt
	Else  []Stmt
}

type ForStmt struct {
	stmt
	Range      Range
	Var        string
	Collection Expr
	Body       []Stmt
}

type BreakStmt struct {
	stmt
	Range Range
}

type ContinueStmt struct {
	stmt
	Range Range
}

// ---- Declarations -------------------------------------------------------

// Param is an action or event-action parameter. Type is "" for an
// unannotated (gradually-typed) parameter.
type Param struct {
	Name  string
	Type  string
	Range Range
}

type Visibility uint8

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

// ActionDecl covers both regular actions (End == nil) and endable actions
// (Start and End both populated).
type ActionDecl struct {
	node
	Range      Range
	Name       string
	Params     []Param
	Visibility Visibility
	Endable    bool
	Start      []Stmt
	End        []Stmt
}

type EventActionDecl struct {
	node
	Range       Range
	EventName   string
	EventRange  Range
	Topic       string
	HandlerName string
	Params      []Param
	Body        []Stmt
}

type ConstDecl struct {
	node
	Range Range
	Name  string
	Value Expr
}

type ImportKind uint8

const (
	ImportStyles ImportKind = iota
	ImportLayout
	ImportProvider
	ImportLocales
	ImportNamed
)

type ImportedName struct {
	Name  string
	Alias string // "" if not aliased
	Range Range
}

// ImportDecl covers default asset imports (styles/layout/provider/locales),
// and named library imports ("import { foo as bar } from \"./lib.eligian\"").
type ImportDecl struct {
	node
	Range Range
	Kind  ImportKind
	Path  string
	PathRange Range
	As    string // explicit "as <type>" override; "" if absent
	AsRange   Range
	Names []ImportedName
}

type Language struct {
	Code    string
	Default bool
	Range   Range
}

type LanguagesBlock struct {
	node
	Range     Range
	Languages []Language
}

type Provider uint8

const (
	ProviderRAF Provider = iota
	ProviderVideo
	ProviderAudio
	ProviderCustom
)

func (p Provider) String() string {
	switch p {
	case ProviderVideo:
		return "video"
	case ProviderAudio:
		return "audio"
	case ProviderCustom:
		return "custom"
	default:
		return "raf"
	}
}

// ---- Timeline events -----------------------------------------------------

type TimelineEvent interface {
	Node
	timelineEventNode()
}

type timelineEvent struct{ node }

func (timelineEvent) timelineEventNode() {}

type TimedEvent struct {
	timelineEvent
	Range    Range
	Start    Expr // numeric or time literal
	End      Expr
	StartOps []Stmt
	EndOps   []Stmt
}

type SequenceEvent struct {
	timelineEvent
	Range    Range
	Body     []Stmt
	Duration Expr
}

type StaggerEvent struct {
	timelineEvent
	Range    Range
	DelayMs  Expr
	Action   CallExpr
}

type TimelineDecl struct {
	node
	Range    Range
	Name     string
	Selector string
	Provider Provider
	Events   []TimelineEvent
}

// ---- Documents ------------------------------------------------------------

type Document interface {
	Node
	documentNode()
	URI() string
}

type Program struct {
	node
	DocURI       string
	Range        Range
	Languages    *LanguagesBlock
	Imports      []*ImportDecl
	Consts       []*ConstDecl
	Actions      []*ActionDecl
	EventActions []*EventActionDecl
	Timelines    []*TimelineDecl
}

func (p *Program) documentNode() {}
func (p *Program) URI() string   { return p.DocURI }

type Library struct {
	node
	DocURI  string
	Range   Range
	Name    string
	Imports []*ImportDecl
	Actions []*ActionDecl
}

func (l *Library) documentNode() {}
func (l *Library) URI() string   { return l.DocURI }
