// Package parser turns a token stream into an AST document. It is a
// straightforward recursive-descent parser with one-token lookahead and
// precedence-climbing for binary expressions, in the same style as
// esbuild's JS parser but considerably smaller since Eligian's grammar has
// no context-sensitive productions.
package parser

import (
	"fmt"

	"github.com/eligian-lang/eligianc/internal/ast"
	"github.com/eligian-lang/eligianc/internal/diagnostics"
	"github.com/eligian-lang/eligianc/internal/lexer"
)

type parser struct {
	uri    string
	tokens []lexer.Token
	pos    int
	source string
}

// ParseError is returned when parsing cannot continue; it always carries a
// diagnostics.Diagnostic with Code == CodeSyntaxError.
type ParseError struct {
	Diagnostic diagnostics.Diagnostic
}

func (e *ParseError) Error() string { return e.Diagnostic.Error() }

// ParseDocument tokenizes and parses source text into either a *ast.Program
// or a *ast.Library. A non-nil error means the document could not be
// parsed at all; later pipeline stages must be skipped for it.
func ParseDocument(uri string, source string) (ast.Document, *ParseError) {
	tokens, lexErr := lexer.Tokenize(uri, source)
	if lexErr != nil {
		return nil, &ParseError{Diagnostic: locErrorFromRange(uri, source, lexErr.Range, lexErr.Message)}
	}

	p := &parser{uri: uri, tokens: tokens, source: source}

	if p.peek().Kind == lexer.TLibrary {
		lib, err := p.parseLibrary()
		return lib, err
	}
	prog, err := p.parseProgram()
	return prog, err
}

func locErrorFromRange(uri, source string, r ast.Range, message string) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Severity: diagnostics.SeverityError,
		Code:     diagnostics.CodeSyntaxError,
		Message:  message,
		Location: locationFromRange(uri, source, r),
	}
}

func locationFromRange(uri, source string, r ast.Range) diagnostics.Location {
	return diagnostics.Location{
		URI:      uri,
		Line:     r.Start.Line,
		Column:   r.Start.Column,
		Length:   max(1, r.End.Offset-r.Start.Offset),
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

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// ---- token stream helpers -------------------------------------------------

func (p *parser) peek() lexer.Token  { return p.tokens[p.pos] }
func (p *parser) peekKind() lexer.T  { return p.tokens[p.pos].Kind }

func (p *parser) advance() lexer.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) fail(r ast.Range, format string, args ...any) *ParseError {
	return &ParseError{Diagnostic: locErrorFromRange(p.uri, p.source, r, fmt.Sprintf(format, args...))}
}

func (p *parser) expect(kind lexer.T) (lexer.Token, *ParseError) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.fail(tok.Range, "expected %s but found %s", kind, describeToken(tok))
	}
	return p.advance(), nil
}

func describeToken(t lexer.Token) string {
	if t.Kind == lexer.TIdent {
		return fmt.Sprintf("identifier %q", t.Text)
	}
	if t.Kind == lexer.TString {
		return "string literal"
	}
	return t.Kind.String()
}

// ---- top level -------------------------------------------------------------

func (p *parser) parseLibrary() (*ast.Library, *ParseError) {
	start := p.peek().Range
	if _, err := p.expect(lexer.TLibrary); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TIdent)
	if err != nil {
		return nil, err
	}
	lib := &ast.Library{DocURI: p.uri, Name: nameTok.Text}

	for p.peekKind() != lexer.TEOF {
		switch p.peekKind() {
		case lexer.TImport:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			lib.Imports = append(lib.Imports, imp)
		case lexer.TAction, lexer.TPrivate:
			action, err := p.parseAction()
			if err != nil {
				return nil, err
			}
			lib.Actions = append(lib.Actions, action)
		default:
			tok := p.peek()
			return nil, p.fail(tok.Range, "a library may only contain action definitions and imports, found %s", describeToken(tok))
		}
	}
	lib.Range = ast.Range{Start: start.Start, End: p.peek().Range.End}
	return lib, nil
}

func (p *parser) parseProgram() (*ast.Program, *ParseError) {
	start := p.peek().Range
	prog := &ast.Program{DocURI: p.uri}

	if p.peekKind() == lexer.TLanguages {
		block, err := p.parseLanguages()
		if err != nil {
			return nil, err
		}
		prog.Languages = block
	}

	for p.peekKind() != lexer.TEOF {
		switch p.peekKind() {
		case lexer.TImport:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			prog.Imports = append(prog.Imports, imp)
		case lexer.TConst:
			c, err := p.parseConst()
			if err != nil {
				return nil, err
			}
			prog.Consts = append(prog.Consts, c)
		case lexer.TAction, lexer.TPrivate:
			action, err := p.parseAction()
			if err != nil {
				return nil, err
			}
			prog.Actions = append(prog.Actions, action)
		case lexer.TOn:
			ea, err := p.parseEventAction()
			if err != nil {
				return nil, err
			}
			prog.EventActions = append(prog.EventActions, ea)
		case lexer.TTimeline:
			tl, err := p.parseTimeline()
			if err != nil {
				return nil, err
			}
			prog.Timelines = append(prog.Timelines, tl)
		default:
			tok := p.peek()
			return nil, p.fail(tok.Range, "unexpected top-level token %s", describeToken(tok))
		}
	}

	prog.Range = ast.Range{Start: start.Start, End: p.peek().Range.End}
	return prog, nil
}

func (p *parser) parseLanguages() (*ast.LanguagesBlock, *ParseError) {
	start := p.peek().Range
	if _, err := p.expect(lexer.TLanguages); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TLBrace); err != nil {
		return nil, err
	}
	block := &ast.LanguagesBlock{}
	for p.peekKind() != lexer.TRBrace {
		isDefault := false
		if p.peekKind() == lexer.TStar {
			p.advance()
			isDefault = true
		}
		codeTok, err := p.expect(lexer.TIdent)
		if err != nil {
			return nil, err
		}
		block.Languages = append(block.Languages, ast.Language{Code: codeTok.Text, Default: isDefault, Range: codeTok.Range})
		if p.peekKind() == lexer.TComma {
			p.advance()
		}
	}
	end, err := p.expect(lexer.TRBrace)
	if err != nil {
		return nil, err
	}
	block.Range = ast.Range{Start: start.Start, End: end.Range.End}
	return block, nil
}

// ---- imports -----------------------------------------------------------

func (p *parser) parseImport() (*ast.ImportDecl, *ParseError) {
	start := p.peek().Range
	if _, err := p.expect(lexer.TImport); err != nil {
		return nil, err
	}

	if p.peekKind() == lexer.TLBrace {
		return p.parseNamedImport(start)
	}

	var kind ast.ImportKind
	switch p.peekKind() {
	case lexer.TStyles:
		kind = ast.ImportStyles
	case lexer.TLayout:
		kind = ast.ImportLayout
	case lexer.TProvider:
		kind = ast.ImportProvider
	case lexer.TLocales:
		kind = ast.ImportLocales
	default:
		tok := p.peek()
		return nil, p.fail(tok.Range, "expected 'styles', 'layout', 'provider', 'locales' or '{' after 'import', found %s", describeToken(tok))
	}
	p.advance()

	pathTok, err := p.expect(lexer.TString)
	if err != nil {
		return nil, err
	}

	decl := &ast.ImportDecl{Kind: kind, Path: pathTok.Str, PathRange: pathTok.Range}
	if p.peekKind() == lexer.TAs {
		p.advance()
		asTok := p.peek()
		if asTok.Kind >= lexer.TLibrary {
			// Keyword type names (styles, layout, locales) are accepted here.
			p.advance()
		} else if _, err := p.expect(lexer.TIdent); err != nil {
			return nil, err
		}
		decl.As = asTok.Text
		decl.AsRange = asTok.Range
	}
	decl.Range = ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}
	return decl, nil
}

func (p *parser) parseNamedImport(start ast.Range) (*ast.ImportDecl, *ParseError) {
	if _, err := p.expect(lexer.TLBrace); err != nil {
		return nil, err
	}
	decl := &ast.ImportDecl{Kind: ast.ImportNamed}
	for p.peekKind() != lexer.TRBrace {
		nameTok, err := p.expect(lexer.TIdent)
		if err != nil {
			return nil, err
		}
		named := ast.ImportedName{Name: nameTok.Text, Range: nameTok.Range}
		if p.peekKind() == lexer.TAs {
			p.advance()
			aliasTok, err := p.expect(lexer.TIdent)
			if err != nil {
				return nil, err
			}
			named.Alias = aliasTok.Text
		}
		decl.Names = append(decl.Names, named)
		if p.peekKind() == lexer.TComma {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.TRBrace); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TFrom); err != nil {
		return nil, err
	}
	pathTok, err := p.expect(lexer.TString)
	if err != nil {
		return nil, err
	}
	decl.Path = pathTok.Str
	decl.PathRange = pathTok.Range
	decl.Range = ast.Range{Start: start.Start, End: pathTok.Range.End}
	return decl, nil
}

// ---- constants -----------------------------------------------------------

func (p *parser) parseConst() (*ast.ConstDecl, *ParseError) {
	start := p.peek().Range
	if _, err := p.expect(lexer.TConst); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TAssign); err != nil {
		return nil, err
	}
	value, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TSemicolon); err != nil {
		return nil, err
	}
	return &ast.ConstDecl{Name: nameTok.Text, Value: value, Range: ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}}, nil
}

// ---- actions ---------------------------------------------------------------

func (p *parser) parseParams() ([]ast.Param, *ParseError) {
	if _, err := p.expect(lexer.TLParen); err != nil {
		return nil, err
	}
	var params []ast.Param
	for p.peekKind() != lexer.TRParen {
		nameTok, err := p.expect(lexer.TIdent)
		if err != nil {
			return nil, err
		}
		param := ast.Param{Name: nameTok.Text, Range: nameTok.Range}
		if p.peekKind() == lexer.TColon {
			p.advance()
			typeTok, err := p.expect(lexer.TIdent)
			if err != nil {
				return nil, err
			}
			param.Type = typeTok.Text
		}
		params = append(params, param)
		if p.peekKind() == lexer.TComma {
			p.advance()
		}
	}
	if _, err := p.expect(lexer.TRParen); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) parseAction() (*ast.ActionDecl, *ParseError) {
	start := p.peek().Range
	visibility := ast.VisibilityPublic
	if p.peekKind() == lexer.TPrivate {
		p.advance()
		visibility = ast.VisibilityPrivate
	}
	if _, err := p.expect(lexer.TAction); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TIdent)
	if err != nil {
		return nil, err
	}
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	startBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	action := &ast.ActionDecl{Name: nameTok.Text, Params: params, Visibility: visibility, Start: startBlock}

	// An immediately-following "end { ... }" marks this action endable.
	if p.peekKind() == lexer.TIdent && p.peek().Text == "end" {
		p.advance()
		endBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		action.Endable = true
		action.End = endBlock
	}

	action.Range = ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}
	return action, nil
}

func (p *parser) parseEventAction() (*ast.EventActionDecl, *ParseError) {
	start := p.peek().Range
	if _, err := p.expect(lexer.TOn); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TEvent); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TString)
	if err != nil {
		return nil, err
	}
	ea := &ast.EventActionDecl{EventName: nameTok.Str, EventRange: nameTok.Range}

	if p.peekKind() == lexer.TTopic {
		p.advance()
		topicTok, err := p.expect(lexer.TString)
		if err != nil {
			return nil, err
		}
		ea.Topic = topicTok.Str
	}

	if _, err := p.expect(lexer.TAction); err != nil {
		return nil, err
	}
	handlerTok, err := p.expect(lexer.TIdent)
	if err != nil {
		return nil, err
	}
	ea.HandlerName = handlerTok.Text
	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}
	ea.Params = params
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	ea.Body = body
	ea.Range = ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}
	return ea, nil
}

// ---- blocks and statements --------------------------------------------------

func (p *parser) parseBlock() ([]ast.Stmt, *ParseError) {
	if _, err := p.expect(lexer.TLBrace); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for p.peekKind() != lexer.TRBrace {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(lexer.TRBrace); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *parser) parseStmt() (ast.Stmt, *ParseError) {
	switch p.peekKind() {
	case lexer.TIf:
		return p.parseIf()
	case lexer.TFor:
		return p.parseFor()
	case lexer.TBreak:
		tok := p.advance()
		if _, err := p.expect(lexer.TSemicolon); err != nil {
			return nil, err
		}
		return &ast.BreakStmt{Range: tok.Range}, nil
	case lexer.TContinue:
		tok := p.advance()
		if _, err := p.expect(lexer.TSemicolon); err != nil {
			return nil, err
		}
		return &ast.ContinueStmt{Range: tok.Range}, nil
	case lexer.TIdent:
		start := p.peek().Range
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TSemicolon); err != nil {
			return nil, err
		}
		return &ast.OperationStmt{Range: ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}, Call: *call}, nil
	default:
		tok := p.peek()
		return nil, p.fail(tok.Range, "expected a statement, found %s", describeToken(tok))
	}
}

func (p *parser) parseIf() (ast.Stmt, *ParseError) {
	start := p.peek().Range
	p.advance()
	if _, err := p.expect(lexer.TLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TRParen); err != nil {
		return nil, err
	}
	thenBlock, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStmt{Cond: cond, Then: thenBlock}
	if p.peekKind() == lexer.TElse {
		p.advance()
		elseBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		stmt.Else = elseBlock
	}
	stmt.Range = ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}
	return stmt, nil
}

func (p *parser) parseFor() (ast.Stmt, *ParseError) {
	start := p.peek().Range
	p.advance()
	if _, err := p.expect(lexer.TLParen); err != nil {
		return nil, err
	}
	varTok, err := p.expect(lexer.TIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TIn); err != nil {
		return nil, err
	}
	collection, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TRParen); err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Var: varTok.Text, Collection: collection, Body: body, Range: ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}}, nil
}

func (p *parser) parseCall() (*ast.CallExpr, *ParseError) {
	nameTok, err := p.expect(lexer.TIdent)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TLParen); err != nil {
		return nil, err
	}
	var args []ast.Expr
	for p.peekKind() != lexer.TRParen {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.peekKind() == lexer.TComma {
			p.advance()
		}
	}
	endTok, err := p.expect(lexer.TRParen)
	if err != nil {
		return nil, err
	}
	return &ast.CallExpr{Callee: nameTok.Text, Args: args, Range: ast.Range{Start: nameTok.Range.Start, End: endTok.Range.End}}, nil
}

// ---- timelines -----------------------------------------------------------

func (p *parser) parseTimeline() (*ast.TimelineDecl, *ParseError) {
	start := p.peek().Range
	p.advance()
	nameTok, err := p.expect(lexer.TString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TIn); err != nil {
		return nil, err
	}
	selectorTok, err := p.expect(lexer.TString)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TUsing); err != nil {
		return nil, err
	}
	providerTok, err := p.expect(lexer.TIdent)
	if err != nil {
		return nil, err
	}
	provider, err := parseProviderKeyword(p, providerTok)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.TLBrace); err != nil {
		return nil, err
	}
	tl := &ast.TimelineDecl{Name: nameTok.Str, Selector: selectorTok.Str, Provider: provider}
	for p.peekKind() != lexer.TRBrace {
		ev, err := p.parseTimelineEvent()
		if err != nil {
			return nil, err
		}
		tl.Events = append(tl.Events, ev)
	}
	if _, err := p.expect(lexer.TRBrace); err != nil {
		return nil, err
	}
	tl.Range = ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}
	return tl, nil
}

func parseProviderKeyword(p *parser, tok lexer.Token) (ast.Provider, *ParseError) {
	switch tok.Text {
	case "raf":
		return ast.ProviderRAF, nil
	case "video":
		return ast.ProviderVideo, nil
	case "audio":
		return ast.ProviderAudio, nil
	case "custom":
		return ast.ProviderCustom, nil
	default:
		return 0, p.fail(tok.Range, "unknown timeline provider %q, expected one of raf, video, audio, custom", tok.Text)
	}
}

func (p *parser) parseTimelineEvent() (ast.TimelineEvent, *ParseError) {
	start := p.peek().Range
	switch p.peekKind() {
	case lexer.TAt_:
		p.advance()
		startExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TDotDot); err != nil {
			return nil, err
		}
		endExpr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		startOps, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		var endOps []ast.Stmt
		if p.peekKind() == lexer.TLBrace {
			endOps, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
		return &ast.TimedEvent{Start: startExpr, End: endExpr, StartOps: startOps, EndOps: endOps,
			Range: ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}}, nil

	case lexer.TSequence:
		p.advance()
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TFor); err != nil {
			return nil, err
		}
		durTok, err := p.expect(lexer.TTime)
		if err != nil {
			return nil, err
		}
		if p.peekKind() == lexer.TSemicolon {
			p.advance()
		}
		return &ast.SequenceEvent{Body: body, Duration: &ast.TimeLit{ValueSeconds: durTok.Num, Unit: durTok.Unit, Range: durTok.Range},
			Range: ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}}, nil

	case lexer.TStagger:
		p.advance()
		delayTok, err := p.expect(lexer.TTime)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TItems); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TWith); err != nil {
			return nil, err
		}
		call, err := p.parseCall()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TSemicolon); err != nil {
			return nil, err
		}
		return &ast.StaggerEvent{DelayMs: &ast.TimeLit{ValueSeconds: delayTok.Num, Unit: delayTok.Unit, Range: delayTok.Range}, Action: *call,
			Range: ast.Range{Start: start.Start, End: p.tokens[p.pos-1].Range.End}}, nil

	default:
		tok := p.peek()
		return nil, p.fail(tok.Range, "expected 'at', 'sequence' or 'stagger', found %s", describeToken(tok))
	}
}

// ---- expressions: precedence climbing --------------------------------------

var binaryPrecedence = map[lexer.T]int{
	lexer.TPipePipe: 1,
	lexer.TAmpAmp:   2,
	lexer.TEqEq:     3,
	lexer.TNotEq:    3,
	lexer.TLt:       4,
	lexer.TGt:       4,
	lexer.TLte:      4,
	lexer.TGte:      4,
	lexer.TPlus:     5,
	lexer.TMinus:    5,
	lexer.TStar:     6,
	lexer.TSlash:    6,
	lexer.TPercent:  6,
}

var binaryOps = map[lexer.T]ast.BinaryOp{
	lexer.TPlus:     ast.OpAdd,
	lexer.TMinus:    ast.OpSub,
	lexer.TStar:     ast.OpMul,
	lexer.TSlash:    ast.OpDiv,
	lexer.TPercent:  ast.OpMod,
	lexer.TAmpAmp:   ast.OpAnd,
	lexer.TPipePipe: ast.OpOr,
	lexer.TEqEq:     ast.OpEq,
	lexer.TNotEq:    ast.OpNeq,
	lexer.TLt:       ast.OpLt,
	lexer.TGt:       ast.OpGt,
	lexer.TLte:      ast.OpLte,
	lexer.TGte:      ast.OpGte,
}

func (p *parser) parseExpr() (ast.Expr, *ParseError) {
	return p.parseBinary(0)
}

func (p *parser) parseBinary(minPrec int) (ast.Expr, *ParseError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		prec, ok := binaryPrecedence[p.peekKind()]
		if !ok || prec < minPrec {
			return left, nil
		}
		opTok := p.advance()
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Op: binaryOps[opTok.Kind], Left: left, Right: right,
			Range: ast.Range{Start: ast.RangeOf(left).Start, End: ast.RangeOf(right).End}}
	}
}

func (p *parser) parseUnary() (ast.Expr, *ParseError) {
	switch p.peekKind() {
	case lexer.TNot:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNot, Operand: operand, Range: ast.Range{Start: tok.Range.Start, End: ast.RangeOf(operand).End}}, nil
	case lexer.TMinus:
		tok := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.OpNeg, Operand: operand, Range: ast.Range{Start: tok.Range.Start, End: ast.RangeOf(operand).End}}, nil
	default:
		return p.parsePrimary()
	}
}

func (p *parser) parsePrimary() (ast.Expr, *ParseError) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.TString:
		p.advance()
		return &ast.StringLit{Value: tok.Str, Range: tok.Range}, nil
	case lexer.TNumber:
		p.advance()
		return &ast.NumberLit{Value: tok.Num, Range: tok.Range}, nil
	case lexer.TTime:
		p.advance()
		return &ast.TimeLit{ValueSeconds: tok.Num, Unit: tok.Unit, Range: tok.Range}, nil
	case lexer.TTrue:
		p.advance()
		return &ast.BoolLit{Value: true, Range: tok.Range}, nil
	case lexer.TFalse:
		p.advance()
		return &ast.BoolLit{Value: false, Range: tok.Range}, nil
	case lexer.TLBracket:
		return p.parseArrayLit()
	case lexer.TLBrace:
		return p.parseObjectLit()
	case lexer.TAt:
		p.advance()
		nameTok := p.peek()
		if nameTok.Kind >= lexer.TLibrary {
			// A keyword is a valid name after '@', e.g. @layout.
			p.advance()
		} else if _, err := p.expect(lexer.TIdent); err != nil {
			return nil, err
		}
		return &ast.VarRef{Name: nameTok.Text, Range: ast.Range{Start: tok.Range.Start, End: nameTok.Range.End}}, nil
	case lexer.TAtAt:
		p.advance()
		nameTok, err := p.expect(lexer.TIdent)
		if err != nil {
			return nil, err
		}
		return &ast.SystemRef{Name: nameTok.Text, Range: ast.Range{Start: tok.Range.Start, End: nameTok.Range.End}}, nil
	case lexer.TDollar:
		p.advance()
		first, err := p.expect(lexer.TIdent)
		if err != nil {
			return nil, err
		}
		path := []string{first.Text}
		end := first.Range
		for p.peekKind() == lexer.TDot {
			p.advance()
			seg, err := p.expect(lexer.TIdent)
			if err != nil {
				return nil, err
			}
			path = append(path, seg.Text)
			end = seg.Range
		}
		return &ast.GlobalDataRef{Path: path, Range: ast.Range{Start: tok.Range.Start, End: end.End}}, nil
	case lexer.TLParen:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.TItems:
		// "items" is a keyword only inside a stagger event; as an
		// expression it is an ordinary name.
		p.advance()
		return &ast.VarRef{Name: tok.Text, Range: tok.Range}, nil
	case lexer.TIdent:
		// Bare identifier followed by "(" is a nested operation/action call
		// used as an expression, e.g. inside addController's argument list.
		if p.tokens[p.pos+1].Kind == lexer.TLParen {
			return p.parseCall()
		}
		p.advance()
		return &ast.VarRef{Name: tok.Text, Range: tok.Range}, nil
	default:
		return nil, p.fail(tok.Range, "expected an expression, found %s", describeToken(tok))
	}
}

func (p *parser) parseArrayLit() (ast.Expr, *ParseError) {
	start := p.peek().Range
	p.advance()
	lit := &ast.ArrayLit{}
	for p.peekKind() != lexer.TRBracket {
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Elements = append(lit.Elements, el)
		if p.peekKind() == lexer.TComma {
			p.advance()
		}
	}
	end, err := p.expect(lexer.TRBracket)
	if err != nil {
		return nil, err
	}
	lit.Range = ast.Range{Start: start.Start, End: end.Range.End}
	return lit, nil
}

func (p *parser) parseObjectLit() (ast.Expr, *ParseError) {
	start := p.peek().Range
	p.advance()
	lit := &ast.ObjectLit{}
	for p.peekKind() != lexer.TRBrace {
		var key string
		switch p.peekKind() {
		case lexer.TIdent:
			key = p.advance().Text
		case lexer.TString:
			key = p.advance().Str
		default:
			tok := p.peek()
			return nil, p.fail(tok.Range, "expected an object key, found %s", describeToken(tok))
		}
		if _, err := p.expect(lexer.TColon); err != nil {
			return nil, err
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		lit.Properties = append(lit.Properties, ast.ObjectProperty{Key: key, Value: value})
		if p.peekKind() == lexer.TComma {
			p.advance()
		}
	}
	end, err := p.expect(lexer.TRBrace)
	if err != nil {
		return nil, err
	}
	lit.Range = ast.Range{Start: start.Start, End: end.Range.End}
	return lit, nil
}
