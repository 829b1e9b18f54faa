package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []Token) []T {
	out := make([]T, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestTokenize_Punctuation(t *testing.T) {
	tokens, err := Tokenize("<test>", "{}()[],.:;")
	require.Nil(t, err)
	assert.Equal(t, []T{TLBrace, TRBrace, TLParen, TRParen, TLBracket, TRBracket, TComma, TDot, TColon, TSemicolon, TEOF}, kinds(tokens))
}

func TestTokenize_DotDotVsDot(t *testing.T) {
	tokens, err := Tokenize("<test>", "1..5")
	require.Nil(t, err)
	// "1" then ".." then "5" -- the lexer greedily consumes ".." before
	// falling back to a lone "." once no second dot follows.
	assert.Equal(t, []T{TNumber, TDotDot, TNumber, TEOF}, kinds(tokens))
}

func TestTokenize_Operators(t *testing.T) {
	tokens, err := Tokenize("<test>", "&& || == != <= >= < > = ! + - * / %")
	require.Nil(t, err)
	assert.Equal(t, []T{
		TAmpAmp, TPipePipe, TEqEq, TNotEq, TLte, TGte, TLt, TGt, TAssign, TNot,
		TPlus, TMinus, TStar, TSlash, TPercent, TEOF,
	}, kinds(tokens))
}

func TestTokenize_SingleAmpOrPipeIsError(t *testing.T) {
	_, err := Tokenize("<test>", "a & b")
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unexpected character")

	_, err = Tokenize("<test>", "a | b")
	require.NotNil(t, err)
}

func TestTokenize_AtAndAtAt(t *testing.T) {
	tokens, err := Tokenize("<test>", "@ @@ @@loopIndex")
	require.Nil(t, err)
	require.Len(t, tokens, 5) // @, @@, @@, loopIndex, EOF
	assert.Equal(t, TAt, tokens[0].Kind)
	assert.Equal(t, TAtAt, tokens[1].Kind)
	assert.Equal(t, TAtAt, tokens[2].Kind)
	assert.Equal(t, TIdent, tokens[3].Kind)
	assert.Equal(t, "loopIndex", tokens[3].Text)
}

func TestTokenize_Dollar(t *testing.T) {
	tokens, err := Tokenize("<test>", "$")
	require.Nil(t, err)
	assert.Equal(t, TDollar, tokens[0].Kind)
}

func TestTokenize_Keywords(t *testing.T) {
	tokens, err := Tokenize("<test>", "action import as styles layout provider locales")
	require.Nil(t, err)
	assert.Equal(t, []T{TAction, TImport, TAs, TStyles, TLayout, TProvider, TLocales, TEOF}, kinds(tokens))
}

func TestTokenize_IdentAllowsHyphen(t *testing.T) {
	tokens, err := Tokenize("<test>", "en-US")
	require.Nil(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TIdent, tokens[0].Kind)
	assert.Equal(t, "en-US", tokens[0].Text)
}

func TestTokenize_IdentUnderscoreStart(t *testing.T) {
	tokens, err := Tokenize("<test>", "_private123")
	require.Nil(t, err)
	assert.Equal(t, TIdent, tokens[0].Kind)
	assert.Equal(t, "_private123", tokens[0].Text)
}

func TestTokenize_Number(t *testing.T) {
	tokens, err := Tokenize("<test>", "42 3.14")
	require.Nil(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TNumber, tokens[0].Kind)
	assert.Equal(t, float64(42), tokens[0].Num)
	assert.Equal(t, TNumber, tokens[1].Kind)
	assert.Equal(t, 3.14, tokens[1].Num)
}

func TestTokenize_TimeLiteralSeconds(t *testing.T) {
	tokens, err := Tokenize("<test>", "1.5s")
	require.Nil(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TTime, tokens[0].Kind)
	assert.Equal(t, "s", tokens[0].Unit)
	assert.Equal(t, 1.5, tokens[0].Num)
}

func TestTokenize_TimeLiteralMilliseconds(t *testing.T) {
	tokens, err := Tokenize("<test>", "200ms")
	require.Nil(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, TTime, tokens[0].Kind)
	assert.Equal(t, "ms", tokens[0].Unit)
	assert.Equal(t, 0.2, tokens[0].Num)
}

func TestTokenize_NumberFollowedByIdentIsNotATimeLiteral(t *testing.T) {
	// "1shape" must lex as "1" followed by an identifier, not a bogus
	// time-literal "1s" glued to "hape".
	tokens, err := Tokenize("<test>", "1shape")
	require.Nil(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, TNumber, tokens[0].Kind)
	assert.Equal(t, TIdent, tokens[1].Kind)
	assert.Equal(t, "shape", tokens[1].Text)
}

func TestTokenize_StringDoubleAndSingleQuote(t *testing.T) {
	tokens, err := Tokenize("<test>", `"hello" 'world'`)
	require.Nil(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, "hello", tokens[0].Str)
	assert.Equal(t, "world", tokens[1].Str)
}

func TestTokenize_StringEscapes(t *testing.T) {
	tokens, err := Tokenize("<test>", `"a\nb\tc\\d\"e"`)
	require.Nil(t, err)
	assert.Equal(t, "a\nb\tc\\d\"e", tokens[0].Str)
}

func TestTokenize_UnterminatedStringIsError(t *testing.T) {
	_, err := Tokenize("<test>", `"unterminated`)
	require.NotNil(t, err)
	assert.Contains(t, err.Message, "unterminated string literal")
}

func TestTokenize_StringCannotSpanLines(t *testing.T) {
	_, err := Tokenize("<test>", "\"abc\ndef\"")
	require.NotNil(t, err)
}

func TestTokenize_CommentsAreSkipped(t *testing.T) {
	tokens, err := Tokenize("<test>", "a // line comment\nb /* block\ncomment */ c")
	require.Nil(t, err)
	require.Len(t, tokens, 4)
	assert.Equal(t, "a", tokens[0].Text)
	assert.Equal(t, "b", tokens[1].Text)
	assert.Equal(t, "c", tokens[2].Text)
}

func TestTokenize_UnexpectedCharacterStopsAtError(t *testing.T) {
	tokens, err := Tokenize("<test>", "a ~ b")
	require.NotNil(t, err)
	assert.Equal(t, TIdent, tokens[0].Kind)
	assert.Contains(t, err.Message, `unexpected character "~"`)
}

func TestTokenize_PositionsTrackLinesAndColumns(t *testing.T) {
	tokens, err := Tokenize("<test>", "a\nbb")
	require.Nil(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 1, tokens[0].Range.Start.Line)
	assert.Equal(t, 0, tokens[0].Range.Start.Column)
	assert.Equal(t, 2, tokens[1].Range.Start.Line)
	assert.Equal(t, 0, tokens[1].Range.Start.Column)
	assert.Equal(t, 2, tokens[1].Range.End.Column)
}

func TestTokenize_EmptySourceYieldsOnlyEOF(t *testing.T) {
	tokens, err := Tokenize("<test>", "")
	require.Nil(t, err)
	require.Len(t, tokens, 1)
	assert.Equal(t, TEOF, tokens[0].Kind)
}

func TestTString_NamesKeywordsAndClasses(t *testing.T) {
	assert.Equal(t, "action", TAction.String())
	assert.Equal(t, "identifier", TIdent.String())
	assert.Equal(t, "end of file", TEOF.String())
	assert.Equal(t, "string", TString.String())
	assert.Equal(t, "time literal", TTime.String())
}
