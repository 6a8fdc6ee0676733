package sqlparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexer_Punctuation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType TokenType
		wantLit  string
	}{
		{"plus", "+", TokenPlus, "+"},
		{"minus", "-", TokenMinus, "-"},
		{"star", "*", TokenStar, "*"},
		{"eq", "=", TokenEq, "="},
		{"ne_bang", "!=", TokenNe, "!="},
		{"ne_diamond", "<>", TokenNe, "<>"},
		{"le", "<=", TokenLe, "<="},
		{"ge", ">=", TokenGe, ">="},
		{"dot", ".", TokenDot, "."},
		{"semicolon", ";", TokenSemicolon, ";"},
		{"dcolon", "::", TokenDColon, "::"},
		{"dpipe", "||", TokenDPipe, "||"},
		{"qmark", "?", TokenParam, "?"},
		{"dollar_param", "$12", TokenParam, "$12"},
		{"bare_dollar", "$", TokenIllegal, "$"},
		{"bang", "!", TokenIllegal, "!"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tok := NewLexer(tc.input).NextToken()
			assert.Equal(t, tc.wantType, tok.Type, "token type")
			assert.Equal(t, tc.wantLit, tok.Literal, "token literal")
		})
	}
}

func TestLexer_Strings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantType TokenType
		wantLit  string
	}{
		{"simple", "'hello'", TokenString, "hello"},
		{"empty", "''", TokenString, ""},
		{"escaped_quote", "'it''s'", TokenString, "it's"},
		{"unterminated", "'abc", TokenIllegal, "unterminated string literal"},
		{"quoted_ident", `"Order Id"`, TokenIdent, "Order Id"},
		{"unterminated_ident", `"abc`, TokenIllegal, "unterminated quoted identifier"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tok := NewLexer(tc.input).NextToken()
			assert.Equal(t, tc.wantType, tok.Type)
			assert.Equal(t, tc.wantLit, tok.Literal)
		})
	}
}

func TestLexer_Numbers(t *testing.T) {
	for _, in := range []string{"42", "3.14", ".5", "1e10", "2.5E-3"} {
		t.Run(in, func(t *testing.T) {
			tok := NewLexer(in).NextToken()
			assert.Equal(t, TokenNumber, tok.Type)
			assert.Equal(t, in, tok.Literal)
		})
	}
}

func TestLexer_KeywordsCaseInsensitive(t *testing.T) {
	toks := Tokenize("SeLeCt insert INTO values")
	require.Len(t, toks, 4)
	assert.Equal(t, TokenSelect, toks[0].Type)
	assert.Equal(t, TokenInsert, toks[1].Type)
	assert.Equal(t, TokenInto, toks[2].Type)
	assert.Equal(t, TokenValues, toks[3].Type)
	assert.Equal(t, "SeLeCt", toks[0].Literal)
}

func TestLexer_QuotedKeywordIsIdentifier(t *testing.T) {
	toks := Tokenize(`"select"`)
	require.Len(t, toks, 1)
	assert.Equal(t, TokenIdent, toks[0].Type)
	assert.True(t, toks[0].Quoted)
}

func TestLexer_Comments(t *testing.T) {
	toks := Tokenize("-- leading\nSELECT /* inline */ 1 -- trailing")
	require.Len(t, toks, 2)
	assert.Equal(t, TokenSelect, toks[0].Type)
	assert.Equal(t, TokenNumber, toks[1].Type)
}

func TestLexer_Positions(t *testing.T) {
	toks := Tokenize("UPDATE t SET a=1")
	require.Len(t, toks, 6)
	assert.Equal(t, 0, toks[0].Pos)
	assert.Equal(t, 7, toks[1].Pos)
	assert.Equal(t, 9, toks[2].Pos)
	assert.Equal(t, 13, toks[3].Pos)
	assert.Equal(t, 14, toks[4].Pos)
	assert.Equal(t, 15, toks[5].Pos)
}

func TestTokenType_String(t *testing.T) {
	assert.Equal(t, "SELECT", TokenSelect.String())
	assert.Equal(t, "EOF", TokenEOF.String())
	assert.Equal(t, "TOKEN(9999)", TokenType(9999).String())
	assert.True(t, TokenWith.IsKeyword())
	assert.False(t, TokenIdent.IsKeyword())
}

func TestIsReservedWord(t *testing.T) {
	assert.True(t, IsReservedWord("order"))
	assert.True(t, IsReservedWord("SELECT"))
	assert.False(t, IsReservedWord("desc"))
	assert.False(t, IsReservedWord("customer_id"))
}
