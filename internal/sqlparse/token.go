// Package sqlparse provides a small general-purpose SQL lexer and parser.
//
// It understands the statements a metadata-driven generator emits and reads
// back (INSERT, UPDATE, DELETE, SELECT) in depth, including three-part
// catalog.schema.table names and ? / $n placeholders. Other statements are
// recognised by their leading keyword and kept as token runs. The parser is
// lenient about dialects: it checks structure, not keyword validity.
package sqlparse

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
type TokenType int

// TokenEOF and friends enumerate all token types produced by the lexer.
const (
	TokenEOF     TokenType = iota // end of input
	TokenIllegal                  // unexpected character or unterminated literal

	TokenIdent  // identifier
	TokenNumber // 123, 45.67, 1e10
	TokenString // 'hello'
	TokenParam  // ? or $1

	TokenPlus      // +
	TokenMinus     // -
	TokenStar      // *
	TokenSlash     // /
	TokenMod       // %
	TokenDPipe     // ||
	TokenEq        // =
	TokenNe        // != or <>
	TokenLt        // <
	TokenGt        // >
	TokenLe        // <=
	TokenGe        // >=
	TokenDot       // .
	TokenComma     // ,
	TokenSemicolon // ;
	TokenLParen    // (
	TokenRParen    // )
	TokenDColon    // ::

	// TokenAll and below are SQL keywords (alphabetical).
	TokenAll
	TokenAlter
	TokenAnd
	TokenAs
	TokenAsc
	TokenBegin
	TokenBetween
	TokenBy
	TokenCase
	TokenCast
	TokenCommit
	TokenConflict
	TokenCreate
	TokenCross
	TokenDefault
	TokenDelete
	TokenDesc
	TokenDescribe
	TokenDistinct
	TokenDo
	TokenDrop
	TokenElse
	TokenEnd
	TokenExcept
	TokenExists
	TokenFalse
	TokenFrom
	TokenFull
	TokenGroup
	TokenHaving
	TokenILike
	TokenIn
	TokenInner
	TokenInsert
	TokenIntersect
	TokenInto
	TokenIs
	TokenJoin
	TokenLeft
	TokenLike
	TokenLimit
	TokenNot
	TokenNothing
	TokenNull
	TokenOffset
	TokenOn
	TokenOr
	TokenOrder
	TokenOuter
	TokenPragma
	TokenReturning
	TokenRight
	TokenRollback
	TokenSelect
	TokenSet
	TokenShow
	TokenThen
	TokenTrue
	TokenTruncate
	TokenUnion
	TokenUpdate
	TokenUse
	TokenUsing
	TokenValues
	TokenWhen
	TokenWhere
	TokenWith
)

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsKeyword reports whether the token type is a SQL keyword.
func (t TokenType) IsKeyword() bool {
	return t >= TokenAll && t <= TokenWith
}

// tokenNames maps token types to their string representations.
var tokenNames = map[TokenType]string{
	TokenEOF:     "EOF",
	TokenIllegal: "ILLEGAL",
	TokenIdent:   "IDENT",
	TokenNumber:  "NUMBER",
	TokenString:  "STRING",
	TokenParam:   "PARAM",

	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenMod:       "%",
	TokenDPipe:     "||",
	TokenEq:        "=",
	TokenNe:        "!=",
	TokenLt:        "<",
	TokenGt:        ">",
	TokenLe:        "<=",
	TokenGe:        ">=",
	TokenDot:       ".",
	TokenComma:     ",",
	TokenSemicolon: ";",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenDColon:    "::",

	TokenAll:       "ALL",
	TokenAlter:     "ALTER",
	TokenAnd:       "AND",
	TokenAs:        "AS",
	TokenAsc:       "ASC",
	TokenBegin:     "BEGIN",
	TokenBetween:   "BETWEEN",
	TokenBy:        "BY",
	TokenCase:      "CASE",
	TokenCast:      "CAST",
	TokenCommit:    "COMMIT",
	TokenConflict:  "CONFLICT",
	TokenCreate:    "CREATE",
	TokenCross:     "CROSS",
	TokenDefault:   "DEFAULT",
	TokenDelete:    "DELETE",
	TokenDesc:      "DESC",
	TokenDescribe:  "DESCRIBE",
	TokenDistinct:  "DISTINCT",
	TokenDo:        "DO",
	TokenDrop:      "DROP",
	TokenElse:      "ELSE",
	TokenEnd:       "END",
	TokenExcept:    "EXCEPT",
	TokenExists:    "EXISTS",
	TokenFalse:     "FALSE",
	TokenFrom:      "FROM",
	TokenFull:      "FULL",
	TokenGroup:     "GROUP",
	TokenHaving:    "HAVING",
	TokenILike:     "ILIKE",
	TokenIn:        "IN",
	TokenInner:     "INNER",
	TokenInsert:    "INSERT",
	TokenIntersect: "INTERSECT",
	TokenInto:      "INTO",
	TokenIs:        "IS",
	TokenJoin:      "JOIN",
	TokenLeft:      "LEFT",
	TokenLike:      "LIKE",
	TokenLimit:     "LIMIT",
	TokenNot:       "NOT",
	TokenNothing:   "NOTHING",
	TokenNull:      "NULL",
	TokenOffset:    "OFFSET",
	TokenOn:        "ON",
	TokenOr:        "OR",
	TokenOrder:     "ORDER",
	TokenOuter:     "OUTER",
	TokenPragma:    "PRAGMA",
	TokenReturning: "RETURNING",
	TokenRight:     "RIGHT",
	TokenRollback:  "ROLLBACK",
	TokenSelect:    "SELECT",
	TokenSet:       "SET",
	TokenShow:      "SHOW",
	TokenThen:      "THEN",
	TokenTrue:      "TRUE",
	TokenTruncate:  "TRUNCATE",
	TokenUnion:     "UNION",
	TokenUpdate:    "UPDATE",
	TokenUse:       "USE",
	TokenUsing:     "USING",
	TokenValues:    "VALUES",
	TokenWhen:      "WHEN",
	TokenWhere:     "WHERE",
	TokenWith:      "WITH",
}

// keywords maps lowercase keyword strings to their token types.
var keywords = map[string]TokenType{
	"all":       TokenAll,
	"alter":     TokenAlter,
	"and":       TokenAnd,
	"as":        TokenAs,
	"asc":       TokenAsc,
	"begin":     TokenBegin,
	"between":   TokenBetween,
	"by":        TokenBy,
	"case":      TokenCase,
	"cast":      TokenCast,
	"commit":    TokenCommit,
	"conflict":  TokenConflict,
	"create":    TokenCreate,
	"cross":     TokenCross,
	"default":   TokenDefault,
	"delete":    TokenDelete,
	"desc":      TokenDesc,
	"describe":  TokenDescribe,
	"distinct":  TokenDistinct,
	"do":        TokenDo,
	"drop":      TokenDrop,
	"else":      TokenElse,
	"end":       TokenEnd,
	"except":    TokenExcept,
	"exists":    TokenExists,
	"false":     TokenFalse,
	"from":      TokenFrom,
	"full":      TokenFull,
	"group":     TokenGroup,
	"having":    TokenHaving,
	"ilike":     TokenILike,
	"in":        TokenIn,
	"inner":     TokenInner,
	"insert":    TokenInsert,
	"intersect": TokenIntersect,
	"into":      TokenInto,
	"is":        TokenIs,
	"join":      TokenJoin,
	"left":      TokenLeft,
	"like":      TokenLike,
	"limit":     TokenLimit,
	"not":       TokenNot,
	"nothing":   TokenNothing,
	"null":      TokenNull,
	"offset":    TokenOffset,
	"on":        TokenOn,
	"or":        TokenOr,
	"order":     TokenOrder,
	"outer":     TokenOuter,
	"pragma":    TokenPragma,
	"returning": TokenReturning,
	"right":     TokenRight,
	"rollback":  TokenRollback,
	"select":    TokenSelect,
	"set":       TokenSet,
	"show":      TokenShow,
	"then":      TokenThen,
	"true":      TokenTrue,
	"truncate":  TokenTruncate,
	"union":     TokenUnion,
	"update":    TokenUpdate,
	"use":       TokenUse,
	"using":     TokenUsing,
	"values":    TokenValues,
	"when":      TokenWhen,
	"where":     TokenWhere,
	"with":      TokenWith,
}

// lookupKeyword returns the token type for the given lowercase identifier.
// Returns TokenIdent if it's not a keyword.
func lookupKeyword(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return TokenIdent
}

// IsReservedWord reports whether name is a keyword that cannot be used as an
// unquoted table name or expression operand. Such names are still accepted in
// INSERT column lists, SET targets and before '=' in a condition.
func IsReservedWord(name string) bool {
	t := lookupKeyword(strings.ToLower(name))
	return t != TokenIdent && !isIdentToken(Token{Type: t})
}

// Token represents a lexical token with its literal value and byte offset.
type Token struct {
	Type    TokenType
	Literal string
	Pos     int
	// Quoted is set for "double-quoted" identifiers, which are never keywords.
	Quoted bool
}

// Precedence constants for operator precedence parsing (Pratt parser).
const (
	PrecedenceNone       = 0
	PrecedenceOr         = 1
	PrecedenceAnd        = 2
	PrecedenceNot        = 3
	PrecedenceComparison = 4 // =, <>, <, >, <=, >=, LIKE, ILIKE, IN, BETWEEN, IS
	PrecedenceAddition   = 5 // +, -, ||
	PrecedenceMultiply   = 6 // *, /, %
	PrecedenceUnary      = 7 // -, + (prefix)
	PrecedencePostfix    = 8 // ::
)
