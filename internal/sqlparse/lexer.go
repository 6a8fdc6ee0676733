package sqlparse

import (
	"strings"
	"unicode"
)

// Lexer splits SQL text into tokens. It scans bytes; every byte >= 0x80 is
// treated as a letter, so UTF-8 identifiers pass through whole.
type Lexer struct {
	src string
	off int // next unread byte
}

// NewLexer returns a Lexer positioned at the start of input.
func NewLexer(input string) *Lexer {
	return &Lexer{src: input}
}

// operators lists punctuation longest first so "<=" wins over "<".
var operators = []struct {
	text string
	typ  TokenType
}{
	{"==", TokenEq}, {"!=", TokenNe}, {"<>", TokenNe}, {"<=", TokenLe}, {">=", TokenGe},
	{"||", TokenDPipe}, {"::", TokenDColon},
	{"+", TokenPlus}, {"-", TokenMinus}, {"*", TokenStar}, {"/", TokenSlash}, {"%", TokenMod},
	{"=", TokenEq}, {"<", TokenLt}, {">", TokenGt},
	{".", TokenDot}, {",", TokenComma}, {";", TokenSemicolon},
	{"(", TokenLParen}, {")", TokenRParen}, {"?", TokenParam},
}

// NextToken scans one token. At the end of input it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	l.skipSpaceAndComments()
	start := l.off
	if start >= len(l.src) {
		return Token{Type: TokenEOF, Pos: start}
	}

	c := l.src[start]
	switch {
	case c == '\'':
		text, ok := l.scanQuoted('\'')
		if !ok {
			return Token{Type: TokenIllegal, Literal: "unterminated string literal", Pos: start}
		}
		return Token{Type: TokenString, Literal: text, Pos: start}

	case c == '"':
		text, ok := l.scanQuoted('"')
		if !ok {
			return Token{Type: TokenIllegal, Literal: "unterminated quoted identifier", Pos: start}
		}
		return Token{Type: TokenIdent, Literal: text, Pos: start, Quoted: true}

	case c == '$':
		l.off++
		if l.skipWhile(isDigit) == 0 {
			return Token{Type: TokenIllegal, Literal: "$", Pos: start}
		}
		return Token{Type: TokenParam, Literal: l.src[start:l.off], Pos: start}

	case isDigit(c), c == '.' && isDigit(l.at(1)):
		l.scanNumber()
		return Token{Type: TokenNumber, Literal: l.src[start:l.off], Pos: start}

	case isLetter(c), c == '_':
		l.off++
		l.skipWhile(isWordPart)
		word := l.src[start:l.off]
		return Token{Type: lookupKeyword(strings.ToLower(word)), Literal: word, Pos: start}
	}

	rest := l.src[start:]
	for _, op := range operators {
		if strings.HasPrefix(rest, op.text) {
			l.off += len(op.text)
			return Token{Type: op.typ, Literal: op.text, Pos: start}
		}
	}
	l.off++
	return Token{Type: TokenIllegal, Literal: string(c), Pos: start}
}

// at returns the byte n past the cursor, or 0 beyond the input. A NUL inside
// the input is returned as is; callers compare offsets to detect the end.
func (l *Lexer) at(n int) byte {
	if i := l.off + n; i < len(l.src) {
		return l.src[i]
	}
	return 0
}

// skipWhile advances past bytes matching ok and returns how many it skipped.
func (l *Lexer) skipWhile(ok func(byte) bool) int {
	from := l.off
	for l.off < len(l.src) && ok(l.src[l.off]) {
		l.off++
	}
	return l.off - from
}

func (l *Lexer) skipSpaceAndComments() {
	for {
		l.skipWhile(isSpace)
		rest := l.src[l.off:]
		switch {
		case strings.HasPrefix(rest, "--"):
			if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
				l.off += nl
			} else {
				l.off = len(l.src)
			}
		case strings.HasPrefix(rest, "/*"):
			if end := strings.Index(rest[2:], "*/"); end >= 0 {
				l.off += 2 + end + 2
			} else {
				l.off = len(l.src)
			}
		default:
			return
		}
	}
}

// scanQuoted reads text enclosed in q, where a doubled q stands for one q.
// It reports false if the input ends first.
func (l *Lexer) scanQuoted(q byte) (string, bool) {
	l.off++ // opening quote
	var b strings.Builder
	for l.off < len(l.src) {
		c := l.src[l.off]
		l.off++
		if c != q {
			b.WriteByte(c)
			continue
		}
		if l.off < len(l.src) && l.src[l.off] == q {
			b.WriteByte(q)
			l.off++
			continue
		}
		return b.String(), true
	}
	return b.String(), false
}

// scanNumber consumes digits, an optional fraction and an optional exponent.
func (l *Lexer) scanNumber() {
	l.skipWhile(isDigit)
	if l.at(0) == '.' && isDigit(l.at(1)) {
		l.off++
		l.skipWhile(isDigit)
	}
	if c := l.at(0); c == 'e' || c == 'E' {
		l.off++
		if c := l.at(0); c == '+' || c == '-' {
			l.off++
		}
		l.skipWhile(isDigit)
	}
}

// Tokenize returns every token in input up to, but not including, EOF.
func Tokenize(input string) []Token {
	var out []Token
	for l := NewLexer(input); ; {
		tok := l.NextToken()
		if tok.Type == TokenEOF {
			return out
		}
		out = append(out, tok)
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isLetter(c byte) bool { return c >= 0x80 || unicode.IsLetter(rune(c)) }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWordPart(c byte) bool { return isLetter(c) || isDigit(c) || c == '_' || c == '$' }
