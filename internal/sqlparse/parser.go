package sqlparse

import (
	"fmt"
	"strings"
)

// maxDepth bounds expression and subquery nesting.
const maxDepth = 1000

// Parser parses SQL into an AST.
type Parser struct {
	lexer  *Lexer
	token  Token // current token
	peek   Token // lookahead token
	errors []error
	depth  int
}

// NewParser returns a parser positioned at the first token of sql.
func NewParser(sql string) *Parser {
	p := &Parser{lexer: NewLexer(sql)}
	// Initialize two-token lookahead
	p.advance()
	p.advance()
	return p
}

// Parse parses sql, which must hold exactly one statement. A trailing
// semicolon is optional.
func Parse(sql string) (Stmt, error) {
	stmts, err := ParseScript(sql)
	if err != nil {
		return nil, err
	}
	switch len(stmts) {
	case 0:
		return nil, fmt.Errorf("empty SQL")
	case 1:
		return stmts[0], nil
	default:
		return nil, fmt.Errorf("multi-statement queries are not allowed")
	}
}

// ParseScript parses a semicolon-separated script. Empty statements between
// semicolons are skipped. The first parse error aborts the script.
func ParseScript(sql string) ([]Stmt, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, nil
	}

	p := NewParser(sql)
	var stmts []Stmt
	for {
		for p.match(TokenSemicolon) {
		}
		if p.check(TokenEOF) {
			return stmts, nil
		}

		stmt := p.parseTopLevel()
		if len(p.errors) > 0 {
			return nil, p.errors[0]
		}
		if !p.check(TokenSemicolon) && !p.check(TokenEOF) {
			return nil, fmt.Errorf("parse error: unexpected %s after end of statement", describe(p.token))
		}
		stmts = append(stmts, stmt)
	}
}

// ParseExpr parses sql as one expression with nothing after it.
func ParseExpr(sql string) (Expr, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil, fmt.Errorf("empty expression")
	}

	p := NewParser(sql)
	expr := p.parseExpr()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if p.token.Type != TokenEOF {
		return nil, fmt.Errorf("unexpected token after expression: %s", describe(p.token))
	}
	return expr, nil
}

// parseTopLevel picks a statement parser from the leading keyword.
func (p *Parser) parseTopLevel() Stmt {
	switch p.token.Type {
	case TokenSelect, TokenWith:
		if s := p.parseSelect(); s != nil {
			return s
		}
		return nil
	case TokenInsert:
		if s := p.parseInsert(); s != nil {
			return s
		}
		return nil
	case TokenUpdate:
		if s := p.parseUpdate(); s != nil {
			return s
		}
		return nil
	case TokenDelete:
		if s := p.parseDelete(); s != nil {
			return s
		}
		return nil

	case TokenCreate, TokenDrop, TokenAlter, TokenTruncate,
		TokenUse, TokenSet, TokenPragma, TokenDescribe, TokenShow,
		TokenBegin, TokenCommit, TokenRollback:
		return p.parseRaw()

	default:
		p.addError(fmt.Sprintf("unexpected %s at start of statement", describe(p.token)))
		return nil
	}
}

// parseRaw collects tokens up to the statement boundary. Only
// parenthesis balance and lexical validity are checked.
func (p *Parser) parseRaw() *RawStmt {
	stmt := &RawStmt{Keyword: p.token.Type}
	depth := 0
	for !p.check(TokenEOF) && !(depth == 0 && p.check(TokenSemicolon)) {
		switch p.token.Type {
		case TokenIllegal:
			p.addError(describe(p.token))
			return nil
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
			if depth < 0 {
				p.addError("unbalanced parentheses: unexpected )")
				return nil
			}
		}
		stmt.Tokens = append(stmt.Tokens, p.token)
		p.advance()
	}
	if depth > 0 {
		p.addError("unbalanced parentheses: missing )")
		return nil
	}
	return stmt
}

// advance advances to the next token.
func (p *Parser) advance() {
	p.token = p.peek
	p.peek = p.lexer.NextToken()
}

// check reports whether the current token has type t.
func (p *Parser) check(t TokenType) bool {
	return p.token.Type == t
}

// checkPeek is check for the token after the current one.
func (p *Parser) checkPeek(t TokenType) bool {
	return p.peek.Type == t
}

// match advances past a token of type t and reports whether it did.
func (p *Parser) match(t TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

// expect is match that records an error when the token is missing.
func (p *Parser) expect(t TokenType) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	p.addError(fmt.Sprintf("unexpected %s, expected %s", describe(p.token), t))
	return false
}

// addError records msg as a parse error.
func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Errorf("parse error: %s", msg))
}

// failed reports whether any error has been recorded.
func (p *Parser) failed() bool {
	return len(p.errors) > 0
}

// enter increments the nesting depth, recording an error past maxDepth.
func (p *Parser) enter() bool {
	p.depth++
	if p.depth > maxDepth {
		if !p.failed() {
			p.addError("expression nesting too deep")
		}
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.depth--
}

// describe renders a token for error messages.
func describe(tok Token) string {
	switch tok.Type {
	case TokenEOF:
		return "end of input"
	case TokenIllegal:
		return "illegal token: " + tok.Literal
	case TokenIdent:
		return fmt.Sprintf("identifier %q", tok.Literal)
	case TokenString:
		return fmt.Sprintf("string '%s'", tok.Literal)
	case TokenNumber, TokenParam:
		return fmt.Sprintf("%s %s", tok.Type, tok.Literal)
	default:
		return tok.Type.String()
	}
}

// isIdentToken reports whether tok can name a table, column or alias.
// Non-reserved keywords qualify; quoted identifiers always do.
func isIdentToken(tok Token) bool {
	switch tok.Type {
	case TokenIdent,
		TokenAsc, TokenDesc, TokenBegin, TokenCommit, TokenConflict,
		TokenDescribe, TokenDo, TokenNothing, TokenPragma, TokenRollback,
		TokenShow, TokenTruncate, TokenUse, TokenAlter:
		return true
	}
	return false
}

// parseIdent consumes an identifier, recording an error naming what was
// expected otherwise.
func (p *Parser) parseIdent(what string) (string, bool) {
	if !isIdentToken(p.token) {
		p.addError(fmt.Sprintf("expected %s, got %s", what, describe(p.token)))
		return "", false
	}
	name := p.token.Literal
	p.advance()
	return name, true
}

// parseColumnName consumes a column name in an INSERT column list or a SET
// target. A keyword is accepted there when the next token ends the name.
func (p *Parser) parseColumnName(what string) (string, bool) {
	keyword := p.token.Type.IsKeyword() &&
		(p.checkPeek(TokenEq) || p.checkPeek(TokenDot) || p.checkPeek(TokenComma) || p.checkPeek(TokenRParen))
	if !isIdentToken(p.token) && !keyword {
		p.addError(fmt.Sprintf("expected %s, got %s", what, describe(p.token)))
		return "", false
	}
	name := p.token.Literal
	p.advance()
	return name, true
}

// parseParenColumnList parses ( column, ... ). Empty lists are rejected.
func (p *Parser) parseParenColumnList(what string) []string {
	if !p.expect(TokenLParen) {
		return nil
	}
	if p.check(TokenRParen) {
		p.addError(fmt.Sprintf("empty %s list", what))
		return nil
	}
	var names []string
	for {
		name, ok := p.parseColumnName(what)
		if !ok {
			return nil
		}
		names = append(names, name)
		if !p.match(TokenComma) {
			break
		}
	}
	if !p.expect(TokenRParen) {
		return nil
	}
	return names
}

// parseIdentList parses a comma-separated list of identifiers.
func (p *Parser) parseIdentList(what string) []string {
	var names []string
	for {
		name, ok := p.parseIdent(what)
		if !ok {
			return nil
		}
		names = append(names, name)
		if !p.match(TokenComma) {
			return names
		}
	}
}

// parseParenIdentList parses ( ident, ... ). Empty lists are rejected.
func (p *Parser) parseParenIdentList(what string) []string {
	if !p.expect(TokenLParen) {
		return nil
	}
	if p.check(TokenRParen) {
		p.addError(fmt.Sprintf("empty %s list", what))
		return nil
	}
	names := p.parseIdentList(what)
	if names == nil || !p.expect(TokenRParen) {
		return nil
	}
	return names
}

// parseTableName parses [catalog.][schema.]name with an optional alias.
func (p *Parser) parseTableName(allowAlias bool) *TableName {
	if !isIdentToken(p.token) {
		p.addError(fmt.Sprintf("expected table name, got %s", describe(p.token)))
		return nil
	}
	parts := []string{p.token.Literal}
	p.advance()
	for p.match(TokenDot) {
		part, ok := p.parseIdent("identifier after '.'")
		if !ok {
			return nil
		}
		parts = append(parts, part)
	}

	t := &TableName{}
	switch len(parts) {
	case 1:
		t.Name = parts[0]
	case 2:
		t.Schema, t.Name = parts[0], parts[1]
	case 3:
		t.Catalog, t.Schema, t.Name = parts[0], parts[1], parts[2]
	default:
		p.addError(fmt.Sprintf("table name %s has too many parts", strings.Join(parts, ".")))
		return nil
	}

	if allowAlias {
		t.Alias = p.parseOptionalAlias()
	}
	return t
}

// parseOptionalAlias parses [AS] alias. Without AS only a plain identifier
// is taken, so clause keywords are never swallowed.
func (p *Parser) parseOptionalAlias() string {
	if p.match(TokenAs) {
		alias, _ := p.parseIdent("alias after AS")
		return alias
	}
	if p.check(TokenIdent) {
		alias := p.token.Literal
		p.advance()
		return alias
	}
	return ""
}
