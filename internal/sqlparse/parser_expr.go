package sqlparse

import (
	"fmt"
	"strings"
)

// parseExpr parses one full expression.
func (p *Parser) parseExpr() Expr {
	return p.parseExprPrec(PrecedenceNone + 1)
}

// parseExprList parses expr [, expr]... and returns nil on error.
func (p *Parser) parseExprList() []Expr {
	var exprs []Expr
	for {
		e := p.parseExpr()
		if e == nil {
			return nil
		}
		exprs = append(exprs, e)
		if !p.match(TokenComma) {
			return exprs
		}
	}
}

// parseExprPrec parses an expression whose infix operators all bind at
// least as tightly as minPrec.
func (p *Parser) parseExprPrec(minPrec int) Expr {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	expr := p.parseUnary()
	for expr != nil {
		prec := p.infixPrec()
		if prec == PrecedenceNone || prec < minPrec {
			break
		}
		expr = p.parseInfix(expr, prec)
	}
	return expr
}

// parseUnary parses NOT, unary minus and plus, or a primary expression.
func (p *Parser) parseUnary() Expr {
	switch p.token.Type {
	case TokenNot:
		p.advance()
		return unary(TokenNot, p.parseExprPrec(PrecedenceNot))
	case TokenMinus:
		p.advance()
		return unary(TokenMinus, p.parseExprPrec(PrecedenceUnary))
	case TokenPlus:
		p.advance()
		return unary(TokenPlus, p.parseExprPrec(PrecedenceUnary))
	default:
		return p.parsePrimary()
	}
}

func unary(op TokenType, operand Expr) Expr {
	if operand == nil {
		return nil
	}
	return &UnaryExpr{Op: op, Expr: operand}
}

// infixPrec is the binding power of the current token in infix position,
// PrecedenceNone when it cannot continue an expression.
func (p *Parser) infixPrec() int {
	switch p.token.Type {
	case TokenOr:
		return PrecedenceOr
	case TokenAnd:
		return PrecedenceAnd
	case TokenEq, TokenNe, TokenLt, TokenGt, TokenLe, TokenGe:
		return PrecedenceComparison
	case TokenIs, TokenIn, TokenBetween, TokenLike, TokenILike:
		return PrecedenceComparison
	case TokenNot:
		// Only as NOT IN / NOT BETWEEN / NOT LIKE / NOT ILIKE.
		switch p.peek.Type {
		case TokenIn, TokenBetween, TokenLike, TokenILike:
			return PrecedenceComparison
		}
		return PrecedenceNone
	case TokenPlus, TokenMinus, TokenDPipe:
		return PrecedenceAddition
	case TokenStar, TokenSlash, TokenMod:
		return PrecedenceMultiply
	case TokenDColon:
		return PrecedencePostfix
	default:
		return PrecedenceNone
	}
}

// parseInfix parses the operator at the current token and its right side.
func (p *Parser) parseInfix(left Expr, prec int) Expr {
	not := false
	if p.check(TokenNot) {
		not = true
		p.advance()
	}

	switch p.token.Type {
	case TokenIs:
		p.advance()
		isNot := p.match(TokenNot)
		switch {
		case p.match(TokenNull):
			return &IsNullExpr{Expr: left, Not: isNot}
		case p.check(TokenTrue), p.check(TokenFalse):
			lit := &Literal{Type: LiteralBool, Value: strings.ToUpper(p.token.Literal)}
			p.advance()
			op := TokenIs
			if isNot {
				return &UnaryExpr{Op: TokenNot, Expr: &BinaryExpr{Left: left, Op: op, Right: lit}}
			}
			return &BinaryExpr{Left: left, Op: op, Right: lit}
		default:
			p.addError(fmt.Sprintf("expected NULL, TRUE or FALSE after IS, got %s", describe(p.token)))
			return nil
		}
	case TokenIn:
		p.advance()
		return p.parseInExpr(left, not)
	case TokenBetween:
		p.advance()
		low := p.parseExprPrec(PrecedenceAddition)
		if low == nil || !p.expect(TokenAnd) {
			return nil
		}
		high := p.parseExprPrec(PrecedenceAddition)
		if high == nil {
			return nil
		}
		return &BetweenExpr{Expr: left, Not: not, Low: low, High: high}
	case TokenLike, TokenILike:
		ilike := p.check(TokenILike)
		p.advance()
		pattern := p.parseExprPrec(PrecedenceAddition)
		if pattern == nil {
			return nil
		}
		return &LikeExpr{Expr: left, Not: not, ILike: ilike, Pattern: pattern}
	case TokenDColon:
		p.advance()
		typeName := p.parseTypeName()
		if typeName == "" {
			return nil
		}
		return &CastExpr{Expr: left, TypeName: typeName}
	}

	bin := &BinaryExpr{Left: left, Op: p.token.Type}
	p.advance()
	if bin.Right = p.parseExprPrec(prec + 1); bin.Right == nil {
		return nil
	}
	return bin
}

// parseInExpr parses the list or subquery after IN.
func (p *Parser) parseInExpr(left Expr, not bool) Expr {
	if !p.expect(TokenLParen) {
		return nil
	}
	in := &InExpr{Expr: left, Not: not}
	if p.check(TokenSelect) || p.check(TokenWith) {
		in.Query = p.parseSelect()
		if in.Query == nil {
			return nil
		}
	} else {
		in.List = p.parseExprList()
		if in.List == nil {
			return nil
		}
	}
	if !p.expect(TokenRParen) {
		return nil
	}
	return in
}

// parsePrimary parses literals, references, calls and parenthesised forms.
// On failure the offending token is consumed so callers always make progress.
func (p *Parser) parsePrimary() Expr {
	tok := p.token
	if keywordColumn(tok) && p.checkPeek(TokenEq) {
		p.advance()
		return &ColumnRef{Parts: []string{tok.Literal}}
	}
	switch tok.Type {
	case TokenString:
		p.advance()
		return &Literal{Type: LiteralString, Value: tok.Literal}
	case TokenNumber:
		p.advance()
		return &Literal{Type: LiteralNumber, Value: tok.Literal}
	case TokenTrue, TokenFalse:
		p.advance()
		return &Literal{Type: LiteralBool, Value: strings.ToUpper(tok.Literal)}
	case TokenNull:
		p.advance()
		return &Literal{Type: LiteralNull, Value: "NULL"}
	case TokenParam:
		p.advance()
		return &Placeholder{Text: tok.Literal}
	case TokenDefault:
		p.advance()
		return &DefaultExpr{}
	case TokenStar:
		p.advance()
		return &Star{}
	case TokenCase:
		return p.parseCaseExpr()
	case TokenCast:
		return p.parseCastExpr()
	case TokenExists:
		p.advance()
		if !p.expect(TokenLParen) {
			return nil
		}
		query := p.parseSelect()
		if query == nil || !p.expect(TokenRParen) {
			return nil
		}
		return &SubqueryExpr{Query: query, Exists: true}
	case TokenLParen:
		return p.parseParenExpr()
	case TokenLeft, TokenRight:
		// left(s, n) and right(s, n) are ordinary functions.
		if p.checkPeek(TokenLParen) {
			p.advance()
			return p.parseFuncCall(tok.Literal)
		}
	}

	if isIdentToken(tok) {
		return p.parseColumnOrCall()
	}

	p.addError(fmt.Sprintf("unexpected %s in expression", describe(tok)))
	if !p.check(TokenEOF) {
		p.advance()
	}
	return nil
}

// keywordColumn reports whether tok is a keyword that reads as a column
// name when directly followed by '=', as in WHERE order='1'. Literal
// keywords and prefix operators keep their meaning.
func keywordColumn(tok Token) bool {
	switch tok.Type {
	case TokenNull, TokenTrue, TokenFalse, TokenNot, TokenExists:
		return false
	}
	return tok.Type.IsKeyword()
}

// parseColumnOrCall parses a dotted reference, a qualified star, or a function call.
func (p *Parser) parseColumnOrCall() Expr {
	parts := []string{p.token.Literal}
	p.advance()

	if p.check(TokenLParen) {
		return p.parseFuncCall(parts[0])
	}

	for p.match(TokenDot) {
		if p.match(TokenStar) {
			return &Star{Table: strings.Join(parts, ".")}
		}
		part, ok := p.parseIdent("identifier after '.'")
		if !ok {
			return nil
		}
		parts = append(parts, part)
	}
	if p.check(TokenLParen) {
		// schema-qualified function, e.g. main.my_func(x)
		return p.parseFuncCall(strings.Join(parts, "."))
	}
	return &ColumnRef{Parts: parts}
}

// parseFuncCall parses ( [DISTINCT] args | * ) with the current token at (.
func (p *Parser) parseFuncCall(name string) Expr {
	p.advance() // consume (
	fn := &FuncCall{Name: name}
	switch {
	case p.match(TokenRParen):
		return fn
	case p.check(TokenStar) && p.checkPeek(TokenRParen):
		p.advance()
		p.advance()
		fn.Star = true
		return fn
	}
	if p.match(TokenDistinct) {
		fn.Distinct = true
	}
	fn.Args = p.parseExprList()
	if fn.Args == nil || !p.expect(TokenRParen) {
		return nil
	}
	return fn
}

// parseParenExpr parses ( expr [, expr]... ) or ( subquery ).
func (p *Parser) parseParenExpr() Expr {
	p.advance() // consume (
	if p.check(TokenSelect) || p.check(TokenWith) {
		query := p.parseSelect()
		if query == nil || !p.expect(TokenRParen) {
			return nil
		}
		return &SubqueryExpr{Query: query}
	}
	if p.check(TokenRParen) {
		p.addError("empty parenthesised expression")
		return nil
	}
	exprs := p.parseExprList()
	if exprs == nil || !p.expect(TokenRParen) {
		return nil
	}
	return &ParenExpr{Exprs: exprs}
}

// parseCaseExpr parses CASE [operand] WHEN cond THEN result [...] [ELSE result] END.
func (p *Parser) parseCaseExpr() Expr {
	p.advance() // consume CASE
	c := &CaseExpr{}
	if !p.check(TokenWhen) {
		c.Operand = p.parseExpr()
		if c.Operand == nil {
			return nil
		}
	}
	for p.match(TokenWhen) {
		cond := p.parseExpr()
		if cond == nil || !p.expect(TokenThen) {
			return nil
		}
		result := p.parseExpr()
		if result == nil {
			return nil
		}
		c.Whens = append(c.Whens, WhenClause{Condition: cond, Result: result})
	}
	if len(c.Whens) == 0 {
		p.addError(fmt.Sprintf("expected WHEN in CASE, got %s", describe(p.token)))
		return nil
	}
	if p.match(TokenElse) {
		c.Else = p.parseExpr()
		if c.Else == nil {
			return nil
		}
	}
	if !p.expect(TokenEnd) {
		return nil
	}
	return c
}

// parseCastExpr parses CAST ( expr AS type ).
func (p *Parser) parseCastExpr() Expr {
	p.advance() // consume CAST
	if !p.expect(TokenLParen) {
		return nil
	}
	expr := p.parseExpr()
	if expr == nil || !p.expect(TokenAs) {
		return nil
	}
	typeName := p.parseTypeName()
	if typeName == "" || !p.expect(TokenRParen) {
		return nil
	}
	return &CastExpr{Expr: expr, TypeName: typeName}
}

// typeSuffixes are the second words of multi-word type names.
var typeSuffixes = map[string]bool{"precision": true, "varying": true}

// parseTypeName parses a type such as INTEGER, VARCHAR(20), DECIMAL(10, 2)
// or DOUBLE PRECISION. Returns "" on error.
func (p *Parser) parseTypeName() string {
	name, ok := p.parseIdent("type name")
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToUpper(name))
	// DOUBLE PRECISION, CHARACTER VARYING
	for p.check(TokenIdent) && typeSuffixes[strings.ToLower(p.token.Literal)] {
		b.WriteByte(' ')
		b.WriteString(strings.ToUpper(p.token.Literal))
		p.advance()
	}
	if p.match(TokenLParen) {
		b.WriteByte('(')
		for i := 0; ; i++ {
			if !p.check(TokenNumber) {
				p.addError(fmt.Sprintf("expected type modifier, got %s", describe(p.token)))
				return ""
			}
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(p.token.Literal)
			p.advance()
			if !p.match(TokenComma) {
				break
			}
		}
		if !p.expect(TokenRParen) {
			return ""
		}
		b.WriteByte(')')
	}
	return b.String()
}
