package sqlparse

import "fmt"

// parseInsert parses INSERT INTO table [(cols)] VALUES ... | SELECT ... | DEFAULT VALUES.
func (p *Parser) parseInsert() *InsertStmt {
	p.advance() // consume INSERT
	if !p.expect(TokenInto) {
		return nil
	}

	table := p.parseTableName(false)
	if table == nil {
		return nil
	}
	if p.match(TokenAs) {
		alias, ok := p.parseIdent("alias after AS")
		if !ok {
			return nil
		}
		table.Alias = alias
	}
	stmt := &InsertStmt{Table: table}

	// A parenthesis here is either a column list or a parenthesised query.
	if p.check(TokenLParen) && !p.checkPeek(TokenSelect) && !p.checkPeek(TokenWith) {
		stmt.Columns = p.parseParenColumnList("column")
		if stmt.Columns == nil {
			return nil
		}
	}

	switch {
	case p.match(TokenValues):
		stmt.Values = p.parseValuesRows(len(stmt.Columns))
		if stmt.Values == nil {
			return nil
		}
	case p.check(TokenDefault):
		p.advance()
		if !p.expect(TokenValues) {
			return nil
		}
		stmt.DefaultValues = true
	case p.check(TokenSelect), p.check(TokenWith):
		stmt.Query = p.parseSelect()
	case p.check(TokenLParen):
		p.advance()
		stmt.Query = p.parseSelect()
		if stmt.Query != nil {
			p.expect(TokenRParen)
		}
	default:
		p.addError(fmt.Sprintf("expected VALUES, SELECT or DEFAULT VALUES, got %s", describe(p.token)))
		return nil
	}
	if p.failed() {
		return nil
	}

	if p.check(TokenOn) && p.checkPeek(TokenConflict) {
		stmt.OnConflict = p.parseOnConflict()
		if stmt.OnConflict == nil {
			return nil
		}
	}
	if p.match(TokenReturning) {
		stmt.Returning = p.parseSelectList()
	}
	if p.failed() {
		return nil
	}
	return stmt
}

// parseValuesRows parses ( expr, ... ) [, ( expr, ... )]... . When width is
// non-zero every row must have exactly that many values; otherwise rows must
// agree with the first.
func (p *Parser) parseValuesRows(width int) [][]Expr {
	var rows [][]Expr
	for {
		if !p.expect(TokenLParen) {
			return nil
		}
		if p.check(TokenRParen) {
			p.addError("empty VALUES row")
			return nil
		}
		row := p.parseExprList()
		if row == nil || !p.expect(TokenRParen) {
			return nil
		}
		if width == 0 {
			width = len(row)
		}
		if len(row) != width {
			p.addError(fmt.Sprintf("VALUES row %d has %d values, expected %d", len(rows)+1, len(row), width))
			return nil
		}
		rows = append(rows, row)
		if !p.match(TokenComma) {
			return rows
		}
	}
}

// parseOnConflict parses ON CONFLICT [(cols)] DO NOTHING | DO UPDATE SET ... [WHERE ...].
func (p *Parser) parseOnConflict() *OnConflict {
	p.advance() // consume ON
	p.advance() // consume CONFLICT
	oc := &OnConflict{}
	if p.check(TokenLParen) {
		oc.Columns = p.parseParenIdentList("conflict column")
		if oc.Columns == nil {
			return nil
		}
	}
	if !p.expect(TokenDo) {
		return nil
	}
	switch {
	case p.match(TokenNothing):
		oc.DoNothing = true
	case p.match(TokenUpdate):
		if !p.expect(TokenSet) {
			return nil
		}
		oc.Sets = p.parseSetClauses()
		if oc.Sets == nil {
			return nil
		}
		if p.match(TokenWhere) {
			oc.Where = p.parseExpr()
		}
	default:
		p.addError(fmt.Sprintf("expected NOTHING or UPDATE after DO, got %s", describe(p.token)))
		return nil
	}
	return oc
}

// parseUpdate parses UPDATE table SET col = expr, ... [FROM ...] [WHERE ...] [RETURNING ...].
func (p *Parser) parseUpdate() *UpdateStmt {
	p.advance() // consume UPDATE

	table := p.parseTableName(true)
	if table == nil {
		return nil
	}
	if !p.expect(TokenSet) {
		return nil
	}
	stmt := &UpdateStmt{Table: table}
	stmt.Sets = p.parseSetClauses()
	if stmt.Sets == nil {
		return nil
	}

	if p.match(TokenFrom) {
		stmt.From = p.parseFromList()
	}
	if p.match(TokenWhere) {
		stmt.Where = p.parseExpr()
	}
	if p.match(TokenReturning) {
		stmt.Returning = p.parseSelectList()
	}
	if p.failed() {
		return nil
	}
	return stmt
}

// parseSetClauses parses col = expr [, col = expr]... with at least one assignment.
func (p *Parser) parseSetClauses() []SetClause {
	var sets []SetClause
	for {
		col, ok := p.parseColumnName("column name in SET")
		if !ok {
			return nil
		}
		// Allow a qualified target such as t.col.
		for p.match(TokenDot) {
			if col, ok = p.parseColumnName("identifier after '.'"); !ok {
				return nil
			}
		}
		if !p.expect(TokenEq) {
			return nil
		}
		value := p.parseExpr()
		if value == nil {
			return nil
		}
		sets = append(sets, SetClause{Column: col, Value: value})
		if !p.match(TokenComma) {
			return sets
		}
	}
}

// parseDelete parses DELETE FROM table [USING ...] [WHERE ...] [RETURNING ...].
func (p *Parser) parseDelete() *DeleteStmt {
	p.advance() // consume DELETE
	if !p.expect(TokenFrom) {
		return nil
	}

	table := p.parseTableName(true)
	if table == nil {
		return nil
	}
	stmt := &DeleteStmt{Table: table}
	if p.match(TokenUsing) {
		stmt.Using = p.parseFromList()
	}
	if p.match(TokenWhere) {
		stmt.Where = p.parseExpr()
	}
	if p.match(TokenReturning) {
		stmt.Returning = p.parseSelectList()
	}
	if p.failed() {
		return nil
	}
	return stmt
}

// parseSelect parses [WITH ...] SELECT ... [set ops] [ORDER BY] [LIMIT] [OFFSET].
func (p *Parser) parseSelect() *SelectStmt {
	if !p.enter() {
		return nil
	}
	defer p.leave()

	stmt := &SelectStmt{}
	if p.match(TokenWith) {
		stmt.With = p.parseCTEs()
		if stmt.With == nil {
			return nil
		}
	}

	stmt.Body = p.parseSelectCore()
	if stmt.Body == nil {
		return nil
	}

	for p.check(TokenUnion) || p.check(TokenIntersect) || p.check(TokenExcept) {
		op := SetOp{Op: p.token.Type}
		p.advance()
		if p.match(TokenAll) {
			op.All = true
		} else {
			p.match(TokenDistinct)
		}
		op.Core = p.parseSelectCore()
		if op.Core == nil {
			return nil
		}
		stmt.SetOps = append(stmt.SetOps, op)
	}

	if p.check(TokenOrder) {
		p.advance()
		if !p.expect(TokenBy) {
			return nil
		}
		stmt.OrderBy = p.parseOrderBy()
	}
	if p.match(TokenLimit) {
		stmt.Limit = p.parseExpr()
	}
	if p.match(TokenOffset) {
		stmt.Offset = p.parseExpr()
	}
	if p.failed() {
		return nil
	}
	return stmt
}

// parseCTEs parses name [(cols)] AS ( query ) [, ...].
func (p *Parser) parseCTEs() []CTE {
	var ctes []CTE
	for {
		name, ok := p.parseIdent("CTE name")
		if !ok {
			return nil
		}
		cte := CTE{Name: name}
		if p.check(TokenLParen) {
			cte.Columns = p.parseParenIdentList("CTE column")
			if cte.Columns == nil {
				return nil
			}
		}
		if !p.expect(TokenAs) || !p.expect(TokenLParen) {
			return nil
		}
		cte.Query = p.parseSelect()
		if cte.Query == nil || !p.expect(TokenRParen) {
			return nil
		}
		ctes = append(ctes, cte)
		if !p.match(TokenComma) {
			return ctes
		}
	}
}

// parseSelectCore parses SELECT [DISTINCT|ALL] items [FROM ...] [WHERE ...] [GROUP BY ...] [HAVING ...].
func (p *Parser) parseSelectCore() *SelectCore {
	if !p.expect(TokenSelect) {
		return nil
	}
	core := &SelectCore{}
	if p.match(TokenDistinct) {
		core.Distinct = true
	} else {
		p.match(TokenAll)
	}

	core.Columns = p.parseSelectList()
	if core.Columns == nil {
		return nil
	}
	if p.match(TokenFrom) {
		core.From = p.parseFromList()
	}
	if p.match(TokenWhere) {
		core.Where = p.parseExpr()
	}
	if p.check(TokenGroup) {
		p.advance()
		if !p.expect(TokenBy) {
			return nil
		}
		core.GroupBy = p.parseExprList()
	}
	if p.match(TokenHaving) {
		core.Having = p.parseExpr()
	}
	if p.failed() {
		return nil
	}
	return core
}

// parseSelectList parses expr [[AS] alias] [, ...].
func (p *Parser) parseSelectList() []SelectItem {
	var items []SelectItem
	for {
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		items = append(items, SelectItem{Expr: expr, Alias: p.parseOptionalAlias()})
		if !p.match(TokenComma) {
			return items
		}
	}
}

// parseOrderBy parses expr [ASC|DESC] [, ...].
func (p *Parser) parseOrderBy() []OrderByItem {
	var items []OrderByItem
	for {
		expr := p.parseExpr()
		if expr == nil {
			return nil
		}
		item := OrderByItem{Expr: expr}
		if p.match(TokenDesc) {
			item.Desc = true
		} else {
			p.match(TokenAsc)
		}
		items = append(items, item)
		if !p.match(TokenComma) {
			return items
		}
	}
}

// parseFromList parses table_ref [join...] [, table_ref [join...]]...
func (p *Parser) parseFromList() []TableRef {
	var refs []TableRef
	for {
		ref := p.parseJoinedTable()
		if ref == nil {
			return nil
		}
		refs = append(refs, ref)
		if !p.match(TokenComma) {
			return refs
		}
	}
}

// parseJoinedTable parses a table reference followed by any number of joins.
func (p *Parser) parseJoinedTable() TableRef {
	left := p.parseTableRef()
	if left == nil {
		return nil
	}
	for {
		joinType, ok := p.parseJoinType()
		if !ok {
			return left
		}
		right := p.parseTableRef()
		if right == nil {
			return nil
		}
		join := &JoinExpr{Left: left, Right: right, Type: joinType}
		if joinType != JoinCross {
			switch {
			case p.match(TokenOn):
				join.Condition = p.parseExpr()
				if join.Condition == nil {
					return nil
				}
			case p.match(TokenUsing):
				join.Using = p.parseParenIdentList("USING column")
				if join.Using == nil {
					return nil
				}
			default:
				p.addError(fmt.Sprintf("expected ON or USING after JOIN, got %s", describe(p.token)))
				return nil
			}
		}
		left = join
	}
}

// parseJoinType consumes a join keyword sequence if one is present.
func (p *Parser) parseJoinType() (JoinType, bool) {
	var jt JoinType
	switch p.token.Type {
	case TokenJoin:
		p.advance()
		return JoinInner, true
	case TokenInner:
		jt = JoinInner
	case TokenLeft:
		jt = JoinLeft
	case TokenRight:
		jt = JoinRight
	case TokenFull:
		jt = JoinFull
	case TokenCross:
		jt = JoinCross
	default:
		return 0, false
	}
	p.advance()
	if jt == JoinLeft || jt == JoinRight || jt == JoinFull {
		p.match(TokenOuter)
	}
	if !p.expect(TokenJoin) {
		return 0, false
	}
	return jt, true
}

// parseTableRef parses a table name or a parenthesised subquery.
func (p *Parser) parseTableRef() TableRef {
	if p.check(TokenLParen) {
		p.advance()
		if !p.check(TokenSelect) && !p.check(TokenWith) {
			p.addError(fmt.Sprintf("expected subquery, got %s", describe(p.token)))
			return nil
		}
		query := p.parseSelect()
		if query == nil || !p.expect(TokenRParen) {
			return nil
		}
		return &DerivedTable{Query: query, Alias: p.parseOptionalAlias()}
	}
	if t := p.parseTableName(true); t != nil {
		return t
	}
	return nil
}
