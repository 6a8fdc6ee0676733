package sqlparse

import "strings"

// Walk calls fn for every node reachable from n in depth-first order.
func Walk(n Node, fn func(Node)) {
	if n == nil {
		return
	}
	fn(n)
	switch v := n.(type) {
	case *InsertStmt:
		walkTable(v.Table, fn)
		for _, row := range v.Values {
			walkExprs(row, fn)
		}
		if v.Query != nil {
			Walk(v.Query, fn)
		}
		if v.OnConflict != nil {
			walkSets(v.OnConflict.Sets, fn)
			walkExpr(v.OnConflict.Where, fn)
		}
		walkItems(v.Returning, fn)
	case *UpdateStmt:
		walkTable(v.Table, fn)
		walkSets(v.Sets, fn)
		for _, ref := range v.From {
			Walk(ref, fn)
		}
		walkExpr(v.Where, fn)
		walkItems(v.Returning, fn)
	case *DeleteStmt:
		walkTable(v.Table, fn)
		for _, ref := range v.Using {
			Walk(ref, fn)
		}
		walkExpr(v.Where, fn)
		walkItems(v.Returning, fn)
	case *SelectStmt:
		for _, cte := range v.With {
			if cte.Query != nil {
				Walk(cte.Query, fn)
			}
		}
		walkCore(v.Body, fn)
		for _, op := range v.SetOps {
			walkCore(op.Core, fn)
		}
		for _, item := range v.OrderBy {
			walkExpr(item.Expr, fn)
		}
		walkExpr(v.Limit, fn)
		walkExpr(v.Offset, fn)
	case *DerivedTable:
		if v.Query != nil {
			Walk(v.Query, fn)
		}
	case *JoinExpr:
		Walk(v.Left, fn)
		Walk(v.Right, fn)
		walkExpr(v.Condition, fn)
	case *FuncCall:
		walkExprs(v.Args, fn)
	case *BinaryExpr:
		walkExpr(v.Left, fn)
		walkExpr(v.Right, fn)
	case *UnaryExpr:
		walkExpr(v.Expr, fn)
	case *IsNullExpr:
		walkExpr(v.Expr, fn)
	case *InExpr:
		walkExpr(v.Expr, fn)
		walkExprs(v.List, fn)
		if v.Query != nil {
			Walk(v.Query, fn)
		}
	case *BetweenExpr:
		walkExpr(v.Expr, fn)
		walkExpr(v.Low, fn)
		walkExpr(v.High, fn)
	case *LikeExpr:
		walkExpr(v.Expr, fn)
		walkExpr(v.Pattern, fn)
	case *CastExpr:
		walkExpr(v.Expr, fn)
	case *CaseExpr:
		walkExpr(v.Operand, fn)
		for _, w := range v.Whens {
			walkExpr(w.Condition, fn)
			walkExpr(w.Result, fn)
		}
		walkExpr(v.Else, fn)
	case *ParenExpr:
		walkExprs(v.Exprs, fn)
	case *SubqueryExpr:
		if v.Query != nil {
			Walk(v.Query, fn)
		}
	}
}

// walkTable guards against typed-nil interfaces for optional table names.
func walkTable(t *TableName, fn func(Node)) {
	if t != nil {
		Walk(t, fn)
	}
}

func walkExpr(e Expr, fn func(Node)) {
	if e != nil {
		Walk(e, fn)
	}
}

func walkExprs(exprs []Expr, fn func(Node)) {
	for _, e := range exprs {
		walkExpr(e, fn)
	}
}

func walkSets(sets []SetClause, fn func(Node)) {
	for _, s := range sets {
		walkExpr(s.Value, fn)
	}
}

func walkItems(items []SelectItem, fn func(Node)) {
	for _, item := range items {
		walkExpr(item.Expr, fn)
	}
}

func walkCore(core *SelectCore, fn func(Node)) {
	if core == nil {
		return
	}
	walkItems(core.Columns, fn)
	for _, ref := range core.From {
		Walk(ref, fn)
	}
	walkExpr(core.Where, fn)
	walkExprs(core.GroupBy, fn)
	walkExpr(core.Having, fn)
}

// TargetTable returns the qualified table name a DML statement writes to,
// or "" for statements without a target.
func TargetTable(stmt Stmt) string {
	switch s := stmt.(type) {
	case *InsertStmt:
		if s.Table != nil {
			return s.Table.Qualified()
		}
	case *UpdateStmt:
		if s.Table != nil {
			return s.Table.Qualified()
		}
	case *DeleteStmt:
		if s.Table != nil {
			return s.Table.Qualified()
		}
	}
	return ""
}

// CollectTableNames returns every distinct table name referenced by stmt,
// lowercased, in first-seen order. CTE names are excluded.
func CollectTableNames(stmt Stmt) []string {
	ctes := map[string]bool{}
	Walk(stmt, func(n Node) {
		if sel, ok := n.(*SelectStmt); ok {
			for _, cte := range sel.With {
				ctes[strings.ToLower(cte.Name)] = true
			}
		}
	})

	seen := map[string]bool{}
	var tables []string
	Walk(stmt, func(n Node) {
		t, ok := n.(*TableName)
		if !ok {
			return
		}
		name := strings.ToLower(t.Qualified())
		if ctes[name] || seen[name] {
			return
		}
		seen[name] = true
		tables = append(tables, name)
	})
	return tables
}
