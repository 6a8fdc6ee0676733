package sqlparse

// Node is the interface implemented by all AST nodes.
type Node interface {
	node()
}

// Stmt is a parsed SQL statement.
type Stmt interface {
	Node
	stmtNode()
	// Compound reports whether the statement has more than one token's worth
	// of structure. A bare keyword such as "SELECT" alone never parses, so in
	// practice every accepted statement is compound.
	Compound() bool
}

// Expr is a parsed SQL expression.
type Expr interface {
	Node
	exprNode()
}

// TableRef is an item in a FROM clause.
type TableRef interface {
	Node
	tableRefNode()
}

// InsertStmt represents INSERT INTO ... [(cols)] VALUES ... | SELECT ... | DEFAULT VALUES.
type InsertStmt struct {
	Table         *TableName
	Columns       []string
	Values        [][]Expr
	Query         *SelectStmt
	DefaultValues bool
	OnConflict    *OnConflict
	Returning     []SelectItem
}

// OnConflict represents ON CONFLICT [(cols)] DO NOTHING | DO UPDATE SET ...
type OnConflict struct {
	Columns   []string
	DoNothing bool
	Sets      []SetClause
	Where     Expr
}

// UpdateStmt represents UPDATE ... SET ... [FROM ...] [WHERE ...].
type UpdateStmt struct {
	Table     *TableName
	Sets      []SetClause
	From      []TableRef
	Where     Expr
	Returning []SelectItem
}

// SetClause is a single column = expr assignment.
type SetClause struct {
	Column string
	Value  Expr
}

// DeleteStmt represents DELETE FROM ... [USING ...] [WHERE ...].
type DeleteStmt struct {
	Table     *TableName
	Using     []TableRef
	Where     Expr
	Returning []SelectItem
}

// SelectStmt represents a full SELECT, including WITH and set operations.
type SelectStmt struct {
	With    []CTE
	Body    *SelectCore
	SetOps  []SetOp
	OrderBy []OrderByItem
	Limit   Expr
	Offset  Expr
}

// CTE is a single common table expression.
type CTE struct {
	Name    string
	Columns []string
	Query   *SelectStmt
}

// SetOp is UNION/INTERSECT/EXCEPT [ALL] followed by another core.
type SetOp struct {
	Op   TokenType
	All  bool
	Core *SelectCore
}

// SelectCore is a single SELECT ... FROM ... WHERE ... GROUP BY ... HAVING.
type SelectCore struct {
	Distinct bool
	Columns  []SelectItem
	From     []TableRef
	Where    Expr
	GroupBy  []Expr
	Having   Expr
}

// SelectItem is a projected expression with an optional alias.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// OrderByItem is an ORDER BY expression with direction.
type OrderByItem struct {
	Expr Expr
	Desc bool
}

// RawStmt is a statement the parser recognises only by its leading keyword.
type RawStmt struct {
	Keyword TokenType
	Tokens  []Token
}

func (*InsertStmt) node() {}
func (*UpdateStmt) node() {}
func (*DeleteStmt) node() {}
func (*SelectStmt) node() {}
func (*RawStmt) node()    {}

func (*InsertStmt) stmtNode() {}
func (*UpdateStmt) stmtNode() {}
func (*DeleteStmt) stmtNode() {}
func (*SelectStmt) stmtNode() {}
func (*RawStmt) stmtNode()    {}

// Compound implements Stmt.
func (s *InsertStmt) Compound() bool { return s.Table != nil }

// Compound implements Stmt.
func (s *UpdateStmt) Compound() bool { return s.Table != nil && len(s.Sets) > 0 }

// Compound implements Stmt.
func (s *DeleteStmt) Compound() bool { return s.Table != nil }

// Compound implements Stmt.
func (s *SelectStmt) Compound() bool { return s.Body != nil && len(s.Body.Columns) > 0 }

// Compound implements Stmt.
func (s *RawStmt) Compound() bool { return len(s.Tokens) > 1 }

// TableName is a possibly qualified table name: [catalog.][schema.]name.
type TableName struct {
	Catalog string
	Schema  string
	Name    string
	Alias   string
}

// Qualified returns the dotted name without the alias.
func (t *TableName) Qualified() string {
	name := t.Name
	if t.Schema != "" {
		name = t.Schema + "." + name
	}
	if t.Catalog != "" {
		name = t.Catalog + "." + name
	}
	return name
}

// DerivedTable is a parenthesised subquery in FROM.
type DerivedTable struct {
	Query *SelectStmt
	Alias string
}

// JoinExpr joins two table references.
type JoinExpr struct {
	Left      TableRef
	Right     TableRef
	Type      JoinType
	Condition Expr
	Using     []string
}

// JoinType is the kind of join.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

func (*TableName) node()    {}
func (*DerivedTable) node() {}
func (*JoinExpr) node()     {}

func (*TableName) tableRefNode()    {}
func (*DerivedTable) tableRefNode() {}
func (*JoinExpr) tableRefNode()     {}

// Literal is a string, number, boolean or NULL constant.
type Literal struct {
	Type  LiteralType
	Value string
}

// LiteralType distinguishes literal kinds.
type LiteralType int

const (
	LiteralString LiteralType = iota
	LiteralNumber
	LiteralBool
	LiteralNull
)

// Placeholder is a bind parameter: ? or $n.
type Placeholder struct {
	Text string
}

// ColumnRef is a possibly qualified column reference.
type ColumnRef struct {
	Parts []string
}

// Star is * or qualifier.*.
type Star struct {
	Table string
}

// FuncCall is name(args...).
type FuncCall struct {
	Name     string
	Args     []Expr
	Distinct bool
	Star     bool
}

// BinaryExpr is left op right.
type BinaryExpr struct {
	Left  Expr
	Op    TokenType
	Right Expr
}

// UnaryExpr is op expr (NOT, -, +).
type UnaryExpr struct {
	Op   TokenType
	Expr Expr
}

// IsNullExpr is expr IS [NOT] NULL.
type IsNullExpr struct {
	Expr Expr
	Not  bool
}

// InExpr is expr [NOT] IN (list | subquery).
type InExpr struct {
	Expr  Expr
	Not   bool
	List  []Expr
	Query *SelectStmt
}

// BetweenExpr is expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

// LikeExpr is expr [NOT] LIKE|ILIKE pattern.
type LikeExpr struct {
	Expr    Expr
	Not     bool
	ILike   bool
	Pattern Expr
}

// CastExpr is CAST(expr AS type) or expr::type.
type CastExpr struct {
	Expr     Expr
	TypeName string
}

// CaseExpr is CASE [operand] WHEN ... THEN ... [ELSE ...] END.
type CaseExpr struct {
	Operand Expr
	Whens   []WhenClause
	Else    Expr
}

// WhenClause is one WHEN condition THEN result arm.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// ParenExpr is a parenthesised expression or row.
type ParenExpr struct {
	Exprs []Expr
}

// SubqueryExpr is a scalar subquery, optionally wrapped in EXISTS.
type SubqueryExpr struct {
	Query  *SelectStmt
	Exists bool
}

// DefaultExpr is the DEFAULT keyword in VALUES or SET.
type DefaultExpr struct{}

func (*Literal) node()      {}
func (*Placeholder) node()  {}
func (*ColumnRef) node()    {}
func (*Star) node()         {}
func (*FuncCall) node()     {}
func (*BinaryExpr) node()   {}
func (*UnaryExpr) node()    {}
func (*IsNullExpr) node()   {}
func (*InExpr) node()       {}
func (*BetweenExpr) node()  {}
func (*LikeExpr) node()     {}
func (*CastExpr) node()     {}
func (*CaseExpr) node()     {}
func (*ParenExpr) node()    {}
func (*SubqueryExpr) node() {}
func (*DefaultExpr) node()  {}

func (*Literal) exprNode()      {}
func (*Placeholder) exprNode()  {}
func (*ColumnRef) exprNode()    {}
func (*Star) exprNode()         {}
func (*FuncCall) exprNode()     {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*IsNullExpr) exprNode()   {}
func (*InExpr) exprNode()       {}
func (*BetweenExpr) exprNode()  {}
func (*LikeExpr) exprNode()     {}
func (*CastExpr) exprNode()     {}
func (*CaseExpr) exprNode()     {}
func (*ParenExpr) exprNode()    {}
func (*SubqueryExpr) exprNode() {}
func (*DefaultExpr) exprNode()  {}

// StatementKind returns a short upper-case label for stmt, e.g. "INSERT".
func StatementKind(stmt Stmt) string {
	switch s := stmt.(type) {
	case *InsertStmt:
		return "INSERT"
	case *UpdateStmt:
		return "UPDATE"
	case *DeleteStmt:
		return "DELETE"
	case *SelectStmt:
		return "SELECT"
	case *RawStmt:
		return s.Keyword.String()
	default:
		return "UNKNOWN"
	}
}

// Placeholders counts the bind parameters that appear in stmt.
func Placeholders(stmt Stmt) int {
	n := 0
	Walk(stmt, func(node Node) {
		if _, ok := node.(*Placeholder); ok {
			n++
		}
	})
	return n
}
