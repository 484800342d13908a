package minipl

// Program is the root of the parse tree, a flattened, abstract
// reimagining of the original concrete grammar: statements and expressions
// are tagged variants rather than a deep mirror of every nonterminal, and
// the purely structural productions the grammar needs for its own
// bookkeeping (declaration-suffix, operand-suffix, enclosed-expression)
// are not represented as nodes at all — their effect is folded into the
// parser functions that build VarDecl.Init, BinaryExpr, and bare operands.
type Program struct {
	Stmts []Stmt
}

// Stmt is implemented by every statement variant: VarDecl, Assignment,
// ForStmt, ReadStmt, PrintStmt, AssertStmt.
type Stmt interface {
	stmtNode()
}

// VarDecl is a `var name : type [:= expr]` declaration. Init is nil when
// the declaration has no initializer, in which case evaluation falls back
// to the type's default value.
type VarDecl struct {
	Name     string
	TypeName string
	Init     Expr
	Line     int
}

// Assignment is a `name := expr` statement.
type Assignment struct {
	Name  string
	Value Expr
	Line  int
}

// ForStmt is a `for name in low..high do ... end for` loop.
type ForStmt struct {
	Var  string
	Low  Expr
	High Expr
	Body []Stmt
	Line int
}

// ReadStmt is a `read name` statement.
type ReadStmt struct {
	Name string
	Line int
}

// PrintStmt is a `print expr` statement.
type PrintStmt struct {
	Value Expr
	Line  int
}

// AssertStmt is an `assert (expr)` statement.
type AssertStmt struct {
	Value Expr
	Line  int
}

func (*VarDecl) stmtNode()    {}
func (*Assignment) stmtNode() {}
func (*ForStmt) stmtNode()    {}
func (*ReadStmt) stmtNode()   {}
func (*PrintStmt) stmtNode()  {}
func (*AssertStmt) stmtNode() {}

// Expr is implemented by every expression variant: IntLiteral,
// StringLiteral, VarExpr, UnaryExpr, BinaryExpr. A parenthesised
// expression is not its own node — the parser simply returns the inner
// Expr, since parentheses carry no semantics past grouping.
type Expr interface {
	exprNode()
}

// IntLiteral is a decimal integer literal.
type IntLiteral struct {
	Value int64
	Line  int
}

// StringLiteral is a string literal with escapes already decoded by the
// scanner.
type StringLiteral struct {
	Value string
	Line  int
}

// VarExpr references a declared variable by name.
type VarExpr struct {
	Name string
	Line int
}

// UnaryExpr applies a unary operator (only "!" exists) to its operand.
type UnaryExpr struct {
	Op      string
	Operand Expr
	Line    int
}

// BinaryExpr applies a binary operator to two operands. Left is the first
// operand written in the source; Right is the one introduced by the
// operand-suffix. Per spec.md §4.4's evaluation order, Right is evaluated
// before Left, but the operator is still applied as `Left Op Right`.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Line  int
}

func (*IntLiteral) exprNode()    {}
func (*StringLiteral) exprNode() {}
func (*VarExpr) exprNode()       {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
