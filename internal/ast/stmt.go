package ast

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// LetStmt declares a new binding, `let pattern: Type = init;`.
type LetStmt struct {
	base
	Pattern Pattern
	Type    TypeNode // nil if the type is omitted and must be inferred
	Init    Expr     // nil if there is no initializer
}

func (*LetStmt) stmtNode() {}

// ExprStmt wraps an expression used in statement position. Trailing
// records whether the expression was followed by a semicolon (a trailing
// semicolon suppresses the expression's value as a block tail).
type ExprStmt struct {
	base
	Expr      Expr
	Trailing  bool
}

func (*ExprStmt) stmtNode() {}

// ItemStmt wraps an item (struct/enum/fn/impl/const) declared inside a
// block.
type ItemStmt struct {
	base
	Item Item
}

func (*ItemStmt) stmtNode() {}
