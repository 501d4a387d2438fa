package ast

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// LiteralKind distinguishes the four literal flavors.
type LiteralKind int

const (
	LitNumber LiteralKind = iota
	LitString
	LitChar
	LitBool
)

// LiteralExpr is a literal of one of the four closed kinds. Text holds the
// literal's raw textual form for LitNumber (so suffix/base are still
// visible to semantic analysis); for LitBool, Text is "true" or "false".
type LiteralExpr struct {
	base
	Kind   LiteralKind
	Text   string
	Suffix IntLitSuffix
}

// IntLitSuffix mirrors lexer.IntSuffix without importing the lexer package
// from the AST (kept decoupled: the parser translates one into the other).
type IntLitSuffix int

const (
	NoIntSuffix IntLitSuffix = iota
	IntSuffixI32
	IntSuffixU32
	IntSuffixIsize
	IntSuffixUsize
)

func (*LiteralExpr) exprNode() {}

// IdentifierExpr references a name to be resolved against the scope tree.
type IdentifierExpr struct {
	base
	Name string
}

func (*IdentifierExpr) exprNode() {}

// BinaryOp enumerates every binary operator, including the full compound
// assignment family and plain assignment.
type BinaryOp int

const (
	BAdd BinaryOp = iota
	BSub
	BMul
	BDiv
	BRem
	BAnd
	BOr
	BXor
	BShl
	BShr
	BEq
	BNe
	BLt
	BLe
	BGt
	BGe
	BAndAnd
	BOrOr
	BAssign
	BAddAssign
	BSubAssign
	BMulAssign
	BDivAssign
	BRemAssign
	BAndAssign
	BOrAssign
	BXorAssign
	BShlAssign
	BShrAssign
)

// IsAssignment reports whether op is the plain assignment or a compound
// assignment operator.
func (op BinaryOp) IsAssignment() bool {
	return op >= BAssign
}

// BinaryExpr is a binary operator applied to two operands.
type BinaryExpr struct {
	base
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// UnaryOp enumerates the four unary operators.
type UnaryOp int

const (
	UNeg UnaryOp = iota
	UNot
	URef
	URefMut
	UDeref
)

// UnaryExpr is a unary operator applied to one operand.
type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand Expr
}

func (*UnaryExpr) exprNode() {}

// CallExpr invokes Callee with Args.
type CallExpr struct {
	base
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}

// FieldExpr accesses a named field or method on Base.
type FieldExpr struct {
	base
	Base Expr
	Name string
}

func (*FieldExpr) exprNode() {}

// StructFieldInit is one `name: expr` pair inside a struct literal.
type StructFieldInit struct {
	Name  string
	Value Expr
}

// StructExpr is a struct literal `Name { field: expr, ... }`.
type StructExpr struct {
	base
	Name   string
	Fields []StructFieldInit
}

func (*StructExpr) exprNode() {}

// IndexExpr indexes Base with Index.
type IndexExpr struct {
	base
	Base  Expr
	Index Expr
}

func (*IndexExpr) exprNode() {}

// BlockExpr is an ordered list of statements with an optional tail
// expression (nil when the block has no trailing non-semicolon expression).
type BlockExpr struct {
	base
	Stmts []Stmt
	Tail  Expr
}

func (*BlockExpr) exprNode() {}

// IfExpr is a conditional expression; Else may be nil.
type IfExpr struct {
	base
	Cond Expr
	Then *BlockExpr
	Else Expr // *BlockExpr or *IfExpr (else-if chain), or nil
}

func (*IfExpr) exprNode() {}

// WhileExpr loops while Cond holds.
type WhileExpr struct {
	base
	Cond Expr
	Body *BlockExpr
}

func (*WhileExpr) exprNode() {}

// LoopExpr loops unconditionally; its value comes from break expressions.
type LoopExpr struct {
	base
	Body *BlockExpr
}

func (*LoopExpr) exprNode() {}

// ReturnExpr returns from the enclosing function; Value may be nil.
type ReturnExpr struct {
	base
	Value Expr
}

func (*ReturnExpr) exprNode() {}

// BreakExpr exits the nearest enclosing loop; Value may be nil.
type BreakExpr struct {
	base
	Value Expr
}

func (*BreakExpr) exprNode() {}

// ContinueExpr restarts the nearest enclosing loop.
type ContinueExpr struct {
	base
}

func (*ContinueExpr) exprNode() {}

// CastExpr is `expr as Type`.
type CastExpr struct {
	base
	Operand Expr
	Target  TypeNode
}

func (*CastExpr) exprNode() {}

// PathExpr is `Base::Name`, e.g. an enum variant or an associated const.
type PathExpr struct {
	base
	BaseName string
	Name     string
}

func (*PathExpr) exprNode() {}

// SelfExpr is the `self` receiver reference inside a method body.
type SelfExpr struct {
	base
}

func (*SelfExpr) exprNode() {}

// UnitExpr is the empty `()` value.
type UnitExpr struct {
	base
}

func (*UnitExpr) exprNode() {}

// ArrayExpr is an array literal `[e0, e1, ...]`.
type ArrayExpr struct {
	base
	Elements []Expr
}

func (*ArrayExpr) exprNode() {}

// RepeatArrayExpr is an array literal `[value; size]`.
type RepeatArrayExpr struct {
	base
	Value Expr
	Size  Expr
}

func (*RepeatArrayExpr) exprNode() {}
