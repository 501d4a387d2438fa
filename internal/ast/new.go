package ast

// newBase allocates the next NodeID from a and wraps it for embedding.
func newBase(a *Assigner) base {
	return base{id: a.Next()}
}

// Constructors below assign a NodeID from the given Assigner for every new
// node. The parser calls these instead of building struct literals directly
// so that id assignment can never be forgotten or duplicated.

func NewLiteralExpr(a *Assigner, kind LiteralKind, text string, suffix IntLitSuffix) *LiteralExpr {
	return &LiteralExpr{base: newBase(a), Kind: kind, Text: text, Suffix: suffix}
}

func NewIdentifierExpr(a *Assigner, name string) *IdentifierExpr {
	return &IdentifierExpr{base: newBase(a), Name: name}
}

func NewBinaryExpr(a *Assigner, op BinaryOp, left, right Expr) *BinaryExpr {
	return &BinaryExpr{base: newBase(a), Op: op, Left: left, Right: right}
}

func NewUnaryExpr(a *Assigner, op UnaryOp, operand Expr) *UnaryExpr {
	return &UnaryExpr{base: newBase(a), Op: op, Operand: operand}
}

func NewCallExpr(a *Assigner, callee Expr, args []Expr) *CallExpr {
	return &CallExpr{base: newBase(a), Callee: callee, Args: args}
}

func NewFieldExpr(a *Assigner, b Expr, name string) *FieldExpr {
	return &FieldExpr{base: newBase(a), Base: b, Name: name}
}

func NewStructExpr(a *Assigner, name string, fields []StructFieldInit) *StructExpr {
	return &StructExpr{base: newBase(a), Name: name, Fields: fields}
}

func NewIndexExpr(a *Assigner, b, index Expr) *IndexExpr {
	return &IndexExpr{base: newBase(a), Base: b, Index: index}
}

func NewBlockExpr(a *Assigner, stmts []Stmt, tail Expr) *BlockExpr {
	return &BlockExpr{base: newBase(a), Stmts: stmts, Tail: tail}
}

func NewIfExpr(a *Assigner, cond Expr, then *BlockExpr, els Expr) *IfExpr {
	return &IfExpr{base: newBase(a), Cond: cond, Then: then, Else: els}
}

func NewWhileExpr(a *Assigner, cond Expr, body *BlockExpr) *WhileExpr {
	return &WhileExpr{base: newBase(a), Cond: cond, Body: body}
}

func NewLoopExpr(a *Assigner, body *BlockExpr) *LoopExpr {
	return &LoopExpr{base: newBase(a), Body: body}
}

func NewReturnExpr(a *Assigner, value Expr) *ReturnExpr {
	return &ReturnExpr{base: newBase(a), Value: value}
}

func NewBreakExpr(a *Assigner, value Expr) *BreakExpr {
	return &BreakExpr{base: newBase(a), Value: value}
}

func NewContinueExpr(a *Assigner) *ContinueExpr {
	return &ContinueExpr{base: newBase(a)}
}

func NewCastExpr(a *Assigner, operand Expr, target TypeNode) *CastExpr {
	return &CastExpr{base: newBase(a), Operand: operand, Target: target}
}

func NewPathExpr(a *Assigner, baseName, name string) *PathExpr {
	return &PathExpr{base: newBase(a), BaseName: baseName, Name: name}
}

func NewSelfExpr(a *Assigner) *SelfExpr { return &SelfExpr{base: newBase(a)} }

func NewUnitExpr(a *Assigner) *UnitExpr { return &UnitExpr{base: newBase(a)} }

func NewArrayExpr(a *Assigner, elements []Expr) *ArrayExpr {
	return &ArrayExpr{base: newBase(a), Elements: elements}
}

func NewRepeatArrayExpr(a *Assigner, value, size Expr) *RepeatArrayExpr {
	return &RepeatArrayExpr{base: newBase(a), Value: value, Size: size}
}

func NewLetStmt(a *Assigner, pattern Pattern, ty TypeNode, init Expr) *LetStmt {
	return &LetStmt{base: newBase(a), Pattern: pattern, Type: ty, Init: init}
}

func NewExprStmt(a *Assigner, e Expr, trailing bool) *ExprStmt {
	return &ExprStmt{base: newBase(a), Expr: e, Trailing: trailing}
}

func NewItemStmt(a *Assigner, it Item) *ItemStmt {
	return &ItemStmt{base: newBase(a), Item: it}
}

func NewFnItem(a *Assigner, name string, recv ReceiverKind, params []Param, ret TypeNode, body *BlockExpr) *FnItem {
	return &FnItem{base: newBase(a), Name: name, Receiver: recv, Params: params, RetType: ret, Body: body}
}

func NewStructItem(a *Assigner, name string, fields []StructField) *StructItem {
	return &StructItem{base: newBase(a), Name: name, Fields: fields}
}

func NewEnumItem(a *Assigner, name string, variants []string) *EnumItem {
	return &EnumItem{base: newBase(a), Name: name, Variants: variants}
}

func NewImplItem(a *Assigner, structName string, fns []*FnItem, consts []*ConstItem) *ImplItem {
	return &ImplItem{base: newBase(a), StructName: structName, Fns: fns, Consts: consts}
}

func NewConstItem(a *Assigner, name string, ty TypeNode, value Expr) *ConstItem {
	return &ConstItem{base: newBase(a), Name: name, Type: ty, Value: value}
}

func NewPathType(a *Assigner, name string, ref RefKind) *PathType {
	return &PathType{base: newBase(a), Name: name, Ref: ref}
}

func NewArrayType(a *Assigner, elem TypeNode, size Expr, ref RefKind) *ArrayType {
	return &ArrayType{base: newBase(a), Elem: elem, Size: size, Ref: ref}
}

func NewUnitType(a *Assigner) *UnitType { return &UnitType{base: newBase(a)} }

func NewSelfType(a *Assigner) *SelfType { return &SelfType{base: newBase(a)} }

func NewIdentifierPattern(a *Assigner, name string, mut bool, ref RefKind) *IdentifierPattern {
	return &IdentifierPattern{base: newBase(a), Name: name, Mut: mut, Ref: ref}
}
