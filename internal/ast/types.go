package ast

// TypeNode is implemented by every surface-syntax type node.
type TypeNode interface {
	Node
	typeNode()
}

// PathType is a named type, optionally behind a reference.
type PathType struct {
	base
	Name string
	Ref  RefKind
}

func (*PathType) typeNode() {}

// ArrayType is `[ElemType; SizeExpr]`, optionally behind a reference.
type ArrayType struct {
	base
	Elem TypeNode
	Size Expr
	Ref  RefKind
}

func (*ArrayType) typeNode() {}

// UnitType is the empty `()` type.
type UnitType struct {
	base
}

func (*UnitType) typeNode() {}

// SelfType is the `Self` type, valid only inside an impl block.
type SelfType struct {
	base
}

func (*SelfType) typeNode() {}
