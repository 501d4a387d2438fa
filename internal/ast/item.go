package ast

// Item is implemented by every top-level or block-nested declaration.
type Item interface {
	Node
	itemNode()
}

// ReceiverKind distinguishes how (or whether) a function binds `self`.
type ReceiverKind int

const (
	ReceiverNone ReceiverKind = iota
	ReceiverSelf
	ReceiverRefSelf
	ReceiverRefMutSelf
)

// Param is one `pattern: Type` function parameter.
type Param struct {
	Pattern Pattern
	Type    TypeNode
}

// FnItem is a function or method declaration.
type FnItem struct {
	base
	Name     string
	Receiver ReceiverKind
	Params   []Param
	RetType  TypeNode // nil when omitted (defaults to Unit)
	Body     *BlockExpr
}

func (*FnItem) itemNode() {}

// StructField is one `name: Type` struct field in declaration order.
type StructField struct {
	Name string
	Type TypeNode
}

// StructItem is a struct declaration with an ordered field list.
type StructItem struct {
	base
	Name   string
	Fields []StructField
}

func (*StructItem) itemNode() {}

// EnumItem is an enum declaration with an ordered, constant-only variant
// list; variant values are assigned 0..n-1 during semantic analysis.
type EnumItem struct {
	base
	Name     string
	Variants []string
}

func (*EnumItem) itemNode() {}

// ImplItem attaches methods and associated items to a named struct.
type ImplItem struct {
	base
	StructName string
	Fns        []*FnItem
	Consts     []*ConstItem
}

func (*ImplItem) itemNode() {}

// ConstItem is a named, typed constant with a value expression.
type ConstItem struct {
	base
	Name  string
	Type  TypeNode
	Value Expr
}

func (*ConstItem) itemNode() {}
