package semantic

import "github.com/rustlite/ricc/internal/ast"

// TypeAndPlace is the value half of the node_type_and_place table: every
// expression's concrete type together with its place-kind.
type TypeAndPlace struct {
	Type  *RealType
	Place PlaceKind
}

// ValueDecl is the sum type referenced by identifier_expr_to_decl: a
// resolved identifier always names exactly one of these three kinds.
type ValueDecl struct {
	Fn    *FnDecl
	Const *ConstDecl
	Let   *LetDecl
}

// RealTypeOf returns the real-type of whichever declaration kind v holds.
func (v ValueDecl) RealTypeOf() *RealType {
	switch {
	case v.Fn != nil:
		return &RealType{Kind: KFunction, FnDecl: v.Fn}
	case v.Const != nil:
		return v.Const.Type
	case v.Let != nil:
		return v.Let.Type
	default:
		return nil
	}
}

// Tables holds every side table the analyzer produces, keyed by AST node id
// (or, for const_value_map, by ConstDecl identity) exactly as spec §4.1
// names them.
type Tables struct {
	NodeScope            map[ast.NodeID]*Scope
	TypeMap              map[ast.NodeID]*RealType
	NodeTypeAndPlace      map[ast.NodeID]TypeAndPlace
	NodeOutcome          map[ast.NodeID]Outcome
	ConstValueMap        map[*ConstDecl]ConstValue
	ConstExprToSize      map[ast.NodeID]uint64
	CallExprToDecl       map[ast.NodeID]*FnDecl
	IdentifierExprToDecl map[ast.NodeID]ValueDecl
	LetStmtToDecl        map[ast.NodeID]*LetDecl
	FnItemToDecl         map[ast.NodeID]*FnDecl

	RootScope *Scope
}

// NewTables allocates an empty Tables with every map initialized.
func NewTables() *Tables {
	return &Tables{
		NodeScope:            map[ast.NodeID]*Scope{},
		TypeMap:              map[ast.NodeID]*RealType{},
		NodeTypeAndPlace:      map[ast.NodeID]TypeAndPlace{},
		NodeOutcome:          map[ast.NodeID]Outcome{},
		ConstValueMap:        map[*ConstDecl]ConstValue{},
		ConstExprToSize:      map[ast.NodeID]uint64{},
		CallExprToDecl:       map[ast.NodeID]*FnDecl{},
		IdentifierExprToDecl: map[ast.NodeID]ValueDecl{},
		LetStmtToDecl:        map[ast.NodeID]*LetDecl{},
		FnItemToDecl:         map[ast.NodeID]*FnDecl{},
	}
}
