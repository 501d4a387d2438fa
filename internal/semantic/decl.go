package semantic

import "github.com/rustlite/ricc/internal/ast"

// FnDecl is the declaration record for a function or method. Params and
// RetType are filled during pass 2; ParamLets is filled when pass 4
// introduces each parameter pattern as a local.
type FnDecl struct {
	AST  *ast.FnItem
	// Name is always populated, even for builtins synthesized without an
	// AST node, so callers never need a nil check just to print a name.
	Name      string
	Scope     *Scope // the function's own scope, pushed in pass 1
	Params    []*RealType
	RetType   *RealType
	Receiver  ast.ReceiverKind
	OwnerName string      // non-empty when this is a method/associated item
	Owner     *StructDecl // non-nil when this is a method/associated item

	IsMain     bool
	IsExit     bool
	IsBuiltin  bool
	IsArrayLen bool

	ParamLets []*LetDecl
}

// ConstDecl is the declaration record for a `const` item.
type ConstDecl struct {
	AST  *ast.ConstItem
	Type *RealType
}

// LetDecl is the declaration record for a `let`-introduced local, created
// during pass 4 and stored in its owning scope's local-variable map.
type LetDecl struct {
	Name string
	Type *RealType
	Mut  bool
}

// StructDecl is the declaration record for a `struct` item.
type StructDecl struct {
	AST         *ast.StructItem
	Name        string
	FieldOrder  []string
	Fields      map[string]*RealType
	Methods     map[string]*FnDecl
	AssocFns    map[string]*FnDecl
	AssocConsts map[string]*ConstDecl
}

// NewStructDecl returns an empty StructDecl for name, with maps allocated.
func NewStructDecl(name string) *StructDecl {
	return &StructDecl{
		Name:        name,
		Fields:      map[string]*RealType{},
		Methods:     map[string]*FnDecl{},
		AssocFns:    map[string]*FnDecl{},
		AssocConsts: map[string]*ConstDecl{},
	}
}

// EnumDecl is the declaration record for an `enum` item, with variants
// assigned 0-based sequential integer values.
type EnumDecl struct {
	AST          *ast.EnumItem
	Name         string
	VariantOrder []string
	VariantValue map[string]int
}

// NewEnumDecl returns an empty EnumDecl for name.
func NewEnumDecl(name string) *EnumDecl {
	return &EnumDecl{Name: name, VariantValue: map[string]int{}}
}
