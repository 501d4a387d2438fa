package semantic

// ScopeKind is the closed set of scope kinds.
type ScopeKind int

const (
	ScopeRoot ScopeKind = iota
	ScopeBlock
	ScopeFunction
	ScopeImpl
)

// Scope is one node of the scope tree. Ownership runs Scope -> Decl ->
// RealType -> AST; Parent is the only back-edge and is never used to decide
// ownership, only for lookup walks.
type Scope struct {
	Parent   *Scope
	Kind     ScopeKind
	Children []*Scope

	TypeNamespace  map[string]*TypeDeclRef
	ValueNamespace map[string]*ValueDeclRef

	// Impl-only fields.
	ImplStructName string
	SelfType       *RealType

	IsMainScope bool
	HasExit     bool

	// Assigned by the global lowering driver (spec §4.4.3): this scope's
	// position-derived suffix, e.g. ".0.1". Empty for the root scope.
	Suffix string

	// Local variables introduced by pass 4's let-introduction, keyed by
	// name; this is the `scope_local_variable` table, stored per-scope
	// rather than as a separate top-level map keyed by scope pointer.
	Locals map[string]*LetDecl
}

// TypeDeclRef is a tagged union over the two kinds of type-namespace entry.
type TypeDeclRef struct {
	Struct *StructDecl
	Enum   *EnumDecl
}

// ValueDeclRef is a tagged union over the two kinds of value-namespace
// entry collected in pass 1 (LetDecl is added later, directly into
// Scope.Locals, never into this namespace).
type ValueDeclRef struct {
	Fn    *FnDecl
	Const *ConstDecl
}

// NewScope allocates a child of parent with the given kind, linking it into
// parent's Children.
func NewScope(parent *Scope, kind ScopeKind) *Scope {
	s := &Scope{
		Parent:         parent,
		Kind:           kind,
		TypeNamespace:  map[string]*TypeDeclRef{},
		ValueNamespace: map[string]*ValueDeclRef{},
		Locals:         map[string]*LetDecl{},
	}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	return s
}

// LookupType walks outward from s looking for name in a type namespace.
func LookupType(s *Scope, name string) *TypeDeclRef {
	for cur := s; cur != nil; cur = cur.Parent {
		if d, ok := cur.TypeNamespace[name]; ok {
			return d
		}
	}
	return nil
}

// LookupValue walks outward from s looking for name in a value namespace,
// not considering locals (callers check Scope.Locals separately, innermost
// first, since locals are block-scoped rather than namespace-scoped).
func LookupValue(s *Scope, name string) *ValueDeclRef {
	for cur := s; cur != nil; cur = cur.Parent {
		if d, ok := cur.ValueNamespace[name]; ok {
			return d
		}
	}
	return nil
}

// LookupLocal walks outward from s looking for a local variable named name.
func LookupLocal(s *Scope, name string) *LetDecl {
	for cur := s; cur != nil; cur = cur.Parent {
		if d, ok := cur.Locals[name]; ok {
			return d
		}
	}
	return nil
}

// EnclosingImpl walks outward from s looking for the nearest Impl scope.
func EnclosingImpl(s *Scope) *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ScopeImpl {
			return cur
		}
	}
	return nil
}

// EnclosingFunction walks outward from s looking for the nearest Function
// scope.
func EnclosingFunction(s *Scope) *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == ScopeFunction {
			return cur
		}
	}
	return nil
}
