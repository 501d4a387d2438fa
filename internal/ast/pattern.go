package ast

// Pattern is implemented by every pattern node. The language supports only
// simple identifier bindings; anything richer is unsupported.
type Pattern interface {
	Node
	patternNode()
}

// IdentifierPattern binds Name, optionally mutable and/or behind a
// reference (`x`, `mut x`, `&x`, `&mut x`).
type IdentifierPattern struct {
	base
	Name string
	Mut  bool
	Ref  RefKind
}

func (*IdentifierPattern) patternNode() {}
