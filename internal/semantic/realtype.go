// Package semantic implements the four-pass analyzer: scope construction,
// type resolution, constant evaluation with control-flow analysis, and
// expression typing with let introduction. It produces the side tables that
// type lowering and IR generation consume by AST node id.
package semantic

import (
	"fmt"

	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
)

// Kind is the closed set of real-type kinds.
type Kind int

const (
	KUnit Kind = iota
	KNever
	KBool
	KChar
	KI32
	KU32
	KIsize
	KUsize
	KAnyInt
	KStr
	KString
	KArray
	KStruct
	KEnum
	KFunction
)

func (k Kind) String() string {
	switch k {
	case KUnit:
		return "()"
	case KNever:
		return "!"
	case KBool:
		return "bool"
	case KChar:
		return "char"
	case KI32:
		return "i32"
	case KU32:
		return "u32"
	case KIsize:
		return "isize"
	case KUsize:
		return "usize"
	case KAnyInt:
		return "{integer}"
	case KStr:
		return "str"
	case KString:
		return "String"
	case KArray:
		return "array"
	case KStruct:
		return "struct"
	case KEnum:
		return "enum"
	case KFunction:
		return "fn"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// IsInteger reports whether k is one of the concrete or placeholder integer
// kinds.
func (k Kind) IsInteger() bool {
	switch k {
	case KI32, KU32, KIsize, KUsize, KAnyInt:
		return true
	default:
		return false
	}
}

// IsSigned reports whether k's concrete integer representation is signed.
// Only meaningful for concrete integer kinds.
func (k Kind) IsSigned() bool {
	return k == KI32 || k == KIsize
}

// RealType is the language's semantic type after name resolution, tagged
// with a reference kind. Struct/Enum/Function carry a (non-owning) pointer
// back to their declaration; Array carries its element type and size.
type RealType struct {
	Kind Kind
	Ref  ast.RefKind

	Elem      *RealType // KArray only
	Size      int       // KArray only
	SizeKnown bool       // KArray only: false until pass 4 resolves the size expr

	Name       string      // KStruct / KEnum
	StructDecl *StructDecl // KStruct
	EnumDecl   *EnumDecl   // KEnum
	FnDecl     *FnDecl     // KFunction
}

// Scalar constructs an unreferenced real-type of a non-compound kind.
func Scalar(k Kind) *RealType { return &RealType{Kind: k, Ref: ast.RefNone} }

// WithRef returns a copy of t carrying ref instead of t's current tag.
func (t *RealType) WithRef(ref ast.RefKind) *RealType {
	cp := *t
	cp.Ref = ref
	return &cp
}

// Deref returns the pointee type if t is a reference, else t itself.
func (t *RealType) Deref() *RealType {
	if t.Ref == ast.RefNone {
		return t
	}
	return t.WithRef(ast.RefNone)
}

// IsNever reports whether t is the Never kind (which unifies with anything).
func (t *RealType) IsNever() bool { return t.Kind == KNever }

// Equal reports structural equality, ignoring AnyInt/Never unification
// (use Merge for unification semantics).
func (t *RealType) Equal(o *RealType) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Ref != o.Ref || t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KArray:
		return t.Size == o.Size && t.Elem.Equal(o.Elem)
	case KStruct:
		return t.StructDecl == o.StructDecl
	case KEnum:
		return t.EnumDecl == o.EnumDecl
	default:
		return true
	}
}

// String renders t for diagnostics.
func (t *RealType) String() string {
	prefix := ""
	switch t.Ref {
	case ast.RefShared:
		prefix = "&"
	case ast.RefMut:
		prefix = "&mut "
	}
	switch t.Kind {
	case KArray:
		return fmt.Sprintf("%s[%s; %d]", prefix, t.Elem.String(), t.Size)
	case KStruct, KEnum:
		return prefix + t.Name
	default:
		return prefix + t.Kind.String()
	}
}

// Merge unifies left and right per the language's merge rules (spec
// §4.1.6). is_assignment tightens the &mut/& case: assigning a &T into a
// &mut T place fails.
func Merge(left, right *RealType, isAssignment bool) (*RealType, error) {
	if left.IsNever() {
		return right, nil
	}
	if right.IsNever() {
		return left, nil
	}
	if left.Kind == KAnyInt && right.Kind.IsInteger() {
		return mergeRef(left, right, isAssignment, right)
	}
	if right.Kind == KAnyInt && left.Kind.IsInteger() {
		return mergeRef(left, right, isAssignment, left)
	}
	if left.Kind != right.Kind {
		return nil, compilererr.NewCompileError("type mismatch: %s vs %s", left, right)
	}
	switch left.Kind {
	case KArray:
		if left.Size != right.Size {
			return nil, compilererr.NewCompileError("array size mismatch: %d vs %d", left.Size, right.Size)
		}
		elem, err := Merge(left.Elem, right.Elem, false)
		if err != nil {
			return nil, err
		}
		merged, err := mergeRef(left, right, isAssignment, nil)
		if err != nil {
			return nil, err
		}
		out := *merged
		out.Elem = elem
		return &out, nil
	case KStruct:
		if left.StructDecl != right.StructDecl {
			return nil, compilererr.NewCompileError("type mismatch: struct %s vs %s", left.Name, right.Name)
		}
	case KEnum:
		if left.EnumDecl != right.EnumDecl {
			return nil, compilererr.NewCompileError("type mismatch: enum %s vs %s", left.Name, right.Name)
		}
	}
	return mergeRef(left, right, isAssignment, left)
}

// mergeRef resolves the reference-tag half of the merge rule and returns a
// copy of base (or, when base is nil, a fresh scalar copy of left) carrying
// the resolved tag.
func mergeRef(left, right *RealType, isAssignment bool, base *RealType) (*RealType, error) {
	var ref ast.RefKind
	switch {
	case left.Ref == right.Ref:
		ref = left.Ref
	case left.Ref == ast.RefMut && right.Ref == ast.RefShared:
		if isAssignment {
			return nil, compilererr.NewCompileError("cannot assign a shared reference into a &mut place")
		}
		ref = ast.RefShared
	case left.Ref == ast.RefShared && right.Ref == ast.RefMut:
		ref = ast.RefShared
	default:
		return nil, compilererr.NewCompileError("reference kind mismatch: %s vs %s", left, right)
	}
	if base == nil {
		base = left
	}
	return base.WithRef(ref), nil
}
