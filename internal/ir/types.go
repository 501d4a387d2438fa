// Package ir defines the target IR's type/value/instruction model plus a
// builder and a bit-exact textual serializer, grounded in the subset of
// LLVM IR the original compiler this project follows actually emits.
package ir

import "fmt"

// Kind is the closed set of IR type variants (spec §3.8).
type Kind int

const (
	KVoid Kind = iota
	KInt
	KPointer
	KArray
	KStruct
	KFunction
)

// Type is an IR type. Only the fields relevant to Kind are populated.
type Type struct {
	Kind Kind

	Bits int // KInt

	Elem  *Type // KPointer (pointee, for internal bookkeeping only — printed as opaque ptr), KArray
	Count int   // KArray

	StructName string // KStruct

	FnRet    *Type   // KFunction
	FnParams []*Type // KFunction
}

func Void() *Type                 { return &Type{Kind: KVoid} }
func Int(bits int) *Type          { return &Type{Kind: KInt, Bits: bits} }
func Pointer(elem *Type) *Type    { return &Type{Kind: KPointer, Elem: elem} }
func Array(elem *Type, n int) *Type { return &Type{Kind: KArray, Elem: elem, Count: n} }
func NamedStruct(name string) *Type { return &Type{Kind: KStruct, StructName: name} }
func Function(ret *Type, params []*Type) *Type {
	return &Type{Kind: KFunction, FnRet: ret, FnParams: params}
}

// Common scalar widths used throughout lowering.
var (
	I1  = Int(1)
	I8  = Int(8)
	I32 = Int(32)
)

// String renders t the way it appears in emitted IR text. Pointer types
// always render as the opaque `ptr`, regardless of their tracked pointee.
func (t *Type) String() string {
	switch t.Kind {
	case KVoid:
		return "void"
	case KInt:
		return fmt.Sprintf("i%d", t.Bits)
	case KPointer:
		return "ptr"
	case KArray:
		return fmt.Sprintf("[%d x %s]", t.Count, t.Elem.String())
	case KStruct:
		return "%" + t.StructName
	case KFunction:
		return t.FnRet.String() + " (" + joinTypes(t.FnParams) + ")"
	default:
		return "<invalid-type>"
	}
}

func joinTypes(ts []*Type) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}

// Equal reports structural equality (by name for structs, not by field
// list — callers comparing struct types rely on name identity).
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KInt:
		return t.Bits == o.Bits
	case KPointer:
		return true
	case KArray:
		return t.Count == o.Count && t.Elem.Equal(o.Elem)
	case KStruct:
		return t.StructName == o.StructName
	case KFunction:
		if !t.FnRet.Equal(o.FnRet) || len(t.FnParams) != len(o.FnParams) {
			return false
		}
		for i := range t.FnParams {
			if !t.FnParams[i].Equal(o.FnParams[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
