package semantic

import "fmt"

// ConstKind is the closed set of constant-value kinds.
type ConstKind int

const (
	CKAnyInt ConstKind = iota
	CKI32
	CKU32
	CKIsize
	CKUsize
	CKBool
	CKChar
	CKUnit
	CKArray
)

// ConstValue is a fully-evaluated compile-time constant. Exactly one of the
// scalar fields or Elements is meaningful, selected by Kind.
type ConstValue struct {
	Kind     ConstKind
	Int      int64 // AnyInt, I32, Isize (sign-extended)
	UInt     uint64 // U32, Usize
	Bool     bool
	Char     rune
	Elements []ConstValue // Array
}

// RealType reports the natural real-type of a concrete (non-AnyInt)
// constant. AnyInt constants have no fixed type until concretized.
func (c ConstValue) RealType() *RealType {
	switch c.Kind {
	case CKI32:
		return Scalar(KI32)
	case CKU32:
		return Scalar(KU32)
	case CKIsize:
		return Scalar(KIsize)
	case CKUsize:
		return Scalar(KUsize)
	case CKBool:
		return Scalar(KBool)
	case CKChar:
		return Scalar(KChar)
	case CKUnit:
		return Scalar(KUnit)
	default:
		return Scalar(KAnyInt)
	}
}

func (c ConstValue) String() string {
	switch c.Kind {
	case CKAnyInt, CKI32, CKIsize:
		return fmt.Sprintf("%d", c.Int)
	case CKU32, CKUsize:
		return fmt.Sprintf("%d", c.UInt)
	case CKBool:
		return fmt.Sprintf("%t", c.Bool)
	case CKChar:
		return fmt.Sprintf("%q", c.Char)
	case CKUnit:
		return "()"
	case CKArray:
		return fmt.Sprintf("%v", c.Elements)
	default:
		return "<const>"
	}
}

// AsI64 returns the constant's value as a signed 64-bit integer, valid for
// any integer-kinded constant.
func (c ConstValue) AsI64() int64 {
	switch c.Kind {
	case CKU32, CKUsize:
		return int64(c.UInt)
	default:
		return c.Int
	}
}
