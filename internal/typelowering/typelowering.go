// Package typelowering maps the semantic analyzer's real-types and
// constant values onto the IR's type and value model.
package typelowering

import (
	"fmt"
	"strings"

	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
)

// StrStructName and StringStructName are the built-in record layouts
// every compiled program links against.
const (
	StrStructName    = "Str"
	StringStructName = "String"
)

// TypeLowering is a pure function from real-type to IR type, backed by a
// per-struct cache keyed by declaration so repeated lowering of the same
// struct returns the same named IR type without re-walking fields.
type TypeLowering struct {
	m        *ir.Module
	declared map[*semantic.StructDecl]bool
}

func New(m *ir.Module) *TypeLowering {
	return &TypeLowering{m: m, declared: make(map[*semantic.StructDecl]bool)}
}

// DeclareBuiltinStringTypes pre-registers the Str/String record layouts
// so any lowering that references them finds a defined struct.
func (tl *TypeLowering) DeclareBuiltinStringTypes() error {
	tl.m.DeclareStructStub(StrStructName)
	if err := tl.m.DefineStructFields(StrStructName, []*ir.Type{ir.Pointer(ir.I8), ir.I32}); err != nil {
		return err
	}
	tl.m.DeclareStructStub(StringStructName)
	return tl.m.DefineStructFields(StringStructName, []*ir.Type{ir.Pointer(ir.I8), ir.I32, ir.I32})
}

// Lower maps a real-type to its IR type. Scalars map directly; references
// become opaque pointers to the lowered pointee; arrays become IR arrays
// of the (possibly not-yet-sized) element type; structs resolve through
// the module's struct table, which must already carry at least a stub.
func (tl *TypeLowering) Lower(t *semantic.RealType) (*ir.Type, error) {
	if t.Ref != ast.RefNone {
		pointee, err := tl.Lower(t.Deref())
		if err != nil {
			return nil, err
		}
		return ir.Pointer(pointee), nil
	}
	switch t.Kind {
	case semantic.KUnit, semantic.KNever:
		return ir.Void(), nil
	case semantic.KBool:
		return ir.I1, nil
	case semantic.KChar:
		return ir.I8, nil
	case semantic.KI32, semantic.KU32, semantic.KIsize, semantic.KUsize, semantic.KAnyInt:
		return ir.I32, nil
	case semantic.KStr:
		return ir.NamedStruct(StrStructName), nil
	case semantic.KString:
		return ir.NamedStruct(StringStructName), nil
	case semantic.KArray:
		elem, err := tl.Lower(t.Elem)
		if err != nil {
			return nil, err
		}
		return ir.Array(elem, t.Size), nil
	case semantic.KStruct:
		return tl.lowerStruct(t.StructDecl)
	case semantic.KEnum:
		return ir.I32, nil
	default:
		return nil, compilererr.NewInternalError("type lowering: unsupported real-type kind %s", t.Kind)
	}
}

func (tl *TypeLowering) lowerStruct(decl *semantic.StructDecl) (*ir.Type, error) {
	if !tl.declared[decl] {
		tl.m.DeclareStructStub(decl.Name)
		tl.declared[decl] = true
	}
	return ir.NamedStruct(decl.Name), nil
}

// DefineStruct resolves and registers decl's field list, in declaration
// order, against the module's (already stubbed) struct entry.
func (tl *TypeLowering) DefineStruct(decl *semantic.StructDecl) error {
	if _, err := tl.lowerStruct(decl); err != nil {
		return err
	}
	fields := make([]*ir.Type, len(decl.FieldOrder))
	for i, name := range decl.FieldOrder {
		ft, err := tl.Lower(decl.Fields[name])
		if err != nil {
			return err
		}
		fields[i] = ft
	}
	return tl.m.DefineStructFields(decl.Name, fields)
}

// SizeInBytes forces transitive resolution of decl, failing if any
// referenced struct has not yet been defined.
func (tl *TypeLowering) SizeInBytes(t *ir.Type) (int, error) {
	return tl.m.SizeInBytes(t)
}

// LowerFunction produces an IR function type for decl. A non-none
// receiver prepends the receiver's type to the parameter list: a pointer
// to the owning struct for &self/&mut self, the struct by value for
// self. main is forced to return i32 regardless of its declared type.
func (tl *TypeLowering) LowerFunction(decl *semantic.FnDecl) (*ir.Type, error) {
	var params []*ir.Type
	if decl.Receiver != ast.ReceiverNone {
		var recvTy *ir.Type
		if decl.Owner == nil {
			return nil, compilererr.NewInternalError("lower_function: %s has a receiver but no owner", decl.Name)
		}
		ownerTy, err := tl.lowerStruct(decl.Owner)
		if err != nil {
			return nil, err
		}
		if decl.Receiver == ast.ReceiverSelf {
			recvTy = ownerTy
		} else {
			recvTy = ir.Pointer(ownerTy)
		}
		params = append(params, recvTy)
	}
	for _, p := range decl.Params {
		pt, err := tl.Lower(p)
		if err != nil {
			return nil, err
		}
		params = append(params, pt)
	}

	if decl.IsMain {
		return ir.Function(ir.I32, params), nil
	}
	retTy, err := tl.Lower(decl.RetType)
	if err != nil {
		return nil, err
	}
	return ir.Function(retTy, params), nil
}

// LowerConst folds a fully-evaluated constant of kind expected into an IR
// constant value. Array constants are handled by the global lowering
// driver instead and always return nil here. AnyInt constants must be
// concretized by the caller before reaching this function.
func (tl *TypeLowering) LowerConst(c semantic.ConstValue, expected *semantic.RealType) (ir.Value, error) {
	switch c.Kind {
	case semantic.CKArray:
		return nil, nil
	case semantic.CKBool:
		v := int64(0)
		if c.Bool {
			v = 1
		}
		return &ir.ConstInt{Ty: ir.I1, Val: v}, nil
	case semantic.CKChar:
		return &ir.ConstInt{Ty: ir.I8, Val: int64(c.Char)}, nil
	case semantic.CKUnit:
		return nil, nil
	case semantic.CKI32, semantic.CKIsize:
		return &ir.ConstInt{Ty: ir.I32, Val: c.Int}, nil
	case semantic.CKU32, semantic.CKUsize:
		return &ir.ConstInt{Ty: ir.I32, Val: int64(int32(c.UInt))}, nil
	case semantic.CKAnyInt:
		return nil, compilererr.NewInternalError("lower_const: AnyInt constant was not concretized before lowering")
	default:
		return nil, compilererr.NewInternalError("lower_const: unsupported constant kind for %s", expected)
	}
}

// SerializeArrayConst renders c (an array constant whose element type is
// et) as an LLVM array-literal initializer value, e.g. "[ i32 1, i32 2,
// i32 3 ]" — the bracketed element list only, since the surrounding
// global declaration supplies the array's own type.
func (tl *TypeLowering) SerializeArrayConst(c semantic.ConstValue, et *semantic.RealType) (string, error) {
	if c.Kind != semantic.CKArray {
		return "", compilererr.NewInternalError("serialize_array_const: constant is not an array")
	}
	elemIR, err := tl.Lower(et)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(c.Elements))
	for i, el := range c.Elements {
		if el.Kind == semantic.CKArray {
			nested, err := tl.SerializeArrayConst(el, et.Elem)
			if err != nil {
				return "", err
			}
			parts[i] = fmt.Sprintf("%s %s", elemIR.String(), nested)
			continue
		}
		v, err := tl.LowerConst(el, et)
		if err != nil {
			return "", err
		}
		parts[i] = v.Typed()
	}
	return fmt.Sprintf("[ %s ]", strings.Join(parts, ", ")), nil
}
