package semantic

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
)

// sizeWorkItem is one array-type size expression queued by pass 2 for
// evaluation by pass 3's constant evaluator.
type sizeWorkItem struct {
	arr  *RealType
	expr ast.Expr
}

func (a *Analyzer) runPass2(root *Scope) error {
	return a.resolveScope(root)
}

// resolveScope implements one visit of pass 2's scope-tree DFS.
func (a *Analyzer) resolveScope(scope *Scope) error {
	if scope.Kind == ScopeImpl {
		ref := LookupType(scope.Parent, scope.ImplStructName)
		if ref == nil || ref.Struct == nil {
			return compilererr.NewCompileError("impl target %q is not a struct", scope.ImplStructName)
		}
		scope.SelfType = &RealType{Kind: KStruct, Name: ref.Struct.Name, StructDecl: ref.Struct}
	}

	for _, ref := range scope.TypeNamespace {
		if ref.Struct != nil && ref.Struct.AST != nil && len(ref.Struct.FieldOrder) == 0 && len(ref.Struct.AST.Fields) > 0 {
			if err := a.resolveStructFields(scope, ref.Struct); err != nil {
				return err
			}
		}
		if ref.Enum != nil && ref.Enum.AST != nil && len(ref.Enum.VariantOrder) == 0 {
			a.resolveEnumVariants(ref.Enum)
		}
	}

	for _, ref := range scope.ValueNamespace {
		if ref.Fn != nil && ref.Fn.AST != nil {
			if err := a.resolveFnSignature(scope, ref.Fn); err != nil {
				return err
			}
		}
		if ref.Const != nil && ref.Const.AST != nil && ref.Const.Type == nil {
			ty, err := a.resolveType(scope, ref.Const.AST.Type)
			if err != nil {
				return err
			}
			ref.Const.Type = ty
			if scope.Kind == ScopeImpl {
				if ownerRef := LookupType(scope.Parent, scope.ImplStructName); ownerRef != nil && ownerRef.Struct != nil {
					ownerRef.Struct.AssocConsts[ref.Const.AST.Name] = ref.Const
				}
			}
		}
	}

	for _, child := range scope.Children {
		if err := a.resolveScope(child); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) resolveStructFields(scope *Scope, decl *StructDecl) error {
	seen := map[string]bool{}
	for _, f := range decl.AST.Fields {
		if seen[f.Name] {
			return compilererr.NewCompileError("duplicate field %q in struct %s", f.Name, decl.Name)
		}
		seen[f.Name] = true
		ty, err := a.resolveType(scope, f.Type)
		if err != nil {
			return err
		}
		decl.FieldOrder = append(decl.FieldOrder, f.Name)
		decl.Fields[f.Name] = ty
	}
	return nil
}

func (a *Analyzer) resolveEnumVariants(decl *EnumDecl) {
	for i, v := range decl.AST.Variants {
		decl.VariantOrder = append(decl.VariantOrder, v)
		decl.VariantValue[v] = i
	}
}

func (a *Analyzer) resolveFnSignature(scope *Scope, fn *FnDecl) error {
	for _, p := range fn.AST.Params {
		ty, err := a.resolveType(fn.Scope, p.Type)
		if err != nil {
			return err
		}
		fn.Params = append(fn.Params, ty)
	}
	if fn.AST.RetType != nil {
		ty, err := a.resolveType(fn.Scope, fn.AST.RetType)
		if err != nil {
			return err
		}
		fn.RetType = ty
	} else {
		fn.RetType = Scalar(KUnit)
	}

	impl := EnclosingImpl(scope)
	if impl != nil {
		fn.OwnerName = impl.ImplStructName
		ownerRef := LookupType(impl.Parent, impl.ImplStructName)
		if ownerRef == nil || ownerRef.Struct == nil {
			return compilererr.NewCompileError("impl target %q is not a struct", impl.ImplStructName)
		}
		fn.Owner = ownerRef.Struct
		switch fn.Receiver {
		case ast.ReceiverNone:
			ownerRef.Struct.AssocFns[fn.AST.Name] = fn
		default:
			ownerRef.Struct.Methods[fn.AST.Name] = fn
		}
	} else if fn.Receiver != ast.ReceiverNone {
		return compilererr.NewCompileError("function %q has a receiver outside an impl block", fn.AST.Name)
	}

	if fn.AST.Name == "main" && scope == a.Tables.RootScope {
		fn.IsMain = true
		fn.Scope.IsMainScope = true
	}
	return nil
}

// resolveType resolves one surface TypeNode to a RealType, caching the
// result in type_map keyed by the type node's id.
func (a *Analyzer) resolveType(scope *Scope, t ast.TypeNode) (*RealType, error) {
	switch n := t.(type) {
	case *ast.PathType:
		rt, err := a.resolvePathType(scope, n)
		if err != nil {
			return nil, err
		}
		a.Tables.TypeMap[n.ID()] = rt
		return rt, nil
	case *ast.ArrayType:
		elem, err := a.resolveType(scope, n.Elem)
		if err != nil {
			return nil, err
		}
		rt := &RealType{Kind: KArray, Elem: elem}
		a.sizeWork = append(a.sizeWork, sizeWorkItem{arr: rt, expr: n.Size})
		a.Tables.NodeScope[n.Size.ID()] = scope
		a.Tables.TypeMap[n.ID()] = rt
		return rt, nil
	case *ast.UnitType:
		rt := Scalar(KUnit)
		a.Tables.TypeMap[n.ID()] = rt
		return rt, nil
	case *ast.SelfType:
		impl := EnclosingImpl(scope)
		if impl == nil || impl.SelfType == nil {
			return nil, compilererr.NewCompileError("Self used outside an impl block")
		}
		a.Tables.TypeMap[n.ID()] = impl.SelfType
		return impl.SelfType, nil
	}
	return nil, compilererr.NewInternalError("resolveType: unknown type kind %T", t)
}

var builtinScalarNames = map[string]Kind{
	"i32": KI32, "u32": KU32, "isize": KIsize, "usize": KUsize,
	"bool": KBool, "char": KChar, "str": KStr, "String": KString,
}

func (a *Analyzer) resolvePathType(scope *Scope, n *ast.PathType) (*RealType, error) {
	if ref := LookupType(scope, n.Name); ref != nil {
		if ref.Struct != nil {
			return (&RealType{Kind: KStruct, Name: ref.Struct.Name, StructDecl: ref.Struct}).WithRef(n.Ref), nil
		}
		return (&RealType{Kind: KEnum, Name: ref.Enum.Name, EnumDecl: ref.Enum}).WithRef(n.Ref), nil
	}
	if kind, ok := builtinScalarNames[n.Name]; ok {
		return Scalar(kind).WithRef(n.Ref), nil
	}
	return nil, compilererr.NewCompileError("unknown type %q", n.Name)
}
