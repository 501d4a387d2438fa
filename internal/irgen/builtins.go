package irgen

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
	"github.com/rustlite/ricc/internal/typelowering"
)

func (g *Generator) visitCall(n *ast.CallExpr) error {
	fnDecl := g.Tables.CallExprToDecl[n.ID()]
	if fnDecl == nil {
		return compilererr.NewInternalError("irgen: call was never resolved to a declaration")
	}

	if fnDecl.IsExit {
		var val ir.Value
		if len(n.Args) > 0 {
			v, err := g.rvalue(n.Args[0])
			if err != nil {
				return err
			}
			val = v
		}
		return g.storeAndBranchReturn(val)
	}

	if fnDecl.IsArrayLen {
		fe, ok := n.Callee.(*ast.FieldExpr)
		if !ok {
			return compilererr.NewInternalError("irgen: len() callee is not a field access")
		}
		baseRT := g.realType(fe.Base).Deref()
		g.exprValue[n.ID()] = &ir.ConstInt{Ty: ir.I32, Val: int64(baseRT.Size)}
		return nil
	}

	var args []ir.Value
	if fnDecl.Receiver != ast.ReceiverNone {
		fe, ok := n.Callee.(*ast.FieldExpr)
		if !ok {
			return compilererr.NewInternalError("irgen: method call callee is not a field access")
		}
		// A by-value `self` receiver wants the operand's value (to_string on
		// an integer, say); a reference receiver wants its address.
		var baseVal ir.Value
		var err error
		if fnDecl.Receiver == ast.ReceiverSelf {
			baseVal, err = g.rvalue(fe.Base)
		} else {
			baseVal, err = g.lvalue(fe.Base)
		}
		if err != nil {
			return err
		}
		args = append(args, baseVal)
	}
	for _, a := range n.Args {
		v, err := g.rvalue(a)
		if err != nil {
			return err
		}
		args = append(args, v)
	}

	symbol, retTy, err := g.calleeSymbolAndType(fnDecl)
	if err != nil {
		return err
	}
	reg, err := g.B.CreateCall(symbol, args, retTy, "call")
	if err != nil {
		return err
	}
	if reg != nil {
		g.exprValue[n.ID()] = reg
	}
	return nil
}

// calleeSymbolAndType resolves fnDecl to the module-level symbol to call
// and the IR type of its result, lazily declaring built-in runtime
// functions (whose signature cannot be derived generically, since they
// have no owning struct for type_lowering's receiver handling) on first
// use.
func (g *Generator) calleeSymbolAndType(fnDecl *semantic.FnDecl) (string, *ir.Type, error) {
	if fnDecl.IsBuiltin {
		retTy, err := g.ensureRuntimeDecl(fnDecl.Name)
		if err != nil {
			return "", nil, err
		}
		return fnDecl.Name, retTy, nil
	}
	symbol, ok := g.fnSymbol[fnDecl]
	if !ok {
		return "", nil, compilererr.NewInternalError("irgen: function %s was never pre-declared", fnDecl.Name)
	}
	fn := g.Module.FindFunction(symbol)
	if fn == nil {
		return "", nil, compilererr.NewInternalError("irgen: declared function %s vanished from the module", symbol)
	}
	return symbol, fn.FnType.FnRet, nil
}

// ensureRuntimeDecl declares name's runtime ABI signature on first call,
// returning its (possibly void) return type.
func (g *Generator) ensureRuntimeDecl(name string) (*ir.Type, error) {
	if fn, ok := g.runtimeDecls[name]; ok {
		return fn.FnType.FnRet, nil
	}
	ret, params, ok := runtimeSignature(name)
	if !ok {
		return nil, compilererr.NewInternalError("irgen: no runtime signature registered for %s", name)
	}
	fnType := ir.Function(ret, params)
	fn := g.Module.DeclareFunction(name, fnType)
	g.runtimeDecls[name] = fn
	return ret, nil
}

// runtimeSignature is the fixed ABI every compiled program links against.
// `exit` is never declared here: it is always diverted into a return from
// main. `len` is never declared either: it always compiles to a constant.
func runtimeSignature(name string) (ret *ir.Type, params []*ir.Type, ok bool) {
	str := ir.NamedStruct(typelowering.StrStructName)
	strn := ir.NamedStruct(typelowering.StringStructName)
	strnPtr := ir.Pointer(strn)

	switch name {
	case "printInt":
		return ir.Void(), []*ir.Type{ir.I32}, true
	case "printlnInt":
		return ir.Void(), []*ir.Type{ir.I32}, true
	case "getInt":
		return ir.I32, nil, true
	case "print":
		return ir.Void(), []*ir.Type{str}, true
	case "println":
		return ir.Void(), []*ir.Type{str}, true
	case "to_string":
		return strn, []*ir.Type{ir.I32}, true
	case "as_str", "as_mut_str":
		return str, []*ir.Type{strnPtr}, true
	case "from":
		return strn, []*ir.Type{str}, true
	case "append":
		return ir.Void(), []*ir.Type{strnPtr, str}, true
	default:
		return nil, nil, false
	}
}
