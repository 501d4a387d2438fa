package semantic

import "github.com/rustlite/ricc/internal/ast"

func strType(ref ast.RefKind) *RealType    { return (&RealType{Kind: KStr}).WithRef(ref) }
func stringType(ref ast.RefKind) *RealType { return (&RealType{Kind: KString}).WithRef(ref) }

// installBuiltins registers the free-standing runtime functions in root's
// value namespace and returns the method/associated-function tables keyed
// by receiver kind and name. Every entry, free function or not, is a real
// FnDecl (synthesized with no AST for methods/associated functions) so
// call_expr_to_decl always holds a uniform value regardless of origin.
func installBuiltins(root *Scope) (methods map[Kind]map[string]*FnDecl, assocFns map[string]map[string]*FnDecl) {
	freeFns := []*FnDecl{
		builtinFnDecl("printInt", []*RealType{Scalar(KI32)}, Scalar(KUnit)),
		builtinFnDecl("printlnInt", []*RealType{Scalar(KI32)}, Scalar(KUnit)),
		builtinFnDecl("getInt", nil, Scalar(KI32)),
		builtinFnDecl("print", []*RealType{strType(ast.RefNone)}, Scalar(KUnit)),
		builtinFnDecl("println", []*RealType{strType(ast.RefNone)}, Scalar(KUnit)),
		exitFnDecl(),
	}
	for _, fn := range freeFns {
		root.ValueNamespace[fn.Name] = &ValueDeclRef{Fn: fn}
	}

	toString := builtinMethodDecl("to_string", nil, stringType(ast.RefNone))
	toString.Receiver = ast.ReceiverSelf
	methods = map[Kind]map[string]*FnDecl{
		KI32:    {"to_string": toString},
		KU32:    {"to_string": toString},
		KIsize:  {"to_string": toString},
		KUsize:  {"to_string": toString},
		KAnyInt: {"to_string": toString},
		KString: {
			"as_str":     builtinMethodDecl("as_str", nil, strType(ast.RefNone)),
			"as_mut_str": builtinMethodDecl("as_mut_str", nil, strType(ast.RefNone)),
			"append":     builtinMethodDecl("append", []*RealType{strType(ast.RefNone)}, Scalar(KUnit)),
		},
		KArray: {
			"len": arrayLenDecl(),
		},
	}
	assocFns = map[string]map[string]*FnDecl{
		"String": {
			"from": builtinFnDecl("from", []*RealType{strType(ast.RefNone)}, stringType(ast.RefNone)),
		},
	}
	return methods, assocFns
}

func builtinFnDecl(name string, params []*RealType, ret *RealType) *FnDecl {
	return &FnDecl{Name: name, Params: params, RetType: ret, Receiver: ast.ReceiverNone, IsBuiltin: true}
}

func builtinMethodDecl(name string, params []*RealType, ret *RealType) *FnDecl {
	return &FnDecl{Name: name, Params: params, RetType: ret, Receiver: ast.ReceiverRefSelf, IsBuiltin: true}
}

func arrayLenDecl() *FnDecl {
	fn := builtinMethodDecl("len", nil, Scalar(KUsize))
	fn.IsArrayLen = true
	return fn
}

func exitFnDecl() *FnDecl {
	fn := builtinFnDecl("exit", []*RealType{Scalar(KI32)}, Scalar(KUnit))
	fn.IsExit = true
	return fn
}
