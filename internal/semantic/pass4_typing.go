package semantic

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
)

// loopFrame tracks the expected result type of one enclosing loop. while
// loops start and stay at Unit (they cannot yield a break value); loop
// expressions start at Never and unify with every break's value type.
type loopFrame struct {
	Expected *RealType
	IsWhile  bool
}

// typer is pass 4's context-carrying walker: expression typing and let
// introduction. Every lookup resolves the node's scope via node_scope,
// already populated by pass 1, so no separate scope stack is needed here.
type typer struct {
	a         *Analyzer
	loopStack []*loopFrame
	currentFn *FnDecl
}

func (a *Analyzer) runPass4(items []ast.Item) error {
	t := &typer{a: a}
	for _, it := range items {
		if err := t.item(it); err != nil {
			return err
		}
	}
	return nil
}

func (t *typer) scopeOf(n ast.Node) *Scope { return t.a.Tables.NodeScope[n.ID()] }

func (t *typer) item(it ast.Item) error {
	switch n := it.(type) {
	case *ast.FnItem:
		return t.fnItem(t.a.Tables.FnItemToDecl[n.ID()])
	case *ast.ImplItem:
		for _, fn := range n.Fns {
			if err := t.item(fn); err != nil {
				return err
			}
		}
		for _, c := range n.Consts {
			if err := t.item(c); err != nil {
				return err
			}
		}
		return nil
	case *ast.ConstItem:
		_, _, err := t.expr(n.Value)
		return err
	case *ast.StructItem, *ast.EnumItem:
		return nil
	}
	return compilererr.NewInternalError("pass4: unknown item kind %T", it)
}

func (t *typer) fnItem(fn *FnDecl) error {
	prevFn := t.currentFn
	t.currentFn = fn
	defer func() { t.currentFn = prevFn }()

	for i, param := range fn.AST.Params {
		let, err := t.introducePattern(param.Pattern, fn.Scope, fn.Params[i], fn.Params[i])
		if err != nil {
			return err
		}
		fn.ParamLets = append(fn.ParamLets, let)
	}

	bodyType, _, err := t.expr(fn.AST.Body)
	if err != nil {
		return err
	}
	if _, err := Merge(fn.RetType, bodyType, false); err != nil {
		return compilererr.NewCompileError("function %q: return type mismatch: %v", fn.Name, err)
	}
	if fn.IsMain && !fn.Scope.HasExit {
		return compilererr.NewCompileError("main must call exit")
	}
	return nil
}

// expr types e, recording its (RealType, PlaceKind) into node_type_and_place
// before returning. Every expression node passes through here exactly once
// -- except a callee expression, which resolveCallee records directly since
// its typing rule (require_function) differs from ordinary expression use.
func (t *typer) expr(e ast.Expr) (*RealType, PlaceKind, error) {
	scope := t.scopeOf(e)
	rt, place, err := t.exprInner(e, scope)
	if err != nil {
		return nil, NotPlace, err
	}
	t.a.Tables.NodeTypeAndPlace[e.ID()] = TypeAndPlace{Type: rt, Place: place}
	return rt, place, nil
}

func (t *typer) exprInner(e ast.Expr, scope *Scope) (*RealType, PlaceKind, error) {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return t.literal(n)
	case *ast.IdentifierExpr:
		return t.identifier(n, scope)
	case *ast.BinaryExpr:
		return t.binary(n)
	case *ast.UnaryExpr:
		return t.unary(n)
	case *ast.CallExpr:
		return t.call(n, scope)
	case *ast.FieldExpr:
		return t.fieldAccess(n, scope)
	case *ast.StructExpr:
		return t.structExprType(n, scope)
	case *ast.IndexExpr:
		return t.indexExpr(n)
	case *ast.BlockExpr:
		return t.blockBody(n)
	case *ast.IfExpr:
		return t.ifExpr(n)
	case *ast.WhileExpr:
		return t.whileExpr(n)
	case *ast.LoopExpr:
		return t.loopExpr(n)
	case *ast.ReturnExpr:
		return t.returnExpr(n)
	case *ast.BreakExpr:
		return t.breakExpr(n)
	case *ast.ContinueExpr:
		return Scalar(KNever), NotPlace, nil
	case *ast.CastExpr:
		return t.castExpr(n, scope)
	case *ast.PathExpr:
		return t.pathExpr(n, scope)
	case *ast.SelfExpr:
		return t.selfExpr(scope)
	case *ast.UnitExpr:
		return Scalar(KUnit), NotPlace, nil
	case *ast.ArrayExpr:
		return t.arrayExprType(n)
	case *ast.RepeatArrayExpr:
		return t.repeatArrayType(n, scope)
	}
	return nil, NotPlace, compilererr.NewInternalError("pass4: unknown expr kind %T", e)
}

func (t *typer) literal(n *ast.LiteralExpr) (*RealType, PlaceKind, error) {
	switch n.Kind {
	case ast.LitBool:
		return Scalar(KBool), NotPlace, nil
	case ast.LitChar:
		return Scalar(KChar), NotPlace, nil
	case ast.LitString:
		return Scalar(KStr), NotPlace, nil
	case ast.LitNumber:
		val, err := parseIntLiteral(n.Text)
		if err != nil {
			return nil, NotPlace, err
		}
		cv, err := concretizeIntLiteral(val, n.Suffix)
		if err != nil {
			return nil, NotPlace, err
		}
		return cv.RealType(), NotPlace, nil
	}
	return nil, NotPlace, compilererr.NewInternalError("pass4: unknown literal kind")
}

func (t *typer) identifier(n *ast.IdentifierExpr, scope *Scope) (*RealType, PlaceKind, error) {
	if let := LookupLocal(scope, n.Name); let != nil {
		t.a.Tables.IdentifierExprToDecl[n.ID()] = ValueDecl{Let: let}
		return let.Type, PlaceFromMut(let.Mut), nil
	}
	ref := LookupValue(scope, n.Name)
	if ref == nil {
		return nil, NotPlace, compilererr.NewCompileError("undefined name %q", n.Name)
	}
	switch {
	case ref.Const != nil:
		t.a.Tables.IdentifierExprToDecl[n.ID()] = ValueDecl{Const: ref.Const}
		return ref.Const.Type, NotPlace, nil
	case ref.Fn != nil:
		t.a.Tables.IdentifierExprToDecl[n.ID()] = ValueDecl{Fn: ref.Fn}
		return &RealType{Kind: KFunction, FnDecl: ref.Fn}, NotPlace, nil
	}
	return nil, NotPlace, compilererr.NewInternalError("identifier %q resolved to no declaration", n.Name)
}

func opCategory(op ast.BinaryOp) string {
	switch op {
	case ast.BAdd, ast.BSub, ast.BMul, ast.BDiv, ast.BRem,
		ast.BAddAssign, ast.BSubAssign, ast.BMulAssign, ast.BDivAssign, ast.BRemAssign:
		return "arith"
	case ast.BAnd, ast.BOr, ast.BXor, ast.BAndAssign, ast.BOrAssign, ast.BXorAssign:
		return "bitwise"
	case ast.BShl, ast.BShr, ast.BShlAssign, ast.BShrAssign:
		return "shift"
	case ast.BAndAnd, ast.BOrOr:
		return "logical"
	case ast.BEq, ast.BNe, ast.BLt, ast.BLe, ast.BGt, ast.BGe:
		return "compare"
	case ast.BAssign:
		return "assign"
	}
	return "unknown"
}

func validateOperandKind(cat string, rt *RealType) error {
	switch cat {
	case "arith", "shift":
		if rt.Ref != ast.RefNone {
			return compilererr.NewCompileError("reference used as a direct operand")
		}
		if !rt.Kind.IsInteger() {
			return compilererr.NewCompileError("operator requires a numeric operand, found %s", rt)
		}
	case "bitwise":
		if rt.Ref != ast.RefNone {
			return compilererr.NewCompileError("reference used as a direct operand")
		}
		if !rt.Kind.IsInteger() && rt.Kind != KBool {
			return compilererr.NewCompileError("operator requires a numeric or bool operand, found %s", rt)
		}
	case "logical":
		if rt.Kind != KBool || rt.Ref != ast.RefNone {
			return compilererr.NewCompileError("operator requires a bool operand, found %s", rt)
		}
	}
	return nil
}

func (t *typer) binary(n *ast.BinaryExpr) (*RealType, PlaceKind, error) {
	cat := opCategory(n.Op)
	if n.Op.IsAssignment() {
		leftType, leftPlace, err := t.expr(n.Left)
		if err != nil {
			return nil, NotPlace, err
		}
		if leftPlace != ReadWritePlace {
			return nil, NotPlace, compilererr.NewCompileError("assignment target is not a mutable place")
		}
		rightType, _, err := t.expr(n.Right)
		if err != nil {
			return nil, NotPlace, err
		}
		if n.Op != ast.BAssign {
			if err := validateOperandKind(cat, leftType); err != nil {
				return nil, NotPlace, err
			}
		}
		if _, err := Merge(leftType, rightType, true); err != nil {
			return nil, NotPlace, err
		}
		return Scalar(KUnit), NotPlace, nil
	}

	leftType, _, err := t.expr(n.Left)
	if err != nil {
		return nil, NotPlace, err
	}
	rightType, _, err := t.expr(n.Right)
	if err != nil {
		return nil, NotPlace, err
	}

	switch cat {
	case "logical":
		if err := validateOperandKind(cat, leftType); err != nil {
			return nil, NotPlace, err
		}
		if err := validateOperandKind(cat, rightType); err != nil {
			return nil, NotPlace, err
		}
		return Scalar(KBool), NotPlace, nil
	case "compare":
		if _, err := Merge(leftType, rightType, false); err != nil {
			return nil, NotPlace, err
		}
		return Scalar(KBool), NotPlace, nil
	default: // arith, bitwise, shift
		if err := validateOperandKind(cat, leftType); err != nil {
			return nil, NotPlace, err
		}
		if err := validateOperandKind(cat, rightType); err != nil {
			return nil, NotPlace, err
		}
		merged, err := Merge(leftType, rightType, false)
		if err != nil {
			return nil, NotPlace, err
		}
		return merged, NotPlace, nil
	}
}

func (t *typer) unary(n *ast.UnaryExpr) (*RealType, PlaceKind, error) {
	switch n.Op {
	case ast.UNeg:
		operand, _, err := t.expr(n.Operand)
		if err != nil {
			return nil, NotPlace, err
		}
		if operand.Ref != ast.RefNone || !operand.Kind.IsInteger() {
			return nil, NotPlace, compilererr.NewCompileError("unary - requires a numeric operand")
		}
		return operand, NotPlace, nil
	case ast.UNot:
		operand, _, err := t.expr(n.Operand)
		if err != nil {
			return nil, NotPlace, err
		}
		if operand.Ref != ast.RefNone || (!operand.Kind.IsInteger() && operand.Kind != KBool) {
			return nil, NotPlace, compilererr.NewCompileError("unary ! requires a numeric or bool operand")
		}
		return operand, NotPlace, nil
	case ast.URef:
		operand, _, err := t.expr(n.Operand)
		if err != nil {
			return nil, NotPlace, err
		}
		return operand.WithRef(ast.RefShared), NotPlace, nil
	case ast.URefMut:
		operand, place, err := t.expr(n.Operand)
		if err != nil {
			return nil, NotPlace, err
		}
		if place != ReadWritePlace {
			return nil, NotPlace, compilererr.NewCompileError("cannot take &mut of a non-mutable place")
		}
		return operand.WithRef(ast.RefMut), NotPlace, nil
	case ast.UDeref:
		operand, _, err := t.expr(n.Operand)
		if err != nil {
			return nil, NotPlace, err
		}
		if operand.Ref == ast.RefNone {
			return nil, NotPlace, compilererr.NewCompileError("cannot dereference a non-reference value")
		}
		place := ReadOnlyPlace
		if operand.Ref == ast.RefMut {
			place = ReadWritePlace
		}
		return operand.Deref(), place, nil
	}
	return nil, NotPlace, compilererr.NewInternalError("pass4: unknown unary op")
}

// resolveCallee types a call's callee expression under require_function
// semantics and records its own node_type_and_place entry, since that
// differs from how the same expression kind types outside call position.
func (t *typer) resolveCallee(callee ast.Expr, scope *Scope) (*FnDecl, error) {
	switch n := callee.(type) {
	case *ast.IdentifierExpr:
		ref := LookupValue(scope, n.Name)
		if ref == nil || ref.Fn == nil {
			return nil, compilererr.NewCompileError("undefined function %q", n.Name)
		}
		t.a.Tables.IdentifierExprToDecl[n.ID()] = ValueDecl{Fn: ref.Fn}
		t.a.Tables.NodeTypeAndPlace[n.ID()] = TypeAndPlace{Type: &RealType{Kind: KFunction, FnDecl: ref.Fn}, Place: NotPlace}
		return ref.Fn, nil
	case *ast.FieldExpr:
		baseType, _, err := t.expr(n.Base)
		if err != nil {
			return nil, err
		}
		derefType := baseType.Deref()
		var fn *FnDecl
		if derefType.Kind == KStruct {
			fn = derefType.StructDecl.Methods[n.Name]
		}
		if fn == nil {
			if m, ok := t.a.BuiltinMethods[derefType.Kind]; ok {
				fn = m[n.Name]
			}
		}
		if fn == nil {
			return nil, compilererr.NewCompileError("no method %q on %s", n.Name, derefType)
		}
		t.a.Tables.NodeTypeAndPlace[n.ID()] = TypeAndPlace{Type: &RealType{Kind: KFunction, FnDecl: fn}, Place: NotPlace}
		return fn, nil
	case *ast.PathExpr:
		var fn *FnDecl
		if typeRef := LookupType(scope, n.BaseName); typeRef != nil && typeRef.Struct != nil {
			fn = typeRef.Struct.AssocFns[n.Name]
		}
		if fn == nil {
			if m, ok := t.a.BuiltinAssocFns[n.BaseName]; ok {
				fn = m[n.Name]
			}
		}
		if fn == nil {
			return nil, compilererr.NewCompileError("no associated function %s::%s", n.BaseName, n.Name)
		}
		t.a.Tables.NodeTypeAndPlace[n.ID()] = TypeAndPlace{Type: &RealType{Kind: KFunction, FnDecl: fn}, Place: NotPlace}
		return fn, nil
	}
	return nil, compilererr.NewCompileError("expression is not callable")
}

func (t *typer) call(n *ast.CallExpr, scope *Scope) (*RealType, PlaceKind, error) {
	fn, err := t.resolveCallee(n.Callee, scope)
	if err != nil {
		return nil, NotPlace, err
	}
	t.a.Tables.CallExprToDecl[n.ID()] = fn

	if fn.IsExit {
		mainScope := EnclosingFunction(scope)
		if mainScope == nil || !mainScope.IsMainScope {
			return nil, NotPlace, compilererr.NewCompileError("exit can only be called from main")
		}
		mainScope.HasExit = true
	}

	if len(n.Args) != len(fn.Params) {
		return nil, NotPlace, compilererr.NewCompileError(
			"%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(n.Args))
	}
	for i, argExpr := range n.Args {
		argType, _, err := t.expr(argExpr)
		if err != nil {
			return nil, NotPlace, err
		}
		if _, err := Merge(fn.Params[i], argType, true); err != nil {
			return nil, NotPlace, compilererr.NewCompileError("argument %d to %s: %v", i, fn.Name, err)
		}
	}
	return fn.RetType, NotPlace, nil
}

func fieldPlaceAfterDeref(baseType *RealType, basePlace PlaceKind) PlaceKind {
	switch baseType.Ref {
	case ast.RefShared:
		return ReadOnlyPlace
	case ast.RefMut:
		return ReadWritePlace
	default:
		return basePlace
	}
}

func (t *typer) fieldAccess(n *ast.FieldExpr, scope *Scope) (*RealType, PlaceKind, error) {
	baseType, basePlace, err := t.expr(n.Base)
	if err != nil {
		return nil, NotPlace, err
	}
	derefType := baseType.Deref()
	if derefType.Kind != KStruct {
		return nil, NotPlace, compilererr.NewCompileError("field access on non-struct type %s", derefType)
	}
	fieldType, ok := derefType.StructDecl.Fields[n.Name]
	if !ok {
		return nil, NotPlace, compilererr.NewCompileError("struct %s has no field %q", derefType.Name, n.Name)
	}
	return fieldType, fieldPlaceAfterDeref(baseType, basePlace), nil
}

func (t *typer) indexExpr(n *ast.IndexExpr) (*RealType, PlaceKind, error) {
	baseType, basePlace, err := t.expr(n.Base)
	if err != nil {
		return nil, NotPlace, err
	}
	derefType := baseType.Deref()
	if derefType.Kind != KArray {
		return nil, NotPlace, compilererr.NewCompileError("index access on non-array type %s", derefType)
	}
	idxType, _, err := t.expr(n.Index)
	if err != nil {
		return nil, NotPlace, err
	}
	if idxType.Kind != KUsize && idxType.Kind != KAnyInt {
		return nil, NotPlace, compilererr.NewCompileError("array index must be usize, found %s", idxType)
	}
	return derefType.Elem, fieldPlaceAfterDeref(baseType, basePlace), nil
}

func (t *typer) structExprType(n *ast.StructExpr, scope *Scope) (*RealType, PlaceKind, error) {
	typeRef := LookupType(scope, n.Name)
	if typeRef == nil || typeRef.Struct == nil {
		return nil, NotPlace, compilererr.NewCompileError("unknown struct %q", n.Name)
	}
	decl := typeRef.Struct
	seen := map[string]bool{}
	for _, f := range n.Fields {
		declaredType, ok := decl.Fields[f.Name]
		if !ok {
			return nil, NotPlace, compilererr.NewCompileError("struct %s has no field %q", decl.Name, f.Name)
		}
		if seen[f.Name] {
			return nil, NotPlace, compilererr.NewCompileError("duplicate field %q in struct literal", f.Name)
		}
		seen[f.Name] = true
		valType, _, err := t.expr(f.Value)
		if err != nil {
			return nil, NotPlace, err
		}
		if _, err := Merge(declaredType, valType, false); err != nil {
			return nil, NotPlace, compilererr.NewCompileError("field %q: %v", f.Name, err)
		}
	}
	for _, name := range decl.FieldOrder {
		if !seen[name] {
			return nil, NotPlace, compilererr.NewCompileError("missing field %q in struct literal for %s", name, decl.Name)
		}
	}
	return &RealType{Kind: KStruct, Name: decl.Name, StructDecl: decl}, NotPlace, nil
}

func (t *typer) blockBody(b *ast.BlockExpr) (*RealType, PlaceKind, error) {
	for _, s := range b.Stmts {
		if err := t.stmt(s); err != nil {
			return nil, NotPlace, err
		}
	}
	outcome := t.a.Tables.NodeOutcome[b.ID()]
	if !outcome.Has(Next) {
		return Scalar(KNever), NotPlace, nil
	}
	if b.Tail != nil {
		return t.expr(b.Tail)
	}
	return Scalar(KUnit), NotPlace, nil
}

func (t *typer) ifExpr(n *ast.IfExpr) (*RealType, PlaceKind, error) {
	condType, _, err := t.expr(n.Cond)
	if err != nil {
		return nil, NotPlace, err
	}
	if condType.Kind != KBool || condType.Ref != ast.RefNone {
		return nil, NotPlace, compilererr.NewCompileError("if condition must be a non-reference bool")
	}
	thenType, _, err := t.expr(n.Then)
	if err != nil {
		return nil, NotPlace, err
	}
	elseType := Scalar(KUnit)
	if n.Else != nil {
		elseType, _, err = t.expr(n.Else)
		if err != nil {
			return nil, NotPlace, err
		}
	}
	merged, err := Merge(thenType, elseType, false)
	if err != nil {
		return nil, NotPlace, err
	}
	return merged, NotPlace, nil
}

func (t *typer) whileExpr(n *ast.WhileExpr) (*RealType, PlaceKind, error) {
	condType, _, err := t.expr(n.Cond)
	if err != nil {
		return nil, NotPlace, err
	}
	if condType.Kind != KBool || condType.Ref != ast.RefNone {
		return nil, NotPlace, compilererr.NewCompileError("while condition must be a non-reference bool")
	}
	t.loopStack = append(t.loopStack, &loopFrame{Expected: Scalar(KUnit), IsWhile: true})
	_, _, err = t.expr(n.Body)
	t.loopStack = t.loopStack[:len(t.loopStack)-1]
	if err != nil {
		return nil, NotPlace, err
	}
	return Scalar(KUnit), NotPlace, nil
}

func (t *typer) loopExpr(n *ast.LoopExpr) (*RealType, PlaceKind, error) {
	frame := &loopFrame{Expected: Scalar(KNever)}
	t.loopStack = append(t.loopStack, frame)
	_, _, err := t.expr(n.Body)
	t.loopStack = t.loopStack[:len(t.loopStack)-1]
	if err != nil {
		return nil, NotPlace, err
	}
	return frame.Expected, NotPlace, nil
}

func (t *typer) returnExpr(n *ast.ReturnExpr) (*RealType, PlaceKind, error) {
	valType := Scalar(KUnit)
	if n.Value != nil {
		var err error
		valType, _, err = t.expr(n.Value)
		if err != nil {
			return nil, NotPlace, err
		}
	}
	if t.currentFn != nil {
		if _, err := Merge(t.currentFn.RetType, valType, false); err != nil {
			return nil, NotPlace, compilererr.NewCompileError("return type mismatch: %v", err)
		}
	}
	return Scalar(KNever), NotPlace, nil
}

func (t *typer) breakExpr(n *ast.BreakExpr) (*RealType, PlaceKind, error) {
	if len(t.loopStack) == 0 {
		return nil, NotPlace, compilererr.NewCompileError("break outside a loop")
	}
	frame := t.loopStack[len(t.loopStack)-1]
	if n.Value != nil {
		if frame.IsWhile {
			return nil, NotPlace, compilererr.NewCompileError("break with a value is not allowed inside while")
		}
		valType, _, err := t.expr(n.Value)
		if err != nil {
			return nil, NotPlace, err
		}
		merged, err := Merge(frame.Expected, valType, false)
		if err != nil {
			return nil, NotPlace, err
		}
		frame.Expected = merged
	}
	return Scalar(KNever), NotPlace, nil
}

func checkCastLegality(from, to *RealType) error {
	if from.Ref != to.Ref {
		if !(from.Ref == ast.RefMut && to.Ref == ast.RefShared) {
			return compilererr.NewCompileError("illegal reference cast from %s to %s", from, to)
		}
	}
	switch {
	case from.Kind == KArray && to.Kind == KArray:
		if from.Size != to.Size {
			return compilererr.NewCompileError("array cast size mismatch: %d vs %d", from.Size, to.Size)
		}
		return checkCastLegality(from.Elem, to.Elem)
	case from.Kind.IsInteger() && to.Kind.IsInteger():
		return nil
	case from.Kind == KChar && to.Kind.IsInteger():
		return nil
	case from.Kind.IsInteger() && to.Kind == KChar:
		return nil
	case from.Kind == KBool && to.Kind.IsInteger():
		return nil
	case from.Kind == KEnum && to.Kind.IsInteger():
		return nil
	case from.Kind == to.Kind:
		return nil
	}
	return compilererr.NewCompileError("illegal cast from %s to %s", from, to)
}

func (t *typer) castExpr(n *ast.CastExpr, scope *Scope) (*RealType, PlaceKind, error) {
	operandType, _, err := t.expr(n.Operand)
	if err != nil {
		return nil, NotPlace, err
	}
	targetType, err := t.a.resolveType(scope, n.Target)
	if err != nil {
		return nil, NotPlace, err
	}
	if err := checkCastLegality(operandType, targetType); err != nil {
		return nil, NotPlace, err
	}
	return targetType, NotPlace, nil
}

func (t *typer) pathExpr(n *ast.PathExpr, scope *Scope) (*RealType, PlaceKind, error) {
	typeRef := LookupType(scope, n.BaseName)
	if typeRef == nil {
		return nil, NotPlace, compilererr.NewCompileError("unknown type %q", n.BaseName)
	}
	if typeRef.Struct != nil {
		constDecl, ok := typeRef.Struct.AssocConsts[n.Name]
		if !ok {
			return nil, NotPlace, compilererr.NewCompileError("%s has no associated const %q", n.BaseName, n.Name)
		}
		return constDecl.Type, NotPlace, nil
	}
	if typeRef.Enum != nil {
		if _, ok := typeRef.Enum.VariantValue[n.Name]; !ok {
			return nil, NotPlace, compilererr.NewCompileError("%s has no variant %q", n.BaseName, n.Name)
		}
		return &RealType{Kind: KEnum, Name: typeRef.Enum.Name, EnumDecl: typeRef.Enum}, NotPlace, nil
	}
	return nil, NotPlace, compilererr.NewInternalError("path base resolved to neither struct nor enum")
}

func receiverRefKind(recv ast.ReceiverKind) ast.RefKind {
	switch recv {
	case ast.ReceiverRefSelf:
		return ast.RefShared
	case ast.ReceiverRefMutSelf:
		return ast.RefMut
	default:
		return ast.RefNone
	}
}

func placeForReceiver(recv ast.ReceiverKind) PlaceKind {
	switch recv {
	case ast.ReceiverRefMutSelf, ast.ReceiverSelf:
		return ReadWritePlace
	default:
		return ReadOnlyPlace
	}
}

func (t *typer) selfExpr(scope *Scope) (*RealType, PlaceKind, error) {
	if t.currentFn == nil || t.currentFn.Receiver == ast.ReceiverNone {
		return nil, NotPlace, compilererr.NewCompileError("self used outside a method")
	}
	implScope := EnclosingImpl(scope)
	if implScope == nil || implScope.SelfType == nil {
		return nil, NotPlace, compilererr.NewCompileError("self used outside an impl block")
	}
	rt := implScope.SelfType.WithRef(receiverRefKind(t.currentFn.Receiver))
	return rt, placeForReceiver(t.currentFn.Receiver), nil
}

func (t *typer) arrayExprType(n *ast.ArrayExpr) (*RealType, PlaceKind, error) {
	if len(n.Elements) == 0 {
		return nil, NotPlace, compilererr.NewCompileError("array literal must have at least one element")
	}
	var elemType *RealType
	for i, el := range n.Elements {
		et, _, err := t.expr(el)
		if err != nil {
			return nil, NotPlace, err
		}
		if i == 0 {
			elemType = et
			continue
		}
		merged, err := Merge(elemType, et, false)
		if err != nil {
			return nil, NotPlace, err
		}
		elemType = merged
	}
	return &RealType{Kind: KArray, Elem: elemType, Size: len(n.Elements), SizeKnown: true}, NotPlace, nil
}

func (t *typer) repeatArrayType(n *ast.RepeatArrayExpr, scope *Scope) (*RealType, PlaceKind, error) {
	valType, _, err := t.expr(n.Value)
	if err != nil {
		return nil, NotPlace, err
	}
	sizeType, _, err := t.expr(n.Size)
	if err != nil {
		return nil, NotPlace, err
	}
	if !sizeType.Kind.IsInteger() {
		return nil, NotPlace, compilererr.NewCompileError("repeat-array size must be an integer constant")
	}
	ce := &constEvaluator{a: t.a, inProgress: map[*ConstDecl]bool{}}
	cv, err := ce.eval(n.Size, scope)
	if err != nil {
		return nil, NotPlace, err
	}
	size, err := asArraySize(cv)
	if err != nil {
		return nil, NotPlace, err
	}
	t.a.Tables.ConstExprToSize[n.Size.ID()] = uint64(size)
	return &RealType{Kind: KArray, Elem: valType, Size: size, SizeKnown: true}, NotPlace, nil
}

func (t *typer) stmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.LetStmt:
		return t.letStmt(n)
	case *ast.ExprStmt:
		_, _, err := t.expr(n.Expr)
		return err
	case *ast.ItemStmt:
		return t.item(n.Item)
	}
	return compilererr.NewInternalError("pass4: unknown stmt kind %T", s)
}

func (t *typer) letStmt(n *ast.LetStmt) error {
	scope := t.scopeOf(n)
	var initType *RealType
	if n.Init != nil {
		it, _, err := t.expr(n.Init)
		if err != nil {
			return err
		}
		initType = it
	}
	var declaredType *RealType
	if n.Type != nil {
		dt, err := t.a.resolveType(scope, n.Type)
		if err != nil {
			return err
		}
		declaredType = dt
	}
	let, err := t.introducePattern(n.Pattern, scope, declaredType, initType)
	if err != nil {
		return err
	}
	t.a.Tables.LetStmtToDecl[n.ID()] = let
	return nil
}

func (t *typer) introducePattern(pat ast.Pattern, scope *Scope, declared, init *RealType) (*LetDecl, error) {
	idPat, ok := pat.(*ast.IdentifierPattern)
	if !ok {
		return nil, compilererr.NewCompileError("unsupported pattern")
	}
	var bound *RealType
	switch idPat.Ref {
	case ast.RefNone:
		switch {
		case declared != nil && init != nil:
			m, err := Merge(declared, init, false)
			if err != nil {
				return nil, err
			}
			bound = m
		case declared != nil:
			bound = declared
		case init != nil:
			bound = init
		default:
			return nil, compilererr.NewCompileError("let binding %q needs a type or an initializer", idPat.Name)
		}
	case ast.RefShared:
		if init == nil || (init.Ref != ast.RefShared && init.Ref != ast.RefMut) {
			return nil, compilererr.NewCompileError("pattern &%s requires a reference initializer", idPat.Name)
		}
		bound = init.Deref()
		if declared != nil {
			m, err := Merge(declared, bound, false)
			if err != nil {
				return nil, err
			}
			bound = m
		}
	case ast.RefMut:
		if init == nil || init.Ref != ast.RefMut {
			return nil, compilererr.NewCompileError("pattern &mut %s requires a &mut reference initializer", idPat.Name)
		}
		bound = init.Deref()
		if declared != nil {
			m, err := Merge(declared, bound, false)
			if err != nil {
				return nil, err
			}
			bound = m
		}
	}
	let := &LetDecl{Name: idPat.Name, Type: bound, Mut: idPat.Mut}
	scope.Locals[idPat.Name] = let
	return let, nil
}
