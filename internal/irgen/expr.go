package irgen

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
	"github.com/rustlite/ricc/internal/typelowering"
)

func (g *Generator) visitLiteral(n *ast.LiteralExpr) error {
	switch n.Kind {
	case ast.LitNumber:
		val, err := parseIntLiteralText(n.Text)
		if err != nil {
			return err
		}
		ty, err := g.TL.Lower(g.realType(n))
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = &ir.ConstInt{Ty: ty, Val: val}
		return nil
	case ast.LitBool:
		v := int64(0)
		if n.Text == "true" {
			v = 1
		}
		g.exprValue[n.ID()] = &ir.ConstInt{Ty: ir.I1, Val: v}
		return nil
	case ast.LitChar:
		decoded, err := decodeEscapes(n.Text)
		if err != nil {
			return err
		}
		r := []rune(decoded)
		if len(r) != 1 {
			return compilererr.NewInternalError("irgen: malformed char literal %q", n.Text)
		}
		g.exprValue[n.ID()] = &ir.ConstInt{Ty: ir.I8, Val: int64(r[0])}
		return nil
	case ast.LitString:
		return g.visitStringLiteral(n)
	default:
		return compilererr.NewInternalError("irgen: unknown literal kind %d", n.Kind)
	}
}

func (g *Generator) visitStringLiteral(n *ast.LiteralExpr) error {
	decoded, err := decodeEscapes(n.Text)
	if err != nil {
		return err
	}
	strGlobal := g.B.CreateStringLiteral(decoded)
	dataPtr, err := g.B.CreateGEP(strGlobal, strGlobal.Pointee, []ir.Value{&ir.ConstInt{Ty: ir.I32, Val: 0}}, "str.data")
	if err != nil {
		return err
	}

	strTy := ir.NamedStruct(typelowering.StrStructName)
	slot, err := g.B.CreateTempAlloca(strTy, "str.lit")
	if err != nil {
		return err
	}
	ptrField, err := g.B.CreateGEP(slot, strTy, []ir.Value{&ir.ConstInt{Ty: ir.I32, Val: 0}}, "str.ptr")
	if err != nil {
		return err
	}
	if err := g.B.CreateStore(dataPtr, ptrField); err != nil {
		return err
	}
	lenField, err := g.B.CreateGEP(slot, strTy, []ir.Value{&ir.ConstInt{Ty: ir.I32, Val: 1}}, "str.len")
	if err != nil {
		return err
	}
	if err := g.B.CreateStore(&ir.ConstInt{Ty: ir.I32, Val: int64(len(decoded))}, lenField); err != nil {
		return err
	}
	g.exprAddress[n.ID()] = slot
	return nil
}

func (g *Generator) visitIdentifier(n *ast.IdentifierExpr) error {
	vd := g.Tables.IdentifierExprToDecl[n.ID()]
	switch {
	case vd.Let != nil:
		slot, err := g.slotFor(vd.Let)
		if err != nil {
			return err
		}
		g.exprAddress[n.ID()] = slot
		return nil
	case vd.Const != nil:
		if vd.Const.Type.Kind == semantic.KArray {
			global, ok := g.constGlobal[vd.Const]
			if !ok {
				return compilererr.NewInternalError("irgen: array const %s was never globalized", vd.Const.AST.Name)
			}
			g.exprAddress[n.ID()] = global
			return nil
		}
		cv := g.Tables.ConstValueMap[vd.Const]
		val, err := g.TL.LowerConst(cv, vd.Const.Type)
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = val
		return nil
	default:
		return compilererr.NewInternalError("irgen: identifier %s does not resolve to a place or value", n.Name)
	}
}

func (g *Generator) visitUnary(n *ast.UnaryExpr) error {
	switch n.Op {
	case ast.UNeg:
		v, err := g.rvalue(n.Operand)
		if err != nil {
			return err
		}
		reg, err := g.B.CreateSub(&ir.ConstInt{Ty: v.Type(), Val: 0}, v, "neg")
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = reg
		return nil
	case ast.UNot:
		v, err := g.rvalue(n.Operand)
		if err != nil {
			return err
		}
		mask := int64(-1)
		if v.Type().Kind == ir.KInt && v.Type().Bits == 1 {
			mask = 1
		}
		reg, err := g.B.CreateXor(v, &ir.ConstInt{Ty: v.Type(), Val: mask}, "not")
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = reg
		return nil
	case ast.URef, ast.URefMut:
		addr, err := g.lvalue(n.Operand)
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = addr
		return nil
	case ast.UDeref:
		v, err := g.rvalue(n.Operand)
		if err != nil {
			return err
		}
		g.exprAddress[n.ID()] = v
		return nil
	default:
		return compilererr.NewInternalError("irgen: unknown unary op %d", n.Op)
	}
}

func (g *Generator) visitBinary(n *ast.BinaryExpr) error {
	if n.Op == ast.BAndAnd || n.Op == ast.BOrOr {
		return g.lowerShortCircuit(n)
	}
	if n.Op.IsAssignment() {
		return g.lowerAssignment(n)
	}

	leftVal, err := g.rvalue(n.Left)
	if err != nil {
		return err
	}
	rightVal, err := g.rvalue(n.Right)
	if err != nil {
		return err
	}
	leftKind := g.realType(n.Left).Kind

	switch n.Op {
	case ast.BEq, ast.BNe, ast.BLt, ast.BLe, ast.BGt, ast.BGe:
		reg, err := g.B.CreateICmp(icmpPredicate(n.Op, leftKind.IsSigned()), leftVal, rightVal, "cmp")
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = reg
		return nil
	default:
		reg, err := g.applyBinOp(n.Op, leftKind, leftVal, rightVal, "bin")
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = reg
		return nil
	}
}

func (g *Generator) lowerAssignment(n *ast.BinaryExpr) error {
	addr, err := g.lvalue(n.Left)
	if err != nil {
		return err
	}
	rhsVal, err := g.rvalue(n.Right)
	if err != nil {
		return err
	}
	result := rhsVal
	if n.Op != ast.BAssign {
		leftKind := g.realType(n.Left).Kind
		curVal, err := g.B.CreateLoad(addr, "cur")
		if err != nil {
			return err
		}
		result, err = g.applyBinOp(n.Op, leftKind, curVal, rhsVal, "asg")
		if err != nil {
			return err
		}
	}
	return g.B.CreateStore(result, addr)
}

func (g *Generator) lowerShortCircuit(n *ast.BinaryExpr) error {
	isAnd := n.Op == ast.BAndAnd
	identity := int64(0)
	if !isAnd {
		identity = 1
	}
	slot, err := g.B.CreateTempAlloca(ir.I1, "sc")
	if err != nil {
		return err
	}
	if err := g.B.CreateStore(&ir.ConstInt{Ty: ir.I1, Val: identity}, slot); err != nil {
		return err
	}
	leftVal, err := g.rvalue(n.Left)
	if err != nil {
		return err
	}

	rhsLabel := g.fn.freshLabel("logical.rhs")
	mergeLabel := g.fn.freshLabel("logical.merge")
	rhsBlock := g.fn.Fn.AddBlock(rhsLabel)
	mergeBlock := g.fn.Fn.AddBlock(mergeLabel)

	if isAnd {
		err = g.condBr(leftVal, rhsLabel, mergeLabel)
	} else {
		err = g.condBr(leftVal, mergeLabel, rhsLabel)
	}
	if err != nil {
		return err
	}

	g.switchTo(rhsBlock)
	rightVal, err := g.rvalue(n.Right)
	if err != nil {
		return err
	}
	if err := g.B.CreateStore(rightVal, slot); err != nil {
		return err
	}
	if err := g.branchTo(mergeLabel); err != nil {
		return err
	}

	g.switchTo(mergeBlock)
	loaded, err := g.B.CreateLoad(slot, "sc")
	if err != nil {
		return err
	}
	g.exprValue[n.ID()] = loaded
	return nil
}

func (g *Generator) applyBinOp(op ast.BinaryOp, leftKind semantic.Kind, a, b ir.Value, hint string) (*ir.Register, error) {
	signed := leftKind.IsSigned()
	switch op {
	case ast.BAdd, ast.BAddAssign:
		return g.B.CreateAdd(a, b, hint)
	case ast.BSub, ast.BSubAssign:
		return g.B.CreateSub(a, b, hint)
	case ast.BMul, ast.BMulAssign:
		return g.B.CreateMul(a, b, hint)
	case ast.BDiv, ast.BDivAssign:
		if signed {
			return g.B.CreateSDiv(a, b, hint)
		}
		return g.B.CreateUDiv(a, b, hint)
	case ast.BRem, ast.BRemAssign:
		if signed {
			return g.B.CreateSRem(a, b, hint)
		}
		return g.B.CreateURem(a, b, hint)
	case ast.BAnd, ast.BAndAssign:
		return g.B.CreateAnd(a, b, hint)
	case ast.BOr, ast.BOrAssign:
		return g.B.CreateOr(a, b, hint)
	case ast.BXor, ast.BXorAssign:
		return g.B.CreateXor(a, b, hint)
	case ast.BShl, ast.BShlAssign:
		return g.B.CreateShl(a, b, hint)
	case ast.BShr, ast.BShrAssign:
		if signed {
			return g.B.CreateAShr(a, b, hint)
		}
		return g.B.CreateLShr(a, b, hint)
	default:
		return nil, compilererr.NewInternalError("irgen: %d is not an arithmetic/bitwise operator", op)
	}
}

func icmpPredicate(op ast.BinaryOp, signed bool) string {
	switch op {
	case ast.BEq:
		return "eq"
	case ast.BNe:
		return "ne"
	case ast.BLt:
		if signed {
			return "slt"
		}
		return "ult"
	case ast.BLe:
		if signed {
			return "sle"
		}
		return "ule"
	case ast.BGt:
		if signed {
			return "sgt"
		}
		return "ugt"
	case ast.BGe:
		if signed {
			return "sge"
		}
		return "uge"
	default:
		return ""
	}
}

func (g *Generator) visitField(n *ast.FieldExpr) error {
	baseRT := g.realType(n.Base)
	var baseAddr ir.Value
	var err error
	if baseRT.Ref != ast.RefNone {
		baseAddr, err = g.rvalue(n.Base)
	} else {
		baseAddr, err = g.lvalue(n.Base)
	}
	if err != nil {
		return err
	}

	structDecl := baseRT.Deref().StructDecl
	idx := fieldIndex(structDecl, n.Name)
	if idx < 0 {
		return compilererr.NewInternalError("irgen: unknown field %s on %s", n.Name, structDecl.Name)
	}
	rootType := baseAddr.Type().Elem
	fieldAddr, err := g.B.CreateGEP(baseAddr, rootType, []ir.Value{&ir.ConstInt{Ty: ir.I32, Val: int64(idx)}}, "field")
	if err != nil {
		return err
	}
	g.exprAddress[n.ID()] = fieldAddr
	return nil
}

func fieldIndex(decl *semantic.StructDecl, name string) int {
	for i, f := range decl.FieldOrder {
		if f == name {
			return i
		}
	}
	return -1
}

func (g *Generator) visitStruct(n *ast.StructExpr) error {
	rt := g.realType(n)
	ty, err := g.TL.Lower(rt)
	if err != nil {
		return err
	}
	slot, err := g.B.CreateTempAlloca(ty, "struct.lit")
	if err != nil {
		return err
	}
	for _, fi := range n.Fields {
		idx := fieldIndex(rt.StructDecl, fi.Name)
		if idx < 0 {
			return compilererr.NewInternalError("irgen: unknown field %s on %s", fi.Name, rt.Name)
		}
		val, err := g.rvalue(fi.Value)
		if err != nil {
			return err
		}
		fieldAddr, err := g.B.CreateGEP(slot, ty, []ir.Value{&ir.ConstInt{Ty: ir.I32, Val: int64(idx)}}, "field")
		if err != nil {
			return err
		}
		if err := g.B.CreateStore(val, fieldAddr); err != nil {
			return err
		}
	}
	g.exprAddress[n.ID()] = slot
	return nil
}

func (g *Generator) visitIndex(n *ast.IndexExpr) error {
	baseRT := g.realType(n.Base)
	var baseAddr ir.Value
	var err error
	if baseRT.Ref != ast.RefNone {
		baseAddr, err = g.rvalue(n.Base)
	} else {
		baseAddr, err = g.lvalue(n.Base)
	}
	if err != nil {
		return err
	}
	idxVal, err := g.rvalue(n.Index)
	if err != nil {
		return err
	}
	rootType := baseAddr.Type().Elem
	elemAddr, err := g.B.CreateGEP(baseAddr, rootType, []ir.Value{idxVal}, "idx")
	if err != nil {
		return err
	}
	g.exprAddress[n.ID()] = elemAddr
	return nil
}

func (g *Generator) visitArray(n *ast.ArrayExpr) error {
	rt := g.realType(n)
	ty, err := g.TL.Lower(rt)
	if err != nil {
		return err
	}
	slot, err := g.B.CreateTempAlloca(ty, "array.lit")
	if err != nil {
		return err
	}
	for i, el := range n.Elements {
		val, err := g.rvalue(el)
		if err != nil {
			return err
		}
		elemAddr, err := g.B.CreateGEP(slot, ty, []ir.Value{&ir.ConstInt{Ty: ir.I32, Val: int64(i)}}, "elem")
		if err != nil {
			return err
		}
		if err := g.B.CreateStore(val, elemAddr); err != nil {
			return err
		}
	}
	g.exprAddress[n.ID()] = slot
	return nil
}

func (g *Generator) visitRepeatArray(n *ast.RepeatArrayExpr) error {
	rt := g.realType(n)
	ty, err := g.TL.Lower(rt)
	if err != nil {
		return err
	}
	slot, err := g.B.CreateTempAlloca(ty, "array.repeat")
	if err != nil {
		return err
	}
	size, ok := g.Tables.ConstExprToSize[n.Size.ID()]
	if !ok {
		return compilererr.NewInternalError("irgen: repeat-array size was not resolved at compile time")
	}
	val, err := g.rvalue(n.Value)
	if err != nil {
		return err
	}
	for i := uint64(0); i < size; i++ {
		elemAddr, err := g.B.CreateGEP(slot, ty, []ir.Value{&ir.ConstInt{Ty: ir.I32, Val: int64(i)}}, "elem")
		if err != nil {
			return err
		}
		if err := g.B.CreateStore(val, elemAddr); err != nil {
			return err
		}
	}
	g.exprAddress[n.ID()] = slot
	return nil
}

func (g *Generator) visitCast(n *ast.CastExpr) error {
	operandVal, err := g.rvalue(n.Operand)
	if err != nil {
		return err
	}
	srcRT := g.realType(n.Operand)
	dstRT := g.realType(n)
	srcTy, err := g.TL.Lower(srcRT)
	if err != nil {
		return err
	}
	dstTy, err := g.TL.Lower(dstRT)
	if err != nil {
		return err
	}
	if srcTy.Equal(dstTy) {
		g.exprValue[n.ID()] = operandVal
		return nil
	}
	if dstTy.Kind == ir.KInt && dstTy.Bits == 1 {
		reg, err := g.B.CreateICmp("ne", operandVal, &ir.ConstInt{Ty: srcTy, Val: 0}, "cast")
		if err != nil {
			return err
		}
		g.exprValue[n.ID()] = reg
		return nil
	}
	var reg *ir.Register
	if dstTy.Bits > srcTy.Bits {
		if srcRT.Kind.IsSigned() {
			reg, err = g.B.CreateSExt(operandVal, dstTy, "cast")
		} else {
			reg, err = g.B.CreateZExt(operandVal, dstTy, "cast")
		}
	} else {
		reg, err = g.B.CreateTrunc(operandVal, dstTy, "cast")
	}
	if err != nil {
		return err
	}
	g.exprValue[n.ID()] = reg
	return nil
}

func (g *Generator) visitPath(n *ast.PathExpr) error {
	scope := g.Tables.NodeScope[n.ID()]
	typeRef := semantic.LookupType(scope, n.BaseName)
	if typeRef == nil {
		return compilererr.NewInternalError("irgen: unresolved path base %s", n.BaseName)
	}
	if typeRef.Enum != nil {
		val := typeRef.Enum.VariantValue[n.Name]
		g.exprValue[n.ID()] = &ir.ConstInt{Ty: ir.I32, Val: int64(val)}
		return nil
	}
	if typeRef.Struct != nil {
		if cd, ok := typeRef.Struct.AssocConsts[n.Name]; ok {
			if cd.Type.Kind == semantic.KArray {
				global, ok := g.constGlobal[cd]
				if !ok {
					return compilererr.NewInternalError("irgen: array const %s::%s was never globalized", n.BaseName, n.Name)
				}
				g.exprAddress[n.ID()] = global
				return nil
			}
			cv := g.Tables.ConstValueMap[cd]
			val, err := g.TL.LowerConst(cv, cd.Type)
			if err != nil {
				return err
			}
			g.exprValue[n.ID()] = val
			return nil
		}
	}
	return compilererr.NewInternalError("irgen: unresolved path %s::%s", n.BaseName, n.Name)
}
