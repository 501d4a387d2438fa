package irgen

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
)

// slotFor returns ld's storage slot, lazily allocating one in the entry
// block if generation has not created it yet (every ordinary let and
// parameter already has one by the time an identifier references it; this
// is a defensive fallback, not the common path).
func (g *Generator) slotFor(ld *semantic.LetDecl) (*ir.Register, error) {
	if slot, ok := g.fn.Locals[ld]; ok {
		return slot, nil
	}
	ty, err := g.TL.Lower(ld.Type)
	if err != nil {
		return nil, err
	}
	slot, err := g.B.CreateTempAlloca(ty, ld.Name+".slot")
	if err != nil {
		return nil, err
	}
	g.fn.Locals[ld] = slot
	return slot, nil
}

// switchTo retargets the builder at block, as a brand-new (unsealed)
// current block.
func (g *Generator) switchTo(block *ir.BasicBlock) {
	g.fn.Cur = block
	g.fn.Sealed = false
	g.B.SetInsertPoint(g.fn.Fn, block)
}

// branchTo emits an unconditional branch, unless this generator has
// already sealed the current block (e.g. an earlier break/return).
func (g *Generator) branchTo(label string) error {
	if g.fn.Sealed {
		return nil
	}
	if err := g.B.CreateBr(label); err != nil {
		return err
	}
	g.fn.Sealed = true
	return nil
}

func (g *Generator) condBr(cond ir.Value, trueLabel, falseLabel string) error {
	if g.fn.Sealed {
		return nil
	}
	if err := g.B.CreateCondBr(cond, trueLabel, falseLabel); err != nil {
		return err
	}
	g.fn.Sealed = true
	return nil
}

// storeAndBranchReturn stores val (if both a slot and a value exist)
// then branches to the function's shared return block.
func (g *Generator) storeAndBranchReturn(val ir.Value) error {
	if g.fn.RetSlot != nil && val != nil {
		if err := g.B.CreateStore(val, g.fn.RetSlot); err != nil {
			return err
		}
	}
	return g.branchTo(g.fn.Return.Label)
}

// visit dispatches e to its lowering case, which fills expr_value_map
// and/or expr_address_map for e's node id.
func (g *Generator) visit(e ast.Expr) error {
	switch n := e.(type) {
	case *ast.LiteralExpr:
		return g.visitLiteral(n)
	case *ast.IdentifierExpr:
		return g.visitIdentifier(n)
	case *ast.BinaryExpr:
		return g.visitBinary(n)
	case *ast.UnaryExpr:
		return g.visitUnary(n)
	case *ast.CallExpr:
		return g.visitCall(n)
	case *ast.FieldExpr:
		return g.visitField(n)
	case *ast.StructExpr:
		return g.visitStruct(n)
	case *ast.IndexExpr:
		return g.visitIndex(n)
	case *ast.BlockExpr:
		val, err := g.lowerBlockExpr(n)
		if err != nil {
			return err
		}
		if val != nil {
			g.exprValue[n.ID()] = val
		}
		return nil
	case *ast.IfExpr:
		val, err := g.lowerIf(n)
		if err != nil {
			return err
		}
		if val != nil {
			g.exprValue[n.ID()] = val
		}
		return nil
	case *ast.WhileExpr:
		return g.lowerWhile(n)
	case *ast.LoopExpr:
		val, err := g.lowerLoop(n)
		if err != nil {
			return err
		}
		if val != nil {
			g.exprValue[n.ID()] = val
		}
		return nil
	case *ast.ReturnExpr:
		return g.lowerReturn(n)
	case *ast.BreakExpr:
		return g.lowerBreak(n)
	case *ast.ContinueExpr:
		return g.lowerContinue(n)
	case *ast.CastExpr:
		return g.visitCast(n)
	case *ast.PathExpr:
		return g.visitPath(n)
	case *ast.SelfExpr:
		g.exprAddress[n.ID()] = g.fn.SelfSlot
		return nil
	case *ast.UnitExpr:
		return nil
	case *ast.ArrayExpr:
		return g.visitArray(n)
	case *ast.RepeatArrayExpr:
		return g.visitRepeatArray(n)
	}
	return compilererr.NewInternalError("irgen: unknown expr kind %T", e)
}

// rvalue returns e's computed value, loading through its address if only
// an address was published.
func (g *Generator) rvalue(e ast.Expr) (ir.Value, error) {
	if v, ok := g.exprValue[e.ID()]; ok {
		return v, nil
	}
	if addr, ok := g.exprAddress[e.ID()]; ok {
		return g.loadThrough(e, addr)
	}
	if err := g.visit(e); err != nil {
		return nil, err
	}
	if v, ok := g.exprValue[e.ID()]; ok {
		return v, nil
	}
	if addr, ok := g.exprAddress[e.ID()]; ok {
		return g.loadThrough(e, addr)
	}
	return nil, nil // Unit-typed expression: no value
}

func (g *Generator) loadThrough(e ast.Expr, addr ir.Value) (ir.Value, error) {
	rt := g.realType(e)
	ty, err := g.TL.Lower(rt)
	if err != nil {
		return nil, err
	}
	if ty.Kind == ir.KVoid {
		return nil, nil
	}
	return g.B.CreateLoad(addr, "v")
}

// lvalue returns e's address, materializing one by spilling its value to
// a fresh alloca if only a value was published.
func (g *Generator) lvalue(e ast.Expr) (ir.Value, error) {
	if addr, ok := g.exprAddress[e.ID()]; ok {
		return addr, nil
	}
	if v, ok := g.exprValue[e.ID()]; ok {
		return g.spill(e, v)
	}
	if err := g.visit(e); err != nil {
		return nil, err
	}
	if addr, ok := g.exprAddress[e.ID()]; ok {
		return addr, nil
	}
	if v, ok := g.exprValue[e.ID()]; ok {
		return g.spill(e, v)
	}
	return nil, compilererr.NewInternalError("irgen: expression has no l-value or r-value")
}

func (g *Generator) spill(e ast.Expr, v ir.Value) (ir.Value, error) {
	slot, err := g.B.CreateTempAlloca(v.Type(), "spill")
	if err != nil {
		return nil, err
	}
	if err := g.B.CreateStore(v, slot); err != nil {
		return nil, err
	}
	g.exprAddress[e.ID()] = slot
	return slot, nil
}
