package irgen

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
)

// lowerBlockExpr lowers every statement in order, stopping once a
// statement's outcome lacks NEXT (the rest of the block is dead), then
// lowers the tail expression into the block's value when it survives and
// is non-unit.
func (g *Generator) lowerBlockExpr(b *ast.BlockExpr) (ir.Value, error) {
	dead := false
	for _, s := range b.Stmts {
		if dead {
			continue
		}
		if err := g.lowerStmt(s); err != nil {
			return nil, err
		}
		if !g.outcome(s).Has(semantic.Next) {
			dead = true
		}
	}
	if dead || b.Tail == nil {
		return nil, nil
	}
	val, err := g.rvalue(b.Tail)
	if err != nil {
		return nil, err
	}
	if !g.outcome(b.Tail).Has(semantic.Next) {
		return nil, nil
	}
	rt := g.realType(b.Tail)
	if rt != nil && rt.Kind != semantic.KUnit && rt.Kind != semantic.KNever {
		return val, nil
	}
	return nil, nil
}

func (g *Generator) lowerStmt(s ast.Stmt) error {
	switch n := s.(type) {
	case *ast.LetStmt:
		return g.lowerLet(n)
	case *ast.ExprStmt:
		if g.fn.Sealed {
			return nil
		}
		_, err := g.rvalue(n.Expr)
		return err
	case *ast.ItemStmt:
		if fi, ok := n.Item.(*ast.FnItem); ok {
			decl := g.Tables.FnItemToDecl[fi.ID()]
			return g.lowerFunction(decl)
		}
		return nil
	default:
		return compilererr.NewInternalError("irgen: unknown stmt kind %T", s)
	}
}

func (g *Generator) lowerLet(n *ast.LetStmt) error {
	letDecl := g.Tables.LetStmtToDecl[n.ID()]
	ty, err := g.TL.Lower(letDecl.Type)
	if err != nil {
		return err
	}
	slot, err := g.B.CreateAlloca(ty, letDecl.Name)
	if err != nil {
		return err
	}
	g.fn.Locals[letDecl] = slot
	if n.Init == nil {
		return nil
	}
	val, err := g.rvalue(n.Init)
	if err != nil {
		return err
	}
	if val == nil {
		return nil
	}
	return g.B.CreateStore(val, slot)
}

func (g *Generator) lowerIf(n *ast.IfExpr) (ir.Value, error) {
	rt := g.realType(n)
	needsSlot := g.outcome(n).Has(semantic.Next) && rt != nil && rt.Kind != semantic.KUnit && rt.Kind != semantic.KNever

	var slot *ir.Register
	if needsSlot {
		ty, err := g.TL.Lower(rt)
		if err != nil {
			return nil, err
		}
		slot, err = g.B.CreateTempAlloca(ty, "if.result")
		if err != nil {
			return nil, err
		}
	}

	condVal, err := g.rvalue(n.Cond)
	if err != nil {
		return nil, err
	}

	thenLabel := g.fn.freshLabel("if.then")
	mergeLabel := g.fn.freshLabel("if.merge")
	thenBlock := g.fn.Fn.AddBlock(thenLabel)
	mergeBlock := g.fn.Fn.AddBlock(mergeLabel)

	elseTarget := mergeLabel
	var elseBlock *ir.BasicBlock
	var elseLabel string
	if n.Else != nil {
		elseLabel = g.fn.freshLabel("if.else")
		elseBlock = g.fn.Fn.AddBlock(elseLabel)
		elseTarget = elseLabel
	}
	if err := g.condBr(condVal, thenLabel, elseTarget); err != nil {
		return nil, err
	}

	g.switchTo(thenBlock)
	thenVal, err := g.lowerBlockExpr(n.Then)
	if err != nil {
		return nil, err
	}
	if !g.fn.Sealed {
		if slot != nil && thenVal != nil {
			if err := g.B.CreateStore(thenVal, slot); err != nil {
				return nil, err
			}
		}
		if err := g.branchTo(mergeLabel); err != nil {
			return nil, err
		}
	}

	if n.Else != nil {
		g.switchTo(elseBlock)
		elseVal, err := g.rvalue(n.Else)
		if err != nil {
			return nil, err
		}
		if !g.fn.Sealed {
			if slot != nil && elseVal != nil {
				if err := g.B.CreateStore(elseVal, slot); err != nil {
					return nil, err
				}
			}
			if err := g.branchTo(mergeLabel); err != nil {
				return nil, err
			}
		}
	}

	g.switchTo(mergeBlock)
	if slot != nil {
		return g.B.CreateLoad(slot, "if.result")
	}
	return nil, nil
}

func (g *Generator) lowerWhile(n *ast.WhileExpr) error {
	condLabel := g.fn.freshLabel("while.cond")
	bodyLabel := g.fn.freshLabel("while.body")
	endLabel := g.fn.freshLabel("while.exit")
	condBlock := g.fn.Fn.AddBlock(condLabel)
	bodyBlock := g.fn.Fn.AddBlock(bodyLabel)
	endBlock := g.fn.Fn.AddBlock(endLabel)

	if err := g.branchTo(condLabel); err != nil {
		return err
	}
	g.switchTo(condBlock)
	condVal, err := g.rvalue(n.Cond)
	if err != nil {
		return err
	}
	if err := g.condBr(condVal, bodyLabel, endLabel); err != nil {
		return err
	}

	g.switchTo(bodyBlock)
	g.fn.pushLoop(&LoopContext{ContinueTarget: condLabel, BreakTarget: endLabel})
	_, err = g.lowerBlockExpr(n.Body)
	g.fn.popLoop()
	if err != nil {
		return err
	}
	if err := g.branchTo(condLabel); err != nil {
		return err
	}

	g.switchTo(endBlock)
	return nil
}

func (g *Generator) lowerLoop(n *ast.LoopExpr) (ir.Value, error) {
	rt := g.realType(n)
	needsSlot := rt != nil && rt.Kind != semantic.KUnit && rt.Kind != semantic.KNever

	var slot *ir.Register
	if needsSlot {
		ty, err := g.TL.Lower(rt)
		if err != nil {
			return nil, err
		}
		slot, err = g.B.CreateTempAlloca(ty, "loop.break.slot")
		if err != nil {
			return nil, err
		}
	}

	bodyLabel := g.fn.freshLabel("loop.body")
	endLabel := g.fn.freshLabel("loop.break")
	bodyBlock := g.fn.Fn.AddBlock(bodyLabel)
	endBlock := g.fn.Fn.AddBlock(endLabel)

	if err := g.branchTo(bodyLabel); err != nil {
		return nil, err
	}
	g.switchTo(bodyBlock)
	g.fn.pushLoop(&LoopContext{ContinueTarget: bodyLabel, BreakTarget: endLabel, BreakSlot: slot})
	_, err := g.lowerBlockExpr(n.Body)
	g.fn.popLoop()
	if err != nil {
		return nil, err
	}
	if err := g.branchTo(bodyLabel); err != nil {
		return nil, err
	}

	g.switchTo(endBlock)
	if slot != nil {
		return g.B.CreateLoad(slot, "loop.break.slot")
	}
	return nil, nil
}

func (g *Generator) lowerReturn(n *ast.ReturnExpr) error {
	var val ir.Value
	if n.Value != nil {
		v, err := g.rvalue(n.Value)
		if err != nil {
			return err
		}
		val = v
	}
	return g.storeAndBranchReturn(val)
}

func (g *Generator) lowerBreak(n *ast.BreakExpr) error {
	lc := g.fn.topLoop()
	if lc == nil {
		return compilererr.NewInternalError("irgen: break outside a loop")
	}
	if n.Value != nil {
		val, err := g.rvalue(n.Value)
		if err != nil {
			return err
		}
		if lc.BreakSlot != nil && val != nil {
			if err := g.B.CreateStore(val, lc.BreakSlot); err != nil {
				return err
			}
		}
	}
	return g.branchTo(lc.BreakTarget)
}

func (g *Generator) lowerContinue(n *ast.ContinueExpr) error {
	lc := g.fn.topLoop()
	if lc == nil {
		return compilererr.NewInternalError("irgen: continue outside a loop")
	}
	return g.branchTo(lc.ContinueTarget)
}
