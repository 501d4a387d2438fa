package irgen

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
)

// lowerFunction implements the function-lowering algorithm (spec §4.4.1):
// create the function and its entry/return blocks, turn the receiver and
// every parameter into addressable locals, allocate a return slot when the
// function yields a value, lower the body, and fill the return block.
func (g *Generator) lowerFunction(decl *semantic.FnDecl) error {
	symbol, ok := g.fnSymbol[decl]
	if !ok {
		return compilererr.NewInternalError("irgen: function %s was never pre-declared", decl.Name)
	}
	fnType, err := g.TL.LowerFunction(decl)
	if err != nil {
		return err
	}

	paramNames := make([]string, 0, len(fnType.FnParams))
	if decl.Receiver != ast.ReceiverNone {
		paramNames = append(paramNames, "self")
	}
	for _, p := range decl.AST.Params {
		paramNames = append(paramNames, paramPatternName(p.Pattern))
	}

	fn := g.Module.DefineFunction(symbol, fnType, paramNames)
	entry := fn.AddBlock("entry")
	retBlock := fn.AddBlock("return")

	outer := g.fn
	g.fn = &FunctionContext{
		Decl:          decl,
		Fn:            fn,
		Entry:         entry,
		Return:        retBlock,
		Cur:           entry,
		Locals:        make(map[*semantic.LetDecl]*ir.Register),
		labelCounters: make(map[string]int),
	}
	g.B.SetInsertPoint(fn, entry)

	paramIdx := 0
	if decl.Receiver != ast.ReceiverNone {
		recvTy := fnType.FnParams[0]
		selfSlot, err := g.B.CreateAlloca(recvTy, "self.slot")
		if err != nil {
			return err
		}
		if err := g.B.CreateStore(&ir.Register{Name: "self", Ty: recvTy}, selfSlot); err != nil {
			return err
		}
		g.fn.SelfSlot = selfSlot
		paramIdx = 1
	}

	for i, letDecl := range decl.ParamLets {
		pty := fnType.FnParams[paramIdx+i]
		slot, err := g.B.CreateAlloca(pty, letDecl.Name+".slot")
		if err != nil {
			return err
		}
		argReg := &ir.Register{Name: paramNames[paramIdx+i], Ty: pty}
		if err := g.B.CreateStore(argReg, slot); err != nil {
			return err
		}
		g.fn.Locals[letDecl] = slot
	}

	if decl.IsMain {
		slot, err := g.B.CreateAlloca(ir.I32, "ret.slot")
		if err != nil {
			return err
		}
		g.fn.RetSlot = slot
	} else if decl.RetType.Kind != semantic.KUnit && decl.RetType.Kind != semantic.KNever {
		slot, err := g.B.CreateAlloca(fnType.FnRet, "ret.slot")
		if err != nil {
			return err
		}
		g.fn.RetSlot = slot
	}

	bodyVal, err := g.lowerBlockExpr(decl.AST.Body)
	if err != nil {
		return err
	}
	if err := g.storeAndBranchReturn(bodyVal); err != nil {
		return err
	}

	g.switchTo(retBlock)
	if g.fn.RetSlot != nil {
		loaded, err := g.B.CreateLoad(g.fn.RetSlot, "ret")
		if err != nil {
			return err
		}
		if err := g.B.CreateRet(loaded); err != nil {
			return err
		}
	} else {
		if err := g.B.CreateRet(nil); err != nil {
			return err
		}
	}

	if outer != nil {
		g.B.SetInsertPoint(outer.Fn, outer.Cur)
	}
	g.fn = outer
	return nil
}

func paramPatternName(p ast.Pattern) string {
	if ip, ok := p.(*ast.IdentifierPattern); ok {
		return ip.Name
	}
	return "arg"
}
