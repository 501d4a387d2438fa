package semantic

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
)

// controlFlow computes node_outcome bottom-up for every node reachable
// from the item list, per spec §4.1.3's composition rules.
type controlFlow struct {
	a         *Analyzer
	loopDepth int
	err       error
}

func (cf *controlFlow) fail(err error) Outcome {
	if cf.err == nil {
		cf.err = err
	}
	return Next
}

func (cf *controlFlow) set(n ast.Node, o Outcome) Outcome {
	cf.a.Tables.NodeOutcome[n.ID()] = o
	return o
}

func (cf *controlFlow) item(it ast.Item) {
	switch n := it.(type) {
	case *ast.FnItem:
		cf.block(n.Body)
	case *ast.ImplItem:
		for _, fn := range n.Fns {
			cf.item(fn)
		}
		for _, c := range n.Consts {
			cf.expr(c.Value)
		}
	case *ast.ConstItem:
		cf.expr(n.Value)
	case *ast.StructItem, *ast.EnumItem:
		// No runtime control flow to analyze.
	}
}

func (cf *controlFlow) stmt(s ast.Stmt) Outcome {
	switch n := s.(type) {
	case *ast.LetStmt:
		o := Outcome(Next)
		if n.Init != nil {
			o = cf.expr(n.Init)
		}
		return cf.set(n, o)
	case *ast.ExprStmt:
		return cf.set(n, cf.expr(n.Expr))
	case *ast.ItemStmt:
		cf.item(n.Item)
		return cf.set(n, Next)
	}
	return cf.fail(compilererr.NewInternalError("control-flow: unknown stmt kind %T", s))
}

func (cf *controlFlow) block(b *ast.BlockExpr) Outcome {
	acc := Outcome(Next)
	for _, s := range b.Stmts {
		acc = Seq(acc, cf.stmt(s))
	}
	if b.Tail != nil {
		tailOutcome := cf.expr(b.Tail)
		acc = Seq(acc, tailOutcome)
	}
	return cf.set(b, acc)
}

func (cf *controlFlow) expr(e ast.Expr) Outcome {
	switch n := e.(type) {
	case *ast.LiteralExpr, *ast.IdentifierExpr, *ast.SelfExpr, *ast.UnitExpr, *ast.PathExpr:
		return cf.set(e, Next)
	case *ast.ContinueExpr:
		if cf.loopDepth == 0 {
			return cf.fail(compilererr.NewCompileError("continue outside a loop"))
		}
		return cf.set(n, Continue)
	case *ast.BinaryExpr:
		o := Seq(cf.expr(n.Left), cf.expr(n.Right))
		return cf.set(n, o)
	case *ast.UnaryExpr:
		return cf.set(n, cf.expr(n.Operand))
	case *ast.CallExpr:
		o := cf.expr(n.Callee)
		for _, a := range n.Args {
			o = Seq(o, cf.expr(a))
		}
		return cf.set(n, Seq(o, Next))
	case *ast.FieldExpr:
		return cf.set(n, cf.expr(n.Base))
	case *ast.StructExpr:
		o := Outcome(Next)
		for _, f := range n.Fields {
			o = Seq(o, cf.expr(f.Value))
		}
		return cf.set(n, o)
	case *ast.IndexExpr:
		return cf.set(n, Seq(cf.expr(n.Base), cf.expr(n.Index)))
	case *ast.BlockExpr:
		return cf.block(n)
	case *ast.IfExpr:
		condO := cf.expr(n.Cond)
		thenO := cf.block(n.Then)
		elseO := Outcome(Next)
		if n.Else != nil {
			elseO = cf.expr(n.Else)
		}
		return cf.set(n, Seq(condO, Union(thenO, elseO)))
	case *ast.WhileExpr:
		condO := cf.expr(n.Cond)
		cf.loopDepth++
		bodyO := cf.block(n.Body)
		cf.loopDepth--
		return cf.set(n, Seq(condO, Union(Next, bodyO.Without(Break|Continue))))
	case *ast.LoopExpr:
		cf.loopDepth++
		bodyO := cf.block(n.Body)
		cf.loopDepth--
		var out Outcome
		if bodyO.Has(Break) {
			out = Union(Next, bodyO.Without(Break|Continue))
		} else {
			out = Diverge
			if bodyO.Has(Return) {
				out = Return
			}
		}
		return cf.set(n, out)
	case *ast.ReturnExpr:
		o := Outcome(Next)
		if n.Value != nil {
			o = cf.expr(n.Value)
		}
		if o.Has(Next) {
			return cf.set(n, Return)
		}
		return cf.set(n, o)
	case *ast.BreakExpr:
		if cf.loopDepth == 0 {
			return cf.fail(compilererr.NewCompileError("break outside a loop"))
		}
		o := Outcome(Next)
		if n.Value != nil {
			o = cf.expr(n.Value)
		}
		if o.Has(Next) {
			return cf.set(n, Break)
		}
		return cf.set(n, o)
	case *ast.CastExpr:
		return cf.set(n, cf.expr(n.Operand))
	case *ast.ArrayExpr:
		o := Outcome(Next)
		for _, el := range n.Elements {
			o = Seq(o, cf.expr(el))
		}
		return cf.set(n, o)
	case *ast.RepeatArrayExpr:
		return cf.set(n, Seq(cf.expr(n.Value), cf.expr(n.Size)))
	}
	return cf.fail(compilererr.NewInternalError("control-flow: unknown expr kind %T", e))
}
