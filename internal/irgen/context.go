// Package irgen walks the typed AST (plus the semantic analyzer's side
// tables) and fills in an IR module: a global pre-lowering pass followed
// by per-function body generation.
package irgen

import (
	"fmt"

	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
	"github.com/rustlite/ricc/internal/typelowering"
)

// LoopContext tracks the blocks a break/continue inside the current loop
// should target, plus an optional slot for the loop's break value.
type LoopContext struct {
	ContinueTarget string
	BreakTarget    string
	BreakSlot      *ir.Register
}

// FunctionContext carries everything generation needs while lowering one
// function body.
type FunctionContext struct {
	Decl   *semantic.FnDecl
	Fn     *ir.Function
	Entry  *ir.BasicBlock
	Return *ir.BasicBlock

	Cur    *ir.BasicBlock
	Sealed bool // a terminator has already been emitted on Cur by this generator

	RetSlot  *ir.Register
	SelfSlot *ir.Register

	Locals map[*semantic.LetDecl]*ir.Register

	Loops []*LoopContext

	labelCounters map[string]int
}

func (fc *FunctionContext) pushLoop(lc *LoopContext) { fc.Loops = append(fc.Loops, lc) }
func (fc *FunctionContext) popLoop()                 { fc.Loops = fc.Loops[:len(fc.Loops)-1] }
func (fc *FunctionContext) topLoop() *LoopContext {
	if len(fc.Loops) == 0 {
		return nil
	}
	return fc.Loops[len(fc.Loops)-1]
}

// freshLabel produces a block name unique within the function via a
// per-base-name counter, e.g. then.0, then.1.
func (fc *FunctionContext) freshLabel(base string) string {
	n := fc.labelCounters[base]
	fc.labelCounters[base] = n + 1
	return fmt.Sprintf("%s.%d", base, n)
}

// Generator lowers a fully-analyzed program into an ir.Module.
type Generator struct {
	Module *ir.Module
	B      *ir.Builder
	TL     *typelowering.TypeLowering
	Tables *semantic.Tables

	fn *FunctionContext

	exprValue   map[ast.NodeID]ir.Value
	exprAddress map[ast.NodeID]ir.Value

	fnSymbol     map[*semantic.FnDecl]string
	constGlobal  map[*semantic.ConstDecl]*ir.Global
	runtimeDecls map[string]*ir.Function
}

// New returns a Generator over an empty module with the built-in string
// record layouts pre-registered.
func New() (*Generator, error) {
	m := ir.NewModule()
	tl := typelowering.New(m)
	if err := tl.DeclareBuiltinStringTypes(); err != nil {
		return nil, err
	}
	g := &Generator{
		Module:       m,
		B:            ir.NewBuilder(m),
		TL:           tl,
		exprValue:    make(map[ast.NodeID]ir.Value),
		exprAddress:  make(map[ast.NodeID]ir.Value),
		fnSymbol:     make(map[*semantic.FnDecl]string),
		constGlobal:  make(map[*semantic.ConstDecl]*ir.Global),
		runtimeDecls: make(map[string]*ir.Function),
	}
	return g, nil
}

// Generate runs the global lowering driver over tables' scope tree, then
// lowers every non-builtin function's body, leaving g.Module fully
// populated.
func (g *Generator) Generate(items []ast.Item, tables *semantic.Tables) error {
	g.Tables = tables

	drv := &globalDriver{g: g}
	if err := drv.run(tables.RootScope); err != nil {
		return err
	}

	return g.lowerItems(items)
}

func (g *Generator) lowerItems(items []ast.Item) error {
	for _, it := range items {
		if err := g.lowerItem(it); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) lowerItem(it ast.Item) error {
	switch n := it.(type) {
	case *ast.FnItem:
		decl := g.Tables.FnItemToDecl[n.ID()]
		return g.lowerFunction(decl)
	case *ast.ImplItem:
		for _, fn := range n.Fns {
			if err := g.lowerItem(fn); err != nil {
				return err
			}
		}
		return nil
	case *ast.StructItem, *ast.EnumItem, *ast.ConstItem:
		return nil
	default:
		return compilererr.NewInternalError("irgen: unknown item kind %T", it)
	}
}

func (g *Generator) typeAndPlace(e ast.Expr) semantic.TypeAndPlace {
	return g.Tables.NodeTypeAndPlace[e.ID()]
}

func (g *Generator) realType(e ast.Expr) *semantic.RealType {
	return g.typeAndPlace(e).Type
}

func (g *Generator) outcome(n ast.Node) semantic.Outcome {
	return g.Tables.NodeOutcome[n.ID()]
}
