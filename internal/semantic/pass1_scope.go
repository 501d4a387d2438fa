package semantic

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
)

// pass1 builds the scope tree and collects skeleton declarations (name,
// arity, unresolved types) into each scope's namespaces. Let-bindings are
// deliberately not collected here; they are introduced in pass 4.
type pass1 struct {
	tables  *Tables
	stack   []*Scope
}

func runPass1(items []ast.Item, tables *Tables, root *Scope) error {
	p := &pass1{tables: tables, stack: []*Scope{root}}
	for _, it := range items {
		if err := p.item(it); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass1) current() *Scope { return p.stack[len(p.stack)-1] }

func (p *pass1) push(s *Scope) { p.stack = append(p.stack, s) }

func (p *pass1) pop() { p.stack = p.stack[:len(p.stack)-1] }

func (p *pass1) markScope(n ast.Node) {
	p.tables.NodeScope[n.ID()] = p.current()
}

func (p *pass1) declareType(scope *Scope, name string, ref *TypeDeclRef) error {
	if _, exists := scope.TypeNamespace[name]; exists {
		return compilererr.NewCompileError("duplicate type declaration: %s", name)
	}
	scope.TypeNamespace[name] = ref
	return nil
}

func (p *pass1) declareValue(scope *Scope, name string, ref *ValueDeclRef) error {
	if _, exists := scope.ValueNamespace[name]; exists {
		return compilererr.NewCompileError("duplicate declaration: %s", name)
	}
	scope.ValueNamespace[name] = ref
	return nil
}

func (p *pass1) item(it ast.Item) error {
	p.markScope(it)
	switch n := it.(type) {
	case *ast.FnItem:
		return p.fnItem(n)
	case *ast.StructItem:
		return p.structItem(n)
	case *ast.EnumItem:
		return p.enumItem(n)
	case *ast.ImplItem:
		return p.implItem(n)
	case *ast.ConstItem:
		return p.constItem(n)
	}
	return compilererr.NewInternalError("pass1: unknown item kind %T", it)
}

func (p *pass1) fnItem(n *ast.FnItem) error {
	decl := &FnDecl{AST: n, Name: n.Name, Receiver: n.Receiver}
	p.tables.FnItemToDecl[n.ID()] = decl
	if err := p.declareValue(p.current(), n.Name, &ValueDeclRef{Fn: decl}); err != nil {
		return err
	}
	fnScope := NewScope(p.current(), ScopeFunction)
	decl.Scope = fnScope
	p.push(fnScope)
	defer p.pop()

	for _, param := range n.Params {
		if err := p.pattern(param.Pattern); err != nil {
			return err
		}
		if err := p.typeNode(param.Type); err != nil {
			return err
		}
	}
	if n.RetType != nil {
		if err := p.typeNode(n.RetType); err != nil {
			return err
		}
	}
	return p.fnBody(n.Body)
}

// fnBody walks a function's body block without pushing an extra Block
// scope -- the function's own scope already covers it.
func (p *pass1) fnBody(b *ast.BlockExpr) error {
	p.markScope(b)
	for _, s := range b.Stmts {
		if err := p.stmt(s); err != nil {
			return err
		}
	}
	if b.Tail != nil {
		return p.expr(b.Tail)
	}
	return nil
}

func (p *pass1) structItem(n *ast.StructItem) error {
	decl := NewStructDecl(n.Name)
	decl.AST = n
	if err := p.declareType(p.current(), n.Name, &TypeDeclRef{Struct: decl}); err != nil {
		return err
	}
	for _, f := range n.Fields {
		if err := p.typeNode(f.Type); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass1) enumItem(n *ast.EnumItem) error {
	decl := NewEnumDecl(n.Name)
	decl.AST = n
	return p.declareType(p.current(), n.Name, &TypeDeclRef{Enum: decl})
}

func (p *pass1) implItem(n *ast.ImplItem) error {
	implScope := NewScope(p.current(), ScopeImpl)
	implScope.ImplStructName = n.StructName
	p.push(implScope)
	defer p.pop()

	for _, fn := range n.Fns {
		if err := p.item(fn); err != nil {
			return err
		}
	}
	for _, c := range n.Consts {
		if err := p.item(c); err != nil {
			return err
		}
	}
	return nil
}

func (p *pass1) constItem(n *ast.ConstItem) error {
	decl := &ConstDecl{AST: n}
	if err := p.declareValue(p.current(), n.Name, &ValueDeclRef{Const: decl}); err != nil {
		return err
	}
	if err := p.typeNode(n.Type); err != nil {
		return err
	}
	return p.expr(n.Value)
}

func (p *pass1) stmt(s ast.Stmt) error {
	p.markScope(s)
	switch n := s.(type) {
	case *ast.LetStmt:
		if n.Type != nil {
			if err := p.typeNode(n.Type); err != nil {
				return err
			}
		}
		if n.Init != nil {
			return p.expr(n.Init)
		}
		return nil
	case *ast.ExprStmt:
		return p.expr(n.Expr)
	case *ast.ItemStmt:
		return p.item(n.Item)
	}
	return compilererr.NewInternalError("pass1: unknown stmt kind %T", s)
}

func (p *pass1) pattern(pat ast.Pattern) error {
	p.markScope(pat)
	return nil
}

func (p *pass1) typeNode(t ast.TypeNode) error {
	p.markScope(t)
	switch n := t.(type) {
	case *ast.ArrayType:
		if err := p.typeNode(n.Elem); err != nil {
			return err
		}
		return p.expr(n.Size)
	case *ast.PathType, *ast.UnitType, *ast.SelfType:
		return nil
	}
	return compilererr.NewInternalError("pass1: unknown type kind %T", t)
}

func (p *pass1) expr(e ast.Expr) error {
	p.markScope(e)
	switch n := e.(type) {
	case *ast.LiteralExpr, *ast.IdentifierExpr, *ast.SelfExpr, *ast.UnitExpr, *ast.ContinueExpr, *ast.PathExpr:
		return nil
	case *ast.BinaryExpr:
		if err := p.expr(n.Left); err != nil {
			return err
		}
		return p.expr(n.Right)
	case *ast.UnaryExpr:
		return p.expr(n.Operand)
	case *ast.CallExpr:
		if err := p.expr(n.Callee); err != nil {
			return err
		}
		for _, a := range n.Args {
			if err := p.expr(a); err != nil {
				return err
			}
		}
		return nil
	case *ast.FieldExpr:
		return p.expr(n.Base)
	case *ast.StructExpr:
		for _, f := range n.Fields {
			if err := p.expr(f.Value); err != nil {
				return err
			}
		}
		return nil
	case *ast.IndexExpr:
		if err := p.expr(n.Base); err != nil {
			return err
		}
		return p.expr(n.Index)
	case *ast.BlockExpr:
		return p.blockAsNewScope(n)
	case *ast.IfExpr:
		if err := p.expr(n.Cond); err != nil {
			return err
		}
		if err := p.blockAsNewScope(n.Then); err != nil {
			return err
		}
		if n.Else != nil {
			return p.expr(n.Else)
		}
		return nil
	case *ast.WhileExpr:
		if err := p.expr(n.Cond); err != nil {
			return err
		}
		return p.blockAsNewScope(n.Body)
	case *ast.LoopExpr:
		return p.blockAsNewScope(n.Body)
	case *ast.ReturnExpr:
		if n.Value != nil {
			return p.expr(n.Value)
		}
		return nil
	case *ast.BreakExpr:
		if n.Value != nil {
			return p.expr(n.Value)
		}
		return nil
	case *ast.CastExpr:
		if err := p.expr(n.Operand); err != nil {
			return err
		}
		return p.typeNode(n.Target)
	case *ast.ArrayExpr:
		for _, el := range n.Elements {
			if err := p.expr(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.RepeatArrayExpr:
		if err := p.expr(n.Value); err != nil {
			return err
		}
		return p.expr(n.Size)
	}
	return compilererr.NewInternalError("pass1: unknown expr kind %T", e)
}

// blockAsNewScope walks a BlockExpr that is NOT a function body (if/while/
// loop bodies and any other nested block), pushing a fresh Block scope.
func (p *pass1) blockAsNewScope(b *ast.BlockExpr) error {
	blockScope := NewScope(p.current(), ScopeBlock)
	p.push(blockScope)
	defer p.pop()
	for _, s := range b.Stmts {
		if err := p.stmt(s); err != nil {
			return err
		}
	}
	if b.Tail != nil {
		return p.expr(b.Tail)
	}
	return nil
}
