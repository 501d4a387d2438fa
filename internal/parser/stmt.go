package parser

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/lexer"
)

func isBlockLike(e ast.Expr) bool {
	switch e.(type) {
	case *ast.BlockExpr, *ast.IfExpr, *ast.WhileExpr, *ast.LoopExpr:
		return true
	default:
		return false
	}
}

// parseBlock implements Rust's statement/tail-expression rule: a
// block-like expression (if/while/loop/block) not followed by `;` or `}`
// is itself a complete statement, no trailing semicolon required.
func (p *Parser) parseBlock() (*ast.BlockExpr, error) {
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	var tail ast.Expr
	for !p.curIs(lexer.RBRACE) {
		switch p.cur().Type {
		case lexer.LET:
			st, err := p.parseLetStmt()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, st)
			continue
		case lexer.FN, lexer.STRUCT, lexer.ENUM, lexer.IMPL, lexer.CONST:
			it, err := p.parseItem()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, ast.NewItemStmt(p.a, it))
			continue
		}

		e, err := p.parseExpr(Lowest)
		if err != nil {
			return nil, err
		}
		switch {
		case p.curIs(lexer.SEMI):
			p.next()
			stmts = append(stmts, ast.NewExprStmt(p.a, e, true))
		case p.curIs(lexer.RBRACE):
			tail = e
		case isBlockLike(e):
			stmts = append(stmts, ast.NewExprStmt(p.a, e, false))
		default:
			return nil, compilererr.NewCompileError("expected ; after expression")
		}
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewBlockExpr(p.a, stmts, tail), nil
}

func (p *Parser) parseLetStmt() (*ast.LetStmt, error) {
	p.next()
	pat, err := p.parsePattern()
	if err != nil {
		return nil, err
	}
	var ty ast.TypeNode
	if p.curIs(lexer.COLON) {
		p.next()
		ty, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}
	var init ast.Expr
	if p.curIs(lexer.ASSIGN) {
		p.next()
		init, err = p.parseExpr(Lowest)
		if err != nil {
			return nil, err
		}
	}
	if err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return ast.NewLetStmt(p.a, pat, ty, init), nil
}
