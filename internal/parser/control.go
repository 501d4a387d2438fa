package parser

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/lexer"
)

// parseIfExpr and parseWhileExpr suppress struct-literal parsing while
// parsing their condition, so `if x { ... }` reads x as a condition and
// not the start of a `x { ... }` struct literal.
func (p *Parser) parseIfExpr() (ast.Expr, error) {
	p.next()
	prev := p.noStruct
	p.noStruct = true
	cond, err := p.parseExpr(Lowest)
	p.noStruct = prev
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	var elseExpr ast.Expr
	if p.curIs(lexer.ELSE) {
		p.next()
		if p.curIs(lexer.IF) {
			elseExpr, err = p.parseIfExpr()
		} else {
			elseExpr, err = p.parseBlock()
		}
		if err != nil {
			return nil, err
		}
	}
	return ast.NewIfExpr(p.a, cond, then, elseExpr), nil
}

func (p *Parser) parseWhileExpr() (ast.Expr, error) {
	p.next()
	prev := p.noStruct
	p.noStruct = true
	cond, err := p.parseExpr(Lowest)
	p.noStruct = prev
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileExpr(p.a, cond, body), nil
}

func (p *Parser) parseLoopExpr() (ast.Expr, error) {
	p.next()
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewLoopExpr(p.a, body), nil
}

// endsExprStmt reports whether the current token could not start a value
// expression, meaning a bare `return`/`break` here carries no value.
func (p *Parser) endsExprStmt() bool {
	return p.curIs(lexer.SEMI) || p.curIs(lexer.RBRACE)
}

func (p *Parser) parseReturnExpr() (ast.Expr, error) {
	p.next()
	if p.endsExprStmt() {
		return ast.NewReturnExpr(p.a, nil), nil
	}
	val, err := p.parseExpr(Lowest)
	if err != nil {
		return nil, err
	}
	return ast.NewReturnExpr(p.a, val), nil
}

func (p *Parser) parseBreakExpr() (ast.Expr, error) {
	p.next()
	if p.endsExprStmt() {
		return ast.NewBreakExpr(p.a, nil), nil
	}
	val, err := p.parseExpr(Lowest)
	if err != nil {
		return nil, err
	}
	return ast.NewBreakExpr(p.a, val), nil
}
