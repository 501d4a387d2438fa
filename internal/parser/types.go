package parser

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/lexer"
)

func (p *Parser) parseRef() ast.RefKind {
	if p.curIs(lexer.AMP) {
		p.next()
		if p.curIs(lexer.MUT) {
			p.next()
			return ast.RefMut
		}
		return ast.RefShared
	}
	return ast.RefNone
}

func (p *Parser) parseType() (ast.TypeNode, error) {
	ref := p.parseRef()

	switch p.cur().Type {
	case lexer.SELF:
		p.next()
		if ref != ast.RefNone {
			return nil, compilererr.NewCompileError("Self type may not be referenced")
		}
		return ast.NewSelfType(p.a), nil
	case lexer.LPAREN:
		p.next()
		if err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		if ref != ast.RefNone {
			return nil, compilererr.NewCompileError("() type may not be referenced")
		}
		return ast.NewUnitType(p.a), nil
	case lexer.LBRACKET:
		p.next()
		elem, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.SEMI); err != nil {
			return nil, err
		}
		size, err := p.parseExpr(Lowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		return ast.NewArrayType(p.a, elem, size, ref), nil
	case lexer.IDENT:
		name, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return ast.NewPathType(p.a, name, ref), nil
	default:
		return nil, compilererr.NewCompileError("expected a type, found %s", p.cur().Type)
	}
}

func (p *Parser) parsePattern() (ast.Pattern, error) {
	ref := ast.RefNone
	if p.curIs(lexer.AMP) {
		p.next()
		if p.curIs(lexer.MUT) {
			p.next()
			ref = ast.RefMut
		} else {
			ref = ast.RefShared
		}
	}
	mut := false
	if p.curIs(lexer.MUT) {
		p.next()
		mut = true
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	return ast.NewIdentifierPattern(p.a, name, mut, ref), nil
}
