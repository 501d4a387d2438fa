package parser

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/lexer"
)

func (p *Parser) parseFnItem() (*ast.FnItem, error) {
	if err := p.expect(lexer.FN); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}

	recv := ast.ReceiverNone
	var params []ast.Param
	first := true
	for !p.curIs(lexer.RPAREN) {
		if first {
			first = false
			r, ok, err := p.tryParseReceiver()
			if err != nil {
				return nil, err
			}
			if ok {
				recv = r
				if p.curIs(lexer.COMMA) {
					p.next()
					continue
				}
				break
			}
		}
		pat, err := p.parsePattern()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Pattern: pat, Type: ty})
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}

	var ret ast.TypeNode
	if p.curIs(lexer.ARROW) {
		p.next()
		ret, err = p.parseType()
		if err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return ast.NewFnItem(p.a, name, recv, params, ret, body), nil
}

// tryParseReceiver recognizes `self`, `&self`, or `&mut self` at the start
// of a parameter list, consuming it if present.
func (p *Parser) tryParseReceiver() (ast.ReceiverKind, bool, error) {
	if p.curIs(lexer.SELF) {
		p.next()
		return ast.ReceiverSelf, true, nil
	}
	if p.curIs(lexer.AMP) {
		if p.peekIs(lexer.SELF) {
			p.next()
			p.next()
			return ast.ReceiverRefSelf, true, nil
		}
		if p.peekIs(lexer.MUT) && p.peekAt(2) == lexer.SELF {
			p.next()
			p.next()
			p.next()
			return ast.ReceiverRefMutSelf, true, nil
		}
	}
	return ast.ReceiverNone, false, nil
}

func (p *Parser) parseStructItem() (*ast.StructItem, error) {
	if err := p.expect(lexer.STRUCT); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var fields []ast.StructField
	for !p.curIs(lexer.RBRACE) {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		ty, err := p.parseType()
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.StructField{Name: fname, Type: ty})
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewStructItem(p.a, name, fields), nil
}

func (p *Parser) parseEnumItem() (*ast.EnumItem, error) {
	if err := p.expect(lexer.ENUM); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var variants []string
	for !p.curIs(lexer.RBRACE) {
		vname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		variants = append(variants, vname)
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewEnumItem(p.a, name, variants), nil
}

func (p *Parser) parseImplItem() (*ast.ImplItem, error) {
	if err := p.expect(lexer.IMPL); err != nil {
		return nil, err
	}
	structName, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	var fns []*ast.FnItem
	var consts []*ast.ConstItem
	for !p.curIs(lexer.RBRACE) {
		switch p.cur().Type {
		case lexer.FN:
			fn, err := p.parseFnItem()
			if err != nil {
				return nil, err
			}
			fns = append(fns, fn)
		case lexer.CONST:
			c, err := p.parseConstItem()
			if err != nil {
				return nil, err
			}
			consts = append(consts, c)
		default:
			return nil, compilererr.NewCompileError("expected fn or const in impl block, found %s", p.cur().Type)
		}
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewImplItem(p.a, structName, fns, consts), nil
}

func (p *Parser) parseConstItem() (*ast.ConstItem, error) {
	if err := p.expect(lexer.CONST); err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.COLON); err != nil {
		return nil, err
	}
	ty, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.ASSIGN); err != nil {
		return nil, err
	}
	val, err := p.parseExpr(Lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return ast.NewConstItem(p.a, name, ty, val), nil
}
