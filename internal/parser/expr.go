package parser

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/lexer"
)

func (p *Parser) parseExpr(minPrec int) (ast.Expr, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	left, err = p.parsePostfixChain(left)
	if err != nil {
		return nil, err
	}

	for {
		tt := p.cur().Type
		curPrec, ok := precedences[tt]
		if !ok || curPrec <= minPrec {
			break
		}

		if tt == lexer.AS {
			p.next()
			target, err := p.parseType()
			if err != nil {
				return nil, err
			}
			left = ast.NewCastExpr(p.a, left, target)
			left, err = p.parsePostfixChain(left)
			if err != nil {
				return nil, err
			}
			continue
		}

		op := binaryOps[tt]
		p.next()
		nextMin := curPrec
		if assignOps[tt] {
			nextMin = curPrec - 1
		}
		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}
		left = ast.NewBinaryExpr(p.a, op, left, right)
	}
	return left, nil
}

func (p *Parser) parsePostfixChain(left ast.Expr) (ast.Expr, error) {
	for {
		switch p.cur().Type {
		case lexer.LPAREN:
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			left = ast.NewCallExpr(p.a, left, args)
		case lexer.LBRACKET:
			p.next()
			idx, err := p.parseExpr(Lowest)
			if err != nil {
				return nil, err
			}
			if err := p.expect(lexer.RBRACKET); err != nil {
				return nil, err
			}
			left = ast.NewIndexExpr(p.a, left, idx)
		case lexer.DOT:
			p.next()
			name, err := p.expectIdent()
			if err != nil {
				return nil, err
			}
			left = ast.NewFieldExpr(p.a, left, name)
		default:
			return left, nil
		}
	}
}

func (p *Parser) parseCallArgs() ([]ast.Expr, error) {
	p.next() // consume (
	var args []ast.Expr
	for !p.curIs(lexer.RPAREN) {
		arg, err := p.parseExpr(Lowest)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrefix() (ast.Expr, error) {
	switch p.cur().Type {
	case lexer.INT:
		return p.parseIntLiteral()
	case lexer.STRING:
		tok := p.cur()
		p.next()
		return ast.NewLiteralExpr(p.a, ast.LitString, tok.Literal, ast.NoIntSuffix), nil
	case lexer.CHAR:
		tok := p.cur()
		p.next()
		return ast.NewLiteralExpr(p.a, ast.LitChar, tok.Literal, ast.NoIntSuffix), nil
	case lexer.TRUE:
		p.next()
		return ast.NewLiteralExpr(p.a, ast.LitBool, "true", ast.NoIntSuffix), nil
	case lexer.FALSE:
		p.next()
		return ast.NewLiteralExpr(p.a, ast.LitBool, "false", ast.NoIntSuffix), nil
	case lexer.SELF:
		p.next()
		return ast.NewSelfExpr(p.a), nil
	case lexer.IDENT:
		return p.parseIdentifierLike()
	case lexer.LPAREN:
		return p.parseParenOrUnit()
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseBlock()
	case lexer.MINUS:
		p.next()
		operand, err := p.parseExpr(Prefix)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(p.a, ast.UNeg, operand), nil
	case lexer.NOT:
		p.next()
		operand, err := p.parseExpr(Prefix)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(p.a, ast.UNot, operand), nil
	case lexer.STAR:
		p.next()
		operand, err := p.parseExpr(Prefix)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(p.a, ast.UDeref, operand), nil
	case lexer.AMP:
		p.next()
		if p.curIs(lexer.MUT) {
			p.next()
			operand, err := p.parseExpr(Prefix)
			if err != nil {
				return nil, err
			}
			return ast.NewUnaryExpr(p.a, ast.URefMut, operand), nil
		}
		operand, err := p.parseExpr(Prefix)
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpr(p.a, ast.URef, operand), nil
	case lexer.IF:
		return p.parseIfExpr()
	case lexer.WHILE:
		return p.parseWhileExpr()
	case lexer.LOOP:
		return p.parseLoopExpr()
	case lexer.RETURN:
		return p.parseReturnExpr()
	case lexer.BREAK:
		return p.parseBreakExpr()
	case lexer.CONTINUE:
		p.next()
		return ast.NewContinueExpr(p.a), nil
	default:
		return nil, compilererr.NewCompileError("unexpected token %s in expression", p.cur().Type)
	}
}

func (p *Parser) parseIdentifierLike() (ast.Expr, error) {
	name := p.cur().Literal
	p.next()
	if p.curIs(lexer.COLONCOLON) {
		p.next()
		member, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		return ast.NewPathExpr(p.a, name, member), nil
	}
	if p.curIs(lexer.LBRACE) && !p.noStruct {
		return p.parseStructLiteral(name)
	}
	return ast.NewIdentifierExpr(p.a, name), nil
}

func (p *Parser) parseParenOrUnit() (ast.Expr, error) {
	p.next()
	if p.curIs(lexer.RPAREN) {
		p.next()
		return ast.NewUnitExpr(p.a), nil
	}
	inner, err := p.parseExpr(Lowest)
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expr, error) {
	p.next()
	if p.curIs(lexer.RBRACKET) {
		p.next()
		return ast.NewArrayExpr(p.a, nil), nil
	}
	first, err := p.parseExpr(Lowest)
	if err != nil {
		return nil, err
	}
	if p.curIs(lexer.SEMI) {
		p.next()
		size, err := p.parseExpr(Lowest)
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RBRACKET); err != nil {
			return nil, err
		}
		return ast.NewRepeatArrayExpr(p.a, first, size), nil
	}
	elems := []ast.Expr{first}
	for p.curIs(lexer.COMMA) {
		p.next()
		if p.curIs(lexer.RBRACKET) {
			break
		}
		el, err := p.parseExpr(Lowest)
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
	}
	if err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return ast.NewArrayExpr(p.a, elems), nil
}

func (p *Parser) parseStructLiteral(name string) (ast.Expr, error) {
	p.next()
	var fields []ast.StructFieldInit
	for !p.curIs(lexer.RBRACE) {
		fname, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		if err := p.expect(lexer.COLON); err != nil {
			return nil, err
		}
		val, err := p.parseExpr(Lowest)
		if err != nil {
			return nil, err
		}
		fields = append(fields, ast.StructFieldInit{Name: fname, Value: val})
		if p.curIs(lexer.COMMA) {
			p.next()
			continue
		}
		break
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return ast.NewStructExpr(p.a, name, fields), nil
}

func suffixFromLexer(s lexer.IntSuffix) ast.IntLitSuffix {
	switch s {
	case lexer.SuffixI32:
		return ast.IntSuffixI32
	case lexer.SuffixU32:
		return ast.IntSuffixU32
	case lexer.SuffixIsize:
		return ast.IntSuffixIsize
	case lexer.SuffixUsize:
		return ast.IntSuffixUsize
	default:
		return ast.NoIntSuffix
	}
}

func (p *Parser) parseIntLiteral() (ast.Expr, error) {
	tok := p.cur()
	p.next()
	return ast.NewLiteralExpr(p.a, ast.LitNumber, tok.Literal, suffixFromLexer(tok.Suffix)), nil
}
