// Package parser turns a token stream into the ast package's node tree,
// assigning NodeIDs in the same pre-order the semantic passes rely on.
package parser

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
	"github.com/rustlite/ricc/internal/lexer"
)

// Parser consumes a flat token slice and builds AST nodes through a single
// ast.Assigner, so NodeIDs come out in the order nodes are constructed.
type Parser struct {
	toks []lexer.Token
	pos  int
	a    *ast.Assigner

	// noStruct suppresses struct-literal parsing after an identifier,
	// so that `if x { ... }` parses x as a condition rather than the
	// start of a struct literal. Set while parsing if/while conditions.
	noStruct bool
}

// Parse lexes src and parses it into a top-level item list.
func Parse(src string) ([]ast.Item, error) {
	p := &Parser{toks: lexer.All(src), a: ast.NewAssigner()}
	return p.parseProgram()
}

func (p *Parser) cur() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) peekAt(off int) lexer.TokenType {
	i := p.pos + off
	if i >= len(p.toks) {
		return lexer.EOF
	}
	return p.toks[i].Type
}

func (p *Parser) curIs(t lexer.TokenType) bool { return p.cur().Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peekAt(1) == t }

func (p *Parser) next() {
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
}

func (p *Parser) expect(t lexer.TokenType) error {
	if !p.curIs(t) {
		return compilererr.NewCompileError("expected %s, found %s", t, p.cur().Type)
	}
	p.next()
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	if !p.curIs(lexer.IDENT) {
		return "", compilererr.NewCompileError("expected identifier, found %s", p.cur().Type)
	}
	name := p.cur().Literal
	p.next()
	return name, nil
}

func (p *Parser) parseProgram() ([]ast.Item, error) {
	var items []ast.Item
	for !p.curIs(lexer.EOF) {
		it, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, nil
}

func (p *Parser) parseItem() (ast.Item, error) {
	switch p.cur().Type {
	case lexer.FN:
		return p.parseFnItem()
	case lexer.STRUCT:
		return p.parseStructItem()
	case lexer.ENUM:
		return p.parseEnumItem()
	case lexer.IMPL:
		return p.parseImplItem()
	case lexer.CONST:
		return p.parseConstItem()
	default:
		return nil, compilererr.NewCompileError("expected an item, found %s", p.cur().Type)
	}
}
