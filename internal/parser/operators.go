package parser

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/lexer"
)

// Precedence levels, lowest to highest. Call/Index/Member chaining is
// handled directly inside parseExpr's postfix loop rather than through
// the infix-precedence table, since it always binds tighter than Cast.
const (
	Lowest = iota
	Assign
	LogicOr
	LogicAnd
	BitOr
	BitXor
	BitAnd
	Equals
	Compare
	Shift
	Sum
	Product
	Cast
	Prefix
)

var precedences = map[lexer.TokenType]int{
	lexer.ASSIGN:    Assign,
	lexer.PLUSEQ:    Assign,
	lexer.MINUSEQ:   Assign,
	lexer.STAREQ:    Assign,
	lexer.SLASHEQ:   Assign,
	lexer.PERCENTEQ: Assign,
	lexer.AMPEQ:     Assign,
	lexer.PIPEEQ:    Assign,
	lexer.CARETEQ:   Assign,
	lexer.SHLEQ:     Assign,
	lexer.SHREQ:     Assign,

	lexer.OROR:   LogicOr,
	lexer.ANDAND: LogicAnd,

	lexer.PIPE:  BitOr,
	lexer.CARET: BitXor,
	lexer.AMP:   BitAnd,

	lexer.EQ: Equals,
	lexer.NE: Equals,

	lexer.LT: Compare,
	lexer.LE: Compare,
	lexer.GT: Compare,
	lexer.GE: Compare,

	lexer.SHL: Shift,
	lexer.SHR: Shift,

	lexer.PLUS:  Sum,
	lexer.MINUS: Sum,

	lexer.STAR:    Product,
	lexer.SLASH:   Product,
	lexer.PERCENT: Product,

	lexer.AS: Cast,
}

// assignOps is right-associative; every other binary operator is left.
var assignOps = map[lexer.TokenType]bool{
	lexer.ASSIGN: true, lexer.PLUSEQ: true, lexer.MINUSEQ: true,
	lexer.STAREQ: true, lexer.SLASHEQ: true, lexer.PERCENTEQ: true,
	lexer.AMPEQ: true, lexer.PIPEEQ: true, lexer.CARETEQ: true,
	lexer.SHLEQ: true, lexer.SHREQ: true,
}

var binaryOps = map[lexer.TokenType]ast.BinaryOp{
	lexer.PLUS:  ast.BAdd,
	lexer.MINUS: ast.BSub,
	lexer.STAR:  ast.BMul,
	lexer.SLASH: ast.BDiv,
	lexer.PERCENT: ast.BRem,
	lexer.AMP:  ast.BAnd,
	lexer.PIPE: ast.BOr,
	lexer.CARET: ast.BXor,
	lexer.SHL: ast.BShl,
	lexer.SHR: ast.BShr,
	lexer.EQ: ast.BEq,
	lexer.NE: ast.BNe,
	lexer.LT: ast.BLt,
	lexer.LE: ast.BLe,
	lexer.GT: ast.BGt,
	lexer.GE: ast.BGe,
	lexer.ANDAND: ast.BAndAnd,
	lexer.OROR: ast.BOrOr,
	lexer.ASSIGN: ast.BAssign,
	lexer.PLUSEQ: ast.BAddAssign,
	lexer.MINUSEQ: ast.BSubAssign,
	lexer.STAREQ: ast.BMulAssign,
	lexer.SLASHEQ: ast.BDivAssign,
	lexer.PERCENTEQ: ast.BRemAssign,
	lexer.AMPEQ: ast.BAndAssign,
	lexer.PIPEEQ: ast.BOrAssign,
	lexer.CARETEQ: ast.BXorAssign,
	lexer.SHLEQ: ast.BShlAssign,
	lexer.SHREQ: ast.BShrAssign,
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.cur().Type]; ok {
		return prec
	}
	return Lowest
}
