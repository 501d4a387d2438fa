package semantic

import (
	"strings"
	"testing"

	"github.com/rustlite/ricc/internal/ast"
)

// These tests build small programs directly through the ast.New* node
// constructors rather than through source text, since they exercise the
// analyzer in isolation from the parser.

func numberLit(a *ast.Assigner, text string) *ast.LiteralExpr {
	return ast.NewLiteralExpr(a, ast.LitNumber, text, ast.NoIntSuffix)
}

func i32Lit(a *ast.Assigner, text string) *ast.LiteralExpr {
	return ast.NewLiteralExpr(a, ast.LitNumber, text, ast.IntSuffixI32)
}

func i32Type(a *ast.Assigner) ast.TypeNode { return ast.NewPathType(a, "i32", ast.RefNone) }

func exitCall(a *ast.Assigner, code string) *ast.ExprStmt {
	call := ast.NewCallExpr(a, ast.NewIdentifierExpr(a, "exit"), []ast.Expr{numberLit(a, code)})
	return ast.NewExprStmt(a, call, true)
}

func mainFn(a *ast.Assigner, stmts []ast.Stmt) *ast.FnItem {
	body := ast.NewBlockExpr(a, stmts, nil)
	return ast.NewFnItem(a, "main", ast.ReceiverNone, nil, nil, body)
}

func analyze(items []ast.Item) error {
	return NewAnalyzer().Analyze(items)
}

func TestAnalyzeMinimalMainWithExit(t *testing.T) {
	a := ast.NewAssigner()
	fn := mainFn(a, []ast.Stmt{exitCall(a, "0")})
	if err := analyze([]ast.Item{fn}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeMainWithoutExitFails(t *testing.T) {
	a := ast.NewAssigner()
	body := ast.NewBlockExpr(a, nil, nil)
	fn := ast.NewFnItem(a, "main", ast.ReceiverNone, nil, nil, body)
	err := analyze([]ast.Item{fn})
	if err == nil || !strings.Contains(err.Error(), "exit") {
		t.Fatalf("expected an exit-related error, got: %v", err)
	}
}

func TestAnalyzeMissingMainFails(t *testing.T) {
	a := ast.NewAssigner()
	fn := ast.NewFnItem(a, "helper", ast.ReceiverNone, nil, nil, ast.NewBlockExpr(a, nil, nil))
	err := analyze([]ast.Item{fn})
	if err == nil || !strings.Contains(err.Error(), "main") {
		t.Fatalf("expected a missing-main error, got: %v", err)
	}
}

func TestAnalyzeDuplicateFnFails(t *testing.T) {
	a := ast.NewAssigner()
	helper1 := ast.NewFnItem(a, "helper", ast.ReceiverNone, nil, nil, ast.NewBlockExpr(a, nil, nil))
	helper2 := ast.NewFnItem(a, "helper", ast.ReceiverNone, nil, nil, ast.NewBlockExpr(a, nil, nil))
	main := mainFn(a, []ast.Stmt{exitCall(a, "0")})
	err := analyze([]ast.Item{helper1, helper2, main})
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected a duplicate declaration error, got: %v", err)
	}
}

func TestAnalyzeUndefinedIdentifierFails(t *testing.T) {
	a := ast.NewAssigner()
	stmt := ast.NewExprStmt(a, ast.NewIdentifierExpr(a, "missing"), true)
	main := mainFn(a, []ast.Stmt{stmt, exitCall(a, "0")})
	err := analyze([]ast.Item{main})
	if err == nil || !strings.Contains(err.Error(), "undefined") {
		t.Fatalf("expected an undefined-name error, got: %v", err)
	}
}

func TestAnalyzeLetWithMismatchedAnnotationFails(t *testing.T) {
	a := ast.NewAssigner()
	pat := ast.NewIdentifierPattern(a, "x", false, ast.RefNone)
	boolType := ast.NewPathType(a, "bool", ast.RefNone)
	letStmt := ast.NewLetStmt(a, pat, boolType, numberLit(a, "1"))
	main := mainFn(a, []ast.Stmt{letStmt, exitCall(a, "0")})
	err := analyze([]ast.Item{main})
	if err == nil {
		t.Fatalf("expected a type mismatch error for let x: bool = 1")
	}
}

func TestAnalyzeLetWithInferredTypeSucceeds(t *testing.T) {
	a := ast.NewAssigner()
	pat := ast.NewIdentifierPattern(a, "x", true, ast.RefNone)
	letStmt := ast.NewLetStmt(a, pat, nil, i32Lit(a, "1"))
	ident := ast.NewIdentifierExpr(a, "x")
	assign := ast.NewBinaryExpr(a, ast.BAssign, ident, numberLit(a, "2"))
	assignStmt := ast.NewExprStmt(a, assign, true)
	main := mainFn(a, []ast.Stmt{letStmt, assignStmt, exitCall(a, "0")})
	if err := analyze([]ast.Item{main}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeAssignToImmutableFails(t *testing.T) {
	a := ast.NewAssigner()
	pat := ast.NewIdentifierPattern(a, "x", false, ast.RefNone)
	letStmt := ast.NewLetStmt(a, pat, nil, i32Lit(a, "1"))
	ident := ast.NewIdentifierExpr(a, "x")
	assign := ast.NewBinaryExpr(a, ast.BAssign, ident, numberLit(a, "2"))
	assignStmt := ast.NewExprStmt(a, assign, true)
	main := mainFn(a, []ast.Stmt{letStmt, assignStmt, exitCall(a, "0")})
	err := analyze([]ast.Item{main})
	if err == nil || !strings.Contains(err.Error(), "mutable") {
		t.Fatalf("expected a mutability error, got: %v", err)
	}
}

func TestAnalyzeStructFieldAccess(t *testing.T) {
	a := ast.NewAssigner()
	point := ast.NewStructItem(a, "Point", []ast.StructField{
		{Name: "x", Type: i32Type(a)},
		{Name: "y", Type: i32Type(a)},
	})
	lit := ast.NewStructExpr(a, "Point", []ast.StructFieldInit{
		{Name: "x", Value: numberLit(a, "1")},
		{Name: "y", Value: numberLit(a, "2")},
	})
	pat := ast.NewIdentifierPattern(a, "p", false, ast.RefNone)
	letStmt := ast.NewLetStmt(a, pat, nil, lit)
	field := ast.NewFieldExpr(a, ast.NewIdentifierExpr(a, "p"), "x")
	useStmt := ast.NewExprStmt(a, field, true)
	main := mainFn(a, []ast.Stmt{letStmt, useStmt, exitCall(a, "0")})
	if err := analyze([]ast.Item{point, main}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeStructMissingFieldFails(t *testing.T) {
	a := ast.NewAssigner()
	point := ast.NewStructItem(a, "Point", []ast.StructField{
		{Name: "x", Type: i32Type(a)},
		{Name: "y", Type: i32Type(a)},
	})
	lit := ast.NewStructExpr(a, "Point", []ast.StructFieldInit{
		{Name: "x", Value: numberLit(a, "1")},
	})
	pat := ast.NewIdentifierPattern(a, "p", false, ast.RefNone)
	letStmt := ast.NewLetStmt(a, pat, nil, lit)
	main := mainFn(a, []ast.Stmt{letStmt, exitCall(a, "0")})
	err := analyze([]ast.Item{point, main})
	if err == nil || !strings.Contains(err.Error(), "missing field") {
		t.Fatalf("expected a missing field error, got: %v", err)
	}
}

func TestAnalyzeBreakOutsideLoopFails(t *testing.T) {
	a := ast.NewAssigner()
	brk := ast.NewExprStmt(a, ast.NewBreakExpr(a, nil), true)
	main := mainFn(a, []ast.Stmt{brk, exitCall(a, "0")})
	err := analyze([]ast.Item{main})
	if err == nil || !strings.Contains(err.Error(), "break") {
		t.Fatalf("expected a break-outside-loop error, got: %v", err)
	}
}

func TestAnalyzeLoopWithBreakValue(t *testing.T) {
	a := ast.NewAssigner()
	brk := ast.NewBreakExpr(a, i32Lit(a, "5"))
	loopBody := ast.NewBlockExpr(a, nil, brk)
	loop := ast.NewLoopExpr(a, loopBody)
	pat := ast.NewIdentifierPattern(a, "x", false, ast.RefNone)
	letStmt := ast.NewLetStmt(a, pat, i32Type(a), loop)
	main := mainFn(a, []ast.Stmt{letStmt, exitCall(a, "0")})
	if err := analyze([]ast.Item{main}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeExitOutsideMainFails(t *testing.T) {
	a := ast.NewAssigner()
	helperBody := ast.NewBlockExpr(a, []ast.Stmt{exitCall(a, "0")}, nil)
	helper := ast.NewFnItem(a, "helper", ast.ReceiverNone, nil, nil, helperBody)
	mainBody := ast.NewBlockExpr(a, []ast.Stmt{
		ast.NewExprStmt(a, ast.NewCallExpr(a, ast.NewIdentifierExpr(a, "helper"), nil), true),
	}, nil)
	main := ast.NewFnItem(a, "main", ast.ReceiverNone, nil, nil, mainBody)
	err := analyze([]ast.Item{helper, main})
	if err == nil || !strings.Contains(err.Error(), "exit") {
		t.Fatalf("expected an exit-outside-main error, got: %v", err)
	}
}
