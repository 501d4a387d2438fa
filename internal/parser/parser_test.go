package parser

import (
	"strings"
	"testing"

	"github.com/rustlite/ricc/internal/ast"
)

func mustParse(t *testing.T, src string) []ast.Item {
	t.Helper()
	items, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected parse error for %q: %v", src, err)
	}
	return items
}

func TestParseMinimalMain(t *testing.T) {
	items := mustParse(t, `fn main() { exit(0); }`)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	fn, ok := items[0].(*ast.FnItem)
	if !ok {
		t.Fatalf("expected *ast.FnItem, got %T", items[0])
	}
	if fn.Name != "main" {
		t.Fatalf("expected fn name main, got %s", fn.Name)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body.Stmts))
	}
}

func TestParseLetWithAnnotationAndInit(t *testing.T) {
	items := mustParse(t, `fn main() { let mut x: i32 = 1; exit(0); }`)
	fn := items[0].(*ast.FnItem)
	letStmt, ok := fn.Body.Stmts[0].(*ast.LetStmt)
	if !ok {
		t.Fatalf("expected *ast.LetStmt, got %T", fn.Body.Stmts[0])
	}
	pat, ok := letStmt.Pattern.(*ast.IdentifierPattern)
	if !ok {
		t.Fatalf("expected *ast.IdentifierPattern, got %T", letStmt.Pattern)
	}
	if pat.Name != "x" || !pat.Mut {
		t.Fatalf("expected mut x, got %+v", pat)
	}
	ty, ok := letStmt.Type.(*ast.PathType)
	if !ok || ty.Name != "i32" {
		t.Fatalf("expected i32 type annotation, got %#v", letStmt.Type)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	items := mustParse(t, `fn main() { let x = 1 + 2 * 3; exit(0); }`)
	fn := items[0].(*ast.FnItem)
	letStmt := fn.Body.Stmts[0].(*ast.LetStmt)
	bin, ok := letStmt.Init.(*ast.BinaryExpr)
	if !ok || bin.Op != ast.BAdd {
		t.Fatalf("expected top-level +, got %#v", letStmt.Init)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != ast.BMul {
		t.Fatalf("expected * to bind tighter than +, got %#v", bin.Right)
	}
}

func TestParseAssignmentIsRightAssociative(t *testing.T) {
	items := mustParse(t, `fn main() { let mut x = 0; let mut y = 0; x = y = 1; exit(0); }`)
	fn := items[0].(*ast.FnItem)
	assignStmt := fn.Body.Stmts[2].(*ast.ExprStmt)
	assign, ok := assignStmt.Expr.(*ast.BinaryExpr)
	if !ok || assign.Op != ast.BAssign {
		t.Fatalf("expected top-level assignment, got %#v", assignStmt.Expr)
	}
	if _, ok := assign.Right.(*ast.BinaryExpr); !ok {
		t.Fatalf("expected x = (y = 1), got %#v", assign.Right)
	}
}

func TestParseIfElseAsTailExpression(t *testing.T) {
	items := mustParse(t, `fn choose() -> i32 { if true { 1 } else { 2 } }`)
	fn := items[0].(*ast.FnItem)
	ifExpr, ok := fn.Body.Tail.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected tail to be *ast.IfExpr, got %#v", fn.Body.Tail)
	}
	if ifExpr.Then.Tail == nil {
		t.Fatalf("expected then-branch to have a tail expression")
	}
	if ifExpr.Else == nil {
		t.Fatalf("expected an else branch")
	}
}

func TestParseIfConditionNotConfusedWithStructLiteral(t *testing.T) {
	// Inside an `if` condition, `x` must not be read as the start of a
	// struct literal `x { ... }`.
	items := mustParse(t, `fn main() { let x = true; if x { exit(0); } else { exit(1); } }`)
	fn := items[0].(*ast.FnItem)
	ifExpr, ok := fn.Body.Tail.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected *ast.IfExpr as block tail, got %#v", fn.Body.Tail)
	}
	if _, ok := ifExpr.Cond.(*ast.IdentifierExpr); !ok {
		t.Fatalf("expected condition to be a bare identifier, got %#v", ifExpr.Cond)
	}
}

func TestParseStructLiteralOutsideCondition(t *testing.T) {
	items := mustParse(t, `
struct Point { x: i32, y: i32 }
fn main() {
	let p = Point { x: 1, y: 2 };
	exit(0);
}`)
	fn := items[1].(*ast.FnItem)
	letStmt := fn.Body.Stmts[0].(*ast.LetStmt)
	lit, ok := letStmt.Init.(*ast.StructExpr)
	if !ok || lit.Name != "Point" || len(lit.Fields) != 2 {
		t.Fatalf("expected Point struct literal with 2 fields, got %#v", letStmt.Init)
	}
}

func TestParseWhileLoopAndBreakValue(t *testing.T) {
	items := mustParse(t, `
fn main() {
	let mut x = 0;
	let y = loop {
		x = x + 1;
		if x > 3 {
			break x;
		}
	};
	exit(0);
}`)
	fn := items[0].(*ast.FnItem)
	letStmt := fn.Body.Stmts[1].(*ast.LetStmt)
	loop, ok := letStmt.Init.(*ast.LoopExpr)
	if !ok {
		t.Fatalf("expected *ast.LoopExpr, got %#v", letStmt.Init)
	}
	if len(loop.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in loop body, got %d", len(loop.Body.Stmts))
	}
	if _, ok := loop.Body.Tail.(*ast.IfExpr); !ok {
		t.Fatalf("expected the trailing if to be the loop body's tail, got %#v", loop.Body.Tail)
	}
}

func TestParseArrayLiteralAndRepeat(t *testing.T) {
	items := mustParse(t, `
fn main() {
	let a = [1, 2, 3];
	let b = [0; 5];
	exit(0);
}`)
	fn := items[0].(*ast.FnItem)
	a := fn.Body.Stmts[0].(*ast.LetStmt).Init.(*ast.ArrayExpr)
	if len(a.Elements) != 3 {
		t.Fatalf("expected 3 elements, got %d", len(a.Elements))
	}
	b := fn.Body.Stmts[1].(*ast.LetStmt).Init.(*ast.RepeatArrayExpr)
	if _, ok := b.Size.(*ast.LiteralExpr); !ok {
		t.Fatalf("expected repeat size to be a literal, got %#v", b.Size)
	}
}

func TestParseCastBindsLooserThanUnary(t *testing.T) {
	items := mustParse(t, `fn main() { let x = -1 as i32; exit(0); }`)
	fn := items[0].(*ast.FnItem)
	letStmt := fn.Body.Stmts[0].(*ast.LetStmt)
	cast, ok := letStmt.Init.(*ast.CastExpr)
	if !ok {
		t.Fatalf("expected *ast.CastExpr, got %#v", letStmt.Init)
	}
	if _, ok := cast.Operand.(*ast.UnaryExpr); !ok {
		t.Fatalf("expected (-1) as i32, got %#v", cast.Operand)
	}
}

func TestParseAssociatedCallAndFieldChain(t *testing.T) {
	items := mustParse(t, `
struct Point { x: i32, y: i32 }
impl Point {
	fn origin() -> Point {
		Point { x: 0, y: 0 }
	}
}
fn main() {
	let p = Point::origin();
	let v = p.x;
	exit(0);
}`)
	impl := items[1].(*ast.ImplItem)
	if impl.StructName != "Point" || len(impl.Fns) != 1 {
		t.Fatalf("expected impl Point with 1 fn, got %#v", impl)
	}
	main := items[2].(*ast.FnItem)
	letStmt := main.Body.Stmts[0].(*ast.LetStmt)
	call, ok := letStmt.Init.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected call expr, got %#v", letStmt.Init)
	}
	path, ok := call.Callee.(*ast.PathExpr)
	if !ok || path.BaseName != "Point" || path.Name != "origin" {
		t.Fatalf("expected Point::origin callee, got %#v", call.Callee)
	}
	fieldStmt := main.Body.Stmts[1].(*ast.LetStmt)
	field, ok := fieldStmt.Init.(*ast.FieldExpr)
	if !ok || field.Name != "x" {
		t.Fatalf("expected field access .x, got %#v", fieldStmt.Init)
	}
}

func TestParseReferencePatternsAndTypes(t *testing.T) {
	items := mustParse(t, `fn touch(r: &i32, m: &mut i32) { exit(0); }`)
	fn := items[0].(*ast.FnItem)
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	refTy, ok := fn.Params[0].Type.(*ast.PathType)
	if !ok || refTy.Ref != ast.RefShared {
		t.Fatalf("expected &i32 param type, got %#v", fn.Params[0].Type)
	}
	mutTy, ok := fn.Params[1].Type.(*ast.PathType)
	if !ok || mutTy.Ref != ast.RefMut {
		t.Fatalf("expected &mut i32 param type, got %#v", fn.Params[1].Type)
	}
}

func TestParseMethodReceiverKinds(t *testing.T) {
	items := mustParse(t, `
struct S { v: i32 }
impl S {
	fn by_val(self) { exit(0); }
	fn by_ref(&self) { exit(0); }
	fn by_mut_ref(&mut self) { exit(0); }
}`)
	impl := items[1].(*ast.ImplItem)
	want := []ast.ReceiverKind{ast.ReceiverSelf, ast.ReceiverRefSelf, ast.ReceiverRefMutSelf}
	for i, fn := range impl.Fns {
		if fn.Receiver != want[i] {
			t.Fatalf("fn %s: expected receiver %v, got %v", fn.Name, want[i], fn.Receiver)
		}
	}
}

func TestParseMissingSemicolonIsAnError(t *testing.T) {
	_, err := Parse(`fn main() { let x = 1 exit(0); }`)
	if err == nil {
		t.Fatalf("expected a parse error for a missing semicolon")
	}
	if !strings.Contains(err.Error(), ";") {
		t.Fatalf("expected error to mention the missing ;, got: %v", err)
	}
}

func TestParseEnumAndConstItems(t *testing.T) {
	items := mustParse(t, `
enum Color { Red, Green, Blue }
const MAX: i32 = 100;
fn main() { exit(0); }`)
	enum, ok := items[0].(*ast.EnumItem)
	if !ok || len(enum.Variants) != 3 {
		t.Fatalf("expected 3-variant enum, got %#v", items[0])
	}
	c, ok := items[1].(*ast.ConstItem)
	if !ok || c.Name != "MAX" {
		t.Fatalf("expected const MAX, got %#v", items[1])
	}
}
