package irgen

import (
	"strings"
	"testing"

	"github.com/rustlite/ricc/internal/parser"
	"github.com/rustlite/ricc/internal/semantic"
)

// generate runs the full front-end over src and returns the rendered
// module text, failing the test on any parse, analysis, or generation
// error.
func generate(t *testing.T, src string) string {
	t.Helper()
	items, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	a := semantic.NewAnalyzer()
	if err := a.Analyze(items); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	g, err := New()
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	if err := g.Generate(items, a.Tables); err != nil {
		t.Fatalf("generate: %v", err)
	}
	return g.Module.String()
}

func TestGenerateMinimalMain(t *testing.T) {
	out := generate(t, `fn main() { exit(0); }`)
	if !strings.Contains(out, "define i32 @main()") {
		t.Fatalf("expected a defined main, got:\n%s", out)
	}
	if !strings.Contains(out, "store i32 0, ptr %ret.slot") {
		t.Fatalf("expected exit(0) to store 0 into main's return slot, got:\n%s", out)
	}
}

func TestGenerateLetAndArithmetic(t *testing.T) {
	out := generate(t, `fn main() { let mut x: i32 = 1 + 2 * 3; x = x + 1; exit(x); }`)
	if !strings.Contains(out, "mul") || !strings.Contains(out, "add") {
		t.Fatalf("expected mul and add instructions, got:\n%s", out)
	}
}

func TestGenerateFunctionCall(t *testing.T) {
	out := generate(t, `
fn double(n: i32) -> i32 { n * 2 }
fn main() { let x = double(21); exit(x); }`)
	if !strings.Contains(out, "define i32 @double(i32 %n)") {
		t.Fatalf("expected double to be defined, got:\n%s", out)
	}
	if !strings.Contains(out, "call i32 @double(i32") {
		t.Fatalf("expected a call to double, got:\n%s", out)
	}
}

func TestGenerateStructFieldReadAndWrite(t *testing.T) {
	out := generate(t, `
struct Point { x: i32, y: i32 }
fn main() {
	let mut p = Point { x: 1, y: 2 };
	p.x = p.x + p.y;
	exit(p.x);
}`)
	if !strings.Contains(out, "%Point = type { i32, i32 }") {
		t.Fatalf("expected Point struct definition, got:\n%s", out)
	}
	if !strings.Contains(out, "getelementptr") {
		t.Fatalf("expected field access to lower to a GEP, got:\n%s", out)
	}
}

func TestGenerateMethodCallWithRefSelf(t *testing.T) {
	out := generate(t, `
struct Counter { n: i32 }
impl Counter {
	fn bump(&mut self) {
		self.n = self.n + 1;
	}
}
fn main() {
	let mut c = Counter { n: 0 };
	c.bump();
	exit(c.n);
}`)
	if !strings.Contains(out, "define void @bump.0(ptr %self)") {
		t.Fatalf("expected bump to take self by pointer, got:\n%s", out)
	}
	if !strings.Contains(out, "call void @bump.0(ptr") {
		t.Fatalf("expected the call site to pass a pointer, got:\n%s", out)
	}
}

func TestGenerateMethodCallWithValueSelf(t *testing.T) {
	out := generate(t, `
struct Point { x: i32, y: i32 }
impl Point {
	fn sum(self) -> i32 { self.x + self.y }
}
fn main() {
	let p = Point { x: 1, y: 2 };
	exit(p.sum());
}`)
	if !strings.Contains(out, "define i32 @sum.0(%Point %self)") {
		t.Fatalf("expected sum to take self by value, got:\n%s", out)
	}
	if !strings.Contains(out, "call i32 @sum.0(%Point") {
		t.Fatalf("expected the call site to pass the struct by value, got:\n%s", out)
	}
}

func TestGenerateIfElseProducesAValue(t *testing.T) {
	out := generate(t, `
fn choose(flag: i32) -> i32 {
	if flag > 0 { 1 } else { 2 }
}
fn main() {
	exit(choose(1));
}`)
	if !strings.Contains(out, "icmp sgt i32") {
		t.Fatalf("expected a signed comparison, got:\n%s", out)
	}
	if !strings.Contains(out, "br i1") {
		t.Fatalf("expected a conditional branch, got:\n%s", out)
	}
}

func TestGenerateLoopWithBreakValue(t *testing.T) {
	out := generate(t, `
fn main() {
	let mut x = 0;
	let y = loop {
		x = x + 1;
		if x > 3 {
			break x;
		}
	};
	exit(y);
}`)
	if !strings.Contains(out, "br label") {
		t.Fatalf("expected an unconditional branch back to the loop body, got:\n%s", out)
	}
}

func TestGenerateWhileLoop(t *testing.T) {
	out := generate(t, `
fn main() {
	let mut x = 0;
	while x < 5 {
		x = x + 1;
	}
	exit(x);
}`)
	if !strings.Contains(out, "icmp slt i32") {
		t.Fatalf("expected a less-than comparison driving the while condition, got:\n%s", out)
	}
}

func TestGenerateArrayIndexAndLen(t *testing.T) {
	out := generate(t, `
fn main() {
	let a = [10, 20, 30];
	let n = a.len();
	exit(a[1] + n);
}`)
	if !strings.Contains(out, "[3 x i32]") {
		t.Fatalf("expected a 3-element array type, got:\n%s", out)
	}
	if strings.Contains(out, "call i32 @len") {
		t.Fatalf("len() must fold to a constant, not a runtime call, got:\n%s", out)
	}
}

func TestGenerateArrayRepeat(t *testing.T) {
	out := generate(t, `
fn main() {
	let a = [0; 4];
	exit(a[0]);
}`)
	if !strings.Contains(out, "[4 x i32]") {
		t.Fatalf("expected a 4-element array type, got:\n%s", out)
	}
}

func TestGenerateLogicalShortCircuit(t *testing.T) {
	out := generate(t, `
fn main() {
	let a = true;
	let b = false;
	let c = a && b;
	if c { exit(1); } else { exit(0); }
}`)
	if !strings.Contains(out, "rhs") {
		t.Fatalf("expected a short-circuit rhs block, got:\n%s", out)
	}
}

func TestGenerateNestedFunctionItem(t *testing.T) {
	out := generate(t, `
fn main() {
	fn helper() -> i32 { 7 }
	exit(helper());
}`)
	if !strings.Contains(out, "call i32 @helper") {
		t.Fatalf("expected a call to the nested helper, got:\n%s", out)
	}
	if !strings.Contains(out, "define i32 @main()") {
		t.Fatalf("expected main to still be fully defined after lowering a nested fn, got:\n%s", out)
	}
}

func TestGenerateArrayConstGlobalizesAsArrayLiteral(t *testing.T) {
	out := generate(t, `
const TABLE: [i32; 3] = [1, 2, 3];
fn main() {
	exit(TABLE[0]);
}`)
	if !strings.Contains(out, "= private constant [3 x i32] [ i32 1, i32 2, i32 3 ]") {
		t.Fatalf("expected the array const to be globalized, got:\n%s", out)
	}
}

func TestGenerateCastZeroExtends(t *testing.T) {
	out := generate(t, `
fn main() {
	let c: i32 = 'a' as i32;
	let b: i32 = (c > 0) as i32;
	exit(b);
}`)
	if !strings.Contains(out, "zext") {
		t.Fatalf("expected a zero-extend from char to i32, got:\n%s", out)
	}
}
