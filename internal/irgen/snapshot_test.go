package irgen

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestGenerateSnapshots renders a handful of whole-program "source -> IR
// text" scenarios and compares them against stored snapshots, so a change
// in emitted IR shows up as a reviewable diff.
func TestGenerateSnapshots(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{
			name: "minimal_main",
			src:  `fn main() { exit(0); }`,
		},
		{
			name: "struct_field_arithmetic",
			src: `
struct Point { x: i32, y: i32 }
fn main() {
	let mut p = Point { x: 1, y: 2 };
	p.x = p.x + p.y;
	exit(p.x);
}`,
		},
		{
			name: "ref_mut_method",
			src: `
struct Counter { n: i32 }
impl Counter {
	fn bump(&mut self) {
		self.n = self.n + 1;
	}
}
fn main() {
	let mut c = Counter { n: 0 };
	c.bump();
	c.bump();
	exit(c.n);
}`,
		},
		{
			name: "loop_with_break_value",
			src: `
fn main() {
	let mut x = 0;
	let y = loop {
		x = x + 1;
		if x > 3 {
			break x;
		}
	};
	exit(y);
}`,
		},
		{
			name: "array_len_and_index",
			src: `
fn main() {
	let a = [10, 20, 30];
	let n = a.len();
	exit(a[1] + n);
}`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := generate(t, c.src)
			snaps.MatchSnapshot(t, c.name, out)
		})
	}
}
