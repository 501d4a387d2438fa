package semantic

import (
	"testing"

	"github.com/rustlite/ricc/internal/ast"
)

func TestMergeNeverAbsorption(t *testing.T) {
	never := Scalar(KNever)
	i32 := Scalar(KI32)

	got, err := Merge(never, i32, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KI32 {
		t.Fatalf("expected i32, got %s", got)
	}

	got, err = Merge(i32, never, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KI32 {
		t.Fatalf("expected i32, got %s", got)
	}
}

func TestMergeAnyIntAdoption(t *testing.T) {
	anyInt := Scalar(KAnyInt)
	usize := Scalar(KUsize)

	got, err := Merge(anyInt, usize, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != KUsize {
		t.Fatalf("expected usize, got %s", got)
	}
}

func TestMergeKindMismatch(t *testing.T) {
	if _, err := Merge(Scalar(KI32), Scalar(KBool), false); err == nil {
		t.Fatalf("expected a type mismatch error")
	}
}

func TestMergeReferenceTagRules(t *testing.T) {
	sharedI32 := Scalar(KI32).WithRef(ast.RefShared)
	mutI32 := Scalar(KI32).WithRef(ast.RefMut)

	// Reading a &mut where a & is expected is fine either direction.
	if _, err := Merge(sharedI32, mutI32, false); err != nil {
		t.Fatalf("unexpected error merging & with &mut (non-assignment): %v", err)
	}

	// Assigning a & value into a &mut place is rejected.
	if _, err := Merge(mutI32, sharedI32, true); err == nil {
		t.Fatalf("expected error assigning & into a &mut place")
	}

	// Assigning a &mut value into a & place is fine.
	if _, err := Merge(sharedI32, mutI32, true); err != nil {
		t.Fatalf("unexpected error assigning &mut into a & place: %v", err)
	}
}

func TestMergeArrayStructural(t *testing.T) {
	a1 := &RealType{Kind: KArray, Elem: Scalar(KI32), Size: 3, SizeKnown: true}
	a2 := &RealType{Kind: KArray, Elem: Scalar(KI32), Size: 3, SizeKnown: true}
	if _, err := Merge(a1, a2, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a3 := &RealType{Kind: KArray, Elem: Scalar(KI32), Size: 4, SizeKnown: true}
	if _, err := Merge(a1, a3, false); err == nil {
		t.Fatalf("expected array size mismatch error")
	}
}
