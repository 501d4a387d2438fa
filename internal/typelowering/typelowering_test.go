package typelowering

import (
	"testing"

	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
)

func TestLowerScalars(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)

	cases := []struct {
		k    semantic.Kind
		want string
	}{
		{semantic.KUnit, "void"},
		{semantic.KNever, "void"},
		{semantic.KBool, "i1"},
		{semantic.KChar, "i8"},
		{semantic.KI32, "i32"},
		{semantic.KU32, "i32"},
		{semantic.KIsize, "i32"},
		{semantic.KUsize, "i32"},
		{semantic.KAnyInt, "i32"},
	}
	for _, c := range cases {
		got, err := tl.Lower(semantic.Scalar(c.k))
		if err != nil {
			t.Fatalf("lower %s: %v", c.k, err)
		}
		if got.String() != c.want {
			t.Errorf("lower %s = %s, want %s", c.k, got.String(), c.want)
		}
	}
}

func TestLowerReference(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)
	ref := semantic.Scalar(semantic.KI32).WithRef(ast.RefMut)
	got, err := tl.Lower(ref)
	if err != nil {
		t.Fatalf("lower ref: %v", err)
	}
	if got.String() != "ptr" {
		t.Errorf("lower &mut i32 = %s, want ptr", got.String())
	}
}

func TestLowerArray(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)
	at := &semantic.RealType{Kind: semantic.KArray, Elem: semantic.Scalar(semantic.KI32), Size: 5, SizeKnown: true}
	got, err := tl.Lower(at)
	if err != nil {
		t.Fatalf("lower array: %v", err)
	}
	if got.String() != "[5 x i32]" {
		t.Errorf("lower array = %s, want [5 x i32]", got.String())
	}
}

func TestDeclareBuiltinStringTypes(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)
	if err := tl.DeclareBuiltinStringTypes(); err != nil {
		t.Fatalf("declare builtin string types: %v", err)
	}

	strDef := m.LookupStruct(StrStructName)
	if strDef == nil || !strDef.Defined {
		t.Fatal("Str struct was not defined")
	}
	if len(strDef.Fields) != 2 || strDef.Fields[0].String() != "ptr" || strDef.Fields[1].String() != "i32" {
		t.Errorf("Str fields = %v, want {ptr, i32}", strDef.Fields)
	}

	stringDef := m.LookupStruct(StringStructName)
	if stringDef == nil || !stringDef.Defined {
		t.Fatal("String struct was not defined")
	}
	if len(stringDef.Fields) != 3 {
		t.Errorf("String fields = %v, want {ptr, i32, i32}", stringDef.Fields)
	}
}

func TestLowerAndDefineStruct(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)

	decl := semantic.NewStructDecl("Point")
	decl.FieldOrder = []string{"x", "y"}
	decl.Fields["x"] = semantic.Scalar(semantic.KI32)
	decl.Fields["y"] = semantic.Scalar(semantic.KI32)

	ty, err := tl.Lower(&semantic.RealType{Kind: semantic.KStruct, Name: "Point", StructDecl: decl})
	if err != nil {
		t.Fatalf("lower struct: %v", err)
	}
	if ty.String() != "%Point" {
		t.Errorf("lower struct = %s, want %%Point", ty.String())
	}

	if def := m.LookupStruct("Point"); def == nil || def.Defined {
		t.Fatal("struct should only be stubbed before DefineStruct")
	}

	if err := tl.DefineStruct(decl); err != nil {
		t.Fatalf("define struct: %v", err)
	}
	def := m.LookupStruct("Point")
	if !def.Defined || len(def.Fields) != 2 {
		t.Fatalf("struct not fully defined: %+v", def)
	}

	sz, err := tl.SizeInBytes(ir.NamedStruct("Point"))
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if sz != 8 {
		t.Errorf("Point size = %d, want 8", sz)
	}
}

func TestLowerFunctionWithReceiver(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)

	owner := semantic.NewStructDecl("Counter")
	owner.FieldOrder = []string{"n"}
	owner.Fields["n"] = semantic.Scalar(semantic.KI32)
	if err := tl.DefineStruct(owner); err != nil {
		t.Fatalf("define owner: %v", err)
	}

	decl := &semantic.FnDecl{
		Name:     "bump",
		Receiver: ast.ReceiverRefMutSelf,
		Owner:    owner,
		Params:   []*semantic.RealType{semantic.Scalar(semantic.KI32)},
		RetType:  semantic.Scalar(semantic.KUnit),
	}
	fnTy, err := tl.LowerFunction(decl)
	if err != nil {
		t.Fatalf("lower function: %v", err)
	}
	if fnTy.FnRet.String() != "void" {
		t.Errorf("ret type = %s, want void", fnTy.FnRet.String())
	}
	if len(fnTy.FnParams) != 2 || fnTy.FnParams[0].String() != "ptr" || fnTy.FnParams[1].String() != "i32" {
		t.Errorf("params = %v, want [ptr i32]", fnTy.FnParams)
	}
}

func TestLowerFunctionMainForcesI32Return(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)
	decl := &semantic.FnDecl{Name: "main", IsMain: true, RetType: semantic.Scalar(semantic.KUnit)}
	fnTy, err := tl.LowerFunction(decl)
	if err != nil {
		t.Fatalf("lower main: %v", err)
	}
	if fnTy.FnRet.String() != "i32" {
		t.Errorf("main return type = %s, want i32", fnTy.FnRet.String())
	}
}

func TestLowerConstScalars(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)

	v, err := tl.LowerConst(semantic.ConstValue{Kind: semantic.CKBool, Bool: true}, semantic.Scalar(semantic.KBool))
	if err != nil {
		t.Fatalf("lower bool const: %v", err)
	}
	if v.Typed() != "i1 1" {
		t.Errorf("bool const = %s, want i1 1", v.Typed())
	}

	v, err = tl.LowerConst(semantic.ConstValue{Kind: semantic.CKI32, Int: -3}, semantic.Scalar(semantic.KI32))
	if err != nil {
		t.Fatalf("lower i32 const: %v", err)
	}
	if v.Typed() != "i32 -3" {
		t.Errorf("i32 const = %s, want i32 -3", v.Typed())
	}

	if _, err := tl.LowerConst(semantic.ConstValue{Kind: semantic.CKAnyInt, Int: 1}, semantic.Scalar(semantic.KAnyInt)); err == nil {
		t.Fatal("expected error lowering an un-concretized AnyInt constant")
	}
}

func TestSerializeArrayConst(t *testing.T) {
	m := ir.NewModule()
	tl := New(m)
	et := semantic.Scalar(semantic.KI32)
	arr := semantic.ConstValue{Kind: semantic.CKArray, Elements: []semantic.ConstValue{
		{Kind: semantic.CKI32, Int: 1},
		{Kind: semantic.CKI32, Int: 2},
		{Kind: semantic.CKI32, Int: 3},
	}}
	text, err := tl.SerializeArrayConst(arr, et)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := "[ i32 1, i32 2, i32 3 ]"
	if text != want {
		t.Errorf("serialize = %q, want %q", text, want)
	}
}
