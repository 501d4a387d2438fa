package ir

import (
	"strings"
	"testing"
)

func TestTypeStrings(t *testing.T) {
	cases := []struct {
		ty   *Type
		want string
	}{
		{Void(), "void"},
		{I32, "i32"},
		{I1, "i1"},
		{Pointer(I32), "ptr"},
		{Array(I8, 5), "[5 x i8]"},
		{NamedStruct("Point"), "%Point"},
		{Function(I32, []*Type{I32, I32}), "i32 (i32, i32)"},
	}
	for _, c := range cases {
		if got := c.ty.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestTypeEqual(t *testing.T) {
	if !Int(32).Equal(Int(32)) {
		t.Error("i32 should equal i32")
	}
	if Int(32).Equal(Int(64)) {
		t.Error("i32 should not equal i64")
	}
	if !NamedStruct("Point").Equal(NamedStruct("Point")) {
		t.Error("same-named structs should be equal")
	}
	if NamedStruct("Point").Equal(NamedStruct("Line")) {
		t.Error("differently named structs should not be equal")
	}
}

func TestRegisterAndConstIntRendering(t *testing.T) {
	r := &Register{Name: "x.0", Ty: I32}
	if r.String() != "%x.0" {
		t.Errorf("register String() = %q", r.String())
	}
	if r.Typed() != "i32 %x.0" {
		t.Errorf("register Typed() = %q", r.Typed())
	}
	c := &ConstInt{Ty: I32, Val: -7}
	if c.String() != "-7" {
		t.Errorf("const String() = %q", c.String())
	}
	if c.Typed() != "i32 -7" {
		t.Errorf("const Typed() = %q", c.Typed())
	}
}

func TestGlobalTypeIsAlwaysPointer(t *testing.T) {
	g := &Global{Name: ".str.0", Pointee: Array(I8, 4), Init: `c"abc\00"`, Linkage: "private", IsConst: true}
	if g.Type().String() != "ptr" {
		t.Errorf("global Type() = %q, want ptr", g.Type().String())
	}
	if g.Typed() != "ptr @.str.0" {
		t.Errorf("global Typed() = %q", g.Typed())
	}
}

func TestInstrStringForms(t *testing.T) {
	a := &Register{Name: "a", Ty: I32}
	bReg := &Register{Name: "b", Ty: I32}
	r := &Register{Name: "r", Ty: I32}

	add := &Instr{Op: OpAdd, Result: r, Operands: []Value{a, bReg}}
	if got, want := add.String(), "%r = add i32 %a, %b"; got != want {
		t.Errorf("add.String() = %q, want %q", got, want)
	}

	cmp := &Instr{Op: OpICmp, Result: r, Predicate: "slt", Operands: []Value{a, bReg}}
	if got, want := cmp.String(), "%r = icmp slt i32 %a, %b"; got != want {
		t.Errorf("icmp.String() = %q, want %q", got, want)
	}

	alloca := &Instr{Op: OpAlloca, Result: &Register{Name: "p", Ty: Pointer(I32)}, Ty: I32}
	if got, want := alloca.String(), "%p = alloca i32"; got != want {
		t.Errorf("alloca.String() = %q, want %q", got, want)
	}

	ptr := &Register{Name: "p", Ty: Pointer(I32)}
	load := &Instr{Op: OpLoad, Result: r, Ty: I32, Operands: []Value{ptr}}
	if got, want := load.String(), "%r = load i32, ptr %p"; got != want {
		t.Errorf("load.String() = %q, want %q", got, want)
	}

	store := &Instr{Op: OpStore, Operands: []Value{a, ptr}}
	if got, want := store.String(), "store i32 %a, ptr %p"; got != want {
		t.Errorf("store.String() = %q, want %q", got, want)
	}

	br := &Instr{Op: OpBr, Targets: []string{"loop"}}
	if got, want := br.String(), "br label %loop"; got != want {
		t.Errorf("br.String() = %q, want %q", got, want)
	}

	condBr := &Instr{Op: OpCondBr, Operands: []Value{&Register{Name: "c", Ty: I1}}, Targets: []string{"then", "else"}}
	if got, want := condBr.String(), "br i1 %c, label %then, label %else"; got != want {
		t.Errorf("condbr.String() = %q, want %q", got, want)
	}

	retVoid := &Instr{Op: OpRet}
	if got, want := retVoid.String(), "ret void"; got != want {
		t.Errorf("ret void = %q, want %q", got, want)
	}

	retVal := &Instr{Op: OpRet, Operands: []Value{&ConstInt{Ty: I32, Val: 0}}}
	if got, want := retVal.String(), "ret i32 0"; got != want {
		t.Errorf("ret val = %q, want %q", got, want)
	}

	call := &Instr{Op: OpCall, Result: r, Ty: I32, Callee: "add_one", Operands: []Value{a}}
	if got, want := call.String(), "%r = call i32 @add_one(i32 %a)"; got != want {
		t.Errorf("call.String() = %q, want %q", got, want)
	}

	if !br.IsTerminator() || !condBr.IsTerminator() || !retVoid.IsTerminator() {
		t.Error("br/condbr/ret must be terminators")
	}
	if add.IsTerminator() || call.IsTerminator() {
		t.Error("add/call must not be terminators")
	}
}

func TestBlockAppendInsertsBeforeTerminator(t *testing.T) {
	b := &BasicBlock{Label: "entry"}
	ret := &Instr{Op: OpRet}
	if err := b.Append(ret); err != nil {
		t.Fatalf("append ret: %v", err)
	}

	late := &Instr{Op: OpAlloca, Result: &Register{Name: "p", Ty: Pointer(I32)}, Ty: I32}
	if err := b.Append(late); err != nil {
		t.Fatalf("append late alloca: %v", err)
	}
	if len(b.Instrs) != 2 || b.Instrs[0] != late || b.Instrs[1] != ret {
		t.Fatalf("expected late alloca inserted before terminator, got %v", b.Instrs)
	}

	if err := b.Append(&Instr{Op: OpRet}); err == nil {
		t.Fatal("expected error appending a second terminator")
	}
}

func TestFunctionDeclarationVsDefinitionRendering(t *testing.T) {
	decl := &Function{Name: "puts", FnType: Function(I32, []*Type{Pointer(I8)})}
	if got, want := decl.String(), "declare i32 @puts(ptr)"; got != want {
		t.Errorf("decl.String() = %q, want %q", got, want)
	}

	def := &Function{
		Name:       "add",
		FnType:     Function(I32, []*Type{I32, I32}),
		ParamNames: []string{"a", "b"},
		Defined:    true,
	}
	entry := def.AddBlock("entry")
	sum := &Register{Name: "sum", Ty: I32}
	entry.Append(&Instr{Op: OpAdd, Result: sum, Operands: []Value{&Register{Name: "a", Ty: I32}, &Register{Name: "b", Ty: I32}}})
	entry.Append(&Instr{Op: OpRet, Operands: []Value{sum}})

	got := def.String()
	if !strings.HasPrefix(got, "define i32 @add(i32 %a, i32 %b) {\n") {
		t.Errorf("unexpected define header: %q", got)
	}
	if !strings.Contains(got, "%sum = add i32 %a, %b") || !strings.Contains(got, "ret i32 %sum") {
		t.Errorf("missing body instructions: %q", got)
	}
}

func TestModuleSizeInBytes(t *testing.T) {
	m := NewModule()
	m.DeclareStructStub("Point")
	if _, err := m.SizeInBytes(NamedStruct("Point")); err == nil {
		t.Fatal("expected error sizing an undefined struct stub")
	}
	if err := m.DefineStructFields("Point", []*Type{I32, I32}); err != nil {
		t.Fatalf("define fields: %v", err)
	}
	sz, err := m.SizeInBytes(NamedStruct("Point"))
	if err != nil {
		t.Fatalf("size: %v", err)
	}
	if sz != 8 {
		t.Errorf("Point size = %d, want 8", sz)
	}

	arrSz, err := m.SizeInBytes(Array(I32, 4))
	if err != nil {
		t.Fatalf("array size: %v", err)
	}
	if arrSz != 16 {
		t.Errorf("array size = %d, want 16", arrSz)
	}

	ptrSz, err := m.SizeInBytes(Pointer(I32))
	if err != nil {
		t.Fatalf("pointer size: %v", err)
	}
	if ptrSz != 4 {
		t.Errorf("pointer size = %d, want 4", ptrSz)
	}
}

func TestModuleStringIncludesTripleAndLayout(t *testing.T) {
	m := NewModule()
	got := m.String()
	if !strings.Contains(got, `target triple = "x86_64-unknown-linux-gnu"`) {
		t.Error("missing target triple line")
	}
	if !strings.Contains(got, `target datalayout = "`+TargetDataLayout+`"`) {
		t.Error("missing target datalayout line")
	}
}

func TestBuilderCreateAllocaLoadStore(t *testing.T) {
	m := NewModule()
	fn := m.DefineFunction("main", Function(I32, nil), nil)
	entry := fn.AddBlock("entry")
	b := NewBuilder(m)
	b.SetInsertPoint(fn, entry)

	ptr, err := b.CreateAlloca(I32, "x")
	if err != nil {
		t.Fatalf("alloca: %v", err)
	}
	if ptr.Name != "x.0" {
		t.Errorf("alloca register name = %q, want x.0", ptr.Name)
	}
	if err := b.CreateStore(&ConstInt{Ty: I32, Val: 42}, ptr); err != nil {
		t.Fatalf("store: %v", err)
	}
	loaded, err := b.CreateLoad(ptr, "x")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Name != "x.1" {
		t.Errorf("load register name = %q, want x.1 (per-hint counter should continue)", loaded.Name)
	}
	if err := b.CreateRet(loaded); err != nil {
		t.Fatalf("ret: %v", err)
	}

	text := entry.String()
	if !strings.Contains(text, "%x.0 = alloca i32") {
		t.Errorf("missing alloca in block text: %q", text)
	}
	if !strings.Contains(text, "store i32 42, ptr %x.0") {
		t.Errorf("missing store in block text: %q", text)
	}
	if !strings.Contains(text, "%x.1 = load i32, ptr %x.0") {
		t.Errorf("missing load in block text: %q", text)
	}
	if !strings.Contains(text, "ret i32 %x.1") {
		t.Errorf("missing ret in block text: %q", text)
	}
}

func TestBuilderCreateTempAllocaGoesToEntryBlock(t *testing.T) {
	m := NewModule()
	fn := m.DefineFunction("f", Function(Void(), nil), nil)
	entry := fn.AddBlock("entry")
	body := fn.AddBlock("body")
	b := NewBuilder(m)
	b.SetInsertPoint(fn, body)

	if _, err := b.CreateTempAlloca(I32, "tmp"); err != nil {
		t.Fatalf("temp alloca: %v", err)
	}
	if b.CurrentBlock() != body {
		t.Error("insertion point should be restored to body after temp alloca")
	}
	if len(entry.Instrs) != 1 {
		t.Fatalf("expected temp alloca in entry block, got %d instrs", len(entry.Instrs))
	}
	if len(body.Instrs) != 0 {
		t.Error("temp alloca should not land in the current block")
	}
}

func TestBuilderCreateGEPIntoStructAndArray(t *testing.T) {
	m := NewModule()
	m.DeclareStructStub("Point")
	if err := m.DefineStructFields("Point", []*Type{I32, I32}); err != nil {
		t.Fatalf("define fields: %v", err)
	}
	fn := m.DefineFunction("f", Function(Void(), nil), nil)
	entry := fn.AddBlock("entry")
	b := NewBuilder(m)
	b.SetInsertPoint(fn, entry)

	base, _ := b.CreateAlloca(NamedStruct("Point"), "p")
	field, err := b.CreateGEP(base, NamedStruct("Point"), []Value{&ConstInt{Ty: I32, Val: 1}}, "y")
	if err != nil {
		t.Fatalf("gep: %v", err)
	}
	if !field.Ty.Equal(Pointer(I32)) {
		t.Errorf("gep result type = %s, want ptr to i32", field.Ty.String())
	}

	text := entry.String()
	if !strings.Contains(text, "getelementptr %Point, ptr %p.0, i32 0, i32 1") {
		t.Errorf("unexpected gep text: %q", text)
	}

	arrBase, _ := b.CreateAlloca(Array(I32, 10), "arr")
	elemPtr, err := b.CreateGEP(arrBase, Array(I32, 10), []Value{&ConstInt{Ty: I32, Val: 3}}, "elem")
	if err != nil {
		t.Fatalf("array gep: %v", err)
	}
	if !elemPtr.Ty.Equal(Pointer(I32)) {
		t.Errorf("array gep result type = %s, want ptr to i32", elemPtr.Ty.String())
	}
}

func TestBuilderCreateGEPRejectsNonConstantStructIndex(t *testing.T) {
	m := NewModule()
	m.DeclareStructStub("Point")
	_ = m.DefineStructFields("Point", []*Type{I32, I32})
	fn := m.DefineFunction("f", Function(Void(), nil), nil)
	entry := fn.AddBlock("entry")
	b := NewBuilder(m)
	b.SetInsertPoint(fn, entry)

	base, _ := b.CreateAlloca(NamedStruct("Point"), "p")
	nonConst := &Register{Name: "idx", Ty: I32}
	if _, err := b.CreateGEP(base, NamedStruct("Point"), []Value{nonConst}, "field"); err == nil {
		t.Fatal("expected error for non-constant struct field index")
	}
}

func TestBuilderCreateCallVoidHasNoResult(t *testing.T) {
	m := NewModule()
	fn := m.DefineFunction("f", Function(Void(), nil), nil)
	entry := fn.AddBlock("entry")
	b := NewBuilder(m)
	b.SetInsertPoint(fn, entry)

	reg, err := b.CreateCall("side_effect", nil, Void(), "")
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if reg != nil {
		t.Error("void call should not produce a result register")
	}
	if !strings.Contains(entry.String(), "call void @side_effect()") {
		t.Errorf("unexpected call text: %q", entry.String())
	}
}

func TestBuilderCreateStringLiteralNeverMerges(t *testing.T) {
	m := NewModule()
	b := NewBuilder(m)

	g1 := b.CreateStringLiteral("hi")
	g2 := b.CreateStringLiteral("hi")
	if g1.Name == g2.Name {
		t.Error("identical string literals must still get distinct globals")
	}
	if g1.Name != ".str.0" || g2.Name != ".str.1" {
		t.Errorf("unexpected names: %s, %s", g1.Name, g2.Name)
	}
	if g1.Init != `c"hi\00"` {
		t.Errorf("init = %q", g1.Init)
	}
	if g1.Pointee.String() != "[3 x i8]" {
		t.Errorf("pointee = %s, want [3 x i8]", g1.Pointee.String())
	}
	if len(m.Globals) != 2 {
		t.Errorf("expected 2 globals registered, got %d", len(m.Globals))
	}
}

func TestEscapeLLVMString(t *testing.T) {
	got := escapeLLVMString("a\"\\\n")
	want := `a\22\5C\0A`
	if got != want {
		t.Errorf("escapeLLVMString = %q, want %q", got, want)
	}
}
