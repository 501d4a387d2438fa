package ir

import (
	"fmt"
	"strings"

	"github.com/rustlite/ricc/internal/compilererr"
)

// Builder emits instructions into a module's current insertion block. It
// owns the temporary-naming counters: a global tmp.N counter plus one
// counter per name hint, so repeated hints produce hint.0, hint.1, ...
type Builder struct {
	m    *Module
	curFn *Function
	curBlock *BasicBlock

	tmpCounter   int
	hintCounters map[string]int
	strLitCounter int
}

func NewBuilder(m *Module) *Builder {
	return &Builder{m: m, hintCounters: make(map[string]int)}
}

func (b *Builder) Module() *Module             { return b.m }
func (b *Builder) CurrentFunction() *Function  { return b.curFn }
func (b *Builder) CurrentBlock() *BasicBlock   { return b.curBlock }

func (b *Builder) SetInsertPoint(fn *Function, block *BasicBlock) {
	b.curFn = fn
	b.curBlock = block
}

func (b *Builder) freshName(hint string) string {
	if hint == "" {
		n := b.tmpCounter
		b.tmpCounter++
		return fmt.Sprintf("tmp.%d", n)
	}
	n := b.hintCounters[hint]
	b.hintCounters[hint] = n + 1
	return fmt.Sprintf("%s.%d", hint, n)
}

func (b *Builder) newRegister(ty *Type, hint string) *Register {
	return &Register{Name: b.freshName(hint), Ty: ty}
}

func (b *Builder) appendInstr(instr *Instr) error {
	if b.curBlock == nil {
		return compilererr.NewInternalError("no current insertion block")
	}
	return b.curBlock.Append(instr)
}

// CreateAlloca inserts at the current block.
func (b *Builder) CreateAlloca(ty *Type, hint string) (*Register, error) {
	reg := b.newRegister(Pointer(ty), hint)
	if err := b.appendInstr(&Instr{Op: OpAlloca, Result: reg, Ty: ty}); err != nil {
		return nil, err
	}
	return reg, nil
}

// CreateTempAlloca inserts at the current function's entry block and
// restores the prior insertion point afterward.
func (b *Builder) CreateTempAlloca(ty *Type, hint string) (*Register, error) {
	if b.curFn == nil {
		return nil, compilererr.NewInternalError("create_temp_alloca: no current function")
	}
	entry := b.curFn.EntryBlock()
	if entry == nil {
		return nil, compilererr.NewInternalError("create_temp_alloca: function has no entry block")
	}
	saved := b.curBlock
	b.curBlock = entry
	reg, err := b.CreateAlloca(ty, hint)
	b.curBlock = saved
	return reg, err
}

func (b *Builder) CreateLoad(addr Value, hint string) (*Register, error) {
	pointee := addr.Type().Elem
	if pointee == nil {
		return nil, compilererr.NewInternalError("create_load: operand is not a pointer with a known pointee")
	}
	reg := b.newRegister(pointee, hint)
	if err := b.appendInstr(&Instr{Op: OpLoad, Result: reg, Ty: pointee, Operands: []Value{addr}}); err != nil {
		return nil, err
	}
	return reg, nil
}

func (b *Builder) CreateStore(value, addr Value) error {
	return b.appendInstr(&Instr{Op: OpStore, Operands: []Value{value, addr}})
}

// CreateGEP walks indices (NOT including the leading pointer-step index,
// which is always the constant 0 this method supplies itself) through
// rootType to compute the resulting pointee type.
func (b *Builder) CreateGEP(base Value, rootType *Type, indices []Value, hint string) (*Register, error) {
	elem := rootType
	for _, idx := range indices {
		switch elem.Kind {
		case KArray:
			elem = elem.Elem
		case KStruct:
			ci, ok := idx.(*ConstInt)
			if !ok {
				return nil, compilererr.NewInternalError("gep: struct field index must be a constant")
			}
			def := b.m.LookupStruct(elem.StructName)
			if def == nil || !def.Defined {
				return nil, compilererr.NewInternalError("gep: struct %s is not yet defined", elem.StructName)
			}
			if ci.Val < 0 || int(ci.Val) >= len(def.Fields) {
				return nil, compilererr.NewInternalError("gep: field index %d out of range for %s", ci.Val, elem.StructName)
			}
			elem = def.Fields[ci.Val]
		default:
			return nil, compilererr.NewInternalError("gep: cannot index into %s", elem.String())
		}
	}
	reg := b.newRegister(Pointer(elem), hint)
	operands := append([]Value{base, &ConstInt{Ty: I32, Val: 0}}, indices...)
	if err := b.appendInstr(&Instr{Op: OpGEP, Result: reg, Ty: rootType, Operands: operands}); err != nil {
		return nil, err
	}
	return reg, nil
}

func (b *Builder) createBinOp(op Opcode, a, bv Value, hint string) (*Register, error) {
	reg := b.newRegister(a.Type(), hint)
	if err := b.appendInstr(&Instr{Op: op, Result: reg, Operands: []Value{a, bv}}); err != nil {
		return nil, err
	}
	return reg, nil
}

func (b *Builder) CreateAdd(a, bv Value, hint string) (*Register, error)  { return b.createBinOp(OpAdd, a, bv, hint) }
func (b *Builder) CreateSub(a, bv Value, hint string) (*Register, error)  { return b.createBinOp(OpSub, a, bv, hint) }
func (b *Builder) CreateMul(a, bv Value, hint string) (*Register, error)  { return b.createBinOp(OpMul, a, bv, hint) }
func (b *Builder) CreateSDiv(a, bv Value, hint string) (*Register, error) { return b.createBinOp(OpSDiv, a, bv, hint) }
func (b *Builder) CreateUDiv(a, bv Value, hint string) (*Register, error) { return b.createBinOp(OpUDiv, a, bv, hint) }
func (b *Builder) CreateSRem(a, bv Value, hint string) (*Register, error) { return b.createBinOp(OpSRem, a, bv, hint) }
func (b *Builder) CreateURem(a, bv Value, hint string) (*Register, error) { return b.createBinOp(OpURem, a, bv, hint) }
func (b *Builder) CreateShl(a, bv Value, hint string) (*Register, error)  { return b.createBinOp(OpShl, a, bv, hint) }
func (b *Builder) CreateLShr(a, bv Value, hint string) (*Register, error) { return b.createBinOp(OpLShr, a, bv, hint) }
func (b *Builder) CreateAShr(a, bv Value, hint string) (*Register, error) { return b.createBinOp(OpAShr, a, bv, hint) }
func (b *Builder) CreateAnd(a, bv Value, hint string) (*Register, error)  { return b.createBinOp(OpAnd, a, bv, hint) }
func (b *Builder) CreateOr(a, bv Value, hint string) (*Register, error)   { return b.createBinOp(OpOr, a, bv, hint) }
func (b *Builder) CreateXor(a, bv Value, hint string) (*Register, error)  { return b.createBinOp(OpXor, a, bv, hint) }

func (b *Builder) CreateICmp(pred string, a, bv Value, hint string) (*Register, error) {
	reg := b.newRegister(I1, hint)
	if err := b.appendInstr(&Instr{Op: OpICmp, Result: reg, Predicate: pred, Operands: []Value{a, bv}}); err != nil {
		return nil, err
	}
	return reg, nil
}

func (b *Builder) createConv(op Opcode, v Value, target *Type, hint string) (*Register, error) {
	reg := b.newRegister(target, hint)
	if err := b.appendInstr(&Instr{Op: op, Result: reg, Ty: target, Operands: []Value{v}}); err != nil {
		return nil, err
	}
	return reg, nil
}

func (b *Builder) CreateZExt(v Value, target *Type, hint string) (*Register, error)  { return b.createConv(OpZExt, v, target, hint) }
func (b *Builder) CreateSExt(v Value, target *Type, hint string) (*Register, error)  { return b.createConv(OpSExt, v, target, hint) }
func (b *Builder) CreateTrunc(v Value, target *Type, hint string) (*Register, error) { return b.createConv(OpTrunc, v, target, hint) }

func (b *Builder) CreateBr(target string) error {
	return b.appendInstr(&Instr{Op: OpBr, Targets: []string{target}})
}

func (b *Builder) CreateCondBr(cond Value, trueTarget, falseTarget string) error {
	return b.appendInstr(&Instr{Op: OpCondBr, Operands: []Value{cond}, Targets: []string{trueTarget, falseTarget}})
}

func (b *Builder) CreateRet(value Value) error {
	instr := &Instr{Op: OpRet}
	if value != nil {
		instr.Operands = []Value{value}
	}
	return b.appendInstr(instr)
}

func (b *Builder) CreateCall(calleeName string, args []Value, retType *Type, hint string) (*Register, error) {
	var reg *Register
	if retType.Kind != KVoid {
		reg = b.newRegister(retType, hint)
	}
	if err := b.appendInstr(&Instr{Op: OpCall, Result: reg, Ty: retType, Callee: calleeName, Operands: args}); err != nil {
		return nil, err
	}
	return reg, nil
}

// CreateStringLiteral registers a private, never-merged constant global
// for text, named with this builder's own `.str.N` counter.
func (b *Builder) CreateStringLiteral(text string) *Global {
	name := fmt.Sprintf(".str.%d", b.strLitCounter)
	b.strLitCounter++
	g := &Global{
		Name:    name,
		Pointee: Array(I8, len(text)+1),
		Init:    "c\"" + escapeLLVMString(text) + "\\00\"",
		Linkage: "private",
		IsConst: true,
	}
	b.m.AddGlobal(g)
	return g
}

func escapeLLVMString(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' || c == '"' || c < 0x20 || c >= 0x7f {
			fmt.Fprintf(&sb, "\\%02X", c)
		} else {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
