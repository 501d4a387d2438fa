package ir

import (
	"fmt"
	"strings"
)

// Opcode is the closed set of instruction opcodes this IR emits.
type Opcode int

const (
	OpAlloca Opcode = iota
	OpLoad
	OpStore
	OpGEP
	OpAdd
	OpSub
	OpMul
	OpSDiv
	OpUDiv
	OpSRem
	OpURem
	OpShl
	OpLShr
	OpAShr
	OpAnd
	OpOr
	OpXor
	OpICmp
	OpZExt
	OpSExt
	OpTrunc
	OpBr
	OpCondBr
	OpRet
	OpCall
)

var binOpNames = map[Opcode]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul",
	OpSDiv: "sdiv", OpUDiv: "udiv", OpSRem: "srem", OpURem: "urem",
	OpShl: "shl", OpLShr: "lshr", OpAShr: "ashr",
	OpAnd: "and", OpOr: "or", OpXor: "xor",
}

var convOpNames = map[Opcode]string{
	OpZExt: "zext", OpSExt: "sext", OpTrunc: "trunc",
}

// Instr is one IR instruction: opcode, ordered operands, an optional
// result register, and whatever auxiliary fields that opcode needs.
type Instr struct {
	Op     Opcode
	Result *Register
	Ty     Stringer // alloca's allocated type, gep's root type, conversion target type, call's return type
	Operands []Value
	Predicate string   // OpICmp only: "eq", "ne", "slt", ...
	Callee    string   // OpCall only
	Targets   []string // OpBr: [target]; OpCondBr: [trueTarget, falseTarget]
}

// Stringer is satisfied by *Type; kept local so Instr doesn't have to
// import itself circularly when Ty is nil for opcodes that don't need it.
type Stringer interface{ String() string }

func (i *Instr) IsTerminator() bool {
	switch i.Op {
	case OpBr, OpCondBr, OpRet:
		return true
	default:
		return false
	}
}

func (i *Instr) String() string {
	switch i.Op {
	case OpAlloca:
		return fmt.Sprintf("%s = alloca %s", i.Result, i.Ty)
	case OpLoad:
		return fmt.Sprintf("%s = load %s, %s", i.Result, i.Ty, i.Operands[0].Typed())
	case OpStore:
		return fmt.Sprintf("store %s, %s", i.Operands[0].Typed(), i.Operands[1].Typed())
	case OpGEP:
		parts := []string{i.Ty.String(), i.Operands[0].Typed()}
		for _, idx := range i.Operands[1:] {
			parts = append(parts, idx.Typed())
		}
		return fmt.Sprintf("%s = getelementptr %s", i.Result, strings.Join(parts, ", "))
	case OpAdd, OpSub, OpMul, OpSDiv, OpUDiv, OpSRem, OpURem, OpShl, OpLShr, OpAShr, OpAnd, OpOr, OpXor:
		return fmt.Sprintf("%s = %s %s %s, %s", i.Result, binOpNames[i.Op], i.Operands[0].Type(), i.Operands[0], i.Operands[1])
	case OpICmp:
		return fmt.Sprintf("%s = icmp %s %s %s, %s", i.Result, i.Predicate, i.Operands[0].Type(), i.Operands[0], i.Operands[1])
	case OpZExt, OpSExt, OpTrunc:
		return fmt.Sprintf("%s = %s %s to %s", i.Result, convOpNames[i.Op], i.Operands[0].Typed(), i.Ty)
	case OpBr:
		return fmt.Sprintf("br label %%%s", i.Targets[0])
	case OpCondBr:
		return fmt.Sprintf("br %s, label %%%s, label %%%s", i.Operands[0].Typed(), i.Targets[0], i.Targets[1])
	case OpRet:
		if len(i.Operands) == 0 {
			return "ret void"
		}
		return fmt.Sprintf("ret %s", i.Operands[0].Typed())
	case OpCall:
		args := make([]string, len(i.Operands))
		for idx, a := range i.Operands {
			args[idx] = a.Typed()
		}
		call := fmt.Sprintf("call %s @%s(%s)", i.Ty, i.Callee, strings.Join(args, ", "))
		if i.Result != nil {
			return fmt.Sprintf("%s = %s", i.Result, call)
		}
		return call
	default:
		return fmt.Sprintf("<invalid-instr %d>", i.Op)
	}
}
