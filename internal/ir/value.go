package ir

import "strconv"

// Value is anything that can appear as an instruction operand: a register,
// an immediate constant, or a reference to a module-level global.
type Value interface {
	Type() *Type
	// String renders the value bare (%x, @g, 5); Typed renders it with its
	// type prefixed (i32 5, ptr @g), the form used for typed operand lists.
	String() string
	Typed() string
}

// Register is an SSA-style named value produced by some instruction.
type Register struct {
	Name string
	Ty   *Type
}

func (r *Register) Type() *Type  { return r.Ty }
func (r *Register) String() string { return "%" + r.Name }
func (r *Register) Typed() string  { return r.Ty.String() + " " + r.String() }

// ConstInt is an integer immediate of a fixed width.
type ConstInt struct {
	Ty  *Type
	Val int64
}

func (c *ConstInt) Type() *Type  { return c.Ty }
func (c *ConstInt) String() string { return strconv.FormatInt(c.Val, 10) }
func (c *ConstInt) Typed() string  { return c.Ty.String() + " " + c.String() }

// Global is a module-level global (a string literal backing store, a
// globalized array constant, or a pre-declared runtime symbol). Its IR
// type is always a pointer, per the opaque-ptr convention; Pointee is the
// type of the value it points to, used by loads/GEPs through it.
type Global struct {
	Name    string
	Pointee *Type
	Init    string
	Linkage string // "private" or "internal" or "" (external)
	IsConst bool
}

func (g *Global) Type() *Type  { return Pointer(g.Pointee) }
func (g *Global) String() string { return "@" + g.Name }
func (g *Global) Typed() string  { return g.Type().String() + " " + g.String() }
