package ir

import (
	"strings"

	"github.com/rustlite/ricc/internal/compilererr"
)

// Target triple and data layout are fixed build-time constants rather than
// configuration: the rest of the pipeline (integer widths, pointer size)
// is written against a 32-bit target, so these strings are not meant to
// vary per invocation.
const (
	TargetTriple    = "x86_64-unknown-linux-gnu"
	TargetDataLayout = "e-m:e-p270:32:32-p271:32:32-p272:64:64-i64:64-i128:128-f80:128-n8:16:32:64-S128"
	PointerWidthBits = 32
)

// StructDef is a named struct type's field list, in declaration order.
// Defined is false between declare_struct_stub and define_struct_fields.
type StructDef struct {
	Name    string
	Fields  []*Type
	Defined bool
}

// Module is the top-level IR container: target info, ordered struct
// defs, globals, and functions (declarations and definitions mixed in
// the order they were added), plus free-form comment lines.
type Module struct {
	Triple     string
	DataLayout string
	Comments   []string

	structs   []*StructDef
	structIdx map[string]int

	Globals   []*Global
	Functions []*Function
	fnIdx     map[string]int
}

func NewModule() *Module {
	return &Module{
		Triple:     TargetTriple,
		DataLayout: TargetDataLayout,
		structIdx:  make(map[string]int),
		fnIdx:      make(map[string]int),
	}
}

// DeclareStructStub registers name as an opaque struct and returns a
// reference type for it. Calling it again for the same name is a no-op
// that returns the existing reference.
func (m *Module) DeclareStructStub(name string) *Type {
	if _, ok := m.structIdx[name]; !ok {
		m.structIdx[name] = len(m.structs)
		m.structs = append(m.structs, &StructDef{Name: name})
	}
	return NamedStruct(name)
}

// DefineStructFields finalizes a previously stubbed struct's field list.
func (m *Module) DefineStructFields(name string, fields []*Type) error {
	idx, ok := m.structIdx[name]
	if !ok {
		return compilererr.NewInternalError("define_struct_fields: %s has no stub", name)
	}
	m.structs[idx].Fields = fields
	m.structs[idx].Defined = true
	return nil
}

func (m *Module) LookupStruct(name string) *StructDef {
	idx, ok := m.structIdx[name]
	if !ok {
		return nil
	}
	return m.structs[idx]
}

func (m *Module) AddGlobal(g *Global) *Global {
	m.Globals = append(m.Globals, g)
	return g
}

// DeclareFunction registers a bare declaration. If name is already known
// as a definition, the existing function is returned unchanged.
func (m *Module) DeclareFunction(name string, fnType *Type) *Function {
	if idx, ok := m.fnIdx[name]; ok {
		return m.Functions[idx]
	}
	fn := &Function{Name: name, FnType: fnType}
	m.fnIdx[name] = len(m.Functions)
	m.Functions = append(m.Functions, fn)
	return fn
}

// DefineFunction upgrades (or creates) name into a full definition with
// the given parameter names, ready for the builder to populate blocks.
func (m *Module) DefineFunction(name string, fnType *Type, paramNames []string) *Function {
	fn := m.DeclareFunction(name, fnType)
	fn.FnType = fnType
	fn.ParamNames = paramNames
	fn.Defined = true
	return fn
}

func (m *Module) FindFunction(name string) *Function {
	idx, ok := m.fnIdx[name]
	if !ok {
		return nil
	}
	return m.Functions[idx]
}

// size_in_bytes per spec §4.2: width in bytes for a lowered IR type. It
// fails when asked for a struct whose fields have not yet been defined.
func (m *Module) SizeInBytes(t *Type) (int, error) {
	switch t.Kind {
	case KVoid:
		return 0, nil
	case KInt:
		return (t.Bits + 7) / 8, nil
	case KPointer:
		return PointerWidthBits / 8, nil
	case KArray:
		elemSize, err := m.SizeInBytes(t.Elem)
		if err != nil {
			return 0, err
		}
		return elemSize * t.Count, nil
	case KStruct:
		def := m.LookupStruct(t.StructName)
		if def == nil || !def.Defined {
			return 0, compilererr.NewInternalError("size_in_bytes: struct %s is not yet defined", t.StructName)
		}
		total := 0
		for _, f := range def.Fields {
			sz, err := m.SizeInBytes(f)
			if err != nil {
				return 0, err
			}
			total += sz
		}
		return total, nil
	default:
		return 0, compilererr.NewInternalError("size_in_bytes: unsupported type kind %d", t.Kind)
	}
}

func (m *Module) String() string {
	var sb strings.Builder
	for _, c := range m.Comments {
		sb.WriteString("; ")
		sb.WriteString(c)
		sb.WriteString("\n")
	}
	sb.WriteString("target triple = \"")
	sb.WriteString(m.Triple)
	sb.WriteString("\"\n")
	sb.WriteString("target datalayout = \"")
	sb.WriteString(m.DataLayout)
	sb.WriteString("\"\n")

	for _, s := range m.structs {
		sb.WriteString("\n%")
		sb.WriteString(s.Name)
		sb.WriteString(" = type { ")
		for i, f := range s.Fields {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(f.String())
		}
		sb.WriteString(" }\n")
	}

	for _, g := range m.Globals {
		sb.WriteString("\n@")
		sb.WriteString(g.Name)
		sb.WriteString(" = ")
		if g.Linkage != "" {
			sb.WriteString(g.Linkage)
			sb.WriteString(" ")
		}
		if g.IsConst {
			sb.WriteString("constant ")
		} else {
			sb.WriteString("global ")
		}
		sb.WriteString(g.Pointee.String())
		sb.WriteString(" ")
		sb.WriteString(g.Init)
		sb.WriteString("\n")
	}

	for _, f := range m.Functions {
		sb.WriteString("\n")
		sb.WriteString(f.String())
		sb.WriteString("\n")
	}

	return sb.String()
}
