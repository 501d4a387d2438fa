package irgen

import (
	"fmt"
	"sort"

	"github.com/rustlite/ricc/internal/ir"
	"github.com/rustlite/ricc/internal/semantic"
)

// globalDriver walks the scope tree in DFS order, assigning each
// non-root scope a position-derived suffix, and pre-lowers structs,
// function declarations, and array-typed constants ahead of any
// function body generation (spec §4.4.3).
type globalDriver struct {
	g *Generator
}

func (d *globalDriver) run(root *semantic.Scope) error {
	root.Suffix = ""
	return d.walk(root)
}

func (d *globalDriver) walk(s *semantic.Scope) error {
	typeNames := sortedTypeNames(s.TypeNamespace)
	for _, name := range typeNames {
		ref := s.TypeNamespace[name]
		if ref.Struct == nil {
			continue
		}
		if _, err := d.g.TL.Lower(&semantic.RealType{Kind: semantic.KStruct, Name: ref.Struct.Name, StructDecl: ref.Struct}); err != nil {
			return err
		}
	}
	for _, name := range typeNames {
		ref := s.TypeNamespace[name]
		if ref.Struct == nil {
			continue
		}
		if err := d.g.TL.DefineStruct(ref.Struct); err != nil {
			return err
		}
		if _, err := d.g.TL.SizeInBytes(ir.NamedStruct(ref.Struct.Name)); err != nil {
			return err
		}
	}

	for _, name := range sortedValueNames(s.ValueNamespace) {
		ref := s.ValueNamespace[name]
		if ref.Fn != nil && !ref.Fn.IsBuiltin {
			fnType, err := d.g.TL.LowerFunction(ref.Fn)
			if err != nil {
				return err
			}
			symbol := ref.Fn.Name + s.Suffix
			d.g.fnSymbol[ref.Fn] = symbol
			d.g.Module.DeclareFunction(symbol, fnType)
		}
		if ref.Const != nil {
			if err := d.globalizeConstIfArray(s, ref.Const); err != nil {
				return err
			}
		}
	}

	for i, child := range s.Children {
		child.Suffix = s.Suffix + fmt.Sprintf(".%d", i)
		if err := d.walk(child); err != nil {
			return err
		}
	}
	return nil
}

func (d *globalDriver) globalizeConstIfArray(s *semantic.Scope, decl *semantic.ConstDecl) error {
	if decl.Type.Kind != semantic.KArray {
		return nil
	}
	cv, ok := d.g.Tables.ConstValueMap[decl]
	if !ok {
		return nil
	}
	init, err := d.g.TL.SerializeArrayConst(cv, decl.Type.Elem)
	if err != nil {
		return err
	}
	arrIR, err := d.g.TL.Lower(decl.Type)
	if err != nil {
		return err
	}
	name := "const." + decl.AST.Name + s.Suffix
	g := d.g.Module.AddGlobal(&ir.Global{Name: name, Pointee: arrIR, Init: init, Linkage: "private", IsConst: true})
	d.g.constGlobal[decl] = g
	return nil
}

func sortedTypeNames(m map[string]*semantic.TypeDeclRef) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func sortedValueNames(m map[string]*semantic.ValueDeclRef) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
