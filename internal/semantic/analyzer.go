package semantic

import (
	"github.com/rustlite/ricc/internal/ast"
	"github.com/rustlite/ricc/internal/compilererr"
)

// Analyzer runs the four ordered passes over a parsed item list and
// produces the Tables that type lowering and IR generation consume.
type Analyzer struct {
	Tables          *Tables
	BuiltinMethods  map[Kind]map[string]*FnDecl
	BuiltinAssocFns map[string]map[string]*FnDecl

	sizeWork []sizeWorkItem
}

// NewAnalyzer returns an Analyzer with empty tables, ready for Analyze.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Tables: NewTables()}
}

// Analyze runs all four passes over items in order, returning the first
// error encountered. On success, a.Tables is fully populated.
func (a *Analyzer) Analyze(items []ast.Item) error {
	root := NewScope(nil, ScopeRoot)
	a.Tables.RootScope = root
	a.BuiltinMethods, a.BuiltinAssocFns = installBuiltins(root)

	if err := runPass1(items, a.Tables, root); err != nil {
		return err
	}
	if err := a.runPass2(root); err != nil {
		return err
	}
	if err := a.runPass3(items); err != nil {
		return err
	}
	if err := a.runPass4(items); err != nil {
		return err
	}

	if !hasMain(root) {
		return compilererr.NewCompileError("no function named main in the root scope")
	}
	return nil
}

func hasMain(root *Scope) bool {
	ref, ok := root.ValueNamespace["main"]
	return ok && ref.Fn != nil && ref.Fn.IsMain
}
