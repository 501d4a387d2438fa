package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/rustlite/ricc/internal/irgen"
	"github.com/rustlite/ricc/internal/parser"
	"github.com/rustlite/ricc/internal/semantic"
	"github.com/spf13/cobra"
)

var (
	compileFile string
	dumpTables  bool
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a source program to IR text",
	Long: `Read a Rust-subset source program, run it through the full
pipeline (lex, parse, analyze, lower, generate), and print the resulting
IR module to standard output.

With no --file, the program is read from standard input:

  ricc compile < program.rs
  ricc compile --file program.rs`,
	RunE: compileAction,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&compileFile, "file", "", "read source from this file instead of stdin")
	compileCmd.Flags().BoolVar(&dumpTables, "dump-tables", false, "write a scope/decl/IR-function count summary to stderr")

	rootCmd.Flags().StringVar(&compileFile, "file", "", "read source from this file instead of stdin")
	rootCmd.Flags().BoolVar(&dumpTables, "dump-tables", false, "write a scope/decl/IR-function count summary to stderr")
}

func compileAction(cmd *cobra.Command, _ []string) error {
	src, err := readSource(cmd)
	if err != nil {
		return err
	}

	items, err := parser.Parse(src)
	if err != nil {
		return err
	}

	analyzer := semantic.NewAnalyzer()
	if err := analyzer.Analyze(items); err != nil {
		return err
	}

	g, err := irgen.New()
	if err != nil {
		return err
	}
	if err := g.Generate(items, analyzer.Tables); err != nil {
		return err
	}

	if dumpTables {
		dumpTableSummary(analyzer.Tables, g)
	}

	fmt.Fprintln(cmd.OutOrStdout(), g.Module.String())
	return nil
}

func readSource(cmd *cobra.Command) (string, error) {
	if compileFile != "" {
		if verbose {
			log.Printf("reading source from %s", compileFile)
		}
		data, err := os.ReadFile(compileFile)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", err
	}
	if verbose {
		log.Printf("reading %d bytes from stdin", len(data))
	}
	return string(data), nil
}

// dumpTableSummary writes a short development-aid line to standard error:
// counts of scopes, function and const declarations, and IR functions.
func dumpTableSummary(tables *semantic.Tables, g *irgen.Generator) {
	scopeCount := countScopes(tables.RootScope)
	fmt.Fprintf(os.Stderr, "scopes=%d fn_decls=%d const_decls=%d ir_functions=%d\n",
		scopeCount,
		len(tables.FnItemToDecl),
		len(tables.ConstValueMap),
		len(g.Module.Functions),
	)
}

func countScopes(s *semantic.Scope) int {
	n := 1
	for _, child := range s.Children {
		n += countScopes(child)
	}
	return n
}
