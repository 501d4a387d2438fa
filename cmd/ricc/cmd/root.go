package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ricc",
	Short: "Rust-subset compiler front-end/mid-end",
	Long: `ricc parses a small, statically-typed Rust subset, runs semantic
analysis and type lowering over it, and emits LLVM-style IR text.

It is a batch program: source comes in on standard input (or via --file),
the IR module goes out on standard output, and the only failure signal is
a one-line diagnostic on standard error plus a non-zero exit status.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          compileAction,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
		return err
	}
	return nil
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
