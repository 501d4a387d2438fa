// Command ricc compiles a Rust-subset source program into LLVM-style IR.
package main

import (
	"os"

	"github.com/rustlite/ricc/cmd/ricc/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
