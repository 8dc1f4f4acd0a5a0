// Command stackgraph builds a stack graph from a Go project directory and
// checks an assertion file against it, printing pass/fail diagnostics.
// It is an external consumer of the core formalism (spec.md §1: "the core
// does not parse source"), the Go analogue of the original crate's
// `tree-sitter-stack-graphs` CLI, grounded in structure on the teacher's
// `cmd/cue` command tree.
package main

import (
	"fmt"
	"os"

	"github.com/viant/stackgraph/cmd/stackgraph/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
