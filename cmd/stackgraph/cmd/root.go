package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the top-level "stackgraph" command and attaches its
// subcommands, mirroring the teacher's own newXCmd(c)-per-subcommand
// composition style.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stackgraph",
		Short:         "Build stack graphs from Go source and check name-resolution assertions",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newDumpCmd())

	return root
}
