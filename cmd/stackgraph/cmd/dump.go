package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/debug"
	"github.com/viant/stackgraph/discovery"
	"github.com/viant/stackgraph/frontend/goref"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/serde"
)

func newDumpCmd() *cobra.Command {
	var text bool

	cmd := &cobra.Command{
		Use:   "dump <project-dir>",
		Short: "Build a stack graph for a Go project and print its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, args[0], text)
		},
	}

	cmd.Flags().BoolVar(&text, "text", false, "print a human-readable per-node listing (with any debug attributes) instead of the YAML snapshot")
	return cmd
}

func runDump(cmd *cobra.Command, dir string, text bool) error {
	ctx := context.Background()

	proj, err := discovery.DetectProject(dir)
	if err != nil {
		return err
	}
	sources, err := proj.Sources(ctx, afs.New())
	if err != nil {
		return err
	}

	g := graph.New()
	builder := goref.NewBuilder(g)
	for _, src := range sources {
		data, err := os.ReadFile(src.AbsPath)
		if err != nil {
			return fmt.Errorf("read %s: %w", src.AbsPath, err)
		}
		if err := builder.ParseFile(src.RelPath, data); err != nil {
			return err
		}
	}
	builder.Link()

	if text {
		return dumpText(cmd, g)
	}

	snap := serde.Snapshot(g, serde.NoFilter{})
	body, err := serde.Marshal(snap)
	if err != nil {
		return err
	}

	_, err = cmd.OutOrStdout().Write(body)
	return err
}

// dumpText prints one line per node, grouped by file, with any debug
// attributes goref attached (e.g. the tree-sitter production that
// produced the node) — the plain-text counterpart to the YAML snapshot,
// meant for quickly eyeballing a build rather than feeding a persistence
// round-trip.
func dumpText(cmd *cobra.Command, g *graph.StackGraph) error {
	out := cmd.OutOrStdout()
	for _, file := range g.Files() {
		fmt.Fprintf(out, "%s\n", g.FileName(file))
		for _, h := range g.NodesForFile(file) {
			fmt.Fprintf(out, "  %s\n", describeNode(g, h))
		}
	}
	return nil
}

func describeNode(g *graph.StackGraph, h arena.Handle[graph.Node]) string {
	n := g.Node(h)
	desc := fmt.Sprintf("#%d %s", n.LocalID(), n.Kind())
	if symbol, ok := n.Symbol(); ok {
		desc += fmt.Sprintf(" %q", g.SymbolName(symbol))
	}

	info, ok := g.DebugInfo(h)
	if !ok || info.Len() == 0 {
		return desc
	}
	return desc + " " + formatDebugInfo(info)
}

func formatDebugInfo(info *debug.Info) string {
	out := "{"
	for i, key := range info.Keys() {
		if i > 0 {
			out += ", "
		}
		value, _ := info.Get(key)
		out += fmt.Sprintf("%s=%s", key, value)
	}
	return out + "}"
}
