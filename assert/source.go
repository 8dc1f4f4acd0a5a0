// Package assert implements the assertion runner (spec.md §4.8,
// component C8): declaring and checking expectations about name
// resolution — that a reference resolves to specific definitions, or
// that a position defines or refers to specific symbols — typically
// parsed from inline test annotations and run against a built stack
// graph.
package assert

import (
	"fmt"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// Source identifies the position an assertion is checked at: a file plus
// a line/column, per spec.md §4.8 and the original crate's
// AssertionSource.
type Source struct {
	File     graph.File
	Position graph.Position
}

// Definitions returns every definition node in g whose span covers s.
func (s Source) Definitions(g *graph.StackGraph) []arena.Handle[graph.Node] {
	return s.filter(g, func(n *graph.Node) bool { return n.IsDefinition() })
}

// References returns every reference node in g whose span covers s.
func (s Source) References(g *graph.StackGraph) []arena.Handle[graph.Node] {
	return s.filter(g, func(n *graph.Node) bool { return n.IsReference() })
}

func (s Source) filter(g *graph.StackGraph, keep func(*graph.Node) bool) []arena.Handle[graph.Node] {
	var out []arena.Handle[graph.Node]
	for _, h := range g.NodesForFile(s.File) {
		n := g.Node(h)
		if !keep(n) {
			continue
		}
		info, ok := g.SourceInfo(h)
		if !ok || !info.Span.Contains(s.Position) {
			continue
		}
		out = append(out, h)
	}
	return out
}

// String renders "file:line:column" (1-based line/column), matching the
// original crate's AssertionSource::display.
func (s Source) String(g *graph.StackGraph) string {
	return fmt.Sprintf("%s:%d:%d", g.FileName(s.File), s.Position.Line+1, s.Position.Utf8Column+1)
}

// Target is the expected definition target of a Defined assertion: a
// definition matches if its span covers Line in File.
type Target struct {
	File graph.File
	Line int
}

// Matches reports whether node's span covers t's line, in t's file.
func (t Target) Matches(node arena.Handle[graph.Node], g *graph.StackGraph) bool {
	n := g.Node(node)
	if n.File() != t.File {
		return false
	}
	info, ok := g.SourceInfo(node)
	if !ok {
		return false
	}
	return info.Span.Start.Line <= t.Line && t.Line <= info.Span.End.Line
}
