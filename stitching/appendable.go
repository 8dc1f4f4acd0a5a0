// Package stitching implements the forward partial-path stitching
// algorithm (spec.md §4.5-§4.7, components C5 and C7): a database of
// precomputed partial paths, and the worklist-driven search that appends
// edges and database entries onto in-flight candidates until they close
// into complete paths.
//
// original_source/stack-graphs/src/ does not contain a stitching.rs (see
// DESIGN.md), so this package is grounded directly on spec.md's prose
// description of the algorithm, plus the call shapes cycles.rs expects
// from an Appendable/AppendableProvider pair.
package stitching

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/cycles"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

// Appendable is anything the stitcher can splice onto the end of an
// in-flight partial path. It has the same method shape as
// cycles.Appendable; EdgeAppendable and PartialPathAppendable satisfy both
// interfaces structurally. cycles declares its own copy because it cannot
// import stitching (see DESIGN.md "C6 — cycles").
type Appendable interface {
	AppendTo(g *graph.StackGraph, partials *partial.PartialPaths, path *partial.PartialPath) error
	StartNode() arena.Handle[graph.Node]
	EndNode() arena.Handle[graph.Node]
}

var _ cycles.Appendable = EdgeAppendable{}
var _ cycles.Appendable = PartialPathAppendable{}

// EdgeAppendable extends a candidate path by a single graph edge
// (spec.md §4.5 "Edge appendable").
type EdgeAppendable struct {
	Edge graph.Edge
}

func (a EdgeAppendable) AppendTo(g *graph.StackGraph, partials *partial.PartialPaths, path *partial.PartialPath) error {
	next, err := partial.AppendEdge(g, partials, *path, a.Edge)
	if err != nil {
		return err
	}
	*path = next
	return nil
}

func (a EdgeAppendable) StartNode() arena.Handle[graph.Node] { return a.Edge.Source }
func (a EdgeAppendable) EndNode() arena.Handle[graph.Node]   { return a.Edge.Sink }

// PartialPathAppendable extends a candidate path by composing it with a
// precomputed partial path pulled from a Database (spec.md §4.5
// "Partial-path appendable").
type PartialPathAppendable struct {
	Path partial.PartialPath
}

func (a PartialPathAppendable) AppendTo(g *graph.StackGraph, partials *partial.PartialPaths, path *partial.PartialPath) error {
	return partial.AppendPartialPath(path, a.Path)
}

func (a PartialPathAppendable) StartNode() arena.Handle[graph.Node] { return a.Path.StartNode }
func (a PartialPathAppendable) EndNode() arena.Handle[graph.Node]   { return a.Path.EndNode }
