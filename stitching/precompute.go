package stitching

import (
	stackgraph "github.com/viant/stackgraph"
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

// PrecomputeFile runs the within-file variant of the stitching search over
// file and stores every result in db (spec.md's Dataflow sentence: "C4
// precomputes per-file partial paths by running a within-file variant of
// C7 seeded at every endpoint node. These partial paths are handed to
// C5."). Every reference and definition in file is seeded via
// FindPartialPathsWithinFile, which reports both paths that fully resolve
// inside the file and paths that dead-end at the graph's Root boundary
// with their stacks still open — the latter is what lets a cross-file
// search crossing this file's own Root edge compose the whole of file's
// internal routing in one database candidate instead of walking it edge
// by edge.
//
// Callers run PrecomputeFile once per file before any stitching run draws
// on db, matching Database's own contract: populated ahead of time, then
// shared read-only across concurrent runs.
func PrecomputeFile(
	g *graph.StackGraph,
	db *Database,
	partials *partial.PartialPaths,
	file graph.File,
	config StitcherConfig,
	cancel stackgraph.CancellationFlag,
) error {
	var starts []arena.Handle[graph.Node]
	for _, h := range g.NodesForFile(file) {
		n := g.Node(h)
		if n.IsReference() || g.IsDefinition(h) {
			starts = append(starts, h)
		}
	}
	if len(starts) == 0 {
		return nil
	}

	return FindPartialPathsWithinFile(g, db, partials, starts, file, config, cancel, func(p partial.PartialPath) {
		db.Add(p)
	})
}
