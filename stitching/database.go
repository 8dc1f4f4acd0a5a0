package stitching

import (
	"sort"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/cycles"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

// Database is an append-only store of precomputed partial paths, indexed
// by both endpoints so a stitcher can enumerate candidates that start or
// end at a given node in either direction (spec.md §4.5 "Database").
//
// Database is read-only during a stitching run (spec.md §5): callers
// populate it ahead of time (typically one partial path per file-local
// definition/reference precomputed once) and then share it, read-only,
// across every concurrent stitching run over the same graph.
type Database struct {
	paths      arena.Arena[partial.PartialPath]
	startingAt map[arena.Handle[graph.Node]][]arena.Handle[partial.PartialPath]
	endingAt   map[arena.Handle[graph.Node]][]arena.Handle[partial.PartialPath]
}

var _ cycles.AppendableProvider[arena.Handle[partial.PartialPath]] = (*Database)(nil)

// NewDatabase creates an empty database.
func NewDatabase() *Database {
	return &Database{
		paths:      *arena.NewArena[partial.PartialPath](),
		startingAt: make(map[arena.Handle[graph.Node]][]arena.Handle[partial.PartialPath]),
		endingAt:   make(map[arena.Handle[graph.Node]][]arena.Handle[partial.PartialPath]),
	}
}

// Add stores path, returning the handle future lookups use. Handles are
// assigned in insertion order and never reused.
func (d *Database) Add(path partial.PartialPath) arena.Handle[partial.PartialPath] {
	h := d.paths.Add(path)
	d.startingAt[path.StartNode] = append(d.startingAt[path.StartNode], h)
	d.endingAt[path.EndNode] = append(d.endingAt[path.EndNode], h)
	return h
}

// Get dereferences a handle previously returned by Add.
func (d *Database) Get(h arena.Handle[partial.PartialPath]) partial.PartialPath {
	return *d.paths.Get(h)
}

// PathsStartingAt returns the handles of every partial path starting at
// node, sorted by handle id so iteration is deterministic regardless of
// Go's unordered map iteration (spec.md §5 "database iteration sorted by
// stored handle id").
func (d *Database) PathsStartingAt(node arena.Handle[graph.Node]) []arena.Handle[partial.PartialPath] {
	return sortedCopy(d.startingAt[node])
}

// PathsEndingAt is the symmetric lookup for the other endpoint.
func (d *Database) PathsEndingAt(node arena.Handle[graph.Node]) []arena.Handle[partial.PartialPath] {
	return sortedCopy(d.endingAt[node])
}

// All returns every stored handle, in ascending handle order, for
// serialization (spec.md §6 "Persistence").
func (d *Database) All() []arena.Handle[partial.PartialPath] {
	handles := make([]arena.Handle[partial.PartialPath], 0, d.paths.Len())
	d.paths.Iter(func(h arena.Handle[partial.PartialPath], _ *partial.PartialPath) {
		handles = append(handles, h)
	})
	return handles
}

func sortedCopy(in []arena.Handle[partial.PartialPath]) []arena.Handle[partial.PartialPath] {
	out := append([]arena.Handle[partial.PartialPath](nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Index() < out[j].Index() })
	return out
}

// GetAppendable resolves a database handle to its Appendable, satisfying
// cycles.AppendableProvider[arena.Handle[partial.PartialPath]].
func (d *Database) GetAppendable(h arena.Handle[partial.PartialPath]) cycles.Appendable {
	return PartialPathAppendable{Path: d.Get(h)}
}
