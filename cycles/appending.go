package cycles

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

// Appendable is anything that can extend a partial path in place: a single
// graph edge, or a precomputed partial path pulled from a database.
// stitching.EdgeAppendable and stitching.PartialPathAppendable satisfy
// this structurally, without cycles importing stitching.
type Appendable interface {
	AppendTo(g *graph.StackGraph, partials *partial.PartialPaths, path *partial.PartialPath) error
	StartNode() arena.Handle[graph.Node]
	EndNode() arena.Handle[graph.Node]
}

// AppendableProvider resolves an opaque handle to its Appendable, the way
// stitching.Database resolves handles allocated from its own arenas.
type AppendableProvider[H any] interface {
	GetAppendable(h H) Appendable
}

// internedOrHandle unifies a handle to a path interned directly in this
// cycle detector's own arena with a handle into an external database,
// mirroring the Rust crate's InternedOrHandle enum.
type internedOrHandle[H any] struct {
	interned bool
	path     arena.Handle[partial.PartialPath]
	handle   H
}

func internedElement[H any](h arena.Handle[partial.PartialPath]) internedOrHandle[H] {
	return internedOrHandle[H]{interned: true, path: h}
}

func databaseElement[H any](h H) internedOrHandle[H] {
	return internedOrHandle[H]{handle: h}
}

func (e internedOrHandle[H]) startNode(provider AppendableProvider[H], interned *arena.Arena[partial.PartialPath]) arena.Handle[graph.Node] {
	if e.interned {
		return interned.Get(e.path).StartNode
	}
	return provider.GetAppendable(e.handle).StartNode()
}

func (e internedOrHandle[H]) endNode(provider AppendableProvider[H], interned *arena.Arena[partial.PartialPath]) arena.Handle[graph.Node] {
	if e.interned {
		return interned.Get(e.path).EndNode
	}
	return provider.GetAppendable(e.handle).EndNode()
}

func (e internedOrHandle[H]) appendTo(g *graph.StackGraph, partials *partial.PartialPaths, provider AppendableProvider[H], interned *arena.Arena[partial.PartialPath], path *partial.PartialPath) error {
	if e.interned {
		return partial.AppendPartialPath(path, *interned.Get(e.path))
	}
	return provider.GetAppendable(e.handle).AppendTo(g, partials, path)
}

// Appendables is the shared arena backing every AppendingCycleDetector in a
// single stitching run, so individual detectors stay cheap to copy: they
// hold only a handle into this shared storage.
type Appendables[H any] struct {
	elements arena.ListArena[internedOrHandle[H]]
	interned arena.Arena[partial.PartialPath]
}

// NewAppendables creates an empty shared arena.
func NewAppendables[H any]() *Appendables[H] {
	return &Appendables[H]{
		elements: *arena.NewListArena[internedOrHandle[H]](),
		interned: *arena.NewArena[partial.PartialPath](),
	}
}

// AppendingCycleDetector accumulates the sequence of appendages used to
// build one candidate path, so that once the path closes a loop, the
// sequence can be replayed backward to classify how it cycles.
type AppendingCycleDetector[H any] struct {
	appendages arena.List[internedOrHandle[H]]
}

// NewAppendingCycleDetector creates a detector with no history, suitable
// as the starting point for a seed path outside of any database appendage.
func NewAppendingCycleDetector[H any]() AppendingCycleDetector[H] {
	return AppendingCycleDetector[H]{}
}

// FromPartialPath creates a detector whose history starts with path,
// interned into appendables' own arena.
func FromPartialPath[H any](appendables *Appendables[H], path partial.PartialPath) AppendingCycleDetector[H] {
	h := appendables.interned.Add(path)
	var d AppendingCycleDetector[H]
	d.appendages = d.appendages.PushFront(&appendables.elements, internedElement[H](h))
	return d
}

// Append records that appendage was used to extend this detector's path,
// returning the extended detector. d itself is left unmodified: the
// underlying list is persistent, so callers fanning out multiple
// continuations from the same detector share history cheaply.
func (d AppendingCycleDetector[H]) Append(appendables *Appendables[H], appendage H) AppendingCycleDetector[H] {
	d.appendages = d.appendages.PushFront(&appendables.elements, databaseElement[H](appendage))
	return d
}

// IsCyclic walks d's history backward from its most recent appendage,
// looking for earlier points whose start node matches where the path
// currently ends. Each time it finds one, it replays that segment forward
// from the shared end node and composes it against the previous
// iteration's result, checking self-composition cyclicity
// (partial.IsCyclic) at increasing unroll depth. It stops, returning
// whatever cyclicity flags it has accumulated, once the history is
// exhausted without finding another occurrence.
func IsCyclic[H any](g *graph.StackGraph, partials *partial.PartialPaths, provider AppendableProvider[H], appendables *Appendables[H], d AppendingCycleDetector[H]) (partial.CyclicitySet, error) {
	var cycles partial.CyclicitySet

	// Peek at the front element without consuming it: remaining must still
	// include it, since the backward search below needs to be able to
	// match a cycle back to this very appendage (see cycles.rs's
	// `self.appendages.clone().pop_front(...)` vs. `remaining_appendages =
	// self.appendages`).
	head, _, ok := d.appendages.PopFront(&appendables.elements)
	if !ok {
		return cycles, nil
	}
	endNode := head.endNode(provider, &appendables.interned)

	var cyclicPath *partial.PartialPath
	remaining := d.appendages
	var prefixAppendages []internedOrHandle[H]

	for {
		counting := remaining
		cycleLength := 0
		for {
			appendage, rest, ok := counting.PopFront(&appendables.elements)
			if !ok {
				return cycles, nil
			}
			counting = rest
			cycleLength++
			if appendage.startNode(provider, &appendables.interned) == endNode {
				break
			}
		}

		prefixAppendages = prefixAppendages[:0]
		for i := 0; i < cycleLength; i++ {
			appendage, rest, _ := remaining.PopFront(&appendables.elements)
			remaining = rest
			prefixAppendages = append(prefixAppendages, appendage)
		}

		prefixPath := partials.FromNode(endNode)
		for i := len(prefixAppendages) - 1; i >= 0; i-- {
			if err := prefixAppendages[i].appendTo(g, partials, provider, &appendables.interned, &prefixPath); err != nil {
				return cycles, err
			}
		}

		if cyclicPath == nil {
			identity := partials.FromNode(endNode)
			cyclicPath = &identity
		}
		if err := partial.AppendPartialPath(&prefixPath, *cyclicPath); err != nil {
			return cycles, err
		}

		if prefixPath.Len() > 0 {
			if set, ok := partial.IsCyclic(prefixPath); ok {
				cycles |= set
			}
		}
		cyclicPath = &prefixPath
	}
}
