// Package stack implements the symbol stack, scope stack, path, and step
// function from spec.md §3 "Path" and §4.3 "Stacks & paths" (component C3).
package stack

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// SymbolStackEntry is one element of the symbol stack: a symbol plus an
// optional attached scope (pushed by Push-scoped-symbol nodes, consumed by
// Pop-scoped-symbol nodes).
type SymbolStackEntry struct {
	Symbol        graph.Symbol
	AttachedScope arena.Handle[graph.Node]
	HasScope      bool
}

// SymbolStack is a persistent, arena-backed LIFO of SymbolStackEntry.
type SymbolStack = arena.List[SymbolStackEntry]

// ScopeStack is a persistent, arena-backed LIFO of scope node handles.
type ScopeStack = arena.List[arena.Handle[graph.Node]]

// EdgeTrace is a persistent, arena-backed list of edges, stored most
// recent first so that extending a path by one edge is O(1) and shares
// structure with every other extension of the same prefix.
type EdgeTrace = arena.List[graph.Edge]

// Paths owns the shared arenas backing every SymbolStack, ScopeStack and
// EdgeTrace produced by this package's functions. Spec.md §3 "Lifetimes
// and ownership" requires this arena be threaded explicitly through every
// call rather than embedded in Path, so many lightweight Path values can
// share list cells without reference cycles or per-path allocation.
type Paths struct {
	symbolCells *arena.ListArena[SymbolStackEntry]
	scopeCells  *arena.ListArena[arena.Handle[graph.Node]]
	edgeCells   *arena.ListArena[graph.Edge]
}

// NewPaths creates a fresh, empty set of backing arenas.
func NewPaths() *Paths {
	return &Paths{
		symbolCells: arena.NewListArena[SymbolStackEntry](),
		scopeCells:  arena.NewListArena[arena.Handle[graph.Node]](),
		edgeCells:   arena.NewListArena[graph.Edge](),
	}
}

// PushSymbol returns stack with entry prepended.
func (p *Paths) PushSymbol(stack SymbolStack, entry SymbolStackEntry) SymbolStack {
	return stack.PushFront(p.symbolCells, entry)
}

// PopSymbol removes and returns the top of stack.
func (p *Paths) PopSymbol(stack SymbolStack) (SymbolStackEntry, SymbolStack, bool) {
	return stack.PopFront(p.symbolCells)
}

// PushScope returns stack with scope prepended.
func (p *Paths) PushScope(stack ScopeStack, scope arena.Handle[graph.Node]) ScopeStack {
	return stack.PushFront(p.scopeCells, scope)
}

// PopScope removes and returns the top of stack.
func (p *Paths) PopScope(stack ScopeStack) (arena.Handle[graph.Node], ScopeStack, bool) {
	return stack.PopFront(p.scopeCells)
}

// SymbolStackToSlice materializes stack top-to-bottom.
func (p *Paths) SymbolStackToSlice(stack SymbolStack) []SymbolStackEntry {
	return stack.ToSlice(p.symbolCells)
}

// ScopeStackToSlice materializes stack top-to-bottom.
func (p *Paths) ScopeStackToSlice(stack ScopeStack) []arena.Handle[graph.Node] {
	return stack.ToSlice(p.scopeCells)
}

// Path is a (possibly incomplete) walk through a stack graph, carrying the
// symbol and scope stacks as they stood after its last edge, per spec.md
// §3 "Path".
type Path struct {
	Start, End arena.Handle[graph.Node]
	Symbols    SymbolStack
	Scopes     ScopeStack
	trace      EdgeTrace // most-recent-first
	length     int
}

// FromNode creates a zero-length path that starts and ends at node, with
// empty stacks — the seed a stitching run starts from.
func FromNode(node arena.Handle[graph.Node]) Path {
	return Path{Start: node, End: node}
}

// Len returns the number of edges in the path's trace.
func (path Path) Len() int { return path.length }

// Edges materializes the path's trace in traversal order (oldest first).
func (path Path) Edges(p *Paths) []graph.Edge {
	reversed := path.trace.ToSlice(p.edgeCells)
	out := make([]graph.Edge, len(reversed))
	for i, e := range reversed {
		out[len(reversed)-1-i] = e
	}
	return out
}

// IsComplete reports whether path is a complete path per spec.md §3,
// invariant 4: it starts at a reference, ends at a definition or at a
// jump-to-scope with an empty scope stack, and both stacks are empty.
func IsComplete(g *graph.StackGraph, paths *Paths, path Path) bool {
	if !path.Symbols.IsEmpty() || !path.Scopes.IsEmpty() {
		return false
	}
	startNode := g.Node(path.Start)
	if !startNode.IsReference() {
		return false
	}
	endNode := g.Node(path.End)
	if g.IsDefinition(path.End) {
		return true
	}
	if endNode.Kind() == graph.JumpToScope && path.Scopes.IsEmpty() {
		return true
	}
	return false
}

// Step extends path by edge, applying the stack-machine semantics of
// edge.Sink's node kind (spec.md §4.3 "Step function"). On success it
// returns the new path; on failure it returns a *PathError and the
// original path is left untouched — the caller (typically the stitcher)
// simply discards the candidate.
func Step(g *graph.StackGraph, paths *Paths, path Path, edge graph.Edge) (Path, error) {
	if edge.Source != path.End {
		return Path{}, newErr(IncorrectSourceNode, "edge source %v does not match path end %v", edge.Source, path.End)
	}

	sourceNode := g.Node(edge.Source)
	sinkNode := g.Node(edge.Sink)
	if sourceNode.File().Valid() && sinkNode.File().Valid() && sourceNode.File() != sinkNode.File() {
		return Path{}, newErr(IncorrectFile, "edge crosses files %q -> %q without passing through root", g.FileName(sourceNode.File()), g.FileName(sinkNode.File()))
	}

	next := path
	next.trace = path.trace.PushFront(paths.edgeCells, edge)
	next.length = path.length + 1

	switch sinkNode.Kind() {
	case graph.PushSymbol:
		symbol, _ := sinkNode.Symbol()
		next.Symbols = paths.PushSymbol(path.Symbols, SymbolStackEntry{Symbol: symbol})
		next.End = edge.Sink

	case graph.PushScopedSymbol:
		symbol, _ := sinkNode.Symbol()
		scopeHandle, _ := sinkNode.AttachedScope()
		if !g.Node(scopeHandle).IsExported() {
			return Path{}, newErr(UnknownAttachedScope, "attached scope %v is not exported", scopeHandle)
		}
		next.Symbols = paths.PushSymbol(path.Symbols, SymbolStackEntry{Symbol: symbol, AttachedScope: scopeHandle, HasScope: true})
		next.End = edge.Sink

	case graph.PopSymbol:
		top, rest, ok := paths.PopSymbol(path.Symbols)
		if !ok {
			return Path{}, newErr(EmptySymbolStack, "no symbol to pop at %v", edge.Sink)
		}
		symbol, _ := sinkNode.Symbol()
		if top.Symbol != symbol {
			return Path{}, newErr(IncorrectPoppedSymbol, "expected %q, found %q", g.SymbolName(symbol), g.SymbolName(top.Symbol))
		}
		if top.HasScope {
			return Path{}, newErr(UnexpectedAttachedScopeList, "popped symbol %q unexpectedly carries an attached scope", g.SymbolName(symbol))
		}
		next.Symbols = rest
		next.End = edge.Sink

	case graph.PopScopedSymbol:
		top, rest, ok := paths.PopSymbol(path.Symbols)
		if !ok {
			return Path{}, newErr(EmptySymbolStack, "no symbol to pop at %v", edge.Sink)
		}
		symbol, _ := sinkNode.Symbol()
		if top.Symbol != symbol {
			return Path{}, newErr(IncorrectPoppedSymbol, "expected %q, found %q", g.SymbolName(symbol), g.SymbolName(top.Symbol))
		}
		if !top.HasScope {
			return Path{}, newErr(MissingAttachedScopeList, "popped symbol %q is missing its attached scope", g.SymbolName(symbol))
		}
		next.Symbols = rest
		next.Scopes = paths.PushScope(path.Scopes, top.AttachedScope)
		next.End = edge.Sink

	case graph.JumpToScope:
		scope, rest, ok := paths.PopScope(path.Scopes)
		if !ok {
			return Path{}, newErr(EmptyScopeStack, "no scope to jump to")
		}
		next.Scopes = rest
		next.End = scope

	default: // Root, Scope, Internal: no stack effect
		next.End = edge.Sink
	}

	return next, nil
}
