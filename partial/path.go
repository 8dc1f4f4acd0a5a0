package partial

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/stack"
)

// PartialPath is a path whose stacks carry preconditions (what the caller
// must already have on its stack) and postconditions (what remains after
// applying this path), per spec.md §3 "Partial path" and §4.4.
type PartialPath struct {
	StartNode, EndNode arena.Handle[graph.Node]

	SymbolPrecondition, SymbolPostcondition SymbolStack
	ScopePrecondition, ScopePostcondition   ScopeStack

	Edges []graph.Edge
}

// FromNode creates a zero-length partial path with fully closed (empty,
// variable-free) stacks. Unlike PartialPaths.FromNode, this variant
// asserts the stack is truly empty at this point rather than leaving it
// open for a caller to supply more — it is what a *complete* path's
// endpoints look like, not a general-purpose seed. Prefer
// (*PartialPaths).FromNode for stitching.
func FromNode(node arena.Handle[graph.Node]) PartialPath {
	return PartialPath{StartNode: node, EndNode: node}
}

// Len returns the number of edges this partial path has accumulated.
func (p PartialPath) Len() int { return len(p.Edges) }

// SeedAt creates the zero-length partial path that begins a search at
// node. AppendEdge only ever applies a node's push/pop action when that
// node arrives as an edge's sink, so the seed node itself — never reached
// via an edge within its own path — would otherwise lose its action
// entirely. SeedAt accounts for this: a push-kind seed has its push
// pre-applied to a closed postcondition (mirroring what AppendEdge would
// have done had the seed been reached via an edge); every other kind
// starts exactly like FromNode.
func SeedAt(g *graph.StackGraph, node arena.Handle[graph.Node]) (PartialPath, error) {
	p := FromNode(node)
	n := g.Node(node)

	switch n.Kind() {
	case graph.PushSymbol:
		symbol, _ := n.Symbol()
		p.SymbolPostcondition = p.SymbolPostcondition.Push(SymbolStackEntry{Symbol: symbol})

	case graph.PushScopedSymbol:
		symbol, _ := n.Symbol()
		scopeHandle, _ := n.AttachedScope()
		if !g.Node(scopeHandle).IsExported() {
			return PartialPath{}, &stack.PathError{Kind: stack.UnknownAttachedScope, Message: "attached scope is not exported"}
		}
		entry := SymbolStackEntry{Symbol: symbol, Scoped: true, Scopes: NewScopeStack([]arena.Handle[graph.Node]{scopeHandle}, 0)}
		p.SymbolPostcondition = p.SymbolPostcondition.Push(entry)
	}

	return p, nil
}

// AppendEdge extends p by one graph edge. A pop that finds nothing on the
// local (postcondition) stack peels one layer off the variable the
// precondition and postcondition share: a fresh variable is minted, the
// demanded entry is appended to the precondition in front of the new
// variable, and the postcondition's shared variable is replaced by the
// same fresh one — "the tail I haven't examined yet now starts with this
// entry". This is how a partial path built from an arbitrary interior
// node discovers what its caller must supply without ever assuming the
// caller's stack is empty.
func AppendEdge(g *graph.StackGraph, partials *PartialPaths, p PartialPath, edge graph.Edge) (PartialPath, error) {
	if edge.Source != p.EndNode {
		return PartialPath{}, &stack.PathError{Kind: stack.IncorrectSourceNode, Message: "edge source does not match path end"}
	}

	sourceNode := g.Node(edge.Source)
	sinkNode := g.Node(edge.Sink)
	if sourceNode.File().Valid() && sinkNode.File().Valid() && sourceNode.File() != sinkNode.File() {
		return PartialPath{}, &stack.PathError{Kind: stack.IncorrectFile, Message: "edge crosses files without passing through root"}
	}

	next := p
	next.Edges = append(append([]graph.Edge(nil), p.Edges...), edge)

	switch sinkNode.Kind() {
	case graph.PushSymbol:
		symbol, _ := sinkNode.Symbol()
		next.SymbolPostcondition = p.SymbolPostcondition.Push(SymbolStackEntry{Symbol: symbol})
		next.EndNode = edge.Sink

	case graph.PushScopedSymbol:
		symbol, _ := sinkNode.Symbol()
		scopeHandle, _ := sinkNode.AttachedScope()
		if !g.Node(scopeHandle).IsExported() {
			return PartialPath{}, &stack.PathError{Kind: stack.UnknownAttachedScope, Message: "attached scope is not exported"}
		}
		entry := SymbolStackEntry{Symbol: symbol, Scoped: true, Scopes: NewScopeStack([]arena.Handle[graph.Node]{scopeHandle}, 0)}
		next.SymbolPostcondition = p.SymbolPostcondition.Push(entry)
		next.EndNode = edge.Sink

	case graph.PopSymbol:
		entry, rest, err := popSymbol(partials, &next, sinkNode)
		if err != nil {
			return PartialPath{}, err
		}
		if entry.Scoped {
			return PartialPath{}, &stack.PathError{Kind: stack.UnexpectedAttachedScopeList, Message: "popped symbol unexpectedly carries an attached scope"}
		}
		next.SymbolPostcondition = rest
		next.EndNode = edge.Sink

	case graph.PopScopedSymbol:
		entry, rest, err := popSymbol(partials, &next, sinkNode)
		if err != nil {
			return PartialPath{}, err
		}
		if !entry.Scoped {
			return PartialPath{}, &stack.PathError{Kind: stack.MissingAttachedScopeList, Message: "popped symbol is missing its attached scope"}
		}
		next.SymbolPostcondition = rest
		next.ScopePostcondition = prependScopes(next.ScopePostcondition, entry.Scopes)
		next.EndNode = edge.Sink

	case graph.JumpToScope:
		scope, rest, ok := popScope(&next)
		if !ok {
			return PartialPath{}, newErr(ScopeStackUnsatisfied, "jump-to-scope needs a concrete scope this partial path cannot supply locally")
		}
		next.ScopePostcondition = rest
		next.EndNode = scope

	default: // Root, Scope, Internal
		next.EndNode = edge.Sink
	}

	return next, nil
}

// AppendPartialPath extends *path by composing it with appendage
// (path = path ∘ appendage), mutating path in place. It mirrors the
// PartialPath::append_to method the original Rust crate uses to implement
// the Appendable trait.
func AppendPartialPath(path *PartialPath, appendage PartialPath) error {
	composed, err := Compose(*path, appendage)
	if err != nil {
		return err
	}
	*path = composed
	return nil
}

// popSymbol pops the top entry off next's postcondition. When the
// postcondition has no concrete entries left, its trailing variable (the
// unexamined tail shared with the precondition) is peeled: a fresh
// variable replaces it on both sides, with the demanded entry appended to
// the precondition just before the new tail.
func popSymbol(partials *PartialPaths, next *PartialPath, sinkNode *graph.Node) (SymbolStackEntry, SymbolStack, error) {
	symbol, _ := sinkNode.Symbol()
	if len(next.SymbolPostcondition.entries) > 0 {
		top := next.SymbolPostcondition.entries[0]
		if top.Symbol != symbol {
			return SymbolStackEntry{}, SymbolStack{}, &stack.PathError{Kind: stack.IncorrectPoppedSymbol, Message: "popped symbol does not match"}
		}
		rest := NewSymbolStack(next.SymbolPostcondition.entries[1:], next.SymbolPostcondition.Variable)
		return top, rest, nil
	}

	demanded := SymbolStackEntry{Symbol: symbol}
	if next.SymbolPostcondition.Variable == 0 {
		return SymbolStackEntry{}, SymbolStack{}, &stack.PathError{Kind: stack.EmptySymbolStack, Message: "postcondition is closed empty; nothing left to pop"}
	}
	fresh := partials.FreshSymbolVariable()
	next.SymbolPrecondition = NewSymbolStack(
		append(append([]SymbolStackEntry(nil), next.SymbolPrecondition.entries...), demanded),
		fresh,
	)
	return demanded, VariableSymbolStack(fresh), nil
}

// popScope is the scope-stack analogue of popSymbol, but it cannot peel a
// shared variable the way popSymbol does: a scope stack entry is a
// concrete node handle, and there is no way to manufacture one from an
// unresolved tail. A jump-to-scope that needs more than this path's known
// concrete scopes is therefore a genuine construction failure, not a new
// precondition entry.
func popScope(next *PartialPath) (arena.Handle[graph.Node], ScopeStack, bool) {
	if len(next.ScopePostcondition.scopes) == 0 {
		return arena.Handle[graph.Node]{}, ScopeStack{}, false
	}
	top := next.ScopePostcondition.scopes[0]
	rest := NewScopeStack(next.ScopePostcondition.scopes[1:], next.ScopePostcondition.Variable)
	return top, rest, true
}

func prependScopes(onto ScopeStack, list ScopeStack) ScopeStack {
	entries := append(append([]arena.Handle[graph.Node](nil), list.scopes...), onto.scopes...)
	return NewScopeStack(entries, onto.Variable)
}

// Compose implements P1 ∘ P2 (spec.md §4.4): p1's postconditions are
// unified with p2's preconditions, and the result carries p1's
// precondition, p2's postcondition (both with bindings applied), and the
// concatenated edge list. p1.EndNode must equal p2.StartNode.
func Compose(p1, p2 PartialPath) (PartialPath, error) {
	if p1.EndNode != p2.StartNode {
		return PartialPath{}, &stack.PathError{Kind: stack.IncorrectSourceNode, Message: "composition requires p1.end == p2.start"}
	}

	bindings := NewBindings()
	if err := UnifySymbolStack(p1.SymbolPostcondition, p2.SymbolPrecondition, bindings); err != nil {
		return PartialPath{}, err
	}
	if err := UnifyScopeStack(p1.ScopePostcondition, p2.ScopePrecondition, bindings); err != nil {
		return PartialPath{}, err
	}

	precondition, err := bindings.ApplySymbol(p1.SymbolPrecondition)
	if err != nil {
		return PartialPath{}, err
	}
	postcondition, err := bindings.ApplySymbol(p2.SymbolPostcondition)
	if err != nil {
		return PartialPath{}, err
	}
	scopePrecondition, err := bindings.ApplyScope(p1.ScopePrecondition)
	if err != nil {
		return PartialPath{}, err
	}
	scopePostcondition, err := bindings.ApplyScope(p2.ScopePostcondition)
	if err != nil {
		return PartialPath{}, err
	}

	return PartialPath{
		StartNode:           p1.StartNode,
		EndNode:             p2.EndNode,
		SymbolPrecondition:  precondition,
		SymbolPostcondition: postcondition,
		ScopePrecondition:   scopePrecondition,
		ScopePostcondition:  scopePostcondition,
		Edges:               append(append([]graph.Edge(nil), p1.Edges...), p2.Edges...),
	}, nil
}
