package partial

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// PartialPaths is the per-run context threaded through every partial-path
// operation, mirroring the `&mut PartialPaths` parameter the original Rust
// crate passes alongside `&StackGraph` (see cycles.rs's calls to
// `PartialPath::from_node(graph, partials, end_node)`). It owns the
// monotonically increasing counters used to mint fresh stack variables, so
// that composing many candidate paths during a single stitching run never
// collides variable ids (spec.md §9 design note, "Variable renaming on
// composition").
type PartialPaths struct {
	nextSymbolVar SymbolStackVariable
	nextScopeVar  ScopeStackVariable
}

func NewPartialPaths() *PartialPaths {
	return &PartialPaths{}
}

// FreshSymbolVariable mints a symbol-stack variable unique within this run.
func (pp *PartialPaths) FreshSymbolVariable() SymbolStackVariable {
	pp.nextSymbolVar++
	return pp.nextSymbolVar
}

// FreshScopeVariable mints a scope-stack variable unique within this run.
func (pp *PartialPaths) FreshScopeVariable() ScopeStackVariable {
	pp.nextScopeVar++
	return pp.nextScopeVar
}

// FromNode creates a zero-length partial path seeded from node, with
// pre/postcondition stacks that are a single freshly minted variable each
// — "whatever the caller has on its stack passes through unchanged". This
// openness is what makes composing a fresh path with anything else always
// succeed (the composition identity property in spec.md §8), and what
// lets AppendEdge reveal one stack entry at a time as edges demand it
// (see popSymbol/popScope in path.go).
func (pp *PartialPaths) FromNode(node arena.Handle[graph.Node]) PartialPath {
	symVar := pp.FreshSymbolVariable()
	scopeVar := pp.FreshScopeVariable()
	return PartialPath{
		StartNode:           node,
		EndNode:             node,
		SymbolPrecondition:  VariableSymbolStack(symVar),
		SymbolPostcondition: VariableSymbolStack(symVar),
		ScopePrecondition:   VariableScopeStack(scopeVar),
		ScopePostcondition:  VariableScopeStack(scopeVar),
	}
}
