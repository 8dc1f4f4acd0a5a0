// Package cycles limits path-finding recursion heuristically: stack graphs
// can legitimately contain cycles (mutually recursive imports, recursive
// function calls), and detecting whether a given traversal will eventually
// terminate is the halting problem in disguise. Instead of solving it, this
// package bounds work with two independent heuristics ported from
// cycles.rs's SimilarPathDetector and AppendingCycleDetector:
// similar-path-bucket pruning during forward search, and backward
// prefix-cycle classification once a path closes a loop.
package cycles

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// PathKey groups paths that the similar-path heuristic treats as
// interchangeable: same endpoints, same stack-length shape. Two paths with
// the same key are "similar" even if their concrete stack contents differ.
type PathKey struct {
	StartNode              arena.Handle[graph.Node]
	EndNode                arena.Handle[graph.Node]
	SymbolPreconditionLen  int
	ScopePreconditionLen   int
	SymbolPostconditionLen int
	ScopePostconditionLen  int
}

// HasPathKey is implemented by any path representation the similar-path
// detector can bucket. partial.PartialPath satisfies this via its
// PathEndpoints/StackLengths accessors (added there specifically to avoid
// an import cycle between partial and cycles).
type HasPathKey interface {
	PathEndpoints() (start, end arena.Handle[graph.Node])
	StackLengths() (symbolPre, scopePre, symbolPost, scopePost int)
}

// KeyOf computes p's PathKey.
func KeyOf[P HasPathKey](p P) PathKey {
	start, end := p.PathEndpoints()
	symbolPre, scopePre, symbolPost, scopePost := p.StackLengths()
	return PathKey{
		StartNode:              start,
		EndNode:                end,
		SymbolPreconditionLen:  symbolPre,
		ScopePreconditionLen:   scopePre,
		SymbolPostconditionLen: symbolPost,
		ScopePostconditionLen:  scopePost,
	}
}
