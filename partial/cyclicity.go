package partial

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// Cyclicity classifies a partial path's self-composition behaviour
// (spec.md §4.4). original_source/stack-graphs/src/partial.rs was not
// retrieved for this port, so the exact bit semantics of the Rust
// EnumSet<Cyclicity> are not available; the classification below is a
// documented, defensible reading of spec.md's three named variants rather
// than a line-for-line port.
type Cyclicity uint8

const (
	// Free means composing the path with itself is a no-op: the result is
	// structurally identical to the path itself, so traversing the cycle
	// any number of times changes nothing and is always safe.
	Free Cyclicity = 1 << iota
	// StrengthensPostcondition means each self-composition produces a
	// strictly longer postcondition: the cycle keeps pushing, so
	// unbounded repetition never terminates on its own.
	StrengthensPostcondition
	// LoopsAtEnd means each self-composition demands a strictly longer
	// precondition: the cycle keeps requiring more from its caller.
	LoopsAtEnd
)

// CyclicitySet is a bitset of Cyclicity values, mirroring enumset::EnumSet
// from the original Rust (cycles.rs).
type CyclicitySet uint8

func (s CyclicitySet) Has(c Cyclicity) bool     { return uint8(s)&uint8(c) != 0 }
func (s CyclicitySet) Add(c Cyclicity) CyclicitySet { return CyclicitySet(uint8(s) | uint8(c)) }
func (s CyclicitySet) IsEmpty() bool            { return s == 0 }

// PathEndpoints and StackLengths let the cycles package compute a
// similarity/path key without partial depending on cycles (which would
// create an import cycle, since cycles depends on partial).
func (p PartialPath) PathEndpoints() (start, end arena.Handle[graph.Node]) {
	return p.StartNode, p.EndNode
}

func (p PartialPath) StackLengths() (symbolPre, scopePre, symbolPost, scopePost int) {
	return p.SymbolPrecondition.Len(), p.ScopePrecondition.Len(), p.SymbolPostcondition.Len(), p.ScopePostcondition.Len()
}

// IsCyclic classifies p by composing it with itself. It returns ok=false
// when p cannot be composed with itself at all (p.StartNode != p.EndNode,
// or unification fails) — such a path is not a candidate for cyclic reuse
// at all, let alone a classified one.
func IsCyclic(p PartialPath) (CyclicitySet, bool) {
	if p.StartNode != p.EndNode {
		return 0, false
	}
	squared, err := Compose(p, p)
	if err != nil {
		return 0, false
	}

	var set CyclicitySet
	switch {
	case squared.SymbolPostcondition.Len() == p.SymbolPostcondition.Len() &&
		squared.SymbolPrecondition.Len() == p.SymbolPrecondition.Len() &&
		squared.ScopePostcondition.Len() == p.ScopePostcondition.Len() &&
		squared.ScopePrecondition.Len() == p.ScopePrecondition.Len():
		set = set.Add(Free)
	default:
		if squared.SymbolPostcondition.Len() > p.SymbolPostcondition.Len() ||
			squared.ScopePostcondition.Len() > p.ScopePostcondition.Len() {
			set = set.Add(StrengthensPostcondition)
		}
		if squared.SymbolPrecondition.Len() > p.SymbolPrecondition.Len() ||
			squared.ScopePrecondition.Len() > p.ScopePrecondition.Len() {
			set = set.Add(LoopsAtEnd)
		}
	}
	return set, true
}
