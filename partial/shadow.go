package partial

// EqualUpToRenaming compares two symbol stacks ignoring the specific
// identity of their trailing variables (only whether each does or
// doesn't have one) — used by Shadows, where two paths seeded from
// independent PartialPaths runs will never share a literal variable id
// even when they are otherwise identical (spec.md §4.4 "Shadowing").
func (s SymbolStack) EqualUpToRenaming(other SymbolStack) bool {
	if s.HasVariable() != other.HasVariable() || len(s.entries) != len(other.entries) {
		return false
	}
	for i := range s.entries {
		if !s.entries[i].equalUpToRenaming(other.entries[i]) {
			return false
		}
	}
	return true
}

func (e SymbolStackEntry) equalUpToRenaming(other SymbolStackEntry) bool {
	if e.Symbol != other.Symbol || e.Scoped != other.Scoped {
		return false
	}
	if !e.Scoped {
		return true
	}
	return e.Scopes.EqualUpToRenaming(other.Scopes)
}

// EqualUpToRenaming is the scope-stack analogue of
// SymbolStack.EqualUpToRenaming.
func (s ScopeStack) EqualUpToRenaming(other ScopeStack) bool {
	if s.HasVariable() != other.HasVariable() || len(s.scopes) != len(other.scopes) {
		return false
	}
	for i := range s.scopes {
		if s.scopes[i] != other.scopes[i] {
			return false
		}
	}
	return true
}

// Shadows reports whether p shadows q (spec.md §4.4 "Shadowing"): they
// share both endpoints and an equal-up-to-renaming precondition, and p's
// edge list has strictly higher precedence at the first edge where the
// two paths diverge. The assertion runner's shadowed-path filter uses
// this as its dominance relation. The stitcher's similar-path detector
// does not: it ranks candidates with package stitching's own
// edge-count-then-total-precedence comparator.
func Shadows(p, q PartialPath) bool {
	if p.StartNode != q.StartNode || p.EndNode != q.EndNode {
		return false
	}
	if !p.SymbolPrecondition.EqualUpToRenaming(q.SymbolPrecondition) {
		return false
	}
	if !p.ScopePrecondition.EqualUpToRenaming(q.ScopePrecondition) {
		return false
	}

	n := len(p.Edges)
	if len(q.Edges) < n {
		n = len(q.Edges)
	}
	for i := 0; i < n; i++ {
		if p.Edges[i].Precedence != q.Edges[i].Precedence {
			return p.Edges[i].Precedence > q.Edges[i].Precedence
		}
	}
	return false
}
