// Package partial implements partial paths: paths whose symbol and scope
// stacks carry preconditions and postconditions that may end in a stack
// variable standing for an unknown tail (spec.md §3 "Partial path", §4.4,
// component C4).
//
// original_source/stack-graphs/src/partial.rs was not retrieved for this
// port (see DESIGN.md, C4), so this package is grounded directly on
// spec.md §4.4 plus the call shapes visible from cycles.rs and assert.rs,
// rather than on a line-for-line translation.
package partial

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// SymbolStackVariable names an unknown tail of a symbol stack. The zero
// value means "no variable" — the stack is known to be exactly its
// concrete entries, nothing more.
type SymbolStackVariable uint32

// ScopeStackVariable is the scope-stack analogue of SymbolStackVariable.
type ScopeStackVariable uint32

// SymbolStackEntry is one concrete element of a partial symbol stack: a
// symbol plus the scope stack attached to it by a push-scoped-symbol node.
// Unlike stack.SymbolStackEntry (component C3, which attaches a single
// scope handle), the attached scopes here are themselves a ScopeStack so
// they can carry their own unresolved variable tail.
type SymbolStackEntry struct {
	Symbol  graph.Symbol
	Scopes  ScopeStack
	Scoped  bool
}

// Equal reports whether two entries are identical without considering any
// variable bindings — used while matching concrete stack prefixes during
// unification.
func (e SymbolStackEntry) Equal(other SymbolStackEntry) bool {
	if e.Symbol != other.Symbol || e.Scoped != other.Scoped {
		return false
	}
	if !e.Scoped {
		return true
	}
	return e.Scopes.Equal(other.Scopes)
}

// SymbolStack is a concrete prefix (top-first) optionally followed by a
// variable standing for an unspecified tail.
type SymbolStack struct {
	entries  []SymbolStackEntry
	Variable SymbolStackVariable
}

// EmptySymbolStack is the stack known to be empty, with no variable tail.
func EmptySymbolStack() SymbolStack { return SymbolStack{} }

// VariableSymbolStack is a stack consisting of nothing but a variable.
func VariableSymbolStack(v SymbolStackVariable) SymbolStack {
	return SymbolStack{Variable: v}
}

// NewSymbolStack builds a stack from a concrete top-first prefix and an
// optional trailing variable (0 for none).
func NewSymbolStack(entries []SymbolStackEntry, variable SymbolStackVariable) SymbolStack {
	return SymbolStack{entries: append([]SymbolStackEntry(nil), entries...), Variable: variable}
}

func (s SymbolStack) Entries() []SymbolStackEntry { return s.entries }
func (s SymbolStack) Len() int                    { return len(s.entries) }
func (s SymbolStack) HasVariable() bool           { return s.Variable != 0 }

// IsEmpty reports whether the stack is known to carry nothing at all: no
// concrete entries and no variable tail.
func (s SymbolStack) IsEmpty() bool { return len(s.entries) == 0 && s.Variable == 0 }

func (s SymbolStack) Equal(other SymbolStack) bool {
	if s.Variable != other.Variable || len(s.entries) != len(other.entries) {
		return false
	}
	for i := range s.entries {
		if !s.entries[i].Equal(other.entries[i]) {
			return false
		}
	}
	return true
}

// Push returns a new stack with entry on top.
func (s SymbolStack) Push(entry SymbolStackEntry) SymbolStack {
	return SymbolStack{entries: append([]SymbolStackEntry{entry}, s.entries...), Variable: s.Variable}
}

// ScopeStack is the scope-stack analogue of SymbolStack.
type ScopeStack struct {
	scopes   []arena.Handle[graph.Node]
	Variable ScopeStackVariable
}

func EmptyScopeStack() ScopeStack { return ScopeStack{} }

func VariableScopeStack(v ScopeStackVariable) ScopeStack {
	return ScopeStack{Variable: v}
}

func NewScopeStack(scopes []arena.Handle[graph.Node], variable ScopeStackVariable) ScopeStack {
	return ScopeStack{scopes: append([]arena.Handle[graph.Node](nil), scopes...), Variable: variable}
}

func (s ScopeStack) Scopes() []arena.Handle[graph.Node] { return s.scopes }
func (s ScopeStack) Len() int                           { return len(s.scopes) }
func (s ScopeStack) HasVariable() bool                  { return s.Variable != 0 }
func (s ScopeStack) IsEmpty() bool                      { return len(s.scopes) == 0 && s.Variable == 0 }

func (s ScopeStack) Equal(other ScopeStack) bool {
	if s.Variable != other.Variable || len(s.scopes) != len(other.scopes) {
		return false
	}
	for i := range s.scopes {
		if s.scopes[i] != other.scopes[i] {
			return false
		}
	}
	return true
}

func (s ScopeStack) Push(scope arena.Handle[graph.Node]) ScopeStack {
	return ScopeStack{scopes: append([]arena.Handle[graph.Node]{scope}, s.scopes...), Variable: s.Variable}
}
