package partial

import (
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// Bindings accumulates the variable assignments discovered while unifying
// one partial path's postcondition with another's precondition. A single
// Bindings is used for one composition; it is not reused across calls.
type Bindings struct {
	symbols map[SymbolStackVariable]SymbolStack
	scopes  map[ScopeStackVariable]ScopeStack
}

func NewBindings() *Bindings {
	return &Bindings{
		symbols: make(map[SymbolStackVariable]SymbolStack),
		scopes:  make(map[ScopeStackVariable]ScopeStack),
	}
}

func (b *Bindings) bindSymbol(v SymbolStackVariable, s SymbolStack) error {
	if existing, ok := b.symbols[v]; ok {
		if !existing.Equal(s) {
			return newErr(IncompatibleSymbolStackVariables, "variable $%d already bound", v)
		}
		return nil
	}
	b.symbols[v] = s
	return nil
}

func (b *Bindings) bindScope(v ScopeStackVariable, s ScopeStack) error {
	if existing, ok := b.scopes[v]; ok {
		if !existing.Equal(s) {
			return newErr(IncompatibleScopeStackVariables, "variable $%d already bound", v)
		}
		return nil
	}
	b.scopes[v] = s
	return nil
}

// ApplySymbol resolves a stack's trailing variable against any binding
// discovered so far. A variable with no binding was never constrained by
// this composition and passes through unchanged.
func (b *Bindings) ApplySymbol(s SymbolStack) (SymbolStack, error) {
	if s.Variable == 0 {
		return s, nil
	}
	bound, ok := b.symbols[s.Variable]
	if !ok {
		return s, nil
	}
	return NewSymbolStack(append(append([]SymbolStackEntry(nil), s.entries...), bound.entries...), bound.Variable), nil
}

// ApplyScope is the scope-stack analogue of ApplySymbol.
func (b *Bindings) ApplyScope(s ScopeStack) (ScopeStack, error) {
	if s.Variable == 0 {
		return s, nil
	}
	bound, ok := b.scopes[s.Variable]
	if !ok {
		return s, nil
	}
	return NewScopeStack(append(append([]arena.Handle[graph.Node](nil), s.scopes...), bound.scopes...), bound.Variable), nil
}

// UnifySymbolStack aligns post (a postcondition, produced by some path
// P1) against pre (a precondition required by some path P2), matching
// concrete entries top-down. Matching entries are consumed; when one side
// runs out of concrete entries before the other, its trailing variable
// (if any) is bound to what remains of the other side. It is an error for
// a side to run out of concrete entries, have no variable, and still be
// required to supply more.
func UnifySymbolStack(post, pre SymbolStack, bindings *Bindings) error {
	i := 0
	for i < len(post.entries) && i < len(pre.entries) {
		if !post.entries[i].Equal(pre.entries[i]) {
			return newErr(SymbolStackUnsatisfied, "entry %d: postcondition and precondition disagree", i)
		}
		i++
	}

	switch {
	case i == len(post.entries) && i == len(pre.entries):
		return unifySymbolTailVariables(post.Variable, pre.Variable, bindings)

	case i == len(post.entries): // post exhausted, pre still needs entries
		remaining := NewSymbolStack(pre.entries[i:], pre.Variable)
		if post.Variable == 0 {
			return newErr(SymbolStackUnsatisfied, "postcondition has no entries or variable left to satisfy precondition")
		}
		return bindings.bindSymbol(post.Variable, remaining)

	default: // pre exhausted, post still has entries left over
		remaining := NewSymbolStack(post.entries[i:], post.Variable)
		if pre.Variable == 0 {
			// pre is closed: it asserts the stack holds exactly its listed
			// entries and nothing more. Leftover entries on post cannot be
			// satisfied by a precondition that admits no tail.
			return newErr(SymbolStackUnsatisfied, "precondition is closed but postcondition has leftover entries")
		}
		return bindings.bindSymbol(pre.Variable, remaining)
	}
}

func unifySymbolTailVariables(postVar, preVar SymbolStackVariable, bindings *Bindings) error {
	switch {
	case postVar == 0 && preVar == 0:
		return nil
	case postVar == 0:
		return bindings.bindSymbol(preVar, EmptySymbolStack())
	case preVar == 0:
		return bindings.bindSymbol(postVar, EmptySymbolStack())
	case postVar == preVar:
		return nil
	default:
		return bindings.bindSymbol(postVar, VariableSymbolStack(preVar))
	}
}

// UnifyScopeStack is the scope-stack analogue of UnifySymbolStack.
func UnifyScopeStack(post, pre ScopeStack, bindings *Bindings) error {
	i := 0
	for i < len(post.scopes) && i < len(pre.scopes) {
		if post.scopes[i] != pre.scopes[i] {
			return newErr(ScopeStackUnsatisfied, "entry %d: postcondition and precondition disagree", i)
		}
		i++
	}

	switch {
	case i == len(post.scopes) && i == len(pre.scopes):
		return unifyScopeTailVariables(post.Variable, pre.Variable, bindings)

	case i == len(post.scopes):
		remaining := NewScopeStack(pre.scopes[i:], pre.Variable)
		if post.Variable == 0 {
			return newErr(ScopeStackUnsatisfied, "postcondition has no entries or variable left to satisfy precondition")
		}
		return bindings.bindScope(post.Variable, remaining)

	default:
		remaining := NewScopeStack(post.scopes[i:], post.Variable)
		if pre.Variable == 0 {
			return newErr(ScopeStackUnsatisfied, "precondition is closed but postcondition has leftover entries")
		}
		return bindings.bindScope(pre.Variable, remaining)
	}
}

func unifyScopeTailVariables(postVar, preVar ScopeStackVariable, bindings *Bindings) error {
	switch {
	case postVar == 0 && preVar == 0:
		return nil
	case postVar == 0:
		return bindings.bindScope(preVar, EmptyScopeStack())
	case preVar == 0:
		return bindings.bindScope(postVar, EmptyScopeStack())
	case postVar == preVar:
		return nil
	default:
		return bindings.bindScope(postVar, VariableScopeStack(preVar))
	}
}
