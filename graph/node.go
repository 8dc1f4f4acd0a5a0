package graph

import "github.com/viant/stackgraph/arena"

// NodeKind is the closed set of node kinds from spec.md §3 "Node".
type NodeKind uint8

const (
	// Root is the global cross-file anchor; every cross-file traversal
	// passes through it.
	Root NodeKind = iota
	// JumpToScope pops a scope from the scope stack and teleports to it;
	// fails if the scope stack is empty.
	JumpToScope
	// Scope is passive; may be marked exported (addressable by attached
	// scope lists).
	Scope
	// PushSymbol pushes a symbol onto the symbol stack.
	PushSymbol
	// PushScopedSymbol pushes a symbol with an attached scope onto the
	// symbol stack.
	PushScopedSymbol
	// PopSymbol matches and removes the top of the symbol stack.
	PopSymbol
	// PopScopedSymbol is as PopSymbol, but the top must carry an attached
	// scope, which is pushed onto the scope stack.
	PopScopedSymbol
	// Internal is a plain transit node.
	Internal
)

func (k NodeKind) String() string {
	switch k {
	case Root:
		return "root"
	case JumpToScope:
		return "jump_to_scope"
	case Scope:
		return "scope"
	case PushSymbol:
		return "push_symbol"
	case PushScopedSymbol:
		return "push_scoped_symbol"
	case PopSymbol:
		return "pop_symbol"
	case PopScopedSymbol:
		return "pop_scoped_symbol"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// IsPush reports whether the kind pushes onto the symbol stack.
func (k NodeKind) IsPush() bool { return k == PushSymbol || k == PushScopedSymbol }

// IsPop reports whether the kind pops the symbol stack.
func (k NodeKind) IsPop() bool { return k == PopSymbol || k == PopScopedSymbol }

// HasAttachedScope reports whether the kind carries an attached scope.
func (k NodeKind) HasAttachedScope() bool {
	return k == PushScopedSymbol || k == PopScopedSymbol
}

// Node is a stack graph node. Its identity is (File, LocalID) per
// spec.md §3; the Handle returned by StackGraph's per-kind Add*Node
// constructors (AddScopeNode, AddPushSymbolNode, ...) is how every
// other structure (edges, paths) refers to it.
type Node struct {
	file    File
	localID uint32
	kind    NodeKind

	symbol        Symbol            // valid for push/pop kinds
	attachedScope arena.Handle[Node] // valid for *ScopedSymbol kinds; must reference an exported Scope node

	isDefinition bool // only meaningful on pop-symbol nodes with no incoming path
	isReference  bool // only meaningful on push-symbol nodes

	exported bool // only meaningful on Scope nodes
}

// File returns the owning file, or the zero File for the Root node.
func (n *Node) File() File { return n.file }

// LocalID returns the caller-supplied id that is unique within File().
func (n *Node) LocalID() uint32 { return n.localID }

// Kind returns the node's kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Symbol returns the node's symbol; only meaningful when Kind().IsPush()
// or Kind().IsPop().
func (n *Node) Symbol() (Symbol, bool) {
	if !n.kind.IsPush() && !n.kind.IsPop() {
		return Symbol{}, false
	}
	return n.symbol, true
}

// AttachedScope returns the scope handle attached to a *ScopedSymbol node.
func (n *Node) AttachedScope() (arena.Handle[Node], bool) {
	if !n.kind.HasAttachedScope() {
		return arena.Handle[Node]{}, false
	}
	return n.attachedScope, true
}

// IsDefinition reports whether this is a pop-symbol node marked as a
// definition (spec.md §3: "a pop-symbol with that flag set and no
// incoming path"). The "no incoming path" half of that definition is a
// property of the graph's edges, not of the node alone; callers that need
// the full predicate should use StackGraph.IsDefinition.
func (n *Node) IsDefinition() bool { return n.kind.IsPop() && n.isDefinition }

// IsReference reports whether this is a push-symbol node marked as a reference.
func (n *Node) IsReference() bool { return n.kind.IsPush() && n.isReference }

// IsExported reports whether a Scope node is exported (addressable by
// attached scope lists from other files).
func (n *Node) IsExported() bool { return n.kind == Scope && n.exported }
