// Package graph implements the stack graph model: interned symbols and
// files, typed nodes, precedence-carrying edges, and source spans
// (spec.md §3 "Data model", component C2).
package graph

import (
	"fmt"
	"sort"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/debug"
)

type nodeKey struct {
	file    File
	localID uint32
}

// StackGraph is the read side of C2: an immutable-during-traversal
// collection of files, nodes, edges and source spans. Construction
// (the per-kind Add*Node constructors, AddEdge, ...) is the interface external front-ends (tree-sitter
// rule engines, hand-written graph builders) consume; see
// SPEC_FULL.md §4 for frontend/goref, the example front end in this
// module.
type StackGraph struct {
	symbols *arena.InternTable[Symbol]
	files   *arena.InternTable[File]

	nodes     arena.Arena[Node]
	byKey     map[nodeKey]arena.Handle[Node]
	nodeOrder map[File][]arena.Handle[Node]

	outgoing map[arena.Handle[Node]][]Edge
	incoming map[arena.Handle[Node]]int

	sourceInfo map[arena.Handle[Node]]*SourceInfo
	debugInfo  map[arena.Handle[Node]]*debug.Info

	root arena.Handle[Node]
}

// New creates an empty stack graph, pre-populated with the Root node.
func New() *StackGraph {
	g := &StackGraph{
		symbols:    arena.NewInternTable(wrapSymbol, Symbol.handle),
		files:      arena.NewInternTable(wrapFile, File.handle),
		nodes:      *arena.NewArena[Node](),
		byKey:      make(map[nodeKey]arena.Handle[Node]),
		nodeOrder:  make(map[File][]arena.Handle[Node]),
		outgoing:   make(map[arena.Handle[Node]][]Edge),
		incoming:   make(map[arena.Handle[Node]]int),
		sourceInfo: make(map[arena.Handle[Node]]*SourceInfo),
		debugInfo:  make(map[arena.Handle[Node]]*debug.Info),
	}
	g.root = g.nodes.Add(Node{kind: Root})
	g.byKey[nodeKey{file: File{}, localID: 0}] = g.root
	return g
}

// Root returns the handle of the graph's single Root node.
func (g *StackGraph) Root() arena.Handle[Node] { return g.root }

// AddSymbol interns s, returning a stable Symbol handle.
func (g *StackGraph) AddSymbol(s string) Symbol { return g.symbols.Intern(s) }

// SymbolName returns the interned string for a Symbol.
func (g *StackGraph) SymbolName(s Symbol) string { return g.symbols.Value(s) }

// GetOrCreateFile interns name, returning a stable File handle.
func (g *StackGraph) GetOrCreateFile(name string) File { return g.files.Intern(name) }

// FileName returns the interned string for a File.
func (g *StackGraph) FileName(f File) string { return g.files.Value(f) }

func (g *StackGraph) bind(file File, localID uint32, n Node) (arena.Handle[Node], error) {
	key := nodeKey{file: file, localID: localID}
	if _, exists := g.byKey[key]; exists {
		return arena.Handle[Node]{}, fmt.Errorf("graph: node id %d already bound in file %q", localID, g.safeFileName(file))
	}
	n.file = file
	n.localID = localID
	h := g.nodes.Add(n)
	g.byKey[key] = h
	g.nodeOrder[file] = append(g.nodeOrder[file], h)
	return h, nil
}

func (g *StackGraph) safeFileName(f File) string {
	if !f.Valid() {
		return "«global»"
	}
	return g.FileName(f)
}

// AddScopeNode adds a Scope node, optionally exported (addressable by
// attached scope lists from other files).
func (g *StackGraph) AddScopeNode(file File, localID uint32, exported bool) (arena.Handle[Node], error) {
	return g.bind(file, localID, Node{kind: Scope, exported: exported})
}

// AddJumpToScopeNode adds a Jump-to-scope node.
func (g *StackGraph) AddJumpToScopeNode(file File, localID uint32) (arena.Handle[Node], error) {
	return g.bind(file, localID, Node{kind: JumpToScope})
}

// AddInternalNode adds a plain transit node.
func (g *StackGraph) AddInternalNode(file File, localID uint32) (arena.Handle[Node], error) {
	return g.bind(file, localID, Node{kind: Internal})
}

// AddPushSymbolNode adds a Push-symbol node. isReference marks it as a
// reference (spec.md §3: "a push-symbol with that flag set").
func (g *StackGraph) AddPushSymbolNode(file File, localID uint32, symbol Symbol, isReference bool) (arena.Handle[Node], error) {
	return g.bind(file, localID, Node{kind: PushSymbol, symbol: symbol, isReference: isReference})
}

// AddPushScopedSymbolNode adds a Push-scoped-symbol node, attaching scope
// as the scope pushed alongside symbol.
func (g *StackGraph) AddPushScopedSymbolNode(file File, localID uint32, symbol Symbol, scope arena.Handle[Node], isReference bool) (arena.Handle[Node], error) {
	return g.bind(file, localID, Node{kind: PushScopedSymbol, symbol: symbol, attachedScope: scope, isReference: isReference})
}

// AddPopSymbolNode adds a Pop-symbol node. isDefinition marks it as a
// definition candidate (spec.md §3: "and no incoming path" — see
// IsDefinition, which additionally checks incoming edges).
func (g *StackGraph) AddPopSymbolNode(file File, localID uint32, symbol Symbol, isDefinition bool) (arena.Handle[Node], error) {
	return g.bind(file, localID, Node{kind: PopSymbol, symbol: symbol, isDefinition: isDefinition})
}

// AddPopScopedSymbolNode adds a Pop-scoped-symbol node.
func (g *StackGraph) AddPopScopedSymbolNode(file File, localID uint32, symbol Symbol, isDefinition bool) (arena.Handle[Node], error) {
	return g.bind(file, localID, Node{kind: PopScopedSymbol, symbol: symbol, isDefinition: isDefinition})
}

// Node dereferences a node handle.
func (g *StackGraph) Node(h arena.Handle[Node]) *Node { return g.nodes.Get(h) }

// NodeByID looks up a node by its (file, local id) identity.
func (g *StackGraph) NodeByID(file File, localID uint32) (arena.Handle[Node], bool) {
	h, ok := g.byKey[nodeKey{file: file, localID: localID}]
	return h, ok
}

// AddEdge adds an edge from source to sink with the given precedence.
// Re-adding the same (source, sink) pair is idempotent and keeps the
// higher precedence (spec.md §4.2, invariant 3 in spec.md §8).
func (g *StackGraph) AddEdge(source, sink arena.Handle[Node], precedence int32) {
	// Get panics on a handle this graph never issued, which is the
	// correct behavior for a programmer error rather than bad input.
	g.nodes.Get(source)
	g.nodes.Get(sink)

	edges := g.outgoing[source]
	for i := range edges {
		if edges[i].Sink == sink {
			if precedence > edges[i].Precedence {
				edges[i].Precedence = precedence
			}
			return
		}
	}
	g.outgoing[source] = append(edges, Edge{Source: source, Sink: sink, Precedence: precedence})
	g.incoming[sink]++
}

// OutgoingEdges returns all edges leaving node, ordered by descending
// precedence (ties broken by insertion order) so callers that just want
// "all edges, highest precedence first" don't need to band them manually.
func (g *StackGraph) OutgoingEdges(node arena.Handle[Node]) []Edge {
	edges := append([]Edge(nil), g.outgoing[node]...)
	sort.SliceStable(edges, func(i, j int) bool { return edges[i].Precedence > edges[j].Precedence })
	return edges
}

// OutgoingEdgeBands groups the edges leaving node into precedence bands,
// highest precedence first, per spec.md §4.2: "traversal observes edges
// leaving a node grouped into precedence bands".
func (g *StackGraph) OutgoingEdgeBands(node arena.Handle[Node]) [][]Edge {
	edges := g.OutgoingEdges(node)
	var bands [][]Edge
	for i := 0; i < len(edges); {
		j := i + 1
		for j < len(edges) && edges[j].Precedence == edges[i].Precedence {
			j++
		}
		bands = append(bands, edges[i:j])
		i = j
	}
	return bands
}

// IncomingEdgeCount returns the number of distinct edges ending at node,
// used by IsDefinition.
func (g *StackGraph) IncomingEdgeCount(node arena.Handle[Node]) int { return g.incoming[node] }

// IsDefinition reports whether node is a definition: a pop-symbol node
// with the definition flag set and no incoming edges (spec.md §3).
func (g *StackGraph) IsDefinition(node arena.Handle[Node]) bool {
	n := g.Node(node)
	return n.IsDefinition() && g.incoming[node] == 0
}

// NodesForFile iterates the nodes belonging to file, in the order they
// were added.
func (g *StackGraph) NodesForFile(file File) []arena.Handle[Node] {
	return g.nodeOrder[file]
}

// Files returns every file that has at least one node, sorted
// lexicographically by file name (not insertion order, so callers get a
// deterministic sequence regardless of parse order).
func (g *StackGraph) Files() []File {
	// nodeOrder's key set is unordered; collect it first, then sort by
	// name below for a deterministic result.
	seen := make(map[File]bool, len(g.nodeOrder))
	var order []File
	for file := range g.nodeOrder {
		if !file.Valid() {
			continue
		}
		if !seen[file] {
			seen[file] = true
			order = append(order, file)
		}
	}
	sort.Slice(order, func(i, j int) bool { return g.FileName(order[i]) < g.FileName(order[j]) })
	return order
}

// SetSourceInfo attaches source span/debug info to node.
func (g *StackGraph) SetSourceInfo(node arena.Handle[Node], info SourceInfo) {
	g.sourceInfo[node] = &info
}

// SourceInfo returns the source span/debug info attached to node, if any.
func (g *StackGraph) SourceInfo(node arena.Handle[Node]) (*SourceInfo, bool) {
	info, ok := g.sourceInfo[node]
	return info, ok
}

// NodeCount returns the total number of nodes, including Root.
func (g *StackGraph) NodeCount() int { return g.nodes.Len() }

// SetDebugInfo attaches a diagnostic attribute bag to node, for front ends
// that want to record provenance (e.g. the tree-sitter grammar rule that
// produced it) for later text-dump rendering.
func (g *StackGraph) SetDebugInfo(node arena.Handle[Node], info *debug.Info) {
	g.debugInfo[node] = info
}

// DebugInfo returns the attribute bag attached to node, if any.
func (g *StackGraph) DebugInfo(node arena.Handle[Node]) (*debug.Info, bool) {
	info, ok := g.debugInfo[node]
	return info, ok
}
