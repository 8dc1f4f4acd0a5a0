// Package serde provides deterministic, arena-free serialization shapes
// for stack graphs (spec.md §6 "Persistence"; ported
// from the original crate's `serde` module). The in-memory types use
// dense arena handles that are only stable within one process run;
// Snapshot converts them into a plain, index-free representation that
// round-trips through YAML (the teacher's own serialization format,
// `gopkg.in/yaml.v3`, used by `analyzer/analyzer_test.go`'s fixtures).
//
// A snapshot covers files, nodes and edges only. Partial paths have no
// serialized form here, and node source spans and debug info are not
// written, so a graph reloaded from a snapshot carries neither.
package serde

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
)

// NodeID identifies a node by its natural key (file name + local id)
// rather than its process-local arena handle, so a Snapshot can be
// reloaded into a fresh graph whose handles are allocated in a different
// order.
type NodeID struct {
	File    string `yaml:"file"`
	LocalID uint32 `yaml:"local_id"`
}

// Node is the serializable form of graph.Node.
type Node struct {
	ID            NodeID  `yaml:"id"`
	Kind          string  `yaml:"kind"`
	Symbol        string  `yaml:"symbol,omitempty"`
	AttachedScope *NodeID `yaml:"attached_scope,omitempty"`
	IsDefinition  bool    `yaml:"is_definition,omitempty"`
	IsReference   bool    `yaml:"is_reference,omitempty"`
	Exported      bool    `yaml:"exported,omitempty"`
}

// Edge is the serializable form of graph.Edge.
type Edge struct {
	Source     NodeID `yaml:"source"`
	Sink       NodeID `yaml:"sink"`
	Precedence int32  `yaml:"precedence,omitempty"`
}

// StackGraph is the serializable snapshot of a *graph.StackGraph:
// handle-free, deterministic, and round-trippable.
type StackGraph struct {
	Files []string `yaml:"files"`
	Nodes []Node   `yaml:"nodes"`
	Edges []Edge   `yaml:"edges"`
}

// Filter controls which files/nodes/edges a Snapshot includes, mirroring
// the original crate's Filter trait (`include_file`/`include_node`/
// `include_edge`).
type Filter interface {
	IncludeFile(g *graph.StackGraph, file graph.File) bool
	IncludeNode(g *graph.StackGraph, node arena.Handle[graph.Node]) bool
	IncludeEdge(g *graph.StackGraph, source, sink arena.Handle[graph.Node]) bool
}

// NoFilter includes every file, node, and edge.
type NoFilter struct{}

func (NoFilter) IncludeFile(*graph.StackGraph, graph.File) bool               { return true }
func (NoFilter) IncludeNode(*graph.StackGraph, arena.Handle[graph.Node]) bool { return true }

func (NoFilter) IncludeEdge(*graph.StackGraph, arena.Handle[graph.Node], arena.Handle[graph.Node]) bool {
	return true
}

// FileFilter includes only the named files (and, transitively, only
// nodes/edges belonging to them).
type FileFilter struct {
	names map[string]bool
}

// NewFileFilter builds a FileFilter over the given file names.
func NewFileFilter(names ...string) FileFilter {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return FileFilter{names: set}
}

func (f FileFilter) IncludeFile(g *graph.StackGraph, file graph.File) bool {
	return f.names[g.FileName(file)]
}

func (f FileFilter) IncludeNode(g *graph.StackGraph, node arena.Handle[graph.Node]) bool {
	n := g.Node(node)
	if !n.File().Valid() {
		return true // the root node belongs to no file; always keep it
	}
	return f.IncludeFile(g, n.File())
}

func (f FileFilter) IncludeEdge(g *graph.StackGraph, source, sink arena.Handle[graph.Node]) bool {
	return f.IncludeNode(g, source) && f.IncludeNode(g, sink)
}

// Snapshot renders g into a handle-free StackGraph, keeping only the
// files/nodes/edges filter admits.
func Snapshot(g *graph.StackGraph, filter Filter) StackGraph {
	var out StackGraph
	included := make(map[arena.Handle[graph.Node]]bool)

	// Root belongs to no file, so the per-file loop below never visits
	// it; it is the global cross-file anchor (spec.md §3) and must always
	// be present for edges into/out of it to round-trip.
	root := g.Root()
	included[root] = true
	out.Nodes = append(out.Nodes, nodeOf(g, root))

	for _, file := range g.Files() {
		if !filter.IncludeFile(g, file) {
			continue
		}
		out.Files = append(out.Files, g.FileName(file))
		for _, h := range g.NodesForFile(file) {
			if !filter.IncludeNode(g, h) {
				continue
			}
			included[h] = true
			out.Nodes = append(out.Nodes, nodeOf(g, h))
		}
	}

	emitEdgesFrom := func(h arena.Handle[graph.Node]) {
		for _, e := range g.OutgoingEdges(h) {
			if !included[e.Sink] {
				continue
			}
			if !filter.IncludeEdge(g, e.Source, e.Sink) {
				continue
			}
			out.Edges = append(out.Edges, Edge{
				Source:     idOf(g, e.Source),
				Sink:       idOf(g, e.Sink),
				Precedence: e.Precedence,
			})
		}
	}

	emitEdgesFrom(root)
	for _, file := range g.Files() {
		for _, h := range g.NodesForFile(file) {
			if !included[h] {
				continue
			}
			emitEdgesFrom(h)
		}
	}
	return out
}

func idOf(g *graph.StackGraph, h arena.Handle[graph.Node]) NodeID {
	n := g.Node(h)
	if !n.File().Valid() {
		return NodeID{File: "", LocalID: n.LocalID()}
	}
	return NodeID{File: g.FileName(n.File()), LocalID: n.LocalID()}
}

func nodeOf(g *graph.StackGraph, h arena.Handle[graph.Node]) Node {
	n := g.Node(h)
	out := Node{
		ID:           idOf(g, h),
		Kind:         n.Kind().String(),
		IsDefinition: n.IsDefinition(),
		IsReference:  n.IsReference(),
		Exported:     n.IsExported(),
	}
	if sym, ok := n.Symbol(); ok {
		out.Symbol = g.SymbolName(sym)
	}
	if scope, ok := n.AttachedScope(); ok {
		id := idOf(g, scope)
		out.AttachedScope = &id
	}
	return out
}

// Marshal renders s as YAML (the teacher's own persistence format, see
// analyzer/analyzer_test.go's yaml.v3 fixtures).
func Marshal(s StackGraph) ([]byte, error) {
	return yaml.Marshal(s)
}

// Unmarshal parses YAML produced by Marshal.
func Unmarshal(data []byte) (StackGraph, error) {
	var s StackGraph
	if err := yaml.Unmarshal(data, &s); err != nil {
		return StackGraph{}, fmt.Errorf("serde: unmarshal stack graph: %w", err)
	}
	return s, nil
}

// LoadInto rebuilds a *graph.StackGraph from s, allocating fresh handles
// (node/edge identity is recovered from NodeID, not the original arena
// indices, which are not preserved across a save/load round trip).
func LoadInto(s StackGraph, g *graph.StackGraph) error {
	type key struct {
		file string
		id   uint32
	}
	handles := make(map[key]arena.Handle[graph.Node], len(s.Nodes))

	resolve := func(id NodeID) (arena.Handle[graph.Node], error) {
		if id.File == "" && id.LocalID == 0 {
			return g.Root(), nil
		}
		h, ok := handles[key{id.File, id.LocalID}]
		if !ok {
			return arena.Handle[graph.Node]{}, fmt.Errorf("serde: unknown node %s#%d", id.File, id.LocalID)
		}
		return h, nil
	}

	// push_scoped_symbol nodes reference a scope node by NodeID, which may
	// appear later in s.Nodes than the reference itself — so every other
	// kind is allocated first, and push_scoped_symbol nodes are deferred
	// to a second pass once every scope handle is resolvable.
	var deferred []Node
	for _, n := range s.Nodes {
		if n.ID.File == "" && n.ID.LocalID == 0 {
			handles[key{n.ID.File, n.ID.LocalID}] = g.Root()
			continue
		}
		if n.Kind == "push_scoped_symbol" {
			deferred = append(deferred, n)
			continue
		}
		file := g.GetOrCreateFile(n.ID.File)
		h, err := addNode(g, file, n)
		if err != nil {
			return fmt.Errorf("serde: load node %s#%d: %w", n.ID.File, n.ID.LocalID, err)
		}
		handles[key{n.ID.File, n.ID.LocalID}] = h
	}

	for _, n := range deferred {
		if n.AttachedScope == nil {
			return fmt.Errorf("serde: push_scoped_symbol node %s#%d missing attached scope", n.ID.File, n.ID.LocalID)
		}
		scope, err := resolve(*n.AttachedScope)
		if err != nil {
			return fmt.Errorf("serde: load node %s#%d: %w", n.ID.File, n.ID.LocalID, err)
		}
		file := g.GetOrCreateFile(n.ID.File)
		h, err := g.AddPushScopedSymbolNode(file, n.ID.LocalID, g.AddSymbol(n.Symbol), scope, n.IsReference)
		if err != nil {
			return fmt.Errorf("serde: load node %s#%d: %w", n.ID.File, n.ID.LocalID, err)
		}
		handles[key{n.ID.File, n.ID.LocalID}] = h
	}

	for _, e := range s.Edges {
		source, err := resolve(e.Source)
		if err != nil {
			return err
		}
		sink, err := resolve(e.Sink)
		if err != nil {
			return err
		}
		g.AddEdge(source, sink, e.Precedence)
	}
	return nil
}

func addNode(g *graph.StackGraph, file graph.File, n Node) (arena.Handle[graph.Node], error) {
	switch n.Kind {
	case "root":
		return g.Root(), nil
	case "jump_to_scope":
		return g.AddJumpToScopeNode(file, n.ID.LocalID)
	case "scope":
		return g.AddScopeNode(file, n.ID.LocalID, n.Exported)
	case "internal":
		return g.AddInternalNode(file, n.ID.LocalID)
	case "push_symbol":
		return g.AddPushSymbolNode(file, n.ID.LocalID, g.AddSymbol(n.Symbol), n.IsReference)
	case "pop_symbol":
		return g.AddPopSymbolNode(file, n.ID.LocalID, g.AddSymbol(n.Symbol), n.IsDefinition)
	case "pop_scoped_symbol":
		return g.AddPopScopedSymbolNode(file, n.ID.LocalID, g.AddSymbol(n.Symbol), n.IsDefinition)
	default:
		return arena.Handle[graph.Node]{}, fmt.Errorf("serde: unknown node kind %q", n.Kind)
	}
}
