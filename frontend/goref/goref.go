// Package goref is a minimal tree-sitter-based front end that turns Go
// source into stack graph fragments: one pop-symbol node per
// func/method/type/const/var declaration (at any nesting depth, including
// inside function bodies) and one push-symbol node per call-expression
// callee,
// wired together by name once every file in a build has been parsed.
// The core never parses source (spec.md §1 Non-goals); this package is
// the external collaborator that does, grounded on the teacher's own
// tree-sitter walk (`analyzer/node.go`'s switch-on-`n.Type()` traversal
// and `inspector/golang/inspector_tree_sitter.go`'s parser setup).
//
// It does not attempt full Go name resolution (shadowing, imports,
// method sets, generics) — only a flat, package-level symbol table per
// build, matching references to same-named definitions across every
// file handed to the same Builder. That is enough to exercise the core
// formalism end to end without reimplementing go/types.
package goref

import (
	"context"
	"fmt"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/debug"
	"github.com/viant/stackgraph/graph"
)

// Builder accumulates definitions across every file parsed with it, so
// Link can wire references to definitions found in any of them.
type Builder struct {
	g    *graph.StackGraph
	defs map[string][]arena.Handle[graph.Node]
	refs []reference
}

type reference struct {
	node arena.Handle[graph.Node]
	name string
}

// NewBuilder returns a Builder that adds fragments to g.
func NewBuilder(g *graph.StackGraph) *Builder {
	return &Builder{g: g, defs: make(map[string][]arena.Handle[graph.Node])}
}

// ParseFile parses src as Go source named fileName, adding a pop-symbol
// definition node for each func/method/type/const/var declaration
// (top-level or nested inside a function body) and a push-symbol
// reference node for each call-expression callee. Local
// ids are assigned sequentially starting at 1.
func (b *Builder) ParseFile(fileName string, src []byte) error {
	parser := sitter.NewParser()
	parser.SetLanguage(golang.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return fmt.Errorf("goref: parse %s: %w", fileName, err)
	}

	file := b.g.GetOrCreateFile(fileName)
	w := &walker{b: b, file: file, src: src, nextID: 1}
	w.walk(tree.RootNode())
	return nil
}

// Link adds one edge from every reference to every definition sharing its
// name, returning the number of edges added. A reference with no matching
// definition is left dangling, resolving to zero complete paths, which is
// a legitimate (if unresolved) outcome rather than a build error.
func (b *Builder) Link() int {
	edges := 0
	for _, ref := range b.refs {
		for _, def := range b.defs[ref.name] {
			b.g.AddEdge(ref.node, def, 0)
			edges++
		}
	}
	return edges
}

type walker struct {
	b      *Builder
	file   graph.File
	src    []byte
	nextID uint32
}

func (w *walker) allocID() uint32 {
	id := w.nextID
	w.nextID++
	return id
}

func (w *walker) walk(n *sitter.Node) {
	switch n.Type() {
	case "function_declaration", "method_declaration":
		w.handleDecl(n)
	case "type_declaration":
		w.handleTypeDecl(n)
	case "const_declaration", "var_declaration":
		w.handleValueDecl(n)
	case "call_expression":
		w.handleCall(n)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i))
	}
}

func (w *walker) handleDecl(n *sitter.Node) {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	w.addDefinition(nameNode, n.Type())
}

func (w *walker) handleTypeDecl(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		spec := n.NamedChild(i)
		if spec.Type() != "type_spec" {
			continue
		}
		if nameNode := spec.ChildByFieldName("name"); nameNode != nil {
			w.addDefinition(nameNode, spec.Type())
		}
	}
}

func (w *walker) handleValueDecl(n *sitter.Node) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		spec := n.NamedChild(i)
		if spec.Type() != "const_spec" && spec.Type() != "var_spec" {
			continue
		}
		for j := 0; j < int(spec.NamedChildCount()); j++ {
			child := spec.NamedChild(j)
			if child.Type() == "identifier" {
				w.addDefinition(child, spec.Type())
			}
		}
	}
}

func (w *walker) handleCall(n *sitter.Node) {
	fnNode := n.ChildByFieldName("function")
	if fnNode == nil {
		return
	}
	if fnNode.Type() != "identifier" {
		// selector_expression (pkg.Fn, recv.Method, ...) needs receiver/
		// import resolution this front end does not attempt.
		return
	}
	w.addReference(fnNode)
}

// addDefinition records a pop-symbol definition node for nameNode, tagging
// it with declKind (the tree-sitter production that produced it, e.g.
// "function_declaration" or "var_spec") as debug attributes so a text
// dump can show provenance without re-parsing the source.
func (w *walker) addDefinition(nameNode *sitter.Node, declKind string) {
	name := nameNode.Content(w.src)
	sym := w.b.g.AddSymbol(name)
	h, err := w.b.g.AddPopSymbolNode(w.file, w.allocID(), sym, true)
	if err != nil {
		return
	}
	w.b.g.SetSourceInfo(h, sourceInfoOf(nameNode))
	w.b.g.SetDebugInfo(h, debugInfoOf(declKind))
	w.b.defs[name] = append(w.b.defs[name], h)
}

func (w *walker) addReference(nameNode *sitter.Node) {
	name := nameNode.Content(w.src)
	sym := w.b.g.AddSymbol(name)
	h, err := w.b.g.AddPushSymbolNode(w.file, w.allocID(), sym, true)
	if err != nil {
		return
	}
	w.b.g.SetSourceInfo(h, sourceInfoOf(nameNode))
	w.b.g.SetDebugInfo(h, debugInfoOf("call_expression"))
	w.b.refs = append(w.b.refs, reference{node: h, name: name})
}

func debugInfoOf(tsNodeType string) *debug.Info {
	info := debug.NewInfo()
	info.Set("ts_node_type", tsNodeType)
	return info
}

func sourceInfoOf(n *sitter.Node) graph.SourceInfo {
	start := n.StartPoint()
	end := n.EndPoint()
	pos := func(p sitter.Point) graph.Position {
		return graph.Position{Line: int(p.Row), Utf8Column: int(p.Column)}
	}
	return graph.SourceInfo{Span: graph.Span{Start: pos(start), End: pos(end)}}
}

// IsExported mirrors Go's own export rule: an identifier is exported iff
// its first rune is upper case.
func IsExported(name string) bool {
	for _, r := range name {
		return unicode.IsUpper(r)
	}
	return false
}
