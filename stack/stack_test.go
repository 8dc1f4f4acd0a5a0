package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/stackgraph/graph"
)

func TestStep_PushThenPopSameSymbolSucceeds(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	ref, _ := g.AddPushSymbolNode(file, 1, sym, true)
	def, _ := g.AddPopSymbolNode(file, 2, sym, true)
	g.AddEdge(ref, def, 0)

	paths := NewPaths()
	path := FromNode(ref)
	edge := g.OutgoingEdges(ref)[0]

	next, err := Step(g, paths, path, edge)
	require.NoError(t, err)
	assert.Equal(t, def, next.End)
	assert.True(t, next.Symbols.IsEmpty())
	assert.Equal(t, 1, next.Len())
	assert.True(t, IsComplete(g, paths, next))
}

func TestStep_IncorrectSourceNodeFails(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	n1, _ := g.AddInternalNode(file, 1)
	n2, _ := g.AddInternalNode(file, 2)
	n3, _ := g.AddInternalNode(file, 3)
	g.AddEdge(n2, n3, 0)

	paths := NewPaths()
	path := FromNode(n1)
	_, err := Step(g, paths, path, g.OutgoingEdges(n2)[0])
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, IncorrectSourceNode, pathErr.Kind)
}

func TestStep_EmptySymbolStackOnPop(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")
	n1, _ := g.AddInternalNode(file, 1)
	def, _ := g.AddPopSymbolNode(file, 2, sym, true)
	g.AddEdge(n1, def, 0)

	paths := NewPaths()
	path := FromNode(n1)
	_, err := Step(g, paths, path, g.OutgoingEdges(n1)[0])
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, EmptySymbolStack, pathErr.Kind)
}

func TestStep_IncorrectPoppedSymbol(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	symX := g.AddSymbol("x")
	symY := g.AddSymbol("y")

	ref, _ := g.AddPushSymbolNode(file, 1, symX, true)
	def, _ := g.AddPopSymbolNode(file, 2, symY, true)
	g.AddEdge(ref, def, 0)

	paths := NewPaths()
	path := FromNode(ref)
	path, err := Step(g, paths, path, g.OutgoingEdges(ref)[0])
	require.NoError(t, err)

	internal, _ := g.AddInternalNode(file, 3)
	g.AddEdge(def, internal, 0)
	_, err = Step(g, paths, path, g.OutgoingEdges(def)[0])
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, IncorrectPoppedSymbol, pathErr.Kind)
}

func TestStep_PushScopedSymbol_UnexportedScopeFails(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("foo")

	scope, _ := g.AddScopeNode(file, 1, false) // not exported
	ref, _ := g.AddPushScopedSymbolNode(file, 2, sym, scope, true)

	entry, _ := g.AddInternalNode(file, 3)
	g.AddEdge(entry, ref, 0)

	paths := NewPaths()
	path := FromNode(entry)
	_, err := Step(g, paths, path, g.OutgoingEdges(entry)[0])
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, UnknownAttachedScope, pathErr.Kind)
}

func TestStep_PopScopedSymbol_PushesScopeStack(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("foo")
	scope, _ := g.AddScopeNode(file, 1, true)

	pushNode, _ := g.AddPushScopedSymbolNode(file, 2, sym, scope, true)
	popNode, _ := g.AddPopScopedSymbolNode(file, 3, sym, true)
	g.AddEdge(pushNode, popNode, 0)

	paths := NewPaths()
	path := FromNode(pushNode)
	path, err := Step(g, paths, path, g.OutgoingEdges(pushNode)[0])
	require.NoError(t, err)
	require.Len(t, paths.ScopeStackToSlice(path.Scopes), 1)
	assert.Equal(t, scope, paths.ScopeStackToSlice(path.Scopes)[0])
	assert.True(t, path.Symbols.IsEmpty())
}

func TestStep_JumpToScope_EmptyScopeStackFails(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	n1, _ := g.AddInternalNode(file, 1)
	jump, _ := g.AddJumpToScopeNode(file, 2)
	g.AddEdge(n1, jump, 0)

	paths := NewPaths()
	path := FromNode(n1)
	_, err := Step(g, paths, path, g.OutgoingEdges(n1)[0])
	var pathErr *PathError
	require.ErrorAs(t, err, &pathErr)
	assert.Equal(t, EmptyScopeStack, pathErr.Kind)
}
