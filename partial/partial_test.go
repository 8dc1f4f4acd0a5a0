package partial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/stackgraph/graph"
)

func TestAppendEdge_PushThenPopCancelsLocally(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	entry, _ := g.AddInternalNode(file, 1)
	push, _ := g.AddPushSymbolNode(file, 2, sym, true)
	pop, _ := g.AddPopSymbolNode(file, 3, sym, true)
	g.AddEdge(entry, push, 0)
	g.AddEdge(push, pop, 0)

	partials := NewPartialPaths()
	p := partials.FromNode(entry)
	p, err := AppendEdge(g, partials, p, g.OutgoingEdges(entry)[0])
	require.NoError(t, err)
	require.Equal(t, 1, p.SymbolPostcondition.Len())

	p, err = AppendEdge(g, partials, p, g.OutgoingEdges(push)[0])
	require.NoError(t, err)

	assert.Equal(t, 0, p.SymbolPrecondition.Len())
	assert.Equal(t, 0, p.SymbolPostcondition.Len())
	assert.Equal(t, pop, p.EndNode)
}

func TestAppendEdge_PopWithoutLocalPushGrowsPrecondition(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	entry, _ := g.AddInternalNode(file, 1)
	pop, _ := g.AddPopSymbolNode(file, 2, sym, true)
	g.AddEdge(entry, pop, 0)

	partials := NewPartialPaths()
	p := partials.FromNode(entry)
	p, err := AppendEdge(g, partials, p, g.OutgoingEdges(entry)[0])
	require.NoError(t, err)

	require.Equal(t, 1, p.SymbolPrecondition.Len())
	assert.Equal(t, sym, p.SymbolPrecondition.Entries()[0].Symbol)
	assert.Equal(t, 0, p.SymbolPostcondition.Len())
}

func TestAppendEdge_PopOnClosedEmptyStackFails(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	entry, _ := g.AddInternalNode(file, 1)
	pop, _ := g.AddPopSymbolNode(file, 2, sym, true)
	g.AddEdge(entry, pop, 0)

	partials := NewPartialPaths()
	p := FromNode(entry) // closed, no variable — assumes the stack is exactly empty here
	_, err := AppendEdge(g, partials, p, g.OutgoingEdges(entry)[0])
	require.Error(t, err)
}

func TestCompose_IdentityProperty(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")
	entry, _ := g.AddInternalNode(file, 1)
	push, _ := g.AddPushSymbolNode(file, 2, sym, true)
	g.AddEdge(entry, push, 0)

	partials := NewPartialPaths()
	p := partials.FromNode(entry)
	p, err := AppendEdge(g, partials, p, g.OutgoingEdges(entry)[0])
	require.NoError(t, err)

	identity := partials.FromNode(p.StartNode)
	composed, err := Compose(identity, p)
	require.NoError(t, err)

	assert.Equal(t, p.StartNode, composed.StartNode)
	assert.Equal(t, p.EndNode, composed.EndNode)
	assert.Equal(t, p.SymbolPostcondition.Len(), composed.SymbolPostcondition.Len())
}

func TestCompose_UnifiesPostconditionAgainstPrecondition(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	entryA, _ := g.AddInternalNode(file, 1)
	push, _ := g.AddPushSymbolNode(file, 2, sym, true)
	internal, _ := g.AddInternalNode(file, 3)
	g.AddEdge(entryA, push, 0)
	g.AddEdge(push, internal, 0)

	pop, _ := g.AddPopSymbolNode(file, 4, sym, true)
	g.AddEdge(internal, pop, 0)

	partials := NewPartialPaths()
	p1 := partials.FromNode(entryA)
	p1, err := AppendEdge(g, partials, p1, g.OutgoingEdges(entryA)[0])
	require.NoError(t, err)
	p1, err = AppendEdge(g, partials, p1, g.OutgoingEdges(push)[0])
	require.NoError(t, err)
	require.Equal(t, 1, p1.SymbolPostcondition.Len())

	p2 := partials.FromNode(internal)
	p2, err = AppendEdge(g, partials, p2, g.OutgoingEdges(internal)[0])
	require.NoError(t, err)
	require.Equal(t, 1, p2.SymbolPrecondition.Len())

	composed, err := Compose(p1, p2)
	require.NoError(t, err)
	assert.Equal(t, 0, composed.SymbolPrecondition.Len())
	assert.Equal(t, 0, composed.SymbolPostcondition.Len())
	assert.Equal(t, entryA, composed.StartNode)
	assert.Equal(t, pop, composed.EndNode)
}

func TestCompose_MismatchedSymbolFails(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	symX := g.AddSymbol("x")
	symY := g.AddSymbol("y")

	entryA, _ := g.AddInternalNode(file, 1)
	push, _ := g.AddPushSymbolNode(file, 2, symX, true)
	internal, _ := g.AddInternalNode(file, 3)
	g.AddEdge(entryA, push, 0)
	g.AddEdge(push, internal, 0)

	pop, _ := g.AddPopSymbolNode(file, 4, symY, true)
	g.AddEdge(internal, pop, 0)

	partials := NewPartialPaths()
	p1 := partials.FromNode(entryA)
	p1, _ = AppendEdge(g, partials, p1, g.OutgoingEdges(entryA)[0])
	p1, _ = AppendEdge(g, partials, p1, g.OutgoingEdges(push)[0])

	p2 := partials.FromNode(internal)
	p2, _ = AppendEdge(g, partials, p2, g.OutgoingEdges(internal)[0])

	_, err := Compose(p1, p2)
	var unifyErr *UnificationError
	require.ErrorAs(t, err, &unifyErr)
	assert.Equal(t, SymbolStackUnsatisfied, unifyErr.Kind)
}

func TestIsCyclic_FreeOnIdentityLoop(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	n, _ := g.AddInternalNode(file, 1)

	p := FromNode(n)
	set, ok := IsCyclic(p)
	require.True(t, ok)
	assert.True(t, set.Has(Free))
}

func TestIsCyclic_StrengthensPostconditionOnGrowingPush(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")
	n, _ := g.AddPushSymbolNode(file, 1, sym, true)

	partials := NewPartialPaths()
	start := partials.FromNode(n)
	selfEdge := graph.Edge{Source: n, Sink: n, Precedence: 0}
	grown, err := AppendEdge(g, partials, start, selfEdge)
	require.NoError(t, err)

	// A bare push self-loop also grows its precondition on repetition (each
	// trip around demands the previous trip's pushes still be there
	// underneath), so LoopsAtEnd legitimately co-occurs here too.
	set, ok := IsCyclic(grown)
	require.True(t, ok)
	assert.True(t, set.Has(StrengthensPostcondition))
}
