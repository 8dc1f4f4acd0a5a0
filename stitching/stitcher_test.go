package stitching

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stackgraph "github.com/viant/stackgraph"
	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

func TestFindAllCompletePartialPaths_StraightPushPopResolves(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	entry, _ := g.AddInternalNode(file, 1)
	push, _ := g.AddPushSymbolNode(file, 2, sym, true)
	pop, _ := g.AddPopSymbolNode(file, 3, sym, true)
	g.AddEdge(entry, push, 0)
	g.AddEdge(push, pop, 0)

	partials := partial.NewPartialPaths()
	db := NewDatabase()

	var found []partial.PartialPath
	err := FindAllCompletePartialPaths(
		g, db, partials,
		[]arena.Handle[graph.Node]{entry},
		DefaultStitcherConfig(),
		stackgraph.NoCancellation{},
		func(p partial.PartialPath) { found = append(found, p) },
	)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, entry, found[0].StartNode)
	assert.Equal(t, pop, found[0].EndNode)
	assert.True(t, found[0].SymbolPrecondition.IsEmpty())
	assert.True(t, found[0].SymbolPostcondition.IsEmpty())
}

func TestFindAllCompletePartialPaths_UnboundedPushCycleNeverEmittedOrHung(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	n, _ := g.AddPushSymbolNode(file, 1, sym, true)
	g.AddEdge(n, n, 0)

	partials := partial.NewPartialPaths()
	db := NewDatabase()

	var found []partial.PartialPath
	err := FindAllCompletePartialPaths(
		g, db, partials,
		[]arena.Handle[graph.Node]{n},
		DefaultStitcherConfig(),
		stackgraph.NoCancellation{},
		func(p partial.PartialPath) { found = append(found, p) },
	)
	require.NoError(t, err)
	// The self-loop only ever strengthens the postcondition (it is not
	// Free), so the stitcher must reject unrolling it rather than looping
	// forever or reporting a bogus completion.
	assert.Empty(t, found)
}

func TestFindAllCompletePartialPaths_CancellationAborts(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	entry, _ := g.AddInternalNode(file, 1)

	partials := partial.NewPartialPaths()
	db := NewDatabase()

	cancel := stackgraph.NewCancelAfterDuration(0)
	time.Sleep(time.Millisecond)

	err := FindAllCompletePartialPaths(
		g, db, partials,
		[]arena.Handle[graph.Node]{entry},
		DefaultStitcherConfig(),
		cancel,
		func(p partial.PartialPath) {},
	)
	var cancelErr *stackgraph.CancellationError
	require.ErrorAs(t, err, &cancelErr)
}

func TestDatabase_CandidatesIncludeStoredPartialPaths(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	sym := g.AddSymbol("x")

	entry, _ := g.AddInternalNode(file, 1)
	pop, _ := g.AddPopSymbolNode(file, 2, sym, true)

	db := NewDatabase()
	stored := partial.PartialPath{
		StartNode:          entry,
		EndNode:            pop,
		SymbolPrecondition: partial.NewSymbolStack([]partial.SymbolStackEntry{{Symbol: sym}}, 0),
	}
	db.Add(stored)

	provider := CandidateProvider{Graph: g, Database: db}
	candidates := provider.CandidatesAt(entry)
	require.Len(t, candidates, 1)
	assert.Equal(t, DatabaseCandidate, candidates[0].Kind)

	appendable := provider.GetAppendable(candidates[0])
	assert.Equal(t, entry, appendable.StartNode())
	assert.Equal(t, pop, appendable.EndNode())
}
