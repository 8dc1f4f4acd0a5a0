package stitching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stackgraph "github.com/viant/stackgraph"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

func TestPrecomputeFile_StoresOpenPathForReferenceDeadEndingAtRoot(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	symX := g.AddSymbol("x")
	symA := g.AddSymbol("A")

	scope, err := g.AddScopeNode(file, 1, true)
	require.NoError(t, err)
	push, err := g.AddPushSymbolNode(file, 2, symX, true)
	require.NoError(t, err)
	pushA, err := g.AddPushScopedSymbolNode(file, 3, symA, scope, false)
	require.NoError(t, err)
	g.AddEdge(push, pushA, 0)
	g.AddEdge(pushA, g.Root(), 0)

	partials := partial.NewPartialPaths()
	db := NewDatabase()
	err = PrecomputeFile(g, db, partials, file, DefaultStitcherConfig(), stackgraph.NoCancellation{})
	require.NoError(t, err)

	handles := db.PathsStartingAt(push)
	require.Len(t, handles, 1)

	stored := db.Get(handles[0])
	assert.Equal(t, push, stored.StartNode)
	assert.Equal(t, g.Root(), stored.EndNode)
	// push is the seed itself, so its own action is left for whatever
	// composes onto this entry at the caller's side; only pushA's action
	// (reached via an edge within this file) shows up here, on top of the
	// still-open tail variable shared with the precondition.
	assert.True(t, stored.SymbolPostcondition.HasVariable())
	require.Len(t, stored.SymbolPostcondition.Entries(), 1)
	assert.Equal(t, symA, stored.SymbolPostcondition.Entries()[0].Symbol)
	assert.True(t, stored.SymbolPostcondition.Entries()[0].Scoped)
}

func TestPrecomputeFile_SkipsFileWithNoReferencesOrDefinitions(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	_, err := g.AddInternalNode(file, 1)
	require.NoError(t, err)

	partials := partial.NewPartialPaths()
	db := NewDatabase()
	err = PrecomputeFile(g, db, partials, file, DefaultStitcherConfig(), stackgraph.NoCancellation{})
	require.NoError(t, err)
	assert.Empty(t, db.All())
}
