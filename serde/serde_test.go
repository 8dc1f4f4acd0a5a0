package serde

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/stackgraph/graph"
)

func buildSampleGraph(t *testing.T) *graph.StackGraph {
	t.Helper()
	g := graph.New()

	fileA := g.GetOrCreateFile("a.go")
	fileB := g.GetOrCreateFile("b.go")
	sym := g.AddSymbol("x")

	scope, err := g.AddScopeNode(fileA, 1, true)
	require.NoError(t, err)
	push, err := g.AddPushScopedSymbolNode(fileA, 2, sym, scope, true)
	require.NoError(t, err)
	pop, err := g.AddPopScopedSymbolNode(fileB, 1, sym, true)
	require.NoError(t, err)

	g.AddEdge(g.Root(), push, 0)
	g.AddEdge(push, pop, 0)

	return g
}

func TestSnapshot_RoundTripsThroughYAML(t *testing.T) {
	g := buildSampleGraph(t)

	snap := Snapshot(g, NoFilter{})
	data, err := Marshal(snap)
	require.NoError(t, err)

	loaded, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)

	g2 := graph.New()
	require.NoError(t, LoadInto(loaded, g2))

	reSnap := Snapshot(g2, NoFilter{})
	assert.ElementsMatch(t, snap.Nodes, reSnap.Nodes)
	assert.ElementsMatch(t, snap.Edges, reSnap.Edges)
}

func TestFileFilter_ExcludesOtherFiles(t *testing.T) {
	g := buildSampleGraph(t)

	snap := Snapshot(g, NewFileFilter("a.go"))
	assert.Equal(t, []string{"a.go"}, snap.Files)
	for _, n := range snap.Nodes {
		if n.ID.File != "" {
			assert.Equal(t, "a.go", n.ID.File)
		}
	}
	// The edge from push (a.go) to pop (b.go) must be dropped since b.go
	// is excluded, even though push itself survives.
	for _, e := range snap.Edges {
		assert.NotEqual(t, "b.go", e.Sink.File)
	}
}

func TestNodeOf_RootAlwaysIncluded(t *testing.T) {
	g := buildSampleGraph(t)
	snap := Snapshot(g, NewFileFilter("b.go"))

	foundRoot := false
	for _, n := range snap.Nodes {
		if n.Kind == "root" {
			foundRoot = true
		}
	}
	assert.True(t, foundRoot)
}
