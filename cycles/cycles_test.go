package cycles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/stackgraph/arena"
	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/partial"
)

type fakePath struct {
	start, end            arena.Handle[graph.Node]
	symbolPre, scopePre   int
	symbolPost, scopePost int
}

func (p fakePath) PathEndpoints() (arena.Handle[graph.Node], arena.Handle[graph.Node]) {
	return p.start, p.end
}

func (p fakePath) StackLengths() (int, int, int, int) {
	return p.symbolPre, p.scopePre, p.symbolPost, p.scopePost
}

func TestSimilarPathDetector_FirstPathIsAlwaysKept(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	n1, _ := g.AddInternalNode(file, 1)
	n2, _ := g.AddInternalNode(file, 2)

	detector := NewSimilarPathDetector[fakePath]()
	p := fakePath{start: n1, end: n2, symbolPre: 1, symbolPost: 1}

	discarded := detector.AddPath(p, func(candidate, existing fakePath) Comparison { return Incomparable })
	assert.False(t, discarded)
}

func TestSimilarPathDetector_DominatingPathReplacesExisting(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	n1, _ := g.AddInternalNode(file, 1)
	n2, _ := g.AddInternalNode(file, 2)

	detector := NewSimilarPathDetector[fakePath]()
	first := fakePath{start: n1, end: n2, symbolPre: 1, symbolPost: 1}
	detector.AddPath(first, func(candidate, existing fakePath) Comparison { return Incomparable })

	better := fakePath{start: n1, end: n2, symbolPre: 1, symbolPost: 1}
	discarded := detector.AddPath(better, func(candidate, existing fakePath) Comparison { return Less })
	assert.False(t, discarded)

	// A third, merely-equal path now loses to `better`.
	discardedThird := detector.AddPath(first, func(candidate, existing fakePath) Comparison { return Equal })
	assert.True(t, discardedThird)
}

// edgeAppendable adapts a single graph.Edge to the cycles.Appendable
// interface, the way stitching.EdgeAppendable does.
type edgeAppendable struct {
	g    *graph.StackGraph
	edge graph.Edge
}

func (a edgeAppendable) AppendTo(g *graph.StackGraph, partials *partial.PartialPaths, path *partial.PartialPath) error {
	next, err := partial.AppendEdge(g, partials, *path, a.edge)
	if err != nil {
		return err
	}
	*path = next
	return nil
}

func (a edgeAppendable) StartNode() arena.Handle[graph.Node] { return a.edge.Source }
func (a edgeAppendable) EndNode() arena.Handle[graph.Node]   { return a.edge.Sink }

type edgeProvider struct{ g *graph.StackGraph }

func (p edgeProvider) GetAppendable(e graph.Edge) Appendable {
	return edgeAppendable{g: p.g, edge: e}
}

func TestAppendingCycleDetector_FreeCycleOnInternalSelfLoop(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	n, _ := g.AddInternalNode(file, 1)
	selfEdge := graph.Edge{Source: n, Sink: n, Precedence: 0}

	partials := partial.NewPartialPaths()
	appendables := NewAppendables[graph.Edge]()
	seed := partials.FromNode(n)

	detector := FromPartialPath(appendables, seed)
	detector = detector.Append(appendables, selfEdge)

	set, err := IsCyclic[graph.Edge](g, partials, edgeProvider{g: g}, appendables, detector)
	require.NoError(t, err)
	assert.True(t, set.Has(partial.Free))
}

func TestAppendingCycleDetector_NoCycleWithoutLoopingHistory(t *testing.T) {
	g := graph.New()
	file := g.GetOrCreateFile("a.go")
	n1, _ := g.AddInternalNode(file, 1)
	n2, _ := g.AddInternalNode(file, 2)
	edge := graph.Edge{Source: n1, Sink: n2, Precedence: 0}

	partials := partial.NewPartialPaths()
	appendables := NewAppendables[graph.Edge]()
	seed := partials.FromNode(n1)

	detector := FromPartialPath(appendables, seed)
	detector = detector.Append(appendables, edge)

	set, err := IsCyclic[graph.Edge](g, partials, edgeProvider{g: g}, appendables, detector)
	require.NoError(t, err)
	assert.True(t, set.IsEmpty())
}
