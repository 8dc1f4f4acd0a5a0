package goref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/stackgraph/graph"
)

const sampleSource = `package demo

func Helper() int {
	return 1
}

func Main() int {
	return Helper()
}
`

func TestBuilder_LinksCallToDeclarationInSameFile(t *testing.T) {
	g := graph.New()
	b := NewBuilder(g)

	require.NoError(t, b.ParseFile("demo.go", []byte(sampleSource)))
	edges := b.Link()

	assert.Equal(t, 1, edges, "the one call to Helper should link to its one declaration")
}

func TestBuilder_LinksAcrossFiles(t *testing.T) {
	g := graph.New()
	b := NewBuilder(g)

	require.NoError(t, b.ParseFile("a.go", []byte("package demo\n\nfunc Helper() int { return 1 }\n")))
	require.NoError(t, b.ParseFile("b.go", []byte("package demo\n\nfunc Main() int { return Helper() }\n")))

	edges := b.Link()
	assert.Equal(t, 1, edges)
}

func TestBuilder_UnresolvedCallLeavesNoEdge(t *testing.T) {
	g := graph.New()
	b := NewBuilder(g)

	require.NoError(t, b.ParseFile("a.go", []byte("package demo\n\nfunc Main() int { return Missing() }\n")))

	edges := b.Link()
	assert.Equal(t, 0, edges)
}

func TestIsExported(t *testing.T) {
	assert.True(t, IsExported("Helper"))
	assert.False(t, IsExported("helper"))
	assert.False(t, IsExported(""))
}
