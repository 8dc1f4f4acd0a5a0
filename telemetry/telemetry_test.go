package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/stats"
	"github.com/viant/stackgraph/stitching"
)

func TestProvider_DisabledIsNoop(t *testing.T) {
	p, err := NewProvider(DefaultConfig(), nil)
	require.NoError(t, err)
	tracer := p.Tracer()
	assert.NotNil(t, tracer)
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestRunStitcher_PropagatesError(t *testing.T) {
	p, err := NewProvider(DefaultConfig(), nil)
	require.NoError(t, err)
	g := graph.New()

	sentinel := errors.New("boom")
	err = RunStitcher(context.Background(), p, g, stitching.DefaultStitcherConfig(), func(ctx context.Context) error {
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestAttachFrequencyStats_NoPanicOnEmptyDistribution(t *testing.T) {
	p, err := NewProvider(DefaultConfig(), nil)
	require.NoError(t, err)
	_, span := p.Tracer().Start(context.Background(), "test")
	defer span.End()

	dist := &stats.FrequencyDistribution[int]{}
	AttachFrequencyStats(span, "bucket", dist)
}
