// Package telemetry wraps stitching and assertion runs in OpenTelemetry
// spans (spec.md §3 "Tracing"). The core stitcher never imports this
// package; it is an additive, optional instrumentation layer, grounded on
// the tracer-provider setup used by the sibling corpus repo's
// `internal/telemetry` package and its resource/semconv wiring.
package telemetry

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/viant/stackgraph/graph"
	"github.com/viant/stackgraph/stats"
	"github.com/viant/stackgraph/stitching"
)

// Config configures the tracer provider. ServiceName identifies this
// process in the exported spans; Enabled false makes Provider a no-op
// (every span becomes a noop span, costing nothing).
type Config struct {
	Enabled     bool
	ServiceName string
}

// DefaultConfig returns a disabled configuration; callers opt in.
func DefaultConfig() Config {
	return Config{Enabled: false, ServiceName: "stackgraph"}
}

// Provider owns a tracer and the SDK resources backing it.
type Provider struct {
	tracerProvider *sdktrace.TracerProvider
	tracer         trace.Tracer
}

// NewProvider builds a Provider from config and an exporter (caller-
// supplied so stdout or any other OTel exporter can be wired in without
// this package depending on a specific backend).
func NewProvider(config Config, exporter sdktrace.SpanExporter) (*Provider, error) {
	if !config.Enabled {
		return &Provider{}, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(config.ServiceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("telemetry: build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(tp)

	return &Provider{
		tracerProvider: tp,
		tracer:         tp.Tracer("stackgraph"),
	}, nil
}

// Tracer returns the configured tracer, or a noop tracer if disabled.
func (p *Provider) Tracer() trace.Tracer {
	if p.tracer == nil {
		return trace.NewNoopTracerProvider().Tracer("noop")
	}
	return p.tracer
}

// Shutdown flushes and releases the tracer provider's resources.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.tracerProvider == nil {
		return nil
	}
	if err := p.tracerProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("telemetry: shutdown: %w", err)
	}
	return nil
}

// RunStitcher wraps a stitching run in a span tagged with a fresh run id
// and the graph's node count; run is the caller's closure that actually
// invokes stitching.FindAllCompletePartialPaths (this package never
// imports the stitcher's algorithm, only its configuration type, keeping
// the core stitcher free of any telemetry dependency).
func RunStitcher(
	ctx context.Context,
	p *Provider,
	g *graph.StackGraph,
	config stitching.StitcherConfig,
	run func(ctx context.Context) error,
) error {
	runID := uuid.NewString()
	ctx, span := p.Tracer().Start(ctx, "stitching.find_all_complete_partial_paths")
	defer span.End()

	span.SetAttributes(
		attribute.String("stackgraph.run_id", runID),
		attribute.Int64("stackgraph.node_count", int64(g.NodeCount())),
		attribute.Bool("stackgraph.detect_similar_paths", config.DetectSimilarPaths),
		attribute.Bool("stackgraph.collect_stats", config.CollectStats),
	)

	err := run(ctx)
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// AttachFrequencyStats records a FrequencyDistribution snapshot as span
// attributes: count, number of unique values, and quartile boundaries
// over the recorded counts. Used by callers that ran with
// StitcherConfig.CollectStats set and want the similar-path bucket
// sizes visible on the span.
func AttachFrequencyStats(span trace.Span, prefix string, dist *stats.FrequencyDistribution[int]) {
	span.SetAttributes(
		attribute.Int64(prefix+".count", int64(dist.Count())),
		attribute.Int64(prefix+".unique", int64(dist.Unique())),
	)
	quartiles := stats.Quantiles(dist, 4, func(a, b int) bool { return a < b })
	for i, q := range quartiles {
		span.SetAttributes(attribute.Int64(fmt.Sprintf("%s.q%d", prefix, i), int64(q)))
	}
}
