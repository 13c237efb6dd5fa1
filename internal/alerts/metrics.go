package alerts

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/shorecast/shorecast/internal/alerts"

// MetricsSink receives composition observability events. Injected so the
// orchestrator never writes process-wide shared state; tests supply a no-op
// or recording sink.
type MetricsSink interface {
	// CompositionStarted counts one inbound composition.
	CompositionStarted(ctx context.Context)

	// CompositionCompleted records the end-to-end composition latency.
	CompositionCompleted(ctx context.Context, d time.Duration)

	// UpstreamFailure counts one absorbed upstream failure by source.
	UpstreamFailure(ctx context.Context, source string)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) CompositionStarted(context.Context)                  {}
func (NopSink) CompositionCompleted(context.Context, time.Duration) {}
func (NopSink) UpstreamFailure(context.Context, string)             {}

// OTelSink exports composition events as OpenTelemetry metrics.
type OTelSink struct {
	compositions metric.Int64Counter
	duration     metric.Float64Histogram
	failures     metric.Int64Counter
}

// NewOTelSink creates the metric instruments on the global meter.
func NewOTelSink() (*OTelSink, error) {
	meter := otel.Meter(meterName)

	compositions, err := meter.Int64Counter(
		"alerts.compositions.total",
		metric.WithDescription("Total number of alert compositions"),
		metric.WithUnit("{composition}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"alerts.composition.duration",
		metric.WithDescription("End-to-end alert composition latency in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"alerts.upstream.failures.total",
		metric.WithDescription("Upstream failures absorbed during composition"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return &OTelSink{
		compositions: compositions,
		duration:     duration,
		failures:     failures,
	}, nil
}

func (s *OTelSink) CompositionStarted(ctx context.Context) {
	s.compositions.Add(ctx, 1)
}

func (s *OTelSink) CompositionCompleted(ctx context.Context, d time.Duration) {
	s.duration.Record(ctx, d.Seconds())
}

func (s *OTelSink) UpstreamFailure(ctx context.Context, source string) {
	s.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("source", source)))
}
