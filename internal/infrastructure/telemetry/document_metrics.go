package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// DocumentMetrics records PDF rendering outcomes. It satisfies printing.RenderObserver.
type DocumentMetrics struct {
	renders  *Counter
	failures *Counter
	duration *Histogram
	size     *Histogram
}

// staged is implemented by printing.RenderError
type staged interface {
	error
	RenderStage() string
}

// NewDocumentMetrics creates the rendering instruments on meter
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	renders, err := NewCounter(meter, "document_render_total", "PDF render attempts", "{render}")
	if err != nil {
		return nil, err
	}
	failures, err := NewCounter(meter, "document_render_failures_total", "Failed PDF renders by stage", "{render}")
	if err != nil {
		return nil, err
	}
	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "document_render_duration_seconds",
		Description: "PDF render latency",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	size, err := NewHistogram(meter, HistogramOpts{
		Name:        "document_render_size_bytes",
		Description: "Size of rendered PDFs",
		Unit:        "By",
		Boundaries:  []float64{8 << 10, 32 << 10, 128 << 10, 512 << 10, 2 << 20, 8 << 20},
	})
	if err != nil {
		return nil, err
	}
	return &DocumentMetrics{renders: renders, failures: failures, duration: duration, size: size}, nil
}

// ObserveRender records one render attempt
func (m *DocumentMetrics) ObserveRender(ctx context.Context, engine string, size int, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	attrs := []attribute.KeyValue{
		attribute.String("engine", engine),
		attribute.String("outcome", outcome),
	}
	m.renders.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, elapsed, attrs...)

	if err != nil {
		stage := "unknown"
		var se staged
		if errors.As(err, &se) {
			stage = se.RenderStage()
		}
		m.failures.Inc(ctx, attribute.String("engine", engine), attribute.String("stage", stage))
		return
	}
	m.size.Record(ctx, float64(size), attribute.String("engine", engine))
}
