package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/foundry/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.TraceExporter = (*Provider)(nil)

// Provider owns the SDK tracer provider of the process.
// Exporters are attached and detached while it runs.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider creates an SDK tracer provider and registers it as the global provider.
func NewProvider() *Provider {
	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}
}

// Tracer returns the tracer of the test runner.
func (p *Provider) Tracer() *OTelTracer {
	return NewOTelTracerWithProvider(p.tp, InstrumentationName)
}

// Export writes every span that ends to w as one JSON object per line, until stop is called.
func (p *Provider) Export(w io.Writer) (func(context.Context) error, error) {
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, zerr.Wrap(err, "failed to create trace exporter")
	}

	// Spans are written as they end, so nothing is buffered at stop.
	processor := sdktrace.NewSimpleSpanProcessor(exporter)
	p.tp.RegisterSpanProcessor(processor)

	return func(ctx context.Context) error {
		err := processor.ForceFlush(ctx)
		p.tp.UnregisterSpanProcessor(processor)
		if err != nil {
			return zerr.Wrap(err, "failed to flush traces")
		}
		return nil
	}, nil
}

// Shutdown stops the provider and every attached exporter.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
