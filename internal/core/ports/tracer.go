package ports

import (
	"context"
	"io"
)

// Tracer is the entry point for creating spans.
//
//go:generate go run go.uber.org/mock/mockgen -source=tracer.go -destination=mocks/mock_tracer.go -package=mocks
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a unit of work.
type Span interface {
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// TraceExporter streams finished spans to a writer.
type TraceExporter interface {
	// Export writes every span that ends to w until stop is called.
	Export(w io.Writer) (stop func(context.Context) error, err error)
}
