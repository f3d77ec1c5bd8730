package telemetry_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/foundry/internal/adapters/telemetry"
	"go.trai.ch/foundry/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
	var _ ports.TraceExporter = (*telemetry.Provider)(nil)
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	tracer := telemetry.NewOTelTracerWithProvider(provider, telemetry.InstrumentationName)

	ctx, parent := tracer.Start(context.Background(), "test_file")
	parent.SetAttribute("contract", "test_math.cairo")
	parent.SetAttribute("entrypoints", 3)
	parent.SetAttribute("cached", true)
	parent.SetAttribute("ratio", 0.5)
	parent.SetAttribute("names", []string{"test_a", "test_b"})
	parent.SetAttribute("duration", 1500*time.Millisecond)
	parent.SetAttribute("other", struct{ A int }{A: 1})

	_, child := tracer.Start(ctx, "entrypoint")
	child.RecordError(errors.New("vm crashed"))
	child.RecordError(nil)
	child.End()
	parent.End()

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "entrypoint", spans[0].Name())
	assert.Equal(t, spans[1].SpanContext().SpanID(), spans[0].Parent().SpanID())
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "vm crashed", spans[0].Status().Description)
	require.Len(t, spans[0].Events(), 1)

	attrs := spans[1].Attributes()
	assert.Contains(t, attrs, attribute.String("contract", "test_math.cairo"))
	assert.Contains(t, attrs, attribute.Int("entrypoints", 3))
	assert.Contains(t, attrs, attribute.Bool("cached", true))
	assert.Contains(t, attrs, attribute.Float64("ratio", 0.5))
	assert.Contains(t, attrs, attribute.StringSlice("names", []string{"test_a", "test_b"}))
	assert.Contains(t, attrs, attribute.Int64("duration", 1500))
	assert.Contains(t, attrs, attribute.String("other", "{1}"))
	assert.Equal(t, codes.Unset, spans[1].Status().Code)
}

func TestOTelTracer_GlobalProvider(t *testing.T) {
	tracer := telemetry.NewOTelTracer("test-tracer")
	assert.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "test-span")
	assert.NotNil(t, span)
	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)
	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func decodeSpans(t *testing.T, data []byte) []string {
	t.Helper()
	var names []string
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var span struct{ Name string }
		require.NoError(t, dec.Decode(&span))
		names = append(names, span.Name)
	}
	return names
}

func TestProvider_Export(t *testing.T) {
	p := telemetry.NewProvider()
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	var buf bytes.Buffer
	stop, err := p.Export(&buf)
	require.NoError(t, err)

	tracer := p.Tracer()
	ctx, file := tracer.Start(context.Background(), "test_file")
	file.SetAttribute("contract", "test_math.cairo")
	_, ep := tracer.Start(ctx, "entrypoint")
	ep.RecordError(errors.New("vm crashed"))
	ep.End()
	file.End()

	require.NoError(t, stop(context.Background()))
	assert.Equal(t, []string{"entrypoint", "test_file"}, decodeSpans(t, buf.Bytes()))
	assert.Contains(t, buf.String(), "test_math.cairo")
	assert.Contains(t, buf.String(), "vm crashed")

	// Spans ending after stop are not written.
	written := buf.Len()
	_, late := tracer.Start(context.Background(), "late")
	late.End()
	assert.Equal(t, written, buf.Len())
}

func TestProvider_IsGlobal(t *testing.T) {
	p := telemetry.NewProvider()
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	var buf bytes.Buffer
	stop, err := p.Export(&buf)
	require.NoError(t, err)

	_, span := telemetry.NewOTelTracer("global").Start(context.Background(), "via_global")
	span.End()
	require.NoError(t, stop(context.Background()))

	assert.Equal(t, []string{"via_global"}, decodeSpans(t, buf.Bytes()))
}
