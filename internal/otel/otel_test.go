package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	eventbus "github.com/hanpama/selectiongraph/internal/eventbus"
	events "github.com/hanpama/selectiongraph/internal/events"
	"github.com/hanpama/selectiongraph/internal/ir"
	passid "github.com/hanpama/selectiongraph/internal/passid"
)

func TestSetupWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup("", "selectiongraph", logr.Discard())
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

func TestCompileSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	b := eventbus.New()
	unsubscribe := Register(b, tp.Tracer(tracerName))
	defer unsubscribe()

	ctx, _ := passid.NewContext(eventbus.WithBus(context.Background(), b))
	good := ir.SelectableID{Parent: "Query", Name: "HomePage"}
	bad := ir.SelectableID{Parent: "Query", Name: "Broken"}

	eventbus.Publish(ctx, events.PassStart{Entrypoints: 2})
	eventbus.Publish(ctx, events.EntrypointStart{Entrypoint: good})
	eventbus.Publish(ctx, events.EntrypointFinish{Entrypoint: good, RefetchQueries: 1})
	eventbus.Publish(ctx, events.EntrypointStart{Entrypoint: bad})
	eventbus.Publish(ctx, events.EntrypointFinish{Entrypoint: bad, Err: errors.New("selection cycle")})
	eventbus.Publish(ctx, events.PassFinish{Artifacts: 1, Failed: 1})

	spans := recorder.Ended()
	require.Len(t, spans, 3)
	require.Equal(t, "compile.entrypoint", spans[0].Name())
	require.Equal(t, "compile.entrypoint", spans[1].Name())
	require.Equal(t, codes.Error, spans[1].Status().Code)
	pass := spans[2]
	require.Equal(t, "compile.pass", pass.Name())
	for _, s := range spans[:2] {
		require.Equal(t, pass.SpanContext().SpanID(), s.Parent().SpanID())
	}
}

func TestFinishWithoutStartIsIgnored(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	b := eventbus.New()
	defer Register(b, tp.Tracer(tracerName))()

	ctx := eventbus.WithBus(context.Background(), b)
	eventbus.Publish(ctx, events.EntrypointFinish{})
	eventbus.Publish(ctx, events.PassFinish{})
	require.Empty(t, recorder.Ended())
}
