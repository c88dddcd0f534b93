package otel

import (
	"context"
	"sync"

	"github.com/go-logr/logr"
	eventbus "github.com/hanpama/selectiongraph/internal/eventbus"
	events "github.com/hanpama/selectiongraph/internal/events"
	"github.com/hanpama/selectiongraph/internal/ir"
	passid "github.com/hanpama/selectiongraph/internal/passid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

const tracerName = "selectiongraph"

// Setup configures OpenTelemetry and attaches subscribers to the global bus.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string, logger logr.Logger) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	otel.SetLogger(logger)
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := Register(nil, tp.Tracer(tracerName))
	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

type entrypointKey struct {
	pass int64
	id   ir.SelectableID
}

type subscriber struct {
	tracer     trace.Tracer
	passSpans  sync.Map // pass id -> trace.Span
	entrySpans sync.Map // entrypointKey -> trace.Span
}

// Register subscribes span handlers to b, or to the global bus when b is nil.
// A pass becomes a "compile.pass" span with one "compile.entrypoint" child
// per entrypoint.
func Register(b *eventbus.Bus, tracer trace.Tracer) (unsubscribe func()) {
	s := &subscriber{tracer: tracer}
	var subs []func()
	on := func(sub func()) { subs = append(subs, sub) }
	if b == nil {
		on(eventbus.Subscribe(s.passStart))
		on(eventbus.Subscribe(s.validationFinish))
		on(eventbus.Subscribe(s.entrypointStart))
		on(eventbus.Subscribe(s.entrypointFinish))
		on(eventbus.Subscribe(s.passFinish))
	} else {
		on(eventbus.On(b, s.passStart))
		on(eventbus.On(b, s.validationFinish))
		on(eventbus.On(b, s.entrypointStart))
		on(eventbus.On(b, s.entrypointFinish))
		on(eventbus.On(b, s.passFinish))
	}
	return func() {
		for _, sub := range subs {
			sub()
		}
	}
}

func (s *subscriber) passStart(ctx context.Context, e events.PassStart) {
	pid, _ := passid.FromContext(ctx)
	_, span := s.tracer.Start(ctx, "compile.pass")
	span.SetAttributes(attribute.Int("compile.entrypoints", e.Entrypoints))
	s.passSpans.Store(pid, span)
}

func (s *subscriber) validationFinish(ctx context.Context, e events.ValidationFinish) {
	pid, _ := passid.FromContext(ctx)
	if v, ok := s.passSpans.Load(pid); ok {
		v.(trace.Span).AddEvent("validation", trace.WithAttributes(
			attribute.Int("compile.selectables", e.Selectables),
			attribute.Int("compile.diagnostics", e.Diagnostics),
		))
	}
}

func (s *subscriber) entrypointStart(ctx context.Context, e events.EntrypointStart) {
	pid, _ := passid.FromContext(ctx)
	parent := ctx
	if v, ok := s.passSpans.Load(pid); ok {
		parent = trace.ContextWithSpan(ctx, v.(trace.Span))
	}
	_, span := s.tracer.Start(parent, "compile.entrypoint")
	span.SetAttributes(attribute.String("compile.entrypoint", e.Entrypoint.String()))
	s.entrySpans.Store(entrypointKey{pid, e.Entrypoint}, span)
}

func (s *subscriber) entrypointFinish(ctx context.Context, e events.EntrypointFinish) {
	pid, _ := passid.FromContext(ctx)
	v, ok := s.entrySpans.LoadAndDelete(entrypointKey{pid, e.Entrypoint})
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(
		attribute.Int("compile.refetch_queries", e.RefetchQueries),
		attribute.Int("compile.variables", e.Variables),
	)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	}
	span.End()
}

func (s *subscriber) passFinish(ctx context.Context, e events.PassFinish) {
	pid, _ := passid.FromContext(ctx)
	v, ok := s.passSpans.LoadAndDelete(pid)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(
		attribute.Int("compile.artifacts", e.Artifacts),
		attribute.Int("compile.diagnostics", e.Diagnostics),
		attribute.Int("compile.failed", e.Failed),
	)
	if e.Err != nil {
		span.RecordError(e.Err)
		span.SetStatus(codes.Error, e.Err.Error())
	}
	span.End()
}
