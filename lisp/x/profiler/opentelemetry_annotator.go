// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/mal/lisp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	// ContextOpenTelemetryTracerKey looks up a parent tracer name from a context key.
	ContextOpenTelemetryTracerKey = "otelParentTracer"

	// DefaultTracerName names the tracer used when the parent context does
	// not carry one.
	DefaultTracerName = "mal"
)

var _ lisp.Profiler = &otelAnnotator{}

type otelAnnotator struct {
	profiler
	currentContext context.Context
}

// NewOpenTelemetryAnnotator returns a profiler that records a span for every
// traced call as a descendant of the span in parentContext.
func NewOpenTelemetryAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *otelAnnotator {
	p := &otelAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *otelAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opentelemetry")
	}
	return p.profiler.Enable()
}

func (p *otelAnnotator) Complete() error {
	p.enabled = false
	return nil
}

func contextTracer(ctx context.Context) trace.Tracer {
	tracerName, ok := ctx.Value(ContextOpenTelemetryTracerKey).(string)
	if !ok {
		tracerName = DefaultTracerName
	}
	return otel.GetTracerProvider().Tracer(tracerName)
}

func (p *otelAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return noop
	}
	oldContext := p.currentContext
	prettyLabel, name := p.prettyFunName(fun)
	var span trace.Span
	p.currentContext, span = contextTracer(oldContext).Start(oldContext, prettyLabel)
	span.SetAttributes(
		semconv.CodeNamespace(funKind(fun)),
		semconv.CodeFunction(name),
		attribute.Int("mal.stack.height", len(p.runtime.Stack.Frames)),
	)
	return func() {
		span.End()
		p.currentContext = oldContext
	}
}
