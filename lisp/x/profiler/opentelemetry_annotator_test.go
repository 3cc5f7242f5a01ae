// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracerProvider(t *testing.T) *tracetest.InMemoryExporter {
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
		trace.WithSampler(trace.AlwaysSample()),
	)
	t.Cleanup(func() {
		err := tp.Shutdown(context.Background())
		assert.NoError(t, err, "TracerProvider shutdown")
	})
	otel.SetTracerProvider(tp)
	return exporter
}

func TestNewOpenTelemetryAnnotator(t *testing.T) {
	exporter := newTestTracerProvider(t)
	runProfiled(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background())
	})

	spans := exporter.GetSpans()
	assert.GreaterOrEqual(t, len(spans), 10, "Expected a span per call")
	names := make(map[string]bool)
	for _, span := range spans {
		names[span.Name] = true
	}
	for _, name := range []string{"add-it", "add-it-again", "recurse-it", "print-it", "+", "<", "-", "prn"} {
		assert.True(t, names[name], "missing span %q", name)
	}
}

func TestNewOpenTelemetryAnnotatorSkip(t *testing.T) {
	exporter := newTestTracerProvider(t)
	runProfiled(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
			profiler.WithDocFilter(),
			profiler.WithDocLabeler())
	})

	spans := exporter.GetSpans()
	require.Equal(t, 4, len(spans), "Expected selective spans")
	assert.Equal(t, "Add_It", spans[0].Name, "Expected custom label")
	assert.Equal(t, "Add_It_Again", spans[1].Name, "Expected custom label")
	assert.Equal(t, "Add_It", spans[2].Name, "Expected custom label")
	assert.Equal(t, "print-it", spans[3].Name, "Expected function name")

	assert.Equal(t, spans[1].SpanContext.SpanID(), spans[0].Parent.SpanID(), "Expected nested span")
	assert.False(t, spans[1].Parent.IsValid(), "Expected root span")
	assert.Contains(t, spans[0].Attributes, attribute.String("code.function", "add-it"))
	assert.Contains(t, spans[0].Attributes, attribute.String("code.namespace", "user"))
}

func TestOpenTelemetryAnnotatorSkipBuiltins(t *testing.T) {
	exporter := newTestTracerProvider(t)
	runProfiled(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenTelemetryAnnotator(rt, context.Background(),
			profiler.WithSkipFilter(profiler.SkipBuiltins))
	})
	for _, span := range exporter.GetSpans() {
		assert.Contains(t, span.Attributes, attribute.String("code.namespace", "user"), span.Name)
	}
}

func TestOpenTelemetryAnnotatorRequiresContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	//nolint:staticcheck
	p := profiler.NewOpenTelemetryAnnotator(env.Runtime, nil)
	assert.Error(t, p.Enable())
	assert.False(t, p.IsEnabled())
}
