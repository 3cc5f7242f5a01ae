// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"context"
	"sync"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/lisp/x/profiler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

func TestNewOpenCensusAnnotator(t *testing.T) {
	// Let's sample at 100% for the purposes of this test...
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := new(customExporter)
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	runProfiled(t, func(rt *lisp.Runtime) lisp.Profiler {
		return profiler.NewOpenCensusAnnotator(rt, context.Background(),
			profiler.WithDocFilter(),
			profiler.WithDocLabeler())
	})

	spans := exporter.spans()
	require.Len(t, spans, 4)
	assert.Equal(t, "Add_It", spans[0].Name)
	assert.Equal(t, "Add_It_Again", spans[1].Name)
	assert.Equal(t, spans[1].SpanID, spans[0].ParentSpanID)
	assert.Equal(t, "add-it", spans[0].Attributes["code.function"])
	assert.Equal(t, "user", spans[0].Attributes["code.namespace"])
	require.Len(t, spans[0].Annotations, 1)
	assert.Equal(t, "return", spans[0].Annotations[0].Message)
	assert.Equal(t, "print-it", spans[3].Name)
}

func TestOpenCensusAnnotatorEnableWithContext(t *testing.T) {
	env := lisp.NewEnv(nil)
	//nolint:staticcheck
	p := profiler.NewOpenCensusAnnotator(env.Runtime, nil)
	assert.Error(t, p.Enable())
	assert.NoError(t, p.EnableWithContext(context.Background()))
	assert.True(t, p.IsEnabled())
	assert.Same(t, p, env.Runtime.Profiler)
}

// customExporter records spans in memory.  In the real world you'd use one
// of the exporters supported by opencensus.
type customExporter struct {
	mu   sync.Mutex
	data []*trace.SpanData
}

func (e *customExporter) ExportSpan(sd *trace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.data = append(e.data, sd)
}

func (e *customExporter) spans() []*trace.SpanData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*trace.SpanData(nil), e.data...)
}
