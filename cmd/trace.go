// Copyright © 2018 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sync"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/lisp/x/profiler"
	"go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Tracer names accepted by the trace setting.
const (
	traceNone       = "none"
	traceOtel       = "otel"
	traceOpenCensus = "opencensus"
	traceCallgrind  = "callgrind"
	tracePprof      = "pprof"
)

type traceOptions struct {
	kind      string
	file      string
	docFilter bool
	w         io.Writer
}

func (o traceOptions) profilerOptions() []profiler.Option {
	if !o.docFilter {
		return nil
	}
	return []profiler.Option{profiler.WithDocFilter(), profiler.WithDocLabeler()}
}

func (o traceOptions) fileOr(def string) string {
	if o.file != "" {
		return o.file
	}
	return def
}

// newProfiler returns the profiler selected by opts for rt and a function
// that flushes its output.  A nil profiler is returned when tracing is
// disabled.
func newProfiler(opts traceOptions, rt *lisp.Runtime) (lisp.Profiler, func() error, error) {
	switch opts.kind {
	case "", traceNone:
		return nil, nil, nil
	case traceOtel:
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithSyncer(&otelSpanWriter{w: opts.w}),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)
		p := profiler.NewOpenTelemetryAnnotator(rt, context.Background(), opts.profilerOptions()...)
		return p, func() error {
			if err := p.Complete(); err != nil {
				return err
			}
			return tp.Shutdown(context.Background())
		}, nil
	case traceOpenCensus:
		trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
		exp := &ocSpanWriter{w: opts.w}
		trace.RegisterExporter(exp)
		p := profiler.NewOpenCensusAnnotator(rt, context.Background(), opts.profilerOptions()...)
		return p, func() error {
			trace.UnregisterExporter(exp)
			return p.Complete()
		}, nil
	case traceCallgrind:
		p := profiler.NewCallgrindProfiler(rt, nil, opts.profilerOptions()...)
		if err := p.SetFile(opts.fileOr("callgrind.out")); err != nil {
			return nil, nil, err
		}
		return p, p.Complete, nil
	case tracePprof:
		f, err := os.Create(opts.fileOr("cpu.pprof"))
		if err != nil {
			return nil, nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, nil, err
		}
		p := profiler.NewPprofAnnotator(rt, context.Background(), opts.profilerOptions()...)
		return p, func() error {
			pprof.StopCPUProfile()
			if err := p.Complete(); err != nil {
				return err
			}
			return f.Close()
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown tracer: %q", opts.kind)
	}
}

// otelSpanWriter is an OpenTelemetry span exporter writing one line per
// span.
type otelSpanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ sdktrace.SpanExporter = &otelSpanWriter{}

func (e *otelSpanWriter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, span := range spans {
		_, err := fmt.Fprintf(e.w, "span %s id=%s parent=%s duration=%s\n",
			span.Name(),
			span.SpanContext().SpanID(),
			span.Parent().SpanID(),
			span.EndTime().Sub(span.StartTime()))
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *otelSpanWriter) Shutdown(ctx context.Context) error {
	return nil
}

// ocSpanWriter is an OpenCensus exporter writing one line per span.
type ocSpanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (e *ocSpanWriter) ExportSpan(sd *trace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, _ = fmt.Fprintf(e.w, "span %s id=%s parent=%s duration=%s\n",
		sd.Name, sd.SpanID, sd.ParentSpanID, sd.EndTime.Sub(sd.StartTime))
}
