// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"errors"

	"github.com/luthersystems/mal/lisp"
	"go.opencensus.io/trace"
)

var _ lisp.Profiler = &ocAnnotator{}

type ocAnnotator struct {
	profiler
	currentContext context.Context
}

// NewOpenCensusAnnotator returns a profiler that records an OpenCensus span
// for every traced call as a descendant of the span in parentContext.
func NewOpenCensusAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *ocAnnotator {
	p := &ocAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

// EnableWithContext enables the profiler, parenting spans to ctx.
func (p *ocAnnotator) EnableWithContext(ctx context.Context) error {
	if ctx == nil {
		return errors.New("set a context to use this function")
	}
	p.currentContext = ctx
	return p.Enable()
}

func (p *ocAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		return errors.New("we can only append spans to a context that is linked to opencensus")
	}
	return p.profiler.Enable()
}

func (p *ocAnnotator) Complete() error {
	p.enabled = false
	return nil
}

func (p *ocAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return noop
	}
	oldContext := p.currentContext
	prettyLabel, name := p.prettyFunName(fun)
	var span *trace.Span
	p.currentContext, span = trace.StartSpan(oldContext, prettyLabel)
	span.AddAttributes(
		trace.StringAttribute("code.namespace", funKind(fun)),
		trace.StringAttribute("code.function", name),
	)
	return func() {
		span.Annotate([]trace.Attribute{
			trace.Int64Attribute("stack.height", int64(len(p.runtime.Stack.Frames))),
		}, "return")
		span.End()
		p.currentContext = oldContext
	}
}
