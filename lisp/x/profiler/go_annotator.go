// Copyright © 2018 The ELPS authors

package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/mal/lisp"
)

// This profiler type appends tags to pprof output if pprof is enabled.
// It does not start pprof itself.  The sampling rate of pprof is fixed at
// 100Hz so only long running calls show up reliably.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler that labels the current goroutine
// with the name of the function being evaluated.
func NewPprofAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	p.enabled = false
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return noop
	}
	// Contexts are kept on the closure stack rather than using pprof.Do so
	// the evaluator does not need a callback per call.
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(fun)
	p.currentContext = pprof.WithLabels(oldContext, pprof.Labels("function", prettyLabel, "kind", funKind(fun)))
	// Labels propagate to goroutines started by the call.
	pprof.SetGoroutineLabels(p.currentContext)
	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(oldContext)
	}
}
