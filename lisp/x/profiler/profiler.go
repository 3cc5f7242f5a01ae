// Copyright © 2018 The ELPS authors

package profiler

import (
	"fmt"

	"github.com/luthersystems/mal/lisp"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

// Option configures a profiler.
type Option func(*profiler)

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

// funName returns the name a function was defined with.  Anonymous closures
// are named lambda.
func funName(fun *lisp.LVal) string {
	if fun.Type != lisp.LFun {
		return ""
	}
	if name := fun.FunData().Name; name != "" {
		return name
	}
	return "lambda"
}

// funKind classifies fun for span attributes.
func funKind(fun *lisp.LVal) string {
	switch {
	case fun.Builtin() != nil:
		return "builtin"
	case fun.IsMacro():
		return "macro"
	default:
		return "user"
	}
}

// prettyFunName returns a pretty name and original name for a fun. If there is
// no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(fun *lisp.LVal) (string, string) {
	origLabel := funName(fun)
	if origLabel == "" {
		return "", ""
	}
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(fun)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(v *lisp.LVal) bool {
	return !p.enabled || defaultSkipFilter(v) || p.skipFilter != nil && p.skipFilter(v)
}

func noop() {}
