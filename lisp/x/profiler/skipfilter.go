// Copyright © 2018 The ELPS authors

package profiler

import (
	"regexp"

	"github.com/luthersystems/mal/lisp"
)

// SkipFilter returns true for functions whose calls should not be traced.
type SkipFilter func(fun *lisp.LVal) bool

func defaultSkipFilter(fun *lisp.LVal) bool {
	return fun.Type != lisp.LFun
}

// WithDocFilter filters to only include spans for functions with
// docstrings that denote tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// SkipBuiltins is a SkipFilter that only traces closures and macros.
func SkipBuiltins(fun *lisp.LVal) bool {
	return fun.Builtin() != nil
}

// DocTrace is a magic string used to enable tracing in a profiler
// configured WithDocFilter. All functions with a docstring that contains
// this string will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(fun *lisp.LVal) bool {
	docStr := fun.Docstring()
	if docStr == "" {
		return true
	}
	return !docTraceRegExp.MatchString(docStr)
}
