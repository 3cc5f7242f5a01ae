// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
	"os"
)

// Version of the interpreter reported by the command line tools.
const Version = "0.3"

// DefaultMaxMacroExpansionDepth bounds the number of successive macro
// expansions performed on a single form.
const DefaultMaxMacroExpansionDepth = 10000

// Runtime is an object underlying a tree of LEnv values.  It is responsible
// for holding shared environment state and writing program and debugging
// output to streams (typically os.Stdout and os.Stderr).
type Runtime struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler
	// MaxMacroExpansionDepth is the maximum number of successive
	// expansions of one form.  Non-positive values disable the limit.
	MaxMacroExpansionDepth int
}

// StandardRuntime returns a new Runtime writing to os.Stdout and os.Stderr.
func StandardRuntime() *Runtime {
	return &Runtime{
		Stdout:                 os.Stdout,
		Stderr:                 os.Stderr,
		Stack:                  &CallStack{MaxHeight: DefaultMaxStackHeight},
		MaxMacroExpansionDepth: DefaultMaxMacroExpansionDepth,
	}
}

// Profiler observes function calls made by the evaluator.
type Profiler interface {
	// IsEnabled returns true if the profiler is recording calls.
	IsEnabled() bool
	// Enable attaches the profiler to its runtime and starts recording.
	Enable() error
	// Complete ends the profiling session and flushes any output.
	Complete() error
	// Start marks the start of a call to fun.  The returned function marks
	// the end of the call, including any calls continued in tail position.
	Start(fun *LVal) func()
}

func (r *Runtime) profile(fun *LVal) func() {
	if r.Profiler == nil || !r.Profiler.IsEnabled() {
		return nil
	}
	return r.Profiler.Start(fun)
}
