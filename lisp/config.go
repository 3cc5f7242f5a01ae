// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *LEnv) error

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *LEnv) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStdout returns a Config that makes prn and println write to w instead
// of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *LEnv) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *LEnv) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithMaxMacroExpansionDepth returns a Config that limits the number of
// successive macro expansions applied to a single form.  Exceeding the limit
// is a macro-expansion-depth error.
func WithMaxMacroExpansionDepth(n int) Config {
	return func(env *LEnv) error {
		env.Runtime.MaxMacroExpansionDepth = n
		return nil
	}
}

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from allowing the call stack height to exceed n.  Calls made in
// tail position do not grow the stack.
func WithMaximumStackHeight(n int) Config {
	return func(env *LEnv) error {
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithProfiler returns a Config that enables p.  The profiler must have been
// constructed for the environment's runtime.
func WithProfiler(p Profiler) Config {
	return func(env *LEnv) error {
		env.Runtime.Profiler = p
		if p.IsEnabled() {
			return nil
		}
		return p.Enable()
	}
}
