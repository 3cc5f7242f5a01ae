// Copyright © 2018 The ELPS authors

package profiler_test

import (
	"io"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/parser"
	"github.com/stretchr/testify/require"
)

const testLisp = `
(def! add-it (fn* (x y) "Adds x and y. @trace{Add It}" (+ x y)))
(def! add-it-again (fn* (x y) "@trace{Add It Again}" (add-it x y)))
(def! recurse-it (fn* (x) (if (< x 4) (add-it x 3) (recurse-it (- x 1)))))
(def! print-it (fn* (x) "@trace" (prn x)))
(add-it-again 1 2)
(print-it (recurse-it 5))
`

// runProfiled evaluates testLisp in a new environment profiled by the
// profiler returned from newProfiler.
func runProfiled(t *testing.T, newProfiler func(rt *lisp.Runtime) lisp.Profiler) lisp.Profiler {
	t.Helper()
	env := lisp.NewEnv(nil)
	p := newProfiler(env.Runtime)
	err := lisp.InitializeUserEnv(env,
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(io.Discard),
		lisp.WithProfiler(p),
	)
	require.NoError(t, err)
	require.True(t, p.IsEnabled())
	v, err := env.LoadString("test.mal", testLisp)
	require.NoError(t, err)
	require.Equal(t, "nil", v.String())
	require.Empty(t, env.Runtime.Stack.Frames)
	require.NoError(t, p.Complete())
	return p
}
