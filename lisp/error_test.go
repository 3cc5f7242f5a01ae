// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/maltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEnv(t *testing.T, config ...lisp.Config) *lisp.LEnv {
	t.Helper()
	env, err := maltest.NewEnv(t, io.Discard, config...)
	require.NoError(t, err)
	return env
}

func TestErrorConditions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		cond string
	}{
		{"sub no args", "(-)", lisp.CondArity},
		{"div no args", "(/)", lisp.CondArity},
		{"equal no args", "(=)", lisp.CondArity},
		{"less no args", "(<)", lisp.CondArity},
		{"greater equal no args", "(>=)", lisp.CondArity},
		{"compare non-number", "(< 1 :a)", lisp.CondType},
		{"compare non-number after false", "(< 2 1 :a)", lisp.CondType},
		{"add non-number", `(+ 1 "a")`, lisp.CondType},
		{"integer division by zero", "(/ 1 0)", lisp.CondType},
		{"unbound symbol", "zzz", lisp.CondUnboundSymbol},
		{"unbound symbol in call", "(zzz 1)", lisp.CondUnboundSymbol},
		{"let* non-list bindings", "(let* 5 x)", lisp.CondDefinition},
		{"let* odd bindings", "(let* (a) a)", lisp.CondDefinition},
		{"let* non-symbol binding", "(let* (1 2) 1)", lisp.CondDefinition},
		{"let* missing bindings", "(let*)", lisp.CondDefinition},
		{"def! non-symbol", "(def! 1 2)", lisp.CondDefinition},
		{"def! missing symbol", "(def!)", lisp.CondDefinition},
		{"def! too many", "(def! a 1 2)", lisp.CondArity},
		{"if no operands", "(if)", lisp.CondArity},
		{"if one operand", "(if 1)", lisp.CondArity},
		{"if four operands", "(if 1 2 3 4)", lisp.CondArity},
		{"fn* missing formals", "(fn*)", lisp.CondDefinition},
		{"fn* non-list formals", "(fn* a a)", lisp.CondDefinition},
		{"fn* rest not second to last", "(fn* (a & b c) 1)", lisp.CondDefinition},
		{"fn* rest trailing", "(fn* (a &) 1)", lisp.CondDefinition},
		{"fn* two rest markers", "(fn* (& a & b) 1)", lisp.CondDefinition},
		{"fn* non-symbol formal", "(fn* (a 1) 1)", lisp.CondDefinition},
		{"quote no operands", "(quote)", lisp.CondArity},
		{"quote two operands", "(quote 1 2)", lisp.CondArity},
		{"quasiquote two operands", "(quasiquote 1 2)", lisp.CondArity},
		{"macroexpand no operands", "(macroexpand)", lisp.CondArity},
		{"defmacro! non-function", "(defmacro! m 1)", lisp.CondDefinition},
		{"defmacro! builtin", "(defmacro! m +)", lisp.CondDefinition},
		{"defmacro! non-symbol", "(defmacro! 1 (fn* () 1))", lisp.CondDefinition},
		{"call non-callable", "(1 2)", lisp.CondType},
		{"call string", `("f")`, lisp.CondType},
		{"count non-sequence", "(count 1)", lisp.CondType},
		{"empty? non-sequence", "(empty? :a)", lisp.CondType},
		{"cons onto non-sequence", "(cons 1 2)", lisp.CondType},
		{"deref non-atom", "(deref 1)", lisp.CondType},
		{"reset! non-atom", "(reset! 1 2)", lisp.CondType},
		{"swap! non-function", "(swap! (atom 1) 2)", lisp.CondType},
		{"nth out of range", "(nth [1] 5)", lisp.CondType},
		{"hash-map odd", "(hash-map 1)", lisp.CondArity},
		{"builtin too many", "(atom 1 2)", lisp.CondArity},
		{"closure missing required", "((fn* (a & rest) rest))", lisp.CondArity},
		{"closure too many", "((fn* (a) a) 1 2)", lisp.CondArity},
		{"macro arity", "(do (defmacro! one (fn* (x) x)) (one))", lisp.CondArity},
		{"slurp missing file", `(slurp "/nonexistent/mal/file")`, lisp.CondIO},
		{"read-string unbalanced", `(read-string "(1")`, lisp.CondSyntax},
		{"cond odd forms", "(cond false 1 2)", lisp.CondUser},
		{"throw", "(throw 1)", lisp.CondUser},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.LoadString("test", test.expr)
			require.Error(t, err)
			assert.True(t, lisp.IsCondition(err, test.cond), "expected %s, got %v", test.cond, err)
			assert.Empty(t, env.Runtime.Stack.Frames, "stack not unwound")
		})
	}
}

func TestVariadicRequiresLeadingParam(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.LoadString("test", "(def! f (fn* (a & rest) rest))")
	require.NoError(t, err)
	v, err := env.LoadString("test", "(f 1 2 3)")
	require.NoError(t, err)
	assert.Equal(t, "(2 3)", v.String())
	_, err = env.LoadString("test", "(f)")
	assert.True(t, lisp.IsCondition(err, lisp.CondArity), "got %v", err)
}

func TestErrorDoesNotBind(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.LoadString("test", "(def! x (+ 1 :a))")
	require.Error(t, err)
	_, err = env.LoadString("test", "x")
	assert.True(t, lisp.IsCondition(err, lisp.CondUnboundSymbol))
}

func TestThrowValue(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.LoadString("test", "(throw [1 :two])")
	var lerr *lisp.ErrorVal
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, lisp.CondUser, lerr.Condition())
	require.NotNil(t, lerr.Value)
	assert.Equal(t, "[1 :two]", lerr.Value.String())
}

func TestSlurpWrapsOSError(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.LoadString("test", `(slurp "/nonexistent/mal/file")`)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
}

func TestErrorTrace(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.LoadString("test", `
(def! inner (fn* (x) (+ x :oops)))
(def! outer (fn* (x) (list (inner x))))
(outer 1)`)
	var lerr *lisp.ErrorVal
	require.True(t, errors.As(err, &lerr))
	assert.Equal(t, lisp.CondType, lerr.Condition())
	require.NotNil(t, lerr.Stack)
	var names []string
	for _, f := range lerr.Stack.Frames {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"outer", "inner", "+"}, names)

	var buf bytes.Buffer
	_, err = lerr.WriteTrace(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "type-error: +: argument is not a number: keyword\n")
	assert.Contains(t, buf.String(), "Stack Trace")
}

func TestStackOverflow(t *testing.T) {
	env := newTestEnv(t, lisp.WithMaximumStackHeight(1000))
	_, err := env.LoadString("test", "(def! deep (fn* (n) (if (= n 0) 0 (+ 1 (deep (- n 1))))))")
	require.NoError(t, err)
	v, err := env.LoadString("test", "(deep 500)")
	require.NoError(t, err)
	assert.Equal(t, "500", v.String())
	_, err = env.LoadString("test", "(deep 5000)")
	assert.True(t, lisp.IsCondition(err, lisp.CondStackOverflow), "got %v", err)
	assert.Empty(t, env.Runtime.Stack.Frames)

	// Tail calls do not grow the stack.
	_, err = env.LoadString("test", "(def! loop (fn* (n) (if (= n 0) :done (loop (- n 1)))))")
	require.NoError(t, err)
	v, err = env.LoadString("test", "(loop 5000)")
	require.NoError(t, err)
	assert.Equal(t, ":done", v.String())
}

func TestMacroExpansionDepth(t *testing.T) {
	env := newTestEnv(t, lisp.WithMaxMacroExpansionDepth(50))
	_, err := env.LoadString("test", "(defmacro! forever (fn* () (list 'forever)))")
	require.NoError(t, err)
	_, err = env.LoadString("test", "(forever)")
	assert.True(t, lisp.IsCondition(err, lisp.CondMacroExpansion), "got %v", err)
	_, err = env.LoadString("test", "(macroexpand (forever))")
	assert.True(t, lisp.IsCondition(err, lisp.CondMacroExpansion), "got %v", err)
}
