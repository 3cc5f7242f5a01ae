// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/stretchr/testify/assert"
)

func TestQuasiquoteExpansion(t *testing.T) {
	tests := []struct {
		template string
		expanded string
	}{
		{"1", "1"},
		{`"s"`, `"s"`},
		{"nil", "nil"},
		{":k", ":k"},
		{"a", "(quote a)"},
		{"{:a b}", "(quote {:a b})"},
		{"[a ~b]", "[a (unquote b)]"},
		{"()", "()"},
		{"(unquote x)", "x"},
		{"(a)", "(cons (quote a) ())"},
		{"(a ~b)", "(cons (quote a) (cons b ()))"},
		{"(~@xs 1)", "(concat xs (cons 1 ()))"},
		{"(a (b ~c))", "(cons (quote a) (cons (cons (quote b) (cons c ())) ()))"},
		{"(unquote x y)", "(cons (quote unquote) (cons (quote x) (cons (quote y) ())))"},
		{"(splice-unquote x)", "(cons (quote splice-unquote) (cons (quote x) ()))"},
	}
	for i, test := range tests {
		v := lisp.Quasiquote(read(t, test.template))
		assert.Equal(t, test.expanded, v.String(), "test %d: %s", i, test.template)
	}
}

func TestQuasiquoteEval(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.LoadString("test", "(def! xs (list 2 3)) (def! y 4)")
	assert.NoError(t, err)
	tests := []struct {
		expr   string
		result string
	}{
		{"`(1 ~@xs ~y)", "(1 2 3 4)"},
		{"`(~@xs)", "(2 3)"},
		{"`(~@())", "()"},
		{"`((~y) [~y] ~xs)", "((4) [4] (2 3))"},
		{"(quasiquoteexpand (1 ~y))", "(cons 1 (cons y ()))"},
		{"`~y", "4"},
	}
	for i, test := range tests {
		v, err := env.LoadString("test", test.expr)
		if assert.NoError(t, err, "test %d", i) {
			assert.Equal(t, test.result, v.String(), "test %d: %s", i, test.expr)
		}
	}
}
