// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"math"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/maltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	m1, err := lisp.Map([]*lisp.LVal{lisp.Keyword("a"), lisp.Int(1), lisp.Keyword("b"), lisp.Int(2)})
	require.NoError(t, err)
	m2, err := lisp.Map([]*lisp.LVal{lisp.Keyword("b"), lisp.Int(2), lisp.Keyword("a"), lisp.Float(1)})
	require.NoError(t, err)
	atom := lisp.Atom(lisp.Int(1))
	tests := []struct {
		a, b  *lisp.LVal
		equal bool
	}{
		{lisp.Int(1), lisp.Int(1), true},
		{lisp.Int(1), lisp.Float(1), true},
		{lisp.Float(1.5), lisp.Float(1.5), true},
		{lisp.Int(1), lisp.Int(2), false},
		{lisp.String("a"), lisp.String("a"), true},
		{lisp.String("a"), lisp.Symbol("a"), false},
		{lisp.String("a"), lisp.Keyword("a"), false},
		{lisp.Symbol("a"), lisp.Keyword("a"), false},
		{lisp.Symbol("a"), lisp.Symbol("a"), true},
		{lisp.Nil(), lisp.Nil(), true},
		{lisp.Nil(), lisp.Bool(false), false},
		{lisp.Nil(), lisp.List(), false},
		{lisp.Bool(true), lisp.Bool(true), true},
		{lisp.List(), lisp.Vector(), true},
		{lisp.List(lisp.Int(1), lisp.Vector(lisp.Int(2))), lisp.Vector(lisp.Int(1), lisp.List(lisp.Int(2))), true},
		{lisp.List(lisp.Int(1)), lisp.List(lisp.Int(1), lisp.Int(2)), false},
		{m1, m2, true},
		{m1, lisp.List(), false},
		{atom, atom, true},
		{atom, lisp.Atom(lisp.Int(1)), false},
	}
	for i, test := range tests {
		assert.Equal(t, test.equal, lisp.Equal(test.a, test.b), "test %d: %v = %v", i, test.a, test.b)
		assert.Equal(t, test.equal, lisp.Equal(test.b, test.a), "test %d: %v = %v", i, test.b, test.a)
	}
}

func TestMap(t *testing.T) {
	m, err := lisp.Map([]*lisp.LVal{
		lisp.Keyword("a"), lisp.Int(1),
		lisp.Keyword("b"), lisp.Int(2),
		lisp.Keyword("a"), lisp.Int(3),
		lisp.Int(1), lisp.String("one"),
		lisp.Float(1), lisp.String("uno"),
	})
	require.NoError(t, err)
	maltest.AssertMap(t, m)
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, `{:a 3, :b 2, 1 "uno"}`, m.String())

	m2, err := m.MapAssoc([]*lisp.LVal{lisp.Keyword("c"), lisp.Nil()})
	require.NoError(t, err)
	maltest.AssertMap(t, m2)
	assert.Equal(t, 3, m.Len(), "assoc modified its argument")
	v, ok := m2.MapGet(lisp.Keyword("c"))
	assert.True(t, ok)
	assert.Equal(t, lisp.LNil, v.Type)

	_, err = lisp.Map([]*lisp.LVal{lisp.Int(1)})
	assert.True(t, lisp.IsCondition(err, lisp.CondArity))
}

func TestAtom(t *testing.T) {
	a := lisp.Atom(lisp.Int(1))
	b := a
	b.Reset(lisp.Int(2))
	assert.Equal(t, 2, a.Deref().Int)
	assert.Equal(t, "(atom 2)", a.String())
}

func TestMacroFrom(t *testing.T) {
	env := newTestEnv(t)
	fun, err := env.LoadString("test", "(fn* (x) x)")
	require.NoError(t, err)
	mac, err := lisp.MacroFrom(fun)
	require.NoError(t, err)
	assert.True(t, mac.IsMacro())
	assert.False(t, fun.IsMacro(), "MacroFrom modified the closure")
	assert.Same(t, fun.FunData().Body, mac.FunData().Body)
	assert.Same(t, fun.Env(), mac.Env())

	_, err = lisp.MacroFrom(lisp.Int(1))
	assert.True(t, lisp.IsCondition(err, lisp.CondDefinition))
}

func TestTruth(t *testing.T) {
	assert.False(t, lisp.True(lisp.Nil()))
	assert.False(t, lisp.True(lisp.Bool(false)))
	assert.True(t, lisp.True(lisp.Bool(true)))
	assert.True(t, lisp.True(lisp.Int(0)))
	assert.True(t, lisp.True(lisp.String("")))
	assert.True(t, lisp.True(lisp.List()))
	assert.True(t, lisp.Not(lisp.Nil()))
}

func TestPrint(t *testing.T) {
	env := newTestEnv(t)
	plus, err := env.Get("+")
	require.NoError(t, err)
	cond, err := env.Get("cond")
	require.NoError(t, err)
	tests := []struct {
		v        *lisp.LVal
		readable string
		display  string
	}{
		{lisp.Int(-3), "-3", "-3"},
		{lisp.Float(1.5), "1.5", "1.5"},
		{lisp.Float(3), "3.0", "3.0"},
		{lisp.Float(-0.25), "-0.25", "-0.25"},
		{lisp.Float(math.Inf(1)), "+Inf", "+Inf"},
		{lisp.String("a\nb\\c\"d"), `"a\nb\\c\"d"`, "a\nb\\c\"d"},
		{lisp.Symbol("abc"), "abc", "abc"},
		{lisp.Keyword("kw"), ":kw", ":kw"},
		{lisp.Nil(), "nil", "nil"},
		{lisp.Bool(true), "true", "true"},
		{lisp.Bool(false), "false", "false"},
		{lisp.List(lisp.Int(1), lisp.String("x")), `(1 "x")`, "(1 x)"},
		{lisp.Vector(lisp.Symbol("a")), "[a]", "[a]"},
		{lisp.Atom(lisp.String("s")), `(atom "s")`, "(atom s)"},
		{plus, "#<builtin +>", "#<builtin +>"},
		{cond, "#<macro cond>", "#<macro cond>"},
	}
	for i, test := range tests {
		assert.Equal(t, test.readable, test.v.String(), "test %d", i)
		assert.Equal(t, test.display, test.v.Display(), "test %d", i)
	}
}

func TestTypeNames(t *testing.T) {
	for typ := lisp.LInt; typ < lisp.LTypeMax; typ++ {
		assert.NotEqual(t, "INVALID", typ.String(), "type %d", typ)
	}
	assert.Equal(t, "INVALID", lisp.LTypeMax.String())
	assert.Equal(t, "macro", lisp.LFunMacro.String())
}
