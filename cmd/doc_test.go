// Copyright © 2024 The ELPS authors

package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runDoc(t *testing.T, args []string, opts ...Option) (string, error) {
	t.Helper()
	cmd := DocCommand(opts...)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDocCommand_DefaultFlags(t *testing.T) {
	cmd := DocCommand()
	assert.Equal(t, "doc [flags] [QUERY ...]", cmd.Use)

	for _, name := range []string{"source-file", "list"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), "missing flag: %s", name)
	}
}

func TestDocCommand_Builtin(t *testing.T) {
	out, err := runDoc(t, []string{"swap!"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "builtin (swap! a fun & args)\n"), out)
	assert.Contains(t, out, "  Calls fun with the value held by atom a")
	for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), docWidth+2, "line too long: %q", line)
	}
	assert.NotContains(t, out, "\t")
}

func TestDocCommand_KindsAndSignatures(t *testing.T) {
	out, err := runDoc(t, []string{"def!", "cond", "not", "list"})
	require.NoError(t, err)
	assert.Contains(t, out, "special form (def! name [expr])\n")
	assert.Contains(t, out, "macro (cond & xs)\n")
	assert.Contains(t, out, "function (not a)\n")
	assert.Contains(t, out, "builtin (list & x)\n")
}

func TestDocCommand_Unknown(t *testing.T) {
	_, err := runDoc(t, []string{"no-such-function"})
	assert.EqualError(t, err, `no documentation: "no-such-function"`)
}

func TestDocCommand_List(t *testing.T) {
	out, err := runDoc(t, []string{"-l"})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.NotEmpty(t, lines)
	// Special forms come first.
	assert.Contains(t, lines[0], "special form")
	var found bool
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "swap! ") {
			found = true
			assert.Contains(t, line, "builtin")
			assert.True(t, strings.HasSuffix(line, "returns it."), line)
		}
	}
	assert.True(t, found, "swap! not listed")
}

func TestDocCommand_SourceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "greet.mal")
	err := os.WriteFile(path, []byte(`
(def! greet (fn* (name)
  "Returns a greeting
   for name."
  (str "hi " name)))`), 0o600)
	require.NoError(t, err)

	out, err := runDoc(t, []string{"-f", path, "greet"})
	require.NoError(t, err)
	assert.Equal(t, "function (greet name)\n  Returns a greeting for name.\n", out)

	out, err = runDoc(t, []string{"-f", dir + "/...", "greet"})
	require.NoError(t, err)
	assert.Contains(t, out, "function (greet name)")
}

func TestDocCommand_SourceFileError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.mal")
	require.NoError(t, os.WriteFile(path, []byte("(def! x"), 0o600))
	_, err := runDoc(t, []string{"-f", path, "x"})
	assert.True(t, lisp.IsCondition(err, lisp.CondSyntax), "%v", err)
}

func TestDocCommand_WithEnvInjectsEnv(t *testing.T) {
	env := lisp.NewEnv(nil)
	err := lisp.InitializeUserEnv(env, lisp.WithReader(parser.NewReader()), lisp.WithStderr(io.Discard))
	require.NoError(t, err)
	formals, err := lisp.ParseFormals(lisp.List(lisp.Symbol("x")))
	require.NoError(t, err)
	fun := lisp.Fun("my-helper", formals, func(env *lisp.LEnv, args []*lisp.LVal) (*lisp.LVal, error) {
		return args[0], nil
	})
	fun.FunData().Doc = "Returns x unchanged."
	env.Put("my-helper", fun)

	var cfg cmdConfig
	WithEnv(env)(&cfg)
	assert.Same(t, env, cfg.env, "WithEnv should store the env in cmdConfig")

	out, err := runDoc(t, []string{"my-helper"}, WithEnv(env))
	require.NoError(t, err)
	assert.Equal(t, "builtin (my-helper x)\n  Returns x unchanged.\n", out)
}

func TestCleanDocstring(t *testing.T) {
	assert.Equal(t, "", cleanDocstring(""))
	assert.Equal(t, "", cleanDocstring(" \n\t "))
	assert.Equal(t, "  one two three", cleanDocstring("one\n\t\ttwo   three\n"))
	long := strings.Repeat("word ", 30)
	for _, line := range strings.Split(cleanDocstring(long), "\n") {
		assert.True(t, strings.HasPrefix(line, "  word"), line)
		assert.LessOrEqual(t, len(line), docWidth+2)
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "First sentence.", summary("First sentence. Second sentence."))
	assert.Equal(t, "No period", summary("No period"))
	assert.Equal(t, "Ends here.", summary("Ends\nhere."))
}
