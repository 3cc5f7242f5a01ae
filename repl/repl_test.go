// Copyright © 2018 The ELPS authors

package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string, opts ...Option) string {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	histFile := filepath.Join(t.TempDir(), HistoryFileName)
	opts = append([]Option{WithStdin(inR), WithStderr(outW), WithHistoryFile(histFile)}, opts...)
	go func() {
		RunRepl("user> ", opts...)
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String()
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, HistoryFileName)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, HistoryFileName)

	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	ensureHistoryFilePermissions("")
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Error",
			input:    "fnord\n",
			expected: []string{"unbound-symbol: 'fnord' not found\n"},
		},
		{
			name:     "Persistent Environment",
			input:    "(def! x 40)\n(+ x 2)\n",
			expected: []string{"40\n", "42\n"},
		},
		{
			name:     "Multiple Line Form",
			input:    "(+ 1\n 2\n 3)\n",
			expected: []string{"6\n"},
		},
		{
			name:     "Several Forms On A Line",
			input:    "1 :two \"three\"\n",
			expected: []string{"1\n", ":two\n", "\"three\"\n"},
		},
		{
			name:     "Recovers After Error",
			input:    "(throw \"oops\")\n(list 1)\n",
			expected: []string{"user-error: oops\n", "(1)\n"},
		},
		{
			name:     "Syntax Error",
			input:    ")\n",
			expected: []string{"syntax-error: unexpected ')': unbalanced\n"},
		},
		{
			name:     "Program Output",
			input:    "(println \"hi\" 1)\n",
			expected: []string{"hi 1\n", "nil\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := runReplWithString(t, tc.input)
			for _, exp := range tc.expected {
				require.Contains(t, got, exp)
			}
		})
	}
}

func TestRunReplWithConfig(t *testing.T) {
	got := runReplWithString(t, "(defmacro! loop (fn* () (list 'loop)))\n(loop)\n",
		WithConfig(lisp.WithMaxMacroExpansionDepth(5)))
	assert.Contains(t, got, "macro-expansion-depth: macro expansion exceeded maximum depth 5: loop")
}
