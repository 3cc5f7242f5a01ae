// Copyright © 2018 The ELPS authors

package maltest

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/parser"
)

// TestSequence is a sequence of lisp expressions which are evaluated sequentially
// by a lisp.LEnv.
type TestSequence []struct {
	Expr   string // a lisp expression
	Result string // the readable result, or the error message on failure
	Output string // program output written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// NewEnv returns an initialized user environment whose debugging output is
// logged through t and whose program output is written to stdout.
func NewEnv(t testing.TB, stdout io.Writer, config ...lisp.Config) (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	config = append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(NewLogger(t)),
	}, config...)
	err := lisp.InitializeUserEnv(env, config...)
	if err != nil {
		return nil, err
	}
	return env, nil
}

// RunTestSuite runs each TestSequence in tests on isolated lisp.LEnvs.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		log.Printf("test %d -- %s", i, test.Name)
		var exprBuf bytes.Buffer
		env, err := NewEnv(t, &exprBuf)
		if err != nil {
			t.Errorf("test %d %q: %v", i, test.Name, err)
			continue
		}
		for j, expr := range test.TestSequence {
			exprBuf.Reset()
			v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			var result string
			ret, err := env.Eval(v[0])
			if err != nil {
				result = err.Error()
			} else {
				result = ret.String()
			}
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if exprBuf.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, exprBuf.String())
			}
		}
	}
}

// LispError reports err through t, with a stack trace when err is a lisp
// error.
func LispError(t testing.TB, err error) {
	t.Helper()
	var lerr *lisp.ErrorVal
	if !errors.As(err, &lerr) {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// BenchmarkParse returns a benchmark which parses the file at path with the
// Reader returned by r.
func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		env := lisp.NewEnv(nil)
		err := lisp.InitializeUserEnv(env,
			lisp.WithReader(p),
			lisp.WithStdout(io.Discard),
			lisp.WithStderr(io.Discard),
		)
		if err != nil {
			b.Fatal(err)
		}
		b.StartTimer()
		for i, expr := range exprs {
			if _, err := env.Eval(expr); err != nil {
				b.Fatalf("expr %d: %v", i, err)
			}
		}
		b.StopTimer()
	}
}
