// Copyright © 2018 The ELPS authors

package repl

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ergochat/readline"
	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/parser"
)

// HistoryFileName is the name of the history file kept in the user's home
// directory.
const HistoryFileName = ".mal_history"

type config struct {
	stdin       io.ReadCloser
	stderr      io.WriteCloser
	historyFile string
	envConfig   []lisp.Config
}

func newConfig(opts ...Option) *config {
	config := &config{}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// Option configures the REPL.
type Option func(*config)

// WithStdin allows overriding the input to the REPL.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) {
		c.stdin = stdin
	}
}

// WithStderr allows overriding the output to the REPL.  Program output
// written by prn and println is sent to the same writer.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) {
		c.stderr = stderr
	}
}

// WithHistoryFile sets the file line history is persisted to.  An empty
// path disables history.
func WithHistoryFile(path string) Option {
	return func(c *config) {
		c.historyFile = path
	}
}

// WithConfig applies additional configuration to the REPL environment.
func WithConfig(cfg ...lisp.Config) Option {
	return func(c *config) {
		c.envConfig = append(c.envConfig, cfg...)
	}
}

// RunRepl runs a simple repl in a new root environment.
func RunRepl(prompt string, opts ...Option) {
	env := lisp.NewEnv(nil)

	envOpts := []lisp.Config{
		lisp.WithReader(parser.NewReader()),
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		envOpts = append(envOpts, lisp.WithStderr(cfg.stderr), lisp.WithStdout(cfg.stderr))
	}
	envOpts = append(envOpts, cfg.envConfig...)

	err := lisp.InitializeUserEnv(env, envOpts...)
	if err != nil {
		errlnf("Language initialization failure: %v", err)
		os.Exit(1)
	}

	RunEnv(env, prompt, strings.Repeat(" ", len(prompt)), opts...)
}

// RunEnv runs a simple repl with env as a root environment.  The prompt
// cont is shown while a form spans several lines.
func RunEnv(env *lisp.LEnv, prompt, cont string, opts ...Option) {
	if env.Parent != nil {
		errlnf("REPL environment is not a root environment.")
		os.Exit(1)
	}

	cfg := newConfig(opts...)
	if cfg.stderr != nil {
		env.Runtime.Stderr = cfg.stderr
	}
	out := env.Runtime.Stderr

	histFile := cfg.historyFile
	if histFile == "" {
		histFile = historyPath()
	}
	ensureHistoryFilePermissions(histFile)

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       histFile,
		HistorySearchFold: true,
		AutoComplete:      &symbolCompleter{env: env},
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		panic(err)
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	var pending strings.Builder
	for {
		line, err := rl.ReadLine()
		if errors.Is(err, readline.ErrInterrupt) {
			// Drop the partial form.
			pending.Reset()
			rl.SetPrompt(prompt)
			continue
		}
		if err != nil {
			return
		}
		if pending.Len() == 0 && strings.TrimSpace(line) == "" {
			continue
		}
		pending.WriteString(line)
		pending.WriteString("\n")
		exprs, err := parser.ReadAll(pending.String())
		if parser.IsIncomplete(err) {
			rl.SetPrompt(cont)
			continue
		}
		pending.Reset()
		rl.SetPrompt(prompt)
		if err != nil {
			renderError(out, err)
			continue
		}
		evalPrint(env, out, exprs)
	}
}

// evalPrint evaluates exprs in env, printing the readable form of each
// result.  Evaluation stops at the first error.
func evalPrint(env *lisp.LEnv, w io.Writer, exprs []*lisp.LVal) {
	for _, expr := range exprs {
		val, err := env.Eval(expr)
		if err != nil {
			renderError(w, err)
			return
		}
		fmt.Fprintln(w, val) //nolint:errcheck // best-effort REPL output
	}
}

// renderError writes err followed by the lisp stack trace, if any.
func renderError(w io.Writer, err error) {
	var lerr *lisp.ErrorVal
	if errors.As(err, &lerr) {
		_, _ = lerr.WriteTrace(w)
		return
	}
	fmt.Fprintln(w, err) //nolint:errcheck // best-effort error display
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, HistoryFileName)
}

// ensureHistoryFilePermissions creates the history file if needed and
// restricts it to the current user.
func ensureHistoryFilePermissions(path string) {
	if path == "" {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0600) //#nosec G304
	if err != nil {
		return
	}
	_ = f.Close()
	_ = os.Chmod(path, 0600)
}

func errlnf(format string, v ...interface{}) {
	if strings.HasSuffix(format, "\n") {
		errf(format, v...)
		return
	}
	errf(format+"\n", v...)
}

func errf(format string, v ...interface{}) {
	fmt.Fprintf(os.Stderr, format, v...)
}
