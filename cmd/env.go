// Copyright © 2018 The ELPS authors

package cmd

import (
	"io"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/parser"
	"github.com/spf13/viper"
)

// session holds the process wide resources of an interpreter started by a
// command.  Close must be called once evaluation is finished.
type session struct {
	closers []func() error
}

// configs returns the environment configuration selected by viper.  Trace
// output is written to stderr.
func (s *session) configs(stderr io.Writer) []lisp.Config {
	return []lisp.Config{
		lisp.WithMaxMacroExpansionDepth(viper.GetInt(keyMaxMacroExpansionDepth)),
		lisp.WithMaximumStackHeight(viper.GetInt(keyMaxStackHeight)),
		func(env *lisp.LEnv) error {
			p, closer, err := newProfiler(traceOptions{
				kind:      viper.GetString(keyTrace),
				file:      viper.GetString(keyTraceFile),
				docFilter: viper.GetBool(keyTraceDocFilter),
				w:         stderr,
			}, env.Runtime)
			if err != nil || p == nil {
				return err
			}
			s.closers = append(s.closers, closer)
			return lisp.WithProfiler(p)(env)
		},
	}
}

// newEnv returns an initialized root environment writing program output to
// stdout and diagnostics to stderr.
func (s *session) newEnv(stdout, stderr io.Writer) (*lisp.LEnv, error) {
	env := lisp.NewEnv(nil)
	config := append([]lisp.Config{
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(stderr),
	}, s.configs(stderr)...)
	if err := lisp.InitializeUserEnv(env, config...); err != nil {
		return nil, err
	}
	return env, nil
}

// Close releases the session's resources in reverse order of acquisition
// and returns the first error encountered.
func (s *session) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	s.closers = nil
	return first
}
