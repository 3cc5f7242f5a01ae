// Copyright © 2024 The ELPS authors

package cmd

import "github.com/luthersystems/mal/lisp"

// Option configures an exported command factory (DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	env *lisp.LEnv
}

// WithEnv injects a fully configured LEnv used for documentation queries.
// Embedders use it to document the functions they bind in Go.
func WithEnv(env *lisp.LEnv) Option {
	return func(c *cmdConfig) { c.env = env }
}

func newCmdConfig(opts ...Option) *cmdConfig {
	c := &cmdConfig{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}
