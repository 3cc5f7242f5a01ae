// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"io"
	"os"
	"strings"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of LVals that it
	// contains.  The returned LVals should be executed as if inside a do.
	Read(name string, r io.Reader) ([]*LVal, error)
}

// LoadString parses exprs and evaluates each of its forms in env.  The value
// of the last form is returned.
func (env *LEnv) LoadString(name, exprs string) (*LVal, error) {
	return env.Load(name, strings.NewReader(exprs))
}

// LoadFile reads and evaluates the file at loc.  An unreadable file is an
// io-error.
func (env *LEnv) LoadFile(loc string) (*LVal, error) {
	b, err := os.ReadFile(loc) //#nosec G304
	if err != nil {
		return nil, ErrorCondition(CondIO, err)
	}
	return env.Load(loc, bytes.NewReader(b))
}

// Load parses the stream r using the runtime's Reader and evaluates each form
// in env.  The value of the last form is returned, or nil when r contains no
// forms.
func (env *LEnv) Load(name string, r io.Reader) (*LVal, error) {
	if env.Runtime.Reader == nil {
		return nil, ErrorConditionf(CondIO, "%s: no reader configured", name)
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, err
	}
	ret := Nil()
	for _, expr := range exprs {
		ret, err = env.Eval(expr)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}
