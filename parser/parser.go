// Copyright © 2018 The ELPS authors

package parser

import (
	"errors"
	"io"

	"github.com/luthersystems/mal/lisp"
)

type reader struct{}

// NewReader returns a new lisp.Reader
func NewReader() lisp.Reader {
	return reader{}
}

// Read parses every form in the stream r.  Syntax errors are prefixed with
// name when it is non-empty.
func (reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, lisp.ErrorCondition(lisp.CondIO, err)
	}
	exprs, err := ReadAll(string(b))
	if err != nil {
		var lerr *lisp.ErrorVal
		switch {
		case name == "" || !errors.As(err, &lerr):
		case IsIncomplete(err):
			return nil, incompleteErrorf("%s: %s", name, lerr.ErrorMessage())
		default:
			return nil, lisp.ErrorConditionf(lerr.Condition(), "%s: %s", name, lerr.ErrorMessage())
		}
		return nil, err
	}
	return exprs, nil
}
