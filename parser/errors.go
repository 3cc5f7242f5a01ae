// Copyright © 2018 The ELPS authors

package parser

import (
	"errors"
	"fmt"

	"github.com/luthersystems/mal/lisp"
)

// incompleteError is the cause of syntax errors raised when input ends
// inside a form.
type incompleteError struct {
	msg string
}

func (e *incompleteError) Error() string {
	return e.msg
}

func incompleteErrorf(format string, v ...interface{}) error {
	return lisp.ErrorCondition(lisp.CondSyntax, &incompleteError{fmt.Sprintf(format, v...)})
}

// IsIncomplete returns true if err is a syntax-error caused by input ending
// before a form was closed.  More input may complete the form.
func IsIncomplete(err error) bool {
	var ierr *incompleteError
	return errors.As(err, &ierr)
}
