// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Error conditions raised by the reader, the evaluator and the builtin
// functions.  The condition of an ErrorVal classifies the failure
// programmatically while its message describes it to a human.
const (
	CondSyntax          = "syntax-error"
	CondArity           = "arity-error"
	CondDefinition      = "definition-error"
	CondUnboundSymbol   = "unbound-symbol"
	CondType            = "type-error"
	CondIO              = "io-error"
	CondUser            = "user-error"
	CondMacroExpansion  = "macro-expansion-depth"
	CondStackOverflow   = "stack-overflow"
	condDefaultFallback = "error"
)

// ErrorVal is the error type produced by the interpreter.  Errors are never
// recovered inside the evaluator; they unwind out of Eval as Go error values.
type ErrorVal struct {
	// Cond is the error condition (e.g. "type-error").
	Cond string
	// Value is the lisp value given to throw, if any.
	Value *LVal
	// Stack is a copy of the call stack at the point the error escaped the
	// innermost function call.
	Stack *CallStack
	msg   string
	cause error
}

// ErrorConditionf returns an error with the given condition and a formatted
// message.
func ErrorConditionf(condition string, format string, v ...interface{}) *ErrorVal {
	return &ErrorVal{
		Cond: condition,
		msg:  fmt.Sprintf(format, v...),
	}
}

// ErrorCondition returns an error with the given condition that wraps err.
func ErrorCondition(condition string, err error) *ErrorVal {
	return &ErrorVal{
		Cond:  condition,
		msg:   err.Error(),
		cause: err,
	}
}

// ErrorThrown returns the user-error given by throwing v.
func ErrorThrown(v *LVal) *ErrorVal {
	msg := v.Str
	if v.Type != LString {
		msg = v.String()
	}
	return &ErrorVal{
		Cond:  CondUser,
		Value: v,
		msg:   msg,
	}
}

// Error implements the error interface, prefixing the message with the error
// condition.
func (e *ErrorVal) Error() string {
	return fmt.Sprintf("%s: %s", e.Condition(), e.msg)
}

// Condition returns the error condition name.
func (e *ErrorVal) Condition() string {
	if e.Cond == "" {
		return condDefaultFallback
	}
	return e.Cond
}

// ErrorMessage returns the underlying message in the error.
func (e *ErrorVal) ErrorMessage() string {
	return e.msg
}

// Unwrap returns the error wrapped by e, if any.
func (e *ErrorVal) Unwrap() error {
	return e.cause
}

// WriteTrace writes the error and a stack trace to w
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	if e.Stack != nil && len(e.Stack.Frames) > 0 {
		if !wrote(e.Stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// IsCondition returns true if err is an *ErrorVal with the given condition.
func IsCondition(err error, condition string) bool {
	var lerr *ErrorVal
	if !errors.As(err, &lerr) {
		return false
	}
	return lerr.Condition() == condition
}

// WriteError writes err to w, with a stack trace when err is an *ErrorVal.
func WriteError(w io.Writer, err error) {
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		_, _ = lerr.WriteTrace(w)
		return
	}
	fmt.Fprintln(w, err)
}

func attachStack(err error, stack *CallStack) error {
	var lerr *ErrorVal
	if errors.As(err, &lerr) && lerr.Stack == nil && stack != nil {
		lerr.Stack = stack.Copy()
	}
	return err
}

func arityErrorf(format string, v ...interface{}) error {
	return ErrorConditionf(CondArity, format, v...)
}

func typeErrorf(format string, v ...interface{}) error {
	return ErrorConditionf(CondType, format, v...)
}

func definitionErrorf(format string, v ...interface{}) error {
	return ErrorConditionf(CondDefinition, format, v...)
}
