// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"
)

// DefaultMaxStackHeight is the physical stack height allowed by
// StandardRuntime.  Frames collapsed by tail calls do not count.
const DefaultMaxStackHeight = 50000

// CallStack is a function call stack.
type CallStack struct {
	Frames []CallFrame
	// MaxHeight bounds the number of frames.  Non-positive values disable
	// the check.
	MaxHeight int
}

// CallFrame is one frame in the CallStack
type CallFrame struct {
	Name string
	// TailCalls counts the calls that replaced this frame by continuing in
	// tail position.
	TailCalls int
}

func (f *CallFrame) String() string {
	name := f.Name
	if name == "" {
		name = "lambda"
	}
	if f.TailCalls > 0 {
		return fmt.Sprintf("%s [%d tail calls]", name, f.TailCalls)
	}
	return name
}

// Copy creates a copy of the current stack so that it can be attached to a
// runtime error.
func (s *CallStack) Copy() *CallStack {
	frames := make([]CallFrame, len(s.Frames))
	copy(frames, s.Frames)
	return &CallStack{
		Frames:    frames,
		MaxHeight: s.MaxHeight,
	}
}

// Top returns the CallFrame at the top of the stack or nil if none exists.
func (s *CallStack) Top() *CallFrame {
	if s == nil || len(s.Frames) == 0 {
		return nil
	}
	return &s.Frames[len(s.Frames)-1]
}

// Push pushes a new frame for the named function onto s.
func (s *CallStack) Push(name string) error {
	if s.MaxHeight > 0 && len(s.Frames) >= s.MaxHeight {
		return ErrorConditionf(CondStackOverflow, "stack height exceeded maximum: %d", len(s.Frames)+1)
	}
	s.Frames = append(s.Frames, CallFrame{Name: name})
	return nil
}

// Replace renames the top frame of s for a call made in tail position.
func (s *CallStack) Replace(name string) {
	top := s.Top()
	if top == nil {
		panic("replace called on an empty stack")
	}
	top.Name = name
	top.TailCalls++
}

// Pop removes the top CallFrame from the stack and returns it.
func (s *CallStack) Pop() CallFrame {
	if len(s.Frames) < 1 {
		panic("pop called on an empty stack")
	}
	f := s.Frames[len(s.Frames)-1]
	s.Frames[len(s.Frames)-1] = CallFrame{}
	s.Frames = s.Frames[:len(s.Frames)-1]
	return f
}

// DebugPrint prints s
func (s *CallStack) DebugPrint(w io.Writer) (int, error) {
	n, err := fmt.Fprintf(w, "Stack Trace [%d frames -- entrypoint last]:\n", len(s.Frames))
	if err != nil {
		return n, err
	}
	indent := "  "
	for i := len(s.Frames) - 1; i >= 0; i-- {
		_n, err := fmt.Fprintf(w, "%sheight %d: %s\n", indent, i, s.Frames[i].String())
		n += _n
		if err != nil {
			return n, err
		}
	}
	return n, nil
}
