// Copyright © 2018 The ELPS authors

package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/mal/lisp"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprint(ew.w, s)
}

// callgrindFile is the file name reported for every call.  Values carry no
// source locations so calls are grouped by kind instead.
func callgrindFile(fun *lisp.LVal) string {
	return funKind(fun)
}

// A profiler implementation that builds Callgrind files.  The resulting
// files can be opened in KCacheGrind or QCacheGrind.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer     io.Writer
	writeErr   error
	startTime  time.Time
	refs       map[string]int
	refCounter int
	calls      []*callRef
}

var _ lisp.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a new Callgrind profiler for runtime.  Output
// is written to w, or to the file given to SetFile when w is nil.
func NewCallgrindProfiler(runtime *lisp.Runtime, w io.Writer, opts ...Option) *callgrindProfiler {
	p := new(callgrindProfiler)
	p.runtime = runtime
	p.writer = w
	runtime.Profiler = p
	p.applyConfigs(opts...)
	return p
}

// Represents something that got called
type callRef struct {
	start       time.Time
	name        string
	file        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: mal %s (Go %s)\n", lisp.Version, runtime.Version())
	w.printf("cmd: Eval\npart: 1\npositions: line\n\n")
	w.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.calls = nil
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCounter = 0
	p.Unlock()
	p.pushCallRef("ENTRYPOINT", "-")
	return p.profiler.Enable()
}

// SetFile directs output to a new file at filename.
func (p *callgrindProfiler) SetFile(filename string) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.writer = f
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	p.enabled = false
	if p.writeErr != nil {
		return p.writeErr
	}
	ref := p.popCallRef()
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	p.writeChildren(w, ref, 0)
	w.print("\n")
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", time.Since(p.startTime).Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	if c, ok := p.writer.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCounter++
	p.refs[name] = p.refCounter
	return fmt.Sprintf("(%d) %s", p.refCounter, name)
}

func (p *callgrindProfiler) Start(fun *lisp.LVal) func() {
	if p.skipTrace(fun) {
		return noop
	}
	prettyLabel, _ := p.prettyFunName(fun)
	p.pushCallRef(prettyLabel, callgrindFile(fun))
	return p.end
}

func (p *callgrindProfiler) pushCallRef(name, file string) {
	p.Lock()
	defer p.Unlock()
	ref := &callRef{name: name, file: file}
	if n := len(p.calls); n > 0 {
		parent := p.calls[n-1]
		parent.children = append(parent.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.calls = append(p.calls, ref)
}

func (p *callgrindProfiler) popCallRef() *callRef {
	n := len(p.calls)
	if n == 0 {
		panic("callgrind: call stack underflow")
	}
	ref := p.calls[n-1]
	p.calls = p.calls[:n-1]
	return ref
}

func (p *callgrindProfiler) end() {
	p.Lock()
	defer p.Unlock()
	if !p.enabled || p.writeErr != nil {
		return
	}
	ref := p.popCallRef()
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	memory := ms.TotalAlloc - ref.startMemory
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, memory)
	p.writeChildren(w, ref, memory)
	w.print("\n")
	if w.err != nil {
		p.writeErr = w.err
	}
}

func (p *callgrindProfiler) writeChildren(w *errWriter, ref *callRef, memory uint64) {
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", 0, entry.duration, memory)
	}
}
