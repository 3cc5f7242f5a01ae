// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"strings"
)

// RestMarker is the formal parameter that collects the remaining arguments of
// a call into a list bound to the formal that follows it.
const RestMarker = "&"

// LEnv is a lisp environment.
type LEnv struct {
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
}

// NewEnvRuntime initializes a new LEnv, like NewEnv, but it explicitly
// specifies the runtime to use.  NewEnvRuntime is only suitable for creating
// root LEnv object, so it does not take a parent argument.  When rt is nil
// StandardRuntime() called to create a new Runtime for the returned LEnv.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// NewEnv returns initializes and returns a new LEnv.  A nil parent creates a
// root environment with a standard runtime.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

// Formals is a validated formal parameter list.
type Formals struct {
	// Params are the required positional parameters.
	Params []string
	// Rest names the parameter collecting remaining arguments when Variadic
	// is true.
	Rest     string
	Variadic bool
}

// ParseFormals validates the formal parameter list v, which must be a list or
// vector of symbols.  At most one rest marker is allowed and it must be the
// second-to-last formal.
func ParseFormals(v *LVal) (*Formals, error) {
	if !v.IsSeq() {
		return nil, definitionErrorf("formal parameters are not a list: %v", v.Type)
	}
	f := &Formals{}
	n := len(v.Cells)
	for i, cell := range v.Cells {
		if cell.Type != LSymbol {
			return nil, definitionErrorf("formal parameter is not a symbol: %v", cell)
		}
		if cell.Str != RestMarker {
			if !f.Variadic {
				f.Params = append(f.Params, cell.Str)
			}
			continue
		}
		if f.Variadic {
			return nil, definitionErrorf("more than one %s in formal parameters", RestMarker)
		}
		if i != n-2 {
			return nil, definitionErrorf("%s must be the second-to-last formal parameter", RestMarker)
		}
		f.Variadic = true
		f.Rest = v.Cells[n-1].Str
		if f.Rest == RestMarker {
			return nil, definitionErrorf("more than one %s in formal parameters", RestMarker)
		}
	}
	return f, nil
}

func (f *Formals) String() string {
	var b strings.Builder
	b.WriteString("(")
	b.WriteString(strings.Join(f.Params, " "))
	if f.Variadic {
		if len(f.Params) > 0 {
			b.WriteString(" ")
		}
		b.WriteString(RestMarker + " " + f.Rest)
	}
	b.WriteString(")")
	return b.String()
}

// BindEnv returns a new child of outer with the formals f bound positionally
// to args.  When f is variadic the arguments following the required
// parameters are collected into a list bound to the rest parameter.
func BindEnv(outer *LEnv, f *Formals, args []*LVal) (*LEnv, error) {
	if len(args) < len(f.Params) {
		return nil, arityErrorf("expected at least %d arguments %v, got %d", len(f.Params), f, len(args))
	}
	if !f.Variadic && len(args) > len(f.Params) {
		return nil, arityErrorf("expected %d arguments %v, got %d", len(f.Params), f, len(args))
	}
	env := NewEnv(outer)
	for i, name := range f.Params {
		env.Scope[name] = args[i]
	}
	if f.Variadic {
		rest := make([]*LVal, len(args)-len(f.Params))
		copy(rest, args[len(f.Params):])
		env.Scope[f.Rest] = List(rest...)
	}
	return env, nil
}

// Put binds k to v in the local scope of env.  Parent environments are never
// modified.
func (env *LEnv) Put(k string, v *LVal) *LVal {
	env.Scope[k] = v
	return v
}

// Get looks up the value bound to k in env and its ancestors.
func (env *LEnv) Get(k string) (*LVal, error) {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[k]; ok {
			return v, nil
		}
	}
	return nil, ErrorConditionf(CondUnboundSymbol, "'%s' not found", k)
}

// Find returns the nearest environment, env or one of its ancestors, in which
// k is bound.  Find returns nil if k is unbound.
func (env *LEnv) Find(k string) *LEnv {
	for e := env; e != nil; e = e.Parent {
		if _, ok := e.Scope[k]; ok {
			return e
		}
	}
	return nil
}

// Root returns the root environment of env.
func (env *LEnv) Root() *LEnv {
	e := env
	for e.Parent != nil {
		e = e.Parent
	}
	return e
}

// Symbols returns the names bound in env and its ancestors, sorted.
func (env *LEnv) Symbols() []string {
	seen := make(map[string]bool)
	for e := env; e != nil; e = e.Parent {
		for k := range e.Scope {
			seen[k] = true
		}
	}
	return sortedNames(seen)
}

// Lambda returns a closure over env with the given formal parameters and
// body.  The body is wrapped in an implicit do when it has more than one
// form.  A string literal leading a body of several forms is recorded as
// the docstring and still evaluated with the rest of the body.
func (env *LEnv) Lambda(formals *LVal, body []*LVal) (*LVal, error) {
	f, err := ParseFormals(formals)
	if err != nil {
		return nil, err
	}
	var doc string
	if len(body) > 1 && body[0].Type == LString {
		doc = body[0].Str
	}
	return &LVal{
		Type: LFun,
		Native: &LFunData{
			Doc:     doc,
			Formals: f,
			Body:    bodyExpr(body),
			Env:     env,
		},
	}, nil
}

func (env *LEnv) String() string {
	return fmt.Sprintf("#<env %d bindings>", len(env.Scope))
}
