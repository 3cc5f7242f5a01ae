// Copyright © 2018 The ELPS authors

package lisp

// LBuiltin is a function that performs executes a lisp function.  The
// arguments have been evaluated and their count checked against the
// builtin's formals.
type LBuiltin func(env *LEnv, args []*LVal) (*LVal, error)

// Eval evaluates v in the context (scope) of env and returns the resulting
// LVal.  Calls and special forms in tail position continue inside the same
// invocation of Eval, so tail recursive programs run in constant Go stack
// space.
func (env *LEnv) Eval(v *LVal) (_ *LVal, err error) {
	rt := env.Runtime
	framed := false
	var stops []func()
	defer func() {
		if err != nil {
			err = attachStack(err, rt.Stack)
		}
		if framed {
			rt.Stack.Pop()
		}
		for i := len(stops) - 1; i >= 0; i-- {
			stops[i]()
		}
	}()
	for {
		v, err = env.MacroExpand(v)
		if err != nil {
			return nil, err
		}
		if v.Type != LList {
			return env.evalAST(v)
		}
		if len(v.Cells) == 0 {
			return v, nil
		}
		if head := v.Cells[0]; head.Type == LSymbol {
			if op, ok := specialOps[head.Str]; ok {
				next, nextEnv, err := op.fun(env, v.Cells[1:])
				if err != nil {
					return nil, err
				}
				if nextEnv == nil {
					return next, nil
				}
				v, env = next, nextEnv
				continue
			}
		}
		cells, err := env.evalCells(v.Cells)
		if err != nil {
			return nil, err
		}
		fun, args := cells[0], cells[1:]
		if fun.Type != LFun {
			return nil, typeErrorf("not callable: %v", fun)
		}
		data := fun.FunData()
		if data.Builtin != nil {
			return env.callBuiltin(fun, args)
		}
		callEnv, err := BindEnv(data.Env, data.Formals, args)
		if err != nil {
			return nil, err
		}
		if !framed {
			if err := rt.Stack.Push(data.Name); err != nil {
				return nil, err
			}
			framed = true
		} else {
			rt.Stack.Replace(data.Name)
		}
		if stop := rt.profile(fun); stop != nil {
			stops = append(stops, stop)
		}
		v, env = data.Body, callEnv
	}
}

// Apply calls fun with args, which are not evaluated.  Apply is used by
// builtins taking function arguments and by macro expansion.
func (env *LEnv) Apply(fun *LVal, args []*LVal) (*LVal, error) {
	if fun.Type != LFun {
		return nil, typeErrorf("not callable: %v", fun)
	}
	data := fun.FunData()
	if data.Builtin != nil {
		return env.callBuiltin(fun, args)
	}
	callEnv, err := BindEnv(data.Env, data.Formals, args)
	if err != nil {
		return nil, err
	}
	rt := env.Runtime
	if err := rt.Stack.Push(data.Name); err != nil {
		return nil, err
	}
	defer rt.Stack.Pop()
	if stop := rt.profile(fun); stop != nil {
		defer stop()
	}
	ret, err := callEnv.Eval(data.Body)
	if err != nil {
		return nil, attachStack(err, rt.Stack)
	}
	return ret, nil
}

func (env *LEnv) callBuiltin(fun *LVal, args []*LVal) (*LVal, error) {
	data := fun.FunData()
	rt := env.Runtime
	if err := rt.Stack.Push(data.Name); err != nil {
		return nil, err
	}
	defer rt.Stack.Pop()
	if stop := rt.profile(fun); stop != nil {
		defer stop()
	}
	if data.Formals != nil {
		if err := checkArity(data.Name, data.Formals, args); err != nil {
			return nil, attachStack(err, rt.Stack)
		}
	}
	ret, err := data.Builtin(env, args)
	if err != nil {
		return nil, attachStack(err, rt.Stack)
	}
	return ret, nil
}

func checkArity(name string, f *Formals, args []*LVal) error {
	switch {
	case len(args) < len(f.Params):
		if f.Variadic {
			return arityErrorf("%s: expected at least %d arguments %v, got %d", name, len(f.Params), f, len(args))
		}
		return arityErrorf("%s: expected %d arguments %v, got %d", name, len(f.Params), f, len(args))
	case !f.Variadic && len(args) > len(f.Params):
		return arityErrorf("%s: expected %d arguments %v, got %d", name, len(f.Params), f, len(args))
	}
	return nil
}

// evalAST evaluates a form that is not a call.  Symbols are looked up,
// vectors and map values are evaluated element-wise.  Anything else evaluates
// to itself.
func (env *LEnv) evalAST(v *LVal) (*LVal, error) {
	switch v.Type {
	case LSymbol:
		return env.Get(v.Str)
	case LVector:
		cells, err := env.evalCells(v.Cells)
		if err != nil {
			return nil, err
		}
		return Vector(cells...), nil
	case LMap:
		cells := make([]*LVal, len(v.Cells))
		for i := 0; i < len(v.Cells); i += 2 {
			val, err := env.Eval(v.Cells[i+1])
			if err != nil {
				return nil, err
			}
			cells[i], cells[i+1] = v.Cells[i], val
		}
		return &LVal{Type: LMap, Cells: cells}, nil
	case LList:
		cells, err := env.evalCells(v.Cells)
		if err != nil {
			return nil, err
		}
		return List(cells...), nil
	default:
		return v, nil
	}
}

// evalCells evaluates each cell, left to right, into a new slice.
func (env *LEnv) evalCells(cells []*LVal) ([]*LVal, error) {
	ret := make([]*LVal, len(cells))
	for i, c := range cells {
		v, err := env.Eval(c)
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return ret, nil
}

// bodyExpr returns a single expression evaluating the forms of body in
// order.
func bodyExpr(body []*LVal) *LVal {
	switch len(body) {
	case 0:
		return Nil()
	case 1:
		return body[0]
	default:
		return List(append([]*LVal{Symbol("do")}, body...)...)
	}
}
