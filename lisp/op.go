// Copyright © 2018 The ELPS authors

package lisp

// specialOpFun implements a special form.  The operands are unevaluated.
// When the returned environment is non-nil evaluation continues with the
// returned expression in that environment, otherwise the returned expression
// is the value of the form.
type specialOpFun func(env *LEnv, args []*LVal) (*LVal, *LEnv, error)

type specialOp struct {
	name    string
	formals string
	fun     specialOpFun
	doc     string
}

var specialOps map[string]*specialOp

func init() {
	specialOps = make(map[string]*specialOp, len(langSpecialOps))
	for _, op := range langSpecialOps {
		specialOps[op.name] = op
	}
}

var langSpecialOps = []*specialOp{
	{"def!", "(name [expr])", opDef,
		`Evaluates expr and binds the result to the symbol name in the
		current environment, replacing any existing local binding. With no
		expr the name is bound to nil. Returns the bound value.`},
	{"let*", "(bindings & body)", opLetSeq,
		`Creates local variable bindings evaluated sequentially, so each
		binding can refer to previously bound symbols. The bindings are a
		list or vector of alternating symbols and expressions. Returns the
		last body value.`},
	{"if", "(test then [else])", opIf,
		`Evaluates test. If the result is neither nil nor false, evaluates
		and returns then. Otherwise evaluates and returns else (or nil if
		omitted).`},
	{"do", "(& exprs)", opDo,
		`Evaluates each expression in order and returns the value of the
		last one. Returns nil when there are no expressions.`},
	{"fn*", "(formals & body)", opFn,
		`Returns an anonymous function closing over the current
		environment. Formals is a list or vector of parameter symbols in
		which & before the final symbol collects the remaining arguments
		into a list.`},
	{"quote", "(expr)", opQuote,
		`Returns its argument unevaluated. This is the operator behind the '
		prefix syntax.`},
	{"quasiquote", "(expr)", opQuasiquote,
		"Returns a template in which (unquote expr) forms are evaluated and " +
			"(splice-unquote expr) forms are evaluated and their elements " +
			"spliced in. All other subexpressions remain unevaluated. This " +
			"is the operator behind the ` prefix syntax."},
	{"quasiquoteexpand", "(expr)", opQuasiquoteExpand,
		`Returns the expression that quasiquote would evaluate for expr,
		without evaluating it.`},
	{"unquote", "(expr)", opUnquote,
		`Outside of a quasiquote template, evaluates and returns expr. This
		is the operator behind the ~ prefix syntax.`},
	{"defmacro!", "(name fun)", opDefMacro,
		`Evaluates fun, which must produce a function, and binds a macro
		sharing its formals and body to the symbol name. Calls to a macro
		receive their arguments unevaluated and the result is evaluated in
		place of the call.`},
	{"macroexpand", "(form)", opMacroExpand,
		`Expands the macro call form repeatedly until its head is no longer
		a macro and returns the result without evaluating it.`},
}

func opDef(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if len(args) == 0 || args[0].Type != LSymbol {
		return nil, nil, definitionErrorf("def!: first argument is not a symbol")
	}
	if len(args) > 2 {
		return nil, nil, arityErrorf("too many arguments to def!")
	}
	val := Nil()
	if len(args) == 2 {
		var err error
		val, err = env.Eval(args[1])
		if err != nil {
			return nil, nil, err
		}
	}
	nameFun(val, args[0].Str)
	return env.Put(args[0].Str, val), nil, nil
}

func opLetSeq(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if len(args) == 0 {
		return nil, nil, definitionErrorf("let*: missing binding list")
	}
	bindings := args[0]
	if !bindings.IsSeq() {
		return nil, nil, definitionErrorf("let*: binding list is not a list: %v", bindings.Type)
	}
	if len(bindings.Cells)%2 != 0 {
		return nil, nil, definitionErrorf("let*: binding list has an odd number of forms")
	}
	letEnv := NewEnv(env)
	for i := 0; i < len(bindings.Cells); i += 2 {
		sym := bindings.Cells[i]
		if sym.Type != LSymbol {
			return nil, nil, definitionErrorf("let*: binding name is not a symbol: %v", sym)
		}
		val, err := letEnv.Eval(bindings.Cells[i+1])
		if err != nil {
			return nil, nil, err
		}
		letEnv.Put(sym.Str, val)
	}
	return bodyExpr(args[1:]), letEnv, nil
}

func opIf(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	switch {
	case len(args) < 2:
		return nil, nil, arityErrorf("too few arguments to if")
	case len(args) > 3:
		return nil, nil, arityErrorf("too many arguments to if")
	}
	test, err := env.Eval(args[0])
	if err != nil {
		return nil, nil, err
	}
	if True(test) {
		return args[1], env, nil
	}
	if len(args) == 3 {
		return args[2], env, nil
	}
	return Nil(), nil, nil
}

func opDo(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if len(args) == 0 {
		return Nil(), nil, nil
	}
	for _, expr := range args[:len(args)-1] {
		if _, err := env.Eval(expr); err != nil {
			return nil, nil, err
		}
	}
	return args[len(args)-1], env, nil
}

func opFn(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if len(args) == 0 {
		return nil, nil, definitionErrorf("fn*: missing formal parameters")
	}
	fun, err := env.Lambda(args[0], args[1:])
	if err != nil {
		return nil, nil, err
	}
	return fun, nil, nil
}

func opQuote(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if err := checkOperands("quote", args); err != nil {
		return nil, nil, err
	}
	return args[0], nil, nil
}

func opQuasiquote(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if err := checkOperands("quasiquote", args); err != nil {
		return nil, nil, err
	}
	return Quasiquote(args[0]), env, nil
}

func opQuasiquoteExpand(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if err := checkOperands("quasiquoteexpand", args); err != nil {
		return nil, nil, err
	}
	return Quasiquote(args[0]), nil, nil
}

func opUnquote(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if err := checkOperands("unquote", args); err != nil {
		return nil, nil, err
	}
	return args[0], env, nil
}

func opDefMacro(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if len(args) == 0 || args[0].Type != LSymbol {
		return nil, nil, definitionErrorf("defmacro!: first argument is not a symbol")
	}
	switch {
	case len(args) < 2:
		return nil, nil, definitionErrorf("defmacro!: missing macro function")
	case len(args) > 2:
		return nil, nil, arityErrorf("too many arguments to defmacro!")
	}
	fun, err := env.Eval(args[1])
	if err != nil {
		return nil, nil, err
	}
	mac, err := MacroFrom(fun)
	if err != nil {
		return nil, nil, err
	}
	if mac.FunData().Name == "" {
		mac.FunData().Name = args[0].Str
	}
	return env.Put(args[0].Str, mac), nil, nil
}

func opMacroExpand(env *LEnv, args []*LVal) (*LVal, *LEnv, error) {
	if err := checkOperands("macroexpand", args); err != nil {
		return nil, nil, err
	}
	expanded, err := env.MacroExpand(args[0])
	if err != nil {
		return nil, nil, err
	}
	return expanded, nil, nil
}

func checkOperands(name string, args []*LVal) error {
	if len(args) != 1 {
		return arityErrorf("%s: expected 1 argument, got %d", name, len(args))
	}
	return nil
}

// nameFun names an anonymous closure after the first symbol it is bound to.
func nameFun(v *LVal, name string) {
	if v.Type != LFun || v.Builtin() != nil {
		return
	}
	if data := v.FunData(); data.Name == "" {
		data.Name = name
	}
}
