// Copyright © 2018 The ELPS authors

package lisp

import (
	"os"
	"strings"
)

type langBuiltin struct {
	name    string
	formals *Formals
	fun     LBuiltin
	doc     string
}

// formals returns the Formals named by names, which may contain RestMarker
// before the last name.  formals panics on an invalid list.
func formals(names ...string) *Formals {
	cells := make([]*LVal, len(names))
	for i, name := range names {
		cells[i] = Symbol(name)
	}
	f, err := ParseFormals(List(cells...))
	if err != nil {
		panic(err)
	}
	return f
}

var langBuiltins = []*langBuiltin{
	{"+", formals(RestMarker, "x"), builtinAdd,
		`Returns the sum of its arguments, or 0 with no arguments. The result
		is a float if any argument is a float.`},
	{"-", formals("x", RestMarker, "rest"), builtinSub,
		`Subtracts the remaining arguments from x. A single argument is
		returned unchanged. The result is a float if any argument is a
		float.`},
	{"*", formals(RestMarker, "x"), builtinMul,
		`Returns the product of its arguments, or 1 with no arguments. The
		result is a float if any argument is a float.`},
	{"/", formals("x", RestMarker, "rest"), builtinDiv,
		`Divides x by the remaining arguments in order. A single argument is
		returned unchanged. Dividing integers truncates and dividing an
		integer by zero is a type-error.`},
	{"=", formals("a", RestMarker, "rest"), builtinEqual,
		`Returns true if every argument is structurally equal to the next.
		Numbers compare by value, and lists and vectors with equal elements
		are equal.`},
	{"<", formals("a", RestMarker, "rest"), builtinLT,
		`Returns true if each numeric argument is less than the next.`},
	{"<=", formals("a", RestMarker, "rest"), builtinLEq,
		`Returns true if each numeric argument is less than or equal to the
		next.`},
	{">", formals("a", RestMarker, "rest"), builtinGT,
		`Returns true if each numeric argument is greater than the next.`},
	{">=", formals("a", RestMarker, "rest"), builtinGEq,
		`Returns true if each numeric argument is greater than or equal to
		the next.`},
	{"list", formals(RestMarker, "x"), builtinList,
		`Returns a list containing the arguments.`},
	{"list?", formals("x"), builtinIsList,
		`Returns true if x is a list.`},
	{"vector", formals(RestMarker, "x"), builtinVector,
		`Returns a vector containing the arguments.`},
	{"vector?", formals("x"), builtinIsVector,
		`Returns true if x is a vector.`},
	{"vec", formals("seq"), builtinVec,
		`Returns a vector with the elements of the list or vector seq.`},
	{"sequential?", formals("x"), builtinIsSequential,
		`Returns true if x is a list or a vector.`},
	{"count", formals("x"), builtinCount,
		`Returns the number of elements in a list, vector or map, or the
		number of bytes in a string. The count of nil is 0.`},
	{"empty?", formals("x"), builtinIsEmpty,
		`Returns true if the list, vector, map or string x has no elements.
		Nil is empty.`},
	{"cons", formals("x", "seq"), builtinCons,
		`Returns a new list with x prepended to the elements of seq.`},
	{"concat", formals(RestMarker, "seq"), builtinConcat,
		`Returns a new list containing the elements of each sequence in
		order. Nil arguments contribute no elements.`},
	{"first", formals("seq"), builtinFirst,
		`Returns the first element of seq, or nil if seq is empty or nil.`},
	{"rest", formals("seq"), builtinRest,
		`Returns a list of the elements of seq after the first. The rest of
		an empty sequence or nil is the empty list.`},
	{"nth", formals("seq", "index"), builtinNth,
		`Returns the element of seq at the zero-based index. An index out of
		range is a type-error.`},
	{"hash-map", formals(RestMarker, "pairs"), builtinHashMap,
		`Returns a map of alternating keys and values. An odd number of
		arguments is an arity-error.`},
	{"map?", formals("x"), builtinIsMap,
		`Returns true if x is a map.`},
	{"get", formals("m", "key"), builtinGet,
		`Returns the value bound to key in map m, or nil if key is not
		present or m is nil.`},
	{"contains?", formals("m", "key"), builtinContains,
		`Returns true if key is present in map m.`},
	{"assoc", formals("m", RestMarker, "pairs"), builtinAssoc,
		`Returns a copy of map m with the alternating keys and values
		added.`},
	{"keys", formals("m"), builtinKeys,
		`Returns a list of the keys in map m in insertion order.`},
	{"vals", formals("m"), builtinVals,
		`Returns a list of the values in map m in key insertion order.`},
	{"str", formals(RestMarker, "x"), builtinStr,
		`Returns the concatenation of the human readable forms of the
		arguments.`},
	{"pr-str", formals(RestMarker, "x"), builtinPrStr,
		`Returns the readable forms of the arguments joined by spaces.`},
	{"prn", formals(RestMarker, "x"), builtinPrn,
		`Prints the readable forms of the arguments, joined by spaces and
		followed by a newline. Returns nil.`},
	{"println", formals(RestMarker, "x"), builtinPrintln,
		`Prints the human readable forms of the arguments, joined by spaces
		and followed by a newline. Returns nil.`},
	{"read-string", formals("source"), builtinReadString,
		`Parses the string source and returns its first form, or nil if it
		contains no forms.`},
	{"slurp", formals("path"), builtinSlurp,
		`Returns the contents of the file at path as a string. An unreadable
		file is an io-error.`},
	{"eval", formals("form"), builtinEval,
		`Evaluates form in the top level environment.`},
	{"atom", formals("x"), builtinAtom,
		`Returns a new atom holding x.`},
	{"atom?", formals("x"), builtinIsAtom,
		`Returns true if x is an atom.`},
	{"deref", formals("a"), builtinDeref,
		`Returns the value held by atom a. This is the function behind the @
		prefix syntax.`},
	{"reset!", formals("a", "x"), builtinReset,
		`Replaces the value held by atom a with x and returns x.`},
	{"swap!", formals("a", "fun", RestMarker, "args"), builtinSwap,
		`Calls fun with the value held by atom a followed by args, stores the
		result in a and returns it.`},
	{"apply", formals("fun", RestMarker, "args"), builtinApply,
		`Calls fun with args, the last of which must be a list or vector
		whose elements are passed as individual arguments.`},
	{"map", formals("fun", "seq"), builtinMap,
		`Returns a list of the results of calling fun on each element of
		seq.`},
	{"throw", formals("x"), builtinThrow,
		`Signals a user-error carrying the value x.`},
	{"macroexpand-1", formals("form"), builtinMacroExpand1,
		`Expands the macro call form once and returns the result. Forms that
		are not macro calls are returned unchanged.`},
	{"symbol", formals("name"), builtinSymbol,
		`Returns the symbol named by the string name.`},
	{"symbol?", formals("x"), builtinIsSymbol,
		`Returns true if x is a symbol.`},
	{"keyword", formals("name"), builtinKeyword,
		`Returns the keyword named by the string name. A keyword is returned
		unchanged.`},
	{"keyword?", formals("x"), builtinIsKeyword,
		`Returns true if x is a keyword.`},
	{"string?", formals("x"), builtinIsString,
		`Returns true if x is a string.`},
	{"number?", formals("x"), builtinIsNumber,
		`Returns true if x is an integer or a float.`},
	{"fn?", formals("x"), builtinIsFn,
		`Returns true if x is a function that is not a macro.`},
	{"macro?", formals("x"), builtinIsMacro,
		`Returns true if x is a macro.`},
	{"nil?", formals("x"), builtinIsNil,
		`Returns true if x is nil.`},
	{"true?", formals("x"), builtinIsTrue,
		`Returns true if x is the boolean true.`},
	{"false?", formals("x"), builtinIsFalse,
		`Returns true if x is the boolean false.`},
}

// AddBuiltins binds the native functions of the language in env.
func (env *LEnv) AddBuiltins() {
	for _, b := range langBuiltins {
		fun := Fun(b.name, b.formals, b.fun)
		fun.FunData().Doc = b.doc
		env.Put(b.name, fun)
	}
}

func builtinAdd(env *LEnv, args []*LVal) (*LVal, error) {
	return numFold("+", Int(0), args, func(a, b int) (int, error) { return a + b, nil },
		func(a, b float64) float64 { return a + b })
}

func builtinSub(env *LEnv, args []*LVal) (*LVal, error) {
	return numFold("-", args[0], args[1:], func(a, b int) (int, error) { return a - b, nil },
		func(a, b float64) float64 { return a - b })
}

func builtinMul(env *LEnv, args []*LVal) (*LVal, error) {
	return numFold("*", Int(1), args, func(a, b int) (int, error) { return a * b, nil },
		func(a, b float64) float64 { return a * b })
}

func builtinDiv(env *LEnv, args []*LVal) (*LVal, error) {
	return numFold("/", args[0], args[1:], func(a, b int) (int, error) {
		if b == 0 {
			return 0, typeErrorf("/: division by zero")
		}
		return a / b, nil
	}, func(a, b float64) float64 { return a / b })
}

// numFold reduces args onto init left to right.  Integer arithmetic is used
// until a float is encountered; the remaining operations use floats.
func numFold(name string, init *LVal, args []*LVal, iop func(a, b int) (int, error), fop func(a, b float64) float64) (*LVal, error) {
	if !init.IsNumeric() {
		return nil, typeErrorf("%s: argument is not a number: %v", name, init.Type)
	}
	acc := init
	for _, x := range args {
		if !x.IsNumeric() {
			return nil, typeErrorf("%s: argument is not a number: %v", name, x.Type)
		}
		if acc.Type == LInt && x.Type == LInt {
			n, err := iop(acc.Int, x.Int)
			if err != nil {
				return nil, err
			}
			acc = Int(n)
			continue
		}
		acc = Float(fop(toFloat(acc), toFloat(x)))
	}
	return acc, nil
}

func builtinEqual(env *LEnv, args []*LVal) (*LVal, error) {
	for i := 1; i < len(args); i++ {
		if !Equal(args[i-1], args[i]) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func builtinLT(env *LEnv, args []*LVal) (*LVal, error) {
	return compareChain("<", args, func(c int) bool { return c < 0 })
}

func builtinLEq(env *LEnv, args []*LVal) (*LVal, error) {
	return compareChain("<=", args, func(c int) bool { return c <= 0 })
}

func builtinGT(env *LEnv, args []*LVal) (*LVal, error) {
	return compareChain(">", args, func(c int) bool { return c > 0 })
}

func builtinGEq(env *LEnv, args []*LVal) (*LVal, error) {
	return compareChain(">=", args, func(c int) bool { return c >= 0 })
}

// compareChain checks ok against the numeric comparison of each adjacent
// pair of args.  Every argument must be a number, even after the result is
// known.
func compareChain(name string, args []*LVal, ok func(c int) bool) (*LVal, error) {
	for _, x := range args {
		if !x.IsNumeric() {
			return nil, typeErrorf("%s: argument is not a number: %v", name, x.Type)
		}
	}
	for i := 1; i < len(args); i++ {
		if !ok(compareNum(args[i-1], args[i])) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func compareNum(a, b *LVal) int {
	if a.Type == LInt && b.Type == LInt {
		switch {
		case a.Int < b.Int:
			return -1
		case a.Int > b.Int:
			return 1
		}
		return 0
	}
	x, y := toFloat(a), toFloat(b)
	switch {
	case x < y:
		return -1
	case x > y:
		return 1
	}
	return 0
}

func builtinList(env *LEnv, args []*LVal) (*LVal, error) {
	return List(copyCells(args)...), nil
}

func builtinIsList(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LList), nil
}

func builtinVector(env *LEnv, args []*LVal) (*LVal, error) {
	return Vector(copyCells(args)...), nil
}

func builtinIsVector(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LVector), nil
}

func builtinVec(env *LEnv, args []*LVal) (*LVal, error) {
	cells, err := seqCells("vec", args[0])
	if err != nil {
		return nil, err
	}
	return Vector(copyCells(cells)...), nil
}

func builtinIsSequential(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].IsSeq()), nil
}

func builtinCount(env *LEnv, args []*LVal) (*LVal, error) {
	n := args[0].Len()
	if n < 0 {
		return nil, typeErrorf("count: argument is not a sequence: %v", args[0].Type)
	}
	return Int(n), nil
}

func builtinIsEmpty(env *LEnv, args []*LVal) (*LVal, error) {
	n := args[0].Len()
	if n < 0 {
		return nil, typeErrorf("empty?: argument is not a sequence: %v", args[0].Type)
	}
	return Bool(n == 0), nil
}

func builtinCons(env *LEnv, args []*LVal) (*LVal, error) {
	cells, err := seqCells("cons", args[1])
	if err != nil {
		return nil, err
	}
	ret := make([]*LVal, 0, len(cells)+1)
	ret = append(ret, args[0])
	return List(append(ret, cells...)...), nil
}

func builtinConcat(env *LEnv, args []*LVal) (*LVal, error) {
	var ret []*LVal
	for _, arg := range args {
		cells, err := seqCells("concat", arg)
		if err != nil {
			return nil, err
		}
		ret = append(ret, cells...)
	}
	return List(ret...), nil
}

func builtinFirst(env *LEnv, args []*LVal) (*LVal, error) {
	cells, err := seqCells("first", args[0])
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return Nil(), nil
	}
	return cells[0], nil
}

func builtinRest(env *LEnv, args []*LVal) (*LVal, error) {
	cells, err := seqCells("rest", args[0])
	if err != nil {
		return nil, err
	}
	if len(cells) == 0 {
		return List(), nil
	}
	return List(copyCells(cells[1:])...), nil
}

func builtinNth(env *LEnv, args []*LVal) (*LVal, error) {
	cells, err := seqCells("nth", args[0])
	if err != nil {
		return nil, err
	}
	if args[1].Type != LInt {
		return nil, typeErrorf("nth: index is not an integer: %v", args[1].Type)
	}
	i := args[1].Int
	if i < 0 || i >= len(cells) {
		return nil, typeErrorf("nth: index out of range: %d", i)
	}
	return cells[i], nil
}

func builtinHashMap(env *LEnv, args []*LVal) (*LVal, error) {
	return Map(copyCells(args))
}

func builtinIsMap(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LMap), nil
}

func builtinGet(env *LEnv, args []*LVal) (*LVal, error) {
	m := args[0]
	if m.Type == LNil {
		return Nil(), nil
	}
	if m.Type != LMap {
		return nil, typeErrorf("get: first argument is not a map: %v", m.Type)
	}
	v, ok := m.MapGet(args[1])
	if !ok {
		return Nil(), nil
	}
	return v, nil
}

func builtinContains(env *LEnv, args []*LVal) (*LVal, error) {
	m := args[0]
	if m.Type == LNil {
		return Bool(false), nil
	}
	if m.Type != LMap {
		return nil, typeErrorf("contains?: first argument is not a map: %v", m.Type)
	}
	_, ok := m.MapGet(args[1])
	return Bool(ok), nil
}

func builtinAssoc(env *LEnv, args []*LVal) (*LVal, error) {
	m := args[0]
	if m.Type == LNil {
		return Map(copyCells(args[1:]))
	}
	return m.MapAssoc(args[1:])
}

func builtinKeys(env *LEnv, args []*LVal) (*LVal, error) {
	if args[0].Type != LMap {
		return nil, typeErrorf("keys: argument is not a map: %v", args[0].Type)
	}
	return List(args[0].MapKeys()...), nil
}

func builtinVals(env *LEnv, args []*LVal) (*LVal, error) {
	if args[0].Type != LMap {
		return nil, typeErrorf("vals: argument is not a map: %v", args[0].Type)
	}
	return List(args[0].MapVals()...), nil
}

func builtinStr(env *LEnv, args []*LVal) (*LVal, error) {
	return String(joinVals(args, "", false)), nil
}

func builtinPrStr(env *LEnv, args []*LVal) (*LVal, error) {
	return String(joinVals(args, " ", true)), nil
}

func builtinPrn(env *LEnv, args []*LVal) (*LVal, error) {
	return writeLine(env, joinVals(args, " ", true))
}

func builtinPrintln(env *LEnv, args []*LVal) (*LVal, error) {
	return writeLine(env, joinVals(args, " ", false))
}

func writeLine(env *LEnv, line string) (*LVal, error) {
	if _, err := env.Runtime.Stdout.Write([]byte(line + "\n")); err != nil {
		return nil, ErrorCondition(CondIO, err)
	}
	return Nil(), nil
}

func joinVals(args []*LVal, sep string, readable bool) string {
	var b strings.Builder
	for i, v := range args {
		if i > 0 {
			b.WriteString(sep)
		}
		if readable {
			b.WriteString(v.String())
		} else {
			b.WriteString(v.Display())
		}
	}
	return b.String()
}

func builtinReadString(env *LEnv, args []*LVal) (*LVal, error) {
	if args[0].Type != LString {
		return nil, typeErrorf("read-string: argument is not a string: %v", args[0].Type)
	}
	if env.Runtime.Reader == nil {
		return nil, ErrorConditionf(CondIO, "read-string: no reader configured")
	}
	exprs, err := env.Runtime.Reader.Read("", strings.NewReader(args[0].Str))
	if err != nil {
		return nil, err
	}
	if len(exprs) == 0 {
		return Nil(), nil
	}
	return exprs[0], nil
}

func builtinSlurp(env *LEnv, args []*LVal) (*LVal, error) {
	if args[0].Type != LString {
		return nil, typeErrorf("slurp: argument is not a string: %v", args[0].Type)
	}
	b, err := os.ReadFile(args[0].Str)
	if err != nil {
		return nil, ErrorCondition(CondIO, err)
	}
	return String(string(b)), nil
}

func builtinEval(env *LEnv, args []*LVal) (*LVal, error) {
	return env.Root().Eval(args[0])
}

func builtinAtom(env *LEnv, args []*LVal) (*LVal, error) {
	return Atom(args[0]), nil
}

func builtinIsAtom(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LAtom), nil
}

func builtinDeref(env *LEnv, args []*LVal) (*LVal, error) {
	if args[0].Type != LAtom {
		return nil, typeErrorf("deref: argument is not an atom: %v", args[0].Type)
	}
	return args[0].Deref(), nil
}

func builtinReset(env *LEnv, args []*LVal) (*LVal, error) {
	if args[0].Type != LAtom {
		return nil, typeErrorf("reset!: first argument is not an atom: %v", args[0].Type)
	}
	return args[0].Reset(args[1]), nil
}

func builtinSwap(env *LEnv, args []*LVal) (*LVal, error) {
	a := args[0]
	if a.Type != LAtom {
		return nil, typeErrorf("swap!: first argument is not an atom: %v", a.Type)
	}
	fargs := make([]*LVal, 0, len(args)-1)
	fargs = append(fargs, a.Deref())
	fargs = append(fargs, args[2:]...)
	v, err := env.Apply(args[1], fargs)
	if err != nil {
		return nil, err
	}
	return a.Reset(v), nil
}

func builtinApply(env *LEnv, args []*LVal) (*LVal, error) {
	fargs := copyCells(args[1:])
	if len(fargs) > 0 {
		last := fargs[len(fargs)-1]
		cells, err := seqCells("apply", last)
		if err != nil {
			return nil, err
		}
		fargs = append(fargs[:len(fargs)-1], cells...)
	}
	return env.Apply(args[0], fargs)
}

func builtinMap(env *LEnv, args []*LVal) (*LVal, error) {
	cells, err := seqCells("map", args[1])
	if err != nil {
		return nil, err
	}
	ret := make([]*LVal, len(cells))
	for i, c := range cells {
		v, err := env.Apply(args[0], []*LVal{c})
		if err != nil {
			return nil, err
		}
		ret[i] = v
	}
	return List(ret...), nil
}

func builtinThrow(env *LEnv, args []*LVal) (*LVal, error) {
	return nil, ErrorThrown(args[0])
}

func builtinMacroExpand1(env *LEnv, args []*LVal) (*LVal, error) {
	v, _, err := env.MacroExpand1(args[0])
	return v, err
}

func builtinSymbol(env *LEnv, args []*LVal) (*LVal, error) {
	if args[0].Type != LString {
		return nil, typeErrorf("symbol: argument is not a string: %v", args[0].Type)
	}
	return Symbol(args[0].Str), nil
}

func builtinIsSymbol(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LSymbol), nil
}

func builtinKeyword(env *LEnv, args []*LVal) (*LVal, error) {
	switch args[0].Type {
	case LKeyword:
		return args[0], nil
	case LString:
		return Keyword(args[0].Str), nil
	}
	return nil, typeErrorf("keyword: argument is not a string: %v", args[0].Type)
}

func builtinIsKeyword(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LKeyword), nil
}

func builtinIsString(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LString), nil
}

func builtinIsNumber(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].IsNumeric()), nil
}

func builtinIsFn(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LFun && !args[0].IsMacro()), nil
}

func builtinIsMacro(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].IsMacro()), nil
}

func builtinIsNil(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].IsNil()), nil
}

func builtinIsTrue(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LBool && args[0].Int != 0), nil
}

func builtinIsFalse(env *LEnv, args []*LVal) (*LVal, error) {
	return Bool(args[0].Type == LBool && args[0].Int == 0), nil
}

// seqCells returns the elements of a list or vector.  Nil has no elements.
func seqCells(name string, v *LVal) ([]*LVal, error) {
	switch v.Type {
	case LList, LVector:
		return v.Cells, nil
	case LNil:
		return nil, nil
	}
	return nil, typeErrorf("%s: argument is not a list: %v", name, v.Type)
}

func copyCells(cells []*LVal) []*LVal {
	ret := make([]*LVal, len(cells))
	copy(ret, cells)
	return ret
}
