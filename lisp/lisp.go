// Copyright © 2018 The ELPS authors

package lisp

import (
	"sort"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LInt values store an int in the LVal.Int field.
	LInt
	// LFloat values store a float64 in the LVal.Float field.
	LFloat
	// LString values store an (unescaped) string in the LVal.Str field.
	LString
	// LSymbol values store the identifier in the LVal.Str field.
	LSymbol
	// LKeyword values store the keyword name, without its leading colon, in
	// the LVal.Str field.
	LKeyword
	// LBool values store 1 (true) or 0 (false) in the LVal.Int field.  Only
	// the two shared singletons returned by Bool exist.
	LBool
	// LNil is the canonical absent value.  Only the singleton returned by Nil
	// exists.
	LNil
	// LList values store their elements in LVal.Cells.
	LList
	// LVector values store their elements in LVal.Cells.  Vectors are never
	// evaluated as call forms.
	LVector
	// LMap values store key/value pairs flattened into LVal.Cells:
	//		[2i]   key i
	//		[2i+1] value i
	// Keys are unique under Equal.
	LMap
	// LAtom values are mutable cells.  The current value is LVal.Cells[0].
	// Atoms are shared by reference and must never be copied.
	LAtom
	// LFun values store an *LFunData in LVal.Native.  LVal.FunType
	// distinguishes macros from regular functions.
	LFun
	// LTypeMax is not a real type but represents a value numerically greater
	// than all valid LType values.
	LTypeMax
)

var lvalTypeStrings = []string{
	LInvalid: "INVALID",
	LInt:     "int",
	LFloat:   "float",
	LString:  "string",
	LSymbol:  "symbol",
	LKeyword: "keyword",
	LBool:    "boolean",
	LNil:     "nil",
	LList:    "list",
	LVector:  "vector",
	LMap:     "map",
	LAtom:    "atom",
	LFun:     "function",
}

func (t LType) String() string {
	if t >= LType(len(lvalTypeStrings)) {
		return lvalTypeStrings[LInvalid]
	}
	return lvalTypeStrings[t]
}

// LFunType denotes special functions.
type LFunType uint8

// LFunType constants.  LFunNone indicates a normal function.
const (
	LFunNone LFunType = iota
	LFunMacro
)

var lfunTypeStrings = []string{
	LFunNone:  "function",
	LFunMacro: "macro",
}

func (ft LFunType) String() string {
	if ft >= LFunType(len(lfunTypeStrings)) {
		return "invalid-function-type"
	}
	return lfunTypeStrings[ft]
}

// LFunData is the payload of an LFun value.  Native functions set Builtin and
// leave the remaining fields empty.  Closures set Env, Formals and Body.
type LFunData struct {
	Builtin LBuiltin
	Name    string
	Doc     string
	Formals *Formals
	Body    *LVal
	// Env is the lexical environment captured when the closure was created.
	// It is shared with every other closure created in the same scope and
	// is never reassigned.
	Env *LEnv
}

// LVal is a lisp value
type LVal struct {
	// Native is generic storage for data which cannot be represented as an
	// LVal (and thus can't be stored in Cells).
	Native interface{}

	// Str used by LString, LSymbol and LKeyword values
	Str string

	// Cells used by sequences, maps and atoms as a storage space for lisp
	// objects.
	Cells []*LVal

	// Type is the native type for a value in lisp.
	Type LType

	// Fields used for numeric and boolean types.
	Int   int
	Float float64

	// FunType used to further classify LFun values.
	FunType LFunType
}

// Singleton LVals for nil, true, and false.
//
// INVARIANT: Code that receives Nil(), Bool(true), or Bool(false) MUST NOT
// mutate any field on the returned *LVal.
var (
	singletonNil   = &LVal{Type: LNil}
	singletonTrue  = &LVal{Type: LBool, Int: 1}
	singletonFalse = &LVal{Type: LBool, Int: 0}
)

// Nil returns the LVal representing nil.
func Nil() *LVal {
	return singletonNil
}

// Bool returns an LVal with truthiness identical to b.
func Bool(b bool) *LVal {
	if b {
		return singletonTrue
	}
	return singletonFalse
}

// Int returns an LVal representing the number x.
func Int(x int) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LVal representation of the number x
func Float(x float64) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{Type: LString, Str: str}
}

// Symbol returns an LVal representing the symbol s
func Symbol(s string) *LVal {
	return &LVal{Type: LSymbol, Str: s}
}

// Keyword returns an LVal representing the keyword :name.  The name must not
// include the leading colon.
func Keyword(name string) *LVal {
	return &LVal{Type: LKeyword, Str: name}
}

// List returns an LVal representing a list.  Provided cells are used as
// backing storage for the returned list and are not copied.
func List(cells ...*LVal) *LVal {
	return &LVal{Type: LList, Cells: cells}
}

// Vector returns an LVal representing a vector.  Provided cells are used as
// backing storage for the returned vector and are not copied.
func Vector(cells ...*LVal) *LVal {
	return &LVal{Type: LVector, Cells: cells}
}

// Map returns an LVal representing a map built from a flat sequence of
// alternating keys and values.  When a key appears more than once it keeps
// its first position and the last value written wins.  An odd number of
// cells is an error.
func Map(cells []*LVal) (*LVal, error) {
	if len(cells)%2 != 0 {
		return nil, ErrorConditionf(CondArity, "map requires an even number of forms, got %d", len(cells))
	}
	m := &LVal{Type: LMap, Cells: make([]*LVal, 0, len(cells))}
	for i := 0; i < len(cells); i += 2 {
		m.Cells = mapPut(m.Cells, cells[i], cells[i+1])
	}
	return m, nil
}

// Atom returns a new mutable cell holding v.
func Atom(v *LVal) *LVal {
	return &LVal{Type: LAtom, Cells: []*LVal{v}}
}

// Fun returns an LVal representing a native function.  When formals is
// non-nil the number of arguments is checked against it before fn is called.
func Fun(name string, formals *Formals, fn LBuiltin) *LVal {
	return &LVal{
		Type: LFun,
		Native: &LFunData{
			Name:    name,
			Formals: formals,
			Builtin: fn,
		},
	}
}

// MacroFrom returns a macro sharing the formals, body and environment of the
// closure fun.  The function fun is not modified.
func MacroFrom(fun *LVal) (*LVal, error) {
	if fun.Type != LFun || fun.Builtin() != nil {
		return nil, ErrorConditionf(CondDefinition, "macro body is not a closure: %v", fun.Type)
	}
	data := *fun.FunData()
	return &LVal{
		Type:    LFun,
		FunType: LFunMacro,
		Native:  &data,
	}, nil
}

// FunData returns the function payload of v.  FunData panics if v is not a
// function.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		panic("not a function: " + v.Type.String())
	}
	return v.Native.(*LFunData)
}

// Builtin returns the native implementation of v, or nil for closures.
func (v *LVal) Builtin() LBuiltin {
	return v.FunData().Builtin
}

// Env returns the environment captured by the closure v.
func (v *LVal) Env() *LEnv {
	return v.FunData().Env
}

// Docstring returns the documentation of the function v.  Docstring returns
// the empty string if v is not a function or is undocumented.
func (v *LVal) Docstring() string {
	if v.Type != LFun {
		return ""
	}
	return v.FunData().Doc
}

// IsMacro returns true if v is a macro.
func (v *LVal) IsMacro() bool {
	return v.Type == LFun && v.FunType == LFunMacro
}

// IsNil returns true if v is nil.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// IsSeq returns true if v is a list or a vector.
func (v *LVal) IsSeq() bool {
	return v.Type == LList || v.Type == LVector
}

// IsNumeric returns true if v has a primitive numeric type (int, float64).
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// Len returns the number of elements in a sequence, entries in a map,
// or bytes in a string.  Len returns -1 for values without a length.
func (v *LVal) Len() int {
	switch v.Type {
	case LNil:
		return 0
	case LString:
		return len(v.Str)
	case LList, LVector:
		return len(v.Cells)
	case LMap:
		return len(v.Cells) / 2
	default:
		return -1
	}
}

// Deref returns the current value of atom v.  Deref panics if v is not an
// atom.
func (v *LVal) Deref() *LVal {
	if v.Type != LAtom {
		panic("not an atom: " + v.Type.String())
	}
	return v.Cells[0]
}

// Reset replaces the value held by atom v.  The change is visible through
// every reference to v.
func (v *LVal) Reset(x *LVal) *LVal {
	if v.Type != LAtom {
		panic("not an atom: " + v.Type.String())
	}
	v.Cells[0] = x
	return x
}

// MapGet returns the value bound to k in map v.
func (v *LVal) MapGet(k *LVal) (*LVal, bool) {
	if v.Type != LMap {
		return nil, false
	}
	i := mapIndex(v.Cells, k)
	if i < 0 {
		return nil, false
	}
	return v.Cells[i+1], true
}

// MapAssoc returns a copy of map v with the key/value pairs in kvs added.
// The map v is not modified.
func (v *LVal) MapAssoc(kvs []*LVal) (*LVal, error) {
	if v.Type != LMap {
		return nil, ErrorConditionf(CondType, "not a map: %v", v.Type)
	}
	cells := make([]*LVal, len(v.Cells), len(v.Cells)+len(kvs))
	copy(cells, v.Cells)
	return Map(append(cells, kvs...))
}

// MapKeys returns the keys of map v, ordered by insertion.
func (v *LVal) MapKeys() []*LVal {
	keys := make([]*LVal, 0, len(v.Cells)/2)
	for i := 0; i < len(v.Cells); i += 2 {
		keys = append(keys, v.Cells[i])
	}
	return keys
}

// MapVals returns the values of map v, ordered by insertion of their key.
func (v *LVal) MapVals() []*LVal {
	vals := make([]*LVal, 0, len(v.Cells)/2)
	for i := 1; i < len(v.Cells); i += 2 {
		vals = append(vals, v.Cells[i])
	}
	return vals
}

func mapIndex(cells []*LVal, k *LVal) int {
	for i := 0; i < len(cells); i += 2 {
		if Equal(cells[i], k) {
			return i
		}
	}
	return -1
}

func mapPut(cells []*LVal, k, val *LVal) []*LVal {
	if i := mapIndex(cells, k); i >= 0 {
		cells[i+1] = val
		return cells
	}
	return append(cells, k, val)
}

// True returns true if v is considered true.  Only nil and false are false.
func True(v *LVal) bool {
	switch v.Type {
	case LNil:
		return false
	case LBool:
		return v.Int != 0
	}
	return true
}

// Not returns true if v is logically false.
func Not(v *LVal) bool {
	return !True(v)
}

// Equal returns true if a and b are structurally equal.  Numbers compare by
// value across int and float, lists and vectors compare by content alone,
// and maps compare by their set of entries.  Atoms and functions are only
// equal to themselves.
func Equal(a, b *LVal) bool {
	if a == b {
		return true
	}
	if a.IsNumeric() && b.IsNumeric() {
		return equalNum(a, b)
	}
	if a.IsSeq() && b.IsSeq() {
		if len(a.Cells) != len(b.Cells) {
			return false
		}
		for i := range a.Cells {
			if !Equal(a.Cells[i], b.Cells[i]) {
				return false
			}
		}
		return true
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case LString, LSymbol, LKeyword:
		return a.Str == b.Str
	case LBool:
		return a.Int == b.Int
	case LNil:
		return true
	case LMap:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < len(a.Cells); i += 2 {
			bv, ok := b.MapGet(a.Cells[i])
			if !ok || !Equal(a.Cells[i+1], bv) {
				return false
			}
		}
		return true
	}
	return false
}

func equalNum(a, b *LVal) bool {
	if a.Type == LInt && b.Type == LInt {
		return a.Int == b.Int
	}
	return toFloat(a) == toFloat(b)
}

func toFloat(v *LVal) float64 {
	if v.Type == LInt {
		return float64(v.Int)
	}
	return v.Float
}

// sortedNames returns the keys of m in lexical order.
func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
