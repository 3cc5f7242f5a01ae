// Copyright © 2018 The ELPS authors

package lisp

// Quasiquote returns the expression that builds the template v when it is
// evaluated.  Lists are rebuilt right to left with cons, splicing the
// arguments of splice-unquote forms with concat.  Symbols and maps are
// quoted, (unquote x) becomes x, and any other value is returned unchanged.
// Quasiquote never fails; misplaced unquote forms surface as evaluation
// errors.
func Quasiquote(v *LVal) *LVal {
	switch v.Type {
	case LList:
		if isCall(v, "unquote") {
			return v.Cells[1]
		}
		acc := List()
		for i := len(v.Cells) - 1; i >= 0; i-- {
			elt := v.Cells[i]
			if isCall(elt, "splice-unquote") {
				acc = List(Symbol("concat"), elt.Cells[1], acc)
			} else {
				acc = List(Symbol("cons"), Quasiquote(elt), acc)
			}
		}
		return acc
	case LSymbol, LMap:
		return List(Symbol("quote"), v)
	default:
		return v
	}
}

// isCall returns true if v is a list of two elements headed by the symbol
// name.
func isCall(v *LVal, name string) bool {
	if v.Type != LList || len(v.Cells) != 2 {
		return false
	}
	head := v.Cells[0]
	return head.Type == LSymbol && head.Str == name
}
