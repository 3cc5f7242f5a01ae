// Copyright © 2018 The ELPS authors

package lisp

// MacroExpand repeatedly expands v while it is a call to a macro.  Macro
// arguments are passed unevaluated and the expansion is not evaluated.
// Expansion fails once Runtime.MaxMacroExpansionDepth successive expansions
// have been performed.
func (env *LEnv) MacroExpand(v *LVal) (*LVal, error) {
	limit := env.Runtime.MaxMacroExpansionDepth
	for depth := 0; ; depth++ {
		mac := env.macroCall(v)
		if mac == nil {
			return v, nil
		}
		if limit > 0 && depth >= limit {
			return nil, ErrorConditionf(CondMacroExpansion,
				"macro expansion exceeded maximum depth %d: %s", limit, mac.FunData().Name)
		}
		var err error
		v, err = env.Apply(mac, v.Cells[1:])
		if err != nil {
			return nil, err
		}
	}
}

// MacroExpand1 expands v once if it is a call to a macro.  The boolean result
// reports whether an expansion happened.
func (env *LEnv) MacroExpand1(v *LVal) (*LVal, bool, error) {
	mac := env.macroCall(v)
	if mac == nil {
		return v, false, nil
	}
	expanded, err := env.Apply(mac, v.Cells[1:])
	if err != nil {
		return nil, false, err
	}
	return expanded, true, nil
}

// macroCall returns the macro called by the form v, or nil if v is not a
// list headed by a symbol bound to a macro.
func (env *LEnv) macroCall(v *LVal) *LVal {
	if v.Type != LList || len(v.Cells) == 0 {
		return nil
	}
	head := v.Cells[0]
	if head.Type != LSymbol {
		return nil
	}
	owner := env.Find(head.Str)
	if owner == nil {
		return nil
	}
	mac := owner.Scope[head.Str]
	if !mac.IsMacro() {
		return nil
	}
	return mac
}
