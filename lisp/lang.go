// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
)

type bootstrapDef struct {
	name string
	src  string
	doc  string
}

// langBootstrap holds definitions written in lisp.  They are evaluated in
// order, after the native builtins are bound.
var langBootstrap = []bootstrapDef{
	{"not", `(def! not (fn* (a) (if a false true)))`,
		`Returns true if a is nil or false, otherwise false.`},
	{"load-file", `(def! load-file (fn* (f) (eval (read-string (str "(do " (slurp f) "\nnil)")))))`,
		`Evaluates every form in the file at path f in the top level
		environment and returns nil.`},
	{"cond", `(defmacro! cond (fn* (& xs) (if (> (count xs) 0) (list 'if (first xs) (if (> (count xs) 1) (nth xs 1) (throw "odd number of forms to cond")) (cons 'cond (rest (rest xs)))))))`,
		`Takes alternating tests and expressions and evaluates the expression
		following the first test that is neither nil nor false. Returns nil
		when no test passes. An odd number of forms is a user-error.`},
	{"if-not", "(defmacro! if-not (fn* [test else-part if-part] `(if (not ~test) ~else-part ~if-part)))",
		`Evaluates if-part when test is nil or false, otherwise else-part.`},
}

// InitializeUserEnv creates the default user environment.  The configs are
// applied before the language is loaded and must provide a Reader.
func InitializeUserEnv(env *LEnv, config ...Config) error {
	for _, fn := range config {
		if err := fn(env); err != nil {
			return err
		}
	}
	if env.Runtime.Reader == nil {
		return fmt.Errorf("no reader configured for the user environment")
	}
	env.AddBuiltins()
	for _, def := range langBootstrap {
		v, err := env.LoadString(def.name, def.src)
		if err != nil {
			return fmt.Errorf("bootstrap %s: %w", def.name, err)
		}
		v.FunData().Doc = def.doc
	}
	return nil
}
