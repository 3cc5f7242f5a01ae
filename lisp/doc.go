// Copyright © 2018 The ELPS authors

package lisp

// Doc describes a special form or a function bound in an environment.
type Doc struct {
	Name    string
	Kind    string
	Formals string
	Text    string
}

// Doc returns the documentation for name, which may be a special form or a
// symbol bound to a function in env.
func (env *LEnv) Doc(name string) (*Doc, bool) {
	if op, ok := specialOps[name]; ok {
		return &Doc{Name: op.name, Kind: "special form", Formals: op.formals, Text: op.doc}, true
	}
	v, err := env.Get(name)
	if err != nil || v.Type != LFun {
		return nil, false
	}
	data := v.FunData()
	d := &Doc{Name: name, Text: data.Doc}
	switch {
	case data.Builtin != nil:
		d.Kind = "builtin"
	case v.IsMacro():
		d.Kind = "macro"
	default:
		d.Kind = "function"
	}
	if data.Formals != nil {
		d.Formals = data.Formals.String()
	}
	return d, true
}

// Docs returns the documentation of every special form followed by every
// function bound in env, sorted by name.
func (env *LEnv) Docs() []*Doc {
	var docs []*Doc
	for _, name := range sortedNames(specialOps) {
		d, _ := env.Doc(name)
		docs = append(docs, d)
	}
	for _, name := range env.Symbols() {
		if _, ok := specialOps[name]; ok {
			continue
		}
		if d, ok := env.Doc(name); ok {
			docs = append(docs, d)
		}
	}
	return docs
}
