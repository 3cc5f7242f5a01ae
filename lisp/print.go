// Copyright © 2018 The ELPS authors

package lisp

import (
	"strconv"
	"strings"
)

// String returns the readable representation of v.  Reading the result of
// String produces a value Equal to v for every literal value.
func (v *LVal) String() string {
	var b strings.Builder
	v.str(&b, true)
	return b.String()
}

// Display returns the representation of v shown to humans.  Strings are
// written verbatim, without quotes or escapes.
func (v *LVal) Display() string {
	var b strings.Builder
	v.str(&b, false)
	return b.String()
}

func (v *LVal) str(b *strings.Builder, readable bool) {
	switch v.Type {
	case LInt:
		b.WriteString(strconv.Itoa(v.Int))
	case LFloat:
		b.WriteString(formatFloat(v.Float))
	case LString:
		if readable {
			b.WriteString(quoteString(v.Str))
		} else {
			b.WriteString(v.Str)
		}
	case LSymbol:
		b.WriteString(v.Str)
	case LKeyword:
		b.WriteString(":")
		b.WriteString(v.Str)
	case LBool:
		if v.Int != 0 {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case LNil:
		b.WriteString("nil")
	case LList:
		seqString(b, v.Cells, "(", ")", readable)
	case LVector:
		seqString(b, v.Cells, "[", "]", readable)
	case LMap:
		b.WriteString("{")
		for i := 0; i < len(v.Cells); i += 2 {
			if i > 0 {
				b.WriteString(", ")
			}
			v.Cells[i].str(b, readable)
			b.WriteString(" ")
			v.Cells[i+1].str(b, readable)
		}
		b.WriteString("}")
	case LAtom:
		b.WriteString("(atom ")
		v.Cells[0].str(b, readable)
		b.WriteString(")")
	case LFun:
		funString(b, v)
	default:
		b.WriteString("#<invalid>")
	}
}

func seqString(b *strings.Builder, cells []*LVal, open, close string, readable bool) {
	b.WriteString(open)
	for i, c := range cells {
		if i > 0 {
			b.WriteString(" ")
		}
		c.str(b, readable)
	}
	b.WriteString(close)
}

func funString(b *strings.Builder, v *LVal) {
	fun := v.FunData()
	switch {
	case fun.Builtin != nil:
		b.WriteString("#<builtin ")
		b.WriteString(fun.Name)
		b.WriteString(">")
	case v.IsMacro():
		b.WriteString("#<macro")
		if fun.Name != "" {
			b.WriteString(" " + fun.Name)
		}
		b.WriteString(">")
	default:
		b.WriteString("#<function")
		if fun.Name != "" {
			b.WriteString(" " + fun.Name)
		}
		b.WriteString(">")
	}
}

// formatFloat renders x so that it reads back as a float.
func formatFloat(x float64) string {
	s := strconv.FormatFloat(x, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
