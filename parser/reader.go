// Copyright © 2018 The ELPS authors

package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/luthersystems/mal/lisp"
)

var (
	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

// readerMacros maps prefix tokens to the symbol wrapping the following form.
var readerMacros = map[string]string{
	"'":  "quote",
	"`":  "quasiquote",
	"~":  "unquote",
	"~@": "splice-unquote",
	"@":  "deref",
}

var closers = map[string]string{
	"(": ")",
	"[": "]",
	"{": "}",
}

// tokenReader is a cursor over a token sequence.
type tokenReader struct {
	tokens []string
	pos    int
}

func (r *tokenReader) peek() (string, bool) {
	if r.pos >= len(r.tokens) {
		return "", false
	}
	return r.tokens[r.pos], true
}

func (r *tokenReader) next() (string, bool) {
	tok, ok := r.peek()
	if ok {
		r.pos++
	}
	return tok, ok
}

// ReadString parses the first form in text.  ReadString returns nil when
// text contains no forms.
func ReadString(text string) (*lisp.LVal, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return lisp.Nil(), nil
	}
	r := &tokenReader{tokens: tokens}
	return r.readForm()
}

// ReadAll parses every top-level form in text.
func ReadAll(text string) ([]*lisp.LVal, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	r := &tokenReader{tokens: tokens}
	exprs := []*lisp.LVal{}
	for r.pos < len(r.tokens) {
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, v)
	}
	return exprs, nil
}

func (r *tokenReader) readForm() (*lisp.LVal, error) {
	tok, ok := r.next()
	if !ok {
		return nil, incompleteErrorf("unexpected EOF: unbalanced form")
	}
	switch tok {
	case "(", "[", "{":
		return r.readSeq(tok)
	case ")", "]", "}":
		return nil, lisp.ErrorConditionf(lisp.CondSyntax, "unexpected '%s': unbalanced", tok)
	}
	if sym, ok := readerMacros[tok]; ok {
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return lisp.List(lisp.Symbol(sym), v), nil
	}
	return readAtom(tok)
}

func (r *tokenReader) readSeq(open string) (*lisp.LVal, error) {
	closer := closers[open]
	var cells []*lisp.LVal
	for {
		tok, ok := r.peek()
		if !ok {
			return nil, incompleteErrorf("expected '%s', got EOF: unbalanced", closer)
		}
		if tok == closer {
			r.pos++
			break
		}
		v, err := r.readForm()
		if err != nil {
			return nil, err
		}
		cells = append(cells, v)
	}
	switch open {
	case "[":
		return lisp.Vector(cells...), nil
	case "{":
		if len(cells)%2 != 0 {
			return nil, lisp.ErrorConditionf(lisp.CondSyntax, "map literal has an odd number of forms")
		}
		return lisp.Map(cells)
	default:
		return lisp.List(cells...), nil
	}
}

func readAtom(tok string) (*lisp.LVal, error) {
	switch {
	case intPattern.MatchString(tok):
		n, err := strconv.Atoi(tok)
		if err != nil {
			return nil, lisp.ErrorCondition(lisp.CondSyntax, err)
		}
		return lisp.Int(n), nil
	case floatPattern.MatchString(tok):
		x, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, lisp.ErrorCondition(lisp.CondSyntax, err)
		}
		return lisp.Float(x), nil
	case tok[0] == '"':
		return lisp.String(unescape(tok[1 : len(tok)-1])), nil
	case tok[0] == ':':
		return lisp.Keyword(tok[1:]), nil
	}
	switch tok {
	case "nil":
		return lisp.Nil(), nil
	case "true":
		return lisp.Bool(true), nil
	case "false":
		return lisp.Bool(false), nil
	}
	return lisp.Symbol(tok), nil
}

// unescape replaces the escape sequences of a string literal.  A backslash
// followed by n is a newline; any other escaped character stands for itself.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 == len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		if s[i] == 'n' {
			b.WriteByte('\n')
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
