// Copyright © 2018 The ELPS authors

package parser

import (
	"github.com/luthersystems/mal/lisp"
	parsec "github.com/prataprc/goparsec"
)

const (
	// separatorPattern matches whitespace and commas between tokens.
	separatorPattern = `^[\s,]*`
	// tokenPattern matches, in order of preference, the splice marker,
	// single character syntax, a string literal (possibly unterminated), a
	// comment and a maximal run of non-delimiter characters.
	tokenPattern = "^(?:~@|[\\[\\]{}()'`~^@]|\"(?:\\\\.|[^\\\\\"])*\"?|;.*|[^\\s\\[\\]{}('\"`,;)]+)"
)

// Tokenize splits text into tokens.  Separators and comments are discarded.
// A string literal without a closing quote is a syntax-error.
func Tokenize(text string) ([]string, error) {
	var tokens []string
	s := parsec.NewScanner([]byte(text))
	for {
		_, s = s.Match(separatorPattern)
		if s.Endof() {
			return tokens, nil
		}
		tok, next := s.Match(tokenPattern)
		if len(tok) == 0 {
			return nil, lisp.ErrorConditionf(lisp.CondSyntax, "unreadable text at offset %d", s.GetCursor())
		}
		s = next
		switch tok[0] {
		case ';':
			continue
		case '"':
			if !closedString(tok) {
				return nil, incompleteErrorf("expected '\"', got EOF: unbalanced string")
			}
		}
		tokens = append(tokens, string(tok))
	}
}

// closedString returns true if the string token tok ends with a quote that
// is not escaped.
func closedString(tok []byte) bool {
	if len(tok) < 2 || tok[len(tok)-1] != '"' {
		return false
	}
	backslashes := 0
	for i := len(tok) - 2; i > 0 && tok[i] == '\\'; i-- {
		backslashes++
	}
	return backslashes%2 == 0
}
