// Copyright © 2018 The ELPS authors

package repl

import (
	"sort"
	"strings"

	"github.com/luthersystems/mal/lisp"
)

// symbolCompleter implements readline.AutoCompleter by enumerating symbols
// bound in the REPL environment and the special forms.
type symbolCompleter struct {
	env *lisp.LEnv
}

// wordBreaks are the characters that end the word being completed.
const wordBreaks = " \t\n()[]{}'`~@,\""

func (c *symbolCompleter) Do(line []rune, pos int) ([][]rune, int) {
	start := pos
	for start > 0 && !strings.ContainsRune(wordBreaks, line[start-1]) {
		start--
	}
	prefix := string(line[start:pos])
	if prefix == "" {
		return nil, 0
	}

	candidates := c.collectSymbols(prefix)
	if len(candidates) == 0 {
		return nil, 0
	}

	// Each completion is the suffix to append.
	result := make([][]rune, 0, len(candidates))
	for _, sym := range candidates {
		result = append(result, []rune(sym[len(prefix):]))
	}
	return result, len([]rune(prefix))
}

func (c *symbolCompleter) collectSymbols(prefix string) []string {
	seen := make(map[string]bool)
	var result []string
	add := func(name string) {
		if strings.HasPrefix(name, prefix) && !seen[name] {
			seen[name] = true
			result = append(result, name)
		}
	}
	for _, doc := range c.env.Docs() {
		add(doc.Name)
	}
	for _, name := range c.env.Symbols() {
		add(name)
	}
	sort.Strings(result)
	return result
}
