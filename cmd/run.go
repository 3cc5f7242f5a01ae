// Copyright © 2018 The ELPS authors

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/mal/lisp"
	"github.com/spf13/cobra"
)

var (
	runExpression bool
	runPrint      bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [flags] FILE [ARG ...]",
	Short: "Run lisp code",
	Long: `Run lisp code supplied via the command line or a file.

By default the first argument is a source file which is evaluated with the
remaining arguments bound to *ARGV* as a list of strings. With -e every
argument is evaluated as lisp source and *ARGV* is empty.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s := &session{}
		env, err := s.newEnv(os.Stdout, os.Stderr)
		if err == nil {
			err = runArgs(env, args, os.Stdout)
		}
		if cerr := s.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			writeError(os.Stderr, err)
			os.Exit(1)
		}
	},
}

// argvSymbol is bound to the command line arguments following the source
// file.
const argvSymbol = "*ARGV*"

// runArgs evaluates the sources named by args in env, printing each value
// to w when runPrint is set.
func runArgs(env *lisp.LEnv, args []string, w io.Writer) error {
	sources, err := runReadExpressions(args)
	if err != nil {
		return lisp.ErrorCondition(lisp.CondIO, err)
	}
	argv := []*lisp.LVal{}
	if !runExpression {
		for _, arg := range args[1:] {
			argv = append(argv, lisp.String(arg))
		}
	}
	env.Put(argvSymbol, lisp.List(argv...))
	for _, src := range sources {
		exprs, err := env.Runtime.Reader.Read(src.name, strings.NewReader(src.text))
		if err != nil {
			return err
		}
		for _, expr := range exprs {
			v, err := env.Eval(expr)
			if err != nil {
				return err
			}
			if runPrint {
				if _, err := fmt.Fprintln(w, v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

type runSource struct {
	name string
	text string
}

func runReadExpressions(args []string) ([]runSource, error) {
	if runExpression {
		sources := make([]runSource, len(args))
		for i := range args {
			sources[i] = runSource{name: "", text: args[i]}
		}
		return sources, nil
	}
	b, err := os.ReadFile(args[0]) //#nosec G304
	if err != nil {
		return nil, err
	}
	return []runSource{{name: args[0], text: string(b)}}, nil
}

// writeError writes err to w, with a lisp stack trace when one is
// available.
func writeError(w io.Writer, err error) {
	var lerr *lisp.ErrorVal
	if errors.As(err, &lerr) {
		_, _ = lerr.WriteTrace(w)
		return
	}
	fmt.Fprintln(w, err) //nolint:errcheck // best-effort error display
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Here flags for the run command are defined
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions")
	runCmd.Flags().BoolVarP(&runPrint, "print", "p", false,
		"Print expression values to stdout")
}
