// Copyright © 2021 The ELPS authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/mal/lisp"
	"github.com/luthersystems/mal/parser"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
)

// docWidth is the column documentation text is wrapped at.
const docWidth = 72

// DocCommand returns a command that renders documentation for special
// forms and functions.
func DocCommand(opts ...Option) *cobra.Command {
	cfg := newCmdConfig(opts...)
	var (
		sourceFiles []string
		list        bool
	)
	cmd := &cobra.Command{
		Use:   "doc [flags] [QUERY ...]",
		Short: "Show documentation for special forms and functions",
		Long: `Show built-in documentation for special forms, builtin functions,
macros and functions defined in lisp.

With no query every documented name is rendered. Use -l to list names
with a one line summary. Use -f to load source files first, which
documents their functions (a string leading a function body of several
forms is its docstring). A source argument ending in /... loads every
.mal file below that directory.

Examples:
  mal doc swap!                    Show docs for the swap! function
  mal doc let* fn*                 Show docs for two special forms
  mal doc -l                       List all documented names
  mal doc -f lib.mal my-func       Load a file, then show docs for my-func`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env := cfg.env
			if env == nil {
				env = lisp.NewEnv(nil)
				err := lisp.InitializeUserEnv(env,
					lisp.WithReader(parser.NewReader()),
					lisp.WithStdout(io.Discard),
					lisp.WithStderr(io.Discard),
				)
				if err != nil {
					return err
				}
			}
			if err := loadSources(env, sourceFiles); err != nil {
				return err
			}
			out := bufio.NewWriter(cmd.OutOrStdout())
			defer out.Flush() //nolint:errcheck // best-effort flush on exit
			if list {
				return renderDocList(out, env.Docs())
			}
			if len(args) == 0 {
				return renderDocs(out, env.Docs())
			}
			var docs []*lisp.Doc
			for _, name := range args {
				d, ok := env.Doc(name)
				if !ok {
					return fmt.Errorf("no documentation: %q", name)
				}
				docs = append(docs, d)
			}
			return renderDocs(out, docs)
		},
	}
	cmd.Flags().StringSliceVarP(&sourceFiles, "source-file", "f", nil,
		"Evaluate lisp source files before querying documentation.")
	cmd.Flags().BoolVarP(&list, "list", "l", false,
		"List documented names with the first sentence of their docs.")
	return cmd
}

func loadSources(env *lisp.LEnv, sources []string) error {
	files, err := expandArgs(sources)
	if err != nil {
		return err
	}
	for _, file := range files {
		if _, err := env.LoadFile(file); err != nil {
			return err
		}
	}
	return nil
}

func renderDocs(w io.Writer, docs []*lisp.Doc) error {
	for i, d := range docs {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderDoc(w, d); err != nil {
			return fmt.Errorf("%s %s: %w", d.Kind, d.Name, err)
		}
	}
	return nil
}

// renderDoc writes the signature of d followed by its wrapped and indented
// text.
func renderDoc(w io.Writer, d *lisp.Doc) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", d.Kind, signature(d)); err != nil {
		return err
	}
	text := cleanDocstring(d.Text)
	if text == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, text)
	return err
}

func renderDocList(w io.Writer, docs []*lisp.Doc) error {
	for _, d := range docs {
		line := fmt.Sprintf("  %-18s %-13s", d.Name, d.Kind)
		if s := summary(d.Text); s != "" {
			line += " " + s
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// signature renders a call to d with its formal parameters.
func signature(d *lisp.Doc) string {
	params := strings.TrimSuffix(strings.TrimPrefix(d.Formals, "("), ")")
	if params == "" {
		return "(" + d.Name + ")"
	}
	return "(" + d.Name + " " + params + ")"
}

// collapseSpace joins the words of doc with single spaces.
func collapseSpace(doc string) string {
	return strings.Join(strings.Fields(doc), " ")
}

func cleanDocstring(doc string) string {
	doc = collapseSpace(doc)
	if doc == "" {
		return ""
	}
	doc = indent.String(wordwrap.String(doc, docWidth), 2)
	return strings.TrimSuffix(doc, "\n")
}

// summary returns the first sentence of doc.
func summary(doc string) string {
	doc = collapseSpace(doc)
	if i := strings.Index(doc, ". "); i >= 0 {
		return doc[:i+1]
	}
	return doc
}

func init() {
	rootCmd.AddCommand(DocCommand())
}
