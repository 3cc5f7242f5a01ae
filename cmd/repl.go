// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"

	"github.com/luthersystems/mal/repl"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive REPL",
	Long: `Start an interactive read-eval-print loop.

Each line is read, evaluated in a persistent top level environment and the
readable form of the result is printed. A form may span several lines.
Line editing, symbol completion and command history are supported via
readline. Use Ctrl-C to discard the current input and Ctrl-D to exit.

Example REPL session:
  user> (def! square (fn* (x) (* x x)))
  #<function square>
  user> (square 5)
  25
  user> (map square [1 2 3])
  (1 4 9)`,
	Run: func(cmd *cobra.Command, args []string) {
		s := &session{}
		opts := []repl.Option{
			repl.WithConfig(s.configs(os.Stderr)...),
		}
		if hist := viper.GetString(keyHistoryFile); hist != "" {
			opts = append(opts, repl.WithHistoryFile(hist))
		}
		repl.RunRepl(viper.GetString(keyPrompt), opts...)
		if err := s.Close(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
