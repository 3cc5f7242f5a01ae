// Copyright © 2018 The ELPS authors

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/luthersystems/mal/lisp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.  Each key may also be set through an environment
// variable with the MAL_ prefix, e.g. MAL_MAX_STACK_HEIGHT.
const (
	keyPrompt                 = "prompt"
	keyHistoryFile            = "history-file"
	keyMaxMacroExpansionDepth = "max-macro-expansion-depth"
	keyMaxStackHeight         = "max-stack-height"
	keyTrace                  = "trace"
	keyTraceFile              = "trace-file"
	keyTraceDocFilter         = "trace-doc-filter"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mal",
	Short: "mal, a small Lisp interpreter",
	Long: `mal is a small Clojure flavored Lisp interpreter implemented in Go.

Getting started:
  mal run file.mal a b         Run a source file with *ARGV* bound to ("a" "b")
  mal run -e '(+ 1 2)'         Evaluate an expression
  mal repl                     Start an interactive REPL
  mal doc swap!                Show documentation for a function

Language overview:
  Values are integers, floats, strings, symbols, keywords, nil, true,
  false, lists (), vectors [] and hash-maps {}. Only nil and false are
  falsey. Functions are created with (fn* (args) body) and bound with
  (def! name value). Macros are defined with defmacro! and templates are
  written with quasiquote (` + "`" + `), unquote (~) and splice-unquote (~@).

Configuration is read from $HOME/.mal.yaml (or --config) and from MAL_
prefixed environment variables.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mal.yaml)")
	rootCmd.PersistentFlags().String(keyTrace, "none",
		`Trace calls: "none", "otel", "opencensus", "callgrind" or "pprof".`)
	rootCmd.PersistentFlags().String(keyTraceFile, "",
		"Output file for the callgrind and pprof tracers.")
	rootCmd.PersistentFlags().Bool(keyTraceDocFilter, false,
		"Only trace functions whose docstring contains @trace.")
	rootCmd.PersistentFlags().Int(keyMaxStackHeight, lisp.DefaultMaxStackHeight,
		"Maximum depth of nested (non-tail) calls.")
	rootCmd.PersistentFlags().Int(keyMaxMacroExpansionDepth, lisp.DefaultMaxMacroExpansionDepth,
		"Maximum number of successive expansions of a macro call.")
	for _, key := range []string{keyTrace, keyTraceFile, keyTraceDocFilter, keyMaxStackHeight, keyMaxMacroExpansionDepth} {
		_ = viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key))
	}
	viper.SetDefault(keyPrompt, "user> ")
	viper.SetDefault(keyHistoryFile, "")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".mal" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".mal")
	}

	viper.SetEnvPrefix("mal")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
