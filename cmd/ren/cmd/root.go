// Package cmd implements Ren's command-line surface (spec.md §6),
// grounded on the teacher's cmd/dwscript/cmd package shape: a shared
// Cobra root command with persistent flags, one subcommand per file.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags (-ldflags "-X ...Version=...").
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ren",
	Short: "Ren language checker, translator, and interpreter",
	Long: `ren is a reference implementation of the Ren language: a lexer
and parser producing a concrete syntax tree, a reducer producing an
abstract syntax tree, a whole-program type checker, a translator
lowering checked programs to a flat instruction stream, and a
stack-machine interpreter.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("ren version %%s\nCommit: %s\n", GitCommit))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
