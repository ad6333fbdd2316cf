package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jchitel/renlang-sub002/internal/checker"
	"github.com/jchitel/renlang-sub002/internal/resolver"
	"github.com/jchitel/renlang-sub002/internal/translator"
	"github.com/jchitel/renlang-sub002/internal/vm"
	"github.com/spf13/cobra"
)

var maxStackDepth int

// programExitCode is the interpreted program's own exit code from the
// most recent successful run subcommand. Execute itself never calls
// os.Exit — that stays main's job — so the run command can be invoked
// and its return value checked directly from tests.
var programExitCode int

// ExitCode reports the exit code of the program the run subcommand
// most recently interpreted. main reads it once Execute returns nil.
func ExitCode() int { return programExitCode }

var runCmd = &cobra.Command{
	Use:   "run <module-path> [args...]",
	Short: "Check, translate, and interpret a Ren program",
	Long: `Load the module at module-path, type-check the whole program it
transitively imports, translate it to a flat instruction stream, and
interpret it, passing the remaining arguments to main.

The process exit code is the interpreted program's: 0 for an
empty-tuple return, the returned integer otherwise, and non-zero on an
uncaught exception (spec.md §4.5/§6).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runModule,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&maxStackDepth, "max-stack-depth", vm.DefaultMaxStackDepth, "maximum nested function-call depth before an uncatchable stack overflow")
}

func runModule(_ *cobra.Command, args []string) error {
	path := args[0]
	programArgs := args[1:]

	r := resolver.NewFSResolver(filepath.Dir(path))
	c := checker.New(r)

	mod, err := c.Check(path)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "checked %d module(s)\n", len(c.Modules()))
	}

	prog, err := translator.New(c).Translate(mod)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "translated %d function(s)\n", len(prog.Functions))
	}

	it := vm.New(prog, c.Arena)
	it.SetMaxStackDepth(maxStackDepth)

	code, err := it.Run(programArgs)
	if err != nil {
		return err
	}
	programExitCode = code
	return nil
}
