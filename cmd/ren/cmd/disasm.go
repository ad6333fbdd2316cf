package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jchitel/renlang-sub002/internal/checker"
	"github.com/jchitel/renlang-sub002/internal/instr"
	"github.com/jchitel/renlang-sub002/internal/resolver"
	"github.com/jchitel/renlang-sub002/internal/translator"
	"github.com/spf13/cobra"
)

var disasmCmd = &cobra.Command{
	Use:   "disasm <module-path>",
	Short: "Check and translate a Ren program, printing its instruction streams",
	Long: `Load and type-check module-path, translate it, and print the
resulting instruction stream for every reachable function — useful for
inspecting how the translator lowered control flow, exceptions, and
constant initialization (spec.md §4.4).`,
	Args: cobra.ExactArgs(1),
	RunE: disasmModule,
}

func init() {
	rootCmd.AddCommand(disasmCmd)
}

func disasmModule(_ *cobra.Command, args []string) error {
	path := args[0]

	r := resolver.NewFSResolver(filepath.Dir(path))
	c := checker.New(r)

	mod, err := c.Check(path)
	if err != nil {
		return err
	}

	prog, err := translator.New(c).Translate(mod)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	for _, fn := range prog.Functions {
		instr.Disassemble(os.Stdout, fmt.Sprintf("%s (#%d)", fn.Name, fn.ID), fn.Instructions)
		fmt.Println()
	}
	return nil
}
