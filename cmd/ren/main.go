// Command ren is the Ren language CLI: type-checks, translates, and
// interprets Ren programs (spec.md §6).
package main

import (
	"fmt"
	"os"

	"github.com/jchitel/renlang-sub002/cmd/ren/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(cmd.ExitCode())
}
