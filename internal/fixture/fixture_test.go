// Package fixture runs the reference end-to-end programs (spec.md §8)
// through the full check → translate → interpret pipeline and
// snapshots the result with go-snaps, the way the teacher's
// TestDWScriptFixtures snapshots its own fixture corpus.
package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/jchitel/renlang-sub002/internal/checker"
	"github.com/jchitel/renlang-sub002/internal/instr"
	"github.com/jchitel/renlang-sub002/internal/resolver"
	"github.com/jchitel/renlang-sub002/internal/translator"
	"github.com/jchitel/renlang-sub002/internal/vm"
)

const fixturesDir = "../../testdata/fixtures"

// runFixture drives one .ren file through the whole pipeline and
// renders a single deterministic report: the translated instruction
// streams (so a translator regression shows up as a snapshot diff),
// then either the type-check diagnostics or the exit code and stderr.
func runFixture(t *testing.T, name string, argv []string) string {
	t.Helper()
	path := filepath.Join(fixturesDir, name)

	r := resolver.NewFSResolver(filepath.Dir(path))
	c := checker.New(r)

	mod, err := c.Check(path)
	if err != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "check error: %v\n", err)
		for _, d := range c.Diags {
			fmt.Fprintf(&b, "%s\n", d)
		}
		return b.String()
	}

	prog, err := translator.New(c).Translate(mod)
	if err != nil {
		return fmt.Sprintf("translate error: %v\n", err)
	}

	var b strings.Builder
	for _, fn := range prog.Functions {
		instr.Disassemble(&b, fmt.Sprintf("%s (#%d)", fn.Name, fn.ID), fn.Instructions)
	}

	it := vm.New(prog, c.Arena)
	var stderr bytes.Buffer
	it.SetOutput(&stderr, &stderr)
	code, err := it.Run(argv)
	if err != nil {
		fmt.Fprintf(&b, "run error: %v\n", err)
		return b.String()
	}
	fmt.Fprintf(&b, "exit code: %d\n", code)
	if stderr.Len() > 0 {
		fmt.Fprintf(&b, "stderr:\n%s", stderr.String())
	}
	return b.String()
}

func TestFixtures(t *testing.T) {
	cases := []struct {
		name string
		file string
		argv []string
	}{
		{name: "LiteralReturn", file: "literal_return.ren"},
		{name: "EmptyReturn", file: "empty_return.ren"},
		{name: "FunctionCall", file: "function_call.ren"},
		{name: "IfElse", file: "if_else.ren"},
		{name: "ForLoopEarlyReturn_NoArgs", file: "for_loop_early_return.ren"},
		{name: "ForLoopEarlyReturn_OneArg", file: "for_loop_early_return.ren", argv: []string{"x"}},
		{name: "TryFinallyOverridesCatch", file: "try_finally_overrides_catch.ren"},
		{name: "TypeErrorBoolAsInt", file: "type_error_bool_as_int.ren"},
		{name: "UncaughtThrow", file: "uncaught_throw.ren"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := os.Stat(filepath.Join(fixturesDir, c.file)); err != nil {
				t.Fatalf("fixture %s missing: %v", c.file, err)
			}
			report := runFixture(t, c.file, c.argv)
			snaps.MatchSnapshot(t, c.name, report)
		})
	}
}
