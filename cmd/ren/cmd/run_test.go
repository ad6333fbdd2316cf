package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

func TestRunModuleExitCode(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "main.ren", `func int main(string[] args) => 42`)

	oldExit, oldMax := programExitCode, maxStackDepth
	defer func() { programExitCode, maxStackDepth = oldExit, oldMax }()
	maxStackDepth = 4096

	if err := runModule(runCmd, []string{path}); err != nil {
		t.Fatalf("runModule error: %v", err)
	}
	if ExitCode() != 42 {
		t.Fatalf("ExitCode() = %d, want 42", ExitCode())
	}
}

func TestRunModuleFunctionCall(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "main.ren", `func int main(string[] args) => add(2, 3)
func int add(int a, int b) => a + b`)

	oldExit, oldMax := programExitCode, maxStackDepth
	defer func() { programExitCode, maxStackDepth = oldExit, oldMax }()
	maxStackDepth = 4096

	if err := runModule(runCmd, []string{filepath.Join(dir, "main.ren")}); err != nil {
		t.Fatalf("runModule error: %v", err)
	}
	if ExitCode() != 5 {
		t.Fatalf("ExitCode() = %d, want 5", ExitCode())
	}
}

func TestRunModuleTypeCheckFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "main.ren", `func int main(string[] args) => true`)

	err := runModule(runCmd, []string{path})
	if err == nil {
		t.Fatal("expected a type-check error, got nil")
	}
}

func TestRunModuleRequiresAtLeastOnePath(t *testing.T) {
	if err := runCmd.Args(runCmd, nil); err == nil {
		t.Fatal("expected Args validation to reject zero arguments")
	}
}
