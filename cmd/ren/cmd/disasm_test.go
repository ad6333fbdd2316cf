package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDisasmModulePrintsFunctionNames(t *testing.T) {
	dir := t.TempDir()
	path := writeModule(t, dir, "main.ren", `func int main(string[] args) => 42`)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	oldStdout := os.Stdout
	os.Stdout = w
	runErr := disasmModule(disasmCmd, []string{path})
	w.Close()
	os.Stdout = oldStdout
	if runErr != nil {
		t.Fatalf("disasmModule error: %v", runErr)
	}

	buf := make([]byte, 4096)
	n, _ := r.Read(buf)
	out := string(buf[:n])
	if !strings.Contains(out, "main") {
		t.Fatalf("disassembly output missing function name main:\n%s", out)
	}
}
