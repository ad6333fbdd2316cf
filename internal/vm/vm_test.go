package vm

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/jchitel/renlang-sub002/internal/checker"
	"github.com/jchitel/renlang-sub002/internal/translator"
)

type stringResolver struct {
	sources map[string]string
}

func (r *stringResolver) Resolve(fromPath, ref string) (string, string, error) {
	if src, ok := r.sources[ref]; ok {
		return ref, src, nil
	}
	return "", "", fmt.Errorf("no such module %q", ref)
}

func runSource(t *testing.T, src string, argv []string) (int, string) {
	t.Helper()
	r := &stringResolver{sources: map[string]string{"entry": src}}
	c := checker.New(r)
	mod, err := c.Check("entry")
	if err != nil {
		t.Fatalf("check error: %v (diags: %v)", err, c.Diags)
	}
	prog, err := translator.New(c).Translate(mod)
	if err != nil {
		t.Fatalf("translate error: %v", err)
	}
	it := New(prog, c.Arena)
	var stderr bytes.Buffer
	it.SetOutput(&stderr, &stderr)
	code, err := it.Run(argv)
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	return code, stderr.String()
}

func TestRunArithmeticExitCode(t *testing.T) {
	code, _ := runSource(t, `func int main(string[] args) => 2 + 3`, nil)
	if code != 5 {
		t.Fatalf("exit code = %d, want 5", code)
	}
}

func TestRunReturnsEmptyTupleAsZero(t *testing.T) {
	code, _ := runSource(t, `
func void main(string[] args) => {
	return
}
`, nil)
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
}

func TestRunFunctionCall(t *testing.T) {
	code, _ := runSource(t, `
func int add(int a, int b) => a + b
func int main(string[] args) => add(10, 32)
`, nil)
	if code != 42 {
		t.Fatalf("exit code = %d, want 42", code)
	}
}

func TestRunWhileLoopWithBreak(t *testing.T) {
	code, _ := runSource(t, `
func int main(string[] args) => {
	while (true) {
		break
	}
	return 7
}
`, nil)
	if code != 7 {
		t.Fatalf("exit code = %d, want 7", code)
	}
}

func TestRunUncaughtThrowExitsNonZero(t *testing.T) {
	code, stderr := runSource(t, `
func int main(string[] args) => {
	throw 1
}
`, nil)
	if code == 0 {
		t.Fatalf("expected non-zero exit code for an uncaught throw")
	}
	if stderr == "" {
		t.Fatalf("expected an uncaught-exception message on stderr")
	}
}

func TestRunFinallyOverridesCatchReturn(t *testing.T) {
	code, _ := runSource(t, `
func int main(string[] args) => {
	try {
		throw "x"
	} catch (string s) {
		return 9
	} finally {
		return 8
	}
}
`, nil)
	if code != 8 {
		t.Fatalf("exit code = %d, want 8 (finally's return must override the catch's)", code)
	}
}

func TestRunFinallyRunsOnTryBodyReturn(t *testing.T) {
	code, _ := runSource(t, `
func int main(string[] args) => {
	try {
		return 9
	} finally {
		return 8
	}
}
`, nil)
	if code != 8 {
		t.Fatalf("exit code = %d, want 8 (finally's return must override a return from the try body too)", code)
	}
}

func TestRunFinallyDoesNotOverrideWhenItCompletesNormally(t *testing.T) {
	code, _ := runSource(t, `
func int main(string[] args) => {
	try {
		throw "x"
	} catch (string s) {
		return 9
	} finally {
	}
}
`, nil)
	if code != 9 {
		t.Fatalf("exit code = %d, want 9 (a finally with no exit of its own must not swallow the catch's return)", code)
	}
}

func TestRunTryCatchRecovers(t *testing.T) {
	code, _ := runSource(t, `
func int main(string[] args) => {
	try {
		throw 1
	} catch (int e) {
		return 9
	}
	return 0
}
`, nil)
	if code != 9 {
		t.Fatalf("exit code = %d, want 9", code)
	}
}
