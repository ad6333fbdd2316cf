package translator

import (
	"fmt"
	"testing"

	"github.com/jchitel/renlang-sub002/internal/checker"
	"github.com/jchitel/renlang-sub002/internal/instr"
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

func translateSource(t *testing.T, src string) (*Program, error) {
	t.Helper()
	r := &stringResolver{sources: map[string]string{"entry": src}}
	c := checker.New(r)
	mod, err := c.Check("entry")
	if err != nil {
		t.Fatalf("unexpected check error: %v (diags: %v)", err, c.Diags)
	}
	return New(c).Translate(mod)
}

func TestTranslateSimpleAddFunction(t *testing.T) {
	prog, err := translateSource(t, `
func int add(int a, int b) => a + b
func int main(string[] args) => add(2, 3)
`)
	if err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 translated functions (main, add), got %d", len(prog.Functions))
	}
	var main *Function
	for _, f := range prog.Functions {
		if f.ID == prog.Main {
			main = f
		}
	}
	if main == nil {
		t.Fatalf("could not find main function in translated program")
	}
	foundCall := false
	for _, ins := range main.Instructions {
		if ins.Op == instr.Call {
			foundCall = true
		}
	}
	if !foundCall {
		t.Fatalf("expected main's instructions to contain a Call to add")
	}
}

func TestTranslateWhileLoopEmitsLoopFrame(t *testing.T) {
	prog, err := translateSource(t, `
func int main(string[] args) => {
	let i = 0
	while (i < 3) {
		break
	}
	return i
}
`)
	if err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
	var main *Function
	for _, f := range prog.Functions {
		if f.ID == prog.Main {
			main = f
		}
	}
	found := false
	for _, ins := range main.Instructions {
		if ins.Op == instr.PushLoopFrame {
			found = true
			if ins.End <= ins.Start {
				t.Fatalf("loop frame end (%d) should be after start (%d)", ins.End, ins.Start)
			}
		}
	}
	if !found {
		t.Fatalf("expected a PushLoopFrame instruction")
	}
}

// A catch clause whose try has a finally must emit one extra PopFrame
// after the catch body, to balance the finally-guard frame propagate
// re-pushes at runtime when that catch matches (vm_control.go).
func TestTranslateCatchWithFinallyEmitsGuardPopFrame(t *testing.T) {
	prog, err := translateSource(t, `
func int main(string[] args) => {
	try {
		throw "x"
	} catch (string s) {
		return 9
	} finally {
		return 8
	}
}
`)
	if err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
	var main *Function
	for _, f := range prog.Functions {
		if f.ID == prog.Main {
			main = f
		}
	}
	if main == nil {
		t.Fatalf("could not find main function in translated program")
	}

	var tryIns *instr.Instruction
	for i := range main.Instructions {
		if main.Instructions[i].Op == instr.PushTryFrame {
			tryIns = &main.Instructions[i]
			break
		}
	}
	if tryIns == nil {
		t.Fatalf("expected a PushTryFrame instruction")
	}
	if tryIns.Finally == nil {
		t.Fatalf("expected the try frame to carry a Finally range")
	}
	if len(tryIns.Catches) != 1 {
		t.Fatalf("expected exactly 1 catch, got %d", len(tryIns.Catches))
	}

	// Between the catch's start and the finally's start, the catch
	// contributes three PopFrame instructions: the block body's own
	// scope, the catch-parameter scope, and the finally guard.
	popCount := 0
	for ic := tryIns.Catches[0].Start; ic < tryIns.Finally.Start; ic++ {
		if main.Instructions[ic].Op == instr.PopFrame {
			popCount++
		}
	}
	if popCount != 3 {
		t.Fatalf("expected 3 PopFrame instructions between catch start and finally start, got %d", popCount)
	}
}

func TestTranslateConstantInlinesGuard(t *testing.T) {
	prog, err := translateSource(t, `
const answer = 42
func int main(string[] args) => answer
`)
	if err != nil {
		t.Fatalf("unexpected translate error: %v", err)
	}
	var main *Function
	for _, f := range prog.Functions {
		if f.ID == prog.Main {
			main = f
		}
	}
	hasBranch, hasSet, hasRef := false, false, false
	for _, ins := range main.Instructions {
		switch ins.Op {
		case instr.ConstBranch:
			hasBranch = true
		case instr.ConstSet:
			hasSet = true
		case instr.ConstRef:
			hasRef = true
		}
	}
	if !hasBranch || !hasSet || !hasRef {
		t.Fatalf("expected const-branch/const-set/const-ref guard sequence, got branch=%v set=%v ref=%v", hasBranch, hasSet, hasRef)
	}
}

func TestTranslateRejectsBadMainSignature(t *testing.T) {
	_, err := translateSource(t, `func bool main(int x) => true`)
	if err == nil {
		t.Fatalf("expected an error for a malformed main signature")
	}
}
