package checker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/jchitel/renlang-sub002/internal/types"
)

// stringResolver resolves every ref to a canned source string keyed by
// path, avoiding filesystem access in unit tests.
type stringResolver struct {
	sources map[string]string
}

func (r *stringResolver) Resolve(fromPath, ref string) (string, string, error) {
	if src, ok := r.sources[ref]; ok {
		return ref, src, nil
	}
	return "", "", fmt.Errorf("no such module %q", ref)
}

func checkSource(t *testing.T, src string) (*Module, *Checker, error) {
	t.Helper()
	r := &stringResolver{sources: map[string]string{"entry": src}}
	c := New(r)
	mod, err := c.Check("entry")
	return mod, c, err
}

func TestCheckSimpleAddFunction(t *testing.T) {
	mod, c, err := checkSource(t, `
func int add(int a, int b) => a + b
func int main(string[] args) => add(2, 3)
`)
	if err != nil {
		t.Fatalf("unexpected check error: %v (diags: %v)", err, c.Diags)
	}
	main := mod.Functions["main"]
	if c.Arena.Get(main.ResolvedType).Kind != types.KindFunction {
		t.Fatalf("expected main to resolve a function type")
	}
}

func TestCheckReturnTypeMismatchReportsScenario7(t *testing.T) {
	_, _, err := checkSource(t, `func int main(string[] args) => true`)
	if err == nil {
		t.Fatalf("expected a type-mismatch diagnostic")
	}
	if !strings.Contains(err.Error(), `Type "bool" is not assignable to type "signed 32-bit integer"`) {
		t.Fatalf("unexpected diagnostic: %v", err)
	}
}

func TestCheckUndefinedValueReportsDiagnostic(t *testing.T) {
	_, c, err := checkSource(t, `func int main(string[] args) => missing`)
	if err == nil {
		t.Fatalf("expected an undefined-value diagnostic")
	}
	if !strings.Contains(c.Diags[0].Message, `Value "missing" is not defined`) {
		t.Fatalf("unexpected diagnostic: %v", c.Diags[0].Message)
	}
}

func TestCheckLoopControlOutOfRange(t *testing.T) {
	_, c, _ := checkSource(t, `
func int main(string[] args) => {
	break 0
	return 0
}
`)
	found := false
	for _, d := range c.Diags {
		if strings.Contains(d.Message, "break/continue depth") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a break-outside-loop diagnostic, got %v", c.Diags)
	}
}

func TestCheckTypeAliasAndStructWidthSubtyping(t *testing.T) {
	_, c, err := checkSource(t, `
type Point = { int x; int y; int z }
func Point origin() => { x: 0, y: 0, z: 0 }
`)
	if err != nil {
		t.Fatalf("unexpected check error: %v (diags: %v)", err, c.Diags)
	}
}

// A lambda argument with unannotated parameters must have those
// parameters unified against the callee's expected parameter type
// before its body is checked (spec.md §4.3) — the body here applies
// `+` to `y`, which only type-checks once `y`'s inferred slot has
// resolved to `int`.
func TestCheckLambdaArgInfersUnannotatedParamFromNonGenericCallee(t *testing.T) {
	_, c, err := checkSource(t, `
func int applyInt((int) => int f, int x) => f(x)
func int main(string[] args) => applyInt((y) => y + 1, 5)
`)
	if err != nil {
		t.Fatalf("unexpected check error: %v (diags: %v)", err, c.Diags)
	}
}

// Same shape, but through the implicit-generic call form: the lambda's
// parameter type isn't known until InferTypeArgs/Specify resolve T, so
// the body check has to happen after that, not during the call's
// argument-type pass.
func TestCheckLambdaArgInfersUnannotatedParamFromImplicitGenericCallee(t *testing.T) {
	_, c, err := checkSource(t, `
func U apply<T, U>((T) => U f, T x) => f(x)
func int main(string[] args) => apply((y) => y + 1, 5)
`)
	if err != nil {
		t.Fatalf("unexpected check error: %v (diags: %v)", err, c.Diags)
	}
}

// A lambda with unannotated parameters that isn't a call argument at
// all (typeOfLambda's expected=nil path) must still type-check when
// its body doesn't depend on the parameter's type, and must still
// leave that parameter callable as a plain value afterward.
func TestCheckBareLambdaWithUnannotatedParam(t *testing.T) {
	_, c, err := checkSource(t, `
func int main(string[] args) => {
	let f = (y) => y
	return f(3)
}
`)
	if err != nil {
		t.Fatalf("unexpected check error: %v (diags: %v)", err, c.Diags)
	}
}
