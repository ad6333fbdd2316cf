package instr

import "testing"

func TestOpString(t *testing.T) {
	cases := map[Op]string{
		SetInteger: "SET_INTEGER",
		BinaryOp:   "BINARY_OP",
		PopFrame:   "POP_FRAME",
		Noop:       "NOOP",
	}
	for op, want := range cases {
		if got := op.String(); got != want {
			t.Errorf("Op(%d).String() = %q, want %q", op, got, want)
		}
	}
}

func TestOpStringUnknown(t *testing.T) {
	if got := Op(9999).String(); got != "UNKNOWN" {
		t.Errorf("Op(9999).String() = %q, want UNKNOWN", got)
	}
}

func TestIntrinsicString(t *testing.T) {
	if got := IntrinsicArrayLength.String(); got != "array-length" {
		t.Errorf("IntrinsicArrayLength.String() = %q", got)
	}
}
