package runtime

import "testing"

func TestStringRoundTrip(t *testing.T) {
	v := String("hello")
	s, ok := v.GoString()
	if !ok || s != "hello" {
		t.Fatalf("GoString() = %q, %v; want hello, true", s, ok)
	}
	if v.Kind != KindArray {
		t.Fatalf("expected String() to produce a KindArray value, got %v", v.Kind)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	orig := Array([]*Value{Integer(1), Integer(2)})
	clone := orig.Clone()
	clone.Elems[0] = Integer(99)
	if orig.Elems[0].Int.Int64() != 1 {
		t.Fatalf("mutating clone's Elems slice affected the original")
	}
}

func TestValueStringFormsMatchKind(t *testing.T) {
	cases := []struct {
		v    *Value
		want string
	}{
		{Integer(42), "42"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Char('x'), "x"},
		{EmptyTuple(), "()"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestStructFieldOrderPreserved(t *testing.T) {
	s := Struct([]string{"b", "a"}, map[string]*Value{"a": Integer(1), "b": Integer(2)})
	want := "{b: 2, a: 1}"
	if got := s.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
