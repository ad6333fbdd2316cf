package types

import "testing"

func TestIntegerAssignability(t *testing.T) {
	a := NewArena()

	cases := []struct {
		name       string
		toBits     int
		toSigned   bool
		fromBits   int
		fromSigned bool
		want       bool
	}{
		{"widen signed", Bits32, true, Bits16, true, true},
		{"widen unsigned", Bits32, false, Bits16, false, true},
		{"narrow signed", Bits16, true, Bits32, true, false},
		{"unsigned widens into signed", Bits32, true, Bits16, false, true},
		{"signed same size into unsigned", Bits32, false, Bits32, true, false},
		{"unsigned same size into signed", Bits32, true, Bits32, false, false},
		{"unbounded accepts any signed width", BitsUnbounded, true, Bits64, true, true},
		{"fixed width does not accept unbounded", Bits64, true, BitsUnbounded, true, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			to := a.Integer(c.toBits, c.toSigned)
			from := a.Integer(c.fromBits, c.fromSigned)
			got := a.IsAssignableFrom(to, from)
			if got != c.want {
				t.Errorf("IsAssignableFrom(%v, %v) = %v, want %v", a.Get(to), a.Get(from), got, c.want)
			}
		})
	}
}

func TestUniversalInvariants(t *testing.T) {
	a := NewArena()
	i32 := a.Integer(Bits32, true)
	anyT := a.Any()
	neverT := a.Never()

	if !a.IsAssignableFrom(i32, i32) {
		t.Error("T should be assignable from itself")
	}
	if !a.IsAssignableFrom(anyT, i32) {
		t.Error("any should accept everything")
	}
	if !a.IsAssignableFrom(i32, neverT) {
		t.Error("everything should accept never")
	}
}

func TestStructWidthSubtyping(t *testing.T) {
	a := NewArena()
	i32 := a.Integer(Bits32, true)
	narrow := a.NewStruct([]StructField{{Name: "x", Type: i32}})
	wide := a.NewStruct([]StructField{{Name: "x", Type: i32}, {Name: "y", Type: i32}})

	if !a.IsAssignableFrom(narrow, wide) {
		t.Error("a struct with extra fields should satisfy a narrower requirement")
	}
	if a.IsAssignableFrom(wide, narrow) {
		t.Error("a struct missing a required field should not be assignable")
	}
}

func TestFunctionVarianceAndArity(t *testing.T) {
	a := NewArena()
	i32 := a.Integer(Bits32, true)
	i64 := a.Integer(Bits64, true)

	// to: (i64) -> i32   from: (i32, i32) -> i64
	to := a.NewFunction([]TypeID{i64}, i32, nil)
	from := a.NewFunction([]TypeID{i32, i32}, i64, nil)

	// from takes more parameters than to supplies, its i32 parameter
	// cannot accept to's i64 argument, and its i64 return does not fit
	// to's i32 return: not assignable.
	if a.IsAssignableFrom(to, from) {
		t.Error("from with more parameters, a narrower parameter and a wider return should not be assignable")
	}

	// Reversed: the (i64) -> i32 source has fewer parameters (extras are
	// ignored), its i64 parameter accepts i32 (contravariant) and its
	// i32 return fits i64 (covariant): assignable.
	if !a.IsAssignableFrom(from, to) {
		t.Error("fewer parameters with a contravariant-param/covariant-return match should hold")
	}
}

func TestUnionAssignability(t *testing.T) {
	a := NewArena()
	i32 := a.Integer(Bits32, true)
	ch := a.Char()
	boolT := a.Bool()

	u := a.NewUnion([]TypeID{i32, ch})
	if !a.IsAssignableFrom(u, i32) {
		t.Error("a union should accept each of its members")
	}
	if a.IsAssignableFrom(u, boolT) {
		t.Error("a union should reject a type none of its members accept")
	}

	sub := a.NewUnion([]TypeID{i32})
	if !a.IsAssignableFrom(u, sub) {
		t.Error("a union should accept a subset union")
	}
}

func TestMostGeneral(t *testing.T) {
	a := NewArena()
	i16 := a.Integer(Bits16, true)
	i32 := a.Integer(Bits32, true)
	boolT := a.Bool()

	if got := a.MostGeneral(i16, i32); got != i32 {
		t.Errorf("expected i32 to be more general than i16, got %v", a.Get(got))
	}
	if got := a.MostGeneral(i32, boolT); a.Get(got).Kind != KindAny {
		t.Errorf("expected any for unrelated types, got %v", a.Get(got))
	}
}

func TestInferredSlotUnifiesOnce(t *testing.T) {
	a := NewArena()
	slot := a.NewInferred()
	i32 := a.Integer(Bits32, true)
	i64 := a.Integer(Bits64, true)

	if !a.Unify(slot, i32) {
		t.Fatal("first unification should succeed")
	}
	if !a.Unify(slot, i32) {
		t.Fatal("re-unifying with the same concrete type should succeed")
	}
	// Once fixed to i32, flowing a type i32 does NOT accept (i64 is wider).
	if a.Unify(slot, i64) {
		t.Fatal("unifying a wider type against an already-fixed narrower slot should fail")
	}
}

func TestRecursiveTypeCycleDetection(t *testing.T) {
	a := NewArena()
	rec := a.NewPlaceholder(KindRecursive, "List")
	elemI32 := a.Integer(Bits32, true)
	listStruct := a.NewStruct([]StructField{{Name: "value", Type: elemI32}, {Name: "next", Type: rec}})
	a.SetRecursiveTarget(rec, listStruct)

	if !a.IsAssignableFrom(listStruct, listStruct) {
		t.Fatal("a self-referential recursive struct should be assignable from itself without infinite recursion")
	}
}

func TestGenericSpecifyAndInfer(t *testing.T) {
	a := NewArena()
	tp := a.NewTypeParameter("T", Invariant, Invalid)
	identity := a.NewFunction([]TypeID{tp}, tp, []TypeParam{{Name: "T"}})

	i32 := a.Integer(Bits32, true)
	specified := a.Specify(identity, []TypeID{i32})
	sf := a.Get(specified)
	if sf.Return != i32 || len(sf.Params) != 1 || sf.Params[0] != i32 {
		t.Fatalf("specify did not substitute T -> i32: %+v", sf)
	}

	inferred := a.InferTypeArgs(identity, []TypeID{i32})
	if len(inferred) != 1 || inferred[0] != i32 {
		t.Fatalf("infer did not recover T = i32: %+v", inferred)
	}
}
