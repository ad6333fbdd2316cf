// Package types implements Ren's type system: a closed family of type
// variants, the assignability relation, and the generic
// specify/infer operations. Every operation here is pure and has no
// dependency on any other package in this module (spec.md §4.1).
package types

import "fmt"

// Kind tags which variant a Type value holds.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindChar
	KindBool
	KindTuple
	KindStruct
	KindArray
	KindFunction
	KindUnion
	KindAny
	KindNever
	KindUnknown
	KindRecursive
	KindInferred
	KindTypeParameter
	KindGenericInstance
)

// Variance of a generic function type parameter.
type Variance int

const (
	Invariant Variance = iota
	Covariant
	Contravariant
)

// TypeID is an arena handle: the only way other packages refer to a
// Type. Recursive and inferred variants are mutated in place through
// their handle exactly once (spec.md §9's arena-and-handles strategy
// for cyclic type graphs).
type TypeID int

// StructField is one named member of a struct type. Field order does
// not matter for assignability (spec.md §3).
type StructField struct {
	Name string
	Type TypeID
}

// TypeParam describes one generic parameter of a function type.
type TypeParam struct {
	Name       string
	Variance   Variance
	Constraint TypeID // Invalid if unconstrained
}

// Type is the full closed-variant payload. Only the fields relevant to
// Kind are meaningful; this mirrors a tagged union via a single struct
// rather than an interface hierarchy (spec.md §9).
type Type struct {
	Kind Kind

	// KindInteger
	IntBits     int // 8, 16, 32, 64, or 0 for unbounded
	IntSigned   bool

	// KindFloat
	FloatBits int // 32 or 64

	// KindTuple
	Elems []TypeID

	// KindStruct
	Fields []StructField

	// KindArray
	Elem TypeID

	// KindFunction
	Params     []TypeID
	Return     TypeID
	TypeParams []TypeParam

	// KindUnion
	Members []TypeID

	// KindRecursive: Target is filled in once the named type finishes resolving.
	Target TypeID

	// KindInferred: Resolved is Invalid until the slot unifies exactly once.
	Resolved TypeID

	// KindTypeParameter
	ParamName  string
	ParamVar   Variance
	ParamCons  TypeID

	// KindGenericInstance
	Generic TypeID
	Args    []TypeID

	// Name is an optional display name (type aliases, recursive back-refs).
	Name string
}

// Invalid is the zero TypeID; no valid type is ever allocated at it.
const Invalid TypeID = 0

// Well-known bit widths.
const (
	Bits8  = 8
	Bits16 = 16
	Bits32 = 32
	Bits64 = 64
	BitsUnbounded = 0
)

func (t *Type) String() string {
	switch t.Kind {
	case KindInteger:
		sign := "signed"
		if !t.IntSigned {
			sign = "unsigned"
		}
		if t.IntBits == BitsUnbounded {
			return "unbounded " + sign + " integer"
		}
		return fmt.Sprintf("%s %d-bit integer", sign, t.IntBits)
	case KindFloat:
		return fmt.Sprintf("%d-bit float", t.FloatBits)
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindAny:
		return "any"
	case KindNever:
		return "never"
	case KindUnknown:
		return "unknown"
	case KindInferred:
		return "inferred"
	case KindTypeParameter:
		return t.ParamName
	default:
		if t.Name != "" {
			return t.Name
		}
		return fmt.Sprintf("<%v>", t.Kind)
	}
}
