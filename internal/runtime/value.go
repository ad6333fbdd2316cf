// Package runtime defines the tagged runtime values and frame variants
// the interpreter (internal/vm) operates on (spec.md §3/§4.5). Values
// follow the closed-tagged-variant shape used throughout this module
// (internal/ast, internal/types, internal/instr) rather than the
// teacher's interface{}-backed Value (internal/bytecode/bytecode.go's
// `Value{Data interface{}, Type ValueType}`): Ren's value set is fixed
// by spec.md §2 ("integer, float, char, bool, array, tuple, struct,
// function-handle") with no host-extensible variant like the teacher's
// ValueObject/ValueRecord/ValueVariant, so a closed struct with a Kind
// tag is the more faithful representation.
package runtime

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/jchitel/renlang-sub002/internal/instr"
)

// Kind tags a Value's active variant.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindChar
	KindBool
	KindArray
	KindTuple
	KindStruct
	KindFunction
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindChar:
		return "char"
	case KindBool:
		return "bool"
	case KindArray:
		return "array"
	case KindTuple:
		return "tuple"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	default:
		return "unknown"
	}
}

// Value is a single runtime value. Arrays/tuples/structs hold *Value
// elements so that mutate-ref can overwrite an element in place and
// have every alias observe the change (spec.md §5: "entries once
// assigned are immutable except via explicit mutate-ref/copy-ref").
type Value struct {
	Kind Kind

	Int   *big.Int // integer (spec.md's "unbounded" top of the integer lattice needs arbitrary precision)
	Float float64
	Char  rune
	Bool  bool

	Elems  []*Value // array/tuple elements, in order
	Fields map[string]*Value // struct fields
	FieldOrder []string // struct field insertion order, for display only (spec.md §3: struct field order is otherwise irrelevant)

	Func instr.FuncID // function-handle
}

func Integer(i int64) *Value  { return &Value{Kind: KindInteger, Int: big.NewInt(i)} }
func IntegerBig(i *big.Int) *Value { return &Value{Kind: KindInteger, Int: i} }
func Float(f float64) *Value  { return &Value{Kind: KindFloat, Float: f} }
func Char(c rune) *Value      { return &Value{Kind: KindChar, Char: c} }
func Bool(b bool) *Value      { return &Value{Kind: KindBool, Bool: b} }
func Function(id instr.FuncID) *Value { return &Value{Kind: KindFunction, Func: id} }

func Array(elems []*Value) *Value { return &Value{Kind: KindArray, Elems: elems} }
func Tuple(elems []*Value) *Value { return &Value{Kind: KindTuple, Elems: elems} }

// EmptyTuple is the zero-arity tuple Ren uses as its "void" value
// (spec.md §6: "void (= empty tuple)").
func EmptyTuple() *Value { return Tuple(nil) }

func Struct(order []string, fields map[string]*Value) *Value {
	return &Value{Kind: KindStruct, Fields: fields, FieldOrder: order}
}

// String constructs a Ren string, which is array-of-char per spec.md
// §6 ("string (= char[])") — there is no distinct string Kind.
func String(s string) *Value {
	runes := []rune(s)
	elems := make([]*Value, len(runes))
	for i, r := range runes {
		elems[i] = Char(r)
	}
	return Array(elems)
}

// GoString renders a Ren string value back to a Go string, for CLI
// argument marshaling and error formatting.
func (v *Value) GoString() (string, bool) {
	if v.Kind != KindArray {
		return "", false
	}
	var b strings.Builder
	for _, el := range v.Elems {
		if el.Kind != KindChar {
			return "", false
		}
		b.WriteRune(el.Char)
	}
	return b.String(), true
}

// String renders a Value for diagnostics and uncaught-exception
// reporting (spec.md §4.5 "print the error's string form").
func (v *Value) String() string {
	switch v.Kind {
	case KindInteger:
		return v.Int.String()
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindChar:
		return string(v.Char)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindArray:
		if s, ok := v.GoString(); ok {
			return s
		}
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = el.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindTuple:
		parts := make([]string, len(v.Elems))
		for i, el := range v.Elems {
			parts[i] = el.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindStruct:
		parts := make([]string, len(v.FieldOrder))
		for i, name := range v.FieldOrder {
			parts[i] = name + ": " + v.Fields[name].String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindFunction:
		return fmt.Sprintf("<function #%d>", v.Func)
	default:
		return "<unknown>"
	}
}

// Clone produces a shallow copy of v suitable for copy-ref, which must
// not let the destination alias the source's mutable element slices
// (spec.md §3: copy-ref is distinct from mutate-ref precisely because
// it does not alias).
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	clone := *v
	if v.Elems != nil {
		clone.Elems = append([]*Value(nil), v.Elems...)
	}
	if v.Fields != nil {
		clone.Fields = make(map[string]*Value, len(v.Fields))
		for k, f := range v.Fields {
			clone.Fields[k] = f
		}
		clone.FieldOrder = append([]string(nil), v.FieldOrder...)
	}
	return &clone
}
