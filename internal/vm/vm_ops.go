package vm

import (
	"fmt"
	"math/big"

	"github.com/jchitel/renlang-sub002/internal/instr"
	"github.com/jchitel/renlang-sub002/internal/runtime"
)

// applyUnary evaluates a unary-op instruction's UnaryKind (the source
// operator's token text, spec.md §3). Fixed-width wraparound is not
// modeled: every integer is carried at arbitrary precision (Ren's
// "unbounded" integer is the top of the lattice, spec.md §3), and this
// interpreter does not narrow back down to a declared width — a
// simplification recorded in DESIGN.md.
func applyUnary(op string, v *runtime.Value) (*runtime.Value, error) {
	switch op {
	case "-":
		switch v.Kind {
		case runtime.KindInteger:
			return runtime.IntegerBig(new(big.Int).Neg(v.Int)), nil
		case runtime.KindFloat:
			return runtime.Float(-v.Float), nil
		}
	case "!":
		if v.Kind == runtime.KindBool {
			return runtime.Bool(!v.Bool), nil
		}
	case "~":
		if v.Kind == runtime.KindInteger {
			return runtime.IntegerBig(new(big.Int).Not(v.Int)), nil
		}
	}
	return nil, fmt.Errorf("unary operator %q not defined for %s", op, v.Kind)
}

// applyBinary evaluates a binary-op instruction. && and || are
// evaluated eagerly (both operands are already computed by the time
// BinaryOp runs, per the translator's translateExpr, which evaluates
// e.Left and e.Right unconditionally before emitting BinaryOp) — Ren's
// lowering does not short-circuit boolean operators.
func applyBinary(op string, l, r *runtime.Value) (*runtime.Value, error) {
	switch op {
	case "==":
		return runtime.Bool(valueEqual(l, r)), nil
	case "!=":
		return runtime.Bool(!valueEqual(l, r)), nil
	case "&&":
		return runtime.Bool(l.Bool && r.Bool), nil
	case "||":
		return runtime.Bool(l.Bool || r.Bool), nil
	}

	if l.Kind == runtime.KindFloat || r.Kind == runtime.KindFloat {
		lf, rf := asFloat(l), asFloat(r)
		switch op {
		case "+":
			return runtime.Float(lf + rf), nil
		case "-":
			return runtime.Float(lf - rf), nil
		case "*":
			return runtime.Float(lf * rf), nil
		case "/":
			return runtime.Float(lf / rf), nil
		case "<":
			return runtime.Bool(lf < rf), nil
		case "<=":
			return runtime.Bool(lf <= rf), nil
		case ">":
			return runtime.Bool(lf > rf), nil
		case ">=":
			return runtime.Bool(lf >= rf), nil
		}
		return nil, fmt.Errorf("binary operator %q not defined for float", op)
	}

	if l.Kind == runtime.KindInteger && r.Kind == runtime.KindInteger {
		li, ri := l.Int, r.Int
		switch op {
		case "+":
			return runtime.IntegerBig(new(big.Int).Add(li, ri)), nil
		case "-":
			return runtime.IntegerBig(new(big.Int).Sub(li, ri)), nil
		case "*":
			return runtime.IntegerBig(new(big.Int).Mul(li, ri)), nil
		case "/":
			if ri.Sign() == 0 {
				return nil, fmt.Errorf("integer division by zero")
			}
			return runtime.IntegerBig(new(big.Int).Quo(li, ri)), nil
		case "%":
			if ri.Sign() == 0 {
				return nil, fmt.Errorf("integer division by zero")
			}
			return runtime.IntegerBig(new(big.Int).Rem(li, ri)), nil
		case "&":
			return runtime.IntegerBig(new(big.Int).And(li, ri)), nil
		case "|":
			return runtime.IntegerBig(new(big.Int).Or(li, ri)), nil
		case "^":
			return runtime.IntegerBig(new(big.Int).Xor(li, ri)), nil
		case "<<":
			return runtime.IntegerBig(new(big.Int).Lsh(li, uint(ri.Int64()))), nil
		case ">>":
			return runtime.IntegerBig(new(big.Int).Rsh(li, uint(ri.Int64()))), nil
		case "<":
			return runtime.Bool(li.Cmp(ri) < 0), nil
		case "<=":
			return runtime.Bool(li.Cmp(ri) <= 0), nil
		case ">":
			return runtime.Bool(li.Cmp(ri) > 0), nil
		case ">=":
			return runtime.Bool(li.Cmp(ri) >= 0), nil
		}
	}

	if l.Kind == runtime.KindChar && r.Kind == runtime.KindChar {
		switch op {
		case "<":
			return runtime.Bool(l.Char < r.Char), nil
		case "<=":
			return runtime.Bool(l.Char <= r.Char), nil
		case ">":
			return runtime.Bool(l.Char > r.Char), nil
		case ">=":
			return runtime.Bool(l.Char >= r.Char), nil
		}
	}

	return nil, fmt.Errorf("binary operator %q not defined for %s and %s", op, l.Kind, r.Kind)
}

func asFloat(v *runtime.Value) float64 {
	if v.Kind == runtime.KindFloat {
		return v.Float
	}
	f := new(big.Float).SetInt(v.Int)
	out, _ := f.Float64()
	return out
}

// valueEqual is structural equality across every runtime Kind, used
// for ==/!= (spec.md leaves general equality semantics to the
// interpreter; this mirrors the teacher's recursive Value equality in
// internal/bytecode/vm_ops.go).
func valueEqual(a, b *runtime.Value) bool {
	if a.Kind != b.Kind {
		if (a.Kind == runtime.KindInteger || a.Kind == runtime.KindFloat) &&
			(b.Kind == runtime.KindInteger || b.Kind == runtime.KindFloat) {
			return asFloat(a) == asFloat(b)
		}
		return false
	}
	switch a.Kind {
	case runtime.KindInteger:
		return a.Int.Cmp(b.Int) == 0
	case runtime.KindFloat:
		return a.Float == b.Float
	case runtime.KindChar:
		return a.Char == b.Char
	case runtime.KindBool:
		return a.Bool == b.Bool
	case runtime.KindFunction:
		return a.Func == b.Func
	case runtime.KindArray, runtime.KindTuple:
		if len(a.Elems) != len(b.Elems) {
			return false
		}
		for i := range a.Elems {
			if !valueEqual(a.Elems[i], b.Elems[i]) {
				return false
			}
		}
		return true
	case runtime.KindStruct:
		if len(a.Fields) != len(b.Fields) {
			return false
		}
		for k, av := range a.Fields {
			bv, ok := b.Fields[k]
			if !ok || !valueEqual(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// applyIntrinsic evaluates interop-ref's closed combinator set
// (spec.md §4.5: "a small, fixed set of intrinsic opcodes" — no host
// function pointers reach the interpreter).
func (s *execState) applyIntrinsic(kind instr.Intrinsic, elems []instr.RefID) (*runtime.Value, error) {
	args := s.resolveElems(elems)
	switch kind {
	case instr.IntrinsicArrayLength:
		return runtime.Integer(int64(len(args[0].Elems))), nil
	case instr.IntrinsicArrayIndex:
		idx := args[1].Int.Int64()
		if idx < 0 || idx >= int64(len(args[0].Elems)) {
			return nil, fmt.Errorf("array index %d out of bounds (length %d)", idx, len(args[0].Elems))
		}
		return args[0].Elems[idx], nil
	case instr.IntrinsicIntIncrement:
		return runtime.IntegerBig(new(big.Int).Add(args[0].Int, big.NewInt(1))), nil
	case instr.IntrinsicIntLessThan:
		return runtime.Bool(args[0].Int.Cmp(args[1].Int) < 0), nil
	}
	return nil, fmt.Errorf("unknown intrinsic %v", kind)
}
