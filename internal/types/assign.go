package types

// IsAssignableFrom reports whether a value of type `from` may be used
// where `to` is required: `to ⊒ from` (spec.md §4.1). The name follows
// the teacher's IsAssignableFrom/IsCompatible convention
// (internal/semantic/analyze_types.go, internal/interp/array.go).
func (a *Arena) IsAssignableFrom(to, from TypeID) bool {
	return a.assignable(to, from, map[pairKey]bool{})
}

type pairKey struct{ to, from TypeID }

func (a *Arena) assignable(to, from TypeID, inProgress map[pairKey]bool) bool {
	to = a.resolveOneLevel(to)
	from = a.resolveOneLevel(from)

	key := pairKey{to, from}
	if inProgress[key] {
		// Cyclic recursive-type pair: treat re-entry as assignable
		// (spec.md §4.1's cycle-detection rule for recursive types).
		return true
	}

	tt, ft := a.Get(to), a.Get(from)

	// unknown propagates: an operand that is unknown makes the whole
	// relation trivially hold so callers don't cascade more errors.
	if tt.Kind == KindUnknown || ft.Kind == KindUnknown {
		return true
	}

	// any ⊒ T for all T.
	if tt.Kind == KindAny {
		return true
	}
	// T ⊒ never for all T.
	if ft.Kind == KindNever {
		return true
	}
	// Reflexivity for identical handles (covers primitives, which are interned).
	if to == from {
		return true
	}

	inProgress[key] = true
	defer delete(inProgress, key)

	switch tt.Kind {
	case KindInteger:
		if ft.Kind != KindInteger {
			return false
		}
		return integerAssignable(tt, ft)
	case KindFloat:
		if ft.Kind != KindFloat {
			return false
		}
		return ft.FloatBits <= tt.FloatBits
	case KindChar:
		return ft.Kind == KindChar
	case KindBool:
		return ft.Kind == KindBool
	case KindTuple:
		if ft.Kind != KindTuple || len(ft.Elems) != len(tt.Elems) {
			return false
		}
		for i := range tt.Elems {
			if !a.assignable(tt.Elems[i], ft.Elems[i], inProgress) {
				return false
			}
		}
		return true
	case KindStruct:
		if ft.Kind != KindStruct {
			return false
		}
		for _, tf := range tt.Fields {
			found := false
			for _, ff := range ft.Fields {
				if ff.Name == tf.Name {
					if !a.assignable(tf.Type, ff.Type, inProgress) {
						return false
					}
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
		return true
	case KindArray:
		if ft.Kind != KindArray {
			return false
		}
		return a.assignable(tt.Elem, ft.Elem, inProgress)
	case KindFunction:
		if ft.Kind != KindFunction {
			return false
		}
		return a.functionAssignable(tt, ft, inProgress)
	case KindUnion:
		return a.unionAssignableFrom(tt, from, ft, inProgress)
	case KindGenericInstance:
		if ft.Kind != KindGenericInstance || tt.Generic != ft.Generic || len(tt.Args) != len(ft.Args) {
			return false
		}
		for i := range tt.Args {
			if !a.assignable(tt.Args[i], ft.Args[i], inProgress) {
				return false
			}
		}
		return true
	case KindTypeParameter:
		return to == from
	default:
		return false
	}
}

// resolveOneLevel follows KindRecursive/resolved-KindInferred handles
// so assignability operates on the underlying shape, without losing
// cycle information (the caller's inProgress set still keys on the
// original handles via Deref's idempotence).
func (a *Arena) resolveOneLevel(id TypeID) TypeID {
	return a.Deref(id)
}

func integerAssignable(to, from *Type) bool {
	if !from.IntSigned && to.IntSigned {
		// unsigned -> signed: only allowed if strictly widening.
		return sizeOf(from.IntBits) < sizeOf(to.IntBits)
	}
	if from.IntSigned && !to.IntSigned {
		return false
	}
	if sizeOf(from.IntBits) > sizeOf(to.IntBits) {
		return false
	}
	if sizeOf(from.IntBits) == sizeOf(to.IntBits) {
		// Same size: refuse unsigned -> signed (already excluded above)
		// and signed -> unsigned.
		if from.IntSigned != to.IntSigned {
			return false
		}
	}
	return true
}

// sizeOf orders bit widths with unbounded (0) as the top of the lattice.
func sizeOf(bits int) int {
	if bits == BitsUnbounded {
		return 1 << 30
	}
	return bits
}

func (a *Arena) functionAssignable(to, from *Type, inProgress map[pairKey]bool) bool {
	if len(from.Params) > len(to.Params) {
		return false
	}
	for i := range from.Params {
		// contravariance: from's declared param type must accept to's.
		if !a.assignable(from.Params[i], to.Params[i], inProgress) {
			return false
		}
	}
	// covariance: to's return type must accept from's.
	return a.assignable(to.Return, from.Return, inProgress)
}

func (a *Arena) unionAssignableFrom(to *Type, fromID TypeID, from *Type, inProgress map[pairKey]bool) bool {
	var fromMembers []TypeID
	if from.Kind == KindUnion {
		fromMembers = from.Members
	} else {
		fromMembers = []TypeID{fromID}
	}
	for _, fm := range fromMembers {
		ok := false
		for _, tm := range to.Members {
			if a.assignable(tm, fm, inProgress) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// MostGeneral returns the most general common type of a and b per
// spec.md §4.1: a if a ⊒ b, else b if b ⊒ a, else any.
func (a *Arena) MostGeneral(x, y TypeID) TypeID {
	if a.IsAssignableFrom(x, y) {
		return x
	}
	if a.IsAssignableFrom(y, x) {
		return y
	}
	return a.Any()
}
