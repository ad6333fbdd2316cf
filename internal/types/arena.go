package types

// Arena owns every Type value allocated during a compilation; other
// packages exchange TypeID handles rather than pointers, the same
// registry-owns-handles shape the teacher's TypeSystem/ClassRegistry
// use for class and record metadata.
type Arena struct {
	types []Type // index 0 is unused so the zero TypeID means "invalid"

	// Interned primitive singletons, allocated lazily.
	primitives map[string]TypeID
}

// NewArena creates an empty Arena.
func NewArena() *Arena {
	a := &Arena{types: make([]Type, 1), primitives: make(map[string]TypeID)}
	return a
}

func (a *Arena) alloc(t Type) TypeID {
	a.types = append(a.types, t)
	return TypeID(len(a.types) - 1)
}

// Get dereferences a handle. An id past the arena's end panics (index
// out of range); the zero id Invalid does not panic and yields the
// unused slot at index 0.
func (a *Arena) Get(id TypeID) *Type {
	return &a.types[id]
}

// NewPlaceholder allocates an empty KindRecursive or KindInferred cell
// to be filled in later via SetRecursiveTarget (KindRecursive) or
// Unify (KindInferred), per spec.md §9's
// interior-mutable-cell strategy.
func (a *Arena) NewPlaceholder(kind Kind, name string) TypeID {
	return a.alloc(Type{Kind: kind, Name: name})
}

// SetRecursiveTarget fills in a KindRecursive placeholder's target
// exactly once.
func (a *Arena) SetRecursiveTarget(placeholder, target TypeID) {
	a.types[placeholder].Target = target
}

// Unify resolves a KindInferred placeholder to concrete the first time
// it is called; subsequent calls are assignability checks against the
// now-fixed type, matching spec.md §4.1's "first concrete type flowed
// into an inferred slot unifies it permanently" rule.
func (a *Arena) Unify(slot TypeID, concrete TypeID) bool {
	t := &a.types[slot]
	if t.Kind != KindInferred {
		return false
	}
	if t.Resolved == Invalid {
		t.Resolved = concrete
		return true
	}
	return a.IsAssignableFrom(t.Resolved, concrete)
}

// Deref follows KindRecursive and resolved KindInferred indirections to
// the underlying concrete type id. It does not mutate the arena.
func (a *Arena) Deref(id TypeID) TypeID {
	seen := map[TypeID]bool{}
	for {
		if seen[id] {
			return id // cyclic alias with no concrete target; leave as-is
		}
		seen[id] = true
		t := &a.types[id]
		switch t.Kind {
		case KindRecursive:
			if t.Target == Invalid {
				return id
			}
			id = t.Target
		case KindInferred:
			if t.Resolved == Invalid {
				return id
			}
			id = t.Resolved
		default:
			return id
		}
	}
}

func (a *Arena) prim(name string, make func() Type) TypeID {
	if id, ok := a.primitives[name]; ok {
		return id
	}
	id := a.alloc(make())
	a.primitives[name] = id
	return id
}

// Integer returns the canonical integer type for the given width/sign,
// interning it so repeated calls return the same TypeID.
func (a *Arena) Integer(bits int, signed bool) TypeID {
	key := "int"
	if signed {
		key += "s"
	} else {
		key += "u"
	}
	switch bits {
	case Bits8:
		key += "8"
	case Bits16:
		key += "16"
	case Bits32:
		key += "32"
	case Bits64:
		key += "64"
	default:
		key += "0"
	}
	return a.prim(key, func() Type { return Type{Kind: KindInteger, IntBits: bits, IntSigned: signed} })
}

// Float returns the canonical float type for the given width.
func (a *Arena) Float(bits int) TypeID {
	key := "float32"
	if bits == Bits64 {
		key = "float64"
	}
	return a.prim(key, func() Type { return Type{Kind: KindFloat, FloatBits: bits} })
}

func (a *Arena) Char() TypeID { return a.prim("char", func() Type { return Type{Kind: KindChar} }) }
func (a *Arena) Bool() TypeID { return a.prim("bool", func() Type { return Type{Kind: KindBool} }) }
func (a *Arena) Any() TypeID  { return a.prim("any", func() Type { return Type{Kind: KindAny} }) }
func (a *Arena) Never() TypeID {
	return a.prim("never", func() Type { return Type{Kind: KindNever} })
}
func (a *Arena) Unknown() TypeID {
	return a.prim("unknown", func() Type { return Type{Kind: KindUnknown} })
}

// String is the array-of-char alias spec.md §6 mandates uniformly
// (Open Question 2: no distinct runtime string variant).
func (a *Arena) String() TypeID { return a.NewArray(a.Char()) }

// NewArray, NewTuple, NewStruct, NewFunction, NewUnion each allocate a
// fresh compound Type; these are not interned since their component
// lists make structural interning unnecessary for correctness.
func (a *Arena) NewArray(elem TypeID) TypeID {
	return a.alloc(Type{Kind: KindArray, Elem: elem})
}

func (a *Arena) NewTuple(elems []TypeID) TypeID {
	return a.alloc(Type{Kind: KindTuple, Elems: elems})
}

func (a *Arena) NewStruct(fields []StructField) TypeID {
	return a.alloc(Type{Kind: KindStruct, Fields: fields})
}

func (a *Arena) NewFunction(params []TypeID, ret TypeID, typeParams []TypeParam) TypeID {
	return a.alloc(Type{Kind: KindFunction, Params: params, Return: ret, TypeParams: typeParams})
}

// NewUnion allocates a union of members. The member count is not
// checked, so a one-member union is accepted.
func (a *Arena) NewUnion(members []TypeID) TypeID {
	return a.alloc(Type{Kind: KindUnion, Members: members})
}

func (a *Arena) NewInferred() TypeID {
	return a.alloc(Type{Kind: KindInferred})
}

func (a *Arena) NewTypeParameter(name string, variance Variance, constraint TypeID) TypeID {
	return a.alloc(Type{Kind: KindTypeParameter, ParamName: name, ParamVar: variance, ParamCons: constraint})
}

func (a *Arena) NewGenericInstance(generic TypeID, args []TypeID) TypeID {
	return a.alloc(Type{Kind: KindGenericInstance, Generic: generic, Args: args})
}
