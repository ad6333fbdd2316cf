package types

// Specify instantiates a generic function type by substituting each of
// its TypeParams with the corresponding concrete type in typeArgs,
// producing a fully concrete (non-generic) function Type handle.
// spec.md §4.1.
func (a *Arena) Specify(generic TypeID, typeArgs []TypeID) TypeID {
	g := a.Get(generic)
	if g.Kind != KindFunction || len(g.TypeParams) == 0 {
		return generic
	}
	subst := make(map[string]TypeID, len(g.TypeParams))
	for i, tp := range g.TypeParams {
		if i < len(typeArgs) {
			subst[tp.Name] = typeArgs[i]
		}
	}
	return a.substitute(generic, subst)
}

func (a *Arena) substitute(id TypeID, subst map[string]TypeID) TypeID {
	t := a.Get(id)
	switch t.Kind {
	case KindTypeParameter:
		if rep, ok := subst[t.ParamName]; ok {
			return rep
		}
		return id
	case KindArray:
		return a.NewArray(a.substitute(t.Elem, subst))
	case KindTuple:
		out := make([]TypeID, len(t.Elems))
		for i, e := range t.Elems {
			out[i] = a.substitute(e, subst)
		}
		return a.NewTuple(out)
	case KindStruct:
		out := make([]StructField, len(t.Fields))
		for i, f := range t.Fields {
			out[i] = StructField{Name: f.Name, Type: a.substitute(f.Type, subst)}
		}
		return a.NewStruct(out)
	case KindFunction:
		params := make([]TypeID, len(t.Params))
		for i, p := range t.Params {
			params[i] = a.substitute(p, subst)
		}
		ret := a.substitute(t.Return, subst)
		// A specified function carries no further type parameters of its own.
		return a.NewFunction(params, ret, nil)
	case KindUnion:
		out := make([]TypeID, len(t.Members))
		for i, m := range t.Members {
			out[i] = a.substitute(m, subst)
		}
		return a.NewUnion(out)
	default:
		return id
	}
}

// InferTypeArgs implements the implicit-generic call algorithm's
// inference pass (spec.md §4.3): given the generic function's declared
// parameter types and the concrete argument types supplied at a call
// site, unify each type-parameter occurrence against the argument it
// lines up with and return the ordered list of inferred type
// arguments, in declaration order. A type parameter never encountered
// in the parameter list infers to `any`.
func (a *Arena) InferTypeArgs(generic TypeID, argTypes []TypeID) []TypeID {
	g := a.Get(generic)
	if g.Kind != KindFunction {
		return nil
	}
	inferred := make(map[string]TypeID)
	n := len(g.Params)
	if len(argTypes) < n {
		n = len(argTypes)
	}
	for i := 0; i < n; i++ {
		a.unifyInfer(g.Params[i], argTypes[i], inferred)
	}
	out := make([]TypeID, len(g.TypeParams))
	for i, tp := range g.TypeParams {
		if t, ok := inferred[tp.Name]; ok {
			out[i] = t
		} else {
			out[i] = a.Any()
		}
	}
	return out
}

func (a *Arena) unifyInfer(paramType, argType TypeID, out map[string]TypeID) {
	pt := a.Get(paramType)
	switch pt.Kind {
	case KindTypeParameter:
		if _, ok := out[pt.ParamName]; !ok {
			out[pt.ParamName] = argType
		} else if a.MostGeneral(out[pt.ParamName], argType) != out[pt.ParamName] {
			out[pt.ParamName] = a.MostGeneral(out[pt.ParamName], argType)
		}
	case KindArray:
		at := a.Get(argType)
		if at.Kind == KindArray {
			a.unifyInfer(pt.Elem, at.Elem, out)
		}
	case KindTuple:
		at := a.Get(argType)
		if at.Kind == KindTuple && len(at.Elems) == len(pt.Elems) {
			for i := range pt.Elems {
				a.unifyInfer(pt.Elems[i], at.Elems[i], out)
			}
		}
	case KindFunction:
		at := a.Get(argType)
		if at.Kind == KindFunction {
			for i := range pt.Params {
				if i < len(at.Params) {
					a.unifyInfer(pt.Params[i], at.Params[i], out)
				}
			}
			a.unifyInfer(pt.Return, at.Return, out)
		}
	}
}
