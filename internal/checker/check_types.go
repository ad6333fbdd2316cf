package checker

import (
	"strconv"

	"github.com/jchitel/renlang-sub002/internal/ast"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// resolveDecl resolves d's ResolvedType, memoized via d.ResolvedType
// and cycle-guarded via d.Resolving, per spec.md §4.3's per-declaration
// resolving flag. Re-entry while resolving a type alias yields a
// recursive placeholder (spec.md §9); re-entry on any other kind is a
// circular-dependency diagnostic.
func (c *Checker) resolveDecl(mod *Module, d *ast.Decl) types.TypeID {
	if d.ResolvedType != types.Invalid {
		return d.ResolvedType
	}
	if d.Resolving {
		if d.Kind == ast.DeclType {
			if ph, ok := c.placeholders[d]; ok {
				return ph
			}
			ph := c.Arena.NewPlaceholder(types.KindRecursive, d.Name)
			c.placeholders[d] = ph
			return ph
		}
		c.errorf(mod, d.Locs.Self().Start, "Cannot resolve type, circular dependency found")
		return c.Arena.Unknown()
	}

	d.Resolving = true
	var result types.TypeID
	switch d.Kind {
	case ast.DeclFunction:
		result = c.resolveFunctionDecl(mod, d)
	case ast.DeclType:
		result = c.resolveTypeExpr(mod, d.TypeRHS)
	case ast.DeclConstant:
		result = c.typeOfExpr(&checkContext{mod: mod}, NewSymbolTable(), d.ConstExpr)
	default:
		result = c.Arena.Unknown()
	}
	d.Resolving = false
	d.ResolvedType = result

	if ph, ok := c.placeholders[d]; ok {
		c.Arena.SetRecursiveTarget(ph, result)
		delete(c.placeholders, d)
	}
	return result
}

func (c *Checker) resolveFunctionDecl(mod *Module, d *ast.Decl) types.TypeID {
	// d's type parameters must be visible to resolveTypeExpr while its
	// own signature (and nested generic functions' constraints, should
	// any resolveDecl re-entrancy occur) is being resolved; save/restore
	// rather than mutate in place, since resolveTypeExpr can recurse
	// into another declaration's own resolveFunctionDecl.
	saved := c.typeParamScope
	c.typeParamScope = make(map[string]types.TypeID, len(saved)+len(d.TypeParams))
	for k, v := range saved {
		c.typeParamScope[k] = v
	}
	defer func() { c.typeParamScope = saved }()

	var typeParams []types.TypeParam
	for _, tp := range d.TypeParams {
		cons := types.Invalid
		if tp.Constraint != nil {
			cons = c.resolveTypeExpr(mod, tp.Constraint)
		}
		tpID := c.Arena.NewTypeParameter(tp.Name, tp.Variance, cons)
		tp.ResolvedType = tpID
		c.typeParamScope[tp.Name] = tpID
		typeParams = append(typeParams, types.TypeParam{Name: tp.Name, Variance: tp.Variance, Constraint: cons})
	}

	paramTypes := make([]types.TypeID, len(d.Params))
	for i, p := range d.Params {
		paramTypes[i] = c.resolveTypeExpr(mod, p.ParamType)
		p.ResolvedType = paramTypes[i]
	}

	retType := c.Arena.Unknown()
	if d.ReturnType != nil {
		retType = c.resolveTypeExpr(mod, d.ReturnType)
	}

	fnType := c.Arena.NewFunction(paramTypes, retType, typeParams)
	// Set eagerly so a recursive call within the body resolves to this
	// function's own (already-known) signature instead of re-entering.
	d.ResolvedType = fnType

	scope := NewSymbolTable()
	for i, p := range d.Params {
		scope.Define(p.Name, paramTypes[i])
	}
	for _, tp := range d.TypeParams {
		scope.Define(tp.Name, tp.ResolvedType)
	}
	ctx := &checkContext{mod: mod, expectedReturn: retType}
	actual := c.checkFunctionBody(ctx, scope, d.Body)
	if d.ReturnType != nil && !c.Arena.IsAssignableFrom(retType, actual) {
		c.errorf(mod, d.Locs.Self().Start, "Type %q is not assignable to type %q",
			c.Arena.Get(actual).String(), c.Arena.Get(retType).String())
	}
	return fnType
}

// resolveTypeExpr maps a syntactic TypeExpr to a concrete TypeID,
// interning primitives and recursing structurally through compounds.
func (c *Checker) resolveTypeExpr(mod *Module, t *ast.TypeExpr) types.TypeID {
	if t == nil {
		return c.Arena.NewTuple(nil) // unspecified return type = void
	}
	switch t.Kind {
	case ast.TypePrimitive:
		return c.primitiveType(t.Name)
	case ast.TypeIdentifier:
		if tpID, ok := c.typeParamScope[t.Name]; ok {
			return tpID
		}
		if decl, ok := mod.Types[t.Name]; ok {
			return c.resolveDecl(mod, decl)
		}
		if imp, ok := mod.Imports[t.Name]; ok {
			return c.resolveImportedType(mod, imp, t.Name)
		}
		c.errorf(mod, t.Locs.Self().Start, "Type %q is not defined", t.Name)
		return c.Arena.Unknown()
	case ast.TypeFunction:
		params := make([]types.TypeID, len(t.Params))
		for i, p := range t.Params {
			params[i] = c.resolveTypeExpr(mod, p)
		}
		ret := c.resolveTypeExpr(mod, t.Return)
		var tps []types.TypeParam
		for _, tp := range t.TypeParams {
			cons := types.Invalid
			if tp.Constraint != nil {
				cons = c.resolveTypeExpr(mod, tp.Constraint)
			}
			tps = append(tps, types.TypeParam{Name: tp.Name, Variance: tp.Variance, Constraint: cons})
		}
		return c.Arena.NewFunction(params, ret, tps)
	case ast.TypeTuple:
		elems := make([]types.TypeID, len(t.Elems))
		for i, e := range t.Elems {
			elems[i] = c.resolveTypeExpr(mod, e)
		}
		return c.Arena.NewTuple(elems)
	case ast.TypeStruct:
		fields := make([]types.StructField, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = types.StructField{Name: f.Name, Type: c.resolveTypeExpr(mod, f.Type)}
		}
		return c.Arena.NewStruct(fields)
	case ast.TypeArray:
		return c.Arena.NewArray(c.resolveTypeExpr(mod, t.Inner))
	case ast.TypeUnion:
		members := make([]types.TypeID, len(t.Members))
		for i, m := range t.Members {
			members[i] = c.resolveTypeExpr(mod, m)
		}
		return c.Arena.NewUnion(members)
	case ast.TypeSpecific:
		generic := c.resolveTypeExpr(mod, t.Generic)
		args := make([]types.TypeID, len(t.Args))
		for i, a := range t.Args {
			args[i] = c.resolveTypeExpr(mod, a)
		}
		return c.Arena.Specify(generic, args)
	case ast.TypeParenthesized:
		return c.resolveTypeExpr(mod, t.Inner)
	case ast.TypeNamespaceAccess:
		// Namespace member types are not a closed-form construct this
		// checker resolves structurally; treat as unknown rather than
		// guess at cross-namespace type identity.
		return c.Arena.Unknown()
	default:
		return c.Arena.Unknown()
	}
}

func (c *Checker) resolveImportedType(mod *Module, imp *ImportBinding, name string) types.TypeID {
	target := c.modules[imp.ModulePath]
	if target == nil {
		return c.Arena.Unknown()
	}
	localName := imp.Exported
	if imp.Whole {
		localName = name
	}
	if decl, ok := target.Types[localName]; ok {
		return c.resolveDecl(target, decl)
	}
	return c.Arena.Unknown()
}

var primitiveSizes = map[string]struct {
	bits   int
	signed bool
	float  bool
	char   bool
	boolT  bool
}{
	"u8": {8, false, false, false, false}, "byte": {8, false, false, false, false},
	"i8": {8, true, false, false, false},
	"u16": {16, false, false, false, false}, "short": {16, false, false, false, false},
	"i16": {16, true, false, false, false},
	"u32": {32, false, false, false, false},
	"i32": {32, true, false, false, false}, "integer": {32, true, false, false, false},
	"u64":     {64, false, false, false, false},
	"i64":     {64, true, false, false, false},
	"long":    {64, true, false, false, false},
	"int":     {types.BitsUnbounded, true, false, false, false},
	"f32":     {32, false, true, false, false},
	"float":   {32, false, true, false, false},
	"f64":     {64, false, true, false, false},
	"double":  {64, false, true, false, false},
}

// primitiveType maps a primitive type-expr name to its canonical
// interned TypeID (spec.md §6's primitive surface).
func (c *Checker) primitiveType(name string) types.TypeID {
	if info, ok := primitiveSizes[name]; ok {
		if info.float {
			return c.Arena.Float(info.bits)
		}
		return c.Arena.Integer(info.bits, info.signed)
	}
	switch name {
	case "char":
		return c.Arena.Char()
	case "string":
		return c.Arena.String()
	case "bool":
		return c.Arena.Bool()
	case "void":
		return c.Arena.NewTuple(nil)
	case "any":
		return c.Arena.Any()
	default:
		return c.Arena.Unknown()
	}
}

// narrowestIntLiteral picks the smallest-width signed integer type
// (8, 16, 32 or 64 bits) that contains literal's value, per spec.md
// §4.3; a literal outside the int64 range gets the unbounded signed
// integer type. An unsigned type is never chosen.
func (c *Checker) narrowestIntLiteral(literal string) types.TypeID {
	v, err := strconv.ParseInt(literal, 10, 64)
	if err != nil {
		// Overflows int64: only the unbounded integer type can hold it.
		return c.Arena.Integer(types.BitsUnbounded, true)
	}
	switch {
	case v >= -128 && v <= 127:
		return c.Arena.Integer(types.Bits8, true)
	case v >= -32768 && v <= 32767:
		return c.Arena.Integer(types.Bits16, true)
	case v >= -2147483648 && v <= 2147483647:
		return c.Arena.Integer(types.Bits32, true)
	default:
		return c.Arena.Integer(types.Bits64, true)
	}
}
