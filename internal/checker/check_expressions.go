package checker

import (
	"github.com/jchitel/renlang-sub002/internal/ast"
	"github.com/jchitel/renlang-sub002/internal/token"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// typeOfExpr assigns e.ResolvedType and returns it. unknown propagates:
// once any subterm types as unknown, the whole expression does too and
// no further diagnostic is recorded for that subtree (spec.md §3).
func (c *Checker) typeOfExpr(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	t := c.typeOfExprInner(ctx, scope, e)
	e.ResolvedType = t
	return t
}

func (c *Checker) typeOfExprInner(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	switch e.Kind {
	case ast.ExprIntLit:
		return c.narrowestIntLiteral(e.Literal)
	case ast.ExprFloatLit:
		return c.Arena.Float(types.Bits64)
	case ast.ExprCharLit:
		return c.Arena.Char()
	case ast.ExprStringLit:
		return c.Arena.String()
	case ast.ExprBoolLit:
		return c.Arena.Bool()
	case ast.ExprIdentifier:
		return c.lookupValue(ctx, scope, e)
	case ast.ExprArrayLit:
		return c.typeOfArrayLit(ctx, scope, e)
	case ast.ExprTupleLit:
		elems := make([]types.TypeID, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = c.typeOfExpr(ctx, scope, el)
		}
		return c.Arena.NewTuple(elems)
	case ast.ExprStructLit:
		fields := make([]types.StructField, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = types.StructField{Name: f.Name, Type: c.typeOfExpr(ctx, scope, f.Expr)}
		}
		return c.Arena.NewStruct(fields)
	case ast.ExprLambda:
		return c.typeOfLambda(ctx, scope, e)
	case ast.ExprUnary:
		return c.typeOfUnary(ctx, scope, e)
	case ast.ExprBinary:
		return c.typeOfBinary(ctx, scope, e)
	case ast.ExprIfElse:
		return c.typeOfIfElse(ctx, scope, e)
	case ast.ExprVarDecl:
		return c.typeOfVarDecl(ctx, scope, e)
	case ast.ExprApplication:
		return c.typeOfApplication(ctx, scope, e)
	case ast.ExprFieldAccess:
		return c.typeOfFieldAccess(ctx, scope, e)
	case ast.ExprArrayAccess:
		return c.typeOfArrayAccess(ctx, scope, e)
	case ast.ExprParenthesized:
		return c.typeOfExpr(ctx, scope, e.Inner)
	default:
		return c.Arena.Unknown()
	}
}

func (c *Checker) typeOfArrayLit(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	if len(e.Elems) == 0 {
		return c.Arena.NewArray(c.Arena.Unknown())
	}
	elem := c.typeOfExpr(ctx, scope, e.Elems[0])
	for _, el := range e.Elems[1:] {
		elem = c.Arena.MostGeneral(elem, c.typeOfExpr(ctx, scope, el))
	}
	return c.Arena.NewArray(elem)
}

// lookupValue resolves an identifier per spec.md §4.3: innermost
// symbol table, then the module's value-level declarations
// (functions/constants/namespaces), then imports.
func (c *Checker) lookupValue(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	if t, ok := scope.Resolve(e.Name); ok {
		return t
	}
	mod := ctx.mod
	if d, ok := mod.Functions[e.Name]; ok {
		return c.resolveDecl(mod, d)
	}
	if d, ok := mod.Constants[e.Name]; ok {
		return c.resolveDecl(mod, d)
	}
	if imp, ok := mod.Imports[e.Name]; ok {
		return c.resolveImportedValue(imp, e.Name)
	}
	c.errorf(mod, e.Locs.Self().Start, "Value %q is not defined", e.Name)
	return c.Arena.Unknown()
}

func (c *Checker) resolveImportedValue(imp *ImportBinding, name string) types.TypeID {
	target := c.modules[imp.ModulePath]
	if target == nil {
		return c.Arena.Unknown()
	}
	localName := imp.Exported
	if imp.Whole {
		localName = name
	}
	if d, ok := target.Functions[localName]; ok {
		return c.resolveDecl(target, d)
	}
	if d, ok := target.Constants[localName]; ok {
		return c.resolveDecl(target, d)
	}
	return c.Arena.Unknown()
}

// lambdaParamTypes allocates e's parameter/return types without
// checking its body: an annotated parameter (or return type) resolves
// immediately, an unannotated one gets a fresh inferred slot (spec.md
// §4.3, §9's "empty -> resolved" cell). Shared by a bare lambda
// expression and a lambda argument whose expected type is already
// known.
func (c *Checker) lambdaParamTypes(ctx *checkContext, e *ast.Expr) (params []types.TypeID, ret types.TypeID) {
	params = make([]types.TypeID, len(e.Params))
	for i, p := range e.Params {
		if p.ParamType != nil {
			params[i] = c.resolveTypeExpr(ctx.mod, p.ParamType)
		} else {
			params[i] = c.Arena.NewInferred()
		}
	}
	if e.ReturnType != nil {
		ret = c.resolveTypeExpr(ctx.mod, e.ReturnType)
	} else {
		ret = c.Arena.NewInferred()
	}
	return params, ret
}

// checkLambdaBody binds e's already-allocated params/ret into a scope
// enclosing scope, checks the body exactly once, and reconciles the
// body's actual type against ret: unifies an inferred return slot, or
// checks assignability against an annotated one.
func (c *Checker) checkLambdaBody(ctx *checkContext, scope *SymbolTable, e *ast.Expr, params []types.TypeID, ret types.TypeID) types.TypeID {
	inner := NewEnclosedSymbolTable(scope)
	for i, p := range e.Params {
		p.ResolvedType = params[i]
		inner.Define(p.Name, params[i])
	}
	bodyCtx := &checkContext{mod: ctx.mod, expectedReturn: ret}
	actual := c.checkFunctionBody(bodyCtx, inner, e.Body)
	if e.ReturnType == nil {
		c.Arena.Unify(ret, actual)
	} else if !c.Arena.IsAssignableFrom(ret, actual) {
		c.errorf(ctx.mod, e.Locs.Self().Start, "Type %q is not assignable to type %q",
			c.Arena.Get(actual).String(), c.Arena.Get(ret).String())
	}
	return c.Arena.NewFunction(params, ret, nil)
}

func (c *Checker) typeOfLambda(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	return c.typeOfLambdaAgainst(ctx, scope, e, nil)
}

// typeOfLambdaAgainst types a lambda expression, unifying any
// unannotated parameter/return slot against expected's corresponding
// parameter/return type *before* the body is checked, when expected is
// known (spec.md §4.3: a lambda argument with unannotated parameters
// must have those parameters' types unified against the callee's
// expected parameter type first, and the body checked against the
// result — not checked blind against a still-open inferred slot).
// expected is nil for a lambda that isn't a call argument at all.
func (c *Checker) typeOfLambdaAgainst(ctx *checkContext, scope *SymbolTable, e *ast.Expr, expected *types.Type) types.TypeID {
	params, ret := c.lambdaParamTypes(ctx, e)
	if expected != nil && expected.Kind == types.KindFunction {
		for i, p := range e.Params {
			if p.ParamType == nil && i < len(expected.Params) {
				c.Arena.Unify(params[i], expected.Params[i])
			}
		}
		if e.ReturnType == nil {
			c.Arena.Unify(ret, expected.Return)
		}
	}
	return c.checkLambdaBody(ctx, scope, e, params, ret)
}

var unaryOpResultOverride = map[token.Kind]bool{token.BANG: true}

func (c *Checker) typeOfUnary(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	operand := c.typeOfExpr(ctx, scope, e.Operand)
	if c.Arena.Get(operand).Kind == types.KindUnknown {
		return operand
	}
	if unaryOpResultOverride[e.Op] {
		if !c.Arena.IsAssignableFrom(c.Arena.Bool(), operand) {
			c.errorf(ctx.mod, e.OpPos, "Operator %q is not defined for operand type %q", e.Op.String(), c.Arena.Get(operand).String())
			return c.Arena.Unknown()
		}
		return c.Arena.Bool()
	}
	return operand
}

func (c *Checker) typeOfBinary(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	left := c.typeOfExpr(ctx, scope, e.Left)
	right := c.typeOfExpr(ctx, scope, e.Right)
	if c.Arena.Get(left).Kind == types.KindUnknown || c.Arena.Get(right).Kind == types.KindUnknown {
		return c.Arena.Unknown()
	}
	switch e.Op {
	case token.EQ, token.NE, token.LT, token.GT, token.LE, token.GE, token.AND, token.OR:
		return c.Arena.Bool()
	default:
		if !c.Arena.IsAssignableFrom(left, right) && !c.Arena.IsAssignableFrom(right, left) {
			c.errorf(ctx.mod, e.OpPos, "Operator %q is not defined for operand types %q and %q",
				e.Op.String(), c.Arena.Get(left).String(), c.Arena.Get(right).String())
			return c.Arena.Unknown()
		}
		return c.Arena.MostGeneral(left, right)
	}
}

func (c *Checker) typeOfIfElse(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	cond := c.typeOfExpr(ctx, scope, e.Cond)
	if !c.Arena.IsAssignableFrom(c.Arena.Bool(), cond) {
		c.errorf(ctx.mod, e.Cond.Locs.Self().Start, "Type %q is not assignable to type %q", c.Arena.Get(cond).String(), "bool")
	}
	thenT := c.typeOfBranch(ctx, scope, e.Then)
	if e.Else == nil {
		return c.Arena.NewTuple(nil)
	}
	elseT := c.typeOfBranch(ctx, scope, e.Else)
	return c.Arena.MostGeneral(thenT, elseT)
}

func (c *Checker) typeOfBranch(ctx *checkContext, scope *SymbolTable, n ast.Node) types.TypeID {
	switch v := n.(type) {
	case *ast.Expr:
		return c.typeOfExpr(ctx, scope, v)
	case *ast.Stmt:
		branchScope := NewEnclosedSymbolTable(scope)
		c.checkStmt(ctx, branchScope, v)
		return c.Arena.NewTuple(nil)
	default:
		return c.Arena.Unknown()
	}
}

func (c *Checker) typeOfVarDecl(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	init := c.typeOfExpr(ctx, scope, e.Init)
	declared := init
	if e.VarType != nil {
		declared = c.resolveTypeExpr(ctx.mod, e.VarType)
		if !c.Arena.IsAssignableFrom(declared, init) {
			c.errorf(ctx.mod, e.Locs.Self().Start, "Type %q is not assignable to type %q",
				c.Arena.Get(init).String(), c.Arena.Get(declared).String())
		}
	}
	scope.Define(e.VarName, declared)
	return c.Arena.NewTuple(nil)
}

func (c *Checker) typeOfFieldAccess(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	recv := c.typeOfExpr(ctx, scope, e.Receiver)
	recvT := c.Arena.Get(c.Arena.Deref(recv))
	if recvT.Kind == types.KindUnknown {
		return c.Arena.Unknown()
	}
	if recvT.Kind == types.KindStruct {
		for _, f := range recvT.Fields {
			if f.Name == e.Field {
				return f.Type
			}
		}
	}
	c.errorf(ctx.mod, e.Locs.Self().Start, "Type %q has no field %q", recvT.String(), e.Field)
	return c.Arena.Unknown()
}

func (c *Checker) typeOfArrayAccess(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	recv := c.typeOfExpr(ctx, scope, e.Receiver)
	idx := c.typeOfExpr(ctx, scope, e.Index)
	if !c.Arena.IsAssignableFrom(c.Arena.Integer(types.BitsUnbounded, true), idx) {
		c.errorf(ctx.mod, e.Locs.Self().Start, "Type %q is not assignable to type %q", c.Arena.Get(idx).String(), "int")
	}
	recvT := c.Arena.Get(c.Arena.Deref(recv))
	if recvT.Kind == types.KindArray {
		return recvT.Elem
	}
	if recvT.Kind == types.KindUnknown {
		return c.Arena.Unknown()
	}
	c.errorf(ctx.mod, e.Locs.Self().Start, "Type %q is not indexable", recvT.String())
	return c.Arena.Unknown()
}

// typeOfApplication implements the three call-site algorithms spec.md
// §4.3 names: non-generic, explicit-generic, and implicit-generic.
func (c *Checker) typeOfApplication(ctx *checkContext, scope *SymbolTable, e *ast.Expr) types.TypeID {
	calleeT := c.typeOfExpr(ctx, scope, e.Callee)
	calleeT = c.Arena.Deref(calleeT)
	fn := c.Arena.Get(calleeT)
	if fn.Kind == types.KindUnknown {
		for _, a := range e.Args {
			c.typeOfExpr(ctx, scope, a)
		}
		return c.Arena.Unknown()
	}
	if fn.Kind != types.KindFunction {
		c.errorf(ctx.mod, e.Locs.Self().Start, "Type %q is not callable", fn.String())
		for _, a := range e.Args {
			c.typeOfExpr(ctx, scope, a)
		}
		return c.Arena.Unknown()
	}

	switch {
	case len(e.TypeArgs) > 0:
		// Explicit-generic: type-arg arity + constraint check, then
		// substitute and check arguments against the specified signature.
		// The specified signature's parameter types are known up front,
		// so each argument (in particular a lambda argument) is typed
		// with its expected parameter type already in hand.
		if len(e.TypeArgs) != len(fn.TypeParams) {
			c.errorf(ctx.mod, e.Locs.Self().Start, "Expected %d type arguments, got %d", len(fn.TypeParams), len(e.TypeArgs))
			for _, a := range e.Args {
				c.typeOfExpr(ctx, scope, a)
			}
			return c.Arena.Unknown()
		}
		typeArgs := make([]types.TypeID, len(e.TypeArgs))
		for i, ta := range e.TypeArgs {
			typeArgs[i] = c.resolveTypeExpr(ctx.mod, ta)
			if cons := fn.TypeParams[i].Constraint; cons != types.Invalid {
				if !c.Arena.IsAssignableFrom(cons, typeArgs[i]) {
					c.errorf(ctx.mod, e.Locs.Self().Start, "Type argument %q does not satisfy constraint %q",
						c.Arena.Get(typeArgs[i]).String(), c.Arena.Get(cons).String())
				}
			}
		}
		specified := c.Arena.Get(c.Arena.Specify(calleeT, typeArgs))
		argTypes := c.typeOfCallArgs(ctx, scope, e, specified)
		return c.checkCallArgs(ctx, e, specified, argTypes)

	case len(fn.TypeParams) > 0:
		// Implicit-generic: infer type args structurally from the call's
		// argument types, then re-check with the substituted parameters.
		// The callee's own parameter types aren't concrete until that
		// inference runs, so a lambda argument can't be unified against
		// its expected type (or have its body checked) up front the way
		// the other two call forms can. It also can't usefully contribute
		// its own shape to the structural inference pass itself: an
		// unannotated parameter is still an open inferred slot at this
		// point, and matching a type parameter against an unresolved slot
		// widens it to any (MostGeneral has nothing concrete to compare),
		// clobbering a value that same type parameter may already have
		// picked up from a concrete argument elsewhere. So a lambda
		// argument contributes unknown to the inference pass — unifyInfer
		// only recurses into an argument's structure when it sees
		// KindFunction, so an unknown-typed one is simply skipped — and is
		// typed for real only once Specify has resolved its expected
		// parameter type. Its unannotated return type is taken from its
		// body, and inference then runs again over every argument type so
		// a type parameter fixed only by a lambda's return is resolved.
		preArgTypes := make([]types.TypeID, len(e.Args))
		for i, a := range e.Args {
			if a.Kind == ast.ExprLambda {
				preArgTypes[i] = c.Arena.Unknown()
			} else {
				preArgTypes[i] = c.typeOfExpr(ctx, scope, a)
			}
		}
		inferred := c.Arena.InferTypeArgs(calleeT, preArgTypes)
		specified := c.Arena.Get(c.Arena.Specify(calleeT, inferred))
		argTypes := make([]types.TypeID, len(e.Args))
		for i, a := range e.Args {
			if a.Kind == ast.ExprLambda {
				var expected *types.Type
				if i < len(specified.Params) {
					exp := *c.Arena.Get(c.Arena.Deref(specified.Params[i]))
					exp.Return = types.Invalid
					expected = &exp
				}
				t := c.typeOfLambdaAgainst(ctx, scope, a, expected)
				a.ResolvedType = t
				argTypes[i] = t
			} else {
				argTypes[i] = preArgTypes[i]
			}
		}
		specified = c.Arena.Get(c.Arena.Specify(calleeT, c.Arena.InferTypeArgs(calleeT, argTypes)))
		return c.checkCallArgs(ctx, e, specified, argTypes)

	default:
		argTypes := c.typeOfCallArgs(ctx, scope, e, fn)
		return c.checkCallArgs(ctx, e, fn, argTypes)
	}
}

// typeOfCallArgs computes every argument of e's type with fn's already-
// concrete parameter types on hand as each argument's expected type
// (spec.md §4.3's unify-before-check step for lambda arguments).
func (c *Checker) typeOfCallArgs(ctx *checkContext, scope *SymbolTable, e *ast.Expr, fn *types.Type) []types.TypeID {
	argTypes := make([]types.TypeID, len(e.Args))
	for i, a := range e.Args {
		if a.Kind == ast.ExprLambda && i < len(fn.Params) {
			expected := c.Arena.Get(c.Arena.Deref(fn.Params[i]))
			t := c.typeOfLambdaAgainst(ctx, scope, a, expected)
			a.ResolvedType = t
			argTypes[i] = t
			continue
		}
		argTypes[i] = c.typeOfExpr(ctx, scope, a)
	}
	return argTypes
}

func (c *Checker) checkCallArgs(ctx *checkContext, e *ast.Expr, fn *types.Type, argTypes []types.TypeID) types.TypeID {
	if len(argTypes) != len(fn.Params) {
		c.errorf(ctx.mod, e.Locs.Self().Start, "Expected %d arguments, got %d", len(fn.Params), len(argTypes))
		return c.Arena.Unknown()
	}
	for i, want := range fn.Params {
		// A parameter slot can still be an unresolved inferred type here —
		// e.g. a stored lambda value whose parameter type was never
		// constrained by anything at the point it was defined. Unify is a
		// no-op once want isn't (or is no longer) open, so this just
		// widens the one genuinely-unconstrained case instead of failing
		// it outright.
		c.Arena.Unify(want, argTypes[i])
		if !c.Arena.IsAssignableFrom(want, argTypes[i]) {
			c.errorf(ctx.mod, e.Args[i].Locs.Self().Start, "Type %q is not assignable to type %q",
				c.Arena.Get(argTypes[i]).String(), c.Arena.Get(want).String())
		}
	}
	return fn.Return
}
