package checker

import (
	"github.com/jchitel/renlang-sub002/internal/ast"
	"github.com/jchitel/renlang-sub002/internal/token"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// checkContext threads the information statement/expression checking
// needs beyond the lexical scope: the enclosing module (for
// declaration/import lookups), the declared return type in effect,
// the current loop nesting depth (spec.md §9 replaces the source's
// "@@loopNumber" special symbol with this explicit field), and the
// return-expression types encountered so far in the current function
// body (used to compute the body's actual return type as their most
// general common type).
type checkContext struct {
	mod            *Module
	expectedReturn types.TypeID
	loopDepth      int
	returnTypes    []types.TypeID
}

func (ctx *checkContext) recordReturn(t types.TypeID) {
	ctx.returnTypes = append(ctx.returnTypes, t)
}

// checkFunctionBody checks a function/lambda body and returns its
// actual return type: the body expression's type for `=> expr` forms,
// or the most-general type across every `return` statement reached
// while walking a block body (if there is none: never when the body
// ends in a `throw`, else empty-tuple).
func (c *Checker) checkFunctionBody(ctx *checkContext, scope *SymbolTable, body ast.Node) types.TypeID {
	switch b := body.(type) {
	case *ast.Expr:
		return c.typeOfExpr(ctx, scope, b)
	case *ast.Stmt:
		c.checkStmt(ctx, scope, b)
		if len(ctx.returnTypes) == 0 {
			last := b
			if b.Kind == ast.StmtBlock && len(b.Stmts) > 0 {
				last, _ = b.Stmts[len(b.Stmts)-1].(*ast.Stmt)
			}
			if last != nil && last.Kind == ast.StmtThrow {
				return c.Arena.Never()
			}
			return c.Arena.NewTuple(nil)
		}
		result := ctx.returnTypes[0]
		for _, t := range ctx.returnTypes[1:] {
			result = c.Arena.MostGeneral(result, t)
		}
		return result
	default:
		return c.Arena.Unknown()
	}
}

func (c *Checker) checkStmt(ctx *checkContext, scope *SymbolTable, s *ast.Stmt) {
	switch s.Kind {
	case ast.StmtNoop:
		// nothing to check
	case ast.StmtBlock:
		inner := NewEnclosedSymbolTable(scope)
		for _, sub := range s.Stmts {
			if st, ok := sub.(*ast.Stmt); ok {
				c.checkStmt(ctx, inner, st)
			}
		}
	case ast.StmtExpression:
		c.typeOfExpr(ctx, scope, s.Expr)
	case ast.StmtFor:
		c.checkFor(ctx, scope, s)
	case ast.StmtWhile:
		c.checkLoopCond(ctx, scope, s)
		c.withLoop(ctx, scope, s.Body)
	case ast.StmtDoWhile:
		c.checkLoopCond(ctx, scope, s)
		c.withLoop(ctx, scope, s.Body)
	case ast.StmtTryCatchFinally:
		c.checkTry(ctx, scope, s)
	case ast.StmtThrow:
		c.typeOfExpr(ctx, scope, s.Value)
	case ast.StmtReturn:
		if s.Value != nil {
			ctx.recordReturn(c.typeOfExpr(ctx, scope, s.Value))
		} else {
			ctx.recordReturn(c.Arena.NewTuple(nil))
		}
	case ast.StmtBreak:
		c.checkLoopControl(ctx, s.Locs.Self().Start, s.N)
	case ast.StmtContinue:
		c.checkLoopControl(ctx, s.Locs.Self().Start, s.N)
	}
}

func (c *Checker) checkLoopCond(ctx *checkContext, scope *SymbolTable, s *ast.Stmt) {
	cond := c.typeOfExpr(ctx, scope, s.Cond)
	if !c.Arena.IsAssignableFrom(c.Arena.Bool(), cond) {
		c.errorf(ctx.mod, s.Cond.Locs.Self().Start, "Type %q is not assignable to type %q", c.Arena.Get(cond).String(), "bool")
	}
}

func (c *Checker) withLoop(ctx *checkContext, scope *SymbolTable, body ast.Node) {
	ctx.loopDepth++
	if st, ok := body.(*ast.Stmt); ok {
		c.checkStmt(ctx, scope, st)
	}
	ctx.loopDepth--
}

func (c *Checker) checkFor(ctx *checkContext, scope *SymbolTable, s *ast.Stmt) {
	iter := c.typeOfExpr(ctx, scope, s.Iter)
	iterT := c.Arena.Get(c.Arena.Deref(iter))
	elem := c.Arena.Unknown()
	if iterT.Kind == types.KindArray {
		elem = iterT.Elem
	} else if iterT.Kind != types.KindUnknown {
		c.errorf(ctx.mod, s.Iter.Locs.Self().Start, "Type %q is not iterable", iterT.String())
	}
	inner := NewEnclosedSymbolTable(scope)
	inner.Define(s.IterVar, elem)
	ctx.loopDepth++
	if st, ok := s.Body.(*ast.Stmt); ok {
		c.checkStmt(ctx, inner, st)
	}
	ctx.loopDepth--
}

// checkLoopControl validates break(n)/continue(n) against the current
// loop nesting depth (spec.md §4.3: `0 <= n < loop-depth`, with 0
// meaning the innermost loop per the adopted Open Question answer).
func (c *Checker) checkLoopControl(ctx *checkContext, pos token.Position, n int) {
	if n < 0 || n >= ctx.loopDepth {
		c.errorf(ctx.mod, pos, "break/continue depth %d is out of range for %d enclosing loop(s)", n, ctx.loopDepth)
	}
}

// checkTry checks a try-catch-finally statement. Each catch clause's
// parameter is bound for the duration of its body (spec.md §4.3); the
// statement itself has no expression-position value (it appears only
// in statement position in this grammar), so its branches contribute
// to the enclosing function's actual return type only through any
// `return` statements they contain.
func (c *Checker) checkTry(ctx *checkContext, scope *SymbolTable, s *ast.Stmt) {
	tryScope := NewEnclosedSymbolTable(scope)
	if s.Try != nil {
		c.checkStmt(ctx, tryScope, s.Try)
	}

	for _, cl := range s.Catches {
		catchScope := NewEnclosedSymbolTable(scope)
		paramT := c.Arena.Any()
		if cl.ParamType != nil {
			paramT = c.resolveTypeExpr(ctx.mod, cl.ParamType)
		}
		catchScope.Define(cl.ParamName, paramT)
		if cl.Body != nil {
			c.checkStmt(ctx, catchScope, cl.Body)
		}
	}

	if s.Finally != nil {
		finallyScope := NewEnclosedSymbolTable(scope)
		c.checkStmt(ctx, finallyScope, s.Finally)
	}
}
