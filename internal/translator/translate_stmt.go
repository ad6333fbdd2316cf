package translator

import (
	"github.com/jchitel/renlang-sub002/internal/ast"
	"github.com/jchitel/renlang-sub002/internal/instr"
)

// translateStmt lowers s per spec.md §4.4's per-statement contracts.
func (b *builder) translateStmt(s *ast.Stmt) {
	switch s.Kind {
	case ast.StmtNoop:
		b.emit(instr.Instruction{Op: instr.Noop})
	case ast.StmtBlock:
		b.translateBlock(s)
	case ast.StmtExpression:
		b.translateExpr(s.Expr)
	case ast.StmtFor:
		b.translateFor(s)
	case ast.StmtWhile:
		b.translateWhile(s)
	case ast.StmtDoWhile:
		b.translateDoWhile(s)
	case ast.StmtTryCatchFinally:
		b.translateTry(s)
	case ast.StmtThrow:
		ref := b.translateExpr(s.Value)
		b.emit(instr.Instruction{Op: instr.Throw, Src: ref, ValueType: s.Value.ResolvedType})
	case ast.StmtReturn:
		var ref instr.RefID
		if s.Value != nil {
			ref = b.translateExpr(s.Value)
		} else {
			ref = b.emptyTuple()
		}
		b.emit(instr.Instruction{Op: instr.Return, Src: ref})
	case ast.StmtBreak:
		b.emit(instr.Instruction{Op: instr.Break, N: s.N})
	case ast.StmtContinue:
		b.emit(instr.Instruction{Op: instr.Continue, N: s.N})
	}
}

// translateBlock: push a scope frame, translate children, pop the
// scope frame; an empty block was already normalized to a StmtNoop by
// the reducer (spec.md §4.2), so no empty-block special case is
// needed here.
func (b *builder) translateBlock(s *ast.Stmt) {
	b.pushScope()
	for _, sub := range s.Stmts {
		if st, ok := sub.(*ast.Stmt); ok {
			b.translateStmt(st)
		}
	}
	b.popScope()
}

// translateWhile lowers a pre-test loop (spec.md §4.4 "While"). The
// loop frame's (start, end) pair is what the interpreter consults when
// unwinding a break/continue at runtime (spec.md §4.5), so the
// push-loop-frame instruction is emitted with placeholder bounds and
// patched once both ends are known.
func (b *builder) translateWhile(s *ast.Stmt) {
	frameIdx := b.emit(instr.Instruction{Op: instr.PushLoopFrame})
	start := b.here()
	cond := b.translateExpr(s.Cond)
	falseJump := b.emit(instr.Instruction{Op: instr.FalseBranch, Src: cond})
	b.translateLoopBody(s.Body)
	b.emit(instr.Instruction{Op: instr.Jump, Target: start})
	end := b.here()
	b.emit(instr.Instruction{Op: instr.Noop})
	b.patchTarget(falseJump, end)
	b.emit(instr.Instruction{Op: instr.PopFrame})
	b.instrs[frameIdx].Start, b.instrs[frameIdx].End = start, end
}

// translateDoWhile lowers a post-test loop (spec.md §4.4 "Do-while").
func (b *builder) translateDoWhile(s *ast.Stmt) {
	frameIdx := b.emit(instr.Instruction{Op: instr.PushLoopFrame})
	start := b.here()
	b.translateLoopBody(s.Body)
	cond := b.translateExpr(s.Cond)
	b.emit(instr.Instruction{Op: instr.TrueBranch, Src: cond, Target: start})
	end := b.here()
	b.emit(instr.Instruction{Op: instr.PopFrame})
	b.instrs[frameIdx].Start, b.instrs[frameIdx].End = start, end
}

// translateFor lowers an array-iteration loop (spec.md §4.4 "For"):
// the iterable and index refs are set up once before the loop frame,
// then each iteration recomputes the bound check and element access
// through the closed interop-ref intrinsics rather than host code.
func (b *builder) translateFor(s *ast.Stmt) {
	iterable := b.translateExpr(s.Iter)
	idx := b.fresh()
	b.emit(instr.Instruction{Op: instr.SetInteger, Dst: idx, UnaryKind: "0"})

	frameIdx := b.emit(instr.Instruction{Op: instr.PushLoopFrame})
	check := b.here()
	lenRef := b.fresh()
	b.emit(instr.Instruction{Op: instr.InteropRef, Dst: lenRef, Kind: instr.IntrinsicArrayLength, Elems: []instr.RefID{iterable}})
	condRef := b.fresh()
	b.emit(instr.Instruction{Op: instr.InteropRef, Dst: condRef, Kind: instr.IntrinsicIntLessThan, Elems: []instr.RefID{idx, lenRef}})
	falseJump := b.emit(instr.Instruction{Op: instr.FalseBranch, Src: condRef})

	elemRef := b.fresh()
	b.emit(instr.Instruction{Op: instr.InteropRef, Dst: elemRef, Kind: instr.IntrinsicArrayIndex, Elems: []instr.RefID{iterable, idx}})

	b.pushScope()
	b.bind(s.IterVar, elemRef)
	if st, ok := s.Body.(*ast.Stmt); ok {
		b.translateStmt(st)
	}
	b.popScope()

	nextIdx := b.fresh()
	b.emit(instr.Instruction{Op: instr.InteropRef, Dst: nextIdx, Kind: instr.IntrinsicIntIncrement, Elems: []instr.RefID{idx}})
	b.emit(instr.Instruction{Op: instr.MutateRef, Dst: idx, Src: nextIdx})
	b.emit(instr.Instruction{Op: instr.Jump, Target: check})

	end := b.here()
	b.emit(instr.Instruction{Op: instr.Noop})
	b.patchTarget(falseJump, end)
	b.emit(instr.Instruction{Op: instr.PopFrame})
	b.instrs[frameIdx].Start, b.instrs[frameIdx].End = check, end
}

// translateLoopBody lowers a While/Do-while loop's statement body,
// which the parser always hands over as a single *ast.Stmt (possibly
// itself a block).
func (b *builder) translateLoopBody(body ast.Node) {
	if st, ok := body.(*ast.Stmt); ok {
		b.translateStmt(st)
	}
}

// translateTry lowers a try-catch-finally statement per spec.md §4.4's
// "Try-catch-finally" contract: a try-frame carries the catch
// (start, type) vector and optional finally range so the interpreter
// can splice in exception handling without re-parsing the function.
func (b *builder) translateTry(s *ast.Stmt) {
	tryIdx := b.emit(instr.Instruction{Op: instr.PushTryFrame})

	if s.Try != nil {
		b.translateStmt(s.Try)
	}
	b.emit(instr.Instruction{Op: instr.PopFrame})
	endJump := b.emit(instr.Instruction{Op: instr.Jump})

	catches := make([]instr.Catch, 0, len(s.Catches))
	catchJumps := make([]int, 0, len(s.Catches))
	for _, cl := range s.Catches {
		start := b.here()
		b.pushScope()
		errRef := b.fresh()
		b.emit(instr.Instruction{Op: instr.ErrorRef, Dst: errRef})
		b.bind(cl.ParamName, errRef)
		if cl.Body != nil {
			b.translateStmt(cl.Body)
		}
		b.popScope()
		if s.Finally != nil {
			// Pops the finally-guard frame propagate() re-pushes around
			// a matched catch body (vm_control.go's propagate), for the
			// case where the catch body completes normally and falls
			// straight through into finally rather than exiting early.
			b.emit(instr.Instruction{Op: instr.PopFrame})
		}
		catchJumps = append(catchJumps, b.emit(instr.Instruction{Op: instr.Jump}))
		typeID := b.t.checker.Arena.Any()
		if cl.ParamType != nil {
			typeID = b.t.checker.ResolveTypeExpr(b.mod, cl.ParamType)
		}
		catches = append(catches, instr.Catch{Start: start, Type: typeID})
	}
	b.instrs[tryIdx].Catches = catches
	b.patchTarget(endJump, b.here())
	for _, j := range catchJumps {
		b.patchTarget(j, b.here())
	}

	if s.Finally != nil {
		finallyStart := b.here()
		b.translateStmt(s.Finally)
		finallyEnd := b.here()
		b.instrs[tryIdx].Finally = &instr.FinallyRange{Start: finallyStart, End: finallyEnd}
	}
	b.emit(instr.Instruction{Op: instr.Noop})
}
