package vm

import (
	"fmt"

	"github.com/jchitel/renlang-sub002/internal/diag"
	"github.com/jchitel/renlang-sub002/internal/instr"
	"github.com/jchitel/renlang-sub002/internal/runtime"
	"github.com/jchitel/renlang-sub002/internal/token"
)

// doCall pushes a function-frame for a Call instruction and switches
// the active function, per spec.md §3's function-frame shape. It
// enforces the configurable maximum stack depth (spec.md §5).
func (s *execState) doCall(in instr.Instruction) error {
	callee := s.refs[in.Src]
	if callee == nil || callee.Kind != runtime.KindFunction {
		s.throwRuntime("cannot call a non-function value")
		return nil
	}
	fn, ok := s.it.funcs[callee.Func]
	if !ok {
		return fmt.Errorf("vm: call to unknown function #%d", callee.Func)
	}
	if s.stackSize+1 > s.it.maxStackDepth {
		fmt.Fprintln(s.it.stderr, "fatal: stack overflow")
		return fmt.Errorf("stack overflow")
	}

	args := s.resolveElems(in.Elems)
	frame := runtime.NewFunctionFrame(callee.Func, args, s.curFuncID, len(s.frames)-1, s.ic, in.Dst)
	s.frames = append(s.frames, frame)
	s.stackSize++
	s.curFuncID = callee.Func
	s.curFunc = fn
	s.ic = 0
	return nil
}

// doReturn unwinds frames up to and including the nearest
// function-frame, writes val into its caller's expected ref, and
// resumes the caller (spec.md §4.5's function epilogue). If popping
// the function-frame empties the stack entirely, the whole program is
// exiting through this return.
//
// Any try-frame unwound on the way out that carries a Finally is
// spliced in first, exactly as propagate does for an in-flight
// exception (spec.md's open question on scenario 6: "finally overrides
// catch return" — a return reached from inside a try or catch body
// must still run the enclosing finally before actually returning, and
// a return executed by that finally itself takes precedence). The
// deferred return is resumed via pendingExit once execution reaches
// the finally's end.
func (s *execState) doReturn(val *runtime.Value) (exit bool, code int) {
	for {
		top := s.frames[len(s.frames)-1]
		switch top.Kind {
		case runtime.FrameFunction:
			s.frames = s.frames[:len(s.frames)-1]
			s.stackSize--
			if s.pendingExit != nil && s.pendingExit.funcID == top.FuncID {
				s.pendingExit = nil
			}
			if s.pending != nil && s.pending.funcID == top.FuncID {
				s.pending = nil
			}
			if len(s.frames) == 0 {
				return true, exitCode(val)
			}
			s.refs[top.ReturnRef] = val
			s.curFuncID = top.CallerFuncID
			s.curFunc = s.it.funcs[top.CallerFuncID]
			s.ic = top.ReturnIC
			return false, 0
		case runtime.FrameTry:
			s.frames = s.frames[:len(s.frames)-1]
			if top.Finally != nil {
				s.pendingExit = &pendingExit{funcID: s.curFuncID, at: top.Finally.End, kind: exitReturn, value: val}
				s.ic = top.Finally.Start
				return false, 0
			}
		default:
			s.frames = s.frames[:len(s.frames)-1]
		}
	}
}

// exitCode implements spec.md §4.5/§6: "0 for empty-tuple, else the
// integer payload".
func exitCode(val *runtime.Value) int {
	if val.Kind == runtime.KindInteger {
		return int(val.Int.Int64())
	}
	return 0
}

// unwindLoop implements break(n)/continue(n) (spec.md §4.5): pop
// frames from the top, counting loop frames seen, until the (n+1)-th
// (n, counting from 0) loop frame is reached. Intervening frames, and
// every loop frame counted before reaching the target, are popped
// outright since their own pop-frame instructions will never execute
// on this jump. The target loop frame itself is left on the stack —
// its own trailing pop-frame instruction (break) or its normal
// condition re-check (continue) handles it from here.
//
// A try-frame unwound along the way that carries a Finally is spliced
// in first (same reasoning as doReturn), deferring the break/continue
// via pendingExit until the finally body completes.
func (s *execState) unwindLoop(n int, isBreak bool) {
	seen := 0
	for {
		top := s.frames[len(s.frames)-1]
		switch top.Kind {
		case runtime.FrameLoop:
			if seen == n {
				if isBreak {
					s.ic = top.End
				} else {
					s.ic = top.Start
				}
				return
			}
			seen++
			s.frames = s.frames[:len(s.frames)-1]
		case runtime.FrameTry:
			s.frames = s.frames[:len(s.frames)-1]
			if top.Finally != nil {
				kind := exitContinue
				if isBreak {
					kind = exitBreak
				}
				s.pendingExit = &pendingExit{funcID: s.curFuncID, at: top.Finally.End, kind: kind, n: n - seen}
				s.ic = top.Finally.Start
				return
			}
		default:
			s.frames = s.frames[:len(s.frames)-1]
		}
	}
}

// throwRuntime raises a host-detected error (e.g. an out-of-bounds
// array access) as a Ren exception typed `any`, so it is catchable by
// any catch clause regardless of its declared type. It supersedes any
// deferred return/break/continue still waiting on a finally block —
// this new exception takes over control flow instead.
func (s *execState) throwRuntime(msg string) {
	s.errorValue = runtime.String(msg)
	s.errorType = s.it.arena.Any()
	s.errorMode = true
	s.pendingExit = nil
}

// propagate runs spec.md §4.5's exception propagation routine for one
// step: pop frames top-down, matching the error's type against the
// enclosing try-frames' catches, running finally blocks that have no
// matching catch, and recording passed-through function-frames into
// the stack-trace buffer. Returns exit=true once the program should
// terminate (either an uncaught exception or an empty frame stack).
func (s *execState) propagate() (exit bool, code int, err error) {
	for len(s.frames) > 0 {
		top := s.frames[len(s.frames)-1]
		s.frames = s.frames[:len(s.frames)-1]

		switch top.Kind {
		case runtime.FrameTry:
			matched := -1
			for _, c := range top.Catches {
				if s.it.arena.IsAssignableFrom(c.Type, s.errorType) {
					matched = c.Start
					break
				}
			}
			if matched >= 0 {
				if top.Finally != nil {
					// The matched catch's body is still inside the
					// try's protected region (a return/break/continue
					// executed from the catch body must still run
					// finally first, scenario 6's "finally overrides
					// catch return") — re-push a finally-only guard
					// frame for the catch body's duration. translateTry
					// emits a matching extra PopFrame at the end of
					// every catch that has a finally, for the
					// catch-completes-normally case; an early exit from
					// the catch body consumes this frame itself via
					// doReturn/unwindLoop's own FrameTry handling.
					s.frames = append(s.frames, runtime.NewTryFrame(nil, top.Finally))
				}
				s.ic = matched
				s.errorMode = false
				return false, 0, nil
			}
			if top.Finally != nil {
				s.pending = &pendingRethrow{funcID: s.curFuncID, at: top.Finally.End, value: s.errorValue, typ: s.errorType}
				s.ic = top.Finally.Start
				s.errorMode = false
				return false, 0, nil
			}
		case runtime.FrameFunction:
			if s.pendingExit != nil && s.pendingExit.funcID == top.FuncID {
				s.pendingExit = nil
			}
			s.trace = append(s.trace, top.FuncID)
			s.stackSize--
			if len(s.frames) == 0 {
				s.printUncaught()
				return true, 1, nil
			}
			s.curFuncID = top.CallerFuncID
			s.curFunc = s.it.funcs[top.CallerFuncID]
		}
	}
	s.printUncaught()
	return true, 1, nil
}

// printUncaught writes the uncaught error and its stack trace to
// stderr (spec.md §4.5 point 4), one frame per function passed through
// while unwinding, each naming its declaration location (spec.md §7,
// §8 scenario 8).
func (s *execState) printUncaught() {
	frames := make([]diag.StackFrame, len(s.trace))
	for i, fid := range s.trace {
		name := fmt.Sprintf("#%d", fid)
		var file string
		var pos token.Position
		if fn, ok := s.it.funcs[fid]; ok {
			name = fn.Name
			file = fn.File
			pos = fn.DeclPos
		}
		frames[i] = diag.StackFrame{FuncName: name, File: file, Pos: pos}
	}
	fmt.Fprint(s.it.stderr, diag.FormatStackTrace(s.errorValue.String(), frames))
}
