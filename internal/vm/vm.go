// Package vm is Ren's stack-machine interpreter (spec.md §4.5):
// single-threaded, instruction-counter dispatch over one
// translator.Function at a time, with a frame stack holding scope,
// loop, try, and function frames, a global reference table, and a
// constants table lazily populated at most once per const-id.
//
// The dispatch loop follows the teacher's internal/bytecode/vm_core.go
// shape (a frame stack, frame.ip advancing per instruction, a single
// big switch over opcodes) but trades the teacher's Value-stack /
// operand-stack machine for Ren's ref-addressed one: every instruction
// reads/writes named RefIDs in a flat table rather than pushing and
// popping an operand stack.
package vm

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"

	"github.com/jchitel/renlang-sub002/internal/instr"
	"github.com/jchitel/renlang-sub002/internal/runtime"
	"github.com/jchitel/renlang-sub002/internal/translator"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// DefaultMaxStackDepth bounds the number of nested function-frames the
// interpreter allows before raising an uncatchable out-of-stack error
// (spec.md §5: "enforce a configurable maximum stack depth").
const DefaultMaxStackDepth = 4096

// Interpreter executes one translator.Program.
type Interpreter struct {
	prog  *translator.Program
	arena *types.Arena
	funcs map[instr.FuncID]*translator.Function

	maxStackDepth int
	stdout        io.Writer
	stderr        io.Writer
}

// New prepares an Interpreter for prog. arena is the same types.Arena
// the checker produced prog's static types from — the exception
// routine needs it to test catch-type assignability (spec.md §4.5).
func New(prog *translator.Program, arena *types.Arena) *Interpreter {
	funcs := make(map[instr.FuncID]*translator.Function, len(prog.Functions))
	for _, fn := range prog.Functions {
		funcs[fn.ID] = fn
	}
	return &Interpreter{
		prog:          prog,
		arena:         arena,
		funcs:         funcs,
		maxStackDepth: DefaultMaxStackDepth,
		stdout:        os.Stdout,
		stderr:        os.Stderr,
	}
}

func (it *Interpreter) SetMaxStackDepth(n int) { it.maxStackDepth = n }
func (it *Interpreter) SetOutput(stdout, stderr io.Writer) {
	it.stdout, it.stderr = stdout, stderr
}

// execState is one Run call's mutable machine state. Splitting it out
// of Interpreter keeps the Interpreter itself reentrant-safe (the same
// prepared Interpreter could in principle Run twice), matching the
// teacher's vm.reset()-before-Run discipline without needing a reset
// step at all.
type execState struct {
	it *Interpreter

	refs     map[instr.RefID]*runtime.Value
	consts   map[instr.ConstID]*runtime.Value
	constSet map[instr.ConstID]bool

	frames    []*runtime.Frame
	stackSize int

	curFuncID instr.FuncID
	curFunc   *translator.Function
	ic        int

	errorMode  bool
	errorValue *runtime.Value
	errorType  types.TypeID

	pending *pendingRethrow
	trace   []instr.FuncID

	pendingExit *pendingExit
}

// pendingRethrow remembers an error that a finally-without-matching-
// catch must re-raise once the spliced-in finally body finishes
// (spec.md §4.5 point 2: "execute its instructions inline before
// continuing to unwind"). Ren's finally body is ordinary code in the
// owning function's own instruction stream, so "inline" is implemented
// by resuming normal dispatch at Finally.Start and watching for
// execution to reach Finally.End in that same function activation.
type pendingRethrow struct {
	funcID instr.FuncID
	at     int
	value  *runtime.Value
	typ    types.TypeID
}

// exitKind tags which deferred control-transfer a pendingExit resumes.
type exitKind int

const (
	exitReturn exitKind = iota
	exitBreak
	exitContinue
)

// pendingExit mirrors pendingRethrow for the non-exceptional case: a
// return/break/continue reached from inside a try or catch body must
// still run that try's finally block before actually transferring
// control (scenario 6's "finally overrides catch return" — a return
// executed by the finally body itself takes precedence, since it
// issues its own doReturn/unwindLoop call that overwrites or bypasses
// this one before it ever fires).
type pendingExit struct {
	funcID instr.FuncID
	at     int
	kind   exitKind
	value  *runtime.Value // exitReturn
	n      int             // exitBreak / exitContinue: remaining loop depth
}

// Run executes the program's main function with argv bound to its
// array-of-array-of-char parameter, returning the process exit code
// (spec.md §4.5: 0 for an empty-tuple return, else the integer
// payload; non-zero on an uncaught exception).
func (it *Interpreter) Run(argv []string) (int, error) {
	mainFn, ok := it.funcs[it.prog.Main]
	if !ok {
		return 0, fmt.Errorf("vm: program has no function #%d for its declared main", it.prog.Main)
	}

	args := make([]*runtime.Value, len(argv))
	for i, a := range argv {
		args[i] = runtime.String(a)
	}

	s := &execState{
		it:        it,
		refs:      make(map[instr.RefID]*runtime.Value),
		consts:    make(map[instr.ConstID]*runtime.Value),
		constSet:  make(map[instr.ConstID]bool),
		curFuncID: it.prog.Main,
		curFunc:   mainFn,
	}
	entry := runtime.NewFunctionFrame(it.prog.Main, []*runtime.Value{runtime.Array(args)}, it.prog.Main, -1, 0, 0)
	s.frames = append(s.frames, entry)
	s.stackSize = 1

	return s.run()
}

func (s *execState) activeFrame() *runtime.Frame {
	return s.frames[len(s.frames)-1]
}

// run is the main dispatch loop.
func (s *execState) run() (int, error) {
	for {
		if s.errorMode {
			exit, code, err := s.propagate()
			if err != nil {
				return 1, err
			}
			if exit {
				return code, nil
			}
			continue
		}

		if s.pending != nil && s.curFuncID == s.pending.funcID && s.ic == s.pending.at {
			s.errorValue, s.errorType, s.errorMode = s.pending.value, s.pending.typ, true
			s.pending = nil
			continue
		}

		if s.pendingExit != nil && s.curFuncID == s.pendingExit.funcID && s.ic == s.pendingExit.at {
			pe := s.pendingExit
			s.pendingExit = nil
			switch pe.kind {
			case exitReturn:
				exit, code := s.doReturn(pe.value)
				if exit {
					return code, nil
				}
			case exitBreak:
				s.unwindLoop(pe.n, true)
			case exitContinue:
				s.unwindLoop(pe.n, false)
			}
			continue
		}

		if s.ic >= len(s.curFunc.Instructions) {
			exit, code := s.doReturn(runtime.EmptyTuple())
			if exit {
				return code, nil
			}
			continue
		}

		in := s.curFunc.Instructions[s.ic]
		s.ic++

		switch in.Op {
		case instr.SetInteger:
			n, _ := new(big.Int).SetString(in.UnaryKind, 10)
			if n == nil {
				n = big.NewInt(0)
			}
			s.refs[in.Dst] = runtime.IntegerBig(n)
		case instr.SetFloat:
			f, _ := strconv.ParseFloat(in.UnaryKind, 64)
			s.refs[in.Dst] = runtime.Float(f)
		case instr.SetChar:
			s.refs[in.Dst] = runtime.Char(unquoteChar(in.UnaryKind))
		case instr.SetBool:
			s.refs[in.Dst] = runtime.Bool(in.Index != 0)
		case instr.SetString:
			s.refs[in.Dst] = runtime.String(in.UnaryKind)
		case instr.SetArray:
			s.refs[in.Dst] = runtime.Array(s.resolveElems(in.Elems))
		case instr.SetTuple:
			s.refs[in.Dst] = runtime.Tuple(s.resolveElems(in.Elems))
		case instr.SetStruct:
			fields := make(map[string]*runtime.Value, len(in.Elems))
			for i, name := range in.Fields {
				fields[name] = s.refs[in.Elems[i]]
			}
			s.refs[in.Dst] = runtime.Struct(append([]string(nil), in.Fields...), fields)
		case instr.SetFunction:
			s.refs[in.Dst] = runtime.Function(in.Func)

		case instr.ParamRef:
			s.refs[in.Dst] = s.funcFrame().Args[in.Index]
		case instr.ErrorRef:
			s.refs[in.Dst] = s.errorValue
		case instr.UnaryOp:
			v, err := applyUnary(in.UnaryKind, s.refs[in.Src])
			if err != nil {
				s.throwRuntime(err.Error())
				continue
			}
			s.refs[in.Dst] = v
		case instr.BinaryOp:
			v, err := applyBinary(in.BinaryKind, s.refs[in.Left], s.refs[in.Right])
			if err != nil {
				s.throwRuntime(err.Error())
				continue
			}
			s.refs[in.Dst] = v
		case instr.FieldAccess:
			s.refs[in.Dst] = s.refs[in.Src].Fields[in.Field]
		case instr.ArrayAccess:
			recv := s.refs[in.Src]
			idx := s.refs[in.IndexRef].Int.Int64()
			if idx < 0 || idx >= int64(len(recv.Elems)) {
				s.throwRuntime(fmt.Sprintf("array index %d out of bounds (length %d)", idx, len(recv.Elems)))
				continue
			}
			s.refs[in.Dst] = recv.Elems[idx]
		case instr.ConstRef:
			s.refs[in.Dst] = s.consts[in.Const]
		case instr.CopyRef:
			s.refs[in.Dst] = s.refs[in.Src].Clone()
		case instr.MutateRef:
			*s.refs[in.Dst] = *s.refs[in.Src]
		case instr.InteropRef:
			v, err := s.applyIntrinsic(in.Kind, in.Elems)
			if err != nil {
				s.throwRuntime(err.Error())
				continue
			}
			s.refs[in.Dst] = v
		case instr.Call:
			if err := s.doCall(in); err != nil {
				return 1, err
			}

		case instr.PushScopeFrame:
			s.frames = append(s.frames, runtime.NewScopeFrame())
		case instr.PushLoopFrame:
			s.frames = append(s.frames, runtime.NewLoopFrame(in.Start, in.End))
		case instr.PushTryFrame:
			s.frames = append(s.frames, runtime.NewTryFrame(in.Catches, in.Finally))
		case instr.PopFrame:
			s.frames = s.frames[:len(s.frames)-1]
		case instr.AddToScope:
			s.activeFrame().Bind(in.Name, in.Src)

		case instr.FalseBranch:
			if !s.refs[in.Src].Bool {
				s.ic = in.Target
			}
		case instr.TrueBranch:
			if s.refs[in.Src].Bool {
				s.ic = in.Target
			}
		case instr.Jump:
			s.ic = in.Target
		case instr.ConstBranch:
			if s.constSet[in.Const] {
				s.ic = in.Target
			}
		case instr.Return:
			exit, code := s.doReturn(s.refs[in.Src])
			if exit {
				return code, nil
			}
		case instr.Throw:
			s.errorValue, s.errorType, s.errorMode = s.refs[in.Src], in.ValueType, true
			s.pendingExit = nil
		case instr.Break:
			s.unwindLoop(in.N, true)
		case instr.Continue:
			s.unwindLoop(in.N, false)
		case instr.ConstSet:
			s.consts[in.Const] = s.refs[in.Src]
			s.constSet[in.Const] = true
		case instr.Noop:
			// no-op
		}
	}
}

func (s *execState) resolveElems(elems []instr.RefID) []*runtime.Value {
	out := make([]*runtime.Value, len(elems))
	for i, e := range elems {
		out[i] = s.refs[e]
	}
	return out
}

// funcFrame returns the innermost function-frame, walking down past
// any scope/loop/try frames opened above it.
func (s *execState) funcFrame() *runtime.Frame {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == runtime.FrameFunction {
			return s.frames[i]
		}
	}
	return nil
}

// unquoteChar reverses the translator's strconv.QuoteRune encoding of a
// char literal's value.
func unquoteChar(quoted string) rune {
	s, err := strconv.Unquote(quoted)
	if err != nil || len(s) == 0 {
		return 0
	}
	r := []rune(s)
	return r[0]
}
