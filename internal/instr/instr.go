// Package instr defines Ren's flat instruction set (spec.md §3/§4.5):
// a closed tagged-variant instruction stream indexed by integer
// program counters, grounded on the teacher's
// internal/bytecode/instruction.go doc-comment-per-opcode style and
// its OpCodeNames disassembly table. Unlike the teacher's packed
// 32-bit encoding (opcode+operands in one word, suited to its
// register-poor stack machine), Ren's instructions carry richer
// operand shapes (catch lists, optional finally ranges) that do not
// fit a fixed-width word, so each Instruction is a small tagged struct
// rather than a bit-packed uint32 — the closed-enumeration spirit is
// the same, the physical representation is not.
package instr

import "github.com/jchitel/renlang-sub002/internal/types"

// RefID is a global reference-table index, allocated monotonically at
// translation time (spec.md §3).
type RefID int

// ConstID is a global constant-table index, allocated monotonically
// at translation time.
type ConstID int

// FuncID identifies a translated function (spec.md §4.4).
type FuncID int

// Op tags an Instruction's variant.
type Op int

const (
	// ---- Value-setting refs ----

	// SetInteger writes a literal integer into Dst.
	SetInteger Op = iota
	// SetFloat writes a literal float into Dst.
	SetFloat
	// SetChar writes a literal char into Dst.
	SetChar
	// SetBool writes a literal bool into Dst.
	SetBool
	// SetString writes a literal string (array of char) into Dst.
	SetString
	// SetArray builds an array from Elems and writes it into Dst.
	SetArray
	// SetTuple builds a tuple from Elems and writes it into Dst.
	SetTuple
	// SetStruct builds a struct from Fields/Elems and writes it into Dst.
	SetStruct
	// SetFunction materializes a function handle for Func and writes it into Dst.
	SetFunction

	// ---- Derived refs ----

	// ParamRef copies the Index-th parameter of the current call into Dst.
	ParamRef
	// ErrorRef copies the current in-flight error value into Dst.
	ErrorRef
	// UnaryOp applies UnaryKind to Src, writing the result into Dst.
	UnaryOp
	// BinaryOp applies BinaryKind to Left/Right, writing the result into Dst.
	BinaryOp
	// FieldAccess reads Field off Src, writing it into Dst.
	FieldAccess
	// ArrayAccess reads Src[Index], writing it into Dst.
	ArrayAccess
	// ConstRef copies the value at Const into Dst.
	ConstRef
	// CopyRef copies Src into Dst.
	CopyRef
	// MutateRef overwrites Dst in place with Src (array/struct element mutation).
	MutateRef
	// InteropRef computes a new value from Elems via the closed Intrinsic enum.
	InteropRef
	// Call invokes the function handle in Src with argument refs Elems,
	// pushing a function-frame and writing its return value into Dst
	// (spec.md §2 names "function call/return" as an instruction-set
	// category without listing a distinct mnemonic in §3's enumeration;
	// Call fills that gap, grounded on the teacher's OpCall/OpCallIndirect).
	Call

	// ---- Scope / loop / try frames ----

	// PushScopeFrame opens a new lexical scope frame.
	PushScopeFrame
	// PushLoopFrame opens a loop frame spanning [Start, End).
	PushLoopFrame
	// PushTryFrame opens a try frame with Catches and an optional Finally range.
	PushTryFrame
	// PopFrame closes the innermost frame.
	PopFrame
	// AddToScope binds Name to Src in the current scope frame.
	AddToScope

	// ---- Control ----

	// FalseBranch jumps to Target if Src is false.
	FalseBranch
	// TrueBranch jumps to Target if Src is true.
	TrueBranch
	// Jump unconditionally jumps to Target.
	Jump
	// ConstBranch jumps to Target if Const is already initialized.
	ConstBranch
	// Return returns Src from the current function.
	Return
	// Throw throws Src, entering unwind mode.
	Throw
	// Break unwinds N+1 loop frames and resumes after the loop.
	Break
	// Continue unwinds N+1 loop frames and resumes at the loop condition.
	Continue
	// ConstSet stores Src into Const, marking it initialized.
	ConstSet
	// Noop does nothing; emitted for syntactically-empty constructs.
	Noop
)

// opNames names every Op for disassembly (mirrors the teacher's
// OpCodeNames table).
var opNames = [...]string{
	SetInteger: "SET_INTEGER", SetFloat: "SET_FLOAT", SetChar: "SET_CHAR",
	SetBool: "SET_BOOL", SetString: "SET_STRING", SetArray: "SET_ARRAY",
	SetTuple: "SET_TUPLE", SetStruct: "SET_STRUCT", SetFunction: "SET_FUNCTION",
	ParamRef: "PARAM_REF", ErrorRef: "ERROR_REF", UnaryOp: "UNARY_OP",
	BinaryOp: "BINARY_OP", FieldAccess: "FIELD_ACCESS", ArrayAccess: "ARRAY_ACCESS",
	ConstRef: "CONST_REF", CopyRef: "COPY_REF", MutateRef: "MUTATE_REF",
	InteropRef: "INTEROP_REF", Call: "CALL", PushScopeFrame: "PUSH_SCOPE_FRAME",
	PushLoopFrame: "PUSH_LOOP_FRAME", PushTryFrame: "PUSH_TRY_FRAME",
	PopFrame: "POP_FRAME", AddToScope: "ADD_TO_SCOPE", FalseBranch: "FALSE_BRANCH",
	TrueBranch: "TRUE_BRANCH", Jump: "JUMP", ConstBranch: "CONST_BRANCH",
	Return: "RETURN", Throw: "THROW", Break: "BREAK", Continue: "CONTINUE",
	ConstSet: "CONST_SET", Noop: "NOOP",
}

func (op Op) String() string {
	if int(op) < len(opNames) && opNames[op] != "" {
		return opNames[op]
	}
	return "UNKNOWN"
}

// Intrinsic enumerates the closed set of interop-ref combinators
// (spec.md §4.5/§9: "replace host combinators with a closed
// enumeration of intrinsic opcodes"). No instruction ever embeds a
// host function pointer.
type Intrinsic int

const (
	IntrinsicArrayLength Intrinsic = iota
	IntrinsicArrayIndex
	IntrinsicIntIncrement
	IntrinsicIntLessThan
)

func (i Intrinsic) String() string {
	switch i {
	case IntrinsicArrayLength:
		return "array-length"
	case IntrinsicArrayIndex:
		return "array-index"
	case IntrinsicIntIncrement:
		return "int-increment"
	case IntrinsicIntLessThan:
		return "int-less-than"
	default:
		return "unknown-intrinsic"
	}
}

// Catch is one entry of a PushTryFrame's catch list: the instruction
// index its handler starts at and the declared catch type.
type Catch struct {
	Start int
	Type  types.TypeID
}

// FinallyRange names a try frame's optional finally block span.
type FinallyRange struct {
	Start, End int
}

// Instruction is the closed tagged-variant instruction payload.
// All branch/jump targets are absolute indices within the owning
// Function's instruction vector.
type Instruction struct {
	Op Op

	Dst  RefID
	Src  RefID
	Left RefID
	Right RefID

	Index    int // ParamRef parameter index; SetBool's 0/1 literal value
	IndexRef RefID // ArrayAccess index ref

	Field string

	Elems  []RefID
	Fields []string // SetStruct field names, parallel to Elems

	Func  FuncID
	Const ConstID

	UnaryKind  string // e.g. "neg", "not", "bitnot" — token text of the source operator
	BinaryKind string

	Kind Intrinsic // InteropRef

	Name string // AddToScope

	Start, End int // PushLoopFrame
	Catches    []Catch
	Finally    *FinallyRange

	Target int // branches/jumps
	N      int // Break/Continue depth

	// ValueType is Throw's thrown expression's statically resolved type
	// (spec.md §4.5's exception routine tests "a catch type is
	// assignable from the error's type" — a runtime Value carries no
	// type tag of its own, so the translator records the static type
	// here at the one point it is known, mirroring Catch.Type).
	ValueType types.TypeID
}
