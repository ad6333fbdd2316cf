package runtime

import "github.com/jchitel/renlang-sub002/internal/instr"

// FrameKind tags a Frame's active variant (spec.md §3 "Frame").
type FrameKind int

const (
	FrameScope FrameKind = iota
	FrameLoop
	FrameTry
	FrameFunction
)

// Frame is one entry of the interpreter's live frame stack. Every
// variant carries a `Names` scope map because scope, loop, try, and
// function frames are all also binding sites (spec.md §3 spells each
// variant's binding map as "name -> ref-id" explicitly).
type Frame struct {
	Kind FrameKind

	Names map[string]instr.RefID

	// FrameLoop
	Start int
	End   int

	// FrameTry
	Catches []instr.Catch
	Finally *instr.FinallyRange

	// FrameFunction
	FuncID           instr.FuncID
	Args             []*Value
	CallerFuncID     instr.FuncID
	CallerFrameIndex int
	ReturnIC         int
	ReturnRef        instr.RefID
}

func NewScopeFrame() *Frame {
	return &Frame{Kind: FrameScope, Names: make(map[string]instr.RefID)}
}

func NewLoopFrame(start, end int) *Frame {
	return &Frame{Kind: FrameLoop, Names: make(map[string]instr.RefID), Start: start, End: end}
}

func NewTryFrame(catches []instr.Catch, finally *instr.FinallyRange) *Frame {
	return &Frame{Kind: FrameTry, Names: make(map[string]instr.RefID), Catches: catches, Finally: finally}
}

func NewFunctionFrame(funcID instr.FuncID, args []*Value, callerFuncID instr.FuncID, callerFrameIndex, returnIC int, returnRef instr.RefID) *Frame {
	return &Frame{
		Kind:             FrameFunction,
		Names:            make(map[string]instr.RefID),
		FuncID:           funcID,
		Args:             args,
		CallerFuncID:     callerFuncID,
		CallerFrameIndex: callerFrameIndex,
		ReturnIC:         returnIC,
		ReturnRef:        returnRef,
	}
}

// Bind records name -> ref in the frame's scope map (add-to-scope,
// spec.md §3). Every frame kind is itself a binding site, so this is
// not restricted to scope-frames.
func (f *Frame) Bind(name string, ref instr.RefID) {
	f.Names[name] = ref
}

// Lookup searches only this frame's own bindings; the interpreter
// walks the frame stack top-down across frames to implement full
// lexical scoping (spec.md §4.4: "a stack of maps from name to ref-id").
func (f *Frame) Lookup(name string) (instr.RefID, bool) {
	ref, ok := f.Names[name]
	return ref, ok
}
