// Package translator lowers a checked AST into Ren's flat instruction
// stream (spec.md §4.4): one Function per reachable func/lambda
// declaration, each a linear instr.Instruction vector addressed by
// integer program counter, with nested control constructs flattened
// into explicit jumps and frame push/pop pairs.
//
// The lowering follows the teacher's internal/bytecode Compiler shape
// (internal/bytecode/compiler_core.go): emit-as-you-walk with
// backpatched jump targets, a per-function builder carrying local
// bookkeeping, and lazy translation of only the functions a program
// actually reaches from main — but targets instr.Instruction's tagged
// struct rather than the teacher's packed opcode words, and threads
// Ren's const-memoization (const-branch/const-set) in place of the
// teacher's straight-line global initializers.
package translator

import (
	"fmt"

	"github.com/jchitel/renlang-sub002/internal/ast"
	"github.com/jchitel/renlang-sub002/internal/checker"
	"github.com/jchitel/renlang-sub002/internal/instr"
	"github.com/jchitel/renlang-sub002/internal/token"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// Function is one translated function's instruction stream.
type Function struct {
	ID           instr.FuncID
	Name         string
	NumParams    int
	Instructions []instr.Instruction

	// File/DeclPos locate the declaration that produced this function,
	// for an uncaught-exception stack trace (spec.md §7/§8 scenario 8).
	File    string
	DeclPos token.Position
}

// Program is the complete translated unit handed to internal/vm. The
// constant table itself is runtime-owned (spec.md §3: "const-id ->
// runtime-value, lazily initialized, at-most-once"); the translator
// only needs to have assigned every constant a stable ConstID and
// inlined its guarded initializer at each reference site (spec.md
// §4.4's "memoized constant wrapper" shape), so Program carries no
// separate constant-instruction table.
type Program struct {
	Functions []*Function
	NumConsts int
	Main      instr.FuncID
}

// Translator walks a checker.Module graph (already fully type-checked)
// and produces a Program. Functions are translated lazily and once
// each, starting from the entry module's main function, mirroring
// spec.md §4.4's "translate only what is reachable" contract.
type Translator struct {
	checker  *checker.Checker
	modules  map[string]*checker.Module
	funcIDs  map[*ast.Decl]instr.FuncID
	funcs    []*Function
	constIDs map[*ast.Decl]instr.ConstID
	nextConst instr.ConstID
	nextRef  instr.RefID
	pending  []pendingFunc
}

type pendingFunc struct {
	mod  *checker.Module
	decl *ast.Decl
	id   instr.FuncID
}

// New creates an empty Translator bound to c, the Checker that already
// type-checked the program (used both for its module set, to resolve
// cross-module identifier references, and for catch-clause type
// resolution during try/catch lowering).
func New(c *checker.Checker) *Translator {
	return &Translator{
		checker:  c,
		modules:  c.Modules(),
		funcIDs:  make(map[*ast.Decl]instr.FuncID),
		constIDs: make(map[*ast.Decl]instr.ConstID),
	}
}

func (t *Translator) moduleByPath(path string) (*checker.Module, bool) {
	m, ok := t.modules[path]
	return m, ok
}

// Translate lowers entry's main function and everything it transitively
// reaches into a Program. entry must already have passed type checking.
func (t *Translator) Translate(entry *checker.Module) (*Program, error) {
	mainDecl, ok := entry.Functions["main"]
	if !ok {
		return nil, fmt.Errorf("module %q declares no main function", entry.Path)
	}
	if err := t.checkMainSignature(mainDecl); err != nil {
		return nil, err
	}
	mainID := t.funcRef(entry, mainDecl)

	for len(t.pending) > 0 {
		next := t.pending[0]
		t.pending = t.pending[1:]
		fn, err := t.translateFunction(next.mod, next.decl, next.id)
		if err != nil {
			return nil, err
		}
		t.funcs = append(t.funcs, fn)
	}

	return &Program{Functions: t.funcs, NumConsts: int(t.nextConst), Main: mainID}, nil
}

// checkMainSignature verifies main's signature is
// (array of array of char) -> (empty-tuple | integer), per spec.md
// §4.4's translator entry point contract.
func (t *Translator) checkMainSignature(mainDecl *ast.Decl) error {
	arena := t.checker.Arena
	if len(mainDecl.Params) != 1 {
		return fmt.Errorf("main must take exactly one parameter (array of array of char), got %d", len(mainDecl.Params))
	}
	fnType := arena.Get(mainDecl.ResolvedType)
	wantParam := arena.NewArray(arena.NewArray(arena.Char()))
	if !arena.IsAssignableFrom(wantParam, fnType.Params[0]) {
		return fmt.Errorf("main's parameter must be assignable from array of array of char")
	}
	ret := fnType.Return
	retType := arena.Get(ret)
	emptyTuple := retType.Kind == types.KindTuple && len(retType.Elems) == 0
	if !emptyTuple && retType.Kind != types.KindInteger {
		return fmt.Errorf("main must return empty-tuple or an integer")
	}
	return nil
}

// funcRef returns decl's assigned FuncID, enqueueing it for translation
// the first time it is referenced (spec.md §4.4's lazy cross-module
// reference rule).
func (t *Translator) funcRef(mod *checker.Module, decl *ast.Decl) instr.FuncID {
	if id, ok := t.funcIDs[decl]; ok {
		return id
	}
	id := instr.FuncID(len(t.funcIDs))
	t.funcIDs[decl] = id
	t.pending = append(t.pending, pendingFunc{mod: mod, decl: decl, id: id})
	return id
}

// constID returns decl's assigned ConstID, allocating a fresh one on
// first reference. Unlike funcRef, this does not translate anything:
// the initializer is inlined, guarded, at each reference site (see
// builder.translateConstRef) rather than compiled once into a shared
// stream, since "first writer wins" is a runtime property of the
// global const-id, not a translation-time one (spec.md §5).
func (t *Translator) constID(decl *ast.Decl) instr.ConstID {
	if id, ok := t.constIDs[decl]; ok {
		return id
	}
	id := t.nextConst
	t.nextConst++
	t.constIDs[decl] = id
	return id
}

func (t *Translator) translateFunction(mod *checker.Module, decl *ast.Decl, id instr.FuncID) (*Function, error) {
	b := newBuilder(t, mod)
	for i, p := range decl.Params {
		ref := b.fresh()
		b.paramRefs[p.Name] = ref
		b.emit(instr.Instruction{Op: instr.ParamRef, Dst: ref, Index: i})
	}
	b.pushScope()
	for _, p := range decl.Params {
		b.emit(instr.Instruction{Op: instr.AddToScope, Name: p.Name, Src: b.paramRefs[p.Name]})
	}

	switch body := decl.Body.(type) {
	case *ast.Expr:
		result := b.translateExpr(body)
		b.emit(instr.Instruction{Op: instr.Return, Src: result})
	case *ast.Stmt:
		b.translateStmt(body)
		// A block-bodied function that falls through its last statement
		// without an explicit return yields the empty tuple (spec.md §4.3).
		b.emit(instr.Instruction{Op: instr.Return, Src: b.emptyTuple()})
	default:
		return nil, fmt.Errorf("function %q has no body", decl.Name)
	}
	b.popScope()

	return &Function{
		ID:           id,
		Name:         decl.Name,
		NumParams:    len(decl.Params),
		Instructions: b.instrs,
		File:         mod.Path,
		DeclPos:      decl.Locs.Self().Start,
	}, nil
}

// builder accumulates one function's instruction stream and its
// ref/label bookkeeping (spec.md §4.4's per-function translation
// state), modeled on the teacher's per-compiler locals/loopStack
// fields in internal/bytecode/compiler_core.go.
type builder struct {
	t         *Translator
	mod       *checker.Module
	instrs    []instr.Instruction
	paramRefs map[string]instr.RefID
	scope     []map[string]instr.RefID // innermost-last binding maps, for local reads
}

func newBuilder(t *Translator, mod *checker.Module) *builder {
	return &builder{t: t, mod: mod, paramRefs: make(map[string]instr.RefID)}
}

func (b *builder) fresh() instr.RefID {
	id := b.t.nextRef
	b.t.nextRef++
	return id
}

func (b *builder) emit(i instr.Instruction) int {
	b.instrs = append(b.instrs, i)
	return len(b.instrs) - 1
}

func (b *builder) here() int { return len(b.instrs) }

func (b *builder) patchTarget(idx, target int) {
	b.instrs[idx].Target = target
}

func (b *builder) pushScope() {
	b.instrs = append(b.instrs, instr.Instruction{Op: instr.PushScopeFrame})
	b.scope = append(b.scope, make(map[string]instr.RefID))
}

func (b *builder) popScope() {
	b.emit(instr.Instruction{Op: instr.PopFrame})
	b.scope = b.scope[:len(b.scope)-1]
}

func (b *builder) bind(name string, ref instr.RefID) {
	if len(b.scope) == 0 {
		return
	}
	b.scope[len(b.scope)-1][name] = ref
	b.emit(instr.Instruction{Op: instr.AddToScope, Name: name, Src: ref})
}

func (b *builder) lookup(name string) (instr.RefID, bool) {
	for i := len(b.scope) - 1; i >= 0; i-- {
		if ref, ok := b.scope[i][name]; ok {
			return ref, true
		}
	}
	if ref, ok := b.paramRefs[name]; ok {
		return ref, true
	}
	return 0, false
}

func (b *builder) emptyTuple() instr.RefID {
	dst := b.fresh()
	b.emit(instr.Instruction{Op: instr.SetTuple, Dst: dst})
	return dst
}
