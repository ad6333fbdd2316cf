package translator

import (
	"strconv"

	"github.com/jchitel/renlang-sub002/internal/ast"
	"github.com/jchitel/renlang-sub002/internal/checker"
	"github.com/jchitel/renlang-sub002/internal/instr"
)

// translateExpr lowers e into a sequence of instructions appended to
// b.instrs and returns the RefID holding its result (spec.md §4.4's
// per-construct expression contracts).
func (b *builder) translateExpr(e *ast.Expr) instr.RefID {
	switch e.Kind {
	case ast.ExprIntLit:
		return b.setLiteral(instr.SetInteger, e.Literal)
	case ast.ExprFloatLit:
		return b.setLiteral(instr.SetFloat, e.Literal)
	case ast.ExprCharLit:
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.SetChar, Dst: dst, UnaryKind: strconv.QuoteRune(e.CharValue)})
		return dst
	case ast.ExprStringLit:
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.SetString, Dst: dst, UnaryKind: e.StringValue})
		return dst
	case ast.ExprBoolLit:
		dst := b.fresh()
		op := instr.Instruction{Op: instr.SetBool, Dst: dst}
		if e.BoolValue {
			op.Index = 1
		}
		b.emit(op)
		return dst
	case ast.ExprIdentifier:
		return b.translateIdentifier(e)
	case ast.ExprArrayLit:
		return b.translateAggregateLit(instr.SetArray, e.Elems, nil)
	case ast.ExprTupleLit:
		return b.translateAggregateLit(instr.SetTuple, e.Elems, nil)
	case ast.ExprStructLit:
		elems := make([]*ast.Expr, len(e.Fields))
		names := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			elems[i] = f.Expr
			names[i] = f.Name
		}
		return b.translateAggregateLit(instr.SetStruct, elems, names)
	case ast.ExprLambda:
		return b.translateLambda(e)
	case ast.ExprUnary:
		operand := b.translateExpr(e.Operand)
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.UnaryOp, Dst: dst, Src: operand, UnaryKind: e.Op.String()})
		return dst
	case ast.ExprBinary:
		left := b.translateExpr(e.Left)
		right := b.translateExpr(e.Right)
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.BinaryOp, Dst: dst, Left: left, Right: right, BinaryKind: e.Op.String()})
		return dst
	case ast.ExprIfElse:
		return b.translateIfElse(e)
	case ast.ExprVarDecl:
		init := b.translateExpr(e.Init)
		b.bind(e.VarName, init)
		return init
	case ast.ExprApplication:
		return b.translateApplication(e)
	case ast.ExprFieldAccess:
		recv := b.translateExpr(e.Receiver)
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.FieldAccess, Dst: dst, Src: recv, Field: e.Field})
		return dst
	case ast.ExprArrayAccess:
		recv := b.translateExpr(e.Receiver)
		idx := b.translateExpr(e.Index)
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.ArrayAccess, Dst: dst, Src: recv, IndexRef: idx})
		return dst
	case ast.ExprParenthesized:
		return b.translateExpr(e.Inner)
	default:
		return b.emptyTuple()
	}
}

func (b *builder) setLiteral(op instr.Op, literal string) instr.RefID {
	dst := b.fresh()
	b.emit(instr.Instruction{Op: op, Dst: dst, UnaryKind: literal})
	return dst
}

// translateIdentifier resolves a name reference against the current
// builder scope chain first (locals/params shadow module scope), then
// the owning module's functions/constants, then its imports — the
// same three-tier order the checker uses for typing (spec.md §4.3).
func (b *builder) translateIdentifier(e *ast.Expr) instr.RefID {
	if ref, ok := b.lookup(e.Name); ok {
		return ref
	}
	if decl, ok := b.mod.Functions[e.Name]; ok {
		fnID := b.t.funcRef(b.mod, decl)
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.SetFunction, Dst: dst, Func: fnID})
		return dst
	}
	if decl, ok := b.mod.Constants[e.Name]; ok {
		return b.translateConstRef(b.mod, decl)
	}
	if imp, ok := b.mod.Imports[e.Name]; ok {
		return b.translateImportedValue(imp, e.Name)
	}
	// Unresolvable identifiers are a checker bug by this stage; emit a
	// noop-valued placeholder rather than panicking the translator.
	return b.emptyTuple()
}

// translateConstRef inlines the "memoized constant wrapper" shape
// (spec.md §4.4) at the current reference site: const-branch skips
// straight to the read if mod's decl was already initialized by some
// earlier reference (in this function or another), else its
// initializer is translated against decl's own owning module — never
// the calling function's local scope, matching the checker's own
// const-declaration rule of checking ConstExpr in a fresh symbol table.
func (b *builder) translateConstRef(mod *checker.Module, decl *ast.Decl) instr.RefID {
	id := b.t.constID(decl)
	branchIdx := b.emit(instr.Instruction{Op: instr.ConstBranch, Const: id})

	savedMod, savedScope, savedParams := b.mod, b.scope, b.paramRefs
	b.mod, b.scope, b.paramRefs = mod, nil, make(map[string]instr.RefID)
	val := b.translateExpr(decl.ConstExpr)
	b.mod, b.scope, b.paramRefs = savedMod, savedScope, savedParams

	b.emit(instr.Instruction{Op: instr.ConstSet, Const: id, Src: val})
	b.patchTarget(branchIdx, b.here())

	dst := b.fresh()
	b.emit(instr.Instruction{Op: instr.ConstRef, Dst: dst, Const: id})
	return dst
}

func (b *builder) translateImportedValue(imp *checker.ImportBinding, name string) instr.RefID {
	target, ok := b.t.moduleByPath(imp.ModulePath)
	if !ok {
		return b.emptyTuple()
	}
	localName := imp.Exported
	if imp.Whole {
		localName = name
	}
	if decl, ok := target.Functions[localName]; ok {
		fnID := b.t.funcRef(target, decl)
		dst := b.fresh()
		b.emit(instr.Instruction{Op: instr.SetFunction, Dst: dst, Func: fnID})
		return dst
	}
	if decl, ok := target.Constants[localName]; ok {
		return b.translateConstRef(target, decl)
	}
	return b.emptyTuple()
}

func (b *builder) translateAggregateLit(op instr.Op, elems []*ast.Expr, fieldNames []string) instr.RefID {
	refs := make([]instr.RefID, len(elems))
	for i, el := range elems {
		refs[i] = b.translateExpr(el)
	}
	dst := b.fresh()
	b.emit(instr.Instruction{Op: op, Dst: dst, Elems: refs, Fields: fieldNames})
	return dst
}

// translateLambda allocates a fresh function id for e's body (spec.md
// §4.4's lambda-to-function contract: every lambda becomes its own
// Function, closing over nothing — captured names are resolved
// through the enclosing scope's AddToScope bindings at the use site
// instead of an upvalue mechanism, since Ren lambdas see the full
// lexical scope chain their containing function already built).
func (b *builder) translateLambda(e *ast.Expr) instr.RefID {
	lambdaDecl := &ast.Decl{Kind: ast.DeclFunction, Name: "<lambda>", Params: e.Params, Body: e.Body, Locs: e.Locs}
	id := b.t.funcRef(b.mod, lambdaDecl)

	dst := b.fresh()
	b.emit(instr.Instruction{Op: instr.SetFunction, Dst: dst, Func: id})
	return dst
}

func (b *builder) translateIfElse(e *ast.Expr) instr.RefID {
	cond := b.translateExpr(e.Cond)
	dst := b.fresh()

	falseJump := b.emit(instr.Instruction{Op: instr.FalseBranch, Src: cond})
	thenVal := b.translateBranch(e.Then)
	b.emit(instr.Instruction{Op: instr.CopyRef, Dst: dst, Src: thenVal})
	endJump := b.emit(instr.Instruction{Op: instr.Jump})

	b.patchTarget(falseJump, b.here())
	if e.Else != nil {
		elseVal := b.translateBranch(e.Else)
		b.emit(instr.Instruction{Op: instr.CopyRef, Dst: dst, Src: elseVal})
	} else {
		b.emit(instr.Instruction{Op: instr.CopyRef, Dst: dst, Src: b.emptyTuple()})
	}
	b.patchTarget(endJump, b.here())
	return dst
}

func (b *builder) translateBranch(n ast.Node) instr.RefID {
	switch v := n.(type) {
	case *ast.Expr:
		return b.translateExpr(v)
	case *ast.Stmt:
		b.translateStmt(v)
		return b.emptyTuple()
	default:
		return b.emptyTuple()
	}
}

func (b *builder) translateApplication(e *ast.Expr) instr.RefID {
	callee := b.translateExpr(e.Callee)
	args := make([]instr.RefID, len(e.Args))
	for i, a := range e.Args {
		args[i] = b.translateExpr(a)
	}
	dst := b.fresh()
	b.emit(instr.Instruction{Op: instr.Call, Dst: dst, Src: callee, Elems: args})
	return dst
}
