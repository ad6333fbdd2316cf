package ast

import (
	"fmt"

	"github.com/jchitel/renlang-sub002/internal/cst"
	"github.com/jchitel/renlang-sub002/internal/token"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// Reducer turns a CST into the AST, folding operator-precedence chains
// and normalizing empty blocks to noop statements (spec.md §4.2).
// Reduce is idempotent on its own output: a Reducer never runs twice
// over the same tree in this pipeline, but re-running Reduce over an
// already-reduced program is a no-op by construction since ast nodes
// are not cst.Node values.
type Reducer struct {
	errs []string
}

// Reduce converts a parsed cst.Program into the checker-facing AST.
func Reduce(prog *cst.Program) (*Decl, []string) {
	r := &Reducer{}
	out := r.program(prog)
	return out, r.errs
}

func (r *Reducer) errorf(pos token.Position, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.errs = append(r.errs, fmt.Sprintf("%s [%d:%d]", msg, pos.Line, pos.Column))
}

func (r *Reducer) program(p *cst.Program) *Decl {
	decls := make([]*Decl, 0, len(p.Decls))
	for _, d := range p.Decls {
		decls = append(decls, r.decl(d))
	}
	return &Decl{Kind: DeclProgram, Locs: single(p.Range()), Decls: decls}
}

func (r *Reducer) decl(n cst.Node) *Decl {
	switch d := n.(type) {
	case *cst.ImportDecl:
		specs := make([]ImportSpec, len(d.Specs))
		for i, s := range d.Specs {
			specs[i] = ImportSpec{LocalAlias: s.LocalAlias, Exported: s.Exported}
		}
		return &Decl{Kind: DeclImport, Locs: single(d.Range()), ModulePath: d.ModulePath, WholeAlias: d.WholeAlias, Specs: specs}
	case *cst.ExportDecl:
		out := &Decl{Kind: DeclExport, Locs: single(d.Range()), Name: d.Name, Default: d.Default, RefName: d.RefName}
		if d.Inline != nil {
			out.Inline = r.decl(d.Inline)
		}
		return out
	case *cst.FuncDecl:
		return r.funcDecl(d)
	case *cst.TypeDecl:
		return &Decl{Kind: DeclType, Locs: single(d.Range()), Name: d.Name, TypeRHS: r.typeExpr(d.Type)}
	case *cst.ConstDecl:
		return &Decl{Kind: DeclConstant, Locs: single(d.Range()), Name: d.Name, ConstExpr: r.expr(d.Expr)}
	case *cst.NamespaceDecl:
		nd := &Decl{Kind: DeclNamespace, Locs: single(d.Range()), Name: d.Name}
		for _, sub := range d.Decls {
			nd.NSDecls = append(nd.NSDecls, r.decl(sub))
		}
		return nd
	default:
		r.errorf(n.Range().Start, "internal: unreduced declaration node %T", n)
		return &Decl{Kind: DeclConstant, Locs: single(n.Range())}
	}
}

func (r *Reducer) funcDecl(d *cst.FuncDecl) *Decl {
	out := &Decl{Kind: DeclFunction, Locs: single(d.Range()), Name: d.Name, ReturnType: r.typeExpr(d.ReturnType)}
	for _, tp := range d.TypeParams {
		out.TypeParams = append(out.TypeParams, r.typeParam(tp))
	}
	for _, p := range d.Params {
		out.Params = append(out.Params, r.param(p))
	}
	out.Body = r.bodyNode(d.Body)
	return out
}

func (r *Reducer) param(p *cst.Param) *Decl {
	return &Decl{Kind: DeclParameter, Locs: single(p.Range()), Name: p.Name, ParamType: r.typeExpr(p.Type)}
}

func (r *Reducer) typeParam(tp *cst.TypeParam) *Decl {
	out := &Decl{Kind: DeclTypeParameter, Locs: single(tp.Range()), Name: tp.Name, Variance: variance(tp.Variance)}
	if tp.Constraint != nil {
		out.Constraint = r.typeExpr(tp.Constraint)
	}
	return out
}

// bodyNode reduces a function/lambda body, which is either a block
// statement or a bare expression (the `=> expr` shorthand form).
func (r *Reducer) bodyNode(n cst.Node) Node {
	if n == nil {
		return nil
	}
	if _, ok := n.(*cst.Block); ok {
		return r.stmt(n)
	}
	return r.expr(n)
}

// ---- Types ----

func (r *Reducer) typeExpr(n cst.Node) *TypeExpr {
	if n == nil {
		return nil
	}
	switch t := n.(type) {
	case *cst.PrimitiveType:
		return &TypeExpr{Kind: TypePrimitive, Locs: single(t.Range()), Name: t.Name}
	case *cst.IdentType:
		return &TypeExpr{Kind: TypeIdentifier, Locs: single(t.Range()), Name: t.Name}
	case *cst.FuncType:
		out := &TypeExpr{Kind: TypeFunction, Locs: single(t.Range()), Return: r.typeExpr(t.Return)}
		for _, tp := range t.TypeParams {
			out.TypeParams = append(out.TypeParams, r.typeParam(tp))
		}
		for _, p := range t.Params {
			out.Params = append(out.Params, r.typeExpr(p))
		}
		return out
	case *cst.TupleType:
		out := &TypeExpr{Kind: TypeTuple, Locs: single(t.Range())}
		for _, e := range t.Elems {
			out.Elems = append(out.Elems, r.typeExpr(e))
		}
		return out
	case *cst.StructTypeNode:
		out := &TypeExpr{Kind: TypeStruct, Locs: single(t.Range())}
		for _, f := range t.Fields {
			out.Fields = append(out.Fields, TypeStructField{Name: f.Name, Type: r.typeExpr(f.Type)})
		}
		return out
	case *cst.ArrayTypeNode:
		return &TypeExpr{Kind: TypeArray, Locs: single(t.Range()), Inner: r.typeExpr(t.Elem)}
	case *cst.UnionTypeNode:
		out := &TypeExpr{Kind: TypeUnion, Locs: single(t.Range())}
		for _, m := range t.Members {
			out.Members = append(out.Members, r.typeExpr(m))
		}
		return out
	case *cst.SpecificType:
		out := &TypeExpr{Kind: TypeSpecific, Locs: single(t.Range()), Generic: r.typeExpr(t.Generic)}
		for _, arg := range t.Args {
			out.Args = append(out.Args, r.typeExpr(arg))
		}
		return out
	case *cst.ParenType:
		return &TypeExpr{Kind: TypeParenthesized, Locs: single(t.Range()), Inner: r.typeExpr(t.Inner)}
	case *cst.NamespaceAccessType:
		return &TypeExpr{Kind: TypeNamespaceAccess, Locs: single(t.Range()), Namespace: r.typeExpr(t.Namespace), Name: t.Name}
	default:
		r.errorf(n.Range().Start, "internal: unreduced type node %T", n)
		return &TypeExpr{Kind: TypePrimitive, Locs: single(n.Range()), Name: "unknown"}
	}
}

func variance(v cst.Variance) types.Variance {
	switch v {
	case cst.Covariant:
		return types.Covariant
	case cst.Contravariant:
		return types.Contravariant
	default:
		return types.Invariant
	}
}

// ---- Statements ----

func (r *Reducer) stmt(n cst.Node) *Stmt {
	switch s := n.(type) {
	case *cst.Block:
		// An empty block normalizes to a single noop carrying the brace
		// span, so empty function bodies remain syntactically locatable
		// (spec.md §4.2).
		if len(s.Stmts) == 0 {
			return &Stmt{Kind: StmtNoop, Locs: single(s.Range())}
		}
		out := &Stmt{Kind: StmtBlock, Locs: single(s.Range())}
		for _, sub := range s.Stmts {
			out.Stmts = append(out.Stmts, r.stmtOrExpr(sub))
		}
		return out
	case *cst.ExprStmt:
		if s.Expr == nil {
			return &Stmt{Kind: StmtNoop, Locs: single(s.Range())}
		}
		return &Stmt{Kind: StmtExpression, Locs: single(s.Range()), Expr: r.expr(s.Expr)}
	case *cst.ForStmt:
		return &Stmt{Kind: StmtFor, Locs: single(s.Range()), IterVar: s.Var, Iter: r.expr(s.Iter), Body: r.stmt(s.Body)}
	case *cst.WhileStmt:
		return &Stmt{Kind: StmtWhile, Locs: single(s.Range()), Cond: r.expr(s.Cond), Body: r.stmt(s.Body)}
	case *cst.DoWhileStmt:
		return &Stmt{Kind: StmtDoWhile, Locs: single(s.Range()), Cond: r.expr(s.Cond), Body: r.stmt(s.Body)}
	case *cst.TryStmt:
		out := &Stmt{Kind: StmtTryCatchFinally, Locs: single(s.Range()), Try: r.stmt(s.Try)}
		for _, c := range s.Catches {
			out.Catches = append(out.Catches, CatchClause{ParamName: c.ParamName, ParamType: r.typeExpr(c.ParamType), Body: r.stmt(c.Body)})
		}
		if s.Finally != nil {
			out.Finally = r.stmt(s.Finally)
		}
		return out
	case *cst.ThrowStmt:
		return &Stmt{Kind: StmtThrow, Locs: single(s.Range()), Value: r.expr(s.Expr)}
	case *cst.ReturnStmt:
		out := &Stmt{Kind: StmtReturn, Locs: single(s.Range())}
		if s.Expr != nil {
			out.Value = r.expr(s.Expr)
		}
		return out
	case *cst.BreakStmt:
		return &Stmt{Kind: StmtBreak, Locs: single(s.Range()), N: s.N}
	case *cst.ContinueStmt:
		return &Stmt{Kind: StmtContinue, Locs: single(s.Range()), N: s.N}
	default:
		r.errorf(n.Range().Start, "internal: unreduced statement node %T", n)
		return &Stmt{Kind: StmtNoop, Locs: single(n.Range())}
	}
}

// stmtOrExpr reduces a block member, which parses as a cst statement
// but may itself be a bare expression statement; either way the result
// is wrapped as a Node so Stmt.Stmts stays homogeneous to walk.
func (r *Reducer) stmtOrExpr(n cst.Node) Node {
	return r.stmt(n)
}

// ---- Expressions ----

func (r *Reducer) expr(n cst.Node) *Expr {
	switch e := n.(type) {
	case *cst.IntLit:
		return &Expr{Kind: ExprIntLit, Locs: single(e.Range()), Literal: e.Literal}
	case *cst.FloatLit:
		return &Expr{Kind: ExprFloatLit, Locs: single(e.Range()), Literal: e.Literal}
	case *cst.CharLit:
		return &Expr{Kind: ExprCharLit, Locs: single(e.Range()), CharValue: e.Value}
	case *cst.StringLit:
		return &Expr{Kind: ExprStringLit, Locs: single(e.Range()), StringValue: e.Value}
	case *cst.BoolLit:
		return &Expr{Kind: ExprBoolLit, Locs: single(e.Range()), BoolValue: e.Value}
	case *cst.Identifier:
		return &Expr{Kind: ExprIdentifier, Locs: single(e.Range()), Name: e.Name}
	case *cst.ArrayLit:
		out := &Expr{Kind: ExprArrayLit, Locs: single(e.Range())}
		for _, el := range e.Elems {
			out.Elems = append(out.Elems, r.expr(el))
		}
		return out
	case *cst.TupleLit:
		out := &Expr{Kind: ExprTupleLit, Locs: single(e.Range())}
		for _, el := range e.Elems {
			out.Elems = append(out.Elems, r.expr(el))
		}
		return out
	case *cst.StructLit:
		out := &Expr{Kind: ExprStructLit, Locs: single(e.Range())}
		for _, f := range e.Fields {
			out.Fields = append(out.Fields, StructFieldLit{Name: f.Name, Expr: r.expr(f.Expr)})
		}
		return out
	case *cst.Lambda:
		out := &Expr{Kind: ExprLambda, Locs: single(e.Range())}
		for _, p := range e.Params {
			out.Params = append(out.Params, r.param(p))
		}
		if e.ReturnType != nil {
			out.ReturnType = r.typeExpr(e.ReturnType)
		}
		out.Body = r.bodyNode(e.Body)
		return out
	case *cst.UnaryExpr:
		return &Expr{Kind: ExprUnary, Locs: single(e.Range()), Op: e.Op, Operand: r.expr(e.Operand), Postfix: e.Postfix}
	case *cst.OpChain:
		return r.foldOpChain(e)
	case *cst.IfElseExpr:
		out := &Expr{Kind: ExprIfElse, Locs: single(e.Range()), Cond: r.expr(e.Cond), Then: r.bodyNode(e.Then)}
		if e.Else != nil {
			out.Else = r.bodyNode(e.Else)
		}
		return out
	case *cst.VarDeclExpr:
		out := &Expr{Kind: ExprVarDecl, Locs: single(e.Range()), VarName: e.Name, Init: r.expr(e.Init)}
		if e.Type != nil {
			out.VarType = r.typeExpr(e.Type)
		}
		return out
	case *cst.CallExpr:
		out := &Expr{Kind: ExprApplication, Locs: single(e.Range()), Callee: r.expr(e.Callee)}
		for _, ta := range e.TypeArgs {
			out.TypeArgs = append(out.TypeArgs, r.typeExpr(ta))
		}
		for _, arg := range e.Args {
			out.Args = append(out.Args, r.expr(arg))
		}
		return out
	case *cst.FieldAccessExpr:
		return &Expr{Kind: ExprFieldAccess, Locs: single(e.Range()), Receiver: r.expr(e.Receiver), Field: e.Field}
	case *cst.IndexExpr:
		return &Expr{Kind: ExprArrayAccess, Locs: single(e.Range()), Receiver: r.expr(e.Receiver), Index: r.expr(e.Index)}
	case *cst.ParenExpr:
		return &Expr{Kind: ExprParenthesized, Locs: single(e.Range()), Inner: r.expr(e.Inner)}
	default:
		r.errorf(n.Range().Start, "internal: unreduced expression node %T", n)
		return &Expr{Kind: ExprIdentifier, Locs: single(n.Range()), Name: "<error>"}
	}
}

// foldOpChain applies the shunting-yard policy spec.md §4.2 describes:
// while the operator stack's top has precedence >= the next operator
// and associativity is left or none, pop and combine; "none" at equal
// precedence (e.g. chained comparisons) is a parse error reported at
// the offending operator's location.
func (r *Reducer) foldOpChain(chain *cst.OpChain) *Expr {
	type opFrame struct {
		op    token.Kind
		opPos token.Position
		left  *Expr
	}

	var opStack []opFrame
	pushOperand := func(frame opFrame, right *Expr) *Expr {
		return &Expr{
			Kind:  ExprBinary,
			Locs:  single(token.Range{Start: frame.left.Locs.Self().Start, End: right.Locs.Self().End}),
			Op:    frame.op,
			OpPos: frame.opPos,
			Left:  frame.left,
			Right: right,
		}
	}

	cur := r.expr(chain.First)
	for _, elem := range chain.Rest {
		info, _ := cst.LookupPrecedence(elem.Op)
		for len(opStack) > 0 {
			top := opStack[len(opStack)-1]
			topInfo, _ := cst.LookupPrecedence(top.op)
			if topInfo.Precedence < info.Precedence {
				break
			}
			if topInfo.Precedence == info.Precedence && topInfo.Assoc == cst.AssocRight {
				break
			}
			if topInfo.Precedence == info.Precedence && topInfo.Assoc == cst.AssocNone {
				r.errorf(elem.OpPos, "operator %s is non-associative and cannot be chained at the same precedence", elem.Op)
			}
			opStack = opStack[:len(opStack)-1]
			cur = pushOperand(top, cur)
		}
		opStack = append(opStack, opFrame{op: elem.Op, opPos: elem.OpPos, left: cur})
		cur = r.expr(elem.Operand)
	}
	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		cur = pushOperand(top, cur)
	}
	return cur
}
