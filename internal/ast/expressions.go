package ast

import (
	"github.com/jchitel/renlang-sub002/internal/token"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// ExprKind tags an Expr's variant (spec.md §3's Expressions category).
type ExprKind int

const (
	ExprIntLit ExprKind = iota
	ExprFloatLit
	ExprCharLit
	ExprStringLit
	ExprBoolLit
	ExprIdentifier
	ExprArrayLit
	ExprTupleLit
	ExprStructLit
	ExprLambda
	ExprUnary
	ExprBinary
	ExprIfElse
	ExprVarDecl
	ExprApplication
	ExprFieldAccess
	ExprArrayAccess
	ExprParenthesized
)

type StructFieldLit struct {
	Name string
	Expr *Expr
}

// Expr is the closed-variant expression node.
type Expr struct {
	Kind ExprKind
	Locs Locations

	// ExprIntLit / ExprFloatLit: raw literal text, parsed by the checker
	// so it can pick the narrowest integer width (spec.md §4.3).
	Literal string

	// ExprCharLit
	CharValue rune

	// ExprStringLit
	StringValue string

	// ExprBoolLit
	BoolValue bool

	// ExprIdentifier
	Name string

	// ExprArrayLit / ExprTupleLit
	Elems []*Expr

	// ExprStructLit
	Fields []StructFieldLit

	// ExprLambda
	Params     []*Decl
	ReturnType *TypeExpr // nil if unspecified
	Body       Node      // *Stmt or *Expr

	// ExprUnary / ExprBinary
	Op      token.Kind
	OpPos   token.Position
	Operand *Expr // ExprUnary
	Left    *Expr // ExprBinary
	Right   *Expr // ExprBinary
	Postfix bool  // ExprUnary

	// ExprIfElse
	Cond *Expr
	Then Node // *Stmt or *Expr
	Else Node // *Stmt or *Expr, nil if absent

	// ExprVarDecl (`let x = e` / `let x: T = e`)
	VarName string
	VarType *TypeExpr // nil if not annotated
	Init    *Expr

	// ExprApplication
	Callee   *Expr
	TypeArgs []*TypeExpr
	Args     []*Expr

	// ExprFieldAccess
	Receiver *Expr
	Field    string

	// ExprArrayAccess
	Index *Expr

	// ExprParenthesized
	Inner *Expr

	ResolvedType types.TypeID
}

func (e *Expr) locations() Locations { return e.Locs }
