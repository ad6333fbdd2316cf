package cst

import "github.com/jchitel/renlang-sub002/internal/token"

// Associativity controls how a chain of equal-precedence operators
// folds: Left folds left-to-right, Right folds right-to-left, None
// forbids chaining at that precedence (a parse error).
type Associativity int

const (
	AssocLeft Associativity = iota
	AssocRight
	AssocNone
)

// OpInfo is one entry of the binary-operator precedence table.
type OpInfo struct {
	Precedence int
	Assoc      Associativity
}

// precedenceTable is the single source of truth for binary operator
// precedence and associativity. Higher binds tighter. This is the
// table spec.md §4.2 and §9 call out as needing a concrete definition;
// it follows the common C-family ordering DWScript programs also use.
var precedenceTable = map[token.Kind]OpInfo{
	token.OR:    {1, AssocLeft},
	token.AND:   {2, AssocLeft},
	token.PIPE:  {3, AssocLeft},
	token.CARET: {4, AssocLeft},
	token.AMP:   {5, AssocLeft},

	token.EQ: {6, AssocNone},
	token.NE: {6, AssocNone},

	token.LT: {7, AssocNone},
	token.GT: {7, AssocNone},
	token.LE: {7, AssocNone},
	token.GE: {7, AssocNone},

	token.SHL: {8, AssocLeft},
	token.SHR: {8, AssocLeft},

	token.PLUS:  {9, AssocLeft},
	token.MINUS: {9, AssocLeft},

	token.STAR:    {10, AssocLeft},
	token.SLASH:   {10, AssocLeft},
	token.PERCENT: {10, AssocLeft},
}

// lookupOp reports whether k is a binary operator and its precedence info.
func lookupOp(k token.Kind) (OpInfo, bool) {
	info, ok := precedenceTable[k]
	return info, ok
}

// LookupPrecedence exposes the precedence table to internal/ast.Reduce,
// which runs the shunting-yard fold described in spec.md §4.2.
func LookupPrecedence(k token.Kind) (OpInfo, bool) {
	return lookupOp(k)
}

const (
	callPrecedence  = 11 // f(x), a[i], a.f bind tighter than any binary op
	unaryPrecedence = 11
)
