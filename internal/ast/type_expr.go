package ast

import "github.com/jchitel/renlang-sub002/internal/types"

// TypeExprKind tags a TypeExpr's variant (spec.md §3's Types category).
type TypeExprKind int

const (
	TypePrimitive TypeExprKind = iota
	TypeIdentifier
	TypeFunction
	TypeTuple
	TypeStruct
	TypeArray
	TypeUnion
	TypeSpecific
	TypeParenthesized
	TypeNamespaceAccess
)

type TypeExpr struct {
	Kind TypeExprKind
	Locs Locations

	// TypePrimitive / TypeIdentifier
	Name string

	// TypeFunction
	TypeParams []*Decl
	Params     []*TypeExpr
	Return     *TypeExpr

	// TypeTuple
	Elems []*TypeExpr

	// TypeStruct
	Fields []TypeStructField

	// TypeArray / TypeParenthesized
	Inner *TypeExpr

	// TypeUnion
	Members []*TypeExpr

	// TypeSpecific
	Generic *TypeExpr
	Args    []*TypeExpr

	// TypeNamespaceAccess
	Namespace *TypeExpr

	ResolvedType types.TypeID
}

type TypeStructField struct {
	Name string
	Type *TypeExpr
}

func (t *TypeExpr) locations() Locations { return t.Locs }
