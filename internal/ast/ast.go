// Package ast defines Ren's abstract syntax tree: a closed family of
// tagged-variant node structs (not an open interface hierarchy) as
// called for by spec.md §9's re-architecture guidance, each carrying a
// span map from role name ("self", "name", "field_x", ...) to source
// range, exactly as spec.md §3 describes.
//
// Nodes are produced once by Reduce from a internal/cst tree and are
// mutated exactly once afterward: internal/checker sets each typed
// node's ResolvedType field.
package ast

import (
	"fmt"

	"github.com/jchitel/renlang-sub002/internal/token"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// Locations maps a node's named roles to their source ranges. Every
// node has at least a "self" entry covering its full textual extent.
type Locations map[string]token.Range

func (l Locations) Self() token.Range { return l["self"] }

func single(r token.Range) Locations { return Locations{"self": r} }

// ---- Declaration kinds ----

type DeclKind int

const (
	DeclProgram DeclKind = iota
	DeclImport
	DeclFunction
	DeclType
	DeclConstant
	DeclExport
	DeclExportForward
	DeclNamespace
	DeclParameter
	DeclTypeParameter
)

// Decl is a declaration-category AST node.
type Decl struct {
	Kind DeclKind
	Locs Locations

	// DeclProgram
	Decls []*Decl

	// DeclImport
	ModulePath string
	WholeAlias string
	Specs      []ImportSpec // empty for whole-module import

	// DeclFunction
	Name       string
	TypeParams []*Decl // DeclTypeParameter
	Params     []*Decl // DeclParameter
	ReturnType *TypeExpr
	Body       Node // *Stmt (block) or an Expr, for `=> expr` functions

	// DeclType
	TypeRHS *TypeExpr

	// DeclConstant
	ConstExpr *Expr

	// DeclExport / DeclExportForward
	Default bool
	Inline  *Decl
	RefName string

	// DeclNamespace
	NSDecls []*Decl

	// DeclParameter / DeclTypeParameter
	ParamType   *TypeExpr
	Variance    types.Variance
	Constraint  *TypeExpr

	// Populated by the checker.
	ResolvedType types.TypeID
	Resolving    bool
}

type ImportSpec struct {
	LocalAlias string
	Exported   string
}

// Node is satisfied by every AST node category (Decl, TypeExpr, Stmt, Expr).
type Node interface {
	locations() Locations
}

func (d *Decl) locations() Locations { return d.Locs }

// String renders a minimal debug form; it is not used by any pipeline
// stage and exists for test failure messages.
func (d *Decl) String() string {
	if d == nil {
		return "<nil decl>"
	}
	return fmt.Sprintf("Decl(%v,%s)", d.Kind, d.Name)
}
