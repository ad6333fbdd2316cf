package checker

import "github.com/jchitel/renlang-sub002/internal/ast"

type moduleState int

const (
	stateLoading moduleState = iota
	stateLoaded
)

// ImportBinding is one local alias registered by an import declaration:
// either the whole referenced module (a namespace value) or one of its
// named exports.
type ImportBinding struct {
	ModulePath string
	Whole      bool
	Exported   string
}

// ExportBinding records what an export name resolves to: a kind tag
// (mirroring Module's four name spaces, spec.md §3) and the local name
// it forwards.
type ExportBinding struct {
	Kind      string // "type" | "function" | "value" | "namespace"
	LocalName string
}

// Module owns one parsed, registered compilation unit: its AST plus
// the four name spaces spec.md §3 assigns to a Module (imports,
// functions, types, constants) and its exports table.
type Module struct {
	Path   string
	Source string
	Prog   *ast.Decl

	Imports    map[string]*ImportBinding
	Functions  map[string]*ast.Decl
	Types      map[string]*ast.Decl
	Constants  map[string]*ast.Decl
	Namespaces map[string]*ast.Decl
	Exports    map[string]*ExportBinding

	state moduleState
}

func newModule(path, source string, prog *ast.Decl) *Module {
	return &Module{
		Path:       path,
		Source:     source,
		Prog:       prog,
		Imports:    make(map[string]*ImportBinding),
		Functions:  make(map[string]*ast.Decl),
		Types:      make(map[string]*ast.Decl),
		Constants:  make(map[string]*ast.Decl),
		Namespaces: make(map[string]*ast.Decl),
		Exports:    make(map[string]*ExportBinding),
		state:      stateLoading,
	}
}

// localKind reports which of a module's four name spaces holds name,
// for resolving `export name = refName` forwarding declarations.
func (m *Module) localKind(name string) (string, bool) {
	if _, ok := m.Functions[name]; ok {
		return "function", true
	}
	if _, ok := m.Types[name]; ok {
		return "type", true
	}
	if _, ok := m.Constants[name]; ok {
		return "value", true
	}
	if _, ok := m.Namespaces[name]; ok {
		return "namespace", true
	}
	return "", false
}

func exportKindOf(k ast.DeclKind) string {
	switch k {
	case ast.DeclFunction:
		return "function"
	case ast.DeclType:
		return "type"
	case ast.DeclConstant:
		return "value"
	case ast.DeclNamespace:
		return "namespace"
	default:
		return "value"
	}
}
