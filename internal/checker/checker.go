// Package checker implements Ren's whole-program type checker
// (spec.md §4.3), grounded on the teacher's internal/semantic package
// shape: one file per concern (checker.go's registration pass,
// check_expressions.go, check_statements.go, symbols.go), a
// SymbolTable adapted from internal/semantic/symbol_table.go, and
// diagnostics accumulated the way internal/semantic/errors.go does.
package checker

import (
	"fmt"

	"github.com/jchitel/renlang-sub002/internal/ast"
	"github.com/jchitel/renlang-sub002/internal/cst"
	"github.com/jchitel/renlang-sub002/internal/diag"
	"github.com/jchitel/renlang-sub002/internal/lexer"
	"github.com/jchitel/renlang-sub002/internal/resolver"
	"github.com/jchitel/renlang-sub002/internal/token"
	"github.com/jchitel/renlang-sub002/internal/types"
)

// Checker drives module loading, declaration registration, and type
// resolution across the dependency-closed module set reachable from
// an entry module.
type Checker struct {
	Arena    *types.Arena
	Resolver resolver.Resolver

	modules      map[string]*Module
	placeholders map[*ast.Decl]types.TypeID
	Diags        []*diag.Diagnostic

	// typeParamScope holds the currently-resolving declaration's type
	// parameters (name -> already-allocated TypeID), consulted by
	// resolveTypeExpr before module-level type lookup so a generic
	// function's own signature can reference its type parameters
	// (spec.md §4.3's explicit/implicit-generic call algorithms, which
	// both assume a generic function's params/return can name its own
	// type parameters).
	typeParamScope map[string]types.TypeID
}

// New creates a Checker backed by r for module loading.
func New(r resolver.Resolver) *Checker {
	return &Checker{
		Arena:        types.NewArena(),
		Resolver:     r,
		modules:      make(map[string]*Module),
		placeholders: make(map[*ast.Decl]types.TypeID),
	}
}

// Modules returns every module loaded so far, keyed by absolute path,
// so later pipeline stages (internal/translator) can resolve imports
// without re-walking the resolver.
func (c *Checker) Modules() map[string]*Module {
	return c.modules
}

// ResolveTypeExpr exposes type-expression resolution to the translator,
// which needs catch-clause declared types at lowering time (spec.md
// §4.5's exception-propagation routine tests catch types for
// assignability against the thrown value's type).
func (c *Checker) ResolveTypeExpr(mod *Module, t *ast.TypeExpr) types.TypeID {
	return c.resolveTypeExpr(mod, t)
}

// Check loads entryPath and every module it transitively imports,
// registers and resolves every declaration (the entry module's first,
// then those of each other loaded module), and returns the entry
// module. A non-nil error carries the first accumulated diagnostic's
// formatted text, per spec.md §7's aggregate-failure policy.
func (c *Checker) Check(entryPath string) (*Module, error) {
	mod, err := c.loadModule("", entryPath)
	if err != nil {
		return nil, err
	}
	for _, d := range mod.Functions {
		c.resolveDecl(mod, d)
	}
	for _, d := range mod.Types {
		c.resolveDecl(mod, d)
	}
	for _, d := range mod.Constants {
		c.resolveDecl(mod, d)
	}
	for _, m := range c.modules {
		if m == mod {
			continue
		}
		for _, d := range m.Functions {
			c.resolveDecl(m, d)
		}
		for _, d := range m.Types {
			c.resolveDecl(m, d)
		}
		for _, d := range m.Constants {
			c.resolveDecl(m, d)
		}
	}
	if len(c.Diags) > 0 {
		return mod, fmt.Errorf("%s", c.Diags[0].Error())
	}
	return mod, nil
}

// loadModule resolves ref relative to fromPath, parses and reduces it,
// registers its declarations, and caches the result by absolute path
// so repeated or cyclic imports reuse the same Module (spec.md §4.3's
// path-keyed cache with cycle tolerance, per §9's module-graph-cycles
// strategy).
func (c *Checker) loadModule(fromPath, ref string) (*Module, error) {
	abs, src, err := c.Resolver.Resolve(fromPath, ref)
	if err != nil {
		return nil, err
	}
	if m, ok := c.modules[abs]; ok {
		return m, nil
	}

	p := cst.New(lexer.New(src))
	prog := p.ParseProgram()
	if len(p.Errors()) > 0 {
		return nil, fmt.Errorf("parse errors in %s: %v", abs, p.Errors())
	}
	astProg, errs := ast.Reduce(prog)
	if len(errs) > 0 {
		return nil, fmt.Errorf("reduce errors in %s: %v", abs, errs)
	}

	mod := newModule(abs, src, astProg)
	c.modules[abs] = mod
	c.registerDeclarations(mod)
	mod.state = stateLoaded
	return mod, nil
}

// registerDeclarations implements spec.md §4.3's three-pass
// per-module registration: imports, then locals, then exports.
func (c *Checker) registerDeclarations(mod *Module) {
	names := make(map[string]bool)
	declare := func(name string, pos token.Position) bool {
		if names[name] {
			c.errorf(mod, pos, "Name %q is already declared in this module", name)
			return false
		}
		names[name] = true
		return true
	}

	// Pass 1: imports.
	for _, d := range mod.Prog.Decls {
		if d.Kind != ast.DeclImport {
			continue
		}
		target, err := c.loadModule(mod.Path, d.ModulePath)
		if err != nil {
			c.errorf(mod, d.Locs.Self().Start, "Module %q does not exist", d.ModulePath)
			continue
		}
		if d.WholeAlias != "" {
			if declare(d.WholeAlias, d.Locs.Self().Start) {
				mod.Imports[d.WholeAlias] = &ImportBinding{ModulePath: target.Path, Whole: true}
			}
			continue
		}
		for _, spec := range d.Specs {
			if _, ok := target.Exports[spec.Exported]; !ok {
				c.errorf(mod, d.Locs.Self().Start, "Module %q does not have an export named %q", d.ModulePath, spec.Exported)
				continue
			}
			alias := spec.LocalAlias
			if alias == "" {
				alias = spec.Exported
			}
			if declare(alias, d.Locs.Self().Start) {
				mod.Imports[alias] = &ImportBinding{ModulePath: target.Path, Exported: spec.Exported}
			}
		}
	}

	// Pass 2: local type/function/constant/namespace declarations.
	for _, d := range mod.Prog.Decls {
		switch d.Kind {
		case ast.DeclFunction:
			if declare(d.Name, d.Locs.Self().Start) {
				mod.Functions[d.Name] = d
			}
		case ast.DeclType:
			if declare(d.Name, d.Locs.Self().Start) {
				mod.Types[d.Name] = d
			}
		case ast.DeclConstant:
			if declare(d.Name, d.Locs.Self().Start) {
				mod.Constants[d.Name] = d
			}
		case ast.DeclNamespace:
			if declare(d.Name, d.Locs.Self().Start) {
				mod.Namespaces[d.Name] = d
			}
		}
	}

	// Pass 3: exports, including inline declarations (which are also
	// registered as ordinary local names).
	for _, d := range mod.Prog.Decls {
		if d.Kind != ast.DeclExport && d.Kind != ast.DeclExportForward {
			continue
		}
		exportName := d.Name
		if d.Default {
			exportName = "default"
		}
		if _, clash := mod.Exports[exportName]; clash {
			c.errorf(mod, d.Locs.Self().Start, "Export %q is already declared", exportName)
			continue
		}
		switch {
		case d.Inline != nil:
			inline := d.Inline
			if declare(inline.Name, inline.Locs.Self().Start) {
				switch inline.Kind {
				case ast.DeclFunction:
					mod.Functions[inline.Name] = inline
				case ast.DeclType:
					mod.Types[inline.Name] = inline
				case ast.DeclConstant:
					mod.Constants[inline.Name] = inline
				}
			}
			mod.Exports[exportName] = &ExportBinding{Kind: exportKindOf(inline.Kind), LocalName: inline.Name}
		case d.RefName != "":
			kind, ok := mod.localKind(d.RefName)
			if !ok {
				c.errorf(mod, d.Locs.Self().Start, "Value %q is not defined", d.RefName)
				continue
			}
			mod.Exports[exportName] = &ExportBinding{Kind: kind, LocalName: d.RefName}
		}
	}
}

func (c *Checker) errorf(mod *Module, pos token.Position, format string, args ...any) {
	c.Diags = append(c.Diags, diag.New(pos, fmt.Sprintf(format, args...), mod.Source, mod.Path))
}
