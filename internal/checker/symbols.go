package checker

import "github.com/jchitel/renlang-sub002/internal/types"

// SymbolTable tracks compile-time variable bindings during expression
// and statement checking, adapted from the teacher's
// internal/semantic/symbol_table.go. Unlike the teacher's table, Ren
// is case-sensitive and has no overload sets: each scope is a plain
// name -> TypeID map chained to its outer scope.
type SymbolTable struct {
	symbols map[string]types.TypeID
	outer   *SymbolTable
}

// NewSymbolTable creates an empty root scope.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]types.TypeID)}
}

// NewEnclosedSymbolTable creates a scope nested inside outer.
func NewEnclosedSymbolTable(outer *SymbolTable) *SymbolTable {
	st := NewSymbolTable()
	st.outer = outer
	return st
}

// Define binds name to typ in the current scope, shadowing any outer binding.
func (st *SymbolTable) Define(name string, typ types.TypeID) {
	st.symbols[name] = typ
}

// Resolve looks up name in the current scope, then each enclosing scope.
func (st *SymbolTable) Resolve(name string) (types.TypeID, bool) {
	if t, ok := st.symbols[name]; ok {
		return t, true
	}
	if st.outer != nil {
		return st.outer.Resolve(name)
	}
	return types.Invalid, false
}

// IsDeclaredInCurrentScope reports a name collision within this exact scope.
func (st *SymbolTable) IsDeclaredInCurrentScope(name string) bool {
	_, ok := st.symbols[name]
	return ok
}
