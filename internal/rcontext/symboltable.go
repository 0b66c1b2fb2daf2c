// Package rcontext implements the scoped symbol-table system: an
// insert-ordered SymbolTable, the parent-pointing Context scope tree
// with its call-target resolver, and the RootContextBuilder that
// populates a module's root scope from its top-level statements.
// Grounded throughout on
// original_source/rattr/models/context/_context.py and
// original_source/rattr/models/context/_root_context.py.
package rcontext

import "github.com/suadelabs/rattr/internal/symbol"

// SymbolTable is an insert-ordered map from identifier to symbol,
// scoped to one Context. Iteration order matches insertion order,
// satisfying spec.md §8's "symbol-table insert-order is preserved
// across iteration" invariant.
type SymbolTable struct {
	order []string
	byID  map[string]symbol.Symbol
}

// NewSymbolTable builds an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{byID: map[string]symbol.Symbol{}}
}

// Set inserts or overwrites the binding for sym.ID(), preserving the
// original insertion position on overwrite (matching Python dict
// semantics, which the original relies on).
func (t *SymbolTable) Set(sym symbol.Symbol) {
	id := sym.ID()
	if _, exists := t.byID[id]; !exists {
		t.order = append(t.order, id)
	}
	t.byID[id] = sym
}

// Get returns the symbol bound to id in this table only, or (nil, false).
func (t *SymbolTable) Get(id string) (symbol.Symbol, bool) {
	s, ok := t.byID[id]
	return s, ok
}

// Has reports whether id is bound in this table.
func (t *SymbolTable) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Delete removes id from this table, if present.
func (t *SymbolTable) Delete(id string) {
	if !t.Has(id) {
		return
	}
	delete(t.byID, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

// Symbols returns every symbol in insertion order.
func (t *SymbolTable) Symbols() []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.byID[id])
	}
	return out
}

// Names returns every bound identifier in insertion order.
func (t *SymbolTable) Names() []string {
	out := make([]string, len(t.order))
	copy(out, t.order)
	return out
}

// Len returns the number of bindings.
func (t *SymbolTable) Len() int { return len(t.order) }
