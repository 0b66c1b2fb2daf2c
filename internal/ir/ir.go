// Package ir defines FunctionIr (the four-set per-function effect
// summary) and FileIr (the ordered map from callable symbol to
// FunctionIr). Grounded on the FunctionIr/FileIr concept named in
// spec.md §3 and on the dict-of-sets shape returned throughout
// original_source/rattr/analyser/function.py.
package ir

import "github.com/suadelabs/rattr/internal/symbol"

// FunctionIr is the four-set effect summary of one callable: every
// Name symbol gotten, set, or deleted, and every Call made, deduplicated
// by symbol ID.
type FunctionIr struct {
	Gets  map[string]symbol.Symbol
	Sets  map[string]symbol.Symbol
	Dels  map[string]symbol.Symbol
	Calls map[string]symbol.Symbol
}

// New builds an empty FunctionIr.
func New() *FunctionIr {
	return &FunctionIr{
		Gets:  map[string]symbol.Symbol{},
		Sets:  map[string]symbol.Symbol{},
		Dels:  map[string]symbol.Symbol{},
		Calls: map[string]symbol.Symbol{},
	}
}

func addTo(set map[string]symbol.Symbol, sym symbol.Symbol) {
	set[sym.ID()] = sym
}

// AddGet records sym as gotten.
func (f *FunctionIr) AddGet(sym symbol.Symbol) { addTo(f.Gets, sym) }

// AddSet records sym as set.
func (f *FunctionIr) AddSet(sym symbol.Symbol) { addTo(f.Sets, sym) }

// AddDel records sym as deleted.
func (f *FunctionIr) AddDel(sym symbol.Symbol) { addTo(f.Dels, sym) }

// AddCall records sym (a symbol.Call) as called.
func (f *FunctionIr) AddCall(sym symbol.Symbol) { addTo(f.Calls, sym) }

// Clone deep-copies f, used before simplification per spec.md's
// "Simplification... operates on deep copies so the cached IR remains
// pristine" lifecycle rule.
func (f *FunctionIr) Clone() *FunctionIr {
	clone := New()
	for k, v := range f.Gets {
		clone.Gets[k] = v
	}
	for k, v := range f.Sets {
		clone.Sets[k] = v
	}
	for k, v := range f.Dels {
		clone.Dels[k] = v
	}
	for k, v := range f.Calls {
		clone.Calls[k] = v
	}
	return clone
}

// UnionFrom merges other's gets/sets/dels (never calls) into f in place,
// used by the destructive post-order simplification in
// internal/callgraph.
func (f *FunctionIr) UnionFrom(other *FunctionIr) {
	for k, v := range other.Gets {
		f.Gets[k] = v
	}
	for k, v := range other.Sets {
		f.Sets[k] = v
	}
	for k, v := range other.Dels {
		f.Dels[k] = v
	}
}

// IsEmpty reports whether all four sets are empty, used for the
// docstring-only-body boundary case in spec.md §8.
func (f *FunctionIr) IsEmpty() bool {
	return len(f.Gets) == 0 && len(f.Sets) == 0 && len(f.Dels) == 0 && len(f.Calls) == 0
}

// FileIr is the ordered map from a user-defined callable symbol (Func or
// Class) to its FunctionIr, plus the file's root context is tracked
// separately by the caller (internal/analyser.FileAnalyser), matching
// spec.md §3's FileIr definition.
type FileIr struct {
	order []string
	byID  map[string]entry
}

type entry struct {
	symbol symbol.Symbol
	ir     *FunctionIr
}

// NewFileIr builds an empty FileIr.
func NewFileIr() *FileIr {
	return &FileIr{byID: map[string]entry{}}
}

// Set records sym's ir, preserving insertion order on first set.
func (fi *FileIr) Set(sym symbol.Symbol, functionIr *FunctionIr) {
	id := sym.ID()
	if _, exists := fi.byID[id]; !exists {
		fi.order = append(fi.order, id)
	}
	fi.byID[id] = entry{symbol: sym, ir: functionIr}
}

// Get returns the FunctionIr registered for id, if any.
func (fi *FileIr) Get(id string) (symbol.Symbol, *FunctionIr, bool) {
	e, ok := fi.byID[id]
	if !ok {
		return nil, nil, false
	}
	return e.symbol, e.ir, true
}

// Entries returns every (symbol, ir) pair in insertion order.
func (fi *FileIr) Entries() []struct {
	Symbol symbol.Symbol
	Ir     *FunctionIr
} {
	out := make([]struct {
		Symbol symbol.Symbol
		Ir     *FunctionIr
	}, 0, len(fi.order))
	for _, id := range fi.order {
		e := fi.byID[id]
		out = append(out, struct {
			Symbol symbol.Symbol
			Ir     *FunctionIr
		}{e.symbol, e.ir})
	}
	return out
}

// Len returns the number of callables recorded.
func (fi *FileIr) Len() int { return len(fi.order) }
