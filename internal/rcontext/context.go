package rcontext

import "github.com/suadelabs/rattr/internal/symbol"

// Context is one scope in the parent-pointing scope tree. A context's
// parent chain is a tree rooted at a module's root context; file is
// fixed at construction. Mirrors Context in
// original_source/rattr/models/context/_context.py, minus the
// MutableMapping protocol (Go has no equivalent operator-overload
// surface; Get/Add/Remove/Declares below are the idiomatic stand-ins).
type Context struct {
	Parent *Context
	Table  *SymbolTable
	File   string
}

// New builds a root context (parent == nil) for file.
func New(file string) *Context {
	return &Context{Table: NewSymbolTable(), File: file}
}

// Child pushes a new scope whose parent is c, inheriting c's file. This
// is the Go equivalent of the original's scoped-acquisition idiom
// (spec.md §4.2): callers hold the returned *Context only as long as
// the block being analysed is active, then discard it; there is no
// explicit pop because Go's garbage collector reclaims it and the
// caller's own local variable naturally goes out of scope.
func (c *Context) Child() *Context {
	return &Context{Parent: c, Table: NewSymbolTable(), File: c.File}
}

// Root walks up the parent chain to the module root context.
func (c *Context) Root() *Context {
	cur := c
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// IsRoot reports whether c has no parent.
func (c *Context) IsRoot() bool { return c.Parent == nil }

// Declares reports whether id is bound in this scope's table only
// (local-only lookup).
func (c *Context) Declares(id string) bool {
	return c.Table.Has(id)
}

// Contains reports whether id is declared in this scope or any
// ancestor.
func (c *Context) Contains(id string) bool {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.Table.Has(id) {
			return true
		}
	}
	return false
}

// Get returns the nearest ancestor's binding for id (innermost-first),
// or (nil, false).
func (c *Context) Get(id string) (symbol.Symbol, bool) {
	for cur := c; cur != nil; cur = cur.Parent {
		if s, ok := cur.Table.Get(id); ok {
			return s, true
		}
	}
	return nil, false
}

// Add inserts sym into this scope unless it is already visible via an
// ancestor, mirroring Context.add's default (is_argument=false) case. A
// symbol already visible via this scope's *own* table is overwritten
// (re-registration, e.g. re-binding a name), matching the original's
// dict-update semantics for same-scope re-adds.
func (c *Context) Add(sym symbol.Symbol) {
	id := sym.ID()
	if c.Declares(id) {
		c.Table.Set(sym)
		return
	}
	if c.Parent != nil && c.Parent.Contains(id) {
		return
	}
	c.Table.Set(sym)
}

// AddArgument always inserts sym into this scope, shadowing any
// ancestor binding of the same id. Mirrors Context.add(..., is_argument=true).
func (c *Context) AddArgument(sym symbol.Symbol) {
	c.Table.Set(sym)
}

// AddAll calls Add for each symbol in syms.
func (c *Context) AddAll(syms []symbol.Symbol) {
	for _, s := range syms {
		c.Add(s)
	}
}

// Remove deletes id from the nearest ancestor (starting at c) that
// declares it; silently succeeds if absent anywhere in the chain.
func (c *Context) Remove(id string) {
	for cur := c; cur != nil; cur = cur.Parent {
		if cur.Table.Has(id) {
			cur.Table.Delete(id)
			return
		}
	}
}

// DeclaredSymbols returns every symbol declared directly in this scope,
// in insertion order.
func (c *Context) DeclaredSymbols() []symbol.Symbol {
	return c.Table.Symbols()
}

// DeclaredNames returns every identifier declared directly in this
// scope, in insertion order.
func (c *Context) DeclaredNames() []string {
	return c.Table.Names()
}

// AllSymbols returns every symbol visible from this scope: this scope's
// own bindings first, then each ancestor's, innermost first, per
// __iter__'s reversed-ancestor-chain ordering in _context.py.
func (c *Context) AllSymbols() []symbol.Symbol {
	seen := map[string]bool{}
	var out []symbol.Symbol
	for cur := c; cur != nil; cur = cur.Parent {
		for _, s := range cur.Table.Symbols() {
			if !seen[s.ID()] {
				seen[s.ID()] = true
				out = append(out, s)
			}
		}
	}
	return out
}

// AllNames returns the identifiers of AllSymbols.
func (c *Context) AllNames() []string {
	syms := c.AllSymbols()
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.ID()
	}
	return out
}

// IsInitFile reports whether this context's file is a package
// initializer (__init__.py), relevant to relative-import level
// arithmetic (internal/modlocate.DeriveAbsoluteModuleName) and to the
// starred-import-outside-init warning.
func (c *Context) IsInitFile() bool {
	f := c.File
	return len(f) >= len("__init__.py") && f[len(f)-len("__init__.py"):] == "__init__.py"
}

// GetClassOrError returns id's binding as a symbol.Class, or ok=false if
// unbound or bound to something else.
func (c *Context) GetClassOrError(id string) (symbol.Class, bool) {
	s, ok := c.Get(id)
	if !ok {
		return symbol.Class{}, false
	}
	cls, ok := s.(symbol.Class)
	return cls, ok
}

// GetFuncOrError returns id's binding as a symbol.Func, or ok=false if
// unbound or bound to something else.
func (c *Context) GetFuncOrError(id string) (symbol.Func, bool) {
	s, ok := c.Get(id)
	if !ok {
		return symbol.Func{}, false
	}
	fn, ok := s.(symbol.Func)
	return fn, ok
}
