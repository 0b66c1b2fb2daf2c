package rcontext

import "github.com/suadelabs/rattr/internal/symbol"

// CompileFunc parses and compiles the root context for the module
// located at path, used by ExpandStarredImports to recursively follow
// `from x import *`. Injected rather than imported directly so
// internal/rcontext has no dependency on internal/pyparser (the parser
// depends on the syntax tree shape, not the other way around).
type CompileFunc func(path string) (*Context, error)

// GetStarredImports returns every Import symbol in this scope marked
// Starred.
func (c *Context) GetStarredImports() []symbol.Import {
	var out []symbol.Import
	for _, s := range c.Table.Symbols() {
		if imp, ok := s.(symbol.Import); ok && imp.Starred {
			out = append(out, imp)
		}
	}
	return out
}

// ExpandStarredImports performs the BFS across the transitive closure of
// `from X import *`, adding each exported symbol of every reached module
// as an individual Import into this scope, deduplicated by module spec
// origin. Mirrors expand_starred_imports in
// original_source/rattr/models/context/_context.py.
func (c *Context) ExpandStarredImports(compile CompileFunc) error {
	seen := map[string]bool{}
	queue := c.GetStarredImports()

	for len(queue) > 0 {
		imp := queue[0]
		queue = queue[1:]

		if imp.ModuleSpec == "" || seen[imp.ModuleSpec] {
			continue
		}
		seen[imp.ModuleSpec] = true

		modCtx, err := compile(imp.ModuleSpec)
		if err != nil {
			continue
		}

		for _, exported := range modCtx.DeclaredSymbols() {
			if nested, ok := exported.(symbol.Import); ok && nested.Starred {
				queue = append(queue, nested)
				continue
			}
			c.Add(symbol.Import{
				LocalName:  exported.SymbolName(),
				Qualified:  imp.Qualified + "." + exported.SymbolName(),
				ModuleName: imp.Qualified,
				Location:   exported.Loc(),
			})
		}
	}

	return nil
}
