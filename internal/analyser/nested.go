package analyser

import (
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/symbol"
)

// visitNestedFunctionDef records a nested `def` as an error (rattr only
// computes effect summaries relative to a function's own parameters; a
// closure's free-variable captures from an enclosing function aren't
// representable in that model) but still registers the name locally and
// recurses into its body so that gets/sets it performs against the
// *enclosing* function's names are still counted, mirroring the
// best-effort handling of Nested_Def in
// original_source/rattr/analyser/function.py.
func (a *FunctionAnalyser) visitNestedFunctionDef(s *pyast.FunctionDef) error {
	a.env.Sink.Error(a.env.File, s.Name, "nested function definitions are not fully supported", s.Pos.LineNo, s.Pos.ColOffset)

	a.ctx.Add(symbol.Func{
		Name:     s.Name,
		Location: s.Position().Loc(a.env.File),
	})

	nestedCtx := a.ctx.Child()
	addArgsTo(nestedCtx, s.Args)
	sub := &FunctionAnalyser{env: a.env, ctx: nestedCtx, ir: a.ir}
	return sub.visitBody(s.Body)
}
