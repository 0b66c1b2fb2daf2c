// Package analyser implements the per-function IR visitor
// (FunctionAnalyser), the class analyser, and the file-level driver.
// Grounded throughout on
// original_source/rattr/analyser/function.py and
// original_source/rattr/analyser/cls.py; the dynamic-dispatch-by-node-
// type shape is carried over from the teacher's own
// adapters/python/analyzer.go visitor style (see SPEC_FULL.md §15),
// generalized from "emit SAST findings" to "emit effect-set
// memberships".
package analyser

import (
	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/identname"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/plugins"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/symbol"
)

// Env bundles the side-channel dependencies every analyser stage needs:
// the file being analysed, the project root (for module-locate
// decisions), the diagnostic sink, and the plugin registry.
type Env struct {
	File        string
	ProjectRoot string
	Sink        *diagnostic.Sink
	Plugins     *plugins.Registry
}

// FunctionAnalyser walks one function or lambda body, producing a
// FunctionIr. Mirrors FunctionAnalyser(NodeVisitor) in
// original_source/rattr/analyser/function.py.
type FunctionAnalyser struct {
	env *Env
	ctx *rcontext.Context
	ir  *ir.FunctionIr
}

// NewFunctionAnalyser builds an analyser ready to run in a fresh child
// of parentCtx.
func NewFunctionAnalyser(env *Env, parentCtx *rcontext.Context) *FunctionAnalyser {
	return &FunctionAnalyser{env: env, ctx: parentCtx.Child(), ir: ir.New()}
}

// Analyse pushes arguments into the function's scope and visits the
// body, returning the accumulated FunctionIr and the scope it built (the
// latter is occasionally useful for nested analysis, e.g. class
// __init__ re-analysis).
func (a *FunctionAnalyser) Analyse(args pyast.Arguments, body []pyast.Stmt) (*ir.FunctionIr, *rcontext.Context, error) {
	a.addArguments(args)
	for _, stmt := range body {
		if err := a.visitStmt(stmt); err != nil {
			return nil, nil, err
		}
	}
	return a.ir, a.ctx, nil
}

// AnalyseExpr runs the analyser over a single expression.
func (a *FunctionAnalyser) AnalyseExpr(e pyast.Expr) (*ir.FunctionIr, error) {
	if err := a.visitExpr(e); err != nil {
		return nil, err
	}
	return a.ir, nil
}

func (a *FunctionAnalyser) addArguments(args pyast.Arguments) {
	add := func(name string) {
		if name == "" {
			return
		}
		a.ctx.AddArgument(symbol.NewName(name, symbol.Location{}))
	}
	for _, arg := range args.PosOnlyArgs {
		add(arg.Arg)
	}
	for _, arg := range args.Args {
		add(arg.Arg)
	}
	if args.Vararg != nil {
		add(args.Vararg.Arg)
	}
	for _, arg := range args.KwOnlyArgs {
		add(arg.Arg)
	}
	if args.Kwarg != nil {
		add(args.Kwarg.Arg)
	}
}

// getAndVerifyName computes (basename, fullname) for node, warning
// "potentially undefined" unless node is being stored to, is a literal,
// or is already visible in context. Mirrors get_and_verify_name in
// function.py.
func (a *FunctionAnalyser) getAndVerifyName(node pyast.Expr, exprCtx pyast.ExprContext, pos pyast.Pos) (basename, fullname string) {
	basename, fullname, err := identname.NamesOf(node, identname.Options{Safe: true})
	if err != nil {
		return "", ""
	}

	if exprCtx == pyast.Store || exprCtx == pyast.Del {
		return basename, fullname
	}
	if basename == "" || basename[0:1] == symbol.LiteralValuePrefix {
		return basename, fullname
	}
	if !a.ctx.Contains(basename) {
		a.env.Sink.Warning(a.env.File, fullname, "name is potentially undefined", pos.LineNo, pos.ColOffset)
	}
	return basename, fullname
}

// updateResults routes a normalized name to gets/sets/dels according to
// its expression context. Mirrors update_results in function.py.
func (a *FunctionAnalyser) updateResults(exprCtx pyast.ExprContext, basename, fullname string, loc symbol.Location) {
	sym := symbol.NewNameWithBasename(fullname, basename, loc)
	switch exprCtx {
	case pyast.Store:
		a.ir.AddSet(sym)
	case pyast.Del:
		a.ir.AddDel(sym)
	default:
		a.ir.AddGet(sym)
	}
}

func (a *FunctionAnalyser) visitStmt(stmt pyast.Stmt) error {
	switch s := stmt.(type) {
	case *pyast.ExprStmt:
		return a.visitExpr(s.Value)
	case *pyast.Assign:
		return a.visitAnyAssign(s.Pos, s.Targets, s.Value)
	case *pyast.AnnAssign:
		if s.Value == nil {
			return nil
		}
		return a.visitAnyAssign(s.Pos, []pyast.Expr{s.Target}, s.Value)
	case *pyast.AugAssign:
		return a.visitAnyAssign(s.Pos, []pyast.Expr{s.Target}, s.Value)
	case *pyast.Return:
		return a.visitReturn(s)
	case *pyast.Delete:
		return a.visitDelete(s)
	case *pyast.For:
		return a.visitFor(s)
	case *pyast.While:
		if err := a.visitExpr(s.Test); err != nil {
			return err
		}
		return a.visitBody(append(s.Body, s.OrElse...))
	case *pyast.If:
		if err := a.visitExpr(s.Test); err != nil {
			return err
		}
		return a.visitBody(append(s.Body, s.OrElse...))
	case *pyast.Try:
		if err := a.visitBody(s.Body); err != nil {
			return err
		}
		for _, h := range s.Handlers {
			if err := a.visitBody(h.Body); err != nil {
				return err
			}
		}
		if err := a.visitBody(s.OrElse); err != nil {
			return err
		}
		return a.visitBody(s.FinalBody)
	case *pyast.With:
		return a.visitWith(s)
	case *pyast.FunctionDef:
		return a.visitNestedFunctionDef(s)
	case *pyast.ClassDef:
		a.env.Sink.Error(a.env.File, s.Name, "nested classes unsupported", s.Pos.LineNo, s.Pos.ColOffset)
		return nil
	case *pyast.Global:
		return a.env.Sink.FatalErr(a.env.File, "global", "global statement inside analysed function", s.Pos.LineNo, s.Pos.ColOffset)
	case *pyast.Nonlocal:
		return a.env.Sink.FatalErr(a.env.File, "nonlocal", "nonlocal statement inside analysed function", s.Pos.LineNo, s.Pos.ColOffset)
	case *pyast.Import:
		return a.env.Sink.FatalErr(a.env.File, "import", "import statement inside analysed function", s.Pos.LineNo, s.Pos.ColOffset)
	case *pyast.ImportFrom:
		return a.env.Sink.FatalErr(a.env.File, "import", "import statement inside analysed function", s.Pos.LineNo, s.Pos.ColOffset)
	case *pyast.Pass, *pyast.Break, *pyast.Continue:
		return nil
	default:
		return nil
	}
}

func (a *FunctionAnalyser) visitBody(stmts []pyast.Stmt) error {
	for _, s := range stmts {
		if err := a.visitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (a *FunctionAnalyser) visitExpr(expr pyast.Expr) error {
	if expr == nil {
		return nil
	}
	switch e := expr.(type) {
	case *pyast.Name:
		basename, fullname := a.getAndVerifyName(e, e.Ctx, e.Position())
		a.updateResults(e.Ctx, basename, fullname, e.Position().Loc(a.env.File))
		return nil
	case *pyast.Attribute:
		return a.visitCompoundName(e, e.Value, e.Ctx)
	case *pyast.Subscript:
		if err := a.visitExpr(e.Slice); err != nil {
			return err
		}
		return a.visitCompoundName(e, e.Value, e.Ctx)
	case *pyast.Starred:
		return a.visitCompoundName(e, e.Value, e.Ctx)
	case *pyast.Call:
		return a.visitCall(e)
	case *pyast.NamedExpr:
		return a.visitNamedExpr(e)
	case *pyast.Lambda:
		return a.visitLambdaExpr(e)
	case *pyast.BinOp:
		if err := a.visitExpr(e.Left); err != nil {
			return err
		}
		return a.visitExpr(e.Right)
	case *pyast.UnaryOp:
		return a.visitExpr(e.Operand)
	case *pyast.BoolOp:
		for _, v := range e.Values {
			if err := a.visitExpr(v); err != nil {
				return err
			}
		}
		return nil
	case *pyast.Compare:
		if err := a.visitExpr(e.Left); err != nil {
			return err
		}
		for _, v := range e.Comparators {
			if err := a.visitExpr(v); err != nil {
				return err
			}
		}
		return nil
	case *pyast.IfExp:
		if err := a.visitExpr(e.Test); err != nil {
			return err
		}
		if err := a.visitExpr(e.Body); err != nil {
			return err
		}
		return a.visitExpr(e.OrElse)
	case *pyast.Tuple:
		return a.visitExprs(e.Elts)
	case *pyast.List:
		return a.visitExprs(e.Elts)
	case *pyast.Set:
		return a.visitExprs(e.Elts)
	case *pyast.Dict:
		for _, entry := range e.Entries {
			if entry.Key != nil {
				if err := a.visitExpr(entry.Key); err != nil {
					return err
				}
			}
			if err := a.visitExpr(entry.Value); err != nil {
				return err
			}
		}
		return nil
	case *pyast.ListComp:
		return a.visitComprehension(e.Generators, []pyast.Expr{e.Elt})
	case *pyast.SetComp:
		return a.visitComprehension(e.Generators, []pyast.Expr{e.Elt})
	case *pyast.GeneratorExp:
		return a.visitComprehension(e.Generators, []pyast.Expr{e.Elt})
	case *pyast.DictComp:
		return a.visitComprehension(e.Generators, []pyast.Expr{e.Key, e.Value})
	case *pyast.Constant:
		return nil
	default:
		return nil
	}
}

func (a *FunctionAnalyser) visitExprs(exprs []pyast.Expr) error {
	for _, e := range exprs {
		if err := a.visitExpr(e); err != nil {
			return err
		}
	}
	return nil
}

// visitCompoundName handles Attribute/Starred/Subscript uniformly: it
// recurses into the base expression first (to surface literals/names
// nested inside the base) then records the normalized fullname.
// Mirrors visit_compound_name in function.py.
func (a *FunctionAnalyser) visitCompoundName(node, base pyast.Expr, exprCtx pyast.ExprContext) error {
	if !isNameable(base) {
		if err := a.visitExpr(base); err != nil {
			return err
		}
	}
	basename, fullname := a.getAndVerifyName(node, exprCtx, node.Position())
	a.updateResults(exprCtx, basename, fullname, node.Position().Loc(a.env.File))
	return nil
}

func isNameable(e pyast.Expr) bool {
	switch e.(type) {
	case *pyast.Name, *pyast.Attribute, *pyast.Subscript, *pyast.Starred:
		return true
	default:
		return false
	}
}
