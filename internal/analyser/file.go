// Package analyser implements the per-function IR visitor, the class
// analyser, and this file's driver: FileAnalyser, which compiles one
// module's root context then analyses every top-level def/class into a
// FileIr, expanding starred imports and following the handful of
// control-flow constructs (If/For/While/Try/With) that can wrap a
// top-level def. Mirrors file_analyser / parse_and_analyse_file in
// original_source/rattr/analyser/file.py.
package analyser

import (
	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/plugins"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
)

// FileAnalyser drives the root-context builder and then analyses every
// top-level FunctionDef and ClassDef it finds, including those nested
// one level inside If/For/While/Try/With bodies (conditional defs are a
// common real-world pattern: `if sys.version_info >= (3, 8): def f():
// ...`).
type FileAnalyser struct {
	env     *Env
	compile rcontext.CompileFunc
}

// NewFileAnalyser builds a FileAnalyser. compile is used to expand
// starred imports found in the module (`from x import *`); pass nil to
// disable starred-import expansion (e.g. when analysing a single file
// outside of project mode).
func NewFileAnalyser(file, projectRoot string, sink *diagnostic.Sink, registry *plugins.Registry, compile rcontext.CompileFunc) *FileAnalyser {
	return &FileAnalyser{
		env: &Env{
			File:        file,
			ProjectRoot: projectRoot,
			Sink:        sink,
			Plugins:     registry,
		},
		compile: compile,
	}
}

// Analyse builds the module's root context and returns its FileIr.
func (fa *FileAnalyser) Analyse(module *pyast.Module) (*ir.FileIr, *rcontext.Context, error) {
	root := rcontext.CompileRootContext(module, fa.env.File, fa.env.ProjectRoot, fa.env.Sink)

	if fa.compile != nil {
		if err := root.ExpandStarredImports(fa.compile); err != nil {
			return nil, nil, err
		}
	}

	out := ir.NewFileIr()
	if err := fa.analyseStmts(root, module.Body, out); err != nil {
		return nil, nil, err
	}
	return out, root, nil
}

func (fa *FileAnalyser) analyseStmts(ctx *rcontext.Context, stmts []pyast.Stmt, out *ir.FileIr) error {
	for _, stmt := range stmts {
		if err := fa.analyseStmt(ctx, stmt, out); err != nil {
			return err
		}
	}
	return nil
}

func (fa *FileAnalyser) analyseStmt(ctx *rcontext.Context, stmt pyast.Stmt, out *ir.FileIr) error {
	switch s := stmt.(type) {
	case *pyast.FunctionDef:
		return fa.analyseFunctionDef(ctx, s, out)
	case *pyast.ClassDef:
		return fa.analyseClassDef(ctx, s, out)
	case *pyast.If:
		if err := fa.analyseStmts(ctx, s.Body, out); err != nil {
			return err
		}
		return fa.analyseStmts(ctx, s.OrElse, out)
	case *pyast.For:
		if err := fa.analyseStmts(ctx, s.Body, out); err != nil {
			return err
		}
		return fa.analyseStmts(ctx, s.OrElse, out)
	case *pyast.While:
		if err := fa.analyseStmts(ctx, s.Body, out); err != nil {
			return err
		}
		return fa.analyseStmts(ctx, s.OrElse, out)
	case *pyast.Try:
		if err := fa.analyseStmts(ctx, s.Body, out); err != nil {
			return err
		}
		for _, h := range s.Handlers {
			if err := fa.analyseStmts(ctx, h.Body, out); err != nil {
				return err
			}
		}
		if err := fa.analyseStmts(ctx, s.OrElse, out); err != nil {
			return err
		}
		return fa.analyseStmts(ctx, s.FinalBody, out)
	case *pyast.With:
		return fa.analyseStmts(ctx, s.Body, out)
	default:
		return nil
	}
}

func (fa *FileAnalyser) analyseFunctionDef(ctx *rcontext.Context, fn *pyast.FunctionDef, out *ir.FileIr) error {
	sym, ok := ctx.GetFuncOrError(fn.Name)
	if !ok {
		return nil
	}

	if hasDecorator(fn.Decorators, "rattr_ignore") {
		return nil
	}
	if call, found := findDecorator(fn.Decorators, "rattr_results"); found {
		fnIr, err := rattrResultsIr(fa.env, call, fn.Position().Loc(fa.env.File))
		if err != nil {
			return err
		}
		out.Set(sym, fnIr)
		return nil
	}

	analyser := NewFunctionAnalyser(fa.env, ctx)
	fnIr, _, err := analyser.Analyse(fn.Args, fn.Body)
	if err != nil {
		return err
	}
	out.Set(sym, fnIr)
	return nil
}

func (fa *FileAnalyser) analyseClassDef(ctx *rcontext.Context, cls *pyast.ClassDef, out *ir.FileIr) error {
	classAnalyser := NewClassAnalyser(fa.env, ctx, cls)
	classIr, err := classAnalyser.Analyse()
	if err != nil {
		return err
	}
	for _, entry := range classIr.Entries() {
		out.Set(entry.Symbol, entry.Ir)
	}
	return nil
}
