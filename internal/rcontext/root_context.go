package rcontext

import (
	"strings"

	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/identname"
	"github.com/suadelabs/rattr/internal/modlocate"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/symbol"
)

// CompileRootContext builds and populates the root context for one
// module, mirroring compile_root_context in
// original_source/rattr/models/context/_root_context.py: seed dunder
// names and language builtins, then run RootContextBuilder over every
// top-level statement.
func CompileRootContext(module *pyast.Module, file, projectRoot string, sink *diagnostic.Sink) *Context {
	root := New(file)

	for _, name := range symbol.ModuleLevelDunderAttrs {
		root.Table.Set(symbol.NewName(name, symbol.Location{}))
	}
	for _, name := range symbol.PythonBuiltins {
		root.Table.Set(symbol.NewBuiltin(name))
	}

	b := &RootContextBuilder{
		ctx:         root,
		file:        file,
		projectRoot: projectRoot,
		sink:        sink,
	}
	b.RegisterStmts(module.Body...)
	return root
}

// RootContextBuilder dispatches each top-level statement to the visitor
// matching its concrete type, mirroring RootContextBuilder in
// _root_context.py. Statement kinds it has no visitor for are silently
// skipped — matching the original's getattr(self, f"visit_{kind}",
// None) fallback, not treated as an error.
type RootContextBuilder struct {
	ctx         *Context
	file        string
	projectRoot string
	sink        *diagnostic.Sink
}

// RegisterStmts visits every statement in order.
func (b *RootContextBuilder) RegisterStmts(stmts ...pyast.Stmt) {
	for _, s := range stmts {
		b.register(s)
	}
}

func (b *RootContextBuilder) register(stmt pyast.Stmt) {
	switch s := stmt.(type) {
	case *pyast.Import:
		b.visitImport(s)
	case *pyast.ImportFrom:
		b.visitImportFrom(s)
	case *pyast.Assign:
		b.visitAssignment(s.Pos, s.Targets, s.Value)
	case *pyast.AnnAssign:
		if s.Value != nil {
			b.visitAssignment(s.Pos, []pyast.Expr{s.Target}, s.Value)
		}
	case *pyast.AugAssign:
		b.visitAssignment(s.Pos, []pyast.Expr{s.Target}, s.Value)
	case *pyast.FunctionDef:
		b.visitFunctionDef(s)
	case *pyast.ClassDef:
		b.visitClassDef(s)
	case *pyast.Delete:
		b.visitDelete(s)
	case *pyast.If:
		b.RegisterStmts(s.Body...)
		b.RegisterStmts(s.OrElse...)
	case *pyast.For:
		b.RegisterStmts(s.Body...)
		b.RegisterStmts(s.OrElse...)
	case *pyast.While:
		b.RegisterStmts(s.Body...)
		b.RegisterStmts(s.OrElse...)
	case *pyast.Try:
		b.RegisterStmts(s.Body...)
		for _, h := range s.Handlers {
			b.RegisterStmts(h.Body...)
		}
		b.RegisterStmts(s.OrElse...)
		b.RegisterStmts(s.FinalBody...)
	case *pyast.With:
		b.RegisterStmts(s.Body...)
	case *pyast.ExprStmt:
		b.visitExprStmt(s)
	default:
		// Pass/Break/Continue/Global/Nonlocal at module level: no
		// binding effect, nothing to register.
	}
}

func (b *RootContextBuilder) visitImport(s *pyast.Import) {
	if len(s.Names) > 1 {
		b.sink.Info(b.file, "import", "multiple imports on one statement", s.Pos.LineNo, s.Pos.ColOffset)
	}
	for _, alias := range s.Names {
		b.ctx.Add(b.makeImportSymbol(alias.Name, localNameOf(alias), "", s.Pos))
	}
}

func localNameOf(a pyast.Alias) string {
	if a.AsName != "" {
		return a.AsName
	}
	if i := strings.IndexByte(a.Name, '.'); i >= 0 {
		return a.Name[:i]
	}
	return a.Name
}

func (b *RootContextBuilder) makeImportSymbol(qualified, local, moduleOverride string, pos pyast.Pos) symbol.Import {
	imp := symbol.Import{
		LocalName: local,
		Qualified: qualified,
		Location:  pos.Loc(b.file),
	}
	if moduleOverride != "" {
		imp.ModuleName = moduleOverride
	} else {
		imp.ModuleName = qualified
	}
	if !isBlacklistedModule(imp.ModuleName) {
		imp.ModuleSpec = modlocate.LocateModule(b.projectRoot, imp.ModuleName)
		if imp.ModuleSpec == "" && modlocate.ClassifyModule(b.projectRoot, imp.ModuleName) == modlocate.Pip {
			// Pip-installed modules are locatable in principle but not
			// on disk under the project root; this is not itself an
			// error condition.
		}
	}
	return imp
}

func isBlacklistedModule(name string) bool {
	for _, p := range []string{"rattr"} {
		if name == p || strings.HasPrefix(name, p+".") {
			return true
		}
	}
	return false
}

func (b *RootContextBuilder) visitImportFrom(s *pyast.ImportFrom) {
	starred := identname.IsStarredImport(s)
	relative := identname.IsRelativeImport(s)

	switch {
	case relative && starred:
		b.visitStarredRelativeImport(s)
	case relative && !starred:
		b.visitRelativeImport(s)
	case !relative && starred:
		b.visitStarredImport(s)
	default:
		b.visitNamedImport(s)
	}
}

func (b *RootContextBuilder) absoluteModule(s *pyast.ImportFrom) string {
	base := modlocate.DeriveModuleNameFromPath(b.projectRoot, b.file)
	return modlocate.DeriveAbsoluteModuleName(base, s.Module, s.Level, b.ctx.IsInitFile())
}

func (b *RootContextBuilder) visitNamedImport(s *pyast.ImportFrom) {
	module := s.Module
	for _, alias := range s.Names {
		local := alias.Name
		if alias.AsName != "" {
			local = alias.AsName
		}
		b.ctx.Add(b.makeImportSymbol(module+"."+alias.Name, local, module, s.Pos))
	}
}

func (b *RootContextBuilder) visitRelativeImport(s *pyast.ImportFrom) {
	module := b.absoluteModule(s)
	for _, alias := range s.Names {
		local := alias.Name
		if alias.AsName != "" {
			local = alias.AsName
		}
		b.ctx.Add(b.makeImportSymbol(module+"."+alias.Name, local, module, s.Pos))
	}
}

func (b *RootContextBuilder) visitStarredImport(s *pyast.ImportFrom) {
	if !b.ctx.IsInitFile() {
		b.sink.Warning(b.file, "from "+s.Module+" import *", "starred import outside __init__ file", s.Pos.LineNo, s.Pos.ColOffset)
	}
	b.ctx.Add(symbol.Import{
		LocalName: s.Module, Qualified: s.Module, ModuleName: s.Module,
		Starred: true, Location: s.Pos.Loc(b.file),
	})
}

func (b *RootContextBuilder) visitStarredRelativeImport(s *pyast.ImportFrom) {
	module := b.absoluteModule(s)
	if !b.ctx.IsInitFile() {
		b.sink.Warning(b.file, "from "+module+" import *", "starred import outside __init__ file", s.Pos.LineNo, s.Pos.ColOffset)
	}
	b.ctx.Add(symbol.Import{
		LocalName: module, Qualified: module, ModuleName: module,
		Starred: true, Location: s.Pos.Loc(b.file),
	})
}

func (b *RootContextBuilder) visitFunctionDef(s *pyast.FunctionDef) {
	iface := CallInterfaceFromArguments(s.Args)
	b.ctx.Add(symbol.Func{Name: s.Name, Interface: iface, Location: s.Pos.Loc(b.file), IsAsync: s.IsAsync})
}

func (b *RootContextBuilder) visitClassDef(s *pyast.ClassDef) {
	b.ctx.Add(symbol.Class{Name: s.Name, Location: s.Pos.Loc(b.file)})
}

func (b *RootContextBuilder) visitDelete(s *pyast.Delete) {
	for _, t := range s.Targets {
		if name, ok := t.(*pyast.Name); ok {
			b.ctx.Remove(name.Id)
			b.sink.Warning(b.file, name.Id, "deleted name is undefined so far as analysis is concerned", s.Pos.LineNo, s.Pos.ColOffset)
		}
	}
}

func (b *RootContextBuilder) visitExprStmt(s *pyast.ExprStmt) {
	switch s.Value.(type) {
	case *pyast.Constant, *pyast.Call:
		return
	case *pyast.Lambda:
		b.sink.Error(b.file, "lambda", "top-level bare lambda expression", s.Pos.LineNo, s.Pos.ColOffset)
	default:
		b.sink.Error(b.file, "expr", "unexpected top-level bare expression", s.Pos.LineNo, s.Pos.ColOffset)
	}
}

// visitAssignment handles Assign/AnnAssign/AugAssign/NamedExpr
// uniformly, per spec.md §4.4: lambda-RHS registers a Func, namedtuple-
// RHS registers a Class, walrus-in-RHS is registered recursively, and
// the plain case registers each target identifier as a Name.
func (b *RootContextBuilder) visitAssignment(pos pyast.Pos, targets []pyast.Expr, value pyast.Expr) {
	if identname.HasLambdaInRHS(value) && identname.AssignmentIsOneToOne(targets, value) {
		if name, ok := targets[0].(*pyast.Name); ok {
			lambda := value.(*pyast.Lambda)
			iface := CallInterfaceFromArguments(lambda.Args)
			b.ctx.Add(symbol.Func{Name: name.Id, Interface: iface, Location: pos.Loc(b.file)})
			return
		}
	}

	if call, ok := identname.HasNamedtupleDeclarationInRHS(value); ok {
		if name, ok := targets[0].(*pyast.Name); ok {
			_, err := identname.NamedtupleInitSignature(call)
			if err != nil {
				b.sink.Error(b.file, name.Id, err.Error(), pos.LineNo, pos.ColOffset)
			} else {
				b.ctx.Add(symbol.Class{
					Name:      name.Id,
					Interface: symbol.CallInterface{Args: []string{"self"}, Vararg: "attrs"},
					Location:  pos.Loc(b.file),
				})
			}
			return
		}
	}

	for _, walrus := range identname.WalrusesInRHS(value) {
		if name, ok := walrus.Target.(*pyast.Name); ok {
			b.ctx.Add(symbol.NewName(name.Id, walrus.Pos.Loc(b.file)))
		}
	}

	for _, t := range identname.AssignmentTargets(targets) {
		if name, ok := t.(*pyast.Name); ok {
			b.ctx.Add(symbol.NewName(name.Id, pos.Loc(b.file)))
		}
	}
}
