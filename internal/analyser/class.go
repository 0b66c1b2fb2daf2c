package analyser

import (
	"strings"

	"github.com/suadelabs/rattr/internal/identname"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/symbol"
)

// ClassAnalyser walks one class's non-method body, re-analyses its
// __init__ (if any) in the parent context under the class's own name,
// and registers each @staticmethod as an ordinary qualified Func.
// Mirrors ClassAnalyser in original_source/rattr/analyser/cls.py:
// rattr's class support is intentionally thin (no inheritance, no
// instance-method analysis beyond __init__).
type ClassAnalyser struct {
	env   *Env
	ctx   *rcontext.Context
	class *pyast.ClassDef
}

// NewClassAnalyser builds a ClassAnalyser for cls, to run against the
// parent context (not a child scope — static methods, initializers, and
// class attributes are registered directly into the enclosing context
// under transformed names, exactly as the original does).
func NewClassAnalyser(env *Env, parentCtx *rcontext.Context, cls *pyast.ClassDef) *ClassAnalyser {
	return &ClassAnalyser{env: env, ctx: parentCtx, class: cls}
}

// Analyse returns the FileIr entries produced for this class: one entry
// for its initializer (keyed by the Class symbol itself, its interface
// possibly widened by __init__'s parameters) and one entry per
// @staticmethod (keyed by a `ClassName.method` Func).
func (a *ClassAnalyser) Analyse() (*ir.FileIr, error) {
	out := ir.NewFileIr()

	var methods, nonMethods []pyast.Stmt
	for _, stmt := range a.class.Body {
		if fn, ok := stmt.(*pyast.FunctionDef); ok {
			methods = append(methods, fn)
			continue
		}
		nonMethods = append(nonMethods, stmt)
	}

	for _, stmt := range nonMethods {
		a.visitClassBodyStmt(stmt)
	}

	var initMethod *pyast.FunctionDef
	for _, m := range methods {
		fn := m.(*pyast.FunctionDef)
		if fn.Name == "__init__" {
			if initMethod != nil {
				a.env.Sink.Error(a.env.File, a.class.Name, "found multiple __init__ methods for class", fn.Pos.LineNo, fn.Pos.ColOffset)
				continue
			}
			if fn.IsAsync {
				return nil, a.env.Sink.FatalErr(a.env.File, a.class.Name, "found async __init__ method for class", fn.Pos.LineNo, fn.Pos.ColOffset)
			}
			initMethod = fn
		}
	}

	switch {
	case initMethod != nil:
		if err := a.visitInitialiser(initMethod, out); err != nil {
			return nil, err
		}
	case isEnumByHeuristic(a.class):
		a.visitEnumInitialiser(out)
	case isNamedtupleByHeuristic(a.class):
		a.visitNamedtupleInitialiser(out)
	}

	for _, m := range methods {
		fn := m.(*pyast.FunctionDef)
		if fn.Name == "__init__" {
			continue
		}
		if hasDecorator(fn.Decorators, "staticmethod") {
			if err := a.visitStaticMethod(fn, out); err != nil {
				return nil, err
			}
		}
	}

	return out, nil
}

func (a *ClassAnalyser) prefix() string { return a.class.Name + "." }

func (a *ClassAnalyser) classSymbol() (symbol.Class, bool) {
	return a.ctx.GetClassOrError(a.class.Name)
}

// visitClassBodyStmt registers each assigned class-attribute name as
// `ClassName.attr` in the parent context, mirroring visit_AnyAssign in
// cls.py. Non-assignment statements (docstrings, pass) are ignored.
func (a *ClassAnalyser) visitClassBodyStmt(stmt pyast.Stmt) {
	var targets []pyast.Expr
	var pos pyast.Pos

	switch s := stmt.(type) {
	case *pyast.Assign:
		targets, pos = s.Targets, s.Pos
	case *pyast.AnnAssign:
		targets, pos = []pyast.Expr{s.Target}, s.Pos
	case *pyast.AugAssign:
		targets, pos = []pyast.Expr{s.Target}, s.Pos
	default:
		return
	}

	for _, leaf := range identname.AssignmentTargets(targets) {
		basename, _, err := identname.NamesOf(leaf, identname.Options{Safe: true})
		if err != nil || basename == "" {
			continue
		}
		a.ctx.Add(symbol.NewName(a.prefix()+basename, pos.Loc(a.env.File)))
	}
}

func (a *ClassAnalyser) visitInitialiser(init *pyast.FunctionDef, out *ir.FileIr) error {
	if hasDecorator(a.class.Decorators, "rattr_ignore") {
		return nil
	}

	cls, ok := a.classSymbol()
	if !ok {
		return nil
	}
	newClass := cls.WithInit(rcontext.CallInterfaceFromArguments(init.Args))
	a.updateClassSymbol(newClass)

	if call, found := findDecorator(a.class.Decorators, "rattr_results"); found {
		fnIr, err := rattrResultsIr(a.env, call, a.class.Pos.Loc(a.env.File))
		if err != nil {
			return err
		}
		out.Set(newClass, fnIr)
		return nil
	}

	initAnalyser := NewFunctionAnalyser(a.env, a.ctx)
	fnIr, _, err := initAnalyser.Analyse(init.Args, init.Body)
	if err != nil {
		return err
	}
	out.Set(newClass, fnIr)
	return nil
}

// visitEnumInitialiser synthesizes a `(self, _id)` initializer for an
// Enum subclass with no explicit __init__, whose effect is "gets every
// class attribute registered so far", mirroring visit_enum_initialiser
// in cls.py.
func (a *ClassAnalyser) visitEnumInitialiser(out *ir.FileIr) {
	cls, ok := a.classSymbol()
	if !ok {
		return
	}
	newClass := cls.WithInit(symbol.CallInterface{Args: []string{"self", "_id"}})
	a.updateClassSymbol(newClass)

	fnIr := ir.New()
	for _, sym := range a.ctx.DeclaredSymbols() {
		n, ok := sym.(symbol.Name)
		if ok && strings.HasPrefix(n.Name, a.prefix()) {
			fnIr.AddGet(n)
		}
	}
	out.Set(newClass, fnIr)
}

// visitNamedtupleInitialiser synthesizes a `(self, *attrs)` initializer
// for a NamedTuple subclass with no explicit __init__, where attrs is
// every class attribute registered so far, stripped of its prefix.
// Mirrors visit_named_tuple_initialiser in cls.py.
func (a *ClassAnalyser) visitNamedtupleInitialiser(out *ir.FileIr) {
	cls, ok := a.classSymbol()
	if !ok {
		return
	}

	var attrs []string
	for _, sym := range a.ctx.DeclaredSymbols() {
		n, ok := sym.(symbol.Name)
		if ok && strings.HasPrefix(n.Name, a.prefix()) {
			attrs = append(attrs, strings.TrimPrefix(n.Name, a.prefix()))
		}
	}

	newClass := cls.WithInit(symbol.CallInterface{Args: append([]string{"self"}, attrs...)})
	a.updateClassSymbol(newClass)
	out.Set(newClass, ir.New())
}

func (a *ClassAnalyser) visitStaticMethod(method *pyast.FunctionDef, out *ir.FileIr) error {
	qualified := a.class.Name + "." + method.Name
	fn := symbol.Func{
		Name:     qualified,
		Interface: rcontext.CallInterfaceFromArguments(method.Args),
		Location: method.Pos.Loc(a.env.File),
		IsAsync:  method.IsAsync,
	}
	a.ctx.Add(fn)

	methodAnalyser := NewFunctionAnalyser(a.env, a.ctx)
	fnIr, _, err := methodAnalyser.Analyse(method.Args, method.Body)
	if err != nil {
		return err
	}
	out.Set(fn, fnIr)
	return nil
}

func (a *ClassAnalyser) updateClassSymbol(newClass symbol.Class) {
	a.ctx.Remove(a.class.Name)
	a.ctx.Add(newClass)
}

func baseNames(cls *pyast.ClassDef) []string {
	out := make([]string, 0, len(cls.Bases))
	for _, b := range cls.Bases {
		name, err := identname.FullnameOf(b, true)
		if err != nil {
			continue
		}
		out = append(out, name)
	}
	return out
}

func isEnumByHeuristic(cls *pyast.ClassDef) bool {
	for _, b := range baseNames(cls) {
		if b == "Enum" || strings.HasSuffix(b, ".Enum") {
			return true
		}
	}
	return false
}

func isNamedtupleByHeuristic(cls *pyast.ClassDef) bool {
	for _, b := range baseNames(cls) {
		if b == "NamedTuple" || strings.HasSuffix(b, ".NamedTuple") {
			return true
		}
	}
	return false
}
