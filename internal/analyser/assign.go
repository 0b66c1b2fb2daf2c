package analyser

import (
	"github.com/suadelabs/rattr/internal/identname"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/symbol"
)

// visitAnyAssign handles Assign / AnnAssign / AugAssign, mirroring
// visit_Assign / visit_AnnAssign / visit_AugAssign in function.py. The
// only special form is a one-to-one class instantiation on the RHS,
// which goes to visitClassAssign. Every other RHS, a lambda, a
// namedtuple call or a walrus included, is visited as an ordinary
// expression and each target is recorded as a Set and bound in the
// function's scope. Unlike the module-level root-context builder
// (internal/rcontext's visitAssignment), a lambda or namedtuple RHS
// inside a function body registers no Func or Class symbol and emits no
// diagnostic of its own.
func (a *FunctionAnalyser) visitAnyAssign(pos pyast.Pos, targets []pyast.Expr, value pyast.Expr) error {
	if call, cls, ok := a.classInitInRHS(targets, value); ok {
		return a.visitClassAssign(pos, targets, call, cls)
	}

	if value != nil {
		if err := a.visitExpr(value); err != nil {
			return err
		}
	}
	for _, target := range targets {
		if err := a.visitStoreTarget(target); err != nil {
			return err
		}
	}
	return nil
}

// classInitInRHS reports whether a one-to-one assignment's RHS is a call
// whose target resolves to a Class, mirroring class_in_rhs in
// original_source/rattr/ast/util.py.
func (a *FunctionAnalyser) classInitInRHS(targets []pyast.Expr, value pyast.Expr) (*pyast.Call, symbol.Class, bool) {
	if value == nil || !identname.AssignmentIsOneToOne(targets, value) {
		return nil, symbol.Class{}, false
	}
	call, ok := value.(*pyast.Call)
	if !ok {
		return nil, symbol.Class{}, false
	}
	_, fullname, err := identname.NamesOf(call.Func, identname.Options{Safe: true})
	if err != nil {
		return nil, symbol.Class{}, false
	}
	target := a.ctx.GetCallTarget(fullname, rcontext.GetCallTargetOptions{
		Sink:        a.env.Sink,
		ProjectRoot: a.env.ProjectRoot,
		File:        a.env.File,
		Line:        call.Position().LineNo,
		Col:         call.Position().ColOffset,
	})
	cls, ok := target.(symbol.Class)
	if !ok {
		return nil, symbol.Class{}, false
	}
	return call, cls, true
}

// visitClassAssign handles `obj = C(...)`: a Call is recorded with self
// bound to the LHS name (rather than the usual positional binding), the
// LHS is registered as a set via the ordinary store-target path, and the
// call's own arguments are recursed into, mirroring visit_ClassAssign in
// original_source/rattr/analyser/function.py.
func (a *FunctionAnalyser) visitClassAssign(pos pyast.Pos, targets []pyast.Expr, call *pyast.Call, cls symbol.Class) error {
	_, fullname, err := identname.NamesOf(targets[0], identname.Options{Safe: true})
	if err != nil {
		return err
	}

	args := symbol.NewCallArguments()
	for _, arg := range call.Args {
		name, _ := identname.BasenameOf(arg, true)
		args.Args = append(args.Args, name)
	}
	for _, kw := range call.Keywords {
		if kw.Arg == "" {
			continue
		}
		name, _ := identname.BasenameOf(kw.Value, true)
		args.Kwargs[kw.Arg] = name
	}

	a.ir.AddCall(symbol.Call{
		Name:     cls.Name + "()",
		Args:     args.WithSelf(fullname),
		Target:   cls,
		Location: pos.Loc(a.env.File),
	})

	for _, target := range targets {
		if err := a.visitStoreTarget(target); err != nil {
			return err
		}
	}

	for _, arg := range call.Args {
		if err := a.visitExpr(arg); err != nil {
			return err
		}
	}
	for _, kw := range call.Keywords {
		if kw.Arg == "" {
			a.env.Sink.Error(a.env.File, "**kwargs", "dict-unpacking into a call is not supported", call.Position().LineNo, call.Position().ColOffset)
			continue
		}
		if err := a.visitExpr(kw.Value); err != nil {
			return err
		}
	}
	return nil
}

func (a *FunctionAnalyser) visitStoreTarget(target pyast.Expr) error {
	for _, leaf := range identname.UnravelNames(target) {
		if err := a.visitExpr(leaf); err != nil {
			return err
		}
		if s, ok := leaf.(*pyast.Starred); ok {
			leaf = s.Value
		}
		if n, ok := leaf.(*pyast.Name); ok {
			a.ctx.Add(symbol.NewName(n.Id, n.Position().Loc(a.env.File)))
		}
	}
	return nil
}

// visitDelete records each deleted target as a Del and forgets its
// binding in context, mirroring visit_Delete in function.py.
func (a *FunctionAnalyser) visitDelete(s *pyast.Delete) error {
	for _, target := range s.Targets {
		if err := a.visitExpr(target); err != nil {
			return err
		}
		if basename, _, err := identname.NamesOf(target, identname.Options{Safe: true}); err == nil && basename != "" {
			a.ctx.Remove(basename)
		}
	}
	return nil
}

// visitReturn analyses the returned expression like any other Get,
// mirroring visit_Return in function.py. A returned class instantiation
// goes through visitCall like any other call: self is bound to the
// @ClassName sentinel and the "initialised but not stored" warning is
// emitted; no @ReturnValue binding is made.
func (a *FunctionAnalyser) visitReturn(s *pyast.Return) error {
	if s.Value == nil {
		return nil
	}
	return a.visitExpr(s.Value)
}

// visitFor visits the iterable, then registers the loop target(s) as
// Sets (the iteration variable is assigned on every pass), then visits
// the body, mirroring visit_For in function.py.
func (a *FunctionAnalyser) visitFor(s *pyast.For) error {
	if err := a.visitExpr(s.Iter); err != nil {
		return err
	}
	if err := a.visitStoreTarget(s.Target); err != nil {
		return err
	}
	if err := a.visitBody(s.Body); err != nil {
		return err
	}
	return a.visitBody(s.OrElse)
}

// visitWith registers each `as` target as a Set after visiting its
// context-manager expression, mirroring visit_With in function.py.
func (a *FunctionAnalyser) visitWith(s *pyast.With) error {
	for _, item := range s.Items {
		if err := a.visitExpr(item.ContextExpr); err != nil {
			return err
		}
		if item.OptionalVars != nil {
			if err := a.visitStoreTarget(item.OptionalVars); err != nil {
				return err
			}
		}
	}
	return a.visitBody(s.Body)
}

// visitNamedExpr registers the walrus operator's target as a Set after
// visiting its value, mirroring visit_NamedExpr in function.py.
func (a *FunctionAnalyser) visitNamedExpr(e *pyast.NamedExpr) error {
	if err := a.visitExpr(e.Value); err != nil {
		return err
	}
	return a.visitStoreTarget(e.Target)
}

// visitLambdaExpr analyses an inline lambda's body in a fresh child
// scope with its parameters bound as arguments, merging the result into
// the enclosing IR. An inline (non-assigned, non-sorted-key) lambda
// contributes its free-variable accesses directly rather than being
// unbound, since there is no call site that supplies it a swap map
// (unlike the sorted() plugin's key= case in internal/plugins/sorted.go).
func (a *FunctionAnalyser) visitLambdaExpr(e *pyast.Lambda) error {
	lambdaCtx := a.ctx.Child()
	addArgsTo(lambdaCtx, e.Args)

	sub := &FunctionAnalyser{env: a.env, ctx: lambdaCtx, ir: a.ir}
	return sub.visitExpr(e.Body)
}

func addArgsTo(ctx *rcontext.Context, args pyast.Arguments) {
	add := func(name string) {
		if name != "" {
			ctx.AddArgument(symbol.NewName(name, symbol.Location{}))
		}
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

// visitComprehension registers every generator clause's target as a Set
// in a fresh child scope (comprehensions have their own scope in
// Python 3), visits each clause's iterable and guard conditions, then
// the yielded expression(s), mirroring visit_ListComp/SetComp/DictComp/
// GeneratorExp in function.py — generators are visited before the
// yielded expression since later clauses and the body may reference
// earlier clauses' targets.
func (a *FunctionAnalyser) visitComprehension(generators []pyast.Comprehension, yielded []pyast.Expr) error {
	compCtx := a.ctx.Child()
	sub := &FunctionAnalyser{env: a.env, ctx: compCtx, ir: a.ir}

	for _, gen := range generators {
		if err := sub.visitExpr(gen.Iter); err != nil {
			return err
		}
		if err := sub.visitStoreTarget(gen.Target); err != nil {
			return err
		}
		for _, cond := range gen.Ifs {
			if err := sub.visitExpr(cond); err != nil {
				return err
			}
		}
	}
	for _, y := range yielded {
		if y == nil {
			continue
		}
		if err := sub.visitExpr(y); err != nil {
			return err
		}
	}
	return nil
}
