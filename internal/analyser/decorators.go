package analyser

import (
	"strings"

	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/symbol"
)

// hasDecorator reports whether decorators contains one named name (the
// last dotted segment is matched, so both `@rattr_ignore` and
// `@some_module.rattr_ignore` match). Mirrors has_annotation in
// original_source/rattr/analyser/util.py.
func hasDecorator(decorators []pyast.Decorator, name string) bool {
	for _, d := range decorators {
		if d.Name == name || strings.HasSuffix(d.Name, "."+name) {
			return true
		}
	}
	return false
}

// findDecorator returns the named decorator's Call form, if present and
// itself called (i.e. `@rattr_results(...)`, not a bare `@rattr_results`).
func findDecorator(decorators []pyast.Decorator, name string) (*pyast.Call, bool) {
	for _, d := range decorators {
		if (d.Name == name || strings.HasSuffix(d.Name, "."+name)) && d.Call != nil {
			return d.Call, true
		}
	}
	return nil, false
}

// rattrResultsIr builds a FunctionIr literally from an `@rattr_results(
// gets=[...], sets=[...], dels=[...], calls=[...])` decorator call,
// mirroring parse_rattr_results_from_annotation in
// original_source/rattr/analyser/util.py. Unrecognised keyword names are
// a fatal error, matching the original's strict keyword validation.
func rattrResultsIr(env *Env, call *pyast.Call, loc symbol.Location) (*ir.FunctionIr, error) {
	if len(call.Args) > 0 {
		return nil, env.Sink.FatalErr(env.File, "rattr_results", "rattr_results takes no positional arguments", loc.LineNo, loc.ColOffset)
	}

	out := ir.New()
	for _, kw := range call.Keywords {
		switch kw.Arg {
		case "gets":
			addNameLiteralsTo(out.Gets, kw.Value, loc)
		case "sets":
			addNameLiteralsTo(out.Sets, kw.Value, loc)
		case "dels":
			addNameLiteralsTo(out.Dels, kw.Value, loc)
		case "calls":
			addCallLiteralsTo(out.Calls, kw.Value, loc)
		default:
			return nil, env.Sink.FatalErr(env.File, kw.Arg, "unexpected keyword argument to rattr_results", loc.LineNo, loc.ColOffset)
		}
	}
	return out, nil
}

func stringLiteralsOf(e pyast.Expr) []string {
	var elts []pyast.Expr
	switch v := e.(type) {
	case *pyast.List:
		elts = v.Elts
	case *pyast.Set:
		elts = v.Elts
	case *pyast.Tuple:
		elts = v.Elts
	default:
		return nil
	}
	out := make([]string, 0, len(elts))
	for _, el := range elts {
		if c, ok := el.(*pyast.Constant); ok && c.Kind == "str" {
			out = append(out, c.Value)
		}
	}
	return out
}

func addNameLiteralsTo(dst map[string]symbol.Symbol, e pyast.Expr, loc symbol.Location) {
	for _, name := range stringLiteralsOf(e) {
		dst[name] = symbol.NewName(name, loc)
	}
}

// addCallLiteralsTo parses the `calls=[(name, ([args...], {kw: local}))]`
// literal form into synthesized Call symbols.
func addCallLiteralsTo(dst map[string]symbol.Symbol, e pyast.Expr, loc symbol.Location) {
	list, ok := e.(*pyast.List)
	if !ok {
		return
	}
	for _, el := range list.Elts {
		spec, ok := el.(*pyast.Tuple)
		if !ok || len(spec.Elts) != 2 {
			continue
		}
		nameConst, ok := spec.Elts[0].(*pyast.Constant)
		if !ok {
			continue
		}
		argsTuple, ok := spec.Elts[1].(*pyast.Tuple)
		if !ok || len(argsTuple.Elts) != 2 {
			continue
		}

		callArgs := symbol.NewCallArguments()
		callArgs.Args = stringLiteralsOf(argsTuple.Elts[0])
		if dict, ok := argsTuple.Elts[1].(*pyast.Dict); ok {
			for _, entry := range dict.Entries {
				k, kok := entry.Key.(*pyast.Constant)
				v, vok := entry.Value.(*pyast.Constant)
				if kok && vok {
					callArgs.Kwargs[k.Value] = v.Value
				}
			}
		}

		name := nameConst.Value + "()"
		dst[name] = symbol.Call{Name: name, Args: callArgs, Location: loc}
	}
}
