// Package callgraph builds the per-call dependency DAG used to simplify
// a function's IR by inlining (a partially-unbound copy of) every
// callee it can resolve, and runs the simplification itself. Grounded
// directly on original_source/rattr/analyser/ir_dag.py: the cycle
// breaking by a seen-calls set, the four-way resolve_* dispatch, and the
// parameter-swap construction are all carried over line-for-line in
// spirit, generalized from Python's set-union IR shape to FunctionIr's
// map-based one.
package callgraph

import (
	"fmt"
	"sort"

	"github.com/suadelabs/rattr/internal/config"
	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/modlocate"
	"github.com/suadelabs/rattr/internal/symbol"
)

// ImportsIr maps a module's dotted name to the FileIr produced by
// analysing it, mirroring ImportsIr in
// original_source/rattr/analyser/types.py. Populated by the CLI driver's
// compileAndAnalyse (cmd/rattr) before simplification runs.
type ImportsIr map[string]*ir.FileIr

// resolveTargetAndIr finds callee's target symbol and its FunctionIr,
// looking first in fileIr (same-file calls) then, by deriving the
// defining module from the target's location, in importsIr.
func resolveTargetAndIr(callee symbol.Call, fileIr *ir.FileIr, importsIr ImportsIr, projectRoot string) (symbol.Symbol, *ir.FunctionIr, bool) {
	if callee.Target == nil {
		return nil, nil, false
	}
	if sym, functionIr, ok := fileIr.Get(callee.Target.ID()); ok {
		return sym, functionIr, true
	}

	module := modlocate.DeriveModuleNameFromPath(projectRoot, callee.Target.Loc().File)
	if module == "" {
		return nil, nil, false
	}
	moduleIr, ok := importsIr[module]
	if !ok {
		return nil, nil, false
	}
	sym, functionIr, ok := moduleIr.Get(callee.Target.ID())
	if !ok {
		return nil, nil, false
	}
	return sym, functionIr, true
}

// resolveFunction resolves a call whose target is a Func, mirroring
// resolve_function.
func resolveFunction(sink *diagnostic.Sink, callee symbol.Call, fileIr *ir.FileIr, importsIr ImportsIr, projectRoot string, caller *symbol.Func) (symbol.Symbol, *ir.FunctionIr, bool) {
	sym, functionIr, ok := resolveTargetAndIr(callee, fileIr, importsIr, projectRoot)
	if ok {
		return sym, functionIr, true
	}

	loc := callee.Target.Loc()
	msg := "unable to resolve call to " + callee.Target.ID()
	if caller != nil {
		msg += " in " + caller.Name
	}
	sink.Info(loc.File, callee.Target.ID(), msg, loc.LineNo, loc.ColOffset)
	return nil, nil, false
}

// resolveClassInit resolves a call whose target is a Class (its
// initializer), mirroring resolve_class_init.
func resolveClassInit(sink *diagnostic.Sink, callee symbol.Call, fileIr *ir.FileIr, importsIr ImportsIr, projectRoot string, caller *symbol.Func) (symbol.Symbol, *ir.FunctionIr, bool) {
	sym, functionIr, ok := resolveTargetAndIr(callee, fileIr, importsIr, projectRoot)
	if !ok {
		loc := callee.Target.Loc()
		sink.Error(loc.File, callee.Target.ID(), "unable to resolve initialiser for "+callee.Name, loc.LineNo, loc.ColOffset)
		return nil, nil, false
	}
	return sym, functionIr, true
}

// resolveImport resolves a call whose target is an Import, following
// the three independent follow-imports toggles and the module
// blacklist, mirroring resolve_import.
func resolveImport(sink *diagnostic.Sink, imp symbol.Import, importsIr ImportsIr, projectRoot string, caller *symbol.Func) (symbol.Symbol, *ir.FunctionIr, bool) {
	if imp.ModuleName == "" {
		return nil, nil, false
	}
	if modlocate.MatchesAny(imp.ModuleName, modlocate.CompilePatterns(config.ModuleBlacklistPatterns)) {
		return nil, nil, false
	}

	args := config.Get().Arguments
	kind := modlocate.ClassifyModule(projectRoot, imp.ModuleName)

	loc := imp.Loc()
	switch {
	case args.FollowImports() == 0:
		sink.Info(loc.File, imp.LocalName, "ignoring call to imported function "+imp.LocalName, loc.LineNo, loc.ColOffset)
		return nil, nil, false
	case kind == modlocate.Pip && !args.FollowPipImports():
		sink.Info(loc.File, imp.LocalName, "ignoring call to function imported from pip installed module "+imp.ModuleName, loc.LineNo, loc.ColOffset)
		return nil, nil, false
	case kind == modlocate.Stdlib && !args.FollowStdlibImports():
		sink.Info(loc.File, imp.LocalName, "ignoring call to function imported from stdlib module "+imp.ModuleName, loc.LineNo, loc.ColOffset)
		return nil, nil, false
	}

	moduleIr, ok := importsIr[imp.ModuleName]
	if !ok {
		return nil, nil, false
	}

	localName := imp.LocalName
	sym, functionIr, found := moduleIr.Get(localName)
	if !found {
		sym, functionIr, found = moduleIr.Get(imp.ModuleName + "." + localName)
	}
	if !found {
		if nested, ok := sym.(symbol.Import); ok {
			return resolveImport(sink, nested, importsIr, projectRoot, caller)
		}
		sink.Error(loc.File, localName, "unable to resolve call to "+localName+" in import "+imp.ModuleName, loc.LineNo, loc.ColOffset)
		return nil, nil, false
	}

	switch sym.(type) {
	case symbol.Func, symbol.Class:
		return sym, functionIr, true
	case symbol.Import:
		return resolveImport(sink, sym.(symbol.Import), importsIr, projectRoot, caller)
	default:
		return nil, nil, false
	}
}

// GetCalleeTarget returns the resolved target and FunctionIr of callee,
// dispatching on its target's concrete type, mirroring get_callee_target.
// ok is false whenever the target cannot or should not be followed
// (unresolved, a Builtin, a bare Name/procedural parameter, or an import
// that the follow-imports toggles / blacklist exclude).
func GetCalleeTarget(sink *diagnostic.Sink, callee symbol.Call, fileIr *ir.FileIr, importsIr ImportsIr, projectRoot string, caller *symbol.Func) (symbol.Symbol, *ir.FunctionIr, bool) {
	if callee.Target == nil {
		return nil, nil, false
	}
	switch t := callee.Target.(type) {
	case symbol.Builtin:
		return nil, nil, false
	case symbol.Func:
		return resolveFunction(sink, callee, fileIr, importsIr, projectRoot, caller)
	case symbol.Name:
		return nil, nil, false
	case symbol.Class:
		return resolveClassInit(sink, callee, fileIr, importsIr, projectRoot, caller)
	case symbol.Import:
		return resolveImport(sink, t, importsIr, projectRoot, caller)
	default:
		return nil, nil, false
	}
}

// varargSentinel and kwargSentinel are the synthesized identifiers bound
// to a vararg/kwarg collector parameter, mirroring VARARG_NAME/KWARGS_NAME
// in original_source/rattr/results/_simplify_utils.py (the literal-value
// prefix followed by the ast node class name for a tuple/dict literal).
const (
	varargSentinel = "@Tuple"
	kwargSentinel  = "@Dict"
)

// removeFirst removes the first occurrence of v from s, reporting whether
// it was found.
func removeFirst(s []string, v string) ([]string, bool) {
	for i, x := range s {
		if x == v {
			return append(s[:i:i], s[i+1:]...), true
		}
	}
	return s, false
}

// ConstructSwap builds the map of func's formal parameter names to
// call's bound argument identifiers, mirroring construct_call_swaps:
// positional-only parameters consume positional args first (running out
// is an error and aborts with a partial map), then normal positional
// parameters consume what's left. A vararg collector absorbs every
// remaining positional argument under the sentinel identifier `@Tuple`;
// without one, leftover positional args are "too many positional
// arguments". Keyword arguments then bind to any unconsumed positional-or-
// normal parameter, a keyword-only parameter, or (failing both) a kwarg
// collector under the sentinel identifier `@Dict`; anything left over is
// unexpected (non-fatal). A keyword argument naming a parameter already
// bound positionally is a fatal "given by position and name".
func ConstructSwap(sink *diagnostic.Sink, fn symbol.Func, call symbol.Call) (map[string]string, error) {
	swaps := map[string]string{}
	loc := fn.Location

	posonly := append([]string(nil), fn.Interface.PosOnlyArgs...)
	params := append([]string(nil), fn.Interface.Args...)
	kwonly := append([]string(nil), fn.Interface.KwOnlyArgs...)
	callArgs := append([]string(nil), call.Args.Args...)

	for len(posonly) > 0 {
		if len(callArgs) == 0 {
			sink.Error(loc.File, fn.Name, fmt.Sprintf(
				"call to %q expected %d posonlyargs but only received %d positional arguments",
				fn.Name, len(fn.Interface.PosOnlyArgs), len(call.Args.Args),
			), loc.LineNo, loc.ColOffset)
			return swaps, nil
		}
		swaps[posonly[0]] = callArgs[0]
		posonly, callArgs = posonly[1:], callArgs[1:]
	}

	for len(params) > 0 && len(callArgs) > 0 {
		swaps[params[0]] = callArgs[0]
		params, callArgs = params[1:], callArgs[1:]
	}

	if fn.Interface.HasVararg() {
		swaps[fn.Interface.Vararg] = varargSentinel
		callArgs = nil
	}
	if len(callArgs) > 0 {
		sink.Error(loc.File, fn.Name, fmt.Sprintf("call to %q received too many positional arguments", fn.Name), loc.LineNo, loc.ColOffset)
	}

	all := fn.Interface.All()
	allParams := make(map[string]bool, len(all))
	for _, p := range all {
		allParams[p] = true
	}

	kwargNames := sortedKwargNames(call.Args.Kwargs)
	for _, target := range kwargNames {
		if _, already := swaps[target]; already {
			return swaps, sink.FatalErr(loc.File, target, target+" given by position and name", loc.LineNo, loc.ColOffset)
		}
	}

	var unexpected []string
	for _, target := range kwargNames {
		replacement := call.Args.Kwargs[target]

		switch {
		case contains(params, target):
			params, _ = removeFirst(params, target)
			swaps[target] = replacement
		case contains(kwonly, target):
			kwonly, _ = removeFirst(kwonly, target)
			swaps[target] = replacement
		case fn.Interface.HasKwarg():
			swaps[fn.Interface.Kwarg] = kwargSentinel
		case !allParams[target]:
			unexpected = append(unexpected, target)
		}
	}

	if len(unexpected) > 0 {
		sink.Error(loc.File, fn.Name, fmt.Sprintf("call to %q received unexpected keyword arguments: %v", fn.Name, unexpected), loc.LineNo, loc.ColOffset)
	}

	return swaps, nil
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func sortedKwargNames(kwargs map[string]string) []string {
	out := make([]string, 0, len(kwargs))
	for k := range kwargs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
