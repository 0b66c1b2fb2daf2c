package rcontext

import (
	"strings"

	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/modlocate"
	"github.com/suadelabs/rattr/internal/symbol"
)

// primitiveReturningBuiltins recognizes calls of the form
// "@Constant.xxx()", "@Literal.xxx()" and "str(...).split" style chains
// where the receiver is a language builtin whose return type is a
// primitive, per spec.md §4.3's closing paragraph.
var primitiveReturningBuiltins = map[string]bool{
	"str": true, "int": true, "float": true, "bool": true, "bytes": true,
	"list": true, "tuple": true, "dict": true, "set": true, "frozenset": true,
	"len": true, "repr": true, "format": true, "sorted": true, "reversed": true,
}

func looksLikeMethodOnPrimitive(lhsName string) bool {
	if strings.HasPrefix(lhsName, symbol.LiteralValuePrefix) {
		return true
	}
	base := lhsName
	if i := strings.IndexByte(lhsName, '('); i >= 0 {
		base = lhsName[:i]
	}
	return primitiveReturningBuiltins[base]
}

// GetCallTargetOptions bundles the side-channel inputs GetCallTarget
// needs beyond the callee string itself.
type GetCallTargetOptions struct {
	Sink        *diagnostic.Sink
	ProjectRoot string
	File        string
	Line, Col   int
	Warn        bool
}

// GetCallTarget resolves a normalized callee identifier (ending in "()")
// to its target symbol, implementing the eleven-step algorithm of
// spec.md §4.3 verbatim. Returns nil whenever the target cannot
// be determined but the condition is recoverable (diagnostics are still
// emitted to opts.Sink as appropriate).
func (c *Context) GetCallTarget(calleeStr string, opts GetCallTargetOptions) symbol.Symbol {
	// Step 1: strip outermost "()" and leading "*".
	name := strings.TrimSuffix(calleeStr, "()")
	name = strings.TrimPrefix(name, "*")
	lhsName := name
	if i := strings.IndexByte(name, '.'); i >= 0 {
		lhsName = name[:i]
	}
	if i := strings.IndexByte(lhsName, '['); i >= 0 {
		lhsName = lhsName[:i]
	}

	// Step 2: literal target.
	if strings.HasPrefix(name, symbol.LiteralValuePrefix) {
		if opts.Warn {
			opts.Sink.Info(opts.File, calleeStr, "target lhs is a literal", opts.Line, opts.Col)
		}
		return nil
	}

	// Step 3: subscripted target.
	if strings.Contains(name, "[]") {
		if opts.Warn {
			if strings.Contains(name, ".") {
				opts.Sink.Info(opts.File, calleeStr, "target lhs is runtime-dependent (subscript)", opts.Line, opts.Col)
			} else {
				opts.Sink.Error(opts.File, calleeStr, "target is fully runtime-dependent (subscript)", opts.Line, opts.Col)
			}
		}
		return nil
	}

	target, hasTarget := c.Get(name)
	lhsTarget, hasLhsTarget := c.Get(lhsName)

	_, lhsIsImport := lhsTarget.(symbol.Import)

	// Step 5: method call.
	if name != lhsName && !hasTarget && hasLhsTarget && !lhsIsImport {
		if opts.Warn && !looksLikeMethodOnPrimitive(lhsName) {
			opts.Sink.Info(opts.File, calleeStr, "target is a method", opts.Line, opts.Col)
		}
		return lhsTarget
	}

	// Step 6 / 7: member of a module import, or method on an imported
	// non-module member.
	if strings.Contains(name, ".") && !hasTarget {
		if resolved, ok := c.resolveMemberOfModuleImport(name, opts); ok {
			return resolved
		}
		// Step 7: silently give up — a method called on a member pulled
		// out of an imported module, not itself a submodule.
		return nil
	}

	// Step 8: undefined target.
	if !hasTarget {
		if opts.Warn {
			opts.Sink.Warning(opts.File, calleeStr, "target is undefined", opts.Line, opts.Col)
		}
		return nil
	}

	// Step 9: call on a call result — best-effort: still return target
	// (see SPEC_FULL.md / spec.md §9 Open Questions).
	if _, isCall := target.(symbol.Call); isCall {
		if opts.Warn {
			opts.Sink.Error(opts.File, calleeStr, "target is a call on a call", opts.Line, opts.Col)
		}
		return target
	}

	// Step 10: resolved but not callable.
	if !target.IsCallable() {
		if opts.Warn {
			opts.Sink.Warning(opts.File, calleeStr, classifyNotCallable(name), opts.Line, opts.Col)
		}
		return target
	}

	// Step 11.
	return target
}

func classifyNotCallable(name string) string {
	switch {
	case !strings.Contains(name, "."):
		return "target is a procedural parameter, not callable"
	case strings.Contains(name, "."):
		return "target is a method-shaped name that is not callable"
	default:
		return "target is not callable"
	}
}

// resolveMemberOfModuleImport implements step 6: when the longest
// dotted prefix of name resolves to an Import whose qualified name is
// itself a locatable module, synthesize an Import(name_tail, qualname +
// "." + name_tail) for the remaining tail and return it.
func (c *Context) resolveMemberOfModuleImport(name string, opts GetCallTargetOptions) (symbol.Symbol, bool) {
	parts := strings.Split(name, ".")
	for prefixLen := len(parts) - 1; prefixLen >= 1; prefixLen-- {
		prefix := strings.Join(parts[:prefixLen], ".")
		tail := strings.Join(parts[prefixLen:], ".")

		sym, ok := c.Get(prefix)
		if !ok {
			continue
		}
		imp, ok := sym.(symbol.Import)
		if !ok {
			continue
		}
		if modlocate.ClassifyModule(opts.ProjectRoot, imp.Qualified) == modlocate.Unknown {
			continue
		}
		return symbol.Import{
			LocalName:  tail,
			Qualified:  imp.Qualified + "." + tail,
			ModuleName: imp.Qualified,
			Location:   imp.Location,
		}, true
	}
	return nil, false
}
