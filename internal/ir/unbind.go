package ir

import (
	"strings"

	"github.com/suadelabs/rattr/internal/symbol"
)

// UnbindName replaces the basename of a Name symbol with newBasename,
// preserving the attribute tail and the leading "*" (for starred
// parameters), mirroring partially_unbind_name in
// original_source/rattr/analyser/ir_dag.py.
func UnbindName(n symbol.Name, newBasename string) symbol.Name {
	star := ""
	name := n.Name
	if strings.HasPrefix(name, "*") {
		star = "*"
		name = name[1:]
	}

	tail := strings.TrimPrefix(name, n.Basename)
	return symbol.Name{
		Name:     star + newBasename + tail,
		Basename: newBasename,
		Location: n.Location,
	}
}

// Unbind applies a parameter-name-to-argument-identifier swap map to
// every Name in gets/sets/dels (never calls — those are the caller's own
// view of its call sites and are never renamed). Returns a new
// FunctionIr; the input is left untouched. Mirrors partially_unbind in
// original_source/rattr/analyser/ir_dag.py and
// unbind_ir_with_call_swaps in original_source/rattr/results/util.py.
func Unbind(in *FunctionIr, swaps map[string]string) *FunctionIr {
	out := New()
	unbindSet := func(src, dst map[string]symbol.Symbol) {
		for _, s := range src {
			n, ok := s.(symbol.Name)
			if !ok {
				dst[s.ID()] = s
				continue
			}
			if newBase, ok := swaps[n.Basename]; ok {
				unbound := UnbindName(n, newBase)
				dst[unbound.ID()] = unbound
				continue
			}
			dst[n.ID()] = n
		}
	}
	unbindSet(in.Gets, out.Gets)
	unbindSet(in.Sets, out.Sets)
	unbindSet(in.Dels, out.Dels)
	for k, v := range in.Calls {
		out.Calls[k] = v
	}
	return out
}
