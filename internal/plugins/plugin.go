// Package plugins implements the CustomFunctionAnalyser extension point
// (spec.md §4.9) and ships the five builtin plugins: getattr, setattr,
// hasattr, delattr, and sorted(iterable, key=...). A sixth,
// user-extensible defaultdict(factory) plugin is also provided per
// SPEC_FULL.md §13. Grounded on
// original_source/rattr/plugins/analysers/builtins.py.
package plugins

import (
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
)

// AnalyseFunc runs a full sub-analysis of node within ctx, returning the
// resulting FunctionIr. internal/analyser supplies the concrete
// implementation at registry-construction time; plugins never import
// internal/analyser directly, which would create an import cycle since
// the function analyser itself consults the plugin registry on every
// call site.
type AnalyseFunc func(ctx *rcontext.Context, node pyast.Node) (*ir.FunctionIr, error)

// CustomFunctionAnalyser is a per-call-site analyser keyed to a specific
// qualified function name.
type CustomFunctionAnalyser interface {
	Name() string
	QualifiedName() string
	// OnCall analyses one call site, given the call node, the context it
	// appears in, and a callback for running a full sub-analysis
	// (needed by plugins like sorted's key= lambda).
	OnCall(call *pyast.Call, ctx *rcontext.Context, analyse AnalyseFunc) (*ir.FunctionIr, error)
}

// Registry maps a plugin's qualified name to its analyser, and matches
// incoming calls considering aliased imports (an import's local name may
// differ from its qualified name).
type Registry struct {
	byQualifiedName map[string]CustomFunctionAnalyser
}

// NewRegistry builds a registry with the standard builtin plugins
// pre-registered.
func NewRegistry() *Registry {
	r := &Registry{byQualifiedName: map[string]CustomFunctionAnalyser{}}
	for _, p := range []CustomFunctionAnalyser{
		GetattrAnalyser{},
		SetattrAnalyser{},
		HasattrAnalyser{},
		DelattrAnalyser{},
		SortedAnalyser{},
		DefaultdictAnalyser{},
	} {
		r.Register(p)
	}
	return r
}

// Register adds or replaces a plugin by its qualified name.
func (r *Registry) Register(p CustomFunctionAnalyser) {
	r.byQualifiedName[p.QualifiedName()] = p
}

// Lookup finds the plugin matching qualifiedName, if any.
func (r *Registry) Lookup(qualifiedName string) (CustomFunctionAnalyser, bool) {
	p, ok := r.byQualifiedName[qualifiedName]
	return p, ok
}

// LookupByName finds a plugin whose bare Name matches name, used when
// the call target isn't an aliased import (e.g. the builtins
// getattr/setattr/hasattr/delattr/sorted, whose qualified name equals
// their bare name).
func (r *Registry) LookupByName(name string) (CustomFunctionAnalyser, bool) {
	for _, p := range r.byQualifiedName {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}
