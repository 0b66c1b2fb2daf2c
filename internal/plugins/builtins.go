package plugins

import (
	"strings"

	"github.com/suadelabs/rattr/internal/identname"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/symbol"
)

// accessedAttributes computes the full dotted-attribute name accessed by
// a getattr/setattr/hasattr/delattr call plus every strict prefix of it
// (the "lhs names"), mirroring accessed_attributes and iter_lhs_names in
// original_source/rattr/plugins/analysers/builtins.py.
func accessedAttributes(call *pyast.Call) (full string, lhsNames []string) {
	if len(call.Args) < 2 {
		return "", nil
	}
	objName, err := identname.FullnameOf(call.Args[0], true)
	if err != nil {
		return "", nil
	}
	attr := attrLiteral(call.Args[1])
	full = objName + "." + attr

	parts := strings.Split(full, ".")
	for endOffset := 1; endOffset < len(parts); endOffset++ {
		lhsNames = append(lhsNames, strings.Join(parts[:len(parts)-endOffset], "."))
	}
	return full, lhsNames
}

func attrLiteral(e pyast.Expr) string {
	if c, ok := e.(*pyast.Constant); ok && c.Kind == "str" {
		return c.Value
	}
	if n, ok := e.(*pyast.Name); ok {
		return "<" + n.Id + ">"
	}
	return "<attr>"
}

func nameSymbols(names []string, loc symbol.Location) map[string]symbol.Symbol {
	out := map[string]symbol.Symbol{}
	for _, n := range names {
		out[n] = symbol.NewName(n, loc)
	}
	return out
}

type GetattrAnalyser struct{}

func (GetattrAnalyser) Name() string          { return "getattr" }
func (GetattrAnalyser) QualifiedName() string { return "getattr" }
func (GetattrAnalyser) OnCall(call *pyast.Call, ctx *rcontext.Context, _ AnalyseFunc) (*ir.FunctionIr, error) {
	full, lhs := accessedAttributes(call)
	out := ir.New()
	for _, s := range nameSymbols(append(lhs, full), symbol.Location{}) {
		out.AddGet(s)
	}
	return out, nil
}

type SetattrAnalyser struct{}

func (SetattrAnalyser) Name() string          { return "setattr" }
func (SetattrAnalyser) QualifiedName() string { return "setattr" }
func (SetattrAnalyser) OnCall(call *pyast.Call, ctx *rcontext.Context, _ AnalyseFunc) (*ir.FunctionIr, error) {
	full, lhs := accessedAttributes(call)
	out := ir.New()
	for _, s := range nameSymbols(lhs, symbol.Location{}) {
		out.AddGet(s)
	}
	out.AddSet(symbol.NewName(full, symbol.Location{}))
	return out, nil
}

type HasattrAnalyser struct{}

func (HasattrAnalyser) Name() string          { return "hasattr" }
func (HasattrAnalyser) QualifiedName() string { return "hasattr" }
func (HasattrAnalyser) OnCall(call *pyast.Call, ctx *rcontext.Context, _ AnalyseFunc) (*ir.FunctionIr, error) {
	full, lhs := accessedAttributes(call)
	out := ir.New()
	for _, s := range nameSymbols(append(lhs, full), symbol.Location{}) {
		out.AddGet(s)
	}
	return out, nil
}

type DelattrAnalyser struct{}

func (DelattrAnalyser) Name() string          { return "delattr" }
func (DelattrAnalyser) QualifiedName() string { return "delattr" }
func (DelattrAnalyser) OnCall(call *pyast.Call, ctx *rcontext.Context, _ AnalyseFunc) (*ir.FunctionIr, error) {
	full, lhs := accessedAttributes(call)
	out := ir.New()
	for _, s := range nameSymbols(lhs, symbol.Location{}) {
		out.AddGet(s)
	}
	out.AddDel(symbol.NewName(full, symbol.Location{}))
	return out, nil
}

// DefaultdictAnalyser synthesizes a call to `factory` in the caller's
// IR for `defaultdict(factory)`. Additive beyond the original's four
// attribute-access plugins, per SPEC_FULL.md §13.
type DefaultdictAnalyser struct{}

func (DefaultdictAnalyser) Name() string          { return "defaultdict" }
func (DefaultdictAnalyser) QualifiedName() string { return "collections.defaultdict" }
func (DefaultdictAnalyser) OnCall(call *pyast.Call, ctx *rcontext.Context, analyse AnalyseFunc) (*ir.FunctionIr, error) {
	out := ir.New()
	if len(call.Args) == 0 {
		return out, nil
	}
	factoryName, err := identname.FullnameOf(call.Args[0], true)
	if err != nil {
		return out, nil
	}
	out.AddCall(symbol.Call{
		Name: factoryName + "()",
		Args: symbol.NewCallArguments(),
	})
	return out, nil
}
