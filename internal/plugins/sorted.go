package plugins

import (
	"fmt"

	"github.com/suadelabs/rattr/internal/identname"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/rcontext"
	"github.com/suadelabs/rattr/internal/symbol"
)

// SortedAnalyser handles `sorted(iterable, key=...)`: it analyses the
// iterable normally and, when key is a one-parameter lambda, runs a
// sub-analysis of the lambda body in a fresh child context and unbinds
// the lambda's single parameter to the iterable's fullname before
// merging all four effect sets into the call's own IR. Mirrors
// SortedAnalyser in
// original_source/rattr/plugins/analysers/builtins.py.
type SortedAnalyser struct{}

func (SortedAnalyser) Name() string          { return "sorted" }
func (SortedAnalyser) QualifiedName() string { return "sorted" }

func (SortedAnalyser) OnCall(call *pyast.Call, ctx *rcontext.Context, analyse AnalyseFunc) (*ir.FunctionIr, error) {
	if len(call.Args) == 0 {
		return ir.New(), nil
	}

	iterableIr, err := analyse(ctx, call.Args[0])
	if err != nil {
		return nil, err
	}

	var key *pyast.Keyword
	for i := range call.Keywords {
		if call.Keywords[i].Arg == "key" {
			key = &call.Keywords[i]
		}
	}
	if key == nil {
		return iterableIr, nil
	}

	lambda, isLambda := key.Value.(*pyast.Lambda)
	if !isLambda {
		keyIr, err := analyse(ctx, key.Value)
		if err != nil {
			return nil, err
		}
		iterableIr.UnionFrom(keyIr)
		for k, v := range keyIr.Calls {
			iterableIr.Calls[k] = v
		}
		return iterableIr, nil
	}

	allArgs := append(append([]pyast.Arg{}, lambda.Args.PosOnlyArgs...), lambda.Args.Args...)
	if len(allArgs) != 1 {
		return nil, fmt.Errorf("sorted(): key lambda must take exactly one argument")
	}
	param := allArgs[0].Arg

	iterable, err := identname.FullnameOf(call.Args[0], true)
	if err != nil {
		iterable = symbol.LiteralValuePrefix + "Unknown"
	}

	lambdaCtx := ctx.Child()
	lambdaCtx.AddArgument(symbol.NewName(param, symbol.Location{}))

	lambdaIr, err := analyse(lambdaCtx, lambda.Body)
	if err != nil {
		return nil, err
	}

	unbound := ir.Unbind(lambdaIr, map[string]string{param: iterable})
	iterableIr.UnionFrom(unbound)
	for k, v := range unbound.Calls {
		iterableIr.Calls[k] = v
	}

	return iterableIr, nil
}
