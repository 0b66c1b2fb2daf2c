// Package results generates the final, flat results object from a
// file's simplified IR: one record per callable, each of its four
// effect sets reduced from symbols to sorted identifier strings.
// Mirrors generate_results_from_ir in
// original_source/rattr/analyser/results.go.
package results

import (
	"sort"

	"github.com/suadelabs/rattr/internal/callgraph"
	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/symbol"
)

// FunctionResults is one callable's effect summary reduced to sorted,
// deduplicated identifier strings, matching spec.md §4.10's "plain
// results record with four sets of strings".
type FunctionResults struct {
	Gets  []string `json:"gets"`
	Sets  []string `json:"sets"`
	Dels  []string `json:"dels"`
	Calls []string `json:"calls"`
}

// FileResults maps a callable's identifier (the function or class
// name, not qualified by module) to its FunctionResults.
type FileResults map[string]FunctionResults

// namesOf reduces a FunctionIr set of symbols to a sorted slice of
// their SymbolName()s, mirroring the `{s.name for s in ...}` set
// comprehensions in generate_results_from_ir.
func namesOf(set map[string]symbol.Symbol) []string {
	out := make([]string, 0, len(set))
	seen := map[string]bool{}
	for _, sym := range set {
		name := sym.SymbolName()
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func resultsOf(functionIr *ir.FunctionIr) FunctionResults {
	return FunctionResults{
		Gets:  namesOf(functionIr.Gets),
		Sets:  namesOf(functionIr.Sets),
		Dels:  namesOf(functionIr.Dels),
		Calls: namesOf(functionIr.Calls),
	}
}

// GenerateFromIr simplifies fileIr's call graph (resolving callees via
// importsIr, under projectRoot) and reduces each entry's simplified IR
// to a FunctionResults record keyed by the callable's own name.
// Mirrors generate_results_from_ir: per-callable DAG population,
// simplification, then projection onto bare identifier strings.
func GenerateFromIr(sink *diagnostic.Sink, fileIr *ir.FileIr, importsIr callgraph.ImportsIr, projectRoot string) FileResults {
	simplified := callgraph.SimplifyFileIr(sink, fileIr, importsIr, projectRoot)

	out := make(FileResults, simplified.Len())
	for _, entry := range simplified.Entries() {
		out[entry.Symbol.SymbolName()] = resultsOf(entry.Ir)
	}
	return out
}
