package callgraph

import (
	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/symbol"
)

// Node is one function call in the simplification DAG: the call site
// itself, the resolved callable's symbol and IR, and the children
// discovered by following that IR's own calls. Mirrors IrDagNode in
// original_source/rattr/analyser/ir_dag.py.
type Node struct {
	Call       symbol.Call
	Func       symbol.Func
	FuncIr     *ir.FunctionIr
	fileIr     *ir.FileIr
	importsIr  ImportsIr
	projectRoot string
	sink       *diagnostic.Sink
	caller     *symbol.Func

	Children []*Node
}

// NewNode builds the root node of a simplification DAG for fn's own
// FunctionIr, not yet populated.
func NewNode(sink *diagnostic.Sink, fn symbol.Func, functionIr *ir.FunctionIr, fileIr *ir.FileIr, importsIr ImportsIr, projectRoot string) *Node {
	return &Node{Func: fn, FuncIr: functionIr, fileIr: fileIr, importsIr: importsIr, projectRoot: projectRoot, sink: sink}
}

// Populate BFS-walks func_ir's calls, resolving each to a child Node,
// breaking cycles (direct or indirect recursion) by tracking which call
// sites have already been expanded. Mirrors IrDagNode.populate.
func (n *Node) Populate(seen map[string]bool) map[string]bool {
	if seen == nil {
		seen = map[string]bool{}
	}

	for _, callSym := range n.FuncIr.Calls {
		call, ok := callSym.(symbol.Call)
		if !ok {
			continue
		}
		key := call.ID() + "@" + call.Location.String()
		if seen[key] {
			continue
		}

		target, targetIr, ok := GetCalleeTarget(n.sink, call, n.fileIr, n.importsIr, n.projectRoot, &n.Func)
		if !ok {
			continue
		}
		fn, isFunc := target.(symbol.Func)
		if !isFunc {
			if cls, isClass := target.(symbol.Class); isClass {
				fn = symbol.Func{Name: cls.Name, Interface: cls.Interface, Location: cls.Location}
			} else {
				continue
			}
		}

		child := &Node{
			Call: call, Func: fn, FuncIr: targetIr,
			fileIr: n.fileIr, importsIr: n.importsIr, projectRoot: n.projectRoot, sink: n.sink, caller: &n.Func,
		}
		n.Children = append(n.Children, child)
		seen[key] = true
	}

	for _, child := range n.Children {
		seen = child.Populate(seen)
	}
	return seen
}

// Simplify returns func_ir modified to include every resolvable
// dependent call's gets/sets/dels, each partially unbound from the
// callee's own parameter names to the identifiers the call site bound
// them to. Assumes Populate has already run. Mirrors
// IrDagNode.simplify: leaves return an unmodified copy; internal nodes
// union in each child's (already-simplified, then unbound) IR.
func (n *Node) Simplify() *ir.FunctionIr {
	if len(n.Children) == 0 {
		return n.FuncIr.Clone()
	}

	simplified := n.FuncIr.Clone()
	for _, child := range n.Children {
		childIr := child.Simplify()

		swaps, err := ConstructSwap(n.sink, child.Func, child.Call)
		if err != nil {
			continue
		}
		unbound := ir.Unbind(childIr, swaps)
		simplified.UnionFrom(unbound)
	}
	return simplified
}

// SimplifyFileIr runs Populate+Simplify for every entry in fileIr,
// replacing each entry's IR with its simplified form. Operates on a
// fresh FileIr so the caller's cached, pre-simplification IR is left
// untouched, per spec.md's "simplification runs on deep copies" rule.
func SimplifyFileIr(sink *diagnostic.Sink, fileIr *ir.FileIr, importsIr ImportsIr, projectRoot string) *ir.FileIr {
	out := ir.NewFileIr()
	for _, entry := range fileIr.Entries() {
		fn, isFunc := entry.Symbol.(symbol.Func)
		if !isFunc {
			if cls, isClass := entry.Symbol.(symbol.Class); isClass {
				fn = symbol.Func{Name: cls.Name, Interface: cls.Interface, Location: cls.Location}
			}
		}

		node := NewNode(sink, fn, entry.Ir, fileIr, importsIr, projectRoot)
		node.Populate(nil)
		out.Set(entry.Symbol, node.Simplify())
	}
	return out
}
