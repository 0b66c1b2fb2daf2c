// Package identname implements identifier normalization: turning a
// syntactic expression into the (basename, fullname) pair spec.md §4.1
// describes, memoized exactly as original_source/rattr/ast/_util.py's
// `names_of` is (`@lru_cache(maxsize=None)`). This is the sole bridge
// between syntax and the downstream set-based model, shared by
// internal/rcontext (root-context building) and internal/analyser
// (per-function IR).
package identname

import (
	"fmt"
	"sync"

	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/symbol"
)

// UnnameableError is returned in strict mode (Safe == false) when an
// expression class has no nameable form, mirroring the specific
// Rattr*InNameable exception hierarchy in the original.
type UnnameableError struct {
	NodeKind string
}

func (e *UnnameableError) Error() string {
	return fmt.Sprintf("expression of kind %s cannot be used as a name", e.NodeKind)
}

// Options controls names_of's two behavioral toggles.
type Options struct {
	// UnravelAttrAccessCalls controls whether getattr/setattr/hasattr/
	// delattr calls are unraveled to their (object, attribute) pair
	// instead of being named as an ordinary call. Defaults false (the
	// zero value); callers pass UnravelAttrAccessCalls: true explicitly.
	UnravelAttrAccessCalls bool
	// Safe, when true, returns a synthesized "@ClassName" pair instead of
	// an error for syntactically un-nameable expressions.
	Safe bool
}

type cacheKey struct {
	node    pyast.Expr
	unravel bool
	safe    bool
}

var (
	cache   = map[cacheKey]cachedResult{}
	cacheMu sync.Mutex
)

type cachedResult struct {
	basename, fullname string
	err                error
}

// NamesOf computes (basename, fullname) for node under opts, memoized by
// (node identity, opts). Mirrors names_of in
// original_source/rattr/ast/_util.py.
func NamesOf(node pyast.Expr, opts Options) (basename, fullname string, err error) {
	key := cacheKey{node: node, unravel: opts.UnravelAttrAccessCalls, safe: opts.Safe}

	cacheMu.Lock()
	if v, ok := cache[key]; ok {
		cacheMu.Unlock()
		return v.basename, v.fullname, v.err
	}
	cacheMu.Unlock()

	basename, fullname, err = namesOfUncached(node, opts)

	cacheMu.Lock()
	cache[key] = cachedResult{basename, fullname, err}
	cacheMu.Unlock()

	return basename, fullname, err
}

func namesOfUncached(node pyast.Expr, opts Options) (string, string, error) {
	switch n := node.(type) {
	case *pyast.Name:
		return n.Id, n.Id, nil

	case *pyast.Attribute:
		base, lhs, err := NamesOf(n.Value, opts)
		if err != nil {
			return "", "", err
		}
		return base, lhs + "." + n.Attr, nil

	case *pyast.Subscript:
		base, lhs, err := NamesOf(n.Value, opts)
		if err != nil {
			return "", "", err
		}
		return base, lhs + "[]", nil

	case *pyast.Starred:
		base, lhs, err := NamesOf(n.Value, opts)
		if err != nil {
			return "", "", err
		}
		return base, "*" + lhs, nil

	case *pyast.Call:
		return callName(n, opts)

	default:
		if opts.Safe {
			safe := safeName(node)
			return safe, safe, nil
		}
		return "", "", specificNameError(node)
	}
}

func callName(n *pyast.Call, opts Options) (string, string, error) {
	if opts.UnravelAttrAccessCalls {
		if callee, ok := n.Func.(*pyast.Name); ok && isAttrAccessBuiltin(callee.Id) {
			obj, attr, ok := attrAccessFnObjAttrPair(n, opts)
			if ok {
				base, lhs, err := NamesOf(obj, opts)
				if err != nil {
					return "", "", err
				}
				return base, lhs + "." + attr, nil
			}
		}
	}

	base, lhs, err := NamesOf(n.Func, opts)
	if err != nil {
		return "", "", err
	}
	return base, lhs + "()", nil
}

// attrAccessFnObjAttrPair extracts (object-expr, attribute-name) from a
// getattr/setattr/hasattr/delattr call, recursing through nested
// attr-access calls. When the attribute argument isn't a string literal,
// it synthesizes a "<varname>" placeholder, mirroring
// get_python_attr_access_fn_obj_attr_pair in
// original_source/rattr/ast/_util.py.
func attrAccessFnObjAttrPair(n *pyast.Call, opts Options) (pyast.Expr, string, bool) {
	if len(n.Args) < 2 {
		return nil, "", false
	}
	obj := n.Args[0]
	attrArg := n.Args[1]

	if lit, ok := attrArg.(*pyast.Constant); ok && lit.Kind == "str" {
		return obj, lit.Value, true
	}

	if nestedCall, ok := obj.(*pyast.Call); ok {
		if callee, ok := nestedCall.Func.(*pyast.Name); ok && isAttrAccessBuiltin(callee.Id) {
			innerObj, innerAttr, ok := attrAccessFnObjAttrPair(nestedCall, opts)
			if ok {
				_ = innerObj
				return obj, innerAttr, true
			}
		}
	}

	if name, ok := attrArg.(*pyast.Name); ok {
		return obj, "<" + name.Id + ">", true
	}

	return obj, "<attr>", true
}

func isAttrAccessBuiltin(name string) bool {
	for _, b := range symbol.PythonAttrAccessBuiltins {
		if b == name {
			return true
		}
	}
	return false
}

// safeName produces the "@ClassName" synthesized identifier for a
// syntactically un-nameable node, per spec.md §4.1.
func safeName(node pyast.Expr) string {
	return symbol.LiteralValuePrefix + nodeKind(node)
}

func specificNameError(node pyast.Expr) error {
	return &UnnameableError{NodeKind: nodeKind(node)}
}

func nodeKind(node pyast.Expr) string {
	switch node.(type) {
	case *pyast.BinOp:
		return "BinOp"
	case *pyast.UnaryOp:
		return "UnaryOp"
	case *pyast.BoolOp:
		return "BoolOp"
	case *pyast.Compare:
		return "Compare"
	case *pyast.IfExp:
		return "IfExp"
	case *pyast.Constant:
		return "Constant"
	case *pyast.Tuple:
		return "Tuple"
	case *pyast.List:
		return "List"
	case *pyast.Set:
		return "Set"
	case *pyast.Dict:
		return "Dict"
	case *pyast.ListComp:
		return "ListComp"
	case *pyast.SetComp:
		return "SetComp"
	case *pyast.DictComp:
		return "DictComp"
	case *pyast.GeneratorExp:
		return "GeneratorExp"
	case *pyast.Lambda:
		return "Lambda"
	case *pyast.NamedExpr:
		return "NamedExpr"
	default:
		return "Unknown"
	}
}

// BasenameOf and FullnameOf are the two most common narrow uses of
// NamesOf, mirroring basename_of/fullname_of in
// original_source/rattr/ast/util.py.
func BasenameOf(node pyast.Expr, safe bool) (string, error) {
	b, _, err := NamesOf(node, Options{Safe: safe})
	return b, err
}

func FullnameOf(node pyast.Expr, safe bool) (string, error) {
	_, f, err := NamesOf(node, Options{Safe: safe})
	return f, err
}
