package identname

import "github.com/suadelabs/rattr/internal/pyast"

// IsStarredImport reports whether an ImportFrom statement is
// `from x import *`.
func IsStarredImport(stmt *pyast.ImportFrom) bool {
	return len(stmt.Names) == 1 && stmt.Names[0].Name == "*"
}

// IsRelativeImport reports whether an ImportFrom statement has leading
// dots (`from . import x` / `from ..pkg import x`).
func IsRelativeImport(stmt *pyast.ImportFrom) bool {
	return stmt.Level > 0
}

// HasLambdaInRHS reports whether value is a bare Lambda expression.
func HasLambdaInRHS(value pyast.Expr) bool {
	_, ok := value.(*pyast.Lambda)
	return ok
}

// HasWalrusInRHS reports whether value contains a NamedExpr anywhere in
// its immediate (non-recursive-into-nested-scopes) structure. The
// root-context builder's walrus double-binding handling calls
// WalrusesInRHS directly.
func HasWalrusInRHS(value pyast.Expr) bool {
	return len(WalrusesInRHS(value)) > 0
}

// WalrusesInRHS collects every NamedExpr node reachable from value
// without descending into nested function/lambda/comprehension scopes
// (those have their own binding rules), mirroring walruses_in_rhs in
// original_source/rattr/ast/util.py.
func WalrusesInRHS(value pyast.Expr) []*pyast.NamedExpr {
	var out []*pyast.NamedExpr
	var walk func(e pyast.Expr)
	walk = func(e pyast.Expr) {
		switch n := e.(type) {
		case nil:
			return
		case *pyast.NamedExpr:
			out = append(out, n)
			walk(n.Value)
		case *pyast.BinOp:
			walk(n.Left)
			walk(n.Right)
		case *pyast.UnaryOp:
			walk(n.Operand)
		case *pyast.BoolOp:
			for _, v := range n.Values {
				walk(v)
			}
		case *pyast.Compare:
			walk(n.Left)
			for _, v := range n.Comparators {
				walk(v)
			}
		case *pyast.IfExp:
			walk(n.Test)
			walk(n.Body)
			walk(n.OrElse)
		case *pyast.Tuple:
			for _, v := range n.Elts {
				walk(v)
			}
		case *pyast.List:
			for _, v := range n.Elts {
				walk(v)
			}
		case *pyast.Set:
			for _, v := range n.Elts {
				walk(v)
			}
		case *pyast.Call:
			walk(n.Func)
			for _, a := range n.Args {
				walk(a)
			}
			for _, k := range n.Keywords {
				walk(k.Value)
			}
		case *pyast.Attribute:
			walk(n.Value)
		case *pyast.Subscript:
			walk(n.Value)
			walk(n.Slice)
		case *pyast.Starred:
			walk(n.Value)
		}
	}
	walk(value)
	return out
}

// HasNamedtupleDeclarationInRHS reports whether value is a call whose
// callee basename is "namedtuple" or whose fullname ends in
// ".namedtuple", mirroring
// has_namedtuple_declaration_in_rhs.
func HasNamedtupleDeclarationInRHS(value pyast.Expr) (*pyast.Call, bool) {
	call, ok := value.(*pyast.Call)
	if !ok {
		return nil, false
	}
	_, fullname, err := NamesOf(call.Func, Options{Safe: true})
	if err != nil {
		return nil, false
	}
	if fullname == "namedtuple" || hasSuffix(fullname, ".namedtuple") {
		return call, true
	}
	return nil, false
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}
