package identname

import "github.com/suadelabs/rattr/internal/pyast"

// UnravelNames flattens an assignment target into its leaf name-like
// expressions, recursively expanding Tuple/List unpacking. Mirrors
// unravel_names in original_source/rattr/ast/util.py.
func UnravelNames(target pyast.Expr) []pyast.Expr {
	switch t := target.(type) {
	case *pyast.Tuple:
		var out []pyast.Expr
		for _, e := range t.Elts {
			out = append(out, UnravelNames(e)...)
		}
		return out
	case *pyast.List:
		var out []pyast.Expr
		for _, e := range t.Elts {
			out = append(out, UnravelNames(e)...)
		}
		return out
	default:
		return []pyast.Expr{target}
	}
}

// AssignmentTargets returns the leaf targets of every LHS in an Assign's
// (possibly chained) target list.
func AssignmentTargets(targets []pyast.Expr) []pyast.Expr {
	var out []pyast.Expr
	for _, t := range targets {
		out = append(out, UnravelNames(t)...)
	}
	return out
}

// IsSingularNonIterable reports whether e is a single, non-tuple/list
// target or value, used by AssignmentIsOneToOne.
func IsSingularNonIterable(e pyast.Expr) bool {
	switch e.(type) {
	case *pyast.Tuple, *pyast.List:
		return false
	default:
		return true
	}
}

// AssignmentIsOneToOne reports whether an assignment's LHS and RHS are
// both singular (neither side unpacks a sequence), mirroring
// assignment_is_one_to_one in original_source/rattr/ast/util.py. The
// root-context builder's lambda-RHS and namedtuple-RHS special-casing and
// the function analyser's class-initialiser-RHS special-casing require
// this to be true before applying.
func AssignmentIsOneToOne(targets []pyast.Expr, value pyast.Expr) bool {
	if len(targets) != 1 {
		return false
	}
	return IsSingularNonIterable(targets[0]) && IsSingularNonIterable(value)
}
