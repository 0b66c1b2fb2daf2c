package identname

import (
	"fmt"
	"strings"

	"github.com/suadelabs/rattr/internal/pyast"
)

// NamedtupleInitSignature derives a synthesized `(self, *attrs)`
// parameter list from a `namedtuple(name, attrs)` call, mirroring
// namedtuple_init_signature_from_declaration in
// original_source/rattr/ast/util.py. attrs may be given either as a
// literal list of string constants or a single space-delimited string
// constant; anything else is an error (the original's "literal-
// attribute-list expected" fatal condition, spec.md §7).
func NamedtupleInitSignature(call *pyast.Call) ([]string, error) {
	if len(call.Args) != 2 {
		return nil, fmt.Errorf("namedtuple call must have exactly 2 positional arguments, got %d", len(call.Args))
	}

	attrsArg := call.Args[1]

	var attrs []string
	switch a := attrsArg.(type) {
	case *pyast.List:
		strs, err := unpackListOfStrings(a)
		if err != nil {
			return nil, err
		}
		attrs = strs
	case *pyast.Tuple:
		strs, err := unpackTupleOfStrings(a)
		if err != nil {
			return nil, err
		}
		attrs = strs
	case *pyast.Constant:
		if a.Kind != "str" {
			return nil, fmt.Errorf("namedtuple attrs argument must be a string or list of strings")
		}
		attrs = parseSpaceDelimited(a.Value)
	default:
		return nil, fmt.Errorf("namedtuple attrs argument must be a literal list or space-delimited string")
	}

	for _, a := range attrs {
		if !isIdentifier(a) {
			return nil, fmt.Errorf("namedtuple attribute %q is not a valid identifier", a)
		}
	}

	return append([]string{"self"}, attrs...), nil
}

func unpackListOfStrings(lst *pyast.List) ([]string, error) {
	out := make([]string, 0, len(lst.Elts))
	for _, e := range lst.Elts {
		c, ok := e.(*pyast.Constant)
		if !ok || c.Kind != "str" {
			return nil, fmt.Errorf("namedtuple attrs list must contain only string literals")
		}
		out = append(out, c.Value)
	}
	return out, nil
}

func unpackTupleOfStrings(tup *pyast.Tuple) ([]string, error) {
	out := make([]string, 0, len(tup.Elts))
	for _, e := range tup.Elts {
		c, ok := e.(*pyast.Constant)
		if !ok || c.Kind != "str" {
			return nil, fmt.Errorf("namedtuple attrs tuple must contain only string literals")
		}
		out = append(out, c.Value)
	}
	return out, nil
}

func parseSpaceDelimited(s string) []string {
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	return fields
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isLetter := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && isDigit {
			return false
		}
		if !isLetter && !isDigit {
			return false
		}
	}
	return true
}
