package symbol

// CallInterface is the parameter shape of a callable: positional-only,
// normal positional-or-keyword, a vararg collector, keyword-only, and a
// kwarg collector. Grounded on original_source/rattr/models/symbol/_symbol.py
// (CallInterface / ConsumableCallInterface).
type CallInterface struct {
	PosOnlyArgs []string
	Args        []string
	Vararg      string // "" if absent
	KwOnlyArgs  []string
	Kwarg       string // "" if absent

	// Any marks the AnyCallInterface sentinel: accepts any call without
	// parameter swapping. Used for builtins and imports of unknown shape.
	Any bool
}

// AnyCallInterface is the sentinel interface used for builtins and
// unresolvable imports.
func AnyCallInterface() CallInterface {
	return CallInterface{Any: true}
}

// All returns every named parameter, in declaration order: posonly, args,
// vararg, kwonly, kwarg.
func (c CallInterface) All() []string {
	if c.Any {
		return nil
	}
	out := make([]string, 0, len(c.PosOnlyArgs)+len(c.Args)+len(c.KwOnlyArgs)+2)
	out = append(out, c.PosOnlyArgs...)
	out = append(out, c.Args...)
	if c.Vararg != "" {
		out = append(out, c.Vararg)
	}
	out = append(out, c.KwOnlyArgs...)
	if c.Kwarg != "" {
		out = append(out, c.Kwarg)
	}
	return out
}

// HasVararg reports whether this interface collects extra positional
// arguments.
func (c CallInterface) HasVararg() bool { return c.Vararg != "" }

// HasKwarg reports whether this interface collects extra keyword arguments.
func (c CallInterface) HasKwarg() bool { return c.Kwarg != "" }

// CallArguments is the normalized shape of one call site: a sequence of
// positional identifiers and a map of keyword name to identifier. Each
// element is itself the result of identifier normalization (see
// internal/identname.NamesOf).
type CallArguments struct {
	Args   []string
	Kwargs map[string]string
}

// NewCallArguments builds an empty CallArguments ready to be appended to.
func NewCallArguments() CallArguments {
	return CallArguments{Kwargs: map[string]string{}}
}

// WithSelf returns a copy of c with name prepended as the first positional
// argument — used when a bare method call's implicit receiver needs to be
// recorded explicitly (e.g. a class initializer call).
func (c CallArguments) WithSelf(name string) CallArguments {
	args := make([]string, 0, len(c.Args)+1)
	args = append(args, name)
	args = append(args, c.Args...)
	kwargs := make(map[string]string, len(c.Kwargs))
	for k, v := range c.Kwargs {
		kwargs[k] = v
	}
	return CallArguments{Args: args, Kwargs: kwargs}
}
