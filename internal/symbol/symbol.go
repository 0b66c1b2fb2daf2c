package symbol

import "sort"

// LiteralValuePrefix is the sentinel prefix given to synthesized
// identifiers for literals and syntactically un-nameable expressions
// (e.g. "@Tuple", "@BinOp"). Mirrors Config.LITERAL_VALUE_PREFIX in
// original_source/rattr/config/_types.py.
const LiteralValuePrefix = "@"

// PythonLiteralBuiltins are the literal singleton names of the language.
var PythonLiteralBuiltins = []string{"None", "True", "False", "Ellipsis"}

// PythonAttrAccessBuiltins are the four builtins with special, attribute-
// access-shaped effects: getattr, setattr, hasattr, delattr.
var PythonAttrAccessBuiltins = []string{"delattr", "getattr", "hasattr", "setattr"}

// Symbol is the tagged-variant interface implemented by Name, Builtin,
// Import, Func, Class, and Call. Symbols are immutable once built and
// compare by structural equality (via Symbol.ID plus the concrete Go
// struct's own field equality, since Go has no content-addressed hashing
// built in); callers needing set semantics should key maps by ID() and
// compare full structural equality only when ID collisions are expected
// (starred imports).
type Symbol interface {
	// SymbolName returns the symbol's Name field (most symbols identify by
	// this exact string).
	SymbolName() string
	// ID returns the map/set key this symbol is deduplicated by. Most
	// symbols use SymbolName(); starred imports use "{qualified}.* " to
	// avoid collisions when several modules are star-imported.
	ID() string
	// Loc returns the symbol's source location, or a zero Location if
	// synthesized.
	Loc() Location
	// IsCallable reports whether this symbol may appear as a call target.
	IsCallable() bool
	// IsImport reports whether this symbol originates from an import
	// statement.
	IsImport() bool
}

// Name is a variable reference.
type Name struct {
	Name     string
	Basename string // defaults to Name if not otherwise derived
	Location Location
}

// NewName builds a Name symbol whose basename defaults to name itself.
func NewName(name string, loc Location) Name {
	return Name{Name: name, Basename: name, Location: loc}
}

// NewNameWithBasename builds a Name symbol with an explicit basename,
// used when the name is a compound identifier (e.g. "a.b.c" with
// basename "a").
func NewNameWithBasename(name, basename string, loc Location) Name {
	return Name{Name: name, Basename: basename, Location: loc}
}

func (n Name) SymbolName() string { return n.Name }
func (n Name) ID() string         { return n.Name }
func (n Name) Loc() Location      { return n.Location }
func (n Name) IsCallable() bool   { return false }
func (n Name) IsImport() bool     { return false }

// Builtin is a language builtin. HasAffect is true for the four
// attribute-access builtins (getattr/setattr/hasattr/delattr), which carry
// their own plugin-provided effects rather than being treated as inert.
type Builtin struct {
	Name      string
	Interface CallInterface // always AnyCallInterface()
	HasAffect bool
}

// NewBuiltin builds a Builtin symbol, deriving HasAffect from name.
func NewBuiltin(name string) Builtin {
	return Builtin{Name: name, Interface: AnyCallInterface(), HasAffect: isAttrAccessBuiltin(name)}
}

func isAttrAccessBuiltin(name string) bool {
	for _, b := range PythonAttrAccessBuiltins {
		if b == name {
			return true
		}
	}
	return false
}

func (b Builtin) SymbolName() string { return b.Name }
func (b Builtin) ID() string         { return b.Name }
func (b Builtin) Loc() Location      { return Location{} }
func (b Builtin) IsCallable() bool   { return true }
func (b Builtin) IsImport() bool     { return false }

// Import is an imported name: `local` is what the target file calls it,
// `Qualified` is the fully dotted source name, `ModuleName`/`ModuleSpec`
// describe the longest locatable module prefix (resolution lives in
// internal/modlocate).
type Import struct {
	LocalName     string
	Qualified     string
	ModuleName    string
	ModuleSpec    string // resolved file path, "" if unresolved
	Starred       bool
	Location      Location
}

func (i Import) SymbolName() string { return i.LocalName }

// ID returns the starred-import-safe identifier: "{qualified}.*" for
// starred imports (so several `from x import *` don't collide on a
// single symbol-table slot), else the local name.
func (i Import) ID() string {
	if i.Starred {
		return i.Qualified + ".*"
	}
	return i.LocalName
}
func (i Import) Loc() Location    { return i.Location }
func (i Import) IsCallable() bool { return false }
func (i Import) IsImport() bool   { return true }

// Func is a user-defined function or method.
type Func struct {
	Name      string
	Interface CallInterface
	Location  Location
	IsAsync   bool
}

func (f Func) SymbolName() string { return f.Name }
func (f Func) ID() string         { return f.Name }
func (f Func) Loc() Location      { return f.Location }
func (f Func) IsCallable() bool   { return true }
func (f Func) IsImport() bool     { return false }

// Class is a user-defined class. Interface comes from its initializer
// once one has been found (see internal/analyser's class analyser);
// before that it is the zero CallInterface.
type Class struct {
	Name      string
	Interface CallInterface
	Location  Location
}

// WithInit returns a copy of c with its interface replaced by the
// initializer's, mirroring Class.with_init in
// original_source/rattr/models/symbol/_symbols.py.
func (c Class) WithInit(initInterface CallInterface) Class {
	c.Interface = initInterface
	return c
}

func (c Class) SymbolName() string { return c.Name }
func (c Class) ID() string         { return c.Name }
func (c Class) Loc() Location      { return c.Location }
func (c Class) IsCallable() bool   { return true }
func (c Class) IsImport() bool     { return false }

// Call is a call site: Target is nil if unresolved, else one of Func,
// Class, Builtin, or Import (wrapped as Symbol).
type Call struct {
	Name     string // normalized callee identifier, ends in "()"
	Args     CallArguments
	Target   Symbol // nil if unresolved
	Location Location
}

func (c Call) SymbolName() string { return c.Name }
func (c Call) ID() string         { return c.Name }
func (c Call) Loc() Location      { return c.Location }
func (c Call) IsCallable() bool   { return false }
func (c Call) IsImport() bool     { return false }

// NameOfCall strips the trailing "()" for results presentation, matching
// original_source/rattr's Call.name_of_call.
func (c Call) NameOfCall() string {
	if len(c.Name) >= 2 && c.Name[len(c.Name)-2:] == "()" {
		return c.Name[:len(c.Name)-2]
	}
	return c.Name
}

// Less provides a total, deterministic order over symbols by ID, used
// wherever results must be emitted sorted (spec.md §8's round-trip law).
func Less(a, b Symbol) bool { return a.ID() < b.ID() }

// SortByID sorts a slice of symbols in place by ID.
func SortByID(syms []Symbol) {
	sort.Slice(syms, func(i, j int) bool { return Less(syms[i], syms[j]) })
}
