package serialize

import (
	"fmt"

	"github.com/suadelabs/rattr/internal/symbol"
)

// Symbol is the tagged-variant JSON envelope for any symbol.Symbol,
// mirroring ResultsEncoder's `repr(obj)`-by-variant behaviour but kept
// structured (round-trippable) rather than collapsed to a repr string,
// since spec.md §8 requires serialized documents to round-trip.
type Symbol struct {
	Type string `json:"type"`

	Name      string        `json:"name,omitempty"`
	Basename  string        `json:"basename,omitempty"`
	Interface CallInterface `json:"interface,omitempty"`
	HasAffect bool          `json:"has_affect,omitempty"`
	IsAsync   bool          `json:"is_async,omitempty"`

	LocalName  string `json:"local_name,omitempty"`
	Qualified  string `json:"qualified,omitempty"`
	ModuleName string `json:"module_name,omitempty"`
	ModuleSpec string `json:"module_spec,omitempty"`
	Starred    bool   `json:"starred,omitempty"`

	Args   *CallArguments `json:"args,omitempty"`
	Target *Symbol        `json:"target,omitempty"`

	Location Location `json:"location"`
}

// FromSymbol converts sym to its tagged wire form.
func FromSymbol(sym symbol.Symbol) Symbol {
	switch s := sym.(type) {
	case symbol.Name:
		return Symbol{Type: "Name", Name: s.Name, Basename: s.Basename, Location: fromLocation(s.Location)}
	case symbol.Builtin:
		return Symbol{Type: "Builtin", Name: s.Name, Interface: CallInterface(s.Interface), HasAffect: s.HasAffect}
	case symbol.Import:
		return Symbol{
			Type: "Import", LocalName: s.LocalName, Qualified: s.Qualified,
			ModuleName: s.ModuleName, ModuleSpec: s.ModuleSpec, Starred: s.Starred,
			Location: fromLocation(s.Location),
		}
	case symbol.Func:
		return Symbol{Type: "Func", Name: s.Name, Interface: CallInterface(s.Interface), IsAsync: s.IsAsync, Location: fromLocation(s.Location)}
	case symbol.Class:
		return Symbol{Type: "Class", Name: s.Name, Interface: CallInterface(s.Interface), Location: fromLocation(s.Location)}
	case symbol.Call:
		args := fromCallArguments(s.Args)
		out := Symbol{Type: "Call", Name: s.Name, Args: &args, Location: fromLocation(s.Location)}
		if s.Target != nil {
			target := FromSymbol(s.Target)
			out.Target = &target
		}
		return out
	default:
		return Symbol{Type: fmt.Sprintf("%T", sym)}
	}
}

// ToSymbol reconstructs the concrete symbol.Symbol this envelope
// describes.
func (s Symbol) ToSymbol() (symbol.Symbol, error) {
	switch s.Type {
	case "Name":
		return symbol.NewNameWithBasename(s.Name, s.Basename, s.Location.toSymbol()), nil
	case "Builtin":
		return symbol.NewBuiltin(s.Name), nil
	case "Import":
		return symbol.Import{
			LocalName: s.LocalName, Qualified: s.Qualified,
			ModuleName: s.ModuleName, ModuleSpec: s.ModuleSpec, Starred: s.Starred,
			Location: s.Location.toSymbol(),
		}, nil
	case "Func":
		return symbol.Func{Name: s.Name, Interface: symbol.CallInterface(s.Interface), IsAsync: s.IsAsync, Location: s.Location.toSymbol()}, nil
	case "Class":
		return symbol.Class{Name: s.Name, Interface: symbol.CallInterface(s.Interface), Location: s.Location.toSymbol()}, nil
	case "Call":
		call := symbol.Call{Name: s.Name, Location: s.Location.toSymbol()}
		if s.Args != nil {
			call.Args = s.Args.toSymbol()
		}
		if s.Target != nil {
			target, err := s.Target.ToSymbol()
			if err != nil {
				return nil, err
			}
			call.Target = target
		}
		return call, nil
	default:
		return nil, fmt.Errorf("serialize: unknown symbol type %q", s.Type)
	}
}
