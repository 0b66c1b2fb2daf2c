package serialize

import (
	"encoding/json"

	"github.com/suadelabs/rattr/internal/symbol"
)

// CallInterface serializes symbol.CallInterface either as the bare
// string "any" (AnyCallInterface) or as an object with the five
// parameter lists, per spec.md §6.
type CallInterface symbol.CallInterface

type callInterfaceObject struct {
	PosOnlyArgs []string `json:"posonlyargs"`
	Args        []string `json:"args"`
	Vararg      string   `json:"vararg,omitempty"`
	KwOnlyArgs  []string `json:"kwonlyargs"`
	Kwarg       string   `json:"kwarg,omitempty"`
}

func (c CallInterface) MarshalJSON() ([]byte, error) {
	if c.Any {
		return json.Marshal("any")
	}
	return json.Marshal(callInterfaceObject{
		PosOnlyArgs: emptyIfNil(c.PosOnlyArgs),
		Args:        emptyIfNil(c.Args),
		Vararg:      c.Vararg,
		KwOnlyArgs:  emptyIfNil(c.KwOnlyArgs),
		Kwarg:       c.Kwarg,
	})
}

func (c *CallInterface) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err == nil {
		if tag == "any" {
			*c = CallInterface(symbol.AnyCallInterface())
			return nil
		}
	}
	var obj callInterfaceObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = CallInterface{
		PosOnlyArgs: obj.PosOnlyArgs,
		Args:        obj.Args,
		Vararg:      obj.Vararg,
		KwOnlyArgs:  obj.KwOnlyArgs,
		Kwarg:       obj.Kwarg,
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// CallArguments serializes symbol.CallArguments as-is: a positional
// list and a keyword-to-identifier map.
type CallArguments struct {
	Args   []string          `json:"args"`
	Kwargs map[string]string `json:"kwargs"`
}

func fromCallArguments(a symbol.CallArguments) CallArguments {
	kwargs := a.Kwargs
	if kwargs == nil {
		kwargs = map[string]string{}
	}
	args := a.Args
	if args == nil {
		args = []string{}
	}
	return CallArguments{Args: args, Kwargs: kwargs}
}

func (a CallArguments) toSymbol() symbol.CallArguments {
	return symbol.CallArguments{Args: a.Args, Kwargs: a.Kwargs}
}
