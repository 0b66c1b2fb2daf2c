package rcontext

import (
	"github.com/suadelabs/rattr/internal/pyast"
	"github.com/suadelabs/rattr/internal/symbol"
)

// CallInterfaceFromArguments builds a symbol.CallInterface from a
// parsed parameter list, mirroring CallInterface.from_arguments in
// original_source/rattr/models/symbol/_symbol.py.
func CallInterfaceFromArguments(args pyast.Arguments) symbol.CallInterface {
	iface := symbol.CallInterface{
		PosOnlyArgs: argNames(args.PosOnlyArgs),
		Args:        argNames(args.Args),
		KwOnlyArgs:  argNames(args.KwOnlyArgs),
	}
	if args.Vararg != nil {
		iface.Vararg = args.Vararg.Arg
	}
	if args.Kwarg != nil {
		iface.Kwarg = args.Kwarg.Arg
	}
	return iface
}

func argNames(args []pyast.Arg) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = a.Arg
	}
	return out
}
