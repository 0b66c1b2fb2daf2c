package serialize

import (
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/symbol"
)

// FunctionIr is the wire form of ir.FunctionIr: each of the four sets
// becomes a JSON array of tagged Symbol envelopes, dropping the
// internal by-ID map keys (round-tripping re-derives them from each
// symbol's own ID()).
type FunctionIr struct {
	Gets  []Symbol `json:"gets"`
	Sets  []Symbol `json:"sets"`
	Dels  []Symbol `json:"dels"`
	Calls []Symbol `json:"calls"`
}

func symbolsOf(set map[string]symbol.Symbol) []Symbol {
	out := make([]Symbol, 0, len(set))
	for _, sym := range set {
		out = append(out, FromSymbol(sym))
	}
	return out
}

// FromFunctionIr converts fn to its wire form.
func FromFunctionIr(fn *ir.FunctionIr) FunctionIr {
	return FunctionIr{
		Gets:  symbolsOf(fn.Gets),
		Sets:  symbolsOf(fn.Sets),
		Dels:  symbolsOf(fn.Dels),
		Calls: symbolsOf(fn.Calls),
	}
}

// ToFunctionIr reconstructs an ir.FunctionIr from its wire form.
func (fn FunctionIr) ToFunctionIr() (*ir.FunctionIr, error) {
	out := ir.New()
	for _, list := range []struct {
		envelopes []Symbol
		add       func(symbol.Symbol)
	}{
		{fn.Gets, out.AddGet},
		{fn.Sets, out.AddSet},
		{fn.Dels, out.AddDel},
		{fn.Calls, out.AddCall},
	} {
		for _, env := range list.envelopes {
			sym, err := env.ToSymbol()
			if err != nil {
				return nil, err
			}
			list.add(sym)
		}
	}
	return out, nil
}

// FileIr is the wire form of ir.FileIr: an ordered list of (symbol, ir)
// entries, preserving the symbol-table insert order spec.md §8
// requires.
type FileIr []FileIrEntry

// FileIrEntry is one callable's symbol paired with its FunctionIr.
type FileIrEntry struct {
	Symbol Symbol     `json:"symbol"`
	Ir     FunctionIr `json:"ir"`
}

// FromFileIr converts fileIr to its wire form.
func FromFileIr(fileIr *ir.FileIr) FileIr {
	entries := fileIr.Entries()
	out := make(FileIr, 0, len(entries))
	for _, e := range entries {
		out = append(out, FileIrEntry{Symbol: FromSymbol(e.Symbol), Ir: FromFunctionIr(e.Ir)})
	}
	return out
}

// ToFileIr reconstructs an ir.FileIr from its wire form.
func (fi FileIr) ToFileIr() (*ir.FileIr, error) {
	out := ir.NewFileIr()
	for _, e := range fi {
		sym, err := e.Symbol.ToSymbol()
		if err != nil {
			return nil, err
		}
		fnIr, err := e.Ir.ToFunctionIr()
		if err != nil {
			return nil, err
		}
		out.Set(sym, fnIr)
	}
	return out, nil
}
