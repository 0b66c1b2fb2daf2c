// Package serialize implements the JSON-compatible wire format for
// symbols, IR, and results, used both by the cache (internal/cache)
// and by the `--stdout ir|results|cacheable` CLI output modes.
// Locations serialize as a five-element tuple, symbols are tagged by
// variant name, and call interfaces collapse to the string "any" for
// AnyCallInterface. Grounded on
// original_source/rattr/analyser/results.py's ResultsEncoder and the
// attrs field layout of original_source/rattr/models/symbol/_symbol.py.
package serialize

import (
	"encoding/json"
	"fmt"

	"github.com/suadelabs/rattr/internal/symbol"
)

// Location mirrors symbol.Location as the five-element JSON tuple
// (lineno, end_lineno, col_offset, end_col_offset, file) described in
// spec.md §6.
type Location symbol.Location

func (l Location) MarshalJSON() ([]byte, error) {
	return json.Marshal([5]any{l.LineNo, l.EndLineNo, l.ColOffset, l.EndColOffset, l.File})
}

func (l *Location) UnmarshalJSON(data []byte) error {
	var tuple [5]json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("serialize: location: %w", err)
	}
	if err := json.Unmarshal(tuple[0], &l.LineNo); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[1], &l.EndLineNo); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[2], &l.ColOffset); err != nil {
		return err
	}
	if err := json.Unmarshal(tuple[3], &l.EndColOffset); err != nil {
		return err
	}
	return json.Unmarshal(tuple[4], &l.File)
}

func fromLocation(l symbol.Location) Location { return Location(l) }

func (l Location) toSymbol() symbol.Location { return symbol.Location(l) }
