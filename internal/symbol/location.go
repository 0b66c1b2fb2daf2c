// Package symbol defines the tagged-variant symbol model: Name, Builtin,
// Import, Func, Class, and Call, plus their shared Location and call-shape
// types.
package symbol

import "fmt"

// Location is a half-open source range within one file. Synthesized symbols
// (module-level dunders, language builtins) carry a zero Location.
type Location struct {
	LineNo      int
	EndLineNo   int
	ColOffset   int
	EndColOffset int
	File        string
}

// HasLocation reports whether l was derived from a real syntax node rather
// than synthesized.
func (l Location) HasLocation() bool {
	return l.File != ""
}

func (l Location) String() string {
	if !l.HasLocation() {
		return "<synthetic>"
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.LineNo, l.ColOffset)
}

// DefinedIn returns the file the location belongs to, or "" if synthetic.
func (l Location) DefinedIn() string {
	return l.File
}
