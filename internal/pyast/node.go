// Package pyast defines the syntax tree node types consumed by
// internal/analyser. spec.md §1 names the surface parser an out-of-scope
// external collaborator and assumes a fully parsed syntax tree is
// provided; internal/pyparser is that collaborator (see SPEC_FULL.md
// §12), and pyast is the tree shape it builds.
package pyast

import "github.com/suadelabs/rattr/internal/symbol"

// Pos is the source span of one node, convertible to a symbol.Location
// once the containing file is known.
type Pos struct {
	LineNo       int
	EndLineNo    int
	ColOffset    int
	EndColOffset int
}

// Loc attaches file to p, producing a symbol.Location.
func (p Pos) Loc(file string) symbol.Location {
	return symbol.Location{
		LineNo: p.LineNo, EndLineNo: p.EndLineNo,
		ColOffset: p.ColOffset, EndColOffset: p.EndColOffset,
		File: file,
	}
}

// Node is implemented by every statement and expression node.
type Node interface {
	Position() Pos
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Base embeds the common position field; concrete node types embed it.
type Base struct {
	Pos Pos
}

func (b Base) Position() Pos { return b.Pos }
