package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suadelabs/rattr/internal/callgraph"
	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/symbol"
)

func TestGenerateFromIr_SimpleFunction(t *testing.T) {
	fileIr := ir.NewFileIr()

	fn := symbol.Func{Name: "greet"}
	fnIr := ir.New()
	fnIr.AddGet(symbol.NewName("name", symbol.Location{}))
	fnIr.AddSet(symbol.NewName("greeting", symbol.Location{}))
	fnIr.AddCall(symbol.Call{Name: "print()"})
	fileIr.Set(fn, fnIr)

	sink := diagnostic.NewSink()
	got := GenerateFromIr(sink, fileIr, callgraph.ImportsIr{}, "/proj")

	require.Contains(t, got, "greet")
	assert.Equal(t, []string{"name"}, got["greet"].Gets)
	assert.Equal(t, []string{"greeting"}, got["greet"].Sets)
	assert.Equal(t, []string{"print()"}, got["greet"].Calls)
	assert.Empty(t, got["greet"].Dels)
}

func TestGenerateFromIr_DedupsAndSortsNames(t *testing.T) {
	fileIr := ir.NewFileIr()

	fn := symbol.Func{Name: "f"}
	fnIr := ir.New()
	fnIr.AddGet(symbol.NewName("b", symbol.Location{File: "a.py"}))
	fnIr.AddGet(symbol.NewName("a", symbol.Location{File: "a.py"}))
	fnIr.AddGet(symbol.NewName("a", symbol.Location{File: "b.py"})) // same name, different location
	fileIr.Set(fn, fnIr)

	sink := diagnostic.NewSink()
	got := GenerateFromIr(sink, fileIr, callgraph.ImportsIr{}, "/proj")

	assert.Equal(t, []string{"a", "b"}, got["f"].Gets)
}

func TestGenerateFromIr_EmptyFileIrYieldsEmptyResults(t *testing.T) {
	sink := diagnostic.NewSink()
	got := GenerateFromIr(sink, ir.NewFileIr(), callgraph.ImportsIr{}, "/proj")
	assert.Empty(t, got)
}
