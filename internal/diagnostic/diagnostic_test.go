package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{Info, "info"},
		{Warning, "warning"},
		{Error, "error"},
		{Rattr, "rattr"},
		{Fatal, "fatal"},
		{Severity(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sev.String())
		})
	}
}

func TestSink_InfoDoesNotAffectBadness(t *testing.T) {
	s := NewSink()
	s.Info("a.py", "", "fyi", 0, 0)
	assert.Equal(t, 0, s.Badness())
	assert.Len(t, s.Diagnostics(), 1)
}

func TestSink_WarningAndErrorBadness(t *testing.T) {
	s := NewSink()
	done := s.EnterFile("target.py", true)
	defer done()

	s.Warning("target.py", "x", "careful", 1, 2)
	assert.Equal(t, 1, s.Badness())

	s.Error("target.py", "y", "oops", 3, 4)
	assert.Equal(t, 11, s.Badness())
}

func TestSink_ImportBadnessExcludedFromBadnessButNotFullBadness(t *testing.T) {
	s := NewSink()
	doneTarget := s.EnterFile("target.py", true)
	s.Warning("target.py", "", "target warning", 0, 0)
	doneTarget()

	doneImport := s.EnterFile("lib.py", false)
	s.Error("lib.py", "", "import error", 0, 0)
	doneImport()

	assert.Equal(t, 1, s.Badness(), "import badness must not count toward Badness()")
	assert.Equal(t, 11, s.FullBadness(), "import badness must count toward FullBadness()")
}

func TestSink_SimplificationBadnessCountsWhenNotInAnyFile(t *testing.T) {
	s := NewSink()
	s.Warning("", "", "simplification issue", 0, 0)
	assert.Equal(t, 1, s.Badness())
}

func TestSink_EnterFileRestoresPreviousOnReturn(t *testing.T) {
	s := NewSink()
	outer := s.EnterFile("outer.py", true)
	inner := s.EnterFile("inner.py", false)
	inner()
	s.Warning("outer.py", "", "still in outer", 0, 0)
	outer()

	assert.Equal(t, 1, s.Badness())
}

func TestSink_WithinThreshold(t *testing.T) {
	s := NewSink()
	done := s.EnterFile("t.py", true)
	defer done()
	s.Warning("t.py", "", "w", 0, 0)

	assert.True(t, s.WithinThreshold(5, false))
	assert.False(t, s.WithinThreshold(0, true), "strict mode tolerates zero badness only")

	s2 := NewSink()
	assert.True(t, s2.WithinThreshold(0, true))
	assert.True(t, s2.WithinThreshold(0, false), "threshold 0 means unlimited in non-strict mode")
}

func TestSink_FatalErrReturnsWrappedError(t *testing.T) {
	s := NewSink()
	err := s.FatalErr("t.py", "culprit", "boom", 5, 6)
	require.Error(t, err)

	var fatal *FatalError
	require.ErrorAs(t, err, &fatal)
	assert.Equal(t, Fatal, fatal.Diagnostic.Severity)
	assert.Equal(t, "boom", fatal.Diagnostic.Message)

	diags := s.Diagnostics()
	require.Len(t, diags, 1)
	assert.Equal(t, Fatal, diags[0].Severity)
}

func TestDiagnosticString(t *testing.T) {
	withLoc := Diagnostic{Severity: Error, File: "a.py", Message: "bad", Line: 3, Col: 4}
	assert.Equal(t, "error: a.py:3:4: bad", withLoc.String())

	withoutLoc := Diagnostic{Severity: Warning, File: "a.py", Message: "meh"}
	assert.Equal(t, "warning: a.py: meh", withoutLoc.String())
}
