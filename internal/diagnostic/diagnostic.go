// Package diagnostic implements the error-as-data sink described in
// spec.md §7 and §9: diagnostics accumulate instead of unwinding the
// stack, and the driver decides the process exit code from the final
// badness count.
package diagnostic

import "fmt"

// Severity is one of the five levels named in spec.md §7.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	Rattr // meta-diagnostics about the analyser itself
	Fatal
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case Rattr:
		return "rattr"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Diagnostic is one recorded finding: a message, its severity, the file
// it was raised against, and an optional source location/culprit
// description.
type Diagnostic struct {
	Severity Severity
	Message  string
	File     string
	Line     int
	Col      int
	Culprit  string // human description of the offending construct
}

func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s: %s:%d:%d: %s", d.Severity, d.File, d.Line, d.Col, d.Message)
	}
	return fmt.Sprintf("%s: %s: %s", d.Severity, d.File, d.Message)
}

// FatalError wraps a fatal Diagnostic as a Go error, so that fatal
// conditions can propagate via ordinary `if err != nil` control flow
// rather than a process exit or panic from deep inside the analyser.
type FatalError struct {
	Diagnostic Diagnostic
}

func (e *FatalError) Error() string { return e.Diagnostic.String() }

// Sink accumulates diagnostics for one run (possibly spanning several
// files in project mode) and tracks the badness counters from spec.md
// §5 / §7: badness from the target file, badness from followed imports,
// and badness from simplification (i.e. attributed to no specific file).
type Sink struct {
	diagnostics []Diagnostic

	badnessFromTarget       int
	badnessFromImports      int
	badnessFromSimplification int

	currentFile   string
	targetFile    string
	inAnyFile     bool
}

// NewSink builds an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{}
}

// EnterFile pushes the current-file context, so subsequently emitted
// diagnostics are attributed correctly. Returns a function restoring the
// previous file, for scoped (defer-based) use.
func (s *Sink) EnterFile(file string, isTarget bool) func() {
	prevFile, prevIn := s.currentFile, s.inAnyFile
	s.currentFile = file
	s.inAnyFile = true
	if isTarget {
		s.targetFile = file
	}
	return func() {
		s.currentFile = prevFile
		s.inAnyFile = prevIn
	}
}

func (s *Sink) record(severity Severity, file, culprit, message string, line, col int) Diagnostic {
	d := Diagnostic{Severity: severity, Message: message, File: file, Line: line, Col: col, Culprit: culprit}
	s.diagnostics = append(s.diagnostics, d)
	return d
}

// Info records an informational diagnostic. Never affects badness.
func (s *Sink) Info(file, culprit, message string, line, col int) {
	s.record(Info, file, culprit, message, line, col)
}

// Warning records a recoverable warning and increments badness by 1.
func (s *Sink) Warning(file, culprit, message string, line, col int) {
	s.record(Warning, file, culprit, message, line, col)
	s.incrementBadness(file, 1)
}

// Error records a recoverable error and increments badness by 10.
func (s *Sink) Error(file, culprit, message string, line, col int) {
	s.record(Error, file, culprit, message, line, col)
	s.incrementBadness(file, 10)
}

// Rattr records a meta-diagnostic about the analyser itself (e.g. an
// internal invariant violation worth surfacing but not tied to badness).
func (s *Sink) Rattr(file, culprit, message string, line, col int) {
	s.record(Rattr, file, culprit, message, line, col)
}

// FatalErr records a fatal diagnostic and returns it wrapped as an error
// for the caller to propagate immediately.
func (s *Sink) FatalErr(file, culprit, message string, line, col int) error {
	d := s.record(Fatal, file, culprit, message, line, col)
	return &FatalError{Diagnostic: d}
}

func (s *Sink) incrementBadness(file string, badness int) {
	switch {
	case !s.inAnyFile:
		s.badnessFromSimplification += badness
	case file == s.targetFile:
		s.badnessFromTarget += badness
	default:
		s.badnessFromImports += badness
	}
}

// Badness is the target-file-plus-simplification badness, compared
// against the configured threshold at end-of-file per spec.md §7.
func (s *Sink) Badness() int {
	return s.badnessFromTarget + s.badnessFromSimplification
}

// FullBadness additionally includes badness attributed to followed
// imports.
func (s *Sink) FullBadness() int {
	return s.badnessFromTarget + s.badnessFromImports + s.badnessFromSimplification
}

// WithinThreshold reports whether Badness() is within the given
// threshold; threshold == 0 is treated as infinite (no limit). When
// strict is true the threshold is ignored and any badness above zero
// fails.
func (s *Sink) WithinThreshold(threshold int, strict bool) bool {
	if strict {
		return s.Badness() <= 0
	}
	if threshold == 0 {
		return true
	}
	return s.Badness() <= threshold
}

// Diagnostics returns every diagnostic recorded so far, in emission
// order.
func (s *Sink) Diagnostics() []Diagnostic {
	return s.diagnostics
}
