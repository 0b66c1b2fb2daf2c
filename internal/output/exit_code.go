package output

import "github.com/suadelabs/rattr/internal/diagnostic"

// ExitCode is the process exit status, per spec.md §6 ("0 on success
// below threshold; nonzero on fatal or above threshold").
type ExitCode int

const (
	// ExitCodeSuccess: no fatal diagnostics, badness within threshold.
	ExitCodeSuccess ExitCode = 0

	// ExitCodeOverThreshold: badness exceeded the configured threshold
	// (or --strict and badness > 0), but nothing fatal occurred.
	ExitCodeOverThreshold ExitCode = 1

	// ExitCodeFatal: a fatal diagnostic was recorded.
	ExitCodeFatal ExitCode = 2
)

// DetermineExitCode calculates the process exit code from sink's
// accumulated diagnostics and badness counters.
//
// Precedence:
//  1. ExitCodeFatal — any diagnostic of Fatal severity was recorded.
//  2. ExitCodeOverThreshold — badness exceeds threshold (strict: > 0).
//  3. ExitCodeSuccess — otherwise.
func DetermineExitCode(sink *diagnostic.Sink, threshold int, strict bool) ExitCode {
	for _, d := range sink.Diagnostics() {
		if d.Severity == diagnostic.Fatal {
			return ExitCodeFatal
		}
	}
	if !sink.WithinThreshold(threshold, strict) {
		return ExitCodeOverThreshold
	}
	return ExitCodeSuccess
}
