package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	sarif "github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/suadelabs/rattr/internal/diagnostic"
	"github.com/suadelabs/rattr/internal/ir"
	"github.com/suadelabs/rattr/internal/results"
	"github.com/suadelabs/rattr/internal/serialize"
)

// Summary is the aggregate the "stats" `--stdout` variant prints: a
// human-readable run report rather than a machine-consumed one (that's
// what "results"/"ir"/"cacheable" are for).
type Summary struct {
	Target             string
	FilesAnalysed      int
	FunctionsAnalysed  int
	Gets, Sets, Dels   int
	Calls              int
	DiagnosticsBySeverity map[string]int
	Badness            int
	Threshold          int
	Strict             bool
	Duration           time.Duration
}

// SummaryOf reduces a Sink and a file's results into a Summary.
func SummaryOf(target string, filesAnalysed int, fileResults results.FileResults, sink *diagnostic.Sink, threshold int, strict bool, duration time.Duration) Summary {
	s := Summary{
		Target:                target,
		FilesAnalysed:         filesAnalysed,
		FunctionsAnalysed:     len(fileResults),
		DiagnosticsBySeverity: map[string]int{},
		Badness:               sink.Badness(),
		Threshold:             threshold,
		Strict:                strict,
		Duration:              duration,
	}
	for _, fn := range fileResults {
		s.Gets += len(fn.Gets)
		s.Sets += len(fn.Sets)
		s.Dels += len(fn.Dels)
		s.Calls += len(fn.Calls)
	}
	for _, d := range sink.Diagnostics() {
		s.DiagnosticsBySeverity[d.Severity.String()]++
	}
	return s
}

// WriteStats writes the human-readable "stats" report.
func WriteStats(w io.Writer, s Summary) error {
	fmt.Fprintf(w, "rattr: %s\n", s.Target)
	fmt.Fprintf(w, "  files analysed:     %d\n", s.FilesAnalysed)
	fmt.Fprintf(w, "  functions analysed: %d\n", s.FunctionsAnalysed)
	fmt.Fprintf(w, "  gets/sets/dels/calls: %d/%d/%d/%d\n", s.Gets, s.Sets, s.Dels, s.Calls)
	for _, sev := range []string{"fatal", "error", "warning", "rattr", "info"} {
		if n := s.DiagnosticsBySeverity[sev]; n > 0 {
			fmt.Fprintf(w, "  %s: %d\n", sev, n)
		}
	}
	if s.Strict {
		fmt.Fprintf(w, "  badness: %d (strict)\n", s.Badness)
	} else {
		fmt.Fprintf(w, "  badness: %d/%d\n", s.Badness, s.Threshold)
	}
	fmt.Fprintf(w, "  duration: %s\n", s.Duration.Round(time.Millisecond))
	return nil
}

// WriteIR writes the simplified file IR as its tagged JSON wire form
// (the "ir" `--stdout` variant).
func WriteIR(w io.Writer, fileIr *ir.FileIr) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(serialize.FromFileIr(fileIr))
}

// WriteResults writes a file's results map (the "results" `--stdout`
// variant).
func WriteResults(w io.Writer, fileResults results.FileResults) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fileResults)
}

// WriteCacheable writes a cache record (the "cacheable" `--stdout`
// variant — the same shape persisted by internal/cache, emitted for
// inspection without requiring a cache file).
func WriteCacheable(w io.Writer, record *serialize.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}

// WriteSilent intentionally writes nothing; the caller still gets a
// meaningful process exit code from DetermineExitCode.
func WriteSilent(io.Writer) error { return nil }

func severityToSARIFLevel(sev diagnostic.Severity) string {
	switch sev {
	case diagnostic.Fatal, diagnostic.Error:
		return "error"
	case diagnostic.Warning:
		return "warning"
	default:
		return "note"
	}
}

// WriteSARIF writes every diagnostic in sink as a SARIF 2.1.0 run (the
// additive "sarif" `--stdout` variant described in SPEC_FULL.md §13),
// grounded on
// shivasurya-code-pathfinder/sast-engine/output/sarif_formatter.go.
func WriteSARIF(w io.Writer, sink *diagnostic.Sink, toolVersion string) error {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return err
	}

	run := sarif.NewRunWithInformationURI("rattr", "https://github.com/suadelabs/rattr")

	seenRules := map[string]bool{}
	for _, d := range sink.Diagnostics() {
		ruleID := d.Severity.String()
		if !seenRules[ruleID] {
			seenRules[ruleID] = true
			run.AddRule(ruleID).
				WithDescription(fmt.Sprintf("rattr %s diagnostic (rattr v%s)", ruleID, toolVersion)).
				WithDefaultConfiguration(sarif.NewReportingConfiguration().WithLevel(severityToSARIFLevel(d.Severity)))
		}

		region := sarif.NewRegion()
		if d.Line > 0 {
			region.WithStartLine(d.Line)
			if d.Col > 0 {
				region.WithStartColumn(d.Col)
			}
		}

		location := sarif.NewLocation().WithPhysicalLocation(
			sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewArtifactLocation().WithUri(d.File)).
				WithRegion(region),
		)

		run.CreateResultForRule(ruleID).
			WithMessage(sarif.NewTextMessage(d.Message)).
			AddLocation(location)
	}

	report.AddRun(run)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
