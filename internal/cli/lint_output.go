package cli

import (
	"fmt"
	"io"

	"github.com/policylint/policylint/internal/observability/receipt"
)

// LintReport aggregates per-file results across one run.
type LintReport struct {
	FilesProcessed int
	Errors         []string

	failures []receipt.FileFailure
}

// NewLintReport constructor
func NewLintReport() *LintReport {
	return &LintReport{}
}

// Add records one linted file and its errors, preserving error order.
func (r *LintReport) Add(path string, fileErrors []string) {
	r.FilesProcessed++
	r.Errors = append(r.Errors, fileErrors...)
	if len(fileErrors) > 0 {
		r.failures = append(r.failures, receipt.FileFailure{
			Path:   path,
			Errors: len(fileErrors),
		})
	}
}

// Failed reports whether any error was recorded.
func (r *LintReport) Failed() bool {
	return len(r.Errors) > 0
}

// Summary for the run receipt.
func (r *LintReport) Summary() receipt.LintSummary {
	return receipt.LintSummary{
		FilesLinted: r.FilesProcessed,
		FilesFailed: len(r.failures),
		ErrorCount:  len(r.Errors),
		Failures:    r.failures,
	}
}

// Render writes the aggregate report. Verbose adds the processed-count line.
func (r *LintReport) Render(w io.Writer, verbose bool) {
	if verbose {
		fmt.Fprintf(w, "\nProcessed %d policy files\n", r.FilesProcessed)
	}

	if r.Failed() {
		fmt.Fprintf(w, "\n❌ Found %d errors:\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return
	}

	fmt.Fprintf(w, "\n✅ All %d policy files passed validation\n", r.FilesProcessed)
}
