package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/policylint/policylint/internal/observability"
	"github.com/policylint/policylint/internal/observability/logging"
	otelobs "github.com/policylint/policylint/internal/observability/otel"
	"github.com/policylint/policylint/internal/observability/receipt"
	"github.com/policylint/policylint/internal/policy"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// lintCmd definition
var lintCmd = &cobra.Command{
	Use:   "lint <pattern>...",
	Short: "Lint policy YAML files",
	Long: `Validates policy YAML files against the platform policy schema.

Each argument is a glob pattern; only files ending in .yaml or .yml are
linted, other matches are skipped. Exits nonzero if any file has errors.

Examples:
  policylint lint "policies/*.yaml"
  policylint lint -v policies/security.yaml policies/compliance.yml`,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runLint,
	SilenceUsage: true,
}

var verboseFlag bool

func init() {
	lintCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
}

// GetLintCmd export
func GetLintCmd() *cobra.Command {
	return lintCmd
}

func runLint(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	sess := receipt.Start(ctx, "policylint lint", os.Args[1:])
	report := NewLintReport()

	defer func() {
		_ = sess.Finish(err, receipt.WithLint(report.Summary()))
	}()

	log := logging.From(ctx)
	start := time.Now()

	// Start OTel span if enabled (before log.Event so trace_id is available)
	if h := otelobs.From(ctx); h != nil {
		var span trace.Span
		ctx, span = h.Tracer.Start(ctx, "policylint.lint",
			trace.WithAttributes(
				attribute.String("policylint.op_id", observability.OpID(ctx)),
				attribute.String("policylint.command", "lint"),
				attribute.Int("policylint.patterns", len(args)),
			))
		defer func() {
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "failed")
			} else {
				span.SetStatus(codes.Ok, "success")
			}
			span.End()
		}()
	}

	log.Event(ctx, "lint.start", map[string]any{"patterns": len(args)})

	var resultStatus string
	defer func() {
		log.Event(ctx, "lint.complete", map[string]any{
			"duration_ms": time.Since(start).Milliseconds(),
			"result":      resultStatus,
			"files":       report.FilesProcessed,
			"errors":      len(report.Errors),
		})
	}()

	for _, pattern := range args {
		matches, globErr := filepath.Glob(pattern)
		if globErr != nil {
			resultStatus = "fail"
			return fmt.Errorf("invalid pattern %q: %w", pattern, globErr)
		}
		for _, path := range matches {
			if !policy.IsPolicyFile(path) {
				continue
			}
			if verboseFlag {
				fmt.Printf("Linting %s...\n", path)
			}
			log.Debug("lint", "linting file", "path", path)
			report.Add(path, policy.LintFile(path))
		}
	}

	report.Render(os.Stdout, verboseFlag)

	if report.Failed() {
		resultStatus = "fail"
		return fmt.Errorf("policy lint failed")
	}

	resultStatus = "success"
	return nil
}
