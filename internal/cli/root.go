package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/policylint/policylint/internal/observability"
	"github.com/policylint/policylint/internal/observability/logging"
	otelobs "github.com/policylint/policylint/internal/observability/otel"
	"github.com/policylint/policylint/internal/observability/receipt"
	"github.com/policylint/policylint/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "policylint",
	Short: "Linter for incident-response policy files",
	Long: `policylint validates YAML policy files against the schema used by
the incident-response platform before they are deployed.`,
	Version:           version.BuildVersion(),
	PersistentPreRunE: setupRunContext,
	SilenceUsage:      true,
}

var (
	logFormatFlag string
	logLevelFlag  string
	logOutputFlag string

	otelFlag            bool
	otelEndpointFlag    string
	otelProtocolFlag    string
	otelInsecureFlag    bool
	otelSampleRatioFlag float64

	receiptFlag     string
	receiptModeFlag string
)

// teardowns run after the command returns, in reverse registration order,
// regardless of whether it succeeded.
var teardowns []func()

func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	for i := len(teardowns) - 1; i >= 0; i-- {
		teardowns[i]()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logFormatFlag, "log-format", "pretty", "Log format: pretty (no structured logs) or jsonl")
	pf.StringVar(&logLevelFlag, "log-level", logging.LevelInfo, "Minimum log level: debug, info, warn, error")
	pf.StringVar(&logOutputFlag, "log-output", "stderr", "Log destination: stderr or a file path")
	pf.BoolVar(&otelFlag, "otel", false, "Enable OpenTelemetry tracing")
	pf.StringVar(&otelEndpointFlag, "otel-endpoint", "", "OTLP endpoint (defaults per protocol, or OTEL_EXPORTER_OTLP_ENDPOINT)")
	pf.StringVar(&otelProtocolFlag, "otel-protocol", otelobs.ProtocolHTTP, "OTLP protocol: otlphttp or otlpgrpc")
	pf.BoolVar(&otelInsecureFlag, "otel-insecure", false, "Allow insecure OTLP connections")
	pf.Float64Var(&otelSampleRatioFlag, "otel-sample-ratio", 1.0, "Trace sample ratio (0..1)")
	pf.StringVar(&receiptFlag, "receipt", "", "Write a run receipt to this path")
	pf.StringVar(&receiptModeFlag, "receipt-mode", string(receipt.ModeOverwrite), "Receipt write mode: overwrite or append")

	rootCmd.AddCommand(GetLintCmd())
}

// setupRunContext assembles the per-invocation context: op ID, logger,
// optional OTel handle, optional receipt writer. Runs after flag parsing.
func setupRunContext(cmd *cobra.Command, args []string) error {
	ctx := observability.WithOpID(cmd.Context())

	log, err := logging.NewLogger(logging.Config{
		Format: logFormatFlag,
		Level:  logLevelFlag,
		Output: logOutputFlag,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	ctx = logging.WithLogger(ctx, log)
	teardowns = append(teardowns, func() { _ = log.Close() })

	if otelFlag {
		cfg := otelobs.DefaultConfig()
		cfg.Enabled = true
		cfg.Endpoint = otelEndpointFlag
		cfg.Protocol = otelProtocolFlag
		cfg.Insecure = otelInsecureFlag
		cfg.SampleRatio = otelSampleRatioFlag

		h, initErr := otelobs.Init(ctx, cfg)
		if initErr != nil {
			return fmt.Errorf("failed to initialize OTel: %w", initErr)
		}
		ctx = otelobs.WithHandle(ctx, h)
		teardowns = append(teardowns, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = h.Shutdown(shutdownCtx)
		})
	}

	if receiptFlag != "" {
		w, openErr := receipt.NewWriter(receiptFlag, receiptModeFlag)
		if openErr != nil {
			return fmt.Errorf("failed to open receipt writer: %w", openErr)
		}
		ctx = receipt.WithWriter(ctx, w)
		teardowns = append(teardowns, func() { _ = w.Close() })
	}

	cmd.SetContext(ctx)
	return nil
}
