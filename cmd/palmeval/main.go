package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/palmrag/internal/config"
	"github.com/kailas-cloud/palmrag/internal/generator/faq"
	logpkg "github.com/kailas-cloud/palmrag/internal/logger"
	"github.com/kailas-cloud/palmrag/internal/usecase/eval"
	"github.com/kailas-cloud/palmrag/internal/version"
)

type runFlags struct {
	tests       string
	model       string
	temperature float64
	dryRun      bool
	concurrency int
	suffix      string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "palmeval:", err)
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "palmeval",
		Short:         "generation stability harness",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var f runFlags
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "evaluate test cases against the FAQ generator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := logpkg.NewLogger(config.GetEnv())
			if err != nil {
				return fmt.Errorf("create logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()
			return runEval(cmd.Context(), out, &f, logger)
		},
	}

	runCmd.Flags().StringVar(&f.tests, "tests", "eval/tests.json", "path to test cases JSON")
	runCmd.Flags().StringVar(&f.model, "model", "faq", "model name passed to the generator")
	runCmd.Flags().Float64Var(&f.temperature, "temperature", 0, "sampling temperature passed to the generator")
	runCmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "skip generation and echo case ids")
	runCmd.Flags().IntVar(&f.concurrency, "concurrency", eval.DefaultConcurrency, "max concurrent generations")
	runCmd.Flags().StringVar(&f.suffix, "suffix", "", "text appended to every generated reply")
	rootCmd.AddCommand(runCmd)

	return rootCmd
}

func runEval(ctx context.Context, out io.Writer, f *runFlags, logger *zap.Logger) error {
	cases, err := eval.LoadFile(f.tests)
	if err != nil {
		return err
	}
	logger.Info("test cases loaded", zap.String("path", f.tests), zap.Int("cases", len(cases)))

	runner := eval.NewRunner(faq.New(f.suffix), eval.Options{Model: f.model, Temperature: f.temperature}).
		WithDryRun(f.dryRun).
		WithConcurrency(f.concurrency).
		WithLogger(logger)

	report, err := runner.Run(ctx, cases)
	if err != nil {
		return err
	}

	for i := range report.Results {
		r := &report.Results[i]
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		fmt.Fprintf(out, "[%s] %s: score=%.1f\n", status, r.Case.ID, r.Score)
		if r.FailureReason != "" {
			fmt.Fprintf(out, "    reason: %s\n", r.FailureReason)
		}
	}

	s := report.Summary
	fmt.Fprintln(out, "=== SUMMARY ===")
	fmt.Fprintf(out, "total_cases: %d\n", s.TotalCases)
	fmt.Fprintf(out, "accuracy: %.4f\n", s.Accuracy)
	fmt.Fprintf(out, "invariance_pairs: %d\n", s.InvariancePairs)
	fmt.Fprintf(out, "invariance_rate: %.4f\n", s.InvarianceRate)
	fmt.Fprintf(out, "perturbation_pairs: %d\n", s.PerturbationPairs)
	fmt.Fprintf(out, "perturbation_divergence_rate: %.4f\n", s.PerturbationDivergenceRate)
	return nil
}
