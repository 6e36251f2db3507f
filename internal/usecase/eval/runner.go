package eval

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight generations.
const DefaultConcurrency = 4

// Options are passed through to the generator on every call.
type Options struct {
	Model       string
	Temperature float64
}

// Generator produces a response for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}

// Summary is the aggregate outcome of a run.
type Summary struct {
	TotalCases                 int     `json:"total_cases"`
	Accuracy                   float64 `json:"accuracy"`
	InvariancePairs            int     `json:"invariance_pairs"`
	InvarianceRate             float64 `json:"invariance_rate"`
	PerturbationPairs          int     `json:"perturbation_pairs"`
	PerturbationDivergenceRate float64 `json:"perturbation_divergence_rate"`
}

// Report holds per-case results in input order plus the summary.
type Report struct {
	Summary Summary
	Results []Result
}

// Runner evaluates a set of cases against a generator.
type Runner struct {
	gen         Generator
	opts        Options
	dryRun      bool
	concurrency int
	logger      *zap.Logger
}

// NewRunner creates a Runner. gen may be nil only in dry-run mode.
func NewRunner(gen Generator, opts Options) *Runner {
	return &Runner{
		gen:         gen,
		opts:        opts,
		concurrency: DefaultConcurrency,
		logger:      zap.NewNop(),
	}
}

// WithDryRun answers every case with "[dry-run] <id>" instead of calling the generator.
func (r *Runner) WithDryRun(dryRun bool) *Runner {
	r.dryRun = dryRun
	return r
}

// WithConcurrency sets the number of concurrent generations. Values below 1 mean 1.
func (r *Runner) WithConcurrency(n int) *Runner {
	if n < 1 {
		n = 1
	}
	r.concurrency = n
	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(l *zap.Logger) *Runner {
	if l != nil {
		r.logger = l
	}
	return r
}

// Run generates and evaluates every case. Results keep input order regardless
// of completion order. The first generation or evaluation error aborts the run.
func (r *Runner) Run(ctx context.Context, cases []Case) (Report, error) {
	if !r.dryRun && r.gen == nil {
		return Report{}, errors.New("run eval: generator is required unless dry-run")
	}

	results := make([]Result, len(cases))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i := range cases {
		i := i
		g.Go(func() error {
			c := &cases[i]
			response, err := r.respond(gCtx, c)
			if err != nil {
				return fmt.Errorf("generate %s: %w", c.ID, err)
			}
			res, err := Evaluate(c, response)
			if err != nil {
				return err
			}
			results[i] = res
			r.logger.Debug("case evaluated",
				zap.String("id", c.ID),
				zap.Bool("passed", res.Passed),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("run eval: %w", err)
	}

	return Report{Summary: Summarize(results), Results: results}, nil
}

func (r *Runner) respond(ctx context.Context, c *Case) (string, error) {
	if r.dryRun {
		return "[dry-run] " + c.ID, nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return r.gen.Generate(ctx, c.Prompt, r.opts)
}

// Summarize computes accuracy and consistency rates. All rates are 0 for no results.
func Summarize(results []Result) Summary {
	passed := 0
	for i := range results {
		if results[i].Passed {
			passed++
		}
	}
	cons := AggregateConsistency(results)

	return Summary{
		TotalCases:                 len(results),
		Accuracy:                   ratio(passed, len(results)),
		InvariancePairs:            cons.InvariancePairs,
		InvarianceRate:             cons.InvarianceRate(),
		PerturbationPairs:          cons.PerturbationPairs,
		PerturbationDivergenceRate: cons.PerturbationRate(),
	}
}
