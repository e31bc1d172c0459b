package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Recorder receives every measurement and verdict, e.g. to export metrics.
type Recorder interface {
	ObserveMeasurement(scale Scale, m Measurement)
	ObserveVerdict(v Verdict)
}

// Summary holds one verdict per completed scale, in run order.
type Summary struct {
	Verdicts []Verdict
}

type Option func(*Runner)

// WithScales replaces DefaultScales.
func WithScales(scales ...Scale) Option {
	return func(r *Runner) { r.scales = scales }
}

// WithStrategies replaces the default populate/aggregate pair. Order decides ties.
func WithStrategies(strategies ...Strategy) Option {
	return func(r *Runner) { r.strategies = strategies }
}

// WithRegenerate controls whether the dataset is rebuilt before every strategy
// (the default) or only once per scale.
func WithRegenerate(regenerate bool) Option {
	return func(r *Runner) { r.regenerate = regenerate }
}

func WithRecorder(recorder Recorder) Option {
	return func(r *Runner) { r.recorder = recorder }
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithOutput sets where progress lines go. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(r *Runner) { r.report = NewReport(w) }
}

// Runner owns the store for the whole run and executes every step in sequence.
type Runner struct {
	store      Store
	generator  *Generator
	strategies []Strategy
	scales     []Scale
	regenerate bool
	recorder   Recorder
	logger     *slog.Logger
	report     *Report
}

func NewRunner(store Store, opts ...Option) *Runner {
	r := &Runner{
		store:      store,
		scales:     DefaultScales(),
		regenerate: true,
		logger:     slog.Default(),
		report:     NewReport(os.Stdout),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.generator = NewGenerator(store, r.logger)
	if r.strategies == nil {
		r.strategies = Strategies(store, r.logger)
	}

	return r
}

// Run benchmarks every scale in order and closes the store once all of them
// completed. The first error aborts the run and leaves the store open.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if len(r.strategies) == 0 {
		return Summary{}, fmt.Errorf("no strategies to benchmark")
	}
	for _, scale := range r.scales {
		if err := scale.Validate(); err != nil {
			return Summary{}, err
		}
	}

	var summary Summary
	for _, scale := range r.scales {
		verdict, err := r.runScale(ctx, scale)
		if err != nil {
			return Summary{}, fmt.Errorf("scale %s: %w", scale.Name, err)
		}
		summary.Verdicts = append(summary.Verdicts, verdict)
	}

	if err := r.store.Close(ctx); err != nil {
		return Summary{}, fmt.Errorf("close store: %w", err)
	}

	return summary, nil
}

func (r *Runner) runScale(ctx context.Context, scale Scale) (Verdict, error) {
	logger := r.logger.With("scale", scale.Name)
	r.report.Scale(scale)

	measurements := make([]Measurement, 0, len(r.strategies))
	for i, strategy := range r.strategies {
		if i == 0 || r.regenerate {
			if _, err := r.generator.Generate(ctx, scale.Authors, scale.Books); err != nil {
				return Verdict{}, fmt.Errorf("generate for %s: %w", strategy.Name(), err)
			}
		}

		r.report.Start(scale, strategy.Name())
		resolved, elapsed, err := Time(ctx, strategy.Resolve)
		if err != nil {
			return Verdict{}, fmt.Errorf("%s: %w", strategy.Name(), err)
		}

		m := Measurement{Strategy: strategy.Name(), Elapsed: elapsed, Records: len(resolved)}
		measurements = append(measurements, m)
		r.report.Measured(scale, m)
		logger.DebugContext(ctx, "strategy measured",
			"strategy", m.Strategy,
			"elapsed", m.Elapsed,
			"records", m.Records,
		)
		if r.recorder != nil {
			r.recorder.ObserveMeasurement(scale, m)
		}
	}

	verdict, err := Compare(scale, measurements...)
	if err != nil {
		return Verdict{}, err
	}
	if !verdict.RecordsAgree() {
		logger.WarnContext(ctx, "strategies resolved different record counts",
			"measurements", measurements,
		)
	}

	r.report.Verdict(verdict)
	if r.recorder != nil {
		r.recorder.ObserveVerdict(verdict)
	}

	return verdict, nil
}

// RenderSummary renders the run summary through the runner's report output.
func (r *Runner) RenderSummary(summary Summary) {
	r.report.Summary(summary)
}
