package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/glueregen/internal/classify"
	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/generator"
	"git.home.luguber.info/inful/glueregen/internal/git"
	"git.home.luguber.info/inful/glueregen/internal/logfields"
	"git.home.luguber.info/inful/glueregen/internal/manifest"
	"git.home.luguber.info/inful/glueregen/internal/metrics"
	"git.home.luguber.info/inful/glueregen/internal/observability"
)

// Refresher updates the vendored checkout in dir.
type Refresher interface {
	Refresh(ctx context.Context, dir string) (git.Result, error)
}

// Options modify a single run.
type Options struct {
	SkipRefresh   bool
	SkipGenerator bool
	DryRun        bool // compute changes without writing; implies SkipRefresh and SkipGenerator
}

// Runner executes regeneration runs for one configuration.
type Runner struct {
	cfg        *config.Config
	classifier *classify.Classifier
	synth      manifest.Synthesizer
	refresher  Refresher
	generator  generator.Generator
	recorder   metrics.Recorder
	logger     *slog.Logger
}

// Option customises a Runner.
type Option func(*Runner)

// WithRefresher replaces the go-git refresher (for testing).
func WithRefresher(r Refresher) Option { return func(rn *Runner) { rn.refresher = r } }

// WithGenerator replaces the binding generator built from the configuration.
func WithGenerator(g generator.Generator) Option { return func(rn *Runner) { rn.generator = g } }

// WithRecorder enables metrics collection.
func WithRecorder(rec metrics.Recorder) Option {
	return func(rn *Runner) {
		if rec != nil {
			rn.recorder = rec
		}
	}
}

// WithLogger sets the logger; slog.Default() otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(rn *Runner) {
		if l != nil {
			rn.logger = l
		}
	}
}

// New builds a Runner from cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.classifier = classify.New(classify.Options{
		ImplementationExtensions: cfg.Source.ImplementationExtensions,
		HeaderExtensions:         cfg.Source.HeaderExtensions,
		CAPIDir:                  cfg.Source.CAPIDir,
		CAPISuffix:               cfg.Source.CAPISuffix,
		Exclude:                  cfg.Source.Exclude,
		Logger:                   r.logger,
	})
	if r.generator == nil {
		r.generator = generator.NewBinary(cfg.Generator.Command, r.logger)
	}
	return r
}

// Classifier exposes the classifier configured for this run.
func (r *Runner) Classifier() *classify.Classifier { return r.classifier }

// Config returns the configuration the runner was built from.
func (r *Runner) Config() *config.Config { return r.cfg }

// Run executes one regeneration. The returned RunResult is never nil; err is
// non-nil only when the run failed at a step.
func (r *Runner) Run(ctx context.Context, opts Options) (*RunResult, error) {
	if opts.DryRun {
		opts.SkipRefresh = true
		opts.SkipGenerator = true
	}

	res := &RunResult{
		RunID:     uuid.NewString(),
		State:     StateCompleted,
		DryRun:    opts.DryRun,
		StartTime: time.Now(),
	}
	ctx = observability.WithRunID(ctx, res.RunID)
	log := observability.Logger(ctx, r.logger)
	log.Info("Starting regeneration",
		logfields.Path(r.cfg.SourceDir()),
		logfields.Count(len(r.cfg.Targets)),
		slog.Bool("dry_run", opts.DryRun))

	err := r.runSteps(ctx, opts, res)

	res.Duration = time.Since(res.StartTime)
	r.recorder.ObserveRunDuration(res.Duration)
	if err != nil {
		res.State = StateFailed
		r.recorder.IncRunOutcome(string(StateFailed))
		log.Error("Regeneration failed",
			logfields.Step(res.FailedStep),
			logfields.DurationMS(float64(res.Duration.Milliseconds())),
			logfields.Error(err))
		return res, err
	}
	r.recorder.IncRunOutcome(string(StateCompleted))
	log.Info("Regeneration completed",
		slog.String("state", res.Terminal()),
		slog.Int("changed", len(res.Changed())),
		slog.Int("warnings", len(res.Warnings())),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

func (r *Runner) runSteps(ctx context.Context, opts Options, res *RunResult) error {
	r.record(res, r.refresh(ctx, opts))

	verify := r.verifySource(ctx)
	r.record(res, verify)
	if verify.Status == StatusFailed {
		res.FailedStep = verify.Name
		return verify.Err
	}

	w := r.writer(opts)
	for _, t := range r.cfg.Targets {
		step := r.rewriteTarget(ctx, w, t)
		r.record(res, step)
		if step.Status == StatusFailed {
			res.FailedStep = step.Name
			return step.Err
		}
	}

	r.record(res, r.generate(ctx, opts))
	return nil
}

func (r *Runner) record(res *RunResult, s StepResult) {
	res.add(s)
	r.recorder.ObserveStepDuration(s.Name, s.Duration)
	r.recorder.IncStepResult(s.Name, resultLabel(s.Status))
}

func resultLabel(s StepStatus) metrics.ResultLabel {
	switch s {
	case StatusSkipped:
		return metrics.ResultSkipped
	case StatusWarning:
		return metrics.ResultWarning
	case StatusFailed:
		return metrics.ResultFatal
	default:
		return metrics.ResultSuccess
	}
}
