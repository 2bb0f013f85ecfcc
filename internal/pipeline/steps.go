package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/glueregen/internal/classify"
	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
	"git.home.luguber.info/inful/glueregen/internal/generator"
	"git.home.luguber.info/inful/glueregen/internal/git"
	"git.home.luguber.info/inful/glueregen/internal/logfields"
	"git.home.luguber.info/inful/glueregen/internal/manifest"
	"git.home.luguber.info/inful/glueregen/internal/observability"
	"git.home.luguber.info/inful/glueregen/internal/rewrite"
)

func finish(s StepResult, start time.Time) StepResult {
	s.Duration = time.Since(start)
	return s
}

func (r *Runner) refresh(ctx context.Context, opts Options) StepResult {
	start := time.Now()
	step := StepResult{Name: StepRefresh, Path: r.cfg.SourceRoot()}
	log := observability.Logger(observability.WithStep(ctx, step.Name), r.logger)

	if opts.SkipRefresh || r.cfg.Refresh.Skip {
		step.Status = StatusSkipped
		log.Info("Skipping vendored source refresh")
		return finish(step, start)
	}

	refresher := r.refresher
	if refresher == nil {
		client, err := git.NewClient(r.cfg.Refresh, r.logger)
		if err != nil {
			step.Status = StatusWarning
			step.Err = git.Classify(err, step.Path)
			log.Warn("Cannot refresh vendored source, continuing with the current checkout",
				logfields.Path(step.Path), logfields.Error(err))
			return finish(step, start)
		}
		refresher = client.OnRetry(func(int, error) { r.recorder.IncRefreshRetry() })
	}

	out, err := refresher.Refresh(ctx, step.Path)
	if err != nil {
		step.Status = StatusWarning
		step.Err = git.Classify(err, step.Path)
		log.Warn("Failed to refresh vendored source, continuing with the current checkout",
			logfields.Path(step.Path), logfields.Error(err))
		return finish(step, start)
	}

	step.Status = StatusSucceeded
	if out.Updated {
		log.Info("Vendored source updated",
			logfields.Branch(out.Branch), slog.String("from", out.From), logfields.Commit(out.To))
	} else {
		log.Info("Vendored source already up to date",
			logfields.Branch(out.Branch), logfields.Commit(out.To))
	}
	return finish(step, start)
}

func (r *Runner) verifySource(ctx context.Context) StepResult {
	start := time.Now()
	dir := r.cfg.SourceDir()
	step := StepResult{Name: StepVerifySource, Path: dir}
	log := observability.Logger(observability.WithStep(ctx, step.Name), r.logger)

	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		err = fs.ErrInvalid
	}
	if err != nil {
		step.Status = StatusFailed
		step.Err = errors.WrapError(err, errors.CategoryConfig, "vendored source not found").
			Fatal().
			UserAction().
			WithContext(errors.ContextStep, step.Name).
			WithContext(errors.ContextPath, dir).
			Build()
		log.Error("Vendored source not found", logfields.Path(dir), logfields.Error(err))
		return finish(step, start)
	}
	step.Status = StatusSucceeded
	return finish(step, start)
}

func (r *Runner) writer(opts Options) rewrite.Writer {
	return rewrite.Writer{DryRun: opts.DryRun, Logger: r.logger}
}

// rendered holds the edits for one target and the manifest they came from.
type rendered struct {
	edits    []rewrite.Edit
	manifest manifest.Manifest
	skip     string // non-empty: reason the target is left unchanged
}

func (r *Runner) rewriteTarget(ctx context.Context, w rewrite.Writer, t config.Target) StepResult {
	start := time.Now()
	path := r.cfg.TargetPath(t)
	step := StepResult{Name: t.Name, Path: path}
	ctx = observability.WithTarget(observability.WithStep(ctx, t.Name), t.Name)
	log := observability.Logger(ctx, r.logger)

	fail := func(err error) StepResult {
		step.Status = StatusFailed
		step.Err = classifyStepError(err, t.Name, path)
		attrs := []any{logfields.Path(path), logfields.Error(err)}
		var anchorErr *rewrite.AnchorError
		if stderrors.As(err, &anchorErr) {
			attrs = append(attrs, logfields.Pattern(anchorErr.Anchor))
		}
		log.Error("Failed to rewrite target", attrs...)
		return finish(step, start)
	}

	if _, err := os.Stat(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			step.Status = StatusFailed
			step.Err = errors.ConfigError("target file not found").
				WithCause(err).
				WithContext(errors.ContextStep, t.Name).
				WithContext(errors.ContextPath, path).
				Build()
			log.Error("Target file not found", logfields.Path(path))
			return finish(step, start)
		}
		return fail(err)
	}

	out, err := r.render(t, filepath.Dir(path))
	if err != nil {
		return fail(err)
	}
	if out.skip != "" {
		step.Status = StatusSkipped
		log.Warn(out.skip+", leaving target unchanged", logfields.Path(path))
		return finish(step, start)
	}

	if t.Kind == config.KindGeneratorConfig {
		w.Validate = rewrite.ValidYAML
	}
	res, err := w.Rewrite(ctx, path, out.edits...)
	if err != nil {
		return fail(err)
	}

	step.Status = StatusSucceeded
	step.Changed = res.Changed
	step.FilesIncluded = out.manifest.Len()
	step.Counts = out.manifest.Counts
	r.recorder.SetFilesIncluded(t.Name, step.FilesIncluded)
	if res.Written {
		r.recorder.IncTargetChanged(t.Name)
	}

	attrs := []any{logfields.Path(path), logfields.Kind(string(t.Kind)), logfields.Count(step.FilesIncluded), logfields.Changed(res.Changed)}
	for _, c := range classify.ImplementationOrder {
		if n, ok := out.manifest.Counts[c]; ok {
			attrs = append(attrs, slog.Int(string(c), n))
		}
	}
	if n, ok := out.manifest.Counts[classify.CategoryCPPHeader]; ok {
		attrs = append(attrs, slog.Int(string(classify.CategoryCPPHeader), n))
	}
	switch {
	case res.Written:
		log.Info("Target rewritten", attrs...)
	case res.Changed:
		log.Info("Target out of date", attrs...)
	default:
		log.Info("Target up to date", attrs...)
	}
	return finish(step, start)
}

// render builds the edits for t; targetDir is the directory of the target file.
func (r *Runner) render(t config.Target, targetDir string) (rendered, error) {
	src := r.cfg.SourceDir()
	switch t.Kind {
	case config.KindImplementation:
		platform, err := classify.ParsePlatform(t.Platform)
		if err != nil {
			return rendered{}, err
		}
		files, err := r.classifier.Sources(src, platform)
		if err != nil {
			return rendered{}, err
		}
		m, err := r.synth.Implementation(files, targetDir)
		if err != nil {
			return rendered{}, err
		}
		return rendered{
			edits:    []rewrite.Edit{{Anchor: rewrite.LineMarker{Text: t.Marker}, Lines: m.Lines}},
			manifest: m,
		}, nil

	case config.KindHeader:
		cpp, err := r.classifier.Headers(src)
		if err != nil {
			return rendered{}, err
		}
		capi, err := r.classifier.CAPIHeaders(src)
		if err != nil {
			return rendered{}, err
		}
		m, err := r.synth.Header(cpp, capi, targetDir)
		if err != nil {
			return rendered{}, err
		}
		return rendered{
			edits:    []rewrite.Edit{{Anchor: rewrite.LineMarker{Text: t.Marker}, Lines: m.Lines}},
			manifest: m,
		}, nil

	case config.KindGeneratorConfig:
		capi, err := r.classifier.CAPIHeaders(src)
		if err != nil {
			return rendered{}, err
		}
		if len(capi) == 0 {
			return rendered{skip: "No C API headers found"}, nil
		}
		m, err := r.synth.ListItems(capi, targetDir)
		if err != nil {
			return rendered{}, err
		}
		edits := make([]rewrite.Edit, 0, len(t.Sections))
		for _, s := range t.Sections {
			edits = append(edits, rewrite.Edit{
				Anchor: rewrite.ListSection{Name: s.Name, Until: s.Until},
				Lines:  m.Lines,
			})
		}
		return rendered{edits: edits, manifest: m}, nil
	}
	return rendered{}, errors.ConfigError("unsupported target kind").
		WithContext("kind", string(t.Kind)).
		Build()
}

func (r *Runner) generate(ctx context.Context, opts Options) StepResult {
	start := time.Now()
	dir := r.cfg.GeneratorDir()
	step := StepResult{Name: StepGenerator, Path: dir}
	log := observability.Logger(observability.WithStep(ctx, step.Name), r.logger)

	if opts.SkipGenerator || r.cfg.Generator.Skip {
		step.Status = StatusSkipped
		log.Info("Skipping binding generator")
		return finish(step, start)
	}

	if err := r.generator.Generate(ctx, dir); err != nil {
		step.Status = StatusWarning
		cmd := r.generator.Command()
		b := errors.ExternalError("binding generator failed").
			WithCause(err).
			Warning().
			UserAction().
			WithContext(errors.ContextStep, step.Name).
			WithContext(errors.ContextPath, dir).
			WithContext(errors.ContextRemediation, cmd)
		if stderrors.Is(err, generator.ErrGeneratorNotFound) {
			b.WithContext("reason", "not-found")
		}
		step.Err = b.Build()
		log.Warn("Binding generator failed, you can run it manually",
			logfields.Command(cmd), logfields.Path(dir), logfields.Error(err))
		return finish(step, start)
	}
	step.Status = StatusSucceeded
	log.Info("Binding generator finished", logfields.Command(r.generator.Command()))
	return finish(step, start)
}
