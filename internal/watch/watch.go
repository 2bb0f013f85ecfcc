// Package watch re-runs regeneration when the vendored source tree changes
// and, optionally, refreshes the vendored source on a fixed interval.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	ferrors "git.home.luguber.info/inful/glueregen/internal/foundation/errors"
	"git.home.luguber.info/inful/glueregen/internal/logfields"
	"git.home.luguber.info/inful/glueregen/internal/pipeline"
)

// Runner executes one regeneration run.
type Runner interface {
	Run(ctx context.Context, opts pipeline.Options) (*pipeline.RunResult, error)
}

// Config tunes a Watcher.
type Config struct {
	Dir          string        // tree to watch, recursively
	Debounce     time.Duration // quiet window before a triggered run
	RefreshEvery time.Duration // zero disables periodic refresh runs
	Options      pipeline.Options
	// OnRun, when set, observes every completed run.
	OnRun func(res *pipeline.RunResult, err error)
}

// Watcher serialises runs triggered by filesystem events and the refresh
// schedule.
type Watcher struct {
	runner Runner
	cfg    Config
	logger *slog.Logger

	runMu   sync.Mutex
	trigger chan struct{}
	ready   chan struct{}
}

// New validates cfg and returns a Watcher.
func New(runner Runner, cfg Config, logger *slog.Logger) (*Watcher, error) {
	if runner == nil {
		return nil, ferrors.ValidationError("runner is required").Build()
	}
	if cfg.Dir == "" {
		return nil, ferrors.ValidationError("watch directory is required").Build()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		runner:  runner,
		cfg:     cfg,
		logger:  logger,
		trigger: make(chan struct{}, 1),
		ready:   make(chan struct{}),
	}, nil
}

// Ready is closed once the initial run finished and the tree is watched.
func (w *Watcher) Ready() <-chan struct{} { return w.ready }

// Run performs an initial run, then watches until ctx is cancelled. It
// returns only after any triggered run in flight has finished.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if cerr := fw.Close(); cerr != nil {
			w.logger.Error("Error closing file watcher", logfields.Error(cerr))
		}
	}()

	if err := w.addRecursive(fw, w.cfg.Dir); err != nil {
		return ferrors.ConfigError("cannot watch vendored source").
			WithCause(err).
			WithContext("path", w.cfg.Dir).
			Build()
	}

	if w.cfg.RefreshEvery > 0 {
		s, err := w.schedule(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if serr := s.Shutdown(); serr != nil {
				w.logger.Error("Error stopping scheduler", logfields.Error(serr))
			}
		}()
	}

	w.runOnce(ctx, w.cfg.Options)
	close(w.ready)
	w.logger.Info("Watching vendored source for changes",
		logfields.Path(w.cfg.Dir),
		slog.Duration("debounce", w.cfg.Debounce))

	loopCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.debounceLoop(loopCtx)
	}()
	defer wg.Wait()
	defer stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping watcher")
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(fw, event)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(fw *fsnotify.Watcher, event fsnotify.Event) {
	if isHidden(filepath.Base(event.Name)) {
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(fw, event.Name); err != nil {
				w.logger.Warn("Cannot watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	w.logger.Debug("Source change detected", logfields.File(event.Name), slog.String("op", event.Op.String()))
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// debounceLoop coalesces bursts of events into one run per quiet window.
func (w *Watcher) debounceLoop(ctx context.Context) {
	var timer *time.Timer
	fire := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case <-w.trigger:
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.cfg.Debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			opts := w.cfg.Options
			opts.SkipRefresh = true
			w.runOnce(ctx, opts)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(w.cfg.RefreshEvery),
		gocron.NewTask(func() { w.runOnce(ctx, w.cfg.Options) }),
		gocron.WithName("periodic-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, fmt.Errorf("failed to create periodic refresh job: %w", err)
	}
	s.Start()
	w.logger.Info("Scheduled periodic refresh", slog.Duration("interval", w.cfg.RefreshEvery))
	return s, nil
}

// runOnce executes a run while holding the run lock.
func (w *Watcher) runOnce(ctx context.Context, opts pipeline.Options) {
	if ctx.Err() != nil {
		return
	}
	w.runMu.Lock()
	defer w.runMu.Unlock()

	res, err := w.runner.Run(ctx, opts)
	if err != nil {
		w.logger.Error("Regeneration failed, waiting for the next change", logfields.Error(err))
	}
	if w.cfg.OnRun != nil {
		w.cfg.OnRun(res, err)
	}
}

func (w *Watcher) addRecursive(fw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path != root && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		return fw.Add(path)
	})
}

func isHidden(name string) bool { return strings.HasPrefix(name, ".") }
