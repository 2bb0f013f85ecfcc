package commands

import (
	"os"
	"time"

	"git.home.luguber.info/inful/glueregen/internal/pipeline"
	"git.home.luguber.info/inful/glueregen/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce        time.Duration `help:"Quiet window before a change triggers a run (overrides watch.debounce)"`
	RefreshInterval time.Duration `name:"refresh-interval" help:"Refresh the vendored source on this interval (overrides watch.refresh_interval)"`
	SkipGenerator   bool          `name:"skip-generator" help:"Do not run the binding generator"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	wcfg := watch.Config{
		Dir:          cfg.SourceDir(),
		Debounce:     cfg.Watch.DebounceDuration(),
		RefreshEvery: cfg.Watch.RefreshEvery(),
		Options:      pipeline.Options{SkipGenerator: w.SkipGenerator},
		OnRun: func(res *pipeline.RunResult, _ error) {
			printSummary(os.Stdout, res)
		},
	}
	if w.Debounce > 0 {
		wcfg.Debounce = w.Debounce
	}
	if w.RefreshInterval > 0 {
		wcfg.RefreshEvery = w.RefreshInterval
	}

	watcher, err := watch.New(pipeline.New(cfg, pipeline.WithLogger(g.logger())), wcfg, g.logger())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()
	return watcher.Run(ctx)
}
