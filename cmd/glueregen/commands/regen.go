package commands

import (
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/glueregen/internal/metrics"
	"git.home.luguber.info/inful/glueregen/internal/pipeline"
)

// RegenCmd implements the default 'regen' command.
type RegenCmd struct {
	NoSubmoduleUpdate bool   `name:"no-submodule-update" aliases:"skip-refresh" help:"Do not refresh the vendored source before regenerating"`
	SkipGenerator     bool   `name:"skip-generator" help:"Do not run the binding generator"`
	MetricsFile       string `name:"metrics-file" type:"path" help:"Write run metrics to this Prometheus textfile"`
}

func (r *RegenCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	metricsFile := r.MetricsFile
	if metricsFile == "" && cfg.Metrics.TextfilePath != "" {
		metricsFile = cfg.Resolve(cfg.Metrics.TextfilePath)
	}
	opts := []pipeline.Option{pipeline.WithLogger(g.logger())}
	var recorder *metrics.PrometheusRecorder
	if metricsFile != "" {
		recorder = metrics.NewPrometheusRecorder(nil)
		opts = append(opts, pipeline.WithRecorder(recorder))
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Println("Regenerating native binding glue")
	res, runErr := pipeline.New(cfg, opts...).Run(ctx, pipeline.Options{
		SkipRefresh:   r.NoSubmoduleUpdate,
		SkipGenerator: r.SkipGenerator,
	})
	printSummary(os.Stdout, res)

	if recorder != nil {
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			slog.Warn("Failed to write metrics", "path", metricsFile, "error", err)
		}
	}
	return runErr
}
