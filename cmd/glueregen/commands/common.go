package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
)

// Global carries state shared by every command.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"glueregen.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Regen RegenCmd `cmd:"" default:"withargs" help:"Refresh the vendored source and regenerate every target (default)"`
	Check CheckCmd `cmd:"" help:"Report targets that are out of date without writing them"`
	List  ListCmd  `cmd:"" help:"List the classified source files"`
	Watch WatchCmd `cmd:"" help:"Regenerate whenever the vendored source changes"`
	Init  InitCmd  `cmd:"" help:"Write a default configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// logger returns the command logger, falling back to slog.Default().
func (g *Global) logger() *slog.Logger {
	if g == nil || g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

// loadConfig loads root.Config, or the defaults anchored at its directory
// when the file does not exist.
func loadConfig(root *CLI) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(root.Config)
	if err == nil {
		if cfg.File == "" {
			slog.Info("No configuration file found, using defaults", "path", root.Config, "base_dir", cfg.BaseDir)
		}
		return cfg, nil
	}
	if errors.IsClassified(err) {
		return nil, err
	}
	b := errors.ConfigError("cannot load configuration").WithCause(err).WithContext("path", root.Config)
	if stderrors.Is(err, config.ErrInvalidConfig) {
		b = b.WithContext("reason", "invalid")
	}
	return nil, b.Build()
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
