// Package generator runs the external binding generator (ffigen by default)
// after the generated files have been rewritten.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/glueregen/internal/logfields"
)

var (
	// ErrGeneratorNotFound indicates the generator executable was not found on PATH.
	ErrGeneratorNotFound = errors.New("binding generator not found")

	// ErrGeneratorFailed indicates the generator exited with a non-zero status.
	ErrGeneratorFailed = errors.New("binding generator failed")
)

// Generator runs a binding generator in a directory.
type Generator interface {
	Generate(ctx context.Context, dir string) error
	// Command is the command line an operator can run by hand.
	Command() string
}

// BinaryGenerator invokes an executable with fixed arguments.
type BinaryGenerator struct {
	Args   []string // Args[0] is the executable
	Logger *slog.Logger
}

// NewBinary returns a BinaryGenerator for args.
func NewBinary(args []string, logger *slog.Logger) *BinaryGenerator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BinaryGenerator{Args: append([]string(nil), args...), Logger: logger}
}

// Command implements Generator.
func (b *BinaryGenerator) Command() string { return strings.Join(b.Args, " ") }

// Generate implements Generator.
func (b *BinaryGenerator) Generate(ctx context.Context, dir string) error {
	if len(b.Args) == 0 {
		return fmt.Errorf("%w: empty command", ErrGeneratorNotFound)
	}
	bin, err := exec.LookPath(b.Args[0])
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrGeneratorNotFound, b.Args[0], err)
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("%w: working directory: %w", ErrGeneratorFailed, err)
	}

	cmd := exec.CommandContext(ctx, bin, b.Args[1:]...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	b.Logger.Info("Running binding generator", logfields.Command(b.Command()), logfields.Path(dir))

	err = cmd.Run()

	outStr := strings.TrimSpace(stdout.String())
	errStr := strings.TrimSpace(stderr.String())
	if outStr != "" {
		b.Logger.Debug("generator stdout", slog.String("output", outStr))
	}
	if errStr != "" {
		b.Logger.Warn("generator stderr", slog.String("error_output", errStr))
	}

	if err != nil {
		output := errStr
		if output == "" {
			output = outStr
		}
		if output != "" {
			return fmt.Errorf("%w: %w: %s", ErrGeneratorFailed, err, output)
		}
		return fmt.Errorf("%w: %w", ErrGeneratorFailed, err)
	}
	return nil
}

// Noop performs no generation; useful in tests or when the generator is skipped.
type Noop struct{}

func (Noop) Generate(context.Context, string) error { return nil }
func (Noop) Command() string                        { return "" }
