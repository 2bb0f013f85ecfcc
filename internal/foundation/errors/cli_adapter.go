package errors

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// ExitCodeUnclassified is returned for errors without a category.
const ExitCodeUnclassified = 1

var exitCodes = map[ErrorCategory]int{
	CategoryValidation: 2,
	CategoryDrift:      3,
	CategoryAuth:       5,
	CategoryConfig:     7,
	CategoryGit:        8,
	CategoryExternal:   8,
	CategoryInternal:   10,
	CategoryMarker:     11,
	CategoryPath:       11,
	CategoryFileSystem: 11,
	CategoryRuntime:    12,
}

// CLIErrorAdapter turns the error returned by a command into a message on
// stderr and a process exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
	stderr  io.Writer
	exit    func(int)
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
		stderr:  os.Stderr,
		exit:    os.Exit,
	}
}

// ExitCodeFor maps err to the exit code of its category; 0 for nil.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitCodeUnclassified
	}
	if code, ok := exitCodes[classified.Category()]; ok {
		return code
	}
	return ExitCodeUnclassified
}

// FormatError renders err for the terminal. Classified errors print as
// "category: message (key=value, ...)" with keys sorted, or in full when
// verbose.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return "Error: " + err.Error()
	}
	if a.verbose {
		return classified.Error()
	}

	msg := fmt.Sprintf("%s: %s", classified.Category(), classified.Message())
	ctx := classified.Context()
	if len(ctx) == 0 {
		return msg
	}
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, ctx[k]))
	}
	return fmt.Sprintf("%s (%s)", msg, strings.Join(parts, ", "))
}

// HandleError prints err and exits with its code. A nil error is a no-op.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	if a.shouldLog(err) {
		a.logError(err)
	}
	_, _ = fmt.Fprintln(a.stderr, a.FormatError(err))
	a.exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}
	if classified, ok := AsClassified(err); ok {
		return classified.Severity() == SeverityFatal
	}
	return true
}

func (a *CLIErrorAdapter) logError(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Unclassified error", "error", err)
		return
	}

	level := slog.LevelError
	if classified.Severity() == SeverityWarning {
		level = slog.LevelWarn
	}
	attrs := []slog.Attr{slog.String("category", string(classified.Category()))}
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if cause := classified.Cause(); cause != nil {
		attrs = append(attrs, slog.String("error", cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), level, classified.Message(), attrs...)
}
