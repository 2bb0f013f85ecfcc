package pipeline

import (
	"context"
	stderrors "errors"
	"io/fs"

	"git.home.luguber.info/inful/glueregen/internal/classify"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
	"git.home.luguber.info/inful/glueregen/internal/relpath"
	"git.home.luguber.info/inful/glueregen/internal/rewrite"
)

// classifyStepError maps a step failure onto a ClassifiedError carrying the
// step name and path, plus the marker pattern for anchor failures.
func classifyStepError(err error, step, path string) error {
	if err == nil {
		return nil
	}
	if ce, ok := errors.AsClassified(err); ok {
		return ce.WithContext(errors.ContextStep, step)
	}

	var b *errors.ErrorBuilder
	var anchorErr *rewrite.AnchorError
	switch {
	case stderrors.Is(err, context.Canceled), stderrors.Is(err, context.DeadlineExceeded):
		b = errors.RuntimeError("run cancelled")
	case stderrors.As(err, &anchorErr):
		b = errors.MarkerError("marker could not be located").
			WithContext("pattern", anchorErr.Anchor)
	case stderrors.Is(err, rewrite.ErrValidation):
		b = errors.MarkerError("rewritten content is not valid")
	case stderrors.Is(err, relpath.ErrNoCommonRoot):
		b = errors.PathError("cannot compute relative path")
	case stderrors.Is(err, classify.ErrUnknownPlatform):
		b = errors.ConfigError("unknown platform")
	case stderrors.Is(err, rewrite.ErrNotWritable):
		b = errors.FileSystemError("target file not writable").UserAction()
	case stderrors.Is(err, fs.ErrNotExist):
		b = errors.ConfigError("file not found")
	default:
		b = errors.FileSystemError("rewrite failed")
	}
	return b.WithCause(err).
		WithContext(errors.ContextStep, step).
		WithContext(errors.ContextPath, path).
		Build()
}
