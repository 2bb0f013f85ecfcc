package git

import (
	stderrors "errors"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
)

var (
	// ErrNotARepository indicates the vendored directory is not a git checkout.
	ErrNotARepository = stderrors.New("not a git repository")

	// ErrDirtyWorktree indicates local modifications would be overwritten.
	ErrDirtyWorktree = stderrors.New("worktree has local modifications")
)

// Typed git errors enabling structured classification without string parsing upstream.
type AuthError struct {
	Op, URL string
	Err     error
}

func (e *AuthError) Error() string { return fmt.Sprintf("%s auth error for %s: %v", e.Op, e.URL, e.Err) }
func (e *AuthError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Op, URL string
	Err     error
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s not found %s: %v", e.Op, e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error { return e.Err }

type RemoteDivergedError struct {
	Op, URL, Branch string
	Err             error
}

func (e *RemoteDivergedError) Error() string {
	return fmt.Sprintf("%s remote diverged %s@%s: %v", e.Op, e.URL, e.Branch, e.Err)
}
func (e *RemoteDivergedError) Unwrap() error { return e.Err }

// classifyFetchError wraps fetch failures into typed variants when possible.
func classifyFetchError(url string, err error) error {
	if err == nil {
		return nil
	}
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "auth"):
		return &AuthError{Op: "fetch", URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return &NotFoundError{Op: "fetch", URL: url, Err: err}
	default:
		return err
	}
}

// isPermanent reports errors a retry cannot fix.
func isPermanent(err error) bool {
	var (
		authErr     *AuthError
		notFoundErr *NotFoundError
		divergedErr *RemoteDivergedError
	)
	switch {
	case stderrors.As(err, &authErr), stderrors.As(err, &notFoundErr), stderrors.As(err, &divergedErr):
		return true
	case stderrors.Is(err, ErrNotARepository), stderrors.Is(err, ErrDirtyWorktree):
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission") || strings.Contains(msg, "denied") ||
		strings.Contains(msg, "unsupported protocol") || strings.Contains(msg, "invalid reference")
}

// Classify translates refresh failures into ClassifiedErrors.
func Classify(err error, dir string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	b := errors.GitError("vendored source refresh failed").
		WithCause(err).
		WithContext("path", dir)

	var (
		authErr     *AuthError
		notFoundErr *NotFoundError
		divergedErr *RemoteDivergedError
	)
	switch {
	case stderrors.As(err, &authErr):
		b.WithCategory(errors.CategoryAuth).UserAction()
	case stderrors.As(err, &notFoundErr):
		b.WithCategory(errors.CategoryConfig).UserAction()
	case stderrors.As(err, &divergedErr):
		b.WithContext("diverged", true).UserAction()
	case stderrors.Is(err, ErrNotARepository):
		b.WithCategory(errors.CategoryConfig).UserAction()
	case stderrors.Is(err, ErrDirtyWorktree):
		b.UserAction()
	}
	return b.Build()
}
