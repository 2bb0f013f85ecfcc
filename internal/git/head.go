package git

import (
	"errors"
	"fmt"

	"github.com/go-git/go-git/v5"
)

// Head returns the commit checked out in dir. Submodule checkouts whose .git
// is a gitdir file are supported.
func Head(dir string) (string, error) {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return "", err
	}
	ref, err := repository.Head()
	if err != nil {
		return "", fmt.Errorf("head: %w", err)
	}
	return ref.Hash().String(), nil
}
