package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-git/go-git/v5"
	ggitcfg "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/glueregen/internal/logfields"
)

func (c *Client) refreshOnce(ctx context.Context, dir string) (Result, error) {
	repository, err := git.PlainOpen(dir)
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return Result{}, fmt.Errorf("%w: %s", ErrNotARepository, dir)
		}
		return Result{}, fmt.Errorf("open repo: %w", err)
	}
	wt, err := repository.Worktree()
	if err != nil {
		return Result{}, fmt.Errorf("worktree: %w", err)
	}

	// 1. Fetch remote refs
	url := remoteURL(repository, c.remote)
	c.logger.Info("Fetching vendored source", logfields.Path(dir), logfields.URL(url))
	if err := c.fetch(ctx, repository); err != nil {
		return Result{}, classifyFetchError(url, err)
	}

	// 2. Resolve target branch and its remote tip
	branch, err := c.resolveTargetBranch(repository)
	if err != nil {
		return Result{}, err
	}
	remoteRef, err := repository.Reference(plumbing.NewRemoteReferenceName(c.remote, branch), true)
	if err != nil {
		return Result{}, fmt.Errorf("remote ref %s/%s: %w", c.remote, branch, err)
	}

	head, err := repository.Head()
	if err != nil {
		return Result{}, fmt.Errorf("head: %w", err)
	}
	res := Result{Branch: branch, From: head.Hash().String(), To: remoteRef.Hash().String()}
	if head.Hash() == remoteRef.Hash() {
		c.logger.Info("Vendored source already up-to-date", logfields.Branch(branch), logfields.Commit(short(res.To)))
		return res, nil
	}

	// 3. Fast-forward or handle divergence
	if err := c.syncWithRemote(repository, wt, head, remoteRef); err != nil {
		var diverged *RemoteDivergedError
		if errors.As(err, &diverged) {
			diverged.URL, diverged.Branch = url, branch
		}
		return Result{}, err
	}
	res.Updated = true
	c.logger.Info("Vendored source updated",
		logfields.Branch(branch),
		slog.String("from", short(res.From)),
		logfields.Commit(short(res.To)))
	return res, nil
}

func (c *Client) fetch(ctx context.Context, repository *git.Repository) error {
	refSpec := ggitcfg.RefSpec(fmt.Sprintf("+refs/heads/*:refs/remotes/%s/*", c.remote))
	opts := &git.FetchOptions{
		RemoteName: c.remote,
		Tags:       git.NoTags,
		RefSpecs:   []ggitcfg.RefSpec{refSpec},
		Auth:       c.auth,
	}
	if err := repository.FetchContext(ctx, opts); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch: %w", err)
	}
	return nil
}

// resolveTargetBranch follows: configured branch, checked-out branch, remote
// HEAD, then the first of main/master present on the remote.
func (c *Client) resolveTargetBranch(repository *git.Repository) (string, error) {
	if c.branch != "" {
		return c.branch, nil
	}
	if headRef, err := repository.Head(); err == nil && headRef.Name().IsBranch() {
		return headRef.Name().Short(), nil
	}
	if ref, err := repository.Reference(plumbing.NewRemoteHEADReferenceName(c.remote), false); err == nil && ref.Target() != "" {
		return strings.TrimPrefix(string(ref.Target()), "refs/remotes/"+c.remote+"/"), nil
	}
	for _, candidate := range []string{"main", "master"} {
		if _, err := repository.Reference(plumbing.NewRemoteReferenceName(c.remote, candidate), true); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("cannot determine branch to track on %s; set refresh.branch", c.remote)
}

// syncWithRemote moves HEAD (or the branch it points to) to the remote tip.
func (c *Client) syncWithRemote(repository *git.Repository, wt *git.Worktree, head, remoteRef *plumbing.Reference) error {
	fastForward, err := isAncestor(repository, head.Hash(), remoteRef.Hash())
	if err != nil {
		c.logger.Warn("Ancestor check failed", logfields.Error(err))
	}
	if !fastForward && !c.hardReset {
		return &RemoteDivergedError{
			Op:  "refresh",
			Err: errors.New("local checkout diverged from remote (enable hard_reset_on_diverge to override)"),
		}
	}
	if !c.hardReset {
		status, err := wt.Status()
		if err != nil {
			return fmt.Errorf("status: %w", err)
		}
		if !status.IsClean() {
			return ErrDirtyWorktree
		}
	}
	if !fastForward {
		c.logger.Warn("Vendored source diverged, hard resetting", logfields.Commit(short(remoteRef.Hash().String())))
	}
	if err := wt.Reset(&git.ResetOptions{Commit: remoteRef.Hash(), Mode: git.HardReset}); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	return nil
}

func isAncestor(repo *git.Repository, a, b plumbing.Hash) (bool, error) {
	if a == b {
		return true, nil
	}
	seen := map[plumbing.Hash]struct{}{}
	queue := []plumbing.Hash{b}
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		if h == a {
			return true, nil
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		commit, err := repo.CommitObject(h)
		if err != nil {
			return false, err
		}
		queue = append(queue, commit.ParentHashes...)
	}
	return false, nil
}

func remoteURL(repository *git.Repository, name string) string {
	remote, err := repository.Remote(name)
	if err != nil || len(remote.Config().URLs) == 0 {
		return name
	}
	return remote.Config().URLs[0]
}

func short(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
