package git

import (
	"context"
	"log/slog"

	"github.com/go-git/go-git/v5/plumbing/transport"

	"git.home.luguber.info/inful/glueregen/internal/auth"
	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/logfields"
	"git.home.luguber.info/inful/glueregen/internal/retry"
)

// Client refreshes a vendored checkout.
type Client struct {
	remote    string
	branch    string
	hardReset bool
	auth      transport.AuthMethod
	policy    retry.Policy
	logger    *slog.Logger
	onRetry   func(attempt int, err error)
}

// Result describes a completed refresh.
type Result struct {
	Branch  string
	From    string // commit before the refresh
	To      string // commit after the refresh
	Updated bool
}

// NewClient builds a Client from the refresh configuration.
func NewClient(cfg config.RefreshConfig, logger *slog.Logger) (*Client, error) {
	method, err := auth.Method(cfg.Auth)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	remote := cfg.Remote
	if remote == "" {
		remote = "origin"
	}
	return &Client{
		remote:    remote,
		branch:    cfg.Branch,
		hardReset: cfg.HardResetOnDiverge,
		auth:      method,
		policy:    retry.FromConfig(cfg.Retry),
		logger:    logger,
	}, nil
}

// OnRetry registers fn to be called before every retry of a refresh.
func (c *Client) OnRetry(fn func(attempt int, err error)) *Client {
	c.onRetry = fn
	return c
}

// Refresh updates the checkout in dir, retrying transient failures.
func (c *Client) Refresh(ctx context.Context, dir string) (Result, error) {
	var res Result
	err := c.policy.Do(ctx, func() error {
		var err error
		res, err = c.refreshOnce(ctx, dir)
		return err
	}, isPermanent, func(attempt int, err error) {
		c.logger.Warn("Retrying vendored source refresh",
			logfields.Path(dir),
			logfields.Count(attempt),
			logfields.Error(err))
		if c.onRetry != nil {
			c.onRetry(attempt, err)
		}
	})
	if err != nil {
		return Result{}, err
	}
	return res, nil
}
