// Package auth turns the refresh auth configuration into go-git transport
// credentials.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"git.home.luguber.info/inful/glueregen/internal/config"
)

// ErrInvalidAuth indicates an auth configuration missing required fields.
var ErrInvalidAuth = errors.New("invalid auth configuration")

// provider builds one kind of transport.AuthMethod.
type provider func(cfg *config.AuthConfig) (transport.AuthMethod, error)

var providers = map[config.AuthType]provider{
	config.AuthTypeNone:  noneAuth,
	config.AuthTypeToken: tokenAuth,
	config.AuthTypeBasic: basicAuth,
	config.AuthTypeSSH:   sshAuth,
}

// Method returns the transport auth for cfg. A nil or empty cfg yields nil,
// which go-git treats as anonymous access.
func Method(cfg *config.AuthConfig) (transport.AuthMethod, error) {
	if cfg.IsZero() {
		return nil, nil
	}
	p, ok := providers[cfg.Type]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported type %q", ErrInvalidAuth, cfg.Type)
	}
	return p(cfg)
}

func noneAuth(*config.AuthConfig) (transport.AuthMethod, error) { return nil, nil }

func tokenAuth(cfg *config.AuthConfig) (transport.AuthMethod, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: token auth requires a token", ErrInvalidAuth)
	}
	user := cfg.Username
	if user == "" {
		user = "token"
	}
	return &http.BasicAuth{Username: user, Password: cfg.Token}, nil
}

func basicAuth(cfg *config.AuthConfig) (transport.AuthMethod, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, fmt.Errorf("%w: basic auth requires username and password", ErrInvalidAuth)
	}
	return &http.BasicAuth{Username: cfg.Username, Password: cfg.Password}, nil
}

func sshAuth(cfg *config.AuthConfig) (transport.AuthMethod, error) {
	keyPath := cfg.KeyPath
	if keyPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("%w: no key_path and no home directory: %w", ErrInvalidAuth, err)
		}
		keyPath = filepath.Join(home, ".ssh", "id_rsa")
	}
	user := cfg.Username
	if user == "" {
		user = "git"
	}
	keys, err := ssh.NewPublicKeysFromFile(user, keyPath, cfg.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: load ssh key %s: %w", ErrInvalidAuth, keyPath, err)
	}
	return keys, nil
}
