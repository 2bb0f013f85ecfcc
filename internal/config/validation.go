package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"git.home.luguber.info/inful/glueregen/internal/classify"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
)

// Validate checks the configuration after defaults have been applied.
func (c *Config) Validate() error {
	v := &configurationValidator{config: c}
	return v.validate()
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateSource(); err != nil {
		return err
	}
	if err := cv.validateTargets(); err != nil {
		return err
	}
	if err := cv.validateRefresh(); err != nil {
		return err
	}
	if err := cv.validateGenerator(); err != nil {
		return err
	}
	return cv.validateWatch()
}

func (cv *configurationValidator) validateSource() error {
	s := cv.config.Source
	if strings.TrimSpace(s.Root) == "" {
		return invalid("source.root", "source root cannot be empty")
	}
	if filepath.IsAbs(s.SrcDir) || filepath.IsAbs(s.CAPIDir) {
		return invalid("source", "src_dir and capi_dir must be relative")
	}
	for _, ext := range append(append([]string(nil), s.ImplementationExtensions...), s.HeaderExtensions...) {
		if !strings.HasPrefix(ext, ".") {
			return invalid("source", fmt.Sprintf("extension %q must start with a dot", ext))
		}
	}
	return nil
}

func (cv *configurationValidator) validateTargets() error {
	if len(cv.config.Targets) == 0 {
		return invalid("targets", "at least one target must be configured")
	}
	names := make(map[string]bool)
	paths := make(map[string]string)
	for _, t := range cv.config.Targets {
		if t.Name == "" {
			return invalid("targets", "target name cannot be empty")
		}
		if names[t.Name] {
			return invalid("targets", "duplicate target name: "+t.Name)
		}
		names[t.Name] = true

		if t.Path == "" {
			return invalid("targets."+t.Name+".path", "target path cannot be empty")
		}
		resolved := cv.config.Resolve(t.Path)
		if other, dup := paths[resolved]; dup {
			return invalid("targets."+t.Name+".path", fmt.Sprintf("target path already used by %s", other))
		}
		paths[resolved] = t.Name

		if err := validateTargetKind(t); err != nil {
			return err
		}
	}
	return nil
}

func validateTargetKind(t Target) error {
	field := "targets." + t.Name
	switch t.Kind {
	case KindImplementation:
		if _, err := classify.ParsePlatform(t.Platform); err != nil {
			return invalid(field+".platform", err.Error())
		}
	case KindHeader:
		if t.Platform != "" {
			return invalid(field+".platform", "platform only applies to implementation targets")
		}
	case KindGeneratorConfig:
		seen := make(map[string]bool)
		for _, s := range t.Sections {
			if s.Name == "" {
				return invalid(field+".sections", "section name cannot be empty")
			}
			if seen[s.Name] {
				return invalid(field+".sections", "duplicate section: "+s.Name)
			}
			seen[s.Name] = true
		}
		return nil
	default:
		return invalid(field+".kind", fmt.Sprintf("unknown target kind %q", t.Kind))
	}
	if strings.TrimSpace(t.Marker) == "" {
		return invalid(field+".marker", "marker cannot be blank")
	}
	return nil
}

func (cv *configurationValidator) validateRefresh() error {
	r := cv.config.Refresh
	if NormalizeRetryBackoff(string(r.Retry.Backoff)) == "" {
		return invalid("refresh.retry.backoff", fmt.Sprintf("unknown backoff mode %q", r.Retry.Backoff))
	}
	if r.Retry.MaxRetries < 0 {
		return invalid("refresh.retry.max_retries", "max retries cannot be negative")
	}
	for field, raw := range map[string]string{
		"refresh.retry.initial_delay": r.Retry.InitialDelay,
		"refresh.retry.max_delay":     r.Retry.MaxDelay,
	} {
		if _, err := time.ParseDuration(raw); err != nil {
			return invalid(field, fmt.Sprintf("invalid duration %q", raw))
		}
	}
	if r.Auth != nil {
		switch r.Auth.Type {
		case "", AuthTypeNone, AuthTypeSSH, AuthTypeToken, AuthTypeBasic:
		default:
			return invalid("refresh.auth.type", fmt.Sprintf("unsupported auth type %q", r.Auth.Type))
		}
	}
	return nil
}

func (cv *configurationValidator) validateGenerator() error {
	g := cv.config.Generator
	if len(g.Command) == 0 || strings.TrimSpace(g.Command[0]) == "" {
		return invalid("generator.command", "generator command cannot be empty")
	}
	return nil
}

func (cv *configurationValidator) validateWatch() error {
	w := cv.config.Watch
	if d, err := time.ParseDuration(w.Debounce); err != nil || d < 0 {
		return invalid("watch.debounce", fmt.Sprintf("invalid duration %q", w.Debounce))
	}
	if w.RefreshInterval != "" {
		d, err := time.ParseDuration(w.RefreshInterval)
		if err != nil || d <= 0 {
			return invalid("watch.refresh_interval", fmt.Sprintf("invalid duration %q", w.RefreshInterval))
		}
	}
	return nil
}

func invalid(field, message string) error {
	return errors.ValidationError(message).WithContext("field", field).Build()
}
