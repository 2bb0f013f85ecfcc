package config

const (
	currentVersion     = "1"
	defaultRemote      = "origin"
	defaultDebounce    = "500ms"
	defaultInitialWait = "1s"
	defaultMaxWait     = "30s"
	defaultMaxRetries  = 2
)

// DefaultGeneratorCommand runs ffigen against the package's ffigen.yaml.
var DefaultGeneratorCommand = []string{"dart", "run", "ffigen", "--config", "ffigen.yaml"}

// Default returns the configuration for the standard cnativeapi package layout.
func Default() *Config {
	cfg := &Config{
		Version: currentVersion,
		Targets: DefaultTargets(),
	}
	applyDefaults(cfg)
	return cfg
}

// DefaultTargets lists the five generated files in run order.
func DefaultTargets() []Target {
	return []Target{
		{
			Name:     "macos-implementation",
			Kind:     KindImplementation,
			Path:     "macos/cnativeapi/Sources/cnativeapi/cnativeapi.mm",
			Platform: "macos",
		},
		{
			Name:     "ios-implementation",
			Kind:     KindImplementation,
			Path:     "ios/cnativeapi/Sources/cnativeapi/cnativeapi.mm",
			Platform: "ios",
		},
		{
			Name: "macos-header",
			Kind: KindHeader,
			Path: "macos/cnativeapi/Sources/cnativeapi/include/cnativeapi.h",
		},
		{
			Name: "ios-header",
			Kind: KindHeader,
			Path: "ios/cnativeapi/Sources/cnativeapi/include/cnativeapi.h",
		},
		{
			Name: "generator-config",
			Kind: KindGeneratorConfig,
			Path: "ffigen.yaml",
		},
	}
}

// applyDefaults fills every unset field after unmarshalling.
func applyDefaults(cfg *Config) {
	if cfg.Version == "" {
		cfg.Version = currentVersion
	}

	s := &cfg.Source
	if s.Root == "" {
		s.Root = "cxx_impl"
	}
	if s.SrcDir == "" {
		s.SrcDir = "src"
	}
	if s.CAPIDir == "" {
		s.CAPIDir = "capi"
	}
	if s.CAPISuffix == "" {
		s.CAPISuffix = "_c.h"
	}
	if len(s.ImplementationExtensions) == 0 {
		s.ImplementationExtensions = []string{".cpp", ".mm"}
	}
	if len(s.HeaderExtensions) == 0 {
		s.HeaderExtensions = []string{".h"}
	}

	r := &cfg.Refresh
	if r.Remote == "" {
		r.Remote = defaultRemote
	}
	if r.Retry.Backoff == "" {
		r.Retry.Backoff = RetryBackoffLinear
	} else if m := NormalizeRetryBackoff(string(r.Retry.Backoff)); m != "" {
		r.Retry.Backoff = m
	}
	if r.Retry.InitialDelay == "" {
		r.Retry.InitialDelay = defaultInitialWait
	}
	if r.Retry.MaxDelay == "" {
		r.Retry.MaxDelay = defaultMaxWait
	}
	if r.Retry.MaxRetries == 0 {
		r.Retry.MaxRetries = defaultMaxRetries
	}

	if len(cfg.Targets) == 0 {
		cfg.Targets = DefaultTargets()
	}
	for i := range cfg.Targets {
		cfg.Targets[i].applyDefaults()
	}

	if len(cfg.Generator.Command) == 0 {
		cfg.Generator.Command = append([]string(nil), DefaultGeneratorCommand...)
	}
	if cfg.Generator.Dir == "" {
		cfg.Generator.Dir = "."
	}

	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = defaultDebounce
	}
}
