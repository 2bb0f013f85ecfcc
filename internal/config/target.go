package config

// TargetKind selects how a generated file is rendered and spliced.
type TargetKind string

const (
	KindImplementation  TargetKind = "implementation"
	KindHeader          TargetKind = "header"
	KindGeneratorConfig TargetKind = "generator-config"
)

// Default marker lines and list sections per target kind.
const (
	DefaultImplementationMarker = "// Include source files"
	DefaultHeaderMarker         = "#pragma once"
)

// Target is one generated file rewritten on every run.
type Target struct {
	Name     string     `yaml:"name"`
	Kind     TargetKind `yaml:"kind"`
	Path     string     `yaml:"path"`               // relative to BaseDir
	Platform string     `yaml:"platform,omitempty"` // implementation targets only
	Marker   string     `yaml:"marker,omitempty"`   // line marker for implementation and header targets
	Sections []Section  `yaml:"sections,omitempty"` // list sections for generator-config targets
}

// Section names a YAML-like list section and, optionally, the key that must
// follow it.
type Section struct {
	Name  string `yaml:"name"`
	Until string `yaml:"until,omitempty"`
}

// DefaultSections are the list sections of an ffigen configuration.
func DefaultSections() []Section {
	return []Section{
		{Name: "entry-points", Until: "include-directives"},
		{Name: "include-directives", Until: "preamble"},
	}
}

func (t *Target) applyDefaults() {
	switch t.Kind {
	case KindImplementation:
		if t.Marker == "" {
			t.Marker = DefaultImplementationMarker
		}
	case KindHeader:
		if t.Marker == "" {
			t.Marker = DefaultHeaderMarker
		}
	case KindGeneratorConfig:
		if len(t.Sections) == 0 {
			t.Sections = DefaultSections()
		}
	}
}
