package config

import "errors"

var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidConfig indicates the configuration file could not be parsed.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConfigExists is returned by Init when the file exists and force is unset.
	ErrConfigExists = errors.New("configuration file already exists")
)
