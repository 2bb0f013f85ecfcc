// Package foundation holds small generic helpers shared by configuration
// and classification code.
package foundation

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidValue indicates input that maps to no known enum value.
var ErrInvalidValue = errors.New("invalid value")

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Normalizer maps case-insensitive, whitespace-tolerant input onto a fixed
// set of enum values.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
}

// NewNormalizer creates a normalizer from spelling -> value pairs.
// Several spellings may map to the same value.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	for k, v := range values {
		normalized[normalizeKey(k)] = v
	}
	return &Normalizer[T]{values: normalized, defaultValue: defaultValue}
}

// Normalize returns the value for raw, or the default when raw is unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	if v, ok := n.values[normalizeKey(raw)]; ok {
		return v
	}
	return n.defaultValue
}

// NormalizeWithError returns the value for raw or an ErrInvalidValue listing
// the accepted spellings.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.values[normalizeKey(raw)]; ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w %q (accepted: %s)", ErrInvalidValue, raw, strings.Join(n.Keys(), ", "))
}

// Keys returns the accepted spellings, sorted.
func (n *Normalizer[T]) Keys() []string {
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
