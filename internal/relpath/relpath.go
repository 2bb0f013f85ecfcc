// Package relpath computes portable relative paths between a generated file's
// directory and a discovered source file.
package relpath

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoCommonRoot indicates the directory and the target share no common root.
var ErrNoCommonRoot = errors.New("paths share no common root")

// Relativizer computes relative paths, optionally confined to a known tree.
type Relativizer struct {
	// Root, when set, must contain both the directory and the target.
	Root string
}

// Rel returns the shortest relative path from dir to target using "/" as
// separator. Identical inputs always yield identical output.
func Rel(dir, target string) (string, error) {
	return Relativizer{}.Rel(dir, target)
}

// Rel returns the shortest relative path from dir to target.
func (r Relativizer) Rel(dir, target string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dir, err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", target, err)
	}
	if !strings.EqualFold(filepath.VolumeName(absDir), filepath.VolumeName(absTarget)) {
		return "", fmt.Errorf("%w: %s and %s", ErrNoCommonRoot, dir, target)
	}
	if r.Root != "" {
		root, rerr := filepath.Abs(r.Root)
		if rerr != nil {
			return "", fmt.Errorf("resolve root %s: %w", r.Root, rerr)
		}
		if !Within(root, absDir) || !Within(root, absTarget) {
			return "", fmt.Errorf("%w: %s and %s are not both under %s", ErrNoCommonRoot, dir, target, r.Root)
		}
	}

	rel, err := filepath.Rel(absDir, absTarget)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNoCommonRoot, err)
	}
	return filepath.ToSlash(rel), nil
}

// Within reports whether path equals root or lies beneath it. Both paths are
// expected to be absolute and clean.
func Within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
