// Package testutil provides filesystem fixtures and fluent assertions for
// tests that regenerate files on disk.
package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// WriteTree creates every file of tree (slash-separated path -> content)
// beneath root, creating parent directories as needed.
func WriteTree(t *testing.T, root string, tree map[string]string) {
	t.Helper()
	for rel, content := range tree {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// FileAssertions provides utilities for asserting file system state in tests.
type FileAssertions struct {
	t       *testing.T
	baseDir string
}

// NewFileAssertions creates a new file assertions helper.
func NewFileAssertions(t *testing.T, baseDir string) *FileAssertions {
	return &FileAssertions{t: t, baseDir: baseDir}
}

func (fa *FileAssertions) read(rel string) (string, bool) {
	fa.t.Helper()
	// #nosec G304 - test helper, paths are controlled by test code
	content, err := os.ReadFile(filepath.Join(fa.baseDir, filepath.FromSlash(rel)))
	if err != nil {
		fa.t.Errorf("Failed to read file %s: %v", rel, err)
		return "", false
	}
	return string(content), true
}

// AssertFileEquals validates the complete content of a file.
func (fa *FileAssertions) AssertFileEquals(rel, expected string) *FileAssertions {
	fa.t.Helper()
	if got, ok := fa.read(rel); ok && got != expected {
		fa.t.Errorf("Unexpected content in %s\nExpected:\n%s\nActual:\n%s", rel, expected, got)
	}
	return fa
}

// AssertFileContains validates that a file contains expected content.
func (fa *FileAssertions) AssertFileContains(rel, expected string) *FileAssertions {
	fa.t.Helper()
	if got, ok := fa.read(rel); ok && !strings.Contains(got, expected) {
		fa.t.Errorf("Expected file %s to contain %q\nActual content:\n%s", rel, expected, got)
	}
	return fa
}

// AssertFileNotContains validates that a file does not contain content.
func (fa *FileAssertions) AssertFileNotContains(rel, unexpected string) *FileAssertions {
	fa.t.Helper()
	if got, ok := fa.read(rel); ok && strings.Contains(got, unexpected) {
		fa.t.Errorf("Expected file %s not to contain %q", rel, unexpected)
	}
	return fa
}

type fileState struct {
	content string
	modTime time.Time
}

// Snapshot records content and modification time of a set of files.
type Snapshot struct {
	baseDir string
	files   map[string]fileState
}

// TakeSnapshot captures the current state of rels beneath baseDir.
func TakeSnapshot(t *testing.T, baseDir string, rels ...string) *Snapshot {
	t.Helper()
	s := &Snapshot{baseDir: baseDir, files: make(map[string]fileState, len(rels))}
	for _, rel := range rels {
		s.files[rel] = stateOf(t, filepath.Join(baseDir, filepath.FromSlash(rel)))
	}
	return s
}

// AssertUnchanged fails when any captured file differs in content or mtime.
func (s *Snapshot) AssertUnchanged(t *testing.T) {
	t.Helper()
	for rel, before := range s.files {
		after := stateOf(t, filepath.Join(s.baseDir, filepath.FromSlash(rel)))
		if after.content != before.content {
			t.Errorf("%s changed\nBefore:\n%s\nAfter:\n%s", rel, before.content, after.content)
		}
		if !after.modTime.Equal(before.modTime) {
			t.Errorf("%s was rewritten (mtime %s -> %s)", rel, before.modTime, after.modTime)
		}
	}
}

func stateOf(t *testing.T, path string) fileState {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	// #nosec G304 - test helper, paths are controlled by test code
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return fileState{content: string(content), modTime: info.ModTime()}
}
