package rewrite

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/glueregen/internal/logfields"
)

// Validator inspects spliced content before it is written.
type Validator func(path string, content []byte) error

// Writer performs read, splice, validate and atomic replace of one file.
type Writer struct {
	DryRun   bool      // report changes without writing
	Validate Validator // optional check of the spliced content
	Logger   *slog.Logger
}

// Outcome describes a Rewrite call.
type Outcome struct {
	Path    string
	Changed bool // new content differs from the file
	Written bool // the file was replaced
}

// Rewrite applies edits to the file at path. The file is left untouched on
// any error and when the content would not change. A symlinked target is
// rewritten through the link, which stays in place.
func (w Writer) Rewrite(ctx context.Context, path string, edits ...Edit) (Outcome, error) {
	out := Outcome{Path: path}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return out, err
	}
	info, err := os.Stat(resolved)
	if err != nil {
		return out, err
	}
	before, err := os.ReadFile(resolved)
	if err != nil {
		return out, fmt.Errorf("read %s: %w", path, err)
	}

	after, err := Splice(string(before), edits...)
	if err != nil {
		return out, err
	}
	if w.Validate != nil {
		if err := w.Validate(path, []byte(after)); err != nil {
			return out, fmt.Errorf("%w: %s: %w", ErrValidation, path, err)
		}
	}

	out.Changed = !bytes.Equal(before, []byte(after))
	if !out.Changed {
		w.logger().Debug("Target already up to date", logfields.Path(path))
		return out, nil
	}
	if w.DryRun {
		return out, nil
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}
	if err := writeAtomic(resolved, []byte(after), info.Mode().Perm()); err != nil {
		return out, err
	}
	out.Written = true
	return out, nil
}

func (w Writer) logger() *slog.Logger {
	if w.Logger != nil {
		return w.Logger
	}
	return slog.Default()
}

// writeAtomic replaces path with data via a temp file in the same directory.
// path itself must be writable; write access to the directory alone is not
// enough.
func writeAtomic(path string, data []byte, perm os.FileMode) (err error) {
	if err = checkWritable(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrNotWritable, path, err)
	}
	return f.Close()
}

// ValidYAML rejects content that no longer parses as YAML.
func ValidYAML(_ string, content []byte) error {
	var doc yaml.Node
	return yaml.Unmarshal(content, &doc)
}
