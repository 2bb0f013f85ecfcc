package rewrite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var mmEdit = Edit{
	Anchor: LineMarker{Text: "// Include source files"},
	Lines:  []string{`#include "../../../../cxx_impl/src/core.cpp"`},
}

func writeTarget(t *testing.T, content string, perm os.FileMode) (string, time.Time) {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cnativeapi.mm")
	require.NoError(t, os.WriteFile(p, []byte(content), perm))
	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(p, past, past))
	return p, past
}

func requireUntouched(t *testing.T, p, content string, mtime time.Time) {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Equal(t, content, string(data))
	info, err := os.Stat(p)
	require.NoError(t, err)
	require.True(t, info.ModTime().Equal(mtime), "mtime changed: %v != %v", info.ModTime(), mtime)
}

func TestWriter_Rewrite(t *testing.T) {
	p, _ := writeTarget(t, umbrellaMM, 0o640)

	out, err := Writer{}.Rewrite(context.Background(), p, mmEdit)
	require.NoError(t, err)
	require.True(t, out.Changed)
	require.True(t, out.Written)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	require.Contains(t, string(data), "// Include source files\n#include \"../../../../cxx_impl/src/core.cpp\"\n")
	require.NotContains(t, string(data), "gone.cpp")

	info, err := os.Stat(p)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWriter_Idempotent(t *testing.T) {
	p, _ := writeTarget(t, umbrellaMM, 0o644)
	_, err := Writer{}.Rewrite(context.Background(), p, mmEdit)
	require.NoError(t, err)
	first, err := os.ReadFile(p)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(p, past, past))

	out, err := Writer{}.Rewrite(context.Background(), p, mmEdit)
	require.NoError(t, err)
	require.False(t, out.Changed)
	require.False(t, out.Written)
	requireUntouched(t, p, string(first), past)
}

func TestWriter_MissingMarkerLeavesFileUntouched(t *testing.T) {
	content := "// hand written\n#import <Foundation/Foundation.h>\n"
	p, mtime := writeTarget(t, content, 0o644)

	_, err := Writer{}.Rewrite(context.Background(), p, mmEdit)
	require.ErrorIs(t, err, ErrMarkerNotFound)
	requireUntouched(t, p, content, mtime)
}

func TestWriter_DryRun(t *testing.T) {
	p, mtime := writeTarget(t, umbrellaMM, 0o644)

	out, err := Writer{DryRun: true}.Rewrite(context.Background(), p, mmEdit)
	require.NoError(t, err)
	require.True(t, out.Changed)
	require.False(t, out.Written)
	requireUntouched(t, p, umbrellaMM, mtime)
}

func TestWriter_ValidationFailure(t *testing.T) {
	p, mtime := writeTarget(t, umbrellaMM, 0o644)
	reject := errors.New("nope")

	_, err := Writer{Validate: func(string, []byte) error { return reject }}.Rewrite(context.Background(), p, mmEdit)
	require.ErrorIs(t, err, ErrValidation)
	require.ErrorIs(t, err, reject)
	requireUntouched(t, p, umbrellaMM, mtime)
}

func TestWriter_CancelledContext(t *testing.T) {
	p, mtime := writeTarget(t, umbrellaMM, 0o644)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Writer{}.Rewrite(ctx, p, mmEdit)
	require.ErrorIs(t, err, context.Canceled)
	requireUntouched(t, p, umbrellaMM, mtime)
}

func TestWriter_MissingFile(t *testing.T) {
	_, err := Writer{}.Rewrite(context.Background(), filepath.Join(t.TempDir(), "absent.h"), mmEdit)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestWriter_ReadOnlyTarget(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}
	p, mtime := writeTarget(t, umbrellaMM, 0o444)

	out, err := Writer{}.Rewrite(context.Background(), p, mmEdit)
	require.ErrorIs(t, err, ErrNotWritable)
	require.ErrorIs(t, err, os.ErrPermission)
	require.True(t, out.Changed)
	require.False(t, out.Written)
	requireUntouched(t, p, umbrellaMM, mtime)

	info, err := os.Stat(p)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o444), info.Mode().Perm())
	entries, err := os.ReadDir(filepath.Dir(p))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
}

func TestWriter_SymlinkTarget(t *testing.T) {
	dir := t.TempDir()
	realDir := filepath.Join(dir, "macos", "Classes")
	linkDir := filepath.Join(dir, "ios", "Classes")
	require.NoError(t, os.MkdirAll(realDir, 0o755))
	require.NoError(t, os.MkdirAll(linkDir, 0o755))
	target := filepath.Join(realDir, "cnativeapi.mm")
	require.NoError(t, os.WriteFile(target, []byte(umbrellaMM), 0o644))
	link := filepath.Join(linkDir, "cnativeapi.mm")
	require.NoError(t, os.Symlink(target, link))

	out, err := Writer{}.Rewrite(context.Background(), link, mmEdit)
	require.NoError(t, err)
	require.True(t, out.Written)
	require.Equal(t, link, out.Path)

	fi, err := os.Lstat(link)
	require.NoError(t, err)
	require.NotZero(t, fi.Mode()&os.ModeSymlink, "link replaced by a regular file")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Contains(t, string(data), `#include "../../../../cxx_impl/src/core.cpp"`)
	require.NotContains(t, string(data), "gone.cpp")

	for _, d := range []string{realDir, linkDir} {
		entries, err := os.ReadDir(d)
		require.NoError(t, err)
		require.Len(t, entries, 1, "no temp files left behind in %s", d)
	}
}

func TestValidYAML(t *testing.T) {
	require.NoError(t, ValidYAML("x.yaml", []byte("a:\n  - b\n")))
	require.Error(t, ValidYAML("x.yaml", []byte("a: [b\n")))
}
