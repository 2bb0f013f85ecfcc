package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWriteTreeAndAssertions(t *testing.T) {
	root := t.TempDir()
	WriteTree(t, root, map[string]string{
		"cxx_impl/src/capi/app_c.h": "// app\n",
		"macos/glue.mm":             "// Include source files\n",
	})

	NewFileAssertions(t, root).
		AssertFileEquals("cxx_impl/src/capi/app_c.h", "// app\n").
		AssertFileContains("macos/glue.mm", "Include source files").
		AssertFileNotContains("macos/glue.mm", "#include")
}

func TestSnapshotDetectsNoChange(t *testing.T) {
	root := t.TempDir()
	WriteTree(t, root, map[string]string{"a.h": "x"})
	snap := TakeSnapshot(t, root, "a.h")
	snap.AssertUnchanged(t)

	// rewriting identical bytes with a different mtime is a change
	path := filepath.Join(root, "a.h")
	later := time.Now().Add(time.Hour)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatal(err)
	}
	after := TakeSnapshot(t, root, "a.h")
	if after.files["a.h"].modTime.Equal(snap.files["a.h"].modTime) {
		t.Fatal("expected mtime to differ")
	}
}
