package relpath

import (
	"errors"
	"path"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRel_UmbrellaLayouts(t *testing.T) {
	root := t.TempDir()
	pkg := filepath.Join(root, "packages", "cnativeapi")
	src := filepath.Join(pkg, "cxx_impl", "src")

	cases := []struct {
		name   string
		dir    string
		target string
		want   string
	}{
		{
			name:   "implementation aggregator",
			dir:    filepath.Join(pkg, "macos", "cnativeapi", "Sources", "cnativeapi"),
			target: filepath.Join(src, "platform", "macos", "window_macos.mm"),
			want:   "../../../../cxx_impl/src/platform/macos/window_macos.mm",
		},
		{
			name:   "umbrella header",
			dir:    filepath.Join(pkg, "ios", "cnativeapi", "Sources", "cnativeapi", "include"),
			target: filepath.Join(src, "capi", "window_c.h"),
			want:   "../../../../../cxx_impl/src/capi/window_c.h",
		},
		{
			name:   "generator config at package root",
			dir:    pkg,
			target: filepath.Join(src, "capi", "tray_c.h"),
			want:   "cxx_impl/src/capi/tray_c.h",
		},
		{
			name:   "same directory",
			dir:    src,
			target: filepath.Join(src, "window.cpp"),
			want:   "window.cpp",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Rel(tc.dir, tc.target)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)

			again, err := Rel(tc.dir, tc.target)
			require.NoError(t, err)
			require.Equal(t, got, again, "relative paths must be deterministic")
		})
	}
}

func TestRel_RoundTrip(t *testing.T) {
	root := t.TempDir()
	dirs := []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b", "c"),
		filepath.Join(root, "x", "y"),
	}
	targets := []string{
		filepath.Join(root, "a", "f.cpp"),
		filepath.Join(root, "a", "b", "c", "d", "g.mm"),
		filepath.Join(root, "x", "h.h"),
		filepath.Join(root, "top.h"),
	}

	for _, d := range dirs {
		for _, tg := range targets {
			rel, err := Rel(d, tg)
			require.NoError(t, err)
			require.NotContains(t, rel, `\`)
			resolved := path.Join(filepath.ToSlash(d), rel)
			require.Equal(t, filepath.ToSlash(tg), resolved, "from %s to %s via %s", d, tg, rel)
		}
	}
}

func TestRelativizer_RootConfinement(t *testing.T) {
	root := t.TempDir()
	r := Relativizer{Root: filepath.Join(root, "pkg")}

	got, err := r.Rel(filepath.Join(root, "pkg", "macos"), filepath.Join(root, "pkg", "src", "a.cpp"))
	require.NoError(t, err)
	require.Equal(t, "../src/a.cpp", got)

	_, err = r.Rel(filepath.Join(root, "pkg", "macos"), filepath.Join(root, "elsewhere", "a.cpp"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoCommonRoot))

	// A sibling sharing the root's name as a prefix is outside the root.
	_, err = r.Rel(filepath.Join(root, "pkg"), filepath.Join(root, "pkg2", "a.cpp"))
	require.ErrorIs(t, err, ErrNoCommonRoot)
}

func TestWithin(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	require.True(t, Within(root, root))
	require.True(t, Within(root, filepath.Join(root, "a", "b")))
	require.False(t, Within(root, filepath.Dir(root)))
	require.False(t, Within(root, root+"x"))
}
