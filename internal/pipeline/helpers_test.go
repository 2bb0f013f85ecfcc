package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/git"
	"git.home.luguber.info/inful/glueregen/internal/testutil"
)

const (
	macosMM     = "macos/cnativeapi/Sources/cnativeapi/cnativeapi.mm"
	iosMM       = "ios/cnativeapi/Sources/cnativeapi/cnativeapi.mm"
	macosHeader = "macos/cnativeapi/Sources/cnativeapi/include/cnativeapi.h"
	iosHeader   = "ios/cnativeapi/Sources/cnativeapi/include/cnativeapi.h"
	ffigenFile  = "ffigen.yaml"
)

const mmTemplate = `// Copyright (c) cnativeapi authors
#import <Foundation/Foundation.h>

// Include source files
#include "stale.cpp"
`

const headerTemplate = `// Umbrella header
#pragma once
#include "stale.h"
`

const ffigenTemplate = `name: CNativeApiBindings
output: "lib/src/bindings_generated.dart"
headers:
  entry-points:
    - "stale_c.h"

  include-directives:
    - "stale_c.h"

preamble: |
  // ignore_for_file: type=lint
`

var sourceTree = []string{
	"capi/app_c.h",
	"capi/window_c.h",
	"capi/window_c.cpp",
	"platform/macos/window_macos.mm",
	"platform/ios/window_ios.mm",
	"platform/linux/window_linux.cpp",
	"foundation/geometry.cpp",
	"foundation/geometry.h",
	"window.cpp",
	"window.h",
	"examples/demo.cpp",
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// newPackage lays out a package directory with a vendored source tree and
// the five generated files, and returns a configuration rooted at it.
func newPackage(t *testing.T) *config.Config {
	t.Helper()
	pkg := t.TempDir()
	tree := map[string]string{
		macosMM:     mmTemplate,
		iosMM:       mmTemplate,
		macosHeader: headerTemplate,
		iosHeader:   headerTemplate,
		ffigenFile:  ffigenTemplate,
	}
	for _, rel := range sourceTree {
		tree["cxx_impl/src/"+rel] = "// " + rel + "\n"
	}
	testutil.WriteTree(t, pkg, tree)

	cfg := config.Default()
	cfg.BaseDir = pkg
	return cfg
}

type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) Refresh(context.Context, string) (git.Result, error) {
	f.calls++
	if f.err != nil {
		return git.Result{}, f.err
	}
	return git.Result{Branch: "main", From: "a", To: "b", Updated: true}, nil
}

type fakeGenerator struct {
	calls int
	dir   string
	err   error
}

func (f *fakeGenerator) Generate(_ context.Context, dir string) error {
	f.calls++
	f.dir = dir
	return f.err
}

func (f *fakeGenerator) Command() string { return "dart run ffigen --config ffigen.yaml" }

var errGeneratorBoom = errors.New("exit status 1")

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }
