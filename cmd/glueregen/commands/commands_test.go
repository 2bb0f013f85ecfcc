package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/glueregen/internal/classify"
	"git.home.luguber.info/inful/glueregen/internal/config"
	"git.home.luguber.info/inful/glueregen/internal/foundation/errors"
	"git.home.luguber.info/inful/glueregen/internal/pipeline"
	"git.home.luguber.info/inful/glueregen/internal/testutil"
)

func parse(t *testing.T, args ...string) (*kong.Context, *CLI) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("glueregen"), kong.Vars{"version": "test"}, kong.Exit(func(int) {}))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx, cli
}

func global() *Global {
	return &Global{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// newPackage writes a minimal package with a single implementation target.
func newPackage(t *testing.T) string {
	t.Helper()
	pkg := t.TempDir()
	testutil.WriteTree(t, pkg, map[string]string{
		"cxx_impl/src/capi/app_c.h":                "",
		"cxx_impl/src/platform/macos/app_macos.mm": "",
		"cxx_impl/src/platform/ios/app_ios.mm":     "",
		"cxx_impl/src/app.cpp":                     "",
		"cxx_impl/src/app.h":                       "",
		"macos/glue.mm":                            "// Include source files\n",
		config.DefaultFile: `version: "1"
refresh:
  skip: true
generator:
  skip: true
targets:
  - name: macos-implementation
    kind: implementation
    path: macos/glue.mm
    platform: macos
`,
	})
	return pkg
}

func TestCLI_DefaultCommandAndAliases(t *testing.T) {
	ctx, cli := parse(t)
	require.Equal(t, "regen", ctx.Command())
	require.False(t, cli.Regen.NoSubmoduleUpdate)

	_, cli = parse(t, "--no-submodule-update")
	require.True(t, cli.Regen.NoSubmoduleUpdate)

	_, cli = parse(t, "regen", "--skip-refresh", "--skip-generator")
	require.True(t, cli.Regen.NoSubmoduleUpdate)
	require.True(t, cli.Regen.SkipGenerator)

	ctx, cli = parse(t, "list", "-p", "ios", "-k", "headers")
	require.Equal(t, "list", ctx.Command())
	require.Equal(t, "ios", cli.List.Platform)
	require.Equal(t, "headers", cli.List.Kind)

	ctx, cli = parse(t, "watch", "--debounce", "2s")
	require.Equal(t, "watch", ctx.Command())
	require.Equal(t, 2*time.Second, cli.Watch.Debounce)
}

func TestRegen_EndToEnd(t *testing.T) {
	pkg := newPackage(t)
	metricsFile := filepath.Join(t.TempDir(), "glueregen.prom")
	ctx, cli := parse(t, "-c", filepath.Join(pkg, config.DefaultFile), "--metrics-file", metricsFile)

	require.NoError(t, ctx.Run(global(), cli))

	testutil.NewFileAssertions(t, pkg).AssertFileEquals("macos/glue.mm", "// Include source files\n"+
		"#include \"../cxx_impl/src/platform/macos/app_macos.mm\"\n"+
		"#include \"../cxx_impl/src/app.cpp\"\n")

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `glueregen_run_outcomes_total{outcome="completed"} 1`)
}

func TestCheck_DriftExitCode(t *testing.T) {
	pkg := newPackage(t)
	cfgPath := filepath.Join(pkg, config.DefaultFile)

	ctx, cli := parse(t, "-c", cfgPath, "check")
	err := ctx.Run(global(), cli)
	require.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))

	ctx, cli = parse(t, "-c", cfgPath)
	require.NoError(t, ctx.Run(global(), cli))

	ctx, cli = parse(t, "-c", cfgPath, "check")
	require.NoError(t, ctx.Run(global(), cli))
}

func TestRegen_MissingSourceExitCode(t *testing.T) {
	pkg := newPackage(t)
	require.NoError(t, os.RemoveAll(filepath.Join(pkg, "cxx_impl")))

	ctx, cli := parse(t, "-c", filepath.Join(pkg, config.DefaultFile))
	err := ctx.Run(global(), cli)
	require.Error(t, err)
	require.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.DefaultFile)
	writeFile(t, path, "unknown_key: true\n")

	_, err := loadConfig(&CLI{Config: path})
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestList(t *testing.T) {
	pkg := newPackage(t)
	cfg, err := config.Load(filepath.Join(pkg, config.DefaultFile))
	require.NoError(t, err)
	c := classify.New(classify.Options{})

	var buf bytes.Buffer
	require.NoError(t, (&ListCmd{Platform: "ios", Kind: "sources"}).list(&buf, cfg, c))
	out := buf.String()
	require.Contains(t, out, "platform/ios/app_ios.mm")
	require.NotContains(t, out, "app_macos.mm")
	require.Contains(t, out, "2 files, platform: 1, core: 1")

	buf.Reset()
	require.NoError(t, (&ListCmd{Kind: "capi"}).list(&buf, cfg, c))
	require.Contains(t, buf.String(), "capi/app_c.h")
	require.Contains(t, buf.String(), "1 files, capi: 1")
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultFile)
	ctx, cli := parse(t, "-c", path, "init")
	require.NoError(t, ctx.Run(global(), cli))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Targets, 5)

	ctx, cli = parse(t, "-c", path, "init")
	err = ctx.Run(global(), cli)
	require.True(t, errors.HasCategory(err, errors.CategoryValidation))

	ctx, cli = parse(t, "-c", path, "init", "--force")
	require.NoError(t, ctx.Run(global(), cli))
}

func TestPrintSummary(t *testing.T) {
	res := &pipeline.RunResult{
		State:    pipeline.StateCompleted,
		Duration: 42 * time.Millisecond,
		Steps: []pipeline.StepResult{
			{Name: pipeline.StepRefresh, Status: pipeline.StatusSkipped},
			{Name: "macos-header", Status: pipeline.StatusSucceeded, Changed: true, FilesIncluded: 3,
				Counts: map[classify.Category]int{classify.CategoryCPPHeader: 2, classify.CategoryCAPI: 1}},
			{Name: pipeline.StepGenerator, Status: pipeline.StatusWarning,
				Err: errors.ExternalError("binding generator failed").
					WithContext("remediation", "dart run ffigen --config ffigen.yaml").Build()},
		},
	}

	var buf bytes.Buffer
	printSummary(&buf, res)
	out := buf.String()
	require.Contains(t, out, "macos-header")
	require.Contains(t, out, "updated")
	require.Contains(t, out, "3 files")
	require.Contains(t, out, "You can manually run: dart run ffigen --config ffigen.yaml")
	require.Contains(t, out, "CompletedAllSteps in 42ms")
	require.Contains(t, out, "1. Review the changes: git status")

	buf.Reset()
	res.DryRun = true
	printSummary(&buf, res)
	require.Contains(t, buf.String(), "out-of-date")
	require.NotContains(t, buf.String(), "Next steps")
}
