package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func exposition(t *testing.T, pr *PrometheusRecorder) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "glueregen.prom")
	require.NoError(t, pr.WriteTextfile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestPrometheusRecorder_Counters(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncStepResult("macos-implementation", ResultSuccess)
	pr.IncStepResult("macos-implementation", ResultSuccess)
	pr.IncStepResult("run-binding-generator", ResultWarning)
	pr.IncRunOutcome("completed")
	pr.SetFilesIncluded("macos-header", 7)
	pr.IncTargetChanged("macos-header")
	pr.IncRefreshRetry()

	text := exposition(t, pr)
	require.Contains(t, text, `glueregen_step_results_total{result="success",step="macos-implementation"} 2`)
	require.Contains(t, text, `glueregen_step_results_total{result="warning",step="run-binding-generator"} 1`)
	require.Contains(t, text, `glueregen_run_outcomes_total{outcome="completed"} 1`)
	require.Contains(t, text, `glueregen_target_files_included{target="macos-header"} 7`)
	require.Contains(t, text, `glueregen_target_changes_total{target="macos-header"} 1`)
	require.Contains(t, text, "glueregen_refresh_retries_total 1")
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.ObserveStepDuration("refresh-vendored-source", 150*time.Millisecond)
	pr.ObserveRunDuration(time.Second)
	pr.IncRunOutcome("failed")

	text := exposition(t, pr)
	require.Contains(t, text, "glueregen_step_duration_seconds_count{step=\"refresh-vendored-source\"} 1")
	require.Contains(t, text, "glueregen_run_outcomes_total{outcome=\"failed\"} 1")
	require.Contains(t, text, "glueregen_last_run_timestamp_seconds")
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.IncStepResult("x", ResultFatal)
		pr.ObserveRunDuration(time.Second)
		pr.SetFilesIncluded("x", 1)
	})
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.ObserveStepDuration("x", time.Second)
	r.IncStepResult("x", ResultSkipped)
	r.IncRunOutcome("completed")
}
