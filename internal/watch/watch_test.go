package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/glueregen/internal/pipeline"
)

type countingRunner struct {
	mu       sync.Mutex
	opts     []pipeline.Options
	active   atomic.Int32
	overlaps atomic.Int32
	delay    time.Duration
}

func (c *countingRunner) Run(_ context.Context, opts pipeline.Options) (*pipeline.RunResult, error) {
	if c.active.Add(1) > 1 {
		c.overlaps.Add(1)
	}
	defer c.active.Add(-1)
	time.Sleep(c.delay)

	c.mu.Lock()
	c.opts = append(c.opts, opts)
	c.mu.Unlock()
	return &pipeline.RunResult{State: pipeline.StateCompleted}, nil
}

func (c *countingRunner) calls() []pipeline.Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]pipeline.Options(nil), c.opts...)
}

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}
}

// blockingRunner holds every run after the first until release is closed.
type blockingRunner struct {
	calls    atomic.Int32
	once     sync.Once
	started  chan struct{}
	release  chan struct{}
	finished atomic.Bool
}

func (b *blockingRunner) Run(context.Context, pipeline.Options) (*pipeline.RunResult, error) {
	if b.calls.Add(1) > 1 {
		b.once.Do(func() { close(b.started) })
		<-b.release
		b.finished.Store(true)
	}
	return &pipeline.RunResult{State: pipeline.StateCompleted}, nil
}

func TestWatcher_StopWaitsForTriggeredRun(t *testing.T) {
	dir := t.TempDir()
	runner := &blockingRunner{started: make(chan struct{}), release: make(chan struct{})}
	w, err := New(runner, Config{Dir: dir, Debounce: 10 * time.Millisecond}, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	select {
	case <-w.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher not ready")
	}

	require.NoError(t, os.WriteFile(filepath.Join(dir, "window.cpp"), []byte("x"), 0o644))
	select {
	case <-runner.started:
	case <-time.After(5 * time.Second):
		t.Fatal("triggered run did not start")
	}

	cancel()
	select {
	case <-done:
		t.Fatal("Run returned while a triggered run was in flight")
	case <-time.After(100 * time.Millisecond):
	}

	close(runner.release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
	require.True(t, runner.finished.Load())
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, Config{Dir: t.TempDir()}, nil)
	require.Error(t, err)
	_, err = New(&countingRunner{}, Config{}, nil)
	require.Error(t, err)
}

func TestWatcher_InitialRunAndChange(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "platform", "macos"), 0o755))

	runner := &countingRunner{}
	w, err := New(runner, Config{Dir: dir, Debounce: 20 * time.Millisecond}, quietLogger())
	require.NoError(t, err)
	startWatcher(t, w)

	calls := runner.calls()
	require.Len(t, calls, 1)
	require.False(t, calls[0].SkipRefresh)

	// a burst of writes coalesces into a single follow-up run
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "platform", "macos", "window.mm"), []byte{byte(i)}, 0o644))
	}
	require.Eventually(t, func() bool { return len(runner.calls()) >= 2 }, 5*time.Second, 10*time.Millisecond)
	triggered := runner.calls()[1]
	require.True(t, triggered.SkipRefresh)
}

func TestWatcher_NewDirectoriesAreWatched(t *testing.T) {
	dir := t.TempDir()
	runner := &countingRunner{}
	w, err := New(runner, Config{Dir: dir, Debounce: 20 * time.Millisecond}, quietLogger())
	require.NoError(t, err)
	startWatcher(t, w)

	sub := filepath.Join(dir, "foundation")
	require.NoError(t, os.Mkdir(sub, 0o755))
	require.Eventually(t, func() bool { return len(runner.calls()) >= 2 }, 5*time.Second, 10*time.Millisecond)

	n := len(runner.calls())
	require.NoError(t, os.WriteFile(filepath.Join(sub, "geometry.cpp"), []byte("x"), 0o644))
	require.Eventually(t, func() bool { return len(runner.calls()) > n }, 5*time.Second, 10*time.Millisecond)
}

func TestWatcher_PeriodicRefresh(t *testing.T) {
	runner := &countingRunner{}
	var observed atomic.Int32
	w, err := New(runner, Config{
		Dir:          t.TempDir(),
		RefreshEvery: 30 * time.Millisecond,
		OnRun:        func(*pipeline.RunResult, error) { observed.Add(1) },
	}, quietLogger())
	require.NoError(t, err)
	startWatcher(t, w)

	require.Eventually(t, func() bool { return len(runner.calls()) >= 3 }, 5*time.Second, 10*time.Millisecond)
	for _, opts := range runner.calls() {
		require.False(t, opts.SkipRefresh)
	}
	require.GreaterOrEqual(t, observed.Load(), int32(3))
}

func TestWatcher_RunsNeverOverlap(t *testing.T) {
	runner := &countingRunner{delay: 5 * time.Millisecond}
	w, err := New(runner, Config{Dir: t.TempDir()}, quietLogger())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.runOnce(context.Background(), pipeline.Options{})
		}()
	}
	wg.Wait()
	require.Len(t, runner.calls(), 8)
	require.Zero(t, runner.overlaps.Load())
}

func TestWatcher_MissingDir(t *testing.T) {
	w, err := New(&countingRunner{}, Config{Dir: filepath.Join(t.TempDir(), "gone")}, quietLogger())
	require.NoError(t, err)
	require.Error(t, w.Run(context.Background()))
}
