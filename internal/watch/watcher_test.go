package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"guard-analytics/pkg/config"
)

type countingReloader struct {
	calls atomic.Int32
}

func (r *countingReloader) Reload(ctx context.Context) uint64 {
	return uint64(r.calls.Add(1))
}

func startWatcher(t *testing.T, enabled bool, paths ...string) (*Watcher, *countingReloader, context.CancelFunc) {
	t.Helper()
	reloader := &countingReloader{}
	w := New(config.WatchConfig{Enabled: enabled, Debounce: 100 * time.Millisecond}, paths, reloader, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, w.Start(ctx))
	return w, reloader, cancel
}

func stop(t *testing.T, w *Watcher, cancel context.CancelFunc) {
	t.Helper()
	cancel()
	select {
	case <-w.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("watcher не остановился")
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "activity.csv")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o644))

	w, reloader, cancel := startWatcher(t, true, target)
	defer stop(t, w, cancel)

	for _, v := range []string{"v1", "v2", "v3"} {
		require.NoError(t, os.WriteFile(target, []byte(v), 0o644))
	}

	require.Eventually(t, func() bool { return reloader.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), reloader.calls.Load())
}

func TestWatcher_AtomicReplace(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "attendance.csv")
	require.NoError(t, os.WriteFile(target, []byte("v0"), 0o644))

	w, reloader, cancel := startWatcher(t, true, target)
	defer stop(t, w, cancel)

	tmp := filepath.Join(dir, ".upload-tmp.csv")
	require.NoError(t, os.WriteFile(tmp, []byte("v1"), 0o644))
	require.NoError(t, os.Rename(tmp, target))

	require.Eventually(t, func() bool { return reloader.calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	target := filepath.Join(dir, "activity.csv")

	w, reloader, cancel := startWatcher(t, true, target)
	defer stop(t, w, cancel)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(0), reloader.calls.Load())
}

func TestWatcher_Disabled(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, _, cancel := startWatcher(t, false, filepath.Join(t.TempDir(), "activity.csv"))
	defer cancel()

	select {
	case <-w.Done():
	default:
		t.Fatal("выключенный watcher должен сразу завершиться")
	}
}
