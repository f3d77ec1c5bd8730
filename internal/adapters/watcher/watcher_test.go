package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/foundry/internal/adapters/watcher"
	"go.trai.ch/foundry/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

// waitForBatch rewrites path until the watcher reports a batch naming it or the deadline passes.
func waitForBatch(t *testing.T, path string, batches <-chan []string) []string {
	t.Helper()

	deadline := time.After(5 * time.Second)
	for {
		require.NoError(t, os.WriteFile(path, []byte("func main() {}\n"), 0o600))
		select {
		case paths := <-batches:
			if slices.ContainsFunc(paths, func(p string) bool {
				return filepath.Base(p) == filepath.Base(path)
			}) {
				return paths
			}
		case <-time.After(100 * time.Millisecond):
		case <-deadline:
			t.Fatal("timed out waiting for watcher batch")
			return nil
		}
	}
}

func startWatcher(t *testing.T, root string) (<-chan []string, context.CancelFunc, <-chan error) {
	t.Helper()

	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	w := watcher.NewWatcher(log, 20*time.Millisecond)
	batches := make(chan []string, 256)
	done := make(chan error, 1)

	ctx, cancel := context.WithCancel(t.Context())
	go func() {
		done <- w.Watch(ctx, root, func(paths []string) {
			batches <- paths
		})
	}()
	return batches, cancel, done
}

func TestWatcher_ReportsContractChanges(t *testing.T) {
	root := t.TempDir()
	batches, cancel, done := startWatcher(t, root)

	paths := waitForBatch(t, filepath.Join(root, "test_math.cairo"), batches)
	assert.Len(t, paths, 1)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	root := t.TempDir()
	batches, cancel, done := startWatcher(t, root)

	// Prime the watcher so it is known to be running.
	waitForBatch(t, filepath.Join(root, "test_ready.cairo"), batches)

	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0o600))

	select {
	case paths := <-batches:
		for _, p := range paths {
			assert.Equal(t, ".cairo", filepath.Ext(p))
		}
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_NewDirectories(t *testing.T) {
	root := t.TempDir()
	batches, cancel, done := startWatcher(t, root)

	waitForBatch(t, filepath.Join(root, "test_ready.cairo"), batches)

	sub := filepath.Join(root, "nested")
	require.NoError(t, os.Mkdir(sub, 0o750))

	paths := waitForBatch(t, filepath.Join(sub, "test_deep.cairo"), batches)
	assert.Contains(t, paths, filepath.Join(sub, "test_deep.cairo"))

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingRoot(t *testing.T) {
	ctrl := gomock.NewController(t)
	w := watcher.NewWatcher(mocks.NewMockLogger(ctrl), 0)

	ctx, cancel := context.WithTimeout(t.Context(), 100*time.Millisecond)
	defer cancel()

	// A missing root yields no directories to add; Watch returns when ctx ends.
	err := w.Watch(ctx, filepath.Join(t.TempDir(), "missing"), func([]string) {})
	assert.NoError(t, err)
}
