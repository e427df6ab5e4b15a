package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBareLayout(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, sub := range []string{"refs/heads", "logs", "worktrees"} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0o750))
	}
	return dir
}

func TestNewWatchesExistingTree(t *testing.T) {
	dir := newBareLayout(t)
	w, err := New(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	assert.True(t, w.underRoot(filepath.Join(dir, "refs", "heads")))
	assert.False(t, w.underRoot(filepath.Join(dir, "objects")))
}

func TestWatcherSignalsOnRefChange(t *testing.T) {
	dir := newBareLayout(t)
	w, err := New(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "refs", "heads", "main"), []byte("abc123\n"), 0o600))

	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a refresh signal after a ref write")
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := newBareLayout(t)
	w, err := New(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "refs", "heads", "main"), []byte("abc123\n"), 0o600))
	}

	select {
	case <-w.Events():
	case <-time.After(3 * time.Second):
		t.Fatal("expected at least one refresh signal for the burst")
	}

	// The channel is buffered with capacity 1 and coalesces bursts within
	// Debounce, so a second signal shouldn't already be queued.
	select {
	case <-w.Events():
		t.Fatal("burst within debounce window should have coalesced to one signal")
	default:
	}
}

func TestWatcherTracksNewlyCreatedDir(t *testing.T) {
	dir := newBareLayout(t)
	w, err := New(dir, nil)
	require.NoError(t, err)
	defer w.Close()

	newDir := filepath.Join(dir, "worktrees", "feature-a")
	require.NoError(t, os.MkdirAll(newDir, 0o750))

	assert.Eventually(t, func() bool {
		w.mu.Lock()
		defer w.mu.Unlock()
		_, ok := w.paths[newDir]
		return ok
	}, 3*time.Second, 20*time.Millisecond)
}

func TestCloseIsIdempotent(t *testing.T) {
	dir := newBareLayout(t)
	w, err := New(dir, nil)
	require.NoError(t, err)

	w.Close()
	assert.NotPanics(t, func() { w.Close() })
}

func TestDebugfWithNilLogfDoesNotPanic(t *testing.T) {
	w := &Watcher{}
	assert.NotPanics(t, func() { w.debugf("test %d", 1) })
}
