package assets

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/aefr/engine/bus"
)

func newWatcher(t *testing.T) (*Watcher, *bus.Receiver) {
	t.Helper()
	tx, rx := bus.New()
	w, err := NewWatcher(tx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, rx
}

// reloadedSlots collects RequestLoad slots until want of them arrived or the
// deadline passes.
func reloadedSlots(rx *bus.Receiver, want int, wait time.Duration) map[int]string {
	got := make(map[int]string)
	deadline := time.Now().Add(wait)
	for time.Now().Before(deadline) && len(got) < want {
		cmd, ok := rx.TryRecv()
		if !ok {
			time.Sleep(10 * time.Millisecond)
			continue
		}
		if req, isLoad := cmd.(bus.RequestLoad); isLoad {
			got[req.Slot] = req.Path
		}
	}
	return got
}

func TestWatcherSharedFileReloadsEverySlot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hina.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))
	w, rx := newWatcher(t)

	require.NoError(t, w.Track(0, "hina", []string{file}))
	require.NoError(t, w.Track(1, "hina", []string{file}))
	require.NoError(t, os.WriteFile(file, []byte(`{"a": 1}`), 0o644))

	got := reloadedSlots(rx, 2, 5*time.Second)
	assert.Equal(t, map[int]string{0: "hina", 1: "hina"}, got)
}

func TestWatcherUntrackKeepsSharingSlot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hina.json")
	require.NoError(t, os.WriteFile(file, []byte("{}"), 0o644))
	w, rx := newWatcher(t)

	require.NoError(t, w.Track(0, "hina", []string{file}))
	require.NoError(t, w.Track(1, "hina", []string{file}))
	w.Untrack(1)
	require.NoError(t, os.WriteFile(file, []byte(`{"a": 1}`), 0o644))

	got := reloadedSlots(rx, 1, 5*time.Second)
	assert.Equal(t, map[int]string{0: "hina"}, got)

	// anything for slot 1 arriving late would be a leak
	late := reloadedSlots(rx, 1, 300*time.Millisecond)
	assert.NotContains(t, late, 1)
}

func TestWatcherForgetsFilesOnceUnowned(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "hina.atlas")
	require.NoError(t, os.WriteFile(file, []byte(""), 0o644))
	w, _ := newWatcher(t)

	require.NoError(t, w.Track(0, "hina", []string{file}))
	require.NoError(t, w.Track(3, "hina", []string{file}))
	w.Untrack(0)
	abs, err := filepath.Abs(file)
	require.NoError(t, err)

	w.mu.Lock()
	assert.Equal(t, map[int]struct{}{3: {}}, w.files[abs])
	assert.Equal(t, 1, w.dirs[filepath.Dir(abs)])
	w.mu.Unlock()

	w.Untrack(3)
	w.mu.Lock()
	defer w.mu.Unlock()
	assert.Empty(t, w.files)
	assert.Empty(t, w.dirs)
}

func TestWatcherTrackAfterClose(t *testing.T) {
	w, _ := newWatcher(t)
	require.NoError(t, w.Close())
	assert.Error(t, w.Track(0, "hina", []string{"hina.json"}))
}
