package docwatch

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type changeRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (c *changeRecorder) record(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, p)
}

func (c *changeRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.paths)
}

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte("one"), 0o644))

	rec := &changeRecorder{}
	w := New(rec.record, 20*time.Millisecond)
	defer w.Close()
	require.NoError(t, w.Watch(doc))
	assert.Equal(t, doc, w.Path())

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(doc, []byte("burst"), 0o644))
	}

	require.Eventually(t, func() bool { return rec.count() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, rec.count(), "a burst of writes is reported once")
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte("one"), 0o644))

	rec := &changeRecorder{}
	w := New(rec.record, 10*time.Millisecond)
	defer w.Close()
	require.NoError(t, w.Watch(doc))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestWatcherUnwatch(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "doc.md")
	require.NoError(t, os.WriteFile(doc, []byte("one"), 0o644))

	rec := &changeRecorder{}
	w := New(rec.record, 10*time.Millisecond)
	require.NoError(t, w.Watch(doc))
	w.Unwatch()
	w.Unwatch()
	assert.Empty(t, w.Path())

	require.NoError(t, os.WriteFile(doc, []byte("two"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New(func(string) {}, 0)
	defer w.Close()
	assert.Error(t, w.Watch(filepath.Join(t.TempDir(), "nope", "doc.md")))
}
