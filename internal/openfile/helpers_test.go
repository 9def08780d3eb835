package openfile

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

type emitted struct {
	Event string
	Data  []any
}

type recordingEmitter struct {
	mu     sync.Mutex
	events []emitted
}

func (r *recordingEmitter) Emit(event string, data ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, emitted{Event: event, Data: data})
}

func (r *recordingEmitter) snapshot() []emitted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]emitted(nil), r.events...)
}

func (r *recordingEmitter) count(event string) int {
	n := 0
	for _, e := range r.snapshot() {
		if e.Event == event {
			n++
		}
	}
	return n
}

type countingWindow struct {
	mu      sync.Mutex
	focuses int
}

func (w *countingWindow) Focus() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.focuses++
}

func (w *countingWindow) focusCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.focuses
}

// tempDir returns a symlink-free temp directory so expected paths match
// canonicalized results (macOS /var -> /private/var).
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return dir
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("# hello\n"), 0o644))
	return p
}

// testResolver resolves against cwd and the given fallback folders only.
func testResolver(cwd string, dirs ...string) *Resolver {
	return &Resolver{
		Getwd:         func() (string, error) { return cwd, nil },
		WellKnownDirs: func() []string { return dirs },
	}
}

func newTestSubsystem(t *testing.T, cwd string, dirs ...string) (*Subsystem, *recordingEmitter, *countingWindow) {
	t.Helper()
	em := &recordingEmitter{}
	win := &countingWindow{}
	s := New(Options{
		ExePath:        filepath.Join(cwd, "mdviewer"),
		DeepLinkScheme: "mdviewer",
		ReplayDelays:   []time.Duration{},
		Emitter:        em,
		Window:         win,
		Logger:         logger.NewDefaultLogger(),
		Resolver:       testResolver(cwd, dirs...),
	})
	t.Cleanup(s.Close)
	return s, em, win
}
