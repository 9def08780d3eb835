package instance

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wailsapp/wails/v2/pkg/logger"

	"mdviewer/internal/openfile"
)

type launchRecorder struct {
	mu       sync.Mutex
	launches []Launch
}

func (r *launchRecorder) handle(l Launch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.launches = append(r.launches, l)
}

func (r *launchRecorder) all() []Launch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Launch(nil), r.launches...)
}

func startServer(t *testing.T, cfg Config, handle func(Launch)) *Server {
	t.Helper()
	srv, err := Listen(cfg)
	require.NoError(t, err)
	go func() { _ = srv.Serve(handle) }()
	t.Cleanup(func() { _ = srv.Close() })
	return srv
}

func TestNotifyDeliversLaunch(t *testing.T) {
	cfg := Config{AppID: "MarkdownViewerTest", Dir: t.TempDir()}
	rec := &launchRecorder{}
	startServer(t, cfg, rec.handle)

	err := Notify(cfg, Launch{Args: []string{"notes.md", "--x"}, WorkingDirectory: "/work"})
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	got := rec.all()[0]
	assert.Equal(t, []string{"notes.md", "--x"}, got.Args)
	assert.Equal(t, "/work", got.WorkingDirectory)
}

func TestServerRejectsWrongToken(t *testing.T) {
	cfg := Config{AppID: "MarkdownViewerTest", Dir: t.TempDir()}
	rec := &launchRecorder{}
	startServer(t, cfg, rec.handle)

	info, err := readInstanceInfo(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, info.Token)

	conn, err := net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", info.Port))
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(conn).Encode(Launch{Token: "forged", Args: []string{"x.md"}}))
	_ = conn.Close()

	// A valid launch afterwards proves the server is still serving.
	require.NoError(t, Notify(cfg, Launch{Args: []string{"ok.md"}}))
	require.Eventually(t, func() bool { return len(rec.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	launches := rec.all()
	require.Len(t, launches, 1)
	assert.Equal(t, []string{"ok.md"}, launches[0].Args)
}

func TestNotifyWithoutRunningInstance(t *testing.T) {
	cfg := Config{AppID: "MarkdownViewerTest", Dir: t.TempDir()}

	start := time.Now()
	err := Notify(cfg, Launch{Args: []string{"a.md"}})
	assert.Error(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestListenRewritesInstanceInfo(t *testing.T) {
	cfg := Config{AppID: "MarkdownViewerTest", Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Dir, "instance.json"), []byte(`{"port":1,"token":"stale"}`), 0o600))

	srv := startServer(t, cfg, func(Launch) {})
	info, err := readInstanceInfo(cfg)
	require.NoError(t, err)
	assert.Equal(t, srv.token, info.Token)
	assert.NotEqual(t, 1, info.Port)
}

type focusRecorder struct {
	mu sync.Mutex
	n  int
}

func (f *focusRecorder) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
}

func (f *focusRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

type eventRecorder struct {
	mu     sync.Mutex
	events map[string][]any
}

func (e *eventRecorder) Emit(event string, data ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.events == nil {
		e.events = map[string][]any{}
	}
	e.events[event] = append(e.events[event], data...)
}

func (e *eventRecorder) get(event string) []any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]any(nil), e.events[event]...)
}

// A second launch with ["app", "notes.md"] while the first is running ends
// up as one instance-args push and one focus request in the first process.
func TestSecondLaunchHandoff(t *testing.T) {
	cfg := Config{AppID: "MarkdownViewerTest", Dir: t.TempDir()}
	workDir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	notes := filepath.Join(workDir, "notes.md")
	require.NoError(t, os.WriteFile(notes, []byte("# notes\n"), 0o644))

	events := &eventRecorder{}
	window := &focusRecorder{}
	sub := openfile.New(openfile.Options{
		ExePath:      "app",
		ReplayDelays: []time.Duration{},
		Emitter:      events,
		Window:       window,
		Logger:       logger.NewDefaultLogger(),
		Resolver: &openfile.Resolver{
			Getwd:         func() (string, error) { return t.TempDir(), nil },
			WellKnownDirs: func() []string { return nil },
		},
	})
	defer sub.Close()

	primary, release, err := TryAcquire(cfg)
	require.NoError(t, err)
	require.True(t, primary)
	defer release()

	startServer(t, cfg, func(l Launch) {
		sub.Coordinator.HandleSecondLaunch(l.Args, l.WorkingDirectory)
	})

	// Second process.
	secondArgs := []string{"app", "notes.md"}
	second, _, err := TryAcquire(cfg)
	require.NoError(t, err)
	if second {
		t.Fatal("second launch must not become primary")
	}
	require.NoError(t, Notify(cfg, Launch{Args: secondArgs[1:], WorkingDirectory: workDir}))

	require.Eventually(t, func() bool { return len(events.get(openfile.EventInstanceArgs)) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []any{[]string{notes}}, events.get(openfile.EventInstanceArgs))
	assert.Equal(t, 1, window.count())
}
