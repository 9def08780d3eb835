package main

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"mdviewer/internal/openfile"
)

// wailsBridge is the Wails side of openfile's Emitter and Window. Until
// startup hands it a context, pushes are dropped; the pending file is
// announced again once the UI is up.
type wailsBridge struct {
	mu  sync.RWMutex
	ctx context.Context
}

func (b *wailsBridge) setContext(ctx context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ctx = ctx
}

func (b *wailsBridge) currentContext() context.Context {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ctx
}

func (b *wailsBridge) Emit(event string, data ...any) {
	ctx := b.currentContext()
	if ctx == nil {
		return
	}
	runtime.EventsEmit(ctx, event, data...)
}

func (b *wailsBridge) Focus() {
	ctx := b.currentContext()
	if ctx == nil {
		return
	}
	runtime.WindowShow(ctx)
	runtime.WindowUnminimise(ctx)
	// Briefly pinning the window on top is what reliably raises it on
	// Windows when another process holds the foreground.
	runtime.WindowSetAlwaysOnTop(ctx, true)
	runtime.WindowSetAlwaysOnTop(ctx, false)
}

// dropSource reports files dropped on the window as {"paths": [...]}.
type dropSource struct{}

func (dropSource) Subscribe(ctx context.Context, sink openfile.SignalSink) {
	runtime.OnFileDrop(ctx, func(_, _ int, paths []string) {
		if len(paths) == 0 {
			return
		}
		payload, err := json.Marshal(map[string][]string{"paths": paths})
		if err != nil {
			return
		}
		sink(openfile.ChannelDrop, string(payload))
	})
}
