package openfile

import (
	"context"
	"sync"
	"time"
)

// DefaultReplayDelays re-announce the pending file after a short and a
// longer grace period, for UIs that subscribe late.
var DefaultReplayDelays = []time.Duration{500 * time.Millisecond, 2 * time.Second}

// Replayer runs fn after each delay in the background. A new Schedule
// supersedes the previous one; Cancel drops the current schedule and Close
// drops it for good.
type Replayer struct {
	delays []time.Duration
	fn     func()

	mu     sync.Mutex
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func NewReplayer(delays []time.Duration, fn func()) *Replayer {
	return &Replayer{delays: append([]time.Duration(nil), delays...), fn: fn}
}

func (r *Replayer) Schedule() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || len(r.delays) == 0 {
		return
	}
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		start := time.Now()
		for _, d := range r.delays {
			wait := d - time.Since(start)
			if wait < 0 {
				wait = 0
			}
			t := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
			if ctx.Err() != nil {
				return
			}
			r.fn()
		}
	}()
}

func (r *Replayer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}

// Close cancels any pending replay, waits for it to exit and refuses
// further schedules.
func (r *Replayer) Close() {
	r.mu.Lock()
	r.closed = true
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
	r.mu.Unlock()
	r.wg.Wait()
}
