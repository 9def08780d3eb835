package openfile

import (
	"context"
	"sync"
)

// Source identifies the channel a candidate path arrived on.
type Source string

const (
	SourceCLIArgs            Source = "cli-args"
	SourceDropEvent          Source = "drop-event"
	SourceOpenFileEvent      Source = "open-file-event"
	SourceOpenURLEvent       Source = "open-url-event"
	SourceDeepLink           Source = "deep-link"
	SourceSecondInstanceArgs Source = "second-instance-args"
)

// Channel ids accepted by Normalizer.Handle.
const (
	ChannelDrop     = "drop"
	ChannelOpenFile = "open-file"
	ChannelOpenURL  = "open-url"
	ChannelDeepLink = "deep-link"
)

// channelSources is the subscription table the normalizer dispatches through.
var channelSources = map[string]Source{
	ChannelDrop:     SourceDropEvent,
	ChannelOpenFile: SourceOpenFileEvent,
	ChannelOpenURL:  SourceOpenURLEvent,
	ChannelDeepLink: SourceDeepLink,
}

// Candidate is an unresolved path string paired with where it came from.
type Candidate struct {
	Value  string
	Source Source
}

// ResolvedPath is an absolute path that existed on disk when it was resolved.
type ResolvedPath string

func (p ResolvedPath) String() string { return string(p) }

// SignalSink receives one raw payload from a platform channel.
type SignalSink func(channel, payload string)

// PlatformSignalSource is a platform channel that can report
// "the user wants to open file X".
type PlatformSignalSource interface {
	Subscribe(ctx context.Context, sink SignalSink)
}

// CallbackSource adapts push-style platform callbacks (macOS open-file and
// open-url events) to PlatformSignalSource. Deliveries that arrive before
// Subscribe are queued and flushed on subscription, and deliveries racing
// the flush queue behind it so the sink sees them in arrival order.
type CallbackSource struct {
	channel string

	mu       sync.Mutex
	sink     SignalSink
	flushing bool
	pending  []string
}

func NewCallbackSource(channel string) *CallbackSource {
	return &CallbackSource{channel: channel}
}

// Deliver forwards payload to the subscriber, or queues it while there is
// none yet or a flush is in progress.
func (s *CallbackSource) Deliver(payload string) {
	s.mu.Lock()
	sink := s.sink
	if sink == nil || s.flushing {
		s.pending = append(s.pending, payload)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	sink(s.channel, payload)
}

func (s *CallbackSource) Subscribe(ctx context.Context, sink SignalSink) {
	s.mu.Lock()
	s.sink = sink
	s.flushing = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		queued := s.pending
		s.pending = nil
		if len(queued) == 0 || ctx.Err() != nil {
			s.flushing = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		for _, payload := range queued {
			sink(s.channel, payload)
		}
	}
}
