// Package openfile decides which document the OS asked the application to
// open and hands it to the UI.
//
// The OS reports the same intent through several channels: command-line
// arguments, macOS open-file and open-url events, drag-and-drop, deep links
// and a second process launched while this one is running. Each is
// normalized into a ResolvedPath and stored in a single Slot. The UI reads
// the slot on demand (Delivery.Query) and also receives push events. Pushes
// may repeat, so the UI must treat the same path arriving twice as a no-op.
package openfile

import (
	"fmt"
	"strings"
	"time"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Options configures a Subsystem.
type Options struct {
	// ExePath is the running executable; arguments naming it are ignored.
	ExePath string
	// Extensions accepted as documents. Empty means DefaultExtensions.
	Extensions []string
	// DeepLinkScheme is the app's URL scheme, e.g. "mdviewer".
	DeepLinkScheme string
	// ReplayDelays for re-announcing the pending file. Nil means
	// DefaultReplayDelays.
	ReplayDelays []time.Duration

	Emitter Emitter
	Window  Window
	Logger  logger.Logger

	// Resolver overrides the default working-directory and well-known
	// folder lookups.
	Resolver *Resolver
}

// Subsystem wires the components around one Slot.
type Subsystem struct {
	Slot        *Slot
	Classifier  *Classifier
	Resolver    *Resolver
	Decoder     Decoder
	Delivery    *Delivery
	Normalizer  *Normalizer
	Coordinator *Coordinator

	log logger.Logger
}

func New(opts Options) *Subsystem {
	log := opts.Logger
	if log == nil {
		log = logger.NewDefaultLogger()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewResolver()
	}
	delays := opts.ReplayDelays
	if delays == nil {
		delays = DefaultReplayDelays
	}
	emitter := opts.Emitter
	if emitter == nil {
		emitter = nopEmitter{}
	}

	s := &Subsystem{
		Slot:       &Slot{},
		Classifier: NewClassifier(opts.ExePath, opts.Extensions),
		Resolver:   resolver,
		Decoder:    Decoder{Scheme: opts.DeepLinkScheme},
		log:        log,
	}
	s.Delivery = NewDelivery(s.Slot, emitter, log, delays)
	s.Normalizer = NewNormalizer(s.Slot, s.Classifier, s.Resolver, s.Decoder, s.Delivery, log)
	s.Coordinator = NewCoordinator(s.Slot, s.Classifier, s.Resolver, s.Delivery, opts.Window, log)
	return s
}

// Seed sets the initial pending file from the process arguments (args[0] is
// the executable). When no document argument resolves, URL-shaped arguments
// are offered to the normalizer as deep links. Seed does not push; the UI
// is told via Announce once it is up.
func (s *Subsystem) Seed(args []string) (ResolvedPath, bool) {
	if cand, ok := s.Classifier.Classify(args); ok {
		p, err := s.Resolver.Resolve(cand.Value)
		if err == nil {
			s.log.Info(fmt.Sprintf("[openfile] %s resolved %q", cand.Source, p))
			s.Slot.Set(p)
			return p, true
		}
		s.log.Debug(fmt.Sprintf("[openfile] %s: %v", cand.Source, err))
	}

	if len(args) > 1 {
		for _, arg := range args[1:] {
			if !s.looksLikeLink(arg) {
				continue
			}
			values, err := s.Decoder.Decode(arg)
			if err != nil {
				continue
			}
			for _, v := range values {
				p, err := s.Normalizer.accept(Candidate{Value: v, Source: SourceDeepLink})
				if err != nil {
					continue
				}
				s.log.Info(fmt.Sprintf("[openfile] %s resolved %q", SourceDeepLink, p))
				s.Slot.Set(p)
				return p, true
			}
		}
	}
	return "", false
}

// HandleLaunch takes a launch handed over by a second process. Plain
// document arguments go to the Coordinator; when none resolves, URL-shaped
// arguments are offered to the normalizer as deep links, newest last.
func (s *Subsystem) HandleLaunch(args []string, workDir string) []ResolvedPath {
	if resolved := s.Coordinator.HandleSecondLaunch(args, workDir); len(resolved) > 0 {
		return resolved
	}
	for _, arg := range args {
		if !s.looksLikeLink(arg) {
			continue
		}
		if p, ok := s.Normalizer.Handle(ChannelDeepLink, trimArg(arg)); ok {
			return []ResolvedPath{p}
		}
	}
	return nil
}

// Close stops background replays.
func (s *Subsystem) Close() {
	s.Delivery.Close()
}

type nopEmitter struct{}

func (nopEmitter) Emit(string, ...any) {}

func (s *Subsystem) looksLikeLink(arg string) bool {
	arg = strings.ToLower(trimArg(arg))
	if strings.HasPrefix(arg, "file://") {
		return true
	}
	return s.Decoder.Scheme != "" && strings.HasPrefix(arg, strings.ToLower(s.Decoder.Scheme)+"://")
}
