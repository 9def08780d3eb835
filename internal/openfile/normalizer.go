package openfile

import (
	"context"
	"errors"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Normalizer turns platform "open this file" signals into the pending
// file. Every channel goes through the same decode and validation; payloads
// that do not name an acceptable existing file are dropped quietly, since
// most channel firings are unrelated noise.
type Normalizer struct {
	slot       *Slot
	classifier *Classifier
	resolver   *Resolver
	decoder    Decoder
	delivery   *Delivery
	log        logger.Logger
}

func NewNormalizer(slot *Slot, classifier *Classifier, resolver *Resolver, decoder Decoder, delivery *Delivery, log logger.Logger) *Normalizer {
	return &Normalizer{
		slot:       slot,
		classifier: classifier,
		resolver:   resolver,
		decoder:    decoder,
		delivery:   delivery,
		log:        log,
	}
}

// Attach subscribes the normalizer to src.
func (n *Normalizer) Attach(ctx context.Context, src PlatformSignalSource) {
	src.Subscribe(ctx, func(channel, payload string) {
		n.Handle(channel, payload)
	})
}

// Handle decodes one payload from channel. On success the resolved path is
// stored, pushed, and scheduled for replay.
func (n *Normalizer) Handle(channel, payload string) (ResolvedPath, bool) {
	source, ok := channelSources[channel]
	if !ok {
		n.log.Debug(fmt.Sprintf("[openfile] ignoring unknown channel %q", channel))
		return "", false
	}

	p, err := n.decode(source, payload)
	if err != nil {
		n.log.Debug(fmt.Sprintf("[openfile] %s: %v", source, err))
		return "", false
	}

	n.log.Info(fmt.Sprintf("[openfile] %s resolved %q", source, p))
	n.slot.Set(p)
	n.delivery.PushFile(p)
	n.delivery.replay.Schedule()
	return p, true
}

func (n *Normalizer) decode(source Source, payload string) (ResolvedPath, error) {
	values, err := n.decoder.Decode(payload)
	if err != nil {
		return "", err
	}
	var lastErr error
	for _, v := range values {
		p, err := n.accept(Candidate{Value: v, Source: source})
		if err == nil {
			return p, nil
		}
		lastErr = err
	}
	return "", lastErr
}

var errRejected = errors.New("rejected candidate")

func (n *Normalizer) accept(c Candidate) (ResolvedPath, error) {
	v := trimArg(c.Value)
	switch {
	case v == "":
		return "", fmt.Errorf("%w: empty", errRejected)
	case n.classifier.IsFlag(v):
		return "", fmt.Errorf("%w: flag %q", errRejected, v)
	case n.classifier.NamesExecutable(v):
		return "", fmt.Errorf("%w: executable %q", errRejected, v)
	case !n.classifier.Accepts(v):
		return "", fmt.Errorf("%w: extension of %q", errRejected, v)
	}
	return n.resolver.Resolve(v)
}
