package openfile

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Push event names seen by the UI.
const (
	EventFileAssociation = "file-association"
	EventInstanceArgs    = "instance-args"
)

// Emitter pushes a named event to the UI. Implementations drop events the
// UI cannot receive yet.
type Emitter interface {
	Emit(event string, data ...any)
}

// Delivery is the UI-facing side of the pending slot: Query to pull,
// Push*/Announce to push, Consume to clear. The UI must treat repeated
// pushes of the same path as a no-op.
type Delivery struct {
	slot    *Slot
	emitter Emitter
	log     logger.Logger
	replay  *Replayer
}

func NewDelivery(slot *Slot, emitter Emitter, log logger.Logger, replayDelays []time.Duration) *Delivery {
	d := &Delivery{slot: slot, emitter: emitter, log: log}
	d.replay = NewReplayer(replayDelays, func() { d.announceCurrent() })
	return d
}

// Query returns the pending file without clearing it.
func (d *Delivery) Query() (ResolvedPath, bool) {
	return d.slot.Get()
}

// Consume clears the slot and stops re-announcing it.
func (d *Delivery) Consume() {
	d.slot.Clear()
	d.replay.Cancel()
}

// PushFile sends a single-file notification.
func (d *Delivery) PushFile(p ResolvedPath) {
	d.log.Debug(fmt.Sprintf("[openfile] push %s %q", EventFileAssociation, p))
	d.emitter.Emit(EventFileAssociation, string(p))
}

// PushBatch sends the files handed over by a second launch.
func (d *Delivery) PushBatch(paths []ResolvedPath) {
	list := lo.Map(paths, func(p ResolvedPath, _ int) string { return string(p) })
	d.log.Debug(fmt.Sprintf("[openfile] push %s %q", EventInstanceArgs, list))
	d.emitter.Emit(EventInstanceArgs, list)
}

// Announce pushes the pending file, if any, and schedules the grace-period
// replays.
func (d *Delivery) Announce() {
	if d.announceCurrent() {
		d.replay.Schedule()
	}
}

// Close stops replays; nothing is pushed by them afterwards.
func (d *Delivery) Close() {
	d.replay.Close()
}

func (d *Delivery) announceCurrent() bool {
	p, ok := d.slot.Get()
	if !ok {
		return false
	}
	d.PushFile(p)
	return true
}
