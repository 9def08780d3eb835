package openfile

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// Window is the running instance's main window.
type Window interface {
	// Focus brings the window to the foreground, restoring it if minimised.
	Focus()
}

// Coordinator handles launches redirected from a second process.
type Coordinator struct {
	slot       *Slot
	classifier *Classifier
	resolver   *Resolver
	delivery   *Delivery
	window     Window
	log        logger.Logger
}

func NewCoordinator(slot *Slot, classifier *Classifier, resolver *Resolver, delivery *Delivery, window Window, log logger.Logger) *Coordinator {
	return &Coordinator{
		slot:       slot,
		classifier: classifier,
		resolver:   resolver,
		delivery:   delivery,
		window:     window,
		log:        log,
	}
}

// HandleSecondLaunch resolves every document in args (the second launch's
// arguments, without the executable) relative to workDir, focuses the
// window and pushes the files as one batch. A bare re-launch only focuses.
func (c *Coordinator) HandleSecondLaunch(args []string, workDir string) []ResolvedPath {
	var resolved []ResolvedPath
	for _, cand := range c.classifier.ClassifyAll(args) {
		p, err := c.resolver.ResolveIn(cand.Value, workDir)
		if err != nil {
			c.log.Debug(fmt.Sprintf("[openfile] %s: %v", cand.Source, err))
			continue
		}
		resolved = append(resolved, p)
	}
	resolved = lo.Uniq(resolved)
	c.log.Info(fmt.Sprintf("[openfile] second launch args=%q cwd=%q resolved=%d", args, workDir, len(resolved)))

	if c.window != nil {
		c.window.Focus()
	}
	if len(resolved) == 0 {
		return nil
	}
	for _, p := range resolved {
		c.slot.Set(p)
	}
	c.delivery.PushBatch(resolved)
	return resolved
}
