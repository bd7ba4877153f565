// Package emergency stops playback from a global key press, independent of
// whatever window has focus.
package emergency

import (
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/vedantwpatil/Auto-Clicker/internal/logging"
	"github.com/vedantwpatil/Auto-Clicker/internal/tracking"
)

// KeySource is the part of the input monitor the controller listens on.
type KeySource interface {
	OnKeyDown(tracking.KeyListener) tracking.Subscription
}

type Stopper interface {
	Stop()
}

// Controller stays subscribed for the life of the process. There is no way to
// turn it off.
type Controller struct {
	key       uint16
	playback  Stopper
	logger    *zap.Logger
	triggered atomic.Uint64
	notify    atomic.Pointer[func()]
}

func NewController(keys KeySource, playback Stopper, key uint16, logger *zap.Logger) *Controller {
	c := &Controller{
		key:      key,
		playback: playback,
		logger:   logging.Component(logger, "emergency-stop"),
	}
	keys.OnKeyDown(c.handleKey)
	return c
}

// OnTrigger sets fn to be called after playback has been stopped by the key.
// A later call replaces the earlier fn; nil removes it.
func (c *Controller) OnTrigger(fn func()) {
	if fn == nil {
		c.notify.Store(nil)
		return
	}
	c.notify.Store(&fn)
}

func (c *Controller) handleKey(k tracking.Key) {
	if k.Code != c.key {
		return
	}
	c.triggered.Add(1)
	c.playback.Stop()
	c.logger.Warn("emergency stop triggered", zap.Uint16("keycode", k.Code))
	if fn := c.notify.Load(); fn != nil {
		(*fn)()
	}
}

// Triggered returns how many times the stop key has been seen.
func (c *Controller) Triggered() uint64 {
	return c.triggered.Load()
}
